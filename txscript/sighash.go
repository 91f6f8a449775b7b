// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/params"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// sigHashForkValue is the chain's fork-id integer carried in the high 24
// bits of the widened hash type field of the preimage.  Zero on this chain.
const sigHashForkValue = 0

// calcHashPrevOuts calculates a single hash of all the previous outputs
// (txid:index pairs) referenced within the passed transaction.  This
// calculated hash can be re-used when validating all inputs spending with
// signature hash types which sign all inputs.
func calcHashPrevOuts(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		// First write out the 32-byte transaction ID one of whose
		// outputs are being referenced by this input.
		b.Write(in.PreviousOutPoint.Hash[:])

		// Next, we'll encode the index of the referenced output as a
		// little endian integer.
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], in.PreviousOutPoint.Index)
		b.Write(buf[:])
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashSequence computes an aggregated hash of each of the sequence
// numbers within the inputs of the passed transaction.
func calcHashSequence(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, in := range tx.TxIn {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], in.Sequence)
		b.Write(buf[:])
	}

	return chainhash.DoubleHashH(b.Bytes())
}

// calcHashOutputs computes a hash digest of all outputs created by the
// transaction encoded using the wire format.
func calcHashOutputs(tx *wire.MsgTx) chainhash.Hash {
	var b bytes.Buffer
	for _, out := range tx.TxOut {
		writeTxOutForSigHash(&b, out)
	}

	return chainhash.DoubleHashH(b.Bytes())
}

func writeTxOutForSigHash(b *bytes.Buffer, out *wire.TxOut) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(out.Value))
	b.Write(buf[:])
	_ = wire.WriteVarBytes(b, out.PkScript)
}

// CalcSignatureHash computes the 32-byte message digest an input commits to
// when signed with the given hash type.  The script code is the sub-script
// from the most recent code separator to the end of the active script, with
// the signatures removed.
//
// The preimage layout is the double-hash form: version, hashPrevouts,
// hashSequence, this input's outpoint, the script code, the spent amount,
// this input's sequence, hashOutputs, locktime, and the hash type widened to
// four bytes carrying the fork value.  The fork-id bit is mandatory: hash
// types without it are rejected with ErrMustUseForkID rather than hashed.
func CalcSignatureHash(script []byte, hashType params.SigHashType,
	tx *wire.MsgTx, idx int, amt int64) ([]byte, er.R) {

	pops, err := parsescript.ParseScript(script)
	if err != nil {
		return nil, err
	}
	return calcSignatureHash(pops, hashType, tx, idx, amt)
}

func calcSignatureHash(scriptCode []parsescript.ParsedOpcode,
	hashType params.SigHashType, tx *wire.MsgTx, idx int,
	amt int64) ([]byte, er.R) {

	if !hashType.HasForkID() {
		str := fmt.Sprintf("hash type %#x does not carry the fork id bit",
			uint32(hashType))
		return nil, txscripterr.ScriptError(txscripterr.ErrMustUseForkID, str)
	}

	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("input index %d >= %d inputs", idx, len(tx.TxIn))
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidIndex, str)
	}

	base := hashType.BaseType()
	anyoneCanPay := hashType.HasAnyOneCanPay()

	script, err := unparseScript(scriptCode)
	if err != nil {
		return nil, err
	}

	var preimage bytes.Buffer

	// 1. Transaction version.
	var buf4 [4]byte
	binary.LittleEndian.PutUint32(buf4[:], uint32(tx.Version))
	preimage.Write(buf4[:])

	// 2. Aggregated previous outputs, zeroed under anyone-can-pay.
	if !anyoneCanPay {
		h := calcHashPrevOuts(tx)
		preimage.Write(h[:])
	} else {
		preimage.Write(make([]byte, chainhash.HashSize))
	}

	// 3. Aggregated sequences, zeroed when the hash type masks inputs or
	// outputs away.
	if !anyoneCanPay && base != params.SigHashSingle &&
		base != params.SigHashNone {
		h := calcHashSequence(tx)
		preimage.Write(h[:])
	} else {
		preimage.Write(make([]byte, chainhash.HashSize))
	}

	// 4. This input's outpoint.
	in := tx.TxIn[idx]
	preimage.Write(in.PreviousOutPoint.Hash[:])
	binary.LittleEndian.PutUint32(buf4[:], in.PreviousOutPoint.Index)
	preimage.Write(buf4[:])

	// 5. The script code.
	if err := wire.WriteVarBytes(&preimage, script); err != nil {
		return nil, err
	}

	// 6. The amount of the output being spent.
	var buf8 [8]byte
	binary.LittleEndian.PutUint64(buf8[:], uint64(amt))
	preimage.Write(buf8[:])

	// 7. This input's sequence.
	binary.LittleEndian.PutUint32(buf4[:], in.Sequence)
	preimage.Write(buf4[:])

	// 8. Aggregated outputs: all of them for ALL, the matching one for
	// SINGLE when it exists, zero otherwise.
	switch {
	case base == params.SigHashAll:
		h := calcHashOutputs(tx)
		preimage.Write(h[:])
	case base == params.SigHashSingle && idx < len(tx.TxOut):
		var b bytes.Buffer
		writeTxOutForSigHash(&b, tx.TxOut[idx])
		h := chainhash.DoubleHashH(b.Bytes())
		preimage.Write(h[:])
	default:
		preimage.Write(make([]byte, chainhash.HashSize))
	}

	// 9. Locktime.
	binary.LittleEndian.PutUint32(buf4[:], tx.LockTime)
	preimage.Write(buf4[:])

	// 10. The hash type widened to four bytes, the fork value in the high
	// 24 bits.
	binary.LittleEndian.PutUint32(buf4[:], uint32(hashType)|(sigHashForkValue<<8))
	preimage.Write(buf4[:])

	return chainhash.DoubleHashB(preimage.Bytes()), nil
}
