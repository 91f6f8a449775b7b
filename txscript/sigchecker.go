// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/params"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// SignatureChecker is the authority the engine consults for every signature
// judgement: transaction signatures, data signatures, and the preimage
// computation they share.  The engine never branches on which implementation
// is in use, which lets the debugger substitute a checker that accepts
// declared signatures without any curve math.
type SignatureChecker interface {
	// CheckTxSig verifies sig (DER, hash type already stripped) over the
	// signature hash of the checker's input against the given public key.
	CheckTxSig(sig, pubKey []byte, scriptCode []parsescript.ParsedOpcode,
		hashType params.SigHashType) (bool, er.R)

	// CheckDataSig verifies sig (DER, no hash type byte) over
	// sha256(msg) against the given public key.
	CheckDataSig(sig, msg, pubKey []byte) (bool, er.R)
}

// TxSignatureChecker is the production SignatureChecker: it computes the
// double-hash preimage for its transaction input and verifies ECDSA
// signatures on secp256k1.
type TxSignatureChecker struct {
	tx     *wire.MsgTx
	idx    int
	amount int64
}

// NewTxSignatureChecker returns a checker bound to one input of one
// transaction.
func NewTxSignatureChecker(tx *wire.MsgTx, idx int, amount int64) *TxSignatureChecker {
	return &TxSignatureChecker{tx: tx, idx: idx, amount: amount}
}

// CheckTxSig verifies a transaction signature.  Parse failures of either the
// signature or the public key count as a failed signature, not an error; the
// strict-encoding checks happen in the dispatcher before this point.
func (c *TxSignatureChecker) CheckTxSig(sig, pubKey []byte,
	scriptCode []parsescript.ParsedOpcode,
	hashType params.SigHashType) (bool, er.R) {

	hash, err := calcSignatureHash(scriptCode, hashType, c.tx, c.idx, c.amount)
	if err != nil {
		return false, err
	}

	return verifyECDSA(sig, pubKey, hash), nil
}

// CheckDataSig verifies a data signature over sha256(msg).
func (c *TxSignatureChecker) CheckDataSig(sig, msg, pubKey []byte) (bool, er.R) {
	hash := sha256.Sum256(msg)
	return verifyECDSA(sig, pubKey, hash[:]), nil
}

func verifyECDSA(sigBytes, pkBytes, hash []byte) bool {
	pubKey, err := btcec.ParsePubKey(pkBytes)
	if err != nil {
		return false
	}

	signature, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	return signature.Verify(hash, pubKey)
}

// AlwaysValidSignatureChecker accepts any (sig, pubkey) pair that appears in
// its declared set, or every non-empty pair when the set is empty.  It lets
// the debugger step through scripts whose signatures were produced elsewhere
// without access to the private keys, while an empty signature still fails
// the way consensus demands.
type AlwaysValidSignatureChecker struct {
	declared [][]byte
}

// NewAlwaysValidSignatureChecker returns a checker accepting the declared
// signatures.  With no declarations every pair of a non-empty signature and a
// non-empty public key verifies.
func NewAlwaysValidSignatureChecker(declaredSigs ...[]byte) *AlwaysValidSignatureChecker {
	return &AlwaysValidSignatureChecker{declared: declaredSigs}
}

func (c *AlwaysValidSignatureChecker) accepts(sig []byte) bool {
	if len(sig) == 0 {
		return false
	}
	if len(c.declared) == 0 {
		return true
	}
	for _, d := range c.declared {
		if bytes.Equal(d, sig) {
			return true
		}
	}
	return false
}

// CheckTxSig reports the declared validity of the signature.  No signature
// hash is computed; a hash type without the fork-id bit is rejected with
// ErrMustUseForkID, the same error the production checker's signature hash
// returns.
func (c *AlwaysValidSignatureChecker) CheckTxSig(sig, pubKey []byte,
	scriptCode []parsescript.ParsedOpcode,
	hashType params.SigHashType) (bool, er.R) {

	if !hashType.HasForkID() {
		return false, txscripterr.ScriptError(txscripterr.ErrMustUseForkID,
			"hash type does not carry the fork id bit")
	}
	return c.accepts(sig) && len(pubKey) > 0, nil
}

// CheckDataSig reports the declared validity of the data signature.
func (c *AlwaysValidSignatureChecker) CheckDataSig(sig, msg, pubKey []byte) (bool, er.R) {
	return c.accepts(sig) && len(pubKey) > 0, nil
}
