// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 2

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.  A previous outpoint with this index and a zero
	// hash marks a coinbase input.
	MaxPrevOutIndex uint32 = 0xffffffff

	// SequenceLockTimeDisabled is a flag that if set on a transaction
	// input's sequence number, the sequence number will not be interpreted
	// as a relative locktime.
	SequenceLockTimeDisabled = 1 << 31

	// SequenceLockTimeIsSeconds is a flag that if set on a transaction
	// input's sequence number, the relative locktime has units of 512
	// seconds.
	SequenceLockTimeIsSeconds = 1 << 22

	// SequenceLockTimeMask is a mask that extracts the relative locktime
	// when masked against the transaction input sequence number.
	SequenceLockTimeMask = 0x0000ffff

	// RefSize is the size of the 36-byte serialized reference form of an
	// outpoint: the txid followed by the little-endian output index.
	RefSize = chainhash.HashSize + 4

	// maxTxPayload is the ceiling applied while decoding scripts and
	// counts, matching the script size limit.
	maxTxPayload = 32000000
)

// OutPoint defines a data type that is used to track previous transaction
// outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	var buf strings.Builder
	buf.WriteString(o.Hash.String())
	buf.WriteByte(':')
	fmt.Fprintf(&buf, "%d", o.Index)
	return buf.String()
}

// Ref returns the 36-byte reference form of the outpoint: txid bytes followed
// by the little-endian output index.  References are the currency of the
// induction reference opcodes.
func (o *OutPoint) Ref() [RefSize]byte {
	var ref [RefSize]byte
	copy(ref[:chainhash.HashSize], o.Hash[:])
	binary.LittleEndian.PutUint32(ref[chainhash.HashSize:], o.Index)
	return ref
}

// OutPointFromRef reconstructs an outpoint from its 36-byte reference form.
func OutPointFromRef(ref [RefSize]byte) OutPoint {
	var o OutPoint
	copy(o.Hash[:], ref[:chainhash.HashSize])
	o.Index = binary.LittleEndian.Uint32(ref[chainhash.HashSize:])
	return o
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// NewTxIn returns a new transaction input with the provided previous outpoint
// and signature script with a default sequence of MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of PkScript +
	// PkScript bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// MsgTx represents a transaction.  There is no witness data; segregated
// witness semantics do not exist on this chain.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the Hash for the transaction: the double sha256 of the
// canonical serialization.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// TxID returns the transaction hash in its conventional display form, the
// byte-reversed hexadecimal string.
func (msg *MsgTx) TxID() string {
	return msg.TxHash().String()
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}

	for _, oldTxIn := range msg.TxIn {
		newScript := make([]byte, len(oldTxIn.SignatureScript))
		copy(newScript, oldTxIn.SignatureScript)

		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			SignatureScript:  newScript,
			Sequence:         oldTxIn.Sequence,
		})
	}

	for _, oldTxOut := range msg.TxOut {
		newScript := make([]byte, len(oldTxOut.PkScript))
		copy(newScript, oldTxOut.PkScript)

		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value:    oldTxOut.Value,
			PkScript: newScript,
		})
	}

	return &newTx
}

// IsCoinBase determines whether or not a transaction is a coinbase: a single
// input whose previous outpoint is null.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}

	prevOut := &msg.TxIn[0].PreviousOutPoint
	if prevOut.Index != MaxPrevOutIndex {
		return false
	}
	var zeroHash chainhash.Hash
	return prevOut.Hash == zeroHash
}

// Deserialize decodes a transaction from r using the canonical wire format.
func (msg *MsgTx) Deserialize(r io.Reader) er.R {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxPayload {
		return messageErrorf("MsgTx.Deserialize",
			"too many input transactions [count %d]", count)
	}

	msg.TxIn = make([]*TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		ti := TxIn{}
		if err := readTxIn(r, &ti); err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, &ti)
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxPayload {
		return messageErrorf("MsgTx.Deserialize",
			"too many output transactions [count %d]", count)
	}

	msg.TxOut = make([]*TxOut, 0, count)
	for i := uint64(0); i < count; i++ {
		to := TxOut{}
		if err := readTxOut(r, &to); err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, &to)
	}

	lockTime, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.LockTime = lockTime

	return nil
}

// Serialize encodes the transaction to w using the canonical wire format:
// version, varint input count, inputs, varint output count, outputs,
// locktime, all little-endian.
func (msg *MsgTx) Serialize(w io.Writer) er.R {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeTxOut(w, to); err != nil {
			return err
		}
	}

	return writeUint32(w, msg.LockTime)
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + LockTime 4 bytes + Serialized varint size for the
	// number of transaction inputs and outputs.
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}

	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}

	return n
}

// SerializeBytes returns the canonical serialization as a byte slice.
func (msg *MsgTx) SerializeBytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return buf.Bytes()
}

// NewMsgTx returns a new transaction with the given version, no transaction
// inputs or outputs, and a lock time of zero.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, 8),
		TxOut:   make([]*TxOut, 0, 8),
	}
}

// NewMsgTxFromBytes deserializes a transaction from its canonical byte form.
func NewMsgTxFromBytes(serialized []byte) (*MsgTx, er.R) {
	tx := &MsgTx{}
	if err := tx.Deserialize(bytes.NewReader(serialized)); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewMsgTxFromHex deserializes a transaction from its hexadecimal wire form,
// the format raw transactions travel in over JSON-RPC.
func NewMsgTxFromHex(txHex string) (*MsgTx, er.R) {
	serialized, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return nil, er.E(err)
	}
	return NewMsgTxFromBytes(serialized)
}

// readOutPoint reads the next sequence of bytes from r as an OutPoint.
func readOutPoint(r io.Reader, op *OutPoint) er.R {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return er.E(err)
	}

	index, err := readUint32(r)
	if err != nil {
		return err
	}
	op.Index = index
	return nil
}

// writeOutPoint encodes op to w.
func writeOutPoint(w io.Writer, op *OutPoint) er.R {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return er.E(err)
	}
	return writeUint32(w, op.Index)
}

func readTxIn(r io.Reader, ti *TxIn) er.R {
	if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
		return err
	}

	script, err := ReadVarBytes(r, maxTxPayload, "transaction input signature script")
	if err != nil {
		return err
	}
	ti.SignatureScript = script

	sequence, err := readUint32(r)
	if err != nil {
		return err
	}
	ti.Sequence = sequence
	return nil
}

func writeTxIn(w io.Writer, ti *TxIn) er.R {
	if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
		return err
	}

	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}

	return writeUint32(w, ti.Sequence)
}

func readTxOut(r io.Reader, to *TxOut) er.R {
	value, err := readUint64(r)
	if err != nil {
		return err
	}
	to.Value = int64(value)

	script, err := ReadVarBytes(r, maxTxPayload, "transaction output public key script")
	if err != nil {
		return err
	}
	to.PkScript = script
	return nil
}

func writeTxOut(w io.Writer, to *TxOut) er.R {
	if err := writeUint64(w, uint64(to.Value)); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}
