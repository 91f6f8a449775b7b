// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
)

// testTx builds a representative two-input, two-output transaction.
func testTx() *MsgTx {
	tx := NewMsgTx(2)

	var prev1, prev2 OutPoint
	prev1.Hash[0] = 0xaa
	prev1.Index = 0
	prev2.Hash[31] = 0xbb
	prev2.Index = 1

	tx.AddTxIn(NewTxIn(&prev1, []byte{0x51}))
	tx.AddTxIn(NewTxIn(&prev2, []byte{0x00, 0x51}))
	tx.TxIn[1].Sequence = 0xfffffffe
	tx.AddTxOut(NewTxOut(123456789, []byte{0x76, 0xa9, 0x14}))
	tx.AddTxOut(NewTxOut(0, nil))
	tx.LockTime = 500000123

	return tx
}

// TestTxSerializeRoundTrip exercises serialize/deserialize both ways.
func TestTxSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	tx := testTx()

	serialized := tx.SerializeBytes()
	if len(serialized) != tx.SerializeSize() {
		t.Fatalf("SerializeSize %d != actual %d", tx.SerializeSize(),
			len(serialized))
	}

	parsed, err := NewMsgTxFromBytes(serialized)
	if err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}

	if parsed.Version != tx.Version || parsed.LockTime != tx.LockTime {
		t.Fatal("header fields did not round trip")
	}
	if len(parsed.TxIn) != len(tx.TxIn) || len(parsed.TxOut) != len(tx.TxOut) {
		t.Fatal("input/output counts did not round trip")
	}
	for i := range tx.TxIn {
		if parsed.TxIn[i].PreviousOutPoint != tx.TxIn[i].PreviousOutPoint {
			t.Fatalf("input %d outpoint did not round trip", i)
		}
		if !bytes.Equal(parsed.TxIn[i].SignatureScript,
			tx.TxIn[i].SignatureScript) {
			t.Fatalf("input %d script did not round trip", i)
		}
		if parsed.TxIn[i].Sequence != tx.TxIn[i].Sequence {
			t.Fatalf("input %d sequence did not round trip", i)
		}
	}
	for i := range tx.TxOut {
		if parsed.TxOut[i].Value != tx.TxOut[i].Value {
			t.Fatalf("output %d value did not round trip", i)
		}
		if !bytes.Equal(parsed.TxOut[i].PkScript, tx.TxOut[i].PkScript) {
			t.Fatalf("output %d script did not round trip", i)
		}
	}

	// Byte-level fixed point: re-serializing the parse gives the same
	// bytes.
	if !bytes.Equal(parsed.SerializeBytes(), serialized) {
		t.Fatal("serialization is not a fixed point")
	}
}

// TestTxHash verifies the txid is stable and sensitive to content.
func TestTxHash(t *testing.T) {
	t.Parallel()

	tx := testTx()
	hash1 := tx.TxHash()
	hash2 := tx.TxHash()
	if hash1 != hash2 {
		t.Fatal("txid is not deterministic")
	}

	// The displayed form is the byte-reversed hex.
	want := ""
	for i := chainhash.HashSize - 1; i >= 0; i-- {
		want += hex.EncodeToString([]byte{hash1[i]})
	}
	if tx.TxID() != want {
		t.Fatalf("TxID %s is not the reversed hash %s", tx.TxID(), want)
	}

	mutated := tx.Copy()
	mutated.LockTime++
	if mutated.TxHash() == hash1 {
		t.Fatal("txid ignored a locktime change")
	}
}

func TestTxCopyIsDeep(t *testing.T) {
	t.Parallel()

	tx := testTx()
	dup := tx.Copy()

	dup.TxIn[0].SignatureScript[0] = 0xff
	if tx.TxIn[0].SignatureScript[0] == 0xff {
		t.Fatal("copy shares input script storage")
	}

	dup.TxOut[0].PkScript[0] = 0xff
	if tx.TxOut[0].PkScript[0] == 0xff {
		t.Fatal("copy shares output script storage")
	}
}

func TestIsCoinBase(t *testing.T) {
	t.Parallel()

	coinbase := NewMsgTx(2)
	coinbase.AddTxIn(NewTxIn(&OutPoint{Index: MaxPrevOutIndex}, []byte{0x01}))
	coinbase.AddTxOut(NewTxOut(50, nil))
	if !coinbase.IsCoinBase() {
		t.Fatal("coinbase not detected")
	}

	if testTx().IsCoinBase() {
		t.Fatal("regular transaction detected as coinbase")
	}

	// A null-looking prevout among two inputs is not a coinbase.
	twoIn := NewMsgTx(2)
	twoIn.AddTxIn(NewTxIn(&OutPoint{Index: MaxPrevOutIndex}, nil))
	twoIn.AddTxIn(NewTxIn(&OutPoint{}, nil))
	if twoIn.IsCoinBase() {
		t.Fatal("two-input transaction detected as coinbase")
	}
}

func TestOutPointRef(t *testing.T) {
	t.Parallel()

	var op OutPoint
	op.Hash[0] = 0x12
	op.Hash[31] = 0x34
	op.Index = 0x01020304

	ref := op.Ref()
	if len(ref) != RefSize {
		t.Fatalf("ref has %d bytes", len(ref))
	}
	if !bytes.Equal(ref[:32], op.Hash[:]) {
		t.Fatal("ref txid mismatch")
	}
	// The index is little endian.
	if ref[32] != 0x04 || ref[33] != 0x03 || ref[34] != 0x02 || ref[35] != 0x01 {
		t.Fatalf("ref index bytes are %x", ref[32:])
	}

	if back := OutPointFromRef(ref); back != op {
		t.Fatalf("ref round trip gave %v, want %v", back, op)
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	t.Parallel()

	values := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff,
		0x100000000, 0xffffffffffffffff}

	for _, val := range values {
		var buf bytes.Buffer
		if err := WriteVarInt(&buf, val); err != nil {
			t.Fatalf("WriteVarInt(%d): %v", val, err)
		}
		if buf.Len() != VarIntSerializeSize(val) {
			t.Fatalf("VarIntSerializeSize(%d) = %d, wrote %d", val,
				VarIntSerializeSize(val), buf.Len())
		}
		got, err := ReadVarInt(&buf)
		if err != nil {
			t.Fatalf("ReadVarInt(%d): %v", val, err)
		}
		if got != val {
			t.Fatalf("varint round trip gave %d, want %d", got, val)
		}
	}
}

func TestVarIntNonCanonical(t *testing.T) {
	t.Parallel()

	// 1 encoded with the 0xfd discriminant is not canonical.
	nonCanonical := []byte{0xfd, 0x01, 0x00}
	_, err := ReadVarInt(bytes.NewReader(nonCanonical))
	if !ErrMalformedMessage.Is(err) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestTxFromHex(t *testing.T) {
	t.Parallel()

	tx := testTx()
	txHex := hex.EncodeToString(tx.SerializeBytes())

	parsed, err := NewMsgTxFromHex(txHex + "\n")
	if err != nil {
		t.Fatalf("NewMsgTxFromHex failed: %v", err)
	}
	if parsed.TxHash() != tx.TxHash() {
		t.Fatal("hex round trip changed the txid")
	}

	if _, err := NewMsgTxFromHex("zz"); err == nil {
		t.Fatal("expected failure on bad hex")
	}
}
