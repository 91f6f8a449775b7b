// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
)

// TestStandardScripts checks the structural script predicates.
func TestStandardScripts(t *testing.T) {
	t.Parallel()

	p2shScript := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_HASH160).AddData(make([]byte, 20)).
			AddOp(opcode.OP_EQUAL)
	})
	p2pkhScript := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).
			AddData(make([]byte, 20)).AddOp(opcode.OP_EQUALVERIFY).
			AddOp(opcode.OP_CHECKSIG)
	})
	nullDataScript := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_RETURN).AddData([]byte("hello"))
	})

	if !IsPayToScriptHash(p2shScript) {
		t.Error("p2sh script not recognized")
	}
	if IsPayToScriptHash(p2pkhScript) {
		t.Error("p2pkh script recognized as p2sh")
	}
	if !IsPayToPubKeyHash(p2pkhScript) {
		t.Error("p2pkh script not recognized")
	}
	if IsPayToPubKeyHash(p2shScript) {
		t.Error("p2sh script recognized as p2pkh")
	}
	if !IsUnspendable(nullDataScript) {
		t.Error("op_return script not recognized as unspendable")
	}
	if IsUnspendable(p2pkhScript) {
		t.Error("p2pkh script recognized as unspendable")
	}
}

func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	pushOnly := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_0).AddInt64(12).AddData([]byte{0xaa, 0xbb})
	})
	if !IsPushOnlyScript(pushOnly) {
		t.Error("push only script not recognized")
	}

	notPushOnly := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_1).AddOp(opcode.OP_DUP)
	})
	if IsPushOnlyScript(notPushOnly) {
		t.Error("non push only script recognized as push only")
	}

	// Unparsable scripts are not push only.
	if IsPushOnlyScript([]byte{opcode.OP_PUSHDATA1}) {
		t.Error("unparsable script recognized as push only")
	}
}

func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script []byte
		want   string
	}{
		{[]byte{opcode.OP_1, opcode.OP_2, opcode.OP_ADD}, "1 2 OP_ADD"},
		{[]byte{opcode.OP_0}, "0"},
		{[]byte{0x02, 0xaa, 0xbb, opcode.OP_EQUAL}, "aabb OP_EQUAL"},
		{[]byte{opcode.OP_TXINPUTCOUNT}, "OP_TXINPUTCOUNT"},
	}

	for _, test := range tests {
		got, err := DisasmString(test.script)
		if err != nil {
			t.Errorf("DisasmString(%x): unexpected error %v",
				test.script, err)
			continue
		}
		if got != test.want {
			t.Errorf("DisasmString(%x) = %q, want %q", test.script,
				got, test.want)
		}
	}

	// A truncated push disassembles the valid prefix and flags the error.
	got, err := DisasmString([]byte{opcode.OP_1, 0x02, 0xaa})
	if err == nil {
		t.Fatal("expected error for truncated push")
	}
	if got != "1[error]" {
		t.Fatalf("truncated disasm = %q", got)
	}
}

func TestScriptBuilder(t *testing.T) {
	t.Parallel()

	// Small integers become the dedicated opcodes.
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(0).AddInt64(1).AddInt64(16).AddInt64(-1).AddInt64(17)
	})
	want := []byte{opcode.OP_0, opcode.OP_1, opcode.OP_16,
		opcode.OP_1NEGATE, 0x01, 0x11}
	if !bytes.Equal(script, want) {
		t.Fatalf("built script %x, want %x", script, want)
	}

	// Raw data chooses the canonical push form.
	script = mustScript(t, func(b *ScriptBuilder) {
		b.AddData(bytes.Repeat([]byte{0x01}, 76))
	})
	if script[0] != opcode.OP_PUSHDATA1 {
		t.Fatalf("76-byte push uses %#x, want OP_PUSHDATA1", script[0])
	}

	script = mustScript(t, func(b *ScriptBuilder) {
		b.AddData(bytes.Repeat([]byte{0x01}, 300))
	})
	if script[0] != opcode.OP_PUSHDATA2 {
		t.Fatalf("300-byte push uses %#x, want OP_PUSHDATA2", script[0])
	}

	// A reference operand must belong to a reference opcode.
	b := NewScriptBuilder()
	b.AddRef(opcode.OP_DUP, [36]byte{})
	if _, err := b.Script(); !ErrScriptNotCanonical.Is(err) {
		t.Fatalf("expected ErrScriptNotCanonical, got %v", err)
	}
}

func TestParseScriptRoundTrip(t *testing.T) {
	t.Parallel()

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_DUP).AddData([]byte{0xde, 0xad}).
			AddRef(opcode.OP_PUSHINPUTREF, [36]byte{0x01}).
			AddOp(opcode.OP_CHECKSIG)
	})

	pops, err := parsescript.ParseScript(script)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(pops) != 4 {
		t.Fatalf("parsed %d opcodes, want 4", len(pops))
	}
	if len(pops[2].Data) != 36 {
		t.Fatalf("reference operand has %d bytes", len(pops[2].Data))
	}

	unparsed, err := unparseScript(pops)
	if err != nil {
		t.Fatalf("unparse failed: %v", err)
	}
	if !bytes.Equal(unparsed, script) {
		t.Fatalf("round trip gave %x, want %x", unparsed, script)
	}
}

func TestParseScriptTruncatedRef(t *testing.T) {
	t.Parallel()

	// A reference opcode with only half its operand present.
	script := append([]byte{opcode.OP_PUSHINPUTREF},
		bytes.Repeat([]byte{0x01}, 10)...)
	if _, err := parsescript.ParseScript(script); err == nil {
		t.Fatal("expected parse failure for truncated reference")
	}
}

func TestOpcodeNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   byte
		want string
	}{
		{opcode.OP_CHECKSIG, "OP_CHECKSIG"},
		{opcode.OP_PUSHINPUTREF, "OP_PUSHINPUTREF"},
		{opcode.OP_STATESEPARATOR, "OP_STATESEPARATOR"},
		{opcode.OP_BLAKE3, "OP_BLAKE3"},
		{opcode.OP_K12, "OP_K12"},
		{opcode.OP_TXINPUTCOUNT, "OP_TXINPUTCOUNT"},
		{0x05, "OP_DATA_5"},
		{0xf5, "OP_UNKNOWN245"},
	}
	for _, test := range tests {
		if got := opcode.OpcodeName(test.op); got != test.want {
			t.Errorf("OpcodeName(%#x) = %q, want %q", test.op, got,
				test.want)
		}
	}

	// Name parsing resolves the canonical names and aliases.
	if op, ok := opcode.ParseOpcode("OP_CHECKSIG"); !ok || op != opcode.OP_CHECKSIG {
		t.Error("failed to parse OP_CHECKSIG")
	}
	if op, ok := opcode.ParseOpcode("OP_TRUE"); !ok || op != opcode.OP_1 {
		t.Error("failed to parse OP_TRUE alias")
	}
	if _, ok := opcode.ParseOpcode("OP_BOGUS"); ok {
		t.Error("parsed a bogus opcode name")
	}
}

func TestOpcodeClassification(t *testing.T) {
	t.Parallel()

	if !opcode.IsIntrospection(opcode.OP_UTXOVALUE) {
		t.Error("OP_UTXOVALUE not classified as introspection")
	}
	if opcode.IsIntrospection(opcode.OP_CHECKSIG) {
		t.Error("OP_CHECKSIG classified as introspection")
	}
	if !opcode.IsReference(opcode.OP_PUSHINPUTREFSINGLETON) {
		t.Error("OP_PUSHINPUTREFSINGLETON not classified as reference")
	}
	if !opcode.IsStateSeparator(opcode.OP_STATESEPARATORINDEX_OUTPUT) {
		t.Error("separator index opcode not classified")
	}
	if !opcode.IsReenabled(opcode.OP_MUL) {
		t.Error("OP_MUL not classified as re-enabled")
	}
	if opcode.IsReenabled(opcode.OP_ADD) {
		t.Error("OP_ADD classified as re-enabled")
	}
	if !opcode.HasEmbeddedRef(opcode.OP_REQUIREINPUTREF) {
		t.Error("OP_REQUIREINPUTREF missing embedded ref classification")
	}
}
