// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"golang.org/x/crypto/ripemd160"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// testFlags are the flags the execution tests run with: the full Radiant
// capability set without the malleability policies, so raw byte pushes in
// test scripts do not trip the minimal data rule.
const testFlags = ScriptEnable64BitIntegers |
	ScriptEnableNativeIntrospection |
	ScriptEnableEnhancedReferences |
	ScriptEnableSigHashForkID

// mustScript assembles a script from raw bytes, failing the test on builder
// misuse.
func mustScript(t *testing.T, build func(*ScriptBuilder)) []byte {
	t.Helper()
	b := NewScriptBuilder()
	build(b)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}
	return script
}

// runScript executes a bare script through a debug engine and returns the
// engine and its final error.
func runScript(t *testing.T, script []byte, flags ScriptFlags) (*Engine, er.R) {
	t.Helper()
	vm, err := NewDebugEngine(script, flags, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return vm, vm.Execute()
}

// checkFinalStack asserts the engine finished successfully with exactly the
// given stack, bottom first.
func checkFinalStack(t *testing.T, vm *Engine, err er.R, want ...[]byte) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected execution error: %v", err)
	}
	if !vm.Success() {
		t.Fatal("execution did not succeed")
	}
	stack := vm.GetStack()
	if len(stack) != len(want) {
		t.Fatalf("final stack has %d items, want %d", len(stack), len(want))
	}
	for i := range want {
		if !bytes.Equal(stack[i], want[i]) {
			t.Fatalf("final stack item %d is %x, want %x", i,
				stack[i], want[i])
		}
	}
}

// checkScriptError asserts execution failed with the given error code.
func checkScriptError(t *testing.T, err er.R, want *er.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, script succeeded", want.Detail)
	}
	if !want.Is(err) {
		t.Fatalf("expected %s, got %v", want.Detail, err)
	}
}

func TestSmallArithmetic(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_2, opcode.OP_ADD, opcode.OP_3,
		opcode.OP_NUMEQUAL}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestArithmeticTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
	}{
		{"sub", []byte{opcode.OP_5, opcode.OP_3, opcode.OP_SUB,
			opcode.OP_2, opcode.OP_NUMEQUAL}},
		{"mul", []byte{opcode.OP_3, opcode.OP_4, opcode.OP_MUL,
			opcode.OP_12, opcode.OP_NUMEQUAL}},
		{"div", []byte{opcode.OP_12, opcode.OP_3, opcode.OP_DIV,
			opcode.OP_4, opcode.OP_NUMEQUAL}},
		{"mod", []byte{opcode.OP_13, opcode.OP_5, opcode.OP_MOD,
			opcode.OP_3, opcode.OP_NUMEQUAL}},
		{"1add", []byte{opcode.OP_5, opcode.OP_1ADD, opcode.OP_6,
			opcode.OP_NUMEQUAL}},
		{"1sub", []byte{opcode.OP_5, opcode.OP_1SUB, opcode.OP_4,
			opcode.OP_NUMEQUAL}},
		{"negate", []byte{opcode.OP_5, opcode.OP_NEGATE, opcode.OP_5,
			opcode.OP_ADD, opcode.OP_0, opcode.OP_NUMEQUAL}},
		{"abs", []byte{opcode.OP_5, opcode.OP_NEGATE, opcode.OP_ABS,
			opcode.OP_5, opcode.OP_NUMEQUAL}},
		{"2mul", []byte{opcode.OP_5, opcode.OP_2MUL, opcode.OP_10,
			opcode.OP_NUMEQUAL}},
		{"2div", []byte{opcode.OP_10, opcode.OP_2DIV, opcode.OP_5,
			opcode.OP_NUMEQUAL}},
		{"2div truncates", []byte{opcode.OP_7, opcode.OP_2DIV,
			opcode.OP_3, opcode.OP_NUMEQUAL}},
		{"min", []byte{opcode.OP_3, opcode.OP_5, opcode.OP_MIN,
			opcode.OP_3, opcode.OP_NUMEQUAL}},
		{"max", []byte{opcode.OP_3, opcode.OP_5, opcode.OP_MAX,
			opcode.OP_5, opcode.OP_NUMEQUAL}},
		{"within", []byte{opcode.OP_3, opcode.OP_2, opcode.OP_5,
			opcode.OP_WITHIN}},
	}

	for _, test := range tests {
		vm, err := runScript(t, test.script, testFlags)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !vm.Success() {
			t.Errorf("%s: did not succeed", test.name)
		}
	}
}

func TestExtendedMultiplication(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_3, opcode.OP_4, opcode.OP_MUL}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x0c})
}

func TestNegativeTwoDivTruncatesTowardZero(t *testing.T) {
	t.Parallel()

	// -3 / 2 must be -1, not -2.
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(-3).AddOp(opcode.OP_2DIV).AddInt64(-1).
			AddOp(opcode.OP_NUMEQUAL)
	})
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestSpliceRoundTrip(t *testing.T) {
	t.Parallel()

	// aa || bb, split at 1, right part equals bb, left part has size 1.
	script := []byte{
		0x01, 0xaa,
		0x01, 0xbb,
		opcode.OP_CAT,
		opcode.OP_1,
		opcode.OP_SPLIT,
		0x01, 0xbb,
		opcode.OP_EQUALVERIFY,
		opcode.OP_SIZE,
		opcode.OP_1,
		opcode.OP_NUMEQUAL,
		opcode.OP_VERIFY,
		opcode.OP_DROP,
		opcode.OP_1,
	}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestSplitOutOfRange(t *testing.T) {
	t.Parallel()

	script := []byte{0x01, 0xaa, opcode.OP_2, opcode.OP_SPLIT}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrInvalidStackOperation)
}

func TestNum2BinBin2Num(t *testing.T) {
	t.Parallel()

	// 1 encoded into 4 bytes then minimized back to 1.
	script := []byte{
		opcode.OP_1, opcode.OP_4, opcode.OP_NUM2BIN,
		0x04, 0x01, 0x00, 0x00, 0x00, opcode.OP_EQUALVERIFY,
		opcode.OP_1, opcode.OP_4, opcode.OP_NUM2BIN,
		opcode.OP_BIN2NUM, opcode.OP_1, opcode.OP_NUMEQUAL,
	}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestNum2BinImpossible(t *testing.T) {
	t.Parallel()

	// 0x0100 does not fit one byte.
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(256).AddOp(opcode.OP_1).AddOp(opcode.OP_NUM2BIN)
	})
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrImpossibleEncoding)
}

func TestConditional(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_0, opcode.OP_IF, opcode.OP_0,
		opcode.OP_ELSE, opcode.OP_1, opcode.OP_ENDIF}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestNestedConditional(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_IF, opcode.OP_1, opcode.OP_IF,
		opcode.OP_1, opcode.OP_ENDIF, opcode.OP_ELSE, opcode.OP_0,
		opcode.OP_ENDIF}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestDivisionByZero(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_5, opcode.OP_0, opcode.OP_DIV}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrDivByZero)
}

func TestModuloByZero(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_5, opcode.OP_0, opcode.OP_MOD}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrModByZero)
}

func TestUnbalancedConditional(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_IF, opcode.OP_1}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrUnbalancedConditional)
}

func TestEarlyReturn(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_RETURN}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrEarlyReturn)
}

func TestStackUnderflow(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_ADD}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrInvalidStackOperation)
}

func TestAltStackUnderflow(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_FROMALTSTACK}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrInvalidAltstackOperation)
}

func TestAltStackRoundTrip(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_2, opcode.OP_TOALTSTACK,
		opcode.OP_3, opcode.OP_ADD, opcode.OP_FROMALTSTACK,
		opcode.OP_ADD, opcode.OP_6, opcode.OP_NUMEQUAL}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestBitwiseOperandLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		ok     bool
	}{
		{"and", []byte{0x01, 0xff, 0x01, 0x0f, opcode.OP_AND,
			0x01, 0x0f, opcode.OP_EQUAL}, true},
		{"or", []byte{0x01, 0xf0, 0x01, 0x0f, opcode.OP_OR,
			0x01, 0xff, opcode.OP_EQUAL}, true},
		{"xor to zero", []byte{0x01, 0xff, 0x01, 0xff, opcode.OP_XOR,
			0x01, 0x00, opcode.OP_EQUAL}, true},
		{"length mismatch", []byte{0x02, 0xff, 0xff, 0x01, 0x0f,
			opcode.OP_AND}, false},
	}

	for _, test := range tests {
		vm, err := runScript(t, test.script, testFlags)
		if test.ok {
			if err != nil || !vm.Success() {
				t.Errorf("%s: expected success, got %v", test.name, err)
			}
			continue
		}
		checkScriptError(t, err, txscripterr.ErrInvalidStackOperation)
	}
}

func TestShifts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		ok     bool
		errc   *er.ErrorCode
	}{
		{"lshift in byte", []byte{0x01, 0x01, opcode.OP_3,
			opcode.OP_LSHIFT, 0x01, 0x08, opcode.OP_EQUAL}, true, nil},
		{"rshift in byte", []byte{0x01, 0x10, opcode.OP_2,
			opcode.OP_RSHIFT, 0x01, 0x04, opcode.OP_EQUAL}, true, nil},
		{"lshift cross byte", []byte{0x02, 0x00, 0x01, opcode.OP_4,
			opcode.OP_LSHIFT, 0x02, 0x00, 0x10, opcode.OP_EQUAL}, true, nil},
		{"lshift by zero", []byte{opcode.OP_1, opcode.OP_0,
			opcode.OP_LSHIFT}, true, nil},
		{"rshift by zero", []byte{opcode.OP_1, opcode.OP_0,
			opcode.OP_RSHIFT}, true, nil},
		{"lshift whole width discards", []byte{0x01, 0xff, opcode.OP_8,
			opcode.OP_LSHIFT, 0x01, 0x00, opcode.OP_EQUAL}, true, nil},
		{"over-shift", []byte{0x01, 0x01, opcode.OP_9, opcode.OP_LSHIFT},
			false, txscripterr.ErrInvalidNumberRange},
		{"negative shift", []byte{0x01, 0x01, opcode.OP_1NEGATE,
			opcode.OP_LSHIFT}, false, txscripterr.ErrInvalidNumberRange},
	}

	for _, test := range tests {
		vm, err := runScript(t, test.script, testFlags)
		if test.ok {
			if err != nil || !vm.Success() {
				t.Errorf("%s: expected success, got %v", test.name, err)
			}
			continue
		}
		checkScriptError(t, err, test.errc)
	}
}

func TestShiftOpcodesRequireExtendedIntegers(t *testing.T) {
	t.Parallel()

	flags := testFlags &^ ScriptEnable64BitIntegers
	script := []byte{opcode.OP_1, opcode.OP_1, opcode.OP_LSHIFT}
	_, err := runScript(t, script, flags)
	checkScriptError(t, err, txscripterr.ErrDisabledOpcode)
}

func TestLegacyNumericWidth(t *testing.T) {
	t.Parallel()

	// A five byte number is fine with 64-bit integers and out of range
	// without them.
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(0x100000000).AddOp(opcode.OP_DUP).
			AddOp(opcode.OP_NUMEQUAL)
	})

	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})

	_, err = runScript(t, script, testFlags&^ScriptEnable64BitIntegers)
	checkScriptError(t, err, txscripterr.ErrInvalidNumberRange)
}

func TestArithmeticOverflow(t *testing.T) {
	t.Parallel()

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(9223372036854775807).AddOp(opcode.OP_1ADD)
	})
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrInvalidNumberRange)

	script = mustScript(t, func(b *ScriptBuilder) {
		b.AddInt64(9223372036854775807).AddOp(opcode.OP_2MUL)
	})
	_, err = runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrInvalidNumberRange)
}

func TestHashOpcodes(t *testing.T) {
	t.Parallel()

	// Hash the empty string with each function and compare against the
	// published digests.
	tests := []struct {
		name string
		op   byte
		want string
	}{
		{"sha1", opcode.OP_SHA1,
			"da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"sha256", opcode.OP_SHA256,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hash256", opcode.OP_HASH256,
			"5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"},
		{"blake3", opcode.OP_BLAKE3,
			"af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{"k12", opcode.OP_K12,
			"1ac2d450fc3b4205d19da7bfca1b37513c0803577ac7167f06fe2ce1f0ef39e5"},
	}

	for _, test := range tests {
		want, errr := hex.DecodeString(test.want)
		if errr != nil {
			t.Fatalf("%s: bad test digest: %v", test.name, errr)
		}
		script := mustScript(t, func(b *ScriptBuilder) {
			b.AddOp(opcode.OP_0).AddOp(test.op).AddData(want).
				AddOp(opcode.OP_EQUAL)
		})
		vm, err := runScript(t, script, testFlags)
		if err != nil || !vm.Success() {
			t.Errorf("%s: digest mismatch: %v", test.name, err)
		}
	}
}

func TestBlake3Deterministic(t *testing.T) {
	t.Parallel()

	script := []byte{
		0x03, 'a', 'b', 'c',
		opcode.OP_DUP,
		opcode.OP_BLAKE3,
		opcode.OP_SWAP,
		opcode.OP_BLAKE3,
		opcode.OP_EQUAL,
	}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestBlake3AndK12Differ(t *testing.T) {
	t.Parallel()

	script := []byte{
		0x03, 'a', 'b', 'c',
		opcode.OP_DUP,
		opcode.OP_BLAKE3,
		opcode.OP_SWAP,
		opcode.OP_K12,
		opcode.OP_EQUAL,
		opcode.OP_NOT,
	}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestSingleChunkHashBounds(t *testing.T) {
	t.Parallel()

	big := make([]byte, 1025)
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddData(big).AddOp(opcode.OP_BLAKE3)
	})
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrPushSize)

	bigger := make([]byte, 8193)
	script = mustScript(t, func(b *ScriptBuilder) {
		b.AddData(bigger).AddOp(opcode.OP_K12)
	})
	_, err = runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrPushSize)
}

func TestReverseBytes(t *testing.T) {
	t.Parallel()

	script := []byte{
		0x03, 0x01, 0x02, 0x03,
		opcode.OP_REVERSEBYTES,
		0x03, 0x03, 0x02, 0x01,
		opcode.OP_EQUAL,
	}
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

// testIntrospectionContext builds a two-input, one-output transaction and
// its execution context for input zero.
func testIntrospectionContext(t *testing.T) (*wire.MsgTx, []Coin, *ExecutionContext) {
	t.Helper()

	tx := wire.NewMsgTx(2)
	var prev wire.OutPoint
	prev.Hash[0] = 0x11
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: prev.Hash, Index: 0}, nil))
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: prev.Hash, Index: 1}, nil))
	tx.AddTxOut(wire.NewTxOut(90000, []byte{opcode.OP_1}))

	coins := []Coin{
		{Value: 50000, PkScript: []byte{opcode.OP_1}},
		{Value: 50000, PkScript: []byte{opcode.OP_1}},
	}

	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	return tx, coins, ctx
}

func TestIntrospectionCounts(t *testing.T) {
	t.Parallel()

	tx, coins, ctx := testIntrospectionContext(t)

	script := []byte{
		opcode.OP_TXINPUTCOUNT, opcode.OP_2, opcode.OP_NUMEQUAL,
		opcode.OP_VERIFY,
		opcode.OP_TXOUTPUTCOUNT, opcode.OP_1, opcode.OP_NUMEQUAL,
	}
	vm, err := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("introspection script failed: %v", err)
	}
	if !vm.Success() {
		t.Fatal("introspection script did not succeed")
	}
}

func TestIntrospectionValues(t *testing.T) {
	t.Parallel()

	tx, coins, ctx := testIntrospectionContext(t)

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_INPUTINDEX).AddOp(opcode.OP_0).
			AddOp(opcode.OP_NUMEQUAL).AddOp(opcode.OP_VERIFY)
		b.AddOp(opcode.OP_TXVERSION).AddOp(opcode.OP_2).
			AddOp(opcode.OP_NUMEQUAL).AddOp(opcode.OP_VERIFY)
		b.AddOp(opcode.OP_0).AddOp(opcode.OP_UTXOVALUE).
			AddInt64(50000).AddOp(opcode.OP_NUMEQUAL).
			AddOp(opcode.OP_VERIFY)
		b.AddOp(opcode.OP_0).AddOp(opcode.OP_OUTPUTVALUE).
			AddInt64(90000).AddOp(opcode.OP_NUMEQUAL)
	})
	vm, err := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := vm.Execute(); err != nil || !vm.Success() {
		t.Fatalf("introspection values script failed: %v", err)
	}
}

func TestIntrospectionIndexBounds(t *testing.T) {
	t.Parallel()

	tx, coins, ctx := testIntrospectionContext(t)

	script := []byte{opcode.OP_5, opcode.OP_UTXOVALUE}
	vm, err := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	checkScriptError(t, vm.Execute(), txscripterr.ErrInvalidTxInputIndex)

	script = []byte{opcode.OP_5, opcode.OP_OUTPUTVALUE}
	vm, err = NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	checkScriptError(t, vm.Execute(), txscripterr.ErrInvalidTxOutputIndex)
}

func TestIntrospectionWithoutContext(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_TXINPUTCOUNT}
	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrContextNotPresent)
}

func TestIntrospectionRequiresCapability(t *testing.T) {
	t.Parallel()

	flags := testFlags &^ ScriptEnableNativeIntrospection
	script := []byte{opcode.OP_TXINPUTCOUNT}
	_, err := runScript(t, script, flags)
	checkScriptError(t, err, txscripterr.ErrDisabledOpcode)
}

func TestForkIDRequired(t *testing.T) {
	t.Parallel()

	// A plausible DER shell with hash type 0x01: the fork id bit is
	// missing, so the signature can never verify.  Without NULLFAIL the
	// result is a false push and EVAL_FALSE at the end; with NULLFAIL
	// the non-empty signature is itself the error.
	sig := append(bytes.Repeat([]byte{0x30}, 1), []byte{
		0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01, 0x01,
	}...)
	pubKey := append([]byte{0x02}, bytes.Repeat([]byte{0x22}, 32)...)

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddData(sig).AddData(pubKey).AddOp(opcode.OP_CHECKSIG)
	})

	_, err := runScript(t, script, testFlags)
	checkScriptError(t, err, txscripterr.ErrEvalFalse)

	_, err = runScript(t, script, testFlags|ScriptVerifyNullFail)
	checkScriptError(t, err, txscripterr.ErrSigNullFail)
}

func TestCheckSigDeclaredValid(t *testing.T) {
	t.Parallel()

	// The debug engine's signature authority accepts any non-empty
	// signature whose hash type carries the fork id bit.
	sig := append(bytes.Repeat([]byte{0x55}, 9), 0x41)
	pubKey := append([]byte{0x02}, bytes.Repeat([]byte{0x22}, 32)...)

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddData(sig).AddData(pubKey).AddOp(opcode.OP_CHECKSIG)
	})
	vm, err := runScript(t, script, testFlags)
	checkFinalStack(t, vm, err, []byte{0x01})
}

func TestStepRewind(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_2, opcode.OP_ADD}
	vm, err := NewDebugEngine(script, testFlags, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if !vm.IsAtStart() {
		t.Fatal("fresh engine not at start")
	}

	if done, err := vm.Step(); done || err != nil {
		t.Fatalf("step 1: done=%v err=%v", done, err)
	}
	if got := len(vm.GetStack()); got != 1 {
		t.Fatalf("after step 1 stack depth is %d, want 1", got)
	}

	if done, err := vm.Step(); done || err != nil {
		t.Fatalf("step 2: done=%v err=%v", done, err)
	}
	if got := len(vm.GetStack()); got != 2 {
		t.Fatalf("after step 2 stack depth is %d, want 2", got)
	}

	if !vm.Rewind() {
		t.Fatal("rewind 1 failed")
	}
	if got := len(vm.GetStack()); got != 1 {
		t.Fatalf("after rewind stack depth is %d, want 1", got)
	}

	if !vm.Rewind() {
		t.Fatal("rewind 2 failed")
	}
	if got := len(vm.GetStack()); got != 0 {
		t.Fatalf("after rewind 2 stack depth is %d, want 0", got)
	}
	if !vm.IsAtStart() {
		t.Fatal("engine not back at start")
	}
	if vm.Rewind() {
		t.Fatal("rewind past the start succeeded")
	}

	// Stepping forward again reaches the same end state.
	if err := vm.Execute(); err != nil {
		t.Fatalf("re-execution failed: %v", err)
	}
	if !vm.Success() {
		t.Fatal("re-execution did not succeed")
	}
}

func TestRewindFromFailure(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_5, opcode.OP_0, opcode.OP_DIV}
	vm, err := NewDebugEngine(script, testFlags, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := vm.Execute(); !txscripterr.ErrDivByZero.Is(err) {
		t.Fatalf("expected div by zero, got %v", err)
	}
	if !vm.Done() || vm.Success() {
		t.Fatal("engine not in failed terminal state")
	}

	// One rewind recovers the state immediately before OP_DIV.
	if !vm.Rewind() {
		t.Fatal("rewind from failure failed")
	}
	if vm.Done() {
		t.Fatal("engine still done after rewind")
	}
	if got := len(vm.GetStack()); got != 2 {
		t.Fatalf("pre-failure stack depth is %d, want 2", got)
	}
}

func TestStepCallbackOrdering(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_2, opcode.OP_ADD}
	vm, err := NewDebugEngine(script, testFlags, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	var depths []int
	vm.SetStepCallback(func(info *StepInfo) {
		depths = append(depths, len(info.Stack))
	})

	if err := vm.Execute(); err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	want := []int{1, 2, 1}
	if len(depths) != len(want) {
		t.Fatalf("callback fired %d times, want %d", len(depths), len(want))
	}
	for i := range want {
		if depths[i] != want[i] {
			t.Fatalf("callback %d saw depth %d, want %d", i,
				depths[i], want[i])
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_2, opcode.OP_ADD,
		opcode.OP_3, opcode.OP_NUMEQUAL}

	run := func() [][]byte {
		vm, err := NewDebugEngine(script, testFlags, nil)
		if err != nil {
			t.Fatalf("failed to create engine: %v", err)
		}
		if err := vm.Execute(); err != nil {
			t.Fatalf("execution failed: %v", err)
		}
		return vm.GetStack()
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatal("replay diverged in depth")
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			t.Fatal("replay diverged in content")
		}
	}
}

func TestVerifyScriptP2SH(t *testing.T) {
	t.Parallel()

	// Redeem script: OP_1 OP_EQUAL.  Lock script: HASH160 <h> EQUAL.
	redeem := []byte{opcode.OP_1, opcode.OP_EQUAL}
	redeemHash := hash160(redeem)

	lock := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_HASH160).AddData(redeemHash).
			AddOp(opcode.OP_EQUAL)
	})
	unlock := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_1).AddData(redeem)
	})

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, unlock))
	tx.AddTxOut(wire.NewTxOut(1, []byte{opcode.OP_1}))

	err := VerifyScript(unlock, lock, tx, 0, 1,
		testFlags|ScriptBip16|ScriptVerifyCleanStack, nil)
	if err != nil {
		t.Fatalf("p2sh verification failed: %v", err)
	}

	// The same spend with a wrong redeem argument fails in the redeem
	// phase.
	badUnlock := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddData(redeem)
	})
	tx.TxIn[0].SignatureScript = badUnlock
	err = VerifyScript(badUnlock, lock, tx, 0, 1,
		testFlags|ScriptBip16|ScriptVerifyCleanStack, nil)
	checkScriptError(t, err, txscripterr.ErrEvalFalse)
}

func TestP2SHPhases(t *testing.T) {
	t.Parallel()

	redeem := []byte{opcode.OP_1, opcode.OP_EQUAL}
	redeemHash := hash160(redeem)

	lock := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_HASH160).AddData(redeemHash).
			AddOp(opcode.OP_EQUAL)
	})
	unlock := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_1).AddData(redeem)
	})

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, unlock))
	tx.AddTxOut(wire.NewTxOut(1, []byte{opcode.OP_1}))

	vm, err := NewEngine(unlock, lock, tx, 0,
		testFlags|ScriptBip16, 1, nil, nil)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	phases := map[Phase]bool{}
	for {
		phases[vm.Phase()] = true
		done, err := vm.Step()
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if done {
			break
		}
	}

	for _, phase := range []Phase{PhaseUnlock, PhaseLock, PhaseRedeem} {
		if !phases[phase] {
			t.Errorf("phase %s never observed", phase)
		}
	}
	if !vm.Success() {
		t.Fatal("p2sh stepping did not succeed")
	}
}

func TestCleanStack(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_1}
	vm, err := runScript(t, script, testFlags)
	if err != nil || !vm.Success() {
		t.Fatalf("expected success without clean stack: %v", err)
	}

	_, err = runScript(t, script, testFlags|ScriptVerifyCleanStack)
	checkScriptError(t, err, txscripterr.ErrCleanStack)
}

func TestSigPushOnly(t *testing.T) {
	t.Parallel()

	unlock := []byte{opcode.OP_1, opcode.OP_1, opcode.OP_ADD}
	lock := []byte{opcode.OP_2, opcode.OP_NUMEQUAL}

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, unlock))
	tx.AddTxOut(wire.NewTxOut(1, lock))

	err := VerifyScript(unlock, lock, tx, 0, 1,
		testFlags|ScriptVerifySigPushOnly, nil)
	checkScriptError(t, err, txscripterr.ErrSigPushOnly)

	// Without the flag the same pair runs fine.
	if err := VerifyScript(unlock, lock, tx, 0, 1, testFlags, nil); err != nil {
		t.Fatalf("unexpected failure without push-only: %v", err)
	}
}

func TestMinimalIf(t *testing.T) {
	t.Parallel()

	script := []byte{0x01, 0x02, opcode.OP_IF, opcode.OP_1,
		opcode.OP_ENDIF, opcode.OP_1}
	_, err := runScript(t, script, testFlags|ScriptVerifyMinimalIf)
	checkScriptError(t, err, txscripterr.ErrMinimalIf)

	vm, err := runScript(t, script, testFlags)
	if err != nil || !vm.Success() {
		t.Fatalf("expected success without minimal if: %v", err)
	}
}

func TestCheckLockTimeVerify(t *testing.T) {
	t.Parallel()

	buildVM := func(lockTime uint32, sequence uint32, required int64) (*Engine, er.R) {
		script := mustScript(t, func(b *ScriptBuilder) {
			b.AddInt64(required).AddOp(opcode.OP_CHECKLOCKTIMEVERIFY).
				AddOp(opcode.OP_DROP).AddOp(opcode.OP_1)
		})
		tx := wire.NewMsgTx(2)
		tx.LockTime = lockTime
		tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
		tx.TxIn[0].Sequence = sequence
		tx.AddTxOut(wire.NewTxOut(1, []byte{opcode.OP_1}))
		vm, err := NewEngine(nil, script, tx, 0,
			testFlags|ScriptVerifyCheckLockTimeVerify, 1, nil,
			NewAlwaysValidSignatureChecker())
		if err != nil {
			return nil, err
		}
		return vm, vm.Execute()
	}

	if vm, err := buildVM(100, 0, 99); err != nil || !vm.Success() {
		t.Fatalf("satisfied locktime failed: %v", err)
	}

	_, err := buildVM(100, 0, 101)
	checkScriptError(t, err, txscripterr.ErrUnsatisfiedLockTime)

	// A finalized input cannot use CLTV.
	_, err = buildVM(100, 0xffffffff, 99)
	checkScriptError(t, err, txscripterr.ErrUnsatisfiedLockTime)

	// Mixed units: block height against timestamp.
	_, err = buildVM(100, 0, 500000001)
	checkScriptError(t, err, txscripterr.ErrUnsatisfiedLockTime)
}

func TestCheckSequenceVerify(t *testing.T) {
	t.Parallel()

	buildVM := func(version int32, sequence uint32, required int64) (*Engine, er.R) {
		script := mustScript(t, func(b *ScriptBuilder) {
			b.AddInt64(required).AddOp(opcode.OP_CHECKSEQUENCEVERIFY).
				AddOp(opcode.OP_DROP).AddOp(opcode.OP_1)
		})
		tx := wire.NewMsgTx(version)
		tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: 0}, nil))
		tx.TxIn[0].Sequence = sequence
		tx.AddTxOut(wire.NewTxOut(1, []byte{opcode.OP_1}))
		vm, err := NewEngine(nil, script, tx, 0,
			testFlags|ScriptVerifyCheckSequenceVerify, 1, nil,
			NewAlwaysValidSignatureChecker())
		if err != nil {
			return nil, err
		}
		return vm, vm.Execute()
	}

	if vm, err := buildVM(2, 10, 5); err != nil || !vm.Success() {
		t.Fatalf("satisfied sequence failed: %v", err)
	}

	_, err := buildVM(2, 5, 10)
	checkScriptError(t, err, txscripterr.ErrUnsatisfiedLockTime)

	_, err = buildVM(1, 10, 5)
	checkScriptError(t, err, txscripterr.ErrUnsatisfiedLockTime)
}

func TestDiscourageUpgradableNops(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_NOP4}
	vm, err := runScript(t, script, testFlags)
	if err != nil || !vm.Success() {
		t.Fatalf("nop should be fine by default: %v", err)
	}

	_, err = runScript(t, script, testFlags|ScriptDiscourageUpgradableNops)
	checkScriptError(t, err, txscripterr.ErrDiscourageUpgradableNOPs)
}

// hash160 computes ripemd160(sha256(b)) for test fixtures.
func hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}
