// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// testRef builds a distinguishable 36-byte reference.
func testRef(tag byte, vout byte) Ref {
	var ref Ref
	for i := 0; i < 32; i++ {
		ref[i] = tag
	}
	ref[32] = vout
	return ref
}

// refScript builds a locking script carrying the given reference opcodes.
func refScript(t *testing.T, op byte, refs ...Ref) []byte {
	t.Helper()
	b := NewScriptBuilder()
	for _, ref := range refs {
		b.AddRef(op, ref)
	}
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build ref script: %v", err)
	}
	return script
}

// refTestHarness builds a transaction spending the given coins, with the
// given outputs, plus its execution context for input zero.
func refTestHarness(t *testing.T, coins []Coin, outs []*wire.TxOut) (*wire.MsgTx, *ExecutionContext) {
	t.Helper()

	tx := wire.NewMsgTx(2)
	for i := range coins {
		var prev wire.OutPoint
		prev.Hash[0] = byte(i + 1)
		tx.AddTxIn(wire.NewTxIn(&prev, nil))
	}
	for _, out := range outs {
		tx.AddTxOut(out)
	}

	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("failed to build context: %v", err)
	}
	return tx, ctx
}

func TestPushRefSummaryScan(t *testing.T) {
	t.Parallel()

	pushRef := testRef(0xaa, 0)
	requireRef := testRef(0xbb, 1)
	singletonRef := testRef(0xcc, 2)

	b := NewScriptBuilder()
	b.AddRef(opcode.OP_PUSHINPUTREF, pushRef)
	b.AddRef(opcode.OP_REQUIREINPUTREF, requireRef)
	b.AddRef(opcode.OP_PUSHINPUTREFSINGLETON, singletonRef)
	b.AddOp(opcode.OP_STATESEPARATOR)
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	summary := computePushRefSummary(script, 1234)
	if summary.Value != 1234 {
		t.Fatalf("summary value is %d", summary.Value)
	}
	if _, ok := summary.PushRefs[pushRef]; !ok {
		t.Fatal("push ref not scanned")
	}
	if _, ok := summary.RequireRefs[requireRef]; !ok {
		t.Fatal("require ref not scanned")
	}
	if _, ok := summary.SingletonRefs[singletonRef]; !ok {
		t.Fatal("singleton ref not scanned")
	}
	// Singletons join the push set too.
	if _, ok := summary.PushRefs[singletonRef]; !ok {
		t.Fatal("singleton ref missing from push set")
	}

	// The separator sits after three 37-byte reference instructions.
	if summary.StateSeparatorByteIndex != 111 {
		t.Fatalf("state separator index is %d, want 111",
			summary.StateSeparatorByteIndex)
	}

	// A script with no separator records the absent sentinel.
	plain := computePushRefSummary([]byte{opcode.OP_1}, 0)
	if plain.StateSeparatorByteIndex != absentStateSeparator {
		t.Fatalf("absent separator index is %d",
			plain.StateSeparatorByteIndex)
	}
}

func TestPushInputRefPushesOperand(t *testing.T) {
	t.Parallel()

	ref := testRef(0xaa, 0)
	b := NewScriptBuilder()
	b.AddRef(opcode.OP_PUSHINPUTREF, ref)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	coins := []Coin{{Value: 1000, PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)}}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(900, []byte{opcode.OP_1}),
	})

	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("execution failed: %v", err)
	}

	stack := vm.GetStack()
	if len(stack) != 1 || !bytes.Equal(stack[0], ref[:]) {
		t.Fatalf("operand not pushed, stack %x", stack)
	}
	if _, ok := vm.TrackedPushRefs()[ref]; !ok {
		t.Fatal("pushed ref not tracked")
	}
}

// TestRequireInputRef covers the deferred require check both ways: the same
// reference round-trips through the stack and succeeds iff the context's
// input push set carries it.
func TestRequireInputRef(t *testing.T) {
	t.Parallel()

	ref := testRef(0xaa, 0)

	b := NewScriptBuilder()
	b.AddRef(opcode.OP_PUSHINPUTREF, ref)
	b.AddRef(opcode.OP_REQUIREINPUTREF, ref)
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	// A coin whose locking script pushes the same reference satisfies
	// the requirement.
	coins := []Coin{{Value: 1000,
		PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)}}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(900, []byte{opcode.OP_1}),
	})
	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	if err := vm.Execute(); err != nil || !vm.Success() {
		t.Fatalf("require with matching coin failed: %v", err)
	}

	// Without the reference in any coin the deferred check fails.
	coins = []Coin{{Value: 1000, PkScript: []byte{opcode.OP_1}}}
	tx, ctx = refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(900, []byte{opcode.OP_1}),
	})
	vm, errr = NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	err2 := vm.Execute()
	if !txscripterr.ErrReferenceNotFound.Is(err2) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err2)
	}
}

func TestSingletonMismatch(t *testing.T) {
	t.Parallel()

	ref := testRef(0xcc, 7)

	b := NewScriptBuilder()
	b.AddRef(opcode.OP_PUSHINPUTREFSINGLETON, ref)
	b.AddOp(opcode.OP_DROP)
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	run := func(coins []Coin, outs []*wire.TxOut) er.R {
		tx, ctx := refTestHarness(t, coins, outs)
		vm, errr := NewEngine(nil, script, tx, 0, testFlags,
			coins[0].Value, ctx, NewAlwaysValidSignatureChecker())
		if errr != nil {
			t.Fatalf("failed to create engine: %v", errr)
		}
		return vm.Execute()
	}

	// Unique on both sides: fine.
	err2 := run(
		[]Coin{{Value: 1, PkScript: refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)}},
		[]*wire.TxOut{wire.NewTxOut(1, []byte{opcode.OP_1})},
	)
	if err2 != nil {
		t.Fatalf("unique singleton failed: %v", err2)
	}

	// Two spent coins carrying the singleton: mismatch.
	err2 = run(
		[]Coin{
			{Value: 1, PkScript: refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)},
			{Value: 1, PkScript: refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)},
		},
		[]*wire.TxOut{wire.NewTxOut(1, []byte{opcode.OP_1})},
	)
	if !txscripterr.ErrSingletonMismatch.Is(err2) {
		t.Fatalf("expected ErrSingletonMismatch, got %v", err2)
	}

	// Two outputs carrying the singleton: mismatch as well.
	err2 = run(
		[]Coin{{Value: 1, PkScript: refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)}},
		[]*wire.TxOut{
			wire.NewTxOut(1, refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)),
			wire.NewTxOut(1, refScript(t, opcode.OP_PUSHINPUTREFSINGLETON, ref)),
		},
	)
	if !txscripterr.ErrSingletonMismatch.Is(err2) {
		t.Fatalf("expected ErrSingletonMismatch, got %v", err2)
	}
}

func TestDisallowPushInputRef(t *testing.T) {
	t.Parallel()

	ref := testRef(0xdd, 3)

	b := NewScriptBuilder()
	b.AddRef(opcode.OP_DISALLOWPUSHINPUTREF, ref)
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	// The reference reappears in a spent coin: fail.
	coins := []Coin{{Value: 1,
		PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)}}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(1, []byte{opcode.OP_1}),
	})
	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	err2 := vm.Execute()
	if !txscripterr.ErrInvalidReference.Is(err2) {
		t.Fatalf("expected ErrInvalidReference, got %v", err2)
	}

	// Absent from every coin: fine.
	coins = []Coin{{Value: 1, PkScript: []byte{opcode.OP_1}}}
	tx, ctx = refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(1, []byte{opcode.OP_1}),
	})
	vm, errr = NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("absent disallow failed: %v", err)
	}
}

func TestDisallowSibling(t *testing.T) {
	t.Parallel()

	ref := testRef(0xee, 0)
	sibling := testRef(0xee, 1) // same parent txid, different vout

	b := NewScriptBuilder()
	b.AddRef(opcode.OP_DISALLOWPUSHINPUTREFSIBLING, ref)
	b.AddOp(opcode.OP_1)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	coins := []Coin{{Value: 1,
		PkScript: refScript(t, opcode.OP_PUSHINPUTREF, sibling)}}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(1, []byte{opcode.OP_1}),
	})
	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	err2 := vm.Execute()
	if !txscripterr.ErrInvalidReference.Is(err2) {
		t.Fatalf("expected ErrInvalidReference for sibling, got %v", err2)
	}
}

func TestReferenceOpcodesRequireCapability(t *testing.T) {
	t.Parallel()

	ref := testRef(0xaa, 0)
	b := NewScriptBuilder()
	b.AddRef(opcode.OP_PUSHINPUTREF, ref)
	script, err := b.Script()
	if err != nil {
		t.Fatalf("failed to build script: %v", err)
	}

	flags := testFlags &^ ScriptEnableEnhancedReferences
	_, err2 := runScript(t, script, flags)
	checkScriptError(t, err2, txscripterr.ErrDisabledOpcode)
}

func TestRefValueSumAndCounts(t *testing.T) {
	t.Parallel()

	ref := testRef(0xaa, 0)
	other := testRef(0xbb, 0)

	coins := []Coin{
		{Value: 100, PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)},
		{Value: 200, PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)},
		{Value: 0, PkScript: refScript(t, opcode.OP_PUSHINPUTREF, ref)},
		{Value: 400, PkScript: refScript(t, opcode.OP_PUSHINPUTREF, other)},
	}
	outs := []*wire.TxOut{
		wire.NewTxOut(700, refScript(t, opcode.OP_PUSHINPUTREF, ref)),
	}
	_, ctx := refTestHarness(t, coins, outs)

	if got := ctx.RefValueSumUtxos(ref); got != 300 {
		t.Fatalf("RefValueSumUtxos = %d, want 300", got)
	}
	if got := ctx.RefValueSumOutputs(ref); got != 700 {
		t.Fatalf("RefValueSumOutputs = %d, want 700", got)
	}
	if got := ctx.RefOutputCountUtxos(ref); got != 3 {
		t.Fatalf("RefOutputCountUtxos = %d, want 3", got)
	}
	if got := ctx.RefOutputCountZeroValuedUtxos(ref); got != 1 {
		t.Fatalf("RefOutputCountZeroValuedUtxos = %d, want 1", got)
	}
	if got := ctx.RefOutputCountOutputs(other); got != 0 {
		t.Fatalf("RefOutputCountOutputs(other) = %d, want 0", got)
	}
	if got := ctx.RefTypeUtxo(ref); got != 1 {
		t.Fatalf("RefTypeUtxo = %d, want 1", got)
	}
	if got := ctx.RefTypeUtxo(testRef(0x99, 9)); got != 0 {
		t.Fatalf("RefTypeUtxo(absent) = %d, want 0", got)
	}
}

func TestCodeScriptHashQueries(t *testing.T) {
	t.Parallel()

	// Two coins sharing a code script (everything after the separator),
	// one with a different one.
	shared := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddOp(opcode.OP_STATESEPARATOR).
			AddOp(opcode.OP_1)
	})
	sharedToo := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_3).AddOp(opcode.OP_STATESEPARATOR).
			AddOp(opcode.OP_1)
	})
	different := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddOp(opcode.OP_STATESEPARATOR).
			AddOp(opcode.OP_2)
	})

	coins := []Coin{
		{Value: 10, PkScript: shared},
		{Value: 20, PkScript: sharedToo},
		{Value: 40, PkScript: different},
	}
	outs := []*wire.TxOut{wire.NewTxOut(60, shared)}
	_, ctx := refTestHarness(t, coins, outs)

	csh := chainhash.DoubleHashH([]byte{opcode.OP_1})
	if got := ctx.CodeScriptHashValueSumUtxos(csh); got != 30 {
		t.Fatalf("CodeScriptHashValueSumUtxos = %d, want 30", got)
	}
	if got := ctx.CodeScriptHashOutputCountUtxos(csh); got != 2 {
		t.Fatalf("CodeScriptHashOutputCountUtxos = %d, want 2", got)
	}
	if got := ctx.CodeScriptHashValueSumOutputs(csh); got != 60 {
		t.Fatalf("CodeScriptHashValueSumOutputs = %d, want 60", got)
	}
	if got := ctx.CodeScriptHashZeroValuedOutputCountUtxos(csh); got != 0 {
		t.Fatalf("CodeScriptHashZeroValuedOutputCountUtxos = %d, want 0", got)
	}
}

func TestStateSeparatorSlicing(t *testing.T) {
	t.Parallel()

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddOp(opcode.OP_3).
			AddOp(opcode.OP_STATESEPARATOR).AddOp(opcode.OP_1)
	})

	if got := StateSeparatorByteIndex(script); got != 2 {
		t.Fatalf("separator index = %d, want 2", got)
	}
	if got := StateScript(script); !bytes.Equal(got, []byte{opcode.OP_2, opcode.OP_3}) {
		t.Fatalf("state script = %x", got)
	}
	if got := CodeScript(script); !bytes.Equal(got, []byte{opcode.OP_1}) {
		t.Fatalf("code script = %x", got)
	}

	// No separator: state script empty, code script is everything.
	plain := []byte{opcode.OP_1, opcode.OP_2}
	if got := StateScript(plain); got != nil {
		t.Fatalf("state script of plain = %x", got)
	}
	if got := CodeScript(plain); !bytes.Equal(got, plain) {
		t.Fatalf("code script of plain = %x", got)
	}
}

func TestMultipleStateSeparatorsRejected(t *testing.T) {
	t.Parallel()

	script := []byte{opcode.OP_1, opcode.OP_STATESEPARATOR,
		opcode.OP_STATESEPARATOR}
	_, err := NewDebugEngine(script, testFlags, nil)
	if !txscripterr.ErrInvalidStateSeparator.Is(err) {
		t.Fatalf("expected ErrInvalidStateSeparator, got %v", err)
	}

	// A separator byte inside push data is not a separator.
	inData := mustScript(t, func(b *ScriptBuilder) {
		b.AddData([]byte{opcode.OP_STATESEPARATOR}).
			AddOp(opcode.OP_STATESEPARATOR).AddOp(opcode.OP_1)
	})
	if _, err := NewDebugEngine(inData, testFlags, nil); err != nil {
		t.Fatalf("separator inside push rejected: %v", err)
	}
}

func TestStateSeparatorIndexOpcodes(t *testing.T) {
	t.Parallel()

	withSep := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddOp(opcode.OP_STATESEPARATOR).
			AddOp(opcode.OP_1)
	})
	coins := []Coin{
		{Value: 1, PkScript: withSep},
		{Value: 1, PkScript: []byte{opcode.OP_1}},
	}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(1, []byte{opcode.OP_1}),
	})

	// Coin 0 has its separator at byte 1, coin 1 has none.
	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_0).AddOp(opcode.OP_STATESEPARATORINDEX_UTXO).
			AddOp(opcode.OP_1).AddOp(opcode.OP_NUMEQUAL).
			AddOp(opcode.OP_VERIFY)
		b.AddOp(opcode.OP_1).AddOp(opcode.OP_STATESEPARATORINDEX_UTXO).
			AddInt64(-1).AddOp(opcode.OP_NUMEQUAL)
	})
	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	if err := vm.Execute(); err != nil || !vm.Success() {
		t.Fatalf("state separator index script failed: %v", err)
	}
}

func TestStateScriptBytecodeOpcodes(t *testing.T) {
	t.Parallel()

	withSep := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_2).AddOp(opcode.OP_STATESEPARATOR).
			AddOp(opcode.OP_1)
	})
	coins := []Coin{{Value: 1, PkScript: withSep}}
	tx, ctx := refTestHarness(t, coins, []*wire.TxOut{
		wire.NewTxOut(1, withSep),
	})

	script := mustScript(t, func(b *ScriptBuilder) {
		b.AddOp(opcode.OP_0).AddOp(opcode.OP_STATESCRIPTBYTECODE_UTXO).
			AddData([]byte{opcode.OP_2}).AddOp(opcode.OP_EQUALVERIFY)
		b.AddOp(opcode.OP_0).AddOp(opcode.OP_CODESCRIPTBYTECODE_OUTPUT).
			AddData([]byte{opcode.OP_1}).AddOp(opcode.OP_EQUAL)
	})
	vm, errr := NewEngine(nil, script, tx, 0, testFlags, coins[0].Value,
		ctx, NewAlwaysValidSignatureChecker())
	if errr != nil {
		t.Fatalf("failed to create engine: %v", errr)
	}
	if err := vm.Execute(); err != nil || !vm.Success() {
		t.Fatalf("state/code bytecode script failed: %v", err)
	}
}

func TestExecutionContextValidation(t *testing.T) {
	t.Parallel()

	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, nil))
	tx.AddTxOut(wire.NewTxOut(1, []byte{opcode.OP_1}))

	// Wrong coin count.
	_, err := NewExecutionContext(tx, nil, 0)
	if !txscripterr.ErrInvalidIndex.Is(err) {
		t.Fatalf("expected ErrInvalidIndex for coin count, got %v", err)
	}

	// Input index out of range.
	_, err = NewExecutionContext(tx, []Coin{{}}, 1)
	if !txscripterr.ErrInvalidIndex.Is(err) {
		t.Fatalf("expected ErrInvalidIndex for input index, got %v", err)
	}
}
