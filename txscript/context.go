// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"sort"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/params"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// Ref is a 36-byte induction reference: a txid followed by the little-endian
// output index.
type Ref = [params.RefSize]byte

// refFromBytes converts a 36-byte slice into a Ref.  The caller validates
// the length.
func refFromBytes(b []byte) Ref {
	var r Ref
	copy(r[:], b)
	return r
}

// Coin is the unspent output consumed by a transaction input.
type Coin struct {
	Value    int64
	PkScript []byte
	Height   uint32
	Coinbase bool
}

// PushRefSummary is the per-script digest the context precomputes so that
// the reference and state separator opcodes can answer in constant time.
type PushRefSummary struct {
	// Value of the coin or output the script belongs to.
	Value int64

	// PushRefs holds the operands of every OP_PUSHINPUTREF and
	// OP_PUSHINPUTREFSINGLETON in the script.
	PushRefs map[Ref]struct{}

	// RequireRefs holds the operands of every OP_REQUIREINPUTREF.
	RequireRefs map[Ref]struct{}

	// SiblingDisallowRefs holds the operands of every
	// OP_DISALLOWPUSHINPUTREFSIBLING.
	SiblingDisallowRefs map[Ref]struct{}

	// SingletonRefs holds the operands of every OP_PUSHINPUTREFSINGLETON.
	SingletonRefs map[Ref]struct{}

	// CodeScriptHash is the double sha256 of the script's code section
	// (the bytes after the state separator, or the whole script when the
	// script has none).
	CodeScriptHash chainhash.Hash

	// StateSeparatorByteIndex is the byte offset of the first
	// OP_STATESEPARATOR, or 0xffffffff when the script has none.
	StateSeparatorByteIndex uint32
}

// hasRef reports membership in the push set.
func (s *PushRefSummary) hasRef(ref Ref) bool {
	_, ok := s.PushRefs[ref]
	return ok
}

// computePushRefSummary linearly scans a script and collects its reference
// digest.  Scripts that fail to parse yield the summary of the prefix that
// does parse, matching how the consensus scanner treats trailing garbage.
func computePushRefSummary(script []byte, value int64) PushRefSummary {
	summary := PushRefSummary{
		Value:                   value,
		PushRefs:                make(map[Ref]struct{}),
		RequireRefs:             make(map[Ref]struct{}),
		SiblingDisallowRefs:     make(map[Ref]struct{}),
		SingletonRefs:           make(map[Ref]struct{}),
		StateSeparatorByteIndex: absentStateSeparator,
	}

	pops, _ := parsescript.ParseScript(script)
	for i := range pops {
		pop := &pops[i]
		switch pop.Opcode.Value {
		case opcode.OP_PUSHINPUTREF:
			if len(pop.Data) == params.RefSize {
				summary.PushRefs[refFromBytes(pop.Data)] = struct{}{}
			}
		case opcode.OP_REQUIREINPUTREF:
			if len(pop.Data) == params.RefSize {
				summary.RequireRefs[refFromBytes(pop.Data)] = struct{}{}
			}
		case opcode.OP_DISALLOWPUSHINPUTREFSIBLING:
			if len(pop.Data) == params.RefSize {
				summary.SiblingDisallowRefs[refFromBytes(pop.Data)] = struct{}{}
			}
		case opcode.OP_PUSHINPUTREFSINGLETON:
			if len(pop.Data) == params.RefSize {
				ref := refFromBytes(pop.Data)
				summary.SingletonRefs[ref] = struct{}{}
				summary.PushRefs[ref] = struct{}{}
			}
		case opcode.OP_STATESEPARATOR:
			if summary.StateSeparatorByteIndex == absentStateSeparator {
				summary.StateSeparatorByteIndex =
					uint32(parsescript.ByteIndex(pops, i))
			}
		}
	}

	summary.CodeScriptHash = chainhash.DoubleHashH(CodeScript(script))
	return summary
}

// ExecutionContext is the read-only aggregate consulted by the introspection
// and reference opcodes.  It is built once per (tx, spent coins, input index)
// and shared immutably by every VM validating the transaction.
type ExecutionContext struct {
	tx       *wire.MsgTx
	coins    []Coin
	inputIdx int

	inputSummaries  []PushRefSummary
	outputSummaries []PushRefSummary

	inputPushRefs  map[Ref]struct{}
	outputPushRefs map[Ref]struct{}
}

// NewExecutionContext builds a context.  The coin list must carry exactly
// one entry per transaction input, in input order, and the input index must
// be in range.
func NewExecutionContext(tx *wire.MsgTx, coins []Coin, inputIdx int) (*ExecutionContext, er.R) {
	if len(coins) != len(tx.TxIn) {
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidIndex,
			fmt.Sprintf("%d coins provided for %d transaction inputs",
				len(coins), len(tx.TxIn)))
	}
	if inputIdx < 0 || inputIdx >= len(tx.TxIn) {
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidIndex,
			fmt.Sprintf("input index %d >= %d inputs", inputIdx,
				len(tx.TxIn)))
	}

	ctx := &ExecutionContext{
		tx:             tx,
		coins:          coins,
		inputIdx:       inputIdx,
		inputPushRefs:  make(map[Ref]struct{}),
		outputPushRefs: make(map[Ref]struct{}),
	}

	ctx.inputSummaries = make([]PushRefSummary, len(coins))
	for i, coin := range coins {
		ctx.inputSummaries[i] = computePushRefSummary(coin.PkScript, coin.Value)
		for ref := range ctx.inputSummaries[i].PushRefs {
			ctx.inputPushRefs[ref] = struct{}{}
		}
	}

	ctx.outputSummaries = make([]PushRefSummary, len(tx.TxOut))
	for i, out := range tx.TxOut {
		ctx.outputSummaries[i] = computePushRefSummary(out.PkScript, out.Value)
		for ref := range ctx.outputSummaries[i].PushRefs {
			ctx.outputPushRefs[ref] = struct{}{}
		}
	}

	return ctx, nil
}

// Tx returns the transaction being validated.
func (ctx *ExecutionContext) Tx() *wire.MsgTx { return ctx.tx }

// InputIndex returns the index of the input being validated.
func (ctx *ExecutionContext) InputIndex() int { return ctx.inputIdx }

// InputCount returns the number of transaction inputs.
func (ctx *ExecutionContext) InputCount() int { return len(ctx.tx.TxIn) }

// OutputCount returns the number of transaction outputs.
func (ctx *ExecutionContext) OutputCount() int { return len(ctx.tx.TxOut) }

// TxVersion returns the transaction version.
func (ctx *ExecutionContext) TxVersion() int32 { return ctx.tx.Version }

// LockTime returns the transaction locktime.
func (ctx *ExecutionContext) LockTime() uint32 { return ctx.tx.LockTime }

// ValidInputIndex reports whether idx names a transaction input.
func (ctx *ExecutionContext) ValidInputIndex(idx int64) bool {
	return idx >= 0 && idx < int64(len(ctx.tx.TxIn))
}

// ValidOutputIndex reports whether idx names a transaction output.
func (ctx *ExecutionContext) ValidOutputIndex(idx int64) bool {
	return idx >= 0 && idx < int64(len(ctx.tx.TxOut))
}

// The accessors below return the zero value or an empty script on a bad
// index.  Index validation against the error taxonomy happens in the
// dispatcher, which checks before calling; the lenient behavior here keeps
// display code simple.

// UtxoValue returns the value of the coin spent by input idx.
func (ctx *ExecutionContext) UtxoValue(idx int) int64 {
	if idx < 0 || idx >= len(ctx.coins) {
		return 0
	}
	return ctx.coins[idx].Value
}

// UtxoBytecode returns the locking script of the coin spent by input idx.
func (ctx *ExecutionContext) UtxoBytecode(idx int) []byte {
	if idx < 0 || idx >= len(ctx.coins) {
		return nil
	}
	return ctx.coins[idx].PkScript
}

// InputCoin returns the coin spent by input idx.
func (ctx *ExecutionContext) InputCoin(idx int) Coin {
	if idx < 0 || idx >= len(ctx.coins) {
		return Coin{}
	}
	return ctx.coins[idx]
}

// OutpointTxHash returns the txid of input idx's previous outpoint.
func (ctx *ExecutionContext) OutpointTxHash(idx int) []byte {
	if idx < 0 || idx >= len(ctx.tx.TxIn) {
		return make([]byte, chainhash.HashSize)
	}
	return ctx.tx.TxIn[idx].PreviousOutPoint.Hash.CloneBytes()
}

// OutpointIndex returns the vout of input idx's previous outpoint.
func (ctx *ExecutionContext) OutpointIndex(idx int) uint32 {
	if idx < 0 || idx >= len(ctx.tx.TxIn) {
		return 0
	}
	return ctx.tx.TxIn[idx].PreviousOutPoint.Index
}

// InputBytecode returns the unlocking script of input idx.
func (ctx *ExecutionContext) InputBytecode(idx int) []byte {
	if idx < 0 || idx >= len(ctx.tx.TxIn) {
		return nil
	}
	return ctx.tx.TxIn[idx].SignatureScript
}

// InputSequence returns the sequence number of input idx.
func (ctx *ExecutionContext) InputSequence(idx int) uint32 {
	if idx < 0 || idx >= len(ctx.tx.TxIn) {
		return 0
	}
	return ctx.tx.TxIn[idx].Sequence
}

// OutputValue returns the value of output idx.
func (ctx *ExecutionContext) OutputValue(idx int) int64 {
	if idx < 0 || idx >= len(ctx.tx.TxOut) {
		return 0
	}
	return ctx.tx.TxOut[idx].Value
}

// OutputBytecode returns the locking script of output idx.
func (ctx *ExecutionContext) OutputBytecode(idx int) []byte {
	if idx < 0 || idx >= len(ctx.tx.TxOut) {
		return nil
	}
	return ctx.tx.TxOut[idx].PkScript
}

// InputPushRefSummary returns the digest of the coin spent by input idx.
func (ctx *ExecutionContext) InputPushRefSummary(idx int) *PushRefSummary {
	if idx < 0 || idx >= len(ctx.inputSummaries) {
		return nil
	}
	return &ctx.inputSummaries[idx]
}

// OutputPushRefSummary returns the digest of output idx.
func (ctx *ExecutionContext) OutputPushRefSummary(idx int) *PushRefSummary {
	if idx < 0 || idx >= len(ctx.outputSummaries) {
		return nil
	}
	return &ctx.outputSummaries[idx]
}

// InputPushRefs returns the union of the push sets of every spent coin.
func (ctx *ExecutionContext) InputPushRefs() map[Ref]struct{} {
	return ctx.inputPushRefs
}

// OutputPushRefs returns the union of the push sets of every output.
func (ctx *ExecutionContext) OutputPushRefs() map[Ref]struct{} {
	return ctx.outputPushRefs
}

// StateSeparatorIndexUtxo returns the separator byte offset of the coin
// spent by input idx, or 0xffffffff when absent.
func (ctx *ExecutionContext) StateSeparatorIndexUtxo(idx int) uint32 {
	if s := ctx.InputPushRefSummary(idx); s != nil {
		return s.StateSeparatorByteIndex
	}
	return absentStateSeparator
}

// StateSeparatorIndexOutput returns the separator byte offset of output idx,
// or 0xffffffff when absent.
func (ctx *ExecutionContext) StateSeparatorIndexOutput(idx int) uint32 {
	if s := ctx.OutputPushRefSummary(idx); s != nil {
		return s.StateSeparatorByteIndex
	}
	return absentStateSeparator
}

// CodeScriptUtxo returns the code section of the coin spent by input idx.
func (ctx *ExecutionContext) CodeScriptUtxo(idx int) []byte {
	return CodeScript(ctx.UtxoBytecode(idx))
}

// CodeScriptOutput returns the code section of output idx.
func (ctx *ExecutionContext) CodeScriptOutput(idx int) []byte {
	return CodeScript(ctx.OutputBytecode(idx))
}

// StateScriptUtxo returns the state section of the coin spent by input idx.
func (ctx *ExecutionContext) StateScriptUtxo(idx int) []byte {
	return StateScript(ctx.UtxoBytecode(idx))
}

// StateScriptOutput returns the state section of output idx.
func (ctx *ExecutionContext) StateScriptOutput(idx int) []byte {
	return StateScript(ctx.OutputBytecode(idx))
}

// RefValueSumUtxos sums the values of the spent coins whose push set holds
// the reference.
func (ctx *ExecutionContext) RefValueSumUtxos(ref Ref) int64 {
	var sum int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].hasRef(ref) {
			sum += ctx.coins[i].Value
		}
	}
	return sum
}

// RefValueSumOutputs sums the values of the outputs whose push set holds the
// reference.
func (ctx *ExecutionContext) RefValueSumOutputs(ref Ref) int64 {
	var sum int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].hasRef(ref) {
			sum += ctx.tx.TxOut[i].Value
		}
	}
	return sum
}

// RefOutputCountUtxos counts the spent coins whose push set holds the
// reference.
func (ctx *ExecutionContext) RefOutputCountUtxos(ref Ref) int64 {
	var count int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].hasRef(ref) {
			count++
		}
	}
	return count
}

// RefOutputCountOutputs counts the outputs whose push set holds the
// reference.
func (ctx *ExecutionContext) RefOutputCountOutputs(ref Ref) int64 {
	var count int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].hasRef(ref) {
			count++
		}
	}
	return count
}

// RefOutputCountZeroValuedUtxos counts the zero-valued spent coins whose
// push set holds the reference.
func (ctx *ExecutionContext) RefOutputCountZeroValuedUtxos(ref Ref) int64 {
	var count int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].hasRef(ref) && ctx.coins[i].Value == 0 {
			count++
		}
	}
	return count
}

// RefOutputCountZeroValuedOutputs counts the zero-valued outputs whose push
// set holds the reference.
func (ctx *ExecutionContext) RefOutputCountZeroValuedOutputs(ref Ref) int64 {
	var count int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].hasRef(ref) && ctx.tx.TxOut[i].Value == 0 {
			count++
		}
	}
	return count
}

// RefDataSummaryUtxo returns the push refs of the coin spent by input idx,
// concatenated in lexicographic order.
func (ctx *ExecutionContext) RefDataSummaryUtxo(idx int) []byte {
	if s := ctx.InputPushRefSummary(idx); s != nil {
		return concatSortedRefs(s.PushRefs)
	}
	return nil
}

// RefDataSummaryOutput returns the push refs of output idx, concatenated in
// lexicographic order.
func (ctx *ExecutionContext) RefDataSummaryOutput(idx int) []byte {
	if s := ctx.OutputPushRefSummary(idx); s != nil {
		return concatSortedRefs(s.PushRefs)
	}
	return nil
}

func concatSortedRefs(refs map[Ref]struct{}) []byte {
	sorted := make([]Ref, 0, len(refs))
	for ref := range refs {
		sorted = append(sorted, ref)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i][:]) < string(sorted[j][:])
	})

	out := make([]byte, 0, len(sorted)*params.RefSize)
	for _, ref := range sorted {
		out = append(out, ref[:]...)
	}
	return out
}

// RefHashDataSummaryUtxo returns the hash commitment to the coin spent by
// input idx: hash256 of the little-endian value followed by hash256 of the
// locking script.
func (ctx *ExecutionContext) RefHashDataSummaryUtxo(idx int) []byte {
	return refHashDataSummary(ctx.UtxoValue(idx), ctx.UtxoBytecode(idx))
}

// RefHashDataSummaryOutput returns the hash commitment to output idx in the
// same layout.
func (ctx *ExecutionContext) RefHashDataSummaryOutput(idx int) []byte {
	return refHashDataSummary(ctx.OutputValue(idx), ctx.OutputBytecode(idx))
}

func refHashDataSummary(value int64, script []byte) []byte {
	buf := make([]byte, 8, 8+chainhash.HashSize)
	for i := 0; i < 8; i++ {
		buf[i] = byte(uint64(value) >> (8 * i))
	}
	buf = append(buf, chainhash.DoubleHashB(script)...)
	return chainhash.DoubleHashB(buf)
}

// RefTypeUtxo classifies a reference across the spent coins: 0 when absent,
// 2 when it appears in some coin's singleton set, 1 otherwise.
func (ctx *ExecutionContext) RefTypeUtxo(ref Ref) int64 {
	return refType(ctx.inputSummaries, ref)
}

// RefTypeOutput classifies a reference across the outputs with the same
// encoding as RefTypeUtxo.
func (ctx *ExecutionContext) RefTypeOutput(ref Ref) int64 {
	return refType(ctx.outputSummaries, ref)
}

func refType(summaries []PushRefSummary, ref Ref) int64 {
	found := int64(0)
	for i := range summaries {
		if _, ok := summaries[i].SingletonRefs[ref]; ok {
			return 2
		}
		if summaries[i].hasRef(ref) {
			found = 1
		}
	}
	return found
}

// CodeScriptHashValueSumUtxos sums the values of spent coins whose code
// script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashValueSumUtxos(csh chainhash.Hash) int64 {
	var sum int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].CodeScriptHash == csh {
			sum += ctx.coins[i].Value
		}
	}
	return sum
}

// CodeScriptHashValueSumOutputs sums the values of outputs whose code script
// hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashValueSumOutputs(csh chainhash.Hash) int64 {
	var sum int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].CodeScriptHash == csh {
			sum += ctx.tx.TxOut[i].Value
		}
	}
	return sum
}

// CodeScriptHashOutputCountUtxos counts the spent coins whose code script
// hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashOutputCountUtxos(csh chainhash.Hash) int64 {
	var count int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// CodeScriptHashOutputCountOutputs counts the outputs whose code script
// hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashOutputCountOutputs(csh chainhash.Hash) int64 {
	var count int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// CodeScriptHashZeroValuedOutputCountUtxos counts the zero-valued spent
// coins whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashZeroValuedOutputCountUtxos(csh chainhash.Hash) int64 {
	var count int64
	for i := range ctx.inputSummaries {
		if ctx.inputSummaries[i].CodeScriptHash == csh && ctx.coins[i].Value == 0 {
			count++
		}
	}
	return count
}

// CodeScriptHashZeroValuedOutputCountOutputs counts the zero-valued outputs
// whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashZeroValuedOutputCountOutputs(csh chainhash.Hash) int64 {
	var count int64
	for i := range ctx.outputSummaries {
		if ctx.outputSummaries[i].CodeScriptHash == csh && ctx.tx.TxOut[i].Value == 0 {
			count++
		}
	}
	return count
}
