// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/params"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
	"github.com/Radiant-Core/rxdeb/wire"
)

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyDERSignatures defines that signatures are required to
	// comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyMinimalData defines that signatures must use the
	// smallest push operator.
	ScriptVerifyMinimalData

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// currently unused opcodes in the NOP family are reserved for future
	// upgrades, failing the script when one executes.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCleanStack defines that the stack must contain only one
	// stack element after evaluation and that the element must be true if
	// interpreted as a boolean.
	ScriptVerifyCleanStack

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that a
	// transaction output is spendable based on the locktime.  This is
	// BIP0065.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the
	// output being spent.  This is BIP0112.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyMinimalIf makes a script with an OP_IF/OP_NOTIF whose
	// operand is anything other than empty vector or [0x01] non-standard.
	ScriptVerifyMinimalIf

	// ScriptVerifyNullDummy defines that the extra stack item consumed by
	// a checkmultisig must be zero length.
	ScriptVerifyNullDummy

	// ScriptVerifyNullFail defines that signatures must be empty if a
	// checksig or checkmultisig operation fails.
	ScriptVerifyNullFail

	// ScriptEnableSigHashForkID makes the fork-id bit of signature hash
	// types mandatory.  It is always set in practice on this chain.
	ScriptEnableSigHashForkID

	// ScriptEnable64BitIntegers widens numeric stack elements to 8 bytes
	// and enables the shift and doubling opcodes.
	ScriptEnable64BitIntegers

	// ScriptEnableNativeIntrospection enables the transaction
	// introspection opcodes.
	ScriptEnableNativeIntrospection

	// ScriptEnableEnhancedReferences enables the induction reference and
	// state separator opcodes.
	ScriptEnableEnhancedReferences

	// ScriptEnablePushTxState enables OP_PUSH_TX_STATE.
	ScriptEnablePushTxState
)

// StandardVerifyFlags are the script flags a debugger run uses by default:
// everything the chain enforces on the current network.
const StandardVerifyFlags = ScriptBip16 |
	ScriptVerifyStrictEncoding |
	ScriptVerifyDERSignatures |
	ScriptVerifyLowS |
	ScriptVerifyMinimalData |
	ScriptDiscourageUpgradableNops |
	ScriptVerifyCleanStack |
	ScriptVerifyCheckLockTimeVerify |
	ScriptVerifyCheckSequenceVerify |
	ScriptVerifyMinimalIf |
	ScriptVerifyNullDummy |
	ScriptVerifyNullFail |
	ScriptEnableSigHashForkID |
	ScriptEnable64BitIntegers |
	ScriptEnableNativeIntrospection |
	ScriptEnableEnhancedReferences

// Phase identifies which script the engine is currently executing.
type Phase int

// The engine proceeds UNLOCK -> LOCK and, for a pay-to-script-hash lock,
// REDEEM.
const (
	PhaseUnlock Phase = iota
	PhaseLock
	PhaseRedeem
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnlock:
		return "UNLOCK"
	case PhaseLock:
		return "LOCK"
	case PhaseRedeem:
		return "REDEEM"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// StepInfo houses the VM state information that is passed to the step
// callback during script execution.
type StepInfo struct {
	// Phase is the engine's phase after the step.  When the step ran the
	// last opcode of a script this is already the phase of the next
	// script.
	Phase Phase

	// ScriptIndex is the index of the script being executed by the
	// engine.
	ScriptIndex int

	// OpcodeIndex is the index of the next opcode that will be executed
	// within the current script.
	OpcodeIndex int

	// Stack is the engine's current content on the data stack, bottom
	// first.
	Stack [][]byte

	// AltStack is the engine's current content on the alt stack, bottom
	// first.
	AltStack [][]byte
}

// snapshot is one entry of the engine's step history: a deep copy of every
// piece of mutable execution state.  The immutable transaction and context
// are shared, never copied.
type snapshot struct {
	scriptIdx   int
	scriptOff   int
	lastCodeSep int
	numOps      int
	opcodeCount int

	dstack    [][]byte
	astack    [][]byte
	condStack []int

	savedFirstStack [][]byte

	done     bool
	success  bool
	finalErr er.R

	pushedRefs            map[Ref]struct{}
	requiredRefs          map[Ref]struct{}
	singletonRefs         map[Ref]struct{}
	disallowedRefs        map[Ref]struct{}
	disallowedSiblingRefs map[Ref]struct{}
}

// Engine is the virtual machine that executes scripts one opcode at a time,
// keeping a history of prior states so that execution can be stepped
// backwards.
type Engine struct {
	// The following fields are set when the engine is created and are
	// never changed afterwards.
	flags       ScriptFlags
	tx          wire.MsgTx
	txIdx       int
	inputAmount int64
	execCtx     *ExecutionContext
	sigChecker  SignatureChecker
	bip16       bool

	// scripts houses the parsed scripts executed by the engine: the
	// unlocking script, the locking script, and, for a pay-to-script-hash
	// spend, the redeem script once the lock phase completes.
	scripts [][]parsescript.ParsedOpcode

	// The following fields track the current execution state.
	scriptIdx   int
	scriptOff   int
	lastCodeSep int
	numOps      int
	opcodeCount int
	dstack      stack
	astack      stack
	condStack   []int

	savedFirstStack [][]byte

	done     bool
	success  bool
	finalErr er.R

	// Reference tracking accumulated by the reference opcodes, validated
	// after execution completes.
	pushedRefs            map[Ref]struct{}
	requiredRefs          map[Ref]struct{}
	singletonRefs         map[Ref]struct{}
	disallowedRefs        map[Ref]struct{}
	disallowedSiblingRefs map[Ref]struct{}

	// history holds the pre-step snapshots, pushed before each step so
	// that Rewind recovers the state immediately before the last opcode,
	// including a faulting one.
	history []snapshot

	// initial is the state at construction, used by Reset.
	initial snapshot

	// stepCallback, when set, fires after every completed step.
	stepCallback func(*StepInfo)
}

// hasFlag returns whether the script engine instance has the passed flag
// set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on
// it and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode performs execution on the passed opcode.  It takes into
// account whether or not it is hidden by conditionals, but some rules still
// must be tested in this case.
func (vm *Engine) executeOpcode(pop *parsescript.ParsedOpcode) er.R {
	// Certain opcodes are illegal whenever the program counter passes
	// over them, executed or not.
	if popAlwaysIllegal(pop) {
		str := fmt.Sprintf("attempt to execute illegal opcode %s",
			opcode.OpcodeName(pop.Opcode.Value))
		return txscripterr.ScriptError(txscripterr.ErrBadOpcode, str)
	}

	// Note that this includes OP_RESERVED which counts as a push
	// operation.
	if pop.Opcode.Value > opcode.OP_16 {
		vm.numOps++
		if vm.numOps > params.MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				params.MaxOpsPerScript)
			return txscripterr.ScriptError(txscripterr.ErrOpCount, str)
		}
	} else if len(pop.Data) > params.MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(pop.Data), params.MaxScriptElementSize)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !popIsConditional(pop) {
		return nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.dstack.verifyMinimalData && vm.isBranchExecuting() &&
		pop.Opcode.Value <= opcode.OP_PUSHDATA4 {

		if err := popCheckMinimalDataPush(pop); err != nil {
			return err
		}
	}

	return executeOp(pop, vm)
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []parsescript.ParsedOpcode {
	return vm.scripts[vm.scriptIdx][vm.lastCodeSep:]
}

// checkHashTypeEncoding returns whether or not the passed hashtype adheres
// to the strict encoding requirements if enabled.
func (vm *Engine) checkHashTypeEncoding(hashType params.SigHashType) er.R {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	base := hashType.BaseType()
	if base < params.SigHashAll || base > params.SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return txscripterr.ScriptError(txscripterr.ErrSigHashType, str)
	}

	if vm.hasFlag(ScriptEnableSigHashForkID) && !hashType.HasForkID() {
		str := fmt.Sprintf("hash type 0x%x does not carry the "+
			"mandatory fork id bit", hashType)
		return txscripterr.ScriptError(txscripterr.ErrMustUseForkID, str)
	}
	if !vm.hasFlag(ScriptEnableSigHashForkID) && hashType.HasForkID() {
		str := fmt.Sprintf("hash type 0x%x carries the fork id bit "+
			"which is not enabled", hashType)
		return txscripterr.ScriptError(txscripterr.ErrSigHashType, str)
	}

	return nil
}

// checkPubKeyEncoding returns whether or not the passed public key adheres
// to the strict encoding requirements if enabled.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) er.R {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		// Compressed
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}

	return txscripterr.ScriptError(txscripterr.ErrPubKeyType,
		"unsupported public key type")
}

// halfOrder is half of the order of the secp256k1 curve, against which the
// low-S rule compares.
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// checkSignatureEncoding returns whether or not the passed signature adheres
// to the strict encoding requirements if enabled.
func (vm *Engine) checkSignatureEncoding(sig []byte) er.R {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	// An empty signature is not canonical DER, but it is the canonical
	// way to express a deliberately failing signature check, so it passes
	// through untouched.
	if len(sig) == 0 {
		return nil
	}

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining
	//     data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible
	//     number of bytes.  This implies the first byte can only be null
	//     if the highest bit of the next byte is set in order to prevent
	//     it from being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules
	//     are identical as those for R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minSigLen is the minimum length of a DER encoded signature:
		// 0x30 len 0x02 rlen r 0x02 slen s, 1-byte r and s.
		minSigLen = 8

		// maxSigLen is the maximum length of a DER encoded signature:
		// both r and s at their largest of 33 bytes.
		maxSigLen = 72

		sequenceOffset = 0
		dataLenOffset  = 1
		rTypeOffset    = 2
		rLenOffset     = 3
		rOffset        = 4
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minSigLen)
		return txscripterr.ScriptError(txscripterr.ErrSigBadLength, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxSigLen)
		return txscripterr.ScriptError(txscripterr.ErrSigBadLength, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong "+
			"type: %#x", sig[sequenceOffset])
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// The signature must indicate the correct amount of data for what is
	// actually in it.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is
	// inside the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like
	// its R counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of
	// the length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		str := "malformed signature: S type indicator missing"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}
	if sLenOffset >= sigLen {
		str := "malformed signature: S length missing"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// The lengths of R and S must match the overall length of the
	// signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		str := "malformed signature: invalid S length"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: "+
			"%#x != %#x", sig[rTypeOffset], asn1IntegerID)
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		str := "malformed signature: R length is zero"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		str := "malformed signature: R is negative"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		str := "malformed signature: R value has too much padding"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: "+
			"%#x != %#x", sig[sTypeOffset], asn1IntegerID)
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		str := "malformed signature: S length is zero"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		str := "malformed signature: S is negative"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		str := "malformed signature: S value has too much padding"
		return txscripterr.ScriptError(txscripterr.ErrSigDER, str)
	}

	// Verify the S value is <= half the order of the curve.  This check
	// is done because when it is higher, the complement modulo the order
	// can be used instead which is a shorter encoding by 1 byte.
	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[sOffset : sOffset+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return txscripterr.ScriptError(txscripterr.ErrSigHighS,
				"signature is not canonical due to unnecessarily high S value")
		}
	}

	return nil
}

// getStack views the contents of stack as an array where the last item is
// the top of the stack.
func getStack(s *stack) [][]byte {
	array := make([][]byte, s.Depth())
	for i := range array {
		// PeekByteArray can't fail due to overflow, already checked
		array[len(array)-i-1], _ = s.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the contents of the stack to the contents of the provided
// array where the last item is the top of the stack.
func setStack(s *stack, data [][]byte) {
	// This can not error.  Only errors are for invalid arguments.
	_ = s.DropN(s.Depth())

	for i := range data {
		s.PushByteArray(data[i])
	}
}

// cloneRefs deep copies a reference set.
func cloneRefs(refs map[Ref]struct{}) map[Ref]struct{} {
	out := make(map[Ref]struct{}, len(refs))
	for ref := range refs {
		out[ref] = struct{}{}
	}
	return out
}

// captureSnapshot copies the engine's mutable state into a snapshot.
func (vm *Engine) captureSnapshot() snapshot {
	return snapshot{
		scriptIdx:             vm.scriptIdx,
		scriptOff:             vm.scriptOff,
		lastCodeSep:           vm.lastCodeSep,
		numOps:                vm.numOps,
		opcodeCount:           vm.opcodeCount,
		dstack:                vm.dstack.clone(),
		astack:                vm.astack.clone(),
		condStack:             append([]int(nil), vm.condStack...),
		savedFirstStack:       cloneStackArray(vm.savedFirstStack),
		done:                  vm.done,
		success:               vm.success,
		finalErr:              vm.finalErr,
		pushedRefs:            cloneRefs(vm.pushedRefs),
		requiredRefs:          cloneRefs(vm.requiredRefs),
		singletonRefs:         cloneRefs(vm.singletonRefs),
		disallowedRefs:        cloneRefs(vm.disallowedRefs),
		disallowedSiblingRefs: cloneRefs(vm.disallowedSiblingRefs),
	}
}

// restoreSnapshot replaces the engine's mutable state with a snapshot.
func (vm *Engine) restoreSnapshot(s snapshot) {
	vm.scriptIdx = s.scriptIdx
	vm.scriptOff = s.scriptOff
	vm.lastCodeSep = s.lastCodeSep
	vm.numOps = s.numOps
	vm.opcodeCount = s.opcodeCount
	setStack(&vm.dstack, s.dstack)
	setStack(&vm.astack, s.astack)
	vm.condStack = append([]int(nil), s.condStack...)
	vm.savedFirstStack = cloneStackArray(s.savedFirstStack)
	vm.done = s.done
	vm.success = s.success
	vm.finalErr = s.finalErr
	vm.pushedRefs = cloneRefs(s.pushedRefs)
	vm.requiredRefs = cloneRefs(s.requiredRefs)
	vm.singletonRefs = cloneRefs(s.singletonRefs)
	vm.disallowedRefs = cloneRefs(s.disallowedRefs)
	vm.disallowedSiblingRefs = cloneRefs(s.disallowedSiblingRefs)

	// Any redeem script taken on after this snapshot no longer applies.
	if len(vm.scripts) > 2 && vm.scriptIdx < 2 {
		vm.scripts = vm.scripts[:2]
	}
}

func cloneStackArray(stk [][]byte) [][]byte {
	if stk == nil {
		return nil
	}
	out := make([][]byte, len(stk))
	for i, item := range stk {
		c := make([]byte, len(item))
		copy(c, item)
		out[i] = c
	}
	return out
}

// halt transitions the engine to its terminal failed state.
func (vm *Engine) halt(err er.R) {
	vm.done = true
	vm.success = false
	vm.finalErr = err
}

// Step executes the next opcode and moves the program counter to the next
// opcode in the script, or to the next script when the current one has
// ended.  A pre-step snapshot is pushed onto the history before anything
// runs, so Rewind always recovers the state immediately before the last
// step, including a faulting one.
//
// Step returns whether execution is finished and, when a rule was violated,
// the violation.  Calling Step after execution has finished is a no-op
// reporting done.
func (vm *Engine) Step() (bool, er.R) {
	if vm.done {
		return true, nil
	}

	vm.history = append(vm.history, vm.captureSnapshot())

	// Script exhaustion transitions are not observable steps: resolve
	// them until an opcode is available or execution completes.
	for vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		finished, err := vm.advanceScript()
		if err != nil {
			vm.halt(err)
			return true, err
		}
		if finished {
			return true, vm.finalErr
		}
	}

	pop := &vm.scripts[vm.scriptIdx][vm.scriptOff]
	if err := vm.executeOpcode(pop); err != nil {
		vm.halt(err)
		return true, err
	}

	// The number of elements in the combination of the data and alt
	// stacks must not exceed the maximum number of stack elements
	// allowed.
	combinedSize := int(vm.dstack.Depth()) + int(vm.astack.Depth())
	if combinedSize > params.MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combinedSize, params.MaxStackSize)
		err := txscripterr.ScriptError(txscripterr.ErrStackSize, str)
		vm.halt(err)
		return true, err
	}

	vm.scriptOff++
	vm.opcodeCount++

	// A trailing script end is resolved eagerly so that Done reflects
	// completion as soon as the last opcode has run.
	for !vm.done && vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		finished, err := vm.advanceScript()
		if err != nil {
			vm.halt(err)
			return true, err
		}
		if finished {
			break
		}
	}

	if vm.stepCallback != nil {
		vm.stepCallback(&StepInfo{
			Phase:       vm.Phase(),
			ScriptIndex: vm.scriptIdx,
			OpcodeIndex: vm.scriptOff,
			Stack:       getStack(&vm.dstack),
			AltStack:    getStack(&vm.astack),
		})
	}

	return vm.done, vm.finalErr
}

// advanceScript handles the end of the current script: conditional balance,
// the transition into the next phase (including the pay-to-script-hash
// redeem phase), and final completion.  It reports whether execution has
// completed.
func (vm *Engine) advanceScript() (bool, er.R) {
	// Illegal to have an `if' that straddles two scripts.
	if len(vm.condStack) != 0 {
		return false, txscripterr.ScriptError(txscripterr.ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}

	// Alt stack doesn't persist between scripts.
	_ = vm.astack.DropN(vm.astack.Depth())

	vm.numOps = 0 // number of ops is per script.
	vm.lastCodeSep = 0

	switch {
	case vm.scriptIdx == 0 && vm.bip16:
		vm.scriptIdx++
		vm.savedFirstStack = getStack(&vm.dstack)

	case vm.scriptIdx == 1 && vm.bip16:
		// Check the lock script ran successfully, then pull the
		// redeem script out of the first stack and take it on as the
		// third phase.
		if err := vm.CheckErrorCondition(false); err != nil {
			return false, err
		}

		if len(vm.savedFirstStack) == 0 {
			return false, txscripterr.ScriptError(
				txscripterr.ErrInvalidStackOperation,
				"no redeem script on the unlock stack")
		}
		script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
		if err := checkStateSeparators(script); err != nil {
			return false, err
		}
		pops, err := parsescript.ParseScript(script)
		if err != nil {
			return false, err
		}
		vm.scripts = append(vm.scripts, pops)
		vm.scriptIdx++

		// Set stack to be the stack from first script minus the
		// redeem script itself.
		setStack(&vm.dstack, vm.savedFirstStack[:len(vm.savedFirstStack)-1])

	default:
		vm.scriptIdx++
	}

	vm.scriptOff = 0

	if vm.scriptIdx >= len(vm.scripts) {
		vm.done = true
		vm.finalErr = vm.CheckErrorCondition(true)
		vm.success = vm.finalErr == nil
		return true, nil
	}

	return false, nil
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a true boolean on the stack.  An error otherwise.
//
// The check is non-destructive: the top stack element is inspected in place
// so that the debugger can keep examining the final state and rewind from
// it.  When finalScript is true the clean stack rule and the deferred
// reference constraints are validated as well.
func (vm *Engine) CheckErrorCondition(finalScript bool) er.R {
	if finalScript && !vm.done {
		return txscripterr.ScriptError(txscripterr.ErrScriptUnfinished,
			"error check when script unfinished")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) &&
		vm.dstack.Depth() != 1 {

		str := fmt.Sprintf("stack contains %d unexpected items",
			vm.dstack.Depth()-1)
		return txscripterr.ScriptError(txscripterr.ErrCleanStack, str)
	}

	if vm.dstack.Depth() < 1 {
		return txscripterr.ScriptError(txscripterr.ErrEvalFalse,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	if !asBool(v) {
		return txscripterr.ScriptError(txscripterr.ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	if finalScript {
		if err := vm.validateReferences(); err != nil {
			return err
		}
	}

	return nil
}

// validateReferences runs the deferred reference constraints against the
// execution context: every required reference must appear in some spent
// coin's push set, singletons must be unique on both sides of the
// transaction, and disallowed references (or their siblings) must not
// reappear.
func (vm *Engine) validateReferences() er.R {
	tracked := len(vm.requiredRefs) + len(vm.singletonRefs) +
		len(vm.disallowedRefs) + len(vm.disallowedSiblingRefs)
	if tracked == 0 {
		return nil
	}

	if vm.execCtx == nil {
		return txscripterr.ScriptError(txscripterr.ErrContextNotPresent,
			"reference validation requires an execution context")
	}
	ctx := vm.execCtx

	for ref := range vm.requiredRefs {
		if _, ok := ctx.InputPushRefs()[ref]; !ok {
			str := fmt.Sprintf("required reference %x not found in "+
				"any spent coin", ref[:])
			return txscripterr.ScriptError(txscripterr.ErrReferenceNotFound, str)
		}
	}

	for ref := range vm.singletonRefs {
		if n := ctx.RefOutputCountUtxos(ref); n > 1 {
			str := fmt.Sprintf("singleton reference %x appears in %d "+
				"spent coins", ref[:], n)
			return txscripterr.ScriptError(txscripterr.ErrSingletonMismatch, str)
		}
		if n := ctx.RefOutputCountOutputs(ref); n > 1 {
			str := fmt.Sprintf("singleton reference %x appears in %d "+
				"outputs", ref[:], n)
			return txscripterr.ScriptError(txscripterr.ErrSingletonMismatch, str)
		}
	}

	for ref := range vm.disallowedRefs {
		if _, ok := ctx.InputPushRefs()[ref]; ok {
			str := fmt.Sprintf("disallowed reference %x reappears in a "+
				"spent coin", ref[:])
			return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
		}
	}

	for ref := range vm.disallowedSiblingRefs {
		for other := range ctx.InputPushRefs() {
			if other == ref {
				continue
			}
			if bytes.Equal(other[:32], ref[:32]) {
				str := fmt.Sprintf("sibling of disallowed reference "+
					"%x reappears in a spent coin", ref[:])
				return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
			}
		}
	}

	return nil
}

// Execute will execute all scripts in the script engine and return either
// nil for successful validation or an error if one occurred.
func (vm *Engine) Execute() er.R {
	for {
		done, err := vm.Step()
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return vm.finalErr
}

// Rewind pops one history snapshot into the current state, stepping the
// engine backwards.  It returns false when the history is empty.
func (vm *Engine) Rewind() bool {
	if len(vm.history) == 0 {
		return false
	}
	vm.restoreSnapshot(vm.history[len(vm.history)-1])
	vm.history = vm.history[:len(vm.history)-1]
	return true
}

// Reset restores the engine to its initial state and clears the history.
func (vm *Engine) Reset() {
	vm.restoreSnapshot(vm.initial)
	vm.history = vm.history[:0]
}

// IsAtStart reports whether the engine is at its initial state with no
// history to rewind.
func (vm *Engine) IsAtStart() bool {
	return len(vm.history) == 0
}

// HistoryDepth returns the number of snapshots available for rewinding.
func (vm *Engine) HistoryDepth() int {
	return len(vm.history)
}

// Done reports whether execution has completed, successfully or not.
func (vm *Engine) Done() bool {
	return vm.done
}

// Success reports whether execution has completed successfully.
func (vm *Engine) Success() bool {
	return vm.done && vm.success
}

// Err returns the error execution halted with, or nil.
func (vm *Engine) Err() er.R {
	return vm.finalErr
}

// Phase returns the engine's current phase.
func (vm *Engine) Phase() Phase {
	switch vm.scriptIdx {
	case 0:
		return PhaseUnlock
	case 1:
		return PhaseLock
	default:
		return PhaseRedeem
	}
}

// ScriptIndex returns the index of the currently executing script.
func (vm *Engine) ScriptIndex() int {
	return vm.scriptIdx
}

// OpcodeIndex returns the index of the next opcode within the current
// script.
func (vm *Engine) OpcodeIndex() int {
	return vm.scriptOff
}

// ByteOffset returns the byte offset of the next opcode within the raw form
// of the current script, for source-level mapping.
func (vm *Engine) ByteOffset() int {
	if vm.scriptIdx >= len(vm.scripts) {
		return 0
	}
	return parsescript.ByteIndex(vm.scripts[vm.scriptIdx], vm.scriptOff)
}

// CondStack returns a copy of the conditional execution stack.
func (vm *Engine) CondStack() []int {
	return append([]int(nil), vm.condStack...)
}

// TrackedPushRefs returns a copy of the references accumulated by
// OP_PUSHINPUTREF so far.
func (vm *Engine) TrackedPushRefs() map[Ref]struct{} {
	return cloneRefs(vm.pushedRefs)
}

// TrackedRequireRefs returns a copy of the references accumulated by
// OP_REQUIREINPUTREF so far.
func (vm *Engine) TrackedRequireRefs() map[Ref]struct{} {
	return cloneRefs(vm.requiredRefs)
}

// TrackedSingletonRefs returns a copy of the references accumulated by
// OP_PUSHINPUTREFSINGLETON so far.
func (vm *Engine) TrackedSingletonRefs() map[Ref]struct{} {
	return cloneRefs(vm.singletonRefs)
}

// SetStepCallback installs a callback fired after every completed step.  It
// is meant for debugging displays; the callback must not mutate the engine.
func (vm *Engine) SetStepCallback(cb func(*StepInfo)) {
	vm.stepCallback = cb
}

// GetStack returns the contents of the primary stack as an array.  The last
// item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array is the top item in the
// stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array where
// the last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step() is called.
func (vm *Engine) DisasmPC() (string, er.R) {
	if vm.scriptIdx >= len(vm.scripts) ||
		vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		return "", txscripterr.ScriptError(txscripterr.ErrInvalidProgramCounter,
			"program counter beyond script")
	}
	return fmt.Sprintf("%02x:%04x: %s", vm.scriptIdx, vm.scriptOff,
		popPrint(&vm.scripts[vm.scriptIdx][vm.scriptOff], false)), nil
}

// DisasmScript returns the disassembly string for the script at the
// requested offset index.  Index 0 is the unlocking script, 1 the locking
// script, 2 the redeem script when one has been taken on.
func (vm *Engine) DisasmScript(idx int) (string, er.R) {
	if idx >= len(vm.scripts) {
		str := fmt.Sprintf("script index %d >= total scripts %d", idx,
			len(vm.scripts))
		return "", txscripterr.ScriptError(txscripterr.ErrInvalidIndex, str)
	}

	var disstr string
	for i := range vm.scripts[idx] {
		disstr = disstr + fmt.Sprintf("%02x:%04x: %s\n", idx, i,
			popPrint(&vm.scripts[idx][i], false))
	}
	return disstr, nil
}

// NewEngine returns a new script engine for the provided unlocking script,
// locking script, transaction, and input index.  The flags modify the
// behavior of the script engine according to the description provided by
// each flag.  The execution context may be nil, in which case the
// introspection and reference opcodes fail with ErrContextNotPresent.  The
// checker may be nil, in which case the production transaction signature
// checker is used.
func NewEngine(scriptSig []byte, scriptPubKey []byte, tx *wire.MsgTx,
	txIdx int, flags ScriptFlags, inputAmount int64,
	execCtx *ExecutionContext, checker SignatureChecker) (*Engine, er.R) {

	// The provided transaction input index must refer to a valid input.
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", txIdx, len(tx.TxIn))
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidIndex, str)
	}

	// When both the signature script and public key script are empty the
	// result is necessarily an error since the stack would end up being
	// empty which is equivalent to a false top element.  Thus, just
	// return the relevant error now as an optimization.
	if len(scriptSig) == 0 && len(scriptPubKey) == 0 {
		return nil, txscripterr.ScriptError(txscripterr.ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	vm := Engine{
		flags:                 flags,
		tx:                    *tx,
		txIdx:                 txIdx,
		inputAmount:           inputAmount,
		execCtx:               execCtx,
		sigChecker:            checker,
		pushedRefs:            make(map[Ref]struct{}),
		requiredRefs:          make(map[Ref]struct{}),
		singletonRefs:         make(map[Ref]struct{}),
		disallowedRefs:        make(map[Ref]struct{}),
		disallowedSiblingRefs: make(map[Ref]struct{}),
	}
	if vm.sigChecker == nil {
		vm.sigChecker = NewTxSignatureChecker(&vm.tx, txIdx, inputAmount)
	}

	// The signature script must only contain data pushes when the
	// associated flag is set.
	if vm.hasFlag(ScriptVerifySigPushOnly) && !IsPushOnlyScript(scriptSig) {
		return nil, txscripterr.ScriptError(txscripterr.ErrSigPushOnly,
			"signature script is not push only")
	}

	// The engine stores the scripts in parsed form using a slice.  This
	// allows multiple scripts to be executed in sequence.  For example,
	// with a pay-to-script-hash transaction, there will be ultimately be
	// a third script to execute.
	scripts := [][]byte{scriptSig, scriptPubKey}
	vm.scripts = make([][]parsescript.ParsedOpcode, len(scripts))
	for i, scr := range scripts {
		if len(scr) > params.MaxScriptSize {
			str := fmt.Sprintf("script size %d is larger than max "+
				"allowed size %d", len(scr), params.MaxScriptSize)
			return nil, txscripterr.ScriptError(txscripterr.ErrScriptSize, str)
		}
		if err := checkStateSeparators(scr); err != nil {
			return nil, err
		}
		var err er.R
		vm.scripts[i], err = parsescript.ParseScript(scr)
		if err != nil {
			return nil, err
		}
	}

	// Advance the program counter to the public key script when the
	// signature script is empty since there is nothing to execute for it
	// in that case.
	if len(scripts[0]) == 0 {
		vm.scriptIdx = 1
	}

	if vm.hasFlag(ScriptBip16) && isScriptHash(vm.scripts[1]) {
		// Only accept input scripts that push data for P2SH.
		if !parsescript.IsPushOnly(vm.scripts[0]) {
			return nil, txscripterr.ScriptError(txscripterr.ErrSigPushOnly,
				"pay to script hash is not push only")
		}
		vm.bip16 = true
	}

	vm.dstack.verifyMinimalData = vm.hasFlag(ScriptVerifyMinimalData)
	vm.astack.verifyMinimalData = vm.hasFlag(ScriptVerifyMinimalData)
	vm.dstack.numLen = params.DefaultScriptNumLen
	vm.astack.numLen = params.DefaultScriptNumLen
	if vm.hasFlag(ScriptEnable64BitIntegers) {
		vm.dstack.numLen = params.ExtendedScriptNumLen
		vm.astack.numLen = params.ExtendedScriptNumLen
	}

	vm.initial = vm.captureSnapshot()

	return &vm, nil
}

// NewDebugEngine returns an engine for exercising a bare script outside any
// real transaction: the script runs as the locking script of a one-input
// placeholder transaction with a permissive signature checker.  Introspection
// answers against the provided context when one is given.
func NewDebugEngine(script []byte, flags ScriptFlags,
	execCtx *ExecutionContext) (*Engine, er.R) {

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex}, nil))
	txIdx := 0
	if execCtx != nil {
		tx = execCtx.Tx()
		txIdx = execCtx.InputIndex()
	}

	return NewEngine(nil, script, tx, txIdx, flags, 0, execCtx,
		NewAlwaysValidSignatureChecker())
}

// VerifyScript composes an unlocking script with a locking script against
// one transaction input and enforces the post-execution invariants.  It is
// the all-at-once counterpart to constructing an engine and stepping it.
func VerifyScript(scriptSig, scriptPubKey []byte, tx *wire.MsgTx, txIdx int,
	inputAmount int64, flags ScriptFlags,
	execCtx *ExecutionContext) er.R {

	vm, err := NewEngine(scriptSig, scriptPubKey, tx, txIdx, flags,
		inputAmount, execCtx, nil)
	if err != nil {
		return err
	}
	return vm.Execute()
}
