// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscripterr

import (
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
)

// Err identifies a kind of script error.
var Err er.ErrorType = er.NewErrorType("txscript.Err")

// These constants are used to identify a specific Error.
var (
	// ErrInternal is returned if internal consistency checks fail.  In
	// practice this error should never be seen as it would mean there is an
	// error in the engine logic.
	ErrInternal = Err.Code("ErrInternal")

	// ---------------------------------------
	// Failures related to improper API usage.
	// ---------------------------------------

	// ErrInvalidFlags is returned when the passed flags to NewEngine
	// contain an invalid combination.
	ErrInvalidFlags = Err.Code("ErrInvalidFlags")

	// ErrInvalidIndex is returned when an out-of-bounds index is passed to
	// a function.
	ErrInvalidIndex = Err.Code("ErrInvalidIndex")

	// ------------------------------------------
	// Failures related to final execution state.
	// ------------------------------------------

	// ErrEarlyReturn is returned when OP_RETURN is executed in the script.
	ErrEarlyReturn = Err.Code("ErrEarlyReturn")

	// ErrEvalFalse is returned when the script evaluated without error but
	// terminated with a false or empty top stack element.
	ErrEvalFalse = Err.Code("ErrEvalFalse")

	// ErrScriptUnfinished is returned when CheckErrorCondition is called on
	// a script that has not finished executing.
	ErrScriptUnfinished = Err.Code("ErrScriptUnfinished")

	// ErrInvalidProgramCounter is returned when an attempt to execute an
	// opcode is made once all of them have already been executed.  This can
	// happen due to things such as a second call to Execute or calling Step
	// after all opcodes have already been executed.
	ErrInvalidProgramCounter = Err.Code("ErrInvalidProgramCounter")

	// -----------------------------------------------------
	// Failures related to exceeding maximum allowed limits.
	// -----------------------------------------------------

	// ErrScriptSize is returned if a script is larger than MaxScriptSize.
	ErrScriptSize = Err.Code("ErrScriptSize")

	// ErrPushSize is returned if the size of an element to be pushed to the
	// stack is over MaxScriptElementSize.  This is also the failure mode of
	// the single-chunk hash opcodes (OP_BLAKE3, OP_K12) when their input
	// exceeds the chunk bound.
	ErrPushSize = Err.Code("ErrPushSize")

	// ErrOpCount is returned if a script has more than MaxOpsPerScript
	// opcodes that do not push data.
	ErrOpCount = Err.Code("ErrOpCount")

	// ErrStackSize is returned when stack and altstack combined depth is
	// over the limit.
	ErrStackSize = Err.Code("ErrStackSize")

	// ErrInvalidPubKeyCount is returned when the number of public keys
	// specified for a multisig is either negative or greater than
	// MaxPubKeysPerMultiSig.
	ErrInvalidPubKeyCount = Err.Code("ErrInvalidPubKeyCount")

	// ErrInvalidSignatureCount is returned when the number of signatures
	// specified for a multisig is either negative or greater than the
	// number of public keys.
	ErrInvalidSignatureCount = Err.Code("ErrInvalidSignatureCount")

	// --------------------------------------------
	// Failures related to verification operations.
	// --------------------------------------------

	// ErrVerify is returned when OP_VERIFY is encountered in a script and
	// the top item on the data stack does not evaluate to true.
	ErrVerify = Err.Code("ErrVerify")

	// ErrEqualVerify is returned when OP_EQUALVERIFY is encountered in a
	// script and the top item on the data stack does not evaluate to true.
	ErrEqualVerify = Err.Code("ErrEqualVerify")

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrNumEqualVerify = Err.Code("ErrNumEqualVerify")

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY is encountered
	// in a script and the top item on the data stack does not evaluate to
	// true.
	ErrCheckSigVerify = Err.Code("ErrCheckSigVerify")

	// ErrCheckMultiSigVerify is returned when OP_CHECKMULTISIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckMultiSigVerify = Err.Code("ErrCheckMultiSigVerify")

	// ErrCheckDataSigVerify is returned when OP_CHECKDATASIGVERIFY is
	// encountered in a script and the top item on the data stack does not
	// evaluate to true.
	ErrCheckDataSigVerify = Err.Code("ErrCheckDataSigVerify")

	// --------------------------------------------
	// Failures related to improper use of opcodes.
	// --------------------------------------------

	// ErrBadOpcode is returned when an opcode which is not understood, or
	// which is reserved, is encountered in an executed branch.
	ErrBadOpcode = Err.Code("ErrBadOpcode")

	// ErrDisabledOpcode is returned when an opcode which is gated behind a
	// capability flag is encountered without the flag being set.
	ErrDisabledOpcode = Err.Code("ErrDisabledOpcode")

	// ErrMalformedPush is returned when a data push opcode tries to push
	// more bytes than are left in the script.
	ErrMalformedPush = Err.Code("ErrMalformedPush")

	// ErrInvalidStackOperation is returned when a stack operation is
	// attempted with a number that is invalid for the current stack size.
	ErrInvalidStackOperation = Err.Code("ErrInvalidStackOperation")

	// ErrInvalidAltstackOperation is returned when an altstack operation is
	// attempted with a number that is invalid for the current altstack
	// size.
	ErrInvalidAltstackOperation = Err.Code("ErrInvalidAltstackOperation")

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF is
	// encountered in a script without first having an OP_IF or OP_NOTIF or
	// the end of script is reached without encountering an OP_ENDIF when
	// an OP_IF or OP_NOTIF was previously encountered.
	ErrUnbalancedConditional = Err.Code("ErrUnbalancedConditional")

	// ---------------------------------
	// Failures related to malleability.
	// ---------------------------------

	// ErrMinimalData is returned when the ScriptVerifyMinimalData flag
	// is set and the script contains push operations that do not use
	// the minimal opcode required.
	ErrMinimalData = Err.Code("ErrMinimalData")

	// ErrMinimalIf is returned when the ScriptVerifyMinimalIf flag is set
	// and the operand of an OP_IF/OP_NOTIF is not an empty vector or
	// [0x01].
	ErrMinimalIf = Err.Code("ErrMinimalIf")

	// ErrSigHashType is returned when a signature hash type is not one of
	// the supported types.
	ErrSigHashType = Err.Code("ErrSigHashType")

	// ErrSigDER is returned when a signature which should be a canonically
	// encoded DER signature is not.
	ErrSigDER = Err.Code("ErrSigDER")

	// ErrSigBadLength is returned when a signature is not within the valid
	// DER length bounds.
	ErrSigBadLength = Err.Code("ErrSigBadLength")

	// ErrSigHighS is returned when the ScriptVerifyLowS flag is set and the
	// script contains any signatures whose S values are higher than the
	// half order.
	ErrSigHighS = Err.Code("ErrSigHighS")

	// ErrSigPushOnly is returned when a script that is required to only
	// push data to the stack performs other operations.
	ErrSigPushOnly = Err.Code("ErrSigPushOnly")

	// ErrSigNullDummy is returned when the ScriptVerifyNullDummy flag is
	// set and a multisig script has anything other than 0 for the extra
	// dummy argument.
	ErrSigNullDummy = Err.Code("ErrSigNullDummy")

	// ErrSigNullFail is returned when the ScriptVerifyNullFail flag is set
	// and signatures are not empty on failed checksig or checkmultisig
	// operations.
	ErrSigNullFail = Err.Code("ErrSigNullFail")

	// ErrPubKeyType is returned when the ScriptVerifyStrictEncoding flag is
	// set and the script contains invalid public keys.
	ErrPubKeyType = Err.Code("ErrPubKeyType")

	// ErrCleanStack is returned when the ScriptVerifyCleanStack flag is
	// set, and after evaluation, the stack does not contain only a single
	// element.
	ErrCleanStack = Err.Code("ErrCleanStack")

	// ErrMustUseForkID is returned when a signature hash type does not
	// carry the fork-id bit.  The signature hash computation returns it for
	// every such hash type; the strict-encoding check returns it when the
	// ScriptEnableSigHashForkID flag is set.  The fork-id bit is mandatory
	// on this chain.
	ErrMustUseForkID = Err.Code("ErrMustUseForkID")

	// -------------------------------
	// Failures related to numerics.
	// -------------------------------

	// ErrInvalidNumberRange is returned when the argument for an opcode
	// that expects numeric input is larger than the configured maximum
	// number of bytes, or when an arithmetic operation overflows.
	ErrInvalidNumberRange = Err.Code("ErrInvalidNumberRange")

	// ErrDivByZero is returned when OP_DIV is invoked with a zero divisor.
	ErrDivByZero = Err.Code("ErrDivByZero")

	// ErrModByZero is returned when OP_MOD is invoked with a zero divisor.
	ErrModByZero = Err.Code("ErrModByZero")

	// ErrImpossibleEncoding is returned when OP_NUM2BIN is asked to encode
	// a number into fewer bytes than its magnitude requires.
	ErrImpossibleEncoding = Err.Code("ErrImpossibleEncoding")

	// -------------------------------
	// Failures related to locktimes.
	// -------------------------------

	// ErrNegativeLockTime is returned when a script contains an opcode that
	// interprets a negative lock time.
	ErrNegativeLockTime = Err.Code("ErrNegativeLockTime")

	// ErrUnsatisfiedLockTime is returned when a script contains an opcode
	// that involves a lock time and the required lock time has not been
	// reached.
	ErrUnsatisfiedLockTime = Err.Code("ErrUnsatisfiedLockTime")

	// -------------------------------
	// Failures related to soft forks.
	// -------------------------------

	// ErrDiscourageUpgradableNOPs is returned when the
	// ScriptDiscourageUpgradableNops flag is set and a NOP opcode is
	// encountered in a script.
	ErrDiscourageUpgradableNOPs = Err.Code("ErrDiscourageUpgradableNOPs")

	// ----------------------------------------
	// Failures related to native introspection.
	// ----------------------------------------

	// ErrContextNotPresent is returned when an introspection or reference
	// opcode executes in an engine that was built without an execution
	// context.
	ErrContextNotPresent = Err.Code("ErrContextNotPresent")

	// ErrInvalidTxInputIndex is returned when an introspection opcode is
	// given an input index outside [0, input_count).
	ErrInvalidTxInputIndex = Err.Code("ErrInvalidTxInputIndex")

	// ErrInvalidTxOutputIndex is returned when an introspection opcode is
	// given an output index outside [0, output_count).
	ErrInvalidTxOutputIndex = Err.Code("ErrInvalidTxOutputIndex")

	// ----------------------------------------
	// Failures related to induction references.
	// ----------------------------------------

	// ErrInvalidReference is returned when a reference operand is not
	// exactly 36 bytes, or when a disallowed reference reappears in a
	// spent coin.
	ErrInvalidReference = Err.Code("ErrInvalidReference")

	// ErrReferenceNotFound is returned by the deferred reference check
	// when a required reference does not appear in any spent coin's push
	// set.
	ErrReferenceNotFound = Err.Code("ErrReferenceNotFound")

	// ErrSingletonMismatch is returned when a singleton reference appears
	// in more than one spent coin or more than one output.
	ErrSingletonMismatch = Err.Code("ErrSingletonMismatch")

	// ErrInvalidStateSeparator is returned when a script carries more than
	// one OP_STATESEPARATOR.
	ErrInvalidStateSeparator = Err.Code("ErrInvalidStateSeparator")
)

// ScriptError creates an Error given a set of arguments.
func ScriptError(c *er.ErrorCode, desc string) er.R {
	return c.New(desc, nil)
}
