// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/cloudflare/circl/xof/k12"
	"golang.org/x/crypto/ripemd160"
	"lukechampine.com/blake3"

	"github.com/Radiant-Core/rxdeb/chaincfg/chainhash"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/params"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/scriptnum"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
)

// Conditional execution constants.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// executeOp dispatches a single parsed opcode against the engine.  Capability
// gating happens here: an opcode whose capability flag is missing fails with
// ErrDisabledOpcode before its handler runs.
func executeOp(po *parsescript.ParsedOpcode, e *Engine) er.R {
	v := po.Opcode.Value

	switch {
	case v == opcode.OP_PUSH_TX_STATE:
		if !e.hasFlag(ScriptEnablePushTxState) {
			return opcodeDisabled(po, e)
		}
	case opcode.IsIntrospection(v):
		if !e.hasFlag(ScriptEnableNativeIntrospection) {
			return opcodeDisabled(po, e)
		}
	case opcode.IsReference(v) || opcode.IsStateSeparator(v):
		if !e.hasFlag(ScriptEnableEnhancedReferences) {
			return opcodeDisabled(po, e)
		}
	case v == opcode.OP_LSHIFT, v == opcode.OP_RSHIFT,
		v == opcode.OP_2MUL, v == opcode.OP_2DIV:
		if !e.hasFlag(ScriptEnable64BitIntegers) {
			return opcodeDisabled(po, e)
		}
	}

	// The push-by-length opcodes, the long pushes, and the small integer
	// pushes cover the whole low range and share handlers.
	switch {
	case v == opcode.OP_0:
		return opcodeFalse(po, e)
	case v <= opcode.OP_PUSHDATA4:
		return opcodePushData(po, e)
	case v == opcode.OP_1NEGATE:
		return opcode1Negate(po, e)
	case v >= opcode.OP_1 && v <= opcode.OP_16:
		return opcodeN(po, e)
	}

	switch v {
	// Control opcodes.
	case opcode.OP_NOP, opcode.OP_NOP1, opcode.OP_NOP4, opcode.OP_NOP5,
		opcode.OP_NOP6, opcode.OP_NOP7, opcode.OP_NOP8, opcode.OP_NOP9,
		opcode.OP_NOP10:
		return opcodeNop(po, e)
	case opcode.OP_IF:
		return opcodeIf(po, e)
	case opcode.OP_NOTIF:
		return opcodeNotIf(po, e)
	case opcode.OP_ELSE:
		return opcodeElse(po, e)
	case opcode.OP_ENDIF:
		return opcodeEndif(po, e)
	case opcode.OP_VERIFY:
		return opcodeVerify(po, e)
	case opcode.OP_RETURN:
		return opcodeReturn(po, e)
	case opcode.OP_CHECKLOCKTIMEVERIFY:
		return opcodeCheckLockTimeVerify(po, e)
	case opcode.OP_CHECKSEQUENCEVERIFY:
		return opcodeCheckSequenceVerify(po, e)

	// Stack opcodes.
	case opcode.OP_TOALTSTACK:
		return opcodeToAltStack(po, e)
	case opcode.OP_FROMALTSTACK:
		return opcodeFromAltStack(po, e)
	case opcode.OP_2DROP:
		return opcode2Drop(po, e)
	case opcode.OP_2DUP:
		return opcode2Dup(po, e)
	case opcode.OP_3DUP:
		return opcode3Dup(po, e)
	case opcode.OP_2OVER:
		return opcode2Over(po, e)
	case opcode.OP_2ROT:
		return opcode2Rot(po, e)
	case opcode.OP_2SWAP:
		return opcode2Swap(po, e)
	case opcode.OP_IFDUP:
		return opcodeIfDup(po, e)
	case opcode.OP_DEPTH:
		return opcodeDepth(po, e)
	case opcode.OP_DROP:
		return opcodeDrop(po, e)
	case opcode.OP_DUP:
		return opcodeDup(po, e)
	case opcode.OP_NIP:
		return opcodeNip(po, e)
	case opcode.OP_OVER:
		return opcodeOver(po, e)
	case opcode.OP_PICK:
		return opcodePick(po, e)
	case opcode.OP_ROLL:
		return opcodeRoll(po, e)
	case opcode.OP_ROT:
		return opcodeRot(po, e)
	case opcode.OP_SWAP:
		return opcodeSwap(po, e)
	case opcode.OP_TUCK:
		return opcodeTuck(po, e)

	// Splice opcodes.
	case opcode.OP_CAT:
		return opcodeCat(po, e)
	case opcode.OP_SPLIT:
		return opcodeSplit(po, e)
	case opcode.OP_NUM2BIN:
		return opcodeNum2Bin(po, e)
	case opcode.OP_BIN2NUM:
		return opcodeBin2Num(po, e)
	case opcode.OP_SIZE:
		return opcodeSize(po, e)
	case opcode.OP_REVERSEBYTES:
		return opcodeReverseBytes(po, e)

	// Bitwise opcodes.
	case opcode.OP_INVERT:
		return opcodeInvert(po, e)
	case opcode.OP_AND, opcode.OP_OR, opcode.OP_XOR:
		return opcodeBitwiseBinary(po, e)
	case opcode.OP_LSHIFT:
		return opcodeLShift(po, e)
	case opcode.OP_RSHIFT:
		return opcodeRShift(po, e)
	case opcode.OP_EQUAL:
		return opcodeEqual(po, e)
	case opcode.OP_EQUALVERIFY:
		return opcodeEqualVerify(po, e)

	// Arithmetic opcodes.
	case opcode.OP_1ADD:
		return opcode1Add(po, e)
	case opcode.OP_1SUB:
		return opcode1Sub(po, e)
	case opcode.OP_2MUL:
		return opcode2Mul(po, e)
	case opcode.OP_2DIV:
		return opcode2Div(po, e)
	case opcode.OP_NEGATE:
		return opcodeNegate(po, e)
	case opcode.OP_ABS:
		return opcodeAbs(po, e)
	case opcode.OP_NOT:
		return opcodeNot(po, e)
	case opcode.OP_0NOTEQUAL:
		return opcode0NotEqual(po, e)
	case opcode.OP_ADD:
		return opcodeAdd(po, e)
	case opcode.OP_SUB:
		return opcodeSub(po, e)
	case opcode.OP_MUL:
		return opcodeMul(po, e)
	case opcode.OP_DIV:
		return opcodeDiv(po, e)
	case opcode.OP_MOD:
		return opcodeMod(po, e)
	case opcode.OP_BOOLAND:
		return opcodeBoolAnd(po, e)
	case opcode.OP_BOOLOR:
		return opcodeBoolOr(po, e)
	case opcode.OP_NUMEQUAL:
		return opcodeNumEqual(po, e)
	case opcode.OP_NUMEQUALVERIFY:
		return opcodeNumEqualVerify(po, e)
	case opcode.OP_NUMNOTEQUAL:
		return opcodeNumNotEqual(po, e)
	case opcode.OP_LESSTHAN:
		return opcodeLessThan(po, e)
	case opcode.OP_GREATERTHAN:
		return opcodeGreaterThan(po, e)
	case opcode.OP_LESSTHANOREQUAL:
		return opcodeLessThanOrEqual(po, e)
	case opcode.OP_GREATERTHANOREQUAL:
		return opcodeGreaterThanOrEqual(po, e)
	case opcode.OP_MIN:
		return opcodeMin(po, e)
	case opcode.OP_MAX:
		return opcodeMax(po, e)
	case opcode.OP_WITHIN:
		return opcodeWithin(po, e)

	// Crypto opcodes.
	case opcode.OP_RIPEMD160:
		return opcodeRipemd160(po, e)
	case opcode.OP_SHA1:
		return opcodeSha1(po, e)
	case opcode.OP_SHA256:
		return opcodeSha256(po, e)
	case opcode.OP_HASH160:
		return opcodeHash160(po, e)
	case opcode.OP_HASH256:
		return opcodeHash256(po, e)
	case opcode.OP_SHA512_256:
		return opcodeSha512_256(po, e)
	case opcode.OP_HASH512_256:
		return opcodeHash512_256(po, e)
	case opcode.OP_BLAKE3:
		return opcodeBlake3(po, e)
	case opcode.OP_K12:
		return opcodeK12(po, e)
	case opcode.OP_CODESEPARATOR:
		return opcodeCodeSeparator(po, e)
	case opcode.OP_CHECKSIG:
		return opcodeCheckSig(po, e)
	case opcode.OP_CHECKSIGVERIFY:
		return opcodeCheckSigVerify(po, e)
	case opcode.OP_CHECKMULTISIG:
		return opcodeCheckMultiSig(po, e)
	case opcode.OP_CHECKMULTISIGVERIFY:
		return opcodeCheckMultiSigVerify(po, e)
	case opcode.OP_CHECKDATASIG:
		return opcodeCheckDataSig(po, e)
	case opcode.OP_CHECKDATASIGVERIFY:
		return opcodeCheckDataSigVerify(po, e)
	case opcode.OP_CHECKSIGADD:
		return opcodeCheckSigAdd(po, e)

	// State separator opcodes.
	case opcode.OP_STATESEPARATOR:
		return opcodeStateSeparator(po, e)
	case opcode.OP_STATESEPARATORINDEX_UTXO:
		return opcodeStateSeparatorIndexUtxo(po, e)
	case opcode.OP_STATESEPARATORINDEX_OUTPUT:
		return opcodeStateSeparatorIndexOutput(po, e)

	// Native introspection opcodes.
	case opcode.OP_INPUTINDEX:
		return opcodeInputIndex(po, e)
	case opcode.OP_ACTIVEBYTECODE:
		return opcodeActiveBytecode(po, e)
	case opcode.OP_TXVERSION:
		return opcodeTxVersion(po, e)
	case opcode.OP_TXINPUTCOUNT:
		return opcodeTxInputCount(po, e)
	case opcode.OP_TXOUTPUTCOUNT:
		return opcodeTxOutputCount(po, e)
	case opcode.OP_TXLOCKTIME:
		return opcodeTxLockTime(po, e)
	case opcode.OP_UTXOVALUE:
		return opcodeUtxoValue(po, e)
	case opcode.OP_UTXOBYTECODE:
		return opcodeUtxoBytecode(po, e)
	case opcode.OP_OUTPOINTTXHASH:
		return opcodeOutpointTxHash(po, e)
	case opcode.OP_OUTPOINTINDEX:
		return opcodeOutpointIndex(po, e)
	case opcode.OP_INPUTBYTECODE:
		return opcodeInputBytecode(po, e)
	case opcode.OP_INPUTSEQUENCENUMBER:
		return opcodeInputSequenceNumber(po, e)
	case opcode.OP_OUTPUTVALUE:
		return opcodeOutputValue(po, e)
	case opcode.OP_OUTPUTBYTECODE:
		return opcodeOutputBytecode(po, e)

	// Induction reference opcodes.
	case opcode.OP_PUSHINPUTREF:
		return opcodePushInputRef(po, e)
	case opcode.OP_PUSHINPUTREFSINGLETON:
		return opcodePushInputRefSingleton(po, e)
	case opcode.OP_REQUIREINPUTREF:
		return opcodeRequireInputRef(po, e)
	case opcode.OP_DISALLOWPUSHINPUTREF:
		return opcodeDisallowPushInputRef(po, e)
	case opcode.OP_DISALLOWPUSHINPUTREFSIBLING:
		return opcodeDisallowPushInputRefSibling(po, e)
	case opcode.OP_REFHASHDATASUMMARY_UTXO,
		opcode.OP_REFHASHDATASUMMARY_OUTPUT:
		return opcodeRefHashDataSummary(po, e)
	case opcode.OP_REFHASHVALUESUM_UTXOS,
		opcode.OP_REFHASHVALUESUM_OUTPUTS:
		return opcodeRefHashValueSum(po, e)
	case opcode.OP_REFTYPE_UTXO, opcode.OP_REFTYPE_OUTPUT:
		return opcodeRefType(po, e)
	case opcode.OP_REFVALUESUM_UTXOS, opcode.OP_REFVALUESUM_OUTPUTS:
		return opcodeRefValueSum(po, e)
	case opcode.OP_REFOUTPUTCOUNT_UTXOS, opcode.OP_REFOUTPUTCOUNT_OUTPUTS,
		opcode.OP_REFOUTPUTCOUNTZEROVALUED_UTXOS,
		opcode.OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS:
		return opcodeRefOutputCount(po, e)
	case opcode.OP_REFDATASUMMARY_UTXO, opcode.OP_REFDATASUMMARY_OUTPUT:
		return opcodeRefDataSummary(po, e)
	case opcode.OP_CODESCRIPTHASHVALUESUM_UTXOS,
		opcode.OP_CODESCRIPTHASHVALUESUM_OUTPUTS:
		return opcodeCodeScriptHashValueSum(po, e)
	case opcode.OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS,
		opcode.OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS,
		opcode.OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS,
		opcode.OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS:
		return opcodeCodeScriptHashOutputCount(po, e)
	case opcode.OP_CODESCRIPTBYTECODE_UTXO,
		opcode.OP_CODESCRIPTBYTECODE_OUTPUT:
		return opcodeCodeScriptBytecode(po, e)
	case opcode.OP_STATESCRIPTBYTECODE_UTXO,
		opcode.OP_STATESCRIPTBYTECODE_OUTPUT:
		return opcodeStateScriptBytecode(po, e)
	case opcode.OP_PUSH_TX_STATE:
		return opcodePushTxState(po, e)

	// Reserved opcodes.
	case opcode.OP_RESERVED, opcode.OP_VER, opcode.OP_RESERVED1,
		opcode.OP_RESERVED2, opcode.OP_VERIF, opcode.OP_VERNOTIF:
		return opcodeReserved(po, e)
	}

	return opcodeInvalid(po, e)
}

// opcodeOnelineRepls defines opcode names which are replaced when doing a
// one-line disassembly.  This is done to match the output of the reference
// implementation while not changing the opcode names in the nicer full
// disassembly.
var opcodeOnelineRepls = map[string]string{
	"OP_1NEGATE": "-1",
	"OP_0":       "0",
	"OP_1":       "1",
	"OP_2":       "2",
	"OP_3":       "3",
	"OP_4":       "4",
	"OP_5":       "5",
	"OP_6":       "6",
	"OP_7":       "7",
	"OP_8":       "8",
	"OP_9":       "9",
	"OP_10":      "10",
	"OP_11":      "11",
	"OP_12":      "12",
	"OP_13":      "13",
	"OP_14":      "14",
	"OP_15":      "15",
	"OP_16":      "16",
}

// popIsConditional returns whether or not the opcode is a conditional opcode
// which changes the conditional execution stack when executed.
func popIsConditional(pop *parsescript.ParsedOpcode) bool {
	switch pop.Opcode.Value {
	case opcode.OP_IF, opcode.OP_NOTIF, opcode.OP_ELSE, opcode.OP_ENDIF:
		return true
	default:
		return false
	}
}

// popAlwaysIllegal returns whether or not the opcode is always illegal when
// passed over by the program counter even if in a non-executed branch (it
// isn't a coincidence that they are conditionals).
func popAlwaysIllegal(pop *parsescript.ParsedOpcode) bool {
	switch pop.Opcode.Value {
	case opcode.OP_VERIF, opcode.OP_VERNOTIF:
		return true
	default:
		return false
	}
}

// popCheckMinimalDataPush returns whether or not the current data push uses
// the smallest possible opcode to represent it.  For example, the value 15
// could be pushed with OP_DATA_1 15 (among other variations); however, OP_15
// is a single opcode that represents the same value and is only a single
// byte versus two bytes.
func popCheckMinimalDataPush(pop *parsescript.ParsedOpcode) er.R {
	data := pop.Data
	dataLen := len(data)
	op := pop.Opcode.Value

	if dataLen == 0 && op != opcode.OP_0 {
		str := fmt.Sprintf("zero length data push is encoded with "+
			"opcode %s instead of OP_0", opcode.OpcodeName(op))
		return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
	} else if dataLen == 1 && data[0] >= 1 && data[0] <= 16 {
		if op != opcode.OP_1+data[0]-1 {
			// Should have used OP_1 .. OP_16
			str := fmt.Sprintf("data push of the value %d encoded "+
				"with opcode %s instead of OP_%d", data[0],
				opcode.OpcodeName(op), data[0])
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	} else if dataLen == 1 && data[0] == 0x81 {
		if op != opcode.OP_1NEGATE {
			str := fmt.Sprintf("data push of the value -1 encoded "+
				"with opcode %s instead of OP_1NEGATE",
				opcode.OpcodeName(op))
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	} else if dataLen <= 75 {
		if int(op) != dataLen {
			// Should have used a direct push
			str := fmt.Sprintf("data push of %d bytes encoded "+
				"with opcode %s instead of OP_DATA_%d", dataLen,
				opcode.OpcodeName(op), dataLen)
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	} else if dataLen <= 255 {
		if op != opcode.OP_PUSHDATA1 {
			str := fmt.Sprintf("data push of %d bytes encoded "+
				"with opcode %s instead of OP_PUSHDATA1",
				dataLen, opcode.OpcodeName(op))
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	} else if dataLen <= 65535 {
		if op != opcode.OP_PUSHDATA2 {
			str := fmt.Sprintf("data push of %d bytes encoded "+
				"with opcode %s instead of OP_PUSHDATA2",
				dataLen, opcode.OpcodeName(op))
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	}
	return nil
}

// popPrint returns a human-readable string representation of the opcode for
// use in script disassembly.
func popPrint(pop *parsescript.ParsedOpcode, oneline bool) string {
	// The reference implementation one-line disassembly replaces opcodes
	// which represent values (e.g. OP_0 through OP_16 and OP_1NEGATE)
	// with the raw value.  However, when not doing a one-line
	// disassembly, we prefer to show the actual opcode names.  Thus, only
	// replace the opcodes in question when the oneline flag is set.
	opcodeName := opcode.OpcodeName(pop.Opcode.Value)
	if oneline {
		if replName, ok := opcodeOnelineRepls[opcodeName]; ok {
			opcodeName = replName
		}

		// Nothing more to do for non-data push opcodes.
		if pop.Opcode.Length == 1 {
			return opcodeName
		}

		// The reference opcodes keep their name in front of the
		// operand so the disassembly stays readable.
		if opcode.HasEmbeddedRef(pop.Opcode.Value) {
			return fmt.Sprintf("%s %x", opcodeName, pop.Data)
		}

		return fmt.Sprintf("%x", pop.Data)
	}

	// Nothing more to do for non-data push opcodes.
	if pop.Opcode.Length == 1 {
		return opcodeName
	}

	if opcode.HasEmbeddedRef(pop.Opcode.Value) {
		return fmt.Sprintf("%s 0x%x", opcodeName, pop.Data)
	}

	// Add length for the OP_PUSHDATA# opcodes.
	retString := opcodeName
	switch pop.Opcode.Length {
	case -1:
		retString += fmt.Sprintf(" 0x%02x", len(pop.Data))
	case -2:
		retString += fmt.Sprintf(" 0x%04x", len(pop.Data))
	case -4:
		retString += fmt.Sprintf(" 0x%08x", len(pop.Data))
	}

	return fmt.Sprintf("%s 0x%02x", retString, pop.Data)
}

// popBytes returns any data associated with the opcode encoded as it would
// be in a script.  This is used for unparsing scripts from parsed opcodes.
func popBytes(pop *parsescript.ParsedOpcode) ([]byte, er.R) {
	var retbytes []byte
	if pop.Opcode.Length > 0 {
		retbytes = make([]byte, 1, pop.Opcode.Length)
	} else {
		retbytes = make([]byte, 1, 1+len(pop.Data)-
			pop.Opcode.Length)
	}

	retbytes[0] = pop.Opcode.Value
	if pop.Opcode.Length == 1 {
		if len(pop.Data) != 0 {
			str := fmt.Sprintf("internal consistency error - "+
				"parsed opcode %s has data length %d when %d "+
				"was expected", opcode.OpcodeName(pop.Opcode.Value),
				len(pop.Data), 0)
			return nil, txscripterr.ScriptError(txscripterr.ErrInternal, str)
		}
		return retbytes, nil
	}
	nbytes := pop.Opcode.Length
	if pop.Opcode.Length < 0 {
		l := len(pop.Data)
		// tempting just to hardcode to avoid the complexity here.
		switch pop.Opcode.Length {
		case -1:
			retbytes = append(retbytes, byte(l))
			nbytes = int(retbytes[1]) + len(retbytes)
		case -2:
			retbytes = append(retbytes, byte(l&0xff),
				byte(l>>8&0xff))
			nbytes = int(binary.LittleEndian.Uint16(retbytes[1:])) +
				len(retbytes)
		case -4:
			retbytes = append(retbytes, byte(l&0xff),
				byte((l>>8)&0xff), byte((l>>16)&0xff),
				byte((l>>24)&0xff))
			nbytes = int(binary.LittleEndian.Uint32(retbytes[1:])) +
				len(retbytes)
		}
	}

	retbytes = append(retbytes, pop.Data...)

	if len(retbytes) != nbytes {
		str := fmt.Sprintf("internal consistency error - "+
			"parsed opcode %s has data length %d when %d was "+
			"expected", opcode.OpcodeName(pop.Opcode.Value),
			len(retbytes), nbytes)
		return nil, txscripterr.ScriptError(txscripterr.ErrInternal, str)
	}

	return retbytes, nil
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for opcodes whose capability flag is
// missing from the engine.  The consensus rules dictate the script fails as
// soon as the program counter passes over a disabled opcode, even when it
// appears in a branch that is not executed.
func opcodeDisabled(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	str := fmt.Sprintf("attempt to execute disabled opcode %s",
		opcode.OpcodeName(op.Opcode.Value))
	return txscripterr.ScriptError(txscripterr.ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.  It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	str := fmt.Sprintf("attempt to execute reserved opcode %s",
		opcode.OpcodeName(op.Opcode.Value))
	return txscripterr.ScriptError(txscripterr.ErrBadOpcode, str)
}

// opcodeInvalid is a common handler for all invalid opcodes.  It returns an
// appropriate error indicating the opcode is invalid.
func opcodeInvalid(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	str := fmt.Sprintf("attempt to execute invalid opcode %s",
		opcode.OpcodeName(op.Opcode.Value))
	return txscripterr.ScriptError(txscripterr.ErrBadOpcode, str)
}

// opcodeFalse pushes an empty array to the data stack to represent false.
// Note that 0, when encoded as a number according to the numeric encoding
// consensus rules, is an empty array.
func opcodeFalse(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcodePushData is a common handler for the vast majority of opcodes that
// push raw data (bytes) to the data stack.
func opcodePushData(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) > params.MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(op.Data), params.MaxScriptElementSize)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}
	vm.dstack.PushByteArray(op.Data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	vm.dstack.PushInt(scriptnum.ScriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to
// 16) onto the data stack.
func opcodeN(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	// The opcodes are all defined consecutively, so the numeric value is
	// the difference.
	vm.dstack.PushInt(scriptnum.ScriptNum((op.Opcode.Value - (opcode.OP_1 - 1))))
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing, however, it will return an error when
// the flag to discourage use of NOPs is set for select opcodes.
func opcodeNop(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	switch op.Opcode.Value {
	case opcode.OP_NOP1, opcode.OP_NOP4, opcode.OP_NOP5,
		opcode.OP_NOP6, opcode.OP_NOP7, opcode.OP_NOP8, opcode.OP_NOP9,
		opcode.OP_NOP10:
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			str := fmt.Sprintf("OP_NOP%d reserved for soft-fork "+
				"upgrades", op.Opcode.Value-(opcode.OP_NOP1-1))
			return txscripterr.ScriptError(txscripterr.ErrDiscourageUpgradableNOPs, str)
		}
	}
	return nil
}

// popIfBool enforces the "minimal if" policy during script execution when
// the particular flag is set: for OP_IF and OP_NOTIF, the top stack item
// MUST either be an empty byte slice, or [0x01].  Otherwise, the item at the
// top of the stack will be popped and interpreted as a boolean.
func popIfBool(vm *Engine) (bool, er.R) {
	if !vm.hasFlag(ScriptVerifyMinimalIf) {
		return vm.dstack.PopBool()
	}

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return false, err
	}

	// The top element MUST have a length of at most one.
	if len(so) > 1 {
		str := fmt.Sprintf("minimal if is active, top element MUST "+
			"have a length of at most one, instead length is %v",
			len(so))
		return false, txscripterr.ScriptError(txscripterr.ErrMinimalIf, str)
	}

	// Additionally, if the length is one, then the value MUST be 0x01.
	if len(so) == 1 && so[0] != 0x01 {
		str := fmt.Sprintf("minimal if is active, top stack item MUST "+
			"be an empty byte array or 0x01, is instead: %v",
			so[0])
		return false, txscripterr.ScriptError(txscripterr.ErrMinimalIf, str)
	}

	return asBool(so), nil
}

// opcodeIf treats the top item on the data stack as a boolean and removes
// it.
//
// An appropriate entry is added to the conditional stack depending on
// whether the boolean is true and whether this if is on an executing branch
// in order to allow proper execution of further opcodes depending on the
// conditional logic.  When the boolean is true, the first branch will be
// executed (unless this opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Note that, unlike for all non-conditional opcodes, this is executed even
// when it is on a non-executing branch so proper nesting is maintained.
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}

		if ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeNotIf treats the top item on the data stack as a boolean and removes
// it.
//
// An appropriate entry is added to the conditional stack depending on
// whether the boolean is true and whether this if is on an executing branch
// in order to allow proper execution of further opcodes depending on the
// conditional logic.  When the boolean is false, the first branch will be
// executed (unless this opcode is nested in a non-executed branch).
//
// <expression> notif [statements] [else [statements]] endif
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}

		if !ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution",
			opcode.OpcodeName(op.Opcode.Value))
		return txscripterr.ScriptError(txscripterr.ErrUnbalancedConditional, str)
	}

	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case OpCondTrue:
		vm.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		vm.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
		// Value doesn't change in skip since it indicates this opcode
		// is nested in a non-executed branch.
	}
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution",
			opcode.OpcodeName(op.Opcode.Value))
		return txscripterr.ScriptError(txscripterr.ErrUnbalancedConditional, str)
	}

	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value
// and verifies it evaluates to true.  An error is returned either when there
// is no item on the stack or when that item evaluates to false.  In the
// latter case where the verification fails specifically due to the top item
// evaluating to false, the returned error will use the passed error code.
func abstractVerify(op *parsescript.ParsedOpcode, vm *Engine, c *er.ErrorCode) er.R {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", opcode.OpcodeName(op.Opcode.Value))
		return txscripterr.ScriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value
// and verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return abstractVerify(op, vm, txscripterr.ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return txscripterr.ScriptError(txscripterr.ErrEarlyReturn, "script returned early")
}

// verifyLockTime is a helper function used to validate locktimes.
func verifyLockTime(txLockTime, threshold, lockTime int64) er.R {
	// The lockTimes in both the script and transaction must be of the same
	// type.
	if !((txLockTime < threshold && lockTime < threshold) ||
		(txLockTime >= threshold && lockTime >= threshold)) {
		str := fmt.Sprintf("mismatched locktime types -- tx locktime %d, stack "+
			"locktime %d", txLockTime, lockTime)
		return txscripterr.ScriptError(txscripterr.ErrUnsatisfiedLockTime, str)
	}

	if lockTime > txLockTime {
		str := fmt.Sprintf("locktime requirement not satisfied -- "+
			"locktime is greater than the transaction locktime: "+
			"%d > %d", lockTime, txLockTime)
		return txscripterr.ScriptError(txscripterr.ErrUnsatisfiedLockTime, str)
	}

	return nil
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// LockTime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.  When the flag to
// upgrade OP_NOP2 is not set, the code continues as if OP_NOP2 were
// executed.
func opcodeCheckLockTimeVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	// If the ScriptVerifyCheckLockTimeVerify script flag is not set, treat
	// opcode as OP_NOP2 instead.
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return txscripterr.ScriptError(txscripterr.ErrDiscourageUpgradableNOPs,
				"OP_NOP2 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The current transaction locktime is a uint32 resulting in a maximum
	// locktime of 2^32-1 (the year 2106).  However, scriptNums are signed
	// and therefore a standard 4-byte scriptNum would only support up to a
	// maximum of 2^31-1 (the year 2038).  Thus, a 5-byte scriptNum is used
	// here since it will support up to 2^39-1 which allows dates beyond
	// the current locktime limit.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	lockTime, err := scriptnum.MakeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime < 0 {
		str := fmt.Sprintf("negative lock time: %d", lockTime)
		return txscripterr.ScriptError(txscripterr.ErrNegativeLockTime, str)
	}

	// The lock time field of a transaction is either a block height at
	// which the transaction is finalized or a timestamp depending on if
	// the value is before the locktime threshold.  When it is under the
	// threshold it is a block height.
	err = verifyLockTime(int64(vm.tx.LockTime), params.LockTimeThreshold,
		int64(lockTime))
	if err != nil {
		return err
	}

	// The lock time feature can also be disabled, thereby bypassing
	// OP_CHECKLOCKTIMEVERIFY, if every transaction input has been finalized
	// by setting its sequence to the maximum value (wire.MaxTxInSequenceNum).
	if vm.tx.TxIn[vm.txIdx].Sequence == 0xffffffff {
		return txscripterr.ScriptError(txscripterr.ErrUnsatisfiedLockTime,
			"transaction input is finalized")
	}

	return nil
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// Sequence field of the transaction input being validated.  When the flag to
// upgrade OP_NOP3 is not set, the code continues as if OP_NOP3 were
// executed.
func opcodeCheckSequenceVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	// If the ScriptVerifyCheckSequenceVerify script flag is not set, treat
	// opcode as OP_NOP3 instead.
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return txscripterr.ScriptError(txscripterr.ErrDiscourageUpgradableNOPs,
				"OP_NOP3 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The current transaction sequence is a uint32 resulting in a maximum
	// sequence of 2^32-1.  However, scriptNums are signed and therefore a
	// standard 4-byte scriptNum would only support up to a maximum of
	// 2^31-1.  Thus, a 5-byte scriptNum is used here since it will support
	// up to 2^39-1 which allows sequences beyond the current sequence
	// limit.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	stackSequence, err := scriptnum.MakeScriptNum(so, vm.dstack.verifyMinimalData, 5)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKSEQUENCEVERIFY.
	if stackSequence < 0 {
		str := fmt.Sprintf("negative sequence: %d", stackSequence)
		return txscripterr.ScriptError(txscripterr.ErrNegativeLockTime, str)
	}

	sequence := int64(stackSequence)

	// To provide for future soft-fork extensibility, if the operand has
	// the disabled lock-time flag set, CHECKSEQUENCEVERIFY behaves as a
	// NOP.
	if sequence&int64(sequenceLockTimeDisabled) != 0 {
		return nil
	}

	// Transaction version numbers not high enough to trigger CSV rules
	// must fail.
	if vm.tx.Version < 2 {
		str := fmt.Sprintf("invalid transaction version: %d",
			vm.tx.Version)
		return txscripterr.ScriptError(txscripterr.ErrUnsatisfiedLockTime, str)
	}

	// Sequence numbers with their most significant bit set are not
	// consensus constrained.  Testing that the transaction's sequence
	// number does not have this bit set prevents using this property to
	// get around a CHECKSEQUENCEVERIFY check.
	txSequence := int64(vm.tx.TxIn[vm.txIdx].Sequence)
	if txSequence&int64(sequenceLockTimeDisabled) != 0 {
		str := fmt.Sprintf("transaction sequence has sequence "+
			"locktime disabled bit set: 0x%x", txSequence)
		return txscripterr.ScriptError(txscripterr.ErrUnsatisfiedLockTime, str)
	}

	// Mask off non-consensus bits before doing comparisons.
	lockTimeMask := int64(sequenceLockTimeIsSeconds | sequenceLockTimeMask)
	return verifyLockTime(txSequence&lockTimeMask,
		sequenceLockTimeIsSeconds, sequence&lockTimeMask)
}

const (
	sequenceLockTimeDisabled  = 1 << 31
	sequenceLockTimeIsSeconds = 1 << 22
	sequenceLockTimeMask      = 0x0000ffff
)

// opcodeToAltStack removes the top item from the main data stack and pushes
// it onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if vm.astack.Depth() < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidAltstackOperation,
			"alt stack is empty")
	}
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcode2Drop removes the top 2 items from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.DropN(2)
}

// opcode2Dup duplicates the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.DupN(2)
}

// opcode3Dup duplicates the top 3 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.DupN(3)
}

// opcode2Over duplicates the 2 items before the top 2 items on the data
// stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.OverN(2)
}

// opcode2Rot rotates the top 6 items on the data stack to the left twice.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.RotN(2)
}

// opcode2Swap swaps the top 2 items on the data stack with the 2 that come
// before them.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the top item of the stack if it is not zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
// Example with 2 items: [x1 x2] -> [x1 x2 2]
func opcodeDepth(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	vm.dstack.PushInt(scriptnum.ScriptNum(vm.dstack.Depth()))
	return nil
}

// opcodeDrop removes the top item from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the data stack as an integer and
// duplicates the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.RotN(1)
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.SwapN(1)
}

// opcodeTuck inserts a duplicate of the top item of the data stack before
// the second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return vm.dstack.Tuck()
}

// opcodeCat concatenates the top two stack elements.
//
// Stack transformation: [... x1 x2] -> [... x1||x2]
func opcodeCat(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a)+len(b) > params.MaxScriptElementSize {
		str := fmt.Sprintf("concatenated size %d exceeds max allowed "+
			"size %d", len(a)+len(b), params.MaxScriptElementSize)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}

	c := make([]byte, 0, len(a)+len(b))
	c = append(c, a...)
	c = append(c, b...)
	vm.dstack.PushByteArray(c)
	return nil
}

// opcodeSplit splits the second-to-top stack element at the position given
// by the top stack element.
//
// Stack transformation: [... x n] -> [... x[:n] x[n:]]
func opcodeSplit(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	pos, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if pos < 0 || int64(pos) > int64(len(data)) {
		str := fmt.Sprintf("split position %d is outside [0, %d]", pos,
			len(data))
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation, str)
	}

	n := int(pos)
	left := make([]byte, n)
	copy(left, data[:n])
	right := make([]byte, len(data)-n)
	copy(right, data[n:])

	vm.dstack.PushByteArray(left)
	vm.dstack.PushByteArray(right)
	return nil
}

// opcodeNum2Bin re-encodes the numeric value below the top of the stack into
// a byte sequence of exactly the requested size, preserving the sign in the
// top byte.
//
// Stack transformation: [... n size] -> [... bin]
func opcodeNum2Bin(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	size, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if size < 0 || int64(size) > int64(params.MaxScriptElementSize) {
		str := fmt.Sprintf("requested encoding size %d is invalid", size)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}

	minimal := scriptnum.MinimallyEncode(data)
	if len(minimal) > int(size) {
		str := fmt.Sprintf("value requires %d bytes but %d were "+
			"requested", len(minimal), size)
		return txscripterr.ScriptError(txscripterr.ErrImpossibleEncoding, str)
	}

	out := make([]byte, int(size))
	copy(out, minimal)
	if len(minimal) > 0 && int(size) > len(minimal) {
		// Move the sign bit from the old top byte to the new one.
		sign := out[len(minimal)-1] & 0x80
		out[len(minimal)-1] &= 0x7f
		out[len(out)-1] = sign
	}

	vm.dstack.PushByteArray(out)
	return nil
}

// opcodeBin2Num reinterprets the top stack element as a number by minimally
// re-encoding it.  The result must fit the configured numeric width.
//
// Stack transformation: [... bin] -> [... n]
func opcodeBin2Num(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	minimal := scriptnum.MinimallyEncode(data)
	if len(minimal) > vm.dstack.numLen {
		str := fmt.Sprintf("minimized value is %d bytes which exceeds "+
			"the max allowed of %d", len(minimal), vm.dstack.numLen)
		return txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}

	vm.dstack.PushByteArray(minimal)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptnum.ScriptNum(len(so)))
	return nil
}

// opcodeReverseBytes reverses the bytes of the top stack element.
//
// Stack transformation: [... x1] -> [... reverse(x1)]
func opcodeReverseBytes(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	rev := make([]byte, len(so))
	for i, b := range so {
		rev[len(so)-1-i] = b
	}
	vm.dstack.PushByteArray(rev)
	return nil
}

// opcodeInvert flips every byte of the top stack element.
//
// Stack transformation: [... x1] -> [... ^x1]
func opcodeInvert(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	out := make([]byte, len(so))
	for i, b := range so {
		out[i] = ^b
	}
	vm.dstack.PushByteArray(out)
	return nil
}

// opcodeBitwiseBinary is the common handler of OP_AND, OP_OR and OP_XOR.
// Both operands must have the same byte length, and the result keeps it.
//
// Stack transformation: [... x1 x2] -> [... x1 op x2]
func opcodeBitwiseBinary(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(a) != len(b) {
		str := fmt.Sprintf("operand sizes %d and %d differ", len(a),
			len(b))
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation, str)
	}

	out := make([]byte, len(a))
	switch op.Opcode.Value {
	case opcode.OP_AND:
		for i := range a {
			out[i] = a[i] & b[i]
		}
	case opcode.OP_OR:
		for i := range a {
			out[i] = a[i] | b[i]
		}
	case opcode.OP_XOR:
		for i := range a {
			out[i] = a[i] ^ b[i]
		}
	}

	vm.dstack.PushByteArray(out)
	return nil
}

// popShiftOperands pops the shift amount and the operand shared by OP_LSHIFT
// and OP_RSHIFT, bounds-checking the amount against the operand's bit
// length.
func popShiftOperands(vm *Engine) ([]byte, int, er.R) {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return nil, 0, err
	}
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return nil, 0, err
	}

	if n < 0 {
		str := fmt.Sprintf("shift amount %d is negative", n)
		return nil, 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}
	if int64(n) > int64(len(data))*8 {
		str := fmt.Sprintf("shift amount %d exceeds %d bits", n,
			len(data)*8)
		return nil, 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}

	return data, int(n), nil
}

// opcodeLShift treats the second-to-top stack element as one bit string, byte
// 0 first and the high bit first within each byte, and shifts it toward byte
// 0 by the amount given on top.  The element keeps its length; bits shifted
// past the boundary are discarded.
//
// Stack transformation: [... x n] -> [... x << n]
func opcodeLShift(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	data, n, err := popShiftOperands(vm)
	if err != nil {
		return err
	}

	full, bits := n/8, uint(n%8)
	out := make([]byte, len(data))
	for i := range out {
		src := i + full
		var v byte
		if src < len(data) {
			v = data[src] << bits
		}
		if bits > 0 && src+1 < len(data) {
			v |= data[src+1] >> (8 - bits)
		}
		out[i] = v
	}

	vm.dstack.PushByteArray(out)
	return nil
}

// opcodeRShift treats the second-to-top stack element as one bit string, byte
// 0 first and the high bit first within each byte, and shifts it away from
// byte 0 by the amount given on top.  The element keeps its length; bits
// shifted past the boundary are discarded with no sign extension.
//
// Stack transformation: [... x n] -> [... x >> n]
func opcodeRShift(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	data, n, err := popShiftOperands(vm)
	if err != nil {
		return err
	}

	full, bits := n/8, uint(n%8)
	out := make([]byte, len(data))
	for i := range out {
		src := i - full
		var v byte
		if src >= 0 {
			v = data[src] >> bits
		}
		if bits > 0 && src-1 >= 0 {
			v |= data[src-1] << (8 - bits)
		}
		out[i] = v
	}

	vm.dstack.PushByteArray(out)
	return nil
}

// opcodeEqual removes the top 2 items of the data stack, compares them as
// raw bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	err := opcodeEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, txscripterr.ErrEqualVerify)
	}
	return err
}

// The arithmetic helpers below fail with ErrInvalidNumberRange on int64
// overflow: overflow is a script failure, never a silent wrap.

func checkedAdd(a, b scriptnum.ScriptNum) (scriptnum.ScriptNum, er.R) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		str := fmt.Sprintf("%d + %d overflows", a, b)
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}
	return sum, nil
}

func checkedSub(a, b scriptnum.ScriptNum) (scriptnum.ScriptNum, er.R) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		str := fmt.Sprintf("%d - %d overflows", a, b)
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}
	return diff, nil
}

func checkedMul(a, b scriptnum.ScriptNum) (scriptnum.ScriptNum, er.R) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/b != a || (a == -1 && b == minScriptNum) ||
		(b == -1 && a == minScriptNum) {
		str := fmt.Sprintf("%d * %d overflows", a, b)
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}
	return prod, nil
}

func checkedNeg(a scriptnum.ScriptNum) (scriptnum.ScriptNum, er.R) {
	if a == minScriptNum {
		str := fmt.Sprintf("negation of %d overflows", a)
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}
	return -a, nil
}

const minScriptNum = scriptnum.ScriptNum(-1 << 63)

// opcode1Add treats the top item on the data stack as an integer and
// replaces it with its incremented value (plus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2+1]
func opcode1Add(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	sum, err := checkedAdd(m, 1)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(sum)
	return nil
}

// opcode1Sub treats the top item on the data stack as an integer and
// replaces it with its decremented value (minus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2-1]
func opcode1Sub(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	diff, err := checkedSub(m, 1)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(diff)
	return nil
}

// opcode2Mul treats the top item on the data stack as an integer and
// replaces it with its doubled value.
//
// Stack transformation: [... x1 x2] -> [... x1 2*x2]
func opcode2Mul(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	prod, err := checkedMul(m, 2)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(prod)
	return nil
}

// opcode2Div treats the top item on the data stack as an integer and
// replaces it with its halved value, truncating toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1 x2/2]
func opcode2Div(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(m / 2)
	return nil
}

// opcodeNegate treats the top item on the data stack as an integer and
// replaces it with its negation.
//
// Stack transformation: [... x1 x2] -> [... x1 -x2]
func opcodeNegate(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	neg, err := checkedNeg(m)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(neg)
	return nil
}

// opcodeAbs treats the top item on the data stack as an integer and replaces
// it with its absolute value.
//
// Stack transformation: [... x1 x2] -> [... x1 abs(x2)]
func opcodeAbs(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m < 0 {
		var errr er.R
		m, errr = checkedNeg(m)
		if errr != nil {
			return errr
		}
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// NOTE: While it would probably make more sense to treat the top item as a
// boolean, and push the opposite, which is really what the intention of this
// opcode is, it is extremely important that is not done because integers are
// interpreted differently than booleans and the consensus rules for this
// opcode dictate the item is interpreted as an integer.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 0]
func opcodeNot(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m == 0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}
	return nil
}

// opcode0NotEqual treats the top item on the data stack as an integer and
// replaces it with either a 0 if it is zero, or a 1 if it is not zero.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 17] -> [... x1 1]
func opcode0NotEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m != 0 {
		m = 1
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeAdd treats the top two items on the data stack as integers and
// replaces them with their sum.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	sum, err := checkedAdd(v0, v1)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(sum)
	return nil
}

// opcodeSub treats the top two items on the data stack as integers and
// replaces them with the result of subtracting the top entry from the
// second-to-top entry.
//
// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	diff, err := checkedSub(v1, v0)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(diff)
	return nil
}

// opcodeMul treats the top two items on the data stack as integers and
// replaces them with their product.
//
// Stack transformation: [... x1 x2] -> [... x1*x2]
func opcodeMul(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	prod, err := checkedMul(v1, v0)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(prod)
	return nil
}

// opcodeDiv treats the top two items on the data stack as integers and
// replaces them with the quotient of the second-to-top entry divided by the
// top entry, truncating toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1/x2]
func opcodeDiv(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == 0 {
		return txscripterr.ScriptError(txscripterr.ErrDivByZero,
			"division by zero")
	}
	if v1 == minScriptNum && v0 == -1 {
		str := fmt.Sprintf("%d / %d overflows", v1, v0)
		return txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}

	vm.dstack.PushInt(v1 / v0)
	return nil
}

// opcodeMod treats the top two items on the data stack as integers and
// replaces them with the remainder of the second-to-top entry divided by the
// top entry.  The remainder keeps the sign of the dividend.
//
// Stack transformation: [... x1 x2] -> [... x1%x2]
func opcodeMod(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == 0 {
		return txscripterr.ScriptError(txscripterr.ErrModByZero,
			"modulo by zero")
	}
	if v1 == minScriptNum && v0 == -1 {
		vm.dstack.PushInt(0)
		return nil
	}

	vm.dstack.PushInt(v1 % v0)
	return nil
}

// opcodeBoolAnd treats the top two items on the data stack as integers.
// When both of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 0]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 0]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolAnd(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 && v1 != 0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeBoolOr treats the top two items on the data stack as integers.  When
// either of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 1]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 1]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolOr(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 || v1 != 0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeNumEqual treats the top two items on the data stack as integers.
// When they are equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 1]
// Stack transformation (x1!=x2): [... 5 7] -> [... 0]
func opcodeNumEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == v1 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Specifically, treats the top two items on the data stack as integers.
// When they are equal, they are replaced with a 1, otherwise a 0.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	err := opcodeNumEqual(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, txscripterr.ErrNumEqualVerify)
	}
	return err
}

// opcodeNumNotEqual treats the top two items on the data stack as integers.
// When they are NOT equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 0]
// Stack transformation (x1!=x2): [... 5 7] -> [... 1]
func opcodeNumNotEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != v1 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeLessThan treats the top two items on the data stack as integers.
// When the second-to-top item is less than the top item, they are replaced
// with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThan(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeGreaterThan treats the top two items on the data stack as integers.
// When the second-to-top item is greater than the top item, they are
// replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThan(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}
	return nil
}

// opcodeLessThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is less than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThanOrEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 <= v0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}
	return nil
}

// opcodeGreaterThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is greater than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 >= v0 {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}

	return nil
}

// opcodeMin treats the top two items on the data stack as integers and
// replaces them with the minimum of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}

	return nil
}

// opcodeMax treats the top two items on the data stack as integers and
// replaces them with the maximum of the two.
//
// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}
	return nil
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When
// the value to test is within the specified range (left inclusive), they are
// replaced with a 1, otherwise a 0.
//
// The top item is the max value, the second-top-item is the minimum value,
// and the third-to-top item is the value to test.
//
// Stack transformation: [... x1 min max] -> [... bool]
func opcodeWithin(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if x >= minVal && x < maxVal {
		vm.dstack.PushInt(scriptnum.ScriptNum(1))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(0))
	}
	return nil
}

// opcodeRipemd160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(data).
//
// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	h := ripemd160.New()
	h.Write(buf)
	vm.dstack.PushByteArray(h.Sum(nil))
	return nil
}

// opcodeSha1 treats the top item of the data stack as raw bytes and replaces
// it with sha1(data).
//
// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha1.Sum(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeSha256 treats the top item of the data stack as raw bytes and
// replaces it with sha256(data).
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(sha256(data)).
//
// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	h := ripemd160.New()
	h.Write(hash[:])
	vm.dstack.PushByteArray(h.Sum(nil))
	return nil
}

// opcodeHash256 treats the top item of the data stack as raw bytes and
// replaces it with sha256(sha256(data)).
//
// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(chainhash.DoubleHashB(buf))
	return nil
}

// opcodeSha512_256 treats the top item of the data stack as raw bytes and
// replaces it with sha512/256(data).
//
// Stack transformation: [... x1] -> [... sha512_256(x1)]
func opcodeSha512_256(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha512.Sum512_256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash512_256 treats the top item of the data stack as raw bytes and
// replaces it with sha512/256(sha512/256(data)).
//
// Stack transformation: [... x1] -> [... sha512_256(sha512_256(x1))]
func opcodeHash512_256(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	first := sha512.Sum512_256(buf)
	second := sha512.Sum512_256(first[:])
	vm.dstack.PushByteArray(second[:])
	return nil
}

// opcodeBlake3 treats the top item of the data stack as raw bytes and
// replaces it with blake3(data).  The implementation is single-chunk only:
// inputs beyond the chunk bound fail.
//
// Stack transformation: [... x1] -> [... blake3(x1)]
func opcodeBlake3(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(buf) > params.Blake3ChunkSize {
		str := fmt.Sprintf("blake3 input of %d bytes exceeds the "+
			"single-chunk bound of %d", len(buf), params.Blake3ChunkSize)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}

	hash := blake3.Sum256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeK12 treats the top item of the data stack as raw bytes and replaces
// it with kangarootwelve(data).  The implementation is single-block only:
// inputs beyond the block bound fail.
//
// Stack transformation: [... x1] -> [... k12(x1)]
func opcodeK12(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(buf) > params.K12BlockSize {
		str := fmt.Sprintf("k12 input of %d bytes exceeds the "+
			"single-block bound of %d", len(buf), params.K12BlockSize)
		return txscripterr.ScriptError(txscripterr.ErrPushSize, str)
	}

	h := k12.NewDraft10(nil)
	_, _ = h.Write(buf)
	out := make([]byte, 32)
	_, _ = h.Read(out)
	vm.dstack.PushByteArray(out)
	return nil
}

// opcodeCodeSeparator stores the current script offset as the most recently
// seen OP_CODESEPARATOR which is used during signature checking.
//
// This opcode does not change the contents of the data stack.
func opcodeCodeSeparator(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	vm.lastCodeSep = vm.scriptOff + 1
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature
// was successfully verified.
//
// The process of verifying a signature requires calculating a signature hash
// in the same way the transaction signer did.  It involves hashing portions
// of the transaction based on the hash type byte (which is the final byte of
// the signature) and the portion of the script starting from the most recent
// OP_CODESEPARATOR (or the beginning of the script if there are none) to the
// end of the script (with any other OP_CODESEPARATORs removed).  Once this
// "script hash" is calculated, the signature is checked against the provided
// public key through the engine's signature authority.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// The signature actually needs needs to be longer than this, but at
	// least 1 byte is needed for the hash type below.  The full length is
	// checked depending on the script flags and upon parsing the
	// signature.
	if len(fullSigBytes) < 1 {
		vm.dstack.PushBool(false)
		return nil
	}

	// Trim off hashtype from the signature string and check if the
	// signature and pubkey conform to the strict encoding requirements
	// depending on the flags.
	//
	// NOTE: When the strict encoding flags are set, any errors in the
	// signature or public encoding here result in an immediate script
	// error (and thus no result bool is pushed to the data stack).  This
	// differs from the logic below where any errors in parsing the
	// signature is treated as the signature failure resulting in false
	// being pushed to the data stack.  This is required because the more
	// general script validation consensus rules do not have the new
	// strict encoding requirements enabled by the flags.
	hashType := params.SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]
	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	// Get script starting from the most recent OP_CODESEPARATOR with the
	// signature removed since there is no way for a signature to sign
	// itself.
	subScript := removeOpcodeByData(vm.subScript(), fullSigBytes)

	valid, verr := vm.sigChecker.CheckTxSig(sigBytes, pkBytes, subScript,
		hashType)
	if verr != nil {
		// A hash type without the mandatory fork id bit is a failed
		// signature rather than an abort, matching the treatment of
		// other unverifiable signatures.
		if txscripterr.ErrMustUseForkID.Is(verr) {
			valid = false
		} else {
			return verr
		}
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sigBytes) > 0 {
		str := "signature not empty on failed checksig"
		return txscripterr.ScriptError(txscripterr.ErrSigNullFail, str)
	}

	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
// The opcodeCheckSig function is invoked followed by opcodeVerify.  See the
// documentation for each of those opcodes for more details.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	err := opcodeCheckSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, txscripterr.ErrCheckSigVerify)
	}
	return err
}

// parsedSigInfo houses a raw signature along with its parse outcome, used to
// prevent validating the same signature multiple times when verifying a
// multisig.
type parsedSigInfo struct {
	signature []byte
	invalid   bool
	checked   bool
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number
// of public keys, followed by that many entries as raw data representing the
// public keys, followed by the integer number of signatures, followed by
// that many entries as raw data representing the signatures.
//
// Due to a bug in the original Satoshi client implementation, an additional
// dummy argument is also required by the consensus rules, although it is not
// used.  The dummy value SHOULD be an OP_0, although that is not required by
// the consensus rules.  When the ScriptVerifyNullDummy flag is set, it must
// be OP_0.
//
// All of the aforementioned stack items are replaced with a bool which
// indicates if the requisite number of signatures were successfully
// verified.
//
// See the opcodeCheckSigVerify documentation for more details about the
// process for verifying each signature.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	numPubKeys := int(numKeys.Int32())
	if numPubKeys < 0 {
		str := fmt.Sprintf("number of pubkeys %d is negative",
			numPubKeys)
		return txscripterr.ScriptError(txscripterr.ErrInvalidPubKeyCount, str)
	}
	if numPubKeys > params.MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("too many pubkeys: %d > %d",
			numPubKeys, params.MaxPubKeysPerMultiSig)
		return txscripterr.ScriptError(txscripterr.ErrInvalidPubKeyCount, str)
	}
	vm.numOps += numPubKeys
	if vm.numOps > params.MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			params.MaxOpsPerScript)
		return txscripterr.ScriptError(txscripterr.ErrOpCount, str)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numSignatures := int(numSigs.Int32())
	if numSignatures < 0 {
		str := fmt.Sprintf("number of signatures %d is negative",
			numSignatures)
		return txscripterr.ScriptError(txscripterr.ErrInvalidSignatureCount, str)

	}
	if numSignatures > numPubKeys {
		str := fmt.Sprintf("more signatures than pubkeys: %d > %d",
			numSignatures, numPubKeys)
		return txscripterr.ScriptError(txscripterr.ErrInvalidSignatureCount, str)
	}

	signatures := make([]*parsedSigInfo, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		sigInfo := &parsedSigInfo{signature: signature}
		signatures = append(signatures, sigInfo)
	}

	// A bug in the original Satoshi client implementation means one more
	// stack value than should be used must be popped.  Unfortunately,
	// this buggy behavior is now part of the consensus and a hard fork
	// would be required to fix it.
	dummy, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// Since the dummy argument is otherwise not checked, it could be any
	// value which unfortunately provides a source of malleability.  Thus,
	// there is a script flag to force an error when the value is NOT 0.
	if vm.hasFlag(ScriptVerifyNullDummy) && len(dummy) != 0 {
		str := fmt.Sprintf("multisig dummy argument has length %d "+
			"instead of 0", len(dummy))
		return txscripterr.ScriptError(txscripterr.ErrSigNullDummy, str)
	}

	// Get script starting from the most recent OP_CODESEPARATOR and
	// remove the signatures since there is no way for a signature to sign
	// itself.
	script := vm.subScript()
	for _, sigInfo := range signatures {
		script = removeOpcodeByData(script, sigInfo.signature)
	}

	success := true
	numPubKeys++
	pubKeyIdx := -1
	signatureIdx := 0
	for numSignatures > 0 {
		// When there are more signatures than public keys remaining,
		// there is no way to succeed since too many signatures are
		// invalid, so exit early.
		pubKeyIdx++
		numPubKeys--
		if numSignatures > numPubKeys {
			success = false
			break
		}

		sigInfo := signatures[signatureIdx]
		pubKey := pubKeys[pubKeyIdx]

		// The order of the signature and public key evaluation is
		// important here since it can be distinguished by an
		// OP_CHECKMULTISIG NOT when the strict encoding flag is set.

		rawSig := sigInfo.signature
		if len(rawSig) == 0 {
			// Skip to the next pubkey if signature is empty.
			continue
		}

		// Split the signature into hash type and signature components.
		hashType := params.SigHashType(rawSig[len(rawSig)-1])
		signature := rawSig[:len(rawSig)-1]

		// Only check the signature encoding once.
		if !sigInfo.checked {
			if err := vm.checkHashTypeEncoding(hashType); err != nil {
				return err
			}
			if err := vm.checkSignatureEncoding(signature); err != nil {
				return err
			}
			sigInfo.checked = true
		} else if sigInfo.invalid {
			// Skip to the next pubkey if the signature is invalid.
			continue
		}

		if err := vm.checkPubKeyEncoding(pubKey); err != nil {
			return err
		}

		valid, verr := vm.sigChecker.CheckTxSig(signature, pubKey,
			script, hashType)
		if verr != nil {
			if txscripterr.ErrMustUseForkID.Is(verr) {
				sigInfo.invalid = true
				continue
			}
			return verr
		}

		if valid {
			// PubKey verified, move on to the next signature.
			signatureIdx++
			numSignatures--
		}
	}

	if !success && vm.hasFlag(ScriptVerifyNullFail) {
		for _, sig := range signatures {
			if len(sig.signature) > 0 {
				str := "not all signatures empty on failed checkmultisig"
				return txscripterr.ScriptError(txscripterr.ErrSigNullFail, str)
			}
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.  The opcodeCheckMultiSig is invoked followed by
// opcodeVerify.  See the documentation for each of those opcodes for more
// details.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	err := opcodeCheckMultiSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, txscripterr.ErrCheckMultiSigVerify)
	}
	return err
}

// opcodeCheckDataSig verifies a signature over the sha256 digest of an
// arbitrary message against a public key.  Unlike OP_CHECKSIG the signature
// carries no hash type byte.
//
// Stack transformation: [... sig msg pubkey] -> [... bool]
func opcodeCheckDataSig(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	msg, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	valid := false
	if len(sigBytes) > 0 {
		var verr er.R
		valid, verr = vm.sigChecker.CheckDataSig(sigBytes, msg, pkBytes)
		if verr != nil {
			return verr
		}
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sigBytes) > 0 {
		str := "signature not empty on failed checkdatasig"
		return txscripterr.ScriptError(txscripterr.ErrSigNullFail, str)
	}

	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckDataSigVerify is a combination of opcodeCheckDataSig and
// opcodeVerify.
//
// Stack transformation: [... sig msg pubkey] -> [... bool] -> [...]
func opcodeCheckDataSigVerify(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	err := opcodeCheckDataSig(op, vm)
	if err == nil {
		err = abstractVerify(op, vm, txscripterr.ErrCheckDataSigVerify)
	}
	return err
}

// opcodeCheckSigAdd verifies a signature the way OP_CHECKSIG does and adds
// the outcome to an accumulator, enabling compact threshold checks.
//
// Stack transformation: [... sig n pubkey] -> [... n+(0 or 1)]
func opcodeCheckSigAdd(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	accum, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// An empty signature contributes nothing and is never an error: it is
	// the canonical way to skip a key in a threshold.
	if len(fullSigBytes) == 0 {
		vm.dstack.PushInt(accum)
		return nil
	}

	hashType := params.SigHashType(fullSigBytes[len(fullSigBytes)-1])
	sigBytes := fullSigBytes[:len(fullSigBytes)-1]
	if err := vm.checkHashTypeEncoding(hashType); err != nil {
		return err
	}
	if err := vm.checkSignatureEncoding(sigBytes); err != nil {
		return err
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	subScript := removeOpcodeByData(vm.subScript(), fullSigBytes)

	valid, verr := vm.sigChecker.CheckTxSig(sigBytes, pkBytes, subScript,
		hashType)
	if verr != nil {
		if txscripterr.ErrMustUseForkID.Is(verr) {
			valid = false
		} else {
			return verr
		}
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) {
		str := "signature not empty on failed checksigadd"
		return txscripterr.ScriptError(txscripterr.ErrSigNullFail, str)
	}

	if valid {
		sum, err := checkedAdd(accum, 1)
		if err != nil {
			return err
		}
		accum = sum
	}
	vm.dstack.PushInt(accum)
	return nil
}

// opcodeStateSeparator is a no-op at execution time.  The structural rule
// that a script carries at most one separator is enforced when the engine
// takes the script on, so by the time execution reaches this point there is
// nothing left to check.
func opcodeStateSeparator(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	return nil
}

// popContext fetches the execution context, failing when the engine was
// built without one.
func popContext(vm *Engine) (*ExecutionContext, er.R) {
	if vm.execCtx == nil {
		return nil, txscripterr.ScriptError(txscripterr.ErrContextNotPresent,
			"introspection requires an execution context")
	}
	return vm.execCtx, nil
}

// popInputIndex pops a numeric input index from the stack and validates it
// against the transaction's input count.
func popInputIndex(vm *Engine, ctx *ExecutionContext) (int, er.R) {
	idx, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}
	if !ctx.ValidInputIndex(int64(idx)) {
		str := fmt.Sprintf("input index %d is not in [0, %d)", idx,
			ctx.InputCount())
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidTxInputIndex, str)
	}
	return int(idx), nil
}

// popOutputIndex pops a numeric output index from the stack and validates it
// against the transaction's output count.
func popOutputIndex(vm *Engine, ctx *ExecutionContext) (int, er.R) {
	idx, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}
	if !ctx.ValidOutputIndex(int64(idx)) {
		str := fmt.Sprintf("output index %d is not in [0, %d)", idx,
			ctx.OutputCount())
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidTxOutputIndex, str)
	}
	return int(idx), nil
}

// popRef pops a 36-byte reference from the stack.
func popRef(vm *Engine) (Ref, er.R) {
	var ref Ref
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return ref, err
	}
	if len(so) != params.RefSize {
		str := fmt.Sprintf("reference is %d bytes, not %d", len(so),
			params.RefSize)
		return ref, txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	return refFromBytes(so), nil
}

// popHash pops a 32-byte hash from the stack.
func popHash(vm *Engine) (chainhash.Hash, er.R) {
	var h chainhash.Hash
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return h, err
	}
	if len(so) != chainhash.HashSize {
		str := fmt.Sprintf("hash is %d bytes, not %d", len(so),
			chainhash.HashSize)
		return h, txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	copy(h[:], so)
	return h, nil
}

// opcodeInputIndex pushes the index of the input being validated.
//
// Stack transformation: [...] -> [... idx]
func opcodeInputIndex(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.InputIndex()))
	return nil
}

// opcodeActiveBytecode pushes the code section of the currently executing
// script: the bytes from the most recent OP_CODESEPARATOR to the end.
//
// Stack transformation: [...] -> [... bytecode]
func opcodeActiveBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	script, err := unparseScript(vm.subScript())
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(script)
	return nil
}

// opcodeTxVersion pushes the transaction version.
//
// Stack transformation: [...] -> [... version]
func opcodeTxVersion(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.TxVersion()))
	return nil
}

// opcodeTxInputCount pushes the number of transaction inputs.
//
// Stack transformation: [...] -> [... count]
func opcodeTxInputCount(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.InputCount()))
	return nil
}

// opcodeTxOutputCount pushes the number of transaction outputs.
//
// Stack transformation: [...] -> [... count]
func opcodeTxOutputCount(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.OutputCount()))
	return nil
}

// opcodeTxLockTime pushes the transaction locktime.
//
// Stack transformation: [...] -> [... locktime]
func opcodeTxLockTime(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.LockTime()))
	return nil
}

// opcodeUtxoValue pushes the value of the coin spent by the input whose
// index is on top of the stack.
//
// Stack transformation: [... idx] -> [... value]
func opcodeUtxoValue(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.UtxoValue(idx)))
	return nil
}

// opcodeUtxoBytecode pushes the locking script of the coin spent by the
// input whose index is on top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeUtxoBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.UtxoBytecode(idx))
	return nil
}

// opcodeOutpointTxHash pushes the previous txid of the input whose index is
// on top of the stack.
//
// Stack transformation: [... idx] -> [... txid]
func opcodeOutpointTxHash(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.OutpointTxHash(idx))
	return nil
}

// opcodeOutpointIndex pushes the previous output index of the input whose
// index is on top of the stack.
//
// Stack transformation: [... idx] -> [... vout]
func opcodeOutpointIndex(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.OutpointIndex(idx)))
	return nil
}

// opcodeInputBytecode pushes the unlocking script of the input whose index
// is on top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeInputBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.InputBytecode(idx))
	return nil
}

// opcodeInputSequenceNumber pushes the sequence number of the input whose
// index is on top of the stack.
//
// Stack transformation: [... idx] -> [... sequence]
func opcodeInputSequenceNumber(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.InputSequence(idx)))
	return nil
}

// opcodeOutputValue pushes the value of the output whose index is on top of
// the stack.
//
// Stack transformation: [... idx] -> [... value]
func opcodeOutputValue(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(ctx.OutputValue(idx)))
	return nil
}

// opcodeOutputBytecode pushes the locking script of the output whose index
// is on top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeOutputBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.OutputBytecode(idx))
	return nil
}

// opcodeStateSeparatorIndexUtxo pushes the state separator byte offset of
// the coin spent by the input whose index is on top of the stack, or -1 when
// the coin's script has no separator.
//
// Stack transformation: [... idx] -> [... offset]
func opcodeStateSeparatorIndexUtxo(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popInputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(stateSeparatorNum(ctx.StateSeparatorIndexUtxo(idx)))
	return nil
}

// opcodeStateSeparatorIndexOutput pushes the state separator byte offset of
// the output whose index is on top of the stack, or -1 when the output's
// script has no separator.
//
// Stack transformation: [... idx] -> [... offset]
func opcodeStateSeparatorIndexOutput(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(stateSeparatorNum(ctx.StateSeparatorIndexOutput(idx)))
	return nil
}

func stateSeparatorNum(idx uint32) scriptnum.ScriptNum {
	if idx == absentStateSeparator {
		return scriptnum.ScriptNum(-1)
	}
	return scriptnum.ScriptNum(idx)
}

// opcodePushInputRef validates the embedded 36-byte operand, records it in
// the tracked push set, and pushes it onto the stack so that a round trip
// through the stack is observable.
//
// Stack transformation: [...] -> [... ref]
func opcodePushInputRef(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) != params.RefSize {
		str := fmt.Sprintf("reference operand is %d bytes, not %d",
			len(op.Data), params.RefSize)
		return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	ref := refFromBytes(op.Data)
	vm.pushedRefs[ref] = struct{}{}
	vm.dstack.PushByteArray(op.Data)
	return nil
}

// opcodePushInputRefSingleton behaves as opcodePushInputRef and additionally
// records the reference in the singleton set, whose uniqueness across the
// transaction is validated after execution.
//
// Stack transformation: [...] -> [... ref]
func opcodePushInputRefSingleton(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) != params.RefSize {
		str := fmt.Sprintf("reference operand is %d bytes, not %d",
			len(op.Data), params.RefSize)
		return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	ref := refFromBytes(op.Data)
	vm.pushedRefs[ref] = struct{}{}
	vm.singletonRefs[ref] = struct{}{}
	vm.dstack.PushByteArray(op.Data)
	return nil
}

// opcodeRequireInputRef consumes a 36-byte reference from the stack and
// records it for the deferred post-execution check, which demands that the
// reference appear in some spent coin's push set.
//
// Stack transformation: [... ref] -> [...]
func opcodeRequireInputRef(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) != params.RefSize {
		str := fmt.Sprintf("reference operand is %d bytes, not %d",
			len(op.Data), params.RefSize)
		return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	ref, err := popRef(vm)
	if err != nil {
		return err
	}
	vm.requiredRefs[ref] = struct{}{}
	vm.requiredRefs[refFromBytes(op.Data)] = struct{}{}
	return nil
}

// opcodeDisallowPushInputRef records its operand in the disallow set; the
// deferred check fails when the reference appears in any spent coin's push
// set.
func opcodeDisallowPushInputRef(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) != params.RefSize {
		str := fmt.Sprintf("reference operand is %d bytes, not %d",
			len(op.Data), params.RefSize)
		return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	vm.disallowedRefs[refFromBytes(op.Data)] = struct{}{}
	return nil
}

// opcodeDisallowPushInputRefSibling records its operand in the sibling
// disallow set; the deferred check fails when a sibling of the reference (a
// ref with the same parent txid but a different output index) appears in any
// spent coin's push set.
func opcodeDisallowPushInputRefSibling(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	if len(op.Data) != params.RefSize {
		str := fmt.Sprintf("reference operand is %d bytes, not %d",
			len(op.Data), params.RefSize)
		return txscripterr.ScriptError(txscripterr.ErrInvalidReference, str)
	}
	vm.disallowedSiblingRefs[refFromBytes(op.Data)] = struct{}{}
	return nil
}

// opcodeRefHashDataSummary pushes the hash commitment to the coin or output
// whose index is on top of the stack.
//
// Stack transformation: [... idx] -> [... hash]
func opcodeRefHashDataSummary(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_REFHASHDATASUMMARY_UTXO {
		idx, err := popInputIndex(vm, ctx)
		if err != nil {
			return err
		}
		vm.dstack.PushByteArray(ctx.RefHashDataSummaryUtxo(idx))
		return nil
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.RefHashDataSummaryOutput(idx))
	return nil
}

// opcodeRefHashValueSum consumes a 32-byte reference hash and pushes the
// summed value of the coins (or outputs) holding a push ref whose hash256
// equals it.
//
// Stack transformation: [... refhash] -> [... sum]
func opcodeRefHashValueSum(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	h, err := popHash(vm)
	if err != nil {
		return err
	}

	refs := ctx.InputPushRefs()
	if op.Opcode.Value == opcode.OP_REFHASHVALUESUM_OUTPUTS {
		refs = ctx.OutputPushRefs()
	}

	var sum int64
	for ref := range refs {
		if chainhash.DoubleHashH(ref[:]) != h {
			continue
		}
		if op.Opcode.Value == opcode.OP_REFHASHVALUESUM_UTXOS {
			sum += ctx.RefValueSumUtxos(ref)
		} else {
			sum += ctx.RefValueSumOutputs(ref)
		}
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(sum))
	return nil
}

// opcodeRefType consumes a 36-byte reference and pushes its classification:
// 0 when absent, 1 when present, 2 when present as a singleton.
//
// Stack transformation: [... ref] -> [... type]
func opcodeRefType(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	ref, err := popRef(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_REFTYPE_UTXO {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.RefTypeUtxo(ref)))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.RefTypeOutput(ref)))
	}
	return nil
}

// opcodeRefValueSum consumes a 36-byte reference and pushes the summed value
// of the coins (or outputs) whose push set holds it.
//
// Stack transformation: [... ref] -> [... sum]
func opcodeRefValueSum(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	ref, err := popRef(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_REFVALUESUM_UTXOS {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.RefValueSumUtxos(ref)))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.RefValueSumOutputs(ref)))
	}
	return nil
}

// opcodeRefOutputCount consumes a 36-byte reference and pushes how many
// coins (or outputs) hold it, optionally restricted to zero-valued entries.
//
// Stack transformation: [... ref] -> [... count]
func opcodeRefOutputCount(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	ref, err := popRef(vm)
	if err != nil {
		return err
	}

	var count int64
	switch op.Opcode.Value {
	case opcode.OP_REFOUTPUTCOUNT_UTXOS:
		count = ctx.RefOutputCountUtxos(ref)
	case opcode.OP_REFOUTPUTCOUNT_OUTPUTS:
		count = ctx.RefOutputCountOutputs(ref)
	case opcode.OP_REFOUTPUTCOUNTZEROVALUED_UTXOS:
		count = ctx.RefOutputCountZeroValuedUtxos(ref)
	case opcode.OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS:
		count = ctx.RefOutputCountZeroValuedOutputs(ref)
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(count))
	return nil
}

// opcodeRefDataSummary pushes the concatenation of the push refs of the coin
// or output whose index is on top of the stack, in lexicographic order.
//
// Stack transformation: [... idx] -> [... refs]
func opcodeRefDataSummary(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_REFDATASUMMARY_UTXO {
		idx, err := popInputIndex(vm, ctx)
		if err != nil {
			return err
		}
		vm.dstack.PushByteArray(ctx.RefDataSummaryUtxo(idx))
		return nil
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.RefDataSummaryOutput(idx))
	return nil
}

// opcodeCodeScriptHashValueSum consumes a 32-byte code script hash and
// pushes the summed value of the coins (or outputs) whose code script hashes
// to it.
//
// Stack transformation: [... csh] -> [... sum]
func opcodeCodeScriptHashValueSum(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	csh, err := popHash(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_CODESCRIPTHASHVALUESUM_UTXOS {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.CodeScriptHashValueSumUtxos(csh)))
	} else {
		vm.dstack.PushInt(scriptnum.ScriptNum(ctx.CodeScriptHashValueSumOutputs(csh)))
	}
	return nil
}

// opcodeCodeScriptHashOutputCount consumes a 32-byte code script hash and
// pushes how many coins (or outputs) carry a code script hashing to it,
// optionally restricted to zero-valued entries.
//
// Stack transformation: [... csh] -> [... count]
func opcodeCodeScriptHashOutputCount(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	csh, err := popHash(vm)
	if err != nil {
		return err
	}

	var count int64
	switch op.Opcode.Value {
	case opcode.OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS:
		count = ctx.CodeScriptHashOutputCountUtxos(csh)
	case opcode.OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS:
		count = ctx.CodeScriptHashOutputCountOutputs(csh)
	case opcode.OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS:
		count = ctx.CodeScriptHashZeroValuedOutputCountUtxos(csh)
	case opcode.OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS:
		count = ctx.CodeScriptHashZeroValuedOutputCountOutputs(csh)
	}
	vm.dstack.PushInt(scriptnum.ScriptNum(count))
	return nil
}

// opcodeCodeScriptBytecode pushes the code section (the bytes after the
// state separator) of the coin or output whose index is on top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeCodeScriptBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_CODESCRIPTBYTECODE_UTXO {
		idx, err := popInputIndex(vm, ctx)
		if err != nil {
			return err
		}
		vm.dstack.PushByteArray(ctx.CodeScriptUtxo(idx))
		return nil
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.CodeScriptOutput(idx))
	return nil
}

// opcodeStateScriptBytecode pushes the state section (the bytes before the
// state separator) of the coin or output whose index is on top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeStateScriptBytecode(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	if op.Opcode.Value == opcode.OP_STATESCRIPTBYTECODE_UTXO {
		idx, err := popInputIndex(vm, ctx)
		if err != nil {
			return err
		}
		vm.dstack.PushByteArray(ctx.StateScriptUtxo(idx))
		return nil
	}
	idx, err := popOutputIndex(vm, ctx)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(ctx.StateScriptOutput(idx))
	return nil
}

// opcodePushTxState pushes the double sha256 of the canonical transaction
// serialization, a stable commitment to the transaction state.
//
// Stack transformation: [...] -> [... hash]
func opcodePushTxState(op *parsescript.ParsedOpcode, vm *Engine) er.R {
	ctx, err := popContext(vm)
	if err != nil {
		return err
	}
	vm.dstack.PushByteArray(chainhash.DoubleHashB(ctx.Tx().SerializeBytes()))
	return nil
}
