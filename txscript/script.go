// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
)

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == opcode.OP_0 || (op >= opcode.OP_1 && op <= opcode.OP_16)
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt(), as an integer.
func asSmallInt(op byte) int {
	if op == opcode.OP_0 {
		return 0
	}

	return int(op - (opcode.OP_1 - 1))
}

// IsPushOnlyScript returns whether or not the passed script only pushes data.
//
// False will be returned when the script does not parse.
func IsPushOnlyScript(script []byte) bool {
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		return false
	}
	return parsescript.IsPushOnly(pops)
}

// unparseScript reversed the action of parseScript and returns the
// parsedOpcodes as a list of bytes.
func unparseScript(pops []parsescript.ParsedOpcode) ([]byte, er.R) {
	script := make([]byte, 0, len(pops))
	for i := range pops {
		b, err := popBytes(&pops[i])
		if err != nil {
			return nil, err
		}
		script = append(script, b...)
	}
	return script, nil
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string
// '[error]' appended.  In addition, the reason the script failed to parse is
// returned if the caller wants more information about the failure.
func DisasmString(buf []byte) (string, er.R) {
	var disbuf strings.Builder
	opcodes, err := parsescript.ParseScript(buf)
	for i := range opcodes {
		disbuf.WriteString(popPrint(&opcodes[i], true))
		disbuf.WriteByte(' ')
	}
	disbufStr := disbuf.String()
	if len(disbufStr) > 0 {
		disbufStr = disbufStr[:len(disbufStr)-1]
	}
	if err != nil {
		disbufStr += "[error]"
	}
	return disbufStr, err
}

// removeOpcodeByData will return the script minus any opcodes that would push
// the passed data to the stack.
func removeOpcodeByData(pkscript []parsescript.ParsedOpcode,
	data []byte) []parsescript.ParsedOpcode {

	retScript := make([]parsescript.ParsedOpcode, 0, len(pkscript))
	for _, pop := range pkscript {
		if !canonicalPush(&pop) || !bytes.Contains(pop.Data, data) {
			retScript = append(retScript, pop)
		}
	}
	return retScript
}

// removeOpcode will return the script minus any opcodes with the given value.
func removeOpcode(pkscript []parsescript.ParsedOpcode,
	op byte) []parsescript.ParsedOpcode {

	retScript := make([]parsescript.ParsedOpcode, 0, len(pkscript))
	for _, pop := range pkscript {
		if pop.Opcode.Value != op {
			retScript = append(retScript, pop)
		}
	}
	return retScript
}

// canonicalPush returns true if the object is either not a push instruction
// or the push instruction contained wherein is matches the canonical form
// or using the smallest instruction to do the job.  False otherwise.
func canonicalPush(pop *parsescript.ParsedOpcode) bool {
	op := pop.Opcode.Value
	data := pop.Data
	dataLen := len(pop.Data)
	if op > opcode.OP_16 {
		return true
	}

	if op < opcode.OP_PUSHDATA1 && op > opcode.OP_0 && (dataLen == 1 && data[0] <= 16) {
		return false
	}
	if op == opcode.OP_PUSHDATA1 && dataLen < int(opcode.OP_PUSHDATA1) {
		return false
	}
	if op == opcode.OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if op == opcode.OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// absentStateSeparator is the sentinel returned for scripts which carry no
// OP_STATESEPARATOR.
const absentStateSeparator = uint32(0xffffffff)

// stateSeparatorIndex scans a raw script and returns the byte offset of the
// first OP_STATESEPARATOR along with how many separators the script carries.
// The scan walks parsed opcodes so that a separator byte inside push data is
// not miscounted.
func stateSeparatorIndex(script []byte) (uint32, int) {
	pops, _ := parsescript.ParseScript(script)
	idx := absentStateSeparator
	count := 0
	off := 0
	for i := range pops {
		if pops[i].Opcode.Value == opcode.OP_STATESEPARATOR {
			if idx == absentStateSeparator {
				idx = uint32(off)
			}
			count++
		}
		off = parsescript.ByteIndex(pops, i+1)
	}
	return idx, count
}

// StateSeparatorByteIndex returns the byte offset of the first
// OP_STATESEPARATOR in the script, or 0xffffffff when there is none.
func StateSeparatorByteIndex(script []byte) uint32 {
	idx, _ := stateSeparatorIndex(script)
	return idx
}

// checkStateSeparators returns an error when the script carries more than
// one OP_STATESEPARATOR.
func checkStateSeparators(script []byte) er.R {
	_, count := stateSeparatorIndex(script)
	if count > 1 {
		str := fmt.Sprintf("script contains %d state separators", count)
		return txscripterr.ScriptError(txscripterr.ErrInvalidStateSeparator, str)
	}
	return nil
}

// StateScript returns the portion of the script before the first state
// separator, or nil when the script has no separator.
func StateScript(script []byte) []byte {
	idx := StateSeparatorByteIndex(script)
	if idx == absentStateSeparator {
		return nil
	}
	out := make([]byte, idx)
	copy(out, script[:idx])
	return out
}

// CodeScript returns the portion of the script after the first state
// separator, or the whole script when it has no separator.
func CodeScript(script []byte) []byte {
	idx := StateSeparatorByteIndex(script)
	if idx == absentStateSeparator {
		out := make([]byte, len(script))
		copy(out, script)
		return out
	}
	out := make([]byte, len(script)-int(idx)-1)
	copy(out, script[idx+1:])
	return out
}
