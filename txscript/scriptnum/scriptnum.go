// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptnum

import (
	"fmt"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
)

// ScriptNum represents a numeric value used in the scripting engine with
// special handling to deal with the subtle semantics required by consensus.
//
// All numbers are stored on the data and alternate stacks encoded with a
// variable length sign-magnitude representation: little endian, with the high
// bit of the final byte carrying the sign.  Zero is the empty byte sequence.
//
// Results of arithmetic may be wider than the configured input width; they
// only narrow again when reinterpreted as a number by a later opcode.
type ScriptNum int64

// Bytes returns the number serialized in the shortest sign-magnitude little
// endian encoding.
func (n ScriptNum) Bytes() []byte {
	// Zero encodes as an empty byte slice.
	if n == 0 {
		return nil
	}

	// Take the absolute value and keep track of whether it was originally
	// negative.
	isNegative := n < 0
	if isNegative {
		n = -n
	}

	// Encode to little endian.  The maximum number of encoded bytes is 9
	// (8 bytes for max int64 plus a potential byte for sign extension).
	result := make([]byte, 0, 9)
	for n > 0 {
		result = append(result, byte(n&0xff))
		n >>= 8
	}

	// When the most significant byte already has the high bit set, an
	// additional high byte is required to indicate whether the number is
	// negative or positive.  Otherwise, when the number is negative, the
	// high bit of the most significant byte is set.
	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 returns the number clamped to a valid int32.  It is used for opcodes
// which take a numeric argument but are bounded by much smaller limits, such
// as multisig key counts and the OP_PICK/OP_ROLL stack indices.
func (n ScriptNum) Int32() int32 {
	if n > 0x7fffffff {
		return 0x7fffffff
	}
	if n < -0x80000000 {
		return -0x80000000
	}
	return int32(n)
}

// checkMinimalDataEncoding returns whether or not the passed byte array
// adheres to the minimal encoding requirements.
func checkMinimalDataEncoding(v []byte) er.R {
	if len(v) == 0 {
		return nil
	}

	// Check that the number is encoded with the minimum possible number
	// of bytes.
	//
	// If the most-significant-byte - excluding the sign bit - is zero
	// then we're not minimal.  Note how this test also rejects the
	// negative-zero encoding, [0x80].
	if v[len(v)-1]&0x7f == 0 {
		// One exception: if there's more than one byte and the most
		// significant bit of the second-most-significant-byte is set
		// it would conflict with the sign bit.  An example of this case
		// is +-255, which encode to 0xff00 and 0xff80 respectively.
		// (big-endian).
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			str := fmt.Sprintf("numeric value encoded as %x is "+
				"not minimally encoded", v)
			return txscripterr.ScriptError(txscripterr.ErrMinimalData, str)
		}
	}

	return nil
}

// MakeScriptNum interprets the passed serialized bytes as an encoded integer
// and returns the result as a script number.
//
// Since the consensus rules dictate that serialized bytes interpreted as
// integers are only allowed to be in the range determined by a maximum number
// of bytes, on a per opcode basis, an error will be returned when the
// provided bytes would result in a number outside of that range.  The numeric
// width is 4 bytes under legacy rules and 8 when 64-bit integers are enabled.
//
// The requireMinimal flag causes an error to be returned if additional checks
// on the encoding determine it is not represented with the smallest possible
// number of bytes or is the negative 0 encoding, [0x80].  For example,
// consider the number 127.  It could be encoded as [0x7f], [0x7f 0x00],
// [0x7f 0x00 0x00 ...], etc.  All forms except [0x7f] will return an error
// with requireMinimal enabled.
func MakeScriptNum(v []byte, requireMinimal bool, numLen int) (ScriptNum, er.R) {
	// Interpreting data requires that it is not larger than the configured
	// width.
	if len(v) > numLen {
		str := fmt.Sprintf("numeric value encoded as %x is %d bytes "+
			"which exceeds the max allowed of %d", v, len(v), numLen)
		return 0, txscripterr.ScriptError(txscripterr.ErrInvalidNumberRange, str)
	}

	// Enforce minimal encoded if requested.
	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return 0, err
		}
	}

	// Zero is encoded as an empty byte slice.
	if len(v) == 0 {
		return 0, nil
	}

	// Decode from little endian.
	var result int64
	for i, val := range v {
		result |= int64(val) << uint8(8*i)
	}

	// When the most significant byte of the input bytes has the sign bit
	// set, the result is negative.  So, remove the sign bit from the result
	// and make it negative.
	if v[len(v)-1]&0x80 != 0 {
		// The maximum length of v has already been determined to be
		// within the configured width above, so uint8 is enough to
		// cover the max possible shift value of 8*(len(v)-1).
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return ScriptNum(-result), nil
	}

	return ScriptNum(result), nil
}

// MinimallyEncode returns the shortest encoding of the number represented by
// the passed bytes.  It is the transformation applied by OP_BIN2NUM.
func MinimallyEncode(v []byte) []byte {
	if len(v) == 0 {
		return nil
	}

	// If the most significant byte carries any magnitude, the encoding is
	// already minimal.
	last := v[len(v)-1]
	if last&0x7f != 0 {
		out := make([]byte, len(v))
		copy(out, v)
		return out
	}

	// A lone sign byte is zero (or negative zero), both of which encode
	// as the empty sequence.
	if len(v) == 1 {
		return nil
	}

	// The sign byte is required when the byte below it already has its
	// high bit set.
	if v[len(v)-2]&0x80 != 0 {
		out := make([]byte, len(v))
		copy(out, v)
		return out
	}

	// Scan down for the most significant non-zero byte and move the sign
	// onto it, or onto a fresh byte above it when its high bit is taken.
	out := make([]byte, len(v))
	copy(out, v)
	for i := len(out) - 1; i > 0; i-- {
		if out[i-1] != 0 {
			if out[i-1]&0x80 != 0 {
				out[i] = last
				return out[:i+1]
			}
			out[i-1] |= last
			return out[:i]
		}
	}

	// Every payload byte was zero.
	return nil
}

// IsTrue implements the truth coercion rule for stack elements: a byte string
// is true iff some byte is non-zero and it is not the single-byte negative
// zero, [0x80].
func IsTrue(v []byte) bool {
	for i := 0; i < len(v); i++ {
		if v[i] != 0 {
			// Negative zero is also considered false.
			if i == len(v)-1 && v[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}
