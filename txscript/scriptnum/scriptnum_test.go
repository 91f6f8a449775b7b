// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptnum

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript/txscripterr"
)

// hexToBytes converts the passed hex string into bytes and will panic if
// there is an error.  This is only provided for the hard-coded constants so
// errors in the source code can be detected.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestScriptNumBytes ensures that converting from integral script numbers to
// byte representations works as expected.
func TestScriptNumBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num        ScriptNum
		serialized []byte
	}{
		{0, nil},
		{1, hexToBytes("01")},
		{-1, hexToBytes("81")},
		{127, hexToBytes("7f")},
		{-127, hexToBytes("ff")},
		{128, hexToBytes("8000")},
		{-128, hexToBytes("8080")},
		{129, hexToBytes("8100")},
		{-129, hexToBytes("8180")},
		{256, hexToBytes("0001")},
		{-256, hexToBytes("0081")},
		{32767, hexToBytes("ff7f")},
		{-32767, hexToBytes("ffff")},
		{32768, hexToBytes("008000")},
		{-32768, hexToBytes("008080")},
		{65535, hexToBytes("ffff00")},
		{-65535, hexToBytes("ffff80")},
		{524288, hexToBytes("000008")},
		{-524288, hexToBytes("000088")},
		{7340032, hexToBytes("000070")},
		{-7340032, hexToBytes("0000f0")},
		{8388608, hexToBytes("00008000")},
		{-8388608, hexToBytes("00008080")},
		{2147483647, hexToBytes("ffffff7f")},
		{-2147483647, hexToBytes("ffffffff")},

		// Values above the legacy 4-byte range still serialize; they
		// only error on the way back in when the width disallows them.
		{2147483648, hexToBytes("0000008000")},
		{-2147483648, hexToBytes("0000008080")},
		{2415919104, hexToBytes("0000009000")},
		{-2415919104, hexToBytes("0000009080")},
		{4294967295, hexToBytes("ffffffff00")},
		{-4294967295, hexToBytes("ffffffff80")},
		{4294967296, hexToBytes("0000000001")},
		{-4294967296, hexToBytes("0000000081")},
		{281474976710655, hexToBytes("ffffffffffff00")},
		{-281474976710655, hexToBytes("ffffffffffff80")},
		{72057594037927935, hexToBytes("ffffffffffffff00")},
		{-72057594037927935, hexToBytes("ffffffffffffff80")},
		{9223372036854775807, hexToBytes("ffffffffffffff7f")},
		{-9223372036854775807, hexToBytes("ffffffffffffffff")},
	}

	for _, test := range tests {
		gotBytes := test.num.Bytes()
		if !bytes.Equal(gotBytes, test.serialized) {
			t.Errorf("Bytes: did not get expected bytes for %d - "+
				"got %x, want %x", test.num, gotBytes,
				test.serialized)
			continue
		}
	}
}

// TestMakeScriptNum ensures that converting from byte representations to
// integral script numbers works as expected.
func TestMakeScriptNum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		serialized      []byte
		num             ScriptNum
		numLen          int
		minimalEncoding bool
		err             *er.ErrorCode
	}{
		// Minimal encoding must reject negative 0.
		{hexToBytes("80"), 0, 8, true, errMinimalData},

		// Minimally encoded valid values with minimal encoding flag.
		// Should not error and return expected integral number.
		{nil, 0, 8, true, nil},
		{hexToBytes("01"), 1, 8, true, nil},
		{hexToBytes("81"), -1, 8, true, nil},
		{hexToBytes("7f"), 127, 8, true, nil},
		{hexToBytes("ff"), -127, 8, true, nil},
		{hexToBytes("8000"), 128, 8, true, nil},
		{hexToBytes("8080"), -128, 8, true, nil},
		{hexToBytes("ff7f"), 32767, 8, true, nil},
		{hexToBytes("ffff"), -32767, 8, true, nil},
		{hexToBytes("ffffff7f"), 2147483647, 8, true, nil},
		{hexToBytes("ffffffff"), -2147483647, 8, true, nil},
		{hexToBytes("ffffffffffffff7f"), 9223372036854775807, 8, true, nil},
		{hexToBytes("ffffffffffffffff"), -9223372036854775807, 8, true, nil},

		// Non-minimally encoded, but otherwise valid values with
		// minimal encoding flag.  Should error and return 0.
		{hexToBytes("00"), 0, 8, true, errMinimalData},
		{hexToBytes("0100"), 0, 8, true, errMinimalData},
		{hexToBytes("7f00"), 0, 8, true, errMinimalData},
		{hexToBytes("800000"), 0, 8, true, errMinimalData},
		{hexToBytes("810000"), 0, 8, true, errMinimalData},
		{hexToBytes("000800"), 0, 8, true, errMinimalData},

		// Non-minimally encoded, but otherwise valid values without
		// minimal encoding flag.  Should not error and return expected
		// integral number.
		{hexToBytes("00"), 0, 8, false, nil},
		{hexToBytes("0100"), 1, 8, false, nil},
		{hexToBytes("7f00"), 127, 8, false, nil},
		{hexToBytes("800000"), 128, 8, false, nil},

		// Values above the width limit error regardless of encoding.
		{hexToBytes("0000008000"), 0, 4, true, errNumberRange},
		{hexToBytes("ffffffffffffff7fff"), 0, 8, true, errNumberRange},
	}

	for _, test := range tests {
		gotNum, err := MakeScriptNum(test.serialized,
			test.minimalEncoding, test.numLen)
		if test.err != nil {
			if !test.err.Is(err) {
				t.Errorf("MakeScriptNum(%x): expected error "+
					"%s, got %v", test.serialized,
					test.err.Detail, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("MakeScriptNum(%x): unexpected error %v",
				test.serialized, err)
			continue
		}
		if gotNum != test.num {
			t.Errorf("MakeScriptNum(%x): did not get expected "+
				"number - got %d, want %d", test.serialized,
				gotNum, test.num)
		}
	}
}

// Aliases keeping the expectation table readable.
var (
	errMinimalData = txscripterr.ErrMinimalData
	errNumberRange = txscripterr.ErrInvalidNumberRange
)

// TestScriptNumRoundTrip ensures every representable value survives a full
// serialize then deserialize cycle under the extended 8-byte width.
func TestScriptNumRoundTrip(t *testing.T) {
	t.Parallel()

	values := []ScriptNum{
		0, 1, -1, 2, 16, 17, -17, 127, -127, 128, -128, 255, -255,
		256, 32767, -32768, 65535, 1 << 20, -(1 << 20),
		2147483647, -2147483647, 2147483648, -2147483648,
		1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775807,
	}
	for _, v := range values {
		got, err := MakeScriptNum(v.Bytes(), true, 8)
		if err != nil {
			t.Fatalf("round trip of %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}
}

// TestMinimallyEncode exercises the OP_BIN2NUM transformation.
func TestMinimallyEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want []byte
	}{
		{nil, nil},
		{hexToBytes("00"), nil},
		{hexToBytes("80"), nil},
		{hexToBytes("0000"), nil},
		{hexToBytes("0080"), nil},
		{hexToBytes("01"), hexToBytes("01")},
		{hexToBytes("0100"), hexToBytes("01")},
		{hexToBytes("010000"), hexToBytes("01")},
		{hexToBytes("0180"), hexToBytes("81")},
		{hexToBytes("010080"), hexToBytes("81")},
		{hexToBytes("ff00"), hexToBytes("ff00")},
		{hexToBytes("ff80"), hexToBytes("ff80")},
		{hexToBytes("ff0000"), hexToBytes("ff00")},
		{hexToBytes("abcdef4280"), hexToBytes("abcdefc2")},
	}

	for _, test := range tests {
		got := MinimallyEncode(test.in)
		if !bytes.Equal(got, test.want) {
			t.Errorf("MinimallyEncode(%x) = %x, want %x", test.in,
				got, test.want)
		}
	}
}

// TestIsTrue checks the truth coercion rule, including negative zero.
func TestIsTrue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want bool
	}{
		{nil, false},
		{hexToBytes("00"), false},
		{hexToBytes("0000"), false},
		{hexToBytes("80"), false},
		{hexToBytes("0080"), false},
		{hexToBytes("01"), true},
		{hexToBytes("0001"), true},
		{hexToBytes("8000"), true},
		{hexToBytes("0081"), true},
	}

	for _, test := range tests {
		if got := IsTrue(test.in); got != test.want {
			t.Errorf("IsTrue(%x) = %v, want %v", test.in, got,
				test.want)
		}
	}
}
