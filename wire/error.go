// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
)

// Err identifies errors arising from transaction wire handling.
var Err er.ErrorType = er.NewErrorType("wire.Err")

// ErrMalformedMessage is returned when a serialized structure does not decode
// cleanly, including non-canonical varint encodings.
var ErrMalformedMessage = Err.Code("ErrMalformedMessage")

// messageError creates an ErrMalformedMessage given a function name and a
// problem description.
func messageError(f string, desc string) er.R {
	return ErrMalformedMessage.New(fmt.Sprintf("%s: %s", f, desc), nil)
}

func messageErrorf(f string, format string, a ...interface{}) er.R {
	return messageError(f, fmt.Sprintf(format, a...))
}

func nonCanonicalVarIntStr(rv uint64) string {
	return fmt.Sprintf("non-canonical varint %d", rv)
}
