// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
)

// littleEndian is a convenience alias so the serialization code reads the way
// the format is specified.
var littleEndian = binary.LittleEndian

func readUint32(r io.Reader) (uint32, er.R) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, er.E(err)
	}
	return littleEndian.Uint32(buf[:]), nil
}

func writeUint32(w io.Writer, val uint32) er.R {
	var buf [4]byte
	littleEndian.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return er.E(err)
}

func readUint64(r io.Reader) (uint64, er.R) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, er.E(err)
	}
	return littleEndian.Uint64(buf[:]), nil
}

func writeUint64(w io.Writer, val uint64) er.R {
	var buf [8]byte
	littleEndian.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return er.E(err)
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.  The encoding uses one byte for values below 0xfd and a 0xfd, 0xfe
// or 0xff discriminant followed by a 16, 32 or 64 bit little-endian value
// otherwise.
func ReadVarInt(r io.Reader) (uint64, er.R) {
	var disc [1]byte
	if _, err := io.ReadFull(r, disc[:]); err != nil {
		return 0, er.E(err)
	}

	var rv uint64
	switch disc[0] {
	case 0xff:
		sv, err := readUint64(r)
		if err != nil {
			return 0, err
		}
		rv = sv

		// The encoding is not canonical if the value could have been
		// encoded using fewer bytes.
		if rv < 0x100000000 {
			return 0, messageError("ReadVarInt", nonCanonicalVarIntStr(rv))
		}

	case 0xfe:
		sv, err := readUint32(r)
		if err != nil {
			return 0, err
		}
		rv = uint64(sv)

		if rv < 0x10000 {
			return 0, messageError("ReadVarInt", nonCanonicalVarIntStr(rv))
		}

	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, er.E(err)
		}
		rv = uint64(littleEndian.Uint16(buf[:]))

		if rv < 0xfd {
			return 0, messageError("ReadVarInt", nonCanonicalVarIntStr(rv))
		}

	default:
		rv = uint64(disc[0])
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) er.R {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{byte(val)})
		return er.E(err)

	case val <= 0xffff:
		var buf [3]byte
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf[:])
		return er.E(err)

	case val <= 0xffffffff:
		var buf [5]byte
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf[:])
		return er.E(err)

	default:
		var buf [9]byte
		buf[0] = 0xff
		littleEndian.PutUint64(buf[1:], val)
		_, err := w.Write(buf[:])
		return er.E(err)
	}
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a variable length byte array.  The byte length is
// bounded by maxAllowed to avoid memory exhaustion from malformed input.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, er.R) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > uint64(maxAllowed) {
		return nil, messageErrorf("ReadVarBytes", "%s is larger than the "+
			"max allowed size [count %d, max %d]", fieldName, count,
			maxAllowed)
	}

	b := make([]byte, count)
	if _, errr := io.ReadFull(r, b); errr != nil {
		return nil, er.E(errr)
	}
	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varint
// count followed by the bytes themselves.
func WriteVarBytes(w io.Writer, bytes []byte) er.R {
	if err := WriteVarInt(w, uint64(len(bytes))); err != nil {
		return err
	}
	_, err := w.Write(bytes)
	return er.E(err)
}
