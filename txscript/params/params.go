// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package params

const (
	// LockTimeThreshold is the number below which a lock time is
	// interpreted to be a block number, and at or above which it is
	// interpreted as a unix timestamp.
	// consensus critical
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC
)

const (
	// MaxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	MaxStackSize = 32000000

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 32000000

	// MaxScriptElementSize is the maximum number of bytes pushable to the
	// stack.
	MaxScriptElementSize = 32000000

	// MaxOpsPerScript is the maximum number of non-push operations per
	// script.
	MaxOpsPerScript = 32000000

	// MaxPubKeysPerMultiSig is the maximum number of public keys a
	// multisig can carry.
	MaxPubKeysPerMultiSig = 20

	// RefSize is the size of an induction reference: a 32-byte txid
	// followed by a 4-byte little-endian output index.
	RefSize = 36

	// Blake3ChunkSize is the single-chunk input bound of OP_BLAKE3.
	Blake3ChunkSize = 1024

	// K12BlockSize is the single-block input bound of OP_K12.
	K12BlockSize = 8192

	// DefaultScriptNumLen is the maximum width in bytes of a numeric
	// stack element under legacy rules.
	DefaultScriptNumLen = 4

	// ExtendedScriptNumLen is the maximum width in bytes of a numeric
	// stack element when 64-bit integers are enabled.
	ExtendedScriptNumLen = 8
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint32

// Hash type bits from the end of a signature.
const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashForkID       SigHashType = 0x40
	SigHashAnyOneCanPay SigHashType = 0x80

	// SigHashMask defines the number of bits of the hash type which is
	// used to identify which outputs are signed.
	SigHashMask = 0x1f
)

// BaseType returns the base variant of the hash type with the fork-id and
// anyone-can-pay bits masked away.
func (t SigHashType) BaseType() SigHashType {
	return t & SigHashMask
}

// HasForkID returns true when the fork-id bit is set.
func (t SigHashType) HasForkID() bool {
	return t&SigHashForkID == SigHashForkID
}

// HasAnyOneCanPay returns true when the anyone-can-pay bit is set.
func (t SigHashType) HasAnyOneCanPay() bool {
	return t&SigHashAnyOneCanPay == SigHashAnyOneCanPay
}
