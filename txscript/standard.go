// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"github.com/Radiant-Core/rxdeb/txscript/opcode"
	"github.com/Radiant-Core/rxdeb/txscript/parsescript"
)

// isScriptHash returns true if the script passed is a pay-to-script-hash
// transaction, false otherwise.
func isScriptHash(pops []parsescript.ParsedOpcode) bool {
	return len(pops) == 3 &&
		pops[0].Opcode.Value == opcode.OP_HASH160 &&
		pops[1].Opcode.Value == opcode.OP_DATA_20 &&
		pops[2].Opcode.Value == opcode.OP_EQUAL
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash (P2SH) format, false otherwise.
func IsPayToScriptHash(script []byte) bool {
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		return false
	}
	return isScriptHash(pops)
}

// isPubkeyHash returns true if the script passed is a pay-to-pubkey-hash
// transaction, false otherwise.
func isPubkeyHash(pops []parsescript.ParsedOpcode) bool {
	return len(pops) == 5 &&
		pops[0].Opcode.Value == opcode.OP_DUP &&
		pops[1].Opcode.Value == opcode.OP_HASH160 &&
		pops[2].Opcode.Value == opcode.OP_DATA_20 &&
		pops[3].Opcode.Value == opcode.OP_EQUALVERIFY &&
		pops[4].Opcode.Value == opcode.OP_CHECKSIG
}

// IsPayToPubKeyHash returns true if the script is in the standard
// pay-to-pubkey-hash (P2PKH) format, false otherwise.
func IsPayToPubKeyHash(script []byte) bool {
	pops, err := parsescript.ParseScript(script)
	if err != nil {
		return false
	}
	return isPubkeyHash(pops)
}

// IsUnspendable returns whether the passed public key script is unspendable,
// or guaranteed to fail at execution.  This allows outputs to be pruned
// instantly when entering the UTXO set.
func IsUnspendable(pkScript []byte) bool {
	pops, err := parsescript.ParseScript(pkScript)
	if err != nil {
		return true
	}

	return len(pops) > 0 && pops[0].Opcode.Value == opcode.OP_RETURN
}
