// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package opcode

import "fmt"

// These constants are the values of the official opcodes used on the chain.
// The opcode set is the Bitcoin set with the splice, bitwise and
// multiplicative opcodes re-enabled, plus the Radiant-specific extensions in
// the 0xBD-0xF0 range.
const (
	OP_0                   byte = 0x00 // 0
	OP_FALSE               byte = 0x00 // 0 - AKA OP_0
	OP_DATA_1              byte = 0x01 // 1
	OP_DATA_2              byte = 0x02 // 2
	OP_DATA_3              byte = 0x03 // 3
	OP_DATA_4              byte = 0x04 // 4
	OP_DATA_5              byte = 0x05 // 5
	OP_DATA_6              byte = 0x06 // 6
	OP_DATA_7              byte = 0x07 // 7
	OP_DATA_8              byte = 0x08 // 8
	OP_DATA_9              byte = 0x09 // 9
	OP_DATA_10             byte = 0x0a // 10
	OP_DATA_11             byte = 0x0b // 11
	OP_DATA_12             byte = 0x0c // 12
	OP_DATA_13             byte = 0x0d // 13
	OP_DATA_14             byte = 0x0e // 14
	OP_DATA_15             byte = 0x0f // 15
	OP_DATA_16             byte = 0x10 // 16
	OP_DATA_17             byte = 0x11 // 17
	OP_DATA_18             byte = 0x12 // 18
	OP_DATA_19             byte = 0x13 // 19
	OP_DATA_20             byte = 0x14 // 20
	OP_DATA_21             byte = 0x15 // 21
	OP_DATA_22             byte = 0x16 // 22
	OP_DATA_23             byte = 0x17 // 23
	OP_DATA_24             byte = 0x18 // 24
	OP_DATA_25             byte = 0x19 // 25
	OP_DATA_26             byte = 0x1a // 26
	OP_DATA_27             byte = 0x1b // 27
	OP_DATA_28             byte = 0x1c // 28
	OP_DATA_29             byte = 0x1d // 29
	OP_DATA_30             byte = 0x1e // 30
	OP_DATA_31             byte = 0x1f // 31
	OP_DATA_32             byte = 0x20 // 32
	OP_DATA_33             byte = 0x21 // 33
	OP_DATA_34             byte = 0x22 // 34
	OP_DATA_35             byte = 0x23 // 35
	OP_DATA_36             byte = 0x24 // 36
	OP_DATA_37             byte = 0x25 // 37
	OP_DATA_38             byte = 0x26 // 38
	OP_DATA_39             byte = 0x27 // 39
	OP_DATA_40             byte = 0x28 // 40
	OP_DATA_41             byte = 0x29 // 41
	OP_DATA_42             byte = 0x2a // 42
	OP_DATA_43             byte = 0x2b // 43
	OP_DATA_44             byte = 0x2c // 44
	OP_DATA_45             byte = 0x2d // 45
	OP_DATA_46             byte = 0x2e // 46
	OP_DATA_47             byte = 0x2f // 47
	OP_DATA_48             byte = 0x30 // 48
	OP_DATA_49             byte = 0x31 // 49
	OP_DATA_50             byte = 0x32 // 50
	OP_DATA_51             byte = 0x33 // 51
	OP_DATA_52             byte = 0x34 // 52
	OP_DATA_53             byte = 0x35 // 53
	OP_DATA_54             byte = 0x36 // 54
	OP_DATA_55             byte = 0x37 // 55
	OP_DATA_56             byte = 0x38 // 56
	OP_DATA_57             byte = 0x39 // 57
	OP_DATA_58             byte = 0x3a // 58
	OP_DATA_59             byte = 0x3b // 59
	OP_DATA_60             byte = 0x3c // 60
	OP_DATA_61             byte = 0x3d // 61
	OP_DATA_62             byte = 0x3e // 62
	OP_DATA_63             byte = 0x3f // 63
	OP_DATA_64             byte = 0x40 // 64
	OP_DATA_65             byte = 0x41 // 65
	OP_DATA_66             byte = 0x42 // 66
	OP_DATA_67             byte = 0x43 // 67
	OP_DATA_68             byte = 0x44 // 68
	OP_DATA_69             byte = 0x45 // 69
	OP_DATA_70             byte = 0x46 // 70
	OP_DATA_71             byte = 0x47 // 71
	OP_DATA_72             byte = 0x48 // 72
	OP_DATA_73             byte = 0x49 // 73
	OP_DATA_74             byte = 0x4a // 74
	OP_DATA_75             byte = 0x4b // 75
	OP_PUSHDATA1           byte = 0x4c // 76
	OP_PUSHDATA2           byte = 0x4d // 77
	OP_PUSHDATA4           byte = 0x4e // 78
	OP_1NEGATE             byte = 0x4f // 79
	OP_RESERVED            byte = 0x50 // 80
	OP_1                   byte = 0x51 // 81 - AKA OP_TRUE
	OP_TRUE                byte = 0x51 // 81
	OP_2                   byte = 0x52 // 82
	OP_3                   byte = 0x53 // 83
	OP_4                   byte = 0x54 // 84
	OP_5                   byte = 0x55 // 85
	OP_6                   byte = 0x56 // 86
	OP_7                   byte = 0x57 // 87
	OP_8                   byte = 0x58 // 88
	OP_9                   byte = 0x59 // 89
	OP_10                  byte = 0x5a // 90
	OP_11                  byte = 0x5b // 91
	OP_12                  byte = 0x5c // 92
	OP_13                  byte = 0x5d // 93
	OP_14                  byte = 0x5e // 94
	OP_15                  byte = 0x5f // 95
	OP_16                  byte = 0x60 // 96
	OP_NOP                 byte = 0x61 // 97
	OP_VER                 byte = 0x62 // 98
	OP_IF                  byte = 0x63 // 99
	OP_NOTIF               byte = 0x64 // 100
	OP_VERIF               byte = 0x65 // 101
	OP_VERNOTIF            byte = 0x66 // 102
	OP_ELSE                byte = 0x67 // 103
	OP_ENDIF               byte = 0x68 // 104
	OP_VERIFY              byte = 0x69 // 105
	OP_RETURN              byte = 0x6a // 106
	OP_TOALTSTACK          byte = 0x6b // 107
	OP_FROMALTSTACK        byte = 0x6c // 108
	OP_2DROP               byte = 0x6d // 109
	OP_2DUP                byte = 0x6e // 110
	OP_3DUP                byte = 0x6f // 111
	OP_2OVER               byte = 0x70 // 112
	OP_2ROT                byte = 0x71 // 113
	OP_2SWAP               byte = 0x72 // 114
	OP_IFDUP               byte = 0x73 // 115
	OP_DEPTH               byte = 0x74 // 116
	OP_DROP                byte = 0x75 // 117
	OP_DUP                 byte = 0x76 // 118
	OP_NIP                 byte = 0x77 // 119
	OP_OVER                byte = 0x78 // 120
	OP_PICK                byte = 0x79 // 121
	OP_ROLL                byte = 0x7a // 122
	OP_ROT                 byte = 0x7b // 123
	OP_SWAP                byte = 0x7c // 124
	OP_TUCK                byte = 0x7d // 125
	OP_CAT                 byte = 0x7e // 126
	OP_SPLIT               byte = 0x7f // 127
	OP_NUM2BIN             byte = 0x80 // 128
	OP_BIN2NUM             byte = 0x81 // 129
	OP_SIZE                byte = 0x82 // 130
	OP_INVERT              byte = 0x83 // 131
	OP_AND                 byte = 0x84 // 132
	OP_OR                  byte = 0x85 // 133
	OP_XOR                 byte = 0x86 // 134
	OP_EQUAL               byte = 0x87 // 135
	OP_EQUALVERIFY         byte = 0x88 // 136
	OP_RESERVED1           byte = 0x89 // 137
	OP_RESERVED2           byte = 0x8a // 138
	OP_1ADD                byte = 0x8b // 139
	OP_1SUB                byte = 0x8c // 140
	OP_2MUL                byte = 0x8d // 141
	OP_2DIV                byte = 0x8e // 142
	OP_NEGATE              byte = 0x8f // 143
	OP_ABS                 byte = 0x90 // 144
	OP_NOT                 byte = 0x91 // 145
	OP_0NOTEQUAL           byte = 0x92 // 146
	OP_ADD                 byte = 0x93 // 147
	OP_SUB                 byte = 0x94 // 148
	OP_MUL                 byte = 0x95 // 149
	OP_DIV                 byte = 0x96 // 150
	OP_MOD                 byte = 0x97 // 151
	OP_LSHIFT              byte = 0x98 // 152
	OP_RSHIFT              byte = 0x99 // 153
	OP_BOOLAND             byte = 0x9a // 154
	OP_BOOLOR              byte = 0x9b // 155
	OP_NUMEQUAL            byte = 0x9c // 156
	OP_NUMEQUALVERIFY      byte = 0x9d // 157
	OP_NUMNOTEQUAL         byte = 0x9e // 158
	OP_LESSTHAN            byte = 0x9f // 159
	OP_GREATERTHAN         byte = 0xa0 // 160
	OP_LESSTHANOREQUAL     byte = 0xa1 // 161
	OP_GREATERTHANOREQUAL  byte = 0xa2 // 162
	OP_MIN                 byte = 0xa3 // 163
	OP_MAX                 byte = 0xa4 // 164
	OP_WITHIN              byte = 0xa5 // 165
	OP_RIPEMD160           byte = 0xa6 // 166
	OP_SHA1                byte = 0xa7 // 167
	OP_SHA256              byte = 0xa8 // 168
	OP_HASH160             byte = 0xa9 // 169
	OP_HASH256             byte = 0xaa // 170
	OP_CODESEPARATOR       byte = 0xab // 171
	OP_CHECKSIG            byte = 0xac // 172
	OP_CHECKSIGVERIFY      byte = 0xad // 173
	OP_CHECKMULTISIG       byte = 0xae // 174
	OP_CHECKMULTISIGVERIFY byte = 0xaf // 175
	OP_NOP1                byte = 0xb0 // 176
	OP_CHECKLOCKTIMEVERIFY byte = 0xb1 // 177 - AKA OP_NOP2
	OP_NOP2                byte = 0xb1 // 177
	OP_CHECKSEQUENCEVERIFY byte = 0xb2 // 178 - AKA OP_NOP3
	OP_NOP3                byte = 0xb2 // 178
	OP_NOP4                byte = 0xb3 // 179
	OP_NOP5                byte = 0xb4 // 180
	OP_NOP6                byte = 0xb5 // 181
	OP_NOP7                byte = 0xb6 // 182
	OP_NOP8                byte = 0xb7 // 183
	OP_NOP9                byte = 0xb8 // 184
	OP_NOP10               byte = 0xb9 // 185
	OP_CHECKDATASIG        byte = 0xba // 186
	OP_CHECKDATASIGVERIFY  byte = 0xbb // 187
	OP_REVERSEBYTES        byte = 0xbc // 188

	// State separator opcodes.
	OP_STATESEPARATOR              byte = 0xbd // 189
	OP_STATESEPARATORINDEX_UTXO    byte = 0xbe // 190
	OP_STATESEPARATORINDEX_OUTPUT  byte = 0xbf // 191

	// Native introspection opcodes.
	OP_INPUTINDEX          byte = 0xc0 // 192
	OP_ACTIVEBYTECODE      byte = 0xc1 // 193
	OP_TXVERSION           byte = 0xc2 // 194
	OP_TXINPUTCOUNT        byte = 0xc3 // 195
	OP_TXOUTPUTCOUNT       byte = 0xc4 // 196
	OP_TXLOCKTIME          byte = 0xc5 // 197
	OP_UTXOVALUE           byte = 0xc6 // 198
	OP_UTXOBYTECODE        byte = 0xc7 // 199
	OP_OUTPOINTTXHASH      byte = 0xc8 // 200
	OP_OUTPOINTINDEX       byte = 0xc9 // 201
	OP_INPUTBYTECODE       byte = 0xca // 202
	OP_INPUTSEQUENCENUMBER byte = 0xcb // 203
	OP_OUTPUTVALUE         byte = 0xcc // 204
	OP_OUTPUTBYTECODE      byte = 0xcd // 205

	// SHA-512/256 opcodes.
	OP_SHA512_256  byte = 0xce // 206
	OP_HASH512_256 byte = 0xcf // 207

	// Induction reference opcodes.
	OP_PUSHINPUTREF                                byte = 0xd0 // 208
	OP_REQUIREINPUTREF                             byte = 0xd1 // 209
	OP_DISALLOWPUSHINPUTREF                        byte = 0xd2 // 210
	OP_DISALLOWPUSHINPUTREFSIBLING                 byte = 0xd3 // 211
	OP_REFHASHDATASUMMARY_UTXO                     byte = 0xd4 // 212
	OP_REFHASHVALUESUM_UTXOS                       byte = 0xd5 // 213
	OP_REFHASHDATASUMMARY_OUTPUT                   byte = 0xd6 // 214
	OP_REFHASHVALUESUM_OUTPUTS                     byte = 0xd7 // 215
	OP_PUSHINPUTREFSINGLETON                       byte = 0xd8 // 216
	OP_REFTYPE_UTXO                                byte = 0xd9 // 217
	OP_REFTYPE_OUTPUT                              byte = 0xda // 218
	OP_REFVALUESUM_UTXOS                           byte = 0xdb // 219
	OP_REFVALUESUM_OUTPUTS                         byte = 0xdc // 220
	OP_REFOUTPUTCOUNT_UTXOS                        byte = 0xdd // 221
	OP_REFOUTPUTCOUNT_OUTPUTS                      byte = 0xde // 222
	OP_REFOUTPUTCOUNTZEROVALUED_UTXOS              byte = 0xdf // 223
	OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS            byte = 0xe0 // 224
	OP_REFDATASUMMARY_UTXO                         byte = 0xe1 // 225
	OP_REFDATASUMMARY_OUTPUT                       byte = 0xe2 // 226
	OP_CODESCRIPTHASHVALUESUM_UTXOS                byte = 0xe3 // 227
	OP_CODESCRIPTHASHVALUESUM_OUTPUTS              byte = 0xe4 // 228
	OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS             byte = 0xe5 // 229
	OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS           byte = 0xe6 // 230
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS   byte = 0xe7 // 231
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS byte = 0xe8 // 232
	OP_CODESCRIPTBYTECODE_UTXO                     byte = 0xe9 // 233
	OP_CODESCRIPTBYTECODE_OUTPUT                   byte = 0xea // 234
	OP_STATESCRIPTBYTECODE_UTXO                    byte = 0xeb // 235
	OP_STATESCRIPTBYTECODE_OUTPUT                  byte = 0xec // 236
	OP_PUSH_TX_STATE                               byte = 0xed // 237

	// V2 hard fork opcodes.
	OP_BLAKE3      byte = 0xee // 238
	OP_K12         byte = 0xef // 239
	OP_CHECKSIGADD byte = 0xf0 // 240

	OP_UNKNOWN241    byte = 0xf1 // 241
	OP_UNKNOWN242    byte = 0xf2 // 242
	OP_UNKNOWN243    byte = 0xf3 // 243
	OP_UNKNOWN244    byte = 0xf4 // 244
	OP_UNKNOWN245    byte = 0xf5 // 245
	OP_UNKNOWN246    byte = 0xf6 // 246
	OP_UNKNOWN247    byte = 0xf7 // 247
	OP_UNKNOWN248    byte = 0xf8 // 248
	OP_UNKNOWN249    byte = 0xf9 // 249
	OP_SMALLINTEGER  byte = 0xfa // 250 - internal use in templates
	OP_PUBKEYS       byte = 0xfb // 251 - internal use in templates
	OP_UNKNOWN252    byte = 0xfc // 252
	OP_PUBKEYHASH    byte = 0xfd // 253 - internal use in templates
	OP_PUBKEY        byte = 0xfe // 254 - internal use in templates
	OP_INVALIDOPCODE byte = 0xff // 255
)

// Opcode holds the parse-time metadata of one opcode: its byte value and the
// total encoded length.  A positive Length is the total byte count of the
// instruction including the opcode byte itself; a negative Length identifies
// one of the OP_PUSHDATA forms whose payload length is encoded in the
// following -Length bytes.
type Opcode struct {
	Value  byte
	Length int
}

// MkOpcode returns the metadata for an opcode byte.
func MkOpcode(b byte) Opcode {
	switch {
	case b >= OP_DATA_1 && b <= OP_DATA_75:
		return Opcode{Value: b, Length: int(b) + 1}
	case b == OP_PUSHDATA1:
		return Opcode{Value: b, Length: -1}
	case b == OP_PUSHDATA2:
		return Opcode{Value: b, Length: -2}
	case b == OP_PUSHDATA4:
		return Opcode{Value: b, Length: -4}
	case HasEmbeddedRef(b):
		// Reference opcodes carry a 36-byte embedded operand.
		return Opcode{Value: b, Length: 37}
	default:
		return Opcode{Value: b, Length: 1}
	}
}

// HasEmbeddedRef returns true for the induction reference opcodes which are
// encoded with a 36-byte operand immediately following the opcode byte.
func HasEmbeddedRef(b byte) bool {
	switch b {
	case OP_PUSHINPUTREF, OP_REQUIREINPUTREF, OP_DISALLOWPUSHINPUTREF,
		OP_DISALLOWPUSHINPUTREFSIBLING, OP_PUSHINPUTREFSINGLETON:
		return true
	}
	return false
}

// IsPush returns true for the opcodes which only push data (everything up to
// and including OP_16, matching the push-only rule).
func IsPush(b byte) bool {
	return b <= OP_16
}

// IsIntrospection returns true for the native introspection opcodes.
func IsIntrospection(b byte) bool {
	return b >= OP_INPUTINDEX && b <= OP_OUTPUTBYTECODE
}

// IsReference returns true for the induction reference opcodes, including
// the context summary queries.
func IsReference(b byte) bool {
	return b >= OP_PUSHINPUTREF && b <= OP_PUSH_TX_STATE
}

// IsStateSeparator returns true for the state separator family.
func IsStateSeparator(b byte) bool {
	return b >= OP_STATESEPARATOR && b <= OP_STATESEPARATORINDEX_OUTPUT
}

// IsReenabled returns true for the opcodes which are disabled on the Bitcoin
// chain but live on this one.
func IsReenabled(b byte) bool {
	switch b {
	case OP_CAT, OP_SPLIT, OP_NUM2BIN, OP_BIN2NUM, OP_INVERT, OP_AND,
		OP_OR, OP_XOR, OP_2MUL, OP_2DIV, OP_MUL, OP_DIV, OP_MOD,
		OP_LSHIFT, OP_RSHIFT:
		return true
	}
	return false
}

// opcodeNames maps the defined opcodes to their canonical names.  Undefined
// values render as OP_UNKNOWN<n>.
var opcodeNames = map[byte]string{
	OP_0:                   "OP_0",
	OP_PUSHDATA1:           "OP_PUSHDATA1",
	OP_PUSHDATA2:           "OP_PUSHDATA2",
	OP_PUSHDATA4:           "OP_PUSHDATA4",
	OP_1NEGATE:             "OP_1NEGATE",
	OP_RESERVED:            "OP_RESERVED",
	OP_1:                   "OP_1",
	OP_2:                   "OP_2",
	OP_3:                   "OP_3",
	OP_4:                   "OP_4",
	OP_5:                   "OP_5",
	OP_6:                   "OP_6",
	OP_7:                   "OP_7",
	OP_8:                   "OP_8",
	OP_9:                   "OP_9",
	OP_10:                  "OP_10",
	OP_11:                  "OP_11",
	OP_12:                  "OP_12",
	OP_13:                  "OP_13",
	OP_14:                  "OP_14",
	OP_15:                  "OP_15",
	OP_16:                  "OP_16",
	OP_NOP:                 "OP_NOP",
	OP_VER:                 "OP_VER",
	OP_IF:                  "OP_IF",
	OP_NOTIF:               "OP_NOTIF",
	OP_VERIF:               "OP_VERIF",
	OP_VERNOTIF:            "OP_VERNOTIF",
	OP_ELSE:                "OP_ELSE",
	OP_ENDIF:               "OP_ENDIF",
	OP_VERIFY:              "OP_VERIFY",
	OP_RETURN:              "OP_RETURN",
	OP_TOALTSTACK:          "OP_TOALTSTACK",
	OP_FROMALTSTACK:        "OP_FROMALTSTACK",
	OP_2DROP:               "OP_2DROP",
	OP_2DUP:                "OP_2DUP",
	OP_3DUP:                "OP_3DUP",
	OP_2OVER:               "OP_2OVER",
	OP_2ROT:                "OP_2ROT",
	OP_2SWAP:               "OP_2SWAP",
	OP_IFDUP:               "OP_IFDUP",
	OP_DEPTH:               "OP_DEPTH",
	OP_DROP:                "OP_DROP",
	OP_DUP:                 "OP_DUP",
	OP_NIP:                 "OP_NIP",
	OP_OVER:                "OP_OVER",
	OP_PICK:                "OP_PICK",
	OP_ROLL:                "OP_ROLL",
	OP_ROT:                 "OP_ROT",
	OP_SWAP:                "OP_SWAP",
	OP_TUCK:                "OP_TUCK",
	OP_CAT:                 "OP_CAT",
	OP_SPLIT:               "OP_SPLIT",
	OP_NUM2BIN:             "OP_NUM2BIN",
	OP_BIN2NUM:             "OP_BIN2NUM",
	OP_SIZE:                "OP_SIZE",
	OP_INVERT:              "OP_INVERT",
	OP_AND:                 "OP_AND",
	OP_OR:                  "OP_OR",
	OP_XOR:                 "OP_XOR",
	OP_EQUAL:               "OP_EQUAL",
	OP_EQUALVERIFY:         "OP_EQUALVERIFY",
	OP_RESERVED1:           "OP_RESERVED1",
	OP_RESERVED2:           "OP_RESERVED2",
	OP_1ADD:                "OP_1ADD",
	OP_1SUB:                "OP_1SUB",
	OP_2MUL:                "OP_2MUL",
	OP_2DIV:                "OP_2DIV",
	OP_NEGATE:              "OP_NEGATE",
	OP_ABS:                 "OP_ABS",
	OP_NOT:                 "OP_NOT",
	OP_0NOTEQUAL:           "OP_0NOTEQUAL",
	OP_ADD:                 "OP_ADD",
	OP_SUB:                 "OP_SUB",
	OP_MUL:                 "OP_MUL",
	OP_DIV:                 "OP_DIV",
	OP_MOD:                 "OP_MOD",
	OP_LSHIFT:              "OP_LSHIFT",
	OP_RSHIFT:              "OP_RSHIFT",
	OP_BOOLAND:             "OP_BOOLAND",
	OP_BOOLOR:              "OP_BOOLOR",
	OP_NUMEQUAL:            "OP_NUMEQUAL",
	OP_NUMEQUALVERIFY:      "OP_NUMEQUALVERIFY",
	OP_NUMNOTEQUAL:         "OP_NUMNOTEQUAL",
	OP_LESSTHAN:            "OP_LESSTHAN",
	OP_GREATERTHAN:         "OP_GREATERTHAN",
	OP_LESSTHANOREQUAL:     "OP_LESSTHANOREQUAL",
	OP_GREATERTHANOREQUAL:  "OP_GREATERTHANOREQUAL",
	OP_MIN:                 "OP_MIN",
	OP_MAX:                 "OP_MAX",
	OP_WITHIN:              "OP_WITHIN",
	OP_RIPEMD160:           "OP_RIPEMD160",
	OP_SHA1:                "OP_SHA1",
	OP_SHA256:              "OP_SHA256",
	OP_HASH160:             "OP_HASH160",
	OP_HASH256:             "OP_HASH256",
	OP_CODESEPARATOR:       "OP_CODESEPARATOR",
	OP_CHECKSIG:            "OP_CHECKSIG",
	OP_CHECKSIGVERIFY:      "OP_CHECKSIGVERIFY",
	OP_CHECKMULTISIG:       "OP_CHECKMULTISIG",
	OP_CHECKMULTISIGVERIFY: "OP_CHECKMULTISIGVERIFY",
	OP_NOP1:                "OP_NOP1",
	OP_CHECKLOCKTIMEVERIFY: "OP_CHECKLOCKTIMEVERIFY",
	OP_CHECKSEQUENCEVERIFY: "OP_CHECKSEQUENCEVERIFY",
	OP_NOP4:                "OP_NOP4",
	OP_NOP5:                "OP_NOP5",
	OP_NOP6:                "OP_NOP6",
	OP_NOP7:                "OP_NOP7",
	OP_NOP8:                "OP_NOP8",
	OP_NOP9:                "OP_NOP9",
	OP_NOP10:               "OP_NOP10",
	OP_CHECKDATASIG:        "OP_CHECKDATASIG",
	OP_CHECKDATASIGVERIFY:  "OP_CHECKDATASIGVERIFY",
	OP_REVERSEBYTES:        "OP_REVERSEBYTES",

	OP_STATESEPARATOR:             "OP_STATESEPARATOR",
	OP_STATESEPARATORINDEX_UTXO:   "OP_STATESEPARATORINDEX_UTXO",
	OP_STATESEPARATORINDEX_OUTPUT: "OP_STATESEPARATORINDEX_OUTPUT",

	OP_INPUTINDEX:          "OP_INPUTINDEX",
	OP_ACTIVEBYTECODE:      "OP_ACTIVEBYTECODE",
	OP_TXVERSION:           "OP_TXVERSION",
	OP_TXINPUTCOUNT:        "OP_TXINPUTCOUNT",
	OP_TXOUTPUTCOUNT:       "OP_TXOUTPUTCOUNT",
	OP_TXLOCKTIME:          "OP_TXLOCKTIME",
	OP_UTXOVALUE:           "OP_UTXOVALUE",
	OP_UTXOBYTECODE:        "OP_UTXOBYTECODE",
	OP_OUTPOINTTXHASH:      "OP_OUTPOINTTXHASH",
	OP_OUTPOINTINDEX:       "OP_OUTPOINTINDEX",
	OP_INPUTBYTECODE:       "OP_INPUTBYTECODE",
	OP_INPUTSEQUENCENUMBER: "OP_INPUTSEQUENCENUMBER",
	OP_OUTPUTVALUE:         "OP_OUTPUTVALUE",
	OP_OUTPUTBYTECODE:      "OP_OUTPUTBYTECODE",

	OP_SHA512_256:  "OP_SHA512_256",
	OP_HASH512_256: "OP_HASH512_256",

	OP_PUSHINPUTREF:                                "OP_PUSHINPUTREF",
	OP_REQUIREINPUTREF:                             "OP_REQUIREINPUTREF",
	OP_DISALLOWPUSHINPUTREF:                        "OP_DISALLOWPUSHINPUTREF",
	OP_DISALLOWPUSHINPUTREFSIBLING:                 "OP_DISALLOWPUSHINPUTREFSIBLING",
	OP_REFHASHDATASUMMARY_UTXO:                     "OP_REFHASHDATASUMMARY_UTXO",
	OP_REFHASHVALUESUM_UTXOS:                       "OP_REFHASHVALUESUM_UTXOS",
	OP_REFHASHDATASUMMARY_OUTPUT:                   "OP_REFHASHDATASUMMARY_OUTPUT",
	OP_REFHASHVALUESUM_OUTPUTS:                     "OP_REFHASHVALUESUM_OUTPUTS",
	OP_PUSHINPUTREFSINGLETON:                       "OP_PUSHINPUTREFSINGLETON",
	OP_REFTYPE_UTXO:                                "OP_REFTYPE_UTXO",
	OP_REFTYPE_OUTPUT:                              "OP_REFTYPE_OUTPUT",
	OP_REFVALUESUM_UTXOS:                           "OP_REFVALUESUM_UTXOS",
	OP_REFVALUESUM_OUTPUTS:                         "OP_REFVALUESUM_OUTPUTS",
	OP_REFOUTPUTCOUNT_UTXOS:                        "OP_REFOUTPUTCOUNT_UTXOS",
	OP_REFOUTPUTCOUNT_OUTPUTS:                      "OP_REFOUTPUTCOUNT_OUTPUTS",
	OP_REFOUTPUTCOUNTZEROVALUED_UTXOS:              "OP_REFOUTPUTCOUNTZEROVALUED_UTXOS",
	OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS:            "OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS",
	OP_REFDATASUMMARY_UTXO:                         "OP_REFDATASUMMARY_UTXO",
	OP_REFDATASUMMARY_OUTPUT:                       "OP_REFDATASUMMARY_OUTPUT",
	OP_CODESCRIPTHASHVALUESUM_UTXOS:                "OP_CODESCRIPTHASHVALUESUM_UTXOS",
	OP_CODESCRIPTHASHVALUESUM_OUTPUTS:              "OP_CODESCRIPTHASHVALUESUM_OUTPUTS",
	OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS:             "OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS",
	OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS:           "OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS",
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS:   "OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS",
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS: "OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS",
	OP_CODESCRIPTBYTECODE_UTXO:                     "OP_CODESCRIPTBYTECODE_UTXO",
	OP_CODESCRIPTBYTECODE_OUTPUT:                   "OP_CODESCRIPTBYTECODE_OUTPUT",
	OP_STATESCRIPTBYTECODE_UTXO:                    "OP_STATESCRIPTBYTECODE_UTXO",
	OP_STATESCRIPTBYTECODE_OUTPUT:                  "OP_STATESCRIPTBYTECODE_OUTPUT",
	OP_PUSH_TX_STATE:                               "OP_PUSH_TX_STATE",

	OP_BLAKE3:      "OP_BLAKE3",
	OP_K12:         "OP_K12",
	OP_CHECKSIGADD: "OP_CHECKSIGADD",

	OP_SMALLINTEGER:  "OP_SMALLINTEGER",
	OP_PUBKEYS:       "OP_PUBKEYS",
	OP_PUBKEYHASH:    "OP_PUBKEYHASH",
	OP_PUBKEY:        "OP_PUBKEY",
	OP_INVALIDOPCODE: "OP_INVALIDOPCODE",
}

// OpcodeName returns the human-readable name of an opcode byte.  Data pushes
// of a specific length are rendered OP_DATA_<n>.
func OpcodeName(b byte) string {
	if b >= OP_DATA_1 && b <= OP_DATA_75 {
		return fmt.Sprintf("OP_DATA_%d", b)
	}
	if name, ok := opcodeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", b)
}

// ParseOpcode resolves a canonical opcode name (e.g. "OP_CHECKSIG") to its
// byte value, honoring the usual aliases.
func ParseOpcode(name string) (byte, bool) {
	switch name {
	case "OP_FALSE":
		return OP_0, true
	case "OP_TRUE":
		return OP_1, true
	case "OP_NOP2":
		return OP_CHECKLOCKTIMEVERIFY, true
	case "OP_NOP3":
		return OP_CHECKSEQUENCEVERIFY, true
	}
	for b, n := range opcodeNames {
		if n == name {
			return b, true
		}
	}
	for i := 1; i <= 75; i++ {
		if name == fmt.Sprintf("OP_DATA_%d", i) {
			return byte(i), true
		}
	}
	return 0, false
}
