// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// Params defines the network parameters the debugger cares about: address
// prefixes for display and the Electrum seed servers used to fetch live
// transactions.
type Params struct {
	Name string

	// Net is the magic value of the peer-to-peer message header.
	Net uint32

	// Address encoding magics.
	PubKeyHashAddrID byte
	ScriptHashAddrID byte
	PrivateKeyID     byte

	// DefaultElectrumPort is the conventional ssl port of Electrum
	// servers on this network.
	DefaultElectrumPort uint16

	// ElectrumSeeds lists well-known Electrum servers, host:port.
	ElectrumSeeds []string
}

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:                "mainnet",
	Net:                 0x5244584d,
	PubKeyHashAddrID:    0x00,
	ScriptHashAddrID:    0x05,
	PrivateKeyID:        0x80,
	DefaultElectrumPort: 50012,
	ElectrumSeeds: []string{
		"electrumx.radiant4people.com:50012",
		"electrumx2.radiant4people.com:50012",
	},
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:                "testnet",
	Net:                 0x52445854,
	PubKeyHashAddrID:    0x6f,
	ScriptHashAddrID:    0xc4,
	PrivateKeyID:        0xef,
	DefaultElectrumPort: 51012,
	ElectrumSeeds: []string{
		"electrumx-testnet.radiant4people.com:51012",
	},
}

// RegressionNetParams defines the network parameters for the regression test
// network.  There are no public Electrum servers; the debugger expects an
// explicit --server.
var RegressionNetParams = Params{
	Name:                "regtest",
	Net:                 0x52445852,
	PubKeyHashAddrID:    0x6f,
	ScriptHashAddrID:    0xc4,
	PrivateKeyID:        0xef,
	DefaultElectrumPort: 50012,
}

// ParamsForName returns the parameters of the named network, defaulting to
// mainnet for unrecognized names.
func ParamsForName(name string) *Params {
	switch name {
	case "testnet", "test":
		return &TestNetParams
	case "regtest", "reg", "simnet":
		return &RegressionNetParams
	default:
		return &MainNetParams
	}
}
