// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleArtifact = `{
  "contractName": "Counter",
  "constructorInputs": [
    {"name": "owner", "type": "pubkey"}
  ],
  "abi": [
    {"name": "increment", "inputs": [{"name": "sig", "type": "sig"}]},
    {"name": "close", "inputs": []}
  ],
  "bytecode": "76a98851",
  "source": "contract Counter(pubkey owner) {\n  function increment(sig s) {\n  }\n}",
  "sourceMap": [
    {"opcode": 0, "range": {"start": 0, "end": 10}, "statement": "require(a)"},
    {"opcode": 2, "range": {"start": 11, "end": 30}, "statement": "checkSig(s, owner)"}
  ],
  "compiler": {"name": "radc", "version": "0.9.1"},
  "updatedAt": "2026-01-05T10:00:00Z"
}`

func TestParseArtifact(t *testing.T) {
	t.Parallel()

	art, err := Parse([]byte(sampleArtifact))
	require.Nil(t, err)

	require.Equal(t, "Counter", art.Name)
	require.Equal(t, []byte{0x76, 0xa9, 0x88, 0x51}, art.Bytecode)
	require.Len(t, art.ConstructorInputs, 1)
	require.Equal(t, "pubkey", art.ConstructorInputs[0].Type)
	require.Len(t, art.ABI, 2)
	require.True(t, art.HasSourceMap())
	require.Len(t, art.SourceLines(), 4)

	fn, ok := art.FunctionByName("increment")
	require.True(t, ok)
	require.Len(t, fn.Inputs, 1)

	_, ok = art.FunctionByName("missing")
	require.False(t, ok)
}

func TestParseArtifactNameFallback(t *testing.T) {
	t.Parallel()

	art, err := Parse([]byte(`{"name": "Old", "bytecode": "51"}`))
	require.Nil(t, err)
	require.Equal(t, "Old", art.Name)

	_, err = Parse([]byte(`{"bytecode": "51"}`))
	require.NotNil(t, err)
}

func TestParseArtifactBadInput(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{`))
	require.NotNil(t, err)

	_, err = Parse([]byte(`{"contractName": "X", "bytecode": "zz"}`))
	require.NotNil(t, err)
}

func TestSourceAt(t *testing.T) {
	t.Parallel()

	art, err := Parse([]byte(sampleArtifact))
	require.Nil(t, err)

	// Exact hit.
	entry, ok := art.SourceAt(0)
	require.True(t, ok)
	require.Equal(t, "require(a)", entry.Statement)

	// Between entries the nearest preceding mapping applies.
	entry, ok = art.SourceAt(1)
	require.True(t, ok)
	require.Equal(t, "require(a)", entry.Statement)

	// Past the last entry the last mapping applies.
	entry, ok = art.SourceAt(99)
	require.True(t, ok)
	require.Equal(t, "checkSig(s, owner)", entry.Statement)
}

func TestSourceAtEmpty(t *testing.T) {
	t.Parallel()

	art, err := Parse([]byte(`{"contractName": "X", "bytecode": "51"}`))
	require.Nil(t, err)
	require.False(t, art.HasSourceMap())

	_, ok := art.SourceAt(0)
	require.False(t, ok)
}
