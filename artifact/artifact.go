// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package artifact reads compiled RadiantScript artifacts, the JSON files
// the contract compiler emits, and maps executing opcodes back to contract
// source for the debugger's source-level display.
package artifact

import (
	"encoding/hex"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/Radiant-Core/rxdeb/rxdutil/er"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Param is one typed parameter of a contract function or constructor.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is one entry of the contract ABI.
type Function struct {
	Name   string  `json:"name"`
	Inputs []Param `json:"inputs"`
}

// SourceRange is a half-open span into the contract source.
type SourceRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SourceMapEntry ties an opcode index to the source statement it was
// compiled from.
type SourceMapEntry struct {
	Opcode    int         `json:"opcode"`
	Range     SourceRange `json:"range"`
	Statement string      `json:"statement"`
}

// rawArtifact mirrors the JSON document.  Unknown fields are ignored; both
// the "contractName" and older "name" spellings are accepted.
type rawArtifact struct {
	ContractName      string           `json:"contractName"`
	Name              string           `json:"name"`
	Bytecode          string           `json:"bytecode"`
	Source            string           `json:"source"`
	ConstructorInputs []Param          `json:"constructorInputs"`
	ABI               []Function       `json:"abi"`
	SourceMap         []SourceMapEntry `json:"sourceMap"`
}

// Artifact is a parsed RadiantScript compiler artifact.
type Artifact struct {
	Name              string
	Bytecode          []byte
	Source            string
	ConstructorInputs []Param
	ABI               []Function

	// sourceMap is kept sorted by opcode index so lookups can take the
	// nearest preceding entry.
	sourceMap []SourceMapEntry
}

// Load reads an artifact from a JSON file.
func Load(path string) (*Artifact, er.R) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, er.E(err)
	}
	return Parse(data)
}

// Parse reads an artifact from its JSON encoding.
func Parse(data []byte) (*Artifact, er.R) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, er.E(err)
	}

	name := raw.ContractName
	if name == "" {
		name = raw.Name
	}
	if name == "" {
		return nil, er.New("artifact carries neither contractName nor name")
	}

	bytecode, err := hex.DecodeString(strings.TrimSpace(raw.Bytecode))
	if err != nil {
		return nil, er.E(err)
	}

	art := &Artifact{
		Name:              name,
		Bytecode:          bytecode,
		Source:            raw.Source,
		ConstructorInputs: raw.ConstructorInputs,
		ABI:               raw.ABI,
		sourceMap:         raw.SourceMap,
	}
	sort.SliceStable(art.sourceMap, func(i, j int) bool {
		return art.sourceMap[i].Opcode < art.sourceMap[j].Opcode
	})

	return art, nil
}

// HasSourceMap reports whether the artifact carries source mappings.
func (a *Artifact) HasSourceMap() bool {
	return len(a.sourceMap) > 0
}

// SourceAt returns the source map entry for the given opcode index, taking
// the nearest preceding entry when the index has no exact mapping.  The
// second return is false when no entry precedes the index.
func (a *Artifact) SourceAt(opcodeIdx int) (SourceMapEntry, bool) {
	// Binary search for the first entry past the index, then step back.
	i := sort.Search(len(a.sourceMap), func(i int) bool {
		return a.sourceMap[i].Opcode > opcodeIdx
	})
	if i == 0 {
		return SourceMapEntry{}, false
	}
	return a.sourceMap[i-1], true
}

// FunctionByName finds an ABI entry by name.
func (a *Artifact) FunctionByName(name string) (Function, bool) {
	for _, fn := range a.ABI {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// SourceLines splits the contract source into lines for display.
func (a *Artifact) SourceLines() []string {
	if a.Source == "" {
		return nil
	}
	return strings.Split(a.Source, "\n")
}
