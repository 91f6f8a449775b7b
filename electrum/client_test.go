// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package electrum

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Radiant-Core/rxdeb/wire"
)

// fakeServer runs a minimal Electrum responder on a loopback listener.  It
// answers from the handlers map keyed by method name.
func fakeServer(t *testing.T, handlers map[string]func(params []interface{}) (string, string)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		scanner := bufio.NewScanner(conn)
		scanner.Buffer(make([]byte, 1<<20), 1<<20)
		for scanner.Scan() {
			var req struct {
				ID     uint64        `json:"id"`
				Method string        `json:"method"`
				Params []interface{} `json:"params"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				return
			}

			handler, ok := handlers[req.Method]
			if !ok {
				fmt.Fprintf(conn, `{"id":%d,"error":{"code":-32601,`+
					`"message":"unknown method"}}`+"\n", req.ID)
				continue
			}
			result, rpcErr := handler(req.Params)
			if rpcErr != "" {
				fmt.Fprintf(conn, `{"id":%d,"error":{"code":1,`+
					`"message":%q}}`+"\n", req.ID, rpcErr)
				continue
			}
			fmt.Fprintf(conn, `{"id":%d,"result":%s}`+"\n", req.ID, result)
		}
	}()

	return ln.Addr().String()
}

// versionHandler answers server.version the way public servers do.
func versionHandler(params []interface{}) (string, string) {
	return `["ElectrumX 1.16", "1.4"]`, ""
}

func testClient(t *testing.T, handlers map[string]func([]interface{}) (string, string)) *Client {
	t.Helper()

	if _, ok := handlers["server.version"]; !ok {
		handlers["server.version"] = versionHandler
	}
	addr := fakeServer(t, handlers)
	client := New(Config{Host: addr, UseTLS: false})
	require.Nil(t, client.Connect())
	t.Cleanup(client.Close)
	return client
}

func TestConnectAndVersion(t *testing.T) {
	t.Parallel()

	client := testClient(t, map[string]func([]interface{}) (string, string){})
	require.True(t, client.IsConnected())
}

func TestRawTransaction(t *testing.T) {
	t.Parallel()

	// Serve a real serialization so the parse path is exercised too.
	tx := wire.NewMsgTx(2)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex},
		[]byte{0x51}))
	tx.AddTxOut(wire.NewTxOut(5000, []byte{0x51}))
	txHex := hex.EncodeToString(tx.SerializeBytes())

	client := testClient(t, map[string]func([]interface{}) (string, string){
		"blockchain.transaction.get": func(params []interface{}) (string, string) {
			return fmt.Sprintf("%q", txHex), ""
		},
	})

	raw, err := client.RawTransaction(tx.TxID())
	require.Nil(t, err)
	require.Equal(t, txHex, raw)

	parsed, err := client.Transaction(tx.TxID())
	require.Nil(t, err)
	require.Equal(t, tx.TxID(), parsed.TxID())
}

func TestTransactionWithInputs(t *testing.T) {
	t.Parallel()

	// Parent with two outputs; child spends both.
	parent := wire.NewMsgTx(2)
	parent.AddTxIn(wire.NewTxIn(&wire.OutPoint{Index: wire.MaxPrevOutIndex},
		[]byte{0x51}))
	parent.AddTxOut(wire.NewTxOut(1000, []byte{0x51}))
	parent.AddTxOut(wire.NewTxOut(2000, []byte{0x52}))
	parentHash := parent.TxHash()

	child := wire.NewMsgTx(2)
	child.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: parentHash, Index: 0}, nil))
	child.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: parentHash, Index: 1}, nil))
	child.AddTxOut(wire.NewTxOut(2900, []byte{0x53}))

	rawByID := map[string]string{
		parent.TxID(): hex.EncodeToString(parent.SerializeBytes()),
		child.TxID():  hex.EncodeToString(child.SerializeBytes()),
	}

	client := testClient(t, map[string]func([]interface{}) (string, string){
		"blockchain.transaction.get": func(params []interface{}) (string, string) {
			txid, _ := params[0].(string)
			raw, ok := rawByID[txid]
			if !ok {
				return "", "transaction not found"
			}
			return fmt.Sprintf("%q", raw), ""
		},
	})

	tx, coins, err := client.TransactionWithInputs(child.TxID())
	require.Nil(t, err)
	require.Equal(t, child.TxID(), tx.TxID())
	require.Len(t, coins, 2)
	require.Equal(t, int64(1000), coins[0].Value)
	require.Equal(t, int64(2000), coins[1].Value)
	require.Equal(t, []byte{0x52}, coins[1].PkScript)
}

func TestListUnspent(t *testing.T) {
	t.Parallel()

	script := []byte{0x51}
	wantHash := ScriptHash(script)

	client := testClient(t, map[string]func([]interface{}) (string, string){
		"blockchain.scripthash.listunspent": func(params []interface{}) (string, string) {
			got, _ := params[0].(string)
			if got != wantHash {
				return "", "wrong script hash"
			}
			return `[{"tx_hash":"ab","tx_pos":1,"value":5000,"height":100}]`, ""
		},
	})

	utxos, err := client.ListUnspent(script)
	require.Nil(t, err)
	require.Len(t, utxos, 1)
	require.Equal(t, int64(5000), utxos[0].Value)
	require.Equal(t, uint32(1), utxos[0].Vout)
}

func TestRPCError(t *testing.T) {
	t.Parallel()

	client := testClient(t, map[string]func([]interface{}) (string, string){
		"blockchain.transaction.get": func(params []interface{}) (string, string) {
			return "", "transaction not found"
		},
	})

	_, err := client.RawTransaction("00")
	require.NotNil(t, err)
	require.True(t, ErrRPC.Is(err))
}

func TestCallBeforeConnect(t *testing.T) {
	t.Parallel()

	client := New(Config{Host: "127.0.0.1:1"})
	_, err := client.RawTransaction("00")
	require.True(t, ErrNotConnected.Is(err))
}

func TestScriptHash(t *testing.T) {
	t.Parallel()

	// sha256 of the empty script, reversed: a well-known reference
	// value of the Electrum addressing convention.
	require.Equal(t,
		"55b852781b9995a44c939b64e441ae2724b96f99c8f4fb9a141cfc9842c4b0e3",
		ScriptHash(nil))
}
