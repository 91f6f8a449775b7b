// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package electrum implements the small slice of the Electrum protocol the
// debugger needs: fetching raw transactions, the coins they spend, and the
// unspent outputs of a script.  The protocol is newline-delimited JSON-RPC
// 2.0 over TCP or TLS.
package electrum

import (
	"bufio"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Radiant-Core/rxdeb/chaincfg"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript"
	"github.com/Radiant-Core/rxdeb/wire"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// clientVersion is the client string announced through server.version.
const clientVersion = "rxdeb 0.2"

// protocolVersion is the Electrum protocol version negotiated.
const protocolVersion = "1.4"

// Err identifies errors coming from the Electrum client.
var Err er.ErrorType = er.NewErrorType("electrum.Err")

var (
	// ErrNotConnected is returned when a call is made before Connect.
	ErrNotConnected = Err.Code("ErrNotConnected")

	// ErrRPC is returned when the server answers with a JSON-RPC error.
	ErrRPC = Err.Code("ErrRPC")

	// ErrBadResponse is returned when a response does not decode.
	ErrBadResponse = Err.Code("ErrBadResponse")
)

// UTXO is one unspent output as listed by the server.
type UTXO struct {
	TxID   string `json:"tx_hash"`
	Vout   uint32 `json:"tx_pos"`
	Value  int64  `json:"value"`
	Height uint32 `json:"height"`
}

// TxRef is one history entry of a script hash.
type TxRef struct {
	TxID   string `json:"tx_hash"`
	Height int32  `json:"height"`
}

// Config describes how to reach an Electrum server.
type Config struct {
	// Host is the server in host:port form.
	Host string

	// UseTLS selects a TLS transport.  Public Electrum servers run TLS
	// with self-signed certificates, so the handshake does not verify
	// the chain.
	UseTLS bool

	// Timeout applies per round trip.  Zero means 30 seconds.
	Timeout time.Duration
}

// DefaultConfig builds a config pointed at the first Electrum seed of the
// network.
func DefaultConfig(net *chaincfg.Params) (Config, er.R) {
	if len(net.ElectrumSeeds) == 0 {
		return Config{}, er.Errorf("network %s has no electrum seeds, "+
			"a server must be given explicitly", net.Name)
	}
	return Config{Host: net.ElectrumSeeds[0], UseTLS: true}, nil
}

// Client is an Electrum protocol client.  It is safe for concurrent use;
// calls are serialized over the single connection.
type Client struct {
	cfg Config

	mtx    sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID uint64
}

// New returns a client for the given config.  No connection is made until
// Connect.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{cfg: cfg}
}

// Connect dials the server and negotiates the protocol version.
func (c *Client) Connect() er.R {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.conn != nil {
		return nil
	}

	var conn net.Conn
	var err error
	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	if c.cfg.UseTLS {
		conn, err = tls.DialWithDialer(&dialer, "tcp", c.cfg.Host,
			&tls.Config{InsecureSkipVerify: true})
	} else {
		conn, err = dialer.Dial("tcp", c.cfg.Host)
	}
	if err != nil {
		return er.E(err)
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)

	var version []string
	if errr := c.callLocked("server.version",
		[]interface{}{clientVersion, protocolVersion}, &version); errr != nil {
		c.closeLocked()
		return errr
	}
	if len(version) > 0 {
		log.Debugf("connected to %s (%s)", c.cfg.Host, version[0])
	}
	return nil
}

// IsConnected reports whether the client holds an open connection.
func (c *Client) IsConnected() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.conn != nil
}

// Close shuts the connection down.
func (c *Client) Close() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
		c.reader = nil
	}
}

// request and response are the JSON-RPC 2.0 frames.
type request struct {
	ID      uint64        `json:"id"`
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	ID     uint64              `json:"id"`
	Result jsoniter.RawMessage `json:"result"`
	Error  *rpcError           `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs one JSON-RPC round trip, decoding the result into out.
func (c *Client) call(method string, params []interface{}, out interface{}) er.R {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.callLocked(method, params, out)
}

func (c *Client) callLocked(method string, params []interface{}, out interface{}) er.R {
	if c.conn != nil {
		_ = c.conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	} else {
		return ErrNotConnected.New("call before Connect", nil)
	}

	c.nextID++
	req := request{
		ID:      c.nextID,
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	}
	if params == nil {
		req.Params = []interface{}{}
	}

	payload, err := json.Marshal(&req)
	if err != nil {
		return er.E(err)
	}
	payload = append(payload, '\n')
	if _, err := c.conn.Write(payload); err != nil {
		c.closeLocked()
		return er.E(err)
	}

	// Servers may interleave subscription notifications: skip frames
	// until our id answers.
	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			c.closeLocked()
			return er.E(err)
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			return ErrBadResponse.New(fmt.Sprintf("undecodable frame "+
				"from %s", c.cfg.Host), er.E(err))
		}
		if resp.ID != req.ID {
			log.Tracef("skipping unsolicited frame id=%d", resp.ID)
			continue
		}
		if resp.Error != nil {
			return ErrRPC.New(fmt.Sprintf("%s: %s (code %d)", method,
				resp.Error.Message, resp.Error.Code), nil)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return ErrBadResponse.New(fmt.Sprintf("result of %s does "+
				"not decode", method), er.E(err))
		}
		return nil
	}
}

// RawTransaction fetches the raw serialization of a transaction as hex.
func (c *Client) RawTransaction(txid string) (string, er.R) {
	var raw string
	err := c.call("blockchain.transaction.get", []interface{}{txid}, &raw)
	return raw, err
}

// Transaction fetches and parses a transaction.
func (c *Client) Transaction(txid string) (*wire.MsgTx, er.R) {
	raw, err := c.RawTransaction(txid)
	if err != nil {
		return nil, err
	}
	return wire.NewMsgTxFromHex(raw)
}

// TransactionWithInputs fetches a transaction together with every coin it
// spends, which is exactly the shape an execution context is built from.
func (c *Client) TransactionWithInputs(txid string) (*wire.MsgTx, []txscript.Coin, er.R) {
	tx, err := c.Transaction(txid)
	if err != nil {
		return nil, nil, err
	}

	// Funding transactions repeat when several inputs spend the same
	// parent, so fetch each parent once.
	parents := make(map[string]*wire.MsgTx)
	coins := make([]txscript.Coin, len(tx.TxIn))
	for i, in := range tx.TxIn {
		if tx.IsCoinBase() {
			break
		}
		parentID := in.PreviousOutPoint.Hash.String()
		parent, ok := parents[parentID]
		if !ok {
			parent, err = c.Transaction(parentID)
			if err != nil {
				return nil, nil, err
			}
			parents[parentID] = parent
		}

		vout := in.PreviousOutPoint.Index
		if vout >= uint32(len(parent.TxOut)) {
			return nil, nil, er.Errorf("input %d of %s spends output "+
				"%d of %s which only has %d outputs", i, txid, vout,
				parentID, len(parent.TxOut))
		}
		out := parent.TxOut[vout]
		coins[i] = txscript.Coin{
			Value:    out.Value,
			PkScript: out.PkScript,
		}
	}

	return tx, coins, nil
}

// ListUnspent lists the unspent outputs of a locking script.
func (c *Client) ListUnspent(pkScript []byte) ([]UTXO, er.R) {
	var utxos []UTXO
	err := c.call("blockchain.scripthash.listunspent",
		[]interface{}{ScriptHash(pkScript)}, &utxos)
	return utxos, err
}

// History lists the confirmed and mempool history of a locking script.
func (c *Client) History(pkScript []byte) ([]TxRef, er.R) {
	var refs []TxRef
	err := c.call("blockchain.scripthash.get_history",
		[]interface{}{ScriptHash(pkScript)}, &refs)
	return refs, err
}

// TipHeight returns the server's current chain height.
func (c *Client) TipHeight() (uint32, er.R) {
	var tip struct {
		Height uint32 `json:"height"`
		Hex    string `json:"hex"`
	}
	err := c.call("blockchain.headers.subscribe", nil, &tip)
	return tip.Height, err
}

// Broadcast submits a raw transaction and returns the txid the server
// reports.  It exists for testing spends built in the debugger.
func (c *Client) Broadcast(rawTxHex string) (string, er.R) {
	var txid string
	err := c.call("blockchain.transaction.broadcast",
		[]interface{}{rawTxHex}, &txid)
	return txid, err
}

// ScriptHash converts a locking script into the Electrum addressing form:
// the sha256 of the script, hex-encoded in reversed byte order.
func ScriptHash(pkScript []byte) string {
	h := sha256.Sum256(pkScript)
	for i, j := 0, len(h)-1; i < j; i, j = i+1, j-1 {
		h[i], h[j] = h[j], h[i]
	}
	return hex.EncodeToString(h[:])
}
