// Copyright (c) 2024-2026 The Radiant developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// rxdeb is an interactive, stepwise debugger for Radiant transaction
// scripts.  It executes one opcode at a time, shows the stacks and the
// execution context between steps, and can step backwards.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jedib0t/go-pretty/table"
	flags "github.com/jessevdk/go-flags"

	"github.com/Radiant-Core/rxdeb/artifact"
	"github.com/Radiant-Core/rxdeb/chaincfg"
	"github.com/Radiant-Core/rxdeb/electrum"
	"github.com/Radiant-Core/rxdeb/rxdutil/er"
	"github.com/Radiant-Core/rxdeb/txscript"
	"github.com/Radiant-Core/rxdeb/wire"
)

type options struct {
	Network  string `short:"n" long:"network" description:"Network to use (mainnet, testnet, regtest)" default:"mainnet"`
	Server   string `short:"s" long:"server" description:"Electrum server (host:port), defaults to a network seed"`
	NoTLS    bool   `long:"notls" description:"Connect to the Electrum server without TLS"`
	TxHex    string `long:"tx" description:"Raw transaction hex to debug"`
	TxID     string `long:"txid" description:"Fetch the transaction to debug from an Electrum server"`
	Input    int    `short:"i" long:"input" description:"Input index to debug" default:"0"`
	Script   string `long:"script" description:"Bare script hex to run without a transaction"`
	Artifact string `long:"artifact" description:"RadiantScript artifact JSON for source mapping"`
	Legacy   bool   `long:"legacy" description:"Run with legacy 4-byte integer semantics"`
	Quiet    bool   `short:"q" long:"quiet" description:"Only print the final verdict"`
	Verbose  bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(&opts); err != nil {
		fmt.Fprintln(os.Stderr, "rxdeb:", err.Message())
		os.Exit(1)
	}
}

func setupLogging(opts *options) {
	backend := btclog.NewBackend(os.Stderr)
	logger := backend.Logger("RXDB")
	switch {
	case opts.Verbose:
		logger.SetLevel(btclog.LevelDebug)
	case opts.Quiet:
		logger.SetLevel(btclog.LevelOff)
	default:
		logger.SetLevel(btclog.LevelInfo)
	}
	txscript.UseLogger(logger)
	electrum.UseLogger(logger)
}

func scriptFlags(opts *options) txscript.ScriptFlags {
	sf := txscript.StandardVerifyFlags
	if opts.Legacy {
		sf &^= txscript.ScriptEnable64BitIntegers |
			txscript.ScriptEnableNativeIntrospection |
			txscript.ScriptEnableEnhancedReferences
	}
	return sf
}

func run(opts *options) er.R {
	setupLogging(opts)
	net := chaincfg.ParamsForName(opts.Network)

	var art *artifact.Artifact
	if opts.Artifact != "" {
		var err er.R
		art, err = artifact.Load(opts.Artifact)
		if err != nil {
			return err
		}
		fmt.Printf("loaded artifact %q (%d bytes of bytecode)\n",
			art.Name, len(art.Bytecode))
	}

	sf := scriptFlags(opts)

	// A bare script runs without a transaction; introspection opcodes
	// will report the missing context.
	if opts.Script != "" {
		script, err := hex.DecodeString(strings.TrimSpace(opts.Script))
		if err != nil {
			return er.E(err)
		}
		vm, errr := txscript.NewDebugEngine(script, sf, nil)
		if errr != nil {
			return errr
		}
		return repl(vm, nil, art, opts)
	}

	tx, coins, err := loadTransaction(opts, net)
	if err != nil {
		return err
	}

	if opts.Input < 0 || opts.Input >= len(tx.TxIn) {
		return er.Errorf("input index %d out of range, transaction has "+
			"%d inputs", opts.Input, len(tx.TxIn))
	}

	ctx, err := txscript.NewExecutionContext(tx, coins, opts.Input)
	if err != nil {
		return err
	}

	coin := coins[opts.Input]
	vm, err := txscript.NewEngine(tx.TxIn[opts.Input].SignatureScript,
		coin.PkScript, tx, opts.Input, sf, coin.Value, ctx, nil)
	if err != nil {
		return err
	}

	return repl(vm, ctx, art, opts)
}

// loadTransaction resolves the transaction and its spent coins from either
// the --tx hex or an Electrum server.
func loadTransaction(opts *options, net *chaincfg.Params) (*wire.MsgTx, []txscript.Coin, er.R) {
	if opts.TxHex != "" {
		tx, err := wire.NewMsgTxFromHex(opts.TxHex)
		if err != nil {
			return nil, nil, err
		}

		// Without a server the spent coins are unknown; zero-valued
		// placeholder coins keep the context shape intact.
		if opts.Server == "" && opts.TxID == "" {
			coins := make([]txscript.Coin, len(tx.TxIn))
			return tx, coins, nil
		}

		client, err := dial(opts, net)
		if err != nil {
			return nil, nil, err
		}
		defer client.Close()
		return client.TransactionWithInputs(tx.TxID())
	}

	if opts.TxID == "" {
		return nil, nil, er.New("one of --tx, --txid or --script is required")
	}

	client, err := dial(opts, net)
	if err != nil {
		return nil, nil, err
	}
	defer client.Close()
	return client.TransactionWithInputs(opts.TxID)
}

func dial(opts *options, net *chaincfg.Params) (*electrum.Client, er.R) {
	cfg := electrum.Config{Host: opts.Server, UseTLS: !opts.NoTLS}
	if cfg.Host == "" {
		var err er.R
		cfg, err = electrum.DefaultConfig(net)
		if err != nil {
			return nil, err
		}
	}

	client := electrum.New(cfg)
	if err := client.Connect(); err != nil {
		return nil, err
	}
	return client, nil
}

// repl drives the interactive loop.  With --quiet it instead runs the script
// to completion and prints the verdict.
func repl(vm *txscript.Engine, ctx *txscript.ExecutionContext,
	art *artifact.Artifact, opts *options) er.R {

	if opts.Quiet {
		err := vm.Execute()
		if err != nil {
			fmt.Printf("FAIL: %s\n", err.Message())
			return nil
		}
		fmt.Println("OK")
		return nil
	}

	fmt.Println("rxdeb interactive debugger -- type 'help' for commands")
	printLocation(vm, art)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("rxdeb> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			line = "step"
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "q", "quit", "exit":
			return nil

		case "h", "help":
			printHelp()

		case "s", "step", "n":
			done, err := vm.Step()
			if err != nil {
				fmt.Printf("halted: %s\n", err.Message())
				continue
			}
			if done {
				printVerdict(vm)
				continue
			}
			printLocation(vm, art)

		case "r", "rewind", "back":
			if !vm.Rewind() {
				fmt.Println("already at the start")
				continue
			}
			printLocation(vm, art)

		case "run", "continue", "c":
			for {
				done, err := vm.Step()
				if err != nil {
					fmt.Printf("halted: %s\n", err.Message())
					break
				}
				if done {
					printVerdict(vm)
					break
				}
			}

		case "reset":
			vm.Reset()
			printLocation(vm, art)

		case "stack":
			printStack("stack", vm.GetStack())

		case "alt", "altstack":
			printStack("altstack", vm.GetAltStack())

		case "ctx", "context":
			printContext(ctx)

		case "disasm", "d":
			idx := vm.ScriptIndex()
			if idx > 2 {
				idx = 2
			}
			for i := 0; i <= idx; i++ {
				if dis, err := vm.DisasmScript(i); err == nil {
					fmt.Print(dis)
				}
			}

		case "source", "src":
			printSource(vm, art)

		case "error", "err":
			if err := vm.Err(); err != nil {
				fmt.Println(err.Message())
			} else {
				fmt.Println("no error")
			}

		default:
			fmt.Printf("unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  step (s)      execute the next opcode (default on empty line)
  rewind (r)    step backwards one opcode
  run (c)       run to completion or error
  reset         restore the initial state
  stack         show the data stack
  alt           show the alt stack
  ctx           show the execution context
  disasm (d)    disassemble the scripts
  source        show the mapped contract source for the current opcode
  error         show the current error, if any
  quit (q)      leave the debugger
`)
}

func printLocation(vm *txscript.Engine, art *artifact.Artifact) {
	dis, err := vm.DisasmPC()
	if err != nil {
		fmt.Printf("[%s] (end of script)\n", vm.Phase())
		return
	}
	fmt.Printf("[%s] next: %s\n", vm.Phase(), dis)

	if art != nil && art.HasSourceMap() && vm.Phase() != txscript.PhaseUnlock {
		if entry, ok := art.SourceAt(vm.OpcodeIndex()); ok {
			fmt.Printf("        %s\n", entry.Statement)
		}
	}
}

func printVerdict(vm *txscript.Engine) {
	if vm.Success() {
		fmt.Println("script finished: OK")
		return
	}
	if err := vm.Err(); err != nil {
		fmt.Printf("script finished: FAIL (%s)\n", err.Message())
		return
	}
	fmt.Println("script finished: FAIL")
}

func printStack(name string, stk [][]byte) {
	if len(stk) == 0 {
		fmt.Printf("%s is empty\n", name)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "bytes", "hex"})
	for i := len(stk) - 1; i >= 0; i-- {
		item := stk[i]
		display := hex.EncodeToString(item)
		if display == "" {
			display = "<empty>"
		}
		t.AppendRow(table.Row{len(stk) - 1 - i, len(item), display})
	}
	t.Render()
}

func printContext(ctx *txscript.ExecutionContext) {
	if ctx == nil {
		fmt.Println("no execution context (bare script run)")
		return
	}

	tx := ctx.Tx()
	fmt.Printf("txid:     %s\n", tx.TxID())
	fmt.Printf("version:  %d\n", ctx.TxVersion())
	fmt.Printf("locktime: %d\n", ctx.LockTime())
	fmt.Printf("input:    %d of %d\n", ctx.InputIndex(), ctx.InputCount())

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"side", "#", "value", "script bytes", "refs"})
	for i := 0; i < ctx.InputCount(); i++ {
		summary := ctx.InputPushRefSummary(i)
		t.AppendRow(table.Row{"in", i, ctx.UtxoValue(i),
			len(ctx.UtxoBytecode(i)), len(summary.PushRefs)})
	}
	for i := 0; i < ctx.OutputCount(); i++ {
		summary := ctx.OutputPushRefSummary(i)
		t.AppendRow(table.Row{"out", i, ctx.OutputValue(i),
			len(ctx.OutputBytecode(i)), len(summary.PushRefs)})
	}
	t.Render()
}

func printSource(vm *txscript.Engine, art *artifact.Artifact) {
	if art == nil || !art.HasSourceMap() {
		fmt.Println("no artifact with a source map loaded")
		return
	}
	entry, ok := art.SourceAt(vm.OpcodeIndex())
	if !ok {
		fmt.Println("no source mapping for the current opcode")
		return
	}
	fmt.Printf("opcode %d -> [%d:%d] %s\n", vm.OpcodeIndex(), entry.Range.Start,
		entry.Range.End, entry.Statement)
}
