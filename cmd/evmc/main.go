// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Command evmc compiles the source language to bytecode and runs it on the
// stack-based virtual machine.
//
// Usage:
//
//	evmc compile [-o <output>] <source.evm>
//	evmc run [-value <n>] [-verbose] <source.evm|hex-bytecode>
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/abbychau/abbyEVM/internal/lang/codegen"
	"github.com/abbychau/abbyEVM/internal/lang/vm"
)

var log = log15.New("module", "evmc")

func main() {
	app := cli.NewApp()
	app.Name = "evmc"
	app.Usage = "compile and run the scripting language's bytecode"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		compileCommand,
		runCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var compileCommand = cli.Command{
	Name:      "compile",
	Usage:     "compile a source file to bytecode",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "o", Usage: "write hex bytecode to this file instead of stdout"},
	},
	Action: runCompile,
}

var runCommand = cli.Command{
	Name:      "run",
	Usage:     "compile (if source) and execute, printing status/gas/return data",
	ArgsUsage: "<file-or-hex>",
	Flags: []cli.Flag{
		cli.Uint64Flag{Name: "value", Usage: "wei-equivalent value attached to the call"},
		cli.BoolFlag{Name: "verbose", Usage: "trace each executed instruction"},
	},
	Action: runRun,
}

func runCompile(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("usage: evmc compile <file>", 1)
	}
	source, err := os.ReadFile(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	bc, err := codegen.Compile(string(source))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("compile error: %v", err), 1)
	}
	if errs := codegen.Verify(bc); len(errs) != 0 {
		for _, e := range errs {
			log.Warn("verify", "offset", e.Offset, "msg", e.Message)
		}
	}

	encoded := hex.EncodeToString(bc)
	if out := c.String("o"); out != "" {
		return os.WriteFile(out, []byte(encoded+"\n"), 0o644)
	}
	fmt.Println(encoded)
	return nil
}

func runRun(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("usage: evmc run <file-or-hex>", 1)
	}
	arg := c.Args().Get(0)

	bc, err := resolveBytecode(arg)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	runID := uuid.New()
	log.Debug("executing", "run", runID.String(), "bytes", len(bc))

	res, err := vm.Execute(context.Background(), bc, c.Uint64("value"), c.Bool("verbose"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	printResult(res)
	if res.Status != vm.StatusSuccess {
		os.Exit(1)
	}
	return nil
}

// resolveBytecode treats arg as hex bytecode if it parses as such; otherwise
// it is a source file path to compile first.
func resolveBytecode(arg string) ([]byte, error) {
	if bc, err := hex.DecodeString(strings.TrimPrefix(arg, "0x")); err == nil && len(bc) > 0 {
		return bc, nil
	}
	source, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("not valid hex and not a readable file: %w", err)
	}
	return codegen.Compile(string(source))
}

func printResult(res *vm.ExecutionResult) {
	var statusColor func(format string, a ...interface{}) string
	switch res.Status {
	case vm.StatusSuccess:
		statusColor = color.GreenString
	case vm.StatusRevert:
		statusColor = color.YellowString
	default:
		statusColor = color.RedString
	}

	fmt.Println(statusColor("status:  %s", res.Status))
	fmt.Printf("gas:     used=%d remaining=%d\n", res.GasUsed, res.GasRemaining)
	fmt.Printf("return:  0x%s\n", hex.EncodeToString(res.ReturnData))
	if res.Err != nil {
		fmt.Printf("error:   %v\n", res.Err)
	}
	for i, l := range res.Logs {
		topics := make([]string, len(l.Topics))
		for j, tpc := range l.Topics {
			topics[j] = tpc.String()
		}
		fmt.Printf("log[%d]:  topics=[%s] data=0x%s\n", i, strings.Join(topics, ","), hex.EncodeToString(l.Data))
	}
}
