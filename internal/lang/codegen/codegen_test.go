// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package codegen

import (
	"bytes"
	"testing"

	"github.com/abbychau/abbyEVM/internal/lang/vm"
)

func mustCompileExpr(t *testing.T, src string) []byte {
	t.Helper()
	bc, err := CompileExpression(src)
	if err != nil {
		t.Fatalf("CompileExpression(%q): %v", src, err)
	}
	return bc
}

func TestSimpleLiteral(t *testing.T) {
	bc := mustCompileExpr(t, "42")
	want := []byte{0x60, 42}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestSimpleAddition(t *testing.T) {
	bc := mustCompileExpr(t, "1 + 2")
	want := []byte{0x60, 1, 0x60, 2, byte(vm.OpAdd)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	bc := mustCompileExpr(t, "1 + 2 * 3")
	want := []byte{0x60, 1, 0x60, 2, 0x60, 3, byte(vm.OpMul), byte(vm.OpAdd)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestSubtractionPushesLeftThenRight(t *testing.T) {
	// Left then right are pushed in source order; SUB treats the item on
	// top (the right operand) as the minuend, so "5 - 2" pushes 5 then 2
	// and the interpreter computes 2 - 5 (see TestSubtractionPopOrder in
	// vm_test.go).
	bc := mustCompileExpr(t, "5 - 2")
	want := []byte{0x60, 5, 0x60, 2, byte(vm.OpSub)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestComparisonDerivedOperators(t *testing.T) {
	cases := map[string][]byte{
		"1 != 2": {0x60, 1, 0x60, 2, byte(vm.OpEq), byte(vm.OpIsZero)},
		"1 >= 2": {0x60, 1, 0x60, 2, byte(vm.OpLT), byte(vm.OpIsZero)},
		"1 <= 2": {0x60, 1, 0x60, 2, byte(vm.OpGT), byte(vm.OpIsZero)},
	}
	for src, want := range cases {
		bc := mustCompileExpr(t, src)
		if !bytes.Equal(bc, want) {
			t.Errorf("%s: got % x, want % x", src, bc, want)
		}
	}
}

func TestLogicalAndOrAppendGtZero(t *testing.T) {
	bc := mustCompileExpr(t, "1 && 2")
	want := []byte{0x60, 1, 0x60, 2, byte(vm.OpAnd), 0x60, 0, byte(vm.OpGT)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestUnaryNegation(t *testing.T) {
	bc := mustCompileExpr(t, "-5")
	want := []byte{0x60, 5, 0x60, 0, byte(vm.OpSub)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestUnaryNot(t *testing.T) {
	bc := mustCompileExpr(t, "!0")
	want := []byte{0x60, 0, byte(vm.OpIsZero)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestKeccak256IgnoresItsArgument(t *testing.T) {
	bc := mustCompileExpr(t, "keccak256(123)")
	want := []byte{0x60, 32, 0x60, 0, byte(vm.OpSHA3)}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestUnknownFunctionIsCompileError(t *testing.T) {
	_, err := CompileExpression("doesNotExist(1)")
	if err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestMemberAccessOutsideCallIsError(t *testing.T) {
	_, err := CompileExpression("console.log")
	if err == nil {
		t.Fatal("expected a compile error for bare member access")
	}
}

func TestProgramAppendsTrailingStop(t *testing.T) {
	bc, err := Compile("let x = 1;")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(bc) == 0 || bc[len(bc)-1] != byte(vm.OpStop) {
		t.Errorf("expected trailing STOP, got % x", bc)
	}
}

// TestReturnLoweringStoresActualValue pins down the corrected RETURN/MSTORE
// lowering: the returned word is written to memory[0:32] and the RETURN
// opcode is given exactly that 32-byte window, unlike the reference
// compiler's own return lowering (which leaves a spare stack word MSTORE
// never consumes and stores the wrong operand).
func TestReturnLoweringStoresActualValue(t *testing.T) {
	bc, err := Compile("return 7;")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []byte{
		0x60, 7, // PUSH1 7
		0x60, 0, // PUSH1 0   (offset)
		byte(vm.OpMStore),
		0x60, 32, // PUSH1 32  (size)
		0x60, 0, // PUSH1 0   (offset)
		byte(vm.OpReturn),
		byte(vm.OpStop), // trailing STOP appended by Compile
	}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestReturnWithoutValueReturnsZero(t *testing.T) {
	bc, err := Compile("return;")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []byte{
		0x60, 0,
		0x60, 0,
		byte(vm.OpMStore),
		0x60, 32,
		0x60, 0,
		byte(vm.OpReturn),
		byte(vm.OpStop),
	}
	if !bytes.Equal(bc, want) {
		t.Errorf("got % x, want % x", bc, want)
	}
}

func TestIfStmtEmitsValidJumpdests(t *testing.T) {
	bc, err := Compile("if (1) { let x = 1; } else { let y = 2; }")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if errs := Verify(bc); len(errs) != 0 {
		t.Fatalf("Verify found issues: %v", errs)
	}
}

func TestWhileLoopEmitsValidJumpdests(t *testing.T) {
	bc, err := Compile("let i = 0; while (i) { i = 0; }")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if errs := Verify(bc); len(errs) != 0 {
		t.Fatalf("Verify found issues: %v", errs)
	}
}

func TestUndefinedVariableIsCompileError(t *testing.T) {
	_, err := Compile("x = 1;")
	if err == nil {
		t.Fatal("expected undefined variable error")
	}
}

func TestStorageGetSetRoundTripsThroughBytecode(t *testing.T) {
	bc, err := Compile("storage.set(1, 2);")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if errs := Verify(bc); len(errs) != 0 {
		t.Fatalf("Verify found issues: %v", errs)
	}
}

func TestConsoleLogWithNoArgsCompiles(t *testing.T) {
	bc, err := Compile(`console.log();`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if errs := Verify(bc); len(errs) != 0 {
		t.Fatalf("Verify found issues: %v", errs)
	}
}

func TestConsoleLogWithStringAndValueCompiles(t *testing.T) {
	bc, err := Compile(`console.log("count", 5);`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if errs := Verify(bc); len(errs) != 0 {
		t.Fatalf("Verify found issues: %v", errs)
	}
}
