// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package parser

import (
	"testing"

	"github.com/abbychau/abbyEVM/internal/lang/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse("test.ev", src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func wantParseError(t *testing.T, src string) error {
	t.Helper()
	_, err := Parse("test.ev", src)
	if err == nil {
		t.Fatalf("expected parse error for %q, got nil", src)
	}
	return err
}

func TestVarDecl(t *testing.T) {
	prog := mustParse(t, "let x = 1 + 2;")
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.VarDecl", prog.Statements[0])
	}
	if decl.Const || decl.Name != "x" {
		t.Errorf("got Const=%v Name=%q", decl.Const, decl.Name)
	}
	if _, ok := decl.Value.(*ast.BinaryExpr); !ok {
		t.Errorf("got value type %T, want *ast.BinaryExpr", decl.Value)
	}
}

func TestConstDecl(t *testing.T) {
	prog := mustParse(t, "const y = 42;")
	decl := prog.Statements[0].(*ast.VarDecl)
	if !decl.Const {
		t.Error("expected Const=true")
	}
}

func TestFuncDecl(t *testing.T) {
	prog := mustParse(t, "function add(a, b) { return a + b; }")
	decl, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.FuncDecl", prog.Statements[0])
	}
	if decl.Name != "add" {
		t.Errorf("got name %q, want add", decl.Name)
	}
	if len(decl.Params) != 2 || decl.Params[0] != "a" || decl.Params[1] != "b" {
		t.Errorf("got params %v, want [a b]", decl.Params)
	}
	if len(decl.Body.Statements) != 1 {
		t.Fatalf("got %d body statements, want 1", len(decl.Body.Statements))
	}
}

func TestFuncDeclNoParams(t *testing.T) {
	prog := mustParse(t, "function f() { return; }")
	decl := prog.Statements[0].(*ast.FuncDecl)
	if len(decl.Params) != 0 {
		t.Errorf("got %d params, want 0", len(decl.Params))
	}
	ret := decl.Body.Statements[0].(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Errorf("expected nil return value, got %v", ret.Value)
	}
}

func TestIfElse(t *testing.T) {
	prog := mustParse(t, "if (1 < 2) { return 1; } else { return 0; }")
	stmt, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", prog.Statements[0])
	}
	if stmt.Else == nil {
		t.Error("expected non-nil Else branch")
	}
}

func TestIfWithoutElse(t *testing.T) {
	prog := mustParse(t, "if (1) { return 1; }")
	stmt := prog.Statements[0].(*ast.IfStmt)
	if stmt.Else != nil {
		t.Error("expected nil Else branch")
	}
}

func TestWhileLoop(t *testing.T) {
	prog := mustParse(t, "while (x < 10) { x = x + 1; }")
	stmt, ok := prog.Statements[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.WhileStmt", prog.Statements[0])
	}
	if _, ok := stmt.Body.(*ast.Block); !ok {
		t.Errorf("got body type %T, want *ast.Block", stmt.Body)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, "1 + 2 * 3;")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin, ok := stmt.Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.BinaryExpr", stmt.Expr)
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("got top-level op %s, want +", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != ast.OpMul {
		t.Fatalf("got right operand %#v, want a * BinaryExpr", bin.Right)
	}
}

func TestComparisonAndLogical(t *testing.T) {
	prog := mustParse(t, "a == b && c != d;")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	top, ok := stmt.Expr.(*ast.BinaryExpr)
	if !ok || top.Op != ast.OpAnd {
		t.Fatalf("got top op %#v, want &&", stmt.Expr)
	}
	left := top.Left.(*ast.BinaryExpr)
	right := top.Right.(*ast.BinaryExpr)
	if left.Op != ast.OpEq || right.Op != ast.OpNeq {
		t.Errorf("got left=%s right=%s, want ==,!=", left.Op, right.Op)
	}
}

func TestUnaryOperators(t *testing.T) {
	prog := mustParse(t, "-x; !y;")
	neg := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.UnaryExpr)
	not := prog.Statements[1].(*ast.ExprStmt).Expr.(*ast.UnaryExpr)
	if neg.Op != ast.OpNeg || not.Op != ast.OpNot {
		t.Errorf("got neg.Op=%s not.Op=%s", neg.Op, not.Op)
	}
}

func TestCallExpr(t *testing.T) {
	prog := mustParse(t, "keccak256(x);")
	call, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CallExpr", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	if len(call.Args) != 1 {
		t.Errorf("got %d args, want 1", len(call.Args))
	}
	callee, ok := call.Callee.(*ast.Variable)
	if !ok || callee.Name != "keccak256" {
		t.Errorf("got callee %#v, want Variable(keccak256)", call.Callee)
	}
}

func TestConsoleLogRemainsPlainCall(t *testing.T) {
	prog := mustParse(t, `console.log(1, "hi");`)
	call, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("got %T, want *ast.CallExpr", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	member, ok := call.Callee.(*ast.MemberAccess)
	if !ok || member.Property != "log" {
		t.Fatalf("got callee %#v, want MemberAccess(console, log)", call.Callee)
	}
	if len(call.Args) != 2 {
		t.Errorf("got %d args, want 2", len(call.Args))
	}
}

func TestAssignmentPlainVariable(t *testing.T) {
	prog := mustParse(t, "x = 5;")
	assign, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("got %T, want *ast.Assignment", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	if assign.Name != "x" {
		t.Errorf("got name %q, want x", assign.Name)
	}
}

func TestBareMemoryAssignment(t *testing.T) {
	prog := mustParse(t, "memory = 7;")
	_, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.MemoryAssignment)
	if !ok {
		t.Fatalf("got %T, want *ast.MemoryAssignment", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
}

func TestBareStorageAssignmentIsError(t *testing.T) {
	wantParseError(t, "storage = 7;")
}

func TestStorageArrayAssignment(t *testing.T) {
	prog := mustParse(t, "storage[0] = 1;")
	assign, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.StorageArrayAssignment)
	if !ok {
		t.Fatalf("got %T, want *ast.StorageArrayAssignment", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	lit, ok := assign.Index.(*ast.Literal)
	if !ok || lit.Number != 0 {
		t.Errorf("got index %#v, want Literal(0)", assign.Index)
	}
}

func TestMemoryArrayAssignment(t *testing.T) {
	prog := mustParse(t, "memory[0] = 1;")
	access, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.MemoryAccess)
	if !ok {
		t.Fatalf("got %T, want *ast.MemoryAccess", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	if access.Kind != ast.MemoryStore {
		t.Error("expected Kind == MemoryStore")
	}
}

func TestStorageGetSet(t *testing.T) {
	prog := mustParse(t, "storage.get(0); storage.set(0, 1);")
	get, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.StorageAccess)
	if !ok || get.Kind != ast.StorageGet {
		t.Fatalf("got %#v, want StorageAccess(Get)", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	set, ok := prog.Statements[1].(*ast.ExprStmt).Expr.(*ast.StorageAccess)
	if !ok || set.Kind != ast.StorageSet {
		t.Fatalf("got %#v, want StorageAccess(Set)", prog.Statements[1].(*ast.ExprStmt).Expr)
	}
}

func TestMemoryLoadStore(t *testing.T) {
	prog := mustParse(t, "memory.load(0); memory.store(0, 1);")
	load, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.MemoryAccess)
	if !ok || load.Kind != ast.MemoryLoad {
		t.Fatalf("got %#v, want MemoryAccess(Load)", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	store, ok := prog.Statements[1].(*ast.ExprStmt).Expr.(*ast.MemoryAccess)
	if !ok || store.Kind != ast.MemoryStore {
		t.Fatalf("got %#v, want MemoryAccess(Store)", prog.Statements[1].(*ast.ExprStmt).Expr)
	}
}

func TestUnknownStorageMethodIsError(t *testing.T) {
	wantParseError(t, "storage.frob(0);")
}

func TestUnknownMemoryMethodIsError(t *testing.T) {
	wantParseError(t, "memory.frob(0);")
}

func TestStorageGetWrongArityIsError(t *testing.T) {
	wantParseError(t, "storage.get(0, 1);")
}

func TestArrayAccessRead(t *testing.T) {
	prog := mustParse(t, "storage[0];")
	access, ok := prog.Statements[0].(*ast.ExprStmt).Expr.(*ast.ArrayAccess)
	if !ok {
		t.Fatalf("got %T, want *ast.ArrayAccess", prog.Statements[0].(*ast.ExprStmt).Expr)
	}
	obj, ok := access.Object.(*ast.Variable)
	if !ok || obj.Name != "storage" {
		t.Errorf("got object %#v, want Variable(storage)", access.Object)
	}
}

func TestArrayLiteral(t *testing.T) {
	prog := mustParse(t, "let a = [1, 2, 3];")
	decl := prog.Statements[0].(*ast.VarDecl)
	lit, ok := decl.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LitArray || len(lit.Array) != 3 {
		t.Fatalf("got %#v, want 3-element array literal", decl.Value)
	}
}

func TestStringLiteral(t *testing.T) {
	prog := mustParse(t, `let s = "hi";`)
	decl := prog.Statements[0].(*ast.VarDecl)
	lit, ok := decl.Value.(*ast.Literal)
	if !ok || lit.Kind != ast.LitString || lit.Str != "hi" {
		t.Fatalf("got %#v, want string literal \"hi\"", decl.Value)
	}
}

func TestBooleanLiterals(t *testing.T) {
	prog := mustParse(t, "let a = true; let b = false;")
	a := prog.Statements[0].(*ast.VarDecl).Value.(*ast.Literal)
	b := prog.Statements[1].(*ast.VarDecl).Value.(*ast.Literal)
	if !a.Boolean || b.Boolean {
		t.Errorf("got a=%v b=%v, want true/false", a.Boolean, b.Boolean)
	}
}

func TestParenthesizedExpr(t *testing.T) {
	prog := mustParse(t, "(1 + 2) * 3;")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	bin := stmt.Expr.(*ast.BinaryExpr)
	if bin.Op != ast.OpMul {
		t.Fatalf("got top op %s, want *", bin.Op)
	}
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Errorf("got left %#v, want parenthesized BinaryExpr", bin.Left)
	}
}

func TestMissingSemicolonIsError(t *testing.T) {
	wantParseError(t, "let x = 1")
}

func TestMissingClosingParenIsError(t *testing.T) {
	wantParseError(t, "if (1 { return 1; }")
}

func TestInvalidAssignmentTargetIsError(t *testing.T) {
	wantParseError(t, "1 = 2;")
}

func TestUnterminatedBlockIsError(t *testing.T) {
	wantParseError(t, "function f() { return 1;")
}

func TestParseExpressionEntryPoint(t *testing.T) {
	expr, err := ParseExpression("expr.ev", "1 + 2 * 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bin, ok := expr.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("got %#v, want top-level +", expr)
	}
}

func TestAbortsOnFirstErrorNoPartialProgram(t *testing.T) {
	prog, err := Parse("test.ev", "let x = 1; let y = ;")
	if err == nil {
		t.Fatal("expected error")
	}
	if prog != nil {
		t.Errorf("expected nil program on error, got %#v", prog)
	}
}
