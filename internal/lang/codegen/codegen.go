// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// Package codegen lowers the evmc AST directly to stack-machine bytecode:
// one visit per node, no intermediate SSA form. Variables live in SSTORE
// slots (there is no register allocator), control flow lowers to
// PUSH2-address JUMP/JUMPI pairs patched in a fix-up pass once every label
// has a known address, and `memory`/`storage` get their own dedicated
// lowering paths alongside plain arithmetic.
package codegen

import (
	"encoding/binary"
	"fmt"

	"github.com/abbychau/abbyEVM/internal/lang/ast"
	"github.com/abbychau/abbyEVM/internal/lang/parser"
	"github.com/abbychau/abbyEVM/internal/lang/vm"
)

// startMemoryPointer is where implicit memory allocation begins; low
// addresses are left free the way the EVM convention reserves 0x00-0x3f
// for scratch space and 0x40 for the free memory pointer.
const startMemoryPointer = 0x80

// CompileError reports a failure to lower a well-formed AST to bytecode:
// an undefined variable, an unknown callee, or an unresolved jump label.
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return "codegen: " + e.Message }

type pendingJump struct {
	pushOpcodePos int
	dataStartPos  int
	label         string
}

// Generator lowers a parsed program to bytecode. It is single-use: create
// one per compilation with New.
type Generator struct {
	code []byte

	variables   map[string]uint16
	nextVarSlot uint16

	functions map[string]uint16

	jumpLabels  map[string]uint16
	nextLabelID uint32

	memoryPointer uint16
	pendingJumps  []pendingJump
}

// New returns a Generator ready to lower a single program or expression.
func New() *Generator {
	return &Generator{
		variables:     make(map[string]uint16),
		functions:     make(map[string]uint16),
		jumpLabels:    make(map[string]uint16),
		memoryPointer: startMemoryPointer,
	}
}

// Compile parses source as a full program and lowers it to bytecode,
// appending a trailing STOP if the program didn't already end in one.
func Compile(source string) ([]byte, error) {
	prog, err := parser.Parse("<input>", source)
	if err != nil {
		return nil, err
	}
	g := New()
	return g.Generate(prog)
}

// CompileExpression parses source as a single expression and lowers it in
// isolation, with no trailing STOP appended. Used by callers (and tests)
// that want the bytecode for a bare expression rather than a program.
func CompileExpression(source string) ([]byte, error) {
	expr, err := parser.ParseExpression("<input>", source)
	if err != nil {
		return nil, err
	}
	g := New()
	if err := g.visitExpression(expr); err != nil {
		return nil, err
	}
	return g.code, nil
}

// Generate lowers an already-parsed program to bytecode.
func (g *Generator) Generate(prog *ast.Program) ([]byte, error) {
	if err := g.visitProgram(prog); err != nil {
		return nil, err
	}
	if err := g.fixupJumps(); err != nil {
		return nil, err
	}
	if len(g.code) == 0 || g.code[len(g.code)-1] != byte(vm.OpStop) {
		g.emitOpcode(vm.OpStop)
	}
	return g.code, nil
}

func (g *Generator) fixupJumps() error {
	for _, j := range g.pendingJumps {
		addr, ok := g.jumpLabels[j.label]
		if !ok {
			return &CompileError{Message: fmt.Sprintf("undefined jump label: %s", j.label)}
		}
		g.code[j.pushOpcodePos] = byte(vm.OpPush1) + 1 // PUSH2
		g.code[j.dataStartPos] = byte(addr >> 8)
		g.code[j.dataStartPos+1] = byte(addr)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (g *Generator) visitProgram(prog *ast.Program) error {
	// Pre-register function addresses the way the reference compiler does,
	// before any code has been emitted. Nothing in this language can call a
	// user function (there is no invocation syntax for it), so `functions`
	// is consulted by nothing downstream; it exists for structural parity
	// with a future CALL-based extension.
	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FuncDecl); ok {
			g.functions[fn.Name] = uint16(len(g.code))
		}
	}
	for _, stmt := range prog.Statements {
		if err := g.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return g.visitVarDecl(s)
	case *ast.FuncDecl:
		return g.visitFuncDecl(s)
	case *ast.ExprStmt:
		if err := g.visitExpression(s.Expr); err != nil {
			return err
		}
		g.emitOpcode(vm.OpPop)
		return nil
	case *ast.IfStmt:
		return g.visitIfStmt(s)
	case *ast.WhileStmt:
		return g.visitWhileStmt(s)
	case *ast.ReturnStmt:
		return g.visitReturnStmt(s)
	case *ast.Block:
		return g.visitBlock(s)
	default:
		return &CompileError{Message: fmt.Sprintf("unhandled statement type %T", stmt)}
	}
}

func (g *Generator) visitVarDecl(v *ast.VarDecl) error {
	if err := g.visitExpression(v.Value); err != nil {
		return err
	}
	slot := g.nextVarSlot
	g.variables[v.Name] = slot
	g.nextVarSlot++

	g.emitOpcode(vm.OpDup1)
	g.emitPushUint64(uint64(slot))
	g.emitOpcode(vm.OpSStore)
	return nil
}

func (g *Generator) visitFuncDecl(fn *ast.FuncDecl) error {
	savedVars := g.variables
	savedSlot := g.nextVarSlot
	g.variables = make(map[string]uint16, len(savedVars))
	for k, v := range savedVars {
		g.variables[k] = v
	}
	for i, p := range fn.Params {
		g.variables[p] = uint16(i)
	}

	if err := g.visitBlock(fn.Body); err != nil {
		return err
	}
	// Implicit `return 0` if the body fell through without an explicit
	// return. Function bodies are laid out inline in the top-level code, so
	// execution that reaches a declaration runs its body and, when the body
	// does not return, reaches this PUSH 0; RETURN, which takes 0 as the
	// offset and the word beneath it as the size. It is left exactly as bare
	// as the reference compiler leaves it rather than routed through the
	// corrected return-value lowering used by visitReturnStmt.
	g.emitPushUint64(0)
	g.emitOpcode(vm.OpReturn)

	g.variables = savedVars
	g.nextVarSlot = savedSlot
	return nil
}

func (g *Generator) visitIfStmt(s *ast.IfStmt) error {
	if err := g.visitExpression(s.Condition); err != nil {
		return err
	}
	elseLabel := g.generateLabel("else")
	endLabel := g.generateLabel("end_if")

	g.emitOpcode(vm.OpIsZero)
	g.emitJumpIf(elseLabel)

	if err := g.visitStatement(s.Then); err != nil {
		return err
	}
	g.emitJump(endLabel)

	g.placeLabel(elseLabel)
	if s.Else != nil {
		if err := g.visitStatement(s.Else); err != nil {
			return err
		}
	}
	g.placeLabel(endLabel)
	return nil
}

func (g *Generator) visitWhileStmt(s *ast.WhileStmt) error {
	loopStart := g.generateLabel("loop_start")
	loopEnd := g.generateLabel("loop_end")

	g.placeLabel(loopStart)
	if err := g.visitExpression(s.Condition); err != nil {
		return err
	}
	g.emitOpcode(vm.OpIsZero)
	g.emitJumpIf(loopEnd)

	if err := g.visitStatement(s.Body); err != nil {
		return err
	}
	g.emitJump(loopStart)
	g.placeLabel(loopEnd)
	return nil
}

// visitReturnStmt lowers `return [value];`. The reference compiler computes
// the return value, then pushes size and offset in an order that leaves
// MSTORE writing the wrong operand to memory (a spare word is pushed for
// MSTORE and never consumed); this lowering instead writes the value at
// memory[0:32] and returns exactly that word, which is what every other
// memory/storage access path in this package already assumes RETURN does.
func (g *Generator) visitReturnStmt(s *ast.ReturnStmt) error {
	if s.Value != nil {
		if err := g.visitExpression(s.Value); err != nil {
			return err
		}
	} else {
		g.emitPushUint64(0)
	}
	g.emitPushUint64(0) // offset
	g.emitOpcode(vm.OpMStore)

	g.emitPushUint64(32) // size
	g.emitPushUint64(0)  // offset
	g.emitOpcode(vm.OpReturn)
	return nil
}

func (g *Generator) visitBlock(b *ast.Block) error {
	for _, stmt := range b.Statements {
		if err := g.visitStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (g *Generator) visitExpression(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		return g.visitBinaryExpr(e)
	case *ast.UnaryExpr:
		return g.visitUnaryExpr(e)
	case *ast.CallExpr:
		return g.visitCallExpr(e)
	case *ast.Assignment:
		return g.visitAssignment(e)
	case *ast.Variable:
		return g.visitVariable(e)
	case *ast.Literal:
		return g.visitLiteral(e)
	case *ast.MemberAccess:
		return &CompileError{Message: "member access expressions are only supported in function calls"}
	case *ast.StorageAccess:
		return g.visitStorageAccess(e)
	case *ast.MemoryAccess:
		return g.visitMemoryAccess(e)
	case *ast.ArrayAccess:
		return g.visitArrayAccess(e)
	case *ast.MemoryAssignment:
		return g.visitMemoryAssignment(e)
	case *ast.StorageArrayAssignment:
		return g.visitStorageArrayAssignment(e)
	default:
		return &CompileError{Message: fmt.Sprintf("unhandled expression type %T", expr)}
	}
}

func (g *Generator) visitBinaryExpr(e *ast.BinaryExpr) error {
	if err := g.visitExpression(e.Left); err != nil {
		return err
	}
	if err := g.visitExpression(e.Right); err != nil {
		return err
	}
	switch e.Op {
	case ast.OpAdd:
		g.emitOpcode(vm.OpAdd)
	case ast.OpSub:
		g.emitOpcode(vm.OpSub)
	case ast.OpMul:
		g.emitOpcode(vm.OpMul)
	case ast.OpDiv:
		g.emitOpcode(vm.OpDiv)
	case ast.OpMod:
		g.emitOpcode(vm.OpMod)
	case ast.OpEq:
		g.emitOpcode(vm.OpEq)
	case ast.OpNeq:
		g.emitOpcode(vm.OpEq)
		g.emitOpcode(vm.OpIsZero)
	case ast.OpGt:
		g.emitOpcode(vm.OpGT)
	case ast.OpGte:
		g.emitOpcode(vm.OpLT)
		g.emitOpcode(vm.OpIsZero)
	case ast.OpLt:
		g.emitOpcode(vm.OpLT)
	case ast.OpLte:
		g.emitOpcode(vm.OpGT)
		g.emitOpcode(vm.OpIsZero)
	case ast.OpAnd:
		g.emitOpcode(vm.OpAnd)
		g.emitPushUint64(0)
		g.emitOpcode(vm.OpGT)
	case ast.OpOr:
		g.emitOpcode(vm.OpOr)
		g.emitPushUint64(0)
		g.emitOpcode(vm.OpGT)
	default:
		return &CompileError{Message: fmt.Sprintf("unknown binary operator %v", e.Op)}
	}
	return nil
}

func (g *Generator) visitUnaryExpr(e *ast.UnaryExpr) error {
	if err := g.visitExpression(e.Operand); err != nil {
		return err
	}
	switch e.Op {
	case ast.OpNeg:
		// Negate by subtracting the operand from zero. SUB pops (top,
		// second) as (minuend, subtrahend); pushing zero on top of the
		// already-evaluated operand computes 0 - operand directly.
		g.emitPushUint64(0)
		g.emitOpcode(vm.OpSub)
	case ast.OpNot:
		g.emitOpcode(vm.OpIsZero)
	default:
		return &CompileError{Message: fmt.Sprintf("unknown unary operator %v", e.Op)}
	}
	return nil
}

func (g *Generator) visitCallExpr(call *ast.CallExpr) error {
	switch callee := call.Callee.(type) {
	case *ast.Variable:
		switch callee.Name {
		case "keccak256":
			if len(call.Args) != 1 {
				return &CompileError{Message: "keccak256 expects exactly 1 argument"}
			}
			return g.emitKeccak256(call.Args[0])
		case "println":
			return &CompileError{Message: "println is not a function in this language; use console.log, console.warn, or console.error"}
		default:
			return &CompileError{Message: fmt.Sprintf("unknown function: %s", callee.Name)}
		}
	case *ast.MemberAccess:
		obj, ok := callee.Object.(*ast.Variable)
		if !ok {
			return &CompileError{Message: "complex member access is not supported"}
		}
		if obj.Name != "console" {
			return &CompileError{Message: fmt.Sprintf("member access not supported for object: %s", obj.Name)}
		}
		switch callee.Property {
		case "log", "warn", "error":
			return g.visitConsoleCall(callee.Property, call.Args)
		default:
			return &CompileError{Message: fmt.Sprintf("unknown console method: %s", callee.Property)}
		}
	default:
		return &CompileError{Message: "complex function calls are not supported"}
	}
}

// emitKeccak256 hashes a fixed 32-byte scratch word rather than the
// argument's actual value: the reference compiler never wired dynamic
// input into SHA3 ("for simplicity, we'll just hash a constant for now"),
// and this lowering keeps that limitation rather than inventing input
// semantics the language never specifies. The argument expression is not
// evaluated at all, matching the reference compiler exactly.
func (g *Generator) emitKeccak256(arg ast.Expression) error {
	g.emitPushUint64(32) // size
	g.emitPushUint64(0)  // offset
	g.emitOpcode(vm.OpSHA3)
	return nil
}

// visitConsoleCall lowers console.log/warn/error to a LOG0/LOG1 emitting the
// rendered message from memory. Message rendering supports the shapes the
// language actually exercises: no arguments, a single value, or a leading
// string literal followed by one numeric value (rendered as a single ASCII
// digit, matching the reference compiler's own simplification for
// %d-style interpolation). Additional arguments beyond the first two are
// ignored, as in the reference compiler.
func (g *Generator) visitConsoleCall(method string, args []ast.Expression) error {
	// LOG1 pops offset, size, then its topic, so the topic goes on the stack
	// before the message's [size, offset] pair.
	switch method {
	case "warn":
		g.emitPushUint64(1) // warning topic
	case "error":
		g.emitPushUint64(2) // error topic
	}

	switch {
	case len(args) == 0:
		g.emitPushUint64(0) // size
		g.emitPushUint64(uint64(g.memoryPointer))
	case len(args) >= 2:
		if err := g.emitStringPlusDigit(args[0], args[1]); err != nil {
			return err
		}
	default:
		if err := g.emitSingleArgMessage(args[0]); err != nil {
			return err
		}
	}

	switch method {
	case "log":
		g.emitOpcode(vm.OpLog0)
	case "warn", "error":
		g.emitOpcode(vm.OpLog1)
	}

	// Dummy return value so the enclosing ExprStmt has something to POP.
	g.emitPushUint64(0)
	return nil
}

// emitSingleArgMessage renders args[0] to memory and leaves [size, offset]
// on the stack (offset on top), ready for a LOG opcode.
func (g *Generator) emitSingleArgMessage(arg ast.Expression) error {
	if lit, ok := arg.(*ast.Literal); ok && lit.Kind == ast.LitString {
		// String literals already lower to exactly [size, offset].
		return g.visitExpression(lit)
	}
	if err := g.visitExpression(arg); err != nil {
		return err
	}
	return g.emitDigitAt(g.memoryPointer)
}

// emitStringPlusDigit renders `"label", value` as the label bytes followed
// by a space and a single ASCII digit for value, leaving [size, offset].
func (g *Generator) emitStringPlusDigit(first, second ast.Expression) error {
	lit, ok := first.(*ast.Literal)
	if !ok || lit.Kind != ast.LitString {
		return g.emitSingleArgMessage(first)
	}
	start := g.memoryPointer
	for _, b := range []byte(lit.Str) {
		g.emitPushUint64(uint64(b))
		g.emitPushUint64(uint64(g.memoryPointer))
		g.emitOpcode(vm.OpMStore8)
		g.memoryPointer++
	}
	g.emitPushUint64(' ')
	g.emitPushUint64(uint64(g.memoryPointer))
	g.emitOpcode(vm.OpMStore8)
	g.memoryPointer++

	if err := g.visitExpression(second); err != nil {
		return err
	}
	g.emitPushUint64('0')
	g.emitOpcode(vm.OpAdd)
	digitOffset := g.memoryPointer
	g.emitPushUint64(uint64(digitOffset))
	g.emitOpcode(vm.OpMStore8)
	g.memoryPointer++

	length := g.memoryPointer - start
	g.emitPushUint64(uint64(length)) // size
	g.emitPushUint64(uint64(start))  // offset
	return nil
}

// emitDigitAt converts the single value already on top of the stack (must
// be in 0-9) to its ASCII digit, stores it at offset, and leaves
// [size=1, offset] on the stack.
func (g *Generator) emitDigitAt(offset uint16) error {
	g.emitPushUint64('0')
	g.emitOpcode(vm.OpAdd)
	g.emitPushUint64(uint64(offset))
	g.emitOpcode(vm.OpMStore8)
	g.memoryPointer++

	g.emitPushUint64(1) // size
	g.emitPushUint64(uint64(offset))
	return nil
}

func (g *Generator) visitAssignment(e *ast.Assignment) error {
	if err := g.visitExpression(e.Value); err != nil {
		return err
	}
	slot, ok := g.variables[e.Name]
	if !ok {
		return &CompileError{Message: fmt.Sprintf("undefined variable: %s", e.Name)}
	}
	g.emitOpcode(vm.OpDup1)
	g.emitPushUint64(uint64(slot))
	g.emitOpcode(vm.OpSStore)
	return nil
}

func (g *Generator) visitVariable(e *ast.Variable) error {
	if e.Name == "memory" {
		readOffset := uint16(0)
		if g.memoryPointer >= 32 {
			readOffset = g.memoryPointer - 32
		}
		g.emitPushUint64(uint64(readOffset))
		g.emitOpcode(vm.OpMLoad)
		return nil
	}
	slot, ok := g.variables[e.Name]
	if !ok {
		return &CompileError{Message: fmt.Sprintf("undefined variable: %s", e.Name)}
	}
	g.emitPushUint64(uint64(slot))
	g.emitOpcode(vm.OpSLoad)
	return nil
}

func (g *Generator) visitLiteral(e *ast.Literal) error {
	switch e.Kind {
	case ast.LitNumber:
		g.emitPushUint64(e.Number)
	case ast.LitBoolean:
		if e.Boolean {
			g.emitPushUint64(1)
		} else {
			g.emitPushUint64(0)
		}
	case ast.LitString:
		offset := g.memoryPointer
		for i, b := range []byte(e.Str) {
			g.emitPushUint64(uint64(b))
			g.emitPushUint64(uint64(offset) + uint64(i))
			g.emitOpcode(vm.OpMStore8)
		}
		g.memoryPointer += uint16(len(e.Str))

		g.emitPushUint64(uint64(len(e.Str))) // size
		g.emitPushUint64(uint64(offset))     // offset
	case ast.LitArray:
		if len(e.Array) == 0 {
			g.emitPushUint64(0)
		} else {
			g.emitPushUint64(uint64(len(e.Array)))
		}
	default:
		return &CompileError{Message: fmt.Sprintf("unknown literal kind %v", e.Kind)}
	}
	return nil
}

func (g *Generator) visitStorageAccess(e *ast.StorageAccess) error {
	switch e.Kind {
	case ast.StorageGet:
		if err := g.visitExpression(e.Key); err != nil {
			return err
		}
		g.emitOpcode(vm.OpSLoad)
	case ast.StorageSet:
		if err := g.visitExpression(e.Value); err != nil {
			return err
		}
		if err := g.visitExpression(e.Key); err != nil {
			return err
		}
		g.emitOpcode(vm.OpSStore)
		// storage.set returns the stored value.
		if err := g.visitExpression(e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitMemoryAccess(e *ast.MemoryAccess) error {
	switch e.Kind {
	case ast.MemoryLoad:
		if err := g.visitExpression(e.Offset); err != nil {
			return err
		}
		g.emitOpcode(vm.OpMLoad)
	case ast.MemoryStore:
		if err := g.visitExpression(e.Value); err != nil {
			return err
		}
		if err := g.visitExpression(e.Offset); err != nil {
			return err
		}
		g.emitOpcode(vm.OpMStore)
		// memory.store returns the stored value.
		if err := g.visitExpression(e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) visitArrayAccess(e *ast.ArrayAccess) error {
	obj, ok := e.Object.(*ast.Variable)
	if !ok {
		return &CompileError{Message: "complex array access is not supported"}
	}
	switch obj.Name {
	case "storage":
		if err := g.visitExpression(e.Index); err != nil {
			return err
		}
		g.emitOpcode(vm.OpSLoad)
	case "memory":
		if err := g.visitExpression(e.Index); err != nil {
			return err
		}
		g.emitOpcode(vm.OpMLoad)
	default:
		return &CompileError{Message: fmt.Sprintf("array access not supported for '%s'", obj.Name)}
	}
	return nil
}

func (g *Generator) visitMemoryAssignment(e *ast.MemoryAssignment) error {
	if err := g.visitExpression(e.Value); err != nil {
		return err
	}
	g.emitOpcode(vm.OpDup1)
	g.emitPushUint64(uint64(g.memoryPointer))
	g.emitOpcode(vm.OpMStore)
	g.memoryPointer += 32
	return nil
}

func (g *Generator) visitStorageArrayAssignment(e *ast.StorageArrayAssignment) error {
	if err := g.visitExpression(e.Value); err != nil {
		return err
	}
	if err := g.visitExpression(e.Index); err != nil {
		return err
	}
	g.emitOpcode(vm.OpSStore)
	if err := g.visitExpression(e.Value); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Emission helpers
// ---------------------------------------------------------------------------

func (g *Generator) emitOpcode(op vm.Opcode) {
	g.code = append(g.code, byte(op))
}

// emitPush appends the smallest PUSHn instruction that can carry b verbatim;
// b must be 1-32 bytes. Anything wider than 4 bytes is emitted as a
// zero-padded PUSH32, matching the reference compiler's own width table
// instead of always picking the tightest encoding.
func (g *Generator) emitPush(b []byte) {
	size := len(b)
	if size <= 4 {
		g.code = append(g.code, byte(vm.OpPush1)+byte(size-1))
		g.code = append(g.code, b...)
		return
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	g.code = append(g.code, byte(vm.OpPush32))
	g.code = append(g.code, padded...)
}

func (g *Generator) emitPushUint64(v uint64) {
	g.emitPush(minimalBytes(v))
}

func minimalBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for i < 7 && buf[i] == 0 {
		i++
	}
	return buf[i:]
}

func (g *Generator) generateLabel(prefix string) string {
	label := fmt.Sprintf("%s_%d", prefix, g.nextLabelID)
	g.nextLabelID++
	return label
}

func (g *Generator) placeLabel(label string) {
	g.jumpLabels[label] = uint16(len(g.code))
	g.emitOpcode(vm.OpJumpDest)
}

func (g *Generator) emitJump(label string) {
	g.reserveJump(label)
	g.emitOpcode(vm.OpJump)
}

func (g *Generator) emitJumpIf(label string) {
	g.reserveJump(label)
	g.emitOpcode(vm.OpJumpI)
}

// reserveJump appends a 3-byte placeholder (PUSH2 + 2 address bytes) and
// records it for fixupJumps to patch once every label has a known address.
func (g *Generator) reserveJump(label string) {
	pushPos := len(g.code)
	dataStart := pushPos + 1
	g.pendingJumps = append(g.pendingJumps, pendingJump{
		pushOpcodePos: pushPos,
		dataStartPos:  dataStart,
		label:         label,
	})
	g.code = append(g.code, 0x00, 0x00, 0x00)
}
