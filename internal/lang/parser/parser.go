// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package parser implements a recursive-descent / Pratt parser for the
// evmc scripting language.
//
// Design overview:
//
//   - Declarations and statements are parsed with straightforward recursive
//     descent.
//   - Expressions are parsed with precedence-climbing over a small fixed
//     ladder of binary operators.
//   - Unlike a REPL-facing parser, this one fails fast: the first grammar
//     violation aborts with a single ParseError and no partial AST.
package parser

import (
	"fmt"
	"strconv"

	"github.com/abbychau/abbyEVM/internal/lang/ast"
	"github.com/abbychau/abbyEVM/internal/lang/lexer"
	"github.com/abbychau/abbyEVM/internal/lang/token"
)

// ParseError reports a grammar violation with its source position.
type ParseError struct {
	Message string
	Line    int
	Col     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Message)
}

// Parser holds the mutable state for a single, one-shot parse run.
type Parser struct {
	lex  *lexer.Lexer
	cur  token.Token
	peek token.Token
}

// New primes a Parser over source, reading the first two tokens.
func New(filename, source string) (*Parser, error) {
	p := &Parser{lex: lexer.New(filename, source)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// advance shifts peek into cur and reads a new peek token.
func (p *Parser) advance() error {
	p.cur = p.peek
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek = tok
	return nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Line: p.cur.Pos.Line, Col: p.cur.Pos.Column}
}

func (p *Parser) expect(typ token.Type) (token.Token, error) {
	if p.cur.Type != typ {
		return token.Token{}, p.errorf("expected %s, got %s %q", typ, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// Parse parses an entire program: program := declaration* .
func Parse(filename, source string) (*ast.Program, error) {
	p, err := New(filename, source)
	if err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for p.cur.Type != token.EOF {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// ParseExpression parses a single expression, used by CompileExpression.
func ParseExpression(filename, source string) (ast.Expression, error) {
	p, err := New(filename, source)
	if err != nil {
		return nil, err
	}
	return p.expression()
}

// ---------------------------------------------------------------------------
// Declarations and statements
// ---------------------------------------------------------------------------

// declaration := varDecl | funcDecl | statement
func (p *Parser) declaration() (ast.Statement, error) {
	switch p.cur.Type {
	case token.LET, token.CONST:
		return p.varDecl()
	case token.FUNCTION:
		return p.funcDecl()
	default:
		return p.statement()
	}
}

// varDecl := ("let"|"const") IDENT ( "[" expr "]" "=" expr | "=" expr ) ";"
//
// The AST has no separate node for the "[" expr "]" "=" expr form: the
// bracketed index is parsed and then discarded, and the declaration becomes
// the same VarDecl (name bound to the initializer) as the plain form.
func (p *Parser) varDecl() (ast.Statement, error) {
	tok := p.cur
	isConst := p.cur.Type == token.CONST
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.LBRACKET {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expression(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Token: tok, Const: isConst, Name: nameTok.Literal, Value: value}, nil
}

// funcDecl := "function" IDENT "(" (IDENT ("," IDENT)*)? ")" block
func (p *Parser) funcDecl() (ast.Statement, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.cur.Type != token.RPAREN {
		paramTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, paramTok.Literal)
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Token: tok, Name: nameTok.Literal, Params: params, Body: body}, nil
}

// statement := ifStmt | whileStmt | returnStmt | block | exprStmt
func (p *Parser) statement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.RETURN:
		return p.returnStmt()
	case token.LBRACE:
		return p.block()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) block() (*ast.Block, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Token: tok}
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, p.errorf("unterminated block, expected }")
		}
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		b.Statements = append(b.Statements, stmt)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) ifStmt() (ast.Statement, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Token: tok, Condition: cond, Then: then}
	if p.cur.Type == token.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseStmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmt
	}
	return stmt, nil
}

func (p *Parser) whileStmt() (ast.Statement, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}, nil
}

func (p *Parser) returnStmt() (ast.Statement, error) {
	tok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmt := &ast.ReturnStmt{Token: tok}
	if p.cur.Type != token.SEMI {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) exprStmt() (ast.Statement, error) {
	tok := p.cur
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Token: tok, Expr: expr}, nil
}

// ---------------------------------------------------------------------------
// Expressions (precedence-climbing, low to high)
// ---------------------------------------------------------------------------

// expr := assignment
func (p *Parser) expression() (ast.Expression, error) {
	return p.assignment()
}

// assignment := or ( "=" assignment )?
func (p *Parser) assignment() (ast.Expression, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.ASSIGN {
		return left, nil
	}
	eqTok := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return rewriteAssignment(eqTok, left, value)
}

// rewriteAssignment turns a parsed left-hand side plus a value into the
// appropriate assignment AST variant, per the spec's assignment-rewriting
// rules.
func rewriteAssignment(eqTok token.Token, left ast.Expression, value ast.Expression) (ast.Expression, error) {
	switch target := left.(type) {
	case *ast.Variable:
		switch target.Name {
		case "memory":
			return &ast.MemoryAssignment{Token: eqTok, Value: value}, nil
		case "storage":
			return nil, &ParseError{Message: "cannot assign to bare 'storage'", Line: eqTok.Pos.Line, Col: eqTok.Pos.Column}
		default:
			return &ast.Assignment{Token: eqTok, Name: target.Name, Value: value}, nil
		}
	case *ast.ArrayAccess:
		if obj, ok := target.Object.(*ast.Variable); ok {
			switch obj.Name {
			case "storage":
				return &ast.StorageArrayAssignment{Token: eqTok, Index: target.Index, Value: value}, nil
			case "memory":
				return &ast.MemoryAccess{Token: eqTok, Kind: ast.MemoryStore, Offset: target.Index, Value: value}, nil
			}
		}
		return nil, &ParseError{Message: "invalid assignment target", Line: eqTok.Pos.Line, Col: eqTok.Pos.Column}
	default:
		return nil, &ParseError{Message: "invalid assignment target", Line: eqTok.Pos.Line, Col: eqTok.Pos.Column}
	}
}

// or := and ( "||" and )*
func (p *Parser) or() (ast.Expression, error) {
	return p.leftAssocBinary(p.and, map[token.Type]ast.BinaryOp{token.OR: ast.OpOr})
}

// and := equality ( "&&" equality )*
func (p *Parser) and() (ast.Expression, error) {
	return p.leftAssocBinary(p.equality, map[token.Type]ast.BinaryOp{token.AND: ast.OpAnd})
}

// equality := comparison ( ("=="|"!=") comparison )*
func (p *Parser) equality() (ast.Expression, error) {
	return p.leftAssocBinary(p.comparison, map[token.Type]ast.BinaryOp{
		token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	})
}

// comparison := term ( (">"|">="|"<"|"<=") term )*
func (p *Parser) comparison() (ast.Expression, error) {
	return p.leftAssocBinary(p.term, map[token.Type]ast.BinaryOp{
		token.GT: ast.OpGt, token.GTE: ast.OpGte, token.LT: ast.OpLt, token.LTE: ast.OpLte,
	})
}

// term := factor ( ("+"|"-") factor )*
func (p *Parser) term() (ast.Expression, error) {
	return p.leftAssocBinary(p.factor, map[token.Type]ast.BinaryOp{
		token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub,
	})
}

// factor := unary ( ("*"|"/"|"%") unary )*
func (p *Parser) factor() (ast.Expression, error) {
	return p.leftAssocBinary(p.unary, map[token.Type]ast.BinaryOp{
		token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	})
}

func (p *Parser) leftAssocBinary(next func() (ast.Expression, error), ops map[token.Type]ast.BinaryOp) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.cur.Type]
		if !ok {
			return left, nil
		}
		opTok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Token: opTok, Op: op, Left: left, Right: right}
	}
}

// unary := ("!"|"-") unary | call
func (p *Parser) unary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.BANG:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: ast.OpNot, Operand: operand}, nil
	case token.MINUS:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Token: tok, Op: ast.OpNeg, Operand: operand}, nil
	default:
		return p.call()
	}
}

// call := primary ( "(" args? ")" | "[" expr "]" | "." IDENT )*
func (p *Parser) call() (ast.Expression, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case token.LPAREN:
			lparen := p.cur
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []ast.Expression
			for p.cur.Type != token.RPAREN {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.Type == token.COMMA {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			expr, err = rewriteCall(lparen, expr, args)
			if err != nil {
				return nil, err
			}

		case token.LBRACKET:
			lbracket := p.cur
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.ArrayAccess{Token: lbracket, Object: expr, Index: index}

		case token.DOT:
			dot := p.cur
			if err := p.advance(); err != nil {
				return nil, err
			}
			propTok, err := p.identOrKeyword()
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Token: dot, Object: expr, Property: propTok.Literal}

		default:
			return expr, nil
		}
	}
}

// identOrKeyword accepts IDENT for property names; `get`/`set`/`load`/`store`
// are not reserved words so this is always a plain identifier in practice.
func (p *Parser) identOrKeyword() (token.Token, error) {
	return p.expect(token.IDENT)
}

// rewriteCall turns `storage.get(...)`/`storage.set(...)`/`memory.load(...)`/
// `memory.store(...)` call expressions into their dedicated AST variants;
// every other call (including `console.log(...)` and `keccak256(...)`)
// passes through as a plain CallExpr for the code generator to interpret.
func rewriteCall(tok token.Token, callee ast.Expression, args []ast.Expression) (ast.Expression, error) {
	member, ok := callee.(*ast.MemberAccess)
	if !ok {
		return &ast.CallExpr{Token: tok, Callee: callee, Args: args}, nil
	}
	obj, ok := member.Object.(*ast.Variable)
	if !ok || (obj.Name != "storage" && obj.Name != "memory") {
		return &ast.CallExpr{Token: tok, Callee: callee, Args: args}, nil
	}

	switch obj.Name {
	case "storage":
		switch member.Property {
		case "get":
			if len(args) != 1 {
				return nil, &ParseError{Message: "storage.get expects 1 argument", Line: tok.Pos.Line, Col: tok.Pos.Column}
			}
			return &ast.StorageAccess{Token: tok, Kind: ast.StorageGet, Key: args[0]}, nil
		case "set":
			if len(args) != 2 {
				return nil, &ParseError{Message: "storage.set expects 2 arguments", Line: tok.Pos.Line, Col: tok.Pos.Column}
			}
			return &ast.StorageAccess{Token: tok, Kind: ast.StorageSet, Key: args[0], Value: args[1]}, nil
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unknown storage method: %s", member.Property), Line: tok.Pos.Line, Col: tok.Pos.Column}
		}
	default: // "memory"
		switch member.Property {
		case "load":
			if len(args) != 1 {
				return nil, &ParseError{Message: "memory.load expects 1 argument", Line: tok.Pos.Line, Col: tok.Pos.Column}
			}
			return &ast.MemoryAccess{Token: tok, Kind: ast.MemoryLoad, Offset: args[0]}, nil
		case "store":
			if len(args) != 2 {
				return nil, &ParseError{Message: "memory.store expects 2 arguments", Line: tok.Pos.Line, Col: tok.Pos.Column}
			}
			return &ast.MemoryAccess{Token: tok, Kind: ast.MemoryStore, Offset: args[0], Value: args[1]}, nil
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unknown memory method: %s", member.Property), Line: tok.Pos.Line, Col: tok.Pos.Column}
		}
	}
}

// primary := NUMBER | STRING | "true" | "false" | IDENT | "storage" | "memory"
//
//	| "(" expr ")" | "[" (expr ("," expr)*)? "]"
func (p *Parser) primary() (ast.Expression, error) {
	switch p.cur.Type {
	case token.NUMBER:
		tok := p.cur
		n, err := strconv.ParseUint(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number literal %q", tok.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Token: tok, Kind: ast.LitNumber, Number: n}, nil

	case token.STRING:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Token: tok, Kind: ast.LitString, Str: tok.Literal}, nil

	case token.TRUE, token.FALSE:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Literal{Token: tok, Kind: ast.LitBoolean, Boolean: tok.Type == token.TRUE}, nil

	case token.IDENT, token.STORAGE, token.MEMORY, token.KECCAK256:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.Variable{Token: tok, Name: tok.Literal}, nil

	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	case token.LBRACKET:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expression
		for p.cur.Type != token.RBRACKET {
			elem, err := p.expression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.cur.Type == token.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.Literal{Token: tok, Kind: ast.LitArray, Array: elems}, nil

	default:
		return nil, p.errorf("unexpected token %s %q", p.cur.Type, p.cur.Literal)
	}
}
