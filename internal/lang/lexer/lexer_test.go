// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package lexer

import (
	"testing"

	"github.com/abbychau/abbyEVM/internal/lang/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := New("test.ev", src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): unexpected error: %v", src, err)
	}
	return toks
}

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestKeywords(t *testing.T) {
	toks := tokenize(t, "let function if else return")
	want := []token.Type{token.LET, token.FUNCTION, token.IF, token.ELSE, token.RETURN, token.EOF}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNumbers(t *testing.T) {
	toks := tokenize(t, "42 0xFF 123")
	want := []string{"42", "255", "123"}
	for i, w := range want {
		if toks[i].Type != token.NUMBER {
			t.Fatalf("token %d: got type %s, want NUMBER", i, toks[i].Type)
		}
		if toks[i].Literal != w {
			t.Errorf("token %d: got literal %q, want %q", i, toks[i].Literal, w)
		}
	}
}

func TestMultiCharOperators(t *testing.T) {
	toks := tokenize(t, "== != >= <= && ||")
	want := []token.Type{token.EQ, token.NEQ, token.GTE, token.LTE, token.AND, token.OR, token.EOF}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestStringNoEscapeProcessing(t *testing.T) {
	toks := tokenize(t, `"hello\nworld"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("got type %s, want STRING", toks[0].Type)
	}
	if toks[0].Literal != `hello\nworld` {
		t.Errorf("got literal %q, want literal backslash-n preserved", toks[0].Literal)
	}
}

func TestStringNewlineAdvancesLine(t *testing.T) {
	toks, err := New("t.ev", "\"a\nb\" ident").Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Literal != "a\nb" {
		t.Fatalf("got literal %q", toks[0].Literal)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("got line %d for token after multi-line string, want 2", toks[1].Pos.Line)
	}
}

func TestUnterminatedStringError(t *testing.T) {
	_, err := New("t.ev", `"unterminated`).Tokenize()
	if err == nil {
		t.Fatal("expected LexError, got nil")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func TestIsolatedAmpersandIsError(t *testing.T) {
	_, err := New("t.ev", "a & b").Tokenize()
	if err == nil {
		t.Fatal("expected LexError for isolated '&'")
	}
}

func TestIsolatedPipeIsError(t *testing.T) {
	_, err := New("t.ev", "a | b").Tokenize()
	if err == nil {
		t.Fatal("expected LexError for isolated '|'")
	}
}

func TestMalformedHexLiteral(t *testing.T) {
	_, err := New("t.ev", "0x").Tokenize()
	if err == nil {
		t.Fatal("expected LexError for '0x' with no digits")
	}
}

func TestLineComment(t *testing.T) {
	toks := tokenize(t, "1 // trailing comment\n2")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (NUMBER NUMBER EOF): %v", len(toks), toks)
	}
	if toks[0].Literal != "1" || toks[1].Literal != "2" {
		t.Errorf("comment was not skipped correctly: %v", toks)
	}
}

func TestReservedWordsNotIdentifiers(t *testing.T) {
	toks := tokenize(t, "storage memory keccak256 assert const while for true false")
	want := []token.Type{
		token.STORAGE, token.MEMORY, token.KECCAK256, token.ASSERT,
		token.CONST, token.WHILE, token.FOR, token.TRUE, token.FALSE, token.EOF,
	}
	got := types(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}
