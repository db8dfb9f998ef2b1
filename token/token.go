// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package token defines the lexical tokens of the holang language. The
// compiler front end consumes a materialized sequence of Tokens produced by
// the lexer; tokens are immutable once built.
package token

import "strconv"

// Type is the lexical class of a token.
type Type int

// List of token types.
const (
	Illegal Type = iota
	Ident
	Number
	String
	Keyword
	Newline
	EOF
)

var typeNames = [...]string{
	Illegal: "ILLEGAL",
	Ident:   "IDENT",
	Number:  "NUMBER",
	String:  "STRING",
	Keyword: "KEYWORD",
	Newline: "NEWLINE",
	EOF:     "EOF",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// Kind sub-classifies Keyword tokens: reserved words, operators and
// punctuation. A token with Type != Keyword has the zero Kind, None.
type Kind int

// List of keyword kinds.
const (
	None Kind = iota
	If
	Else
	Func
	Class
	Import
	True
	False
	Assign
	Add
	Sub
	Mul
	Div
	Lt
	Gt
	Dot
	Comma
	ParenL
	ParenR
	BraceL
	BraceR
)

var kindNames = [...]string{
	None:   "none",
	If:     "if",
	Else:   "else",
	Func:   "func",
	Class:  "class",
	Import: "import",
	True:   "true",
	False:  "false",
	Assign: "=",
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Lt:     "<",
	Gt:     ">",
	Dot:    ".",
	Comma:  ",",
	ParenL: "(",
	ParenR: ")",
	BraceL: "{",
	BraceR: "}",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "keyword(" + strconv.Itoa(int(k)) + ")"
}

var reserved = map[string]Kind{
	"if":     If,
	"else":   Else,
	"func":   Func,
	"class":  Class,
	"import": Import,
	"true":   True,
	"false":  False,
}

// Lookup maps an identifier to its reserved-word kind, or None if the
// identifier is not reserved.
func Lookup(ident string) Kind {
	return reserved[ident]
}

// Token is one lexical token. Literal carries the identifier spelling, the
// number text or the decoded string payload, depending on Type.
type Token struct {
	Type    Type
	Kind    Kind
	Literal string
	Line    int
	Column  int
}

// Is reports whether the token is a keyword of the given kind.
func (t Token) Is(k Kind) bool {
	return t.Type == Keyword && t.Kind == k
}

func (t Token) String() string {
	switch t.Type {
	case Keyword:
		return "'" + t.Kind.String() + "'"
	case Ident, Number:
		return t.Type.String() + " '" + t.Literal + "'"
	case String:
		return t.Type.String() + " " + strconv.Quote(t.Literal)
	}
	return t.Type.String()
}
