// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package lexer turns holang source text into a token sequence.
package lexer

import (
	"fmt"

	"github.com/holang/holang/token"
)

// Error is a lexical error with its source position.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Lex Error: %s\n\tat %d:%d", e.Msg, e.Line, e.Column)
}

// Lexer scans holang source text.
type Lexer struct {
	src    []byte
	offset int
	line   int
	column int
}

// New creates a Lexer for the given source.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

// ScanAll scans the entire source and returns the token sequence, always
// terminated by an EOF token on success.
func ScanAll(src []byte) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

var punct = map[byte]token.Kind{
	'=': token.Assign,
	'+': token.Add,
	'-': token.Sub,
	'*': token.Mul,
	'/': token.Div,
	'<': token.Lt,
	'>': token.Gt,
	'.': token.Dot,
	',': token.Comma,
	'(': token.ParenL,
	')': token.ParenR,
	'{': token.BraceL,
	'}': token.BraceR,
}

// Next scans and returns the next token. Horizontal whitespace and comments
// are skipped; newlines are significant and produced as tokens.
func (l *Lexer) Next() (token.Token, error) {
	l.skipSpace()

	line, column := l.line, l.column
	if l.offset >= len(l.src) {
		return token.Token{Type: token.EOF, Line: line, Column: column}, nil
	}

	c := l.src[l.offset]
	switch {
	case c == '\n':
		l.advance()
		return token.Token{Type: token.Newline, Line: line, Column: column}, nil
	case isDigit(c):
		lit := l.takeWhile(isDigit)
		return token.Token{Type: token.Number, Literal: lit, Line: line, Column: column}, nil
	case isLetter(c):
		lit := l.takeWhile(isIdentChar)
		if kind := token.Lookup(lit); kind != token.None {
			return token.Token{Type: token.Keyword, Kind: kind, Literal: lit, Line: line, Column: column}, nil
		}
		return token.Token{Type: token.Ident, Literal: lit, Line: line, Column: column}, nil
	case c == '"':
		lit, err := l.scanString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.String, Literal: lit, Line: line, Column: column}, nil
	}

	if kind, ok := punct[c]; ok {
		l.advance()
		return token.Token{Type: token.Keyword, Kind: kind, Literal: string(c), Line: line, Column: column}, nil
	}
	return token.Token{}, &Error{
		Line:   line,
		Column: column,
		Msg:    fmt.Sprintf("unexpected character %q", c),
	}
}

func (l *Lexer) scanString() (string, error) {
	line, column := l.line, l.column
	l.advance() // opening quote
	var buf []byte
	for {
		if l.offset >= len(l.src) || l.src[l.offset] == '\n' {
			return "", &Error{Line: line, Column: column, Msg: "unterminated string literal"}
		}
		c := l.src[l.offset]
		l.advance()
		switch c {
		case '"':
			return string(buf), nil
		case '\\':
			if l.offset >= len(l.src) {
				return "", &Error{Line: line, Column: column, Msg: "unterminated string literal"}
			}
			e := l.src[l.offset]
			l.advance()
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 't':
				buf = append(buf, '\t')
			case '\\', '"':
				buf = append(buf, e)
			default:
				return "", &Error{
					Line:   l.line,
					Column: l.column,
					Msg:    fmt.Sprintf("unknown escape sequence \\%c", e),
				}
			}
		default:
			buf = append(buf, c)
		}
	}
}

func (l *Lexer) skipSpace() {
	for l.offset < len(l.src) {
		switch l.src[l.offset] {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for l.offset < len(l.src) && l.src[l.offset] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) takeWhile(pred func(byte) bool) string {
	start := l.offset
	for l.offset < len(l.src) && pred(l.src[l.offset]) {
		l.advance()
	}
	return string(l.src[start:l.offset])
}

func (l *Lexer) advance() {
	if l.src[l.offset] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.offset++
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool { return isLetter(c) || isDigit(c) }
