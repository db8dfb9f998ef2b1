// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"
	"strconv"

	"github.com/holang/holang/token"
)

// Program is the result of parsing: the AST root and the locals width of the
// top-level scope.
type Program struct {
	Root      Node
	NumLocals int
}

// Compile lowers the program to bytecode.
func (p *Program) Compile() (*Bytecode, error) {
	buf := NewCodeBuffer()
	if p.Root != nil {
		if err := p.Root.CodeGen(buf); err != nil {
			return nil, err
		}
	}
	return &Bytecode{Main: buf.Code(), NumMainLocals: p.NumLocals}, nil
}

// Parser is a recursive-descent parser over a materialized token sequence.
// The cursor is an explicit index, which makes the lookahead used for
// assignment detection a trivial mark and restore. The parser owns the variable
// table; function definitions push a scope before the parameter list and pop
// it after the body, so slot indices never leak across function boundaries.
type Parser struct {
	toks []token.Token
	pos  int
	vt   *VariableTable
}

// NewParser creates a Parser for the given token sequence.
func NewParser(toks []token.Token) *Parser {
	return &Parser{toks: toks, vt: NewVariableTable()}
}

// SetVariableTable replaces the parser's variable table. Sharing one table
// across parsers keeps top-level slot assignments stable between REPL
// inputs.
func (p *Parser) SetVariableTable(vt *VariableTable) *Parser {
	p.vt = vt
	return p
}

// Parse consumes the whole token sequence and returns the program.
func (p *Parser) Parse() (*Program, error) {
	var list []Node
	for {
		p.consumeNewlines()
		if p.isEOF() {
			break
		}
		node, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		list = append(list, node)
	}
	return &Program{
		Root:      &Stmts{List: list},
		NumLocals: p.vt.NumDefined(),
	}, nil
}

// ----- token cursor ----- //

func (p *Parser) get() token.Token {
	tok := p.toks[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) isEOF() bool {
	return p.peek().Type == token.EOF
}

// nextIs consumes the next token and reports true when it is a keyword of
// the given kind; otherwise the cursor does not move.
func (p *Parser) nextIs(k token.Kind) bool {
	if p.peek().Is(k) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) take(k token.Kind) error {
	tok := p.get()
	if !tok.Is(k) {
		return p.unexpected("'"+k.String()+"'", tok)
	}
	return nil
}

func (p *Parser) takeIdent() (token.Token, error) {
	tok := p.get()
	if tok.Type != token.Ident {
		return tok, p.unexpected("identifier", tok)
	}
	return tok, nil
}

func (p *Parser) consumeNewlines() {
	for p.peek().Type == token.Newline {
		p.pos++
	}
}

func (p *Parser) unexpected(expected string, actual token.Token) error {
	return ErrUnexpectedToken.NewError(fmt.Sprintf(
		"expected %s, found %s at %d:%d",
		expected, actual, actual.Line, actual.Column))
}

// ----- statement ----- //

func (p *Parser) parseStmt() (Node, error) {
	switch {
	case p.peek().Is(token.If):
		return p.parseIf()
	case p.peek().Is(token.Func):
		return p.parseFuncDef()
	case p.peek().Is(token.Class):
		return p.parseClassDef()
	case p.peek().Is(token.Import):
		return p.parseImport()
	case p.peek().Is(token.BraceL):
		return p.parseSuite()
	}
	return p.parseExpr()
}

func (p *Parser) parseIf() (Node, error) {
	if err := p.take(token.If); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	var els Node
	if p.nextIs(token.Else) {
		if els, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	return &If{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseFuncDef() (Node, error) {
	if err := p.take(token.Func); err != nil {
		return nil, err
	}
	ident, err := p.takeIdent()
	if err != nil {
		return nil, err
	}

	p.vt.EnterScope()
	defer p.vt.LeaveScope()

	if err := p.take(token.ParenL); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if err := p.take(token.ParenR); err != nil {
		return nil, err
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &FuncDef{
		Name:      ident.Literal,
		Params:    params,
		NumLocals: p.vt.NumDefined(),
		Body:      body,
	}, nil
}

func (p *Parser) parseClassDef() (Node, error) {
	if err := p.take(token.Class); err != nil {
		return nil, err
	}
	ident, err := p.takeIdent()
	if err != nil {
		return nil, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &ClassDef{Name: ident.Literal, Body: body}, nil
}

func (p *Parser) parseImport() (Node, error) {
	if err := p.take(token.Import); err != nil {
		return nil, err
	}
	module, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &Import{Module: module}, nil
}

func (p *Parser) parseSuite() (Node, error) {
	if err := p.take(token.BraceL); err != nil {
		return nil, err
	}
	var list []Node
	for {
		p.consumeNewlines()
		if p.peek().Is(token.BraceR) {
			break
		}
		if p.isEOF() {
			return nil, p.unexpected("'}'", p.peek())
		}
		node, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		list = append(list, node)
	}
	p.pos++ // closing brace
	return &Stmts{List: list}, nil
}

// ----- expression ----- //

func (p *Parser) parseExpr() (Node, error) {
	return p.parseAssign()
}

// parseAssign detects `ident = expr` with one-token lookahead. On a miss the
// identifier is ungotten and parsing falls through to the comparison level.
func (p *Parser) parseAssign() (Node, error) {
	mark := p.pos
	tok := p.get()
	if tok.Type == token.Ident && p.nextIs(token.Assign) {
		slot := p.vt.Define(tok.Literal)
		value, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &Assign{
			Target: &Ident{Name: tok.Literal, Slot: slot},
			Value:  value,
		}, nil
	}
	p.pos = mark
	return p.parseComp()
}

func (p *Parser) parseComp() (Node, error) {
	node, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for _, kind := range []token.Kind{token.Lt, token.Gt} {
		if p.nextIs(kind) {
			rhs, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &Binop{Op: kind, LHS: node, RHS: rhs}, nil
		}
	}
	return node, nil
}

func (p *Parser) parseAdditive() (Node, error) {
	node, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var kind token.Kind
		switch {
		case p.nextIs(token.Add):
			kind = token.Add
		case p.nextIs(token.Sub):
			kind = token.Sub
		default:
			return node, nil
		}
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		node = &Binop{Op: kind, LHS: node, RHS: rhs}
	}
}

func (p *Parser) parseMultiplicative() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		var kind token.Kind
		switch {
		case p.nextIs(token.Mul):
			kind = token.Mul
		case p.nextIs(token.Div):
			kind = token.Div
		default:
			return node, nil
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &Binop{Op: kind, LHS: node, RHS: rhs}
	}
}

func (p *Parser) parseFactor() (Node, error) {
	if p.nextIs(token.Sub) {
		expr, err := p.parsePrimeExpr()
		if err != nil {
			return nil, err
		}
		return &SignChange{Expr: expr}, nil
	}
	return p.parsePrimeExpr()
}

func (p *Parser) parsePrimeExpr() (Node, error) {
	node, err := p.parsePrime()
	if err != nil {
		return nil, err
	}
	for p.nextIs(token.Dot) {
		trailer, err := p.parseNameOrCall(true)
		if err != nil {
			return nil, err
		}
		node = &PrimeExpr{Prime: node, Trailer: trailer}
	}
	return node, nil
}

// ----- prime ----- //

func (p *Parser) parsePrime() (Node, error) {
	tok := p.peek()
	switch {
	case tok.Type == token.Number:
		p.pos++
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.unexpected("integer literal", tok)
		}
		return &IntLit{Value: v}, nil
	case tok.Type == token.Ident:
		return p.parseNameOrCall(false)
	case tok.Is(token.True):
		p.pos++
		return &BoolLit{Value: true}, nil
	case tok.Is(token.False):
		p.pos++
		return &BoolLit{Value: false}, nil
	case tok.Type == token.String:
		p.pos++
		return &StringLit{Value: tok.Literal}, nil
	}
	return nil, p.unexpected("expression", tok)
}

// parseNameOrCall parses `name`, `name(args)` or, in trailer position,
// `.name` and `.name(args)`. A bare name in trailer position is a field
// reference; elsewhere it is a variable reference.
func (p *Parser) parseNameOrCall(trailer bool) (Node, error) {
	ident, err := p.takeIdent()
	if err != nil {
		return nil, err
	}
	if p.nextIs(token.ParenL) {
		var args ExprList
		if !p.nextIs(token.ParenR) {
			if args, err = p.parseExprList(); err != nil {
				return nil, err
			}
			if err := p.take(token.ParenR); err != nil {
				return nil, err
			}
		}
		return &FuncCall{Name: ident.Literal, Args: args, Trailer: trailer}, nil
	}
	if trailer {
		return &RefField{Name: ident.Literal}, nil
	}
	slot, ok := p.vt.Resolve(ident.Literal)
	if !ok {
		slot = -1
	}
	return &Ident{Name: ident.Literal, Slot: slot}, nil
}

func (p *Parser) parseExprList() (ExprList, error) {
	var list ExprList
	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if !p.nextIs(token.Comma) {
			return list, nil
		}
	}
}

func (p *Parser) parseParams() ([]string, error) {
	if p.peek().Type != token.Ident {
		return nil, nil
	}
	var params []string
	for {
		ident, err := p.takeIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, ident.Literal)
		p.vt.Define(ident.Literal)
		if !p.nextIs(token.Comma) {
			return params, nil
		}
	}
}
