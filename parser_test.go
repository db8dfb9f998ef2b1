// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/holang/holang"
	"github.com/holang/holang/token"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, prog.Root)
	return prog
}

// firstStmt returns the single top-level statement of src.
func firstStmt(t *testing.T, src string) Node {
	t.Helper()
	prog := parse(t, src)
	stmts, ok := prog.Root.(*Stmts)
	require.True(t, ok)
	require.Len(t, stmts.List, 1)
	return stmts.List[0]
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3)
	binop, ok := firstStmt(t, "1 + 2 * 3").(*Binop)
	require.True(t, ok)
	require.Equal(t, token.Add, binop.Op)
	require.IsType(t, &IntLit{}, binop.LHS)
	rhs, ok := binop.RHS.(*Binop)
	require.True(t, ok)
	require.Equal(t, token.Mul, rhs.Op)

	// 1 - 2 - 3 is left-associative: (1 - 2) - 3
	binop, ok = firstStmt(t, "1 - 2 - 3").(*Binop)
	require.True(t, ok)
	require.Equal(t, token.Sub, binop.Op)
	lhs, ok := binop.LHS.(*Binop)
	require.True(t, ok)
	require.Equal(t, token.Sub, lhs.Op)
	require.IsType(t, &IntLit{}, binop.RHS)

	// comparison binds loosest
	binop, ok = firstStmt(t, "1 + 2 < 3 * 4").(*Binop)
	require.True(t, ok)
	require.Equal(t, token.Lt, binop.Op)
	require.Equal(t, token.Add, binop.LHS.(*Binop).Op)
	require.Equal(t, token.Mul, binop.RHS.(*Binop).Op)
}

func TestParseAssignment(t *testing.T) {
	assign, ok := firstStmt(t, "a = 1").(*Assign)
	require.True(t, ok)
	require.Equal(t, "a", assign.Target.Name)
	require.Equal(t, 0, assign.Target.Slot)
	require.IsType(t, &IntLit{}, assign.Value)

	// chained assignment is right-nested
	assign, ok = firstStmt(t, "a = b = 2").(*Assign)
	require.True(t, ok)
	inner, ok := assign.Value.(*Assign)
	require.True(t, ok)
	require.Equal(t, "b", inner.Target.Name)

	// an identifier not followed by '=' falls through via pushback
	binop, ok := firstStmt(t, "a + 2").(*Binop)
	require.True(t, ok)
	require.IsType(t, &Ident{}, binop.LHS)
}

func TestParseAssignmentSlots(t *testing.T) {
	prog := parse(t, "a = 1\nb = 2\na = 3")
	stmts := prog.Root.(*Stmts)
	require.Len(t, stmts.List, 3)
	require.Equal(t, 0, stmts.List[0].(*Assign).Target.Slot)
	require.Equal(t, 1, stmts.List[1].(*Assign).Target.Slot)
	require.Equal(t, 0, stmts.List[2].(*Assign).Target.Slot)
	require.Equal(t, 2, prog.NumLocals)
}

func TestParseIf(t *testing.T) {
	ifNode, ok := firstStmt(t, "if true { 1 } else { 2 }").(*If)
	require.True(t, ok)
	require.IsType(t, &BoolLit{}, ifNode.Cond)
	require.NotNil(t, ifNode.Else)

	ifNode, ok = firstStmt(t, "if false { 1 }").(*If)
	require.True(t, ok)
	require.Nil(t, ifNode.Else)

	// else-if chains through the statement production
	ifNode, ok = firstStmt(t, "if a < 1 { 1 } else if a < 2 { 2 } else { 3 }").(*If)
	require.True(t, ok)
	require.IsType(t, &If{}, ifNode.Else)
}

func TestParseFuncDef(t *testing.T) {
	def, ok := firstStmt(t, "func add(a, b) { a + b }").(*FuncDef)
	require.True(t, ok)
	require.Equal(t, "add", def.Name)
	require.Equal(t, []string{"a", "b"}, def.Params)
	require.Equal(t, 2, def.NumLocals)

	// locals on top of parameters widen the frame
	def = firstStmt(t, "func f(a) { b = a\nc = b\nc }").(*FuncDef)
	require.Equal(t, 3, def.NumLocals)

	// no parameters
	def = firstStmt(t, "func f() { 1 }").(*FuncDef)
	require.Empty(t, def.Params)
	require.Equal(t, 0, def.NumLocals)
}

func TestParseScopesDoNotLeak(t *testing.T) {
	// `a` in g is a different slot than in f, and the function scopes do
	// not leak into the top level
	prog := parse(t, "func f(x) { a = x }\nfunc g() { a = 1 }\nb = 2")
	stmts := prog.Root.(*Stmts)
	f := stmts.List[0].(*FuncDef)
	g := stmts.List[1].(*FuncDef)
	require.Equal(t, 2, f.NumLocals)
	require.Equal(t, 1, g.NumLocals)
	require.Equal(t, 1, prog.NumLocals)

	fBody := f.Body.(*Stmts).List[0].(*Assign)
	gBody := g.Body.(*Stmts).List[0].(*Assign)
	require.Equal(t, 1, fBody.Target.Slot)
	require.Equal(t, 0, gBody.Target.Slot)
}

func TestParseTrailers(t *testing.T) {
	// p.x is a field reference trailer
	pe, ok := firstStmt(t, "p.x").(*PrimeExpr)
	require.True(t, ok)
	require.IsType(t, &Ident{}, pe.Prime)
	require.Equal(t, "x", pe.Trailer.(*RefField).Name)

	// p.m(1) is a trailer call
	pe = firstStmt(t, "p.m(1)").(*PrimeExpr)
	call := pe.Trailer.(*FuncCall)
	require.Equal(t, "m", call.Name)
	require.True(t, call.Trailer)
	require.Len(t, call.Args, 1)

	// chained trailers nest left
	pe = firstStmt(t, "p.q.m()").(*PrimeExpr)
	require.IsType(t, &PrimeExpr{}, pe.Prime)
	require.IsType(t, &FuncCall{}, pe.Trailer)

	// a bare call is not a trailer call
	call = firstStmt(t, "add(1, 2)").(*FuncCall)
	require.False(t, call.Trailer)
	require.Len(t, call.Args, 2)
}

func TestParseUndefinedIdentSlot(t *testing.T) {
	ident, ok := firstStmt(t, "Point").(*Ident)
	require.True(t, ok)
	require.Equal(t, -1, ident.Slot)
}

func TestParseClassDef(t *testing.T) {
	def, ok := firstStmt(t, "class Point {\nfunc init(x) { 1 }\n}").(*ClassDef)
	require.True(t, ok)
	require.Equal(t, "Point", def.Name)
	body := def.Body.(*Stmts)
	require.Len(t, body.List, 1)
	require.IsType(t, &FuncDef{}, body.List[0])
}

func TestParseImport(t *testing.T) {
	imp, ok := firstStmt(t, `import "math"`).(*Import)
	require.True(t, ok)
	require.IsType(t, &StringLit{}, imp.Module)
}

func TestParseSignChange(t *testing.T) {
	sc, ok := firstStmt(t, "-x").(*SignChange)
	require.True(t, ok)
	require.IsType(t, &Ident{}, sc.Expr)

	// binary minus still wins when there is a left operand
	require.IsType(t, &Binop{}, firstStmt(t, "1 - x"))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		src      string
		expected string // substring of the diagnostic
	}{
		{"if true { 1", "expected '}'"},
		{"func () { 1 }", "expected identifier"},
		{"func f( { 1 }", "expected ')'"},
		{"add(1,", "expected expression"},
		{"1 + ", "expected expression"},
		{"class { }", "expected identifier"},
		{"}", "expected expression"},
	}
	for _, tC := range testCases {
		_, err := Parse([]byte(tC.src))
		require.Error(t, err, "src %q", tC.src)
		require.ErrorIs(t, err, ErrUnexpectedToken, "src %q", tC.src)
		require.True(t, strings.Contains(err.Error(), tC.expected),
			"src %q: diagnostic %q does not mention %q", tC.src, err.Error(), tC.expected)
	}
}

func TestParseEmptyProgram(t *testing.T) {
	prog := parse(t, "\n\n# only a comment\n")
	stmts := prog.Root.(*Stmts)
	require.Empty(t, stmts.List)
	require.Equal(t, 0, prog.NumLocals)
}
