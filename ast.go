// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"
	"io"
	"strconv"

	"github.com/holang/holang/token"
)

// Node is a node of the abstract syntax tree. Each node knows how to emit
// bytecode for itself into a CodeBuffer and how to render itself for the
// diagnostic AST dump. Nodes are immutable once built and each parent owns
// its children exclusively.
type Node interface {
	CodeGen(buf *CodeBuffer) error
	Dump(w io.Writer, depth int)
}

func dumpIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, ".  ")
	}
}

func dumpLine(w io.Writer, depth int, format string, args ...interface{}) {
	dumpIndent(w, depth)
	fmt.Fprintf(w, format, args...)
	io.WriteString(w, "\n")
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

func (n *IntLit) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "IntLit %d", n.Value)
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

func (n *BoolLit) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "BoolLit %v", n.Value)
}

// StringLit is a string literal.
type StringLit struct {
	Value string
}

func (n *StringLit) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "StringLit %s", strconv.Quote(n.Value))
}

// Ident is a variable reference. Slot is the local slot index assigned by
// the variable table at parse time, or -1 when the name was never defined in
// the active scope; such names compile to a field lookup on self instead.
type Ident struct {
	Name string
	Slot int
}

func (n *Ident) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Ident %s : %d", n.Name, n.Slot)
}

// Binop is a binary arithmetic or comparison expression.
type Binop struct {
	Op  token.Kind
	LHS Node
	RHS Node
}

func (n *Binop) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Binop %s", n.Op)
	n.LHS.Dump(w, depth+1)
	n.RHS.Dump(w, depth+1)
}

// Assign binds the value of an expression to a local slot. Assignment is an
// expression; its value is the assigned value.
type Assign struct {
	Target *Ident
	Value  Node
}

func (n *Assign) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Assign %s : %d", n.Target.Name, n.Target.Slot)
	n.Value.Dump(w, depth+1)
}

// ExprList is an ordered list of expressions, used for call arguments; code
// generation evaluates each expression in order, leaving one value per
// expression on the stack.
type ExprList []Node

func (n ExprList) Dump(w io.Writer, depth int) {
	for _, e := range n {
		e.Dump(w, depth)
	}
}

// Stmts is a newline-separated statement sequence. Every statement leaves
// exactly one value; code generation pops between successive statements so
// only the last value of the sequence remains.
type Stmts struct {
	List []Node
}

func (n *Stmts) Dump(w io.Writer, depth int) {
	for _, s := range n.List {
		s.Dump(w, depth)
	}
}

// If is a conditional expression. Else may be nil; an if-expression without
// an else branch produces the zero placeholder value when the condition is
// falsey.
type If struct {
	Cond Node
	Then Node
	Else Node
}

func (n *If) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "If")
	n.Cond.Dump(w, depth+1)
	dumpLine(w, depth, "Then")
	n.Then.Dump(w, depth+1)
	if n.Else != nil {
		dumpLine(w, depth, "Else")
		n.Else.Dump(w, depth+1)
	}
}

// FuncCall is a call. For a bare call (Trailer false) the receiver is the
// enclosing self; for a trailer call the receiver is the value of the
// preceding expression, already on the stack.
type FuncCall struct {
	Name    string
	Args    ExprList
	Trailer bool
}

func (n *FuncCall) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Call %s", n.Name)
	n.Args.Dump(w, depth+1)
}

// FuncDef is a function definition. NumLocals is the variable table's
// high-water mark for the function's scope, fixed at parse time.
type FuncDef struct {
	Name      string
	Params    []string
	NumLocals int
	Body      Node
}

func (n *FuncDef) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "FuncDef %s", n.Name)
	n.Body.Dump(w, depth+1)
}

// ClassDef is a class definition; its body executes against the class as
// the active definition context.
type ClassDef struct {
	Name string
	Body Node
}

func (n *ClassDef) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "ClassDef %s", n.Name)
	n.Body.Dump(w, depth+1)
}

// SignChange is the unary minus; accepted by the grammar, rejected by code
// generation.
type SignChange struct {
	Expr Node
}

func (n *SignChange) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "SignChange")
	n.Expr.Dump(w, depth+1)
}

// PrimeExpr applies a trailer to a primary expression.
type PrimeExpr struct {
	Prime   Node
	Trailer Node
}

func (n *PrimeExpr) Dump(w io.Writer, depth int) {
	n.Prime.Dump(w, depth)
	n.Trailer.Dump(w, depth+1)
}

// RefField is a `.name` field access trailer.
type RefField struct {
	Name string
}

func (n *RefField) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, ".%s", n.Name)
}

// Send is an explicit message send trailer; accepted by the grammar,
// rejected by code generation.
type Send struct {
	Args    ExprList
	Trailer Node
}

func (n *Send) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Send")
	n.Trailer.Dump(w, depth+1)
}

// Import is the import statement. Resolution happens through the VM's
// importer hook.
type Import struct {
	Module Node
}

func (n *Import) Dump(w io.Writer, depth int) {
	dumpLine(w, depth, "Import")
	n.Module.Dump(w, depth+1)
}
