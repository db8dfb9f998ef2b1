// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"

	"github.com/holang/holang/token"
)

// CodeBuffer is a growable flat code buffer that AST nodes emit into. Jump
// targets are absolute indices into the same buffer, written by a reserve and
// patch pair once the target offset is known.
type CodeBuffer struct {
	code []Code
}

// NewCodeBuffer creates an empty CodeBuffer.
func NewCodeBuffer() *CodeBuffer {
	return &CodeBuffer{}
}

// Code returns the emitted code.
func (b *CodeBuffer) Code() []Code {
	return b.code
}

func (b *CodeBuffer) emitOp(op Instruction) {
	b.code = append(b.code, Code{Op: op})
}

func (b *CodeBuffer) emitInt(v int) {
	b.code = append(b.code, Code{Int: v})
}

func (b *CodeBuffer) emitBool(v bool) {
	b.code = append(b.code, Code{Bool: v})
}

func (b *CodeBuffer) emitStr(s string) {
	b.code = append(b.code, Code{Str: s})
}

func (b *CodeBuffer) emitFunc(fn *Func) {
	b.code = append(b.code, Code{Func: fn})
}

// reserve appends a zero operand slot and returns its index for patching.
func (b *CodeBuffer) reserve() int {
	b.code = append(b.code, Code{})
	return len(b.code) - 1
}

// patch writes a resolved jump target into a reserved operand slot.
func (b *CodeBuffer) patch(pos, target int) {
	b.code[pos].Int = target
}

func (b *CodeBuffer) pos() int {
	return len(b.code)
}

// emitZero pushes the placeholder value produced by value-less constructs:
// if-expressions without an else branch, function definitions, empty suites.
func (b *CodeBuffer) emitZero() {
	b.emitOp(OpPutInt)
	b.emitInt(0)
}

func binopInstruction(op token.Kind) (Instruction, bool) {
	switch op {
	case token.Add:
		return OpAdd, true
	case token.Sub:
		return OpSub, true
	case token.Mul:
		return OpMul, true
	case token.Div:
		return OpDiv, true
	case token.Lt:
		return OpLess, true
	case token.Gt:
		return OpGreater, true
	}
	return OpNoOp, false
}

// CodeGen implements Node.
func (n *IntLit) CodeGen(buf *CodeBuffer) error {
	buf.emitOp(OpPutInt)
	buf.emitInt(int(n.Value))
	return nil
}

// CodeGen implements Node.
func (n *BoolLit) CodeGen(buf *CodeBuffer) error {
	buf.emitOp(OpPutBool)
	buf.emitBool(n.Value)
	return nil
}

// CodeGen implements Node.
func (n *StringLit) CodeGen(buf *CodeBuffer) error {
	buf.emitOp(OpPutString)
	buf.emitStr(n.Value)
	return nil
}

// CodeGen implements Node. A name with a slot loads the local; a name the
// active scope never defined falls through to a field lookup on self, which
// is how class names and top-level bindings resolve.
func (n *Ident) CodeGen(buf *CodeBuffer) error {
	if n.Slot >= 0 {
		buf.emitOp(OpLoadLocal)
		buf.emitInt(n.Slot)
		return nil
	}
	buf.emitOp(OpPutSelf)
	buf.emitOp(OpLoadObjField)
	buf.emitStr(n.Name)
	return nil
}

// CodeGen implements Node. Operands are evaluated left to right and pushed
// before the operator.
func (n *Binop) CodeGen(buf *CodeBuffer) error {
	if err := n.LHS.CodeGen(buf); err != nil {
		return err
	}
	if err := n.RHS.CodeGen(buf); err != nil {
		return err
	}
	op, ok := binopInstruction(n.Op)
	if !ok {
		return ErrUnsupportedFeature.NewError(
			fmt.Sprintf("binary operator '%s'", n.Op))
	}
	buf.emitOp(op)
	return nil
}

// CodeGen implements Node. StoreLocal stores the top of stack without
// popping, so the assignment's value remains as the expression result.
func (n *Assign) CodeGen(buf *CodeBuffer) error {
	if err := n.Value.CodeGen(buf); err != nil {
		return err
	}
	buf.emitOp(OpStoreLocal)
	buf.emitInt(n.Target.Slot)
	return nil
}

// CodeGen implements Node.
func (n ExprList) CodeGen(buf *CodeBuffer) error {
	for _, e := range n {
		if err := e.CodeGen(buf); err != nil {
			return err
		}
	}
	return nil
}

// CodeGen implements Node.
func (n *Stmts) CodeGen(buf *CodeBuffer) error {
	if len(n.List) == 0 {
		buf.emitZero()
		return nil
	}
	for i, stmt := range n.List {
		if i > 0 {
			buf.emitOp(OpPop)
		}
		if err := stmt.CodeGen(buf); err != nil {
			return err
		}
	}
	return nil
}

// CodeGen implements Node. Branch targets are forward references: both jump
// operand slots are reserved first and backpatched with absolute offsets
// once the branch bodies have been emitted.
func (n *If) CodeGen(buf *CodeBuffer) error {
	if err := n.Cond.CodeGen(buf); err != nil {
		return err
	}

	buf.emitOp(OpJumpIfNot)
	fromIf := buf.reserve()

	if err := n.Then.CodeGen(buf); err != nil {
		return err
	}
	buf.emitOp(OpJump)
	fromThen := buf.reserve()

	buf.patch(fromIf, buf.pos())
	if n.Else == nil {
		buf.emitZero()
	} else if err := n.Else.CodeGen(buf); err != nil {
		return err
	}
	buf.patch(fromThen, buf.pos())
	return nil
}

// CodeGen implements Node. A bare call pushes the enclosing self as the
// receiver; a trailer call's receiver is already on the stack.
func (n *FuncCall) CodeGen(buf *CodeBuffer) error {
	if !n.Trailer {
		buf.emitOp(OpPutSelf)
	}
	if err := n.Args.CodeGen(buf); err != nil {
		return err
	}
	buf.emitOp(OpCallFunc)
	buf.emitStr(n.Name)
	buf.emitInt(len(n.Args))
	return nil
}

// CodeGen implements Node. The body compiles into its own flat buffer with a
// trailing Ret; the enclosing buffer only carries the DefFunc instruction
// with the compiled body as a constant payload.
func (n *FuncDef) CodeGen(buf *CodeBuffer) error {
	body := NewCodeBuffer()
	if err := n.Body.CodeGen(body); err != nil {
		return err
	}
	body.emitOp(OpRet)

	buf.emitOp(OpDefFunc)
	buf.emitStr(n.Name)
	buf.emitFunc(&Func{
		Name:      n.Name,
		Body:      body.Code(),
		NumParams: len(n.Params),
		NumLocals: n.NumLocals,
	})
	buf.emitZero()
	return nil
}

// CodeGen implements Node. The body is spliced into the current buffer
// between LoadClass and PrevEnv, so definitions inside execute against the
// class as the active definition context.
func (n *ClassDef) CodeGen(buf *CodeBuffer) error {
	buf.emitOp(OpLoadClass)
	buf.emitStr(n.Name)
	if err := n.Body.CodeGen(buf); err != nil {
		return err
	}
	buf.emitOp(OpPrevEnv)
	return nil
}

// CodeGen implements Node.
func (n *SignChange) CodeGen(buf *CodeBuffer) error {
	return ErrUnsupportedFeature.NewError("unary sign change")
}

// CodeGen implements Node.
func (n *PrimeExpr) CodeGen(buf *CodeBuffer) error {
	if err := n.Prime.CodeGen(buf); err != nil {
		return err
	}
	return n.Trailer.CodeGen(buf)
}

// CodeGen implements Node.
func (n *RefField) CodeGen(buf *CodeBuffer) error {
	buf.emitOp(OpLoadObjField)
	buf.emitStr(n.Name)
	return nil
}

// CodeGen implements Node.
func (n *Send) CodeGen(buf *CodeBuffer) error {
	return ErrUnsupportedFeature.NewError("explicit message send")
}

// CodeGen implements Node.
func (n *Import) CodeGen(buf *CodeBuffer) error {
	if err := n.Module.CodeGen(buf); err != nil {
		return err
	}
	buf.emitOp(OpImport)
	return nil
}
