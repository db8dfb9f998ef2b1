// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import "strconv"

// Instruction is a bytecode operation code.
type Instruction byte

// List of instructions.
const (
	OpNoOp Instruction = iota
	OpPutInt
	OpPutBool
	OpPutString
	OpLoadLocal
	OpStoreLocal
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLess
	OpGreater
	OpPop
	OpJumpIfNot
	OpJump
	OpPutSelf
	OpCallFunc
	OpDefFunc
	OpLoadClass
	OpPrevEnv
	OpLoadObjField
	OpImport
	OpRet
)

// InstructionNames are string representations of instructions.
var InstructionNames = [...]string{
	OpNoOp:         "NOOP",
	OpPutInt:       "PUT_INT",
	OpPutBool:      "PUT_BOOL",
	OpPutString:    "PUT_STRING",
	OpLoadLocal:    "LOAD_LOCAL",
	OpStoreLocal:   "STORE_LOCAL",
	OpAdd:          "ADD",
	OpSub:          "SUB",
	OpMul:          "MUL",
	OpDiv:          "DIV",
	OpLess:         "LESS",
	OpGreater:      "GREATER",
	OpPop:          "POP",
	OpJumpIfNot:    "JUMP_IFNOT",
	OpJump:         "JUMP",
	OpPutSelf:      "PUT_SELF",
	OpCallFunc:     "CALL_FUNC",
	OpDefFunc:      "DEF_FUNC",
	OpLoadClass:    "LOAD_CLASS",
	OpPrevEnv:      "PREV_ENV",
	OpLoadObjField: "LOAD_OBJ_FIELD",
	OpImport:       "IMPORT",
	OpRet:          "RET",
}

func (op Instruction) String() string {
	if int(op) < len(InstructionNames) {
		return InstructionNames[op]
	}
	return "instruction(" + strconv.Itoa(int(op)) + ")"
}

// OperandKind tags the payload field of an operand slot. A slot is not
// self-describing; its kind is fixed by its position after the preceding
// instruction, per the tables below.
type OperandKind byte

// List of operand kinds.
const (
	OperandInt OperandKind = iota
	OperandFloat
	OperandBool
	OperandString
	OperandFunc
)

// InstructionOperands lists, for every instruction, the kinds of the raw
// operand slots that follow it in the code buffer. The VM, the dumper and
// the encoder all walk code using this table.
var InstructionOperands = [...][]OperandKind{
	OpNoOp:         {},
	OpPutInt:       {OperandInt},
	OpPutBool:      {OperandBool},
	OpPutString:    {OperandString},
	OpLoadLocal:    {OperandInt},
	OpStoreLocal:   {OperandInt},
	OpAdd:          {},
	OpSub:          {},
	OpMul:          {},
	OpDiv:          {},
	OpLess:         {},
	OpGreater:      {},
	OpPop:          {},
	OpJumpIfNot:    {OperandInt},
	OpJump:         {OperandInt},
	OpPutSelf:      {},
	OpCallFunc:     {OperandString, OperandInt},
	OpDefFunc:      {OperandString, OperandFunc},
	OpLoadClass:    {OperandString},
	OpPrevEnv:      {},
	OpLoadObjField: {OperandString},
	OpImport:       {},
	OpRet:          {},
}

// Code is one slot of a flat code buffer: either an instruction or a single
// raw operand. Exactly one field is meaningful per slot, selected by the
// slot's position relative to the preceding instruction.
type Code struct {
	Op    Instruction
	Int   int
	Float float64
	Bool  bool
	Str   string
	Func  *Func
}
