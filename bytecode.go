// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bytecode holds a compiled program: the top-level flat code buffer and the
// locals width of the top-level frame. Function bodies live in their own
// buffers, carried as DefFunc operands.
type Bytecode struct {
	Main          []Code
	NumMainLocals int
}

// Validate checks the structural integrity of the code: every instruction
// is known and has its operand slots, jump targets stay inside the buffer,
// counts are non-negative, and function payloads are themselves valid. Code
// produced by the compiler is valid by construction; Validate guards code
// read back from untrusted .hoc files, so that the VM returns structured
// errors instead of panicking on malformed input.
func (bc *Bytecode) Validate() error {
	if bc.NumMainLocals < 0 {
		return ErrInvalidBytecode.NewError("negative locals width")
	}
	return validateCode(bc.Main)
}

func validateCode(code []Code) error {
	for i := 0; i < len(code); {
		op := code[i].Op
		if int(op) >= len(InstructionOperands) {
			return ErrInvalidBytecode.NewError(fmt.Sprintf(
				"unknown instruction %d at %d", op, i))
		}
		operands := InstructionOperands[op]
		if i+len(operands) >= len(code) && len(operands) > 0 {
			return ErrInvalidBytecode.NewError(fmt.Sprintf(
				"%s at %d: missing operands", op, i))
		}

		switch op {
		case OpJump, OpJumpIfNot:
			// a target equal to the buffer length is the end of execution
			if t := code[i+1].Int; t < 0 || t > len(code) {
				return ErrInvalidBytecode.NewError(fmt.Sprintf(
					"%s at %d: target %d out of range", op, i, t))
			}
		case OpLoadLocal, OpStoreLocal:
			if code[i+1].Int < 0 {
				return ErrInvalidBytecode.NewError(fmt.Sprintf(
					"%s at %d: negative local slot", op, i))
			}
		case OpCallFunc:
			if code[i+2].Int < 0 {
				return ErrInvalidBytecode.NewError(fmt.Sprintf(
					"CALL_FUNC at %d: negative argument count", i))
			}
		case OpDefFunc:
			fn := code[i+2].Func
			if fn == nil {
				return ErrInvalidBytecode.NewError(fmt.Sprintf(
					"DEF_FUNC at %d: missing function payload", i))
			}
			if fn.NumParams < 0 || fn.NumLocals < 0 {
				return ErrInvalidBytecode.NewError(fmt.Sprintf(
					"DEF_FUNC at %d: negative frame counts", i))
			}
			if !fn.IsNative() {
				if err := validateCode(fn.Body); err != nil {
					return err
				}
			}
		}
		i += 1 + len(operands)
	}
	return nil
}

func (bc *Bytecode) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "main (locals=%d):\n", bc.NumMainLocals)
	DumpCode(&sb, bc.Main, "  ")
	return sb.String()
}

// DumpCode renders a flat code buffer for diagnostics: one op+operands unit
// per line with its absolute offset, function payloads expanded inline with
// deeper indentation. Not part of the functional contract.
func DumpCode(w io.Writer, code []Code, indent string) {
	i := 0
	for i < len(code) {
		op := code[i].Op
		if int(op) >= len(InstructionOperands) {
			fmt.Fprintf(w, "%s%04d ???(%d)\n", indent, i, op)
			i++
			continue
		}
		operands := InstructionOperands[op]
		fmt.Fprintf(w, "%s%04d %-14s", indent, i, op)
		if i+len(operands) >= len(code) {
			fmt.Fprintf(w, " <truncated>\n")
			return
		}

		var fn *Func
		for k, kind := range operands {
			slot := code[i+1+k]
			switch kind {
			case OperandInt:
				fmt.Fprintf(w, " %d", slot.Int)
			case OperandFloat:
				fmt.Fprintf(w, " %g", slot.Float)
			case OperandBool:
				fmt.Fprintf(w, " %v", slot.Bool)
			case OperandString:
				fmt.Fprintf(w, " %s", strconv.Quote(slot.Str))
			case OperandFunc:
				if fn = slot.Func; fn == nil {
					fmt.Fprintf(w, " <func nil>")
					break
				}
				fmt.Fprintf(w, " <func %s params=%d locals=%d>",
					fn.Name, fn.NumParams, fn.NumLocals)
			}
		}
		io.WriteString(w, "\n")
		if fn != nil && !fn.IsNative() {
			DumpCode(w, fn.Body, indent+"    ")
		}
		i += 1 + len(operands)
	}
}
