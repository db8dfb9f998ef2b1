// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package holang implements the holang scripting language: a
// recursive-descent parser producing an abstract syntax tree, a code
// generator lowering the tree to stack-based bytecode, and a virtual machine
// executing the bytecode against a dynamic object/class model.
package holang

import (
	"io"

	"github.com/holang/holang/lexer"
)

// Parse lexes and parses holang source text.
func Parse(src []byte) (*Program, error) {
	toks, err := lexer.ScanAll(src)
	if err != nil {
		return nil, err
	}
	return NewParser(toks).Parse()
}

// Compile parses source text and lowers it to bytecode.
func Compile(src []byte) (*Bytecode, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return prog.Compile()
}

// Eval compiles and runs source text with the given streams, returning the
// value of the last top-level statement.
func Eval(src []byte, stdin io.Reader, stdout io.Writer) (Value, error) {
	bc, err := Compile(src)
	if err != nil {
		return Value{}, err
	}
	vm := NewVM(bc)
	if stdin != nil {
		vm.SetInput(stdin)
	}
	if stdout != nil {
		vm.SetOutput(stdout)
	}
	return vm.Run()
}
