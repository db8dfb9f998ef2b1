// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package encoder serializes compiled holang bytecode to a compact binary
// form and back, for ahead-of-time compilation to .hoc files. Encoding is
// canonical CBOR, so identical bytecode always encodes to identical bytes.
package encoder

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/holang/holang"
)

// Version is the wire format version.
const Version = 1

// magic prefixes every encoded program.
var magic = []byte("HOLC")

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("encoder: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ErrNativeFunc is returned when the bytecode references a host native,
// which has no serializable form.
var ErrNativeFunc = errors.New("encoder: native functions cannot be encoded")

type wireProgram struct {
	Version       int        `cbor:"v"`
	NumMainLocals int        `cbor:"l"`
	Main          []wireCode `cbor:"m"`
}

type wireCode struct {
	Op    byte      `cbor:"o,omitempty"`
	Int   int       `cbor:"i,omitempty"`
	Float float64   `cbor:"d,omitempty"`
	Bool  bool      `cbor:"b,omitempty"`
	Str   string    `cbor:"s,omitempty"`
	Func  *wireFunc `cbor:"f,omitempty"`
}

type wireFunc struct {
	Name      string     `cbor:"n"`
	NumParams int        `cbor:"p"`
	NumLocals int        `cbor:"l"`
	Body      []wireCode `cbor:"c"`
}

// Marshal encodes compiled bytecode.
func Marshal(bc *holang.Bytecode) ([]byte, error) {
	main, err := toWire(bc.Main)
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(&wireProgram{
		Version:       Version,
		NumMainLocals: bc.NumMainLocals,
		Main:          main,
	})
	if err != nil {
		return nil, fmt.Errorf("encoder: marshal: %w", err)
	}
	return append(append([]byte{}, magic...), data...), nil
}

// Unmarshal decodes bytecode previously encoded with Marshal.
func Unmarshal(data []byte) (*holang.Bytecode, error) {
	if len(data) < len(magic) || string(data[:len(magic)]) != string(magic) {
		return nil, errors.New("encoder: bad magic")
	}
	var wp wireProgram
	if err := cbor.Unmarshal(data[len(magic):], &wp); err != nil {
		return nil, fmt.Errorf("encoder: unmarshal: %w", err)
	}
	if wp.Version != Version {
		return nil, fmt.Errorf("encoder: unsupported version %d", wp.Version)
	}
	bc := &holang.Bytecode{
		Main:          fromWire(wp.Main),
		NumMainLocals: wp.NumMainLocals,
	}
	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}
	return bc, nil
}

func toWire(code []holang.Code) ([]wireCode, error) {
	out := make([]wireCode, len(code))
	for i, c := range code {
		out[i] = wireCode{
			Op:    byte(c.Op),
			Int:   c.Int,
			Float: c.Float,
			Bool:  c.Bool,
			Str:   c.Str,
		}
		if c.Func != nil {
			if c.Func.IsNative() {
				return nil, ErrNativeFunc
			}
			body, err := toWire(c.Func.Body)
			if err != nil {
				return nil, err
			}
			out[i].Func = &wireFunc{
				Name:      c.Func.Name,
				NumParams: c.Func.NumParams,
				NumLocals: c.Func.NumLocals,
				Body:      body,
			}
		}
	}
	return out, nil
}

func fromWire(code []wireCode) []holang.Code {
	out := make([]holang.Code, len(code))
	for i, c := range code {
		out[i] = holang.Code{
			Op:    holang.Instruction(c.Op),
			Int:   c.Int,
			Float: c.Float,
			Bool:  c.Bool,
			Str:   c.Str,
		}
		if c.Func != nil {
			out[i].Func = &holang.Func{
				Name:      c.Func.Name,
				NumParams: c.Func.NumParams,
				NumLocals: c.Func.NumLocals,
				Body:      fromWire(c.Func.Body),
			}
		}
	}
	return out
}
