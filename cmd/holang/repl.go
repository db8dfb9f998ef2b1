// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/holang/holang"
	"github.com/holang/holang/lexer"
)

const promptPrefix = ">> "

// repl evaluates lines interactively. One VM and one variable table live for
// the whole session, so top-level variables, functions and classes persist
// between inputs.
type repl struct {
	logger  commonlog.Logger
	history string

	vt   *holang.VariableTable
	vm   *holang.VM
	last *holang.Bytecode
}

func (r *repl) printInfo() {
	fmt.Println("holang interactive shell")
	fmt.Println("Write .commands to list available commands")
	fmt.Println("Press Ctrl+D or write .exit to exit")
	fmt.Println()
}

func (r *repl) historyPath() string {
	if r.history != "" {
		return r.history
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".holang_history")
}

func (r *repl) run() error {
	r.vt = holang.NewVariableTable()
	r.vm = holang.NewVM(&holang.Bytecode{}).SetLogger(r.logger)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if path := r.historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	defer func() {
		if path := r.historyPath(); path != "" {
			if f, err := os.Create(path); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}
	}()

	r.printInfo()
	for {
		input, err := line.Prompt(promptPrefix)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if strings.HasPrefix(input, ".") {
			if r.command(strings.TrimSpace(input)) {
				return nil
			}
			continue
		}
		r.eval(input)
	}
}

// command handles REPL dot-commands; it reports whether the session should
// end.
func (r *repl) command(cmd string) bool {
	switch cmd {
	case ".exit":
		return true
	case ".commands":
		fmt.Println(".commands  print this list")
		fmt.Println(".bytecode  print bytecode of the last input")
		fmt.Println(".exit      exit the shell")
	case ".bytecode":
		if r.last != nil {
			fmt.Print(r.last)
		}
	default:
		fmt.Println("unknown command:", cmd)
	}
	return false
}

func (r *repl) eval(input string) {
	toks, err := lexer.ScanAll([]byte(input))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	prog, err := holang.NewParser(toks).SetVariableTable(r.vt).Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	bc, err := prog.Compile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	r.last = bc

	value, err := r.vm.RunFragment(bc.Main, prog.NumLocals)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println("=>", value.Inspect())
}
