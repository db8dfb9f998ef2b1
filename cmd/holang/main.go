// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// holang runs holang programs.
//
//	holang [flags] [file.ho | file.hoc]
//
// With no file argument it starts an interactive REPL. The -c flag compiles
// a .ho source to a .hoc bytecode file instead of running it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/holang/holang"
	"github.com/holang/holang/encoder"
	"github.com/holang/holang/lexer"

	_ "github.com/tliron/commonlog/simple"
)

// Exit codes, one per error kind of the pipeline.
const (
	exitOK          = 0
	exitUsage       = 1
	exitParse       = 2
	exitUnsupported = 3
	exitMethod      = 4
	exitType        = 5
	exitField       = 6
	exitRuntime     = 7
)

type config struct {
	Verbose int    `toml:"verbose"`
	History string `toml:"history"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".holang.toml")
}

func loadConfig(path string, explicit bool) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return config{}, nil
		}
		return config{}, err
	}
	return cfg, nil
}

func main() {
	var (
		flagAST     = flag.Bool("ast", false, "print the AST and exit")
		flagDump    = flag.Bool("dump", false, "print the bytecode and exit")
		flagCompile = flag.String("c", "", "compile to the given .hoc file instead of running")
		flagConfig  = flag.String("config", "", "config file path (default ~/.holang.toml)")
		flagVerbose = flag.Int("verbose", 0, "log verbosity (overrides config)")
	)
	flag.Parse()

	configPath := *flagConfig
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath()
	}
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "holang:", err)
		os.Exit(exitUsage)
	}
	verbose := cfg.Verbose
	if *flagVerbose != 0 {
		verbose = *flagVerbose
	}
	commonlog.Configure(verbose, nil)
	logger := commonlog.GetLogger("holang")

	if flag.NArg() == 0 {
		if *flagAST || *flagDump || *flagCompile != "" {
			fmt.Fprintln(os.Stderr, "holang: -ast, -dump and -c require a source file")
			os.Exit(exitUsage)
		}
		r := &repl{logger: logger, history: cfg.History}
		if err := r.run(); err != nil {
			fmt.Fprintln(os.Stderr, "holang:", err)
			os.Exit(exitUsage)
		}
		return
	}

	path := flag.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "holang:", err)
		os.Exit(exitUsage)
	}

	if strings.HasSuffix(path, ".hoc") {
		bc, err := encoder.Unmarshal(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, "holang:", err)
			os.Exit(exitUsage)
		}
		runProgram(bc, logger)
		return
	}

	if *flagAST {
		prog, err := holang.Parse(src)
		if err != nil {
			fail(err)
		}
		prog.Root.Dump(os.Stdout, 0)
		return
	}

	bc, err := holang.Compile(src)
	if err != nil {
		fail(err)
	}

	switch {
	case *flagDump:
		fmt.Print(bc)
	case *flagCompile != "":
		data, err := encoder.Marshal(bc)
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(*flagCompile, data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "holang:", err)
			os.Exit(exitUsage)
		}
		logger.Infof("wrote %s (%d bytes)", *flagCompile, len(data))
	default:
		runProgram(bc, logger)
	}
}

func runProgram(bc *holang.Bytecode, logger commonlog.Logger) {
	vm := holang.NewVM(bc).SetLogger(logger)
	if _, err := vm.Run(); err != nil {
		fail(err)
	}
}

// fail prints the diagnostic and terminates with the exit code of the
// error's kind. Only the entry point terminates the process; the pipeline
// itself always returns errors.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "holang:", err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, holang.ErrUnexpectedToken):
		return exitParse
	case errors.Is(err, holang.ErrUnsupportedFeature):
		return exitUnsupported
	case errors.Is(err, holang.ErrMethodNotFound):
		return exitMethod
	case errors.Is(err, holang.ErrType):
		return exitType
	case errors.Is(err, holang.ErrFieldNotFound):
		return exitField
	}
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return exitParse
	}
	return exitRuntime
}
