// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
)

const (
	// StackSize is the operand stack capacity.
	StackSize = 2048
	// MaxFrames is the call-frame stack capacity.
	MaxFrames = 1024
)

// ImportFunc resolves the operand of an import statement to a module value.
type ImportFunc func(module Value) (Value, error)

// frame is one call record: the flat buffer being executed, the program
// counter into it, the frame's locals, the receiver, and the operand-stack
// index of the receiver slot the frame was entered from. The caller's code
// and program counter live in the frame below.
type frame struct {
	code        []Code
	ip          int
	locals      []Value
	self        Value
	basePointer int
}

// VM executes compiled holang bytecode. It is a single-threaded stack
// machine; the operand stack and the frame stack are owned exclusively by
// the execution loop. Errors are returned to the caller, never fatal inside
// the VM.
type VM struct {
	bytecode   *Bytecode
	stack      [StackSize]Value
	sp         int
	frames     [MaxFrames]frame
	frameIndex int
	curFrame   *frame

	mainLocals []Value
	globals    *Object
	classes    map[string]*Object
	envs       []*Object

	stdin    *bufio.Reader
	stdout   io.Writer
	importer ImportFunc
	logger   commonlog.Logger
}

// NewVM creates a VM for the given bytecode. The top-level receiver is a
// fresh Kernel instance; the built-in classes are registered in the class
// namespace and as fields of the top-level receiver so their names resolve
// as values.
func NewVM(bc *Bytecode) *VM {
	globals := NewObject(KernelClass)
	classes := map[string]*Object{
		"Int":    IntClass,
		"String": StringClass,
		"Bool":   BoolClass,
		"Class":  ClassClass,
		"Kernel": KernelClass,
	}
	for name, klass := range classes {
		globals.SetField(name, ObjVal(klass))
	}
	return &VM{
		bytecode: bc,
		globals:  globals,
		classes:  classes,
		envs:     []*Object{globals},
		stdin:    bufio.NewReader(os.Stdin),
		stdout:   os.Stdout,
	}
}

// SetInput sets the reader built-in input functions read from.
func (vm *VM) SetInput(r io.Reader) *VM {
	vm.stdin = bufio.NewReader(r)
	return vm
}

// SetOutput sets the writer built-in output functions write to.
func (vm *VM) SetOutput(w io.Writer) *VM {
	vm.stdout = w
	return vm
}

// SetImporter sets the module resolution hook used by import statements.
// Without one, import is a stub resolving every module to the zero value.
func (vm *VM) SetImporter(fn ImportFunc) *VM {
	vm.importer = fn
	return vm
}

// SetLogger sets an optional diagnostics logger.
func (vm *VM) SetLogger(logger commonlog.Logger) *VM {
	vm.logger = logger
	return vm
}

// Run executes the program and returns the value of its last top-level
// statement.
func (vm *VM) Run() (Value, error) {
	if vm.mainLocals == nil {
		vm.mainLocals = make([]Value, vm.bytecode.NumMainLocals)
	}
	return vm.RunFragment(vm.bytecode.Main, vm.bytecode.NumMainLocals)
}

// RunFragment executes a code buffer in the top-level frame, growing the
// top-level locals to numLocals. Top-level bindings, classes and functions
// persist across fragments, which is what keeps REPL state alive between
// inputs.
func (vm *VM) RunFragment(code []Code, numLocals int) (Value, error) {
	for len(vm.mainLocals) < numLocals {
		vm.mainLocals = append(vm.mainLocals, Value{})
	}
	vm.sp = 0
	vm.frames[0] = frame{
		code:   code,
		locals: vm.mainLocals,
		self:   ObjVal(vm.globals),
	}
	vm.frameIndex = 1
	vm.curFrame = &vm.frames[0]
	return vm.loop(1)
}

// CallMethod resolves and invokes a method on a receiver from host code.
// Native methods run synchronously; bytecode methods run to completion on
// the VM's own stacks. Built-in natives use this to call back into user
// code.
func (vm *VM) CallMethod(recv Value, name string, args []Value) (Value, error) {
	fn, err := recv.FindMethod(name)
	if err != nil {
		return Value{}, err
	}
	return vm.callFunc(fn, recv, args)
}

func (vm *VM) callFunc(fn *Func, recv Value, args []Value) (Value, error) {
	if fn.IsNative() {
		return fn.Native(vm, recv, args)
	}
	if len(args) != fn.NumParams {
		return Value{}, ErrWrongNumArguments.NewError(fmt.Sprintf(
			"%s: want=%d got=%d", fn.Name, fn.NumParams, len(args)))
	}
	base := vm.sp
	if err := vm.push(recv); err != nil {
		return Value{}, err
	}
	for _, arg := range args {
		if err := vm.push(arg); err != nil {
			return Value{}, err
		}
	}
	if err := vm.pushFrame(fn, recv, base); err != nil {
		return Value{}, err
	}
	return vm.loop(vm.frameIndex)
}

func (vm *VM) pushFrame(fn *Func, recv Value, base int) error {
	if vm.frameIndex == MaxFrames {
		return ErrStackOverflow.NewError("call frames exhausted")
	}
	numLocals := fn.NumLocals
	if numLocals < fn.NumParams {
		numLocals = fn.NumParams
	}
	locals := make([]Value, numLocals)
	copy(locals, vm.stack[base+1:base+1+fn.NumParams])

	f := &vm.frames[vm.frameIndex]
	*f = frame{
		code:        fn.Body,
		locals:      locals,
		self:        recv,
		basePointer: base,
	}
	vm.frameIndex++
	vm.curFrame = f
	return nil
}

func (vm *VM) push(v Value) error {
	if vm.sp == StackSize {
		return ErrStackOverflow.NewError("operand stack exhausted")
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() (Value, error) {
	if vm.sp == 0 {
		return Value{}, ErrInvalidBytecode.NewError("operand stack underflow")
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// loop is the fetch-decode-execute loop. It runs until the frame at depth
// floor returns or its buffer ends; both Run and reentrant host calls drive
// the same loop with different floors.
func (vm *VM) loop(floor int) (Value, error) {
	for {
		f := vm.curFrame
		if f.ip >= len(f.code) {
			// End of buffer: valid only as the end of execution at the
			// floor frame; compiled function bodies always end in Ret.
			if vm.frameIndex != floor {
				return Value{}, ErrInvalidBytecode.NewError("code ended without RET")
			}
			if vm.sp > f.basePointer {
				return vm.stack[vm.sp-1], nil
			}
			return IntVal(0), nil
		}

		switch op := f.code[f.ip].Op; op {
		case OpNoOp:
			f.ip++

		case OpPutInt:
			if err := vm.push(IntVal(int64(f.code[f.ip+1].Int))); err != nil {
				return Value{}, err
			}
			f.ip += 2

		case OpPutBool:
			if err := vm.push(BoolVal(f.code[f.ip+1].Bool)); err != nil {
				return Value{}, err
			}
			f.ip += 2

		case OpPutString:
			if err := vm.push(StrVal(f.code[f.ip+1].Str)); err != nil {
				return Value{}, err
			}
			f.ip += 2

		case OpLoadLocal:
			idx := f.code[f.ip+1].Int
			if idx < 0 || idx >= len(f.locals) {
				return Value{}, ErrInvalidBytecode.NewError(fmt.Sprintf(
					"local slot %d out of range (frame width %d)", idx, len(f.locals)))
			}
			if err := vm.push(f.locals[idx]); err != nil {
				return Value{}, err
			}
			f.ip += 2

		case OpStoreLocal:
			idx := f.code[f.ip+1].Int
			if idx < 0 || idx >= len(f.locals) {
				return Value{}, ErrInvalidBytecode.NewError(fmt.Sprintf(
					"local slot %d out of range (frame width %d)", idx, len(f.locals)))
			}
			if vm.sp == 0 {
				return Value{}, ErrInvalidBytecode.NewError("operand stack underflow")
			}
			// store keeps the value on the stack: assignment is an expression
			f.locals[idx] = vm.stack[vm.sp-1]
			f.ip += 2

		case OpAdd, OpSub, OpMul, OpDiv, OpLess, OpGreater:
			if err := vm.execBinop(op); err != nil {
				return Value{}, err
			}
			f.ip++

		case OpPop:
			if _, err := vm.pop(); err != nil {
				return Value{}, err
			}
			f.ip++

		case OpJumpIfNot:
			cond, err := vm.pop()
			if err != nil {
				return Value{}, err
			}
			if !cond.IsTruthy() {
				f.ip = f.code[f.ip+1].Int
			} else {
				f.ip += 2
			}

		case OpJump:
			f.ip = f.code[f.ip+1].Int

		case OpPutSelf:
			if err := vm.push(f.self); err != nil {
				return Value{}, err
			}
			f.ip++

		case OpCallFunc:
			name := f.code[f.ip+1].Str
			argc := f.code[f.ip+2].Int
			f.ip += 3
			if err := vm.execCall(name, argc); err != nil {
				return Value{}, err
			}

		case OpDefFunc:
			name := f.code[f.ip+1].Str
			fn := f.code[f.ip+2].Func
			vm.envs[len(vm.envs)-1].SetMethod(name, fn)
			f.ip += 3

		case OpLoadClass:
			name := f.code[f.ip+1].Str
			klass, ok := vm.classes[name]
			if !ok {
				klass = NewClass(name, ClassClass)
				vm.classes[name] = klass
				vm.globals.SetField(name, ObjVal(klass))
			}
			vm.envs = append(vm.envs, klass)
			f.ip += 2

		case OpPrevEnv:
			if len(vm.envs) == 1 {
				return Value{}, ErrNoDefinitionContext.NewError(
					"PREV_ENV at top level")
			}
			vm.envs = vm.envs[:len(vm.envs)-1]
			f.ip++

		case OpLoadObjField:
			name := f.code[f.ip+1].Str
			recv, err := vm.pop()
			if err != nil {
				return Value{}, err
			}
			field, err := vm.loadField(recv, name)
			if err != nil {
				return Value{}, err
			}
			if err := vm.push(field); err != nil {
				return Value{}, err
			}
			f.ip += 2

		case OpImport:
			module, err := vm.pop()
			if err != nil {
				return Value{}, err
			}
			result, err := vm.execImport(module)
			if err != nil {
				return Value{}, err
			}
			if err := vm.push(result); err != nil {
				return Value{}, err
			}
			f.ip++

		case OpRet:
			ret, err := vm.pop()
			if err != nil {
				return Value{}, err
			}
			vm.sp = f.basePointer
			vm.frameIndex--
			// the caller's frame becomes current even when the return
			// crosses the floor: a host call that drove this loop resumes
			// the outer loop on vm.curFrame afterwards
			if vm.frameIndex >= 1 {
				vm.curFrame = &vm.frames[vm.frameIndex-1]
			}
			if vm.frameIndex < floor {
				return ret, nil
			}
			if err := vm.push(ret); err != nil {
				return Value{}, err
			}

		default:
			return Value{}, ErrInvalidBytecode.NewError(fmt.Sprintf(
				"unknown instruction %d at %d", op, f.ip))
		}
	}
}

func (vm *VM) execBinop(op Instruction) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	if left.Kind != ValueInt || right.Kind != ValueInt {
		return NewOperandTypeError(op.String(), left.TypeName(), right.TypeName())
	}

	var result Value
	switch op {
	case OpAdd:
		result = IntVal(left.Int + right.Int)
	case OpSub:
		result = IntVal(left.Int - right.Int)
	case OpMul:
		result = IntVal(left.Int * right.Int)
	case OpDiv:
		if right.Int == 0 {
			return ErrZeroDivision.NewError(
				fmt.Sprintf("%d / 0", left.Int))
		}
		result = IntVal(left.Int / right.Int)
	case OpLess:
		result = BoolVal(left.Int < right.Int)
	case OpGreater:
		result = BoolVal(left.Int > right.Int)
	}
	return vm.push(result)
}

// execCall dispatches CALL_FUNC: the receiver sits below argc arguments on
// the stack. Natives run in place; bytecode methods push a frame and the
// loop transfers into the body.
func (vm *VM) execCall(name string, argc int) error {
	base := vm.sp - argc - 1
	if base < 0 {
		return ErrInvalidBytecode.NewError("operand stack underflow")
	}
	recv := vm.stack[base]
	fn, err := recv.FindMethod(name)
	if err != nil {
		return err
	}
	if vm.logger != nil {
		vm.logger.Debugf("call %s/%d on %s", name, argc, recv.TypeName())
	}

	if fn.IsNative() {
		result, err := fn.Native(vm, recv, vm.stack[base+1:vm.sp])
		if err != nil {
			return err
		}
		vm.sp = base
		return vm.push(result)
	}

	if argc != fn.NumParams {
		return ErrWrongNumArguments.NewError(fmt.Sprintf(
			"%s: want=%d got=%d", name, fn.NumParams, argc))
	}
	return vm.pushFrame(fn, recv, base)
}

// loadField resolves LOAD_OBJ_FIELD: the object's own fields, the fields of
// its class chain, then the top-level object's fields. The last step is what
// lets class names registered by LOAD_CLASS resolve as values everywhere.
func (vm *VM) loadField(recv Value, name string) (Value, error) {
	if recv.Kind == ValueObject && recv.Obj != nil {
		if v, ok := recv.Obj.FieldChain(name); ok {
			return v, nil
		}
	}
	if v, ok := vm.globals.Field(name); ok {
		return v, nil
	}
	return Value{}, NewFieldNotFoundError(recv.Inspect(), name)
}

func (vm *VM) execImport(module Value) (Value, error) {
	if vm.logger != nil {
		vm.logger.Debugf("import %s", module.Inspect())
	}
	if vm.importer == nil {
		return IntVal(0), nil
	}
	return vm.importer(module)
}
