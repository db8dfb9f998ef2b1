// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"
	"strings"
)

// Built-in class singletons. They are created once at startup and their
// method tables are never mutated afterwards. Unlike user-defined classes
// they have no metaclass: resolution against a built-in terminates at its
// own method map, so `new` never resolves on a primitive receiver.
var (
	// ClassClass is the class of user-defined classes; it provides `new`.
	ClassClass = &Object{ClassName: "Class"}

	// IntClass is the fixed resolution target for primitive integers.
	IntClass = NewClass("Int", nil)

	// StringClass is the class of boxed strings.
	StringClass = NewClass("String", nil)

	// BoolClass is the class of the two boolean singletons.
	BoolClass = NewClass("Bool", nil)

	// KernelClass carries the top-level natives; the top-level receiver is
	// an instance of it.
	KernelClass = NewClass("Kernel", nil)

	// True and False are the shared boolean objects.
	True  = &Object{Klass: BoolClass, Bool: true}
	False = &Object{Klass: BoolClass, Bool: false}
)

func init() {
	ClassClass.SetMethod("new", NewNativeFunc("new", nativeNew))

	IntClass.SetMethod("to_s", NewNativeFunc("to_s", nativeToS))
	IntClass.SetMethod("abs", NewNativeFunc("abs", nativeIntAbs))
	IntClass.SetMethod("succ", NewNativeFunc("succ", nativeIntSucc))

	StringClass.SetMethod("to_s", NewNativeFunc("to_s", nativeToS))
	StringClass.SetMethod("len", NewNativeFunc("len", nativeStringLen))
	StringClass.SetMethod("concat", NewNativeFunc("concat", nativeStringConcat))
	StringClass.SetMethod("upcase", NewNativeFunc("upcase", nativeStringUpcase))
	StringClass.SetMethod("reverse", NewNativeFunc("reverse", nativeStringReverse))

	BoolClass.SetMethod("to_s", NewNativeFunc("to_s", nativeToS))

	KernelClass.SetMethod("puts", NewNativeFunc("puts", nativePuts))
	KernelClass.SetMethod("print", NewNativeFunc("print", nativePrint))
	KernelClass.SetMethod("p", NewNativeFunc("p", nativeP))
	KernelClass.SetMethod("gets", NewNativeFunc("gets", nativeGets))
}

// nativeNew allocates an instance of the receiver class and runs its init
// method, when one is defined, with the call's arguments.
func nativeNew(vm *VM, self Value, args []Value) (Value, error) {
	if self.Kind != ValueObject || self.Obj == nil || !self.Obj.IsClass() {
		return Value{}, ErrType.NewError(
			fmt.Sprintf("new: receiver %s is not a class", self.Inspect()))
	}
	inst := ObjVal(NewObject(self.Obj))
	if _, ok := self.Obj.FindMethod("init"); ok {
		if _, err := vm.CallMethod(inst, "init", args); err != nil {
			return Value{}, err
		}
	} else if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("new: want=0 got=%d", len(args)))
	}
	return inst, nil
}

func nativeToS(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("to_s: want=0 got=%d", len(args)))
	}
	return StrVal(self.String()), nil
}

func nativeIntAbs(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("abs: want=0 got=%d", len(args)))
	}
	if self.Int < 0 {
		return IntVal(-self.Int), nil
	}
	return self, nil
}

func nativeIntSucc(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("succ: want=0 got=%d", len(args)))
	}
	return IntVal(self.Int + 1), nil
}

func nativeStringLen(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("len: want=0 got=%d", len(args)))
	}
	return IntVal(int64(len(self.Obj.Str))), nil
}

func nativeStringConcat(_ *VM, self Value, args []Value) (Value, error) {
	var sb strings.Builder
	sb.WriteString(self.Obj.Str)
	for _, arg := range args {
		sb.WriteString(arg.String())
	}
	return StrVal(sb.String()), nil
}

func nativeStringUpcase(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("upcase: want=0 got=%d", len(args)))
	}
	return StrVal(strings.ToUpper(self.Obj.Str)), nil
}

func nativeStringReverse(_ *VM, self Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("reverse: want=0 got=%d", len(args)))
	}
	runes := []rune(self.Obj.Str)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return StrVal(string(runes)), nil
}

func nativePuts(vm *VM, _ Value, args []Value) (Value, error) {
	if len(args) == 0 {
		fmt.Fprintln(vm.stdout)
	}
	for _, arg := range args {
		fmt.Fprintln(vm.stdout, arg.String())
	}
	return IntVal(0), nil
}

func nativePrint(vm *VM, _ Value, args []Value) (Value, error) {
	for _, arg := range args {
		fmt.Fprint(vm.stdout, arg.String())
	}
	return IntVal(0), nil
}

// nativeP prints each argument in inspect form and returns the last
// argument, which makes it usable as a pass-through probe.
func nativeP(vm *VM, _ Value, args []Value) (Value, error) {
	ret := IntVal(0)
	for _, arg := range args {
		fmt.Fprintln(vm.stdout, arg.Inspect())
		ret = arg
	}
	return ret, nil
}

// nativeGets reads one line from the VM's input, without the trailing
// newline. End of input yields the empty string.
func nativeGets(vm *VM, _ Value, args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, ErrWrongNumArguments.NewError(
			fmt.Sprintf("gets: want=0 got=%d", len(args)))
	}
	line, err := vm.stdin.ReadString('\n')
	if err != nil && line == "" {
		return StrVal(""), nil
	}
	return StrVal(strings.TrimRight(line, "\r\n")), nil
}
