// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/holang/holang"
	"github.com/holang/holang/lexer"
)

func expectRun(t *testing.T, src string, want Value) {
	t.Helper()
	got, err := NewVM(compile(t, src)).Run()
	require.NoError(t, err, "script:\n%s", src)
	require.Equal(t, want, got, "script:\n%s", src)
}

func expectErrIs(t *testing.T, src string, sentinel error) {
	t.Helper()
	_, err := NewVM(compile(t, src)).Run()
	require.ErrorIs(t, err, sentinel, "script:\n%s", src)
}

func expectOut(t *testing.T, src, stdin, want string) {
	t.Helper()
	var out bytes.Buffer
	_, err := Eval([]byte(src), strings.NewReader(stdin), &out)
	require.NoError(t, err, "script:\n%s", src)
	require.Equal(t, want, out.String(), "script:\n%s", src)
}

func TestVMArithmetic(t *testing.T) {
	expectRun(t, "1 + 2 * 3", IntVal(7))
	expectRun(t, "10 - 2 - 4", IntVal(4))
	expectRun(t, "20 / 2 / 5", IntVal(2))
	expectRun(t, "2 * 3 + 4 * 5", IntVal(26))
	expectRun(t, "7 / 2", IntVal(3))
}

func TestVMComparison(t *testing.T) {
	expectRun(t, "1 < 2", BoolVal(true))
	expectRun(t, "2 < 1", BoolVal(false))
	expectRun(t, "2 > 1", BoolVal(true))
	expectRun(t, "1 + 1 < 1 + 2", BoolVal(true))
}

func TestVMLiterals(t *testing.T) {
	expectRun(t, "42", IntVal(42))
	expectRun(t, "true", BoolVal(true))
	expectRun(t, "false", BoolVal(false))
	expectRun(t, `"hello"`, StrVal("hello"))
	expectRun(t, "", IntVal(0))
}

func TestVMStatementValue(t *testing.T) {
	// every statement leaves a value; the last one is the program result
	expectRun(t, "1\n2\n3", IntVal(3))
	expectRun(t, "a = 5", IntVal(5))
	expectRun(t, "func f() { 1 }", IntVal(0))
	expectRun(t, "class C { }", IntVal(0))
}

func TestVMBranching(t *testing.T) {
	expectRun(t, "if 1 < 2 { 10 } else { 20 }", IntVal(10))
	expectRun(t, "if 2 < 1 { 10 } else { 20 }", IntVal(20))
	expectRun(t, "if 2 < 1 { 10 }", IntVal(0))
	expectRun(t, "if 1 < 2 { } else { 20 }", IntVal(0))
	expectRun(t, `
if 3 < 2 {
	1
} else if 3 < 4 {
	2
} else {
	3
}`, IntVal(2))
}

func TestVMTruthiness(t *testing.T) {
	// only the boolean true object selects the then branch
	expectRun(t, "if true { 1 } else { 2 }", IntVal(1))
	expectRun(t, "if false { 1 } else { 2 }", IntVal(2))
	expectRun(t, "if 1 { 1 } else { 2 }", IntVal(2))
	expectRun(t, "if 0 { 1 } else { 2 }", IntVal(2))
	expectRun(t, `if "yes" { 1 } else { 2 }`, IntVal(2))
}

func TestVMAssignment(t *testing.T) {
	expectRun(t, "a = 3\na + 4", IntVal(7))
	expectRun(t, "a = 1\na = a + 1\na = a + 1\na", IntVal(3))
	// assignment is an expression and chains right to left
	expectRun(t, "a = b = 3\na + b", IntVal(6))
}

func TestVMFunctions(t *testing.T) {
	expectRun(t, "func add(a, b) { a + b }\nadd(2, 3)", IntVal(5))
	expectRun(t, "func id(x) { x }\nid(id(9))", IntVal(9))
	expectRun(t, `
func fib(n) {
	if n < 2 {
		n
	} else {
		fib(n - 1) + fib(n - 2)
	}
}
fib(10)`, IntVal(55))
	// a function body's last statement is its return value
	expectRun(t, "func f() { 1\n2\n3 }\nf()", IntVal(3))
	expectRun(t, "func f() { }\nf()", IntVal(0))
}

func TestVMScoping(t *testing.T) {
	expectRun(t, `
a = 1
func f() {
	a = 99
	a
}
f()
a`, IntVal(1))
	expectRun(t, `
a = 1
func f() {
	a = 99
	a
}
f()`, IntVal(99))
	expectRun(t, `
func f(x) {
	y = x + 1
	y
}
f(1) + f(10)`, IntVal(13))
}

func TestVMWrongArgCount(t *testing.T) {
	expectErrIs(t, "func f(a) { a }\nf()", ErrWrongNumArguments)
	expectErrIs(t, "func f() { 1 }\nf(1, 2)", ErrWrongNumArguments)
	expectErrIs(t, "5.succ(1)", ErrWrongNumArguments)
}

func TestVMIntNatives(t *testing.T) {
	expectRun(t, "5.to_s()", StrVal("5"))
	expectRun(t, "a = 0 - 5\na.abs()", IntVal(5))
	expectRun(t, "5.abs()", IntVal(5))
	expectRun(t, "41.succ()", IntVal(42))
	expectRun(t, "1.succ().succ().succ()", IntVal(4))
}

func TestVMStringNatives(t *testing.T) {
	expectRun(t, `"hello".len()`, IntVal(5))
	expectRun(t, `"ab".concat("cd")`, StrVal("abcd"))
	expectRun(t, `"ab".concat(12)`, StrVal("ab12"))
	expectRun(t, `"go".upcase()`, StrVal("GO"))
	expectRun(t, `"abc".reverse()`, StrVal("cba"))
	expectRun(t, `"x".to_s()`, StrVal("x"))
	expectRun(t, "true.to_s()", StrVal("true"))
}

func TestVMMethodResolutionFailure(t *testing.T) {
	expectErrIs(t, "5.bogus()", ErrMethodNotFound)
	expectErrIs(t, `"s".bogus()`, ErrMethodNotFound)
	expectErrIs(t, "bogus()", ErrMethodNotFound)
	expectErrIs(t, `
class C { }
c = C.new()
c.bogus()`, ErrMethodNotFound)
}

func TestVMFieldResolutionFailure(t *testing.T) {
	expectErrIs(t, "nothere", ErrFieldNotFound)
	expectErrIs(t, "a = 1\na.field", ErrFieldNotFound)
}

func TestVMRuntimeTypeErrors(t *testing.T) {
	expectErrIs(t, `1 + "x"`, ErrType)
	expectErrIs(t, `"x" + 1`, ErrType)
	expectErrIs(t, "true + true", ErrType)
	expectErrIs(t, "1 < true", ErrType)
}

func TestVMZeroDivision(t *testing.T) {
	expectErrIs(t, "1 / 0", ErrZeroDivision)
	expectErrIs(t, "a = 0\n10 / a", ErrZeroDivision)
}

func TestVMStackOverflow(t *testing.T) {
	expectErrIs(t, "func f() { f() }\nf()", ErrStackOverflow)
}

func TestVMClasses(t *testing.T) {
	expectRun(t, `
class Point {
	func sum(a, b) {
		a + b
	}
}
p = Point.new()
p.sum(3, 4)`, IntVal(7))

	expectRun(t, `
class Counter {
	func init() {
		0
	}
	func next(n) {
		n.succ()
	}
}
c = Counter.new()
c.next(6)`, IntVal(7))

	// init receives the constructor arguments
	expectRun(t, `
class Box {
	func init(v) {
		v
	}
}
Box.new(5)
1`, IntVal(1))
}

func TestVMContinuesAfterInit(t *testing.T) {
	// `new` runs init through a nested call into the VM; the statements
	// after it must still execute in the original frame
	expectRun(t, `
class C {
	func init() { 0 }
}
a = C.new()
b = 40
b + 2`, IntVal(42))

	// one nested constructor per loop iteration, interleaved with plain
	// calls in the outer frame
	expectRun(t, `
class Pair {
	func init() { 0 }
	func sum(a, b) { a + b }
}
x = Pair.new().sum(1, 2)
y = Pair.new().sum(3, 4)
x + y`, IntVal(10))

	expectOut(t, `
class Greeter {
	func init() {
		puts("built")
	}
}
Greeter.new()
puts("after")`, "", "built\nafter\n")
}

func TestVMClassInstantiationErrors(t *testing.T) {
	expectErrIs(t, `
class C { }
C.new(1)`, ErrWrongNumArguments)
	expectErrIs(t, `
class C {
	func init(a) { a }
}
C.new()`, ErrWrongNumArguments)

	// resolution on primitive receivers terminates at the built-in class,
	// never reaching Class's `new`
	expectErrIs(t, "5.new()", ErrMethodNotFound)
	expectErrIs(t, `"s".new()`, ErrMethodNotFound)
	expectErrIs(t, "true.new()", ErrMethodNotFound)
	expectErrIs(t, "new()", ErrMethodNotFound)
}

func TestVMMethodOverride(t *testing.T) {
	// a later definition in the same class body wins
	expectRun(t, `
class C {
	func v() { 1 }
	func v() { 2 }
}
C.new().v()`, IntVal(2))
}

func TestVMClassLookupByName(t *testing.T) {
	// class names resolve through the top-level object's fields
	expectRun(t, `
class A {
	func tag() { 1 }
}
class B {
	func tag() { 2 }
}
A.new().tag() + B.new().tag()`, IntVal(3))
}

func TestVMOutput(t *testing.T) {
	expectOut(t, `puts("hello")`, "", "hello\n")
	expectOut(t, "puts(1 + 2)", "", "3\n")
	expectOut(t, `print("a")
print("b")`, "", "ab")
	expectOut(t, `p("s")`, "", `"s"`+"\n")
	expectOut(t, "p(12)", "", "12\n")
	expectOut(t, "puts(1, 2, 3)", "", "1\n2\n3\n")
	expectOut(t, "puts(true)\nputs(false)", "", "true\nfalse\n")
}

func TestVMInput(t *testing.T) {
	expectOut(t, "puts(gets())", "world\n", "world\n")
	expectOut(t, `name = gets()
puts("hi ".concat(name))`, "ada", "hi ada\n")
	// end of input reads as the empty string
	expectOut(t, "puts(gets().len())", "", "0\n")
	expectOut(t, "puts(gets())\nputs(gets())", "a\r\nb\n", "a\nb\n")
}

func TestVMImport(t *testing.T) {
	bc := compile(t, `import "math"`)
	vm := NewVM(bc).SetImporter(func(module Value) (Value, error) {
		require.Equal(t, StrVal("math"), module)
		return IntVal(77), nil
	})
	got, err := vm.Run()
	require.NoError(t, err)
	require.Equal(t, IntVal(77), got)

	// without a resolver an import is a no-op statement
	expectRun(t, `import "math"`+"\n5", IntVal(5))
	expectRun(t, `import "math"`, IntVal(0))
}

func TestVMFragments(t *testing.T) {
	// fragments share locals across runs, REPL style
	prog, err := Parse([]byte("a = 2"))
	require.NoError(t, err)
	bc, err := prog.Compile()
	require.NoError(t, err)

	vm := NewVM(bc)
	got, err := vm.Run()
	require.NoError(t, err)
	require.Equal(t, IntVal(2), got)

	vt := NewVariableTable()
	require.Equal(t, 0, vt.Define("a"))

	toks, err := lexer.ScanAll([]byte("a + 40"))
	require.NoError(t, err)
	prog, err = NewParser(toks).SetVariableTable(vt).Parse()
	require.NoError(t, err)
	next, err := prog.Compile()
	require.NoError(t, err)
	got, err = vm.RunFragment(next.Main, next.NumMainLocals)
	require.NoError(t, err)
	require.Equal(t, IntVal(42), got)
}

func TestVMCallMethodFromHost(t *testing.T) {
	bc := compile(t, `
class Adder {
	func add(a, b) { a + b }
}
Adder.new()`)
	vm := NewVM(bc)
	inst, err := vm.Run()
	require.NoError(t, err)
	require.Equal(t, ValueObject, inst.Kind)

	got, err := vm.CallMethod(inst, "add", []Value{IntVal(20), IntVal(22)})
	require.NoError(t, err)
	require.Equal(t, IntVal(42), got)

	_, err = vm.CallMethod(inst, "missing", nil)
	require.ErrorIs(t, err, ErrMethodNotFound)
}

func TestVMDeterministic(t *testing.T) {
	src := `
func weigh(a, b) {
	if a < b { b } else { a }
}
x = weigh(3, 9)
y = weigh(x, 4)
x * 100 + y`
	bc := compile(t, src)
	for i := 0; i < 3; i++ {
		got, err := NewVM(bc).Run()
		require.NoError(t, err)
		require.Equal(t, IntVal(909), got)
	}
}
