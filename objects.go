// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import (
	"fmt"
	"strconv"
)

// ValueKind is the tag of a Value.
type ValueKind byte

// List of value kinds.
const (
	ValueInt ValueKind = iota
	ValueObject
)

// Value is one runtime stack cell: a tagged union of a primitive integer and
// a heap object reference. Booleans and strings are boxed objects under the
// same union.
type Value struct {
	Kind ValueKind
	Int  int64
	Obj  *Object
}

// IntVal creates an integer Value.
func IntVal(v int64) Value {
	return Value{Kind: ValueInt, Int: v}
}

// ObjVal creates an object Value.
func ObjVal(o *Object) Value {
	return Value{Kind: ValueObject, Obj: o}
}

// StrVal creates a boxed string Value.
func StrVal(s string) Value {
	return ObjVal(&Object{Klass: StringClass, Str: s})
}

// BoolVal returns the shared true or false singleton as a Value.
func BoolVal(b bool) Value {
	if b {
		return ObjVal(True)
	}
	return ObjVal(False)
}

// TypeName returns the name of the value's type: "Int" for primitive
// integers, otherwise the name of the object's class.
func (v Value) TypeName() string {
	switch v.Kind {
	case ValueInt:
		return "Int"
	case ValueObject:
		return v.Obj.TypeName()
	}
	return "unknown"
}

// IsTruthy reports whether the value is the boolean true object. Everything
// else, including integers, is falsey.
func (v Value) IsTruthy() bool {
	return v.Kind == ValueObject && v.Obj != nil && v.Obj.Klass == BoolClass && v.Obj.Bool
}

// FindMethod resolves a method name against the value. Primitive integers
// resolve directly against the built-in Int class; objects walk their own
// method table and then the class chain. A miss is a MethodResolutionError.
func (v Value) FindMethod(name string) (*Func, error) {
	switch v.Kind {
	case ValueInt:
		if fn, ok := IntClass.FindMethod(name); ok {
			return fn, nil
		}
	case ValueObject:
		if v.Obj != nil {
			if fn, ok := v.Obj.FindMethod(name); ok {
				return fn, nil
			}
		}
	}
	return nil, NewMethodNotFoundError(v.String(), name)
}

// String renders the value the way the language prints it.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueObject:
		if v.Obj == nil {
			return "<nil>"
		}
		return v.Obj.String()
	}
	return "<unknown>"
}

// Inspect renders the value for diagnostics; unlike String it quotes boxed
// strings.
func (v Value) Inspect() string {
	if v.Kind == ValueObject && v.Obj != nil && v.Obj.Klass == StringClass {
		return strconv.Quote(v.Obj.Str)
	}
	return v.String()
}

// Object is a heap runtime value: an instance, a class, or a boxed
// primitive. Classes and instances share this one layout; an Object with a
// non-empty ClassName is a class and its Methods table holds the instance
// methods of that class.
type Object struct {
	Klass     *Object
	ClassName string
	Methods   map[string]*Func
	Fields    map[string]Value

	// boxed primitive payloads, meaningful when Klass is StringClass or
	// BoolClass
	Str  string
	Bool bool
}

// NewObject creates an instance of the given class.
func NewObject(klass *Object) *Object {
	return &Object{Klass: klass}
}

// NewClass creates a class object with the given name. User-defined classes
// have the built-in Class singleton as their class, which provides `new`.
func NewClass(name string, meta *Object) *Object {
	return &Object{ClassName: name, Klass: meta}
}

// IsClass reports whether the object is a class.
func (o *Object) IsClass() bool {
	return o.ClassName != ""
}

// FindMethod looks up a method on the object itself and then up the class
// chain. Classes are objects too, so lookups on a class naturally continue
// into its metaclass.
func (o *Object) FindMethod(name string) (*Func, bool) {
	if fn, ok := o.Methods[name]; ok {
		return fn, true
	}
	if o.Klass != nil {
		return o.Klass.FindMethod(name)
	}
	return nil, false
}

// SetMethod binds a method on the object. On a class this defines an
// instance method; on a plain object it is a per-instance override.
func (o *Object) SetMethod(name string, fn *Func) {
	if o.Methods == nil {
		o.Methods = make(map[string]*Func)
	}
	o.Methods[name] = fn
}

// SetField binds a field on the object.
func (o *Object) SetField(name string, v Value) {
	if o.Fields == nil {
		o.Fields = make(map[string]Value)
	}
	o.Fields[name] = v
}

// Field returns the object's own field, without chain lookup.
func (o *Object) Field(name string) (Value, bool) {
	v, ok := o.Fields[name]
	return v, ok
}

// FieldChain resolves a field on the object, falling back to the fields of
// its class chain. Class names registered by class definitions resolve this
// way from method bodies.
func (o *Object) FieldChain(name string) (Value, bool) {
	if v, ok := o.Fields[name]; ok {
		return v, true
	}
	if o.Klass != nil {
		return o.Klass.FieldChain(name)
	}
	return Value{}, false
}

// TypeName returns the object's type: its own name for a class, the class
// name for an instance.
func (o *Object) TypeName() string {
	if o == nil {
		return "nil"
	}
	if o.IsClass() {
		return o.ClassName
	}
	if o.Klass != nil && o.Klass.IsClass() {
		return o.Klass.ClassName
	}
	return "Object"
}

func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	switch {
	case o.Klass == StringClass:
		return o.Str
	case o.Klass == BoolClass:
		return strconv.FormatBool(o.Bool)
	case o.IsClass():
		return "<class " + o.ClassName + ">"
	}
	return fmt.Sprintf("#<%s>", o.TypeName())
}

// NativeFunc is the signature of a host-implemented method. It receives the
// running VM so natives can perform I/O through the VM's streams or call
// back into user bytecode.
type NativeFunc func(vm *VM, self Value, args []Value) (Value, error)

// Func is a callable unit: either a host native or a compiled bytecode body.
type Func struct {
	Name      string
	Native    NativeFunc
	Body      []Code
	NumParams int
	NumLocals int
}

// NewNativeFunc creates a native Func.
func NewNativeFunc(name string, fn NativeFunc) *Func {
	return &Func{Name: name, Native: fn}
}

// IsNative reports whether the Func is host-implemented.
func (f *Func) IsNative() bool {
	return f.Native != nil
}
