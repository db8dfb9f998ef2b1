// Copyright (c) 2026 The holang Authors.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package holang

import "fmt"

// Error is the structured error type threaded through the parser, the code
// generator and the VM. Sentinel errors below are the taxonomy roots;
// NewError derives a detailed error that wraps its sentinel so callers can
// classify with errors.Is.
type Error struct {
	Name    string
	Message string
	Cause   error
}

var _ error = (*Error)(nil)

// NewError creates a new Error with this error as the cause.
func (e *Error) NewError(message string) *Error {
	return &Error{
		Name:    e.Name,
		Message: message,
		Cause:   e,
	}
}

func (e *Error) Error() string {
	name := e.Name
	if name == "" {
		name = "error"
	}
	if e.Message == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

var (
	// ErrUnexpectedToken is returned by the Parser when the token stream
	// does not match the grammar. Detailed errors report both the expected
	// and the actual token.
	ErrUnexpectedToken = &Error{Name: "ParseError"}

	// ErrUnsupportedFeature is returned by code generation for constructs
	// the grammar accepts but the language deliberately does not implement.
	ErrUnsupportedFeature = &Error{Name: "UnsupportedFeatureError"}

	// ErrMethodNotFound is returned when method resolution exhausts the
	// receiver's class chain without a match.
	ErrMethodNotFound = &Error{Name: "MethodResolutionError"}

	// ErrFieldNotFound is returned by field access on a missing field.
	ErrFieldNotFound = &Error{Name: "FieldAccessError"}

	// ErrType is returned when an instruction receives operands of the
	// wrong value kind.
	ErrType = &Error{Name: "RuntimeTypeError"}

	// ErrZeroDivision is returned when a divisor is zero.
	ErrZeroDivision = &Error{Name: "ZeroDivisionError"}

	// ErrWrongNumArguments is returned when a call's argument count does
	// not match the callee's parameter count.
	ErrWrongNumArguments = &Error{Name: "WrongNumberOfArgumentsError"}

	// ErrStackOverflow is returned when the operand stack or the call-frame
	// stack is exhausted.
	ErrStackOverflow = &Error{Name: "StackOverflowError"}

	// ErrNoDefinitionContext is returned when PrevEnv executes with no
	// class-definition context to pop.
	ErrNoDefinitionContext = &Error{Name: "NoDefinitionContextError"}

	// ErrInvalidBytecode is returned when the VM detects a malformed code
	// buffer: stack underflow, a local slot outside the frame's width, an
	// unknown instruction, or a function body that ends without RET.
	ErrInvalidBytecode = &Error{Name: "InvalidBytecodeError"}
)

// NewOperandTypeError creates a new Error from ErrType for a binary operator.
func NewOperandTypeError(op, leftType, rightType string) *Error {
	return ErrType.NewError(
		fmt.Sprintf("unsupported operand types for '%s': '%s' and '%s'",
			op, leftType, rightType))
}

// NewMethodNotFoundError creates a new Error from ErrMethodNotFound.
func NewMethodNotFoundError(receiver, name string) *Error {
	return ErrMethodNotFound.NewError(
		fmt.Sprintf("undefined method '%s' for %s", name, receiver))
}

// NewFieldNotFoundError creates a new Error from ErrFieldNotFound.
func NewFieldNotFoundError(receiver, name string) *Error {
	return ErrFieldNotFound.NewError(
		fmt.Sprintf("undefined field '%s' for %s", name, receiver))
}
