package vm

import (
	"fmt"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
	"gopkg.in/sourcemap.v1"
)

// ErrorKind is the error taxonomy surfacing at the VM boundary (spec.md
// §7): carries a message for the built-in kinds, an arbitrary thrown
// value for Throw, or nothing beyond a string for the generic Error
// kind. Ported from original_source/crates/yavashark_value/src/error.rs's
// ErrorKind enum.
type ErrorKind uint8

const (
	KindGeneric ErrorKind = iota
	KindType
	KindReference
	KindRange
	KindSyntax
	KindInternal
	KindRuntime
	KindThrow
)

func (k ErrorKind) String() string {
	switch k {
	case KindType:
		return "TypeError"
	case KindReference:
		return "ReferenceError"
	case KindRange:
		return "RangeError"
	case KindSyntax:
		return "SyntaxError"
	case KindInternal:
		return "InternalError"
	case KindRuntime:
		return "RuntimeError"
	case KindThrow:
		return "Throw"
	default:
		return "Error"
	}
}

// StackFrame is one entry of an Error's captured call stack: a function
// name plus a source location, resolved through a source map when one is
// attached to the originating FunctionCode (spec.md §6.4's "function
// name + source location frame").
type StackFrame struct {
	Function string
	File     string
	Line     uint32
	Column   uint32
}

func (f StackFrame) String() string {
	return fmt.Sprintf("    at %s (%s:%d:%d)", f.Function, f.File, f.Line, f.Column)
}

// Error is the Go error type threaded through the VM and realm (spec.md
// §7): a kind, a message, a stack trace built up as the error unwinds
// through call frames, and — for ErrorKind Throw — the thrown JS value
// itself.
type Error struct {
	Kind    ErrorKind
	Message string
	Thrown  value.Value
	Stack   []StackFrame
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindThrow {
		msg = debugDisplay(e.Thrown)
	}
	if msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + msg
}

// debugDisplay is a Caller-free, best-effort rendering of a thrown value
// for the Go error string — real `toString` coercion (which may invoke
// user code) happens through value.ToString wherever a Caller is in
// hand; this is only ever seen in logs/panics.
func debugDisplay(v value.Value) string {
	switch {
	case v.IsString():
		return string(v.String_())
	case v.IsNumber():
		return fmt.Sprintf("%v", v.Float())
	case v.IsBoolean():
		return fmt.Sprintf("%v", v.Bool())
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	case v.IsObject():
		if v.Object() != nil {
			return "[object " + v.Object().ClassName() + "]"
		}
		return "null"
	default:
		return v.TypeOf()
	}
}

// WithFrame appends a call-site to the error's stack trace as it
// propagates up through CallBytecode activations.
func (e *Error) WithFrame(function, file string, line, column uint32) *Error {
	e.Stack = append(e.Stack, StackFrame{Function: function, File: file, Line: line, Column: column})
	return e
}

// FormatStack renders the full "<Kind>: <message>\n  at ..." text shown
// to a host embedder on an uncaught error (spec.md §7 "Uncaught errors").
func (e *Error) FormatStack() string {
	s := e.Error()
	for _, f := range e.Stack {
		s += "\n" + f.String()
	}
	return s
}

func newError(kind ErrorKind, format string, a ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func NewTypeError(format string, a ...any) *Error      { return newError(KindType, format, a...) }
func NewReferenceError(format string, a ...any) *Error { return newError(KindReference, format, a...) }
func NewRangeError(format string, a ...any) *Error     { return newError(KindRange, format, a...) }
func NewSyntaxError(format string, a ...any) *Error    { return newError(KindSyntax, format, a...) }
func NewInternalError(format string, a ...any) *Error  { return newError(KindInternal, format, a...) }
func NewRuntimeError(format string, a ...any) *Error   { return newError(KindRuntime, format, a...) }

// NewThrow wraps an arbitrary thrown value (a `throw expr;` statement,
// spec.md §7's "Throw(Value)").
func NewThrow(v value.Value) *Error { return &Error{Kind: KindThrow, Thrown: v} }

// AsError adapts any Go error into a VM *Error — errors already of that
// type pass through unchanged; anything else (a coercion failure from
// package value's Caller seam, for instance) becomes a RuntimeError.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if object.IsTypeError(err) {
		return NewTypeError("%s", err.Error())
	}
	return NewRuntimeError("%s", err.Error())
}

// ToErrorObject reifies an *Error into the JS-visible Error instance the
// nearest catch block receives in the accumulator (spec.md §7's "the
// error is reified via a constructor mapping kind → error subclass").
// protos supplies the kind → prototype mapping the realm's intrinsics
// installed.
func (e *Error) ToErrorObject(protos map[ErrorKind]object.Obj) value.Value {
	if e.Kind == KindThrow {
		return e.Thrown
	}
	proto := protos[e.Kind]
	obj := object.NewErrorObject(proto, toObjectKind(e.Kind), e.Message)
	for _, f := range e.Stack {
		obj.AttachFrame(f.Function, f.File, f.Line, f.Column)
	}
	return value.FromObj(obj)
}

func toObjectKind(k ErrorKind) object.ErrorKind {
	switch k {
	case KindType:
		return object.KindType
	case KindReference:
		return object.KindReference
	case KindRange:
		return object.KindRange
	case KindSyntax:
		return object.KindSyntax
	case KindInternal:
		return object.KindInternal
	case KindRuntime:
		return object.KindRuntime
	default:
		return object.KindError
	}
}

// remapLocation resolves a compiled instruction's generated (line, column)
// back to original source coordinates through a parsed source map, when
// the FunctionCode's compiler attached one (§2 AMBIENT STACK: debugging
// support via gopkg.in/sourcemap.v1). A nil consumer or a failed lookup
// returns the generated coordinates unchanged.
func remapLocation(consumer *sourcemap.Consumer, line, column int) (file string, outLine, outColumn int) {
	if consumer == nil {
		return "", line, column
	}
	source, _, rLine, rCol, ok := consumer.Source(line, column)
	if !ok {
		return "", line, column
	}
	return source, rLine, rCol
}
