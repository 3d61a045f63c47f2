package object

import "github.com/yavashark/yavashark/value"

// ErrorKind is the Error subclass taxonomy (spec.md §3.4 "Error"),
// ported from original_source/crates/yavashark_value/src/error.rs's
// ErrorKind enum. Kind drives both the constructor/prototype an
// ErrorObj is linked to and the default "name" property.
type ErrorKind uint8

const (
	KindError ErrorKind = iota
	KindType
	KindRange
	KindReference
	KindSyntax
	KindInternal
	KindRuntime
)

// Name is the default "name" property value for a kind, used when the
// instance's own "name" property hasn't been overridden.
func (k ErrorKind) Name() string {
	switch k {
	case KindType:
		return "TypeError"
	case KindRange:
		return "RangeError"
	case KindReference:
		return "ReferenceError"
	case KindSyntax:
		return "SyntaxError"
	case KindInternal:
		return "InternalError"
	case KindRuntime:
		return "RuntimeError"
	default:
		return "Error"
	}
}

// ErrorObj is the JS-visible Error instance shape: a plain Object with
// "name"/"message"/"stack" own properties set at construction, per
// spec.md §3.4. Grounded on the teacher's ThrowError
// (sebastiano-barrera-modeled.js/modeledjs.go ~line 2531, which builds an
// exception object with a "message" property off ProtoObject); the kind
// taxonomy and stack-frame shape are generalized from
// original_source/crates/yavashark_value/src/error.rs's Error/ErrorKind/
// StackTrace/StackFrame.
type ErrorObj struct {
	Object
	kind  ErrorKind
	stack []StackFrame
}

var _ Obj = (*ErrorObj)(nil)

// StackFrame records one call-site in an ErrorObj's captured stack trace
// (original_source's StackFrame: function name, file, line, column).
type StackFrame struct {
	Function string
	File     string
	Line     uint32
	Column   uint32
}

// NewErrorObject builds an Error instance of the given kind, installing
// "name", "message", and a formatted "stack" own property. proto is the
// kind's prototype object (e.g. TypeError.prototype).
func NewErrorObject(proto Obj, kind ErrorKind, message string) *ErrorObj {
	e := &ErrorObj{
		Object: *NewWithClass(proto, "Error"),
		kind:   kind,
	}
	e.storeProperty(value.IKeyStr("name"), DataProperty(value.Str(kind.Name()), AttrWritable|AttrConfigurable))
	e.storeProperty(value.IKeyStr("message"), DataProperty(value.Str(message), AttrWritable|AttrConfigurable))
	e.storeProperty(value.IKeyStr("stack"), DataProperty(value.Str(e.formatStack(message)), AttrWritable|AttrConfigurable))
	return e
}

func (e *ErrorObj) Kind() ErrorKind { return e.kind }

// AttachFrame appends a call-site to the stack trace and refreshes the
// "stack" property, mirroring Error::attach_function_stack.
func (e *ErrorObj) AttachFrame(function, file string, line, column uint32) {
	e.stack = append(e.stack, StackFrame{Function: function, File: file, Line: line, Column: column})
	msg, _ := e.GetOwnProperty(value.IKeyStr("message"))
	m := ""
	if msg.Kind == PropValue && msg.Value.IsString() {
		m = string(msg.Value.String_())
	}
	e.storeProperty(value.IKeyStr("stack"), DataProperty(value.Str(e.formatStack(m)), AttrWritable|AttrConfigurable))
}

func (e *ErrorObj) formatStack(message string) string {
	s := e.kind.Name()
	if message != "" {
		s += ": " + message
	}
	for _, f := range e.stack {
		s += "\n    at " + f.Function + " (" + f.File + ")"
	}
	return s
}
