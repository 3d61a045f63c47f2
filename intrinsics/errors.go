package intrinsics

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
	"github.com/yavashark/yavashark/vm"
)

// installErrors builds Error.prototype plus five subclass prototypes
// (TypeError, RangeError, ReferenceError, SyntaxError, InternalError),
// wires each constructor, and populates Machine.ErrorProtos
// so vm.Error.ToErrorObject can reify a thrown Go error into the instance a
// catch block receives. Grounded on the teacher's ThrowError
// (sebastiano-barrera-modeled.js/modeledjs.go) and
// original_source/crates/yavashark_value/src/error.rs's ErrorKind table.
func (b *builder) installErrors() {
	b.errorProto = object.New(b.objectProto)
	b.value_(b.errorProto, "name", value.Str("Error"))
	b.value_(b.errorProto, "message", value.Str(""))
	b.method(b.errorProto, "toString", 0, errorToString)

	errorCtor := b.ctor("Error", 1, b.errorProto, errorConstructor(object.KindError))
	b.m.ErrorProtos[vm.KindGeneric] = b.errorProto
	b.m.ErrorProtos[vm.KindRuntime] = b.errorProto

	b.subclassError("TypeError", object.KindType, vm.KindType, errorCtor)
	b.subclassError("RangeError", object.KindRange, vm.KindRange, errorCtor)
	b.subclassError("ReferenceError", object.KindReference, vm.KindReference, errorCtor)
	b.subclassError("SyntaxError", object.KindSyntax, vm.KindSyntax, errorCtor)
	b.subclassError("InternalError", object.KindInternal, vm.KindInternal, errorCtor)
}

// subclassError builds one Error subclass: its own prototype (chained to
// Error.prototype), a "name" override, and a constructor registered under
// the vm.ErrorKind the thrown-error reification path looks up.
func (b *builder) subclassError(name string, objKind object.ErrorKind, vmKind vm.ErrorKind, base *object.Function) {
	proto := object.New(b.errorProto)
	b.value_(proto, "name", value.Str(name))
	b.ctor(name, 1, proto, errorConstructor(objKind))
	b.m.ErrorProtos[vmKind] = proto
}

// errorConstructor builds the NativeFn shared by Error and every subclass:
// each creates an ErrorObj of its own kind, linked to newTarget's
// "prototype" when constructed via `new`, matching the teacher's
// ThrowError message-only Error shape generalized to every kind.
func errorConstructor(kind object.ErrorKind) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		msg := ""
		if m := arg(args, 0); !m.IsUndefined() {
			s, err := c.ToStringKey(m)
			if err != nil {
				return value.Undefined, err
			}
			msg = s
		}
		proto := protoOf(newTarget)
		return value.FromObj(object.NewErrorObject(proto, kind, msg)), nil
	}
}

// protoOf reads newTarget's own "prototype" property, falling back to nil
// (Object.prototype-less) when newTarget is absent or has none — a plain
// function call to Error(...) without `new` still produces a usable
// instance, matching ECMAScript's "Error is callable without new".
func protoOf(newTarget value.Obj) object.Obj {
	if newTarget == nil {
		return nil
	}
	obj, ok := newTarget.(object.Obj)
	if !ok {
		return nil
	}
	p, ok := obj.GetOwnProperty(value.IKeyStr("prototype"))
	if !ok || p.Kind != object.PropValue {
		return nil
	}
	po, ok := p.Value.Object().(object.Obj)
	if !ok {
		return nil
	}
	return po
}

// errorToString implements Error.prototype.toString: "<name>: <message>",
// or just "<name>" when message is empty, per spec.md §7.
func errorToString(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(this)
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Error.prototype.toString called on non-object")
	}
	name := "Error"
	if v, _, err := object.GetResolvedValue(obj, value.IKeyStr("name"), this, c); err == nil && v.IsString() {
		name = string(v.String_())
	}
	msg := ""
	if v, _, err := object.GetResolvedValue(obj, value.IKeyStr("message"), this, c); err == nil && !v.IsUndefined() {
		s, err := c.ToStringKey(v)
		if err != nil {
			return value.Undefined, err
		}
		msg = s
	}
	if msg == "" {
		return value.Str(name), nil
	}
	return value.Str(name + ": " + msg), nil
}
