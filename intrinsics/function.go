package intrinsics

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// installFunction wires Function.prototype's call/apply/bind/toString,
// grounded on the teacher's function_bind/call/apply natives
// (sebastiano-barrera-modeled.js/modeledjs.go's init()) generalized from a
// direct *object.Function receiver to any callable Obj, since a bound
// function or a bytecode-backed closure should bind/call/apply just as
// well as a native one.
func (b *builder) installFunction() {
	b.method(b.functionProto, "call", 1, functionCall)
	b.method(b.functionProto, "apply", 2, functionApply)
	b.method(b.functionProto, "bind", 1, b.functionBind)
	b.method(b.functionProto, "toString", 0, functionToString)
}

func functionCall(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if !isCallableObj(this) {
		return value.Undefined, c.ThrowTypeError("Function.prototype.call called on non-callable value")
	}
	callThis := arg(args, 0)
	var rest []value.Value
	if len(args) > 1 {
		rest = args[1:]
	}
	return c.Call(this, callThis, rest)
}

func functionApply(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if !isCallableObj(this) {
		return value.Undefined, c.ThrowTypeError("Function.prototype.apply called on non-callable value")
	}
	callThis := arg(args, 0)
	argArray := arg(args, 1)
	callArgs, err := toValueSlice(c, argArray)
	if err != nil {
		return value.Undefined, err
	}
	return c.Call(this, callThis, callArgs)
}

// toValueSlice reads an array-like's elements via GetArrayOrDone, the same
// fast path the VM's spread/for-of opcodes use — apply/bind's second
// argument is conventionally an actual Array, so this never needs the
// general Symbol.iterator protocol.
func toValueSlice(c object.Caller, v value.Value) ([]value.Value, error) {
	if v.IsUndefined() || v.IsNull() {
		return nil, nil
	}
	obj := asObj(v)
	if obj == nil {
		return nil, c.ThrowTypeError("argument is not array-like")
	}
	var out []value.Value
	for i := uint64(0); ; i++ {
		done, val, ok := obj.GetArrayOrDone(i)
		if done || !ok {
			break
		}
		out = append(out, val)
	}
	return out, nil
}

// functionBind implements Function.prototype.bind (spec.md §5's Function
// intrinsic): returns a fresh native function that prepends boundArgs and
// fixes `this`, regardless of whether the original is native or
// bytecode-backed, closing over the original through object.Caller.Call
// rather than needing object.Function's internal FunctionPart.
func (b *builder) functionBind(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if !isCallableObj(this) {
		return value.Undefined, c.ThrowTypeError("Function.prototype.bind called on non-callable value")
	}
	target := this
	boundThis := arg(args, 0)
	var boundArgs []value.Value
	if len(args) > 1 {
		boundArgs = append([]value.Value(nil), args[1:]...)
	}

	name := "bound"
	if obj := asObj(this); obj != nil {
		if p, ok := obj.GetOwnProperty(value.IKeyStr("name")); ok && p.Kind == object.PropValue && p.Value.IsString() {
			name = "bound " + string(p.Value.String_())
		}
	}

	bound := object.NewNativeFunction(b.functionProto, name, 0, func(c2 object.Caller, _ value.Value, callArgs []value.Value, _ value.Obj) (value.Value, error) {
		all := make([]value.Value, 0, len(boundArgs)+len(callArgs))
		all = append(all, boundArgs...)
		all = append(all, callArgs...)
		return c2.Call(target, boundThis, all)
	})
	bound.AllowConstruct()
	return value.FromObj(bound), nil
}

func functionToString(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	name := "anonymous"
	if obj := asObj(this); obj != nil {
		if p, ok := obj.GetOwnProperty(value.IKeyStr("name")); ok && p.Kind == object.PropValue && p.Value.IsString() {
			name = string(p.Value.String_())
		}
	}
	return value.Str("function " + name + "() { [native code] }"), nil
}
