package vm

import (
	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/scope"
	"github.com/yavashark/yavashark/task"
	"github.com/yavashark/yavashark/value"
)

// Machine is the Caller seam's concrete implementation (spec.md §4.2):
// it's what package value and package object call back into to invoke
// getters/setters, coerce keys, and run bytecode-backed functions,
// without either package importing vm directly. A realm owns exactly
// one Machine and threads it through every VmState it drives.
//
// Grounded on the teacher's *VM receiver threaded through every
// coerce*/SetProperty/GetProperty call
// (sebastiano-barrera-modeled.js/modeledjs.go); split out from a single
// VM struct into Machine (the Caller capability) plus VmState (the
// per-activation snapshot) to satisfy spec.md §3.7's "VM state is a
// value that can be stored and resumed".
type Machine struct {
	ErrorProtos map[ErrorKind]object.Obj
	Strict      bool

	// Queue is the realm's cooperative scheduler — CallAsync enqueues an
	// async function body's continuations onto it. Set once by
	// realm.New/intrinsics.Install before any script runs.
	Queue *task.Queue

	// PromiseProto/GeneratorProto/FunctionProto are the prototypes newly-
	// constructed Promise/Generator/Function objects get linked to,
	// installed by intrinsics.
	PromiseProto   object.Obj
	GeneratorProto object.Obj
	FunctionProto  object.Obj
}

var _ object.Caller = (*Machine)(nil)

func NewMachine(q *task.Queue) *Machine {
	return &Machine{ErrorProtos: make(map[ErrorKind]object.Obj), Queue: q}
}

// GetProperty implements value.Caller: resolve a property by its
// user-facing key form, invoking an accessor getter if found.
func (m *Machine) GetProperty(o value.Obj, key value.PropertyKey) (value.Value, error) {
	obj, ok := o.(object.Obj)
	if !ok {
		return value.Undefined, m.ThrowTypeError("not a property-bearing object")
	}
	v, _, err := object.GetResolvedValue(obj, ikeyOf(key), value.FromObj(obj), m)
	return v, err
}

// Call implements value.Caller/object.Caller: invoke a callable Value
// with the given `this` and arguments.
func (m *Machine) Call(fn value.Value, this value.Value, args []value.Value) (value.Value, error) {
	if !fn.IsObject() || fn.Object() == nil || !fn.Object().IsCallable() {
		return value.Undefined, m.ThrowTypeError("value is not a function")
	}
	obj, ok := fn.Object().(object.Obj)
	if !ok {
		return value.Undefined, m.ThrowTypeError("value is not a function")
	}
	return obj.Call(args, this, m)
}

func (m *Machine) ThrowTypeError(format string, a ...any) error   { return NewTypeError(format, a...) }
func (m *Machine) ThrowSyntaxError(format string, a ...any) error { return NewSyntaxError(format, a...) }

// ToStringKey implements object.Caller: stringify a Value for use as a
// property name, via value.ToString with this Machine as the Caller.
func (m *Machine) ToStringKey(v value.Value) (string, error) {
	return value.ToString(m, v)
}

// CallBytecode implements object.Caller's hook for bytecode-backed
// Function objects (object/function.go's Function.Call/Construct):
// it's the one place a compiled function body actually runs.
func (m *Machine) CallBytecode(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget object.Obj) (value.Value, error) {
	callScope := closure.Child(scope.FlagFunction | scope.FlagReturnable)
	callScope.This = this
	callScope.Call = &scope.CallInfo{This: this, Function: value.Undefined}
	if code.Strict {
		callScope.Flags |= scope.FlagStrict
	}
	bindParams(callScope, code, args)

	state := NewVmState(code, callScope, this, newTarget)
	cf := m.Run(state)
	switch cf.Kind {
	case FlowReturn:
		return cf.Value, nil
	case FlowError:
		return value.Undefined, cf.Err
	default:
		return value.Undefined, nil
	}
}

// CallGenerator implements object.Caller: starts a generator function
// body and returns its GeneratorObject without running a single
// instruction — the body only advances as its .next()/.throw()/.return()
// are driven (spec.md §4.8).
func (m *Machine) CallGenerator(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget object.Obj) (object.Obj, error) {
	callScope := closure.Child(scope.FlagFunction | scope.FlagReturnable)
	callScope.This = this
	callScope.Call = &scope.CallInfo{This: this, Function: value.Undefined}
	if code.Strict {
		callScope.Flags |= scope.FlagStrict
	}
	bindParams(callScope, code, args)

	state := NewVmState(code, callScope, this, newTarget)
	rv := NewResumableVM(m, state)
	gt := NewGeneratorTask(rv)
	return object.NewGeneratorObject(m.GeneratorProto, gt), nil
}

// CallAsync implements object.Caller: starts an async function body and
// returns the Promise its call expression evaluates to immediately,
// settling that Promise as the body runs to completion across however
// many queued continuations its awaits need (spec.md §4.8).
func (m *Machine) CallAsync(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget object.Obj) (object.Obj, error) {
	callScope := closure.Child(scope.FlagFunction | scope.FlagReturnable)
	callScope.This = this
	callScope.Call = &scope.CallInfo{This: this, Function: value.Undefined}
	if code.Strict {
		callScope.Flags |= scope.FlagStrict
	}
	bindParams(callScope, code, args)

	state := NewVmState(code, callScope, this, newTarget)
	rv := NewResumableVM(m, state)
	at := NewAsyncTask(m, rv, m.Queue)
	at.Start()
	return object.NewPromiseObject(m.PromiseProto, at.Promise()), nil
}

// bindParams installs positional parameters as `let`-like bindings in
// the call scope: a parameter with no matching argument is undefined,
// and arguments beyond len(code.ParamNames) are not bound to any name.
func bindParams(s *scope.Scope, code *bytecode.FunctionCode, args []value.Value) {
	for i, name := range code.ParamNames {
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = value.Undefined
		}
		s.DefineVar(scope.DeclLet, name, v)
	}
}

func ikeyOf(k value.PropertyKey) value.InternalPropertyKey {
	if k.IsSymbol() {
		return value.IKeySym(k.Symbol())
	}
	return value.IKeyStr(k.String())
}
