package object

import (
	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/scope"
	"github.com/yavashark/yavashark/value"
)

// NativeFn is a function implemented in Go rather than compiled
// bytecode, mirroring the teacher's NativeCallback
// (sebastiano-barrera-modeled.js/modeledjs.go).
type NativeFn func(c Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error)

// FunctionPart is the callable payload of a Function object: exactly one
// of Native or Code is set (spec.md §3.4's FunctionPart, generalized from
// the teacher's optional-field struct into its own type since Go has no
// tagged-union-as-struct-field sugar).
type FunctionPart struct {
	Native NativeFn
	Code   *bytecode.FunctionCode
	Scope  *scope.Scope // the closure: lexical scope captured at definition time
}

// Function is the specialized callable object shape (spec.md §3.4): its
// "name"/"length" are ordinary own properties stored at construction, and
// it shares the Obj contract with every other object shape. Grounded on the teacher's
// FunctionPart/Invoke and
// original_source/crates/yavashark_env/src/function.rs.
type Function struct {
	Object
	part            FunctionPart
	numParams       int
	boundThis       *value.Value // set by Bind
	boundArgs       []value.Value
	allowsConstruct bool
}

var _ Obj = (*Function)(nil)

func NewNativeFunction(proto Obj, name string, numParams int, fn NativeFn) *Function {
	f := &Function{
		Object:    *NewWithClass(proto, "Function"),
		part:      FunctionPart{Native: fn},
		numParams: numParams,
	}
	f.storeProperty(value.IKeyStr("name"), DataProperty(value.Str(name), AttrConfigurable))
	f.storeProperty(value.IKeyStr("length"), DataProperty(value.Number(float64(numParams)), AttrConfigurable))
	return f
}

func NewBytecodeFunction(proto Obj, code *bytecode.FunctionCode, closure *scope.Scope) *Function {
	f := &Function{
		Object:    *NewWithClass(proto, "Function"),
		part:      FunctionPart{Code: code, Scope: closure},
		numParams: len(code.ParamNames),
	}
	f.storeProperty(value.IKeyStr("name"), DataProperty(value.Str(code.Name), AttrConfigurable))
	f.storeProperty(value.IKeyStr("length"), DataProperty(value.Number(float64(len(code.ParamNames))), AttrConfigurable))
	return f
}

func (f *Function) IsCallable() bool { return true }

// IsConstructable implements Obj.IsConstructable: generator and async
// function bodies are never constructors (spec.md §4.8), regardless of
// the allowsConstruct opt-in native constructors use.
func (f *Function) IsConstructable() bool {
	if f.part.Code != nil && (f.part.Code.Kind.IsGenerator() || f.part.Code.Kind.IsAsync()) {
		return false
	}
	return f.part.Native == nil || f.allowsConstruct
}
func (f *Function) Part() *FunctionPart { return &f.part }
func (f *Function) NumParams() int      { return f.numParams }

// Call implements Obj.Call (spec.md §4.2/§3.4): native functions run
// directly; plain bytecode functions delegate to Caller.CallBytecode;
// generator/async bodies delegate to CallGenerator/CallAsync, which
// return their {Generator,Promise} object immediately rather than the
// body's eventual result — so the actual fetch-execute loop (and, for
// generator/async, the suspend/resume machinery) stays in package vm.
func (f *Function) Call(args []value.Value, this value.Value, c Caller) (value.Value, error) {
	this, args = f.ResolveCallThis(this, args)
	if f.part.Native != nil {
		return f.part.Native(c, this, args, nil)
	}
	switch {
	case f.part.Code.Kind.IsAsync():
		obj, err := c.CallAsync(f.part.Code, f.part.Scope, this, args, nil)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromObj(obj), nil
	case f.part.Code.Kind.IsGenerator():
		obj, err := c.CallGenerator(f.part.Code, f.part.Scope, this, args, nil)
		if err != nil {
			return value.Undefined, err
		}
		return value.FromObj(obj), nil
	default:
		return c.CallBytecode(f.part.Code, f.part.Scope, this, args, nil)
	}
}

// Construct implements Obj.Construct (spec.md §4.2): allocates a fresh
// ordinary object linked to this function's "prototype" property, runs
// the body with `this` bound to it, and returns the body's object result
// if it returned one, else the allocated object — the teacher's
// Invoke-with-new behavior (sebastiano-barrera-modeled.js/modeledjs.go).
func (f *Function) Construct(args []value.Value, c Caller) (Obj, error) {
	if !f.IsConstructable() {
		return nil, c.ThrowTypeError(f.ClassName() + " is not a constructor")
	}

	proto := f.Prototype()
	if p, ok := f.GetOwnProperty(value.IKeyStr("prototype")); ok && p.Kind == PropValue {
		if po := p.Value.Object(); po != nil {
			proto = po
		}
	}
	instance := New(proto)
	this := value.FromObj(instance)

	var result value.Value
	var err error
	if f.part.Native != nil {
		result, err = f.part.Native(c, this, args, f)
	} else {
		result, err = c.CallBytecode(f.part.Code, f.part.Scope, this, args, f)
	}
	if err != nil {
		return nil, err
	}

	if result.IsObject() && result.Object() != nil {
		return result.Object(), nil
	}
	return instance, nil
}

// AllowConstruct opts a NativeFn-backed Function into `new` — used by
// native constructors (Object, Array, Error, ...).
func (f *Function) AllowConstruct() { f.allowsConstruct = true }

// Bind returns a new Function that fixes `this` and prepends args (the
// Go-side counterpart of Function.prototype.bind; the intrinsic in
// intrinsics/function.go builds its own native wrapper instead of
// calling this).
func (f *Function) Bind(this value.Value, args []value.Value) *Function {
	bound := &Function{
		Object:    *NewWithClass(f.Prototype(), "Function"),
		part:      f.part,
		numParams: f.numParams - len(args),
		boundThis: &this,
		boundArgs: args,
	}
	if bound.numParams < 0 {
		bound.numParams = 0
	}
	name, _ := f.GetOwnProperty(value.IKeyStr("name"))
	boundName := "bound "
	if name.Kind == PropValue && name.Value.IsString() {
		boundName += string(name.Value.String_())
	}
	bound.storeProperty(value.IKeyStr("name"), DataProperty(value.Str(boundName), AttrConfigurable))
	return bound
}

// ResolveCallThis applies a bound `this`/prepended args if this function
// was produced by Bind.
func (f *Function) ResolveCallThis(this value.Value, args []value.Value) (value.Value, []value.Value) {
	if f.boundThis == nil {
		return this, args
	}
	all := make([]value.Value, 0, len(f.boundArgs)+len(args))
	all = append(all, f.boundArgs...)
	all = append(all, args...)
	return *f.boundThis, all
}
