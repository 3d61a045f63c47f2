package object

import (
	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/scope"
	"github.com/yavashark/yavashark/value"
)

// Caller is passed to Obj methods that may need to invoke a getter/setter
// (GetProperty on an accessor) or coerce a key. It's the same seam
// value.Caller establishes, re-declared here with the extra operations
// the object layer needs, so object doesn't import vm/realm (which both
// import object).
type Caller interface {
	value.Caller
	// ToStringKey converts a Value to a string for property-name use
	// (delegates to value.ToString under the hood).
	ToStringKey(value.Value) (string, error)
	// CallBytecode executes a compiled function body against a closure
	// scope — the hook a Function object with a bytecode FunctionPart
	// uses to actually run, since package object cannot import package
	// vm (vm imports object). The realm/vm layer is the only real
	// implementer.
	CallBytecode(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget Obj) (value.Value, error)

	// CallGenerator starts a generator function body and returns its
	// GeneratorObject immediately, before the body has run at all
	// (spec.md §4.8).
	CallGenerator(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget Obj) (Obj, error)

	// CallAsync starts an async function body and returns the Promise
	// object its call expression evaluates to immediately (spec.md §4.8).
	CallAsync(code *bytecode.FunctionCode, closure *scope.Scope, this value.Value, args []value.Value, newTarget Obj) (Obj, error)
}

// DefineResult is Obj.DefineProperty's outcome (spec.md §4.2): Handled
// means the store completed; ReadOnly means a non-writable data property
// silently rejected the write (non-strict mode) or should raise
// TypeError (strict — the caller decides based on its own strict flag);
// Setter means the caller must invoke the returned setter with value.
type DefineResult struct {
	Kind   DefineResultKind
	Setter value.Obj
}

type DefineResultKind uint8

const (
	DefineHandled DefineResultKind = iota
	DefineReadOnly
	DefineSetter
)

var ResultHandled = DefineResult{Kind: DefineHandled}
var ResultReadOnly = DefineResult{Kind: DefineReadOnly}

func ResultSetter(setter value.Obj) DefineResult {
	return DefineResult{Kind: DefineSetter, Setter: setter}
}

// Obj is the capability every managed object implements (spec.md §4.2).
// The VM only ever reaches an object through this interface — wrapper
// objects (typed-array views, proxies) can intercept any operation by
// overriding the relevant method while delegating the rest, the same
// shape as original_source's ObjectImpl<R> trait.
type Obj interface {
	value.Obj

	DefineProperty(key value.InternalPropertyKey, v value.Value, c Caller) (DefineResult, error)
	DefinePropertyAttributes(key value.InternalPropertyKey, v value.Value, attrs Attributes, c Caller) (DefineResult, error)
	DefineGetter(key value.InternalPropertyKey, getter value.Obj, attrs Attributes, c Caller) error
	DefineSetter(key value.InternalPropertyKey, setter value.Obj, attrs Attributes, c Caller) error

	ResolveProperty(key value.InternalPropertyKey, c Caller) (Property, bool, error)
	GetOwnProperty(key value.InternalPropertyKey) (Property, bool)
	DeleteProperty(key value.InternalPropertyKey, c Caller) (*Property, error)

	ContainsOwnKey(key value.InternalPropertyKey) bool
	ContainsKey(key value.InternalPropertyKey, c Caller) (bool, error)

	Properties(c Caller) ([]value.Value, error)
	Keys() []value.InternalPropertyKey
	Values(c Caller) ([]value.Value, error)
	EnumerableKeys() []value.InternalPropertyKey

	// GetArrayOrDone is the fast iteration path (spec.md §4.2): returns
	// (done, maybe value) without going through the general property
	// lookup machinery for array-shaped objects.
	GetArrayOrDone(index uint64) (done bool, v value.Value, ok bool)

	Call(args []value.Value, this value.Value, c Caller) (value.Value, error)
	IsConstructable() bool
	Construct(args []value.Value, c Caller) (Obj, error)

	Primitive() (value.Value, bool)

	Prototype() Obj
	SetPrototype(proto Obj, c Caller) error

	IsExtensible() bool
	PreventExtensions()
	IsSealed() bool
	Seal()
	IsFrozen() bool
	Freeze()
}

// DefaultDefineProperty/DefaultCall/etc. are not modeled as a base
// "class" the way an inheritance-based language would: Go has no
// implementation inheritance, so Object (object.go) is embedded by
// value instead, and callers needing "default raises TypeError" behavior
// (spec.md §4.2 Obj.call) get it from Object.Call directly.
