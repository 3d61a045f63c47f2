package value

// PrimitiveValue is the result of ToPrimitive: a Value known never to be
// an Object. It's a thin wrapper rather than a separate representation so
// callers can still use the full Value API, matching spec.md §3.1's
// "excludes Object" framing without duplicating every accessor.
type PrimitiveValue struct {
	v Value
}

// NewPrimitive panics if v is an Object; ToPrimitive callers should only
// ever construct one from a value already known to be primitive.
func NewPrimitive(v Value) PrimitiveValue {
	if v.IsObject() {
		panic("value: NewPrimitive called with an Object value")
	}
	return PrimitiveValue{v: v}
}

func (p PrimitiveValue) Value() Value { return p.v }

// Hint selects the preferred primitive category for ToPrimitive, mirroring
// the ECMAScript OrdinaryToPrimitive hint argument.
type Hint uint8

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// WeakValue mirrors Value but stores a weak object handle. Upgrading can
// fail once the referent has been collected. Implemented with the
// standard library `weak` package (Go 1.24+): no example repo in the
// corpus carries a third-party weak-reference library, and `weak.Pointer`
// is the direct stdlib primitive for this, so this one piece of the value
// model is built on the standard library rather than an ecosystem
// dependency (documented in DESIGN.md).
type WeakValue struct {
	kind Kind
	// non-object payloads are copied verbatim since they need no GC
	// participation; only the Object case needs a real weak handle.
	plain Value
	weak  weakObjHandle
}

// weakObjHandle is supplied by package gc (it owns the concrete
// weak.Pointer[T] instantiation over its heap handle type); value stays
// independent of gc by depending only on this tiny interface.
type weakObjHandle = interface {
	Upgrade() (Obj, bool)
}

func NewWeakValue(v Value, mkWeak func(Obj) weakObjHandle) WeakValue {
	if !v.IsObject() || v.Object() == nil {
		return WeakValue{kind: v.Kind(), plain: v}
	}
	return WeakValue{kind: KindObject, weak: mkWeak(v.Object())}
}

// Upgrade attempts to recover the strong Value. For non-object kinds this
// always succeeds (nothing was ever weak).
func (w WeakValue) Upgrade() (Value, bool) {
	if w.kind != KindObject {
		return w.plain, true
	}
	if w.weak == nil {
		return Undefined, false
	}
	obj, ok := w.weak.Upgrade()
	if !ok {
		return Undefined, false
	}
	return FromObj(obj), true
}
