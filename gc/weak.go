package gc

import (
	"weak"

	"github.com/yavashark/yavashark/value"
)

// ObjPtr is satisfied by any concrete object pointer type (*object.Object,
// *object.Array, ...). It's the bridge between a concrete Go pointer (what
// weak.Pointer needs) and value.Obj (the interface the rest of the
// runtime speaks).
type ObjPtr[T any] interface {
	*T
	value.Obj
}

// Weak wraps the standard library's weak.Pointer for a concrete object
// type T, implementing the tiny upgrade contract value.WeakValue needs
// (see value.WeakValue's weakObjHandle). This is the one place in the
// value model built on the standard library rather than a pack
// dependency — no example repo carries a third-party weak-reference
// library, and `weak.Pointer` (Go 1.24+) is the exact stdlib primitive
// spec.md §3.1's WeakValue calls for, so reaching for anything else would
// mean reinventing what the standard library already provides correctly.
type Weak[T any, P ObjPtr[T]] struct {
	ptr weak.Pointer[T]
}

// MakeWeak constructs a weak handle over a live object pointer.
func MakeWeak[T any, P ObjPtr[T]](p P) Weak[T, P] {
	return Weak[T, P]{ptr: weak.Make((*T)(p))}
}

// Upgrade attempts to recover a strong value.Obj reference. It fails
// (ok=false) once the referent has been collected by Go's runtime —
// weak references never extend an object's lifetime (spec.md §5).
func (w Weak[T, P]) Upgrade() (value.Obj, bool) {
	strong := w.ptr.Value()
	if strong == nil {
		return nil, false
	}
	return P(strong), true
}

// NewWeakValue builds a value.WeakValue over a concrete object pointer,
// wiring Weak[T] into value.NewWeakValue's handle-factory seam.
func NewWeakValue[T any, P ObjPtr[T]](v value.Value, p P) value.WeakValue {
	return value.NewWeakValue(v, func(value.Obj) interface {
		Upgrade() (value.Obj, bool)
	} {
		w := MakeWeak[T, P](p)
		return w
	})
}
