// Package value implements the tagged Value union at the core of the
// runtime: the seven ECMAScript value categories plus the managed Object
// handle, primitive coercion, and hashing/equality rules.
//
// The shape follows the teacher's JSValue/JSVCategory split
// (sebastiano-barrera-modeled.js/modeledjs.go), generalized from a plain
// Go interface into an explicit tagged struct so that hashing and
// SameValueZero comparisons can switch on the tag directly instead of
// relying on reflection or type assertions at every call site.
package value

import (
	"math"
	"unsafe"
)

// Kind is one of the seven ECMAScript typeof categories plus Object.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindBigInt
	KindString
	KindSymbol
	KindObject
)

// Obj is the capability every managed object must satisfy. It is declared
// here (not in package object) to break the value<->object import cycle:
// a Value can hold an Obj, and Obj methods hand back Values.
//
// The full contract (property access, descriptors, prototypes,
// extensibility, GC edges) lives on object.Obj, which embeds this
// interface; value.Obj only names what the value package itself needs to
// format, compare and hash an object reference.
type Obj interface {
	// ObjID is a stable identity used for ===, Map/Set keying, and
	// hashing. Two Obj values are the same object iff ObjID matches.
	ObjID() uint64
	// ClassName returns the internal [[Class]] string, e.g. "Object",
	// "Array", "Function" — used by Value.TypeOf and default ToString.
	ClassName() string
	// IsCallable reports whether Call may be invoked on this object.
	IsCallable() bool
	// GCRefs enumerates outgoing strong references for the collector
	// (spec.md §4.2/§5/§9): every object holding state not expressible
	// as a Value must override this to report those edges.
	GCRefs() []Obj
}

// Value is a tagged union mirroring spec.md §3.1. Exactly one payload
// field is meaningful for a given Kind; the rest are zero.
type Value struct {
	kind Kind
	b    bool
	n    float64
	big  *BigInt
	str  String
	sym  *Symbol
	obj  Obj
}

// BigInt is a minimal arbitrary-precision-flavored integer. The runtime
// doesn't need full bignum arithmetic for the core (Non-goal: full
// conformance); it needs a distinct, sharable, hashable payload so BigInt
// values round-trip and compare correctly. Shared via pointer per spec
// §3.1 ("shared Rc<BigInt>").
type BigInt struct {
	words []uint32 // little-endian magnitude
	neg   bool
}

// Symbol is an interned, identity-compared key. Two Symbols are equal iff
// they are the same pointer; Description is informational only.
type Symbol struct {
	Description string
}

// String is an immutable string holding the original UTF-8 bytes as a
// plain Go string; no UTF-16 form or length is cached alongside it.
type String string

var (
	Undefined = Value{kind: KindUndefined}
	Null      = Value{kind: KindNull}
	True      = Value{kind: KindBoolean, b: true}
	False     = Value{kind: KindBoolean, b: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

func Str(s string) Value { return Value{kind: KindString, str: String(s)} }

func Sym(sym *Symbol) Value { return Value{kind: KindSymbol, sym: sym} }

func Big(b *BigInt) Value { return Value{kind: KindBigInt, big: b} }

func FromObj(o Obj) Value {
	if o == nil {
		return Null
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool     { return v.kind == KindNull }
func (v Value) IsNullish() bool  { return v.kind == KindUndefined || v.kind == KindNull }
func (v Value) IsObject() bool   { return v.kind == KindObject }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsNumber() bool   { return v.kind == KindNumber }
func (v Value) IsBoolean() bool  { return v.kind == KindBoolean }
func (v Value) IsBigInt() bool   { return v.kind == KindBigInt }
func (v Value) IsSymbol() bool   { return v.kind == KindSymbol }

func (v Value) Bool() bool       { return v.b }
func (v Value) Float() float64   { return v.n }
func (v Value) String_() String  { return v.str }
func (v Value) Symbol_() *Symbol { return v.sym }
func (v Value) BigInt_() *BigInt { return v.big }
func (v Value) Object() Obj      { return v.obj }

// TypeOf implements the `typeof` operator (spec §4.1).
func (v Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		if v.obj != nil && v.obj.IsCallable() {
			return "function"
		}
		return "object"
	}
	return "undefined"
}

// IsTruthy implements the falsey set: null, undefined, false, ±0/NaN,
// empty string, zero BigInt.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.b
	case KindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case KindBigInt:
		return v.big != nil && !v.big.IsZero()
	case KindString:
		return len(v.str) != 0
	default:
		return true
	}
}

func (v Value) IsFalsey() bool { return !v.IsTruthy() }

// IsZero reports whether a BigInt magnitude is zero.
func (b *BigInt) IsZero() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Int64 narrows a BigInt to an int64, wrapping on overflow — sufficient
// for the arithmetic the VM's bitwise/shift/BigInt-family opcodes need
// without carrying a full bignum algorithm (Non-goal: full ECMA-262
// BigInt range/overflow semantics).
func (b *BigInt) Int64() int64 { return bigIntToInt64(b) }

// hashBits returns a tag-disambiguated hash consistent with SameValueZero:
// NaN values all hash identically to each other (via to_bits) even though
// they compare unequal under ==, matching spec.md §3.1's invariant.
func (v Value) hashBits() uint64 {
	const (
		tagUndef = iota
		tagNull
		tagBool
		tagNum
		tagBig
		tagStr
		tagSym
		tagObj
	)
	switch v.kind {
	case KindUndefined:
		return tagUndef
	case KindNull:
		return tagNull << 8
	case KindBoolean:
		h := uint64(tagBool) << 8
		if v.b {
			h |= 1
		}
		return h
	case KindNumber:
		return uint64(tagNum)<<8 ^ math.Float64bits(v.n)
	case KindBigInt:
		h := uint64(tagBig)
		for _, w := range v.big.words {
			h = h*1099511628211 ^ uint64(w)
		}
		return h
	case KindString:
		return uint64(tagStr) ^ fnv64(string(v.str))
	case KindSymbol:
		return uint64(tagSym) ^ uint64(uintptr(unsafe.Pointer(v.sym)))
	case KindObject:
		if v.obj == nil {
			return uint64(tagObj)
		}
		return uint64(tagObj) ^ v.obj.ObjID()
	}
	return 0
}

// HashKey is the value used to key Maps/Sets/internal tables. It fully
// disambiguates across Kind, satisfying spec.md §3.1's equality/hashing
// invariant.
func (v Value) HashKey() uint64 { return v.hashBits() }

func fnv64(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

