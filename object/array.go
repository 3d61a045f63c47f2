package object

import "github.com/yavashark/yavashark/value"

// Array is the specialized array-like object (spec.md §3.4): it keeps a
// dense Go slice for the contiguous element run (the common case) and
// falls back to the embedded Object's sparse side-table for indices
// beyond the dense run, while intercepting the "length" key the way the
// teacher's arrayPart does, generalized to the Obj contract instead of a
// concrete-type-only fast path.
type Array struct {
	Object
	dense []value.Value
}

var _ Obj = (*Array)(nil)

func NewArray(proto Obj) *Array {
	a := &Array{Object: *NewWithClass(proto, "Array")}
	a.dense = make([]value.Value, 0, 8)
	return a
}

func NewArrayFrom(proto Obj, vals []value.Value) *Array {
	a := NewArray(proto)
	a.dense = append(a.dense, vals...)
	return a
}

func (a *Array) Length() uint64 { return uint64(len(a.dense)) }

func (a *Array) GCRefs() []value.Obj {
	refs := a.Object.GCRefs()
	for _, v := range a.dense {
		if v.IsObject() && v.Object() != nil {
			refs = append(refs, v.Object())
		}
	}
	return refs
}

func (a *Array) GetArrayOrDone(index uint64) (bool, value.Value, bool) {
	if index < uint64(len(a.dense)) {
		return false, a.dense[index], true
	}
	if index == uint64(len(a.dense)) {
		return true, value.Undefined, false
	}
	return a.Object.GetArrayOrDone(index)
}

func (a *Array) Push(v value.Value) uint64 {
	a.dense = append(a.dense, v)
	return uint64(len(a.dense))
}

func (a *Array) Pop() (value.Value, bool) {
	if len(a.dense) == 0 {
		return value.Undefined, false
	}
	v := a.dense[len(a.dense)-1]
	a.dense = a.dense[:len(a.dense)-1]
	return v, true
}

func (a *Array) At(i uint64) (value.Value, bool) {
	if i < uint64(len(a.dense)) {
		return a.dense[i], true
	}
	return a.Object.GetOwnProperty(value.IKeyIndex(i))
}

func (a *Array) Set(i uint64, v value.Value) {
	if i < uint64(len(a.dense)) {
		a.dense[i] = v
		return
	}
	if i == uint64(len(a.dense)) {
		a.dense = append(a.dense, v)
		return
	}
	a.Object.arrayInsert(i, v)
}

// SetLength implements the REDESIGN-FLAGGED behavior from spec.md §9:
// shrinking length truncates the dense run AND deletes any sparse
// side-table entries at or beyond the new length, unlike the original
// source which silently retained trailing indices.
func (a *Array) SetLength(n uint64) {
	if n < uint64(len(a.dense)) {
		a.dense = a.dense[:n]
	} else {
		for uint64(len(a.dense)) < n {
			a.dense = append(a.dense, value.Undefined)
		}
	}
	kept := a.array[:0]
	for _, s := range a.array {
		if s.Index < n {
			kept = append(kept, s)
		}
	}
	a.array = kept
}

func (a *Array) DefineProperty(key value.InternalPropertyKey, v value.Value, c Caller) (DefineResult, error) {
	if key.Kind() == value.IKString && key.String() == "length" {
		n, err := value.ToNumber(c, v)
		if err != nil {
			return DefineResult{}, err
		}
		if n < 0 || n != float64(uint64(n)) {
			return DefineResult{}, c.ThrowTypeError("Invalid array length")
		}
		a.SetLength(uint64(n))
		return ResultHandled, nil
	}
	if key.Kind() == value.IKIndex {
		a.Set(key.Index(), v)
		return ResultHandled, nil
	}
	return a.Object.DefineProperty(key, v, c)
}

func (a *Array) GetOwnProperty(key value.InternalPropertyKey) (Property, bool) {
	if key.Kind() == value.IKString && key.String() == "length" {
		return DataProperty(value.Number(float64(len(a.dense))), AttrWritable), true
	}
	if key.Kind() == value.IKIndex {
		if v, ok := a.At(key.Index()); ok {
			return DataProperty(v, DefaultAttributes), true
		}
		return Property{}, false
	}
	return a.Object.GetOwnProperty(key)
}

func (a *Array) ContainsOwnKey(key value.InternalPropertyKey) bool {
	if key.Kind() == value.IKString && key.String() == "length" {
		return true
	}
	if key.Kind() == value.IKIndex {
		_, ok := a.At(key.Index())
		return ok
	}
	return a.Object.ContainsOwnKey(key)
}

func (a *Array) Keys() []value.InternalPropertyKey {
	keys := make([]value.InternalPropertyKey, 0, len(a.dense)+1)
	for i := range a.dense {
		keys = append(keys, value.IKeyIndex(uint64(i)))
	}
	keys = append(keys, a.Object.Keys()...)
	keys = append(keys, value.IKeyStr("length"))
	return keys
}

func (a *Array) EnumerableKeys() []value.InternalPropertyKey {
	keys := make([]value.InternalPropertyKey, 0, len(a.dense))
	for i := range a.dense {
		keys = append(keys, value.IKeyIndex(uint64(i)))
	}
	return append(keys, a.Object.EnumerableKeys()...)
}
