package object

import (
	"sort"

	"github.com/yavashark/yavashark/gc"
	"github.com/yavashark/yavashark/value"
)

// arraySlot is one entry of the sparse array side-table (spec.md §3.4):
// kept sorted by Index once it grows past arrayLinearThreshold, so lookups
// binary-search instead of scanning.
type arraySlot struct {
	Index uint64
	Value value.Value
}

const arrayLinearThreshold = 8

// Object is the baseline concrete object: a property table preserving
// insertion order, a sparse array side-table, a prototype slot, and
// extensibility flags (spec.md §3.4). Specialized shapes (Array,
// Function, ErrorObj) embed Object and override the handful of methods
// that intercept particular keys, mirroring the teacher's single
// JSObject-with-optional-parts shape but split along spec.md's
// "specialized objects implement the same Obj contract but intercept
// particular keys" line instead of a union of optional fields.
type Object struct {
	id    uint64
	class string

	order []value.InternalPropertyKey
	table map[value.InternalPropertyKey]Property

	array []arraySlot

	proto Obj

	extensible bool
	sealed     bool
	frozen     bool
}

var _ Obj = (*Object)(nil)

// New creates a bare object with the given prototype (nil for no
// prototype, i.e. Object.prototype's own parent).
func New(proto Obj) *Object {
	return &Object{
		id:         gc.NewID(),
		class:      "Object",
		table:      make(map[value.InternalPropertyKey]Property),
		proto:      proto,
		extensible: true,
	}
}

// NewWithClass is New plus an explicit [[Class]] string, used by
// specialized shapes that embed Object (Array sets "Array", Function
// sets "Function", ...).
func NewWithClass(proto Obj, class string) *Object {
	o := New(proto)
	o.class = class
	return o
}

func (o *Object) ObjID() uint64     { return o.id }
func (o *Object) ClassName() string { return o.class }
func (o *Object) SetClassName(c string) { o.class = c }
func (o *Object) IsCallable() bool  { return false }

// GCRefs enumerates outgoing strong edges: every property value/getter/
// setter plus the prototype, per spec.md §4.2/§9.
func (o *Object) GCRefs() []value.Obj {
	refs := make([]value.Obj, 0, len(o.order)+len(o.array)+1)
	if o.proto != nil {
		refs = append(refs, o.proto)
	}
	for _, k := range o.order {
		p := o.table[k]
		if p.IsAccessor() {
			if p.Get != nil {
				refs = append(refs, p.Get)
			}
			if p.Set != nil {
				refs = append(refs, p.Set)
			}
		} else if p.Value.IsObject() && p.Value.Object() != nil {
			refs = append(refs, p.Value.Object())
		}
	}
	for _, s := range o.array {
		if s.Value.IsObject() && s.Value.Object() != nil {
			refs = append(refs, s.Value.Object())
		}
	}
	return refs
}

func (o *Object) Prototype() Obj { return o.proto }

func (o *Object) SetPrototype(proto Obj, c Caller) error {
	if o.frozen || o.sealed || !o.extensible {
		return errTypeError("object is not extensible: cannot set prototype")
	}
	o.proto = proto
	return nil
}

func (o *Object) IsExtensible() bool     { return o.extensible }
func (o *Object) PreventExtensions()     { o.extensible = false }
func (o *Object) IsSealed() bool         { return o.sealed || o.frozen }
func (o *Object) IsFrozen() bool         { return o.frozen }

func (o *Object) Seal() {
	o.sealed = true
	o.extensible = false
	for k, p := range o.table {
		p.Attrs = p.Attrs.withConfigurable(false)
		o.table[k] = p
	}
}

func (o *Object) Freeze() {
	o.Seal()
	o.frozen = true
	for k, p := range o.table {
		if !p.IsAccessor() {
			p.Attrs = p.Attrs.withWritable(false)
			o.table[k] = p
		}
	}
}

func (o *Object) arrayIndex(idx uint64) (int, bool) {
	n := len(o.array)
	if n <= arrayLinearThreshold {
		for i, s := range o.array {
			if s.Index == idx {
				return i, true
			}
		}
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return o.array[i].Index >= idx })
	if i < n && o.array[i].Index == idx {
		return i, true
	}
	return 0, false
}

func (o *Object) arrayInsert(idx uint64, v value.Value) {
	if i, ok := o.arrayIndex(idx); ok {
		o.array[i].Value = v
		return
	}
	i := sort.Search(len(o.array), func(i int) bool { return o.array[i].Index >= idx })
	o.array = append(o.array, arraySlot{})
	copy(o.array[i+1:], o.array[i:])
	o.array[i] = arraySlot{Index: idx, Value: v}
}

func (o *Object) arrayDelete(idx uint64) bool {
	i, ok := o.arrayIndex(idx)
	if !ok {
		return false
	}
	o.array = append(o.array[:i], o.array[i+1:]...)
	return true
}

// GetArrayOrDone is the fast iteration path; the baseline Object has no
// array part of its own (it defers entirely to the sparse side-table,
// used directly by property-index fast paths, not by for..of, which
// belongs to Array).
func (o *Object) GetArrayOrDone(index uint64) (bool, value.Value, bool) {
	if i, ok := o.arrayIndex(index); ok {
		return false, o.array[i].Value, true
	}
	return true, value.Undefined, false
}

func (o *Object) GetOwnProperty(key value.InternalPropertyKey) (Property, bool) {
	if key.Kind() == value.IKIndex {
		if i, ok := o.arrayIndex(key.Index()); ok {
			return DataProperty(o.array[i].Value, DefaultAttributes), true
		}
	}
	p, ok := o.table[key]
	return p, ok
}

func (o *Object) ContainsOwnKey(key value.InternalPropertyKey) bool {
	if key.Kind() == value.IKIndex {
		if _, ok := o.arrayIndex(key.Index()); ok {
			return true
		}
	}
	_, ok := o.table[key]
	return ok
}

func (o *Object) ContainsKey(key value.InternalPropertyKey, c Caller) (bool, error) {
	for cur := Obj(o); cur != nil; cur = cur.Prototype() {
		if cur.ContainsOwnKey(key) {
			return true, nil
		}
	}
	return false, nil
}

// ResolveProperty searches the prototype chain and returns the first
// property found as stored, without invoking an accessor's getter
// (GetResolvedValue does that), per spec.md §4.2.
func (o *Object) ResolveProperty(key value.InternalPropertyKey, c Caller) (Property, bool, error) {
	for cur := Obj(o); cur != nil; cur = cur.Prototype() {
		if p, ok := cur.GetOwnProperty(key); ok {
			return p, true, nil
		}
	}
	return Property{}, false, nil
}

// GetResolvedValue resolves a property and, if it's an accessor, invokes
// the getter — the common "read a value for use" operation most callers
// want instead of the raw Property.
func GetResolvedValue(o Obj, key value.InternalPropertyKey, this value.Value, c Caller) (value.Value, bool, error) {
	p, ok, err := o.ResolveProperty(key, c)
	if err != nil || !ok {
		return value.Undefined, ok, err
	}
	if !p.IsAccessor() {
		return p.Value, true, nil
	}
	if p.Get == nil {
		return value.Undefined, true, nil
	}
	v, err := c.Call(value.FromObj(p.Get), this, nil)
	return v, true, err
}

func (o *Object) DefineProperty(key value.InternalPropertyKey, v value.Value, c Caller) (DefineResult, error) {
	return o.defineWith(key, func(cur *Property) (Property, error) {
		if cur != nil && cur.IsAccessor() {
			if cur.Set != nil {
				return Property{}, nil // signal: caller must invoke setter
			}
			return *cur, nil
		}
		attrs := DefaultAttributes
		if cur != nil {
			if !cur.Attrs.Writable() {
				return *cur, errReadOnly
			}
			attrs = cur.Attrs
		}
		return DataProperty(v, attrs), nil
	}, c)
}

var errReadOnly = &typeError{msg: "\x00readonly"} // internal sentinel, never surfaced

func (o *Object) defineWith(key value.InternalPropertyKey, compute func(cur *Property) (Property, error), c Caller) (DefineResult, error) {
	if o.frozen {
		return ResultReadOnly, nil
	}
	cur, exists := o.GetOwnProperty(key)
	if !exists && (o.sealed || !o.extensible) {
		return ResultReadOnly, nil
	}

	var curPtr *Property
	if exists {
		curPtr = &cur
	}
	if exists && cur.IsAccessor() && cur.Set != nil {
		return ResultSetter(cur.Set), nil
	}

	np, err := compute(curPtr)
	if err == errReadOnly {
		return ResultReadOnly, nil
	}
	if err != nil {
		return DefineResult{}, err
	}

	o.storeProperty(key, np)
	return ResultHandled, nil
}

func (o *Object) storeProperty(key value.InternalPropertyKey, p Property) {
	if key.Kind() == value.IKIndex && !p.IsAccessor() {
		o.arrayInsert(key.Index(), p.Value)
		return
	}
	if _, exists := o.table[key]; !exists {
		o.order = append(o.order, key)
	}
	o.table[key] = p
}

func (o *Object) DefinePropertyAttributes(key value.InternalPropertyKey, v value.Value, attrs Attributes, c Caller) (DefineResult, error) {
	return o.defineWith(key, func(cur *Property) (Property, error) {
		return DataProperty(v, attrs), nil
	}, c)
}

func (o *Object) DefineGetter(key value.InternalPropertyKey, getter value.Obj, attrs Attributes, c Caller) error {
	if o.frozen || (o.sealed && !o.ContainsOwnKey(key)) {
		return errTypeError("object is not extensible")
	}
	cur, exists := o.GetOwnProperty(key)
	var set value.Obj
	if exists && cur.IsAccessor() {
		set = cur.Set
	}
	o.storeProperty(key, AccessorProperty(getter, set, attrs))
	return nil
}

func (o *Object) DefineSetter(key value.InternalPropertyKey, setter value.Obj, attrs Attributes, c Caller) error {
	if o.frozen || (o.sealed && !o.ContainsOwnKey(key)) {
		return errTypeError("object is not extensible")
	}
	cur, exists := o.GetOwnProperty(key)
	var get value.Obj
	if exists && cur.IsAccessor() {
		get = cur.Get
	}
	o.storeProperty(key, AccessorProperty(get, setter, attrs))
	return nil
}

func (o *Object) DeleteProperty(key value.InternalPropertyKey, c Caller) (*Property, error) {
	if key.Kind() == value.IKIndex {
		if i, ok := o.arrayIndex(key.Index()); ok {
			old := DataProperty(o.array[i].Value, DefaultAttributes)
			o.arrayDelete(key.Index())
			return &old, nil
		}
	}
	p, ok := o.table[key]
	if !ok {
		return nil, nil
	}
	if !p.Attrs.Configurable() {
		return nil, nil
	}
	delete(o.table, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return &p, nil
}

func (o *Object) Keys() []value.InternalPropertyKey {
	keys := make([]value.InternalPropertyKey, 0, len(o.order)+len(o.array))
	for _, s := range o.array {
		keys = append(keys, value.IKeyIndex(s.Index))
	}
	keys = append(keys, o.order...)
	return keys
}

func (o *Object) EnumerableKeys() []value.InternalPropertyKey {
	keys := make([]value.InternalPropertyKey, 0, len(o.order)+len(o.array))
	for _, s := range o.array {
		keys = append(keys, value.IKeyIndex(s.Index))
	}
	for _, k := range o.order {
		if o.table[k].Attrs.Enumerable() {
			keys = append(keys, k)
		}
	}
	return keys
}

func (o *Object) Properties(c Caller) ([]value.Value, error) {
	keys := o.EnumerableKeys()
	out := make([]value.Value, 0, len(keys))
	for _, k := range keys {
		v, _, err := GetResolvedValue(o, k, value.FromObj(o), c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (o *Object) Values(c Caller) ([]value.Value, error) { return o.Properties(c) }

func (o *Object) Call(args []value.Value, this value.Value, c Caller) (value.Value, error) {
	return value.Undefined, errTypeError(o.class + " is not a function")
}

func (o *Object) IsConstructable() bool { return false }

func (o *Object) Construct(args []value.Value, c Caller) (Obj, error) {
	return nil, errTypeError(o.class + " is not a constructor")
}

// Primitive returns the wrapped primitive if this is a boxed primitive
// (new Number(1), new String("x"), ...). The baseline Object never wraps
// one; boxed-primitive shapes override this.
func (o *Object) Primitive() (value.Value, bool) { return value.Undefined, false }
