package intrinsics

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// installObject builds Object.prototype and the Object constructor/statics
// spec.md §5 names: create/keys/values/entries/getOwnPropertyNames/
// getPrototypeOf/setPrototypeOf/defineProperty/defineProperties/freeze/
// seal/isFrozen/isSealed/isExtensible/preventExtensions/assign. Grounded on
// the teacher's createGlobalObject Object-constructor dispatch
// (sebastiano-barrera-modeled.js/modeledjs.go) and
// original_source/crates/yavashark_env/src/object/prototype.rs for the
// static method catalog. compiler/expr.go's compileObjectLiteral depends
// on the global binding named exactly "Object" existing with `new Object()`
// producing an empty object — the constructor below is that binding.
func (b *builder) installObject() {
	b.method(b.objectProto, "hasOwnProperty", 1, objectHasOwnProperty)
	b.method(b.objectProto, "isPrototypeOf", 1, objectIsPrototypeOf)
	b.method(b.objectProto, "propertyIsEnumerable", 1, objectPropertyIsEnumerable)
	b.method(b.objectProto, "toString", 0, objectToString)
	b.method(b.objectProto, "valueOf", 0, objectValueOf)

	ctor := b.ctor("Object", 1, b.objectProto, b.objectConstructor)
	b.method(ctor, "keys", 1, b.objectKeys)
	b.method(ctor, "values", 1, b.objectValues)
	b.method(ctor, "entries", 1, b.objectEntries)
	b.method(ctor, "getOwnPropertyNames", 1, b.objectGetOwnPropertyNames)
	b.method(ctor, "getPrototypeOf", 1, objectGetPrototypeOf)
	b.method(ctor, "setPrototypeOf", 2, objectSetPrototypeOf)
	b.method(ctor, "create", 2, b.objectCreate)
	b.method(ctor, "defineProperty", 3, b.objectDefineProperty)
	b.method(ctor, "defineProperties", 2, b.objectDefineProperties)
	b.method(ctor, "freeze", 1, objectFreeze)
	b.method(ctor, "isFrozen", 1, objectIsFrozen)
	b.method(ctor, "seal", 1, objectSeal)
	b.method(ctor, "isSealed", 1, objectIsSealed)
	b.method(ctor, "preventExtensions", 1, objectPreventExtensions)
	b.method(ctor, "isExtensible", 1, objectIsExtensible)
	b.method(ctor, "assign", 2, b.objectAssign)
}

// objectConstructor implements `new Object(...)`/`Object(...)` (spec.md
// §5): wrapping a primitive is out of scope (Non-goal: primitive wrapper
// objects beyond what Array/Error need), so a non-nullish argument passes
// through unchanged and undefined/null produce a fresh empty object —
// exactly what compileObjectLiteral needs for `{}`.
func (b *builder) objectConstructor(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	v := arg(args, 0)
	if v.IsObject() && v.Object() != nil {
		return v, nil
	}
	return value.FromObj(object.New(b.objectProto)), nil
}

func objectHasOwnProperty(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(this)
	if obj == nil {
		return value.Bool(false), nil
	}
	key, err := value.ToInternalPropertyKey(arg(args, 0), c.ToStringKey)
	if err != nil {
		return value.Undefined, err
	}
	return value.Bool(obj.ContainsOwnKey(key)), nil
}

func objectIsPrototypeOf(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	self := asObj(this)
	other := asObj(arg(args, 0))
	if self == nil || other == nil {
		return value.Bool(false), nil
	}
	for cur := other.Prototype(); cur != nil; cur = cur.Prototype() {
		if cur.ObjID() == self.ObjID() {
			return value.Bool(true), nil
		}
	}
	return value.Bool(false), nil
}

func objectPropertyIsEnumerable(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(this)
	if obj == nil {
		return value.Bool(false), nil
	}
	key, err := value.ToInternalPropertyKey(arg(args, 0), c.ToStringKey)
	if err != nil {
		return value.Undefined, err
	}
	p, ok := obj.GetOwnProperty(key)
	return value.Bool(ok && p.Attrs.Enumerable()), nil
}

func objectToString(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	class := "Object"
	if obj := asObj(this); obj != nil {
		class = obj.ClassName()
	} else if this.IsUndefined() {
		class = "Undefined"
	} else if this.IsNull() {
		class = "Null"
	}
	return value.Str("[object " + class + "]"), nil
}

func objectValueOf(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	return this, nil
}

func (b *builder) objectKeys(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.keys called on non-object")
	}
	keys := obj.EnumerableKeys()
	out := make([]value.Value, len(keys))
	for i, k := range keys {
		out[i] = value.Str(k.String())
	}
	return value.FromObj(object.NewArrayFrom(b.arrayProto, out)), nil
}

func (b *builder) objectValues(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.values called on non-object")
	}
	keys := obj.EnumerableKeys()
	out := make([]value.Value, 0, len(keys))
	for _, k := range keys {
		v, _, err := object.GetResolvedValue(obj, k, value.FromObj(obj), c)
		if err != nil {
			return value.Undefined, err
		}
		out = append(out, v)
	}
	return value.FromObj(object.NewArrayFrom(b.arrayProto, out)), nil
}

func (b *builder) objectEntries(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.entries called on non-object")
	}
	keys := obj.EnumerableKeys()
	out := make([]value.Value, 0, len(keys))
	for _, k := range keys {
		v, _, err := object.GetResolvedValue(obj, k, value.FromObj(obj), c)
		if err != nil {
			return value.Undefined, err
		}
		pair := object.NewArrayFrom(b.arrayProto, []value.Value{value.Str(k.String()), v})
		out = append(out, value.FromObj(pair))
	}
	return value.FromObj(object.NewArrayFrom(b.arrayProto, out)), nil
}

func (b *builder) objectGetOwnPropertyNames(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.getOwnPropertyNames called on non-object")
	}
	keys := obj.Keys()
	out := make([]value.Value, 0, len(keys))
	for _, k := range keys {
		if k.Kind() == value.IKSymbol {
			continue
		}
		out = append(out, value.Str(k.String()))
	}
	return value.FromObj(object.NewArrayFrom(b.arrayProto, out)), nil
}

func objectGetPrototypeOf(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.getPrototypeOf called on non-object")
	}
	return value.FromObj(obj.Prototype()), nil
}

func objectSetPrototypeOf(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.setPrototypeOf called on non-object")
	}
	proto := asObj(arg(args, 1))
	if err := obj.SetPrototype(proto, c); err != nil {
		return value.Undefined, err
	}
	return arg(args, 0), nil
}

func (b *builder) objectCreate(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	protoArg := arg(args, 0)
	var proto object.Obj
	if !protoArg.IsNull() {
		proto = asObj(protoArg)
		if proto == nil {
			return value.Undefined, c.ThrowTypeError("Object.create proto argument must be an object or null")
		}
	}
	o := object.New(proto)
	if props := arg(args, 1); props.IsObject() && props.Object() != nil {
		if err := b.applyDescriptors(c, o, props); err != nil {
			return value.Undefined, err
		}
	}
	return value.FromObj(o), nil
}

func (b *builder) objectDefineProperty(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.defineProperty called on non-object")
	}
	key, err := value.ToInternalPropertyKey(arg(args, 1), c.ToStringKey)
	if err != nil {
		return value.Undefined, err
	}
	if err := b.defineOne(c, obj, key, arg(args, 2)); err != nil {
		return value.Undefined, err
	}
	return arg(args, 0), nil
}

func (b *builder) objectDefineProperties(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	if obj == nil {
		return value.Undefined, c.ThrowTypeError("Object.defineProperties called on non-object")
	}
	if err := b.applyDescriptors(c, obj, arg(args, 1)); err != nil {
		return value.Undefined, err
	}
	return arg(args, 0), nil
}

func (b *builder) applyDescriptors(c object.Caller, target object.Obj, props value.Value) error {
	src := asObj(props)
	if src == nil {
		return nil
	}
	for _, k := range src.EnumerableKeys() {
		descVal, _, err := object.GetResolvedValue(src, k, props, c)
		if err != nil {
			return err
		}
		if err := b.defineOne(c, target, k, descVal); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) defineOne(c object.Caller, target object.Obj, key value.InternalPropertyKey, descVal value.Value) error {
	descObj := asObj(descVal)
	if descObj == nil {
		return c.ThrowTypeError("Property description must be an object")
	}
	desc := object.DefinePropertyDescriptor{}
	if v, ok, err := readIfPresent(c, descObj, "value", descVal); err != nil {
		return err
	} else if ok {
		desc.HasValue, desc.Value = true, v
	}
	if v, ok, err := readIfPresent(c, descObj, "writable", descVal); err != nil {
		return err
	} else if ok {
		desc.HasWritable, desc.Writable = true, v.IsTruthy()
	}
	if v, ok, err := readIfPresent(c, descObj, "enumerable", descVal); err != nil {
		return err
	} else if ok {
		desc.HasEnumerable, desc.Enumerable = true, v.IsTruthy()
	}
	if v, ok, err := readIfPresent(c, descObj, "configurable", descVal); err != nil {
		return err
	} else if ok {
		desc.HasConfigurable, desc.Configurable = true, v.IsTruthy()
	}
	if v, ok, err := readIfPresent(c, descObj, "get", descVal); err != nil {
		return err
	} else if ok {
		desc.HasGet = true
		desc.Get = asObj(v)
	}
	if v, ok, err := readIfPresent(c, descObj, "set", descVal); err != nil {
		return err
	} else if ok {
		desc.HasSet = true
		desc.Set = asObj(v)
	}
	if err := desc.Validate(func(o value.Obj) bool { return o.IsCallable() }); err != nil {
		return err
	}

	cur, exists := target.GetOwnProperty(key)
	var curPtr *object.Property
	if exists {
		curPtr = &cur
	}
	np := desc.Merge(curPtr)
	if np.IsAccessor() {
		if np.Get != nil {
			if err := target.DefineGetter(key, np.Get, np.Attrs, c); err != nil {
				return err
			}
		}
		if np.Set != nil {
			if err := target.DefineSetter(key, np.Set, np.Attrs, c); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := target.DefinePropertyAttributes(key, np.Value, np.Attrs, c)
	return err
}

func readIfPresent(c object.Caller, obj object.Obj, name string, this value.Value) (value.Value, bool, error) {
	key := value.IKeyStr(name)
	if !obj.ContainsOwnKey(key) {
		return value.Undefined, false, nil
	}
	v, _, err := object.GetResolvedValue(obj, key, this, c)
	return v, true, err
}

func objectFreeze(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if obj := asObj(arg(args, 0)); obj != nil {
		obj.Freeze()
	}
	return arg(args, 0), nil
}

func objectIsFrozen(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	return value.Bool(obj == nil || obj.IsFrozen()), nil
}

func objectSeal(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if obj := asObj(arg(args, 0)); obj != nil {
		obj.Seal()
	}
	return arg(args, 0), nil
}

func objectIsSealed(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	return value.Bool(obj == nil || obj.IsSealed()), nil
}

func objectPreventExtensions(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	if obj := asObj(arg(args, 0)); obj != nil {
		obj.PreventExtensions()
	}
	return arg(args, 0), nil
}

func objectIsExtensible(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	obj := asObj(arg(args, 0))
	return value.Bool(obj != nil && obj.IsExtensible()), nil
}

func (b *builder) objectAssign(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	target := asObj(arg(args, 0))
	if target == nil {
		return value.Undefined, c.ThrowTypeError("Object.assign target must be an object")
	}
	for _, srcVal := range args[1:] {
		src := asObj(srcVal)
		if src == nil {
			continue
		}
		for _, k := range src.EnumerableKeys() {
			v, _, err := object.GetResolvedValue(src, k, srcVal, c)
			if err != nil {
				return value.Undefined, err
			}
			if _, err := target.DefineProperty(k, v, c); err != nil {
				return value.Undefined, err
			}
		}
	}
	return arg(args, 0), nil
}
