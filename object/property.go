// Package object implements the Obj capability contract (spec.md §4.2),
// the baseline Object property store, and the specialized object shapes
// (Array, Function, Error) that intercept particular keys while sharing
// the same contract.
//
// Grounded on the teacher's JSObject/Descriptor pair
// (sebastiano-barrera-modeled.js/modeledjs.go) generalized from a single
// concrete struct into an interface + baseline implementation so that
// specialized shapes (arrays, functions, typed-array views) can intercept
// individual keys per spec.md §3.4, and on
// original_source/crates/yavashark_value/src/js/object_impl.rs for the
// exact method surface of the capability trait.
package object

import "github.com/yavashark/yavashark/value"

// Attributes is a packed bit set: writable, enumerable, configurable
// (spec.md §3.3).
type Attributes uint8

const (
	AttrWritable Attributes = 1 << iota
	AttrEnumerable
	AttrConfigurable
)

// DefaultAttributes is what a plain assignment (`obj.x = 1`) produces:
// writable, enumerable, configurable all set.
const DefaultAttributes = AttrWritable | AttrEnumerable | AttrConfigurable

func (a Attributes) Writable() bool     { return a&AttrWritable != 0 }
func (a Attributes) Enumerable() bool   { return a&AttrEnumerable != 0 }
func (a Attributes) Configurable() bool { return a&AttrConfigurable != 0 }

func (a Attributes) withWritable(w bool) Attributes     { return setBit(a, AttrWritable, w) }
func (a Attributes) withEnumerable(w bool) Attributes   { return setBit(a, AttrEnumerable, w) }
func (a Attributes) withConfigurable(w bool) Attributes { return setBit(a, AttrConfigurable, w) }

func setBit(a, bit Attributes, on bool) Attributes {
	if on {
		return a | bit
	}
	return a &^ bit
}

// PropertyKind distinguishes a data property from an accessor.
type PropertyKind uint8

const (
	PropValue PropertyKind = iota
	PropGetter
)

// Property is one of {Value(value, attrs), Getter(callable, attrs)} per
// spec.md §3.3. The setter, when present, is kept in its own Set field
// next to the sum type's Get/Value slots, independent of Kind.
type Property struct {
	Kind  PropertyKind
	Value value.Value // meaningful when Kind == PropValue
	Get   value.Obj   // meaningful when Kind == PropGetter
	Set   value.Obj   // optional setter, valid for either Kind in storage
	Attrs Attributes
}

func DataProperty(v value.Value, attrs Attributes) Property {
	return Property{Kind: PropValue, Value: v, Attrs: attrs}
}

func AccessorProperty(get, set value.Obj, attrs Attributes) Property {
	return Property{Kind: PropGetter, Get: get, Set: set, Attrs: attrs}
}

func (p Property) IsAccessor() bool { return p.Kind == PropGetter }

// PropertyDescriptor is the user-facing reflection form (what
// Object.getOwnPropertyDescriptor returns): value/writable for data, or
// get/set for accessor, plus enumerable/configurable.
type PropertyDescriptor struct {
	IsAccessor   bool
	Value        value.Value
	Writable     bool
	Get          value.Obj
	Set          value.Obj
	Enumerable   bool
	Configurable bool
}

func (p Property) ToDescriptor() PropertyDescriptor {
	if p.IsAccessor() {
		return PropertyDescriptor{
			IsAccessor:   true,
			Get:          p.Get,
			Set:          p.Set,
			Enumerable:   p.Attrs.Enumerable(),
			Configurable: p.Attrs.Configurable(),
		}
	}
	return PropertyDescriptor{
		Value:        p.Value,
		Writable:     p.Attrs.Writable(),
		Enumerable:   p.Attrs.Enumerable(),
		Configurable: p.Attrs.Configurable(),
	}
}

// DefinePropertyDescriptor is Object.defineProperty's input: each flag is
// an Option<bool> so unspecified flags inherit the existing descriptor
// (spec.md §3.3/§4.3).
type DefinePropertyDescriptor struct {
	HasValue bool
	Value    value.Value

	HasWritable bool
	Writable    bool

	HasGet bool
	Get    value.Obj

	HasSet bool
	Set    value.Obj

	HasEnumerable bool
	Enumerable    bool

	HasConfigurable bool
	Configurable    bool
}

// IsAccessorDesc reports whether this input describes an accessor
// (get/set present) rather than a data property.
func (d DefinePropertyDescriptor) IsAccessorDesc() bool { return d.HasGet || d.HasSet }

// Validate enforces spec.md §4.3: having both value|writable and get|set
// is a TypeError; a non-callable get/set that isn't undefined is a
// TypeError. Callers pass an isCallable predicate so this package doesn't
// need to know how to invoke anything.
func (d DefinePropertyDescriptor) Validate(isCallable func(value.Obj) bool) error {
	hasData := d.HasValue || d.HasWritable
	hasAccessor := d.HasGet || d.HasSet
	if hasData && hasAccessor {
		return errTypeError("Invalid property descriptor: cannot both specify accessors and a value or writable attribute")
	}
	if d.HasGet && d.Get != nil && !isCallable(d.Get) {
		return errTypeError("Getter must be a function")
	}
	if d.HasSet && d.Set != nil && !isCallable(d.Set) {
		return errTypeError("Setter must be a function")
	}
	return nil
}

// Merge implements spec.md §4.3's define_descriptor: None fields inherit
// the current descriptor's attributes (or the defaults for a brand new
// property: not writable/enumerable/configurable, matching ECMAScript's
// CreateDataProperty-via-defineProperty default when no current
// descriptor exists).
func (d DefinePropertyDescriptor) Merge(current *Property) Property {
	if d.IsAccessorDesc() {
		attrs := Attributes(0)
		if current != nil {
			attrs = current.Attrs
		}
		get, set := d.Get, d.Set
		if current != nil && current.IsAccessor() {
			if !d.HasGet {
				get = current.Get
			}
			if !d.HasSet {
				set = current.Set
			}
		}
		if d.HasEnumerable {
			attrs = attrs.withEnumerable(d.Enumerable)
		}
		if d.HasConfigurable {
			attrs = attrs.withConfigurable(d.Configurable)
		}
		return AccessorProperty(get, set, attrs)
	}

	attrs := Attributes(0)
	val := value.Undefined
	if current != nil && !current.IsAccessor() {
		attrs = current.Attrs
		val = current.Value
	}
	if d.HasValue {
		val = d.Value
	}
	if d.HasWritable {
		attrs = attrs.withWritable(d.Writable)
	}
	if d.HasEnumerable {
		attrs = attrs.withEnumerable(d.Enumerable)
	}
	if d.HasConfigurable {
		attrs = attrs.withConfigurable(d.Configurable)
	}
	return DataProperty(val, attrs)
}

type typeError struct{ msg string }

func (e *typeError) Error() string { return e.msg }

func errTypeError(msg string) error { return &typeError{msg: msg} }

// IsTypeError lets callers outside this package recognize descriptor
// validation failures without a dependency on the vm error taxonomy
// (which itself depends on object).
func IsTypeError(err error) bool {
	_, ok := err.(*typeError)
	return ok
}
