package value

import "strconv"

// PropertyKey is the key form the ECMAScript surface exposes: a string
// name or a symbol. Numbers are stringified before becoming a PropertyKey
// (see ToPropertyKey); InternalPropertyKey is the richer internal form
// used by fast paths (property_key.rs / modeledjs.go's Name).
type PropertyKey struct {
	isSymbol bool
	name     String
	sym      *Symbol
}

func KeyStr(s string) PropertyKey   { return PropertyKey{name: String(s)} }
func KeySym(s *Symbol) PropertyKey  { return PropertyKey{isSymbol: true, sym: s} }
func (k PropertyKey) IsSymbol() bool { return k.isSymbol }
func (k PropertyKey) String() string {
	if k.isSymbol {
		return k.sym.Description
	}
	return string(k.name)
}
func (k PropertyKey) Symbol() *Symbol { return k.sym }

// ToPropertyKey converts a Value to a PropertyKey. Symbols pass through
// unchanged and never numeric-coerce (spec.md §4.1); anything else goes
// through ToString.
func ToPropertyKey(v Value, toString func(Value) (string, error)) (PropertyKey, error) {
	if v.IsSymbol() {
		return KeySym(v.Symbol_()), nil
	}
	s, err := toString(v)
	if err != nil {
		return PropertyKey{}, err
	}
	return KeyStr(s), nil
}

// InternalPropertyKeyKind distinguishes the three internal key shapes.
type InternalPropertyKeyKind uint8

const (
	IKString InternalPropertyKeyKind = iota
	IKSymbol
	IKIndex
)

// InternalPropertyKey adds an Index(usize) variant over PropertyKey, used
// by array-like fast paths (spec.md §3.2). Borrowed and owned forms hash
// identically because both route through the same String()/uint64
// representation — there's no separate borrowed struct in Go since string
// values are already cheap to compare without a owned/borrowed split.
type InternalPropertyKey struct {
	kind  InternalPropertyKeyKind
	name  String
	sym   *Symbol
	index uint64
}

func IKeyStr(s string) InternalPropertyKey { return InternalPropertyKey{kind: IKString, name: String(s)} }
func IKeySym(s *Symbol) InternalPropertyKey {
	return InternalPropertyKey{kind: IKSymbol, sym: s}
}
func IKeyIndex(i uint64) InternalPropertyKey {
	return InternalPropertyKey{kind: IKIndex, index: i}
}

func (k InternalPropertyKey) Kind() InternalPropertyKeyKind { return k.kind }
func (k InternalPropertyKey) Index() uint64                 { return k.index }
func (k InternalPropertyKey) Symbol() *Symbol                { return k.sym }

func (k InternalPropertyKey) String() string {
	switch k.kind {
	case IKIndex:
		return strconv.FormatUint(k.index, 10)
	case IKSymbol:
		return k.sym.Description
	default:
		return string(k.name)
	}
}

// ToInternalPropertyKey converts a Value to the internal key form. A
// number whose value is a non-negative integer AND whose canonical
// decimal string equals its own ToString output becomes an Index;
// otherwise it stringifies like any other key (so "01" or "-1" remain
// string keys, matching the array-index grammar in original_source's
// property_key.rs).
func ToInternalPropertyKey(v Value, toString func(Value) (string, error)) (InternalPropertyKey, error) {
	if v.IsSymbol() {
		return IKeySym(v.Symbol_()), nil
	}
	if v.IsNumber() {
		n := v.Float()
		if n >= 0 && n == float64(uint64(n)) {
			idx := uint64(n)
			if strconv.FormatUint(idx, 10) == strconv.FormatFloat(n, 'f', -1, 64) {
				return IKeyIndex(idx), nil
			}
		}
	}
	s, err := toString(v)
	if err != nil {
		return InternalPropertyKey{}, err
	}
	if idx, err2 := strconv.ParseUint(s, 10, 64); err2 == nil && strconv.FormatUint(idx, 10) == s {
		return IKeyIndex(idx), nil
	}
	return IKeyStr(s), nil
}

// ToPropertyKey converts an InternalPropertyKey back to the user-facing
// PropertyKey form (indices stringify).
func (k InternalPropertyKey) ToPropertyKey() PropertyKey {
	switch k.kind {
	case IKSymbol:
		return KeySym(k.sym)
	case IKIndex:
		return KeyStr(strconv.FormatUint(k.index, 10))
	default:
		return KeyStr(string(k.name))
	}
}
