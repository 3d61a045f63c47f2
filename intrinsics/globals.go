package intrinsics

import (
	"math"
	"strconv"
	"strings"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// installGlobals binds the handful of top-level identifiers that aren't
// constructors: NaN, Infinity, globalThis, and the free-standing
// isNaN/isFinite/parseInt/parseFloat functions (spec.md §4's "Intrinsics
// set" names these alongside the object graph). undefined is never bound
// as an identifier — scope.Lookup's miss path already yields
// value.Undefined, matching the teacher's treatment of an unresolved
// global read.
func (b *builder) installGlobals() {
	b.globalValue("NaN", value.Number(math.NaN()))
	b.globalValue("Infinity", value.Number(math.Inf(1)))

	globalThis := object.New(b.objectProto)
	b.globalValue("globalThis", value.FromObj(globalThis))

	b.globalFn("isNaN", 1, globalIsNaN)
	b.globalFn("isFinite", 1, globalIsFinite)
	b.globalFn("parseInt", 2, globalParseInt)
	b.globalFn("parseFloat", 1, globalParseFloat)
}

// globalFn binds a free function (not a method of any object) as a
// global identifier, the shape isNaN/isFinite/parseInt/parseFloat take
// in ES5 — unlike b.ctor, there is no associated prototype to link.
func (b *builder) globalFn(name string, numParams int, fn object.NativeFn) {
	f := object.NewNativeFunction(b.functionProto, name, numParams, fn)
	b.globalValue(name, value.FromObj(f))
}

func globalIsNaN(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	n, err := value.ToNumber(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	return value.Bool(math.IsNaN(n)), nil
}

func globalIsFinite(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	n, err := value.ToNumber(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	return value.Bool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}

// globalParseInt mirrors ES5's parseInt: skip leading whitespace, an
// optional sign, an optional "0x"/"0X" prefix forcing base 16 when radix
// is 0/absent, then consume the longest valid-digit prefix for the
// resulting radix — returning NaN if no digits are consumed at all.
func globalParseInt(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	s, err := value.ToString(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	s = strings.TrimSpace(s)

	radix := 0
	if len(args) > 1 {
		r, err := value.ToNumber(c, args[1])
		if err != nil {
			return value.Undefined, err
		}
		radix = int(r)
	}

	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	if (radix == 0 || radix == 16) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
		radix = 16
	} else if radix == 0 {
		radix = 10
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}
	if end == 0 {
		return value.Number(math.NaN()), nil
	}

	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		// Overflow of int64 is still a valid parseInt result in JS
		// (it just loses precision past 2^53) — fall back to parsing
		// digit-by-digit as a float.
		var f float64
		for i := 0; i < end; i++ {
			f = f*float64(radix) + float64(digitValue(s[i]))
		}
		if neg {
			f = -f
		}
		return value.Number(f), nil
	}
	if neg {
		n = -n
	}
	return value.Number(float64(n)), nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

// globalParseFloat mirrors ES5's parseFloat: consume the longest prefix
// matching a floating-point literal, returning NaN if none matches.
func globalParseFloat(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	s, err := value.ToString(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	s = strings.TrimSpace(s)

	end := 0
	seenDot, seenExp, seenDigit := false, false, false
	for end < len(s) {
		ch := s[end]
		switch {
		case ch >= '0' && ch <= '9':
			seenDigit = true
		case ch == '.' && !seenDot && !seenExp:
			seenDot = true
		case (ch == '+' || ch == '-') && (end == 0 || s[end-1] == 'e' || s[end-1] == 'E'):
		case (ch == 'e' || ch == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			goto done
		}
		end++
	}
done:
	if !seenDigit {
		return value.Number(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return value.Number(math.NaN()), nil
	}
	return value.Number(f), nil
}
