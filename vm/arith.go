package vm

import (
	"math"

	"github.com/yavashark/yavashark/value"
)

// binaryFn computes a binary operator's result against already-evaluated
// operands, raising a *TypeError (wrapped as a Go error) on operand
// combinations ECMAScript disallows (spec.md §4.4 "Semantics").
type binaryFn func(m *Machine, a, b value.Value) (value.Value, error)

// addValues implements `+` (spec.md §9 scenario 1): string concatenation
// wins if either operand's ToPrimitive result is a string; otherwise
// numeric addition, with BigInt/Number mixing rejected.
func addValues(m *Machine, a, b value.Value) (value.Value, error) {
	pa, err := value.ToPrimitive(m, a, value.HintDefault)
	if err != nil {
		return value.Undefined, err
	}
	pb, err := value.ToPrimitive(m, b, value.HintDefault)
	if err != nil {
		return value.Undefined, err
	}
	av, bv := pa.Value(), pb.Value()
	if av.IsString() || bv.IsString() {
		as, err := value.ToString(m, av)
		if err != nil {
			return value.Undefined, err
		}
		bs, err := value.ToString(m, bv)
		if err != nil {
			return value.Undefined, err
		}
		return value.Str(as + bs), nil
	}
	if av.IsBigInt() || bv.IsBigInt() {
		if !av.IsBigInt() || !bv.IsBigInt() {
			return value.Undefined, NewTypeError("cannot mix BigInt and other types in arithmetic")
		}
		return value.Big(value.NewBigIntFromInt64(av.BigInt_().Int64() + bv.BigInt_().Int64())), nil
	}
	an, err := value.ToNumber(m, av)
	if err != nil {
		return value.Undefined, err
	}
	bn, err := value.ToNumber(m, bv)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(an + bn), nil
}

// numericBinary builds a binaryFn for the remaining arithmetic operators
// (spec.md §4.4): both operands go through ToNumeric, BigInt pairs use
// intOp, Number pairs use floatOp, mixed BigInt/Number is a TypeError.
func numericBinary(floatOp func(a, b float64) float64, intOp func(a, b int64) int64) binaryFn {
	return func(m *Machine, a, b value.Value) (value.Value, error) {
		if a.IsBigInt() || b.IsBigInt() {
			if !a.IsBigInt() || !b.IsBigInt() {
				return value.Undefined, NewTypeError("cannot mix BigInt and other types in arithmetic")
			}
			return value.Big(value.NewBigIntFromInt64(intOp(a.BigInt_().Int64(), b.BigInt_().Int64()))), nil
		}
		an, err := value.ToNumber(m, a)
		if err != nil {
			return value.Undefined, err
		}
		bn, err := value.ToNumber(m, b)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(floatOp(an, bn)), nil
	}
}

var (
	subValues = numericBinary(func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b })
	mulValues = numericBinary(func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b })
	divValues = numericBinary(func(a, b float64) float64 { return a / b }, func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a / b
	})
	modValues = numericBinary(math.Mod, func(a, b int64) int64 {
		if b == 0 {
			return 0
		}
		return a % b
	})
	expValues = numericBinary(math.Pow, func(a, b int64) int64 { return int64(math.Pow(float64(a), float64(b))) })
)

// int32Binary builds a binaryFn for the bitwise/shift family (spec.md
// §4.4): operands ToInt32-narrow (via truncating ToNumber, Non-goal:
// full ECMA-262 ToInt32 edge cases beyond what float64->int32 gives).
func int32Binary(op func(a, b int32) int32) binaryFn {
	return func(m *Machine, a, b value.Value) (value.Value, error) {
		an, err := value.ToNumber(m, a)
		if err != nil {
			return value.Undefined, err
		}
		bn, err := value.ToNumber(m, b)
		if err != nil {
			return value.Undefined, err
		}
		return value.Number(float64(op(toInt32(an), toInt32(bn)))), nil
	}
}

func toInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return int32(uint32(int64(n)))
}

var (
	bitAndValues = int32Binary(func(a, b int32) int32 { return a & b })
	bitOrValues  = int32Binary(func(a, b int32) int32 { return a | b })
	bitXorValues = int32Binary(func(a, b int32) int32 { return a ^ b })
	shlValues    = int32Binary(func(a, b int32) int32 { return a << (uint32(b) & 31) })
	sarValues    = int32Binary(func(a, b int32) int32 { return a >> (uint32(b) & 31) })
)

// shrValues is `>>>`, the one shift whose result is an unsigned 32-bit
// value widened back to a Number (spec.md §4.4).
func shrValues(m *Machine, a, b value.Value) (value.Value, error) {
	an, err := value.ToNumber(m, a)
	if err != nil {
		return value.Undefined, err
	}
	bn, err := value.ToNumber(m, b)
	if err != nil {
		return value.Undefined, err
	}
	u := uint32(toInt32(an))
	shifted := u >> (uint32(toInt32(bn)) & 31)
	return value.Number(float64(shifted)), nil
}

// compareValues implements the relational operators (spec.md §4.4): for
// string/string it compares lexicographically; otherwise both sides
// coerce to Number and compare numerically (a BigInt operand makes
// ToNumber raise a TypeError). NaN makes every relational comparison
// false.
func compareValues(m *Machine, a, b value.Value) (lt, eq bool, err error) {
	pa, err := value.ToPrimitive(m, a, value.HintNumber)
	if err != nil {
		return false, false, err
	}
	pb, err := value.ToPrimitive(m, b, value.HintNumber)
	if err != nil {
		return false, false, err
	}
	av, bv := pa.Value(), pb.Value()
	if av.IsString() && bv.IsString() {
		as, bs := string(av.String_()), string(bv.String_())
		return as < bs, as == bs, nil
	}
	an, err := value.ToNumber(m, av)
	if err != nil {
		return false, false, err
	}
	bn, err := value.ToNumber(m, bv)
	if err != nil {
		return false, false, err
	}
	if math.IsNaN(an) || math.IsNaN(bn) {
		return false, false, nil
	}
	return an < bn, an == bn, nil
}
