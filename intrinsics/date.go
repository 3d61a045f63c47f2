package intrinsics

import (
	"math"
	"time"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// dateObj stores the backing time.Time a Date instance wraps. Embedding a
// plain time.Time (UTC-backed millisecond clock) rather than threading a
// float64 epoch through every accessor keeps fixup (the out-of-range
// month/day normalization spec.md §5 keeps as-is per the logged Open
// Question) a one-line call into Go's own normalizing time.Date.
type dateObj struct {
	object.Object
	t time.Time
}

func newDateObj(proto object.Obj, t time.Time) *dateObj {
	return &dateObj{Object: *object.NewWithClass(proto, "Date"), t: t}
}

func dateOf(c object.Caller, this value.Value) (*dateObj, error) {
	obj := asObj(this)
	d, ok := obj.(*dateObj)
	if !ok {
		return nil, c.ThrowTypeError("Date method called on a non-Date")
	}
	return d, nil
}

// installDate builds the Date constructor/prototype (SPEC_FULL.md §5):
// getTime/setTime/getFullYear/getMonth/getDate/toISOString, backed by the
// standard library's time package rather than a hand-rolled calendar —
// grounded on original_source/crates/yavashark_env/src/builtins/date.rs's
// fixup-on-set semantics, which Go's time.Date already implements by
// normalizing out-of-range fields.
func (b *builder) installDate() {
	b.dateProto = object.New(b.objectProto)
	b.method(b.dateProto, "getTime", 0, b.dateGetTime)
	b.method(b.dateProto, "setTime", 1, b.dateSetTime)
	b.method(b.dateProto, "getFullYear", 0, b.dateGetFullYear)
	b.method(b.dateProto, "setFullYear", 1, b.dateSetFullYear)
	b.method(b.dateProto, "getMonth", 0, b.dateGetMonth)
	b.method(b.dateProto, "setMonth", 1, b.dateSetMonth)
	b.method(b.dateProto, "getDate", 0, b.dateGetDate)
	b.method(b.dateProto, "setDate", 1, b.dateSetDate)
	b.method(b.dateProto, "getHours", 0, b.dateGetHours)
	b.method(b.dateProto, "getMinutes", 0, b.dateGetMinutes)
	b.method(b.dateProto, "getSeconds", 0, b.dateGetSeconds)
	b.method(b.dateProto, "getDay", 0, b.dateGetDay)
	b.method(b.dateProto, "toISOString", 0, b.dateToISOString)
	b.method(b.dateProto, "toString", 0, b.dateToISOString)
	b.method(b.dateProto, "valueOf", 0, b.dateGetTime)

	ctor := b.ctor("Date", 0, b.dateProto, b.dateConstructor)
	b.method(ctor, "now", 0, dateNow)
}

func dateNow(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	return value.Number(float64(time.Now().UnixMilli())), nil
}

func (b *builder) dateConstructor(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	var t time.Time
	switch len(args) {
	case 0:
		t = time.Now().UTC()
	case 1:
		if args[0].IsString() {
			parsed, err := time.Parse(time.RFC3339, string(args[0].String_()))
			if err != nil {
				return value.FromObj(newDateObj(b.dateProto, time.Time{})), nil
			}
			t = parsed.UTC()
		} else {
			ms, err := value.ToNumber(c, args[0])
			if err != nil {
				return value.Undefined, err
			}
			t = time.UnixMilli(int64(ms)).UTC()
		}
	default:
		year := int(arg(args, 0).Float())
		month := int(arg(args, 1).Float())
		day := 1
		if len(args) > 2 {
			day = int(args[2].Float())
		}
		hour, minute, sec, ms := 0, 0, 0, 0
		if len(args) > 3 {
			hour = int(args[3].Float())
		}
		if len(args) > 4 {
			minute = int(args[4].Float())
		}
		if len(args) > 5 {
			sec = int(args[5].Float())
		}
		if len(args) > 6 {
			ms = int(args[6].Float())
		}
		t = time.Date(year, time.Month(month+1), day, hour, minute, sec, ms*1e6, time.UTC)
	}
	return value.FromObj(newDateObj(b.dateProto, t)), nil
}

func (b *builder) dateGetTime(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	if d.t.IsZero() {
		return value.Number(math.NaN()), nil
	}
	return value.Number(float64(d.t.UnixMilli())), nil
}

func (b *builder) dateSetTime(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	ms, err := value.ToNumber(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	d.t = time.UnixMilli(int64(ms)).UTC()
	return value.Number(ms), nil
}

func (b *builder) dateGetFullYear(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(d.t.Year())), nil
}

func (b *builder) dateSetFullYear(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	year := int(arg(args, 0).Float())
	d.t = time.Date(year, d.t.Month(), d.t.Day(), d.t.Hour(), d.t.Minute(), d.t.Second(), d.t.Nanosecond(), time.UTC)
	return value.Number(float64(d.t.UnixMilli())), nil
}

func (b *builder) dateGetMonth(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(int(d.t.Month()) - 1)), nil
}

func (b *builder) dateSetMonth(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	month := int(arg(args, 0).Float())
	d.t = time.Date(d.t.Year(), time.Month(month+1), d.t.Day(), d.t.Hour(), d.t.Minute(), d.t.Second(), d.t.Nanosecond(), time.UTC)
	return value.Number(float64(d.t.UnixMilli())), nil
}

func (b *builder) dateGetDate(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(d.t.Day())), nil
}

func (b *builder) dateSetDate(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	day := int(arg(args, 0).Float())
	d.t = time.Date(d.t.Year(), d.t.Month(), day, d.t.Hour(), d.t.Minute(), d.t.Second(), d.t.Nanosecond(), time.UTC)
	return value.Number(float64(d.t.UnixMilli())), nil
}

func (b *builder) dateGetHours(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(d.t.Hour())), nil
}

func (b *builder) dateGetMinutes(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(d.t.Minute())), nil
}

func (b *builder) dateGetSeconds(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(d.t.Second())), nil
}

func (b *builder) dateGetDay(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(float64(int(d.t.Weekday()))), nil
}

func (b *builder) dateToISOString(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	d, err := dateOf(c, this)
	if err != nil {
		return value.Undefined, err
	}
	return value.Str(d.t.UTC().Format("2006-01-02T15:04:05.000Z")), nil
}
