package intrinsics

import (
	"strconv"
	"strings"

	"charm.land/log/v2"

	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/value"
)

// installConsole builds the console global (SPEC_FULL.md §5): log/error/
// warn/info, each formatting its arguments the way
// original_source/crates/yavashark_env/src/console/print.rs does (quoted
// strings, bracketed arrays/objects, "[Function: name]" for callables) and
// emitting through charm.land/log/v2 at the matching level so a host
// embedding the runtime gets console output folded into its own structured
// logs instead of a bare os.Stdout write — the one place this package
// reaches for the teacher's ambient logging library rather than fmt.
func (b *builder) installConsole() {
	console := object.New(b.objectProto)
	b.method(console, "log", 0, consoleLog(log.Info))
	b.method(console, "info", 0, consoleLog(log.Info))
	b.method(console, "warn", 0, consoleLog(log.Warn))
	b.method(console, "error", 0, consoleLog(log.Error))
	b.method(console, "debug", 0, consoleLog(log.Debug))
	b.globalValue("console", value.FromObj(console))
}

func consoleLog(level func(msg any, kv ...any)) object.NativeFn {
	return func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = formatForConsole(a, make(map[uint64]bool))
		}
		level(strings.Join(parts, " "))
		return value.Undefined, nil
	}
}

// formatForConsole renders a value the way console.log displays it: plain
// text for primitives, quoted for strings, and a recursive bracketed form
// for objects/arrays with a seen-set to avoid infinite recursion on cyclic
// structures.
func formatForConsole(v value.Value, seen map[uint64]bool) string {
	switch {
	case v.IsUndefined():
		return "undefined"
	case v.IsNull():
		return "null"
	case v.IsBoolean():
		return strconv.FormatBool(v.Bool())
	case v.IsNumber():
		return value.FormatNumber(v.Float())
	case v.IsString():
		return "'" + string(v.String_()) + "'"
	case v.IsSymbol():
		return "Symbol(" + v.Symbol_().Description + ")"
	case v.IsBigInt():
		s, _ := value.ToString(nil, v)
		return s
	case v.IsObject():
		return formatObjectForConsole(v.Object(), seen)
	default:
		return v.TypeOf()
	}
}

func formatObjectForConsole(o value.Obj, seen map[uint64]bool) string {
	if o == nil {
		return "null"
	}
	if o.IsCallable() {
		name := o.ClassName()
		if f, ok := o.(object.Obj); ok {
			if p, ok := f.GetOwnProperty(value.IKeyStr("name")); ok && p.Kind == object.PropValue && p.Value.IsString() {
				name = string(p.Value.String_())
			}
		}
		return "[Function: " + name + "]"
	}
	if seen[o.ObjID()] {
		return "[Circular]"
	}
	seen[o.ObjID()] = true
	defer delete(seen, o.ObjID())

	obj, ok := o.(object.Obj)
	if !ok {
		return "[object " + o.ClassName() + "]"
	}

	if a, ok := obj.(*object.Array); ok {
		parts := make([]string, 0, a.Length())
		for i := uint64(0); i < a.Length(); i++ {
			v, _ := a.At(i)
			parts = append(parts, formatForConsole(v, seen))
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	}

	keys := obj.EnumerableKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		p, ok := obj.GetOwnProperty(k)
		if !ok || p.Kind != object.PropValue {
			continue
		}
		parts = append(parts, k.String()+": "+formatForConsole(p.Value, seen))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
