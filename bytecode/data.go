package bytecode

// ConstValue is a literal baked into the constant pool: numbers, strings,
// booleans and null/undefined (objects are never constants —
// they're always produced by an instruction sequence, per spec.md §3.6).
type ConstValue struct {
	Kind ConstKind
	Num  float64
	Str  string
	Bool bool
}

type ConstKind uint8

const (
	ConstUndefined ConstKind = iota
	ConstNull
	ConstBool
	ConstNumber
	ConstString
)

func ConstOfNumber(n float64) ConstValue { return ConstValue{Kind: ConstNumber, Num: n} }
func ConstOfString(s string) ConstValue  { return ConstValue{Kind: ConstString, Str: s} }
func ConstOfBool(b bool) ConstValue      { return ConstValue{Kind: ConstBool, Bool: b} }

// CatchKind distinguishes whether a control block has a catch arm, a
// finally arm, or both (spec.md §4.5).
type CatchKind uint8

const (
	HasNeither CatchKind = iota
	HasCatch
	HasFinally
	HasBoth
)

func (k CatchKind) HasCatchArm() bool   { return k == HasCatch || k == HasBoth }
func (k CatchKind) HasFinallyArm() bool { return k == HasFinally || k == HasBoth }

// ControlBlock is a try/catch/finally descriptor recording PC offsets for
// the catch and finally arms and the block's exit target (spec.md §3.6,
// glossary "Control block"). CatchVar, when HasCatchVar is set, names the
// binding the caught error is deposited into.
type ControlBlock struct {
	Kind        CatchKind
	CatchPC     int
	FinallyPC   int
	ExitPC      int
	CatchVar    VarName
	HasCatchVar bool
}

// DataSection is the out-of-band table referenced by instructions:
// variable names, labels, constants, control blocks, and nested function
// bodies (spec.md §3.6).
type DataSection struct {
	VarNames []string
	Labels   []string
	Consts   []ConstValue
	Control  []ControlBlock
	// Funcs holds every function literal/declaration nested directly in
	// this body, compiled to its own FunctionCode; OpMakeClosure indexes
	// into this table to pair one with the enclosing scope at runtime.
	Funcs []*FunctionCode
}

func NewDataSection() *DataSection {
	return &DataSection{}
}

func (d *DataSection) InternVarName(name string) VarName {
	for i, n := range d.VarNames {
		if n == name {
			return VarName(i)
		}
	}
	d.VarNames = append(d.VarNames, name)
	return VarName(len(d.VarNames) - 1)
}

func (d *DataSection) InternConst(c ConstValue) ConstIdx {
	for i, existing := range d.Consts {
		if existing == c {
			return ConstIdx(i)
		}
	}
	d.Consts = append(d.Consts, c)
	return ConstIdx(len(d.Consts) - 1)
}

func (d *DataSection) AddControlBlock(cb ControlBlock) ControlIdx {
	d.Control = append(d.Control, cb)
	return ControlIdx(len(d.Control) - 1)
}

// AddFunc registers a nested function body, returning the index
// OpMakeClosure's Instr.Func field names.
func (d *DataSection) AddFunc(fc *FunctionCode) FuncIdx {
	d.Funcs = append(d.Funcs, fc)
	return FuncIdx(len(d.Funcs) - 1)
}

// FunctionKind distinguishes plain/generator/async/async-generator
// bodies, gating which of await/yield are legal (spec.md §4.7: "await/
// yield are gated by function-kind flags carried on the bytecode
// artifact, not the scope").
type FunctionKind uint8

const (
	FuncPlain FunctionKind = iota
	FuncGenerator
	FuncAsync
	FuncAsyncGenerator
)

func (k FunctionKind) IsGenerator() bool { return k == FuncGenerator || k == FuncAsyncGenerator }
func (k FunctionKind) IsAsync() bool     { return k == FuncAsync || k == FuncAsyncGenerator }

// FunctionCode is the immutable, shareable compiled body of a function
// (spec.md §3.6/§6.1): an instruction sequence plus its DataSection. This
// is the "BytecodeFunctionCode" artifact the VM consumes from the
// (external, out-of-scope) compiler frontend — in this repo, package
// compiler produces it.
type FunctionCode struct {
	Name       string
	ParamNames []string
	Instr      []Instr
	DS         *DataSection
	Kind       FunctionKind
	Strict     bool
	NumRegs    int
}

func NewFunctionCode(name string, kind FunctionKind) *FunctionCode {
	return &FunctionCode{Name: name, DS: NewDataSection(), Kind: kind}
}
