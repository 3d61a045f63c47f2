package vm

import (
	"github.com/yavashark/yavashark/bytecode"
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/scope"
	"github.com/yavashark/yavashark/value"
)

// FlowKind is the reason Run stopped. A suspended activation (Await/
// Yield/YieldStar) is resumed by resumable.go calling Run again on the
// same *VmState — PC already points past the suspending instruction, so
// nothing but depositing the settled/injected value needs to happen
// first (spec.md §4.6).
type FlowKind uint8

const (
	FlowReturn FlowKind = iota
	FlowError
	FlowAwait
	FlowYield
	FlowYieldStar
)

// ControlFlow is Run's result: exactly the fields FlowKind names are
// meaningful.
type ControlFlow struct {
	Kind FlowKind
	Value value.Value
	Err   *Error
}

// Run is the fetch-execute loop (spec.md §4.5): fetch instruction,
// advance PC, execute, repeat until a terminal ControlFlow is produced.
// Nothing about a suspended activation lives on the Go call stack —
// state is VmState, which Run takes by reference and mutates in place.
func (m *Machine) Run(state *VmState) ControlFlow {
	for {
		if state.PC < 0 || state.PC >= len(state.Code.Instr) {
			return ControlFlow{Kind: FlowReturn, Value: value.Undefined}
		}
		instr := state.Code.Instr[state.PC]
		state.PC++

		if entry, ok := arithTable[instr.Op]; ok {
			cf, done := m.execBinary(state, instr, entry.fn, entry.regReg)
			if done {
				return cf
			}
			continue
		}

		cf, done := m.step(state, instr)
		if done {
			return cf
		}
	}
}

// step executes one non-arithmetic instruction. done reports whether cf
// is a terminal result Run should return; when done is false, cf is the
// zero value and the fetch loop continues.
func (m *Machine) step(state *VmState, instr bytecode.Instr) (ControlFlow, bool) {
	switch instr.Op {

	// --- Stack operations ---

	case bytecode.OpPush:
		state.pushStack(state.load(instr.Src))
	case bytecode.OpPop:
		if len(state.Stack) > 0 {
			state.popStack()
		}
	case bytecode.OpPopN:
		n := int(instr.N)
		if n > len(state.Stack) {
			n = len(state.Stack)
		}
		state.Stack = state.Stack[:len(state.Stack)-n]
	case bytecode.OpPopToReg:
		state.Regs[instr.Dst.Reg] = state.popStack()
	case bytecode.OpPopToAcc:
		state.Acc = state.popStack()
	case bytecode.OpStackToReg:
		state.Regs[instr.Dst.Reg] = state.Stack[instr.Src.Stack]
	case bytecode.OpStackToAcc:
		state.Acc = state.Stack[instr.Src.Stack]

	// --- Register/accumulator moves ---

	case bytecode.OpRegToAcc:
		state.Acc = state.Regs[instr.Src.Reg]
	case bytecode.OpAccToReg:
		state.Regs[instr.Dst.Reg] = state.Acc

	// --- Memory ---

	case bytecode.OpLda:
		if err := state.store(instr.Dst, state.load(instr.Src)); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpLoadMember:
		objVal := state.load(instr.Src)
		keyVal := state.load(instr.Key)
		v, err := m.getMember(objVal, keyVal)
		if err != nil {
			return m.raise(state, err)
		}
		if err := state.store(instr.Dst, v); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpStoreMember:
		v := state.load(instr.Src)
		objVal := state.load(instr.Obj)
		keyVal := state.load(instr.Key)
		if err := m.setMember(state, objVal, keyVal, v); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpLoadEnv:
		name := state.varName(instr.Name)
		v, ok := state.Scope.Lookup(name)
		if !ok {
			return m.raise(state, NewReferenceError("%s is not defined", name))
		}
		if err := state.store(instr.Dst, v); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpStoreEnv:
		name := state.varName(instr.Name)
		v := state.load(instr.Src)
		found, err := state.Scope.Update(name, v)
		if err != nil {
			if state.Scope.IsStrict() {
				return m.raise(state, NewTypeError("%s", err.Error()))
			}
		} else if !found {
			if state.Scope.IsStrict() {
				return m.raise(state, NewReferenceError("%s is not defined", name))
			}
			state.Scope.DeclareGlobalVar(name, v)
		}
	case bytecode.OpDeclareVar:
		name := state.varName(instr.Name)
		v := state.load(instr.Src)
		kind := scope.DeclKind(instr.DeclKind)
		if kind == scope.DeclVar {
			state.Scope.DeclareGlobalVar(name, v)
		} else {
			state.Scope.DefineVar(kind, name, v)
		}

	// --- Comparison ---

	case bytecode.OpEq:
		eq, err := value.LooseEqual(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(eq)
	case bytecode.OpNotEq:
		eq, err := value.LooseEqual(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(!eq)
	case bytecode.OpStrictEq:
		state.Acc = value.Bool(value.StrictEqual(state.Acc, state.load(instr.Src)))
	case bytecode.OpStrictNotEq:
		state.Acc = value.Bool(!value.StrictEqual(state.Acc, state.load(instr.Src)))
	case bytecode.OpLt:
		lt, _, err := compareValues(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(lt)
	case bytecode.OpLtEq:
		lt, eq, err := compareValues(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(lt || eq)
	case bytecode.OpGt:
		lt, eq, err := compareValues(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(!lt && !eq)
	case bytecode.OpGtEq:
		lt, _, err := compareValues(m, state.Acc, state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(!lt)

	// --- Logical ---
	//
	// Short circuit is a jump: when the left-hand side (already in Acc)
	// determines the result, PC moves to Instr.Addr, past the
	// right-hand side's evaluation, and Acc — "the short-circuit
	// operand itself" — is left untouched.

	case bytecode.OpLNot:
		state.Acc = value.Bool(!state.Acc.IsTruthy())
	case bytecode.OpLOr:
		if state.Acc.IsTruthy() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpLAnd:
		if !state.Acc.IsTruthy() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpNullishCoalescing:
		if !state.Acc.IsNullish() {
			state.PC = int(instr.Addr)
		}

	// --- Membership/type ---

	case bytecode.OpIn:
		objVal := state.load(instr.Src)
		if !objVal.IsObject() || objVal.Object() == nil {
			return m.raise(state, NewTypeError("Cannot use 'in' operator to search for a key in a non-object"))
		}
		obj, ok := objVal.Object().(object.Obj)
		if !ok {
			return m.raise(state, NewTypeError("Cannot use 'in' operator to search for a key in a non-object"))
		}
		ikey, err := value.ToInternalPropertyKey(state.Acc, m.toStringFn())
		if err != nil {
			return m.raise(state, err)
		}
		has, err := obj.ContainsKey(ikey, m)
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = value.Bool(has)
	case bytecode.OpInstanceOf:
		state.Acc = value.Bool(instanceOf(state.Acc, state.load(instr.Src)))
	case bytecode.OpTypeOf:
		state.Acc = value.Str(state.Acc.TypeOf())

	// --- Increment/decrement ---

	case bytecode.OpInc:
		v, err := incDec(m, state.Acc, 1)
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = v
	case bytecode.OpDec:
		v, err := incDec(m, state.Acc, -1)
		if err != nil {
			return m.raise(state, err)
		}
		state.Acc = v

	// --- Control flow ---

	case bytecode.OpJmp:
		state.PC = int(instr.Addr)
	case bytecode.OpJmpIf:
		if state.Acc.IsTruthy() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpJmpIfNot:
		if !state.Acc.IsTruthy() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpJmpNull:
		if state.Acc.IsNull() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpJmpUndef:
		if state.Acc.IsUndefined() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpJmpNullUndef:
		if state.Acc.IsNullish() {
			state.PC = int(instr.Addr)
		}
	case bytecode.OpJmpRel:
		state.PC += int(instr.Addr)
	case bytecode.OpJmpIfRel:
		if state.Acc.IsTruthy() {
			state.PC += int(instr.Addr)
		}
	case bytecode.OpJmpIfNotRel:
		if !state.Acc.IsTruthy() {
			state.PC += int(instr.Addr)
		}
	case bytecode.OpJmpNullRel:
		if state.Acc.IsNull() {
			state.PC += int(instr.Addr)
		}
	case bytecode.OpJmpUndefRel:
		if state.Acc.IsUndefined() {
			state.PC += int(instr.Addr)
		}
	case bytecode.OpJmpNullUndefRel:
		if state.Acc.IsNullish() {
			state.PC += int(instr.Addr)
		}

	// --- Calls ---

	case bytecode.OpCall:
		args := popArgs(state, int(instr.N))
		callee := state.load(instr.Src)
		res, err := m.Call(callee, value.Undefined, args)
		if err != nil {
			return m.raise(state, err)
		}
		if err := state.store(instr.Dst, res); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpCallMember:
		args := popArgs(state, int(instr.N))
		objVal := state.load(instr.Obj)
		keyVal := state.load(instr.Key)
		fn, err := m.getMember(objVal, keyVal)
		if err != nil {
			return m.raise(state, err)
		}
		res, err := m.Call(fn, objVal, args)
		if err != nil {
			return m.raise(state, err)
		}
		if err := state.store(instr.Dst, res); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpNew:
		args := popArgs(state, int(instr.N))
		calleeVal := state.load(instr.Src)
		if !calleeVal.IsObject() || calleeVal.Object() == nil {
			return m.raise(state, NewTypeError("not a constructor"))
		}
		ctor, ok := calleeVal.Object().(object.Obj)
		if !ok {
			return m.raise(state, NewTypeError("not a constructor"))
		}
		inst, err := ctor.Construct(args, m)
		if err != nil {
			return m.raise(state, err)
		}
		if err := state.store(instr.Dst, value.FromObj(inst)); err != nil {
			return m.raise(state, err)
		}

	// --- Scopes ---

	case bytecode.OpPushScope:
		state.Scope = state.Scope.Child(0)
	case bytecode.OpPopScope:
		if state.Scope.Parent != nil {
			state.Scope = state.Scope.Parent
		}

	// --- Control blocks ---

	case bytecode.OpEnterTry:
		block := &state.Code.DS.Control[instr.Control]
		state.TryStack = append(state.TryStack, tryFrame{Block: block, Scope: state.Scope})
	case bytecode.OpLeaveTry:
		if len(state.TryStack) > 0 {
			state.TryStack = state.TryStack[:len(state.TryStack)-1]
		}
		if state.PendingThrow != nil {
			pending := state.PendingThrow
			state.PendingThrow = nil
			return m.raise(state, pending)
		}

	// --- Misc ---

	case bytecode.OpThrow:
		return m.raise(state, NewThrow(state.Acc))
	case bytecode.OpReturn:
		return ControlFlow{Kind: FlowReturn, Value: state.Acc}, true
	case bytecode.OpLoadThis:
		if err := state.store(instr.Dst, state.This); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpFor:
		it, err := m.getIterator(state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		state.IterStack = append(state.IterStack, it)
	case bytecode.OpIterNext:
		if len(state.IterStack) == 0 {
			return m.raise(state, NewInternalError("OpIterNext with no active iterator"))
		}
		it := state.IterStack[len(state.IterStack)-1]
		v, iterDone, err := it.next(m)
		if err != nil {
			return m.raise(state, err)
		}
		if iterDone {
			state.IterStack = state.IterStack[:len(state.IterStack)-1]
			state.PC = int(instr.Addr)
			break
		}
		if err := state.store(instr.Dst, v); err != nil {
			return m.raise(state, err)
		}
	case bytecode.OpBeginSpread:
		state.SpreadStack = append(state.SpreadStack, nil)
	case bytecode.OpPushSpread:
		top := len(state.SpreadStack) - 1
		it, err := m.getIterator(state.load(instr.Src))
		if err != nil {
			return m.raise(state, err)
		}
		for {
			v, iterDone, err := it.next(m)
			if err != nil {
				return m.raise(state, err)
			}
			if iterDone {
				break
			}
			state.SpreadStack[top] = append(state.SpreadStack[top], v)
		}
	case bytecode.OpEndSpread:
		top := len(state.SpreadStack) - 1
		elems := state.SpreadStack[top]
		state.SpreadStack = state.SpreadStack[:top]
		for _, v := range elems {
			state.pushStack(v)
		}
	case bytecode.OpBreak, bytecode.OpContinue:
		for i := int32(0); i < instr.N; i++ {
			if state.Scope.Parent != nil {
				state.Scope = state.Scope.Parent
			}
		}
		state.PC = int(instr.Addr)
	case bytecode.OpAwait:
		return ControlFlow{Kind: FlowAwait, Value: state.Acc}, true
	case bytecode.OpYield:
		return ControlFlow{Kind: FlowYield, Value: state.Acc}, true
	case bytecode.OpYieldStar:
		return ControlFlow{Kind: FlowYieldStar, Value: state.Acc}, true
	case bytecode.OpHalt:
		return ControlFlow{Kind: FlowReturn, Value: value.Undefined}, true

	// --- Closures ---

	case bytecode.OpMakeClosure:
		fc := state.Code.DS.Funcs[instr.Func]
		fn := object.NewBytecodeFunction(m.FunctionProto, fc, state.Scope)
		if err := state.store(instr.Dst, value.FromObj(fn)); err != nil {
			return m.raise(state, err)
		}

	default:
		return m.raise(state, NewInternalError("unhandled opcode %d", instr.Op))
	}

	return ControlFlow{}, false
}

// execBinary runs one of the 36 arithmetic opcodes via the two-shape
// simplification spec.md §4.4 allows: *Acc and *AccReg both read Acc as
// the left operand and Instr.Src as the right, writing back to Acc;
// only *RegReg differs, reading Instr.Src/Instr.Reg and writing
// Instr.Dst.
func (m *Machine) execBinary(state *VmState, instr bytecode.Instr, fn binaryFn, regReg bool) (ControlFlow, bool) {
	var a, b value.Value
	var dst bytecode.Operand
	if regReg {
		a = state.load(instr.Src)
		b = state.Regs[instr.Reg]
		dst = instr.Dst
	} else {
		a = state.Acc
		b = state.load(instr.Src)
		dst = bytecode.OperandAccumulator()
	}
	res, err := fn(m, a, b)
	if err != nil {
		return m.raise(state, err)
	}
	if err := state.store(dst, res); err != nil {
		return m.raise(state, err)
	}
	return ControlFlow{}, false
}

type arithEntry struct {
	fn     binaryFn
	regReg bool
}

var arithTable = map[bytecode.Op]arithEntry{
	bytecode.OpAddAcc: {addValues, false}, bytecode.OpAddAccReg: {addValues, false}, bytecode.OpAddRegReg: {addValues, true},
	bytecode.OpSubAcc: {subValues, false}, bytecode.OpSubAccReg: {subValues, false}, bytecode.OpSubRegReg: {subValues, true},
	bytecode.OpMulAcc: {mulValues, false}, bytecode.OpMulAccReg: {mulValues, false}, bytecode.OpMulRegReg: {mulValues, true},
	bytecode.OpDivAcc: {divValues, false}, bytecode.OpDivAccReg: {divValues, false}, bytecode.OpDivRegReg: {divValues, true},
	bytecode.OpModAcc: {modValues, false}, bytecode.OpModAccReg: {modValues, false}, bytecode.OpModRegReg: {modValues, true},
	bytecode.OpExpAcc: {expValues, false}, bytecode.OpExpAccReg: {expValues, false}, bytecode.OpExpRegReg: {expValues, true},
	bytecode.OpBitAndAcc: {bitAndValues, false}, bytecode.OpBitAndAccReg: {bitAndValues, false}, bytecode.OpBitAndRegReg: {bitAndValues, true},
	bytecode.OpBitOrAcc: {bitOrValues, false}, bytecode.OpBitOrAccReg: {bitOrValues, false}, bytecode.OpBitOrRegReg: {bitOrValues, true},
	bytecode.OpBitXorAcc: {bitXorValues, false}, bytecode.OpBitXorAccReg: {bitXorValues, false}, bytecode.OpBitXorRegReg: {bitXorValues, true},
	bytecode.OpShlAcc: {shlValues, false}, bytecode.OpShlAccReg: {shlValues, false}, bytecode.OpShlRegReg: {shlValues, true},
	bytecode.OpSarAcc: {sarValues, false}, bytecode.OpSarAccReg: {sarValues, false}, bytecode.OpSarRegReg: {sarValues, true},
	bytecode.OpShrAcc: {shrValues, false}, bytecode.OpShrAccReg: {shrValues, false}, bytecode.OpShrRegReg: {shrValues, true},
}

// raise routes a Go error to the innermost active try block (spec.md
// §4.5): a catch arm gets the reified error in Acc and a PC jump to
// CatchPC; a finally-only frame stashes the error in PendingThrow and
// jumps to FinallyPC; an exhausted try stack returns FlowError.
func (m *Machine) raise(state *VmState, err error) (ControlFlow, bool) {
	vmErr := AsError(err)
	for len(state.TryStack) > 0 {
		top := &state.TryStack[len(state.TryStack)-1]
		block := top.Block
		if !top.Caught && block.Kind.HasCatchArm() {
			top.Caught = true
			state.Scope = top.Scope
			state.Acc = vmErr.ToErrorObject(m.ErrorProtos)
			state.PC = block.CatchPC
			return ControlFlow{}, false
		}
		if block.Kind.HasFinallyArm() {
			state.TryStack = state.TryStack[:len(state.TryStack)-1]
			state.Scope = top.Scope
			state.PendingThrow = vmErr
			state.PC = block.FinallyPC
			return ControlFlow{}, false
		}
		state.TryStack = state.TryStack[:len(state.TryStack)-1]
	}
	return ControlFlow{Kind: FlowError, Err: vmErr}, true
}

// raiseInto injects an error at a suspended activation's current PC (the
// await site) and resumes the fetch-execute loop — used by
// ResumableVM.PollNext when an awaited promise rejects.
func (m *Machine) raiseInto(state *VmState, err *Error) ControlFlow {
	cf, done := m.raise(state, err)
	if done {
		return cf
	}
	return m.Run(state)
}

func popArgs(state *VmState, n int) []value.Value {
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = state.popStack()
	}
	return args
}

func (m *Machine) toStringFn() func(value.Value) (string, error) {
	return func(v value.Value) (string, error) { return value.ToString(m, v) }
}

// getMember implements `object.key`/`object[key]` (spec.md §4.2): resolve
// through the prototype chain, invoking an accessor getter if found.
func (m *Machine) getMember(objVal, keyVal value.Value) (value.Value, error) {
	if !objVal.IsObject() || objVal.Object() == nil {
		return value.Undefined, m.ThrowTypeError("Cannot read properties of %s", debugDisplay(objVal))
	}
	obj, ok := objVal.Object().(object.Obj)
	if !ok {
		return value.Undefined, m.ThrowTypeError("not a property-bearing object")
	}
	ikey, err := value.ToInternalPropertyKey(keyVal, m.toStringFn())
	if err != nil {
		return value.Undefined, err
	}
	v, _, err := object.GetResolvedValue(obj, ikey, objVal, m)
	return v, err
}

// setMember implements `object.key = value` (spec.md §4.2): a setter
// found on the prototype chain is invoked; a non-writable data property
// raises in strict mode and is silently ignored otherwise.
func (m *Machine) setMember(state *VmState, objVal, keyVal, v value.Value) error {
	if !objVal.IsObject() || objVal.Object() == nil {
		return m.ThrowTypeError("Cannot set properties of %s", debugDisplay(objVal))
	}
	obj, ok := objVal.Object().(object.Obj)
	if !ok {
		return m.ThrowTypeError("not a property-bearing object")
	}
	ikey, err := value.ToInternalPropertyKey(keyVal, m.toStringFn())
	if err != nil {
		return err
	}
	if p, found, err := obj.ResolveProperty(ikey, m); err != nil {
		return err
	} else if found && p.IsAccessor() && p.Set != nil {
		_, err := m.Call(value.FromObj(p.Set), objVal, []value.Value{v})
		return err
	}
	res, err := obj.DefineProperty(ikey, v, m)
	if err != nil {
		return err
	}
	switch res.Kind {
	case object.DefineSetter:
		_, err := m.Call(value.FromObj(res.Setter), objVal, []value.Value{v})
		return err
	case object.DefineReadOnly:
		if state.Scope.IsStrict() {
			return m.ThrowTypeError("Cannot assign to read only property")
		}
	}
	return nil
}

func instanceOf(v, ctor value.Value) bool {
	if !v.IsObject() || v.Object() == nil || !ctor.IsObject() || ctor.Object() == nil {
		return false
	}
	ctorObj, ok := ctor.Object().(object.Obj)
	if !ok {
		return false
	}
	protoProp, ok := ctorObj.GetOwnProperty(value.IKeyStr("prototype"))
	if !ok || protoProp.IsAccessor() || protoProp.Value.Object() == nil {
		return false
	}
	proto := protoProp.Value.Object()
	cur, ok := v.Object().(object.Obj)
	if !ok {
		return false
	}
	for {
		p := cur.Prototype()
		if p == nil {
			return false
		}
		if p.ObjID() == proto.ObjID() {
			return true
		}
		cur = p
	}
}

func incDec(m *Machine, v value.Value, delta int64) (value.Value, error) {
	if v.IsBigInt() {
		return value.Big(value.NewBigIntFromInt64(v.BigInt_().Int64() + delta)), nil
	}
	n, err := value.ToNumber(m, v)
	if err != nil {
		return value.Undefined, err
	}
	return value.Number(n + float64(delta)), nil
}

// vmIterator is the VM-internal iterator handle driven by OpFor/
// OpIterNext/OpPushSpread (spec.md §4.8): next reports the next value,
// or done=true once exhausted.
type vmIterator struct {
	next func(m *Machine) (v value.Value, done bool, err error)
}

// getIterator implements the iteration protocol: prefer a @@iterator
// method if the object exposes one (general protocol, spec.md §4.8),
// falling back to the array-shaped GetArrayOrDone fast path for objects
// that don't (synthetic/internal iterables the compiler produces for
// destructuring over plain dense arrays).
func (m *Machine) getIterator(v value.Value) (*vmIterator, error) {
	if !v.IsObject() || v.Object() == nil {
		return nil, m.ThrowTypeError("%s is not iterable", v.TypeOf())
	}
	obj, ok := v.Object().(object.Obj)
	if !ok {
		return nil, m.ThrowTypeError("%s is not iterable", v.TypeOf())
	}

	iterFn, err := m.GetProperty(obj, value.KeySym(value.SymbolIterator()))
	if err != nil {
		return nil, err
	}
	if iterFn.IsObject() && iterFn.Object() != nil && iterFn.Object().IsCallable() {
		iterObj, err := m.Call(iterFn, v, nil)
		if err != nil {
			return nil, err
		}
		return &vmIterator{next: protocolNext(iterObj)}, nil
	}

	var idx uint64
	return &vmIterator{next: func(*Machine) (value.Value, bool, error) {
		done, val, ok := obj.GetArrayOrDone(idx)
		idx++
		if done || !ok {
			return value.Undefined, true, nil
		}
		return val, false, nil
	}}, nil
}

// protocolNext drives the general {next(): {value, done}} protocol
// against an already-obtained iterator object.
func protocolNext(iterObj value.Value) func(*Machine) (value.Value, bool, error) {
	return func(m *Machine) (value.Value, bool, error) {
		if !iterObj.IsObject() || iterObj.Object() == nil {
			return value.Undefined, true, m.ThrowTypeError("iterator result is not an object")
		}
		obj, ok := iterObj.Object().(object.Obj)
		if !ok {
			return value.Undefined, true, m.ThrowTypeError("iterator result is not an object")
		}
		nextFn, err := m.GetProperty(obj, value.KeyStr("next"))
		if err != nil {
			return value.Undefined, true, err
		}
		res, err := m.Call(nextFn, iterObj, nil)
		if err != nil {
			return value.Undefined, true, err
		}
		if !res.IsObject() || res.Object() == nil {
			return value.Undefined, true, m.ThrowTypeError("iterator result is not an object")
		}
		resObj, ok := res.Object().(object.Obj)
		if !ok {
			return value.Undefined, true, m.ThrowTypeError("iterator result is not an object")
		}
		doneVal, err := m.GetProperty(resObj, value.KeyStr("done"))
		if err != nil {
			return value.Undefined, true, err
		}
		if doneVal.IsTruthy() {
			return value.Undefined, true, nil
		}
		val, err := m.GetProperty(resObj, value.KeyStr("value"))
		if err != nil {
			return value.Undefined, true, err
		}
		return val, false, nil
	}
}
