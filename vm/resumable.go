package vm

import "github.com/yavashark/yavashark/value"

// ResumableVM drives one VmState across suspend points (spec.md §4.6,
// §4.7/§4.8's generator/async model): state is stored and resumed rather
// than parked on a goroutine. Ported from
// original_source/crates/yavashark_vm/src/resumable_vm.rs's poll/next
// state machine.
type ResumableVM struct {
	Machine *Machine
	State   *VmState

	// done is set once the underlying activation has returned or errored;
	// further Poll/Next calls are a no-op that replays the same result.
	done   bool
	result ControlFlow
}

func NewResumableVM(m *Machine, state *VmState) *ResumableVM {
	return &ResumableVM{Machine: m, State: state}
}

// Poll runs (or resumes) the activation until it either completes or hits
// a suspend point. inject, when non-nil, is deposited at the state's
// Continuation target before resuming — the value a `yield` expression
// evaluates to, or the value/error an `await` settles with.
func (r *ResumableVM) Poll(inject *value.Value) ControlFlow {
	if r.done {
		return r.result
	}
	if inject != nil {
		r.deposit(*inject)
	}
	cf := r.Machine.Run(r.State)
	switch cf.Kind {
	case FlowReturn, FlowError:
		r.done = true
		r.result = cf
	}
	return cf
}

// deposit writes an injected/settled value at the continuation target the
// suspending instruction recorded. It leaves PC alone: PC already points
// at the next instruction (Run increments PC before dispatch), so
// resuming only needs the value in place.
func (r *ResumableVM) deposit(v value.Value) {
	switch r.State.Continuation.Kind {
	case ContinuationReg:
		r.State.Regs[r.State.Continuation.Reg] = v
	case ContinuationVar:
		name := r.State.varName(r.State.Continuation.Var)
		_ = r.State.Scope.UpdateOrDefine(name, v)
	default:
		r.State.Acc = v
	}
}

// Done reports whether the activation has returned or errored.
func (r *ResumableVM) Done() bool { return r.done }

// GeneratorResult is the JS-visible `{value, done}` shape a generator's
// `next()`/`return()`/`throw()` produce.
type GeneratorResult struct {
	Value value.Value
	Done  bool
}

// Next drives one step of a generator body: runs until the next `yield`
// (or `yield*`, handled identically from this driver's perspective — the
// compiler lowers `yield*`'s delegation loop to repeated `yield`s) or
// completion, wrapping the result in the iterator protocol shape.
func (r *ResumableVM) Next(sent value.Value) (GeneratorResult, *Error) {
	var inject *value.Value
	if r.State.PC != 0 || r.done {
		inject = &sent
	}
	cf := r.Poll(inject)
	switch cf.Kind {
	case FlowYield, FlowYieldStar:
		return GeneratorResult{Value: cf.Value, Done: false}, nil
	case FlowReturn:
		return GeneratorResult{Value: cf.Value, Done: true}, nil
	case FlowError:
		return GeneratorResult{}, cf.Err
	default:
		return GeneratorResult{Value: value.Undefined, Done: true}, nil
	}
}

// AwaitResult is what an async function's driver (AsyncTask) needs on
// every suspend: the awaited value, so it can subscribe a continuation and
// feed the settled result back through PollNext.
type AwaitResult struct {
	Awaited value.Value
}

// PollNext resumes an async function body with a previously awaited
// value's settlement (ok=true: the resolved value; ok=false: err is the
// rejection reason to inject as a thrown error at the await site).
func (r *ResumableVM) PollNext(settled value.Value, ok bool, rejectErr *Error) ControlFlow {
	if !ok {
		return r.Machine.raiseInto(r.State, rejectErr)
	}
	return r.Poll(&settled)
}
