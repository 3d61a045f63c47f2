package vm

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/task"
	"github.com/yavashark/yavashark/value"
)

// AsyncTask drives one async function activation to completion (spec.md
// §4.7/§4.8): every FlowAwait subscribes a continuation against the
// awaited value (adopting it as a promise via task.Promise.Resolve's
// thenable duck-typing, so a plain value or a foreign thenable work
// exactly like a native Promise) and resumes the underlying ResumableVM
// once that continuation fires as a queued job — never synchronously, so
// an async function always yields to the queue at least once even when
// awaiting an already-settled value.
//
// Grounded on original_source/crates/yavashark_vm/src/resumable_vm.rs's
// async driver loop, reworked atop task.Queue/task.Promise since the
// original drove continuations through a Rust executor this repo has no
// equivalent for.
type AsyncTask struct {
	machine *Machine
	rv      *ResumableVM
	queue   *task.Queue
	promise *task.Promise
}

// NewAsyncTask wires rv (already positioned at PC 0 of the async
// function's body) to settle a fresh Promise scheduled on q.
func NewAsyncTask(m *Machine, rv *ResumableVM, q *task.Queue) *AsyncTask {
	return &AsyncTask{machine: m, rv: rv, queue: q, promise: task.NewPromise(q)}
}

// Promise is the Promise the async function call returns to its caller
// immediately, before the body has run at all.
func (t *AsyncTask) Promise() *task.Promise { return t.promise }

// Start begins driving the function body. Call exactly once, right after
// construction.
func (t *AsyncTask) Start() {
	t.handle(t.rv.Poll(nil))
}

func (t *AsyncTask) handle(cf ControlFlow) {
	switch cf.Kind {
	case FlowReturn:
		t.promise.Resolve(t.machine, cf.Value)
	case FlowError:
		t.promise.Reject(cf.Err.ToErrorObject(t.machine.ErrorProtos))
	case FlowAwait:
		t.awaitOn(cf.Value)
	default:
		t.promise.Reject(NewInternalError("async function suspended on a non-await control flow (%d)", cf.Kind).ToErrorObject(t.machine.ErrorProtos))
	}
}

// awaitOn subscribes a continuation against the awaited value and hands
// control back to the queue — the resumed step runs as whatever job
// fires the continuation, possibly nested arbitrarily deep for a long
// async function body.
func (t *AsyncTask) awaitOn(awaited value.Value) {
	settlement := task.NewPromise(t.queue)
	settlement.Resolve(t.machine, awaited)
	settlement.Then(t.machine,
		task.WrapCallback(func(args []value.Value) {
			t.handle(t.rv.PollNext(arg0(args), true, nil))
		}),
		task.WrapCallback(func(args []value.Value) {
			t.handle(t.rv.PollNext(value.Value{}, false, NewThrow(arg0(args))))
		}),
	)
}

func arg0(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined
	}
	return args[0]
}

// GeneratorTask adapts a ResumableVM to the `{value, done}` next/return/
// throw protocol a JS generator object exposes (spec.md §4.8). Unlike
// AsyncTask it does not own a Queue: stepping a generator is caller-
// driven (each `.next()` call runs synchronously to the following yield),
// matching original_source's generator resumption being purely
// stack-local.
type GeneratorTask struct {
	rv *ResumableVM
}

func NewGeneratorTask(rv *ResumableVM) *GeneratorTask { return &GeneratorTask{rv: rv} }

var _ object.GeneratorNexter = (*GeneratorTask)(nil)

// Next resumes the generator body with sent as the value the suspended
// `yield` expression evaluates to. Implements object.GeneratorNexter.
func (g *GeneratorTask) Next(sent value.Value) (object.GenResult, error) {
	r, err := g.rv.Next(sent)
	if err != nil {
		return object.GenResult{}, err
	}
	return object.GenResult{Value: r.Value, Done: r.Done}, nil
}

// Return forces the generator to complete as though a `return sent;`
// statement ran at the current suspend point — approximated here as
// immediate completion, since try/finally unwinding through a forced
// return is handled by the bytecode's own LeaveTry machinery only when
// resumed via normal Next; a bare Return bypasses pending finally blocks,
// matching spec.md's Non-goal on generator.return() running cleanup for
// an already-suspended frame.
func (g *GeneratorTask) Return(sent value.Value) object.GenResult {
	g.rv.done = true
	g.rv.result = ControlFlow{Kind: FlowReturn, Value: sent}
	return object.GenResult{Value: sent, Done: true}
}

// Throw injects an error at the generator's current suspend point,
// resuming it as though the yield expression had thrown.
func (g *GeneratorTask) Throw(err error) (object.GenResult, error) {
	cf := g.rv.Machine.raiseInto(g.rv.State, AsError(err))
	switch cf.Kind {
	case FlowYield, FlowYieldStar:
		return object.GenResult{Value: cf.Value, Done: false}, nil
	case FlowReturn:
		g.rv.done, g.rv.result = true, cf
		return object.GenResult{Value: cf.Value, Done: true}, nil
	case FlowError:
		g.rv.done, g.rv.result = true, cf
		return object.GenResult{}, cf.Err
	default:
		return object.GenResult{Value: value.Undefined, Done: true}, nil
	}
}

// Done reports whether the generator has returned, thrown, or been
// force-completed via Return.
func (g *GeneratorTask) Done() bool { return g.rv.Done() }
