package task

import "github.com/yavashark/yavashark/value"

// State is a Promise's settlement state (spec.md §4.8).
type State uint8

const (
	Pending State = iota
	Fulfilled
	Rejected
)

// Promise is the core state machine behind the Promise intrinsic (spec.md
// §4.8), independent of any concrete JS-visible object shape — intrinsics
// wraps one in a value.Obj. Reactions run as Queue jobs, never
// synchronously from Resolve/Reject, matching the microtask-timing
// invariant spec.md §8 scenario 2 tests.
//
// Grounded on original_source/crates/yavashark_env/src/builtins/promise.rs.
type Promise struct {
	queue *Queue

	state  State
	result value.Value

	// pending holds every watcher registered before settlement; settle
	// fires each one as a queued job, in registration order, exactly
	// once.
	pending []func()
}

// NewPromise creates a pending promise scheduled against q.
func NewPromise(q *Queue) *Promise {
	return &Promise{queue: q, state: Pending}
}

func (p *Promise) State() State        { return p.state }
func (p *Promise) Result() value.Value { return p.result }

// Resolve settles p as fulfilled with v, unless v is itself a thenable (an
// object exposing a callable "then"), in which case p adopts that
// thenable's eventual state (the Promise Resolution Procedure, spec.md
// §4.8) — resolved generically via Caller.GetProperty rather than a type
// assertion on *Promise, so foreign/host thenables resolve correctly too.
func (p *Promise) Resolve(c value.Caller, v value.Value) {
	if p.state != Pending {
		return
	}
	if v.IsObject() && v.Object() != nil {
		then, err := c.GetProperty(v.Object(), value.KeyStr("then"))
		if err == nil && then.IsObject() && then.Object() != nil && then.Object().IsCallable() {
			p.queue.Enqueue(func() {
				resolveFn := value.FromObj(nativeAdapter(func(args []value.Value) { p.Resolve(c, arg0(args)) }))
				rejectFn := value.FromObj(nativeAdapter(func(args []value.Value) { p.Reject(arg0(args)) }))
				_, callErr := c.Call(then, v, []value.Value{resolveFn, rejectFn})
				if callErr != nil {
					p.Reject(errToValue(callErr))
				}
			})
			return
		}
	}
	p.settle(Fulfilled, v)
}

// Reject settles p as rejected with reason.
func (p *Promise) Reject(reason value.Value) {
	if p.state != Pending {
		return
	}
	p.settle(Rejected, reason)
}

func (p *Promise) settle(state State, v value.Value) {
	p.state = state
	p.result = v
	pending := p.pending
	p.pending = nil
	for _, run := range pending {
		p.queue.Enqueue(run)
	}
}

// watch registers onFulfilled/onRejected against p's eventual settlement,
// queuing the matching callback immediately if already settled or
// deferring it until settle() runs otherwise. Every public combinator
// (Then/Catch/Finally/All/Race/...) is built on this one primitive.
func (p *Promise) watch(onFulfilled, onRejected func(value.Value)) {
	run := func() {
		if p.state == Fulfilled {
			onFulfilled(p.result)
		} else {
			onRejected(p.result)
		}
	}
	if p.state == Pending {
		p.pending = append(p.pending, run)
		return
	}
	p.queue.Enqueue(run)
}

// Then implements `.then(onFulfilled, onRejected)`: either callback may be
// the zero Value (absent, meaning "forward the settlement unchanged").
// Returns the chained promise.
func (p *Promise) Then(c value.Caller, onFulfilled, onRejected value.Value) *Promise {
	result := NewPromise(p.queue)
	p.watch(
		func(v value.Value) {
			if !isCallable(onFulfilled) {
				result.Resolve(c, v)
				return
			}
			ret, err := c.Call(onFulfilled, value.Undefined, []value.Value{v})
			if err != nil {
				result.Reject(errToValue(err))
				return
			}
			result.Resolve(c, ret)
		},
		func(reason value.Value) {
			if !isCallable(onRejected) {
				result.Reject(reason)
				return
			}
			ret, err := c.Call(onRejected, value.Undefined, []value.Value{reason})
			if err != nil {
				result.Reject(errToValue(err))
				return
			}
			result.Resolve(c, ret)
		},
	)
	return result
}

// Catch is sugar for Then(c, <absent>, onRejected).
func (p *Promise) Catch(c value.Caller, onRejected value.Value) *Promise {
	return p.Then(c, value.Value{}, onRejected)
}

// Finally runs onFinally regardless of settlement, forwarding the
// original fulfillment/rejection through unless onFinally itself throws.
func (p *Promise) Finally(c value.Caller, onFinally value.Value) *Promise {
	result := NewPromise(p.queue)
	run := func(fulfilled bool, v value.Value) {
		if isCallable(onFinally) {
			if _, err := c.Call(onFinally, value.Undefined, nil); err != nil {
				result.Reject(errToValue(err))
				return
			}
		}
		if fulfilled {
			result.Resolve(c, v)
		} else {
			result.Reject(v)
		}
	}
	p.watch(
		func(v value.Value) { run(true, v) },
		func(reason value.Value) { run(false, reason) },
	)
	return result
}

// All implements Promise.all: fulfills with an array of results once every
// input settles, or rejects with the first rejection. Callers pass
// toArray to build the JS-visible result array since task stays
// independent of package object.
func All(q *Queue, c value.Caller, ps []*Promise, toArray func([]value.Value) value.Value) *Promise {
	result := NewPromise(q)
	if len(ps) == 0 {
		result.Resolve(c, toArray(nil))
		return result
	}
	results := make([]value.Value, len(ps))
	remaining := len(ps)
	for i, p := range ps {
		i := i
		p.watch(func(v value.Value) {
			results[i] = v
			remaining--
			if remaining == 0 {
				result.Resolve(c, toArray(results))
			}
		}, func(reason value.Value) {
			result.Reject(reason)
		})
	}
	return result
}

// Race settles with whichever input promise settles first.
func Race(q *Queue, c value.Caller, ps []*Promise) *Promise {
	result := NewPromise(q)
	for _, p := range ps {
		p.watch(func(v value.Value) { result.Resolve(c, v) }, func(r value.Value) { result.Reject(r) })
	}
	return result
}

// AllSettled always fulfills, with an array of {status, value|reason}
// descriptors built by toDescriptor.
func AllSettled(q *Queue, c value.Caller, ps []*Promise, toDescriptor func(fulfilled bool, v value.Value) value.Value, toArray func([]value.Value) value.Value) *Promise {
	result := NewPromise(q)
	if len(ps) == 0 {
		result.Resolve(c, toArray(nil))
		return result
	}
	results := make([]value.Value, len(ps))
	remaining := len(ps)
	done := func() {
		remaining--
		if remaining == 0 {
			result.Resolve(c, toArray(results))
		}
	}
	for i, p := range ps {
		i := i
		p.watch(func(v value.Value) {
			results[i] = toDescriptor(true, v)
			done()
		}, func(reason value.Value) {
			results[i] = toDescriptor(false, reason)
			done()
		})
	}
	return result
}

// Any fulfills with the first fulfillment, or rejects once every input has
// rejected (errors aggregated by aggregateErrors).
func Any(q *Queue, c value.Caller, ps []*Promise, aggregateErrors func([]value.Value) value.Value) *Promise {
	result := NewPromise(q)
	if len(ps) == 0 {
		result.Reject(aggregateErrors(nil))
		return result
	}
	errs := make([]value.Value, len(ps))
	remaining := len(ps)
	for i, p := range ps {
		i := i
		p.watch(func(v value.Value) { result.Resolve(c, v) }, func(reason value.Value) {
			errs[i] = reason
			remaining--
			if remaining == 0 {
				result.Reject(aggregateErrors(errs))
			}
		})
	}
	return result
}

func isCallable(v value.Value) bool {
	return v.IsObject() && v.Object() != nil && v.Object().IsCallable()
}

// errToValue renders a Caller error into a Value suitable for Reject: an
// error reified via ToErrorObject-like adapters exposes Value(); anything
// else (a plain Go error) becomes a string reason — task can't import vm
// (vm imports object, which must stay independent of task) so it can't
// reconstruct a full Error object itself.
func errToValue(err error) value.Value {
	if ev, ok := err.(interface{ Value() value.Value }); ok {
		return ev.Value()
	}
	return value.Str(err.Error())
}

func arg0(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined
	}
	return args[0]
}

// nativeAdapter is supplied by the intrinsics package (via SetNativeAdapter)
// so this package can hand a resolve/reject pair to a foreign thenable's
// "then" without importing package object itself.
var nativeAdapter = func(fn func(args []value.Value)) value.Obj {
	panic("task: SetNativeAdapter must be called before resolving thenables")
}

// SetNativeAdapter installs the constructor intrinsics.Install uses to
// turn a Go closure into a callable value.Obj. Called once during realm
// setup.
func SetNativeAdapter(ctor func(fn func(args []value.Value)) value.Obj) {
	nativeAdapter = ctor
}

// WrapCallback adapts a Go closure into a callable Value via the adapter
// SetNativeAdapter installed — the form package vm's AsyncTask needs to
// subscribe a continuation through Then/Catch without constructing a
// JS-visible function object itself.
func WrapCallback(fn func(args []value.Value)) value.Value {
	return value.FromObj(nativeAdapter(fn))
}
