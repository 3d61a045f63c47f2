package intrinsics

import (
	"github.com/yavashark/yavashark/object"
	"github.com/yavashark/yavashark/task"
	"github.com/yavashark/yavashark/value"
)

// installPromise builds the Promise constructor/prototype and statics
// spec.md §4.8/SPEC_FULL.md §5 name: executor-driven construction,
// .then/.catch/.finally, and Promise.resolve/reject/all/race/allSettled/
// any. The state machine itself lives in package task (grounded on
// original_source/crates/yavashark_env/src/builtins/promise.rs); this file
// is the JS-visible object.PromiseObject wrapper the teacher's
// createGlobalObject equivalent would build, generalized for an async
// runtime the teacher never had. Installs the one required
// task.SetNativeAdapter hookup so task.Promise.Resolve's thenable-adoption
// path can call back into a plain Go closure without task importing
// package object.
func (b *builder) installPromise() {
	task.SetNativeAdapter(func(fn func(args []value.Value)) value.Obj {
		return object.NewNativeFunction(b.functionProto, "", 1, func(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
			fn(args)
			return value.Undefined, nil
		})
	})

	b.promiseProto = object.New(b.objectProto)
	b.m.PromiseProto = b.promiseProto

	b.method(b.promiseProto, "then", 2, b.promiseThen)
	b.method(b.promiseProto, "catch", 1, b.promiseCatch)
	b.method(b.promiseProto, "finally", 1, b.promiseFinally)

	ctor := b.ctor("Promise", 1, b.promiseProto, b.promiseConstructor)
	b.method(ctor, "resolve", 1, b.promiseResolve)
	b.method(ctor, "reject", 1, b.promiseReject)
	b.method(ctor, "all", 1, b.promiseAll)
	b.method(ctor, "race", 1, b.promiseRace)
	b.method(ctor, "allSettled", 1, b.promiseAllSettled)
	b.method(ctor, "any", 1, b.promiseAny)
}

func (b *builder) wrapPromise(p *task.Promise) *object.PromiseObject {
	return object.NewPromiseObject(b.promiseProto, p)
}

func promiseOf(v value.Value) *task.Promise {
	obj := asObj(v)
	if po, ok := obj.(*object.PromiseObject); ok {
		return po.P
	}
	return nil
}

// promiseConstructor runs the executor synchronously with resolve/reject
// callbacks bound to the fresh Promise, matching the executor pattern
// every real Promise implementation the examples corpus shows (task
// package's Promise only ever settles from Go code, so the callback
// adapter is the one bridge into JS-callable functions).
func (b *builder) promiseConstructor(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	executor := arg(args, 0)
	if !isCallableObj(executor) {
		return value.Undefined, c.ThrowTypeError("Promise resolver is not a function")
	}
	p := task.NewPromise(b.m.Queue)
	resolveFn := object.NewNativeFunction(b.functionProto, "resolve", 1, func(c2 object.Caller, _ value.Value, rargs []value.Value, _ value.Obj) (value.Value, error) {
		p.Resolve(c2, arg(rargs, 0))
		return value.Undefined, nil
	})
	rejectFn := object.NewNativeFunction(b.functionProto, "reject", 1, func(c2 object.Caller, _ value.Value, rargs []value.Value, _ value.Obj) (value.Value, error) {
		p.Reject(arg(rargs, 0))
		return value.Undefined, nil
	})
	if _, err := c.Call(value.FromObj(executor), value.Undefined, []value.Value{value.FromObj(resolveFn), value.FromObj(rejectFn)}); err != nil {
		p.Reject(errValue(err))
	}
	return value.FromObj(b.wrapPromise(p)), nil
}

// errValue renders a Go error thrown out of a Call into a JS-visible
// reject reason: a thrown value.Value when the error is the VM's own
// reified-throw wrapper, otherwise the error's message as a plain string
// (package task and package object can't reify into a proper Error
// instance without importing the vm error taxonomy, which would invert
// the dependency graph spec.md §4 establishes).
func errValue(err error) value.Value {
	if ev, ok := err.(interface{ ThrownValue() (value.Value, bool) }); ok {
		if v, ok := ev.ThrownValue(); ok {
			return v
		}
	}
	return value.Str(err.Error())
}

func (b *builder) promiseThen(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	p := promiseOf(this)
	if p == nil {
		return value.Undefined, c.ThrowTypeError("Promise.prototype.then called on a non-Promise")
	}
	result := p.Then(c, arg(args, 0), arg(args, 1))
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) promiseCatch(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	p := promiseOf(this)
	if p == nil {
		return value.Undefined, c.ThrowTypeError("Promise.prototype.catch called on a non-Promise")
	}
	result := p.Catch(c, arg(args, 0))
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) promiseFinally(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	p := promiseOf(this)
	if p == nil {
		return value.Undefined, c.ThrowTypeError("Promise.prototype.finally called on a non-Promise")
	}
	result := p.Finally(c, arg(args, 0))
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) promiseResolve(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	v := arg(args, 0)
	if p := promiseOf(v); p != nil {
		return v, nil
	}
	p := task.NewPromise(b.m.Queue)
	p.Resolve(c, v)
	return value.FromObj(b.wrapPromise(p)), nil
}

func (b *builder) promiseReject(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	p := task.NewPromise(b.m.Queue)
	p.Reject(arg(args, 0))
	return value.FromObj(b.wrapPromise(p)), nil
}

func (b *builder) collectPromises(c object.Caller, v value.Value) ([]*task.Promise, error) {
	vals, err := b.drainIterator(c, v)
	if err != nil {
		return nil, err
	}
	out := make([]*task.Promise, len(vals))
	for i, ev := range vals {
		if p := promiseOf(ev); p != nil {
			out[i] = p
			continue
		}
		p := task.NewPromise(b.m.Queue)
		p.Resolve(c, ev)
		out[i] = p
	}
	return out, nil
}

func (b *builder) toArrayValue(vals []value.Value) value.Value {
	return value.FromObj(object.NewArrayFrom(b.arrayProto, vals))
}

func (b *builder) promiseAll(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	ps, err := b.collectPromises(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	result := task.All(b.m.Queue, c, ps, b.toArrayValue)
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) promiseRace(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	ps, err := b.collectPromises(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	result := task.Race(b.m.Queue, c, ps)
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) promiseAllSettled(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	ps, err := b.collectPromises(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	result := task.AllSettled(b.m.Queue, c, ps, b.toDescriptor, b.toArrayValue)
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) toDescriptor(fulfilled bool, v value.Value) value.Value {
	d := object.New(b.objectProto)
	if fulfilled {
		d.DefinePropertyAttributes(value.IKeyStr("status"), value.Str("fulfilled"), object.DefaultAttributes, b.m)
		d.DefinePropertyAttributes(value.IKeyStr("value"), v, object.DefaultAttributes, b.m)
	} else {
		d.DefinePropertyAttributes(value.IKeyStr("status"), value.Str("rejected"), object.DefaultAttributes, b.m)
		d.DefinePropertyAttributes(value.IKeyStr("reason"), v, object.DefaultAttributes, b.m)
	}
	return value.FromObj(d)
}

func (b *builder) promiseAny(c object.Caller, this value.Value, args []value.Value, newTarget value.Obj) (value.Value, error) {
	ps, err := b.collectPromises(c, arg(args, 0))
	if err != nil {
		return value.Undefined, err
	}
	result := task.Any(b.m.Queue, c, ps, b.aggregateErrors)
	return value.FromObj(b.wrapPromise(result)), nil
}

func (b *builder) aggregateErrors(errs []value.Value) value.Value {
	obj := object.NewErrorObject(b.errorProto, object.KindError, "All promises were rejected")
	obj.DefinePropertyAttributes(value.IKeyStr("errors"), b.toArrayValue(errs), object.DefaultAttributes, b.m)
	return value.FromObj(obj)
}
