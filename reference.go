package evtactor

import "weak"

// Reference is a liveness-safe, typed handle to an actor, keyed by id and
// validated through the registry on every dispatch. The embedded weak
// pointer is only an unchecked fast path to the id; it is never
// dereferenced without first confirming the actor is still registered.
type Reference[T any] struct {
	id   uint64
	weak weak.Pointer[Actor]
}

func newReference[T any](a *Actor) Reference[T] {
	return Reference[T]{id: a.id, weak: weak.Make(a)}
}

// Ok reports whether the referenced actor is still attached.
func (r Reference[T]) Ok() bool {
	_, ok := r.resolve()
	return ok
}

// resolve takes the weak pointer as an unchecked fast path (if the actor
// has already been collected, there is no need to touch the registry
// lock at all) but always confirms liveness against the registry, the
// authority, before returning it. Every dispatch through a reference is
// checked, never just the weak pointer's non-nilness.
func (r Reference[T]) resolve() (*Actor, bool) {
	if r.id == 0 || r.weak.Value() == nil {
		return nil, false
	}
	return global.lookup(r.id)
}

// Run enqueues a zero-argument closure on the referenced actor's affinity
// thread, returning false without enqueuing if the target has been
// detached, or if the reference was never initialized (the latter is
// logged, since it indicates a programmer error rather than an ordinary
// race against detach).
func (r Reference[T]) Run(fn func()) bool {
	if r.id == 0 {
		warnRefEmpty()
		return false
	}
	a, ok := r.resolve()
	if !ok {
		return false
	}
	return a.Run(fn) == nil
}

// Call enqueues method on the referenced actor's affinity thread; it is
// the method-dispatch counterpart to Run.
func (r Reference[T]) Call(method func()) bool {
	return r.Run(method)
}

// UntypedReference is the type-erased counterpart to Reference, used
// where the referent's concrete type is not statically known to the
// caller.
type UntypedReference struct {
	id   uint64
	weak weak.Pointer[Actor]
}

func newUntypedReference(a *Actor) UntypedReference {
	return UntypedReference{id: a.id, weak: weak.Make(a)}
}

func (r UntypedReference) Ok() bool {
	_, ok := r.resolve()
	return ok
}

func (r UntypedReference) resolve() (*Actor, bool) {
	if r.id == 0 || r.weak.Value() == nil {
		return nil, false
	}
	return global.lookup(r.id)
}

func (r UntypedReference) Run(fn func()) bool {
	if r.id == 0 {
		warnRefEmpty()
		return false
	}
	a, ok := r.resolve()
	if !ok {
		return false
	}
	return a.Run(fn) == nil
}

// warnRefEmpty surfaces ErrRefEmpty diagnostically.
// Reference/UntypedReference's dispatch methods return bool, so there is
// no error return to carry it on; it is logged instead of silently
// dropped like a detached target.
func warnRefEmpty() {
	if l := logger(); l != nil {
		l.Warning().Str("error", ErrRefEmpty.Error()).Log("dispatch through an uninitialized reference")
	}
}

func (r UntypedReference) Call(method func()) bool {
	return r.Run(method)
}

// ID returns the id of the actor this reference targets, even once the
// target has been detached (ids are never reused, so the id itself
// remains meaningful for logging/diagnostics).
func (r UntypedReference) ID() uint64 { return r.id }
