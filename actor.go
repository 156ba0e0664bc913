package evtactor

import (
	"reflect"
	"sync"
)

// onAttachHook and onDetachHook let an embedding actor type opt into
// attach/detach notifications without forcing every actor to implement
// them.
type onAttachHook interface{ OnAttach(t *Thread) }
type onDetachHook interface{ OnDetach() }

// Actor is the base type embedded by every user-defined actor. It carries
// a stable identity and, at any moment, at most one thread affinity.
//
// Embed a *Actor and initialize with NewActor, passing the embedding
// type so Attach/Detach can dispatch the optional hooks:
//
//	type Worker struct {
//		*evtactor.Actor
//	}
//
//	func NewWorker() *Worker {
//		w := &Worker{}
//		w.Actor = evtactor.NewActor(w)
//		return w
//	}
type Actor struct {
	id   uint64
	self any

	mu     sync.Mutex // serializes attach/detach/re-attach for this actor
	thread *Thread
}

// NewActor allocates a new, globally unique actor identity. self should be
// the embedding type; pass nil to skip hook dispatch.
func NewActor(self any) *Actor {
	return &Actor{id: global.allocID(), self: self}
}

// ID returns the actor's stable, never-reused identity.
func (a *Actor) ID() uint64 { return a.id }

// CurrentThread returns the actor's current affinity thread, or nil if
// unattached.
func (a *Actor) CurrentThread() *Thread {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.thread
}

// Attach binds the actor to t, atomically detaching it from any prior
// affinity first. Any closures still queued under the old affinity are
// purged, not moved.
func (a *Actor) Attach(t *Thread) {
	if t == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.thread != nil {
		a.thread.detachChild(a.id)
	}
	a.thread = t
	t.attachChild(a.id)
	global.insert(a)
	if h, ok := a.self.(onAttachHook); ok {
		h.OnAttach(t)
	}
}

// Detach removes the actor's current affinity, purging its pending queue
// entries and erasing it from the registry. Closures enqueued under this
// actor's id never run after Detach returns.
func (a *Actor) Detach() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.thread == nil {
		return
	}
	t := a.thread
	t.detachChild(a.id)
	global.erase(a.id)
	a.thread = nil
	if h, ok := a.self.(onDetachHook); ok {
		h.OnDetach()
	}
}

// Run enqueues a zero-argument closure under this actor's id on its
// affinity thread. Returns ErrDispatchWithoutAffinity if the actor is
// unattached.
func (a *Actor) Run(fn func()) error {
	t := a.CurrentThread()
	if t == nil {
		return ErrDispatchWithoutAffinity
	}
	t.enqueue(a.id, fn)
	return nil
}

// Call is the method-dispatch analogue of Run: it binds method to this
// actor and enqueues an invocation of it on the affinity thread. Both
// resolve to the same dispatch primitive since a method value is already
// a closure over its receiver.
func (a *Actor) Call(method func()) error {
	return a.Run(method)
}

// CallMove enqueues a dispatch that takes ownership of args: they are
// constructed by the caller, held by the queued closure, and passed to
// method exactly once when the closure runs. Use it to hand non-shareable
// payloads across the thread boundary without the caller retaining them.
func CallMove[T any](a *Actor, args T, method func(T)) error {
	t := a.CurrentThread()
	if t == nil {
		return ErrDispatchWithoutAffinity
	}
	owned := args
	t.enqueue(a.id, func() { method(owned) })
	return nil
}

// Destruct reports that the actor is being torn down while still
// attached to a thread, which is a programming error. Call it from a type's
// teardown path when the caller cannot guarantee Detach ran first; it is
// a no-op returning nil if the actor is already unattached.
//
// The registry and the former thread's child set are always left
// consistent: no dangling entry remains, regardless of whether the
// returned error is treated as fatal by the caller.
func (a *Actor) Destruct() error {
	a.mu.Lock()
	t := a.thread
	a.mu.Unlock()
	if t == nil {
		return nil
	}

	err := &DestructedWhileAttachedError{
		ActorID:  a.id,
		Thread:   t.Name(),
		TypeName: typeName(a.self),
	}
	if l := logger(); l != nil {
		l.Err().Str("error", err.Error()).Log("actor destructed while still attached")
	}
	a.Detach()
	return err
}

func typeName(v any) string {
	if v == nil {
		return "<unknown>"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// TypedRef produces a liveness-validated, typed handle to this actor.
func TypedRef[T any](a *Actor) Reference[T] {
	return newReference[T](a)
}

// UntypedRef produces a liveness-validated handle to this actor that
// carries no type parameter.
func (a *Actor) UntypedRef() UntypedReference {
	return newUntypedReference(a)
}
