package evtactor

import (
	"errors"
	"fmt"
)

// Sentinel errors for framework-detected programmer errors; these are
// surfaced immediately to the caller, never silent.
var (
	// ErrMainNotAssigned is returned by StopMain when no thread has been
	// designated main via AsMain.
	ErrMainNotAssigned = errors.New("evtactor: no main thread assigned")

	// ErrDispatchWithoutAffinity is returned by Actor.Call/Actor.Run/
	// Actor.CallMove when the actor has no current thread affinity.
	ErrDispatchWithoutAffinity = errors.New("evtactor: dispatch on actor with no thread affinity")

	// ErrRefEmpty reports a dispatch through a zero-value Reference or
	// UntypedReference. Their Run/Call methods return false in that case
	// and log this error through the package logger; it is not returned.
	ErrRefEmpty = errors.New("evtactor: dispatch through uninitialized reference")
)

// DestructedWhileAttachedError reports that an [Actor] was destructed while
// still attached to a [Thread]. Detaching before destruction is the
// caller's responsibility; this is a programming error, surfaced as a
// diagnostic via the package logger and, when [Actor.Destruct] is called
// directly, returned to the caller.
type DestructedWhileAttachedError struct {
	ActorID  uint64
	Thread   string
	TypeName string
}

func (e *DestructedWhileAttachedError) Error() string {
	return fmt.Sprintf("evtactor: actor %d (%s) destructed while still attached to thread %q",
		e.ActorID, e.TypeName, e.Thread)
}

// UncaughtPromiseError wraps an error raised by a [PromiseChain] node
// functor when the chain has no bound [PromiseChain.Catch] handler. This
// is fatal on the executing thread: the running goroutine panics with
// this error.
type UncaughtPromiseError struct {
	Cause error
}

func (e *UncaughtPromiseError) Error() string {
	return fmt.Sprintf("evtactor: uncaught promise chain exception: %v", e.Cause)
}

func (e *UncaughtPromiseError) Unwrap() error {
	return e.Cause
}

// WrapError wraps an error with a message and cause, matching the
// package's consistent use of %w so callers can use errors.Is/errors.As
// across the chain.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
