package evtactor

import (
	"sync/atomic"
)

// threadState is the running-state of a [Thread]: configured until Start,
// running while the loop executes, stopped after Stop.
type threadState uint32

const (
	// stateConfigured is the initial state: Configure is accepted, Start
	// has not yet been called.
	stateConfigured threadState = iota
	// stateRunning indicates the loop goroutine is executing.
	stateRunning
	// stateStopped indicates Stop has completed; a later Start may reuse
	// the instance.
	stateStopped
)

func (s threadState) String() string {
	switch s {
	case stateConfigured:
		return "configured"
	case stateRunning:
		return "running"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// runState is a lock-free atomic wrapper around threadState, used by Thread
// so Configure/Start/Stop can check-and-transition without taking the
// thread's loop lock for the common case.
type runState struct {
	v atomic.Uint32
}

func (s *runState) load() threadState {
	return threadState(s.v.Load())
}

func (s *runState) store(v threadState) {
	s.v.Store(uint32(v))
}

// compareAndSwap atomically transitions from `from` to `to`, returning
// whether the transition happened.
func (s *runState) compareAndSwap(from, to threadState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
