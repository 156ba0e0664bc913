package evtactor

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// log is the package's structured logger. It defaults to nil, which is a
// valid, fully inert *logiface.Logger: every builder method on a nil
// receiver is a safe no-op, so the framework never needs a separate
// no-op implementation.
var (
	loggerMu sync.RWMutex
	log      *logiface.Logger[*stumpy.Event]
)

// SetLogger installs the package-wide structured logger used for
// diagnostics: thread start/stop, queue-full drops, detach purges, uncaught
// promise exceptions, actors destructed while attached, and dispatches
// through uninitialized references. Pass nil to disable logging.
//
// A typical setup mirrors the rest of the stack's own wiring:
//
//	evtactor.SetLogger(stumpy.L.New(stumpy.L.WithStumpy()))
func SetLogger(l *logiface.Logger[*stumpy.Event]) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	log = l
}

// logger returns the current package logger under a read lock, so
// concurrent SetLogger calls never race with dispatch-hot-path logging.
func logger() *logiface.Logger[*stumpy.Event] {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return log
}
