package evtactor

import "time"

// HandlingScheme selects when a [Thread] drains its queue relative to its
// periodic task: AfterTask and BeforeTask bracket the task invocation
// automatically; UserControlled leaves draining entirely to explicit
// [Thread.Drain] calls.
type HandlingScheme int

const (
	// AfterTask invokes the task, then drains the queue, on every tick.
	// This is the default.
	AfterTask HandlingScheme = iota
	// BeforeTask drains the queue, then invokes the task, on every tick.
	BeforeTask
	// UserControlled never drains automatically; the embedding type must
	// call Thread.Drain itself, typically from within its task.
	UserControlled
)

func (s HandlingScheme) String() string {
	switch s {
	case AfterTask:
		return "after-task"
	case BeforeTask:
		return "before-task"
	case UserControlled:
		return "user-controlled"
	default:
		return "unknown"
	}
}

// threadOptions holds configuration accumulated by ThreadOption values
// before a Thread starts running.
type threadOptions struct {
	name           string
	period         time.Duration
	scheme         HandlingScheme
	queueBound     int
	metricsEnabled bool
	asMain         bool
}

// ThreadOption configures a Thread at construction time. Configuration
// is only meaningful before Start; the post-construction setters are
// silently ignored once the thread is running.
type ThreadOption interface {
	applyThread(*threadOptions)
}

type threadOptionFunc func(*threadOptions)

func (f threadOptionFunc) applyThread(o *threadOptions) { f(o) }

// WithName assigns a diagnostic name to a Thread, surfaced in log output
// and in DestructedWhileAttachedError. Unset threads are named by their
// allocation order.
func WithName(name string) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.name = name
	})
}

// WithPeriod sets a fixed tick period: the thread's task is invoked once
// per period, with deadlines drifting forward (never skipping) if a task
// overruns.
func WithPeriod(d time.Duration) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.period = d
	})
}

// WithFrequency sets the tick rate in Hz; equivalent to WithPeriod(1/hz).
func WithFrequency(hz float64) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		if hz > 0 {
			o.period = time.Duration(float64(time.Second) / hz)
		}
	})
}

// WithScheme selects the handling scheme. Defaults to AfterTask.
func WithScheme(s HandlingScheme) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.scheme = s
	})
}

// WithQueueBound overrides the default bound (1000) of the thread's event
// queue.
func WithQueueBound(n int) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.queueBound = n
	})
}

// WithMetrics enables ThreadMetrics collection on the constructed Thread.
func WithMetrics(enabled bool) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.metricsEnabled = enabled
	})
}

// AsMain marks the constructed Thread as the process's main thread;
// Thread.Start on a main thread blocks the calling goroutine instead of
// spawning one of its own.
func AsMain() ThreadOption {
	return threadOptionFunc(func(o *threadOptions) {
		o.asMain = true
	})
}

func resolveThreadOptions(opts []ThreadOption) *threadOptions {
	cfg := &threadOptions{
		scheme:     AfterTask,
		queueBound: 1000,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyThread(cfg)
	}
	return cfg
}
