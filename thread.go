package evtactor

import (
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// taskHook, onStartHook and onTerminateHook let a Thread subtype override
// the loop's hooks: Task runs every tick (default no-op), OnStart runs
// once before the first iteration, OnTerminate once after the loop exits.
type taskHook interface{ Task() }
type onStartHook interface{ OnStart() }
type onTerminateHook interface{ OnTerminate() }

var (
	mainMu     sync.Mutex
	mainThread *Thread

	threadsByName   sync.Map // string -> *Thread, diagnostics only
	threadNameOrder atomic.Uint64
)

// Thread is a periodic worker loop owning a bounded event queue and a set
// of attached actors. A Thread is itself not an actor: it has no registry
// identity and cannot be the target of a Reference.
type Thread struct {
	self any

	name string

	state    runState
	configMu sync.Mutex // guards name/period/scheme while stateConfigured

	period time.Duration
	scheme HandlingScheme

	queue      *ingress
	drainDepth atomic.Int32
	handlingMu sync.Mutex

	childMu  sync.Mutex
	children map[uint64]struct{}

	metrics *metrics

	asMain bool
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewThread constructs a Thread in the configured state. Pass self (the
// embedding type, if any) so Task/OnStart/OnTerminate overrides are
// dispatched; a bare *Thread is a valid no-op worker.
func NewThread(self any, opts ...ThreadOption) *Thread {
	cfg := resolveThreadOptions(opts)
	if self == nil {
		self = struct{}{}
	}
	t := &Thread{
		self:     self,
		name:     cfg.name,
		period:   cfg.period,
		scheme:   cfg.scheme,
		queue:    newIngress(cfg.queueBound),
		children: make(map[uint64]struct{}),
		metrics:  newMetrics(cfg.metricsEnabled),
		asMain:   cfg.asMain,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if t.name == "" {
		t.name = "thread-" + strconv.FormatUint(threadNameOrder.Add(1), 10)
	}
	threadsByName.Store(t.name, t)
	if t.asMain {
		mainMu.Lock()
		mainThread = t
		mainMu.Unlock()
	}
	return t
}

// Name returns the thread's diagnostic name.
func (t *Thread) Name() string { return t.name }

// LookupThreadByName returns a previously constructed Thread by its
// diagnostic name, for log/metric correlation; never used by dispatch.
func LookupThreadByName(name string) (*Thread, bool) {
	v, ok := threadsByName.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Thread), true
}

// Metrics returns a snapshot of this thread's runtime counters.
func (t *Thread) Metrics() ThreadMetrics { return t.metrics.snapshot() }

// configure applies a mutator only while the thread has not started;
// silently ignored once running.
func (t *Thread) configure(f func()) {
	t.configMu.Lock()
	defer t.configMu.Unlock()
	if t.state.load() != stateConfigured {
		return
	}
	f()
}

// SetName sets the thread's diagnostic name pre-start.
func (t *Thread) SetName(name string) {
	t.configure(func() {
		threadsByName.Delete(t.name)
		t.name = name
		threadsByName.Store(t.name, t)
	})
}

// SetPeriod sets the loop period pre-start.
func (t *Thread) SetPeriod(d time.Duration) {
	t.configure(func() { t.period = d })
}

// SetFrequency sets the loop period as a frequency in Hz, pre-start.
func (t *Thread) SetFrequency(hz float64) {
	t.configure(func() {
		if hz > 0 {
			t.period = time.Duration(float64(time.Second) / hz)
		}
	})
}

// SetScheme sets the handling scheme pre-start.
func (t *Thread) SetScheme(s HandlingScheme) {
	t.configure(func() { t.scheme = s })
}

// SetQueueBound overrides the queue bound pre-start.
func (t *Thread) SetQueueBound(n int) {
	t.configure(func() { t.queue.bound = n })
}

// ProvideAsMain designates this thread as the process's single main
// thread pre-start.
func (t *Thread) ProvideAsMain() {
	t.configure(func() {
		t.asMain = true
		mainMu.Lock()
		mainThread = t
		mainMu.Unlock()
	})
}

// StopMain stops the designated main thread. Returns ErrMainNotAssigned
// if no thread has been designated main.
func StopMain() error {
	mainMu.Lock()
	m := mainThread
	mainMu.Unlock()
	if m == nil {
		return ErrMainNotAssigned
	}
	m.Stop()
	return nil
}

// Start transitions the thread to running. A non-main thread spawns its
// own goroutine; the designated main thread runs the loop on the calling
// goroutine, blocking until Stop.
func (t *Thread) Start() {
	if !t.state.compareAndSwap(stateConfigured, stateRunning) {
		if !t.state.compareAndSwap(stateStopped, stateRunning) {
			return
		}
		// Reusing a stopped instance: fresh stop signal for this run.
		t.stopCh = make(chan struct{})
		t.doneCh = make(chan struct{})
	}
	if t.asMain {
		t.loop()
		return
	}
	go t.loop()
}

// Stop clears the running flag; idempotent. For a non-main thread this
// returns once the loop goroutine has observed the stop and exited its
// current iteration.
func (t *Thread) Stop() {
	if !t.state.compareAndSwap(stateRunning, stateStopped) {
		return
	}
	close(t.stopCh)
	if !t.asMain {
		<-t.doneCh
	}
}

func (t *Thread) loop() {
	defer close(t.doneCh)
	if h, ok := t.self.(onStartHook); ok {
		h.OnStart()
	}
	if l := logger(); l != nil {
		l.Info().Str("thread", t.name).Log("thread started")
	}

	deadline := time.Now().Add(t.period)
	for {
		if t.period > 0 {
			timer := time.NewTimer(time.Until(deadline))
			select {
			case <-t.stopCh:
				timer.Stop()
				t.terminate()
				return
			case <-timer.C:
			}
		} else {
			// period == 0: fire every iteration, but still yield the
			// scheduler rather than busy-spin the OS thread.
			runtime.Gosched()
			select {
			case <-t.stopCh:
				t.terminate()
				return
			default:
			}
		}
		// Deadlines drift forward and never skip: a slow tick simply
		// catches up on the next iteration.
		deadline = deadline.Add(t.period)

		switch t.scheme {
		case BeforeTask:
			t.Drain()
			t.runTask()
		case UserControlled:
			t.runTask()
		default: // AfterTask
			t.runTask()
			t.Drain()
		}
	}
}

func (t *Thread) terminate() {
	if h, ok := t.self.(onTerminateHook); ok {
		h.OnTerminate()
	}
	if l := logger(); l != nil {
		l.Info().Str("thread", t.name).Log("thread stopped")
	}
}

func (t *Thread) runTask() {
	if h, ok := t.self.(taskHook); ok {
		h.Task()
	}
}

// Drain executes every event currently queued, tolerating reentrant calls
// from the same goroutine (a closure that itself calls Drain) without
// re-executing any event twice. It returns the number of events executed.
// Concurrent calls from a different goroutine than the one already
// draining this thread are not a supported usage; every actor method
// already runs exclusively on its affinity thread's single active
// goroutine, so the only legitimate caller of Drain is that same
// goroutine.
func (t *Thread) Drain() int {
	depth := t.drainDepth.Add(1)
	defer t.drainDepth.Add(-1)

	if depth == 1 {
		t.handlingMu.Lock()
		defer t.handlingMu.Unlock()
	}

	start := time.Now()
	n := t.drainReserved()
	if depth != 1 {
		return n
	}

	popped := t.queue.popClaimed()
	t.metrics.recordBatch(popped, time.Since(start))
	return popped
}

// drainReserved claims and executes whatever has not yet been claimed by
// an outer frame of the same batch, then returns how many it ran. It
// never pops the queue itself; that is the outermost Drain call's job,
// once every reservation made during the batch (including by reentrant
// nested Drain calls) has executed.
func (t *Thread) drainReserved() int {
	start, n := t.queue.reserve()
	for i := start; i < start+n; i++ {
		if ev, ok := t.queue.at(i); ok {
			ev.fn()
		}
	}
	return n
}

func (t *Thread) enqueue(owner uint64, fn func()) {
	if t.queue.push(owner, fn) {
		return
	}
	t.metrics.recordDropped()
	if l := logger(); l != nil {
		l.Warning().Str("thread", t.name).Uint64("owner", owner).Log("queue full, dropping event")
	}
}

func (t *Thread) attachChild(id uint64) {
	t.childMu.Lock()
	t.children[id] = struct{}{}
	t.childMu.Unlock()
}

// detachChild removes id from the child set and purges its queued
// entries. Lock order: child-id set, then handling, then queue.
func (t *Thread) detachChild(id uint64) {
	t.childMu.Lock()
	delete(t.children, id)
	t.childMu.Unlock()

	t.handlingMu.Lock()
	purged := t.queue.purgeOwner(id)
	t.handlingMu.Unlock()

	if purged > 0 {
		if l := logger(); l != nil {
			l.Info().Str("thread", t.name).Uint64("owner", id).Int("purged", purged).Log("detach purged queued events")
		}
	}
}

// HasChild reports whether id is currently attached to this thread.
func (t *Thread) HasChild(id uint64) bool {
	t.childMu.Lock()
	defer t.childMu.Unlock()
	_, ok := t.children[id]
	return ok
}

// ChildCount returns the number of actors currently attached.
func (t *Thread) ChildCount() int {
	t.childMu.Lock()
	defer t.childMu.Unlock()
	return len(t.children)
}
