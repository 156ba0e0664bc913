package evtactor

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// tickHook lets a LoopObserver subtype override the periodic callback.
type tickHook interface{ OnTick() }

// LoopObserver is a base for self-scheduling periodic work pinned to an
// actor's thread. Start enqueues its tick method onto the actor's
// affinity thread; while observing, each tick re-enqueues itself after
// invoking OnTick.
type LoopObserver struct {
	actor     *Actor
	self      any
	observing atomic.Bool
}

// NewLoopObserver binds the observer to actor. self, if it implements
// tickHook, receives the periodic OnTick callback.
func NewLoopObserver(actor *Actor, self any) *LoopObserver {
	if self == nil {
		self = struct{}{}
	}
	return &LoopObserver{actor: actor, self: self}
}

// Start begins observing: enqueues the first tick on the actor's
// affinity thread. A no-op if already observing.
func (o *LoopObserver) Start() {
	if !o.observing.CompareAndSwap(false, true) {
		return
	}
	_ = o.actor.Run(o.tick)
}

// Stop clears the observing flag. An in-flight tick will not re-enqueue
// itself once this returns.
func (o *LoopObserver) Stop() {
	o.observing.Store(false)
}

func (o *LoopObserver) tick() {
	if h, ok := o.self.(tickHook); ok {
		h.OnTick()
	}
	if o.observing.Load() {
		_ = o.actor.Run(o.tick)
	}
}

// timerTask is the scheduling record for one Timer entry.
type timerTask struct {
	target   UntypedReference
	callback func()
	period   time.Duration
	next     time.Time
	ttl      int // -1: continuous
}

// Timer holds a mapping from integer id to scheduled task and fires due
// tasks in id order on every tick of its underlying LoopObserver. Firing
// dispatches through the task's target reference, so a detached target
// silently drops that fire rather than panicking or blocking the timer.
type Timer struct {
	observer *LoopObserver

	mu    sync.Mutex
	tasks map[int]*timerTask
}

// NewTimer constructs a Timer pinned to actor's affinity thread.
func NewTimer(actor *Actor) *Timer {
	tm := &Timer{tasks: make(map[int]*timerTask)}
	tm.observer = NewLoopObserver(actor, tm)
	return tm
}

// Start begins ticking.
func (tm *Timer) Start() { tm.observer.Start() }

// Stop halts ticking.
func (tm *Timer) Stop() { tm.observer.Stop() }

// AddTask inserts a task under id, replacing any existing task with the
// same id. ttl = -1 means continuous; period = 0 fires on every tick of
// the owning thread.
func (tm *Timer) AddTask(id int, period time.Duration, target UntypedReference, callback func(), ttl int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.tasks[id] = &timerTask{
		target:   target,
		callback: callback,
		period:   period,
		next:     time.Now().Add(period),
		ttl:      ttl,
	}
}

// RemoveTask deletes the task registered under id, reporting whether it
// existed.
func (tm *Timer) RemoveTask(id int) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, ok := tm.tasks[id]; !ok {
		return false
	}
	delete(tm.tasks, id)
	return true
}

// OnTick implements tickHook: it iterates tasks in id order (not
// deadline order), fires everything due, advances each fired task's next
// deadline, decrements finite ttls, and removes any task whose ttl has
// reached zero.
func (tm *Timer) OnTick() {
	now := time.Now()

	tm.mu.Lock()
	ids := make([]int, 0, len(tm.tasks))
	for id := range tm.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var expired []int
	var due []*timerTask
	for _, id := range ids {
		task := tm.tasks[id]
		if task.next.After(now) {
			continue
		}
		due = append(due, task)
		task.next = task.next.Add(task.period)
		if task.ttl > 0 {
			task.ttl--
			if task.ttl == 0 {
				expired = append(expired, id)
			}
		}
	}
	for _, id := range expired {
		delete(tm.tasks, id)
	}
	tm.mu.Unlock()

	for _, task := range due {
		task.target.Run(task.callback)
	}
}
