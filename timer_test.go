package evtactor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerFiresExactlyTTLTimes(t *testing.T) {
	th := NewThread(nil, WithName("timer-ttl"), WithPeriod(5*time.Millisecond))
	owner := NewActor(nil)
	owner.Attach(th)

	tm := NewTimer(owner)
	th.Start()
	defer th.Stop()

	var fires atomic.Int32
	ref := owner.UntypedRef()
	tm.AddTask(0, 10*time.Millisecond, ref, func() { fires.Add(1) }, 3)
	tm.Start()

	require.Eventually(t, func() bool { return fires.Load() == 3 }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(3), fires.Load(), "callback invoked exactly ttl times before removal")
}

func TestTimerRemoveTaskReportsExistence(t *testing.T) {
	th := NewThread(nil, WithName("timer-remove"))
	owner := NewActor(nil)
	owner.Attach(th)
	tm := NewTimer(owner)

	ref := owner.UntypedRef()
	tm.AddTask(1, time.Second, ref, func() {}, -1)
	assert.True(t, tm.RemoveTask(1))
	assert.False(t, tm.RemoveTask(1))
	assert.False(t, tm.RemoveTask(999))
}

func TestTimerAddTaskReplacesDuplicateID(t *testing.T) {
	th := NewThread(nil, WithName("timer-replace"))
	owner := NewActor(nil)
	owner.Attach(th)
	tm := NewTimer(owner)
	ref := owner.UntypedRef()

	var firstCalled, secondCalled bool
	tm.AddTask(0, time.Hour, ref, func() { firstCalled = true }, -1)
	tm.AddTask(0, time.Hour, ref, func() { secondCalled = true }, -1)

	require.Len(t, tm.tasks, 1)
	tm.tasks[0].next = time.Now().Add(-time.Millisecond) // force-due for the test
	tm.OnTick()
	th.Drain()

	assert.False(t, firstCalled, "AddTask with a duplicate id replaces, it does not append")
	assert.True(t, secondCalled)
}

func TestTimerContinuousTaskNeverExpires(t *testing.T) {
	th := NewThread(nil, WithName("timer-continuous"))
	owner := NewActor(nil)
	owner.Attach(th)
	tm := NewTimer(owner)
	ref := owner.UntypedRef()

	tm.AddTask(0, 0, ref, func() {}, -1)
	for i := 0; i < 5; i++ {
		tm.tasks[0].next = time.Now().Add(-time.Millisecond)
		tm.OnTick()
	}
	assert.Len(t, tm.tasks, 1, "ttl=-1 tasks are never removed")
}

func TestLoopObserverStopPreventsReenqueue(t *testing.T) {
	th := NewThread(nil, WithName("observer-stop"))
	a := NewActor(nil)
	a.Attach(th)

	var ticks atomic.Int32
	var stopAfterOne func()
	ticker := &tickCounter{onTick: func() {
		ticks.Add(1)
		if ticks.Load() == 1 {
			stopAfterOne()
		}
	}}
	realObs := NewLoopObserver(a, ticker)
	stopAfterOne = realObs.Stop
	realObs.Start()

	th.Drain() // runs tick #1: increments, calls Stop, does NOT re-enqueue
	assert.Equal(t, int32(1), ticks.Load())
	assert.Equal(t, 0, th.queue.size())
}

type tickCounter struct{ onTick func() }

func (c *tickCounter) OnTick() { c.onTick() }

// Task 0 fires periodically until task 1 removes it, and task 2 stops
// the main loop. The 1:3:5 period ratio means task 0 gets exactly three
// fires in before its removal.
func TestTimerLifecycleRemovalAndStopMain(t *testing.T) {
	mainMu.Lock()
	savedMain := mainThread
	mainMu.Unlock()
	defer func() {
		mainMu.Lock()
		mainThread = savedMain
		mainMu.Unlock()
	}()

	main := NewThread(nil, WithName("timer-main"), WithPeriod(5*time.Millisecond), AsMain())
	owner := NewActor(nil)
	owner.Attach(main)

	tm := NewTimer(owner)
	ref := owner.UntypedRef()

	var fires atomic.Int32
	tm.AddTask(0, 30*time.Millisecond, ref, func() { fires.Add(1) }, 5)
	tm.AddTask(1, 90*time.Millisecond, ref, func() { tm.RemoveTask(0) }, 1)
	tm.AddTask(2, 150*time.Millisecond, ref, func() { _ = StopMain() }, 1)
	tm.Start()

	main.Start() // blocks until task 2 stops main

	assert.Equal(t, int32(3), fires.Load(), "cb observed 3 times; removed before its 4th fire")
	assert.False(t, tm.RemoveTask(0), "task 0 was already removed by task 1")
}
