package evtactor_test

import (
	"fmt"
	"sync"
	"time"

	evtactor "github.com/jinkim31/event-thread"
)

// workerActor is a minimal user actor: it embeds *evtactor.Actor for
// identity and thread affinity and nothing else.
type workerActor struct {
	*evtactor.Actor
}

func newWorkerActor() *workerActor {
	w := &workerActor{}
	w.Actor = evtactor.NewActor(w)
	return w
}

// Example_basicUsage demonstrates constructing a thread, attaching an
// actor to it, and dispatching a closure across the thread boundary.
func Example_basicUsage() {
	th := evtactor.NewThread(nil, evtactor.WithName("example-worker"))
	th.Start()
	defer th.Stop()

	w := newWorkerActor()
	w.Attach(th)

	var wg sync.WaitGroup
	wg.Add(1)
	if err := w.Run(func() {
		fmt.Println("hello from the worker thread")
		wg.Done()
	}); err != nil {
		fmt.Println("dispatch failed:", err)
		return
	}
	wg.Wait()

	// Output:
	// hello from the worker thread
}

// Example_promiseChain demonstrates composing two actors with Then, with
// the result threaded from one node into the next.
func Example_promiseChain() {
	adderTh := evtactor.NewThread(nil, evtactor.WithName("example-adder"), evtactor.WithPeriod(time.Millisecond))
	doublerTh := evtactor.NewThread(nil, evtactor.WithName("example-doubler"), evtactor.WithPeriod(time.Millisecond))
	adderTh.Start()
	doublerTh.Start()
	defer adderTh.Stop()
	defer doublerTh.Stop()

	adder := evtactor.NewActor(nil)
	adder.Attach(adderTh)
	doubler := evtactor.NewActor(nil)
	doubler.Attach(doublerTh)

	done := make(chan struct{})
	chain := evtactor.NewPromiseChain(adder.UntypedRef(), func(v any) (any, error) {
		return v.(int) + 1, nil
	})
	chain.Then(doubler.UntypedRef(), func(v any) (any, error) {
		fmt.Println("result:", v.(int)*2)
		close(done)
		return v, nil
	})

	chain.Execute(4)
	<-done

	// Output:
	// result: 10
}
