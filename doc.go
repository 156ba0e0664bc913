// Package evtactor is an in-process actor framework built around periodic
// worker threads, each owning a bounded FIFO event queue. Application logic
// is written as [Actor] types with thread affinity: every method of an
// actor runs serially on the single [Thread] it is attached to. Actors never
// call each other synchronously across threads; they enqueue invocations
// through a [Reference] or a [PromiseChain] instead.
//
// # Architecture
//
// A [Thread] runs a loop: task() around a bounded drain of its queue,
// ordered by the thread's [HandlingScheme]. Actors attach to a thread via
// [Actor.Attach], which records the pair in a process-wide registry so that
// any [Reference] can validate liveness before dispatching, even across
// threads. A [Timer] rides on a [LoopObserver] to fire periodic or N-shot
// callbacks against actor references. A [PromiseChain] composes method
// invocations across actors (and therefore across threads), threading a
// result value through [PromiseChain.Then] links to an optional
// [PromiseChain.Catch] handler.
//
// # Concurrency
//
// No two closures owned by the same actor ever run concurrently, because
// an actor's closures only ever sit on its affinity thread's queue and a
// thread drains its own queue single-threadedly. Closures on different
// threads run truly in parallel. There are no cross-thread ordering
// guarantees beyond this.
//
// # Usage
//
//	main := evtactor.NewThread(nil, evtactor.WithName("main"), evtactor.AsMain())
//	worker := evtactor.NewThread(nil, evtactor.WithName("worker"), evtactor.WithPeriod(10*time.Millisecond))
//	worker.Start()
//
//	w := NewWorker() // embeds *evtactor.Actor
//	w.Attach(worker)
//	w.Run(func() { fmt.Println("hello from worker's thread") })
//
//	main.Start() // blocks the calling goroutine until StopMain
package evtactor
