package evtactor

// chainValue is the value threaded between promise chain nodes, erased to
// any since each link in a chain may change the payload's static type.
type chainValue = any

// promiseNode is a transient link in a PromiseChain: a target reference,
// the functor to run on that target's thread, and an optional successor.
// A node's closure captures exactly what it needs to run once; nothing
// retains it past that invocation except the chain itself, which owns
// the whole list for its lifetime.
type promiseNode struct {
	target UntypedReference
	fn     func(chainValue) (chainValue, error)
	next   *promiseNode
}

// PromiseChain composes method invocations across actors (and therefore
// across threads), threading a value through then-links and routing any
// error to a single inherited catch handler.
type PromiseChain struct {
	head *promiseNode
	tail *promiseNode

	hasCatch    bool
	catchTarget UntypedReference
	catchFn     func(error)
}

// NewPromiseChain constructs a chain whose head dispatches fn on target's
// affinity thread when Execute is called.
func NewPromiseChain(target UntypedReference, fn func(chainValue) (chainValue, error)) *PromiseChain {
	head := &promiseNode{target: target, fn: fn}
	return &PromiseChain{head: head, tail: head}
}

// Then appends a successor node bound to target, which receives the
// previous node's return value. Build the whole chain with Then before
// calling Execute: a running node reads its successor only after its
// functor returns, so a node appended after Execute runs only if the
// current tail has not finished yet, and appending while the chain runs
// is unsynchronized.
func (c *PromiseChain) Then(target UntypedReference, fn func(chainValue) (chainValue, error)) *PromiseChain {
	node := &promiseNode{target: target, fn: fn}
	c.tail.next = node
	c.tail = node
	return c
}

// Catch binds the chain's single terminal error handler on target,
// applying to an error raised by any node regardless of whether the node
// was added to the chain before or after Catch was called. A later call
// to Catch replaces the binding.
func (c *PromiseChain) Catch(target UntypedReference, handler func(error)) *PromiseChain {
	c.hasCatch = true
	c.catchTarget = target
	c.catchFn = handler
	return c
}

// Execute starts the chain, enqueueing the head's functor on its
// target's thread with args.
func (c *PromiseChain) Execute(args chainValue) {
	c.dispatch(c.head, args)
}

// dispatch enqueues node's functor on node's target thread. If the
// target has already been detached, Run reports false and the entire
// chain is silently dropped from here on.
func (c *PromiseChain) dispatch(node *promiseNode, arg chainValue) {
	node.target.Run(func() {
		result, err := node.fn(arg)
		if err != nil {
			c.raise(err)
			return
		}
		if node.next != nil {
			c.dispatch(node.next, result)
		}
	})
}

// raise routes a node's error to the bound catch handler, or, if none is
// bound, raises a fatal uncaught-promise-exception on the executing
// thread.
func (c *PromiseChain) raise(err error) {
	if !c.hasCatch {
		uncaught := &UncaughtPromiseError{Cause: err}
		if l := logger(); l != nil {
			l.Err().Str("error", uncaught.Error()).Log("uncaught promise chain exception")
		}
		panic(uncaught)
	}
	c.catchTarget.Run(func() {
		c.catchFn(err)
	})
}
