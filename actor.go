package vault

import "context"

// actor serializes every public Datastore operation onto a single
// goroutine, the idiomatic Go rendition of "behave as if every call is
// queued on a per-instance serial queue" (§5 of the spec this vault
// implements). A Lock submitted while a mutation is in flight is itself
// just another enqueued closure: it runs after the mutation completes and
// before the next queued operation begins.
type actor struct {
	cmds chan func()
	done chan struct{}
}

func newActor() *actor {
	a := &actor{
		cmds: make(chan func(), 8),
		done: make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *actor) run() {
	for fn := range a.cmds {
		fn()
	}
	close(a.done)
}

// submit hands fn to the actor and blocks until it has completed, or ctx is
// canceled first. Cancellation only stops the caller from waiting; once
// the actor has started fn it always runs to completion, matching the
// "operations are not cancellable mid-flight" contract.
func (a *actor) submit(ctx context.Context, fn func()) error {
	resultDone := make(chan struct{})
	wrapped := func() {
		fn()
		close(resultDone)
	}

	select {
	case a.cmds <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-resultDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops the actor's goroutine once all currently queued work drains.
func (a *actor) close() {
	close(a.cmds)
	<-a.done
}
