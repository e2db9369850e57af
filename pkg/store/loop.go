package store

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopStopped is returned for work submitted after the loop stopped.
var ErrLoopStopped = errors.New("store: loop stopped")

// Loop runs submitted functions one at a time on a single goroutine.
// Everything that touches the stores from more than one goroutine goes
// through the same Loop.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a loop that is not yet running.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func()),
		done:  make(chan struct{}),
	}
}

// Run executes submitted functions until ctx is done. Run must be called
// once; it returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	task := func() { result <- fn() }

	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn without waiting for it to run. It blocks until the loop
// accepts the task and reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Stopped is closed once Run returns.
func (l *Loop) Stopped() <-chan struct{} { return l.done }
