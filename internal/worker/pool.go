// Package worker provides a small bounded task pool for operations
// that may block (parsing, storage I/O), keeping them off the caller's
// interactive path. There is no cancellation beyond the task's own
// context and no timeouts; callers wait for submitted work to finish or
// fail.
package worker

import (
	"context"
	"fmt"
	"sync"
)

// Task is one unit of potentially blocking work.
type Task func(ctx context.Context) error

// Pool runs submitted tasks with bounded concurrency.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool creates a pool running at most size tasks at once.
// A size below one is treated as one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size)}
}

// Submit blocks until a slot is free (or ctx is cancelled), then runs
// the task synchronously and returns its error.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("pool submit: %w", ctx.Err())
	}
	p.wg.Add(1)
	defer func() {
		<-p.sem
		p.wg.Done()
	}()

	return task(ctx)
}

// Go runs the task asynchronously, delivering its result on the
// returned channel once a slot frees up.
func (p *Pool) Go(ctx context.Context, task Task) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- p.Submit(ctx, task)
	}()
	return result
}

// Wait blocks until every running task has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}
