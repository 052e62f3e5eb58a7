// Package worker provides a bounded pool for background extraction tasks.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hszk-dev/tunestream/internal/infrastructure/metrics"
)

// ErrPoolClosed is returned by Submit after Shutdown has begun.
var ErrPoolClosed = errors.New("worker pool is shut down")

// Task is a handle to a submitted job. The result becomes available once
// the job has run; Wait blocks for it.
type Task struct {
	ID uuid.UUID

	fn     func(ctx context.Context) (string, error)
	done   chan struct{}
	result string
	err    error
}

// Wait blocks until the task completes or ctx is done.
func (t *Task) Wait(ctx context.Context) (string, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *Task) run(ctx context.Context) {
	t.result, t.err = t.fn(ctx)
	metrics.ExtractionQueueDepth.Dec()
	close(t.done)
}

// Pool executes tasks on a fixed number of workers. Submission never
// blocks for a task's execution time: when all workers are busy the task
// queues FIFO and runs later; nothing is dropped.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Task
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewPool starts size workers. size must be at least 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		baseCtx: ctx,
		cancel:  cancel,
	}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 && p.closed {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task.run(p.baseCtx)
	}
}

// Submit enqueues fn for execution and returns its handle immediately.
func (p *Pool) Submit(fn func(ctx context.Context) (string, error)) (*Task, error) {
	task := &Task{
		ID:   uuid.New(),
		fn:   fn,
		done: make(chan struct{}),
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	p.queue = append(p.queue, task)
	p.mu.Unlock()

	metrics.ExtractionQueueDepth.Inc()
	p.cond.Signal()
	return task, nil
}

// Shutdown stops intake and drains queued and in-flight tasks. If ctx
// expires first, the remaining tasks are cancelled through their context
// and Shutdown returns the ctx error once the workers exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}
