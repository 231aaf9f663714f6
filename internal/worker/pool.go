// Package worker runs batch article analysis across a bounded pool of
// goroutines.
package worker

import (
	"context"
	"sync"
)

// Pool fans work out over a fixed number of goroutines and collects the
// results. R is the per-job result type. A collector goroutine drains
// results as workers produce them, so Submit never blocks behind finished
// jobs no matter how many are queued.
type Pool[R any] struct {
	workers int
	jobs    chan func(ctx context.Context) R
	results chan R

	collected []R
	drained   chan struct{}

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count. A non-positive count
// falls back to one worker.
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers: workers,
		jobs:    make(chan func(ctx context.Context) R, workers*2),
		results: make(chan R, workers*2),
		drained: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers and the result collector.
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	go p.collect()
}

func (p *Pool[R]) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect owns p.collected until drained is closed.
func (p *Pool[R]) collect() {
	for r := range p.results {
		p.collected = append(p.collected, r)
	}
	close(p.drained)
}

// Submit queues a job. Submissions after cancellation are dropped.
func (p *Pool[R]) Submit(job func(ctx context.Context) R) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns all
// results. Call exactly once, after the last Submit.
func (p *Pool[R]) Wait() []R {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
	<-p.drained
	return p.collected
}

// Shutdown cancels outstanding work and discards pending results.
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.drained
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
