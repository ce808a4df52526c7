// Package discovery implements the tool-search capability: keyword search
// against an external index, dispatched through a reusable bounded worker
// pool so the pipeline never blocks indefinitely on third-party latency.
package discovery

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"genesis/internal/logging"

	"genesis/internal/pipeline"
)

// Task is a unit of search work executed on a pool slot.
type Task func(ctx context.Context) ([]pipeline.Tool, error)

// Pool bounds concurrent search calls with a channel semaphore and applies an
// explicit per-call timeout. Constructed once and shared across pipeline
// runs; a caller that abandons its run lets the in-flight task finish in the
// background and its result is discarded.
type Pool struct {
	slots   chan struct{}
	timeout time.Duration

	// Metrics
	submitted int64
	timedOut  int64
}

// NewPool creates a pool with the given number of worker slots and per-call
// timeout. Both are clamped to sane minimums.
func NewPool(workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pool{
		slots:   make(chan struct{}, workers),
		timeout: timeout,
	}
}

type taskResult struct {
	tools []pipeline.Tool
	err   error
}

// Submit runs the task on a pool slot and waits for its result, the pool
// timeout, or context cancellation, whichever comes first. On timeout or
// cancellation the task keeps its slot until it returns on its own; the
// buffered result channel lets it complete without a receiver.
func (p *Pool) Submit(ctx context.Context, task Task) ([]pipeline.Tool, error) {
	atomic.AddInt64(&p.submitted, 1)

	deadline := time.NewTimer(p.timeout)
	defer deadline.Stop()

	// Acquire a slot
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-deadline.C:
		atomic.AddInt64(&p.timedOut, 1)
		return nil, fmt.Errorf("discovery pool: no worker slot within %v", p.timeout)
	}

	// The task gets its own context so an abandoned caller does not cancel
	// work mid-flight; the pool timeout still bounds it.
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)

	resultCh := make(chan taskResult, 1)
	go func() {
		defer cancel()
		defer func() { <-p.slots }()
		tools, err := task(taskCtx)
		resultCh <- taskResult{tools: tools, err: err}
	}()

	select {
	case result := <-resultCh:
		return result.tools, result.err
	case <-ctx.Done():
		logging.DiscoveryWarn("caller abandoned discovery, result will be discarded")
		return nil, ctx.Err()
	case <-deadline.C:
		atomic.AddInt64(&p.timedOut, 1)
		logging.DiscoveryWarn("discovery timed out after %v", p.timeout)
		return nil, fmt.Errorf("discovery timed out after %v", p.timeout)
	}
}

// Metrics returns submission counters for observability.
func (p *Pool) Metrics() (submitted, timedOut int64) {
	return atomic.LoadInt64(&p.submitted), atomic.LoadInt64(&p.timedOut)
}
