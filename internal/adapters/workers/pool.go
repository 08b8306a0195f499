// Package workers provides the small task pool that startup and shutdown use
// for work that must stay off the dispatch goroutine.
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bft-labs/linehost/internal/ports"
)

// DefaultSize is the pool size used when none is configured.
const DefaultSize = 8

// Pool runs functions on a bounded set of goroutines.
type Pool struct {
	pool   *ants.Pool
	logger ports.Logger
}

// New creates a pool with the given number of workers.
func New(size int, logger ports.Logger) (*Pool, error) {
	if size <= 0 {
		size = DefaultSize
	}
	p, err := ants.NewPool(size,
		ants.WithPanicHandler(func(r interface{}) {
			if logger != nil {
				logger.Error("worker panicked", ports.Any("panic", r))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pool{pool: p, logger: logger}, nil
}

// Go submits fn and returns a channel that receives its result exactly once.
// A panic inside fn is delivered as an error.
func (p *Pool) Go(ctx context.Context, fn func(ctx context.Context) error) <-chan error {
	result := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("panic: %v", r)
			}
		}()
		result <- fn(ctx)
	}
	if err := p.pool.Submit(task); err != nil {
		result <- fmt.Errorf("submit task: %w", err)
	}
	return result
}

// Do runs fn on the pool and waits for its result or for ctx to end.
// When ctx ends first the task keeps running; only the wait is abandoned.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case err := <-p.Go(ctx, fn):
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running returns the number of busy workers.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops accepting work and waits up to timeout for busy workers.
func (p *Pool) Release(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}
