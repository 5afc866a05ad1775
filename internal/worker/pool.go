// Package worker runs scan tasks on a bounded goroutine pool. Panics inside a
// task are recovered and logged instead of taking the process down.
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/allnighter/allnighter/internal/logging"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware unit of work.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission and a wait group so a
// batch can block until every submitted task has finished.
type Pool struct {
	pool *ants.Pool
	wg   sync.WaitGroup
}

// Size normalizes a thread count: values <= 0 mean GOMAXPROCS.
func Size(threads int) int {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}

// New creates a pool with Size(threads) workers.
func New(threads int) (*Pool, error) {
	p, err := ants.NewPool(Size(threads),
		ants.WithPanicHandler(func(v interface{}) {
			logging.Error("worker panic recovered", zap.Any("panic", v), zap.Stack("stack"))
		}),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: p}, nil
}

// Submit queues task. When ctx is already done the task is not queued and
// ctx.Err() is returned; a task dequeued after cancellation is skipped.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		if ctx.Err() != nil {
			logging.Debug("task skipped: context cancelled", zap.Error(ctx.Err()))
			return
		}
		task(ctx)
	})
	if err != nil {
		p.wg.Done()
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// Wait blocks until every submitted task has returned.
func (p *Pool) Wait() { p.wg.Wait() }

// Running returns the number of busy workers.
func (p *Pool) Running() int { return p.pool.Running() }

// Release waits for outstanding tasks and frees the pool.
func (p *Pool) Release() {
	p.wg.Wait()
	p.pool.Release()
}
