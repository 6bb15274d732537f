// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"log"
	"runtime"
	"sync"
)

// A very small worker pool that runs submitted tasks. Broadcast fan-out
// submits one task per recipient and waits for completion on its own
// WaitGroup before writing stats.

type Task func(ctx context.Context) error

type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	quit chan struct{}
	n    int
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{jobs: make(chan Task, workers*4), quit: make(chan struct{}), n: workers}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.jobs:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						log.Printf("worker %d task error: %v", id, err)
					}
				}
			}
		}(i)
	}
}

func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
}

// SubmitWait blocks until the task is queued or ctx is done. Fan-out uses
// this so every resolved recipient is attempted exactly once.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return errors.New("pool stopped")
	}
}
