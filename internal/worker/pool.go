package worker

import (
	"context"
	"sync"
)

// Pool fans transform jobs out across a fixed number of goroutines.
// Results arrive in completion order, one per submitted job; Submit after
// Shutdown is a no-op rather than a panic.
type Pool struct {
	size    int
	jobs    chan *TransformJob
	results chan *TransformJobResult
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewPool creates a pool with the given number of workers
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:    size,
		jobs:    make(chan *TransformJob, size*2),
		results: make(chan *TransformJobResult, size*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Jobs submitted after Shutdown are dropped.
func (p *Pool) Submit(job *TransformJob) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes intake, drains every outstanding result and returns them
func (p *Pool) Wait() []*TransformJobResult {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var out []*TransformJobResult
	for res := range p.results {
		out = append(out, res)
	}
	return out
}

// Shutdown cancels in-flight jobs without draining results
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.once.Do(func() { close(p.results) })
}
