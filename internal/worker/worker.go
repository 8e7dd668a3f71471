package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Job is a named background task. The name shows up in failure logs so a
// dropped cache write can be told apart from any other job.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool runs jobs the request path does not want to wait for, such as cache
// population after a read miss. Jobs are best-effort: when the queue is full
// or the pool is draining, the job is dropped and logged.
type Pool struct {
	jobs      chan Job
	wg        sync.WaitGroup
	isClosing atomic.Bool
}

func NewPool(workers, queueSize int) *Pool {
	p := &Pool{
		jobs: make(chan Job, queueSize),
	}

	for range workers {
		p.wg.Add(1)
		go p.run()
	}

	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := job.Run(context.Background()); err != nil {
			log.Printf("Background job %q failed: %v", job.Name, err)
		}
	}
}

func (p *Pool) Submit(job Job) {
	if p.isClosing.Load() {
		log.Printf("Job %q submitted during shutdown, dropping.", job.Name)
		return
	}
	select {
	case p.jobs <- job:
	default:
		log.Printf("Job queue full, dropping %q!", job.Name)
	}
}

// Shutdown stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.jobs)
	p.wg.Wait()
}
