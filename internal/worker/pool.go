package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/torii/internal/logger"
)

var (
	ErrQueueFull   = errors.New("worker queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	queue   int
	cancel  context.CancelFunc
	log     *logger.Logger

	mu      sync.RWMutex
	stopped bool
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		queue:   queueSize,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i+1)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	workerLog := p.log.WithField("worker_id", id)
	workerLog.Debug("worker started")

	// Queued jobs are drained after Stop; a cancelled ctx makes them fail fast.
	for job := range p.jobs {
		jobLog := workerLog.WithField("job", job.Name())
		jobLog.Debug("starting job")
		start := time.Now()

		jobCtx := logger.NewContext(ctx, jobLog)
		if err := job.Run(jobCtx); err != nil {
			jobLog.Error("job failed after %v: %v", time.Since(start), err)
		} else {
			jobLog.Info("job completed in %v", time.Since(start))
		}
	}
	workerLog.Debug("worker shutting down (queue closed)")
}

// Stop closes the queue and waits for queued jobs to finish. If ctx ends
// first the remaining jobs run with a cancelled context and Stop returns ctx.Err().
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		p.log.Warn("worker pool stop deadline reached, cancelling %d queued jobs", len(p.jobs))
		err = ctx.Err()
		if p.cancel != nil {
			p.cancel()
		}
		<-done
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
	return err
}

// Submit enqueues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		return nil
	default:
		p.log.Warn("queue full (%d), dropping job: %s", p.queue, job.Name())
		return ErrQueueFull
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
