// Package worker runs the job dispatcher and the per-job sandboxed
// execution pipeline. It generalizes the teacher's executor/worker_pool.go
// bounded-slot idiom (fixed goroutine count, sync.WaitGroup, shutdownChan)
// from a Docker-exec backend to the launcher-binary contract in spec.md
// §4.6, with the Redis list in internal/store standing in for the
// teacher's in-memory job channel.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"codearena/internal/model"
	"codearena/internal/store"
)

// pollTimeout bounds how long a single Pop blocks, so a worker can notice
// shutdown without busy-waiting.
const pollTimeout = 1 * time.Second

// Publisher is the job-completion event sink. It is satisfied by
// internal/events.Publisher but declared here to avoid worker depending
// on events.
type Publisher interface {
	PublishJobCompleted(job model.Job, result model.Result)
}

type Pool struct {
	queue    *store.Queue
	results  *store.ResultStore
	pipeline *Pipeline
	events   Publisher
	log      *logrus.Logger

	concurrency int

	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

func NewPool(queue *store.Queue, results *store.ResultStore, pipeline *Pipeline, events Publisher, concurrency int, log *logrus.Logger) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{
		queue:        queue,
		results:      results,
		pipeline:     pipeline,
		events:       events,
		log:          log,
		concurrency:  concurrency,
		shutdownChan: make(chan struct{}),
	}
}

// Start launches the fixed slot of worker goroutines. Each slot runs an
// independent pop-process loop; Redis's atomic BRPOP is what keeps two
// slots from ever taking the same job, not coordination between them.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.loop(ctx)
	}
}

// Shutdown signals all slots to stop taking new jobs and blocks until the
// in-flight ones finish.
func (p *Pool) Shutdown() {
	close(p.shutdownChan)
	p.wg.Wait()
}

func (p *Pool) loop(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdownChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		job, err := p.queue.Pop(ctx, pollTimeout)
		if err == store.ErrQueueEmpty {
			continue
		}
		if err != nil {
			if p.log != nil {
				p.log.WithError(err).Error("queue pop failed")
			}
			continue
		}

		p.process(ctx, job)
	}
}

func (p *Pool) process(ctx context.Context, job model.Job) {
	now := model.Now()
	if err := p.results.SetStatus(ctx, job.ID, model.StatusRecord{
		Status:    model.StatusProcessing,
		CreatedAt: now,
		StartedAt: now,
	}); err != nil && p.log != nil {
		p.log.WithFields(logrus.Fields{"job_id": job.ID, "error": err}).Warn("set status processing failed")
	}

	pickup := time.Now()
	result, err := p.pipeline.Run(ctx, job)
	if err != nil {
		if p.log != nil {
			p.log.WithFields(logrus.Fields{"job_id": job.ID, "language": job.Language, "error": err}).Error("pipeline run failed")
		}
		// Pipeline.Run failed before producing a Result of its own, so
		// there is no child-exit timestamp to measure against; fall back
		// to elapsed time since pickup.
		result = model.Result{
			Stderr:          "internal error running job",
			ExitCode:        model.KilledExitCode,
			ExecutionTimeMs: time.Since(pickup).Milliseconds(),
		}
	}

	if err := p.results.SetResult(ctx, job.ID, result); err != nil && p.log != nil {
		p.log.WithFields(logrus.Fields{"job_id": job.ID, "error": err}).Error("set result failed")
	}
	// spec.md §4.4 step 12: delete the status key once the result is
	// persisted, rather than leaving a completed status record behind.
	if err := p.results.DeleteStatus(ctx, job.ID); err != nil && p.log != nil {
		p.log.WithFields(logrus.Fields{"job_id": job.ID, "error": err}).Warn("delete status failed")
	}

	if p.events != nil {
		p.events.PublishJobCompleted(job, result)
	}
}
