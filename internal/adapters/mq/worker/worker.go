// Package worker runs source fetch jobs concurrently.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/wodboard/internal/adapters/mq/queue"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/okian/wodboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount = 4
)

// Job is what workers read off the queue.
type Job = queue.Job

// Fetcher loads the raw rows behind a source location.
type Fetcher interface {
	Rows(ctx context.Context, location string) ([]model.RawRow, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Result is the outcome of one job. Err is set when the event could not be loaded.
type Result struct {
	EventID string
	Rows    []model.RawRow
	Err     error
}

// Worker processes jobs from a queue.
type Worker interface {
	// Run starts the worker loop until the queue drains or ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in progress.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker, publishing one Result per job.
type InMemoryWorker struct {
	queue   Queue
	fetcher Fetcher
	results chan<- Result
	name    string

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
// results must have room for every job the worker may take, or be drained concurrently.
func NewInMemoryWorker(q Queue, fetcher Fetcher, results chan<- Result, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		fetcher:  fetcher,
		results:  results,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.results <- w.process(ctx, job)
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process loads a single job.
func (w *InMemoryWorker) process(ctx context.Context, job Job) Result {
	start := time.Now()
	rows, err := w.fetcher.Rows(ctx, job.Location)
	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		metrics.RecordFetch(job.EventID, "failed", latency)
		metrics.RecordErrorByComponent("worker", "fetch_error")
		w.logger.Warn(ctx, "event source unavailable",
			logger.String("eventID", job.EventID),
			logger.String("location", job.Location),
			logger.Error(err),
		)
		return Result{EventID: job.EventID, Err: fmt.Errorf("event %s: %w", job.EventID, err)}
	}

	metrics.RecordFetch(job.EventID, "ok", latency)
	return Result{EventID: job.EventID, Rows: rows}
}

// Pool fans jobs out to a fixed number of workers.
type Pool struct {
	size    int
	fetcher Fetcher
	logger  logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses the default.
func NewPool(workerCount int, fetcher Fetcher, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		size:    workerCount,
		fetcher: fetcher,
		logger:  logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	metrics.UpdateFetchWorkers(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run executes every job and returns one Result per job, in job order.
// A failed job never affects the others; jobs left unprocessed when ctx ends
// carry the context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(jobs)))
	for _, j := range jobs {
		q.Enqueue(ctx, j)
	}
	_ = q.Close()

	results := make(chan Result, len(jobs))
	n := min(p.size, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w := NewInMemoryWorker(q, p.fetcher, results, WithName("worker-"+strconv.Itoa(i)), WithLogger(p.logger))
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}
	wg.Wait()
	close(results)

	byEvent := make(map[string]Result, len(jobs))
	for r := range results {
		byEvent[r.EventID] = r
	}

	out := make([]Result, 0, len(jobs))
	for _, j := range jobs {
		r, ok := byEvent[j.EventID]
		if !ok {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			r = Result{EventID: j.EventID, Err: fmt.Errorf("event %s: %w", j.EventID, err)}
		}
		out = append(out, r)
	}

	p.logger.Debug(ctx, "fetch round finished", logger.Int("jobs", len(jobs)), logger.Int("workers", n))
	return out
}
