// Package worker runs background tasks on a bounded goroutine pool.
// Indexing runs are submitted here so the triggering HTTP request can
// return immediately while the pipeline executes detached from it.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/plexashare/plexa-core/internal/core/ports/driven"
)

// Ensure Runner implements TaskRunner
var _ driven.TaskRunner = (*Runner)(nil)

type task struct {
	name string
	fn   func(ctx context.Context)
}

// Runner executes submitted tasks with bounded concurrency.
type Runner struct {
	logger *slog.Logger

	concurrency int
	queueSize   int

	mu      sync.RWMutex
	running bool
	taskCh  chan task
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// RunnerConfig holds configuration for the runner.
type RunnerConfig struct {
	Logger      *slog.Logger
	Concurrency int // Number of concurrent task processors (default: 1)
	QueueSize   int // Buffered tasks waiting for a processor (default: 16)
}

// NewRunner creates a new background task runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 16
	}

	return &Runner{
		logger:      logger,
		concurrency: concurrency,
		queueSize:   queueSize,
	}
}

// Start begins the processing loop.
// It runs until Stop is called or the context is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.taskCh = make(chan task, r.queueSize)
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	r.logger.Info("worker starting", "concurrency", r.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(r.doneCh)
	}()

	return nil
}

// Stop gracefully stops the runner. In-flight tasks finish; queued tasks
// that have not started are dropped.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopCh)
	r.mu.Unlock()

	<-r.doneCh

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()

	r.logger.Info("worker stopped")
}

// Submit enqueues a task for background execution.
// Returns an error when the runner is not started or the queue is full.
func (r *Runner) Submit(name string, fn func(ctx context.Context)) error {
	r.mu.RLock()
	running := r.running
	taskCh := r.taskCh
	r.mu.RUnlock()

	if !running {
		return fmt.Errorf("worker not running")
	}

	select {
	case taskCh <- task{name: name, fn: fn}:
		return nil
	default:
		return fmt.Errorf("worker queue full")
	}
}

// processLoop is the main processing loop for a worker goroutine.
func (r *Runner) processLoop(ctx context.Context, workerID int) {
	logger := r.logger.With("worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		case t := <-r.taskCh:
			r.processTask(ctx, t, logger)
		}
	}
}

// processTask runs a single task, recovering from panics so one bad task
// cannot take down the pool.
func (r *Runner) processTask(ctx context.Context, t task, logger *slog.Logger) {
	startTime := time.Now()
	logger.Info("processing task", "task", t.name)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("task panicked", "task", t.name, "panic", rec)
		}
	}()

	t.fn(ctx)

	logger.Info("task completed", "task", t.name, "duration", time.Since(startTime))
}
