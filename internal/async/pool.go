// Package async runs pipeline jobs on a fixed set of workers.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/internal/pipeline"
)

// ErrClosed is returned by Submit after Shutdown.
var ErrClosed = errors.New("pool is shut down")

// ImageProcessor is the part of pipeline.Processor a worker needs.
type ImageProcessor interface {
	ProcessImage(ctx context.Context, path string) pipeline.Result
}

type job struct {
	seq  int
	path string
	ctx  context.Context
}

// Pool processes screenshots concurrently. Results keep submission order.
type Pool struct {
	proc    ImageProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch     chan job
	sendMu sync.RWMutex // held for writing while ch is closed
	wg     sync.WaitGroup
	once   sync.Once

	mu      sync.Mutex
	closed  bool
	next    int
	results map[int]pipeline.Result
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.ch = make(chan job, n)
		}
	}
}

func WithJobTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPool(proc ImageProcessor, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		proc:    proc,
		logger:  logger,
		workers: 1,
		timeout: 3 * time.Minute,
		ch:      make(chan job, 64),
		results: map[int]pipeline.Result{},
	}
	for _, o := range opts {
		o(p)
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go func(workerID int) {
				defer p.wg.Done()
				p.logger.Debug("async.worker.start", "worker_id", workerID)
				for j := range p.ch {
					p.run(workerID, j)
				}
				p.logger.Debug("async.worker.stop", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (p *Pool) run(workerID int, j job) {
	ctx, cancel := context.WithTimeout(j.ctx, p.timeout)
	defer cancel()

	res := p.proc.ProcessImage(ctx, j.path)
	p.logger.Info("async.job.done",
		"worker_id", workerID,
		"path", j.path,
		"run_id", res.RunID,
		"status", res.Outcome.Status,
		"entries", res.Classified.Len(),
		"elapsed_ms", res.Duration.Milliseconds(),
	)

	p.mu.Lock()
	p.results[j.seq] = res
	p.mu.Unlock()
}

// Submit queues one screenshot. It blocks while the queue is full and fails
// once the pool has been shut down or ctx is done.
func (p *Pool) Submit(ctx context.Context, path string) error {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("async.submit.rejected", "path", path)
		return ErrClosed
	}
	j := job{seq: p.next, path: path, ctx: ctx}
	p.next++
	p.mu.Unlock()

	select {
	case p.ch <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait closes the queue and blocks until every submitted job has finished.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}

// Shutdown is Wait bounded by ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close()
	done := make(chan struct{})
	go func() { defer close(done); p.wg.Wait() }()

	select {
	case <-ctx.Done():
		p.logger.Warn("async.shutdown.interrupted")
		return ctx.Err()
	case <-done:
		p.logger.Info("async.shutdown.done")
		return nil
	}
}

func (p *Pool) close() {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.ch)
}

// Results returns finished results in submission order. Call after Wait.
func (p *Pool) Results() []pipeline.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pipeline.Result, 0, len(p.results))
	for i := 0; i < p.next; i++ {
		if r, ok := p.results[i]; ok {
			out = append(out, r)
		}
	}
	return out
}
