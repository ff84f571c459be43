package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
)

// Processor fronts the transform pipeline with a bounded worker pool.  The
// synchronous Transform path is safe for concurrent use; Start/Stop manage
// the async pool.
type Processor struct {
	cfg    config.Config
	reg    Registry
	runner Runner
	logger Logger

	// Worker pool.
	jobQueue chan Job
	wg       sync.WaitGroup
	once     sync.Once
	shutdown chan struct{}

	// Atomic counters for lightweight internal metrics.
	processedCount int64
	errorCount     int64
}

// New creates a Processor.  Call Start() before submitting async jobs; call
// Stop() when done.  The synchronous Transform works without Start.
func New(cfg config.Config, reg Registry, runner Runner) *Processor {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Processor{
		cfg:      cfg,
		reg:      reg,
		runner:   runner,
		jobQueue: make(chan Job, queueSize),
		shutdown: make(chan struct{}),
	}
}

// SetLogger attaches a structured logger for pool-level events.
func (p *Processor) SetLogger(l Logger) { p.logger = l }

// Registry returns the underlying registry so callers can register codecs
// after construction.
func (p *Processor) Registry() Registry { return p.reg }

// Start launches the worker pool.  It is idempotent.
func (p *Processor) Start() {
	p.once.Do(func() {
		workerCount := p.cfg.WorkerCount
		if workerCount <= 0 {
			workerCount = runtime.NumCPU()
		}
		for i := 0; i < workerCount; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

// Stop shuts down all workers.  Queued jobs that have not started are
// dropped; in-flight jobs run to completion.
func (p *Processor) Stop() {
	close(p.shutdown)
	p.wg.Wait()
}

// Transform is the primary synchronous API.  The per-request wall clock from
// the config bounds the whole attempt; the report is returned on success and
// failure alike.
func (p *Processor) Transform(ctx context.Context, req *TransformRequest) (*TransformResult, *TransformReport, error) {
	if req == nil {
		return nil, nil, ErrNilRequest
	}
	if timeout := p.cfg.JobTimeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, rep, err := p.runner.Run(ctx, req)
	if err != nil {
		atomic.AddInt64(&p.errorCount, 1)
		return nil, rep, err
	}
	atomic.AddInt64(&p.processedCount, 1)
	return res, rep, nil
}

// Submit enqueues an async job.  Returns ErrWorkerPoolFull if the queue is
// full.  A missing job ID is filled in with a fresh UUID.
func (p *Processor) Submit(job Job) error {
	if job.Request == nil {
		return ErrNilRequest
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	select {
	case p.jobQueue <- job:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Batch transforms multiple requests concurrently (fan-out / fan-in).  The
// returned slices are index-aligned with reqs.
func (p *Processor) Batch(ctx context.Context, reqs []*TransformRequest) ([]*TransformResult, []*TransformReport, []error) {
	results := make([]*TransformResult, len(reqs))
	reports := make([]*TransformReport, len(reqs))
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(idx int, r *TransformRequest) {
			defer wg.Done()
			results[idx], reports[idx], errs[idx] = p.Transform(ctx, r)
		}(i, req)
	}
	wg.Wait()
	return results, reports, errs
}

// ── worker pool internals ──────────────────────────────────────────────────────

func (p *Processor) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.shutdown:
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.processJob(job)
		}
	}
}

func (p *Processor) processJob(job Job) {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	result, report, err := p.Transform(ctx, job.Request)
	if err != nil && job.ResultCh == nil && p.logger != nil {
		// Fire-and-forget jobs have no other failure channel.
		p.logger.Error("async transform failed", "job_id", job.ID, "error", err.Error())
	}
	if job.ResultCh != nil {
		job.ResultCh <- JobResult{JobID: job.ID, Result: result, Report: report, Err: err}
	}
}

// ProcessedCount returns the total number of successful transforms.
func (p *Processor) ProcessedCount() int64 { return atomic.LoadInt64(&p.processedCount) }

// ErrorCount returns the total number of failed transforms.
func (p *Processor) ErrorCount() int64 { return atomic.LoadInt64(&p.errorCount) }
