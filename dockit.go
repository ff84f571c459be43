// Package dockit compresses exam-application documents into strict upload
// budgets.  Give it the source bytes, the target format, and the portal's
// size ceiling; it searches quality/scale candidates until the output fits
// and returns the bytes together with an audit report.
package dockit

import (
	"context"
	"io"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/adapters/container"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/adapters/decoder"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/adapters/encoder"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/pipeline"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// Re-export Format constants for convenience.
const (
	JPEG = core.FormatJPEG
	PNG  = core.FormatPNG
	WebP = core.FormatWebP
	PDF  = core.FormatPDF
)

// Re-export DocumentType constants for convenience.
const (
	DocSignature = core.DocSignature
	DocPhoto     = core.DocPhoto
	DocGeneric   = core.DocGeneric
	DocIDProof   = core.DocIDProof
)

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() config.Config { return config.Default() }

// Transformer is the primary entry point.
type Transformer struct {
	inner *core.Processor
	pipe  *pipeline.Pipeline
	reg   *core.DefaultRegistry
}

// New creates a fully wired Transformer with default JPEG, PNG, and WebP
// codecs plus the PDF wrapper registered.  Pass a custom config.Config to
// override defaults.
func New(cfg config.Config) *Transformer {
	reg := core.NewRegistry()
	// Register built-in codecs.
	reg.RegisterDecoder(core.FormatJPEG, decoder.NewJPEG())
	reg.RegisterDecoder(core.FormatPNG, decoder.NewPNG())
	reg.RegisterDecoder(core.FormatWebP, decoder.NewWebP())
	reg.RegisterEncoder(core.FormatJPEG, encoder.NewJPEG(0))
	reg.RegisterEncoder(core.FormatPNG, encoder.NewPNG())
	reg.RegisterEncoder(core.FormatWebP, encoder.NewWebP(0))
	reg.RegisterWrapper(core.FormatPDF, container.NewPDF())

	pipe := pipeline.New(reg, cfg)
	inner := core.New(cfg, reg, pipe)
	return &Transformer{inner: inner, pipe: pipe, reg: reg}
}

// SetLogger attaches a structured logger.
func (t *Transformer) SetLogger(l core.Logger) { t.inner.SetLogger(l) }

// SetMetrics attaches a metrics collector.
func (t *Transformer) SetMetrics(m core.MetricsCollector) { t.pipe.SetMetrics(m) }

// AddHook registers an observer for pipeline stage events.
func (t *Transformer) AddHook(h core.Hook) { t.pipe.AddHook(h) }

// RegisterDecoder registers a custom decoder for the given format.
func (t *Transformer) RegisterDecoder(f core.Format, d core.Decoder) { t.reg.RegisterDecoder(f, d) }

// RegisterEncoder registers a custom encoder for the given format.
func (t *Transformer) RegisterEncoder(f core.Format, e core.Encoder) { t.reg.RegisterEncoder(f, e) }

// RegisterWrapper registers a custom container wrapper for the given format.
func (t *Transformer) RegisterWrapper(f core.Format, w core.ContainerWrapper) {
	t.reg.RegisterWrapper(f, w)
}

// Registry exposes the codec registry so alternative backends can replace
// the built-in codecs (see adapters/vips.RegisterBackend).
func (t *Transformer) Registry() core.Registry { return t.reg }

// Start starts the background worker pool.
func (t *Transformer) Start() { t.inner.Start() }

// Stop drains and shuts down the worker pool.
func (t *Transformer) Stop() { t.inner.Stop() }

// Transform runs one request synchronously and returns the compressed
// document, its report, and any error.  The report is non-nil on failure
// too; it records how far the search got.
func (t *Transformer) Transform(ctx context.Context, req *core.TransformRequest) (*core.TransformResult, *core.TransformReport, error) {
	return t.inner.Transform(ctx, req)
}

// Batch runs multiple requests concurrently and returns per-request
// results, reports, and errors in input order.
func (t *Transformer) Batch(ctx context.Context, reqs []*core.TransformRequest) ([]*core.TransformResult, []*core.TransformReport, []error) {
	return t.inner.Batch(ctx, reqs)
}

// Submit enqueues an async job for the worker pool.
func (t *Transformer) Submit(job core.Job) error { return t.inner.Submit(job) }

// Stats returns lightweight processing statistics.
func (t *Transformer) Stats() (processed, errors int64) {
	return t.inner.ProcessedCount(), t.inner.ErrorCount()
}

// ── Request constructors ──────────────────────────────────────────────────────

// NewRequest builds a request from in-memory source bytes.  The source MIME
// is sniffed from magic bytes; override SourceMIME afterwards if the caller
// knows better.
func NewRequest(source []byte, targetMIME string, maxSizeKB int) *core.TransformRequest {
	return &core.TransformRequest{
		Source:     source,
		SourceMIME: utils.DetectMIME(source),
		TargetMIME: targetMIME,
		MaxSizeKB:  maxSizeKB,
	}
}

// FromReader drains r into a request.  Pass limit > 0 to cap how many bytes
// are read; oversized inputs are still rejected later against the
// configured MaxSourceBytes.
func FromReader(ctx context.Context, r io.Reader, targetMIME string, maxSizeKB int, limit int64) (*core.TransformRequest, error) {
	if limit > 0 {
		r = &utils.LimitedReader{R: r, Max: limit}
	}
	buf, err := utils.DrainReader(ctx, r, 0)
	if err != nil {
		return nil, err
	}
	source := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	return NewRequest(source, targetMIME, maxSizeKB), nil
}
