// Package pipeline implements the document transform: request normalization,
// strategy selection, candidate search, and the quality gate, with an
// append-only report accumulated throughout.
package pipeline

import (
	"context"
	"time"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// Stage names used for hooks, metrics, and error operations.
const (
	stageNormalize = "normalize"
	stageStrategy  = "strategy"
	stageSearch    = "search"
	stageGate      = "gate"
)

// Pipeline executes the transform stages for one request at a time.  It is
// safe for concurrent use; all per-request state lives on the stack.
type Pipeline struct {
	reg     core.Registry
	cfg     config.Config
	hooks   []core.Hook
	metrics core.MetricsCollector
}

var _ core.Runner = (*Pipeline)(nil)

// New returns a Pipeline resolving codecs from reg.
func New(reg core.Registry, cfg config.Config) *Pipeline {
	return &Pipeline{reg: reg, cfg: cfg}
}

// AddHook registers an observer.  Returns the same Pipeline for chaining.
func (p *Pipeline) AddHook(h core.Hook) *Pipeline {
	p.hooks = append(p.hooks, h)
	return p
}

// SetMetrics installs a metrics collector for stage timings and outcomes.
func (p *Pipeline) SetMetrics(m core.MetricsCollector) {
	p.metrics = m
}

// Run executes the full transform.  The report is non-nil on success and on
// every failure past the nil-request guard; failures also carry it inside
// the returned error.
func (p *Pipeline) Run(ctx context.Context, req *core.TransformRequest) (*core.TransformResult, *core.TransformReport, error) {
	if req == nil {
		return nil, nil, apperrors.New(apperrors.CategoryValidation, "run", core.ErrNilRequest)
	}
	rep := newReporter(req)

	var norm *normalized
	if err := p.stage(ctx, stageNormalize, req, func() error {
		var err error
		norm, err = p.normalize(ctx, req, rep)
		return err
	}); err != nil {
		return p.fail(rep, err)
	}

	if norm.compliant {
		report := rep.finalize()
		res := &core.TransformResult{
			Data:   utils.CloneBytes(req.Source),
			Format: norm.targetFormat,
			MIME:   norm.targetFormat.MIME(),
			SizeKB: norm.originalKB,
		}
		p.recordOutcome("passthrough", len(res.Data))
		return res, report, nil
	}

	var pl *plan
	if err := p.stage(ctx, stageStrategy, req, func() error {
		pl = p.selectPlan(norm, rep)
		return nil
	}); err != nil {
		return p.fail(rep, err)
	}

	var out *core.Outcome
	if err := p.stage(ctx, stageSearch, req, func() error {
		var err error
		out, err = p.search(ctx, norm, pl, rep)
		return err
	}); err != nil {
		return p.fail(rep, err)
	}

	if err := p.stage(ctx, stageGate, req, func() error {
		p.gate(out, pl, norm, rep)
		return nil
	}); err != nil {
		return p.fail(rep, err)
	}

	report := rep.finalize()
	res := &core.TransformResult{
		Data:   out.Data,
		Format: out.Format,
		MIME:   out.Format.MIME(),
		SizeKB: out.SizeKB,
	}
	p.recordOutcome("success", len(res.Data))
	return res, report, nil
}

// stage wraps one stage with hook callbacks.  Stage timings reach metrics
// through the MetricsHook; the pipeline only records what hooks cannot see.
func (p *Pipeline) stage(ctx context.Context, name string, req *core.TransformRequest, fn func() error) error {
	for _, h := range p.hooks {
		h.BeforeStage(ctx, name, req)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	for _, h := range p.hooks {
		h.AfterStage(ctx, name, req, elapsed, err)
	}
	return err
}

// fail finalizes the report, attaches it to the error, and records the
// outcome.
func (p *Pipeline) fail(rep *reporter, err error) (*core.TransformResult, *core.TransformReport, error) {
	report := rep.finalize()
	p.recordOutcome(outcomeStatus(err), 0)
	return nil, report, apperrors.WithReport(err, report)
}

func (p *Pipeline) recordOutcome(status string, bytes int) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordOutcome(status)
	if bytes > 0 {
		p.metrics.RecordThroughput(int64(bytes))
	}
}

func outcomeStatus(err error) string {
	switch {
	case apperrors.IsCategory(err, apperrors.CategoryBudget):
		return "budget_exhausted"
	case apperrors.IsCategory(err, apperrors.CategoryCanceled):
		return "canceled"
	case apperrors.IsCategory(err, apperrors.CategoryTimeout):
		return "timeout"
	case apperrors.IsCategory(err, apperrors.CategoryValidation):
		return "rejected"
	default:
		return "error"
	}
}
