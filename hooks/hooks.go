// Package hooks provides production-ready Hook, Logger and MetricsCollector
// implementations.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
)

// ── Structured logger adapters ────────────────────────────────────────────────

// ZapLogger wraps a zap.Logger to satisfy core.Logger.
type ZapLogger struct {
	log *zap.SugaredLogger
}

// NewZapLogger creates a logger backed by zap.
func NewZapLogger(l *zap.Logger) *ZapLogger { return &ZapLogger{log: l.Sugar()} }

func (z *ZapLogger) Debug(msg string, fields ...interface{}) { z.log.Debugw(msg, fields...) }
func (z *ZapLogger) Info(msg string, fields ...interface{})  { z.log.Infow(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...interface{})  { z.log.Warnw(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...interface{}) { z.log.Errorw(msg, fields...) }

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each pipeline stage.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStage(_ context.Context, stage string, req *core.TransformRequest) {
	h.logger.Debug("pipeline.stage.start",
		"stage", stage,
		"document_type", string(req.DocumentType),
		"target", req.TargetMIME,
		"max_kb", req.MaxSizeKB,
	)
}

func (h *LoggingHook) AfterStage(_ context.Context, stage string, _ *core.TransformRequest, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("pipeline.stage.error",
			"stage", stage,
			"duration_ms", d.Milliseconds(),
			"category", categoryName(err),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("pipeline.stage.done",
		"stage", stage,
		"duration_ms", d.Milliseconds(),
	)
}

// ── Metrics hook ──────────────────────────────────────────────────────────────

// MetricsHook feeds stage timings and errors into a MetricsCollector.
// Escalations, outcomes and throughput are recorded by the pipeline itself.
type MetricsHook struct {
	collector core.MetricsCollector
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c core.MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeStage(_ context.Context, _ string, _ *core.TransformRequest) {}

func (h *MetricsHook) AfterStage(_ context.Context, stage string, _ *core.TransformRequest, d time.Duration, err error) {
	h.collector.RecordStageTime(stage, d)
	if err != nil {
		h.collector.RecordError(stage, categoryName(err))
	}
}

// categoryName extracts the error category for labelling.
func categoryName(err error) string {
	for _, cat := range []apperrors.Category{
		apperrors.CategoryValidation,
		apperrors.CategoryDecode,
		apperrors.CategoryEncode,
		apperrors.CategoryContainer,
		apperrors.CategoryBudget,
		apperrors.CategoryCanceled,
		apperrors.CategoryTimeout,
	} {
		if apperrors.IsCategory(err, cat) {
			return string(cat)
		}
	}
	return string(apperrors.CategoryPipeline)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64 // cumulative ms per stage
	stageCalls       map[string]int64 // call count per stage
	stageErrors      map[string]int64
	escalations      map[string]int64 // per tier escalated into
	outcomes         map[string]int64 // per outcome status

	totalThroughputB int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageErrors:      make(map[string]int64),
		escalations:      make(map[string]int64),
		outcomes:         make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordStageTime(stage string, d time.Duration) {
	m.mu.Lock()
	m.stageDurationsMs[stage] += d.Milliseconds()
	m.stageCalls[stage]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordThroughput(bytes int64) {
	atomic.AddInt64(&m.totalThroughputB, bytes)
}

func (m *InMemoryMetrics) RecordEscalation(tier core.Tier) {
	m.mu.Lock()
	m.escalations[string(tier)]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordOutcome(status string) {
	m.mu.Lock()
	m.outcomes[status]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordError(stage string, _ string) {
	m.mu.Lock()
	m.stageErrors[stage]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsMs: make(map[string]int64, len(m.stageDurationsMs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		StageErrors:      make(map[string]int64, len(m.stageErrors)),
		Escalations:      make(map[string]int64, len(m.escalations)),
		Outcomes:         make(map[string]int64, len(m.outcomes)),
		TotalThroughputB: atomic.LoadInt64(&m.totalThroughputB),
	}
	for k, v := range m.stageDurationsMs {
		snap.StageDurationsMs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	for k, v := range m.stageErrors {
		snap.StageErrors[k] = v
	}
	for k, v := range m.escalations {
		snap.Escalations[k] = v
	}
	for k, v := range m.outcomes {
		snap.Outcomes[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageErrors      map[string]int64
	Escalations      map[string]int64
	Outcomes         map[string]int64
	TotalThroughputB int64
}

// compile-time interface checks
var (
	_ core.Logger           = (*ZapLogger)(nil)
	_ core.Logger           = (*SlogLogger)(nil)
	_ core.Hook             = (*LoggingHook)(nil)
	_ core.Hook             = (*MetricsHook)(nil)
	_ core.MetricsCollector = (*InMemoryMetrics)(nil)
)
