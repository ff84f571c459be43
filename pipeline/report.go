package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

// reporter accumulates the append-only audit trail for one transform and
// produces the finalized core.TransformReport.  It is confined to the
// request's goroutine, so no locking is needed.
type reporter struct {
	start    time.Time
	steps    []string
	warnings []string
	rep      core.TransformReport
	final    *core.TransformReport
}

func newReporter(req *core.TransformRequest) *reporter {
	r := &reporter{start: time.Now()}
	r.rep.ID = uuid.NewString()
	r.rep.ExamContext = req.ExamContext
	r.rep.Document = req.DocumentType
	if r.rep.Document == "" {
		r.rep.Document = core.DocGeneric
	}
	return r
}

// step appends a timestamped entry to the processing trail.
func (r *reporter) step(format string, args ...interface{}) {
	if r.final != nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	r.steps = append(r.steps, time.Now().Format("15:04:05.000")+" "+msg)
}

// warn appends a caller-facing warning.
func (r *reporter) warn(format string, args ...interface{}) {
	if r.final != nil {
		return
	}
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// finalize freezes the trail into an immutable report.  Subsequent step and
// warn calls are dropped; repeated calls return the same report.
func (r *reporter) finalize() *core.TransformReport {
	if r.final != nil {
		return r.final
	}
	rep := r.rep
	rep.Steps = append([]string(nil), r.steps...)
	rep.Warnings = append([]string(nil), r.warnings...)
	rep.Duration = time.Since(r.start)
	if rep.OriginalSizeKB > 0 && rep.FinalSizeKB > 0 {
		rep.CompressionRatio = float64(rep.OriginalSizeKB) / float64(rep.FinalSizeKB)
	}
	rep.FormatChanged = rep.SourceFormat != rep.TargetFormat
	r.final = &rep
	return r.final
}
