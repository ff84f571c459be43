package pipeline

import (
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

// Preview thresholds: quality at or above silentQualityMin needs no review,
// below optionalPreviewMin the caller must confirm legibility.
const (
	silentQualityMin   = 90
	optionalPreviewMin = 50
)

// gate inspects the accepted outcome and sets the report's review and
// over-compression flags.  It never rejects: by the time a candidate
// reaches the gate it already satisfies the hard ceiling.
func (p *Pipeline) gate(out *core.Outcome, pl *plan, norm *normalized, rep *reporter) {
	rep.rep.FinalSizeKB = out.SizeKB
	rep.rep.QualityPercent = out.Candidate.Quality
	rep.rep.ScalePercent = out.Candidate.Scale
	rep.rep.Tier = out.Tier

	q := out.Candidate.Quality
	verdict := "ok"
	switch {
	case out.FloorOverridden:
		rep.rep.PreviewRequired = true
		verdict = "preview required"
		rep.warn("quality %d%% is below the %d%% floor for %s documents; manual review required before submission",
			q, pl.floor, norm.docType)
	case q < optionalPreviewMin:
		rep.rep.PreviewRequired = true
		verdict = "preview required"
		rep.warn("heavy compression at quality %d%%; verify legibility before submitting", q)
	case q < silentQualityMin:
		rep.rep.PreviewOptional = true
		verdict = "preview optional"
	}

	if target := rep.rep.TargetSizeKB; target > 0 {
		if float64(out.SizeKB) < p.cfg.Search.OvercompressionRatio*float64(target) {
			rep.rep.Overcompressed = true
			rep.warn("output %d KB landed well under the %d KB soft target; quality may have been reduced more than necessary",
				out.SizeKB, target)
		}
	}
	if norm.minKB > 0 && out.SizeKB < norm.minKB {
		rep.warn("output %d KB is below the requested minimum of %d KB", out.SizeKB, norm.minKB)
	}

	rep.step("quality gate: quality %d%% scale %d%% → %s", q, out.Candidate.Scale, verdict)
}
