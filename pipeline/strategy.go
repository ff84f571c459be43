package pipeline

import (
	"math"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

// tierGrid is one aggressiveness band's candidate grid, ordered from least
// to most aggressive.
type tierGrid struct {
	tier       core.Tier
	candidates []core.Candidate
	// enforcesFloor drops candidates below the document's quality floor.
	// Terminal tiers trade the floor away rather than fail outright.
	enforcesFloor bool
}

// plan is the strategy stage's output: the escalation chain of grids plus
// the optional coarse pre-compression pass.
type plan struct {
	tiers []tierGrid
	floor int
	ratio float64

	preCandidate *core.Candidate
	preTargetKB  int
}

// Built-in per-document-type quality floors.  Signatures must stay legible
// for verification; generic documents tolerate the most loss.
var defaultFloors = map[core.DocumentType]int{
	core.DocSignature: 50,
	core.DocPhoto:     40,
	core.DocIDProof:   35,
	core.DocGeneric:   25,
}

// qualityRange returns [from, from-step, ..] down to and including to.
func qualityRange(from, to, step int) []int {
	out := make([]int, 0, (from-to)/step+2)
	for q := from; q > to; q -= step {
		out = append(out, q)
	}
	return append(out, to)
}

// crossGrid builds scale-major candidates: for each scale, walk every
// quality before shrinking further.
func crossGrid(qualities, scales []int) []core.Candidate {
	out := make([]core.Candidate, 0, len(qualities)*len(scales))
	for _, s := range scales {
		for _, q := range qualities {
			out = append(out, core.Candidate{Quality: q, Scale: s})
		}
	}
	return out
}

func gentleGrid() []core.Candidate {
	return crossGrid(qualityRange(95, 70, 5), []int{100})
}

func standardGrid() []core.Candidate {
	return crossGrid(qualityRange(90, 20, 10), []int{100})
}

func aggressiveGrid() []core.Candidate {
	return crossGrid(qualityRange(80, 20, 10), qualityRange(90, 40, 10))
}

func extremeGrid() []core.Candidate {
	return crossGrid(qualityRange(30, 1, 5), qualityRange(80, 10, 10))
}

// ultraGrid is the last-resort fallback walked after every tier failed:
// tiny scales crossed with single-digit qualities.
func ultraGrid() []core.Candidate {
	return crossGrid([]int{10, 8, 6, 4, 2, 1}, []int{30, 25, 20, 15, 10, 5})
}

// applyFloor removes candidates below the quality floor.  A grid emptied by
// a high floor degrades to the single least-aggressive compliant candidate.
func applyFloor(grid []core.Candidate, floor int) []core.Candidate {
	out := grid[:0:0]
	maxScale := 0
	for _, c := range grid {
		if c.Scale > maxScale {
			maxScale = c.Scale
		}
		if c.Quality >= floor {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = []core.Candidate{{Quality: floor, Scale: maxScale}}
	}
	return out
}

// selectPlan maps the compression ratio onto a starting tier and builds the
// escalation chain through the terminal ultra fallback.
func (p *Pipeline) selectPlan(norm *normalized, rep *reporter) *plan {
	floor := defaultFloors[norm.docType]
	if override, ok := p.cfg.Strategy.QualityFloors[string(norm.docType)]; ok {
		floor = override
	}

	ratio := float64(norm.originalKB) / float64(norm.maxKB)

	all := []tierGrid{
		{tier: core.TierGentle, candidates: applyFloor(gentleGrid(), floor), enforcesFloor: true},
		{tier: core.TierStandard, candidates: applyFloor(standardGrid(), floor), enforcesFloor: true},
		{tier: core.TierAggressive, candidates: applyFloor(aggressiveGrid(), floor), enforcesFloor: true},
		{tier: core.TierExtreme, candidates: extremeGrid()},
		{tier: core.TierUltra, candidates: ultraGrid()},
	}

	start := 0
	switch {
	case ratio <= 2:
		start = 0
	case ratio <= 5:
		start = 1
	case ratio <= 8:
		start = 2
	default:
		start = 3
	}

	pl := &plan{
		tiers: all[start:],
		floor: floor,
		ratio: ratio,
	}

	rep.rep.Tier = pl.tiers[0].tier
	rep.step("strategy: ratio %.2f → %s tier, quality floor %d%% (%s)",
		ratio, pl.tiers[0].tier, floor, norm.docType)

	// Very large sources get one coarse shrink before the fine grid so the
	// per-candidate encodes work on a manageable pixel mass.
	if threshold := p.cfg.Strategy.PreCompressThresholdKB; norm.originalKB > threshold {
		pl.preTargetKB = p.cfg.Strategy.PreCompressCeilingKB
		if tripled := 3 * norm.maxKB; tripled < pl.preTargetKB {
			pl.preTargetKB = tripled
		}
		pl.preCandidate = &core.Candidate{
			Quality: 70,
			Scale:   preScalePercent(norm.originalKB, pl.preTargetKB),
		}
		rep.step("pre-compression pass planned: %d KB → ~%d KB (quality %d%%, scale %d%%)",
			norm.originalKB, pl.preTargetKB, pl.preCandidate.Quality, pl.preCandidate.Scale)
	}

	return pl
}

// preScalePercent derives the coarse pass scale from the size ratio.  File
// size tracks pixel area, so the linear scale shrinks with the square root,
// clamped to keep the pass a rough cut rather than a precise landing.
func preScalePercent(originalKB, targetKB int) int {
	if targetKB <= 0 || originalKB <= targetKB {
		return 90
	}
	s := int(math.Round(100 / math.Sqrt(float64(originalKB)/float64(targetKB))))
	if s < 30 {
		return 30
	}
	if s > 90 {
		return 90
	}
	return s
}
