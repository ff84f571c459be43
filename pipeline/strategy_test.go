package pipeline

import (
	"reflect"
	"testing"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

func newStrategyPipeline(mutate func(*config.Config)) *Pipeline {
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(core.NewRegistry(), cfg)
}

func planFor(p *Pipeline, originalKB, maxKB int, docType core.DocumentType) *plan {
	norm := &normalized{originalKB: originalKB, maxKB: maxKB, docType: docType}
	return p.selectPlan(norm, newReporter(&core.TransformRequest{}))
}

// ── Grid construction ─────────────────────────────────────────────────────────

func TestQualityRange(t *testing.T) {
	tests := []struct {
		from, to, step int
		want           []int
	}{
		{95, 70, 5, []int{95, 90, 85, 80, 75, 70}},
		{90, 20, 10, []int{90, 80, 70, 60, 50, 40, 30, 20}},
		{30, 1, 5, []int{30, 25, 20, 15, 10, 5, 1}},
	}
	for _, tt := range tests {
		if got := qualityRange(tt.from, tt.to, tt.step); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("qualityRange(%d, %d, %d) = %v, want %v", tt.from, tt.to, tt.step, got, tt.want)
		}
	}
}

// Candidates walk every quality at a scale before shrinking further.
func TestCrossGrid_ScaleMajorOrder(t *testing.T) {
	got := crossGrid([]int{80, 70}, []int{90, 80})
	want := []core.Candidate{
		{Quality: 80, Scale: 90},
		{Quality: 70, Scale: 90},
		{Quality: 80, Scale: 80},
		{Quality: 70, Scale: 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("crossGrid order: got %v, want %v", got, want)
	}
}

func TestGridSizes(t *testing.T) {
	tests := []struct {
		name string
		grid []core.Candidate
		want int
	}{
		{"gentle", gentleGrid(), 6},
		{"standard", standardGrid(), 8},
		{"aggressive", aggressiveGrid(), 42},
		{"extreme", extremeGrid(), 56},
		{"ultra", ultraGrid(), 36},
	}
	for _, tt := range tests {
		if len(tt.grid) != tt.want {
			t.Errorf("%s grid: %d candidates, want %d", tt.name, len(tt.grid), tt.want)
		}
	}
}

func TestApplyFloor(t *testing.T) {
	if got := applyFloor(standardGrid(), 25); len(got) != 7 {
		t.Errorf("floor 25 on standard: %d candidates, want 7 (quality 20 dropped)", len(got))
	}
	if got := applyFloor(gentleGrid(), 0); len(got) != 6 {
		t.Errorf("floor 0 must keep the full grid, got %d", len(got))
	}
	// A floor above every grid quality degrades to a single candidate at the
	// floor itself.
	got := applyFloor(gentleGrid(), 99)
	want := []core.Candidate{{Quality: 99, Scale: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("degraded grid: got %v, want %v", got, want)
	}
}

// ── Tier selection ────────────────────────────────────────────────────────────

func TestSelectPlan_TierByRatio(t *testing.T) {
	p := newStrategyPipeline(nil)
	tests := []struct {
		originalKB, maxKB int
		tier              core.Tier
		chain             int
	}{
		{100, 50, core.TierGentle, 5},
		{100, 100, core.TierGentle, 5},
		{200, 100, core.TierGentle, 5},
		{201, 100, core.TierStandard, 4},
		{500, 100, core.TierStandard, 4},
		{501, 100, core.TierAggressive, 3},
		{800, 100, core.TierAggressive, 3},
		{801, 100, core.TierExtreme, 2},
		{100000, 100, core.TierExtreme, 2},
	}
	for _, tt := range tests {
		pl := planFor(p, tt.originalKB, tt.maxKB, core.DocGeneric)
		if pl.tiers[0].tier != tt.tier {
			t.Errorf("%d KB / %d KB: start tier %s, want %s", tt.originalKB, tt.maxKB, pl.tiers[0].tier, tt.tier)
		}
		if len(pl.tiers) != tt.chain {
			t.Errorf("%d KB / %d KB: chain length %d, want %d", tt.originalKB, tt.maxKB, len(pl.tiers), tt.chain)
		}
	}
	// The chain always terminates in the ultra fallback.
	pl := planFor(p, 801, 100, core.DocGeneric)
	if last := pl.tiers[len(pl.tiers)-1]; last.tier != core.TierUltra || last.enforcesFloor {
		t.Errorf("terminal tier: got %s (enforcesFloor=%v)", last.tier, last.enforcesFloor)
	}
}

func TestSelectPlan_QualityFloors(t *testing.T) {
	p := newStrategyPipeline(nil)
	tests := []struct {
		doc   core.DocumentType
		floor int
	}{
		{core.DocSignature, 50},
		{core.DocPhoto, 40},
		{core.DocIDProof, 35},
		{core.DocGeneric, 25},
	}
	for _, tt := range tests {
		if pl := planFor(p, 100, 50, tt.doc); pl.floor != tt.floor {
			t.Errorf("%s floor: got %d, want %d", tt.doc, pl.floor, tt.floor)
		}
	}

	// Signatures lose the bottom three standard qualities to their floor.
	pl := planFor(p, 300, 100, core.DocSignature)
	if got := len(pl.tiers[0].candidates); got != 5 {
		t.Errorf("signature standard grid: %d candidates, want 5", got)
	}

	over := newStrategyPipeline(func(c *config.Config) {
		c.Strategy.QualityFloors = map[string]int{"photo": 60}
	})
	if pl := planFor(over, 100, 50, core.DocPhoto); pl.floor != 60 {
		t.Errorf("configured floor: got %d, want 60", pl.floor)
	}
}

// ── Pre-compression planning ──────────────────────────────────────────────────

func TestSelectPlan_PlansPreCompression(t *testing.T) {
	p := newStrategyPipeline(nil)

	pl := planFor(p, 6000, 1000, core.DocGeneric)
	if pl.preCandidate == nil {
		t.Fatal("6000 KB source must plan a coarse pass")
	}
	if pl.preTargetKB != 2048 {
		t.Errorf("pre-compression target: got %d KB, want 2048", pl.preTargetKB)
	}
	if pl.preCandidate.Quality != 70 || pl.preCandidate.Scale != 58 {
		t.Errorf("coarse candidate: got q%d s%d, want q70 s58", pl.preCandidate.Quality, pl.preCandidate.Scale)
	}

	// A tight ceiling caps the coarse target at three times the budget.
	pl = planFor(p, 6000, 100, core.DocGeneric)
	if pl.preTargetKB != 300 {
		t.Errorf("capped pre-compression target: got %d KB, want 300", pl.preTargetKB)
	}

	// At the threshold exactly, no coarse pass.
	if pl = planFor(p, 5120, 1000, core.DocGeneric); pl.preCandidate != nil {
		t.Errorf("5120 KB is within the threshold, got coarse pass %+v", pl.preCandidate)
	}
}

func TestPreScalePercent(t *testing.T) {
	tests := []struct {
		originalKB, targetKB, want int
	}{
		{100, 200, 90},     // already under target
		{100, 0, 90},       // degenerate target
		{121, 100, 90},     // rounds to 91, clamped to 90
		{200, 100, 71},     // 100/sqrt(2)
		{400, 100, 50},     // 100/sqrt(4)
		{1000000, 100, 30}, // clamped at the bottom
	}
	for _, tt := range tests {
		if got := preScalePercent(tt.originalKB, tt.targetKB); got != tt.want {
			t.Errorf("preScalePercent(%d, %d) = %d, want %d", tt.originalKB, tt.targetKB, got, tt.want)
		}
	}
}
