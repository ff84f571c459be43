package pipeline

import (
	"testing"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
)

type gateInput struct {
	quality, scale  int
	sizeKB          int
	targetKB, minKB int
	floorOverridden bool
}

func runGate(t *testing.T, in gateInput) *core.TransformReport {
	t.Helper()
	p := New(core.NewRegistry(), config.Default())
	rep := newReporter(&core.TransformRequest{DocumentType: core.DocPhoto})
	rep.rep.TargetSizeKB = in.targetKB
	out := &core.Outcome{
		SizeKB:          in.sizeKB,
		Candidate:       core.Candidate{Quality: in.quality, Scale: in.scale},
		Tier:            core.TierStandard,
		FloorOverridden: in.floorOverridden,
	}
	pl := &plan{floor: 40}
	norm := &normalized{minKB: in.minKB, docType: core.DocPhoto}
	p.gate(out, pl, norm, rep)
	return rep.finalize()
}

func TestGate_PreviewVerdicts(t *testing.T) {
	tests := []struct {
		quality  int
		optional bool
		required bool
	}{
		{95, false, false},
		{90, false, false}, // silent boundary
		{89, true, false},
		{65, true, false},
		{50, true, false}, // optional boundary
		{49, false, true},
		{35, false, true},
	}
	for _, tt := range tests {
		rep := runGate(t, gateInput{quality: tt.quality, scale: 100, sizeKB: 100, targetKB: 100})
		if rep.PreviewOptional != tt.optional || rep.PreviewRequired != tt.required {
			t.Errorf("quality %d: optional=%v required=%v, want %v/%v",
				tt.quality, rep.PreviewOptional, rep.PreviewRequired, tt.optional, tt.required)
		}
	}
}

// A floor override forces the mandatory preview even at qualities that would
// otherwise only suggest one.
func TestGate_FloorOverrideForcesPreview(t *testing.T) {
	rep := runGate(t, gateInput{quality: 55, scale: 100, sizeKB: 100, targetKB: 100, floorOverridden: true})
	if !rep.PreviewRequired || rep.PreviewOptional {
		t.Errorf("flags: required=%v optional=%v, want required only", rep.PreviewRequired, rep.PreviewOptional)
	}
	if !hasEntry(rep.Warnings, "below the 40% floor for photo documents") {
		t.Errorf("missing floor warning; warnings: %v", rep.Warnings)
	}
}

// Over-compression triggers strictly below 90% of the soft target.
func TestGate_OvercompressionBoundary(t *testing.T) {
	tests := []struct {
		sizeKB int
		want   bool
	}{
		{89, true},
		{90, false},
		{91, false},
	}
	for _, tt := range tests {
		rep := runGate(t, gateInput{quality: 95, scale: 100, sizeKB: tt.sizeKB, targetKB: 100})
		if rep.Overcompressed != tt.want {
			t.Errorf("%d KB against a 100 KB target: overcompressed=%v, want %v", tt.sizeKB, rep.Overcompressed, tt.want)
		}
		if tt.want && !hasEntry(rep.Warnings, "landed well under") {
			t.Errorf("%d KB: missing overcompression warning", tt.sizeKB)
		}
	}
}

func TestGate_MinimumSizeWarning(t *testing.T) {
	rep := runGate(t, gateInput{quality: 95, scale: 100, sizeKB: 40, targetKB: 0, minKB: 50})
	if !hasEntry(rep.Warnings, "below the requested minimum of 50 KB") {
		t.Errorf("missing minimum warning; warnings: %v", rep.Warnings)
	}
}

func TestGate_StampsAcceptedOutcome(t *testing.T) {
	rep := runGate(t, gateInput{quality: 60, scale: 80, sizeKB: 96, targetKB: 100})
	if rep.FinalSizeKB != 96 || rep.QualityPercent != 60 || rep.ScalePercent != 80 {
		t.Errorf("stamped outcome: %d KB q%d s%d", rep.FinalSizeKB, rep.QualityPercent, rep.ScalePercent)
	}
	if rep.Tier != core.TierStandard {
		t.Errorf("tier: got %s", rep.Tier)
	}
	if !hasEntry(rep.Steps, "quality gate: quality 60% scale 80% → preview optional") {
		t.Errorf("missing gate step; steps: %v", rep.Steps)
	}
}
