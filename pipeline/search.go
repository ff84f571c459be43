package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// search walks the plan's candidate grids least-aggressive first, hunting
// the compliant result closest to the soft target.  It never returns an
// outcome above the hard ceiling.
func (p *Pipeline) search(ctx context.Context, norm *normalized, pl *plan, rep *reporter) (*core.Outcome, error) {
	target := rep.rep.TargetSizeKB
	tol := toleranceKB(target, p.cfg.Search.ToleranceRatio)
	rep.step("search: soft target %d KB, ceiling %d KB, tolerance ±%d KB", target, norm.maxKB, tol)

	if pl.preCandidate != nil {
		if err := p.preCompress(ctx, norm, pl, rep); err != nil {
			return nil, err
		}
	}

	var (
		best      *core.Outcome
		bestDist  int
		evaluated int
	)
	for ti, tier := range pl.tiers {
		if ti > 0 {
			rep.warn("escalating to %s tier", tier.tier)
			rep.rep.Tier = tier.tier
			if p.metrics != nil {
				p.metrics.RecordEscalation(tier.tier)
			}
		}
		for _, cand := range tier.candidates {
			if err := ctx.Err(); err != nil {
				return p.interrupted(err, best, pl, rep)
			}
			out, err := p.encodeCandidate(ctx, norm, cand, tier.tier)
			if err != nil {
				return nil, err
			}
			evaluated++
			if out.Data == nil {
				rep.step("%s: quality %d%% scale %d%% → ~%d KB raster, container overhead exceeds ceiling; wrap skipped",
					tier.tier, cand.Quality, cand.Scale, out.SizeKB)
				continue
			}
			rep.step("%s: quality %d%% scale %d%% → %d KB", tier.tier, cand.Quality, cand.Scale, out.SizeKB)
			if out.SizeKB > norm.maxKB {
				continue
			}
			d := absKB(out.SizeKB - target)
			if best == nil || d < bestDist {
				best, bestDist = out, d
			}
			if d <= tol {
				rep.step("accepted: %d KB is within ±%d KB of the soft target", out.SizeKB, tol)
				return p.accept(best, pl), nil
			}
		}
		if best != nil {
			rep.step("accepted: best of the %s grid at %d KB, %d KB off the soft target", tier.tier, best.SizeKB, bestDist)
			return p.accept(best, pl), nil
		}
	}

	rep.warn("no candidate fit the %d KB ceiling after %d attempts", norm.maxKB, evaluated)
	return nil, apperrors.NewBudget(stageSearch, nil,
		fmt.Sprintf("smallest achievable %s output still exceeds %d KB", norm.targetFormat, norm.maxKB))
}

// accept stamps the floor-override flag on the winning outcome.  Tiers that
// enforce the floor never emit sub-floor candidates, so a sub-floor winner
// can only have come from a terminal tier.
func (p *Pipeline) accept(out *core.Outcome, pl *plan) *core.Outcome {
	out.FloorOverridden = out.Candidate.Quality < pl.floor
	return out
}

// interrupted maps a context error observed between candidates.  A deadline
// hit with a compliant best-so-far in hand returns that result rather than
// failing the request.
func (p *Pipeline) interrupted(ctxErr error, best *core.Outcome, pl *plan, rep *reporter) (*core.Outcome, error) {
	if errors.Is(ctxErr, context.DeadlineExceeded) && best != nil {
		rep.warn("search timed out; returning the best compliant candidate found (%d KB)", best.SizeKB)
		return p.accept(best, pl), nil
	}
	return nil, apperrors.FromContext(stageSearch, ctxErr, nil)
}

// encodeCandidate runs one (quality, scale) pair through the raster encoder
// and, for container targets, the wrapper.  When the raster alone already
// blows the ceiling even before wrapping, the wrap is skipped and the
// outcome carries the estimated size with nil Data.
func (p *Pipeline) encodeCandidate(ctx context.Context, norm *normalized, cand core.Candidate, tier core.Tier) (*core.Outcome, error) {
	params := core.EncodeParams{Quality: cand.Quality, Scale: cand.Scale, Dims: norm.dims}
	raster, err := norm.encoder.Encode(ctx, norm.pixels, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperrors.FromContext(stageSearch, ctxErr, nil)
		}
		return nil, apperrors.Wrap(apperrors.CategoryEncode, stageSearch, err)
	}

	data := raster
	if norm.wrapper != nil {
		if estKB := utils.SizeKB(len(raster) + norm.wrapper.OverheadBytes()); estKB > norm.maxKB {
			return &core.Outcome{SizeKB: estKB, Candidate: cand, Format: norm.targetFormat, Tier: tier}, nil
		}
		data, err = norm.wrapper.Wrap(ctx, raster, norm.rasterFormat)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryContainer, stageSearch, err)
		}
	}

	return &core.Outcome{
		Data:      data,
		SizeKB:    utils.SizeKB(len(data)),
		Candidate: cand,
		Format:    norm.targetFormat,
		Tier:      tier,
	}, nil
}

// preCompress performs the single coarse shrink for oversized sources and
// re-decodes the result so the fine grid starts from the reduced raster.
func (p *Pipeline) preCompress(ctx context.Context, norm *normalized, pl *plan, rep *reporter) error {
	cand := *pl.preCandidate
	params := core.EncodeParams{Quality: cand.Quality, Scale: cand.Scale, Dims: norm.dims}
	data, err := norm.encoder.Encode(ctx, norm.pixels, params)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.FromContext(stageSearch, ctxErr, nil)
		}
		return apperrors.Wrap(apperrors.CategoryEncode, "pre-compress", err)
	}

	dec, ok := p.reg.DecoderFor(norm.rasterFormat)
	if !ok {
		return apperrors.New(apperrors.CategoryEncode, "pre-compress",
			fmt.Errorf("%w: no decoder registered for intermediate %s", apperrors.ErrUnsupportedConversion, norm.rasterFormat))
	}
	px, err := dec.Decode(ctx, utils.BytesReader(data))
	if err != nil {
		return apperrors.Wrap(apperrors.CategoryDecode, "pre-compress", err)
	}

	rep.step("pre-compressed %d KB → %d KB at quality %d%% scale %d%%",
		norm.originalKB, utils.SizeKB(len(data)), cand.Quality, cand.Scale)
	norm.pixels = px
	// Requested dimensions were applied by the coarse pass; the fine grid
	// scales relative to the reduced raster from here on.
	norm.dims = nil
	return nil
}

// toleranceKB converts the tolerance ratio into whole kilobytes around the
// soft target.
func toleranceKB(targetKB int, ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	return int(math.Round(float64(targetKB) * ratio))
}

func absKB(d int) int {
	if d < 0 {
		return -d
	}
	return d
}
