package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// normalized is the validated, decoded view of a request handed to the
// strategy and search stages.
type normalized struct {
	req *core.TransformRequest

	sourceFormat core.Format
	targetFormat core.Format
	// rasterFormat is the raster layer actually encoded per candidate: the
	// target itself, or JPEG beneath a container target.
	rasterFormat core.Format

	originalKB int
	maxKB      int
	minKB      int

	// compliant marks a source that already satisfies format, budget and
	// dimensions; the pipeline returns it untouched.
	compliant bool

	pixels *core.Pixmap
	// dims pins the output dimensions; nil keeps source dimensions.
	dims *core.Dimensions

	encoder core.Encoder
	wrapper core.ContainerWrapper
	docType core.DocumentType
}

// normalize validates the request, resolves formats and codecs, detects the
// compliance short-circuit, and decodes the source when processing is needed.
func (p *Pipeline) normalize(ctx context.Context, req *core.TransformRequest, rep *reporter) (*normalized, error) {
	if len(req.Source) == 0 {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize, apperrors.ErrEmptyInput)
	}
	if limit := p.cfg.MaxSourceBytes; limit > 0 && int64(len(req.Source)) > limit {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("source is %d bytes, limit is %d", len(req.Source), limit))
	}
	if req.MaxSizeKB <= 0 {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize, apperrors.ErrInvalidBudget)
	}
	if req.MinSizeKB < 0 {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: minSizeKB must not be negative", apperrors.ErrInconsistentBudget))
	}
	if req.MinSizeKB > req.MaxSizeKB {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize, apperrors.ErrInconsistentBudget)
	}

	docType := req.DocumentType
	if docType == "" {
		docType = core.DocGeneric
	}
	if !core.KnownDocumentType(docType) {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("unknown document type %q", req.DocumentType))
	}

	wantDims := req.TargetDimensions
	if wantDims != nil {
		if wantDims.Width < 0 || wantDims.Height < 0 {
			return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize, apperrors.ErrInvalidDimensions)
		}
		if wantDims.Width == 0 && wantDims.Height == 0 {
			wantDims = nil
		}
	}

	// Resolve the source format, trusting magic bytes over the declared
	// content type when the two disagree.
	sniffed := core.FormatFromMIME(utils.DetectMIME(req.Source))
	sourceFormat := core.FormatFromMIME(req.SourceMIME)
	switch {
	case sourceFormat == core.FormatUnknown && sniffed == core.FormatUnknown:
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: content type %q", apperrors.ErrUnsupportedFormat, req.SourceMIME))
	case sourceFormat == core.FormatUnknown:
		sourceFormat = sniffed
		rep.step("source format sniffed as %s", sniffed)
	case sniffed != core.FormatUnknown && sniffed != sourceFormat:
		rep.warn("declared source type %s contradicts magic bytes; treating as %s", sourceFormat, sniffed)
		sourceFormat = sniffed
	}
	if !sourceFormat.IsRaster() {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: %s sources cannot be decoded", apperrors.ErrUnsupportedConversion, sourceFormat))
	}

	targetFormat := core.FormatFromMIME(req.TargetMIME)
	if targetFormat == core.FormatUnknown {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: target %q", apperrors.ErrUnsupportedConversion, req.TargetMIME))
	}

	norm := &normalized{
		req:          req,
		sourceFormat: sourceFormat,
		targetFormat: targetFormat,
		rasterFormat: targetFormat,
		originalKB:   utils.SizeKB(len(req.Source)),
		maxKB:        req.MaxSizeKB,
		minKB:        req.MinSizeKB,
		docType:      docType,
	}

	// Containers wrap a JPEG raster layer.
	if targetFormat.IsContainer() {
		w, ok := p.reg.WrapperFor(targetFormat)
		if !ok {
			return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
				fmt.Errorf("%w: no wrapper registered for %s", apperrors.ErrUnsupportedConversion, targetFormat))
		}
		norm.wrapper = w
		norm.rasterFormat = core.FormatJPEG
	}
	enc, ok := p.reg.EncoderFor(norm.rasterFormat)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: no encoder registered for %s", apperrors.ErrUnsupportedConversion, norm.rasterFormat))
	}
	norm.encoder = enc

	dec, ok := p.reg.DecoderFor(sourceFormat)
	if !ok {
		return nil, apperrors.New(apperrors.CategoryValidation, stageNormalize,
			fmt.Errorf("%w: no decoder registered for %s", apperrors.ErrUnsupportedConversion, sourceFormat))
	}

	rep.rep.SourceFormat = sourceFormat
	rep.rep.TargetFormat = targetFormat
	rep.rep.OriginalSizeKB = norm.originalKB
	rep.rep.MaxSizeKB = norm.maxKB
	rep.rep.TargetSizeKB = softTargetKB(norm.maxKB, p.cfg.Search.SoftBudgetRatio)
	rep.step("intake: %s, %d KB, target %s, budget %d KB", sourceFormat, norm.originalKB, targetFormat, norm.maxKB)

	// Compliance short-circuit: right format, inside the budget, and no
	// dimension change requested means the source passes through untouched.
	if sourceFormat == targetFormat && norm.originalKB <= norm.maxKB {
		if wantDims == nil {
			norm.compliant = true
			p.recordPassthrough(norm, rep)
			return norm, nil
		}
		if err := p.decodeSource(ctx, dec, norm); err != nil {
			return nil, err
		}
		w, h := utils.ScaleDimensions(norm.pixels.Meta.Width, norm.pixels.Meta.Height, wantDims.Width, wantDims.Height)
		if w == norm.pixels.Meta.Width && h == norm.pixels.Meta.Height {
			norm.compliant = true
			p.recordPassthrough(norm, rep)
			return norm, nil
		}
	}

	if norm.pixels == nil {
		if err := p.decodeSource(ctx, dec, norm); err != nil {
			return nil, err
		}
	}

	if wantDims != nil {
		w, h := utils.ScaleDimensions(norm.pixels.Meta.Width, norm.pixels.Meta.Height, wantDims.Width, wantDims.Height)
		if w != norm.pixels.Meta.Width || h != norm.pixels.Meta.Height {
			norm.dims = &core.Dimensions{Width: w, Height: h}
			rep.step("dimension normalization: %dx%d → %dx%d",
				norm.pixels.Meta.Width, norm.pixels.Meta.Height, w, h)
		}
	}

	if norm.pixels.Meta.HasAlpha && norm.rasterFormat == core.FormatJPEG {
		rep.warn("alpha channel will be flattened by the %s encoding", norm.rasterFormat)
	}

	return norm, nil
}

// decodeSource decodes the request bytes through the registered decoder.
func (p *Pipeline) decodeSource(ctx context.Context, dec core.Decoder, norm *normalized) error {
	px, err := dec.Decode(ctx, utils.BytesReader(norm.req.Source))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.FromContext(stageNormalize, ctxErr, nil)
		}
		return apperrors.Wrap(apperrors.CategoryDecode, stageNormalize, err)
	}
	norm.pixels = px
	return nil
}

// recordPassthrough fills the report fields for the untouched short-circuit.
func (p *Pipeline) recordPassthrough(norm *normalized, rep *reporter) {
	rep.rep.FinalSizeKB = norm.originalKB
	rep.rep.QualityPercent = 100
	rep.rep.ScalePercent = 100
	rep.step("source already compliant: %d KB within %d KB, no conversion needed", norm.originalKB, norm.maxKB)
	if norm.minKB > 0 && norm.originalKB < norm.minKB {
		rep.warn("source %d KB is below the requested minimum of %d KB", norm.originalKB, norm.minKB)
	}
}

// softTargetKB positions the search target below the hard ceiling so typical
// results land with headroom.
func softTargetKB(maxKB int, ratio float64) int {
	if ratio <= 0 || ratio > 1 {
		ratio = 0.85
	}
	t := int(math.Round(float64(maxKB) * ratio))
	if t < 1 {
		t = 1
	}
	return t
}
