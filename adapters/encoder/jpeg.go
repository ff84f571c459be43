// Package encoder provides raster encoders driven by candidate parameters.
package encoder

import (
	"context"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// JPEG encodes images to JPEG format.
type JPEG struct {
	DefaultQuality int // used when EncodeParams.Quality == 0
}

func NewJPEG(defaultQuality int) *JPEG {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &JPEG{DefaultQuality: defaultQuality}
}

func (j *JPEG) CanEncode(format core.Format) bool {
	return format == core.FormatJPEG
}

func (j *JPEG) Encode(ctx context.Context, px *core.Pixmap, params core.EncodeParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}

	src, ok := px.Image.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "jpeg.encode", apperrors.ErrEmptyInput)
	}

	quality := params.Quality
	if quality <= 0 {
		quality = j.DefaultQuality
	}

	out := resample(src, params)

	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := jpeg.Encode(buf, out, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "jpeg.encode", err)
	}
	return utils.CloneBytes(buf.Bytes()), nil
}

// resample applies the pinned dimensions and then the candidate's scale
// percent, resizing with Lanczos when the result differs from the source.
func resample(src image.Image, params core.EncodeParams) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if params.Dims != nil {
		w, h = utils.ScaleDimensions(w, h, params.Dims.Width, params.Dims.Height)
	}
	w = utils.ApplyScale(w, params.Scale)
	h = utils.ApplyScale(h, params.Scale)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	return imaging.Resize(src, w, h, imaging.Lanczos)
}
