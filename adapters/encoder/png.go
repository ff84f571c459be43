package encoder

import (
	"context"
	"image"
	"image/color/palette"
	"image/draw"
	"image/png"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// PNG encodes images to PNG format.  PNG has no lossy quality dial, so
// quality percentages at or below the quantize threshold reduce the image
// to a dithered 256-colour palette to shed bytes.
type PNG struct {
	QuantizeBelow int // quality threshold; default 50
}

func NewPNG() *PNG { return &PNG{QuantizeBelow: 50} }

func (p *PNG) CanEncode(format core.Format) bool { return format == core.FormatPNG }

func (p *PNG) Encode(ctx context.Context, px *core.Pixmap, params core.EncodeParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}

	src, ok := px.Image.(image.Image)
	if !ok || src == nil {
		return nil, apperrors.New(apperrors.CategoryEncode, "png.encode", apperrors.ErrEmptyInput)
	}

	out := resample(src, params)
	if params.Quality > 0 && params.Quality <= p.QuantizeBelow {
		out = quantize(out)
	}

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	buf := utils.AcquireBuffer()
	defer utils.ReleaseBuffer(buf)
	if err := enc.Encode(buf, out); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "png.encode", err)
	}
	return utils.CloneBytes(buf.Bytes()), nil
}

// quantize reduces the image to the Plan9 palette with Floyd-Steinberg
// dithering.
func quantize(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, b.Min)
	return dst
}
