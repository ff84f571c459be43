package decoder

import (
	"context"
	"image/png"
	"io"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// PNG decodes PNG images using the standard library.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanDecode(format core.Format) bool {
	return format == core.FormatPNG
}

func (p *PNG) Decode(ctx context.Context, r io.Reader) (*core.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "png.decode", err)
	}

	raw, err := drain(ctx, r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "png.drain", err)
	}

	img, err := png.Decode(utils.BytesReader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "png.decode", err)
	}

	return &core.Pixmap{
		Image: img,
		Raw:   raw,
		Meta:  metadata(img, core.FormatPNG, len(raw)),
	}, nil
}
