package decoder

import (
	"context"
	"io"

	"golang.org/x/image/webp"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// WebP decodes WebP images using golang.org/x/image/webp.
// NOTE: golang.org/x/image/webp only supports lossy WebP decoding.
// For lossless or animated WebP, register the libvips backend instead.
type WebP struct{}

func NewWebP() *WebP { return &WebP{} }

func (w *WebP) CanDecode(format core.Format) bool {
	return format == core.FormatWebP
}

func (w *WebP) Decode(ctx context.Context, r io.Reader) (*core.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.decode", err)
	}

	raw, err := drain(ctx, r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.drain", err)
	}

	img, err := webp.Decode(utils.BytesReader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "webp.decode", err)
	}

	return &core.Pixmap{
		Image: img,
		Raw:   raw,
		Meta:  metadata(img, core.FormatWebP, len(raw)),
	}, nil
}
