// Package decoder provides format-specific document decoders.
package decoder

import (
	"context"
	"image"
	"image/jpeg"
	"io"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// JPEG decodes JPEG images using the standard library.
type JPEG struct{}

// NewJPEG returns an initialised JPEG decoder.
func NewJPEG() *JPEG { return &JPEG{} }

func (j *JPEG) CanDecode(format core.Format) bool {
	return format == core.FormatJPEG || format == core.FormatUnknown
}

func (j *JPEG) Decode(ctx context.Context, r io.Reader) (*core.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.decode", err)
	}

	raw, err := drain(ctx, r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.drain", err)
	}

	img, err := jpeg.Decode(utils.BytesReader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "jpeg.decode", err)
	}

	return &core.Pixmap{
		Image: img,
		Raw:   raw,
		Meta:  metadata(img, core.FormatJPEG, len(raw)),
	}, nil
}

// drain buffers the reader so the decoder can both decode and retain the
// original bytes.
func drain(ctx context.Context, r io.Reader) ([]byte, error) {
	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, err
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	return raw, nil
}

// metadata extracts dimensions and colour information from a decoded image.
func metadata(img image.Image, format core.Format, sizeBytes int) core.Metadata {
	bounds := img.Bounds()
	return core.Metadata{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     format,
		ColorSpace: colorSpace(img),
		HasAlpha:   hasAlpha(img),
		SizeBytes:  int64(sizeBytes),
	}
}

// colorSpace returns the colour space of an image.Image.
func colorSpace(img image.Image) core.ColorSpace {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return core.ColorSpaceGray
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return core.ColorSpaceRGBA
	case *image.CMYK:
		return core.ColorSpaceCMYK
	}
	return core.ColorSpaceRGB
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}
