package decoder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
)

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestJPEG_Decode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for i := range img.Pix {
		img.Pix[i] = 0x7F
	}
	raw := encodeJPEG(t, img, 90)

	px, err := NewJPEG().Decode(context.Background(), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if px.Meta.Width != 100 || px.Meta.Height != 60 {
		t.Errorf("dimensions = %dx%d, want 100x60", px.Meta.Width, px.Meta.Height)
	}
	if px.Meta.Format != core.FormatJPEG {
		t.Errorf("format = %q, want jpeg", px.Meta.Format)
	}
	if px.Meta.SizeBytes != int64(len(raw)) {
		t.Errorf("size = %d, want %d", px.Meta.SizeBytes, len(raw))
	}
	if px.Meta.HasAlpha {
		t.Error("jpeg should never report an alpha channel")
	}
	if px.Meta.ColorSpace != core.ColorSpaceRGB {
		t.Errorf("colour space = %q, want rgb", px.Meta.ColorSpace)
	}
	if !bytes.Equal(px.Raw, raw) {
		t.Error("raw source bytes not retained")
	}
	if _, ok := px.Image.(image.Image); !ok {
		t.Error("pixmap holds no decoded image")
	}
}

func TestJPEG_DecodeGrayscale(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	raw := encodeJPEG(t, img, 90)

	px, err := NewJPEG().Decode(context.Background(), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if px.Meta.ColorSpace != core.ColorSpaceGray {
		t.Errorf("colour space = %q, want gray", px.Meta.ColorSpace)
	}
}

func TestPNG_Decode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 48))
	img.SetNRGBA(3, 4, color.NRGBA{R: 200, G: 10, B: 10, A: 128})
	raw := encodePNG(t, img)

	px, err := NewPNG().Decode(context.Background(), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if px.Meta.Width != 32 || px.Meta.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 32x48", px.Meta.Width, px.Meta.Height)
	}
	if px.Meta.Format != core.FormatPNG {
		t.Errorf("format = %q, want png", px.Meta.Format)
	}
	if !px.Meta.HasAlpha {
		t.Error("alpha channel not detected")
	}
	if px.Meta.ColorSpace != core.ColorSpaceRGBA {
		t.Errorf("colour space = %q, want rgba", px.Meta.ColorSpace)
	}
}

func TestDecoders_RejectGarbage(t *testing.T) {
	garbage := []byte("certainly not image data, not even close")
	decoders := []struct {
		name string
		dec  core.Decoder
	}{
		{"jpeg", NewJPEG()},
		{"png", NewPNG()},
		{"webp", NewWebP()},
	}

	for _, tc := range decoders {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.dec.Decode(context.Background(), bytes.NewReader(garbage))
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !apperrors.IsCategory(err, apperrors.CategoryDecode) {
				t.Errorf("err = %v, want decode category", err)
			}
		})
	}
}

func TestDecoders_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	raw := encodeJPEG(t, img, 90)

	_, err := NewJPEG().Decode(ctx, bytes.NewReader(raw))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestCanDecode(t *testing.T) {
	cases := []struct {
		name   string
		dec    core.Decoder
		format core.Format
		want   bool
	}{
		{"jpeg handles jpeg", NewJPEG(), core.FormatJPEG, true},
		{"jpeg handles unknown", NewJPEG(), core.FormatUnknown, true},
		{"jpeg rejects png", NewJPEG(), core.FormatPNG, false},
		{"png handles png", NewPNG(), core.FormatPNG, true},
		{"png rejects jpeg", NewPNG(), core.FormatJPEG, false},
		{"webp handles webp", NewWebP(), core.FormatWebP, true},
		{"webp rejects jpeg", NewWebP(), core.FormatJPEG, false},
	}

	for _, tc := range cases {
		if got := tc.dec.CanDecode(tc.format); got != tc.want {
			t.Errorf("%s: CanDecode(%q) = %v, want %v", tc.name, tc.format, got, tc.want)
		}
	}
}

func TestColorSpaceDetection(t *testing.T) {
	rect := image.Rect(0, 0, 4, 4)
	cases := []struct {
		name string
		img  image.Image
		want core.ColorSpace
	}{
		{"gray", image.NewGray(rect), core.ColorSpaceGray},
		{"gray16", image.NewGray16(rect), core.ColorSpaceGray},
		{"cmyk", image.NewCMYK(rect), core.ColorSpaceCMYK},
		{"rgba", image.NewRGBA(rect), core.ColorSpaceRGBA},
		{"nrgba64", image.NewNRGBA64(rect), core.ColorSpaceRGBA},
		{"ycbcr", image.NewYCbCr(rect, image.YCbCrSubsampleRatio420), core.ColorSpaceRGB},
	}

	for _, tc := range cases {
		if got := colorSpace(tc.img); got != tc.want {
			t.Errorf("colorSpace(%s) = %q, want %q", tc.name, got, tc.want)
		}
	}

	if hasAlpha(image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)) {
		t.Error("ycbcr reported alpha")
	}
	if !hasAlpha(image.NewNRGBA(rect)) {
		t.Error("nrgba alpha not reported")
	}
}
