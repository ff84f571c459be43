package vips_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	dockit "github.com/AbhinavPrakashCoading/Dockit-sub000"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/adapters/vips"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/config"
)

func makeJPEG(b *testing.B, w, h int) []byte {
	b.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92})
	return buf.Bytes()
}

func BenchmarkTransform_Stdlib_1920x1080(b *testing.B) {
	raw := makeJPEG(b, 1920, 1080)
	t := dockit.New(config.Default())
	req := dockit.NewRequest(raw, "image/jpeg", 120)
	req.DocumentType = dockit.DocPhoto

	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := t.Transform(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransform_Vips_1920x1080(b *testing.B) {
	raw := makeJPEG(b, 1920, 1080)
	t := dockit.New(config.Default())
	backend := vips.NewBackend(vips.BackendConfig{DefaultQuality: 85})
	defer backend.Shutdown()
	vips.RegisterBackend(t.Registry(), backend)
	req := dockit.NewRequest(raw, "image/jpeg", 120)
	req.DocumentType = dockit.DocPhoto

	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := t.Transform(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTransform_Vips_WebPTarget(b *testing.B) {
	raw := makeJPEG(b, 1920, 1080)
	t := dockit.New(config.Default())
	backend := vips.NewBackend(vips.BackendConfig{DefaultQuality: 85})
	defer backend.Shutdown()
	vips.RegisterBackend(t.Registry(), backend)
	req := dockit.NewRequest(raw, "image/webp", 100)

	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := t.Transform(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}
