// Package vips provides a libvips-powered codec backend.  It trades the
// stdlib's portability for speed and a WebP encoder.
package vips

import (
	"context"
	"fmt"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// BackendConfig configures the libvips backend.
type BackendConfig struct {
	DefaultQuality int
	MaxCacheSize   int
	MaxWorkers     int
	ReportLeaks    bool

	// PaletteBelow mirrors the stdlib PNG encoder: qualities at or below
	// it export palettised PNG.  Default 50.
	PaletteBelow int
}

// Backend is a libvips-powered Decoder whose per-format views serve as
// Encoders.  Safe for concurrent use across goroutines.
type Backend struct {
	cfg BackendConfig
}

// NewBackend initialises libvips and returns a ready Backend.
// Call Shutdown() when the process exits.
func NewBackend(cfg BackendConfig) *Backend {
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = 85
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.PaletteBelow <= 0 {
		cfg.PaletteBelow = 50
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
		CollectStats:     true,
	})
	return &Backend{cfg: cfg}
}

// Shutdown releases all libvips resources. Call once at process exit.
func (b *Backend) Shutdown() {
	govips.Shutdown()
}

// ─── Decoder ──────────────────────────────────────────────────────────────────

func (b *Backend) CanDecode(f core.Format) bool {
	switch f {
	case core.FormatJPEG, core.FormatPNG, core.FormatWebP, core.FormatUnknown:
		return true
	}
	return false
}

func (b *Backend) Decode(ctx context.Context, r io.Reader) (*core.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}

	buf, err := utils.DrainReader(ctx, r, 32*1024)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.drain", err)
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	runtime.SetFinalizer(ref, func(r *govips.ImageRef) { r.Close() })

	return &core.Pixmap{
		Image: &VipsImage{ref: ref},
		Raw:   raw,
		Meta: core.Metadata{
			Width:      ref.Width(),
			Height:     ref.Height(),
			Format:     vipsFormatToCore(ref.Format()),
			ColorSpace: vipsInterpretationToColorSpace(ref.Interpretation()),
			HasAlpha:   ref.HasAlpha(),
			SizeBytes:  int64(len(raw)),
		},
	}, nil
}

// ─── Encoder ──────────────────────────────────────────────────────────────────

// Encoder returns the backend's encoding view for one raster format.
func (b *Backend) Encoder(format core.Format) core.Encoder {
	return formatEncoder{backend: b, format: format}
}

// formatEncoder binds the shared backend to a single output format, since
// the Encoder contract carries the format at registration time.
type formatEncoder struct {
	backend *Backend
	format  core.Format
}

func (e formatEncoder) CanEncode(f core.Format) bool { return f == e.format }

// Encode resizes per the candidate parameters and exports in the bound
// format.  The shared decode ref is never mutated: every candidate works on
// a cheap lazy copy.
func (e formatEncoder) Encode(ctx context.Context, px *core.Pixmap, params core.EncodeParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode", err)
	}

	work, err := workingRef(px)
	if err != nil {
		return nil, err
	}
	defer work.Close()

	if err := resizeRef(work, params); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.resize", err)
	}

	quality := params.Quality
	if quality <= 0 {
		quality = e.backend.cfg.DefaultQuality
	}
	return e.backend.export(work, e.format, quality)
}

// workingRef yields a private ImageRef for one encode, from the decoded vips
// handle when present, otherwise from the retained raw bytes.
func workingRef(px *core.Pixmap) (*govips.ImageRef, error) {
	if vi, ok := px.Image.(*VipsImage); ok && vi != nil {
		cp, err := vi.ref.Copy()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.copy", err)
		}
		return cp, nil
	}
	if len(px.Raw) > 0 {
		ref, err := govips.NewImageFromBuffer(px.Raw)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.load", err)
		}
		return ref, nil
	}
	return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode",
		fmt.Errorf("pixmap has neither a vips handle nor raw bytes; decode with the vips backend"))
}

// resizeRef applies pinned dimensions and the scale percent with Lanczos3.
func resizeRef(ref *govips.ImageRef, params core.EncodeParams) error {
	w, h := ref.Width(), ref.Height()
	if params.Dims != nil {
		w, h = utils.ScaleDimensions(w, h, params.Dims.Width, params.Dims.Height)
	}
	w = utils.ApplyScale(w, params.Scale)
	h = utils.ApplyScale(h, params.Scale)
	if w == ref.Width() && h == ref.Height() {
		return nil
	}
	hscale := float64(w) / float64(ref.Width())
	vscale := float64(h) / float64(ref.Height())
	return ref.ResizeWithVScale(hscale, vscale, govips.KernelLanczos3)
}

func (b *Backend) export(ref *govips.ImageRef, format core.Format, quality int) ([]byte, error) {
	switch format {
	case core.FormatJPEG:
		ep := govips.NewJpegExportParams()
		ep.Quality = quality
		ep.StripMetadata = true
		buf, _, err := ref.ExportJpeg(ep)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.jpeg", err)
		}
		return buf, nil

	case core.FormatPNG:
		ep := govips.NewPngExportParams()
		ep.Compression = 9
		ep.StripMetadata = true
		if quality <= b.cfg.PaletteBelow {
			ep.Palette = true
			ep.Quality = quality
		}
		buf, _, err := ref.ExportPng(ep)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.png", err)
		}
		return buf, nil

	case core.FormatWebP:
		ep := govips.NewWebpExportParams()
		ep.Quality = quality
		ep.StripMetadata = true
		buf, _, err := ref.ExportWebp(ep)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryEncode, "vips.encode.webp", err)
		}
		return buf, nil

	default:
		return nil, apperrors.New(apperrors.CategoryEncode, "vips.encode",
			fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, format))
	}
}

// ─── VipsImage ────────────────────────────────────────────────────────────────

// VipsImage wraps a *govips.ImageRef for storage in core.Pixmap.Image.
type VipsImage struct {
	ref *govips.ImageRef
}

func (v *VipsImage) Width() int            { return v.ref.Width() }
func (v *VipsImage) Height() int           { return v.ref.Height() }
func (v *VipsImage) Ref() *govips.ImageRef { return v.ref }
func (v *VipsImage) Close()                { v.ref.Close() }

// ─── RegisterBackend ──────────────────────────────────────────────────────────

// RegisterBackend replaces the Go stdlib codecs with libvips for all raster
// formats, including the WebP encoder the stdlib path lacks.
func RegisterBackend(reg core.Registry, b *Backend) {
	for _, f := range []core.Format{core.FormatJPEG, core.FormatPNG, core.FormatWebP} {
		reg.RegisterDecoder(f, b)
		reg.RegisterEncoder(f, b.Encoder(f))
	}
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func vipsFormatToCore(f govips.ImageType) core.Format {
	switch f {
	case govips.ImageTypeJPEG:
		return core.FormatJPEG
	case govips.ImageTypePNG:
		return core.FormatPNG
	case govips.ImageTypeWEBP:
		return core.FormatWebP
	default:
		return core.FormatUnknown
	}
}

func vipsInterpretationToColorSpace(i govips.Interpretation) core.ColorSpace {
	switch i {
	case govips.InterpretationSRGB, govips.InterpretationRGB16:
		return core.ColorSpaceRGB
	case govips.InterpretationBW:
		return core.ColorSpaceGray
	case govips.InterpretationCMYK:
		return core.ColorSpaceCMYK
	default:
		return core.ColorSpaceRGB
	}
}

// compile-time interface checks
var _ core.Decoder = (*Backend)(nil)
var _ core.Encoder = formatEncoder{}
