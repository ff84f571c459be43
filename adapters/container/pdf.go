// Package container wraps encoded raster layers into document containers.
package container

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/jpeg"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/AbhinavPrakashCoading/Dockit-sub000/core"
	apperrors "github.com/AbhinavPrakashCoading/Dockit-sub000/errors"
	"github.com/AbhinavPrakashCoading/Dockit-sub000/utils"
)

// wrapOverhead approximates the fixed cost of the PDF scaffolding around the
// embedded raster: object dictionaries, content stream, xref and trailer.
const wrapOverhead = 900

// PDF wraps a single JPEG raster into a one-page PDF whose page is sized to
// the image, one point per pixel.  The image is embedded as a DCTDecode
// XObject, so the JPEG bytes pass through unchanged.
type PDF struct {
	Producer string
}

func NewPDF() *PDF { return &PDF{Producer: "dockit"} }

func (p *PDF) CanWrap(format core.Format) bool { return format == core.FormatJPEG }

func (p *PDF) OverheadBytes() int { return wrapOverhead }

func (p *PDF) Wrap(ctx context.Context, raster []byte, rasterFormat core.Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryContainer, "pdf.wrap", err)
	}
	if rasterFormat != core.FormatJPEG {
		return nil, apperrors.New(apperrors.CategoryContainer, "pdf.wrap",
			fmt.Errorf("%w: cannot embed %s raster", apperrors.ErrUnsupportedConversion, rasterFormat))
	}

	cfg, err := jpeg.DecodeConfig(utils.BytesReader(raster))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryContainer, "pdf.wrap",
			fmt.Errorf("invalid jpeg raster: %w", err))
	}
	colorSpace := "/DeviceRGB"
	if cfg.ColorModel == color.GrayModel {
		colorSpace = "/DeviceGray"
	}

	content := fmt.Sprintf("q %d 0 0 %d 0 0 cm /Im0 Do Q\n", cfg.Width, cfg.Height)
	flated, err := deflate([]byte(content))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryContainer, "pdf.wrap", err)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	// Binary marker comment so transports treat the file as binary.
	b.Write([]byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'})

	var offsets []int
	object := func(body string) {
		offsets = append(offsets, b.Len())
		b.WriteString(body)
	}

	object("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	object("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	object(fmt.Sprintf("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] "+
		"/Resources << /XObject << /Im0 4 0 R >> /ProcSet [/PDF /ImageC] >> /Contents 5 0 R >>\nendobj\n",
		cfg.Width, cfg.Height))

	offsets = append(offsets, b.Len())
	fmt.Fprintf(&b, "4 0 obj\n<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
		"/ColorSpace %s /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>\nstream\n",
		cfg.Width, cfg.Height, colorSpace, len(raster))
	b.Write(raster)
	b.WriteString("\nendstream\nendobj\n")

	offsets = append(offsets, b.Len())
	fmt.Fprintf(&b, "5 0 obj\n<< /Length %d /Filter /FlateDecode >>\nstream\n", len(flated))
	b.Write(flated)
	b.WriteString("\nendstream\nendobj\n")

	object(fmt.Sprintf("6 0 obj\n<< /Producer (%s) >>\nendobj\n", escapeString(p.Producer)))

	xrefAt := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 6 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefAt)

	return b.Bytes(), nil
}

// deflate compresses data for a FlateDecode stream.
func deflate(data []byte) ([]byte, error) {
	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// escapeString escapes the characters PDF literal strings reserve.
func escapeString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}
