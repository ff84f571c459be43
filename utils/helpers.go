package utils

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeWebP = "image/webp"
	mimePDF  = "application/pdf"
)

// DetectMIME sniffs data and returns its canonical content type.
func DetectMIME(data []byte) string {
	if len(data) < 4 {
		return "application/octet-stream"
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return mimeJPEG
	}
	// PNG: 89 50 4E 47
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return mimePNG
	}
	// WebP: RIFF....WEBP
	if len(data) >= 12 &&
		data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return mimeWebP
	}
	// PDF: %PDF-
	if len(data) >= 5 && bytes.HasPrefix(data, []byte("%PDF-")) {
		return mimePDF
	}
	// Fallback to net/http sniffing.
	return http.DetectContentType(data)
}

// SizeKB converts a byte count to whole kilobytes, rounding up so that any
// non-empty payload reports at least 1 KB.
func SizeKB(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1023) / 1024
}

// ScaleDimensions computes output (w, h) preserving aspect ratio.
// Pass 0 for either axis to calculate it from the other.
func ScaleDimensions(srcW, srcH, targetW, targetH int) (int, int) {
	if targetW == 0 && targetH == 0 {
		return srcW, srcH
	}
	if targetW == 0 {
		ratio := float64(targetH) / float64(srcH)
		return int(float64(srcW) * ratio), targetH
	}
	if targetH == 0 {
		ratio := float64(targetW) / float64(srcW)
		return targetW, int(float64(srcH) * ratio)
	}
	return targetW, targetH
}

// ApplyScale shrinks a dimension to pct percent, never below one pixel.
func ApplyScale(dim, pct int) int {
	if pct <= 0 || pct >= 100 {
		if dim < 1 {
			return 1
		}
		return dim
	}
	out := (dim*pct + 50) / 100
	if out < 1 {
		out = 1
	}
	return out
}

// ParseDimensions parses a "WxH" string such as "200x230".  A missing axis
// ("200x" / "x230") parses as zero, meaning aspect-preserving.
func ParseDimensions(s string) (w, h int, err error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dimensions %q: want WxH", s)
	}
	parse := func(p string) (int, error) {
		if p == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("dimensions %q: bad axis %q", s, p)
		}
		return v, nil
	}
	if w, err = parse(parts[0]); err != nil {
		return 0, 0, err
	}
	if h, err = parse(parts[1]); err != nil {
		return 0, 0, err
	}
	if w == 0 && h == 0 {
		return 0, 0, fmt.Errorf("dimensions %q: both axes empty", s)
	}
	return w, h, nil
}

// CloneBytes returns a copy of b (safe for use after the source buffer is released).
func CloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// BytesReader creates an io.Reader backed by b without allocation.
func BytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
