package core

import "testing"

func TestFormatFromMIME(t *testing.T) {
	cases := []struct {
		mime string
		want Format
	}{
		{"image/jpeg", FormatJPEG},
		{"image/jpg", FormatJPEG},
		{"image/png", FormatPNG},
		{"image/webp", FormatWebP},
		{"application/pdf", FormatPDF},
		{"image/tiff", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tc := range cases {
		if got := FormatFromMIME(tc.mime); got != tc.want {
			t.Errorf("FormatFromMIME(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestFormat_MIME(t *testing.T) {
	cases := []struct {
		format Format
		want   string
	}{
		{FormatJPEG, "image/jpeg"},
		{FormatPNG, "image/png"},
		{FormatWebP, "image/webp"},
		{FormatPDF, "application/pdf"},
		{FormatUnknown, "application/octet-stream"},
	}

	for _, tc := range cases {
		if got := tc.format.MIME(); got != tc.want {
			t.Errorf("%q.MIME() = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestFormat_Classification(t *testing.T) {
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatWebP} {
		if !f.IsRaster() {
			t.Errorf("%q should be raster", f)
		}
		if f.IsContainer() {
			t.Errorf("%q should not be a container", f)
		}
	}

	if FormatPDF.IsRaster() {
		t.Error("pdf should not be raster")
	}
	if !FormatPDF.IsContainer() {
		t.Error("pdf should be a container")
	}
	if FormatUnknown.IsRaster() || FormatUnknown.IsContainer() {
		t.Error("unknown format should be neither raster nor container")
	}
}

func TestKnownDocumentType(t *testing.T) {
	for _, dt := range []DocumentType{DocSignature, DocPhoto, DocGeneric, DocIDProof} {
		if !KnownDocumentType(dt) {
			t.Errorf("%q should be known", dt)
		}
	}
	if KnownDocumentType("selfie") {
		t.Error("unrecognised document type accepted")
	}
	if KnownDocumentType("") {
		t.Error("empty document type accepted")
	}
}
