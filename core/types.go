package core

import (
	"context"
	"errors"
	"time"
)

// Format identifies an image or container codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = "unknown"
)

// FormatFromMIME maps a MIME content type onto a Format.
func FormatFromMIME(contentType string) Format {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return FormatJPEG
	case "image/png":
		return FormatPNG
	case "image/webp":
		return FormatWebP
	case "application/pdf":
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// MIME returns the canonical content type for the format.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWebP:
		return "image/webp"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// IsRaster reports whether the format is a plain raster codec that an
// Encoder can emit directly.
func (f Format) IsRaster() bool {
	switch f {
	case FormatJPEG, FormatPNG, FormatWebP:
		return true
	default:
		return false
	}
}

// IsContainer reports whether the format wraps a raster layer rather than
// encoding pixels itself.
func (f Format) IsContainer() bool {
	return f == FormatPDF
}

// ColorSpace represents the image colour model.
type ColorSpace string

const (
	ColorSpaceRGB  ColorSpace = "rgb"
	ColorSpaceRGBA ColorSpace = "rgba"
	ColorSpaceCMYK ColorSpace = "cmyk"
	ColorSpaceGray ColorSpace = "gray"
)

// DocumentType classifies the uploaded document so that compression can
// respect per-type legibility floors.
type DocumentType string

const (
	DocSignature DocumentType = "signature"
	DocPhoto     DocumentType = "photo"
	DocGeneric   DocumentType = "generic-document"
	DocIDProof   DocumentType = "id-proof"
)

// KnownDocumentType reports whether t is one of the recognised classes.
func KnownDocumentType(t DocumentType) bool {
	switch t {
	case DocSignature, DocPhoto, DocGeneric, DocIDProof:
		return true
	default:
		return false
	}
}

// Tier names an aggressiveness band of the compression search.
type Tier string

const (
	TierGentle     Tier = "gentle"
	TierStandard   Tier = "standard"
	TierAggressive Tier = "aggressive"
	TierExtreme    Tier = "extreme"
	TierUltra      Tier = "ultra"
)

// Dimensions describes output pixel extents.  A zero axis means "derive
// from the other axis preserving aspect ratio".
type Dimensions struct {
	Width  int
	Height int
}

// Metadata holds extracted image information gathered during decode.
type Metadata struct {
	Width      int
	Height     int
	Format     Format
	ColorSpace ColorSpace
	HasAlpha   bool
	SizeBytes  int64
}

// Pixmap is the in-memory representation passed through the pipeline.
type Pixmap struct {
	// Decoded pixel buffer.  Using an untyped field keeps the stdlib path
	// CGO-free; libvips adapters wrap their own handle types and satisfy
	// the Encoder interface directly.
	Image interface{} // actual type: image.Image or vips handle depending on backend

	// Raw retains the encoded source bytes for buffer-based backends that
	// prefer shrink-on-load over re-encoding a decoded buffer.
	Raw []byte

	// Metadata extracted during decode.
	Meta Metadata
}

// TransformRequest describes one document conversion job.
type TransformRequest struct {
	// Source document bytes and their MIME type.  SourceMIME may be empty,
	// in which case the pipeline sniffs the format from magic bytes.
	Source     []byte
	SourceMIME string

	// TargetMIME names the desired output format.
	TargetMIME string

	// MaxSizeKB is the hard output ceiling.  Required, > 0.
	MaxSizeKB int

	// MinSizeKB is an optional lower bound used for over-compression
	// warnings.  Zero means unset.
	MinSizeKB int

	// TargetDimensions requests output pixel extents.  Nil means keep the
	// source dimensions.
	TargetDimensions *Dimensions

	// DocumentType selects the quality floor applied during compression.
	// Empty defaults to DocGeneric.
	DocumentType DocumentType

	// ExamContext is an opaque caller label carried into the report.
	ExamContext string
}

// Candidate is one (quality, scale) parameter pair evaluated by the
// compression search.
type Candidate struct {
	Quality int // encoder quality percent, 1-100
	Scale   int // linear dimension percent, 1-100
}

// Outcome captures one encoded candidate together with its provenance.
type Outcome struct {
	Data      []byte
	SizeKB    int
	Candidate Candidate
	Format    Format
	Tier      Tier

	// FloorOverridden is set when a terminal tier accepted a quality below
	// the document type's floor.
	FloorOverridden bool
}

// TransformResult is the successful output of a transform.
type TransformResult struct {
	Data   []byte
	Format Format
	MIME   string
	SizeKB int
}

// TransformReport is the immutable audit trail attached to every transform
// outcome, success or failure.
type TransformReport struct {
	ID          string
	ExamContext string
	Document    DocumentType

	Steps    []string
	Warnings []string

	OriginalSizeKB   int
	FinalSizeKB      int
	TargetSizeKB     int
	MaxSizeKB        int
	CompressionRatio float64

	SourceFormat  Format
	TargetFormat  Format
	FormatChanged bool

	QualityPercent int
	ScalePercent   int
	Tier           Tier

	Overcompressed  bool
	PreviewRequired bool
	PreviewOptional bool

	Duration time.Duration
}

// Job encapsulates a single unit of work for the worker pool.
type Job struct {
	ID      string
	Ctx     context.Context //nolint:containedctx // intentional for async jobs
	Request *TransformRequest
	// Result channel; nil for fire-and-forget.
	ResultCh chan<- JobResult
}

// JobResult wraps the outcome of an async job.
type JobResult struct {
	JobID  string
	Result *TransformResult
	Report *TransformReport
	Err    error
}

// Hook is an optional observer invoked around pipeline stages.
type Hook interface {
	BeforeStage(ctx context.Context, stage string, req *TransformRequest)
	AfterStage(ctx context.Context, stage string, req *TransformRequest, d time.Duration, err error)
}

// Runner executes the full transform pipeline for one request.  It is
// implemented by the pipeline package; the indirection keeps this package
// free of an import cycle.
type Runner interface {
	Run(ctx context.Context, req *TransformRequest) (*TransformResult, *TransformReport, error)
}

// Worker pool sentinels.  Richer, categorised errors live in the errors
// package; these two belong to the pool mechanics themselves.
var (
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	ErrNilRequest     = errors.New("nil transform request")
)
