package core

import (
	"context"
	"io"
	"time"
)

// Decoder converts raw bytes / a reader into an in-memory Pixmap.
// Implementations live in adapters/decoder/.
type Decoder interface {
	// Decode reads from r and returns a decoded Pixmap.
	Decode(ctx context.Context, r io.Reader) (*Pixmap, error)
	// CanDecode reports whether this decoder handles the given format hint.
	CanDecode(format Format) bool
}

// Encoder serialises a Pixmap to bytes in a raster format.
// Implementations live in adapters/encoder/.
type Encoder interface {
	Encode(ctx context.Context, px *Pixmap, params EncodeParams) ([]byte, error)
	CanEncode(format Format) bool
}

// EncodeParams carries the per-candidate encoding parameters.
type EncodeParams struct {
	// Quality is the encoder quality percent, 1-100; 0 = encoder default.
	Quality int

	// Scale shrinks the output linear dimensions to this percent of the
	// base dimensions; 0 or 100 = no scaling.
	Scale int

	// Dims overrides the base dimensions before Scale is applied.  Nil
	// keeps the source dimensions; a zero axis preserves aspect ratio.
	Dims *Dimensions
}

// ContainerWrapper embeds an encoded raster layer into a document container
// such as a single-page PDF.  Implementations live in adapters/container/.
type ContainerWrapper interface {
	Wrap(ctx context.Context, raster []byte, rasterFormat Format) ([]byte, error)
	// CanWrap reports whether the wrapper accepts the given raster format.
	CanWrap(rasterFormat Format) bool
	// OverheadBytes estimates the container's fixed size overhead so the
	// search can budget for it ahead of wrapping.
	OverheadBytes() int
}

// MetricsCollector receives performance observations from the pipeline.
type MetricsCollector interface {
	RecordStageTime(stage string, d time.Duration)
	RecordThroughput(bytes int64)
	RecordEscalation(tier Tier)
	RecordOutcome(status string)
	RecordError(stage string, category string)
}

// Logger is a minimal structured logging interface.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Registry maps Format values to codec implementations.
type Registry interface {
	DecoderFor(format Format) (Decoder, bool)
	EncoderFor(format Format) (Encoder, bool)
	WrapperFor(format Format) (ContainerWrapper, bool)
	RegisterDecoder(format Format, d Decoder)
	RegisterEncoder(format Format, e Encoder)
	RegisterWrapper(format Format, w ContainerWrapper)
}
