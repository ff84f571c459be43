package utils

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestBufferPool_AcquireReturnsReset(t *testing.T) {
	buf := AcquireBuffer()
	buf.WriteString("scratch data from a previous request")
	ReleaseBuffer(buf)

	got := AcquireBuffer()
	defer ReleaseBuffer(got)
	if got.Len() != 0 {
		t.Errorf("acquired buffer holds %d stale bytes", got.Len())
	}
}

func TestDrainReader(t *testing.T) {
	payload := strings.Repeat("dockit", 4096)

	// A chunk size that does not divide the payload exercises the
	// partial-read tail.
	buf, err := DrainReader(context.Background(), strings.NewReader(payload), 7)
	if err != nil {
		t.Fatalf("DrainReader: %v", err)
	}
	defer ReleaseBuffer(buf)

	if !bytes.Equal(buf.Bytes(), []byte(payload)) {
		t.Errorf("drained %d bytes, want %d", buf.Len(), len(payload))
	}
}

func TestDrainReader_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf, err := DrainReader(ctx, strings.NewReader("never read"), 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if buf != nil {
		t.Error("expected nil buffer on cancellation")
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDrainReader_PropagatesReadError(t *testing.T) {
	readErr := errors.New("device unplugged")

	buf, err := DrainReader(context.Background(), failingReader{err: readErr}, 0)
	if !errors.Is(err, readErr) {
		t.Fatalf("err = %v, want %v", err, readErr)
	}
	if buf != nil {
		t.Error("expected nil buffer on read failure")
	}
}

func TestLimitedReader(t *testing.T) {
	cases := []struct {
		name    string
		max     int64
		payload int
		wantErr error
	}{
		{"under the cap", 10, 5, nil},
		{"exactly at the cap", 5, 5, nil},
		{"over the cap", 4, 5, io.ErrUnexpectedEOF},
		{"no cap", 0, 64, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := bytes.Repeat([]byte{0xAB}, tc.payload)
			lr := &LimitedReader{R: bytes.NewReader(src), Max: tc.max}

			got, err := io.ReadAll(lr)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, src) {
				t.Errorf("read %d bytes, want %d", len(got), len(src))
			}
		})
	}
}
