// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// CompressionTag identifies the compression algorithm used for a leaf
// payload. Tags are stored in the container entry tree (1 byte each).
// These values are format constants; changing them breaks container
// compatibility.
type CompressionTag uint8

const (
	// CompressionNone indicates an uncompressed payload. Also the
	// fallback when compression would not shrink the data.
	CompressionNone CompressionTag = 0

	// CompressionGzip indicates gzip at a caller-chosen level (1-9).
	// The default write path; the level is not needed for decoding
	// and is not recorded.
	CompressionGzip CompressionTag = 1

	// CompressionLZ4 indicates LZ4 block compression. Faster than
	// gzip at lower ratios; selected by callers writing large numeric
	// payloads where decode speed matters more than size.
	CompressionLZ4 CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// compress encodes raw with the requested algorithm and returns the
// stored bytes together with the tag actually used. A gzip level of 0
// and payloads that would grow under compression both degrade to
// CompressionNone.
func compress(raw []byte, tag CompressionTag, level int) ([]byte, CompressionTag, error) {
	if len(raw) == 0 || tag == CompressionNone {
		return raw, CompressionNone, nil
	}
	switch tag {
	case CompressionGzip:
		if level <= 0 {
			return raw, CompressionNone, nil
		}
		if level > gzip.BestCompression {
			level = gzip.BestCompression
		}
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, level)
		if err != nil {
			return nil, 0, fmt.Errorf("gzip level %d: %w", level, err)
		}
		if _, err := w.Write(raw); err != nil {
			return nil, 0, fmt.Errorf("gzip compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, 0, fmt.Errorf("gzip compress: %w", err)
		}
		if buf.Len() >= len(raw) {
			return raw, CompressionNone, nil
		}
		return buf.Bytes(), CompressionGzip, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(raw))
		dst := make([]byte, bound)
		written, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input.
		if written == 0 || written >= len(raw) {
			return raw, CompressionNone, nil
		}
		return dst[:written], CompressionLZ4, nil

	default:
		return nil, 0, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

// decompress reverses compress. rawSize must match the original
// payload length exactly; a mismatch returns an error.
func decompress(stored []byte, tag CompressionTag, rawSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(stored) != rawSize {
			return nil, fmt.Errorf("uncompressed payload: size %d does not match expected %d",
				len(stored), rawSize)
		}
		return stored, nil

	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(stored))
		if err != nil {
			return nil, fmt.Errorf("gzip decompress: %w", err)
		}
		defer r.Close()
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip decompress: %w", err)
		}
		if len(raw) != rawSize {
			return nil, fmt.Errorf("gzip decompress: got %d bytes, expected %d", len(raw), rawSize)
		}
		return raw, nil

	case CompressionLZ4:
		raw := make([]byte, rawSize)
		read, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != rawSize {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawSize)
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}
