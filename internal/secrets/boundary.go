package secrets

import (
	"fmt"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// boundary locates the header and the trailing tag of an envelope that
// arrives in chunks of any size. It never holds more than
// max(headerSize, tagSize) bytes plus one chunk.
type boundary struct {
	headerSize int
	tagSize    int

	header []byte
	tail   []byte
}

func newBoundary(alg Algorithm) *boundary {
	return &boundary{headerSize: alg.HeaderSize(), tagSize: alg.TagSize()}
}

// push consumes chunk. header is non-nil exactly once, on the call that
// completes it. body is the ciphertext that can no longer be part of the tag.
// Neither aliases chunk.
func (b *boundary) push(chunk []byte) (header, body []byte) {
	data := chunk
	if b.header == nil {
		combined := concat(b.tail, chunk)
		if len(combined) < b.headerSize {
			b.tail = combined
			return nil, nil
		}
		b.header = combined[:b.headerSize:b.headerSize]
		header = b.header
		data = combined[b.headerSize:]
		b.tail = nil
	}

	combined := concat(b.tail, data)
	if len(combined) <= b.tagSize {
		b.tail = combined
		return header, nil
	}

	n := len(combined) - b.tagSize
	b.tail = concat(nil, combined[n:])
	return header, combined[:n]
}

// finish returns the tag once the input has ended.
func (b *boundary) finish() ([]byte, error) {
	if b.header == nil {
		return nil, fmt.Errorf("stream ended after %d of %d header bytes: %w", len(b.tail), b.headerSize, kerrors.ErrFormat)
	}
	if len(b.tail) != b.tagSize {
		return nil, fmt.Errorf("missing or incomplete tag (%d of %d bytes): %w", len(b.tail), b.tagSize, kerrors.ErrFormat)
	}
	return b.tail, nil
}

func concat(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}
