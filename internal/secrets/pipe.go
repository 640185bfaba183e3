package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Pipe drives s with chunks read from src and writes every output to dst.
// It returns the number of bytes written. ctx is checked between chunks.
func Pipe(ctx context.Context, s Stream, dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var written int64
	emit := func(p []byte) error {
		if len(p) == 0 {
			return nil
		}
		n, err := dst.Write(p)
		written += int64(n)
		return err
	}

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			out, err := s.Update(buf[:n])
			if err != nil {
				return written, err
			}
			if err := emit(out); err != nil {
				return written, fmt.Errorf("writing output: %w", err)
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return written, fmt.Errorf("reading input: %w", rerr)
		}
	}

	out, err := s.Final()
	if err != nil {
		return written, err
	}
	if err := emit(out); err != nil {
		return written, fmt.Errorf("writing output: %w", err)
	}
	return written, nil
}
