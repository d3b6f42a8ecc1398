// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package chunk

import (
	"errors"
	"fmt"

	"github.com/gogpu/matc/writer"
)

// ErrSizeMismatch reports a real pass that wrote a different number of
// bytes than the dry run measured.
var ErrSizeMismatch = errors.New("chunk: flattened size differs from computed size")

// List is an ordered sequence of chunks.
type List struct {
	chunks []Chunk
}

// Add appends c.
func (l *List) Add(c Chunk) {
	l.chunks = append(l.chunks, c)
}

// Len returns the number of chunks.
func (l *List) Len() int {
	return len(l.chunks)
}

// Chunks returns the chunks in insertion order.
func (l *List) Chunks() []Chunk {
	return l.chunks
}

// Flatten writes every chunk as tag, size and payload.
func (l *List) Flatten(w *writer.Writer) error {
	for _, c := range l.chunks {
		w.WriteUint64(uint64(c.Tag()))
		w.OpenSize()
		if err := c.write(w); err != nil {
			return fmt.Errorf("chunk %s: %w", c.Tag(), err)
		}
		if err := w.CloseSize(); err != nil {
			return fmt.Errorf("chunk %s: %w", c.Tag(), err)
		}
	}
	return w.Err()
}

// ComputeSize flattens into a dry-run writer and returns the byte count.
func (l *List) ComputeSize() (int, error) {
	w := writer.NewDryRun()
	if err := l.Flatten(w); err != nil {
		return 0, err
	}
	if err := w.Finish(); err != nil {
		return 0, err
	}
	return w.Pos(), nil
}

// Bytes serializes the list into a buffer of exactly ComputeSize bytes.
func (l *List) Bytes() ([]byte, error) {
	size, err := l.ComputeSize()
	if err != nil {
		return nil, err
	}
	w := writer.NewBuffered(size)
	if err := l.Flatten(w); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	if w.Pos() != size {
		return nil, fmt.Errorf("%w: %d != %d", ErrSizeMismatch, w.Pos(), size)
	}
	return w.Bytes(), nil
}
