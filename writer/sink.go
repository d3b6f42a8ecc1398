// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package writer

// Sink receives the bytes produced by a Writer.
type Sink interface {
	// Append adds p at the end of the output.
	Append(p []byte)

	// Patch overwrites already appended bytes starting at offset at.
	Patch(at int, p []byte)
}

// Counter is a Sink that discards everything. The writer still tracks
// its cursor, which is all a dry run needs.
type Counter struct{}

// Append implements Sink.
func (Counter) Append([]byte) {}

// Patch implements Sink.
func (Counter) Patch(int, []byte) {}

// Buffer is a Sink backed by a growing byte slice.
type Buffer struct {
	data []byte
}

// NewBuffer creates a buffer with room for capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Append implements Sink.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Patch implements Sink.
func (b *Buffer) Patch(at int, p []byte) {
	copy(b.data[at:at+len(p)], p)
}

// Bytes returns the buffered output.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}
