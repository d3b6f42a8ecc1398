// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dict

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/matc/writer"
)

// MaxTextEntries is the largest text dictionary addressable by 16-bit ids.
const MaxTextEntries = 1 << 16

var (
	// ErrTooManyEntries reports a text dictionary that 16-bit ids cannot address.
	ErrTooManyEntries = errors.New("dict: too many text dictionary entries")

	// ErrMissingSegment reports compression of text that was not added first.
	ErrMissingSegment = errors.New("dict: segment not in dictionary")

	// ErrTruncated reports a compressed body shorter than its header claims.
	ErrTruncated = errors.New("dict: truncated compressed body")
)

// Compress writes body as dictionary ids:
//
//	uint32 uncompressed length (including the terminating null)
//	uint32 id count
//	uint16 id * count
//
// Every line of body must have been added to d.
func Compress(w *writer.Writer, d *Text, body string) error {
	if d.Len() > MaxTextEntries {
		return fmt.Errorf("%w: %d segments", ErrTooManyEntries, d.Len())
	}
	if err := w.WriteSize(len(body) + 1); err != nil {
		return err
	}
	w.ReserveValue()
	count := 0
	for n, line := range Lines(body) {
		ids := d.Indices(line)
		if ids == nil {
			return fmt.Errorf("%w: line %d %q", ErrMissingSegment, n+1, line)
		}
		for _, id := range ids {
			w.WriteUint16(uint16(id))
		}
		count += len(ids)
	}
	return w.ResolveValue(count)
}

// Decompress decodes a body written by Compress from the start of p using
// the dictionary segments. It returns the body and the number of bytes read.
func Decompress(p []byte, segments []string) (string, int, error) {
	if len(p) < 8 {
		return "", 0, ErrTruncated
	}
	size := binary.LittleEndian.Uint32(p[0:4])
	count := int(binary.LittleEndian.Uint32(p[4:8]))
	end := 8 + 2*count
	if len(p) < end {
		return "", 0, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, end, len(p))
	}
	var sb strings.Builder
	if size > 0 {
		sb.Grow(int(size) - 1)
	}
	for i := 0; i < count; i++ {
		id := binary.LittleEndian.Uint16(p[8+2*i:])
		if int(id) >= len(segments) {
			return "", 0, fmt.Errorf("dict: segment id %d out of range (%d segments)", id, len(segments))
		}
		sb.WriteString(segments[id])
	}
	body := sb.String()
	if size == 0 || len(body) != int(size)-1 {
		return "", 0, fmt.Errorf("dict: decompressed %d bytes, header says %d", len(body), int(size)-1)
	}
	return body, end, nil
}

// Dedup maps every text to the index of its first occurrence, so identical
// bodies are stored once and later records point at the first copy.
func Dedup(texts []string) []int {
	first := make(map[string]int, len(texts))
	out := make([]int, len(texts))
	for i, text := range texts {
		if j, ok := first[text]; ok {
			out[i] = j
			continue
		}
		first[text] = i
		out[i] = i
	}
	return out
}
