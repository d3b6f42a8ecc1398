// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dict

import (
	"fmt"

	"github.com/gogpu/matc/writer"
)

// TextEntry is one unique segment of the text dictionary.
type TextEntry struct {
	Text string
	Refs int
}

// TextStats summarizes a text dictionary.
type TextStats struct {
	Segments   int
	References int
	Bytes      int
}

// Text deduplicates line segments of shader source.
// Ids are assigned in insertion order and never change.
type Text struct {
	entries []TextEntry
	index   map[string]uint32
}

// NewText creates an empty text dictionary.
func NewText() *Text {
	return &Text{
		entries: make([]TextEntry, 0, 256),
		index:   make(map[string]uint32, 256),
	}
}

// AddLine registers every segment of line, incrementing reference counts.
func (d *Text) AddLine(line string) {
	for _, seg := range Split(line) {
		id, ok := d.index[seg]
		if !ok {
			id = uint32(len(d.entries))
			d.entries = append(d.entries, TextEntry{Text: seg})
			d.index[seg] = id
		}
		d.entries[id].Refs++
	}
}

// AddText registers every physical line of text.
func (d *Text) AddText(text string) {
	for _, line := range Lines(text) {
		d.AddLine(line)
	}
}

// Indices returns the ids of the segments of query, or nil if any segment
// was never added. Callers must only query text they added in full.
func (d *Text) Indices(query string) []uint32 {
	segs := Split(query)
	ids := make([]uint32, 0, len(segs))
	for _, seg := range segs {
		id, ok := d.index[seg]
		if !ok {
			return nil
		}
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of unique segments.
func (d *Text) Len() int {
	return len(d.entries)
}

// Entry returns the segment with the given id.
func (d *Text) Entry(id uint32) (TextEntry, bool) {
	if int(id) >= len(d.entries) {
		return TextEntry{}, false
	}
	return d.entries[id], true
}

// Entries returns all segments in id order.
func (d *Text) Entries() []TextEntry {
	return d.entries
}

// Stats returns segment, reference and byte totals.
func (d *Text) Stats() TextStats {
	s := TextStats{Segments: len(d.entries)}
	for _, e := range d.entries {
		s.References += e.Refs
		s.Bytes += len(e.Text)
	}
	return s
}

// Write emits the entry count followed by null-terminated segments.
func (d *Text) Write(w *writer.Writer) error {
	if len(d.entries) > MaxTextEntries {
		return fmt.Errorf("%w: %d segments", ErrTooManyEntries, len(d.entries))
	}
	if err := w.WriteSize(len(d.entries)); err != nil {
		return err
	}
	for _, e := range d.entries {
		w.WriteString(e.Text)
	}
	return nil
}
