// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/matc/dict"
	"github.com/gogpu/matc/variant"
)

// ErrTruncated reports a payload shorter than its declared layout.
var ErrTruncated = errors.New("chunk: truncated data")

// headerSize is the tag plus the size field.
const headerSize = 12

// Raw is an undecoded chunk.
type Raw struct {
	Tag Tag

	// Offset is the position of the payload in the parsed buffer.
	Offset int
	Data   []byte
}

// Package is a parsed sequence of raw chunks.
type Package []Raw

// Parse splits p into chunks. Payloads alias p.
func Parse(p []byte) (Package, error) {
	var out Package
	off := 0
	for off < len(p) {
		if len(p)-off < headerSize {
			return nil, fmt.Errorf("%w: header at %d", ErrTruncated, off)
		}
		tag := Tag(binary.LittleEndian.Uint64(p[off:]))
		size := int(binary.LittleEndian.Uint32(p[off+8:]))
		start := off + headerSize
		if size > len(p)-start {
			return nil, fmt.Errorf("%w: chunk %s at %d declares %d bytes, %d left", ErrTruncated, tag, off, size, len(p)-start)
		}
		out = append(out, Raw{Tag: tag, Offset: start, Data: p[start : start+size]})
		off = start + size
	}
	return out, nil
}

// Find returns the first chunk with tag t.
func (pkg Package) Find(t Tag) (Raw, bool) {
	for _, c := range pkg {
		if c.Tag == t {
			return c, true
		}
	}
	return Raw{}, false
}

// Children parses a container payload.
func (r Raw) Children() (Package, error) {
	return Parse(r.Data)
}

// Uint8 decodes a Uint8 chunk.
func (r Raw) Uint8() (uint8, error) {
	d := decoder{p: r.Data}
	v := d.u8()
	return v, d.done()
}

// Uint32 decodes a Uint32 chunk.
func (r Raw) Uint32() (uint32, error) {
	d := decoder{p: r.Data}
	v := d.u32()
	return v, d.done()
}

// Uint64 decodes a Uint64 chunk.
func (r Raw) Uint64() (uint64, error) {
	d := decoder{p: r.Data}
	v := d.u64()
	return v, d.done()
}

// Bool decodes a Bool chunk.
func (r Raw) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

// Text decodes a String chunk.
func (r Raw) Text() (string, error) {
	d := decoder{p: r.Data}
	v := d.str()
	return v, d.done()
}

// UniformBlock decodes a uniform interface block.
func (r Raw) UniformBlock() (UniformBlock, error) {
	d := decoder{p: r.Data}
	b := UniformBlock{Name: d.str()}
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		f := UniformField{Name: d.str()}
		f.ArraySize = uint32(d.u64())
		f.Type = d.u8()
		f.Precision = d.u8()
		b.Fields = append(b.Fields, f)
	}
	return b, d.done()
}

// SamplerBlock decodes a sampler interface block.
func (r Raw) SamplerBlock() (SamplerBlock, error) {
	d := decoder{p: r.Data}
	b := SamplerBlock{Name: d.str()}
	n := d.count()
	for i := 0; i < n && d.err == nil; i++ {
		s := SamplerField{Name: d.str()}
		s.Binding = d.u8()
		s.Type = d.u8()
		s.Format = d.u8()
		s.Precision = d.u8()
		b.Samplers = append(b.Samplers, s)
	}
	return b, d.done()
}

// TextDictionary decodes the segments of a text dictionary.
func (r Raw) TextDictionary() ([]string, error) {
	d := decoder{p: r.Data}
	n := int(d.u32())
	var segs []string
	for i := 0; i < n && d.err == nil; i++ {
		segs = append(segs, d.str())
	}
	return segs, d.done()
}

// BlobDictionary decodes the blobs of a blob dictionary.
func (r Raw) BlobDictionary() ([][]byte, error) {
	d := decoder{p: r.Data}
	n := int(d.u32())
	var blobs [][]byte
	for i := 0; i < n && d.err == nil; i++ {
		size := d.u64()
		blobs = append(blobs, d.bytes(size))
	}
	return blobs, d.done()
}

// TextShaders decodes text records, decompressing each body with segments.
func (r Raw) TextShaders(segments []string) ([]TextRecord, error) {
	d := decoder{p: r.Data}
	n := d.count()
	recs := make([]TextRecord, 0, n)
	offsets := make([]int, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		recs = append(recs, TextRecord{Record: d.record()})
		offsets = append(offsets, int(d.u32()))
	}
	if d.err != nil {
		return nil, d.err
	}
	bodies := make(map[int]string)
	for i, off := range offsets {
		body, ok := bodies[off]
		if !ok {
			if off > len(r.Data) {
				return nil, fmt.Errorf("%w: record %d offset %d", ErrTruncated, i, off)
			}
			var err error
			body, _, err = dict.Decompress(r.Data[off:], segments)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			bodies[off] = body
		}
		recs[i].Text = body
	}
	return recs, nil
}

// BinaryShaders decodes binary records.
func (r Raw) BinaryShaders() ([]BinaryRecord, error) {
	d := decoder{p: r.Data}
	n := d.count()
	recs := make([]BinaryRecord, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		rec := BinaryRecord{Record: d.record()}
		rec.Blob = d.u32()
		recs = append(recs, rec)
	}
	return recs, d.done()
}

// decoder reads little-endian fields and keeps the first error.
type decoder struct {
	p   []byte
	off int
	err error
}

func (d *decoder) take(n uint64) []byte {
	if d.err != nil {
		return nil
	}
	if n > uint64(len(d.p)-d.off) {
		d.err = fmt.Errorf("%w: need %d bytes at %d, have %d", ErrTruncated, n, d.off, len(d.p)-d.off)
		return nil
	}
	b := d.p[d.off : d.off+int(n)]
	d.off += int(n)
	return b
}

func (d *decoder) u8() uint8 {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u32() uint32 {
	if b := d.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u64() uint64 {
	if b := d.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// count reads a uint64 element count, rejecting counts the remaining data
// cannot possibly hold.
func (d *decoder) count() int {
	n := d.u64()
	if d.err == nil && n > uint64(len(d.p)-d.off) {
		d.err = fmt.Errorf("%w: count %d exceeds payload", ErrTruncated, n)
		return 0
	}
	return int(n)
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	i := bytes.IndexByte(d.p[d.off:], 0)
	if i < 0 {
		d.err = fmt.Errorf("%w: unterminated string at %d", ErrTruncated, d.off)
		return ""
	}
	s := string(d.p[d.off : d.off+i])
	d.off += i + 1
	return s
}

func (d *decoder) bytes(n uint64) []byte {
	b := d.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (d *decoder) record() Record {
	return Record{
		ShaderModel: variant.ShaderModel(d.u8()),
		Key:         variant.Key(d.u8()),
		Stage:       variant.Stage(d.u8()),
	}
}

// done reports the first error, or trailing bytes in a fixed layout.
func (d *decoder) done() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.p) {
		return fmt.Errorf("chunk: %d trailing bytes", len(d.p)-d.off)
	}
	return nil
}
