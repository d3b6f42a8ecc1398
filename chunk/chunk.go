// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package chunk serializes material packages as a sequence of tagged,
// size-prefixed records:
//
//	[8-byte tag][4-byte little-endian payload size][payload]
//
// Container chunks nest the same layout in their payload. Readers skip tags
// they do not know.
package chunk

import (
	"github.com/gogpu/matc/dict"
	"github.com/gogpu/matc/variant"
	"github.com/gogpu/matc/writer"
)

// Chunk is one record of a package. The set of implementations is closed.
type Chunk interface {
	Tag() Tag
	write(w *writer.Writer) error
}

// Uint8 is a single byte scalar.
type Uint8 struct {
	ID    Tag
	Value uint8
}

// Uint32 is a 32-bit scalar.
type Uint32 struct {
	ID    Tag
	Value uint32
}

// Uint64 is a 64-bit scalar.
type Uint64 struct {
	ID    Tag
	Value uint64
}

// Bool is a one byte flag.
type Bool struct {
	ID    Tag
	Value bool
}

// String is a null-terminated string.
type String struct {
	ID    Tag
	Value string
}

func (c Uint8) Tag() Tag  { return c.ID }
func (c Uint32) Tag() Tag { return c.ID }
func (c Uint64) Tag() Tag { return c.ID }
func (c Bool) Tag() Tag   { return c.ID }
func (c String) Tag() Tag { return c.ID }

func (c Uint8) write(w *writer.Writer) error {
	w.WriteUint8(c.Value)
	return nil
}

func (c Uint32) write(w *writer.Writer) error {
	w.WriteUint32(c.Value)
	return nil
}

func (c Uint64) write(w *writer.Writer) error {
	w.WriteUint64(c.Value)
	return nil
}

func (c Bool) write(w *writer.Writer) error {
	w.WriteBool(c.Value)
	return nil
}

func (c String) write(w *writer.Writer) error {
	w.WriteString(c.Value)
	return nil
}

// UniformField is one member of the parameter uniform block.
type UniformField struct {
	Name      string
	ArraySize uint32
	Type      uint8
	Precision uint8
}

// UniformBlock describes the parameter uniform block.
type UniformBlock struct {
	Name   string
	Fields []UniformField
}

// Tag implements Chunk.
func (UniformBlock) Tag() Tag { return UniformInterfaceBlock }

func (c UniformBlock) write(w *writer.Writer) error {
	w.WriteString(c.Name)
	w.WriteUint64(uint64(len(c.Fields)))
	for _, f := range c.Fields {
		w.WriteString(f.Name)
		w.WriteUint64(uint64(f.ArraySize))
		w.WriteUint8(f.Type)
		w.WriteUint8(f.Precision)
	}
	return nil
}

// SamplerField is one sampler of the sampler block.
type SamplerField struct {
	Name      string
	Binding   uint8
	Type      uint8
	Format    uint8
	Precision uint8
}

// SamplerBlock describes the material samplers.
type SamplerBlock struct {
	Name     string
	Samplers []SamplerField
}

// Tag implements Chunk.
func (SamplerBlock) Tag() Tag { return SamplerInterfaceBlock }

func (c SamplerBlock) write(w *writer.Writer) error {
	w.WriteString(c.Name)
	w.WriteUint64(uint64(len(c.Samplers)))
	for _, s := range c.Samplers {
		w.WriteString(s.Name)
		w.WriteUint8(s.Binding)
		w.WriteUint8(s.Type)
		w.WriteUint8(s.Format)
		w.WriteUint8(s.Precision)
	}
	return nil
}

// TextDictionary stores the segments of a text dictionary.
type TextDictionary struct {
	ID   Tag
	Dict *dict.Text
}

// Tag implements Chunk.
func (c TextDictionary) Tag() Tag { return c.ID }

func (c TextDictionary) write(w *writer.Writer) error {
	return c.Dict.Write(w)
}

// BlobDictionary stores the blobs of a blob dictionary.
type BlobDictionary struct {
	ID   Tag
	Dict *dict.Blob
}

// Tag implements Chunk.
func (c BlobDictionary) Tag() Tag { return c.ID }

func (c BlobDictionary) write(w *writer.Writer) error {
	return c.Dict.Write(w)
}

// Record identifies the program a shader record holds.
type Record struct {
	ShaderModel variant.ShaderModel
	Key         variant.Key
	Stage       variant.Stage
}

func (r Record) writeHeader(w *writer.Writer) {
	w.WriteUint8(uint8(r.ShaderModel))
	w.WriteUint8(uint8(r.Key))
	w.WriteUint8(uint8(r.Stage))
}

// TextRecord is a program stored as text.
type TextRecord struct {
	Record
	Text string
}

// TextShaders stores text programs compressed against a text dictionary.
//
// The payload is the record count, then one (model, key, stage, offset)
// entry per record, then each distinct body compressed. Offsets are
// relative to the start of the payload; records with identical text share
// one body.
type TextShaders struct {
	ID      Tag
	Dict    *dict.Text
	Records []TextRecord
}

// Tag implements Chunk.
func (c TextShaders) Tag() Tag { return c.ID }

func (c TextShaders) write(w *writer.Writer) error {
	base := w.Pos()
	w.WriteUint64(uint64(len(c.Records)))

	texts := make([]string, len(c.Records))
	for i, r := range c.Records {
		texts[i] = r.Text
	}
	first := dict.Dedup(texts)

	for i, r := range c.Records {
		r.writeHeader(w)
		w.ReserveOffset(uint32(first[i]))
	}
	for i, r := range c.Records {
		if first[i] != i {
			continue
		}
		if err := w.ResolveOffset(uint32(i), base); err != nil {
			return err
		}
		if err := dict.Compress(w, c.Dict, r.Text); err != nil {
			return err
		}
	}
	return nil
}

// BinaryRecord is a program stored in a blob dictionary.
type BinaryRecord struct {
	Record
	Blob uint32
}

// BinaryShaders stores (model, key, stage, blob index) entries.
type BinaryShaders struct {
	ID      Tag
	Records []BinaryRecord
}

// Tag implements Chunk.
func (c BinaryShaders) Tag() Tag { return c.ID }

func (c BinaryShaders) write(w *writer.Writer) error {
	w.WriteUint64(uint64(len(c.Records)))
	for _, r := range c.Records {
		r.writeHeader(w)
		w.WriteUint32(r.Blob)
	}
	return nil
}

// Container nests a list of chunks.
type Container struct {
	ID       Tag
	Children List
}

// Tag implements Chunk.
func (c *Container) Tag() Tag { return c.ID }

func (c *Container) write(w *writer.Writer) error {
	return c.Children.Flatten(w)
}
