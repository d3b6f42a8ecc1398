// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dict

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/gogpu/matc/writer"
)

// blobPrefixSize is the length prefix stored in front of every blob.
const blobPrefixSize = 8

// Blob deduplicates binary shader blobs by content.
type Blob struct {
	blobs [][]byte
	index map[[blake2b.Size256]byte][]uint32
	size  int
}

// NewBlob creates an empty blob dictionary.
func NewBlob() *Blob {
	return &Blob{
		index: make(map[[blake2b.Size256]byte][]uint32),
	}
}

// Add returns the id of p, appending a copy when the content is new.
func (d *Blob) Add(p []byte) uint32 {
	sum := blake2b.Sum256(p)
	for _, id := range d.index[sum] {
		if bytes.Equal(d.blobs[id], p) {
			return id
		}
	}
	id := uint32(len(d.blobs))
	d.blobs = append(d.blobs, bytes.Clone(p))
	d.index[sum] = append(d.index[sum], id)
	d.size += blobPrefixSize + len(p)
	return id
}

// AddWords stores SPIR-V words as little-endian bytes.
func (d *Blob) AddWords(words []uint32) uint32 {
	return d.Add(WordsToBytes(words))
}

// Len returns the number of unique blobs.
func (d *Blob) Len() int {
	return len(d.blobs)
}

// At returns the blob with the given id, or nil.
func (d *Blob) At(id uint32) []byte {
	if int(id) >= len(d.blobs) {
		return nil
	}
	return d.blobs[id]
}

// Size returns the serialized size of all blobs including length prefixes.
func (d *Blob) Size() int {
	return d.size
}

// Write emits the blob count followed by length-prefixed blobs.
func (d *Blob) Write(w *writer.Writer) error {
	if err := w.WriteSize(len(d.blobs)); err != nil {
		return err
	}
	for _, b := range d.blobs {
		w.WriteBlob(b)
	}
	return nil
}

// WordsToBytes encodes words little-endian.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint32(out[4*i:], word)
	}
	return out
}

// BytesToWords decodes little-endian words. Trailing bytes are ignored.
func BytesToWords(p []byte) []uint32 {
	words := make([]uint32, len(p)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(p[4*i:])
	}
	return words
}
