// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package writer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOverflow reports a value that does not fit its 32-bit slot.
	// The package format has no wider encoding, so the build must stop.
	ErrOverflow = errors.New("writer: value exceeds 32-bit slot")

	// ErrNoPending reports a close or resolve call with no matching placeholder.
	ErrNoPending = errors.New("writer: no pending placeholder")

	// ErrUnresolved reports placeholders still open when the writer is finished.
	ErrUnresolved = errors.New("writer: unresolved placeholders")
)

// slotSize is the width of every placeholder slot.
const slotSize = 4

// Writer emits little-endian integers, strings and blobs into a Sink.
//
// Placeholders reserve a 4-byte slot that is patched once its value is known:
//   - size placeholders (OpenSize/CloseSize) resolve LIFO with the number of
//     bytes written after the slot;
//   - value placeholders (ReserveValue/ResolveValue) resolve LIFO with an
//     arbitrary count;
//   - offset placeholders (ReserveOffset/ResolveOffset) resolve by key with the
//     cursor position relative to a caller supplied base.
//
// The cursor only depends on the call sequence, never on the sink, so a dry run
// over a Counter measures exactly what a Buffer pass will produce.
type Writer struct {
	sink    Sink
	pos     int
	sizes   []int
	values  []int
	offsets map[uint32][]int
	scratch [8]byte
	err     error
}

// New creates a writer emitting into sink.
func New(sink Sink) *Writer {
	return &Writer{
		sink:    sink,
		offsets: make(map[uint32][]int),
	}
}

// NewDryRun creates a writer that only advances its cursor.
func NewDryRun() *Writer {
	return New(Counter{})
}

// NewBuffered creates a writer over a buffer with the given capacity.
func NewBuffered(capacity int) *Writer {
	return New(NewBuffer(capacity))
}

// Pos returns the number of bytes written so far.
func (w *Writer) Pos() int {
	return w.pos
}

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error {
	return w.err
}

// DryRun reports whether the writer discards its output.
func (w *Writer) DryRun() bool {
	_, ok := w.sink.(Counter)
	return ok
}

// Bytes returns the written bytes when the sink is a Buffer, nil otherwise.
func (w *Writer) Bytes() []byte {
	if b, ok := w.sink.(*Buffer); ok {
		return b.Bytes()
	}
	return nil
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return err
}

func (w *Writer) append(p []byte) {
	w.sink.Append(p)
	w.pos += len(p)
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.scratch[0] = v
	w.append(w.scratch[:1])
}

// WriteBool writes a boolean as one byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// WriteUint16 writes a little-endian 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	binary.LittleEndian.PutUint16(w.scratch[:2], v)
	w.append(w.scratch[:2])
}

// WriteUint32 writes a little-endian 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	w.append(w.scratch[:4])
}

// WriteUint64 writes a little-endian 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(w.scratch[:8], v)
	w.append(w.scratch[:8])
}

// WriteSize writes n into a 32-bit slot, recording ErrOverflow when n does
// not fit. The slot is written either way so the cursor stays predictable.
func (w *Writer) WriteSize(n int) error {
	v, err := slotValue(n)
	w.WriteUint32(v)
	if err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteString writes s followed by a null terminator.
func (w *Writer) WriteString(s string) {
	w.append([]byte(s))
	w.WriteUint8(0)
}

// WriteBlob writes a 64-bit length prefix followed by p.
func (w *Writer) WriteBlob(p []byte) {
	w.WriteUint64(uint64(len(p)))
	w.append(p)
}

// WriteBytes writes p without any prefix.
func (w *Writer) WriteBytes(p []byte) {
	w.append(p)
}

func (w *Writer) reserve() int {
	at := w.pos
	w.WriteUint32(0)
	return at
}

func (w *Writer) patch(at int, n int) error {
	v, err := slotValue(n)
	if err != nil {
		return w.fail(fmt.Errorf("%w: %d at offset %d", err, n, at))
	}
	var slot [slotSize]byte
	binary.LittleEndian.PutUint32(slot[:], v)
	w.sink.Patch(at, slot[:])
	return nil
}

// OpenSize reserves a size slot. The matching CloseSize fills it with the
// number of bytes written after the slot.
func (w *Writer) OpenSize() {
	w.sizes = append(w.sizes, w.reserve())
}

// CloseSize resolves the most recently opened size slot.
func (w *Writer) CloseSize() error {
	n := len(w.sizes)
	if n == 0 {
		return w.fail(fmt.Errorf("%w: CloseSize", ErrNoPending))
	}
	at := w.sizes[n-1]
	w.sizes = w.sizes[:n-1]
	return w.patch(at, w.pos-at-slotSize)
}

// ReserveValue reserves a slot for a value known only after further writes.
func (w *Writer) ReserveValue() {
	w.values = append(w.values, w.reserve())
}

// ResolveValue fills the most recently reserved value slot with v.
func (w *Writer) ResolveValue(v int) error {
	n := len(w.values)
	if n == 0 {
		return w.fail(fmt.Errorf("%w: ResolveValue", ErrNoPending))
	}
	at := w.values[n-1]
	w.values = w.values[:n-1]
	return w.patch(at, v)
}

// ReserveOffset reserves a slot that will hold the offset of the payload
// identified by key. Several slots may share a key.
func (w *Writer) ReserveOffset(key uint32) {
	w.offsets[key] = append(w.offsets[key], w.reserve())
}

// ResolveOffset fills every pending slot for key with Pos()-base.
func (w *Writer) ResolveOffset(key uint32, base int) error {
	slots, ok := w.offsets[key]
	if !ok {
		return w.fail(fmt.Errorf("%w: ResolveOffset(%d)", ErrNoPending, key))
	}
	delete(w.offsets, key)
	for _, at := range slots {
		if err := w.patch(at, w.pos-base); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the number of unresolved placeholders.
func (w *Writer) Pending() int {
	n := len(w.sizes) + len(w.values)
	for _, slots := range w.offsets {
		n += len(slots)
	}
	return n
}

// Finish returns the first recorded error, or ErrUnresolved if placeholders
// remain open.
func (w *Writer) Finish() error {
	if w.err != nil {
		return w.err
	}
	if n := w.Pending(); n > 0 {
		return fmt.Errorf("%w: %d open", ErrUnresolved, n)
	}
	return nil
}

func slotValue(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, ErrOverflow
	}
	return uint32(n), nil
}
