// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package writer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitSample exercises every primitive and placeholder kind.
func emitSample(w *Writer) {
	w.WriteUint64(0x4D41545F4E414D45)
	w.OpenSize()
	w.WriteString("lit")
	w.WriteUint8(7)
	w.WriteUint16(0xBEEF)
	w.ReserveOffset(1)
	w.ReserveOffset(1)
	w.ReserveValue()
	w.WriteBlob([]byte{1, 2, 3})
	_ = w.ResolveValue(42)
	w.OpenSize()
	w.WriteBool(true)
	_ = w.CloseSize()
	_ = w.ResolveOffset(1, 0)
	w.WriteUint32(9)
	_ = w.CloseSize()
}

func TestDryRunMatchesBuffer(t *testing.T) {
	dry := NewDryRun()
	emitSample(dry)
	require.NoError(t, dry.Finish())
	assert.True(t, dry.DryRun())
	assert.Nil(t, dry.Bytes())

	w := NewBuffered(dry.Pos())
	emitSample(w)
	require.NoError(t, w.Finish())
	assert.False(t, w.DryRun())
	assert.Equal(t, dry.Pos(), w.Pos())
	assert.Len(t, w.Bytes(), dry.Pos())
}

func TestSizePlaceholder(t *testing.T) {
	w := NewBuffered(0)
	w.OpenSize()
	w.WriteUint32(1)
	w.WriteString("ab")
	require.NoError(t, w.CloseSize())

	data := w.Bytes()
	require.Len(t, data, 4+4+3)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, []byte{'a', 'b', 0}, data[8:])
}

func TestNestedSizesResolveLIFO(t *testing.T) {
	w := NewBuffered(0)
	w.OpenSize()
	w.WriteUint8(1)
	w.OpenSize()
	w.WriteUint16(2)
	require.NoError(t, w.CloseSize())
	require.NoError(t, w.CloseSize())

	data := w.Bytes()
	assert.Equal(t, uint32(1+4+2), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[5:9]))
}

func TestOffsetPlaceholderSharedKey(t *testing.T) {
	w := NewBuffered(0)
	base := w.Pos()
	w.ReserveOffset(3)
	w.ReserveOffset(5)
	w.ReserveOffset(3)
	w.WriteUint32(0xAAAAAAAA)
	require.NoError(t, w.ResolveOffset(3, base))
	w.WriteUint8(0)
	require.NoError(t, w.ResolveOffset(5, base))
	require.NoError(t, w.Finish())

	data := w.Bytes()
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(17), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[8:12]))
}

func TestValuePlaceholder(t *testing.T) {
	w := NewBuffered(0)
	w.ReserveValue()
	w.WriteUint16(1)
	w.WriteUint16(2)
	require.NoError(t, w.ResolveValue(2))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(w.Bytes()[0:4]))
}

func TestNoPendingPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		call func(w *Writer) error
	}{
		{"close size", func(w *Writer) error { return w.CloseSize() }},
		{"resolve value", func(w *Writer) error { return w.ResolveValue(1) }},
		{"resolve offset", func(w *Writer) error { return w.ResolveOffset(9, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewDryRun()
			err := tt.call(w)
			require.ErrorIs(t, err, ErrNoPending)
			assert.ErrorIs(t, w.Finish(), ErrNoPending)
		})
	}
}

func TestOverflowIsFatal(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits")
	}
	var big uint64 = math.MaxUint32
	big++

	w := NewDryRun()
	w.ReserveValue()
	err := w.ResolveValue(int(big))
	require.ErrorIs(t, err, ErrOverflow)

	// Later successful calls do not clear the first error.
	w.OpenSize()
	require.NoError(t, w.CloseSize())
	assert.ErrorIs(t, w.Finish(), ErrOverflow)

	w = NewDryRun()
	require.ErrorIs(t, w.WriteSize(-1), ErrOverflow)
	assert.Equal(t, 4, w.Pos())
}

func TestUnresolvedPlaceholders(t *testing.T) {
	w := NewDryRun()
	w.OpenSize()
	w.ReserveOffset(0)
	assert.Equal(t, 2, w.Pending())
	assert.ErrorIs(t, w.Finish(), ErrUnresolved)
}
