// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package variant

import (
	"strings"
)

// Key selects the optional code paths compiled into one shader program.
// Each bit is an independent feature.
type Key uint8

// Feature bits.
const (
	DIR Key = 1 << iota // directional lighting
	DYN                 // dynamic lighting
	SRE                 // shadow receiver
	SKN                 // skinning and morphing
	DEP                 // depth pass
	FOG                 // fog
	PCK                 // picking (depth pass only)
	VSM                 // variance shadow maps
)

// Count is the number of distinct 8-bit keys.
const Count = 256

// Lighting groups the bits that only matter to lit materials.
const Lighting = DIR | DYN | SRE | VSM

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

// Stages lists the stages generated for every key.
var Stages = [...]Stage{Vertex, Fragment}

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Per-stage masks: bits outside the mask never change that stage's program.
const (
	vertexStandardMask   = DIR | DYN | SRE | SKN
	vertexDepthMask      = DEP | SKN | VSM
	fragmentStandardMask = DIR | DYN | SRE | FOG | VSM
	fragmentDepthMask    = DEP | PCK | VSM
)

// Has reports whether all bits of f are set.
func (k Key) Has(f Key) bool {
	return k&f == f
}

// IsDepth reports whether k is a depth-pass key.
func (k Key) IsDepth() bool {
	return k&DEP != 0
}

// IsReserved reports whether k is a bit pattern that must never be generated.
//
// Standard keys may not carry PCK, and VSM requires SRE. Depth keys may not
// carry DIR, DYN, SRE or FOG, and picking is not combined with VSM.
func (k Key) IsReserved() bool {
	if k.IsDepth() {
		return k&(DIR|DYN|SRE|FOG) != 0 || k.Has(PCK|VSM)
	}
	return k&PCK != 0 || (k&VSM != 0 && k&SRE == 0)
}

// IsValid is the negation of IsReserved.
func (k Key) IsValid() bool {
	return !k.IsReserved()
}

// ForStage returns the part of k that affects the given stage.
func (k Key) ForStage(s Stage) Key {
	switch {
	case s == Vertex && k.IsDepth():
		return k & vertexDepthMask
	case s == Vertex:
		return k & vertexStandardMask
	case k.IsDepth():
		return k & fragmentDepthMask
	default:
		return k & fragmentStandardMask
	}
}

// AppliesTo reports whether a program must be generated for stage s of k.
// Keys whose stage-filtered form differs share the program of that form.
func (k Key) AppliesTo(s Stage) bool {
	return k.ForStage(s) == k
}

var bitNames = [...]string{"DIR", "DYN", "SRE", "SKN", "DEP", "FOG", "PCK", "VSM"}

// String lists the set bits, e.g. "DIR|SRE".
func (k Key) String() string {
	if k == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, name := range bitNames {
		if k&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// Valid returns every non-reserved key in ascending order.
func Valid() []Key {
	keys := make([]Key, 0, 64)
	for i := 0; i < Count; i++ {
		if k := Key(i); k.IsValid() {
			keys = append(keys, k)
		}
	}
	return keys
}

// Canonicalizer collapses keys whose extra bits cannot change a material's
// output onto one representative.
type Canonicalizer struct {
	// Applies decides whether the material ignores Mask at all.
	Applies func(lit, shadowMultiplier bool) bool

	// Mask is cleared from standard keys when Applies is true.
	Mask Key
}

// DefaultCanonicalizer strips the lighting bits of unlit materials that do
// not use a shadow multiplier.
func DefaultCanonicalizer() Canonicalizer {
	return Canonicalizer{
		Applies: func(lit, shadowMultiplier bool) bool {
			return !lit && !shadowMultiplier
		},
		Mask: Lighting,
	}
}

// Canonical returns the representative of k. Depth keys are returned as is,
// since shadow casting does not depend on the shading model.
func (c Canonicalizer) Canonical(k Key, lit, shadowMultiplier bool) Key {
	if k.IsDepth() || c.Applies == nil || !c.Applies(lit, shadowMultiplier) {
		return k
	}
	return k &^ c.Mask
}

// Select returns the valid keys to generate: reserved keys, keys sharing a
// bit with exclude, and non-canonical keys are skipped.
func (c Canonicalizer) Select(exclude Key, lit, shadowMultiplier bool) []Key {
	var keys []Key
	for _, k := range Valid() {
		if k&exclude != 0 {
			continue
		}
		if c.Canonical(k, lit, shadowMultiplier) != k {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}
