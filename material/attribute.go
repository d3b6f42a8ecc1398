// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

import "fmt"

// Attribute is a vertex attribute a material may require.
type Attribute uint8

const (
	Position Attribute = iota
	Tangents
	Color
	UV0
	UV1
	BoneIndices
	BoneWeights
	Custom0
	Custom1
	Custom2
	Custom3
	Custom4
	Custom5
	Custom6
	Custom7

	AttributeCount
)

var attributeNames = [AttributeCount]string{
	"position", "tangents", "color", "uv0", "uv1", "bone_indices", "bone_weights",
	"custom0", "custom1", "custom2", "custom3", "custom4", "custom5", "custom6", "custom7",
}

var attributeGLSL = [AttributeCount]string{
	"vec4", "vec4", "vec4", "vec2", "vec2", "uvec4", "vec4",
	"vec4", "vec4", "vec4", "vec4", "vec4", "vec4", "vec4", "vec4",
}

// String returns the attribute name used in material files.
func (a Attribute) String() string {
	if a >= AttributeCount {
		return fmt.Sprintf("Attribute(%d)", uint8(a))
	}
	return attributeNames[a]
}

// GLSL returns the GLSL type of the attribute.
func (a Attribute) GLSL() string {
	if a >= AttributeCount {
		return ""
	}
	return attributeGLSL[a]
}

// ParseAttribute parses an attribute name.
func ParseAttribute(s string) (Attribute, error) {
	i, err := parseEnum("attribute", attributeNames[:], s)
	return Attribute(i), err
}

// AttributeSet is a bitset of attributes. Position is always required.
type AttributeSet uint32

// Add returns the set with a added.
func (s AttributeSet) Add(a Attribute) AttributeSet {
	return s | 1<<a
}

// Has reports whether a is in the set.
func (s AttributeSet) Has(a Attribute) bool {
	return s&(1<<a) != 0
}

// Slice returns the attributes in location order.
func (s AttributeSet) Slice() []Attribute {
	var out []Attribute
	for a := Attribute(0); a < AttributeCount; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}
