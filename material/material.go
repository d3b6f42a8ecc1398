// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package material describes the input of the material compiler: shading
// and blending modes, parameters, vertex attributes, shader bodies and the
// material properties they write.
package material

import (
	"fmt"
	"strings"

	"github.com/gogpu/matc/variant"
)

// Shading is the lighting model of a material.
type Shading uint8

const (
	Unlit Shading = iota
	Lit
	Subsurface
	Cloth
	SpecularGlossiness
)

var shadingNames = []string{"unlit", "lit", "subsurface", "cloth", "specularGlossiness"}

// String returns the shading model name.
func (s Shading) String() string { return enumName(shadingNames, int(s)) }

// ParseShading parses a shading model name.
func ParseShading(s string) (Shading, error) {
	i, err := parseEnum("shading", shadingNames, s)
	return Shading(i), err
}

// Blending is the blending mode of a material.
type Blending uint8

const (
	Opaque Blending = iota
	Transparent
	Add
	Masked
	Fade
	Multiply
	Screen
)

var blendingNames = []string{"opaque", "transparent", "add", "masked", "fade", "multiply", "screen"}

// String returns the blending mode name.
func (b Blending) String() string { return enumName(blendingNames, int(b)) }

// ParseBlending parses a blending mode name.
func ParseBlending(s string) (Blending, error) {
	i, err := parseEnum("blending", blendingNames, s)
	return Blending(i), err
}

// Domain is where the material is used.
type Domain uint8

const (
	Surface Domain = iota
	PostProcess
)

var domainNames = []string{"surface", "postprocess"}

// String returns the domain name.
func (d Domain) String() string { return enumName(domainNames, int(d)) }

// ParseDomain parses a domain name.
func ParseDomain(s string) (Domain, error) {
	i, err := parseEnum("domain", domainNames, s)
	return Domain(i), err
}

// Shader is a user authored shader body and the line it starts at in the
// material source, used for #line directives.
type Shader struct {
	Source string
	Line   int

	// File is the path the body was read from, empty for inline bodies.
	File string
}

// Empty reports whether the body has no code.
func (s Shader) Empty() bool {
	return strings.TrimSpace(s.Source) == ""
}

// Output is a custom fragment output.
type Output struct {
	Name     string
	Type     ParamType
	Location int
}

// Material is a validated material description. Create one with Builder or Load.
type Material struct {
	Name         string
	Shading      Shading
	Blending     Blending
	Domain       Domain
	FeatureLevel uint8
	DoubleSided  bool

	// ShadowMultiplier lets unlit materials receive shadows.
	ShadowMultiplier bool

	Parameters         []Parameter
	RequiredAttributes AttributeSet

	// Variables are custom interpolants passed from vertex to fragment.
	Variables []string

	// Outputs are custom fragment outputs.
	Outputs []Output

	// VariantFilter excludes every key sharing a bit with it.
	VariantFilter variant.Key

	// Properties are the properties declared up front; inference adds to them.
	Properties PropertySet

	Fragment Shader
	Vertex   Shader
}

// Lit reports whether the shading model uses lighting.
func (m *Material) Lit() bool {
	return m.Shading != Unlit
}

// CustomDepth reports whether depth variants need the material's own
// shaders instead of the fixed depth-only program: anything but opaque
// blending, a non-default vertex body or custom fragment outputs can change
// which fragments survive.
func (m *Material) CustomDepth() bool {
	return m.Blending != Opaque || !m.Vertex.Empty() || len(m.Outputs) > 0
}

// Samplers returns the sampler parameters in declaration order.
func (m *Material) Samplers() []Parameter {
	var out []Parameter
	for _, p := range m.Parameters {
		if p.Type.IsSampler() {
			out = append(out, p)
		}
	}
	return out
}

// Uniforms returns the non-sampler parameters in declaration order.
func (m *Material) Uniforms() []Parameter {
	var out []Parameter
	for _, p := range m.Parameters {
		if !p.Type.IsSampler() {
			out = append(out, p)
		}
	}
	return out
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func parseEnum(kind string, names []string, s string) (int, error) {
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}
