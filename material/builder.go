// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

import (
	"fmt"
	"regexp"

	"github.com/gogpu/matc/variant"
)

// Limits enforced by Builder.
const (
	MaxParameterCount = 48
	MaxSamplerCount   = 16
	MaxVariableCount  = 4
	MaxOutputCount    = 8
	MaxFeatureLevel   = 3
)

// ConfigError reports invalid builder usage. Configuration stops at the
// first one.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("material config: %s: %s", e.Field, e.Message)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Builder assembles a Material. Setters return the builder for chaining;
// the first invalid call is kept and every later call is ignored.
type Builder struct {
	m   Material
	err error
}

// NewBuilder starts a lit, opaque surface material.
func NewBuilder(name string) *Builder {
	b := &Builder{m: Material{
		Name:               name,
		Shading:            Lit,
		Blending:           Opaque,
		Domain:             Surface,
		FeatureLevel:       1,
		RequiredAttributes: AttributeSet(0).Add(Position),
	}}
	if !identifier.MatchString(name) {
		b.err = configErrorf("name", "%q is not a valid identifier", name)
	}
	return b
}

// Err returns the first configuration error.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) set(fn func() *ConfigError) *Builder {
	if b.err != nil {
		return b
	}
	if err := fn(); err != nil {
		b.err = err
	}
	return b
}

// Shading sets the shading model.
func (b *Builder) Shading(s Shading) *Builder {
	return b.set(func() *ConfigError {
		if int(s) >= len(shadingNames) {
			return configErrorf("shading", "invalid value %d", s)
		}
		b.m.Shading = s
		return nil
	})
}

// Blending sets the blending mode.
func (b *Builder) Blending(bl Blending) *Builder {
	return b.set(func() *ConfigError {
		if int(bl) >= len(blendingNames) {
			return configErrorf("blending", "invalid value %d", bl)
		}
		b.m.Blending = bl
		return nil
	})
}

// Domain sets the material domain.
func (b *Builder) Domain(d Domain) *Builder {
	return b.set(func() *ConfigError {
		if int(d) >= len(domainNames) {
			return configErrorf("domain", "invalid value %d", d)
		}
		b.m.Domain = d
		return nil
	})
}

// FeatureLevel sets the minimum engine feature level.
func (b *Builder) FeatureLevel(level int) *Builder {
	return b.set(func() *ConfigError {
		if level < 1 || level > MaxFeatureLevel {
			return configErrorf("featureLevel", "%d out of range [1, %d]", level, MaxFeatureLevel)
		}
		b.m.FeatureLevel = uint8(level)
		return nil
	})
}

// DoubleSided disables back-face culling.
func (b *Builder) DoubleSided(v bool) *Builder {
	return b.set(func() *ConfigError {
		b.m.DoubleSided = v
		return nil
	})
}

// ShadowMultiplier lets an unlit material receive shadows.
func (b *Builder) ShadowMultiplier(v bool) *Builder {
	return b.set(func() *ConfigError {
		b.m.ShadowMultiplier = v
		return nil
	})
}

// Parameter adds a parameter.
func (b *Builder) Parameter(p Parameter) *Builder {
	return b.set(func() *ConfigError {
		if len(b.m.Parameters) >= MaxParameterCount {
			return configErrorf("parameters", "more than %d parameters", MaxParameterCount)
		}
		if !identifier.MatchString(p.Name) {
			return configErrorf("parameters", "%q is not a valid identifier", p.Name)
		}
		if int(p.Type) >= len(paramTypeNames) {
			return configErrorf("parameters", "%s: invalid type %d", p.Name, p.Type)
		}
		if p.ArraySize < 0 {
			return configErrorf("parameters", "%s: negative array size", p.Name)
		}
		if p.Type.IsSampler() {
			if p.ArraySize > 0 {
				return configErrorf("parameters", "%s: sampler arrays are not supported", p.Name)
			}
			if len(b.m.Samplers()) >= MaxSamplerCount {
				return configErrorf("parameters", "more than %d samplers", MaxSamplerCount)
			}
		}
		for _, q := range b.m.Parameters {
			if q.Name == p.Name {
				return configErrorf("parameters", "duplicate parameter %q", p.Name)
			}
		}
		b.m.Parameters = append(b.m.Parameters, p)
		return nil
	})
}

// Require adds required vertex attributes.
func (b *Builder) Require(attrs ...Attribute) *Builder {
	return b.set(func() *ConfigError {
		for _, a := range attrs {
			if a >= AttributeCount {
				return configErrorf("requires", "invalid attribute %d", a)
			}
			b.m.RequiredAttributes = b.m.RequiredAttributes.Add(a)
		}
		return nil
	})
}

// Variable adds a custom interpolant.
func (b *Builder) Variable(name string) *Builder {
	return b.set(func() *ConfigError {
		if len(b.m.Variables) >= MaxVariableCount {
			return configErrorf("variables", "more than %d variables", MaxVariableCount)
		}
		if !identifier.MatchString(name) {
			return configErrorf("variables", "%q is not a valid identifier", name)
		}
		b.m.Variables = append(b.m.Variables, name)
		return nil
	})
}

// Output adds a custom fragment output.
func (b *Builder) Output(o Output) *Builder {
	return b.set(func() *ConfigError {
		if len(b.m.Outputs) >= MaxOutputCount {
			return configErrorf("outputs", "more than %d outputs", MaxOutputCount)
		}
		if !identifier.MatchString(o.Name) {
			return configErrorf("outputs", "%q is not a valid identifier", o.Name)
		}
		if o.Type.IsSampler() {
			return configErrorf("outputs", "%s: sampler outputs are not allowed", o.Name)
		}
		for _, q := range b.m.Outputs {
			if q.Location == o.Location {
				return configErrorf("outputs", "%s: location %d already used by %s", o.Name, o.Location, q.Name)
			}
		}
		b.m.Outputs = append(b.m.Outputs, o)
		return nil
	})
}

// VariantFilter excludes keys sharing a bit with mask.
func (b *Builder) VariantFilter(mask variant.Key) *Builder {
	return b.set(func() *ConfigError {
		b.m.VariantFilter = mask
		return nil
	})
}

// Properties declares properties written by the fragment body.
func (b *Builder) Properties(props ...Property) *Builder {
	return b.set(func() *ConfigError {
		for _, p := range props {
			if p >= PropertyCount {
				return configErrorf("properties", "invalid property %d", p)
			}
			b.m.Properties = b.m.Properties.Add(p)
		}
		return nil
	})
}

// Fragment sets the fragment body and its first line in the source file.
func (b *Builder) Fragment(source string, line int) *Builder {
	return b.set(func() *ConfigError {
		b.m.Fragment = Shader{Source: source, Line: line}
		return nil
	})
}

// Vertex sets the vertex body and its first line in the source file.
func (b *Builder) Vertex(source string, line int) *Builder {
	return b.set(func() *ConfigError {
		b.m.Vertex = Shader{Source: source, Line: line}
		return nil
	})
}

// Build returns the material or the first configuration error.
func (b *Builder) Build() (*Material, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.m.Domain == PostProcess && b.m.Shading != Unlit {
		return nil, configErrorf("shading", "post-process materials must be unlit")
	}
	m := b.m
	m.Parameters = append([]Parameter(nil), b.m.Parameters...)
	m.Variables = append([]string(nil), b.m.Variables...)
	m.Outputs = append([]Output(nil), b.m.Outputs...)
	return &m, nil
}
