// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

// ParamType is the type of a material parameter.
type ParamType uint8

const (
	Bool ParamType = iota
	Bool2
	Bool3
	Bool4
	Float
	Float2
	Float3
	Float4
	Int
	Int2
	Int3
	Int4
	Uint
	Mat3
	Mat4
	Sampler2D
	Sampler2DArray
	Sampler3D
	SamplerCubemap
	SamplerExternal
)

var paramTypeNames = []string{
	"bool", "bool2", "bool3", "bool4",
	"float", "float2", "float3", "float4",
	"int", "int2", "int3", "int4",
	"uint", "mat3", "mat4",
	"sampler2d", "sampler2dArray", "sampler3d", "samplerCubemap", "samplerExternal",
}

var paramTypeGLSL = []string{
	"bool", "bvec2", "bvec3", "bvec4",
	"float", "vec2", "vec3", "vec4",
	"int", "ivec2", "ivec3", "ivec4",
	"uint", "mat3", "mat4",
	"sampler2D", "sampler2DArray", "sampler3D", "samplerCube", "samplerExternalOES",
}

// String returns the material-file name of the type.
func (t ParamType) String() string { return enumName(paramTypeNames, int(t)) }

// GLSL returns the GLSL spelling of the type.
func (t ParamType) GLSL() string { return enumName(paramTypeGLSL, int(t)) }

// IsSampler reports whether the type is a sampler.
func (t ParamType) IsSampler() bool {
	return t >= Sampler2D && t <= SamplerExternal
}

// ParseParamType parses a parameter type name.
func ParseParamType(s string) (ParamType, error) {
	i, err := parseEnum("parameter type", paramTypeNames, s)
	return ParamType(i), err
}

// Precision is a GLSL precision qualifier.
type Precision uint8

const (
	DefaultPrecision Precision = iota
	Low
	Medium
	High
)

var precisionNames = []string{"default", "low", "medium", "high"}

// String returns the precision name.
func (p Precision) String() string { return enumName(precisionNames, int(p)) }

// Qualifier returns the GLSL qualifier followed by a space, or "".
func (p Precision) Qualifier() string {
	switch p {
	case Low:
		return "lowp "
	case Medium:
		return "mediump "
	case High:
		return "highp "
	}
	return ""
}

// ParsePrecision parses a precision name; "" is the default precision.
func ParsePrecision(s string) (Precision, error) {
	if s == "" {
		return DefaultPrecision, nil
	}
	i, err := parseEnum("precision", precisionNames, s)
	return Precision(i), err
}

// SamplerFormat is the texel format class of a sampler.
type SamplerFormat uint8

const (
	FormatFloat SamplerFormat = iota
	FormatInt
	FormatUint
	FormatShadow
)

var samplerFormatNames = []string{"float", "int", "uint", "shadow"}

// String returns the format name.
func (f SamplerFormat) String() string { return enumName(samplerFormatNames, int(f)) }

// ParseSamplerFormat parses a sampler format name; "" is float.
func ParseSamplerFormat(s string) (SamplerFormat, error) {
	if s == "" {
		return FormatFloat, nil
	}
	i, err := parseEnum("sampler format", samplerFormatNames, s)
	return SamplerFormat(i), err
}

// Parameter is a user visible material input.
type Parameter struct {
	Name      string
	Type      ParamType
	Precision Precision

	// ArraySize is 0 for scalars.
	ArraySize int

	// Format only applies to samplers.
	Format SamplerFormat
}
