// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/matc/variant"
)

func TestBuilderDefaults(t *testing.T) {
	m, err := NewBuilder("plain").Build()
	require.NoError(t, err)

	assert.Equal(t, "plain", m.Name)
	assert.Equal(t, Lit, m.Shading)
	assert.Equal(t, Opaque, m.Blending)
	assert.Equal(t, Surface, m.Domain)
	assert.Equal(t, uint8(1), m.FeatureLevel)
	assert.True(t, m.RequiredAttributes.Has(Position))
	assert.True(t, m.Lit())
	assert.False(t, m.CustomDepth())
}

func TestCustomDepth(t *testing.T) {
	tests := []struct {
		name string
		b    *Builder
		want bool
	}{
		{"opaque", NewBuilder("m"), false},
		{"masked", NewBuilder("m").Blending(Masked), true},
		{"transparent", NewBuilder("m").Blending(Transparent), true},
		{"vertex body", NewBuilder("m").Vertex("material.worldPosition.x += 1.0;\n", 3), true},
		{"blank vertex body", NewBuilder("m").Vertex("  \n\t\n", 3), false},
		{"fragment body only", NewBuilder("m").Fragment("material.baseColor = vec4(1.0);\n", 3), false},
		{"custom output", NewBuilder("m").Output(Output{Name: "velocity", Type: Float2, Location: 1}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.b.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.CustomDepth())
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		b     *Builder
		field string
	}{
		{"bad name", NewBuilder("1abc"), "name"},
		{"feature level", NewBuilder("m").FeatureLevel(4), "featureLevel"},
		{"duplicate parameter", NewBuilder("m").
			Parameter(Parameter{Name: "tint", Type: Float4}).
			Parameter(Parameter{Name: "tint", Type: Float3}), "parameters"},
		{"sampler array", NewBuilder("m").Parameter(Parameter{Name: "tex", Type: Sampler2D, ArraySize: 2}), "parameters"},
		{"too many variables", NewBuilder("m").Variable("a").Variable("b").Variable("c").Variable("d").Variable("e"), "variables"},
		{"output location", NewBuilder("m").
			Output(Output{Name: "a", Type: Float4, Location: 1}).
			Output(Output{Name: "b", Type: Float4, Location: 1}), "outputs"},
		{"post process lit", NewBuilder("m").Domain(PostProcess), "shading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestBuilderParameterLimit(t *testing.T) {
	b := NewBuilder("m")
	for i := 0; i < MaxParameterCount; i++ {
		b.Parameter(Parameter{Name: "p" + string(rune('a'+i%26)) + string(rune('a'+i/26)), Type: Float})
	}
	require.NoError(t, b.Err())

	b.Parameter(Parameter{Name: "overflow", Type: Float})
	var cerr *ConfigError
	require.ErrorAs(t, b.Err(), &cerr)
	assert.Equal(t, "parameters", cerr.Field)
}

func TestBuilderKeepsFirstError(t *testing.T) {
	b := NewBuilder("m").FeatureLevel(0).Blending(Masked)
	_, err := b.Build()
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "featureLevel", cerr.Field)
}

func TestSamplersAndUniforms(t *testing.T) {
	m, err := NewBuilder("m").
		Parameter(Parameter{Name: "albedo", Type: Sampler2D}).
		Parameter(Parameter{Name: "tint", Type: Float4}).
		Parameter(Parameter{Name: "env", Type: SamplerCubemap}).
		Build()
	require.NoError(t, err)

	require.Len(t, m.Samplers(), 2)
	assert.Equal(t, "albedo", m.Samplers()[0].Name)
	assert.Equal(t, "env", m.Samplers()[1].Name)
	require.Len(t, m.Uniforms(), 1)
	assert.Equal(t, "tint", m.Uniforms()[0].Name)
}

func TestPropertyNames(t *testing.T) {
	assert.Equal(t, "BASE_COLOR", BaseColor.String())
	assert.Equal(t, "baseColor", BaseColor.Field())
	assert.Equal(t, "clearCoatRoughness", ClearCoatRoughness.Field())
	assert.Equal(t, "ior", IOR.Field())
	assert.Equal(t, "postLightingColor", PostLightingColor.Field())

	for p := Property(0); p < PropertyCount; p++ {
		got, ok := PropertyByField(p.Field())
		require.True(t, ok, p.String())
		assert.Equal(t, p, got)

		parsed, err := ParseProperty(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseProperty("sparkle")
	assert.Error(t, err)
}

func TestPropertySet(t *testing.T) {
	s := PropertiesOf(Roughness, BaseColor)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Property{BaseColor, Roughness}, s.Slice())
	assert.Equal(t, "{BASE_COLOR, ROUGHNESS}", s.String())
	assert.Equal(t, "{}", PropertySet(0).String())
	assert.True(t, s.Union(PropertiesOf(Emissive)).Has(Emissive))
}

func TestParseEnums(t *testing.T) {
	s, err := ParseShading("SpecularGlossiness")
	require.NoError(t, err)
	assert.Equal(t, SpecularGlossiness, s)

	b, err := ParseBlending("MASKED")
	require.NoError(t, err)
	assert.Equal(t, Masked, b)

	_, err = ParseDomain("volume")
	assert.Error(t, err)

	pt, err := ParseParamType("samplerCubemap")
	require.NoError(t, err)
	assert.Equal(t, "samplerCube", pt.GLSL())

	a, err := ParseAttribute("bone_weights")
	require.NoError(t, err)
	assert.Equal(t, BoneWeights, a)
}

const tomlMaterial = `[material]
name = "Brick"
shading = "lit"
blending = "masked"
requires = ["uv0", "tangents"]
variables = ["eyeDirection"]
variant_filter = ["skinning", "fog"]
properties = ["roughness"]

[[material.parameters]]
name = "albedo"
type = "sampler2d"

[[material.parameters]]
name = "tint"
type = "float4"
precision = "medium"

[fragment]
source = """
void material(inout MaterialInputs material) {
    prepareMaterial(material);
    material.baseColor = texture(materialParams_albedo, getUV0()) * materialParams.tint;
}
"""
`

func TestParseTOML(t *testing.T) {
	m, err := Parse([]byte(tomlMaterial), TOML, "")
	require.NoError(t, err)

	assert.Equal(t, "Brick", m.Name)
	assert.Equal(t, Masked, m.Blending)
	assert.True(t, m.RequiredAttributes.Has(UV0))
	assert.True(t, m.RequiredAttributes.Has(Tangents))
	assert.Equal(t, []string{"eyeDirection"}, m.Variables)
	assert.Equal(t, variant.SKN|variant.FOG, m.VariantFilter)
	assert.True(t, m.Properties.Has(Roughness))
	require.Len(t, m.Parameters, 2)
	assert.Equal(t, Medium, m.Parameters[1].Precision)

	// The body begins on the line after the opening quotes.
	assert.Equal(t, 21, m.Fragment.Line)
	assert.Contains(t, m.Fragment.Source, "material.baseColor")
}

const yamlMaterial = `material:
  name: Glow
  shading: unlit
  blending: add
  parameters:
    - name: strength
      type: float
fragment:
  source: |
    void material(inout MaterialInputs material) {
        prepareMaterial(material);
        material.emissive = vec4(materialParams.strength);
    }
`

func TestParseYAML(t *testing.T) {
	m, err := Parse([]byte(yamlMaterial), YAML, "")
	require.NoError(t, err)

	assert.Equal(t, "Glow", m.Name)
	assert.Equal(t, Unlit, m.Shading)
	assert.Equal(t, Add, m.Blending)
	assert.Equal(t, 10, m.Fragment.Line)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
	}{
		{"unknown key", TOML, "[material]\nname = \"m\"\ncolour = 1\n"},
		{"unknown yaml key", YAML, "material:\n  name: m\n  colour: 1\n"},
		{"bad shading", TOML, "[material]\nname = \"m\"\nshading = \"toon\"\n"},
		{"bad variant filter", TOML, "[material]\nname = \"m\"\nvariant_filter = [\"stereo\"]\n"},
		{"bad parameter type", TOML, "[material]\nname = \"m\"\n[[material.parameters]]\nname = \"x\"\ntype = \"half\"\n"},
		{"source and file", TOML, "[material]\nname = \"m\"\n[fragment]\nsource = \"x\"\nfile = \"y.glsl\"\n"},
		{"syntax", TOML, "[material\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), tt.format, "")
			assert.Error(t, err)
		})
	}
}

func TestLoadWithShaderFile(t *testing.T) {
	dir := t.TempDir()
	body := "void material(inout MaterialInputs material) {\n    prepareMaterial(material);\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "water.frag"), []byte(body), 0o644))
	src := "[material]\nname = \"Water\"\nblending = \"transparent\"\n\n[fragment]\nfile = \"water.frag\"\n"
	path := filepath.Join(dir, "water.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, body, m.Fragment.Source)
	assert.Equal(t, 1, m.Fragment.Line)
	assert.Equal(t, filepath.Join(dir, "water.frag"), m.Fragment.File)
	assert.True(t, m.CustomDepth())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("material.json")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{"a.toml": TOML, "b.mat": TOML, "c.yaml": YAML, "d.YML": YAML} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
