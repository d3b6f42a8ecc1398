// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/matc/analyzer"
	"github.com/gogpu/matc/glslscan"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

const paintedBody = `void material(inout MaterialInputs material) {
    prepareMaterial(material);
    material.baseColor = texture(materialParams_albedo, vertex_uv01.xy) * materialParams.tint;
    material.roughness = materialParams.roughness;
}
`

var (
	desktopVulkan = variant.Permutation{ShaderModel: variant.Desktop, API: variant.Vulkan | variant.Metal, CodeGen: variant.Vulkan}
	desktopGL     = variant.Permutation{ShaderModel: variant.Desktop, API: variant.OpenGL, CodeGen: variant.OpenGL}
	mobileGL      = variant.Permutation{ShaderModel: variant.Mobile, API: variant.OpenGL, CodeGen: variant.OpenGL}
	mobileVulkan  = variant.Permutation{ShaderModel: variant.Mobile, API: variant.Vulkan, CodeGen: variant.Vulkan}
)

func litMaterial(t *testing.T, configure ...func(*material.Builder)) *material.Material {
	t.Helper()
	b := material.NewBuilder("painted").
		Parameter(material.Parameter{Name: "tint", Type: material.Float4, Precision: material.Medium}).
		Parameter(material.Parameter{Name: "roughness", Type: material.Float}).
		Parameter(material.Parameter{Name: "albedo", Type: material.Sampler2D}).
		Require(material.UV0).
		Fragment(paintedBody, 12)
	for _, fn := range configure {
		fn(b)
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func newGenerator(t *testing.T, m *material.Material, props material.PropertySet) *Generator {
	t.Helper()
	g, err := New(m, props)
	require.NoError(t, err)
	return g
}

func TestVersionFor(t *testing.T) {
	tests := []struct {
		perm variant.Permutation
		want string
	}{
		{desktopGL, "410 core"},
		{mobileGL, "300 es"},
		{desktopVulkan, "450 core"},
		{mobileVulkan, "310 es"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VersionFor(tt.perm).String(), tt.perm.String())
	}
}

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"float", "sampler2D", "gl_Position", "a__b", "material", "fragColor", "precise"} {
		assert.True(t, IsReserved(name), name)
	}
	for _, name := range []string{"tint", "albedo", "roughness", "_private"} {
		assert.False(t, IsReserved(name), name)
	}
}

func TestNewRejectsReservedNames(t *testing.T) {
	m, err := material.NewBuilder("bad").
		Parameter(material.Parameter{Name: "uniform", Type: material.Float}).
		Build()
	require.NoError(t, err)
	_, err = New(m, 0)
	assert.True(t, errors.Is(err, ErrReservedName))

	m, err = material.NewBuilder("bad").Variable("worldNormal").Build()
	require.NoError(t, err)
	_, err = New(m, 0)
	assert.True(t, errors.Is(err, ErrReservedName))
}

func TestGenerateFragment(t *testing.T) {
	props := material.PropertiesOf(material.BaseColor, material.Roughness)
	g := newGenerator(t, litMaterial(t), props)

	src, err := g.Generate(desktopVulkan, variant.DIR|variant.FOG, variant.Fragment)
	require.NoError(t, err)

	for _, want := range []string{
		"#version 450 core\n",
		"#define TARGET_VULKAN_ENVIRONMENT\n",
		"#define SHADER_MODEL_DESKTOP\n",
		"#define SHADER_STAGE_FRAGMENT\n",
		"#define VARIANT_HAS_DIRECTIONAL_LIGHTING\n",
		"#define VARIANT_HAS_FOG\n",
		"#define SHADING_MODEL_LIT\n",
		"#define BLEND_MODE_OPAQUE\n",
		"#define MATERIAL_HAS_BASE_COLOR\n",
		"#define MATERIAL_HAS_ROUGHNESS\n",
		"layout(std140, binding = 4) uniform MaterialParams {\n    mediump vec4 tint;\n    float roughness;\n} materialParams;",
		"layout(binding = 6) uniform sampler2D materialParams_albedo;",
		"layout(location = 2) in vec4 vertex_uv01;",
		"layout(location = 0) out vec4 fragColor;",
		"#line 12\n" + paintedBody,
		"fragColor = evaluateMaterial(inputs);",
		"exp(-frameUniforms.fogDensity * fogDistance)",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "#if")
	assert.NotContains(t, src, "VARIANT_HAS_SKINNING_OR_MORPHING")
	assert.NotContains(t, src, "shadowVisibility")
}

func TestGenerateMobileGL(t *testing.T) {
	g := newGenerator(t, litMaterial(t), 0)

	src, err := g.Generate(mobileGL, variant.DYN|variant.SRE, variant.Fragment)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "#version 300 es\n"))
	assert.Contains(t, src, "precision highp float;")
	assert.Contains(t, src, "layout(std140) uniform MaterialParams {")
	assert.Contains(t, src, "uniform highp sampler2D materialParams_albedo;")
	assert.Contains(t, src, "uniform highp sampler2DShadow light_shadowMap;")
	assert.Contains(t, src, "\nin vec4 vertex_lightSpacePosition;")
	assert.Contains(t, src, "lightsUniforms.count")
	assert.NotContains(t, src, "binding =")
}

func TestGenerateVertex(t *testing.T) {
	m := litMaterial(t, func(b *material.Builder) {
		b.Require(material.Tangents).Variable("tangentFrame").
			Vertex("void materialVertex(inout MaterialVertexInputs material) {\n    material.tangentFrame = vec4(1.0);\n}\n", 30)
	})
	g := newGenerator(t, m, 0)

	src, err := g.Generate(desktopGL, variant.SKN|variant.SRE, variant.Vertex)
	require.NoError(t, err)
	for _, want := range []string{
		"#version 410 core\n",
		"layout(location = 0) in vec4 mesh_position;",
		"layout(location = 1) in vec4 mesh_tangents;",
		"layout(location = 3) in vec2 mesh_uv0;",
		"layout(location = 5) in uvec4 mesh_bone_indices;",
		"layout(location = 6) in vec4 mesh_bone_weights;",
		"layout(location = 5) out vec4 variable_tangentFrame;",
		"layout(std140) uniform BonesUniforms {",
		"position = skinPosition(position);",
		"#line 30\n",
		"materialVertex(material);",
		"variable_tangentFrame = material.tangentFrame;",
		"vertex_lightSpacePosition = frameUniforms.lightFromWorldMatrix * material.worldPosition;",
	} {
		assert.Contains(t, src, want)
	}
}

func TestGenerateDepth(t *testing.T) {
	g := newGenerator(t, litMaterial(t), 0)

	for _, key := range []variant.Key{variant.DEP, variant.DEP | variant.PCK, variant.DEP | variant.VSM} {
		for _, stage := range variant.Stages {
			got, err := g.Generate(desktopVulkan, key.ForStage(stage), stage)
			require.NoError(t, err)
			assert.Equal(t, Depth(desktopVulkan, key.ForStage(stage), stage), got)
			assert.NotContains(t, got, "MaterialParams")
		}
	}

	pick := Depth(desktopVulkan, variant.DEP|variant.PCK, variant.Fragment)
	assert.Contains(t, pick, "out highp uvec2 outPicking;")
	assert.Contains(t, pick, "floatBitsToUint(gl_FragCoord.z)")

	vsm := Depth(desktopVulkan, variant.DEP|variant.VSM, variant.Fragment)
	assert.Contains(t, vsm, "outMoments = vec4(depth, depth * depth, 0.0, 0.0);")

	skinned := Depth(mobileGL, variant.DEP|variant.SKN, variant.Vertex)
	assert.Contains(t, skinned, "layout(location = 5) in uvec4 mesh_bone_indices;")
	assert.Contains(t, skinned, "skinPosition")
}

func TestGenerateCustomDepth(t *testing.T) {
	m := litMaterial(t, func(b *material.Builder) { b.Blending(material.Masked) })
	g := newGenerator(t, m, 0)

	src, err := g.Generate(desktopVulkan, variant.DEP, variant.Fragment)
	require.NoError(t, err)
	assert.NotEqual(t, Depth(desktopVulkan, variant.DEP, variant.Fragment), src)
	assert.Contains(t, src, "float _maskThreshold;")
	assert.Contains(t, src, "if (inputs.baseColor.a < materialParams._maskThreshold) {")
	assert.NotContains(t, src, "fragColor")

	uniforms := g.Uniforms()
	require.Len(t, uniforms, 3)
	assert.Equal(t, MaskThreshold, uniforms[2].Name)
}

func TestGenerateCustomOutputs(t *testing.T) {
	m := litMaterial(t, func(b *material.Builder) {
		b.Output(material.Output{Name: "albedoOut", Type: material.Float4, Location: 0})
	})
	g := newGenerator(t, m, 0)

	src, err := g.Generate(desktopVulkan, 0, variant.Fragment)
	require.NoError(t, err)
	assert.Contains(t, src, "layout(location = 0) out vec4 albedoOut;")
	assert.NotContains(t, src, "fragColor")

	pick, err := g.Generate(desktopVulkan, variant.DEP|variant.PCK, variant.Fragment)
	require.NoError(t, err)
	assert.Contains(t, pick, "layout(location = 1) out highp uvec2 outPicking;")
}

func TestGeneratePostProcess(t *testing.T) {
	m, err := material.NewBuilder("tonemap").
		Domain(material.PostProcess).
		Shading(material.Unlit).
		Fragment("void postProcess(inout PostProcessInputs postProcess) {\n    postProcess.color = vec4(1.0);\n}\n", 4).
		Build()
	require.NoError(t, err)
	g := newGenerator(t, m, 0)

	frag, err := g.Generate(desktopVulkan, 0, variant.Fragment)
	require.NoError(t, err)
	assert.Contains(t, frag, "#define SHADING_MODEL_UNLIT")
	assert.Contains(t, frag, "postProcess(inputs);")
	assert.Contains(t, frag, "fragColor = inputs.color;")

	vert, err := g.Generate(desktopVulkan, 0, variant.Vertex)
	require.NoError(t, err)
	assert.Contains(t, vert, "vertex_uv = mesh_position.xy * 0.5 + 0.5;")
}

func TestGenerateReservedKey(t *testing.T) {
	g := newGenerator(t, litMaterial(t), 0)
	_, err := g.Generate(desktopVulkan, variant.PCK, variant.Fragment)
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestGenerateDefaultBody(t *testing.T) {
	m, err := material.NewBuilder("plain").Build()
	require.NoError(t, err)
	g := newGenerator(t, m, 0)

	src, err := g.Generate(desktopVulkan, 0, variant.Fragment)
	require.NoError(t, err)
	assert.Contains(t, src, "void material(inout MaterialInputs material) {\n    prepareMaterial(material);\n}")
}

func TestFragmentPrelude(t *testing.T) {
	g := newGenerator(t, litMaterial(t), 0)
	prelude := g.FragmentPrelude(desktopVulkan, 0)
	full, err := g.Generate(desktopVulkan, 0, variant.Fragment)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, prelude))
	assert.True(t, strings.HasSuffix(prelude, paintedBody+"\n"))
}

// The scanner accepts every generated program, so the analyzer can run on
// any of them.
func TestGeneratedProgramsParse(t *testing.T) {
	m := litMaterial(t, func(b *material.Builder) {
		b.Blending(material.Masked).Require(material.Color).Variable("extra")
	})
	g := newGenerator(t, m, material.PropertiesOf(material.BaseColor, material.Emissive, material.Normal))

	for _, perm := range []variant.Permutation{desktopVulkan, mobileGL} {
		for _, key := range variant.Valid() {
			for _, stage := range variant.Stages {
				if key.ForStage(stage) != key {
					continue
				}
				src, err := g.Generate(perm, key, stage)
				require.NoError(t, err)
				_, err = glslscan.Parse(src)
				require.NoError(t, err, "%s %v %v", perm, key, stage)
			}
		}
	}
}

func TestAnalysisSource(t *testing.T) {
	g := newGenerator(t, litMaterial(t), 0)
	unit, err := glslscan.Parse(g.AnalysisSource())
	require.NoError(t, err)

	props, err := analyzer.Infer(unit)
	require.NoError(t, err)
	assert.Equal(t, material.PropertiesOf(material.BaseColor, material.Roughness), props)
}
