// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/matc/glslscan"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/shaderast"
)

const header = `struct MaterialInputs {
    vec4 baseColor;
    float roughness;
    float metallic;
    vec3 normal;
    vec4 emissive;
    float clearCoat;
};

void prepareMaterial(inout MaterialInputs material) {
    material.normal = vec3(0.0, 0.0, 1.0);
}
`

func infer(t *testing.T, body string) (material.PropertySet, error) {
	t.Helper()
	unit, err := glslscan.Parse(header + body)
	require.NoError(t, err)
	return Infer(unit)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name string
		body string
		want material.PropertySet
	}{
		{
			name: "direct",
			body: `void material(inout MaterialInputs material) {
    material.baseColor = vec4(1.0);
}`,
			want: material.PropertiesOf(material.BaseColor),
		},
		{
			name: "swizzle after field",
			body: `void material(inout MaterialInputs material) {
    material.baseColor.rgb = vec3(1.0);
    material.roughness *= 0.5;
}`,
			want: material.PropertiesOf(material.BaseColor, material.Roughness),
		},
		{
			name: "read only",
			body: `void material(inout MaterialInputs material) {
    float r = material.roughness;
    vec4 c = material.baseColor * 2.0;
}`,
			want: 0,
		},
		{
			name: "inout helper",
			body: `void paint(inout MaterialInputs m) {
    m.baseColor = vec4(0.5);
}
void material(inout MaterialInputs material) {
    paint(material);
}`,
			want: material.PropertiesOf(material.BaseColor),
		},
		{
			name: "nested helpers",
			body: `void inner(out MaterialInputs m) {
    m.metallic = 1.0;
}
void outer(inout MaterialInputs m) {
    inner(m);
    m.emissive.a = 1.0;
}
void material(inout MaterialInputs material) {
    outer(material);
}`,
			want: material.PropertiesOf(material.Metallic, material.Emissive),
		},
		{
			name: "const helper",
			body: `float luma(const MaterialInputs m) {
    return dot(m.baseColor.rgb, vec3(0.3, 0.6, 0.1));
}
void material(inout MaterialInputs material) {
    float l = luma(material);
}`,
			want: 0,
		},
		{
			name: "single field forwarded to out",
			body: `void fill(out float v) {
    v = 1.0;
}
void material(inout MaterialInputs material) {
    fill(material.clearCoat);
}`,
			want: material.PropertiesOf(material.ClearCoat),
		},
		{
			name: "single field forwarded to in",
			body: `float twice(float v) {
    return v * 2.0;
}
void material(inout MaterialInputs material) {
    float x = twice(material.roughness);
}`,
			want: 0,
		},
		{
			name: "indexed field",
			body: `void material(inout MaterialInputs material) {
    material.baseColor[0] = 1.0;
}`,
			want: material.PropertiesOf(material.BaseColor),
		},
		{
			name: "unknown field",
			body: `void material(inout MaterialInputs material) {
    material.sparkle = 1.0;
}`,
			want: 0,
		},
		{
			name: "other variable",
			body: `void material(inout MaterialInputs material) {
    MaterialInputs copy;
    copy.metallic = 1.0;
}`,
			want: 0,
		},
		{
			name: "helper called twice",
			body: `void paint(inout MaterialInputs m) {
    m.roughness = 0.2;
}
void material(inout MaterialInputs material) {
    paint(material);
    paint(material);
    if (material.baseColor.a < 0.5) {
        material.metallic = 0.0;
    }
}`,
			want: material.PropertiesOf(material.Roughness, material.Metallic),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := infer(t, tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestInferSkipsPrepareMaterial(t *testing.T) {
	got, err := infer(t, `void material(inout MaterialInputs material) {
    prepareMaterial(material);
}`)
	require.NoError(t, err)
	assert.False(t, got.Has(material.Normal))
}

func TestInferExtraSkip(t *testing.T) {
	unit, err := glslscan.Parse(header + `void paint(inout MaterialInputs m) {
    m.baseColor = vec4(0.5);
}
void material(inout MaterialInputs material) {
    paint(material);
}`)
	require.NoError(t, err)

	got, err := New(unit, "paint").Entry(EntrySignature, EntryName, 0)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestInferReadOnlyEntry(t *testing.T) {
	got, err := infer(t, `void material(const MaterialInputs material) {
    material.baseColor = vec4(1.0);
}`)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestInferNameFallback(t *testing.T) {
	// An extra parameter changes the signature.
	got, err := infer(t, `void material(inout MaterialInputs material, float t) {
    material.metallic = t;
}`)
	require.NoError(t, err)
	assert.Equal(t, material.PropertiesOf(material.Metallic), got)
}

func TestInferErrors(t *testing.T) {
	t.Run("no entry", func(t *testing.T) {
		_, err := infer(t, "void main() { }")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEntryNotFound))

		var ae *Error
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, EntrySignature, ae.Function)
	})

	t.Run("entry without params", func(t *testing.T) {
		_, err := infer(t, "void material() { }")
		assert.True(t, errors.Is(err, ErrTooFewParams))
	})

	t.Run("callee too short", func(t *testing.T) {
		// The AST is built by hand: a well-formed source cannot call a
		// single-parameter overload with two arguments and name it.
		unit := &shaderast.TranslationUnit{Functions: []*shaderast.FunctionDefinition{
			{
				Name:   "helper",
				Params: []shaderast.Param{{Name: "x", Type: "float", Qualifier: shaderast.In}},
				Body:   &shaderast.Block{},
			},
			{
				Name:   "material",
				Params: []shaderast.Param{{Name: "material", Type: "MaterialInputs", Qualifier: shaderast.InOut}},
				Body: &shaderast.Block{Stmts: []shaderast.Node{
					&shaderast.FunctionCall{Callee: "helper", Args: []shaderast.Node{
						&shaderast.Literal{Value: "1.0"},
						&shaderast.Symbol{Name: "material", Type: "MaterialInputs"},
					}},
				}},
			},
		}}
		_, err := Infer(unit)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTooFewParams))
		assert.Contains(t, err.Error(), "helper(float) parameter 1")
	})
}

func TestChainOf(t *testing.T) {
	lhs := &shaderast.Swizzle{
		Base: &shaderast.Index{
			Base: &shaderast.FieldAccess{
				Base:  &shaderast.Symbol{Name: "material"},
				Field: "baseColor",
			},
			Index: &shaderast.Literal{Value: "0"},
		},
		Pattern: "xy",
	}
	c, ok := chainOf(lhs)
	require.True(t, ok)
	assert.Equal(t, "material", c.base)
	assert.Equal(t, "material.baseColor.xy", c.String())

	_, ok = chainOf(&shaderast.FunctionCall{Callee: "f"})
	assert.False(t, ok)
}
