// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

// fakeFrontEnd compiles by hashing: SPIR-V is a magic word and a checksum of
// the source, transpiled text embeds the checksum.
type fakeFrontEnd struct {
	mu        sync.Mutex
	fail      func(frontend.Request) bool
	binary    bool
	empty     bool
	requests  []frontend.Request
	optimized int
}

func (f *fakeFrontEnd) Parse(_ context.Context, req frontend.Request) (*frontend.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.fail != nil && f.fail(req) {
		return nil, &frontend.CompileError{Tool: "fake", Log: "ERROR: 0:1: rejected"}
	}
	res := &frontend.Result{}
	if req.SPIRV {
		res.SPIRV = []uint32{0x07230203, crc32.ChecksumIEEE([]byte(req.Source))}
	}
	return res, nil
}

func (f *fakeFrontEnd) Optimize(_ context.Context, words []uint32, _ frontend.Optimization) ([]uint32, error) {
	f.mu.Lock()
	f.optimized++
	f.mu.Unlock()
	return append([]uint32(nil), words...), nil
}

func (f *fakeFrontEnd) Transpile(_ context.Context, words []uint32, target frontend.Target) (*frontend.Output, error) {
	sum := words[len(words)-1]
	if f.empty {
		return &frontend.Output{}, nil
	}
	if target.Language == frontend.MSL && f.binary {
		return &frontend.Output{Binary: []byte(fmt.Sprintf("metallib %08x", sum))}, nil
	}
	return &frontend.Output{Text: fmt.Sprintf("// transpiled %s %s\nvoid main() {}\n// %08x\n", target.Language, target.Stage, sum)}, nil
}

// parsedKeys returns the variant keys of every parsed program, read back
// from request names of the form material/model/api/key/stage.
func (f *fakeFrontEnd) parsedKeys() map[variant.Key]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := map[variant.Key]bool{}
	for _, r := range f.requests {
		parts := strings.Split(r.Name, "/")
		if len(parts) != 5 {
			continue
		}
		var k variant.Key
		for _, name := range strings.Split(parts[3], "|") {
			for bit := variant.Key(1); bit != 0; bit <<= 1 {
				if bit.String() == name {
					k |= bit
				}
			}
		}
		keys[k] = true
	}
	return keys
}

const bodyWritingBaseColor = `void material(inout MaterialInputs material) {
    prepareMaterial(material);
    material.baseColor = materialParams.tint;
}
`

func newMaterial(t *testing.T, configure ...func(*material.Builder)) *material.Material {
	t.Helper()
	b := material.NewBuilder("painted").
		Parameter(material.Parameter{Name: "tint", Type: material.Float4}).
		Parameter(material.Parameter{Name: "albedo", Type: material.Sampler2D}).
		Fragment(bodyWritingBaseColor, 3)
	for _, fn := range configure {
		fn(b)
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func runBuild(t *testing.T, m *material.Material, fe frontend.FrontEnd, opts Options) *Package {
	t.Helper()
	b := New(m, fe, opts)
	require.NoError(t, b.Prepare())
	pkg, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, b.State())
	return pkg
}

func parsePackage(t *testing.T, pkg *Package) chunk.Package {
	t.Helper()
	parsed, err := chunk.Parse(pkg.Bytes)
	require.NoError(t, err)
	return parsed
}

func findBool(t *testing.T, p chunk.Package, tag chunk.Tag) bool {
	t.Helper()
	raw, ok := p.Find(tag)
	require.True(t, ok, "missing %s", tag)
	v, err := raw.Bool()
	require.NoError(t, err)
	return v
}

func TestStateTransitions(t *testing.T) {
	m := newMaterial(t)

	b := New(m, &fakeFrontEnd{}, Options{})
	_, err := b.Build(context.Background())
	assert.ErrorIs(t, err, ErrState)
	assert.Equal(t, Idle, b.State())

	require.NoError(t, b.Prepare())
	assert.ErrorIs(t, b.Prepare(), ErrState)
	assert.Equal(t, PreparingPermutations, b.State())

	_, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, b.State())

	_, err = b.Build(context.Background())
	assert.ErrorIs(t, err, ErrState)
}

func TestPreparePermutations(t *testing.T) {
	m := newMaterial(t)
	tests := []struct {
		name     string
		platform variant.Platform
		api      variant.API
		want     int
	}{
		{"all", variant.PlatformAll, variant.AllAPIs, 4},
		{"desktop all", variant.PlatformDesktop, variant.AllAPIs, 2},
		{"mobile opengl", variant.PlatformMobile, variant.OpenGL, 1},
		{"all vulkan", variant.PlatformAll, variant.Vulkan, 2},
		{"desktop vulkan metal", variant.PlatformDesktop, variant.Vulkan | variant.Metal, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(m, &fakeFrontEnd{}, Options{Platform: tt.platform, API: tt.api})
			require.NoError(t, b.Prepare())
			assert.Len(t, b.Permutations(), tt.want)
		})
	}
}

func TestCustomDepthFlag(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*material.Builder)
		want      bool
	}{
		{"opaque", func(b *material.Builder) {}, false},
		{"masked", func(b *material.Builder) { b.Blending(material.Masked) }, true},
		{"transparent", func(b *material.Builder) { b.Blending(material.Transparent) }, true},
		{"vertex body", func(b *material.Builder) {
			b.Vertex("void materialVertex(inout MaterialVertexInputs material) {}\n", 1)
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMaterial(t, tt.configure)
			pkg := runBuild(t, m, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop})
			assert.True(t, pkg.Valid)
			assert.Equal(t, tt.want, findBool(t, parsePackage(t, pkg), chunk.MaterialCustomDepth))
		})
	}
}

func TestPartialFailure(t *testing.T) {
	fe := &fakeFrontEnd{fail: func(req frontend.Request) bool {
		return req.ShaderModel == variant.Desktop && req.CodeGen == variant.Vulkan && req.Stage == variant.Fragment
	}}
	pkg := runBuild(t, newMaterial(t), fe, Options{})

	assert.False(t, pkg.Valid)
	require.NotEmpty(t, pkg.Diagnostics)
	assert.Equal(t, len(pkg.Diagnostics), pkg.Stats.Failed)
	for _, d := range pkg.Diagnostics {
		assert.Equal(t, "painted", d.Material)
		assert.Equal(t, variant.Desktop, d.ShaderModel)
		assert.Equal(t, variant.Vulkan|variant.Metal, d.API)
		assert.Equal(t, variant.Fragment, d.Stage)
		assert.Contains(t, d.Source, "void main()")
		assert.Equal(t, "ERROR: 0:1: rejected", d.Log)
		var ce *frontend.CompileError
		assert.True(t, errors.As(d.Err, &ce))
	}

	parsed := parsePackage(t, pkg)
	assert.False(t, findBool(t, parsed, chunk.MaterialValid))
	for _, tag := range []chunk.Tag{chunk.DictionaryText, chunk.MaterialGLSL, chunk.DictionarySPIRV, chunk.MaterialSPIRV, chunk.MaterialMetal} {
		_, ok := parsed.Find(tag)
		assert.True(t, ok, "missing %s", tag)
	}

	raw, _ := parsed.Find(chunk.MaterialSPIRV)
	recs, err := raw.BinaryShaders()
	require.NoError(t, err)
	var desktopFragment, desktopVertex int
	for _, r := range recs {
		if r.ShaderModel != variant.Desktop {
			continue
		}
		if r.Stage == variant.Fragment {
			desktopFragment++
		} else {
			desktopVertex++
		}
	}
	assert.Zero(t, desktopFragment)
	assert.NotZero(t, desktopVertex)
}

func TestUnlitCollapsesLightingVariants(t *testing.T) {
	unlit := newMaterial(t, func(b *material.Builder) { b.Shading(material.Unlit) })
	lit := newMaterial(t)

	ufe := &fakeFrontEnd{}
	upkg := runBuild(t, unlit, ufe, Options{Platform: variant.PlatformDesktop, API: variant.Vulkan})
	lpkg := runBuild(t, lit, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop, API: variant.Vulkan})

	assert.Less(t, upkg.Stats.Cells, lpkg.Stats.Cells)

	keys := ufe.parsedKeys()
	assert.Less(t, len(keys), variant.Count)
	for k := range keys {
		assert.False(t, k.IsReserved(), "reserved key %s", k)
		if !k.IsDepth() {
			assert.Zero(t, k&variant.Lighting, "lighting bits in %s", k)
		}
	}

	raw, ok := parsePackage(t, upkg).Find(chunk.MaterialSPIRV)
	require.True(t, ok)
	recs, err := raw.BinaryShaders()
	require.NoError(t, err)
	for _, r := range recs {
		assert.False(t, r.Key.IsReserved())
	}
}

func TestShadowMultiplierKeepsLightingVariants(t *testing.T) {
	plain := newMaterial(t, func(b *material.Builder) { b.Shading(material.Unlit) })
	shadowed := newMaterial(t, func(b *material.Builder) { b.Shading(material.Unlit).ShadowMultiplier(true) })

	opts := Options{Platform: variant.PlatformMobile, API: variant.OpenGL}
	a := runBuild(t, plain, &fakeFrontEnd{}, opts)
	b := runBuild(t, shadowed, &fakeFrontEnd{}, opts)
	assert.Greater(t, b.Stats.Cells, a.Stats.Cells)
}

func TestVariantFilter(t *testing.T) {
	m := newMaterial(t, func(b *material.Builder) { b.VariantFilter(variant.SKN | variant.FOG) })
	fe := &fakeFrontEnd{}
	runBuild(t, m, fe, Options{Platform: variant.PlatformDesktop, API: variant.OpenGL})
	for k := range fe.parsedKeys() {
		assert.Zero(t, k&(variant.SKN|variant.FOG), "filtered bit in %s", k)
	}
}

func TestInferProperties(t *testing.T) {
	m := newMaterial(t, func(b *material.Builder) { b.Properties(material.Emissive) })

	pkg := runBuild(t, m, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop, InferProperties: true})
	assert.Equal(t, material.PropertiesOf(material.BaseColor, material.Emissive), pkg.Properties)

	raw, ok := parsePackage(t, pkg).Find(chunk.MaterialProperties)
	require.True(t, ok)
	v, err := raw.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(pkg.Properties), v)

	pkg = runBuild(t, m, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop})
	assert.Equal(t, material.PropertiesOf(material.Emissive), pkg.Properties)
}

func TestInferPropertiesAnalysisFailure(t *testing.T) {
	m := newMaterial(t, func(b *material.Builder) {
		b.Properties(material.Roughness)
		b.Fragment("void notMaterial(inout MaterialInputs material) {}\n", 1)
	})
	pkg := runBuild(t, m, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop, InferProperties: true})
	assert.Equal(t, material.PropertiesOf(material.Roughness), pkg.Properties)
}

func TestOptimizedOpenGL(t *testing.T) {
	fe := &fakeFrontEnd{}
	pkg := runBuild(t, newMaterial(t), fe, Options{
		Platform:     variant.PlatformMobile,
		API:          variant.OpenGL,
		Optimization: frontend.OptimizeSize,
	})
	assert.Equal(t, pkg.Stats.Cells, fe.optimized)
	assert.Equal(t, pkg.Stats.Cells, pkg.Stats.GLSL)

	parsed := parsePackage(t, pkg)
	dictRaw, ok := parsed.Find(chunk.DictionaryText)
	require.True(t, ok)
	segments, err := dictRaw.TextDictionary()
	require.NoError(t, err)
	raw, ok := parsed.Find(chunk.MaterialGLSL)
	require.True(t, ok)
	recs, err := raw.TextShaders(segments)
	require.NoError(t, err)
	require.Len(t, recs, pkg.Stats.Cells)
	for _, r := range recs {
		assert.True(t, strings.HasPrefix(r.Text, "// transpiled glsl"), r.Text)
	}
	_, ok = parsed.Find(chunk.MaterialSPIRV)
	assert.False(t, ok)
}

func TestUnoptimizedOpenGLKeepsGeneratedSource(t *testing.T) {
	fe := &fakeFrontEnd{}
	pkg := runBuild(t, newMaterial(t), fe, Options{Platform: variant.PlatformDesktop, API: variant.OpenGL})
	assert.Zero(t, fe.optimized)

	parsed := parsePackage(t, pkg)
	dictRaw, _ := parsed.Find(chunk.DictionaryText)
	segments, err := dictRaw.TextDictionary()
	require.NoError(t, err)
	raw, _ := parsed.Find(chunk.MaterialGLSL)
	recs, err := raw.TextShaders(segments)
	require.NoError(t, err)
	for _, r := range recs {
		assert.True(t, strings.HasPrefix(r.Text, "#version 410 core"), r.Text)
	}
}

func TestMetalBinaries(t *testing.T) {
	fe := &fakeFrontEnd{binary: true}
	pkg := runBuild(t, newMaterial(t), fe, Options{Platform: variant.PlatformDesktop, API: variant.Metal})

	parsed := parsePackage(t, pkg)
	for tag, want := range map[chunk.Tag]bool{
		chunk.DictionaryBinary: true,
		chunk.MaterialBinary:   true,
		chunk.MaterialMetal:    false,
		chunk.MaterialSPIRV:    false,
		chunk.MaterialGLSL:     false,
		chunk.DictionaryText:   false,
	} {
		_, ok := parsed.Find(tag)
		assert.Equal(t, want, ok, "%s", tag)
	}
	assert.Equal(t, pkg.Stats.Cells, pkg.Stats.Binary)
}

func TestEmptyTranspileFailsProgram(t *testing.T) {
	for _, api := range []variant.API{variant.Metal, variant.OpenGL} {
		t.Run(api.String(), func(t *testing.T) {
			fe := &fakeFrontEnd{empty: true}
			pkg := runBuild(t, newMaterial(t), fe, Options{
				Platform:     variant.PlatformDesktop,
				API:          api,
				Optimization: frontend.OptimizePerformance,
			})

			assert.False(t, pkg.Valid)
			assert.Equal(t, pkg.Stats.Cells, pkg.Stats.Failed)
			require.Len(t, pkg.Diagnostics, pkg.Stats.Cells)
			for _, d := range pkg.Diagnostics {
				assert.ErrorIs(t, d.Err, ErrEmptyOutput)
			}
			assert.False(t, findBool(t, parsePackage(t, pkg), chunk.MaterialValid))
		})
	}
}

func TestPostProcessUsesBaseKey(t *testing.T) {
	m, err := material.NewBuilder("tonemap").
		Domain(material.PostProcess).
		Shading(material.Unlit).
		Build()
	require.NoError(t, err)

	fe := &fakeFrontEnd{}
	pkg := runBuild(t, m, fe, Options{})
	assert.Equal(t, 4*2, pkg.Stats.Cells)
	assert.Equal(t, map[variant.Key]bool{0: true}, fe.parsedKeys())
}

func TestInterfaceBlocks(t *testing.T) {
	m := newMaterial(t, func(b *material.Builder) { b.Blending(material.Masked) })
	pkg := runBuild(t, m, &fakeFrontEnd{}, Options{Platform: variant.PlatformDesktop})

	ifce, ok := parsePackage(t, pkg).Find(chunk.MaterialInterface)
	require.True(t, ok)
	children, err := ifce.Children()
	require.NoError(t, err)

	raw, ok := children.Find(chunk.UniformInterfaceBlock)
	require.True(t, ok)
	uib, err := raw.UniformBlock()
	require.NoError(t, err)
	require.Len(t, uib.Fields, 2)
	assert.Equal(t, "tint", uib.Fields[0].Name)
	assert.Equal(t, "_maskThreshold", uib.Fields[1].Name)

	raw, ok = children.Find(chunk.SamplerInterfaceBlock)
	require.True(t, ok)
	sib, err := raw.SamplerBlock()
	require.NoError(t, err)
	require.Len(t, sib.Samplers, 1)
	assert.Equal(t, "albedo", sib.Samplers[0].Name)
	assert.Equal(t, uint8(6), sib.Samplers[0].Binding)
}

func TestShaderModelsChunk(t *testing.T) {
	pkg := runBuild(t, newMaterial(t), &fakeFrontEnd{}, Options{Platform: variant.PlatformMobile})
	raw, ok := parsePackage(t, pkg).Find(chunk.MaterialShaderModels)
	require.True(t, ok)
	mask, err := raw.Uint32()
	require.NoError(t, err)
	assert.Equal(t, []variant.ShaderModel{variant.Mobile}, ShaderModels(mask))
	assert.Equal(t, []variant.ShaderModel{variant.Mobile, variant.Desktop}, ShaderModels(3))
}

func TestDeterministicOutput(t *testing.T) {
	m := newMaterial(t)
	first := runBuild(t, m, &fakeFrontEnd{}, Options{Workers: 1})
	for i := 0; i < 3; i++ {
		again := runBuild(t, m, &fakeFrontEnd{}, Options{Workers: 8})
		require.Equal(t, first.Bytes, again.Bytes)
	}

	size, err := first.Chunks.ComputeSize()
	require.NoError(t, err)
	assert.Equal(t, len(first.Bytes), size)
}

func TestConfigError(t *testing.T) {
	m := &material.Material{
		Name:       "broken",
		Shading:    material.Lit,
		Parameters: []material.Parameter{{Name: "main", Type: material.Float}},
	}
	b := New(m, &fakeFrontEnd{}, Options{})
	require.NoError(t, b.Prepare())
	_, err := b.Build(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, ErrConfig))
	assert.Equal(t, Failed, b.State())
}

func TestCanceledBuild(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(newMaterial(t), &fakeFrontEnd{}, Options{})
	require.NoError(t, b.Prepare())
	_, err := b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, b.State())
}

func TestErrorString(t *testing.T) {
	err := newError(ErrSerialization, errors.New("too many entries"), "material %q", "x")
	assert.Equal(t, `build Serialization: material "x": too many entries`, err.Error())
	assert.True(t, IsKind(err, ErrSerialization))
	assert.False(t, IsKind(errors.New("plain"), ErrSerialization))

	d := Diagnostic{
		Material:    "x",
		ShaderModel: variant.Desktop,
		API:         variant.Vulkan,
		Key:         variant.DIR | variant.FOG,
		Stage:       variant.Fragment,
		Err:         &frontend.CompileError{Tool: "fake", Log: "line 1\nline 2"},
	}
	assert.Equal(t, "x: desktop/vulkan key DIR|FOG fragment: frontend: fake failed", d.String())
}
