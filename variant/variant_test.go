// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservedKeys(t *testing.T) {
	valid := Valid()
	assert.Len(t, valid, 54)

	standard, depth := 0, 0
	for _, k := range valid {
		if k.IsDepth() {
			depth++
		} else {
			standard++
		}
	}
	assert.Equal(t, 48, standard)
	assert.Equal(t, 6, depth)

	tests := []struct {
		key      Key
		reserved bool
	}{
		{0, false},
		{DIR | DYN | SRE | SKN | FOG, false},
		{SRE | VSM, false},
		{VSM, true},
		{PCK, true},
		{DEP, false},
		{DEP | PCK, false},
		{DEP | VSM | SKN, false},
		{DEP | PCK | VSM, true},
		{DEP | DIR, true},
		{DEP | FOG, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.reserved, tt.key.IsReserved(), "key %s", tt.key)
	}
}

func TestForStage(t *testing.T) {
	k := DIR | SRE | FOG | VSM
	assert.Equal(t, DIR|SRE, k.ForStage(Vertex))
	assert.Equal(t, k, k.ForStage(Fragment))
	assert.False(t, k.AppliesTo(Vertex))
	assert.True(t, k.AppliesTo(Fragment))

	d := DEP | SKN | PCK
	assert.Equal(t, DEP|SKN, d.ForStage(Vertex))
	assert.Equal(t, DEP|PCK, d.ForStage(Fragment))
	assert.False(t, d.AppliesTo(Vertex))
	assert.False(t, d.AppliesTo(Fragment))

	s := DIR | SKN
	assert.True(t, s.AppliesTo(Vertex))
	assert.False(t, s.AppliesTo(Fragment))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "0", Key(0).String())
	assert.Equal(t, "DIR|SRE|VSM", (DIR | SRE | VSM).String())
}

func TestCanonicalizerUnlit(t *testing.T) {
	c := DefaultCanonicalizer()

	lit := c.Select(0, true, false)
	unlit := c.Select(0, false, false)
	shadowed := c.Select(0, false, true)

	assert.Len(t, lit, 54)
	assert.Len(t, shadowed, 54)
	assert.Less(t, len(unlit), Count)
	assert.Len(t, unlit, 10)

	for _, k := range unlit {
		assert.False(t, k.IsReserved(), "key %s", k)
		if !k.IsDepth() {
			assert.Zero(t, k&Lighting, "unlit key %s keeps lighting bits", k)
		}
	}

	assert.Equal(t, SKN|FOG, c.Canonical(DIR|SRE|SKN|FOG, false, false))
	assert.Equal(t, DIR|SRE, c.Canonical(DIR|SRE, true, false))
	assert.Equal(t, DEP|VSM, c.Canonical(DEP|VSM, false, false))
}

func TestCanonicalizerCustomPredicate(t *testing.T) {
	c := Canonicalizer{
		Applies: func(lit, shadowMultiplier bool) bool { return !lit },
		Mask:    DIR | DYN,
	}
	keys := c.Select(0, false, true)
	for _, k := range keys {
		assert.Zero(t, k&(DIR|DYN))
	}
	assert.Contains(t, keys, SRE)
	assert.Contains(t, keys, SRE|VSM)

	none := Canonicalizer{}
	assert.Len(t, none.Select(0, false, false), 54)
}

func TestSelectExclude(t *testing.T) {
	keys := DefaultCanonicalizer().Select(SKN|FOG, true, false)
	for _, k := range keys {
		assert.Zero(t, k&(SKN|FOG))
	}
	assert.NotEmpty(t, keys)
}

func TestPermutations(t *testing.T) {
	all := Permutations(PlatformAll, AllAPIs)
	require.Len(t, all, 4)
	assert.Equal(t, Permutation{ShaderModel: Mobile, API: OpenGL, CodeGen: OpenGL}, all[0])
	assert.Equal(t, Permutation{ShaderModel: Mobile, API: Vulkan | Metal, CodeGen: Vulkan}, all[1])
	assert.Equal(t, Desktop, all[2].ShaderModel)

	metal := Permutations(PlatformDesktop, Metal)
	require.Len(t, metal, 1)
	assert.Equal(t, Permutation{ShaderModel: Desktop, API: Metal, CodeGen: Vulkan}, metal[0])

	gl := Permutations(PlatformAll, OpenGL)
	require.Len(t, gl, 2)
	for _, p := range gl {
		assert.Equal(t, OpenGL, p.API)
		assert.Equal(t, OpenGL, p.CodeGen)
	}

	two := Permutations(PlatformMobile, OpenGL|Vulkan)
	assert.Len(t, two, 2)
}

func TestParse(t *testing.T) {
	api, err := ParseAPI("opengl, metal")
	require.NoError(t, err)
	assert.Equal(t, OpenGL|Metal, api)

	api, err = ParseAPI("all")
	require.NoError(t, err)
	assert.Equal(t, AllAPIs, api)

	_, err = ParseAPI("d3d")
	assert.Error(t, err)
	_, err = ParseAPI("")
	assert.Error(t, err)

	p, err := ParsePlatform("Desktop")
	require.NoError(t, err)
	assert.Equal(t, PlatformDesktop, p)
	_, err = ParsePlatform("console")
	assert.Error(t, err)
}
