// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codegen

import "strings"

// reservedWords are GLSL keywords, reserved words and built-in type names
// that may not name a parameter, variable or output.
var reservedWords = func() map[string]struct{} {
	words := map[string]struct{}{}
	for _, group := range []string{
		// types
		"void bool int uint float double atomic_uint",
		"vec2 vec3 vec4 ivec2 ivec3 ivec4 uvec2 uvec3 uvec4 bvec2 bvec3 bvec4 dvec2 dvec3 dvec4",
		"mat2 mat3 mat4 mat2x2 mat2x3 mat2x4 mat3x2 mat3x3 mat3x4 mat4x2 mat4x3 mat4x4",
		"dmat2 dmat3 dmat4 dmat2x2 dmat2x3 dmat2x4 dmat3x2 dmat3x3 dmat3x4 dmat4x2 dmat4x3 dmat4x4",
		"sampler1D sampler2D sampler3D samplerCube sampler2DRect samplerBuffer sampler2DMS",
		"sampler1DArray sampler2DArray samplerCubeArray sampler2DMSArray samplerExternalOES",
		"sampler1DShadow sampler2DShadow samplerCubeShadow sampler2DRectShadow",
		"sampler1DArrayShadow sampler2DArrayShadow samplerCubeArrayShadow",
		"isampler2D isampler3D isamplerCube isampler2DArray usampler2D usampler3D usamplerCube usampler2DArray",
		"image2D image3D imageCube image2DArray iimage2D uimage2D",
		// storage and layout
		"const uniform buffer shared attribute varying in out inout layout",
		"centroid flat smooth noperspective patch sample invariant precise",
		"coherent volatile restrict readonly writeonly",
		"highp mediump lowp precision",
		// control flow
		"break continue do for while switch case default if else discard return",
		"struct subroutine true false",
		// reserved for future use
		"common partition active asm class union enum typedef template this goto",
		"inline noinline public static extern external interface",
		"long short half fixed unsigned superp input output",
		"hvec2 hvec3 hvec4 fvec2 fvec3 fvec4 filter sizeof cast namespace using",
	} {
		for _, w := range strings.Fields(group) {
			words[w] = struct{}{}
		}
	}
	return words
}()

// generatedNames are identifiers the generator declares itself.
var generatedNames = map[string]struct{}{
	"main": {}, "material": {}, "materialVertex": {}, "postProcess": {},
	"prepareMaterial": {}, "initMaterial": {}, "initMaterialVertex": {},
	"evaluateMaterial": {}, "shadowVisibility": {}, "skinPosition": {},
	"frameUniforms": {}, "objectUniforms": {}, "bonesUniforms": {},
	"lightsUniforms": {}, "materialParams": {}, "fragColor": {},
	"shading_normal": {}, "light_shadowMap": {},
}

// IsReserved reports whether name cannot be used for a user declared
// identifier.
func IsReserved(name string) bool {
	if _, ok := reservedWords[name]; ok {
		return true
	}
	if _, ok := generatedNames[name]; ok {
		return true
	}
	return strings.HasPrefix(name, "gl_") || strings.Contains(name, "__")
}
