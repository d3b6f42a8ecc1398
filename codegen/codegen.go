// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package codegen generates the GLSL programs of a material: one vertex and
// one fragment program per (permutation, variant key).
//
// Programs are plain GLSL without preprocessor conditionals. Features
// selected by the variant key are written or left out by the generator,
// and defines such as VARIANT_HAS_FOG and MATERIAL_HAS_BASE_COLOR are
// emitted for user code that wants to test them.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

// Resource bindings used when the target supports explicit bindings.
const (
	BindingFrame = iota
	BindingObject
	BindingBones
	BindingLights
	BindingMaterialParams
	BindingShadowMap

	// FirstSamplerBinding is the binding of the first material sampler.
	FirstSamplerBinding
)

// MaterialParamsBlock is the name of the material uniform block.
const MaterialParamsBlock = "MaterialParams"

// MaskThreshold is the implicit uniform added to masked materials.
const MaskThreshold = "_maskThreshold"

// maxBones is the size of the bone matrix array.
const maxBones = 64

// maxLights is the size of the dynamic light arrays.
const maxLights = 16

var (
	// ErrReservedName is returned for user identifiers that collide with
	// GLSL or with generated declarations.
	ErrReservedName = errors.New("reserved name")

	// ErrInvalidKey is returned for reserved variant keys.
	ErrInvalidKey = errors.New("invalid variant key")
)

// vertexInputNames are the predefined MaterialVertexInputs members.
var vertexInputNames = map[string]bool{
	"worldPosition": true, "worldNormal": true, "color": true, "uv0": true, "uv1": true,
}

// Generator writes the programs of one material.
type Generator struct {
	m     *material.Material
	props material.PropertySet
}

// New returns a generator for m. props is the full property set, declared
// and inferred, emitted as MATERIAL_HAS_ defines.
func New(m *material.Material, props material.PropertySet) (*Generator, error) {
	for _, p := range m.Parameters {
		if IsReserved(p.Name) {
			return nil, fmt.Errorf("codegen: parameter %q: %w", p.Name, ErrReservedName)
		}
	}
	for _, v := range m.Variables {
		if IsReserved(v) || vertexInputNames[v] {
			return nil, fmt.Errorf("codegen: variable %q: %w", v, ErrReservedName)
		}
	}
	for _, o := range m.Outputs {
		if IsReserved(o.Name) {
			return nil, fmt.Errorf("codegen: output %q: %w", o.Name, ErrReservedName)
		}
	}
	return &Generator{m: m, props: props}, nil
}

// Uniforms returns the members of the material uniform block in order,
// including implicit ones.
func (g *Generator) Uniforms() []material.Parameter {
	params := g.m.Uniforms()
	if g.m.Blending == material.Masked {
		params = append(params, material.Parameter{Name: MaskThreshold, Type: material.Float})
	}
	return params
}

// SamplerBinding returns the binding of the i-th material sampler.
func SamplerBinding(i int) int {
	return FirstSamplerBinding + i
}

// Generate returns the program for one cell. Depth keys of materials that
// do not need custom depth get the fixed program from Depth.
func (g *Generator) Generate(perm variant.Permutation, key variant.Key, stage variant.Stage) (string, error) {
	if key.IsReserved() {
		return "", fmt.Errorf("codegen: %v: %w", key, ErrInvalidKey)
	}
	if g.m.Domain == material.PostProcess {
		if stage == variant.Vertex {
			return g.postProcessVertex(perm, key), nil
		}
		return g.postProcessFragment(perm, key), nil
	}
	if key.IsDepth() && !g.m.CustomDepth() {
		return Depth(perm, key, stage), nil
	}
	if stage == variant.Vertex {
		return g.surfaceVertex(perm, key), nil
	}
	w := g.surfaceFragmentPrelude(perm, key)
	g.writeFragmentEpilogue(w, key)
	return w.String(), nil
}

// FragmentPrelude returns the fragment program up to the user body,
// ending with the #line directive for it.
func (g *Generator) FragmentPrelude(perm variant.Permutation, key variant.Key) string {
	if g.m.Domain == material.PostProcess {
		return g.postProcessPrelude(perm, key).String()
	}
	return g.surfaceFragmentPrelude(perm, key).String()
}

// AnalysisSource returns a complete desktop Vulkan fragment program for
// the base key, used to infer the properties the body writes.
func (g *Generator) AnalysisSource() string {
	perm := variant.Permutation{ShaderModel: variant.Desktop, API: variant.Vulkan, CodeGen: variant.Vulkan}
	src, _ := g.Generate(perm, 0, variant.Fragment)
	return src
}

// source accumulates generated code.
type source struct {
	out    strings.Builder
	indent int
	perm   variant.Permutation
}

func newSource(perm variant.Permutation) *source {
	return &source{perm: perm}
}

func (w *source) String() string {
	return w.out.String()
}

func (w *source) writeLine(format string, args ...any) {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *source) pushIndent() { w.indent++ }

func (w *source) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// writeBody copies a user body verbatim after a #line directive.
func (w *source) writeBody(body material.Shader) {
	line := body.Line
	if line < 1 {
		line = 1
	}
	w.writeLine("#line %d", line)
	w.out.WriteString(body.Source)
	if !strings.HasSuffix(body.Source, "\n") {
		w.out.WriteByte('\n')
	}
	w.writeLine("")
}

// Bodies used when a material has no fragment code.
const (
	defaultMaterial    = "void material(inout MaterialInputs material) {\n    prepareMaterial(material);\n}\n"
	defaultPostProcess = "void postProcess(inout PostProcessInputs postProcess) {\n}\n"
)

func fragmentBody(body material.Shader, def string) material.Shader {
	if body.Empty() {
		return material.Shader{Source: def, Line: 1}
	}
	return body
}

var keyDefines = [...]struct {
	bit  variant.Key
	name string
}{
	{variant.DIR, "VARIANT_HAS_DIRECTIONAL_LIGHTING"},
	{variant.DYN, "VARIANT_HAS_DYNAMIC_LIGHTING"},
	{variant.SRE, "VARIANT_HAS_SHADOWING"},
	{variant.SKN, "VARIANT_HAS_SKINNING_OR_MORPHING"},
	{variant.DEP, "VARIANT_IS_DEPTH"},
	{variant.FOG, "VARIANT_HAS_FOG"},
	{variant.PCK, "VARIANT_HAS_PICKING"},
	{variant.VSM, "VARIANT_HAS_VSM"},
}

// writeHeader writes the version line, target defines and variant defines.
func (w *source) writeHeader(key variant.Key, stage variant.Stage, extensions ...string) {
	version := VersionFor(w.perm)
	w.writeLine("#version %s", version)
	for _, ext := range extensions {
		w.writeLine("#extension %s : require", ext)
	}
	w.writeLine("")
	if w.perm.CodeGen == variant.OpenGL {
		w.writeLine("#define TARGET_GL_ENVIRONMENT")
	} else {
		w.writeLine("#define TARGET_VULKAN_ENVIRONMENT")
	}
	w.writeLine("#define SHADER_MODEL_%s", strings.ToUpper(w.perm.ShaderModel.String()))
	w.writeLine("#define SHADER_STAGE_%s", strings.ToUpper(stage.String()))
	for _, d := range keyDefines {
		if key.Has(d.bit) {
			w.writeLine("#define %s", d.name)
		}
	}
	w.writeLine("")
	if version.ES {
		w.writeLine("precision highp float;")
		w.writeLine("precision highp int;")
		w.writeLine("")
	}
}

func (g *Generator) writeMaterialDefines(w *source) {
	w.writeLine("#define SHADING_MODEL_%s", strcase.ToScreamingSnake(g.m.Shading.String()))
	w.writeLine("#define BLEND_MODE_%s", strings.ToUpper(g.m.Blending.String()))
	if g.m.DoubleSided {
		w.writeLine("#define MATERIAL_HAS_DOUBLE_SIDED_CAPABILITY")
	}
	if g.m.ShadowMultiplier {
		w.writeLine("#define MATERIAL_HAS_SHADOW_MULTIPLIER")
	}
	for _, p := range g.props.Slice() {
		w.writeLine("#define MATERIAL_HAS_%s", p)
	}
	for _, a := range g.m.RequiredAttributes.Slice() {
		w.writeLine("#define HAS_ATTRIBUTE_%s", strings.ToUpper(a.String()))
	}
	w.writeLine("")
}

// writeBlock writes a std140 uniform block.
func (w *source) writeBlock(name string, binding int, instance string, members ...string) {
	if explicitBindings(w.perm) {
		w.writeLine("layout(std140, binding = %d) uniform %s {", binding, name)
	} else {
		w.writeLine("layout(std140) uniform %s {", name)
	}
	w.pushIndent()
	for _, m := range members {
		w.writeLine("%s;", m)
	}
	w.popIndent()
	w.writeLine("} %s;", instance)
	w.writeLine("")
}

func (w *source) writeFrameUniforms() {
	w.writeBlock("FrameUniforms", BindingFrame, "frameUniforms",
		"mat4 clipFromWorldMatrix",
		"mat4 lightFromWorldMatrix",
		"vec4 cameraPosition",
		"vec4 lightDirection",
		"vec4 lightColorIntensity",
		"vec4 fogColor",
		"float fogDensity",
		"float time",
	)
}

func (w *source) writeObjectUniforms() {
	w.writeBlock("ObjectUniforms", BindingObject, "objectUniforms",
		"mat4 worldFromModelMatrix",
		"uint objectId",
	)
}

func (w *source) writeBonesUniforms() {
	w.writeBlock("BonesUniforms", BindingBones, "bonesUniforms",
		fmt.Sprintf("mat4 bones[%d]", maxBones),
	)
}

func (w *source) writeLightsUniforms() {
	w.writeBlock("LightsUniforms", BindingLights, "lightsUniforms",
		fmt.Sprintf("vec4 positionFalloff[%d]", maxLights),
		fmt.Sprintf("vec4 colorIntensity[%d]", maxLights),
		"int count",
	)
}

// writeSampler declares one sampler uniform.
func (w *source) writeSampler(typ, name string, binding int) {
	if explicitBindings(w.perm) {
		w.writeLine("layout(binding = %d) uniform %s %s;", binding, typ, name)
	} else {
		w.writeLine("uniform %s %s;", typ, name)
	}
}

// writeVarying declares a stage interface variable.
func (w *source) writeVarying(dir string, location int, typ, name string) {
	if varyingLocations(w.perm) {
		w.writeLine("layout(location = %d) %s %s %s;", location, dir, typ, name)
	} else {
		w.writeLine("%s %s %s;", dir, typ, name)
	}
}

func (g *Generator) writeMaterialParams(w *source) {
	if params := g.Uniforms(); len(params) > 0 {
		members := make([]string, len(params))
		for i, p := range params {
			members[i] = p.Precision.Qualifier() + p.Type.GLSL() + " " + p.Name
			if p.ArraySize > 0 {
				members[i] += fmt.Sprintf("[%d]", p.ArraySize)
			}
		}
		w.writeBlock(MaterialParamsBlock, BindingMaterialParams, "materialParams", members...)
	}
	samplers := g.m.Samplers()
	for i, p := range samplers {
		w.writeSampler(samplerDecl(p, VersionFor(w.perm).ES), "materialParams_"+p.Name, SamplerBinding(i))
	}
	if len(samplers) > 0 {
		w.writeLine("")
	}
}

// samplerDecl returns the precision qualified GLSL sampler type.
func samplerDecl(p material.Parameter, es bool) string {
	var typ string
	switch p.Type {
	case material.Sampler2D:
		typ = formatted(p.Format, "sampler2D", "sampler2DShadow")
	case material.Sampler2DArray:
		typ = formatted(p.Format, "sampler2DArray", "sampler2DArrayShadow")
	case material.Sampler3D:
		typ = formatted(p.Format, "sampler3D", "sampler3D")
	case material.SamplerCubemap:
		typ = formatted(p.Format, "samplerCube", "samplerCubeShadow")
	case material.SamplerExternal:
		typ = "sampler2D"
		if es {
			typ = "samplerExternalOES"
		}
	}
	prec := p.Precision.Qualifier()
	if prec == "" && es {
		prec = "highp "
	}
	return prec + typ
}

func formatted(f material.SamplerFormat, float, shadow string) string {
	switch f {
	case material.FormatInt:
		return "i" + float
	case material.FormatUint:
		return "u" + float
	case material.FormatShadow:
		return shadow
	}
	return float
}

func (g *Generator) extensions(perm variant.Permutation) []string {
	if !VersionFor(perm).ES {
		return nil
	}
	for _, p := range g.m.Samplers() {
		if p.Type == material.SamplerExternal {
			return []string{"GL_OES_EGL_image_external_essl3"}
		}
	}
	return nil
}

// varyings describes the interface between the surface stages.
type varyings struct {
	normal, uv, color, shadow bool
}

const (
	locWorldPosition = iota
	locWorldNormal
	locUV01
	locColor
	locLightSpacePosition
	locFirstVariable
)

func (g *Generator) varyingsFor(key variant.Key) varyings {
	attrs := g.m.RequiredAttributes
	return varyings{
		normal: g.m.Lit() && !key.IsDepth(),
		uv:     attrs.Has(material.UV0) || attrs.Has(material.UV1),
		color:  attrs.Has(material.Color),
		shadow: key.Has(variant.SRE),
	}
}

func (g *Generator) writeVaryings(w *source, dir string, v varyings) {
	w.writeVarying(dir, locWorldPosition, "vec3", "vertex_worldPosition")
	if v.normal {
		w.writeVarying(dir, locWorldNormal, "vec3", "vertex_worldNormal")
	}
	if v.uv {
		w.writeVarying(dir, locUV01, "vec4", "vertex_uv01")
	}
	if v.color {
		w.writeVarying(dir, locColor, "vec4", "vertex_color")
	}
	if v.shadow {
		w.writeVarying(dir, locLightSpacePosition, "vec4", "vertex_lightSpacePosition")
	}
	for i, name := range g.m.Variables {
		w.writeVarying(dir, locFirstVariable+i, "vec4", "variable_"+name)
	}
	w.writeLine("")
}

// writeAttributes declares vertex inputs at their attribute index.
func writeAttributes(w *source, attrs material.AttributeSet) {
	for _, a := range attrs.Slice() {
		w.writeLine("layout(location = %d) in %s mesh_%s;", int(a), a.GLSL(), a)
	}
	w.writeLine("")
}

func writeSkinning(w *source) {
	w.writeLine("vec4 skinPosition(vec4 position) {")
	w.pushIndent()
	w.writeLine("mat4 skin = bonesUniforms.bones[mesh_bone_indices.x] * mesh_bone_weights.x")
	w.writeLine("        + bonesUniforms.bones[mesh_bone_indices.y] * mesh_bone_weights.y")
	w.writeLine("        + bonesUniforms.bones[mesh_bone_indices.z] * mesh_bone_weights.z")
	w.writeLine("        + bonesUniforms.bones[mesh_bone_indices.w] * mesh_bone_weights.w;")
	w.writeLine("return skin * position;")
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

func (g *Generator) surfaceVertex(perm variant.Permutation, key variant.Key) string {
	w := newSource(perm)
	w.writeHeader(key, variant.Vertex, g.extensions(perm)...)
	g.writeMaterialDefines(w)

	attrs := g.m.RequiredAttributes.Add(material.Position)
	skinned := key.Has(variant.SKN)
	if skinned {
		attrs = attrs.Add(material.BoneIndices).Add(material.BoneWeights)
	}
	writeAttributes(w, attrs)

	v := g.varyingsFor(key)
	g.writeVaryings(w, "out", v)

	w.writeFrameUniforms()
	w.writeObjectUniforms()
	if skinned {
		w.writeBonesUniforms()
	}
	g.writeMaterialParams(w)

	w.writeLine("struct MaterialVertexInputs {")
	w.pushIndent()
	w.writeLine("vec4 worldPosition;")
	w.writeLine("vec3 worldNormal;")
	w.writeLine("vec4 color;")
	w.writeLine("vec2 uv0;")
	w.writeLine("vec2 uv1;")
	for _, name := range g.m.Variables {
		w.writeLine("vec4 %s;", name)
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")

	if skinned {
		writeSkinning(w)
	}

	w.writeLine("void initMaterialVertex(out MaterialVertexInputs material) {")
	w.pushIndent()
	w.writeLine("vec4 position = mesh_position;")
	if skinned {
		w.writeLine("position = skinPosition(position);")
	}
	w.writeLine("material.worldPosition = objectUniforms.worldFromModelMatrix * position;")
	if attrs.Has(material.Tangents) {
		w.writeLine("material.worldNormal = normalize(mat3(objectUniforms.worldFromModelMatrix) * mesh_tangents.xyz);")
	} else {
		w.writeLine("material.worldNormal = vec3(0.0, 0.0, 1.0);")
	}
	attr := func(a material.Attribute, field, def string) {
		if attrs.Has(a) {
			w.writeLine("material.%s = mesh_%s;", field, a)
		} else {
			w.writeLine("material.%s = %s;", field, def)
		}
	}
	attr(material.Color, "color", "vec4(1.0)")
	attr(material.UV0, "uv0", "vec2(0.0)")
	attr(material.UV1, "uv1", "vec2(0.0)")
	for _, name := range g.m.Variables {
		w.writeLine("material.%s = vec4(0.0);", name)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")

	custom := !g.m.Vertex.Empty()
	if custom {
		w.writeBody(g.m.Vertex)
	}

	w.writeLine("void main() {")
	w.pushIndent()
	w.writeLine("MaterialVertexInputs material;")
	w.writeLine("initMaterialVertex(material);")
	if custom {
		w.writeLine("materialVertex(material);")
	}
	w.writeLine("vertex_worldPosition = material.worldPosition.xyz;")
	if v.normal {
		w.writeLine("vertex_worldNormal = material.worldNormal;")
	}
	if v.uv {
		w.writeLine("vertex_uv01 = vec4(material.uv0, material.uv1);")
	}
	if v.color {
		w.writeLine("vertex_color = material.color;")
	}
	if v.shadow {
		w.writeLine("vertex_lightSpacePosition = frameUniforms.lightFromWorldMatrix * material.worldPosition;")
	}
	for _, name := range g.m.Variables {
		w.writeLine("variable_%s = material.%s;", name, name)
	}
	w.writeLine("gl_Position = frameUniforms.clipFromWorldMatrix * material.worldPosition;")
	w.popIndent()
	w.writeLine("}")
	return w.String()
}

// writeOutputs declares the custom outputs and returns whether location 0
// is still free.
func (g *Generator) writeOutputs(w *source) bool {
	free := true
	for _, o := range g.m.Outputs {
		w.writeLine("layout(location = %d) out %s %s;", o.Location, o.Type.GLSL(), o.Name)
		if o.Location == 0 {
			free = false
		}
	}
	return free
}

// freeLocation returns the lowest output location no custom output uses.
func (g *Generator) freeLocation() int {
	used := make(map[int]bool, len(g.m.Outputs))
	for _, o := range g.m.Outputs {
		used[o.Location] = true
	}
	loc := 0
	for used[loc] {
		loc++
	}
	return loc
}

// surfaceFragmentPrelude writes everything before the user body.
func (g *Generator) surfaceFragmentPrelude(perm variant.Permutation, key variant.Key) *source {
	w := newSource(perm)
	w.writeHeader(key, variant.Fragment, g.extensions(perm)...)
	g.writeMaterialDefines(w)

	v := g.varyingsFor(key)
	g.writeVaryings(w, "in", v)

	w.writeFrameUniforms()
	if key.Has(variant.PCK) {
		w.writeObjectUniforms()
	}
	if key.Has(variant.DYN) && g.m.Lit() {
		w.writeLightsUniforms()
	}
	g.writeMaterialParams(w)
	if key.Has(variant.SRE) {
		shadowMap := "sampler2DShadow"
		if key.Has(variant.VSM) {
			shadowMap = "sampler2D"
		}
		if VersionFor(perm).ES {
			shadowMap = "highp " + shadowMap
		}
		w.writeSampler(shadowMap, "light_shadowMap", BindingShadowMap)
		w.writeLine("")
	}

	fragColor := g.writeOutputs(w)
	switch {
	case key.Has(variant.PCK):
		w.writeLine("layout(location = %d) out highp uvec2 outPicking;", g.freeLocation())
	case key.IsDepth() && key.Has(variant.VSM):
		w.writeLine("layout(location = %d) out highp vec4 outMoments;", g.freeLocation())
	case !key.IsDepth() && fragColor:
		w.writeLine("layout(location = 0) out vec4 fragColor;")
	}
	w.writeLine("")

	if v.normal {
		w.writeLine("vec3 shading_normal;")
		w.writeLine("")
	}
	w.writeMaterialInputs()

	w.writeLine("void prepareMaterial(const MaterialInputs material) {")
	w.pushIndent()
	if v.normal {
		w.writeLine("shading_normal = normalize(vertex_worldNormal);")
		if g.props.Has(material.Normal) {
			w.writeLine("shading_normal = normalize(shading_normal + material.normal - vec3(0.0, 0.0, 1.0));")
		}
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")

	if v.shadow {
		g.writeShadowVisibility(w, key)
	}
	if !key.IsDepth() {
		g.writeEvaluate(w, key, v)
	}

	w.writeBody(fragmentBody(g.m.Fragment, defaultMaterial))
	return w
}

func (g *Generator) writeShadowVisibility(w *source, key variant.Key) {
	w.writeLine("float shadowVisibility() {")
	w.pushIndent()
	w.writeLine("vec3 p = vertex_lightSpacePosition.xyz / vertex_lightSpacePosition.w;")
	w.writeLine("p = p * 0.5 + 0.5;")
	if key.Has(variant.VSM) {
		w.writeLine("vec2 moments = texture(light_shadowMap, p.xy).xy;")
		w.writeLine("if (p.z <= moments.x) {")
		w.writeLine("    return 1.0;")
		w.writeLine("}")
		w.writeLine("float variance = max(moments.y - moments.x * moments.x, 0.00002);")
		w.writeLine("float d = p.z - moments.x;")
		w.writeLine("return variance / (variance + d * d);")
	} else {
		w.writeLine("return texture(light_shadowMap, p);")
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

func (g *Generator) writeEvaluate(w *source, key variant.Key, v varyings) {
	w.writeLine("vec4 evaluateMaterial(const MaterialInputs material) {")
	w.pushIndent()
	w.writeLine("vec4 color = material.baseColor;")
	if g.m.Lit() {
		w.writeLine("vec3 light = vec3(0.03) * material.ambientOcclusion;")
		if key.Has(variant.DIR) {
			w.writeLine("float NoL = max(dot(shading_normal, -frameUniforms.lightDirection.xyz), 0.0);")
			if v.shadow {
				w.writeLine("NoL *= shadowVisibility();")
			}
			w.writeLine("light += frameUniforms.lightColorIntensity.rgb * (frameUniforms.lightColorIntensity.w * NoL);")
		}
		if key.Has(variant.DYN) {
			w.writeLine("for (int i = 0; i < lightsUniforms.count; i++) {")
			w.pushIndent()
			w.writeLine("vec3 l = lightsUniforms.positionFalloff[i].xyz - vertex_worldPosition;")
			w.writeLine("float attenuation = 1.0 / (1.0 + dot(l, l) * lightsUniforms.positionFalloff[i].w);")
			w.writeLine("float NoL = max(dot(shading_normal, normalize(l)), 0.0);")
			w.writeLine("light += lightsUniforms.colorIntensity[i].rgb * (lightsUniforms.colorIntensity[i].w * attenuation * NoL);")
			w.popIndent()
			w.writeLine("}")
		}
		w.writeLine("color.rgb *= light;")
	} else if v.shadow {
		w.writeLine("color.rgb *= shadowVisibility();")
	}
	if g.props.Has(material.Emissive) {
		w.writeLine("color.rgb += material.emissive.rgb * material.emissive.a;")
	}
	if g.props.Has(material.PostLightingColor) {
		w.writeLine("color.rgb += material.postLightingColor.rgb * material.postLightingColor.a;")
	}
	if key.Has(variant.FOG) {
		w.writeLine("float fogDistance = length(vertex_worldPosition - frameUniforms.cameraPosition.xyz);")
		w.writeLine("color.rgb = mix(frameUniforms.fogColor.rgb, color.rgb, exp(-frameUniforms.fogDensity * fogDistance));")
	}
	w.writeLine("return color;")
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}

// writeFragmentEpilogue writes main after the user body.
func (g *Generator) writeFragmentEpilogue(w *source, key variant.Key) {
	v := g.varyingsFor(key)
	w.writeLine("void main() {")
	w.pushIndent()
	if v.normal {
		w.writeLine("shading_normal = normalize(vertex_worldNormal);")
	}
	w.writeLine("MaterialInputs inputs;")
	w.writeLine("initMaterial(inputs);")
	w.writeLine("material(inputs);")
	if g.m.Blending == material.Masked {
		w.writeLine("if (inputs.baseColor.a < materialParams.%s) {", MaskThreshold)
		w.writeLine("    discard;")
		w.writeLine("}")
	}
	switch {
	case key.Has(variant.PCK):
		w.writeLine("outPicking = uvec2(objectUniforms.objectId, floatBitsToUint(gl_FragCoord.z));")
	case key.IsDepth() && key.Has(variant.VSM):
		writeMoments(w)
	case key.IsDepth():
	case g.freeLocation() > 0:
		// A custom output owns location 0.
	default:
		w.writeLine("fragColor = evaluateMaterial(inputs);")
	}
	w.popIndent()
	w.writeLine("}")
}

func writeMoments(w *source) {
	w.writeLine("float depth = gl_FragCoord.z;")
	w.writeLine("outMoments = vec4(depth, depth * depth, 0.0, 0.0);")
}

// Depth returns the fixed depth-only program shared by every material
// without custom depth. It has no material parameters.
func Depth(perm variant.Permutation, key variant.Key, stage variant.Stage) string {
	w := newSource(perm)
	w.writeHeader(key, stage)
	if stage == variant.Vertex {
		skinned := key.Has(variant.SKN)
		attrs := material.AttributeSet(0).Add(material.Position)
		if skinned {
			attrs = attrs.Add(material.BoneIndices).Add(material.BoneWeights)
		}
		writeAttributes(w, attrs)
		w.writeFrameUniforms()
		w.writeObjectUniforms()
		if skinned {
			w.writeBonesUniforms()
			writeSkinning(w)
		}
		w.writeLine("void main() {")
		w.pushIndent()
		w.writeLine("vec4 position = mesh_position;")
		if skinned {
			w.writeLine("position = skinPosition(position);")
		}
		w.writeLine("gl_Position = frameUniforms.clipFromWorldMatrix * (objectUniforms.worldFromModelMatrix * position);")
		w.popIndent()
		w.writeLine("}")
		return w.String()
	}

	if key.Has(variant.PCK) {
		w.writeObjectUniforms()
		w.writeLine("layout(location = 0) out highp uvec2 outPicking;")
		w.writeLine("")
	} else if key.Has(variant.VSM) {
		w.writeLine("layout(location = 0) out highp vec4 outMoments;")
		w.writeLine("")
	}
	w.writeLine("void main() {")
	w.pushIndent()
	switch {
	case key.Has(variant.PCK):
		w.writeLine("outPicking = uvec2(objectUniforms.objectId, floatBitsToUint(gl_FragCoord.z));")
	case key.Has(variant.VSM):
		writeMoments(w)
	}
	w.popIndent()
	w.writeLine("}")
	return w.String()
}

func (g *Generator) postProcessVertex(perm variant.Permutation, key variant.Key) string {
	w := newSource(perm)
	w.writeHeader(key, variant.Vertex)
	g.writeMaterialDefines(w)
	w.writeLine("layout(location = 0) in vec4 mesh_position;")
	w.writeLine("")
	w.writeVarying("out", 0, "vec2", "vertex_uv")
	w.writeLine("")
	w.writeLine("void main() {")
	w.pushIndent()
	w.writeLine("vertex_uv = mesh_position.xy * 0.5 + 0.5;")
	w.writeLine("gl_Position = vec4(mesh_position.xy, 0.0, 1.0);")
	w.popIndent()
	w.writeLine("}")
	return w.String()
}

func (g *Generator) postProcessPrelude(perm variant.Permutation, key variant.Key) *source {
	w := newSource(perm)
	w.writeHeader(key, variant.Fragment, g.extensions(perm)...)
	g.writeMaterialDefines(w)
	w.writeVarying("in", 0, "vec2", "vertex_uv")
	w.writeLine("")
	w.writeFrameUniforms()
	g.writeMaterialParams(w)
	if g.writeOutputs(w) {
		w.writeLine("layout(location = 0) out vec4 fragColor;")
	}
	w.writeLine("")
	w.writeLine("struct PostProcessInputs {")
	w.writeLine("    vec4 color;")
	w.writeLine("};")
	w.writeLine("")
	w.writeBody(fragmentBody(g.m.Fragment, defaultPostProcess))
	return w
}

func (g *Generator) postProcessFragment(perm variant.Permutation, key variant.Key) string {
	w := g.postProcessPrelude(perm, key)
	w.writeLine("void main() {")
	w.pushIndent()
	w.writeLine("PostProcessInputs inputs;")
	w.writeLine("inputs.color = vec4(0.0);")
	w.writeLine("postProcess(inputs);")
	if g.freeLocation() == 0 {
		w.writeLine("fragColor = inputs.color;")
	}
	w.popIndent()
	w.writeLine("}")
	return w.String()
}
