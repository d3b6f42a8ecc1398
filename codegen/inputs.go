// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codegen

import "github.com/gogpu/matc/material"

// inputField is a MaterialInputs member with its default value.
type inputField struct {
	typ, init string
}

var inputFields = [material.PropertyCount]inputField{
	material.BaseColor:           {"vec4", "vec4(1.0)"},
	material.Roughness:           {"float", "1.0"},
	material.Metallic:            {"float", "0.0"},
	material.Reflectance:         {"float", "0.5"},
	material.AmbientOcclusion:    {"float", "1.0"},
	material.ClearCoat:           {"float", "1.0"},
	material.ClearCoatRoughness:  {"float", "0.0"},
	material.ClearCoatNormal:     {"vec3", "vec3(0.0, 0.0, 1.0)"},
	material.Anisotropy:          {"float", "0.0"},
	material.AnisotropyDirection: {"vec3", "vec3(1.0, 0.0, 0.0)"},
	material.Thickness:           {"float", "0.5"},
	material.SubsurfacePower:     {"float", "12.234"},
	material.SubsurfaceColor:     {"vec3", "vec3(1.0)"},
	material.SheenColor:          {"vec3", "vec3(0.0)"},
	material.SheenRoughness:      {"float", "0.0"},
	material.SpecularColor:       {"vec3", "vec3(0.0)"},
	material.Glossiness:          {"float", "0.0"},
	material.Emissive:            {"vec4", "vec4(0.0)"},
	material.Normal:              {"vec3", "vec3(0.0, 0.0, 1.0)"},
	material.PostLightingColor:   {"vec4", "vec4(0.0)"},
	material.Absorption:          {"vec3", "vec3(0.0)"},
	material.Transmission:        {"float", "1.0"},
	material.IOR:                 {"float", "1.5"},
	material.MicroThickness:      {"float", "0.0"},
	material.BentNormal:          {"vec3", "vec3(0.0, 0.0, 1.0)"},
}

// writeMaterialInputs declares the MaterialInputs struct and initMaterial.
// Every property is a member so user code compiles whatever it assigns;
// the MATERIAL_HAS_ defines tell the shading code which ones matter.
func (w *source) writeMaterialInputs() {
	w.writeLine("struct MaterialInputs {")
	w.pushIndent()
	for p := material.Property(0); p < material.PropertyCount; p++ {
		w.writeLine("%s %s;", inputFields[p].typ, p.Field())
	}
	w.popIndent()
	w.writeLine("};")
	w.writeLine("")

	w.writeLine("void initMaterial(out MaterialInputs material) {")
	w.pushIndent()
	for p := material.Property(0); p < material.PropertyCount; p++ {
		w.writeLine("material.%s = %s;", p.Field(), inputFields[p].init)
	}
	w.popIndent()
	w.writeLine("}")
	w.writeLine("")
}
