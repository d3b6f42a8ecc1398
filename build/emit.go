// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build

import (
	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/codegen"
	"github.com/gogpu/matc/dict"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

// MaterialVersion is the package format version written to MAT_VERS.
const MaterialVersion = 1

// Package is a compiled material.
type Package struct {
	// Chunks is the top-level chunk list Bytes was flattened from.
	Chunks *chunk.List

	Bytes []byte

	// Valid is false when any program failed.
	Valid bool

	Diagnostics []Diagnostic

	// Properties is the declared and inferred property set.
	Properties material.PropertySet

	Stats Stats
}

// Stats summarizes a build.
type Stats struct {
	Permutations int
	Cells        int
	Failed       int

	GLSL   int
	Metal  int
	SPIRV  int
	Binary int

	Text        dict.TextStats
	SPIRVBlobs  int
	BinaryBlobs int
	SPIRVBytes  int
	BinaryBytes int
	Size        int
}

// emit assembles the package from the cell outputs, in cell order.
func (b *Builder) emit(gen *codegen.Generator, props material.PropertySet, cells []cell, outputs []output) (*Package, error) {
	text := dict.NewText()
	spirv := dict.NewBlob()
	binary := dict.NewBlob()

	var (
		glslRecs   []chunk.TextRecord
		metalRecs  []chunk.TextRecord
		spirvRecs  []chunk.BinaryRecord
		binaryRecs []chunk.BinaryRecord
		diags      []Diagnostic
	)
	for i, out := range outputs {
		c := cells[i]
		rec := chunk.Record{ShaderModel: c.perm.ShaderModel, Key: c.key, Stage: c.stage}
		if out.diag != nil {
			diags = append(diags, *out.diag)
			continue
		}
		if out.glsl != "" {
			text.AddText(out.glsl)
			glslRecs = append(glslRecs, chunk.TextRecord{Record: rec, Text: out.glsl})
		}
		if out.metal != "" {
			text.AddText(out.metal)
			metalRecs = append(metalRecs, chunk.TextRecord{Record: rec, Text: out.metal})
		}
		if out.spirv != nil {
			spirvRecs = append(spirvRecs, chunk.BinaryRecord{Record: rec, Blob: spirv.AddWords(out.spirv)})
		}
		if out.binary != nil {
			binaryRecs = append(binaryRecs, chunk.BinaryRecord{Record: rec, Blob: binary.Add(out.binary)})
		}
	}
	valid := len(diags) == 0

	list := &chunk.List{}
	b.writeScalars(list, props, valid)
	list.Add(b.interfaceBlocks(gen))

	if len(glslRecs) > 0 || len(metalRecs) > 0 {
		list.Add(chunk.TextDictionary{ID: chunk.DictionaryText, Dict: text})
	}
	if len(glslRecs) > 0 {
		list.Add(chunk.TextShaders{ID: chunk.MaterialGLSL, Dict: text, Records: glslRecs})
	}
	if len(metalRecs) > 0 {
		list.Add(chunk.TextShaders{ID: chunk.MaterialMetal, Dict: text, Records: metalRecs})
	}
	if len(spirvRecs) > 0 {
		list.Add(chunk.BlobDictionary{ID: chunk.DictionarySPIRV, Dict: spirv})
		list.Add(chunk.BinaryShaders{ID: chunk.MaterialSPIRV, Records: spirvRecs})
	}
	if len(binaryRecs) > 0 {
		list.Add(chunk.BlobDictionary{ID: chunk.DictionaryBinary, Dict: binary})
		list.Add(chunk.BinaryShaders{ID: chunk.MaterialBinary, Records: binaryRecs})
	}

	data, err := list.Bytes()
	if err != nil {
		return nil, err
	}

	for _, d := range diags {
		b.log.Error("program failed", "diagnostic", d.String())
	}

	return &Package{
		Chunks:      list,
		Bytes:       data,
		Valid:       valid,
		Diagnostics: diags,
		Properties:  props,
		Stats: Stats{
			Permutations: len(b.perms),
			Cells:        len(cells),
			Failed:       len(diags),
			GLSL:         len(glslRecs),
			Metal:        len(metalRecs),
			SPIRV:        len(spirvRecs),
			Binary:       len(binaryRecs),
			Text:         text.Stats(),
			SPIRVBlobs:   spirv.Len(),
			BinaryBlobs:  binary.Len(),
			SPIRVBytes:   spirv.Size(),
			BinaryBytes:  binary.Size(),
			Size:         len(data),
		},
	}, nil
}

// writeScalars adds the material description chunks.
func (b *Builder) writeScalars(list *chunk.List, props material.PropertySet, valid bool) {
	m := b.m
	var models uint32
	for _, p := range b.perms {
		models |= 1 << (p.ShaderModel - 1)
	}

	list.Add(chunk.Uint32{ID: chunk.MaterialVersion, Value: MaterialVersion})
	list.Add(chunk.String{ID: chunk.MaterialName, Value: m.Name})
	list.Add(chunk.Uint8{ID: chunk.MaterialShading, Value: uint8(m.Shading)})
	list.Add(chunk.Uint8{ID: chunk.MaterialBlending, Value: uint8(m.Blending)})
	list.Add(chunk.Uint8{ID: chunk.MaterialDomain, Value: uint8(m.Domain)})
	list.Add(chunk.Uint32{ID: chunk.MaterialRequiredAttributes, Value: uint32(m.RequiredAttributes)})
	list.Add(chunk.Uint8{ID: chunk.MaterialFeatureLevel, Value: m.FeatureLevel})
	list.Add(chunk.Uint64{ID: chunk.MaterialProperties, Value: uint64(props)})
	list.Add(chunk.Bool{ID: chunk.MaterialCustomDepth, Value: m.CustomDepth()})
	list.Add(chunk.Uint8{ID: chunk.MaterialVariantFilter, Value: uint8(m.VariantFilter)})
	list.Add(chunk.Uint32{ID: chunk.MaterialShaderModels, Value: models})
	list.Add(chunk.Bool{ID: chunk.MaterialDoubleSided, Value: m.DoubleSided})
	list.Add(chunk.Bool{ID: chunk.MaterialValid, Value: valid})
}

// interfaceBlocks describes the material uniform block and samplers.
func (b *Builder) interfaceBlocks(gen *codegen.Generator) *chunk.Container {
	uib := chunk.UniformBlock{Name: codegen.MaterialParamsBlock}
	for _, p := range gen.Uniforms() {
		uib.Fields = append(uib.Fields, chunk.UniformField{
			Name:      p.Name,
			ArraySize: uint32(p.ArraySize),
			Type:      uint8(p.Type),
			Precision: uint8(p.Precision),
		})
	}
	sib := chunk.SamplerBlock{Name: codegen.MaterialParamsBlock}
	for i, p := range b.m.Samplers() {
		sib.Samplers = append(sib.Samplers, chunk.SamplerField{
			Name:      p.Name,
			Binding:   uint8(codegen.SamplerBinding(i)),
			Type:      uint8(p.Type),
			Format:    uint8(p.Format),
			Precision: uint8(p.Precision),
		})
	}
	c := &chunk.Container{ID: chunk.MaterialInterface}
	c.Children.Add(uib)
	c.Children.Add(sib)
	return c
}

// ShaderModels decodes the MAT_SHML bitmask.
func ShaderModels(mask uint32) []variant.ShaderModel {
	var models []variant.ShaderModel
	for _, m := range [...]variant.ShaderModel{variant.Mobile, variant.Desktop} {
		if mask&(1<<(m-1)) != 0 {
			models = append(models, m)
		}
	}
	return models
}
