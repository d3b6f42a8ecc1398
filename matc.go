// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package matc compiles material descriptions into material packages.
//
// A material package holds every shader program a renderer may need for a
// material: one per target API, shader model, variant key and stage,
// deduplicated through text and blob dictionaries.
//
// Example usage:
//
//	m, err := material.Load("painted.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pkg, err := matc.Compile(ctx, m)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("painted.filamat", pkg.Bytes, 0o644)
//
// Compile shells out to glslangValidator, spirv-opt and spirv-cross. Use
// CompileWith to share one front end between builds or to supply another
// implementation of frontend.FrontEnd.
package matc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/matc/build"
	"github.com/gogpu/matc/chunk"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

// DefaultOptions returns options building for every platform and API with
// performance optimization and property inference.
func DefaultOptions() build.Options {
	return build.Options{
		Platform:        variant.PlatformAll,
		API:             variant.AllAPIs,
		Optimization:    frontend.OptimizePerformance,
		InferProperties: true,
	}
}

// Compile builds m with the default options.
func Compile(ctx context.Context, m *material.Material) (*build.Package, error) {
	return CompileWithOptions(ctx, m, DefaultOptions())
}

// CompileWithOptions builds m with the command line toolchain.
func CompileWithOptions(ctx context.Context, m *material.Material, opts build.Options) (*build.Package, error) {
	tc := frontend.NewToolchain()
	tc.Logger = opts.Logger
	return CompileWith(ctx, frontend.NewHandle(tc), m, opts)
}

// CompileFile loads and builds a material file.
func CompileFile(ctx context.Context, path string, opts build.Options) (*build.Package, error) {
	m, err := material.Load(path)
	if err != nil {
		return nil, err
	}
	return CompileWithOptions(ctx, m, opts)
}

// CompileWith builds m through a shared front end.
//
// When some programs fail the package is still returned, marked invalid,
// together with a build error of kind build.ErrCompile.
func CompileWith(ctx context.Context, h *frontend.Handle, m *material.Material, opts build.Options) (pkg *build.Package, err error) {
	fe, err := h.Acquire()
	if err != nil {
		return nil, fmt.Errorf("front end: %w", err)
	}
	defer func() {
		if rerr := h.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("front end: %w", rerr)
		}
	}()

	b := build.New(m, fe, opts)
	if err := b.Prepare(); err != nil {
		return nil, err
	}
	pkg, err = b.Build(ctx)
	if err != nil {
		return nil, err
	}
	if !pkg.Valid {
		return pkg, &build.Error{
			Kind:    build.ErrCompile,
			Message: fmt.Sprintf("%s: %d of %d programs failed", m.Name, pkg.Stats.Failed, pkg.Stats.Cells),
			Err:     pkg.Diagnostics[0].Err,
		}
	}
	return pkg, nil
}

// ErrNotMaterial is returned by Inspect for data without a material name.
var ErrNotMaterial = errors.New("matc: not a material package")

// Info describes a material package.
type Info struct {
	Name         string
	Version      uint32
	Shading      material.Shading
	Blending     material.Blending
	Domain       material.Domain
	Valid        bool
	CustomDepth  bool
	Properties   material.PropertySet
	ShaderModels []variant.ShaderModel

	// Chunks lists the top-level chunks in file order.
	Chunks []ChunkInfo

	// Programs counts the records of each shader chunk.
	Programs map[chunk.Tag]int
}

// ChunkInfo is one top-level chunk.
type ChunkInfo struct {
	Tag  chunk.Tag
	Size int
}

// Inspect decodes the description chunks of a package.
func Inspect(data []byte) (*Info, error) {
	pkg, err := chunk.Parse(data)
	if err != nil {
		return nil, err
	}
	name, ok := pkg.Find(chunk.MaterialName)
	if !ok {
		return nil, ErrNotMaterial
	}

	info := &Info{Programs: map[chunk.Tag]int{}}
	var d decoder
	info.Name = d.text(name)
	info.Version = d.u32(pkg, chunk.MaterialVersion)
	info.Shading = material.Shading(d.u8(pkg, chunk.MaterialShading))
	info.Blending = material.Blending(d.u8(pkg, chunk.MaterialBlending))
	info.Domain = material.Domain(d.u8(pkg, chunk.MaterialDomain))
	info.Valid = d.bool(pkg, chunk.MaterialValid)
	info.CustomDepth = d.bool(pkg, chunk.MaterialCustomDepth)
	info.Properties = material.PropertySet(d.u64(pkg, chunk.MaterialProperties))
	info.ShaderModels = build.ShaderModels(d.u32(pkg, chunk.MaterialShaderModels))
	if d.err != nil {
		return nil, d.err
	}

	var segments []string
	if raw, ok := pkg.Find(chunk.DictionaryText); ok {
		if segments, err = raw.TextDictionary(); err != nil {
			return nil, err
		}
	}
	for _, raw := range pkg {
		info.Chunks = append(info.Chunks, ChunkInfo{Tag: raw.Tag, Size: len(raw.Data)})
		switch raw.Tag {
		case chunk.MaterialGLSL, chunk.MaterialMetal:
			recs, err := raw.TextShaders(segments)
			if err != nil {
				return nil, err
			}
			info.Programs[raw.Tag] = len(recs)
		case chunk.MaterialSPIRV, chunk.MaterialBinary:
			recs, err := raw.BinaryShaders()
			if err != nil {
				return nil, err
			}
			info.Programs[raw.Tag] = len(recs)
		}
	}
	return info, nil
}

// decoder keeps the first scalar decoding error. Missing chunks decode as
// zero values so older packages stay readable.
type decoder struct {
	err error
}

func (d *decoder) keep(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *decoder) text(raw chunk.Raw) string {
	v, err := raw.Text()
	d.keep(err)
	return v
}

func (d *decoder) u8(pkg chunk.Package, t chunk.Tag) uint8 {
	raw, ok := pkg.Find(t)
	if !ok {
		return 0
	}
	v, err := raw.Uint8()
	d.keep(err)
	return v
}

func (d *decoder) u32(pkg chunk.Package, t chunk.Tag) uint32 {
	raw, ok := pkg.Find(t)
	if !ok {
		return 0
	}
	v, err := raw.Uint32()
	d.keep(err)
	return v
}

func (d *decoder) u64(pkg chunk.Package, t chunk.Tag) uint64 {
	raw, ok := pkg.Find(t)
	if !ok {
		return 0
	}
	v, err := raw.Uint64()
	d.keep(err)
	return v
}

func (d *decoder) bool(pkg chunk.Package, t chunk.Tag) bool {
	raw, ok := pkg.Find(t)
	if !ok {
		return false
	}
	v, err := raw.Bool()
	d.keep(err)
	return v
}
