// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package build compiles a material into a package: it enumerates the
// permutations and variant keys to generate, runs every program through a
// shader front end on a worker pool, then assembles dictionaries and chunks
// on a single goroutine so the output bytes are reproducible.
package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/matc/analyzer"
	"github.com/gogpu/matc/codegen"
	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/glslscan"
	"github.com/gogpu/matc/material"
	"github.com/gogpu/matc/variant"
)

// Options configures a build.
type Options struct {
	// Platform selects the shader models.
	Platform variant.Platform

	// API is the set of target APIs. Zero means every API.
	API variant.API

	// Optimization is the SPIR-V optimization level.
	Optimization frontend.Optimization

	// Workers bounds concurrent front-end calls. Zero uses GOMAXPROCS.
	Workers int

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger

	// Canonicalizer overrides variant.DefaultCanonicalizer.
	Canonicalizer *variant.Canonicalizer

	// InferProperties adds the properties the fragment body writes to the
	// declared ones.
	InferProperties bool
}

// Builder compiles one material. A Builder runs once: Prepare, then Build.
type Builder struct {
	m     *material.Material
	fe    frontend.FrontEnd
	opts  Options
	log   *slog.Logger
	canon variant.Canonicalizer

	state State
	perms []variant.Permutation
}

// New returns a builder for m that compiles through fe.
func New(m *material.Material, fe frontend.FrontEnd, opts Options) *Builder {
	if opts.API == 0 {
		opts.API = variant.AllAPIs
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	canon := variant.DefaultCanonicalizer()
	if opts.Canonicalizer != nil {
		canon = *opts.Canonicalizer
	}
	return &Builder{
		m:     m,
		fe:    fe,
		opts:  opts,
		log:   log.With("material", m.Name),
		canon: canon,
	}
}

// State returns the current phase.
func (b *Builder) State() State {
	return b.state
}

// Permutations returns the targets computed by Prepare.
func (b *Builder) Permutations() []variant.Permutation {
	return b.perms
}

// Prepare derives the permutations from the platform and API options.
func (b *Builder) Prepare() error {
	if err := b.transition(PreparingPermutations); err != nil {
		return err
	}
	b.perms = variant.Permutations(b.opts.Platform, b.opts.API)
	if len(b.perms) == 0 {
		return b.fail(newError(ErrConfig, nil, "no permutations for platform %s and api %s", b.opts.Platform, b.opts.API))
	}
	b.log.Debug("prepared", "permutations", len(b.perms))
	return nil
}

// cell is one program to generate.
type cell struct {
	perm  variant.Permutation
	key   variant.Key
	stage variant.Stage
}

func (c cell) name(material string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", material, c.perm.ShaderModel, c.perm.API, c.key, c.stage)
}

// output is the result of one cell.
type output struct {
	glsl   string
	metal  string
	spirv  []uint32
	binary []byte
	diag   *Diagnostic
}

// Build generates every program and assembles the package. Failed programs
// are reported as diagnostics and mark the package invalid; only
// configuration and serialization errors are returned.
func (b *Builder) Build(ctx context.Context) (*Package, error) {
	if err := b.transition(GeneratingPerVariant); err != nil {
		return nil, err
	}

	props := b.m.Properties
	if b.opts.InferProperties && b.m.Domain == material.Surface {
		props = props.Union(b.infer(ctx, props))
	}
	gen, err := codegen.New(b.m, props)
	if err != nil {
		return nil, b.fail(newError(ErrConfig, err, "material %q", b.m.Name))
	}

	cells := b.cells()
	outputs := make([]output, len(cells))

	var g errgroup.Group
	g.SetLimit(b.opts.Workers)
	for i, c := range cells {
		if ctx.Err() != nil {
			break
		}
		i, c := i, c
		g.Go(func() error {
			outputs[i] = b.compile(ctx, gen, c)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, b.fail(err)
	}

	if err := b.transition(EmittingChunks); err != nil {
		return nil, b.fail(err)
	}
	pkg, err := b.emit(gen, props, cells, outputs)
	if err != nil {
		return nil, b.fail(newError(ErrSerialization, err, "material %q", b.m.Name))
	}
	if err := b.transition(Done); err != nil {
		return nil, b.fail(err)
	}
	b.log.Info("built",
		"cells", pkg.Stats.Cells,
		"failed", pkg.Stats.Failed,
		"bytes", pkg.Stats.Size,
		"valid", pkg.Valid)
	return pkg, nil
}

// cells lists the programs to generate in emission order.
func (b *Builder) cells() []cell {
	var keys []variant.Key
	if b.m.Domain == material.PostProcess {
		keys = []variant.Key{0}
	} else {
		keys = b.canon.Select(b.m.VariantFilter, b.m.Lit(), b.m.ShadowMultiplier)
	}

	var cells []cell
	for _, perm := range b.perms {
		before := len(cells)
		for _, key := range keys {
			for _, stage := range variant.Stages {
				if !key.AppliesTo(stage) {
					continue
				}
				cells = append(cells, cell{perm: perm, key: key, stage: stage})
			}
		}
		b.log.Debug("permutation", "target", perm, "programs", len(cells)-before)
	}
	return cells
}

// compile generates and compiles one cell. Errors become diagnostics.
func (b *Builder) compile(ctx context.Context, gen *codegen.Generator, c cell) output {
	src, err := gen.Generate(c.perm, c.key, c.stage)
	if err != nil {
		return output{diag: diagnose(b.m.Name, c, src, err)}
	}
	out, err := b.frontEnd(ctx, c, src)
	if err != nil {
		b.log.Warn("compile failed", "cell", c.name(b.m.Name), "err", err)
		return output{diag: diagnose(b.m.Name, c, src, err)}
	}
	return out
}

func (b *Builder) frontEnd(ctx context.Context, c cell, src string) (output, error) {
	req := frontend.Request{
		Name:        c.name(b.m.Name),
		Source:      src,
		Stage:       c.stage,
		ShaderModel: c.perm.ShaderModel,
		CodeGen:     c.perm.CodeGen,
	}
	level := b.opts.Optimization

	if c.perm.CodeGen == variant.OpenGL {
		if level == frontend.OptimizeNone {
			if _, err := b.fe.Parse(ctx, req); err != nil {
				return output{}, err
			}
			return output{glsl: src}, nil
		}
		req.SPIRV = true
		res, err := b.fe.Parse(ctx, req)
		if err != nil {
			return output{}, err
		}
		words, err := b.fe.Optimize(ctx, res.SPIRV, level)
		if err != nil {
			return output{}, err
		}
		text, err := b.fe.Transpile(ctx, words, frontend.Target{
			Language:    frontend.GLSL,
			ShaderModel: c.perm.ShaderModel,
			Stage:       c.stage,
		})
		if err != nil {
			return output{}, err
		}
		if text == nil || text.Text == "" {
			return output{}, fmt.Errorf("%w: glsl", ErrEmptyOutput)
		}
		return output{glsl: text.Text}, nil
	}

	req.SPIRV = true
	res, err := b.fe.Parse(ctx, req)
	if err != nil {
		return output{}, err
	}
	words := res.SPIRV
	if level != frontend.OptimizeNone {
		if words, err = b.fe.Optimize(ctx, words, level); err != nil {
			return output{}, err
		}
	}

	var out output
	if c.perm.API.Has(variant.Vulkan) {
		out.spirv = words
	}
	if c.perm.API.Has(variant.Metal) {
		msl, err := b.fe.Transpile(ctx, words, frontend.Target{
			Language:    frontend.MSL,
			ShaderModel: c.perm.ShaderModel,
			Stage:       c.stage,
		})
		if err != nil {
			return output{}, err
		}
		switch {
		case msl == nil || msl.Binary == nil && msl.Text == "":
			return output{}, fmt.Errorf("%w: msl", ErrEmptyOutput)
		case msl.Binary != nil:
			out.binary = msl.Binary
		default:
			out.metal = msl.Text
		}
	}
	return out, nil
}

// infer returns the properties written by the fragment body. Failures are
// logged and leave the declared properties unchanged.
func (b *Builder) infer(ctx context.Context, declared material.PropertySet) material.PropertySet {
	gen, err := codegen.New(b.m, declared)
	if err != nil {
		// reported again by Build
		return 0
	}
	src := gen.AnalysisSource()
	res, err := b.fe.Parse(ctx, frontend.Request{
		Name:        b.m.Name + "/analysis",
		Source:      src,
		Stage:       variant.Fragment,
		ShaderModel: variant.Desktop,
		CodeGen:     variant.Vulkan,
		AST:         true,
	})
	if err != nil {
		b.log.Warn("property inference skipped", "err", newError(ErrAnalysis, err, "parse"))
		return 0
	}
	unit := res.AST
	if unit == nil {
		if unit, err = glslscan.Parse(src); err != nil {
			b.log.Warn("property inference skipped", "err", newError(ErrAnalysis, err, "scan"))
			return 0
		}
	}
	props, err := analyzer.Infer(unit)
	if err != nil {
		b.log.Warn("property inference skipped", "err", newError(ErrAnalysis, err, "entry"))
		return 0
	}
	b.log.Debug("inferred", "properties", props)
	return props
}
