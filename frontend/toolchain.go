// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frontend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/matc/dict"
	"github.com/gogpu/matc/glslscan"
	"github.com/gogpu/matc/spirv"
	"github.com/gogpu/matc/variant"
)

// Default tool names, looked up in PATH.
const (
	DefaultGlslang    = "glslangValidator"
	DefaultSpirvOpt   = "spirv-opt"
	DefaultSpirvCross = "spirv-cross"
)

// Toolchain is a FrontEnd driving the Khronos command line tools. The AST
// is produced by glslscan.
//
// Tool fields accept a bare name resolved through PATH or a path, which may
// start with "~". Call Init (or use a Handle) before compiling.
type Toolchain struct {
	Glslang    string
	SpirvOpt   string
	SpirvCross string

	// Logger receives one debug record per tool invocation.
	Logger *slog.Logger

	mu         sync.RWMutex
	glslang    string
	spirvOpt   string
	spirvCross string
	dir        string
}

// NewToolchain returns a toolchain using the default tool names.
func NewToolchain() *Toolchain {
	return &Toolchain{
		Glslang:    DefaultGlslang,
		SpirvOpt:   DefaultSpirvOpt,
		SpirvCross: DefaultSpirvCross,
	}
}

// Init resolves the tool paths and creates the scratch directory.
func (t *Toolchain) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	resolved := make([]string, 3)
	for i, name := range []string{t.Glslang, t.SpirvOpt, t.SpirvCross} {
		path, err := lookTool(name)
		if err != nil {
			return err
		}
		resolved[i] = path
	}
	dir, err := os.MkdirTemp("", "matc-")
	if err != nil {
		return fmt.Errorf("frontend: scratch directory: %w", err)
	}
	t.glslang, t.spirvOpt, t.spirvCross = resolved[0], resolved[1], resolved[2]
	t.dir = dir
	return nil
}

// Shutdown removes the scratch directory.
func (t *Toolchain) Shutdown() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dir == "" {
		return nil
	}
	err := os.RemoveAll(t.dir)
	t.dir = ""
	return err
}

func lookTool(name string) (string, error) {
	expanded, err := homedir.Expand(name)
	if err != nil {
		return "", fmt.Errorf("frontend: %s: %w", name, err)
	}
	path, err := exec.LookPath(expanded)
	if err != nil {
		return "", fmt.Errorf("frontend: %w", err)
	}
	return path, nil
}

// Parse implements FrontEnd.
func (t *Toolchain) Parse(ctx context.Context, req Request) (*Result, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dir == "" {
		return nil, ErrNotInitialized
	}

	args := []string{"--stdin", "-S", stageName(req.Stage)}
	var out string
	if req.SPIRV {
		f, err := os.CreateTemp(t.dir, "*.spv")
		if err != nil {
			return nil, err
		}
		out = f.Name()
		f.Close()
		defer os.Remove(out)

		if req.CodeGen == variant.OpenGL {
			args = append(args, "-G")
		} else {
			args = append(args, "-V")
		}
		args = append(args, "-o", out)
	}

	log, err := t.run(ctx, "glslangValidator", t.glslang, []byte(req.Source), args...)
	if err != nil {
		return nil, err
	}
	res := &Result{Log: string(log)}

	if req.SPIRV {
		data, err := os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("frontend: read spir-v: %w", err)
		}
		res.SPIRV = dict.BytesToWords(data)
		if err := Validate("glslangValidator", res.SPIRV, req.Stage); err != nil {
			return nil, err
		}
	}
	if req.AST {
		unit, err := glslscan.Parse(req.Source)
		if err != nil {
			log := err.Error()
			if errs, ok := err.(glslscan.Errors); ok {
				log = errs.FormatAll()
			}
			return nil, &CompileError{Tool: "scan", Log: log, Err: err}
		}
		res.AST = unit
	}
	return res, nil
}

// Optimize implements FrontEnd.
func (t *Toolchain) Optimize(ctx context.Context, words []uint32, level Optimization) ([]uint32, error) {
	if level == OptimizeNone {
		return words, nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dir == "" {
		return nil, ErrNotInitialized
	}

	in, err := t.scratch(dict.WordsToBytes(words))
	if err != nil {
		return nil, err
	}
	defer os.Remove(in)
	out := in + ".opt"
	defer os.Remove(out)

	flag := "-O"
	if level == OptimizeSize {
		flag = "-Os"
	}
	if _, err := t.run(ctx, "spirv-opt", t.spirvOpt, nil, flag, in, "-o", out); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("frontend: read optimized spir-v: %w", err)
	}
	optimized := dict.BytesToWords(data)
	if _, err := spirv.Parse(optimized); err != nil {
		return nil, &CompileError{Tool: "spirv-opt", Err: err}
	}
	return optimized, nil
}

// Transpile implements FrontEnd.
func (t *Toolchain) Transpile(ctx context.Context, words []uint32, target Target) (*Output, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.dir == "" {
		return nil, ErrNotInitialized
	}

	var args []string
	switch target.Language {
	case GLSL:
		if target.ShaderModel == variant.Mobile {
			args = []string{"--es", "--version", "300"}
		} else {
			args = []string{"--version", "410"}
		}
	case MSL:
		args = []string{"--msl", "--msl-version", "20000"}
		if target.ShaderModel == variant.Mobile {
			args = append(args, "--msl-ios")
		}
	default:
		return nil, fmt.Errorf("frontend: unknown target %v", target.Language)
	}
	args = append(args, "-")

	text, err := t.run(ctx, "spirv-cross", t.spirvCross, dict.WordsToBytes(words), args...)
	if err != nil {
		return nil, err
	}
	return &Output{Text: string(text)}, nil
}

func (t *Toolchain) scratch(data []byte) (string, error) {
	f, err := os.CreateTemp(t.dir, "*.spv")
	if err != nil {
		return "", err
	}
	return fillScratch(f, data)
}

type scratchFile interface {
	io.WriteCloser
	Name() string
}

// fillScratch writes data to f and closes it. f is removed on failure.
func fillScratch(f scratchFile, data []byte) (string, error) {
	_, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// run executes a tool and returns its standard output. A non-zero exit
// becomes a CompileError carrying both output streams.
func (t *Toolchain) run(ctx context.Context, tool, path string, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = t.dir
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if t.Logger != nil {
		t.Logger.Debug("exec", "tool", filepath.Base(path), "args", args)
	}
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &CompileError{Tool: tool, Log: stdout.String() + stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

func stageName(s variant.Stage) string {
	if s == variant.Vertex {
		return "vert"
	}
	return "frag"
}
