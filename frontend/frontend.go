// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frontend defines the contract between the material build and the
// shader compiler that validates generated GLSL, produces SPIR-V and
// cross-compiles it for other APIs.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/matc/shaderast"
	"github.com/gogpu/matc/variant"
)

// FrontEnd compiles one shader at a time. Implementations must be safe for
// concurrent use: the build calls them from several workers.
type FrontEnd interface {
	// Parse validates GLSL source and, as requested, compiles it to
	// SPIR-V and returns its AST.
	Parse(ctx context.Context, req Request) (*Result, error)

	// Optimize runs the SPIR-V optimizer over a module.
	Optimize(ctx context.Context, words []uint32, level Optimization) ([]uint32, error)

	// Transpile converts a SPIR-V module to another shading language.
	Transpile(ctx context.Context, words []uint32, target Target) (*Output, error)
}

// Lifecycle is implemented by front ends that hold process-wide state.
type Lifecycle interface {
	Init() error
	Shutdown() error
}

// Request describes one shader to parse.
type Request struct {
	// Name identifies the shader in logs, e.g. "lit/desktop/0x05/fragment".
	Name string

	Source      string
	Stage       variant.Stage
	ShaderModel variant.ShaderModel

	// CodeGen is OpenGL or Vulkan and selects the SPIR-V environment.
	CodeGen variant.API

	// SPIRV requests a compiled module in Result.SPIRV.
	SPIRV bool

	// AST requests the analyzer tree in Result.AST.
	AST bool
}

// Result is the output of Parse.
type Result struct {
	SPIRV []uint32
	AST   *shaderast.TranslationUnit

	// Log holds compiler warnings.
	Log string
}

// Output is the output of Transpile. A front end returns Text for source
// targets and may return Binary for platforms with a native format.
type Output struct {
	Text   string
	Binary []byte
}

// Language is a transpile target language.
type Language uint8

const (
	GLSL Language = iota
	MSL
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case GLSL:
		return "glsl"
	case MSL:
		return "msl"
	default:
		return "unknown"
	}
}

// Target selects the language and hardware class of a transpile.
type Target struct {
	Language    Language
	ShaderModel variant.ShaderModel
	Stage       variant.Stage
}

// Optimization is the SPIR-V optimization level.
type Optimization uint8

const (
	OptimizeNone Optimization = iota
	OptimizeSize
	OptimizePerformance
)

// ParseOptimization parses "none", "size" or "performance".
func ParseOptimization(s string) (Optimization, error) {
	switch strings.ToLower(s) {
	case "none", "0":
		return OptimizeNone, nil
	case "size", "s":
		return OptimizeSize, nil
	case "", "performance", "perf":
		return OptimizePerformance, nil
	}
	return 0, fmt.Errorf("unknown optimization level %q", s)
}

// String returns the level name.
func (o Optimization) String() string {
	switch o {
	case OptimizeNone:
		return "none"
	case OptimizeSize:
		return "size"
	case OptimizePerformance:
		return "performance"
	default:
		return "unknown"
	}
}

// ErrNotInitialized is returned by a front end used before Init.
var ErrNotInitialized = errors.New("frontend: not initialized")

// CompileError is a shader the front end rejected.
type CompileError struct {
	// Tool is the failing stage, e.g. "glslangValidator" or "scan".
	Tool string

	// Log is the compiler output.
	Log string

	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	msg := fmt.Sprintf("frontend: %s failed", e.Tool)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if log := strings.TrimSpace(e.Log); log != "" {
		msg += "\n" + log
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error { return e.Err }
