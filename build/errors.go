// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package build

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/matc/frontend"
	"github.com/gogpu/matc/variant"
)

// ErrorKind categorizes build errors.
type ErrorKind uint8

const (
	// ErrConfig indicates invalid material configuration or builder usage.
	ErrConfig ErrorKind = iota

	// ErrCompile indicates one or more programs failed to compile.
	ErrCompile

	// ErrSerialization indicates the package could not be encoded.
	ErrSerialization

	// ErrAnalysis indicates property inference failed.
	ErrAnalysis
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrConfig:
		return "Config"
	case ErrCompile:
		return "Compile"
	case ErrSerialization:
		return "Serialization"
	case ErrAnalysis:
		return "Analysis"
	default:
		return "Unknown"
	}
}

// ErrState is returned when an operation is not allowed in the current state.
var ErrState = errors.New("build: illegal state transition")

// ErrEmptyOutput is reported for a program the front end translated to
// neither text nor a binary.
var ErrEmptyOutput = errors.New("build: front end produced an empty program")

// Error represents a build error.
type Error struct {
	// Kind categorizes the error.
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("build %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is a build *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Diagnostic describes a program that failed to generate or compile.
type Diagnostic struct {
	Material    string
	ShaderModel variant.ShaderModel
	API         variant.API
	Key         variant.Key
	Stage       variant.Stage

	// Source is the generated program.
	Source string

	// Log is the compiler output, when the front end produced one.
	Log string

	Err error
}

// String returns a one line summary, e.g.
// "lit: desktop/vulkan|metal key DIR|FOG fragment: frontend: glslangValidator failed".
func (d Diagnostic) String() string {
	msg := "<nil>"
	if d.Err != nil {
		msg, _, _ = strings.Cut(d.Err.Error(), "\n")
	}
	return fmt.Sprintf("%s: %s/%s key %s %s: %s", d.Material, d.ShaderModel, d.API, d.Key, d.Stage, msg)
}

func diagnose(material string, c cell, source string, err error) *Diagnostic {
	d := &Diagnostic{
		Material:    material,
		ShaderModel: c.perm.ShaderModel,
		API:         c.perm.API,
		Key:         c.key,
		Stage:       c.stage,
		Source:      source,
		Err:         err,
	}
	var ce *frontend.CompileError
	if errors.As(err, &ce) {
		d.Log = ce.Log
	}
	return d
}
