// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frontend

import (
	"fmt"

	"github.com/gogpu/matc/spirv"
	"github.com/gogpu/matc/variant"
)

// Validate checks that words decode as a SPIR-V module with an entry point
// for stage. Failures are reported as a CompileError from tool.
func Validate(tool string, words []uint32, stage variant.Stage) error {
	m, err := spirv.Parse(words)
	if err != nil {
		return &CompileError{Tool: tool, Err: err}
	}
	model := spirv.ExecutionModelVertex
	if stage == variant.Fragment {
		model = spirv.ExecutionModelFragment
	}
	if !m.HasEntryPoint(model) {
		return &CompileError{Tool: tool, Err: fmt.Errorf("%w: no %s entry point", spirv.ErrInvalidModule, model)}
	}
	return nil
}
