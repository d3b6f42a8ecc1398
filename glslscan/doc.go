// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslscan parses the subset of GLSL found in material shader
// bodies into a shaderast tree.
//
// It is not a validating compiler: types are tracked only as far as needed
// to tell struct member access (material.baseColor) from vector swizzles
// (color.rgb), and unknown identifiers are accepted. Preprocessor
// directives are skipped; #line renumbers the lines that follow so
// positions match the material file.
//
//	unit, err := glslscan.Parse(source)
//	if err != nil {
//	    var errs glslscan.Errors
//	    if errors.As(err, &errs) {
//	        fmt.Println(errs.FormatAll())
//	    }
//	}
package glslscan
