// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codegen

import (
	"fmt"

	"github.com/gogpu/matc/variant"
)

// Version represents a GLSL version.
type Version struct {
	Major uint8
	Minor uint8
	ES    bool // true for GLSL ES
}

// Versions used for generated programs.
var (
	Version410   = Version{Major: 4, Minor: 10}           // OpenGL 4.1, desktop
	Version450   = Version{Major: 4, Minor: 50}           // Vulkan, desktop
	VersionES300 = Version{Major: 3, Minor: 0, ES: true}  // OpenGL ES 3.0, mobile
	VersionES310 = Version{Major: 3, Minor: 10, ES: true} // Vulkan, mobile
)

// String returns the version as a GLSL version directive value.
func (v Version) String() string {
	if v.ES {
		return fmt.Sprintf("%d%02d es", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d%02d core", v.Major, v.Minor)
}

// VersionFor returns the GLSL version generated for a permutation.
func VersionFor(p variant.Permutation) Version {
	mobile := p.ShaderModel == variant.Mobile
	switch {
	case p.CodeGen == variant.OpenGL && mobile:
		return VersionES300
	case p.CodeGen == variant.OpenGL:
		return Version410
	case mobile:
		return VersionES310
	default:
		return Version450
	}
}

// explicitBindings reports whether uniform blocks and samplers carry
// binding qualifiers. GL 4.1 and ES 3.0 have none.
func explicitBindings(p variant.Permutation) bool {
	return p.CodeGen != variant.OpenGL
}

// varyingLocations reports whether stage interfaces carry location
// qualifiers. ES 3.0 only allows them on vertex inputs and fragment outputs.
func varyingLocations(p variant.Permutation) bool {
	return !(p.CodeGen == variant.OpenGL && p.ShaderModel == variant.Mobile)
}
