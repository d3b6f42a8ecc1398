// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package variant

import (
	"fmt"
	"strings"
)

// ShaderModel is the class of hardware a program is built for.
type ShaderModel uint8

const (
	Mobile ShaderModel = iota + 1
	Desktop
)

// String returns the shader model name.
func (m ShaderModel) String() string {
	switch m {
	case Mobile:
		return "mobile"
	case Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}

// Platform is the user facing hint selecting shader models.
type Platform uint8

const (
	PlatformAll Platform = iota
	PlatformMobile
	PlatformDesktop
)

// ParsePlatform parses "all", "mobile" or "desktop".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return PlatformAll, nil
	case "mobile":
		return PlatformMobile, nil
	case "desktop":
		return PlatformDesktop, nil
	}
	return 0, fmt.Errorf("unknown platform %q", s)
}

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformMobile:
		return "mobile"
	case PlatformDesktop:
		return "desktop"
	default:
		return "all"
	}
}

// ShaderModels returns the shader models targeted by p.
func (p Platform) ShaderModels() []ShaderModel {
	switch p {
	case PlatformMobile:
		return []ShaderModel{Mobile}
	case PlatformDesktop:
		return []ShaderModel{Desktop}
	default:
		return []ShaderModel{Mobile, Desktop}
	}
}

// API is a set of target graphics APIs.
type API uint8

const (
	OpenGL API = 1 << iota
	Vulkan
	Metal

	AllAPIs = OpenGL | Vulkan | Metal
)

// ParseAPI parses a comma separated list such as "opengl,metal" or "all".
func ParseAPI(s string) (API, error) {
	var api API
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "all":
			api |= AllAPIs
		case "opengl", "gl":
			api |= OpenGL
		case "vulkan", "vk":
			api |= Vulkan
		case "metal", "mtl":
			api |= Metal
		case "":
		default:
			return 0, fmt.Errorf("unknown target api %q", part)
		}
	}
	if api == 0 {
		return 0, fmt.Errorf("no target api in %q", s)
	}
	return api, nil
}

// Has reports whether all APIs of other are in a.
func (a API) Has(other API) bool {
	return a&other == other
}

// String lists the APIs in the set.
func (a API) String() string {
	var names []string
	if a.Has(OpenGL) {
		names = append(names, "opengl")
	}
	if a.Has(Vulkan) {
		names = append(names, "vulkan")
	}
	if a.Has(Metal) {
		names = append(names, "metal")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Permutation is one independent compilation target.
type Permutation struct {
	ShaderModel ShaderModel

	// API is the set of APIs whose records this permutation produces.
	API API

	// CodeGen is the flavor of GLSL requested from the code generator.
	// Metal programs are generated as Vulkan GLSL and transpiled.
	CodeGen API
}

// String returns a short description such as "desktop/vulkan|metal".
func (p Permutation) String() string {
	return p.ShaderModel.String() + "/" + p.API.String()
}

// Permutations derives the compilation targets for a platform and API set.
//
// Requesting every API yields one OpenGL-flavored permutation and one
// Vulkan-flavored permutation (covering Vulkan and Metal) per shader model.
// Any other set yields one permutation per requested API per shader model.
func Permutations(platform Platform, api API) []Permutation {
	var perms []Permutation
	for _, model := range platform.ShaderModels() {
		if api == AllAPIs {
			perms = append(perms,
				Permutation{ShaderModel: model, API: OpenGL, CodeGen: OpenGL},
				Permutation{ShaderModel: model, API: Vulkan | Metal, CodeGen: Vulkan},
			)
			continue
		}
		for _, single := range [...]API{OpenGL, Vulkan, Metal} {
			if !api.Has(single) {
				continue
			}
			codegen := Vulkan
			if single == OpenGL {
				codegen = OpenGL
			}
			perms = append(perms, Permutation{ShaderModel: model, API: single, CodeGen: codegen})
		}
	}
	return perms
}
