// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslscan

import "strings"

var builtinTypes = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"atomic_uint": true,
}

// vectorPrefixes maps vector type prefixes to their component type.
var vectorPrefixes = []struct{ prefix, scalar string }{
	{"bvec", "bool"},
	{"ivec", "int"},
	{"uvec", "uint"},
	{"dvec", "double"},
	{"vec", "float"},
}

var opaquePrefixes = []string{"sampler", "isampler", "usampler", "image", "iimage", "uimage", "texture", "subpassInput"}

// isBuiltinType reports whether name is a GLSL scalar, vector, matrix or
// opaque type.
func isBuiltinType(name string) bool {
	if builtinTypes[name] {
		return true
	}
	if _, scalar := vectorParts(name); scalar != "" {
		return true
	}
	if strings.HasPrefix(name, "mat") || strings.HasPrefix(name, "dmat") {
		return true
	}
	for _, prefix := range opaquePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isStructType reports whether t names a user type. Unknown types ("")
// are not structs.
func isStructType(t string) bool {
	if t == "" || strings.HasSuffix(t, "]") {
		return false
	}
	return !isBuiltinType(t)
}

// vectorParts splits a vector type into its prefix and component type;
// scalars return ("", t).
func vectorParts(t string) (prefix, scalar string) {
	for _, v := range vectorPrefixes {
		if strings.HasPrefix(t, v.prefix) && len(t) == len(v.prefix)+1 {
			if n := t[len(t)-1]; n >= '2' && n <= '4' {
				return v.prefix, v.scalar
			}
		}
	}
	switch t {
	case "bool", "int", "uint", "float", "double":
		return "", t
	}
	return "", ""
}

var swizzleSets = [...]string{"xyzw", "rgba", "stpq"}

// isSwizzle reports whether s is a 1 to 4 component selection drawn from
// one component set.
func isSwizzle(s string) bool {
	if len(s) == 0 || len(s) > 4 {
		return false
	}
	for _, set := range swizzleSets {
		ok := true
		for i := 0; i < len(s); i++ {
			if strings.IndexByte(set, s[i]) < 0 {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
