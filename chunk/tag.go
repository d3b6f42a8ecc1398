// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package chunk

import (
	"fmt"
	"strings"
)

// Tag identifies a chunk: eight ASCII characters packed big-endian, so the
// first character is the most significant byte.
type Tag uint64

// MakeTag packs an 8-character mnemonic. It panics on any other length;
// tags are compile-time constants.
func MakeTag(s string) Tag {
	if len(s) != 8 {
		panic(fmt.Sprintf("chunk: tag %q is not 8 characters", s))
	}
	var t Tag
	for i := 0; i < 8; i++ {
		t = t<<8 | Tag(s[i])
	}
	return t
}

// String returns the mnemonic without trailing padding.
func (t Tag) String() string {
	var b [8]byte
	for i := 7; i >= 0; i-- {
		c := byte(t)
		if c < 0x20 || c > 0x7e {
			c = '?'
		}
		b[i] = c
		t >>= 8
	}
	return strings.TrimRight(string(b[:]), " ")
}

// Material package tags.
var (
	MaterialVersion            = MakeTag("MAT_VERS")
	MaterialName               = MakeTag("MAT_NAME")
	MaterialShading            = MakeTag("MAT_SHAD")
	MaterialBlending           = MakeTag("MAT_BLEN")
	MaterialDomain             = MakeTag("MAT_DOMN")
	MaterialRequiredAttributes = MakeTag("MAT_REQA")
	MaterialFeatureLevel       = MakeTag("MAT_FEAT")
	MaterialProperties         = MakeTag("MAT_PROP")
	MaterialCustomDepth        = MakeTag("MAT_CSDP")
	MaterialVariantFilter      = MakeTag("MAT_VFLT")
	MaterialShaderModels       = MakeTag("MAT_SHML")
	MaterialDoubleSided        = MakeTag("MAT_DSID")
	MaterialValid              = MakeTag("MAT_VALD")
	MaterialInterface          = MakeTag("MAT_IFCE")
	UniformInterfaceBlock      = MakeTag("MAT_UIB ")
	SamplerInterfaceBlock      = MakeTag("MAT_SIB ")

	DictionaryText   = MakeTag("DIC_TEXT")
	DictionarySPIRV  = MakeTag("DIC_SPRV")
	DictionaryBinary = MakeTag("DIC_BINS")

	MaterialGLSL   = MakeTag("MAT_GLSL")
	MaterialMetal  = MakeTag("MAT_METL")
	MaterialSPIRV  = MakeTag("MAT_SPRV")
	MaterialBinary = MakeTag("MAT_BINS")
)
