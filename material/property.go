// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Property is a material attribute user code may assign.
type Property uint8

const (
	BaseColor Property = iota
	Roughness
	Metallic
	Reflectance
	AmbientOcclusion
	ClearCoat
	ClearCoatRoughness
	ClearCoatNormal
	Anisotropy
	AnisotropyDirection
	Thickness
	SubsurfacePower
	SubsurfaceColor
	SheenColor
	SheenRoughness
	SpecularColor
	Glossiness
	Emissive
	Normal
	PostLightingColor
	Absorption
	Transmission
	IOR
	MicroThickness
	BentNormal

	// PropertyCount is the size of the catalogue.
	PropertyCount
)

var propertyNames = [PropertyCount]string{
	"BASE_COLOR",
	"ROUGHNESS",
	"METALLIC",
	"REFLECTANCE",
	"AMBIENT_OCCLUSION",
	"CLEAR_COAT",
	"CLEAR_COAT_ROUGHNESS",
	"CLEAR_COAT_NORMAL",
	"ANISOTROPY",
	"ANISOTROPY_DIRECTION",
	"THICKNESS",
	"SUBSURFACE_POWER",
	"SUBSURFACE_COLOR",
	"SHEEN_COLOR",
	"SHEEN_ROUGHNESS",
	"SPECULAR_COLOR",
	"GLOSSINESS",
	"EMISSIVE",
	"NORMAL",
	"POST_LIGHTING_COLOR",
	"ABSORPTION",
	"TRANSMISSION",
	"IOR",
	"MICRO_THICKNESS",
	"BENT_NORMAL",
}

// fieldNames holds the MaterialInputs member for each property.
var fieldNames [PropertyCount]string

var byField = make(map[string]Property, PropertyCount)

func init() {
	for i, name := range propertyNames {
		field := strcase.ToLowerCamel(strings.ToLower(name))
		fieldNames[i] = field
		byField[field] = Property(i)
	}
}

// String returns the upper snake case name, e.g. "BASE_COLOR".
func (p Property) String() string {
	if p >= PropertyCount {
		return fmt.Sprintf("Property(%d)", uint8(p))
	}
	return propertyNames[p]
}

// Field returns the shader struct member, e.g. "baseColor".
func (p Property) Field() string {
	if p >= PropertyCount {
		return ""
	}
	return fieldNames[p]
}

// PropertyByField looks up a property by its struct member name.
func PropertyByField(field string) (Property, bool) {
	p, ok := byField[field]
	return p, ok
}

// ParseProperty accepts either the member name ("clearCoat") or the upper
// snake case name ("CLEAR_COAT").
func ParseProperty(s string) (Property, error) {
	if p, ok := byField[s]; ok {
		return p, nil
	}
	upper := strcase.ToScreamingSnake(s)
	for i, name := range propertyNames {
		if name == upper {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", s)
}

// PropertySet is a set of properties.
type PropertySet uint32

// Add returns the set with p added.
func (s PropertySet) Add(p Property) PropertySet {
	return s | 1<<p
}

// Has reports whether p is in the set.
func (s PropertySet) Has(p Property) bool {
	return s&(1<<p) != 0
}

// Union returns the properties in either set.
func (s PropertySet) Union(o PropertySet) PropertySet {
	return s | o
}

// Len returns the number of properties in the set.
func (s PropertySet) Len() int {
	n := 0
	for p := Property(0); p < PropertyCount; p++ {
		if s.Has(p) {
			n++
		}
	}
	return n
}

// Slice returns the properties in catalogue order.
func (s PropertySet) Slice() []Property {
	var out []Property
	for p := Property(0); p < PropertyCount; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// String returns e.g. "{BASE_COLOR, ROUGHNESS}".
func (s PropertySet) String() string {
	names := make([]string, 0, s.Len())
	for _, p := range s.Slice() {
		names = append(names, p.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// PropertiesOf builds a set.
func PropertiesOf(props ...Property) PropertySet {
	var s PropertySet
	for _, p := range props {
		s = s.Add(p)
	}
	return s
}
