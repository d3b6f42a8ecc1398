// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package material

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/matc/variant"
)

// Format is a material file encoding.
type Format uint8

const (
	TOML Format = iota
	YAML
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".mat":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("material: unsupported file extension %q", filepath.Ext(path))
}

type fileParameter struct {
	Name      string `toml:"name" yaml:"name"`
	Type      string `toml:"type" yaml:"type"`
	Precision string `toml:"precision" yaml:"precision"`
	ArraySize int    `toml:"array_size" yaml:"array_size"`
	Format    string `toml:"format" yaml:"format"`
}

type fileOutput struct {
	Name     string `toml:"name" yaml:"name"`
	Type     string `toml:"type" yaml:"type"`
	Location int    `toml:"location" yaml:"location"`
}

type fileShader struct {
	Source string `toml:"source" yaml:"source"`
	File   string `toml:"file" yaml:"file"`
}

type fileMaterial struct {
	Name             string          `toml:"name" yaml:"name"`
	Shading          string          `toml:"shading" yaml:"shading"`
	Blending         string          `toml:"blending" yaml:"blending"`
	Domain           string          `toml:"domain" yaml:"domain"`
	FeatureLevel     int             `toml:"feature_level" yaml:"feature_level"`
	DoubleSided      bool            `toml:"double_sided" yaml:"double_sided"`
	ShadowMultiplier bool            `toml:"shadow_multiplier" yaml:"shadow_multiplier"`
	Requires         []string        `toml:"requires" yaml:"requires"`
	Variables        []string        `toml:"variables" yaml:"variables"`
	VariantFilter    []string        `toml:"variant_filter" yaml:"variant_filter"`
	Properties       []string        `toml:"properties" yaml:"properties"`
	Parameters       []fileParameter `toml:"parameters" yaml:"parameters"`
	Outputs          []fileOutput    `toml:"outputs" yaml:"outputs"`
}

type file struct {
	Material fileMaterial `toml:"material" yaml:"material"`
	Fragment fileShader   `toml:"fragment" yaml:"fragment"`
	Vertex   fileShader   `toml:"vertex" yaml:"vertex"`
}

var variantFeatures = map[string]variant.Key{
	"directionalLighting": variant.DIR,
	"dynamicLighting":     variant.DYN,
	"shadowReceiver":      variant.SRE,
	"skinning":            variant.SKN,
	"fog":                 variant.FOG,
	"vsm":                 variant.VSM,
}

// Load reads a TOML or YAML material file. Shader bodies may be inline or
// referenced by a path relative to the material file.
func Load(path string) (*Material, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}
	m, err := Parse(data, format, filepath.Dir(expanded))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a material description. dir resolves shader file references.
func Parse(data []byte, format Format, dir string) (*Material, error) {
	var f file
	switch format {
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%d:%d: %w", row, col, err)
			}
			return nil, err
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("material: unknown format %d", format)
	}
	return f.build(string(data), dir)
}

func (f *file) build(raw, dir string) (*Material, error) {
	fm := f.Material
	b := NewBuilder(fm.Name)

	if fm.Shading != "" {
		s, err := ParseShading(fm.Shading)
		if err != nil {
			return nil, &ConfigError{Field: "shading", Message: err.Error()}
		}
		b.Shading(s)
	}
	if fm.Blending != "" {
		bl, err := ParseBlending(fm.Blending)
		if err != nil {
			return nil, &ConfigError{Field: "blending", Message: err.Error()}
		}
		b.Blending(bl)
	}
	if fm.Domain != "" {
		d, err := ParseDomain(fm.Domain)
		if err != nil {
			return nil, &ConfigError{Field: "domain", Message: err.Error()}
		}
		b.Domain(d)
	}
	if fm.FeatureLevel != 0 {
		b.FeatureLevel(fm.FeatureLevel)
	}
	b.DoubleSided(fm.DoubleSided).ShadowMultiplier(fm.ShadowMultiplier)

	for _, name := range fm.Requires {
		a, err := ParseAttribute(name)
		if err != nil {
			return nil, &ConfigError{Field: "requires", Message: err.Error()}
		}
		b.Require(a)
	}
	for _, name := range fm.Variables {
		b.Variable(name)
	}
	var filter variant.Key
	for _, name := range fm.VariantFilter {
		k, ok := variantFeatures[name]
		if !ok {
			return nil, configErrorf("variant_filter", "unknown feature %q", name)
		}
		filter |= k
	}
	b.VariantFilter(filter)
	for _, name := range fm.Properties {
		p, err := ParseProperty(name)
		if err != nil {
			return nil, &ConfigError{Field: "properties", Message: err.Error()}
		}
		b.Properties(p)
	}
	for _, fp := range fm.Parameters {
		p, err := fp.parameter()
		if err != nil {
			return nil, err
		}
		b.Parameter(p)
	}
	for _, fo := range fm.Outputs {
		t, err := ParseParamType(fo.Type)
		if err != nil {
			return nil, &ConfigError{Field: "outputs", Message: err.Error()}
		}
		b.Output(Output{Name: fo.Name, Type: t, Location: fo.Location})
	}

	frag, err := f.Fragment.resolve(raw, dir)
	if err != nil {
		return nil, fmt.Errorf("fragment: %w", err)
	}
	vert, err := f.Vertex.resolve(raw, dir)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	b.Fragment(frag.Source, frag.Line).Vertex(vert.Source, vert.Line)
	m, err := b.Build()
	if err != nil {
		return nil, err
	}
	m.Fragment.File, m.Vertex.File = frag.File, vert.File
	return m, nil
}

func (fp fileParameter) parameter() (Parameter, error) {
	t, err := ParseParamType(fp.Type)
	if err != nil {
		return Parameter{}, &ConfigError{Field: "parameters", Message: fmt.Sprintf("%s: %v", fp.Name, err)}
	}
	prec, err := ParsePrecision(fp.Precision)
	if err != nil {
		return Parameter{}, &ConfigError{Field: "parameters", Message: fmt.Sprintf("%s: %v", fp.Name, err)}
	}
	format, err := ParseSamplerFormat(fp.Format)
	if err != nil {
		return Parameter{}, &ConfigError{Field: "parameters", Message: fmt.Sprintf("%s: %v", fp.Name, err)}
	}
	return Parameter{Name: fp.Name, Type: t, Precision: prec, ArraySize: fp.ArraySize, Format: format}, nil
}

// resolve returns the shader body and the line it starts on. Inline bodies
// are located in the raw material text; file bodies start at line 1.
func (fs fileShader) resolve(raw, dir string) (Shader, error) {
	if fs.Source != "" && fs.File != "" {
		return Shader{}, errors.New("both source and file are set")
	}
	if fs.File != "" {
		path, err := homedir.Expand(fs.File)
		if err != nil {
			return Shader{}, err
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Shader{}, err
		}
		return Shader{Source: string(data), Line: 1, File: path}, nil
	}
	if fs.Source == "" {
		return Shader{}, nil
	}
	return Shader{Source: fs.Source, Line: lineOf(raw, fs.Source)}, nil
}

// lineOf returns the 1-based line of raw where body's first non-blank line
// appears, or 1 when it cannot be found verbatim.
func lineOf(raw, body string) int {
	first := ""
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}
	if first == "" {
		return 1
	}
	i := strings.Index(raw, first)
	if i < 0 {
		return 1
	}
	return strings.Count(raw[:i], "\n") + 1
}
