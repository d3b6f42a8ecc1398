// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package spirv decodes SPIR-V modules produced by the shader front end:
// header validation, instruction iteration, entry point lookup and a
// disassembler for inspecting packaged programs.
package spirv

import (
	"errors"
	"fmt"
	"strings"
)

// MagicNumber is the first word of every module.
const MagicNumber = 0x07230203

// headerWords is the number of header words before the first instruction.
const headerWords = 5

// ErrInvalidModule reports words that are not a well formed module.
var ErrInvalidModule = errors.New("spirv: invalid module")

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// String returns e.g. "1.3".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func versionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

func versionToWord(v Version) uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8
}

// Header is the module header.
type Header struct {
	Version   Version
	Generator uint32

	// Bound is one more than the largest id in the module.
	Bound  uint32
	Schema uint32
}

// Words encodes the header.
func (h Header) Words() []uint32 {
	return []uint32{MagicNumber, versionToWord(h.Version), h.Generator, h.Bound, h.Schema}
}

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes that compiled materials use. Others print by number.
const (
	OpNop                    OpCode = 0
	OpUndef                  OpCode = 1
	OpSource                 OpCode = 3
	OpSourceExtension        OpCode = 4
	OpName                   OpCode = 5
	OpMemberName             OpCode = 6
	OpString                 OpCode = 7
	OpExtension              OpCode = 10
	OpExtInstImport          OpCode = 11
	OpExtInst                OpCode = 12
	OpMemoryModel            OpCode = 14
	OpEntryPoint             OpCode = 15
	OpExecutionMode          OpCode = 16
	OpCapability             OpCode = 17
	OpTypeVoid               OpCode = 19
	OpTypeBool               OpCode = 20
	OpTypeInt                OpCode = 21
	OpTypeFloat              OpCode = 22
	OpTypeVector             OpCode = 23
	OpTypeMatrix             OpCode = 24
	OpTypeImage              OpCode = 25
	OpTypeSampler            OpCode = 26
	OpTypeSampledImage       OpCode = 27
	OpTypeArray              OpCode = 28
	OpTypeStruct             OpCode = 30
	OpTypePointer            OpCode = 32
	OpTypeFunction           OpCode = 33
	OpConstantTrue           OpCode = 41
	OpConstantFalse          OpCode = 42
	OpConstant               OpCode = 43
	OpConstantComposite      OpCode = 44
	OpFunction               OpCode = 54
	OpFunctionParameter      OpCode = 55
	OpFunctionEnd            OpCode = 56
	OpFunctionCall           OpCode = 57
	OpVariable               OpCode = 59
	OpLoad                   OpCode = 61
	OpStore                  OpCode = 62
	OpAccessChain            OpCode = 65
	OpDecorate               OpCode = 71
	OpMemberDecorate         OpCode = 72
	OpVectorShuffle          OpCode = 79
	OpCompositeConstruct     OpCode = 80
	OpCompositeExtract       OpCode = 81
	OpCompositeInsert        OpCode = 82
	OpSampledImage           OpCode = 86
	OpImageSampleImplicitLod OpCode = 87
	OpConvertSToF            OpCode = 111
	OpFNegate                OpCode = 127
	OpIAdd                   OpCode = 128
	OpFAdd                   OpCode = 129
	OpISub                   OpCode = 130
	OpFSub                   OpCode = 131
	OpIMul                   OpCode = 132
	OpFMul                   OpCode = 133
	OpFDiv                   OpCode = 136
	OpVectorTimesScalar      OpCode = 142
	OpMatrixTimesScalar      OpCode = 143
	OpVectorTimesMatrix      OpCode = 144
	OpMatrixTimesVector      OpCode = 145
	OpMatrixTimesMatrix      OpCode = 146
	OpDot                    OpCode = 148
	OpLoopMerge              OpCode = 246
	OpSelectionMerge         OpCode = 247
	OpLabel                  OpCode = 248
	OpBranch                 OpCode = 249
	OpBranchConditional      OpCode = 250
	OpKill                   OpCode = 252
	OpReturn                 OpCode = 253
	OpReturnValue            OpCode = 254
)

// String returns the opcode name, e.g. "OpLoad".
func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", uint16(op))
}

// ExecutionModel is the stage an entry point runs in.
type ExecutionModel uint32

const (
	ExecutionModelVertex    ExecutionModel = 0
	ExecutionModelFragment  ExecutionModel = 4
	ExecutionModelGLCompute ExecutionModel = 5
)

// String returns the model name.
func (m ExecutionModel) String() string {
	return lookup(executionModels, uint32(m))
}

// Instruction is one decoded instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// Encode encodes the instruction to binary.
func (i Instruction) Encode() []uint32 {
	wordCount := uint32(len(i.Words) + 1) // +1 for opcode word
	result := make([]uint32, 0, wordCount)
	result = append(result, (wordCount<<16)|uint32(i.Opcode))
	result = append(result, i.Words...)
	return result
}

// Module is a decoded module. Instruction operands alias the parsed words.
type Module struct {
	Header       Header
	Instructions []Instruction
}

// Parse decodes a module.
func Parse(words []uint32) (*Module, error) {
	if len(words) < headerWords {
		return nil, fmt.Errorf("%w: %d words", ErrInvalidModule, len(words))
	}
	if words[0] != MagicNumber {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidModule, words[0])
	}
	m := &Module{Header: Header{
		Version:   versionFromWord(words[1]),
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}}
	for off := headerWords; off < len(words); {
		count := int(words[off] >> 16)
		if count == 0 || off+count > len(words) {
			return nil, fmt.Errorf("%w: word count %d at word %d", ErrInvalidModule, count, off)
		}
		m.Instructions = append(m.Instructions, Instruction{
			Opcode: OpCode(words[off] & 0xFFFF),
			Words:  words[off+1 : off+count],
		})
		off += count
	}
	return m, nil
}

// EntryPoint is an OpEntryPoint.
type EntryPoint struct {
	Model ExecutionModel
	ID    uint32
	Name  string
}

// EntryPoints returns the entry points in declaration order.
func (m *Module) EntryPoints() []EntryPoint {
	var eps []EntryPoint
	for _, inst := range m.Instructions {
		if inst.Opcode != OpEntryPoint || len(inst.Words) < 3 {
			continue
		}
		name, _ := decodeString(inst.Words[2:])
		eps = append(eps, EntryPoint{
			Model: ExecutionModel(inst.Words[0]),
			ID:    inst.Words[1],
			Name:  name,
		})
	}
	return eps
}

// HasEntryPoint reports whether the module has an entry point for model.
func (m *Module) HasEntryPoint(model ExecutionModel) bool {
	for _, ep := range m.EntryPoints() {
		if ep.Model == model {
			return true
		}
	}
	return false
}

// Capabilities returns the declared capability names.
func (m *Module) Capabilities() []string {
	var caps []string
	for _, inst := range m.Instructions {
		if inst.Opcode == OpCapability && len(inst.Words) > 0 {
			caps = append(caps, lookup(capabilities, inst.Words[0]))
		}
	}
	return caps
}

// encodeString encodes a null-terminated UTF-8 string padded to a word
// boundary.
func encodeString(s string) []uint32 {
	bytes := append([]byte(s), 0)
	for len(bytes)%4 != 0 {
		bytes = append(bytes, 0)
	}
	words := make([]uint32, 0, len(bytes)/4)
	for i := 0; i < len(bytes); i += 4 {
		words = append(words, uint32(bytes[i])|
			uint32(bytes[i+1])<<8|
			uint32(bytes[i+2])<<16|
			uint32(bytes[i+3])<<24)
	}
	return words
}

// decodeString reads a null-terminated string and returns it with the
// number of words it occupies.
func decodeString(words []uint32) (string, int) {
	var sb strings.Builder
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		}
	}
	return sb.String(), len(words)
}
