// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disassemble writes m as SPIR-V assembly text. Ids print as %_N.
func Disassemble(w io.Writer, m *Module) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "; SPIR-V\n")
	fmt.Fprintf(bw, "; Version: %s\n", m.Header.Version)
	fmt.Fprintf(bw, "; Generator: 0x%08X\n", m.Header.Generator)
	fmt.Fprintf(bw, "; Bound: %d\n", m.Header.Bound)
	fmt.Fprintf(bw, "; Schema: %d\n\n", m.Header.Schema)

	for _, inst := range m.Instructions {
		result, operands := format(inst)
		line := strings.Join(append([]string{inst.Opcode.String()}, operands...), " ")
		if result != "" {
			fmt.Fprintf(bw, "%14s = %s\n", result, line)
		} else {
			fmt.Fprintf(bw, "%17s%s\n", "", line)
		}
	}
	return bw.Flush()
}

// Disassembly returns the assembly text of words.
func Disassembly(words []uint32) (string, error) {
	m, err := Parse(words)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := Disassemble(&sb, m); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func id(n uint32) string {
	return "%_" + strconv.FormatUint(uint64(n), 10)
}

func ids(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = id(op)
	}
	return out
}

func literals(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = strconv.FormatUint(uint64(op), 10)
	}
	return out
}

// minOperands is the operand count below which an opcode prints generically.
var minOperands = map[OpCode]int{
	OpCapability:             1,
	OpExtInstImport:          2,
	OpMemoryModel:            2,
	OpEntryPoint:             3,
	OpExecutionMode:          2,
	OpName:                   2,
	OpMemberName:             3,
	OpDecorate:               2,
	OpMemberDecorate:         3,
	OpTypeVoid:               1,
	OpTypeBool:               1,
	OpTypeInt:                3,
	OpTypeFloat:              2,
	OpTypeVector:             3,
	OpTypeMatrix:             3,
	OpTypeImage:              8,
	OpTypeSampler:            1,
	OpTypeSampledImage:       2,
	OpTypeArray:              3,
	OpTypeStruct:             1,
	OpTypePointer:            3,
	OpTypeFunction:           2,
	OpConstant:               3,
	OpConstantComposite:      2,
	OpFunction:               4,
	OpFunctionParameter:      2,
	OpVariable:               3,
	OpLoad:                   3,
	OpStore:                  2,
	OpAccessChain:            3,
	OpVectorShuffle:          4,
	OpCompositeConstruct:     2,
	OpCompositeExtract:       3,
	OpSampledImage:           4,
	OpImageSampleImplicitLod: 4,
	OpLabel:                  1,
	OpBranch:                 1,
	OpReturnValue:            1,
}

// format splits an instruction into its result id and printed operands.
func format(inst Instruction) (string, []string) {
	ops := inst.Words
	if n, ok := minOperands[inst.Opcode]; ok && len(ops) < n {
		return "", ids(ops)
	}

	switch inst.Opcode {
	case OpCapability:
		return "", []string{lookup(capabilities, ops[0])}
	case OpExtInstImport:
		s, _ := decodeString(ops[1:])
		return id(ops[0]), []string{strconv.Quote(s)}
	case OpMemoryModel:
		return "", []string{lookup(addressingModels, ops[0]), lookup(memoryModels, ops[1])}
	case OpEntryPoint:
		s, n := decodeString(ops[2:])
		out := []string{lookup(executionModels, ops[0]), id(ops[1]), strconv.Quote(s)}
		return "", append(out, ids(ops[2+n:])...)
	case OpExecutionMode:
		out := []string{id(ops[0]), lookup(executionModes, ops[1])}
		return "", append(out, literals(ops[2:])...)
	case OpName:
		s, _ := decodeString(ops[1:])
		return "", []string{id(ops[0]), strconv.Quote(s)}
	case OpMemberName:
		s, _ := decodeString(ops[2:])
		return "", []string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10), strconv.Quote(s)}
	case OpDecorate:
		out := []string{id(ops[0]), lookup(decorations, ops[1])}
		if ops[1] == 11 && len(ops) > 2 { // BuiltIn
			return "", append(out, lookup(builtins, ops[2]))
		}
		return "", append(out, literals(ops[2:])...)
	case OpMemberDecorate:
		out := []string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10), lookup(decorations, ops[2])}
		if ops[2] == 11 && len(ops) > 3 {
			return "", append(out, lookup(builtins, ops[3]))
		}
		return "", append(out, literals(ops[3:])...)

	case OpTypeVoid, OpTypeBool, OpTypeSampler, OpLabel:
		return id(ops[0]), nil
	case OpTypeInt:
		return id(ops[0]), literals(ops[1:3])
	case OpTypeFloat:
		return id(ops[0]), literals(ops[1:2])
	case OpTypeVector, OpTypeMatrix:
		return id(ops[0]), []string{id(ops[1]), strconv.FormatUint(uint64(ops[2]), 10)}
	case OpTypeImage:
		// Access qualifier only follows storage images.
		out := append([]string{id(ops[1]), lookup(dims, ops[2])}, literals(ops[3:7])...)
		out = append(out, "Unknown")
		if ops[6] != 1 && len(ops) > 8 {
			out = append(out, literals(ops[8:9])...)
		}
		return id(ops[0]), out
	case OpTypeSampledImage, OpTypeArray, OpTypeStruct, OpTypeFunction:
		return id(ops[0]), ids(ops[1:])
	case OpTypePointer:
		return id(ops[0]), []string{lookup(storageClasses, ops[1]), id(ops[2])}

	case OpConstant:
		return id(ops[1]), append([]string{id(ops[0])}, literals(ops[2:])...)
	case OpFunction:
		return id(ops[1]), []string{id(ops[0]), "None", id(ops[3])}
	case OpVariable:
		return id(ops[1]), []string{id(ops[0]), lookup(storageClasses, ops[2])}
	case OpCompositeExtract:
		return id(ops[1]), append([]string{id(ops[0]), id(ops[2])}, literals(ops[3:])...)
	case OpVectorShuffle:
		return id(ops[1]), append([]string{id(ops[0]), id(ops[2]), id(ops[3])}, literals(ops[4:])...)
	case OpConstantComposite, OpFunctionParameter, OpLoad, OpAccessChain,
		OpCompositeConstruct, OpSampledImage, OpImageSampleImplicitLod:
		return id(ops[1]), append([]string{id(ops[0])}, ids(ops[2:])...)

	case OpStore, OpBranch, OpReturnValue:
		return "", ids(ops)
	case OpFunctionEnd, OpReturn:
		return "", nil
	}

	// Arithmetic and logic: result type, result, operands.
	if inst.Opcode >= 126 && inst.Opcode <= 200 && len(ops) >= 2 {
		return id(ops[1]), append([]string{id(ops[0])}, ids(ops[2:])...)
	}
	return "", ids(ops)
}
