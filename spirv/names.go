// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package spirv

import "strconv"

var opcodeNames = map[OpCode]string{}

func init() {
	for _, op := range []struct {
		code OpCode
		name string
	}{
		{OpNop, "Nop"}, {OpUndef, "Undef"}, {OpSource, "Source"},
		{OpSourceExtension, "SourceExtension"}, {OpName, "Name"},
		{OpMemberName, "MemberName"}, {OpString, "String"},
		{OpExtension, "Extension"}, {OpExtInstImport, "ExtInstImport"},
		{OpExtInst, "ExtInst"}, {OpMemoryModel, "MemoryModel"},
		{OpEntryPoint, "EntryPoint"}, {OpExecutionMode, "ExecutionMode"},
		{OpCapability, "Capability"},
		{OpTypeVoid, "TypeVoid"}, {OpTypeBool, "TypeBool"}, {OpTypeInt, "TypeInt"},
		{OpTypeFloat, "TypeFloat"}, {OpTypeVector, "TypeVector"},
		{OpTypeMatrix, "TypeMatrix"}, {OpTypeImage, "TypeImage"},
		{OpTypeSampler, "TypeSampler"}, {OpTypeSampledImage, "TypeSampledImage"},
		{OpTypeArray, "TypeArray"}, {OpTypeStruct, "TypeStruct"},
		{OpTypePointer, "TypePointer"}, {OpTypeFunction, "TypeFunction"},
		{OpConstantTrue, "ConstantTrue"}, {OpConstantFalse, "ConstantFalse"},
		{OpConstant, "Constant"}, {OpConstantComposite, "ConstantComposite"},
		{OpFunction, "Function"}, {OpFunctionParameter, "FunctionParameter"},
		{OpFunctionEnd, "FunctionEnd"}, {OpFunctionCall, "FunctionCall"},
		{OpVariable, "Variable"}, {OpLoad, "Load"}, {OpStore, "Store"},
		{OpAccessChain, "AccessChain"}, {OpDecorate, "Decorate"},
		{OpMemberDecorate, "MemberDecorate"}, {OpVectorShuffle, "VectorShuffle"},
		{OpCompositeConstruct, "CompositeConstruct"},
		{OpCompositeExtract, "CompositeExtract"}, {OpCompositeInsert, "CompositeInsert"},
		{OpSampledImage, "SampledImage"}, {OpImageSampleImplicitLod, "ImageSampleImplicitLod"},
		{OpConvertSToF, "ConvertSToF"}, {OpFNegate, "FNegate"},
		{OpIAdd, "IAdd"}, {OpFAdd, "FAdd"}, {OpISub, "ISub"}, {OpFSub, "FSub"},
		{OpIMul, "IMul"}, {OpFMul, "FMul"}, {OpFDiv, "FDiv"},
		{OpVectorTimesScalar, "VectorTimesScalar"},
		{OpMatrixTimesScalar, "MatrixTimesScalar"},
		{OpVectorTimesMatrix, "VectorTimesMatrix"},
		{OpMatrixTimesVector, "MatrixTimesVector"},
		{OpMatrixTimesMatrix, "MatrixTimesMatrix"}, {OpDot, "Dot"},
		{OpLoopMerge, "LoopMerge"}, {OpSelectionMerge, "SelectionMerge"},
		{OpLabel, "Label"}, {OpBranch, "Branch"},
		{OpBranchConditional, "BranchConditional"}, {OpKill, "Kill"},
		{OpReturn, "Return"}, {OpReturnValue, "ReturnValue"},
	} {
		opcodeNames[op.code] = "Op" + op.name
	}
}

// Operand enumerants, limited to what graphics shaders declare.
var (
	capabilities = map[uint32]string{
		0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
		9: "Float16", 10: "Float64", 11: "Int64", 22: "Int16", 39: "Int8",
		32: "ClipDistance", 33: "CullDistance", 34: "ImageCubeArray",
		35: "SampleRateShading", 40: "InputAttachment", 42: "MinLod",
		45: "SampledCubeArray", 50: "ImageQuery", 51: "DerivativeControl",
		4427: "DrawParameters", 4439: "MultiView",
	}
	storageClasses = map[uint32]string{
		0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
		4: "Workgroup", 6: "Private", 7: "Function", 9: "PushConstant",
		12: "StorageBuffer",
	}
	decorations = map[uint32]string{
		0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
		4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
		11: "BuiltIn", 13: "NoPerspective", 14: "Flat", 16: "Centroid",
		18: "Invariant", 24: "NonWritable", 25: "NonReadable",
		30: "Location", 31: "Component", 32: "Index", 33: "Binding",
		34: "DescriptorSet", 35: "Offset", 43: "InputAttachmentIndex",
	}
	builtins = map[uint32]string{
		0: "Position", 1: "PointSize", 3: "ClipDistance", 4: "CullDistance",
		5: "VertexId", 6: "InstanceId", 9: "Layer", 15: "FragCoord",
		16: "PointCoord", 17: "FrontFacing", 18: "SampleId",
		19: "SamplePosition", 20: "SampleMask", 22: "FragDepth",
		23: "HelperInvocation", 42: "VertexIndex", 43: "InstanceIndex",
	}
	executionModes = map[uint32]string{
		7: "OriginUpperLeft", 8: "OriginLowerLeft", 9: "EarlyFragmentTests",
		12: "DepthReplacing", 14: "DepthGreater", 15: "DepthLess",
		16: "DepthUnchanged", 17: "LocalSize",
	}
	executionModels = map[uint32]string{
		0: "Vertex", 4: "Fragment", 5: "GLCompute",
	}
	dims = map[uint32]string{
		0: "1D", 1: "2D", 2: "3D", 3: "Cube", 6: "SubpassData",
	}
	addressingModels = map[uint32]string{0: "Logical"}
	memoryModels     = map[uint32]string{0: "Simple", 1: "GLSL450", 3: "Vulkan"}
)

// lookup names an enumerant, falling back to its number.
func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}
