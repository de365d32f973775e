package gpu

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Features is a bitset over the members of VkPhysicalDeviceFeatures, one bit
// per member in declaration order.
type Features uint64

const (
	FeatureRobustBufferAccess Features = 1 << iota
	FeatureFullDrawIndexUint32
	FeatureImageCubeArray
	FeatureIndependentBlend
	FeatureGeometryShader
	FeatureTessellationShader
	FeatureSampleRateShading
	FeatureDualSrcBlend
	FeatureLogicOp
	FeatureMultiDrawIndirect
	FeatureDrawIndirectFirstInstance
	FeatureDepthClamp
	FeatureDepthBiasClamp
	FeatureFillModeNonSolid
	FeatureDepthBounds
	FeatureWideLines
	FeatureLargePoints
	FeatureAlphaToOne
	FeatureMultiViewport
	FeatureSamplerAnisotropy
	FeatureTextureCompressionETC2
	FeatureTextureCompressionASTCLDR
	FeatureTextureCompressionBC
	FeatureOcclusionQueryPrecise
	FeaturePipelineStatisticsQuery
	FeatureVertexPipelineStoresAndAtomics
	FeatureFragmentStoresAndAtomics
	FeatureShaderTessellationAndGeometryPointSize
	FeatureShaderImageGatherExtended
	FeatureShaderStorageImageExtendedFormats
	FeatureShaderStorageImageMultisample
	FeatureShaderStorageImageReadWithoutFormat
	FeatureShaderStorageImageWriteWithoutFormat
	FeatureShaderUniformBufferArrayDynamicIndexing
	FeatureShaderSampledImageArrayDynamicIndexing
	FeatureShaderStorageBufferArrayDynamicIndexing
	FeatureShaderStorageImageArrayDynamicIndexing
	FeatureShaderClipDistance
	FeatureShaderCullDistance
	FeatureShaderFloat64
	FeatureShaderInt64
	FeatureShaderInt16
	FeatureShaderResourceResidency
	FeatureShaderResourceMinLod
	FeatureSparseBinding
	FeatureSparseResidencyBuffer
	FeatureSparseResidencyImage2D
	FeatureSparseResidencyImage3D
	FeatureSparseResidency2Samples
	FeatureSparseResidency4Samples
	FeatureSparseResidency8Samples
	FeatureSparseResidency16Samples
	FeatureSparseResidencyAliased
	FeatureVariableMultisampleRate
	FeatureInheritedQueries
)

// FeatureNames holds the Vulkan member name of every feature bit, indexed by
// bit position.
var FeatureNames = [...]string{
	"robustBufferAccess",
	"fullDrawIndexUint32",
	"imageCubeArray",
	"independentBlend",
	"geometryShader",
	"tessellationShader",
	"sampleRateShading",
	"dualSrcBlend",
	"logicOp",
	"multiDrawIndirect",
	"drawIndirectFirstInstance",
	"depthClamp",
	"depthBiasClamp",
	"fillModeNonSolid",
	"depthBounds",
	"wideLines",
	"largePoints",
	"alphaToOne",
	"multiViewport",
	"samplerAnisotropy",
	"textureCompressionETC2",
	"textureCompressionASTC_LDR",
	"textureCompressionBC",
	"occlusionQueryPrecise",
	"pipelineStatisticsQuery",
	"vertexPipelineStoresAndAtomics",
	"fragmentStoresAndAtomics",
	"shaderTessellationAndGeometryPointSize",
	"shaderImageGatherExtended",
	"shaderStorageImageExtendedFormats",
	"shaderStorageImageMultisample",
	"shaderStorageImageReadWithoutFormat",
	"shaderStorageImageWriteWithoutFormat",
	"shaderUniformBufferArrayDynamicIndexing",
	"shaderSampledImageArrayDynamicIndexing",
	"shaderStorageBufferArrayDynamicIndexing",
	"shaderStorageImageArrayDynamicIndexing",
	"shaderClipDistance",
	"shaderCullDistance",
	"shaderFloat64",
	"shaderInt64",
	"shaderInt16",
	"shaderResourceResidency",
	"shaderResourceMinLod",
	"sparseBinding",
	"sparseResidencyBuffer",
	"sparseResidencyImage2D",
	"sparseResidencyImage3D",
	"sparseResidency2Samples",
	"sparseResidency4Samples",
	"sparseResidency8Samples",
	"sparseResidency16Samples",
	"sparseResidencyAliased",
	"variableMultisampleRate",
	"inheritedQueries",
}

// AllFeatures has every known feature bit set.
const AllFeatures = FeatureInheritedQueries<<1 - 1

// NormalizeFeatureName folds a feature name for lookups: lower case with
// underscores removed, so "textureCompressionASTC_LDR" matches a Go field
// named TextureCompressionAstcLdr.
func NormalizeFeatureName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

var featureByName = func() map[string]Features {
	m := make(map[string]Features, len(FeatureNames))
	for i, name := range FeatureNames {
		m[NormalizeFeatureName(name)] = 1 << i
	}
	return m
}()

// ParseFeatures maps Vulkan member names to a bitset.
func ParseFeatures(names ...string) (Features, error) {
	var f Features
	for _, name := range names {
		bit, ok := featureByName[NormalizeFeatureName(name)]
		if !ok {
			return 0, errors.Newf("unknown device feature %q", name)
		}
		f |= bit
	}
	return f, nil
}

// Has reports whether every bit of want is set in f.
func (f Features) Has(want Features) bool {
	return f&want == want
}

// Missing returns the bits of required that f lacks. Bits set in f but not
// in required are ignored.
func (f Features) Missing(required Features) Features {
	return required &^ f
}

// Names lists the Vulkan member names of the set bits, in bit order.
func (f Features) Names() []string {
	var names []string
	for i, name := range FeatureNames {
		if f&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

func (f Features) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}
