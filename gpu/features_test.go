package gpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnkdev/vkprog/gpu"
)

func TestFeatureNames(t *testing.T) {
	assert.Len(t, gpu.FeatureNames, 55)
	assert.Equal(t, "robustBufferAccess", gpu.FeatureNames[0])
	assert.Equal(t, "inheritedQueries", gpu.FeatureNames[len(gpu.FeatureNames)-1])
	assert.Equal(t, []string{"geometryShader"}, gpu.FeatureGeometryShader.Names())
}

func TestParseFeatures(t *testing.T) {
	f, err := gpu.ParseFeatures("geometryShader", "sampler_anisotropy", "TEXTURECOMPRESSIONASTC_LDR")
	require.NoError(t, err)
	assert.True(t, f.Has(gpu.FeatureGeometryShader|gpu.FeatureSamplerAnisotropy|gpu.FeatureTextureCompressionASTCLDR))
	assert.Equal(t, "geometryShader|samplerAnisotropy|textureCompressionASTC_LDR", f.String())

	f, err = gpu.ParseFeatures()
	require.NoError(t, err)
	assert.Equal(t, "none", f.String())

	_, err = gpu.ParseFeatures("warpDrive")
	assert.ErrorContains(t, err, "warpDrive")
}

func TestFeaturesMissing(t *testing.T) {
	have := gpu.FeatureGeometryShader | gpu.FeatureWideLines
	assert.Zero(t, have.Missing(gpu.FeatureGeometryShader))
	assert.Zero(t, have.Missing(0))
	assert.Equal(t, gpu.FeatureTessellationShader, have.Missing(gpu.FeatureGeometryShader|gpu.FeatureTessellationShader))
	assert.Equal(t, gpu.AllFeatures, gpu.Features(0).Missing(gpu.AllFeatures))
}
