package gpu_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/gpu/gputest"
)

func TestUnsupported(t *testing.T) {
	available := []string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_utils"}

	assert.Empty(t, gpu.Unsupported(nil, available))
	assert.Empty(t, gpu.Unsupported([]string{"VK_KHR_surface"}, available))
	assert.Equal(t,
		[]string{"VK_KHR_win32_surface", "X"},
		gpu.Unsupported([]string{"VK_KHR_win32_surface", "VK_KHR_surface", "X", "VK_KHR_win32_surface"}, available))
	assert.Equal(t, []string{"VK_KHR_SURFACE"}, gpu.Unsupported([]string{"VK_KHR_SURFACE"}, available), "matching is case-sensitive")
	assert.Empty(t, gpu.Unsupported([]string{"", ""}, nil), "empty names are ignored")
	assert.Equal(t, []string{"a", "b"}, gpu.Unsupported([]string{"a", "b"}, nil))
}

func TestUnsupportedIsSubsetAndIdempotent(t *testing.T) {
	requested := []string{"a", "b", "c", "d"}
	available := []string{"b", "d", "e"}

	missing := gpu.Unsupported(requested, available)
	for _, m := range missing {
		assert.Contains(t, requested, m)
		assert.NotContains(t, available, m)
	}
	assert.Equal(t, missing, gpu.Unsupported(requested, available))
	assert.Equal(t, missing, gpu.Unsupported(missing, available))
}

func TestUnsupportedMonotonic(t *testing.T) {
	requested := []string{"a", "b", "c"}
	small := gpu.Unsupported(requested, []string{"a"})
	large := gpu.Unsupported(requested, []string{"a", "c"})
	for _, m := range large {
		assert.Contains(t, small, m)
	}
	assert.Less(t, len(large), len(small))
}

func TestQueryCapabilities(t *testing.T) {
	rt := &gputest.Runtime{
		Extensions: []string{"VK_KHR_surface"},
		Layers:     []string{"VK_LAYER_KHRONOS_validation"},
	}
	caps, err := gpu.QueryCapabilities(rt)
	require.NoError(t, err)
	assert.Equal(t, []string{"VK_KHR_surface"}, gpu.ExtensionNames(caps.Extensions))
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, gpu.LayerNames(caps.Layers))

	caps, err = gpu.QueryCapabilities(&gputest.Runtime{})
	require.NoError(t, err)
	assert.Empty(t, caps.Extensions)
	assert.Empty(t, caps.Layers)
}

func TestQueryCapabilitiesFailure(t *testing.T) {
	_, err := gpu.QueryCapabilities(&gputest.Runtime{ExtensionsErr: errors.New("loader gone")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrCommand))
	assert.Contains(t, err.Error(), "can't get supported extensions list")

	_, err = gpu.QueryCapabilities(&gputest.Runtime{LayersErr: errors.New("loader gone")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrCommand))
	assert.Contains(t, err.Error(), "can't get available layers list")
}
