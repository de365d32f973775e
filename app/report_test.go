package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/gpu/gputest"
)

func reportFixture() *gputest.Runtime {
	return &gputest.Runtime{
		Extensions: []string{"VK_KHR_surface", gpu.PortabilityEnumerationExtension},
		Layers:     []string{"VK_LAYER_KHRONOS_validation"},
		Adapters: []gputest.Adapter{
			gputest.Discrete("dGPU", 0),
			gputest.Integrated("iGPU", gpu.FeatureGeometryShader),
		},
	}
}

func TestBuildReport(t *testing.T) {
	rt := reportFixture()
	req := gpu.Requirements{Features: gpu.FeatureGeometryShader, Queue: gpu.QueueGraphics}

	r, err := BuildReport(rt, req, gpu.SelectionPolicy{}, nil)
	require.NoError(t, err)
	assert.Zero(t, rt.Live())
	assert.Equal(t, []string{"create instance", "destroy instance"}, rt.Events)
	assert.True(t, rt.InstanceInfo.EnumeratePortability)

	require.Len(t, r.Adapters, 2)
	assert.Equal(t, "dGPU", r.Adapters[0].Name)
	assert.Equal(t, "discrete", r.Adapters[0].Type)
	assert.False(t, r.Adapters[0].Suitable)
	assert.Contains(t, r.Adapters[0].Reason, "geometryShader")
	assert.Equal(t, "0x10de", r.Adapters[0].VendorID)
	assert.Equal(t, uint64(8192), r.Adapters[0].DeviceLocalMiB)

	assert.True(t, r.Adapters[1].Suitable)
	assert.Equal(t, []string{"geometryShader"}, r.Adapters[1].Features)
	assert.Equal(t, "graphics|transfer", r.Adapters[1].QueueFamilies[0].Flags)
	assert.Equal(t, "adapter#2", r.Selected)
}

func TestBuildReportNoAdapters(t *testing.T) {
	rt := reportFixture()
	rt.Adapters = nil

	_, err := BuildReport(rt, gpu.Requirements{Queue: gpu.QueueGraphics}, gpu.SelectionPolicy{}, nil)
	assert.True(t, errors.Is(err, gpu.ErrDeviceEnumeration))
	assert.Zero(t, rt.Live())
}

func TestReportWrite(t *testing.T) {
	r, err := BuildReport(reportFixture(), gpu.Requirements{Queue: gpu.QueueGraphics}, gpu.SelectionPolicy{}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, "json"))
	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, "adapter#1", fromJSON["selected"])
	assert.Len(t, fromJSON["adapters"], 2)

	buf.Reset()
	require.NoError(t, r.Write(&buf, "yaml"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "adapter#1", fromYAML["selected"])
	assert.Contains(t, buf.String(), "name: iGPU")

	assert.Error(t, r.Write(&buf, "xml"))
}
