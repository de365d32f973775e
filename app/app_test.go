package app

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnkdev/vkprog/config"
	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/gpu/gputest"
	"github.com/jnkdev/vkprog/window"
)

func newFixture(adapters ...gputest.Adapter) (*window.Headless, *gputest.Runtime) {
	windows := &window.Headless{Polls: 2, Extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"}}
	rt := &gputest.Runtime{
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", gpu.DebugUtilsExtension},
		Layers:     []string{"VK_LAYER_KHRONOS_validation"},
		Adapters:   adapters,
	}
	return windows, rt
}

func newApp(t *testing.T, windows window.System, rt gpu.Runtime, once bool) *App {
	t.Helper()
	a, err := New(Options{
		Config:     config.Defaults(),
		Windows:    windows,
		NewRuntime: func() (gpu.Runtime, error) { return rt, nil },
		Once:       once,
	})
	require.NoError(t, err)
	return a
}

func TestRun(t *testing.T) {
	windows, rt := newFixture(
		gputest.Discrete("dGPU", gpu.FeatureGeometryShader),
		gputest.Integrated("iGPU", gpu.FeatureGeometryShader),
	)
	a := newApp(t, windows, rt, false)

	require.NoError(t, a.Init())
	require.NotNil(t, a.Context())
	assert.Equal(t, "iGPU", a.Context().Selection.Descriptor.Name, "power save prefers integrated")
	assert.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xcb_surface", gpu.DebugUtilsExtension}, rt.InstanceInfo.Extensions)

	require.NoError(t, a.Loop())
	assert.Equal(t, 3, windows.Windows[0].Polled)

	a.Clear()
	assert.Zero(t, rt.Live())
	assert.True(t, windows.Windows[0].Destroyed)
	assert.True(t, windows.Terminated)
	assert.Nil(t, a.Context())

	a.Clear()
	assert.Zero(t, rt.Live())
}

func TestRunOnce(t *testing.T) {
	windows, rt := newFixture(gputest.Discrete("dGPU", gpu.FeatureGeometryShader))
	windows.Polls = 100

	require.NoError(t, newApp(t, windows, rt, true).Run())
	assert.Equal(t, 1, windows.Windows[0].Polled)
	assert.Zero(t, rt.Live())
}

func TestRunFailures(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*window.Headless, *gputest.Runtime)
		code  Code
	}{
		{"window", func(w *window.Headless, _ *gputest.Runtime) { w.CreateErr = errors.New("no display") }, CodeWindowInit},
		{"window extensions", func(w *window.Headless, _ *gputest.Runtime) { w.ExtensionsErr = errors.New("no loader") }, CodeWindowInit},
		{"missing extension", func(_ *window.Headless, rt *gputest.Runtime) { rt.Extensions = []string{gpu.DebugUtilsExtension} }, CodeAPIInit},
		{"instance", func(_ *window.Headless, rt *gputest.Runtime) { rt.CreateInstanceErr = errors.New("driver") }, CodeAPIInit},
		{"device", func(_ *window.Headless, rt *gputest.Runtime) { rt.DeviceErr = errors.New("lost") }, CodeAPIInit},
		{"query", func(_ *window.Headless, rt *gputest.Runtime) { rt.ExtensionsErr = errors.New("loader") }, CodeCommand},
		{"no adapters", func(_ *window.Headless, rt *gputest.Runtime) { rt.Adapters = nil }, CodeDeviceEnumeration},
		{"no suitable adapter", func(_ *window.Headless, rt *gputest.Runtime) {
			rt.Adapters = []gputest.Adapter{gputest.Discrete("dGPU", 0)}
		}, CodeDeviceEnumeration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			windows, rt := newFixture(gputest.Discrete("dGPU", gpu.FeatureGeometryShader))
			c.setup(windows, rt)

			err := newApp(t, windows, rt, true).Run()
			require.Error(t, err)
			assert.Equal(t, c.code, CodeOf(err))
			assert.Zero(t, rt.Live())
			assert.True(t, windows.Terminated)
			for _, w := range windows.Windows {
				assert.True(t, w.Destroyed)
			}
		})
	}
}

func TestRuntimeFactoryFailure(t *testing.T) {
	windows, _ := newFixture()
	a, err := New(Options{
		Config:     config.Defaults(),
		Windows:    windows,
		NewRuntime: func() (gpu.Runtime, error) { return nil, errors.New("vkGetInstanceProcAddr is not available") },
	})
	require.NoError(t, err)

	err = a.Run()
	assert.Equal(t, CodeAPIInit, CodeOf(err))
	assert.True(t, windows.Windows[0].Destroyed)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
	_, err = New(Options{Config: config.Defaults()})
	assert.Error(t, err)
	_, err = New(Options{Config: config.Defaults(), Windows: &window.Headless{}})
	assert.Error(t, err)
}

func TestClearBeforeInit(t *testing.T) {
	windows, rt := newFixture()
	a := newApp(t, windows, rt, true)
	a.Clear()
	assert.False(t, windows.Terminated)
	assert.Error(t, a.Loop())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeOK, CodeOf(nil))
	assert.Equal(t, CodeUnsupportedPlatform, CodeOf(errors.Mark(errors.New("plan9"), window.ErrPlatformUnsupported)))
	assert.Equal(t, CodeWindowInit, CodeOf(errors.Wrap(window.ErrWindowInit, "sdl")))
	assert.Equal(t, CodeAPIInit, CodeOf(gpu.ErrAPIInit))
	assert.Equal(t, CodeCommand, CodeOf(errors.Wrap(gpu.ErrCommand, "vkEnumeratePhysicalDevices")))
	assert.Equal(t, CodeDeviceEnumeration, CodeOf(gpu.ErrDeviceEnumeration))
	assert.Equal(t, CodeUnknown, CodeOf(gpu.ErrUnknown))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("something else")))
	assert.Equal(t, -1, int(CodeUnknown))
	assert.Equal(t, "device enumeration", CodeDeviceEnumeration.String())
}
