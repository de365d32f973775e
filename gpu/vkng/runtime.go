// Package vkng implements gpu.Runtime on top of vkngwrapper.
package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/jnkdev/vkprog/gpu"
)

// Runtime wraps the vkngwrapper global driver.
type Runtime struct {
	driver core1_0.GlobalDriver
}

var _ gpu.Runtime = (*Runtime)(nil)

// New loads the global driver from a vkGetInstanceProcAddr pointer, usually
// obtained from the window system.
func New(procAddr unsafe.Pointer) (*Runtime, error) {
	if procAddr == nil {
		return nil, errors.New("vkGetInstanceProcAddr is not available")
	}
	driver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "load Vulkan driver")
	}
	return &Runtime{driver: driver}, nil
}

func (r *Runtime) InstanceExtensions() ([]gpu.ExtensionProperties, error) {
	available, _, err := r.driver.AvailableExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceExtensionProperties")
	}
	return extensionList(available), nil
}

func (r *Runtime) InstanceLayers() ([]gpu.LayerProperties, error) {
	available, _, err := r.driver.AvailableLayers()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateInstanceLayerProperties")
	}
	names := maps.Keys(available)
	slices.Sort(names)

	layers := make([]gpu.LayerProperties, 0, len(names))
	for _, name := range names {
		layers = append(layers, gpu.LayerProperties{Name: name, Description: available[name].Description})
	}
	return layers, nil
}

func (r *Runtime) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	options := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            info.EngineName,
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledExtensionNames: info.Extensions,
		EnabledLayerNames:     info.Layers,
	}
	if info.EnumeratePortability {
		options.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}
	if info.Debug != nil {
		options.Next = messengerOptions(info.Debug)
	}

	driver, _, err := r.driver.CreateInstance(nil, options)
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateInstance")
	}
	return &Instance{driver: driver}, nil
}

func extensionList(available map[string]*core1_0.ExtensionProperties) []gpu.ExtensionProperties {
	names := maps.Keys(available)
	slices.Sort(names)

	exts := make([]gpu.ExtensionProperties, 0, len(names))
	for _, name := range names {
		exts = append(exts, gpu.ExtensionProperties{Name: name, SpecVersion: uint32(available[name].SpecVersion)})
	}
	return exts
}
