package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"

	"github.com/jnkdev/vkprog/gpu"
)

// Instance wraps an instance driver. Adapter handles are positions in the
// last enumeration plus one.
type Instance struct {
	driver  core1_0.CoreInstanceDriver
	devices []core1_0.PhysicalDevice
}

var _ gpu.Instance = (*Instance)(nil)

func (i *Instance) Adapters() ([]gpu.Handle, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumeratePhysicalDevices")
	}
	i.devices = devices

	handles := make([]gpu.Handle, len(devices))
	for idx := range devices {
		handles[idx] = gpu.Handle(idx + 1)
	}
	return handles, nil
}

func (i *Instance) physicalDevice(h gpu.Handle) (core1_0.PhysicalDevice, error) {
	idx := int(h) - 1
	if idx < 0 || idx >= len(i.devices) {
		return core1_0.PhysicalDevice{}, errors.Newf("unknown %s", h)
	}
	return i.devices[idx], nil
}

func (i *Instance) AdapterProperties(h gpu.Handle) (gpu.AdapterProperties, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return gpu.AdapterProperties{}, err
	}
	props, err := i.driver.GetPhysicalDeviceProperties(pd)
	if err != nil {
		return gpu.AdapterProperties{}, errors.Wrap(err, "vkGetPhysicalDeviceProperties")
	}
	return gpu.AdapterProperties{
		Name:              props.DriverName,
		VendorID:          uint32(props.VendorID),
		DeviceID:          uint32(props.DeviceID),
		Type:              gpu.AdapterType(props.DriverType),
		PipelineCacheUUID: props.PipelineCacheUUID,
	}, nil
}

func (i *Instance) AdapterFeatures(h gpu.Handle) (gpu.Features, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return 0, err
	}
	return fromFeatureStruct(i.driver.GetPhysicalDeviceFeatures(pd)), nil
}

func (i *Instance) QueueFamilies(h gpu.Handle) ([]gpu.QueueFamily, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return nil, err
	}
	props := i.driver.GetPhysicalDeviceQueueFamilyProperties(pd)
	families := make([]gpu.QueueFamily, 0, len(props))
	for _, p := range props {
		families = append(families, gpu.QueueFamily{Flags: gpu.QueueFlags(p.QueueFlags), Count: int(p.QueueCount)})
	}
	return families, nil
}

func (i *Instance) MemoryLayout(h gpu.Handle) (gpu.MemoryLayout, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return gpu.MemoryLayout{}, err
	}
	props := i.driver.GetPhysicalDeviceMemoryProperties(pd)

	var layout gpu.MemoryLayout
	for _, heap := range props.MemoryHeaps {
		layout.Heaps = append(layout.Heaps, gpu.MemoryHeap{Size: uint64(heap.Size), Flags: uint32(heap.Flags)})
	}
	for _, t := range props.MemoryTypes {
		layout.Types = append(layout.Types, gpu.MemoryType{HeapIndex: int(t.HeapIndex), Flags: uint32(t.PropertyFlags)})
	}
	return layout, nil
}

func (i *Instance) DeviceExtensions(h gpu.Handle) ([]gpu.ExtensionProperties, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return nil, err
	}
	available, _, err := i.driver.EnumerateDeviceExtensionProperties(pd)
	if err != nil {
		return nil, errors.Wrap(err, "vkEnumerateDeviceExtensionProperties")
	}
	return extensionList(available), nil
}

func (i *Instance) CreateDebugMessenger(handler gpu.DebugHandler) (gpu.DebugMessenger, error) {
	ext := ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	m, _, err := ext.CreateDebugUtilsMessenger(nil, messengerOptions(handler))
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDebugUtilsMessengerEXT")
	}
	return &debugMessenger{ext: ext, messenger: m}, nil
}

// CreateDevice creates a logical device with a single queue create info.
// info.Layers is not forwarded: device layers are deprecated and the loader
// applies the instance layers to devices.
func (i *Instance) CreateDevice(h gpu.Handle, info gpu.DeviceCreateInfo) (gpu.Device, error) {
	pd, err := i.physicalDevice(h)
	if err != nil {
		return nil, err
	}
	driver, _, err := i.driver.CreateDevice(pd, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: info.QueueFamilyIndex,
				QueuePriorities:  info.QueuePriorities,
			},
		},
		EnabledFeatures:       toFeatureStruct(info.Features),
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateDevice")
	}
	return &Device{driver: driver}, nil
}

func (i *Instance) Destroy() {
	i.driver.DestroyInstance(nil)
	i.devices = nil
}

// Device wraps a device driver.
type Device struct {
	driver core1_0.CoreDeviceDriver
}

func (d *Device) Queue(family, index int) gpu.Queue {
	return Queue{family: family, queue: d.driver.GetQueue(family, index)}
}

func (d *Device) Destroy() {
	d.driver.DestroyDevice(nil)
}

// Queue keeps the family index next to the vkngwrapper queue handle.
type Queue struct {
	family int
	queue  core1_0.Queue
}

func (q Queue) FamilyIndex() int {
	return q.family
}

// Handle exposes the underlying queue for command submission.
func (q Queue) Handle() core1_0.Queue {
	return q.queue
}

type debugMessenger struct {
	ext       ext_debug_utils.ExtensionDriver
	messenger ext_debug_utils.DebugUtilsMessenger
}

func (m *debugMessenger) Destroy() {
	m.ext.DestroyDebugUtilsMessenger(m.messenger, nil)
}
