// Package gputest provides an in-memory gpu.Runtime for tests.
package gputest

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/gpu"
)

// Adapter describes one fake physical device.
type Adapter struct {
	Properties    gpu.AdapterProperties
	Features      gpu.Features
	QueueFamilies []gpu.QueueFamily
	Memory        gpu.MemoryLayout
	Extensions    []string
}

// Discrete returns a discrete adapter with one graphics+compute family.
func Discrete(name string, features gpu.Features) Adapter {
	return Adapter{
		Properties:    gpu.AdapterProperties{Name: name, VendorID: 0x10de, DeviceID: 0x2204, Type: gpu.AdapterDiscrete},
		Features:      features,
		QueueFamilies: []gpu.QueueFamily{{Flags: gpu.QueueGraphics | gpu.QueueCompute | gpu.QueueTransfer, Count: 16}},
		Memory: gpu.MemoryLayout{
			Heaps: []gpu.MemoryHeap{{Size: 8 << 30, Flags: gpu.MemoryHeapDeviceLocal}, {Size: 16 << 30}},
			Types: []gpu.MemoryType{{HeapIndex: 0, Flags: 0x1}, {HeapIndex: 1, Flags: 0x6}},
		},
	}
}

// Integrated returns an integrated adapter with one graphics family.
func Integrated(name string, features gpu.Features) Adapter {
	return Adapter{
		Properties:    gpu.AdapterProperties{Name: name, VendorID: 0x8086, DeviceID: 0x9a49, Type: gpu.AdapterIntegrated},
		Features:      features,
		QueueFamilies: []gpu.QueueFamily{{Flags: gpu.QueueGraphics | gpu.QueueTransfer, Count: 1}},
		Memory: gpu.MemoryLayout{
			Heaps: []gpu.MemoryHeap{{Size: 2 << 30, Flags: gpu.MemoryHeapDeviceLocal}},
			Types: []gpu.MemoryType{{HeapIndex: 0, Flags: 0x7}},
		},
	}
}

// Runtime is a scriptable gpu.Runtime. Every create and destroy call is
// appended to Events so tests can check ordering and leaks.
type Runtime struct {
	Extensions []string
	Layers     []string
	Adapters   []Adapter

	ExtensionsErr     error
	LayersErr         error
	CreateInstanceErr error
	EnumerateErr      error
	// DescribeErr fails every per-adapter query.
	DescribeErr  error
	MessengerErr error
	DeviceErr    error

	Events       []string
	InstanceInfo *gpu.InstanceCreateInfo
	DeviceHandle gpu.Handle
	DeviceInfo   *gpu.DeviceCreateInfo

	handler gpu.DebugHandler
	live    int
}

var _ gpu.Runtime = (*Runtime)(nil)

// Live is the number of created objects not yet destroyed.
func (r *Runtime) Live() int {
	return r.live
}

// Send delivers a message through the registered debug messenger, or the
// handler chained into instance creation when there is none.
func (r *Runtime) Send(sev gpu.DebugSeverity, message string) bool {
	h := r.handler
	if h == nil && r.InstanceInfo != nil {
		h = r.InstanceInfo.Debug
	}
	if h == nil {
		return false
	}
	return h(sev, gpu.DebugGeneral, message)
}

func (r *Runtime) event(format string, args ...interface{}) {
	r.Events = append(r.Events, fmt.Sprintf(format, args...))
}

func (r *Runtime) InstanceExtensions() ([]gpu.ExtensionProperties, error) {
	if r.ExtensionsErr != nil {
		return nil, r.ExtensionsErr
	}
	exts := make([]gpu.ExtensionProperties, 0, len(r.Extensions))
	for _, name := range r.Extensions {
		exts = append(exts, gpu.ExtensionProperties{Name: name, SpecVersion: 1})
	}
	return exts, nil
}

func (r *Runtime) InstanceLayers() ([]gpu.LayerProperties, error) {
	if r.LayersErr != nil {
		return nil, r.LayersErr
	}
	layers := make([]gpu.LayerProperties, 0, len(r.Layers))
	for _, name := range r.Layers {
		layers = append(layers, gpu.LayerProperties{Name: name})
	}
	return layers, nil
}

func (r *Runtime) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	if r.CreateInstanceErr != nil {
		return nil, r.CreateInstanceErr
	}
	r.InstanceInfo = &info
	r.live++
	r.event("create instance")
	return &instance{rt: r}, nil
}

type instance struct {
	rt *Runtime
}

func (i *instance) adapter(h gpu.Handle) (Adapter, error) {
	if i.rt.DescribeErr != nil {
		return Adapter{}, i.rt.DescribeErr
	}
	idx := int(h) - 1
	if idx < 0 || idx >= len(i.rt.Adapters) {
		return Adapter{}, errors.Newf("unknown %s", h)
	}
	return i.rt.Adapters[idx], nil
}

func (i *instance) Adapters() ([]gpu.Handle, error) {
	if i.rt.EnumerateErr != nil {
		return nil, i.rt.EnumerateErr
	}
	handles := make([]gpu.Handle, len(i.rt.Adapters))
	for idx := range i.rt.Adapters {
		handles[idx] = gpu.Handle(idx + 1)
	}
	return handles, nil
}

func (i *instance) AdapterProperties(h gpu.Handle) (gpu.AdapterProperties, error) {
	a, err := i.adapter(h)
	return a.Properties, err
}

func (i *instance) AdapterFeatures(h gpu.Handle) (gpu.Features, error) {
	a, err := i.adapter(h)
	return a.Features, err
}

func (i *instance) QueueFamilies(h gpu.Handle) ([]gpu.QueueFamily, error) {
	a, err := i.adapter(h)
	return a.QueueFamilies, err
}

func (i *instance) MemoryLayout(h gpu.Handle) (gpu.MemoryLayout, error) {
	a, err := i.adapter(h)
	return a.Memory, err
}

func (i *instance) DeviceExtensions(h gpu.Handle) ([]gpu.ExtensionProperties, error) {
	a, err := i.adapter(h)
	if err != nil {
		return nil, err
	}
	exts := make([]gpu.ExtensionProperties, 0, len(a.Extensions))
	for _, name := range a.Extensions {
		exts = append(exts, gpu.ExtensionProperties{Name: name, SpecVersion: 1})
	}
	return exts, nil
}

func (i *instance) CreateDebugMessenger(handler gpu.DebugHandler) (gpu.DebugMessenger, error) {
	if i.rt.MessengerErr != nil {
		return nil, i.rt.MessengerErr
	}
	i.rt.handler = handler
	i.rt.live++
	i.rt.event("create debug messenger")
	return &messenger{rt: i.rt}, nil
}

func (i *instance) CreateDevice(h gpu.Handle, info gpu.DeviceCreateInfo) (gpu.Device, error) {
	if i.rt.DeviceErr != nil {
		return nil, i.rt.DeviceErr
	}
	if _, err := i.adapter(h); err != nil {
		return nil, err
	}
	i.rt.DeviceHandle = h
	i.rt.DeviceInfo = &info
	i.rt.live++
	i.rt.event("create device")
	return &device{rt: i.rt}, nil
}

func (i *instance) Destroy() {
	i.rt.live--
	i.rt.event("destroy instance")
}

type messenger struct {
	rt *Runtime
}

func (m *messenger) Destroy() {
	m.rt.handler = nil
	m.rt.live--
	m.rt.event("destroy debug messenger")
}

type device struct {
	rt *Runtime
}

func (d *device) Queue(family, _ int) gpu.Queue {
	return queue(family)
}

func (d *device) Destroy() {
	d.rt.live--
	d.rt.event("destroy device")
}

type queue int

func (q queue) FamilyIndex() int {
	return int(q)
}
