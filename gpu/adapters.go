package gpu

import (
	"cogentcore.org/core/base/ordmap"
	"github.com/cockroachdb/errors"
)

// Adapters maps adapter handles to their descriptors. Iteration follows
// discovery order.
type Adapters struct {
	m *ordmap.Map[Handle, *AdapterDescriptor]
}

// NewAdapters builds an Adapters mapping from descriptors in discovery order.
func NewAdapters(descs ...*AdapterDescriptor) *Adapters {
	a := &Adapters{m: ordmap.New[Handle, *AdapterDescriptor]()}
	for _, d := range descs {
		a.Add(d)
	}
	return a
}

// Add appends d, replacing an existing entry for the same handle in place.
func (a *Adapters) Add(d *AdapterDescriptor) {
	a.m.Add(d.Handle, d)
}

// Len returns the number of adapters.
func (a *Adapters) Len() int {
	if a == nil {
		return 0
	}
	return a.m.Len()
}

// Get returns the descriptor for h.
func (a *Adapters) Get(h Handle) (*AdapterDescriptor, bool) {
	return a.m.ValueByKeyTry(h)
}

// Handles lists the handles in discovery order.
func (a *Adapters) Handles() []Handle {
	return a.m.Keys()
}

// All lists the descriptors in discovery order.
func (a *Adapters) All() []*AdapterDescriptor {
	if a == nil {
		return nil
	}
	return a.m.Values()
}

// EnumerateAdapters collects a descriptor for every adapter the instance
// exposes. It fails with ErrDeviceEnumeration when there are none and with
// ErrCommand when any query fails.
func EnumerateAdapters(inst Instance) (*Adapters, error) {
	handles, err := inst.Adapters()
	if err != nil {
		return nil, mark(err, ErrCommand, "enumerate physical devices")
	}
	if len(handles) == 0 {
		return nil, errors.Mark(
			errors.WithHint(errors.New("none of your graphics adapters support Vulkan"),
				"check that a Vulkan driver (ICD) is installed for your GPU"),
			ErrDeviceEnumeration)
	}

	adapters := NewAdapters()
	for _, h := range handles {
		desc, err := describe(inst, h)
		if err != nil {
			return nil, err
		}
		adapters.Add(desc)
	}
	return adapters, nil
}

func describe(inst Instance, h Handle) (*AdapterDescriptor, error) {
	desc := &AdapterDescriptor{Handle: h}

	features, err := inst.AdapterFeatures(h)
	if err != nil {
		return nil, mark(err, ErrCommand, "get features of %s", h)
	}
	desc.Features = features

	desc.QueueFamilies, err = inst.QueueFamilies(h)
	if err != nil {
		return nil, mark(err, ErrCommand, "get queue families of %s", h)
	}

	desc.AdapterProperties, err = inst.AdapterProperties(h)
	if err != nil {
		return nil, mark(err, ErrCommand, "get properties of %s", h)
	}

	desc.Memory, err = inst.MemoryLayout(h)
	if err != nil {
		return nil, mark(err, ErrCommand, "get memory properties of %s", h)
	}

	exts, err := inst.DeviceExtensions(h)
	if err != nil {
		return nil, mark(err, ErrCommand, "get device extensions of %s", h)
	}
	desc.Extensions = ExtensionNames(exts)

	return desc, nil
}
