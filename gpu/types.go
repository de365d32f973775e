package gpu

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Handle identifies an adapter for the lifetime of one Instance. The zero
// Handle is never a valid adapter.
type Handle uint64

func (h Handle) String() string {
	return fmt.Sprintf("adapter#%d", uint64(h))
}

// QueueFlags uses the VkQueueFlagBits values.
type QueueFlags uint32

const (
	QueueGraphics      QueueFlags = 0x1
	QueueCompute       QueueFlags = 0x2
	QueueTransfer      QueueFlags = 0x4
	QueueSparseBinding QueueFlags = 0x8
)

var queueFlagNames = []struct {
	flag QueueFlags
	name string
}{
	{QueueGraphics, "graphics"},
	{QueueCompute, "compute"},
	{QueueTransfer, "transfer"},
	{QueueSparseBinding, "sparse_binding"},
}

// ParseQueueFlags accepts names like "graphics" or "graphics|compute".
func ParseQueueFlags(s string) (QueueFlags, error) {
	var flags QueueFlags
	for _, part := range strings.Split(s, "|") {
		part = strings.ToLower(strings.TrimSpace(part))
		found := false
		for _, qf := range queueFlagNames {
			if qf.name == part {
				flags |= qf.flag
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Newf("unknown queue capability %q", part)
		}
	}
	return flags, nil
}

func (q QueueFlags) String() string {
	var parts []string
	for _, qf := range queueFlagNames {
		if q&qf.flag != 0 {
			parts = append(parts, qf.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// AdapterType uses the VkPhysicalDeviceType values.
type AdapterType int

const (
	AdapterOther AdapterType = iota
	AdapterIntegrated
	AdapterDiscrete
	AdapterVirtual
	AdapterCPU
)

func (t AdapterType) String() string {
	switch t {
	case AdapterDiscrete:
		return "discrete"
	case AdapterIntegrated:
		return "integrated"
	case AdapterVirtual:
		return "virtual"
	case AdapterCPU:
		return "cpu"
	}
	return "unknown-type"
}

// ExtensionProperties describes one instance or device extension.
type ExtensionProperties struct {
	Name        string
	SpecVersion uint32
}

// LayerProperties describes one instance layer.
type LayerProperties struct {
	Name        string
	Description string
}

// QueueFamily describes one entry of an adapter's queue family list.
type QueueFamily struct {
	Flags QueueFlags
	Count int
}

// MemoryHeapDeviceLocal is VK_MEMORY_HEAP_DEVICE_LOCAL_BIT.
const MemoryHeapDeviceLocal uint32 = 0x1

type MemoryHeap struct {
	Size  uint64
	Flags uint32
}

type MemoryType struct {
	HeapIndex int
	Flags     uint32
}

// MemoryLayout is the heap and memory type layout of an adapter.
type MemoryLayout struct {
	Heaps []MemoryHeap
	Types []MemoryType
}

// DeviceLocalBytes sums the sizes of device-local heaps.
func (m MemoryLayout) DeviceLocalBytes() uint64 {
	var total uint64
	for _, h := range m.Heaps {
		if h.Flags&MemoryHeapDeviceLocal != 0 {
			total += h.Size
		}
	}
	return total
}

// AdapterProperties are the identifying properties of an adapter.
type AdapterProperties struct {
	Name              string
	VendorID          uint32
	DeviceID          uint32
	Type              AdapterType
	PipelineCacheUUID uuid.UUID
}

// AdapterDescriptor is everything collected about one adapter during an
// enumeration pass.
type AdapterDescriptor struct {
	Handle Handle
	AdapterProperties
	Features      Features
	Memory        MemoryLayout
	QueueFamilies []QueueFamily
	Extensions    []string
}

// Requirements is the declared set of needs an initialization run is
// negotiated against. Treat it as immutable once built.
type Requirements struct {
	InstanceExtensions []string
	ValidationLayers   []string
	DeviceExtensions   []string
	Features           Features
	// Queue must be fully supported by at least one queue family.
	Queue QueueFlags
}

// Capabilities is what the runtime reports as globally available.
type Capabilities struct {
	Extensions []ExtensionProperties
	Layers     []LayerProperties
}
