package gpu

// Runtime is the boundary to the graphics API: the global entry points that
// exist before an instance is created.
type Runtime interface {
	InstanceExtensions() ([]ExtensionProperties, error)
	InstanceLayers() ([]LayerProperties, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

// InstanceCreateInfo is the negotiated input to instance creation.
type InstanceCreateInfo struct {
	ApplicationName string
	EngineName      string
	Extensions      []string
	Layers          []string
	// EnumeratePortability sets the portability enumeration instance flag.
	EnumeratePortability bool
	// Debug, when set, is chained into instance creation so messages emitted
	// while the instance is created and destroyed are captured too.
	Debug DebugHandler
}

// Instance is the top-level connection to the runtime.
type Instance interface {
	Adapters() ([]Handle, error)
	AdapterProperties(h Handle) (AdapterProperties, error)
	AdapterFeatures(h Handle) (Features, error)
	QueueFamilies(h Handle) ([]QueueFamily, error)
	MemoryLayout(h Handle) (MemoryLayout, error)
	DeviceExtensions(h Handle) ([]ExtensionProperties, error)

	CreateDebugMessenger(handler DebugHandler) (DebugMessenger, error)
	CreateDevice(h Handle, info DeviceCreateInfo) (Device, error)
	Destroy()
}

// DeviceCreateInfo is the input to logical device creation.
type DeviceCreateInfo struct {
	QueueFamilyIndex int
	QueuePriorities  []float32
	Features         Features
	Extensions       []string
	Layers           []string
}

// Device is a logical device bound to one adapter.
type Device interface {
	Queue(family, index int) Queue
	Destroy()
}

// Queue is a command submission queue of a Device.
type Queue interface {
	FamilyIndex() int
}

// DebugMessenger is a live debug channel registration.
type DebugMessenger interface {
	Destroy()
}

// DebugSeverity uses the VkDebugUtilsMessageSeverityFlagBitsEXT values.
type DebugSeverity uint32

const (
	DebugVerbose DebugSeverity = 0x0001
	DebugInfo    DebugSeverity = 0x0010
	DebugWarning DebugSeverity = 0x0100
	DebugError   DebugSeverity = 0x1000
)

// DebugMessageType uses the VkDebugUtilsMessageTypeFlagBitsEXT values.
type DebugMessageType uint32

const (
	DebugGeneral     DebugMessageType = 0x1
	DebugValidation  DebugMessageType = 0x2
	DebugPerformance DebugMessageType = 0x4
)

// DebugHandler receives runtime diagnostics. Returning true asks the runtime
// to abort the call that triggered the message.
type DebugHandler func(sev DebugSeverity, types DebugMessageType, message string) bool
