package gpu

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"

	"github.com/jnkdev/vkprog/logs"
)

// Extension names the builder adds on its own.
const (
	DebugUtilsExtension             = "VK_EXT_debug_utils"
	PortabilityEnumerationExtension = "VK_KHR_portability_enumeration"
	PortabilitySubsetExtension      = "VK_KHR_portability_subset"
)

// BuildOptions are the non-requirement inputs of Build.
type BuildOptions struct {
	ApplicationName string
	EngineName      string
	// PlatformExtensions are the instance extensions the window system needs.
	PlatformExtensions []string
	// Validation enables validation layers, the debug utils extension and
	// the debug channel.
	Validation bool
	Selection  SelectionPolicy
	Logger     logs.Logger
}

// Context owns the instance, the optional debug messenger and the logical
// device created by Build.
type Context struct {
	Instance  Instance
	Debug     DebugMessenger
	Device    Device
	Queue     Queue
	Selection Selection

	// Extensions and Layers are what the instance was created with.
	Extensions []string
	Layers     []string

	log      logs.Tagged
	releases []release
}

type release struct {
	name string
	fn   func()
}

func (c *Context) acquired(name string, fn func()) {
	c.releases = append(c.releases, release{name: name, fn: fn})
}

// Destroy releases everything acquired so far in reverse order. Calling it
// again is a no-op.
func (c *Context) Destroy() {
	if c == nil {
		return
	}
	for i := len(c.releases) - 1; i >= 0; i-- {
		r := c.releases[i]
		r.fn()
		c.log.V("Vulkan %s destroyed", r.name)
	}
	c.releases = nil
	c.Device = nil
	c.Queue = nil
	c.Debug = nil
	c.Instance = nil
}

// Build negotiates req against what rt supports, creates the instance,
// selects an adapter and creates a logical device with one queue on it.
// On failure everything created so far is released before returning.
func Build(rt Runtime, req Requirements, opts BuildOptions) (_ *Context, err error) {
	if opts.Logger == nil {
		opts.Logger = logs.Discard
	}
	ctx := &Context{log: logs.Tagged{Logger: opts.Logger, Tag: logs.DefaultTag}}
	defer func() {
		if err != nil {
			ctx.Destroy()
		}
	}()

	stage := hrtime.Now()
	timed := func(what string) {
		now := hrtime.Now()
		ctx.log.V("%s in %v", what, (now - stage).Round(time.Microsecond))
		stage = now
	}

	caps, err := queryCapabilities(rt, opts.Validation)
	if err != nil {
		ctx.log.E("%v", err)
		return nil, err
	}
	timed("Queried instance capabilities")

	ctx.Layers = negotiateLayers(ctx.log, req.ValidationLayers, caps, opts.Validation)

	exts, portability, err := negotiateExtensions(ctx.log, req, caps, opts)
	if err != nil {
		return nil, err
	}
	ctx.Extensions = exts

	channel := DebugChannel{Logger: opts.Logger}
	info := InstanceCreateInfo{
		ApplicationName:      opts.ApplicationName,
		EngineName:           opts.EngineName,
		Extensions:           exts,
		Layers:               ctx.Layers,
		EnumeratePortability: portability,
	}
	if opts.Validation {
		info.Debug = channel.Handle
	}
	inst, err := rt.CreateInstance(info)
	if err != nil {
		ctx.log.E("Failed to create Vulkan instance: %v", err)
		return nil, mark(err, ErrAPIInit, "create Vulkan instance")
	}
	ctx.Instance = inst
	ctx.acquired("instance", inst.Destroy)
	ctx.log.I("Vulkan instance created")
	timed("Created instance")

	if opts.Validation {
		messenger, err := inst.CreateDebugMessenger(channel.Handle)
		if err != nil {
			ctx.log.W("Failed to set up debug messenger, continuing without it: %v", err)
		} else {
			ctx.Debug = messenger
			ctx.acquired("debug messenger", messenger.Destroy)
		}
	}

	adapters, err := EnumerateAdapters(inst)
	if err != nil {
		ctx.log.E("%v", err)
		return nil, err
	}
	for _, d := range adapters.All() {
		ctx.log.V("Found %s GPU \"%s\" (vendor 0x%04x, device 0x%04x, %d MiB device-local, %d queue families)",
			d.Type, d.Name, d.VendorID, d.DeviceID, d.Memory.DeviceLocalBytes()>>20, len(d.QueueFamilies))
	}
	timed("Enumerated adapters")

	sel, err := SelectAdapter(adapters, req, opts.Selection, opts.Logger)
	if err != nil {
		return nil, err
	}
	ctx.Selection = sel

	if err := ctx.createDevice(req); err != nil {
		return nil, err
	}
	timed("Created logical device")

	return ctx, nil
}

func negotiateLayers(l logs.Tagged, requested []string, caps Capabilities, validation bool) []string {
	if !validation {
		return nil
	}
	unsupported := Unsupported(requested, LayerNames(caps.Layers))
	if len(unsupported) == 0 {
		l.I("All requested Vulkan validation layers are supported")
	} else {
		l.W("Following Vulkan validation layers couldn't be registered. They will be skipped")
		for _, layer := range unsupported {
			l.W(" - %s", layer)
		}
	}
	return without(requested, unsupported)
}

func negotiateExtensions(l logs.Tagged, req Requirements, caps Capabilities, opts BuildOptions) ([]string, bool, error) {
	exts := append([]string{}, opts.PlatformExtensions...)
	exts = append(exts, req.InstanceExtensions...)
	if opts.Validation {
		exts = append(exts, DebugUtilsExtension)
	}
	exts = without(exts, nil)

	available := ExtensionNames(caps.Extensions)
	unsupported := Unsupported(exts, available)
	if len(unsupported) > 0 {
		l.E("Following Vulkan extensions are not supported by your system")
		for _, ext := range unsupported {
			l.E(" - %s", ext)
		}
		err := errors.Newf("missing instance extensions: %s", strings.Join(unsupported, ", "))
		err = errors.WithHint(err, "install or update the Vulkan loader and GPU driver")
		return nil, false, errors.Mark(err, ErrAPIInit)
	}
	l.I("All required Vulkan extensions are supported")

	portability := false
	if len(Unsupported([]string{PortabilityEnumerationExtension}, available)) == 0 {
		portability = true
		exts = without(append(exts, PortabilityEnumerationExtension), nil)
	}
	return exts, portability, nil
}

func (c *Context) createDevice(req Requirements) error {
	sel := c.Selection
	if sel.QueueFamily == nil {
		return errors.Mark(errors.Newf("no %s queue family resolved for %s", req.Queue, sel.Handle), ErrUnknown)
	}

	exts := append([]string{}, req.DeviceExtensions...)
	if sel.Descriptor != nil && len(Unsupported([]string{PortabilitySubsetExtension}, sel.Descriptor.Extensions)) == 0 {
		exts = append(exts, PortabilitySubsetExtension)
	}

	dev, err := c.Instance.CreateDevice(sel.Handle, DeviceCreateInfo{
		QueueFamilyIndex: *sel.QueueFamily,
		QueuePriorities:  []float32{1.0},
		Features:         req.Features,
		Extensions:       without(exts, nil),
		Layers:           c.Layers,
	})
	if err != nil {
		c.log.E("Failed to create Vulkan device: %v", err)
		return mark(err, ErrAPIInit, "create logical device on %s", sel.Handle)
	}
	c.Device = dev
	c.acquired("logical device", dev.Destroy)
	c.Queue = dev.Queue(*sel.QueueFamily, 0)
	c.log.I("Vulkan logical device created")
	return nil
}
