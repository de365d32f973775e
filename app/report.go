package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/logs"
)

// Report describes what the runtime exposes and how each adapter fares
// against the requirements.
type Report struct {
	InstanceExtensions []string        `json:"instance_extensions" yaml:"instance_extensions"`
	Layers             []string        `json:"layers" yaml:"layers"`
	Adapters           []AdapterReport `json:"adapters" yaml:"adapters"`
	// Selected is the handle Build would pick, empty when none qualifies.
	Selected string `json:"selected,omitempty" yaml:"selected,omitempty"`
}

type QueueFamilyReport struct {
	Index int    `json:"index" yaml:"index"`
	Flags string `json:"flags" yaml:"flags"`
	Count int    `json:"count" yaml:"count"`
}

type AdapterReport struct {
	Handle            string              `json:"handle" yaml:"handle"`
	Name              string              `json:"name" yaml:"name"`
	Type              string              `json:"type" yaml:"type"`
	VendorID          string              `json:"vendor_id" yaml:"vendor_id"`
	DeviceID          string              `json:"device_id" yaml:"device_id"`
	PipelineCacheUUID string              `json:"pipeline_cache_uuid" yaml:"pipeline_cache_uuid"`
	DeviceLocalMiB    uint64              `json:"device_local_mib" yaml:"device_local_mib"`
	QueueFamilies     []QueueFamilyReport `json:"queue_families" yaml:"queue_families"`
	Features          []string            `json:"features" yaml:"features"`
	Extensions        []string            `json:"extensions" yaml:"extensions"`
	Suitable          bool                `json:"suitable" yaml:"suitable"`
	Reason            string              `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// BuildReport creates a bare instance, enumerates every adapter and checks
// each one against req. No device is created.
func BuildReport(rt gpu.Runtime, req gpu.Requirements, policy gpu.SelectionPolicy, log logs.Logger) (*Report, error) {
	caps, err := gpu.QueryCapabilities(rt)
	if err != nil {
		return nil, err
	}
	r := &Report{
		InstanceExtensions: gpu.ExtensionNames(caps.Extensions),
		Layers:             gpu.LayerNames(caps.Layers),
	}

	info := gpu.InstanceCreateInfo{ApplicationName: "vkprog adapters"}
	if len(gpu.Unsupported([]string{gpu.PortabilityEnumerationExtension}, r.InstanceExtensions)) == 0 {
		info.Extensions = []string{gpu.PortabilityEnumerationExtension}
		info.EnumeratePortability = true
	}
	inst, err := rt.CreateInstance(info)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create Vulkan instance"), gpu.ErrAPIInit)
	}
	defer inst.Destroy()

	adapters, err := gpu.EnumerateAdapters(inst)
	if err != nil {
		return nil, err
	}
	for _, d := range adapters.All() {
		ar := AdapterReport{
			Handle:            d.Handle.String(),
			Name:              d.Name,
			Type:              d.Type.String(),
			VendorID:          fmt.Sprintf("0x%04x", d.VendorID),
			DeviceID:          fmt.Sprintf("0x%04x", d.DeviceID),
			PipelineCacheUUID: d.PipelineCacheUUID.String(),
			DeviceLocalMiB:    d.Memory.DeviceLocalBytes() >> 20,
			Features:          d.Features.Names(),
			Extensions:        d.Extensions,
		}
		for i, qf := range d.QueueFamilies {
			ar.QueueFamilies = append(ar.QueueFamilies, QueueFamilyReport{Index: i, Flags: qf.Flags.String(), Count: qf.Count})
		}
		queue, reason := gpu.Suitable(d, req)
		ar.Suitable = queue != nil
		ar.Reason = reason
		r.Adapters = append(r.Adapters, ar)
	}

	if sel, err := gpu.SelectAdapter(adapters, req, policy, log); err == nil {
		r.Selected = sel.Handle.String()
	}
	return r, nil
}

// Write renders the report as "json" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "encode report")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode report")
		}
		return errors.Wrap(enc.Close(), "encode report")
	}
	return errors.Newf("unknown report format %q, want json or yaml", format)
}
