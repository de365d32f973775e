package gpu

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/logs"
)

// PowerPolicy decides which adapter type is preferred.
type PowerPolicy int

const (
	// PreferDiscrete favours performance.
	PreferDiscrete PowerPolicy = iota
	// PreferIntegrated favours power saving.
	PreferIntegrated
)

// Preferred returns the adapter type the policy looks for.
func (p PowerPolicy) Preferred() AdapterType {
	if p == PreferIntegrated {
		return AdapterIntegrated
	}
	return AdapterDiscrete
}

// TieBreak decides between several suitable adapters of the preferred type.
type TieBreak int

const (
	// TieBreakLast keeps the last preferred match in discovery order.
	TieBreakLast TieBreak = iota
	// TieBreakFirst keeps the first preferred match in discovery order.
	TieBreakFirst
)

// ParseTieBreak accepts "last" or "first".
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return TieBreakLast, nil
	case "first":
		return TieBreakFirst, nil
	}
	return 0, errors.Newf("unknown tie-break %q, want \"first\" or \"last\"", s)
}

func (t TieBreak) String() string {
	if t == TieBreakFirst {
		return "first"
	}
	return "last"
}

// SelectionPolicy combines the preference rules.
type SelectionPolicy struct {
	Power    PowerPolicy
	TieBreak TieBreak
}

// Selection is the adapter chosen for the logical device.
type Selection struct {
	Handle      Handle
	QueueFamily *int
	Descriptor  *AdapterDescriptor
}

// FindQueueFamily returns the lowest index whose flags include every bit of
// flags, or nil when no family qualifies.
func FindQueueFamily(families []QueueFamily, flags QueueFlags) *int {
	for i, family := range families {
		if family.Flags&flags == flags {
			idx := i
			return &idx
		}
	}
	return nil
}

// Suitable checks desc against req. It returns the resolved queue family
// index, or nil together with the reason the adapter is unsuitable.
func Suitable(desc *AdapterDescriptor, req Requirements) (*int, string) {
	var reasons []string

	if missing := desc.Features.Missing(req.Features); missing != 0 {
		reasons = append(reasons, fmt.Sprintf("missing features %s", missing))
	}

	queue := FindQueueFamily(desc.QueueFamilies, req.Queue)
	if queue == nil {
		reasons = append(reasons, fmt.Sprintf("no %s queue family", req.Queue))
	}

	if missing := Unsupported(req.DeviceExtensions, desc.Extensions); len(missing) > 0 {
		reasons = append(reasons, fmt.Sprintf("missing device extensions %s", strings.Join(missing, ", ")))
	}

	if len(reasons) > 0 {
		return nil, strings.Join(reasons, "; ")
	}
	return queue, ""
}

// SelectAdapter drops unsuitable adapters and picks one survivor by policy.
// When no survivor has the preferred type the first survivor in discovery
// order is used.
func SelectAdapter(adapters *Adapters, req Requirements, policy SelectionPolicy, log logs.Logger) (Selection, error) {
	if log == nil {
		log = logs.Discard
	}
	l := logs.Tagged{Logger: log, Tag: logs.DefaultTag}

	var suitable []Selection
	for _, desc := range adapters.All() {
		queue, reason := Suitable(desc, req)
		if queue == nil {
			l.V("Skipping %s GPU \"%s\": %s", desc.Type, desc.Name, reason)
			continue
		}
		suitable = append(suitable, Selection{Handle: desc.Handle, QueueFamily: queue, Descriptor: desc})
	}

	if len(suitable) == 0 {
		l.E("None of your GPUs is appropriate")
		return Selection{}, errors.Mark(errors.New("no adapter meets requirements"), ErrDeviceEnumeration)
	}

	preferred := policy.Power.Preferred()
	var chosen *Selection
	for i := range suitable {
		if suitable[i].Descriptor.Type != preferred {
			continue
		}
		chosen = &suitable[i]
		if policy.TieBreak == TieBreakFirst {
			break
		}
	}
	if chosen == nil {
		l.V("No suitable %s GPU, falling back to the first suitable one", preferred)
		chosen = &suitable[0]
	}

	l.I("Using %s GPU: \"%s\"", chosen.Descriptor.Type, chosen.Descriptor.Name)
	return *chosen, nil
}
