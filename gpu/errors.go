package gpu

import "github.com/cockroachdb/errors"

// Failure kinds. Errors returned from this package are marked with one of
// these, test with errors.Is.
var (
	// ErrAPIInit covers instance and device creation failures and missing
	// mandatory instance extensions.
	ErrAPIInit = errors.New("vulkan initialization failed")
	// ErrCommand means a runtime query itself failed, as opposed to
	// succeeding and finding nothing usable.
	ErrCommand = errors.New("vulkan command failed")
	// ErrDeviceEnumeration means no adapter was found or none could be
	// selected.
	ErrDeviceEnumeration = errors.New("device enumeration failed")
	// ErrUnknown is the fallback, e.g. a device requested without a
	// resolved queue family.
	ErrUnknown = errors.New("unknown vulkan failure")
)

func mark(err error, kind error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), kind)
}
