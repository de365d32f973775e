package app

import (
	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/window"
)

// Code is the process exit status.
type Code int

const (
	CodeOK                  Code = 0
	CodeUnsupportedPlatform Code = 1
	CodeWindowInit          Code = 2
	CodeAPIInit             Code = 3
	CodeCommand             Code = 4
	CodeDeviceEnumeration   Code = 5
	CodeUnknown             Code = -1
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeUnsupportedPlatform:
		return "unsupported platform"
	case CodeWindowInit:
		return "window init"
	case CodeAPIInit:
		return "api init"
	case CodeCommand:
		return "command"
	case CodeDeviceEnumeration:
		return "device enumeration"
	}
	return "unknown"
}

// CodeOf maps an error returned by Run to its exit code.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, window.ErrPlatformUnsupported):
		return CodeUnsupportedPlatform
	case errors.Is(err, window.ErrWindowInit):
		return CodeWindowInit
	case errors.Is(err, gpu.ErrAPIInit):
		return CodeAPIInit
	case errors.Is(err, gpu.ErrCommand):
		return CodeCommand
	case errors.Is(err, gpu.ErrDeviceEnumeration):
		return CodeDeviceEnumeration
	}
	return CodeUnknown
}
