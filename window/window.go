// Package window defines the windowing collaborator the application needs:
// a native window that can be polled for close requests and that reports
// the instance extensions its surfaces require.
package window

import "github.com/cockroachdb/errors"

var (
	// ErrWindowInit marks failures to initialize the window system or to
	// create a window.
	ErrWindowInit = errors.New("window initialization failed")
	// ErrPlatformUnsupported marks builds for platforms without a window
	// backend.
	ErrPlatformUnsupported = errors.New("unsupported platform")
)

// System creates windows and owns process-wide window system state.
type System interface {
	Create(width, height int, title string) (Window, error)
	// Terminate releases the window system. Call it after every window is
	// destroyed.
	Terminate()
}

// Window is a single native window.
type Window interface {
	// PollEvents processes pending events without blocking.
	PollEvents()
	ShouldClose() bool
	// RequiredExtensions lists the instance extensions needed to present to
	// this window.
	RequiredExtensions() ([]string, error)
	Destroy()
}
