package window

import "github.com/cockroachdb/errors"

// Headless is a System without a display. Its windows ask to close after a
// fixed number of polls.
type Headless struct {
	// Extensions is what every window reports as required.
	Extensions []string
	// Polls is how many PollEvents calls a window survives; zero closes on
	// the first poll.
	Polls int

	CreateErr     error
	ExtensionsErr error

	Windows    []*HeadlessWindow
	Terminated bool
}

var _ System = (*Headless)(nil)

func (h *Headless) Create(width, height int, title string) (Window, error) {
	if h.CreateErr != nil {
		return nil, errors.Mark(errors.Wrapf(h.CreateErr, "create %dx%d window %q", width, height, title), ErrWindowInit)
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Mark(errors.Newf("invalid window size %dx%d", width, height), ErrWindowInit)
	}
	w := &HeadlessWindow{
		Width:  width,
		Height: height,
		Title:  title,
		sys:    h,
	}
	h.Windows = append(h.Windows, w)
	return w, nil
}

func (h *Headless) Terminate() {
	h.Terminated = true
}

// HeadlessWindow is the Window created by Headless.
type HeadlessWindow struct {
	Width, Height int
	Title         string
	Polled        int
	Destroyed     bool

	sys *Headless
}

func (w *HeadlessWindow) PollEvents() {
	w.Polled++
}

func (w *HeadlessWindow) ShouldClose() bool {
	return w.Destroyed || w.Polled > w.sys.Polls
}

func (w *HeadlessWindow) RequiredExtensions() ([]string, error) {
	if w.sys.ExtensionsErr != nil {
		return nil, errors.Mark(errors.Wrap(w.sys.ExtensionsErr, "query required instance extensions"), ErrWindowInit)
	}
	return append([]string(nil), w.sys.Extensions...), nil
}

func (w *HeadlessWindow) Destroy() {
	w.Destroyed = true
}
