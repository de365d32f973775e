// Package sdlwindow is the SDL2 window backend.
package sdlwindow

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/jnkdev/vkprog/window"
)

// System initializes SDL video and the Vulkan loader on first use. All calls
// must come from the goroutine locked to the main OS thread.
type System struct {
	initialized bool
}

var _ window.System = (*System)(nil)

// Init initializes SDL video and loads the Vulkan library. Create calls it
// on demand.
func (s *System) Init() error {
	if s.initialized {
		return nil
	}
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Mark(errors.Wrap(err, "sdl init"), window.ErrWindowInit)
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return errors.Mark(errors.WithHint(errors.Wrap(err, "load Vulkan library"), "install a Vulkan loader for your platform"), window.ErrWindowInit)
	}
	s.initialized = true
	return nil
}

func (s *System) Create(width, height int, title string) (window.Window, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	w, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "create %dx%d window", width, height), window.ErrWindowInit)
	}
	return &Window{w: w}, nil
}

// ProcAddr returns vkGetInstanceProcAddr from the loader SDL opened. It is
// nil before a successful Init.
func (s *System) ProcAddr() unsafe.Pointer {
	if !s.initialized {
		return nil
	}
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

func (s *System) Terminate() {
	if !s.initialized {
		return
	}
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
	s.initialized = false
}

// Window is an SDL window created with the Vulkan flag.
type Window struct {
	w     *sdl.Window
	close bool
}

func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.close = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				w.close = true
			}
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				w.close = true
			}
		}
	}
}

func (w *Window) ShouldClose() bool {
	return w.close
}

func (w *Window) RequiredExtensions() ([]string, error) {
	exts := w.w.VulkanGetInstanceExtensions()
	if len(exts) == 0 {
		return nil, errors.Mark(errors.New("SDL reports no Vulkan instance extensions"), window.ErrWindowInit)
	}
	return exts, nil
}

func (w *Window) Destroy() {
	if w.w == nil {
		return
	}
	w.w.Destroy()
	w.w = nil
}
