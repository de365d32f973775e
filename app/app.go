// Package app wires the window system, the graphics runtime and the
// configuration into a runnable program.
package app

import (
	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/config"
	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/logs"
	"github.com/jnkdev/vkprog/window"
)

// Options are the collaborators of an App.
type Options struct {
	Config  *config.Config
	Logger  logs.Logger
	Windows window.System
	// NewRuntime is called after the window exists, since the window system
	// may be what loads the Vulkan library.
	NewRuntime func() (gpu.Runtime, error)
	// Once stops the loop after a single poll.
	Once bool
}

type App struct {
	opts Options
	log  logs.Tagged

	started bool
	window  window.Window
	gfx     *gpu.Context
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("app: nil config")
	}
	if opts.Windows == nil {
		return nil, errors.New("app: nil window system")
	}
	if opts.NewRuntime == nil {
		return nil, errors.New("app: nil runtime factory")
	}
	if opts.Logger == nil {
		opts.Logger = logs.Discard
	}
	return &App{opts: opts, log: logs.Tagged{Logger: opts.Logger, Tag: logs.DefaultTag}}, nil
}

// Run initializes, loops until the window closes and clears. Clear runs
// even when Init fails.
func (a *App) Run() error {
	err := a.Init()
	if err == nil {
		err = a.Loop()
	}
	a.Clear()
	return err
}

// Init creates the window and then the graphics context.
func (a *App) Init() error {
	cfg := a.opts.Config
	a.started = true

	w, err := a.opts.Windows.Create(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		a.log.E("Failed to create window: %v", err)
		return errors.Mark(err, window.ErrWindowInit)
	}
	a.window = w
	a.log.I("Window created")

	platform, err := w.RequiredExtensions()
	if err != nil {
		a.log.E("Failed to get required instance extensions: %v", err)
		return errors.Mark(err, window.ErrWindowInit)
	}

	rt, err := a.opts.NewRuntime()
	if err != nil {
		a.log.E("Failed to load Vulkan: %v", err)
		return errors.Mark(errors.WithHint(err, "install the Vulkan SDK or your GPU vendor's driver"), gpu.ErrAPIInit)
	}

	req, err := cfg.Requirements()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	a.gfx, err = gpu.Build(rt, req, gpu.BuildOptions{
		ApplicationName:    cfg.AppName,
		EngineName:         cfg.EngineName,
		PlatformExtensions: platform,
		Validation:         cfg.Validation.Enabled,
		Selection:          policy,
		Logger:             a.opts.Logger,
	})
	return err
}

// Context is the graphics context, nil before a successful Init.
func (a *App) Context() *gpu.Context {
	return a.gfx
}

// Loop polls window events until the window asks to close.
func (a *App) Loop() error {
	if a.window == nil {
		return errors.Mark(errors.New("loop without a window"), gpu.ErrUnknown)
	}
	for !a.window.ShouldClose() {
		a.window.PollEvents()
		if a.opts.Once {
			break
		}
	}
	return nil
}

// Clear releases the graphics context, the window and the window system,
// skipping what was never created. Calling it again is a no-op.
func (a *App) Clear() {
	if a.gfx != nil {
		a.gfx.Destroy()
		a.gfx = nil
	}
	if a.window != nil {
		a.window.Destroy()
		a.window = nil
		a.log.V("Window destroyed")
	}
	if a.started {
		a.opts.Windows.Terminate()
		a.started = false
	}
}
