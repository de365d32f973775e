package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/app"
	"github.com/jnkdev/vkprog/config"
	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/gpu/vkng"
	"github.com/jnkdev/vkprog/logs"
	"github.com/jnkdev/vkprog/window/sdlwindow"
)

func main() {
	// SDL and the Vulkan loader want every call on the main thread.
	runtime.LockOSThread()
	os.Exit(int(run(os.Args[1:])))
}

func run(args []string) app.Code {
	fs := flag.NewFlagSet("vkprog", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML or TOML config file")
	envFile := fs.String("env", ".env", "dotenv file with VKPROG_* overrides")
	once := fs.Bool("once", false, "poll window events once and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: vkprog [flags] [run | adapters [-format json|yaml]]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return app.CodeOK
		}
		return app.CodeUnknown
	}

	if err := checkPlatform(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return app.CodeOf(err)
	}

	cfg, err := loadConfig(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return app.CodeUnknown
	}

	logger, err := logs.New(cfg.LogOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return app.CodeUnknown
	}
	l := logs.Tagged{Logger: logger, Tag: logs.DefaultTag}

	switch cmd := fs.Arg(0); cmd {
	case "", "run":
		err = runApp(cfg, logger, *once)
	case "adapters":
		err = runAdapters(cfg, logger, fs.Args()[1:])
	default:
		fs.Usage()
		return app.CodeUnknown
	}

	if err != nil {
		l.E("%v", err)
		if hint := errors.FlattenHints(err); hint != "" {
			l.E("hint: %s", hint)
		}
	}
	return app.CodeOf(err)
}

func loadConfig(path, envFile string) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func runApp(cfg *config.Config, logger logs.Logger, once bool) error {
	windows := &sdlwindow.System{}
	a, err := app.New(app.Options{
		Config:  cfg,
		Logger:  logger,
		Windows: windows,
		NewRuntime: func() (gpu.Runtime, error) {
			return vkng.New(windows.ProcAddr())
		},
		Once: once,
	})
	if err != nil {
		return err
	}
	return a.Run()
}

func runAdapters(cfg *config.Config, logger logs.Logger, args []string) error {
	fs := flag.NewFlagSet("adapters", flag.ContinueOnError)
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	windows := &sdlwindow.System{}
	if err := windows.Init(); err != nil {
		return err
	}
	defer windows.Terminate()

	rt, err := vkng.New(windows.ProcAddr())
	if err != nil {
		return errors.Mark(err, gpu.ErrAPIInit)
	}
	req, err := cfg.Requirements()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	report, err := app.BuildReport(rt, req, policy, logger)
	if err != nil {
		return err
	}
	return report.Write(os.Stdout, *format)
}
