// Package config holds the run configuration: window, validation, power and
// logging switches and the declared adapter requirements.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/logs"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VKPROG_"

type Window struct {
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	Title  string `yaml:"title" toml:"title"`
}

type Validation struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Layers  []string `yaml:"layers" toml:"layers"`
}

type Log struct {
	Level string `yaml:"level" toml:"level"`
	// Debug off keeps only errors.
	Debug bool `yaml:"debug" toml:"debug"`
	JSON  bool `yaml:"json" toml:"json"`
}

type Device struct {
	Features           []string `yaml:"features" toml:"features"`
	Queue              string   `yaml:"queue" toml:"queue"`
	InstanceExtensions []string `yaml:"instance_extensions" toml:"instance_extensions"`
	Extensions         []string `yaml:"extensions" toml:"extensions"`
	// PowerSave prefers integrated adapters over discrete ones.
	PowerSave bool `yaml:"power_save" toml:"power_save"`
	// TieBreak is "last" or "first".
	TieBreak string `yaml:"tie_break" toml:"tie_break"`
}

type Config struct {
	AppName    string     `yaml:"app_name" toml:"app_name"`
	EngineName string     `yaml:"engine_name" toml:"engine_name"`
	Window     Window     `yaml:"window" toml:"window"`
	Validation Validation `yaml:"validation" toml:"validation"`
	Log        Log        `yaml:"log" toml:"log"`
	Device     Device     `yaml:"device" toml:"device"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		AppName:    "Vulkan prog",
		EngineName: "No Engine",
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "Vulkan prog",
		},
		Validation: Validation{
			Enabled: true,
			Layers:  []string{"VK_LAYER_KHRONOS_validation", "RenderDoc_Vulkan_GLES_Layer"},
		},
		Log: Log{
			Level: "debug",
			Debug: true,
		},
		Device: Device{
			Features:  []string{"geometryShader"},
			Queue:     "graphics",
			PowerSave: true,
			TieBreak:  "last",
		},
	}
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
// Lists in the file replace the default lists.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, errors.Newf("unsupported config format %q, want .yaml, .yml or .toml", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}
	return cfg, nil
}

// LoadDotEnv loads the given .env files into the process environment. Files
// that don't exist are skipped and existing variables are not overridden.
func LoadDotEnv(paths ...string) error {
	var present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return errors.Wrap(godotenv.Load(present...), "load .env")
}

// ApplyEnv applies VKPROG_* overrides found through lookup, usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	bools := map[string]*bool{
		"POWER_SAVE": &c.Device.PowerSave,
		"VALIDATION": &c.Validation.Enabled,
		"DEBUG_LOGS": &c.Log.Debug,
		"LOG_JSON":   &c.Log.JSON,
	}
	for name, dst := range bools {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, name)
		}
		*dst = b
	}

	ints := map[string]*int{
		"WIDTH":  &c.Window.Width,
		"HEIGHT": &c.Window.Height,
	}
	for name, dst := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%s%s", EnvPrefix, name)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "TIE_BREAK"); ok {
		c.Device.TieBreak = v
	}
	return nil
}

// Validate checks that every value can be turned into requirements and
// policies.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := c.Requirements(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if _, err := c.LogOptions().ParseLevel(); err != nil {
		return err
	}
	return nil
}

// Requirements builds the requirement set the adapters are checked against.
func (c *Config) Requirements() (gpu.Requirements, error) {
	features, err := gpu.ParseFeatures(c.Device.Features...)
	if err != nil {
		return gpu.Requirements{}, err
	}
	queue := gpu.QueueGraphics
	if c.Device.Queue != "" {
		queue, err = gpu.ParseQueueFlags(c.Device.Queue)
		if err != nil {
			return gpu.Requirements{}, err
		}
	}
	return gpu.Requirements{
		InstanceExtensions: append([]string(nil), c.Device.InstanceExtensions...),
		ValidationLayers:   append([]string(nil), c.Validation.Layers...),
		DeviceExtensions:   append([]string(nil), c.Device.Extensions...),
		Features:           features,
		Queue:              queue,
	}, nil
}

// Policy builds the adapter selection policy.
func (c *Config) Policy() (gpu.SelectionPolicy, error) {
	tb, err := gpu.ParseTieBreak(c.Device.TieBreak)
	if err != nil {
		return gpu.SelectionPolicy{}, err
	}
	power := gpu.PreferDiscrete
	if c.Device.PowerSave {
		power = gpu.PreferIntegrated
	}
	return gpu.SelectionPolicy{Power: power, TieBreak: tb}, nil
}

// LogOptions returns the logger options for this configuration.
func (c *Config) LogOptions() logs.Options {
	return logs.Options{Level: c.Log.Level, Debug: c.Log.Debug, JSON: c.Log.JSON}
}
