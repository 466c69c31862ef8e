// Package config provides configuration loading and access for the sampler driver.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/poissondisk/sampler"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all driver configuration parameters.
type Config struct {
	Sampler   SamplerConfig   `yaml:"sampler"`
	Driver    DriverConfig    `yaml:"driver"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SamplerConfig holds the sampling domain and rejection parameters.
type SamplerConfig struct {
	Width      int     `yaml:"width"`       // Domain width (grid cells)
	Height     int     `yaml:"height"`      // Domain height (grid cells)
	Radius     float64 `yaml:"radius"`      // Minimum spacing between points
	Candidates int     `yaml:"candidates"`  // Attempts per active point before retiring it
	MaxRedraws int     `yaml:"max_redraws"` // Out-of-bounds redraws per attempt (0 = sampler default, negative = none)
	Grid       bool    `yaml:"grid"`        // Maintain the occupancy grid
}

// DriverConfig holds frame loop parameters.
type DriverConfig struct {
	TicksPerFrame int     `yaml:"ticks_per_frame"` // Sampler ticks per frame
	MaxFrames     int     `yaml:"max_frames"`      // Stop after N frames (0 = until exhausted)
	FrameInterval float64 `yaml:"frame_interval"`  // Seconds between frames (0 = run flat out)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow        int       `yaml:"stats_window"`         // Frames per stats window
	PerfWindow         int       `yaml:"perf_window"`          // Frames in the rolling perf window
	SpacingSampleLimit int       `yaml:"spacing_sample_limit"` // Max points sampled for spacing stats (0 = all)
	CoverageSteps      []float64 `yaml:"coverage_steps"`       // Grid coverage fractions that trigger milestones
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellSize      float64 // Background grid cell edge (radius / sqrt2)
	MaxPoints     int     // Upper bound on accepted points (one per background cell)
	TicksPerStats int     // Driver.TicksPerFrame * Telemetry.StatsWindow
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Recompute()

	return cfg, nil
}

// Validate checks the sampler section and the driver knobs.
func (c *Config) Validate() error {
	if err := c.SamplerOptions(0).Validate(); err != nil {
		return fmt.Errorf("sampler section: %w", err)
	}
	if c.Driver.TicksPerFrame <= 0 {
		return fmt.Errorf("driver.ticks_per_frame %d must be positive", c.Driver.TicksPerFrame)
	}
	if c.Driver.MaxFrames < 0 {
		return fmt.Errorf("driver.max_frames %d must not be negative", c.Driver.MaxFrames)
	}
	for _, step := range c.Telemetry.CoverageSteps {
		if step <= 0 || step > 1 {
			return fmt.Errorf("telemetry.coverage_steps value %v outside (0, 1]", step)
		}
	}
	return nil
}

// SamplerOptions builds the sampler configuration for a run with the given seed.
func (c *Config) SamplerOptions(seed int64) sampler.Config {
	return sampler.Config{
		Width:      c.Sampler.Width,
		Height:     c.Sampler.Height,
		Radius:     c.Sampler.Radius,
		Candidates: c.Sampler.Candidates,
		Grid:       c.Sampler.Grid,
		Seed:       seed,
		MaxRedraws: c.Sampler.MaxRedraws,
	}
}

// Recompute refreshes the derived values. Load calls it; callers that change
// the config afterwards must call it again.
func (c *Config) Recompute() {
	c.Derived.CellSize = c.Sampler.Radius / math.Sqrt2
	cols := int(math.Ceil(float64(c.Sampler.Width) / c.Derived.CellSize))
	rows := int(math.Ceil(float64(c.Sampler.Height) / c.Derived.CellSize))
	c.Derived.MaxPoints = max(cols, 1) * max(rows, 1)

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 60
	}
	c.Derived.TicksPerStats = c.Driver.TicksPerFrame * c.Telemetry.StatsWindow
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
