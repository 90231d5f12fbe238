package model

import (
	"runtime"
	"time"
)

// Config holds all acctdiff settings
type Config struct {
	Mode        string            `yaml:"mode" mapstructure:"mode"` // grammar or list
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Watch       WatchConfig       `yaml:"watch" mapstructure:"watch"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format  string `yaml:"format" mapstructure:"format"`   // text, table, json, yaml
	Color   bool   `yaml:"color" mapstructure:"color"`     // Highlight matched names on a terminal
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"` // Print debug listings
	Debug   bool   `yaml:"debug" mapstructure:"debug"`     // Include left/right/matched name lists
}

// ConcurrencyConfig controls batch and engine parallelism
type ConcurrencyConfig struct {
	Workers       int  `yaml:"workers" mapstructure:"workers"`               // Batch worker count
	ParallelSides bool `yaml:"parallel_sides" mapstructure:"parallel_sides"` // Extract both sides concurrently
}

// CacheConfig controls in-process result memoization
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// WatchConfig controls how often watch mode may recompute
type WatchConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"` // Minimum spacing between runs
	Burst    int           `yaml:"burst" mapstructure:"burst"`
}

// LogConfig controls the zerolog logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // auto, console, json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Mode: "grammar",
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Watch: WatchConfig{
			Interval: 500 * time.Millisecond,
			Burst:    1,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "auto",
		},
	}
}
