// Package config loads server settings from an optional HCL file and the
// environment.
//
// Settings are resolved in order: built-in defaults, then the file named by
// IMAGE_MI_CONFIG (or passed explicitly), then individual IMAGE_MI_* variables.
//
//	log_level         = "debug"
//	cache_size        = 64
//	default_bit_depth = 8
//	default_channel   = "gray"
//	metrics_addr      = ":2121"
//	workers           = 4
package config

import (
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pkg/errors"

	"github.com/ironsheep/image-mi-mcp/internal/imaging"
	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// Environment variables read by Load.
const (
	EnvConfig      = "IMAGE_MI_CONFIG"
	EnvLogLevel    = "IMAGE_MI_LOG_LEVEL"
	EnvCacheSize   = "IMAGE_MI_CACHE_SIZE"
	EnvBitDepth    = "IMAGE_MI_BIT_DEPTH"
	EnvChannel     = "IMAGE_MI_CHANNEL"
	EnvMetricsAddr = "IMAGE_MI_METRICS_ADDR"
	EnvWorkers     = "IMAGE_MI_WORKERS"
)

type Config struct {
	LogLevel        string `hcl:"log_level,optional"`
	CacheSize       int    `hcl:"cache_size,optional"`
	DefaultBitDepth int    `hcl:"default_bit_depth,optional"`
	DefaultChannel  string `hcl:"default_channel,optional"`

	// MetricsAddr is where Prometheus metrics are served. Empty disables the
	// metrics listener.
	MetricsAddr string `hcl:"metrics_addr,optional"`

	// Workers is the number of goroutines used for histogram counting.
	Workers int `hcl:"workers,optional"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		CacheSize:       imaging.DefaultCacheSize,
		DefaultBitDepth: mutualinfo.DefaultBitDepth,
		DefaultChannel:  string(imaging.ChannelGray),
		Workers:         1,
	}
}

// Load resolves the configuration. An empty path falls back to IMAGE_MI_CONFIG;
// when neither is set only defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		var (
			ctx  hcl.EvalContext
			file Config
		)
		if err := hclsimple.DecodeFile(path, &ctx, &file); err != nil {
			return nil, errors.Wrapf(err, "loading config %s", path)
		}
		cfg.merge(&file)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies every field that is set in o.
func (c *Config) merge(o *Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.CacheSize != 0 {
		c.CacheSize = o.CacheSize
	}
	if o.DefaultBitDepth != 0 {
		c.DefaultBitDepth = o.DefaultBitDepth
	}
	if o.DefaultChannel != "" {
		c.DefaultChannel = o.DefaultChannel
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvChannel); ok && v != "" {
		c.DefaultChannel = v
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvCacheSize, &c.CacheSize},
		{EnvBitDepth, &c.DefaultBitDepth},
		{EnvWorkers, &c.Workers},
	}
	for _, e := range ints {
		v, ok := lookup(e.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", e.name)
		}
		*e.dst = n
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Level() == hclog.NoLevel {
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.CacheSize < 1 {
		return errors.Errorf("cache_size must be at least 1, got %d", c.CacheSize)
	}
	if c.DefaultBitDepth < 1 || c.DefaultBitDepth > mutualinfo.MaxBitDepth {
		return errors.Errorf("default_bit_depth must be in [1, %d], got %d", mutualinfo.MaxBitDepth, c.DefaultBitDepth)
	}
	if _, err := imaging.ParseChannel(c.DefaultChannel); err != nil {
		return errors.Wrap(err, "default_channel")
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// Level returns the configured log level, or hclog.NoLevel if it is not recognized.
func (c *Config) Level() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

// Channel returns the default channel. Only valid after Validate succeeds.
func (c *Config) Channel() imaging.Channel {
	ch, _ := imaging.ParseChannel(c.DefaultChannel)
	return ch
}
