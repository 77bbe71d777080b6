package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"rtt-prober/internal/output"
	"rtt-prober/internal/ping"
	"rtt-prober/internal/targets"
)

// DefaultInterval is the pause between consecutive probes of one target
const DefaultInterval = 15 * time.Second

// Config holds all configuration for the prober
type Config struct {
	TargetsPath  string        `mapstructure:"targets"`
	Interval     time.Duration `mapstructure:"interval"`
	PingBinary   string        `mapstructure:"ping-binary"`
	OutputPath   string        `mapstructure:"output"`
	DatabasePath string        `mapstructure:"db"`
	Retention    time.Duration `mapstructure:"db-retention"`
	LogLevel     string        `mapstructure:"log-level"`
}

// Default returns the reference behaviour: targets.conf, 15s, stdout
func Default() Config {
	return Config{
		TargetsPath: targets.DefaultPath,
		Interval:    DefaultInterval,
		PingBinary:  ping.DefaultBinary,
		OutputPath:  output.Stdout,
		LogLevel:    logrus.InfoLevel.String(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TargetsPath == "" {
		return errors.New("target list path cannot be empty")
	}
	if c.Interval < 0 {
		return errors.New("interval cannot be negative")
	}
	if c.PingBinary == "" {
		return errors.New("ping binary cannot be empty")
	}
	if c.Retention < 0 {
		return errors.New("db retention cannot be negative")
	}
	if c.Retention > 0 && c.DatabasePath == "" {
		return errors.New("db retention requires a database path")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	return nil
}
