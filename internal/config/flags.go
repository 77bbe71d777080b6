package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PROBER_INTERVAL=5s
const EnvPrefix = "PROBER"

// RegisterFlags adds the run flags to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("targets", d.TargetsPath, "Target list file, one host per line")
	fs.Duration("interval", d.Interval, "Pause between probes of the same target")
	fs.String("ping-binary", d.PingBinary, "Echo facility executable")
	fs.String("output", d.OutputPath, `Record output file ("-" for stdout)`)
	fs.String("db", d.DatabasePath, "Optional SQLite database receiving a copy of every record")
	fs.Duration("db-retention", d.Retention, "Delete stored records older than this at startup (0 keeps all)")
	fs.String("log-level", d.LogLevel, "Log level (debug shows failed probes)")
}

// Load resolves the configuration from defaults, an optional config file,
// PROBER_* environment variables and flags, lowest precedence first.
func Load(v *viper.Viper, fs *pflag.FlagSet, configFile string) (Config, error) {
	d := Default()
	v.SetDefault("targets", d.TargetsPath)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("ping-binary", d.PingBinary)
	v.SetDefault("output", d.OutputPath)
	v.SetDefault("db", d.DatabasePath)
	v.SetDefault("db-retention", d.Retention)
	v.SetDefault("log-level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, errors.Wrap(err, "bind flags")
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", configFile)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}
