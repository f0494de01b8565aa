// Package config loads taskgate settings from defaults, an optional YAML file,
// TASKGATE_ environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Surface names accepted by the surface key.
const (
	SurfaceAuto = "auto"
	SurfaceTUI  = "tui"
	SurfaceText = "text"
	SurfaceJSON = "json"
)

// Config holds application configuration.
type Config struct {
	Surface string `mapstructure:"surface"`
	// MinLength overrides the flow's minimum item length when positive.
	MinLength   int         `mapstructure:"min_length"`
	FlowFile    string      `mapstructure:"flow_file"`
	Debug       bool        `mapstructure:"debug"`
	LogFormat   string      `mapstructure:"log_format"`
	MetricsAddr string      `mapstructure:"metrics_addr"`
	Redis       RedisConfig `mapstructure:"redis"`
}

// RedisConfig holds the settings of the shared attempt lock.
// An empty Addr keeps the lock in process.
type RedisConfig struct {
	Addr   string        `mapstructure:"addr"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"surface":      "surface",
	"min-length":   "min_length",
	"flow":         "flow_file",
	"debug":        "debug",
	"log-format":   "log_format",
	"metrics-addr": "metrics_addr",
	"redis-addr":   "redis.addr",
}

// Load reads configuration. Env var overrides use prefix TASKGATE_ and the
// file named by TASKGATE_CONFIG, if set, must exist. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("surface", SurfaceAuto)
	v.SetDefault("min_length", 0)
	v.SetDefault("flow_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.prefix", "taskgate:")
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("TASKGATE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "taskgate"))
		}
		v.SetConfigName("taskgate")
	}

	v.SetEnvPrefix("TASKGATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Surface {
	case SurfaceAuto, SurfaceTUI, SurfaceText, SurfaceJSON:
	default:
		return fmt.Errorf("invalid surface %q (want auto, tui, text or json)", c.Surface)
	}
	if c.MinLength < 0 {
		return fmt.Errorf("invalid min_length %d: must not be negative", c.MinLength)
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("invalid redis.ttl %s: must be positive", c.Redis.TTL)
	}
	return nil
}
