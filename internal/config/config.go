// Package config loads the snowflake CLI configuration from a YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/clamberhq/snowflake"
	"github.com/clamberhq/snowflake/internal/logging"
)

// ConfigName is the file name searched for when no explicit file is given.
const ConfigName = "snowflake"

// Clock sources accepted by snowflake.clock.
const (
	ClockWall      = "wall"
	ClockMonotonic = "monotonic"
)

type Config struct {
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	Log       logging.Config  `mapstructure:"log"`
}

type SnowflakeConfig struct {
	WorkerID         int64         `mapstructure:"worker_id"`
	Epoch            int64         `mapstructure:"epoch"`
	MaxClockBackward time.Duration `mapstructure:"max_clock_backward"`
	MaxSequenceWait  time.Duration `mapstructure:"max_sequence_wait"`
	Clock            string        `mapstructure:"clock"`
}

// Load reads configuration from path and environment variables.
//
// path may name a YAML file, which must exist, or a directory searched for
// snowflake.yaml. An empty path searches ./config and the working directory;
// finding nothing there is not an error. Environment variables override the
// file: snowflake.worker_id is read from SNOWFLAKE_WORKER_ID, log.level from
// LOG_LEVEL, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	explicitFile := false
	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if info.IsDir() {
			v.SetConfigName(ConfigName)
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
			explicitFile = true
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("snowflake.worker_id", 0)
	v.SetDefault("snowflake.epoch", snowflake.DefaultEpoch)
	v.SetDefault("snowflake.max_clock_backward", "0s")
	v.SetDefault("snowflake.max_sequence_wait", snowflake.DefaultMaxSequenceWait.String())
	v.SetDefault("snowflake.clock", ClockWall)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "snowflake")
}

// Build validates the worker ID and epoch and returns the generator config.
func (c SnowflakeConfig) Build() (snowflake.Config, error) {
	return snowflake.NewConfigWithEpoch(c.WorkerID, c.Epoch)
}

// Options translates the remaining settings into manager options.
func (c SnowflakeConfig) Options(logger zerolog.Logger) ([]snowflake.Option, error) {
	opts := []snowflake.Option{
		snowflake.WithMaxClockBackward(c.MaxClockBackward),
		snowflake.WithMaxSequenceWait(c.MaxSequenceWait),
		snowflake.WithLogger(logger),
	}

	switch strings.ToLower(c.Clock) {
	case "", ClockWall:
		opts = append(opts, snowflake.WithClock(snowflake.SystemClock{}))
	case ClockMonotonic:
		opts = append(opts, snowflake.WithClock(snowflake.NewMonotonicClock()))
	default:
		return nil, fmt.Errorf("invalid snowflake.clock %q: use %s|%s", c.Clock, ClockWall, ClockMonotonic)
	}
	return opts, nil
}

// NewManager builds a manager from the loaded settings.
func (c SnowflakeConfig) NewManager(logger zerolog.Logger) (*snowflake.Manager, error) {
	cfg, err := c.Build()
	if err != nil {
		return nil, err
	}
	opts, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	return snowflake.NewManager(cfg, opts...)
}
