// Package config loads worker configuration from a YAML file with
// environment overrides. Every value has a default so the worker starts
// with no configuration at all against a local Redis.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full worker configuration.
type Config struct {
	Redis  RedisConfig  `mapstructure:"redis"`
	Worker WorkerConfig `mapstructure:"worker"`
	Log    LogConfig    `mapstructure:"log"`
	Export ExportConfig `mapstructure:"export"`
}

// RedisConfig locates the queue backend.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig tunes the polling loop.
type WorkerConfig struct {
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ExportConfig holds the export directory setting. The export command
// writes to the path given by its --output flag and does not read it.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Redis:  RedisConfig{Address: "localhost:6379"},
		Worker: WorkerConfig{PollTimeout: 5 * time.Second},
		Log:    LogConfig{Level: "info"},
		Export: ExportConfig{Dir: "exports"},
	}
}

// Load reads configuration from the given file path (optional) merged
// over the defaults, with CARGOSTOW_* environment variables taking
// precedence (e.g. CARGOSTOW_REDIS_ADDRESS).
func Load(path string) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("redis.address", defaults.Redis.Address)
	v.SetDefault("redis.password", defaults.Redis.Password)
	v.SetDefault("redis.db", defaults.Redis.DB)
	v.SetDefault("worker.poll_timeout", defaults.Worker.PollTimeout)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("export.dir", defaults.Export.Dir)

	v.SetEnvPrefix("CARGOSTOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
