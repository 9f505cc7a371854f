package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TIMON_*)
// 2. Config file (.timon/config.yml or .timon/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(l.rootDir, ".timon")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Replace . with _ in env var names (e.g., TIMON_BUCKET_ACCESS_KEY)
	v.SetEnvPrefix("TIMON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("storage.path")

	v.BindEnv("bucket.endpoint")
	v.BindEnv("bucket.access_key")
	v.BindEnv("bucket.secret_key")
	v.BindEnv("bucket.bucket")
	v.BindEnv("bucket.use_ssl")
	v.BindEnv("bucket.dev_defaults")

	v.BindEnv("sink.interval_minutes")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("storage.path", defaults.Storage.Path)

	v.SetDefault("bucket.endpoint", defaults.Bucket.Endpoint)
	v.SetDefault("bucket.access_key", defaults.Bucket.AccessKey)
	v.SetDefault("bucket.secret_key", defaults.Bucket.SecretKey)
	v.SetDefault("bucket.bucket", defaults.Bucket.Bucket)
	v.SetDefault("bucket.use_ssl", defaults.Bucket.UseSSL)
	v.SetDefault("bucket.dev_defaults", defaults.Bucket.DevDefaults)

	v.SetDefault("sink.interval_minutes", defaults.Sink.IntervalMinutes)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
