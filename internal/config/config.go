// Package config loads Timon's configuration from .timon/config.yml with
// TIMON_* environment variable overrides, following the defaults → file
// → environment precedence used throughout the CLI.
package config

// Config represents the complete Timon configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Bucket  BucketConfig  `yaml:"bucket" mapstructure:"bucket"`
	Sink    SinkConfig    `yaml:"sink" mapstructure:"sink"`
}

// StorageConfig locates the local catalog and partition data.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // root directory holding metadata.json and data/
}

// BucketConfig configures the S3-compatible object store used by
// Monthly Sink and Bucket Query.
type BucketConfig struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
	// DevDefaults opts into the historical local-development
	// endpoint, credentials and bucket, which replace whatever
	// Endpoint/AccessKey/SecretKey/Bucket/UseSSL hold.
	// Never set this in production.
	DevDefaults bool `yaml:"dev_defaults" mapstructure:"dev_defaults"`
}

// SinkConfig controls the optional background sink scheduler.
type SinkConfig struct {
	IntervalMinutes int `yaml:"interval_minutes" mapstructure:"interval_minutes"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: ".timon/storage",
		},
		Bucket: BucketConfig{
			Bucket: "timon",
			UseSSL: false,
		},
		Sink: SinkConfig{
			IntervalMinutes: 60,
		},
	}
}
