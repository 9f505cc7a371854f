package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyStoragePath indicates a missing storage root.
	ErrEmptyStoragePath = errors.New("empty storage path")

	// ErrInvalidSinkInterval indicates a non-positive sink interval.
	ErrInvalidSinkInterval = errors.New("invalid sink interval")

	// ErrIncompleteBucketCredentials indicates bucket credentials were
	// partially set without DevDefaults to fill in the rest.
	ErrIncompleteBucketCredentials = errors.New("incomplete bucket credentials")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err)
	}

	if err := validateBucket(&cfg.Bucket); err != nil {
		errs = append(errs, err)
	}

	if err := validateSink(&cfg.Sink); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateStorage(cfg *StorageConfig) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return fmt.Errorf("%w: storage.path is required", ErrEmptyStoragePath)
	}
	return nil
}

// validateBucket is lenient: an all-empty bucket section just means
// InitBucket is never called. It only rejects a half-configured bucket
// (some credentials set, others missing) when DevDefaults isn't asked
// for to fill the gap, since that combination is almost always a typo.
func validateBucket(cfg *BucketConfig) error {
	if cfg.DevDefaults {
		return nil
	}

	anySet := cfg.Endpoint != "" || cfg.AccessKey != "" || cfg.SecretKey != ""
	allSet := cfg.Endpoint != "" && cfg.AccessKey != "" && cfg.SecretKey != ""
	if anySet && !allSet {
		return fmt.Errorf("%w: bucket.endpoint, bucket.access_key and bucket.secret_key must all be set (or set bucket.dev_defaults)", ErrIncompleteBucketCredentials)
	}
	return nil
}

func validateSink(cfg *SinkConfig) error {
	if cfg.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: sink.interval_minutes must be positive, got %d", ErrInvalidSinkInterval, cfg.IntervalMinutes)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
