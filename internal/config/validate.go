package config

import (
	"errors"
	"fmt"
)

var ErrInvalidDestination = errors.New("invalid destination: must be exactly 's3' or 'glacier'")

// Destination resolves the effective destination from an optional override
// (command-line flag) and the configured default.
func (c *Config) Destination(override string) (string, error) {
	dest := override
	if dest == "" {
		dest = c.AWS.DefaultDestination
	}
	switch dest {
	case DestinationS3, DestinationGlacier:
		return dest, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidDestination, dest)
	}
}

// ValidateFor checks that the configuration can serve the given
// destination. Missing credentials are reported before any work starts.
func (c *Config) ValidateFor(destination string) error {
	if c.AWS.AccessKey == "" || c.AWS.SecretKey == "" {
		return fmt.Errorf("aws credentials are not configured, run coldvault configure")
	}
	switch destination {
	case DestinationS3:
		if c.AWS.S3Bucket == "" {
			return fmt.Errorf("s3_bucket is not configured")
		}
	case DestinationGlacier:
		if c.AWS.GlacierVault == "" {
			return fmt.Errorf("glacier_vault is not configured")
		}
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidDestination, destination)
	}
	return nil
}
