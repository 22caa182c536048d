package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultConfigDir  = "/etc/coldvault"
	DefaultConfigName = "config.yaml"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "COLDVAULT_CONFIG"

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir, DefaultConfigName)
}

func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath()
}
