package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load reads the config file resolved from COLDVAULT_CONFIG or the default
// path. The file carries credentials, so a group/world-readable mode is
// rejected.
func Load() (*Config, error) {
	path := ResolveConfigPath()

	if err := checkPermissions(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run coldvault configure)", path)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %s (run coldvault configure)", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Unmarshal(v)
}

func checkPermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if mode := info.Mode().Perm(); mode&0o077 != 0 {
		return fmt.Errorf("config file %s has overly permissive mode %s (recommended: 0600)", path, mode)
	}
	return nil
}
