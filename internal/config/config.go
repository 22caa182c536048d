// Package config loads and validates the coldvault configuration file.
// Every component takes its policy and credentials as explicit values
// built here; nothing reads ambient process-wide state.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ColdVault/internal/rotation"
)

const (
	DestinationS3      = "s3"
	DestinationGlacier = "glacier"

	DefaultRegion        = "us-east-1"
	DefaultInventoryPath = "/var/lib/coldvault/inventory.json"
	DefaultFirstWeekDay  = "saturday"
)

type Config struct {
	AWS       AWSConfig       `mapstructure:"aws" yaml:"aws"`
	Rotation  RotationConfig  `mapstructure:"rotation" yaml:"rotation"`
	Inventory InventoryConfig `mapstructure:"inventory" yaml:"inventory"`
}

type AWSConfig struct {
	AccessKey          string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey          string `mapstructure:"secret_key" yaml:"secret_key"`
	Region             string `mapstructure:"region" yaml:"region"`
	S3Bucket           string `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Prefix           string `mapstructure:"s3_prefix" yaml:"s3_prefix,omitempty"`
	Endpoint           string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	GlacierVault       string `mapstructure:"glacier_vault" yaml:"glacier_vault"`
	DefaultDestination string `mapstructure:"default_destination" yaml:"default_destination"`
}

// RotationConfig is the on-disk form of the GFS policy.
type RotationConfig struct {
	Days         int    `mapstructure:"days" yaml:"days"`
	Weeks        int    `mapstructure:"weeks" yaml:"weeks"`
	Months       int    `mapstructure:"months" yaml:"months"`
	FirstWeekDay string `mapstructure:"first_week_day" yaml:"first_week_day"`
}

type InventoryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	if c.AWS.DefaultDestination == "" {
		c.AWS.DefaultDestination = DestinationS3
	}
	if c.Inventory.Path == "" {
		c.Inventory.Path = DefaultInventoryPath
	}
	return &c, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday maps a weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("invalid first_week_day %q, choose sunday through saturday", name)
	}
	return d, nil
}

// Policy converts the rotation section into a validated engine policy.
// An absent or incomplete section is a configuration error reported here,
// before the retention engine ever runs.
func (r RotationConfig) Policy() (rotation.Policy, error) {
	if r.Days == 0 && r.Weeks == 0 && r.Months == 0 && r.FirstWeekDay == "" {
		return rotation.Policy{}, fmt.Errorf("rotation policy is not configured, run coldvault configure-rotation")
	}
	if r.Days < 0 || r.Weeks < 0 || r.Months < 0 {
		return rotation.Policy{}, fmt.Errorf("rotation days/weeks/months must be non-negative")
	}
	day := r.FirstWeekDay
	if day == "" {
		day = DefaultFirstWeekDay
	}
	weekday, err := ParseWeekday(day)
	if err != nil {
		return rotation.Policy{}, err
	}
	return rotation.Policy{
		Days:         r.Days,
		Weeks:        r.Weeks,
		Months:       r.Months,
		FirstWeekday: weekday,
	}, nil
}
