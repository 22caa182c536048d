package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"saturday":  time.Saturday,
		"Saturday":  time.Saturday,
		" monday ":  time.Monday,
		"SUNDAY":    time.Sunday,
		"wednesday": time.Wednesday,
	}
	for in, want := range cases {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseWeekday("caturday"); err == nil {
		t.Error("ParseWeekday(caturday) succeeded")
	}
}

func TestRotationPolicy(t *testing.T) {
	r := RotationConfig{Days: 7, Weeks: 4, Months: 6, FirstWeekDay: "saturday"}
	p, err := r.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if p.Days != 7 || p.Weeks != 4 || p.Months != 6 || p.FirstWeekday != time.Saturday {
		t.Errorf("Policy = %+v", p)
	}
}

func TestRotationPolicy_DefaultsFirstWeekDay(t *testing.T) {
	r := RotationConfig{Days: 1}
	p, err := r.Policy()
	if err != nil {
		t.Fatalf("Policy: %v", err)
	}
	if p.FirstWeekday != time.Saturday {
		t.Errorf("FirstWeekday = %v, want Saturday", p.FirstWeekday)
	}
}

func TestRotationPolicy_Unconfigured(t *testing.T) {
	if _, err := (RotationConfig{}).Policy(); err == nil {
		t.Error("empty rotation config produced a policy")
	}
}

func TestRotationPolicy_Negative(t *testing.T) {
	if _, err := (RotationConfig{Days: -1, FirstWeekDay: "monday"}).Policy(); err == nil {
		t.Error("negative days produced a policy")
	}
}

func TestDestination(t *testing.T) {
	cfg := &Config{AWS: AWSConfig{DefaultDestination: DestinationGlacier}}

	if dest, err := cfg.Destination(""); err != nil || dest != DestinationGlacier {
		t.Errorf("Destination(\"\") = %q, %v", dest, err)
	}
	if dest, err := cfg.Destination("s3"); err != nil || dest != DestinationS3 {
		t.Errorf("Destination(s3) = %q, %v", dest, err)
	}
	if _, err := cfg.Destination("tape"); err == nil {
		t.Error("Destination(tape) succeeded")
	}
}

func TestValidateFor(t *testing.T) {
	cfg := &Config{AWS: AWSConfig{AccessKey: "AK", SecretKey: "SK", S3Bucket: "b"}}

	if err := cfg.ValidateFor(DestinationS3); err != nil {
		t.Errorf("ValidateFor(s3): %v", err)
	}
	if err := cfg.ValidateFor(DestinationGlacier); err == nil {
		t.Error("ValidateFor(glacier) without vault succeeded")
	}

	cfg.AWS.SecretKey = ""
	if err := cfg.ValidateFor(DestinationS3); err == nil {
		t.Error("ValidateFor without credentials succeeded")
	}
}

func TestWriteAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)

	in := &Config{
		AWS: AWSConfig{
			AccessKey:          "AKIA",
			SecretKey:          "secret",
			Region:             "eu-west-1",
			S3Bucket:           "backups",
			GlacierVault:       "vault0",
			DefaultDestination: DestinationGlacier,
		},
		Rotation:  RotationConfig{Days: 7, Weeks: 4, Months: 6, FirstWeekDay: "saturday"},
		Inventory: InventoryConfig{Path: "/tmp/inv.json"},
	}
	if err := Write(in, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AWS != in.AWS {
		t.Errorf("AWS = %+v, want %+v", got.AWS, in.AWS)
	}
	if got.Rotation != in.Rotation {
		t.Errorf("Rotation = %+v, want %+v", got.Rotation, in.Rotation)
	}
	if got.Inventory.Path != "/tmp/inv.json" {
		t.Errorf("Inventory.Path = %q", got.Inventory.Path)
	}
}

func TestLoad_RejectsLooseMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)

	if err := os.WriteFile(path, []byte("aws:\n  access_key: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load accepted a world-readable config")
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, path)

	if err := os.WriteFile(path, []byte("aws:\n  access_key: AK\n  secret_key: SK\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AWS.Region != DefaultRegion {
		t.Errorf("Region default = %q", cfg.AWS.Region)
	}
	if cfg.AWS.DefaultDestination != DestinationS3 {
		t.Errorf("DefaultDestination default = %q", cfg.AWS.DefaultDestination)
	}
	if cfg.Inventory.Path != DefaultInventoryPath {
		t.Errorf("Inventory.Path default = %q", cfg.Inventory.Path)
	}
}
