package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *ProjectConfig {
	return &ProjectConfig{
		ProjectName:     "my-app",
		AwsAccountID:    "123456789012",
		AwsEcrRegion:    "us-east-1",
		ProjectType:     "nodejs",
		Port:            8080,
		EnabledServices: []string{"redis"},
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := validConfig()
	if err := Write(dir, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ProjectName != want.ProjectName ||
		got.AwsAccountID != want.AwsAccountID ||
		got.AwsEcrRegion != want.AwsEcrRegion ||
		got.ProjectType != want.ProjectType ||
		got.Port != want.Port {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if len(got.EnabledServices) != 1 || got.EnabledServices[0] != "redis" {
		t.Fatalf("enabled services = %v, want [redis]", got.EnabledServices)
	}
}

func TestLoadMissingConfigIsNotConfigured(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLoadMalformedConfigIsNotConfigured(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, Dir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(dir), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProjectConfig)
	}{
		{"empty project name", func(c *ProjectConfig) { c.ProjectName = "" }},
		{"empty account id", func(c *ProjectConfig) { c.AwsAccountID = "" }},
		{"empty region", func(c *ProjectConfig) { c.AwsEcrRegion = "" }},
		{"unknown project type", func(c *ProjectConfig) { c.ProjectType = "fortran" }},
		{"port zero", func(c *ProjectConfig) { c.Port = 0 }},
		{"port too large", func(c *ProjectConfig) { c.Port = 70000 }},
		{"unknown service", func(c *ProjectConfig) { c.EnabledServices = []string{"kafka"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestRegistryURI(t *testing.T) {
	cfg := validConfig()
	want := "123456789012.dkr.ecr.us-east-1.amazonaws.com/my-app"
	if got := cfg.RegistryURI(); got != want {
		t.Fatalf("registry uri = %q, want %q", got, want)
	}
}
