package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/hokusai/internal/config"
)

func TestSetupScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	prevRoot := projectRoot
	projectRoot = dir
	defer func() { projectRoot = prevRoot }()

	reg := &fakeRegistry{uri: "123456789012.dkr.ecr.us-east-1.amazonaws.com/myapp"}
	prevFactory := newRegistryClient
	newRegistryClient = func(context.Context, *config.ProjectConfig) (registryService, error) {
		return reg, nil
	}
	defer func() { newRegistryClient = prevFactory }()

	_, _, err := executeRoot(t,
		"setup",
		"--aws-account-id", "123456789012",
		"--project-type", "nodejs",
		"--project-name", "myapp",
		"--port", "8080",
	)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProjectType != "nodejs" {
		t.Errorf("project type = %q, want nodejs", cfg.ProjectType)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if len(cfg.EnabledServices) != 0 {
		t.Errorf("enabled services = %v, want none", cfg.EnabledServices)
	}

	for _, path := range []string{
		filepath.Join(dir, "Dockerfile"),
		config.StackPath(dir, "development"),
		config.StackPath(dir, "test"),
		config.StackPath(dir, "production"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	if !reg.ensured {
		t.Error("expected setup to ensure the ECR repository")
	}
}

func TestSetupRequiresAccountID(t *testing.T) {
	t.Setenv("AWS_ACCOUNT_ID", "")
	_, _, err := executeRoot(t, "setup", "--project-type", "nodejs")
	if err == nil {
		t.Fatal("expected missing --aws-account-id to fail")
	}
}
