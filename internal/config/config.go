// Package config models the persisted project configuration written by
// `hokusai setup` and read by every other action. The configuration is a
// single YAML file under the project-relative hokusai/ directory; runtime
// commands never mutate it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the project-relative directory holding the config and stack files.
const Dir = "hokusai"

// ErrNotConfigured indicates the project has not been set up yet.
var ErrNotConfigured = errors.New("project not configured: run `hokusai setup` first")

// ProjectTypes enumerates the supported scaffolding templates.
var ProjectTypes = []string{"ruby-rack", "ruby-rails", "nodejs", "elixir", "python-wsgi"}

// OptionalServices enumerates the sidecar services setup can enable.
var OptionalServices = []string{"memcached", "redis", "mongodb", "postgres", "rabbitmq"}

type ProjectConfig struct {
	ProjectName     string   `yaml:"project-name"`
	AwsAccountID    string   `yaml:"aws-account-id"`
	AwsEcrRegion    string   `yaml:"aws-ecr-region"`
	ProjectType     string   `yaml:"project-type"`
	Port            int      `yaml:"port"`
	EnabledServices []string `yaml:"enabled-services,omitempty"`
}

// Path returns the config file location beneath root.
func Path(root string) string {
	return filepath.Join(root, Dir, "config.yml")
}

// StackPath returns the stack definition file for the named environment
// (development, test, staging, production) beneath root.
func StackPath(root, environment string) string {
	return filepath.Join(root, Dir, environment+".yml")
}

// Load reads the persisted configuration. A missing or malformed file is
// reported as ErrNotConfigured with a remediation hint.
func Load(root string) (*ProjectConfig, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("read %s: %w", Path(root), err)
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w (parse %s: %v)", ErrNotConfigured, Path(root), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrNotConfigured, err)
	}
	return &cfg, nil
}

// Write serializes the configuration to hokusai/config.yml, overwriting any
// existing file. A failed write surfaces as an error, never as a silently
// half-written config.
func Write(root string, cfg *ProjectConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", Dir, err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", Path(root), err)
	}
	return nil
}

func (c *ProjectConfig) Validate() error {
	if c.ProjectName == "" {
		return errors.New("project-name must not be empty")
	}
	if c.AwsAccountID == "" {
		return errors.New("aws-account-id must not be empty")
	}
	if c.AwsEcrRegion == "" {
		return errors.New("aws-ecr-region must not be empty")
	}
	if !contains(ProjectTypes, c.ProjectType) {
		return fmt.Errorf("unsupported project-type %q", c.ProjectType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	for _, svc := range c.EnabledServices {
		if !contains(OptionalServices, svc) {
			return fmt.Errorf("unsupported service %q", svc)
		}
	}
	return nil
}

// RegistryHost returns the ECR registry hostname for this project's account.
func (c *ProjectConfig) RegistryHost() string {
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", c.AwsAccountID, c.AwsEcrRegion)
}

// RegistryURI returns the fully qualified repository for this project.
func (c *ProjectConfig) RegistryURI() string {
	return c.RegistryHost() + "/" + c.ProjectName
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
