// Package template renders the initial project scaffolding: a Dockerfile,
// the project configuration, and per-environment stack definitions. Rendering
// is deterministic: the same parameters always produce byte-identical output.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/example/hokusai/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Params are the user-supplied scaffolding inputs.
type Params struct {
	ProjectName  string
	AwsAccountID string
	AwsEcrRegion string
	ProjectType  string
	Port         int
	Services     []string
}

// Files holds the rendered scaffolding, keyed by destination.
type Files struct {
	Dockerfile     string
	ConfigYml      string
	DevelopmentYml string
	TestYml        string
	ProductionYml  string
}

// runtimeSpec captures per-project-type Dockerfile content.
type runtimeSpec struct {
	BaseImage      string
	InstallCommand string
	StartCommand   string
}

var runtimes = map[string]runtimeSpec{
	"ruby-rack": {
		BaseImage:      "ruby:3.3-alpine",
		InstallCommand: "apk add --no-cache build-base && bundle install",
		StartCommand:   "bundle exec rackup --host 0.0.0.0 --port $PORT",
	},
	"ruby-rails": {
		BaseImage:      "ruby:3.3-alpine",
		InstallCommand: "apk add --no-cache build-base && bundle install",
		StartCommand:   "bundle exec rails server --binding 0.0.0.0 --port $PORT",
	},
	"nodejs": {
		BaseImage:      "node:22-alpine",
		InstallCommand: "npm install",
		StartCommand:   "npm start",
	},
	"elixir": {
		BaseImage:      "elixir:1.17-alpine",
		InstallCommand: "mix local.hex --force && mix deps.get",
		StartCommand:   "mix run --no-halt",
	},
	"python-wsgi": {
		BaseImage:      "python:3.12-alpine",
		InstallCommand: "pip install --no-cache-dir -r requirements.txt",
		StartCommand:   "gunicorn --bind 0.0.0.0:$PORT app:app",
	},
}

// serviceSpec describes one optional sidecar: the compose block it adds and
// the environment line injected into the application service.
type serviceSpec struct {
	Name       string
	Image      string
	AppEnv     string
	ServiceEnv []string
}

var sidecars = map[string]serviceSpec{
	"memcached": {
		Name:   "memcached",
		Image:  "memcached:1.6-alpine",
		AppEnv: "MEMCACHED_SERVERS=memcached:11211",
	},
	"redis": {
		Name:   "redis",
		Image:  "redis:7-alpine",
		AppEnv: "REDIS_URL=redis://redis:6379/0",
	},
	"mongodb": {
		Name:   "mongodb",
		Image:  "mongo:7",
		AppEnv: "MONGO_URL=mongodb://mongodb:27017",
	},
	"postgres": {
		Name:       "postgres",
		Image:      "postgres:16-alpine",
		AppEnv:     "DATABASE_URL=postgresql://postgres@postgres/{{ .ProjectName | snakecase }}",
		ServiceEnv: []string{"POSTGRES_HOST_AUTH_METHOD=trust"},
	},
	"rabbitmq": {
		Name:   "rabbitmq",
		Image:  "rabbitmq:3-alpine",
		AppEnv: "RABBITMQ_URL=amqp://rabbitmq:5672",
	},
}

// Render produces the scaffolding for the given parameters. Enabled services
// are emitted in the canonical config.OptionalServices order regardless of
// the order they were requested in.
func Render(p Params) (Files, error) {
	rt, ok := runtimes[p.ProjectType]
	if !ok {
		return Files{}, fmt.Errorf("unsupported project-type %q", p.ProjectType)
	}
	cfg := &config.ProjectConfig{
		ProjectName:     p.ProjectName,
		AwsAccountID:    p.AwsAccountID,
		AwsEcrRegion:    p.AwsEcrRegion,
		ProjectType:     p.ProjectType,
		Port:            p.Port,
		EnabledServices: canonicalServices(p.Services),
	}
	if err := cfg.Validate(); err != nil {
		return Files{}, err
	}

	services, err := resolveSidecars(cfg)
	if err != nil {
		return Files{}, err
	}

	dockerfile, err := execute("Dockerfile.tmpl", map[string]any{
		"BaseImage":      rt.BaseImage,
		"InstallCommand": rt.InstallCommand,
		"StartCommand":   rt.StartCommand,
		"Port":           cfg.Port,
	})
	if err != nil {
		return Files{}, err
	}

	composeData := map[string]any{
		"ProjectName":  cfg.ProjectName,
		"Port":         cfg.Port,
		"Services":     services,
		"PublishPorts": true,
	}
	development, err := execute("compose.yml.tmpl", composeData)
	if err != nil {
		return Files{}, err
	}
	composeData["PublishPorts"] = false
	test, err := execute("compose.yml.tmpl", composeData)
	if err != nil {
		return Files{}, err
	}

	production, err := execute("production.yml.tmpl", map[string]any{
		"ProjectName": cfg.ProjectName,
		"Port":        cfg.Port,
		"RegistryURI": cfg.RegistryURI(),
	})
	if err != nil {
		return Files{}, err
	}

	configYml, err := yaml.Marshal(cfg)
	if err != nil {
		return Files{}, fmt.Errorf("serialize config: %w", err)
	}

	return Files{
		Dockerfile:     dockerfile,
		ConfigYml:      string(configYml),
		DevelopmentYml: development,
		TestYml:        test,
		ProductionYml:  production,
	}, nil
}

// Write persists the rendered scaffolding beneath root: the Dockerfile at the
// project root, everything else under hokusai/. Existing files are
// overwritten without merging.
func (f Files) Write(root string) error {
	if err := os.MkdirAll(filepath.Join(root, config.Dir), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", config.Dir, err)
	}
	targets := []struct {
		path    string
		content string
	}{
		{filepath.Join(root, "Dockerfile"), f.Dockerfile},
		{config.Path(root), f.ConfigYml},
		{config.StackPath(root, "development"), f.DevelopmentYml},
		{config.StackPath(root, "test"), f.TestYml},
		{config.StackPath(root, "production"), f.ProductionYml},
	}
	for _, t := range targets {
		if err := os.WriteFile(t.path, []byte(t.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", t.path, err)
		}
	}
	return nil
}

func execute(name string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).ParseFS(templatesFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// resolveSidecars expands the enabled services, rendering any templated
// application environment lines against the project config.
func resolveSidecars(cfg *config.ProjectConfig) ([]serviceSpec, error) {
	out := make([]serviceSpec, 0, len(cfg.EnabledServices))
	for _, name := range cfg.EnabledServices {
		spec := sidecars[name]
		rendered, err := renderString(spec.AppEnv, cfg)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", name, err)
		}
		spec.AppEnv = rendered
		out = append(out, spec)
	}
	return out, nil
}

func renderString(text string, data any) (string, error) {
	tmpl, err := template.New("inline").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func canonicalServices(requested []string) []string {
	enabled := map[string]bool{}
	for _, s := range requested {
		enabled[s] = true
	}
	var out []string
	for _, s := range config.OptionalServices {
		if enabled[s] {
			out = append(out, s)
		}
	}
	return out
}
