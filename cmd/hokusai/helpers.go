package main

import (
	"context"

	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/registry"
	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
	"github.com/spf13/cobra"
)

// toolRunner executes the external tools; tests swap in a recording fake.
var toolRunner shell.Runner = shell.NewLocal()

// registryService is the slice of the ECR client the commands use.
type registryService interface {
	Credentials(ctx context.Context) (username, password, server string, err error)
	EnsureRepository(ctx context.Context) error
	RepositoryExists(ctx context.Context) (bool, error)
	ListImages(ctx context.Context) ([]registry.Image, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	Retag(ctx context.Context, sourceTag, aliasTag string) error
	RepositoryURI() string
}

// newRegistryClient builds the project's ECR client; tests swap in a fake.
var newRegistryClient = func(ctx context.Context, cfg *config.ProjectConfig) (registryService, error) {
	return registry.New(ctx, cfg)
}

// outputFor builds the per-invocation output capability from the verbose
// flag; it is passed explicitly to every orchestration call.
func outputFor(cmd *cobra.Command, verbose bool) *ui.Output {
	return ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), verbose)
}

// projectRoot is the directory commands resolve configuration against.
var projectRoot = "."

func loadProjectConfig() (*config.ProjectConfig, error) {
	return config.Load(projectRoot)
}
