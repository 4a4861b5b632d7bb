// Package compose is the compose orchestrator adapter used by the dev and
// test actions. Stack files are validated with the compose-go loader before
// `docker-compose` is invoked, so schema mistakes fail before any container
// starts.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

// ProjectName is the fixed compose project namespace for all stacks this
// tool boots, matching the container names the test action inspects.
const ProjectName = "hokusai"

type Orchestrator struct {
	run shell.Runner
}

func New(run shell.Runner) *Orchestrator {
	return &Orchestrator{run: run}
}

type UpOptions struct {
	// AbortOnContainerExit stops the whole stack as soon as any container
	// exits; the test action relies on this to observe the result.
	AbortOnContainerExit bool
}

// Validate loads the stack definition through the compose-go loader without
// touching the container engine.
func (c *Orchestrator) Validate(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read compose file %s: %w", file, err)
	}
	env := make(composetypes.Mapping)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[key] = value
	}
	details := composetypes.ConfigDetails{
		WorkingDir:  filepath.Dir(file),
		ConfigFiles: []composetypes.ConfigFile{{Filename: file, Content: data}},
		Environment: env,
	}
	_, err = loader.Load(details, func(o *loader.Options) {
		o.SetProjectName(ProjectName, true)
	})
	if err != nil {
		return fmt.Errorf("invalid compose file %s: %w", file, err)
	}
	return nil
}

// Build builds the images for every service in the stack definition.
func (c *Orchestrator) Build(ctx context.Context, o *ui.Output, file string) error {
	return c.run.Run(ctx, o, shell.Command{
		Name: "docker-compose",
		Args: append(c.baseArgs(file), "build"),
	})
}

// Up boots the stack and blocks until the external process exits or the
// operator interrupts it.
func (c *Orchestrator) Up(ctx context.Context, o *ui.Output, file string, opts UpOptions) error {
	args := append(c.baseArgs(file), "up")
	if opts.AbortOnContainerExit {
		args = append(args, "--abort-on-container-exit")
	}
	return c.run.Run(ctx, o, shell.Command{Name: "docker-compose", Args: args})
}

// Stop stops the stack's containers without removing them, so their exit
// codes stay inspectable.
func (c *Orchestrator) Stop(ctx context.Context, o *ui.Output, file string) error {
	return c.run.Run(ctx, o, shell.Command{
		Name: "docker-compose",
		Args: append(c.baseArgs(file), "stop"),
	})
}

func (c *Orchestrator) baseArgs(file string) []string {
	return []string{"--file", file, "--project-name", ProjectName}
}
