// Package docker is the container engine adapter. Every method maps one
// logical operation to a single `docker` invocation; retry policy, if any,
// belongs to the caller.
package docker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

type Engine struct {
	run shell.Runner
}

func New(run shell.Runner) *Engine {
	return &Engine{run: run}
}

// Build builds the image for contextDir's Dockerfile and tags it with tag.
func (e *Engine) Build(ctx context.Context, o *ui.Output, contextDir, tag string) error {
	return e.run.Run(ctx, o, shell.Command{
		Name: "docker",
		Args: []string{"build", "--tag", tag, contextDir},
	})
}

// Tag applies target as an additional name for source.
func (e *Engine) Tag(ctx context.Context, o *ui.Output, source, target string) error {
	return e.run.Run(ctx, o, shell.Command{
		Name: "docker",
		Args: []string{"tag", source, target},
	})
}

// Push uploads reference to its registry.
func (e *Engine) Push(ctx context.Context, o *ui.Output, reference string) error {
	return e.run.Run(ctx, o, shell.Command{
		Name: "docker",
		Args: []string{"push", reference},
	})
}

// Pull downloads reference from its registry.
func (e *Engine) Pull(ctx context.Context, o *ui.Output, reference string) error {
	return e.run.Run(ctx, o, shell.Command{
		Name: "docker",
		Args: []string{"pull", reference},
	})
}

// Login feeds registry credentials to the engine over stdin.
func (e *Engine) Login(ctx context.Context, o *ui.Output, username, password, server string) error {
	return e.run.Run(ctx, o, shell.Command{
		Name:  "docker",
		Args:  []string{"login", "--username", username, "--password-stdin", server},
		Stdin: strings.NewReader(password),
	})
}

// ContainerExitCode reports the recorded exit status of a stopped container.
func (e *Engine) ContainerExitCode(ctx context.Context, o *ui.Output, container string) (int, error) {
	out, err := e.run.Output(ctx, o, shell.Command{
		Name: "docker",
		Args: []string{"inspect", "--format", "{{.State.ExitCode}}", container},
	})
	if err != nil {
		return 0, fmt.Errorf("inspect container %s: %w", container, err)
	}
	code, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("parse exit code for %s: %w", container, err)
	}
	return code, nil
}
