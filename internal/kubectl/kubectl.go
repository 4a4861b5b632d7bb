// Package kubectl is the cluster CLI adapter. Every call is scoped to the
// kubectl context selected for the invocation (staging or production); the
// tool never talks to the API server directly.
package kubectl

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

type CLI struct {
	run         shell.Runner
	kubeContext string
}

// New returns a CLI bound to the named kubectl context.
func New(run shell.Runner, kubeContext string) *CLI {
	return &CLI{run: run, kubeContext: kubeContext}
}

func (k *CLI) Context() string { return k.kubeContext }

func (k *CLI) command(args ...string) shell.Command {
	return shell.Command{
		Name: "kubectl",
		Args: append([]string{"--context", k.kubeContext}, args...),
	}
}

// ApplyFile applies the manifest at path.
func (k *CLI) ApplyFile(ctx context.Context, o *ui.Output, path string) error {
	return k.run.Run(ctx, o, k.command("apply", "--filename", path))
}

// ApplyStdin applies a manifest provided on stdin.
func (k *CLI) ApplyStdin(ctx context.Context, o *ui.Output, manifest []byte) error {
	cmd := k.command("apply", "--filename", "-")
	cmd.Stdin = bytes.NewReader(manifest)
	return k.run.Run(ctx, o, cmd)
}

// DeleteFile deletes the resources defined in the manifest at path.
func (k *CLI) DeleteFile(ctx context.Context, o *ui.Output, path string) error {
	return k.run.Run(ctx, o, k.command("delete", "--filename", path))
}

// GetJSON fetches a resource (or list, when name is empty and selector set)
// as JSON for typed decoding by the caller.
func (k *CLI) GetJSON(ctx context.Context, o *ui.Output, kind, name, selector string) ([]byte, error) {
	args := []string{"get", kind}
	if name != "" {
		args = append(args, name)
	}
	if selector != "" {
		args = append(args, "--selector", selector)
	}
	args = append(args, "--output", "json")
	out, err := k.run.Output(ctx, o, k.command(args...))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetImage points the named container of a deployment at image.
func (k *CLI) SetImage(ctx context.Context, o *ui.Output, deployment, container, image string) error {
	return k.run.Run(ctx, o, k.command("set", "image",
		fmt.Sprintf("deployment/%s", deployment),
		fmt.Sprintf("%s=%s", container, image)))
}

// RolloutRestart triggers a rolling restart of the deployments matching
// selector without changing their image references.
func (k *CLI) RolloutRestart(ctx context.Context, o *ui.Output, selector string) error {
	return k.run.Run(ctx, o, k.command("rollout", "restart", "deployment", "--selector", selector))
}

type LogOptions struct {
	Follow     bool
	Timestamps bool
	TailLines  int
}

// Logs streams pod logs for selector; with Follow the stream is unbounded
// and ends only on operator interruption.
func (k *CLI) Logs(ctx context.Context, o *ui.Output, selector string, opts LogOptions) error {
	args := []string{"logs", "--selector", selector}
	if opts.Follow {
		args = append(args, "--follow")
	}
	if opts.Timestamps {
		args = append(args, "--timestamps")
	}
	if opts.TailLines > 0 {
		args = append(args, "--tail", strconv.Itoa(opts.TailLines))
	}
	return k.run.Run(ctx, o, k.command(args...))
}

type RunOptions struct {
	TTY     bool
	Env     []string // KEY=VALUE overrides for the one-off pod
	Command []string
}

// RunPod starts a one-off pod from image, attaches to it, and removes it
// when the command finishes.
func (k *CLI) RunPod(ctx context.Context, o *ui.Output, name, image string, opts RunOptions) error {
	args := []string{"run", name,
		"--image", image,
		"--restart", "Never",
		"--rm",
		"--attach",
	}
	if opts.TTY {
		args = append(args, "--stdin", "--tty")
	}
	for _, kv := range opts.Env {
		args = append(args, "--env", kv)
	}
	args = append(args, "--")
	args = append(args, opts.Command...)
	return k.run.Run(ctx, o, k.command(args...))
}

// CreateConfigMap creates an empty ConfigMap with the given name.
func (k *CLI) CreateConfigMap(ctx context.Context, o *ui.Output, name string) error {
	return k.run.Run(ctx, o, k.command("create", "configmap", name))
}

// DeleteConfigMap removes the named ConfigMap.
func (k *CLI) DeleteConfigMap(ctx context.Context, o *ui.Output, name string) error {
	return k.run.Run(ctx, o, k.command("delete", "configmap", name))
}
