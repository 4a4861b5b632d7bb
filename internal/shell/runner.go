// Package shell runs the external tools this CLI delegates to (docker,
// docker-compose, kubectl, git). Adapters depend on the Runner interface so
// tests can substitute a recording fake.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/example/hokusai/internal/ui"
)

// Command describes one external invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // extra KEY=VALUE entries appended to the inherited environment
	Stdin io.Reader
}

// Runner executes external commands. Run streams the child's output to the
// invoker's terminal; Output captures stdout and streams only stderr.
type Runner interface {
	Run(ctx context.Context, o *ui.Output, cmd Command) error
	Output(ctx context.Context, o *ui.Output, cmd Command) ([]byte, error)
}

// Local is the production Runner backed by os/exec. The child inherits the
// parent's process group, so operator interrupts reach it directly.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Run(ctx context.Context, o *ui.Output, cmd Command) error {
	o.TraceCommand(cmd.Name, cmd.Args)
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = childEnv(cmd.Env)
	c.Stdin = cmd.Stdin
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
	c.Stdout = o.Stdout()
	c.Stderr = o.Stderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return nil
}

func (l *Local) Output(ctx context.Context, o *ui.Output, cmd Command) ([]byte, error) {
	o.TraceCommand(cmd.Name, cmd.Args)
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = childEnv(cmd.Env)
	c.Stdin = cmd.Stdin
	var stdout bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = o.Stderr()
	if err := c.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return stdout.Bytes(), nil
}

// LookPath reports where an external tool resolves on PATH.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func childEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit as-is
	}
	return append(os.Environ(), extra...)
}
