package docker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

type recorder struct {
	commands []shell.Command
	output   string
	err      error
}

func (r *recorder) Run(_ context.Context, _ *ui.Output, c shell.Command) error {
	r.commands = append(r.commands, c)
	return r.err
}

func (r *recorder) Output(_ context.Context, _ *ui.Output, c shell.Command) ([]byte, error) {
	r.commands = append(r.commands, c)
	return []byte(r.output), r.err
}

func testOutput() *ui.Output {
	return ui.New(&strings.Builder{}, &strings.Builder{}, false)
}

func TestBuildArgs(t *testing.T) {
	rec := &recorder{}
	err := New(rec).Build(context.Background(), testOutput(), ".", "repo/my-app:abc")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := strings.Join(rec.commands[0].Args, " ")
	if got != "build --tag repo/my-app:abc ." {
		t.Fatalf("args = %q", got)
	}
}

func TestLoginSendsPasswordOverStdin(t *testing.T) {
	rec := &recorder{}
	err := New(rec).Login(context.Background(), testOutput(), "AWS", "sekret", "https://registry.example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	c := rec.commands[0]
	got := strings.Join(c.Args, " ")
	if got != "login --username AWS --password-stdin https://registry.example.com" {
		t.Fatalf("args = %q", got)
	}
	for _, arg := range c.Args {
		if arg == "sekret" {
			t.Fatal("password leaked into argv")
		}
	}
	stdin, err := io.ReadAll(c.Stdin)
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if string(stdin) != "sekret" {
		t.Fatalf("stdin = %q, want the password", stdin)
	}
}

func TestContainerExitCode(t *testing.T) {
	rec := &recorder{output: "7\n"}
	code, err := New(rec).ContainerExitCode(context.Background(), testOutput(), "hokusai-my-app-1")
	if err != nil {
		t.Fatalf("exit code: %v", err)
	}
	if code != 7 {
		t.Fatalf("code = %d, want 7", code)
	}
	got := strings.Join(rec.commands[0].Args, " ")
	if got != "inspect --format {{.State.ExitCode}} hokusai-my-app-1" {
		t.Fatalf("args = %q", got)
	}
}

func TestContainerExitCodeInspectFailure(t *testing.T) {
	rec := &recorder{err: errors.New("no such container")}
	if _, err := New(rec).ContainerExitCode(context.Background(), testOutput(), "ghost"); err == nil {
		t.Fatal("expected inspect error")
	}
}

func TestContainerExitCodeUnparsable(t *testing.T) {
	rec := &recorder{output: "not-a-number"}
	if _, err := New(rec).ContainerExitCode(context.Background(), testOutput(), "hokusai-my-app-1"); err == nil {
		t.Fatal("expected parse error")
	}
}
