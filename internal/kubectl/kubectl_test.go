package kubectl

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

type recorder struct {
	commands []shell.Command
	output   string
}

func (r *recorder) Run(_ context.Context, _ *ui.Output, c shell.Command) error {
	r.commands = append(r.commands, c)
	return nil
}

func (r *recorder) Output(_ context.Context, _ *ui.Output, c shell.Command) ([]byte, error) {
	r.commands = append(r.commands, c)
	return []byte(r.output), nil
}

func testOutput() *ui.Output {
	return ui.New(&strings.Builder{}, &strings.Builder{}, false)
}

func (r *recorder) lastArgs(t *testing.T) string {
	t.Helper()
	if len(r.commands) == 0 {
		t.Fatal("no command recorded")
	}
	last := r.commands[len(r.commands)-1]
	if last.Name != "kubectl" {
		t.Fatalf("command = %q, want kubectl", last.Name)
	}
	return strings.Join(last.Args, " ")
}

func TestEveryCallIsContextScoped(t *testing.T) {
	rec := &recorder{}
	cli := New(rec, "staging")
	ctx := context.Background()
	o := testOutput()

	_ = cli.ApplyFile(ctx, o, "hokusai/staging.yml")
	_ = cli.DeleteFile(ctx, o, "hokusai/staging.yml")
	_, _ = cli.GetJSON(ctx, o, "deployment", "my-app", "")
	_ = cli.SetImage(ctx, o, "my-app", "my-app", "repo/my-app:abc")
	_ = cli.RolloutRestart(ctx, o, "app=my-app")
	_ = cli.Logs(ctx, o, "app=my-app", LogOptions{})
	_ = cli.CreateConfigMap(ctx, o, "my-app-environment")
	_ = cli.DeleteConfigMap(ctx, o, "my-app-environment")

	for _, c := range rec.commands {
		if len(c.Args) < 2 || c.Args[0] != "--context" || c.Args[1] != "staging" {
			t.Errorf("command not context-scoped: kubectl %s", strings.Join(c.Args, " "))
		}
	}
}

func TestApplyStdinFeedsManifest(t *testing.T) {
	rec := &recorder{}
	cli := New(rec, "production")

	if err := cli.ApplyStdin(context.Background(), testOutput(), []byte(`{"kind":"ConfigMap"}`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := rec.lastArgs(t); got != "--context production apply --filename -" {
		t.Fatalf("args = %q", got)
	}
	stdin, err := io.ReadAll(rec.commands[0].Stdin)
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if string(stdin) != `{"kind":"ConfigMap"}` {
		t.Fatalf("stdin = %q", stdin)
	}
}

func TestGetJSONArgs(t *testing.T) {
	rec := &recorder{output: "{}"}
	cli := New(rec, "staging")

	if _, err := cli.GetJSON(context.Background(), testOutput(), "deployment", "", "app=my-app"); err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "--context staging get deployment --selector app=my-app --output json"
	if got := rec.lastArgs(t); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestSetImageArgs(t *testing.T) {
	rec := &recorder{}
	cli := New(rec, "production")

	if err := cli.SetImage(context.Background(), testOutput(), "my-app", "my-app", "repo/my-app:abc"); err != nil {
		t.Fatalf("set image: %v", err)
	}
	want := "--context production set image deployment/my-app my-app=repo/my-app:abc"
	if got := rec.lastArgs(t); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestLogsArgs(t *testing.T) {
	rec := &recorder{}
	cli := New(rec, "staging")

	err := cli.Logs(context.Background(), testOutput(), "app=my-app", LogOptions{
		Follow:     true,
		Timestamps: true,
		TailLines:  50,
	})
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	want := "--context staging logs --selector app=my-app --follow --timestamps --tail 50"
	if got := rec.lastArgs(t); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}

func TestRunPodArgs(t *testing.T) {
	rec := &recorder{}
	cli := New(rec, "staging")

	err := cli.RunPod(context.Background(), testOutput(), "my-app-run-1", "repo/my-app:latest", RunOptions{
		TTY:     true,
		Env:     []string{"RAILS_ENV=staging"},
		Command: []string{"rake", "db:migrate"},
	})
	if err != nil {
		t.Fatalf("run pod: %v", err)
	}
	want := "--context staging run my-app-run-1 --image repo/my-app:latest --restart Never --rm --attach --stdin --tty --env RAILS_ENV=staging -- rake db:migrate"
	if got := rec.lastArgs(t); got != want {
		t.Fatalf("args = %q, want %q", got, want)
	}
}
