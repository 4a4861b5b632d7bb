// Package git resolves source-control metadata used for default image tags.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/hokusai/internal/shell"
	"github.com/example/hokusai/internal/ui"
)

// Head returns the full revision id of the current HEAD.
func Head(ctx context.Context, run shell.Runner, o *ui.Output) (string, error) {
	out, err := run.Output(ctx, o, shell.Command{Name: "git", Args: []string{"rev-parse", "HEAD"}})
	if err != nil {
		return "", fmt.Errorf("resolve git HEAD: %w", err)
	}
	rev := strings.TrimSpace(string(out))
	if rev == "" {
		return "", fmt.Errorf("resolve git HEAD: empty revision")
	}
	return rev, nil
}
