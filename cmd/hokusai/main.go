// main.go bootstraps hokusai: it builds the root Cobra command and executes
// it with a signal-aware context, mapping errors to process exit codes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var exitErr *containerExitError
		if errors.As(err, &exitErr) {
			// The test action propagates the tested container's exact
			// exit code; the failure was already reported.
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
