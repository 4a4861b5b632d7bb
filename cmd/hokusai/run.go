// run.go implements 'hokusai run': execute a one-off command in the selected
// environment using the project's image.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/example/hokusai/internal/kubectl"
	"github.com/example/hokusai/internal/remoteenv"
	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newRunCommand(verbose *bool) *cobra.Command {
	var (
		tty     bool
		tag     string
		envVars []string
	)
	cmd := &cobra.Command{
		Use:           "run COMMAND [ARGS...]",
		Short:         "Run a one-off command in the selected environment",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.Flags().BoolVar(&tty, "tty", false, "Allocate a TTY and attach stdin")
	cmd.Flags().StringVar(&tag, "tag", "latest", "Image tag to run")
	cmd.Flags().StringArrayVar(&envVars, "env", nil, "Environment override KEY=VALUE (repeatable)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		kubeContext, err := selectContext(*staging, *production)
		if err != nil {
			return err
		}
		if _, err := remoteenv.ParsePairs(envVars); err != nil {
			return err
		}
		if tty && !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("--tty requested but stdin is not a terminal")
		}
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}

		command := args
		if len(args) == 1 && strings.ContainsAny(args[0], " \t") {
			command, err = shellwords.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse command: %w", err)
			}
		}

		name := fmt.Sprintf("%s-run-%d", cfg.ProjectName, time.Now().Unix())
		image := cfg.RegistryURI() + ":" + tag
		cli := kubectl.New(toolRunner, kubeContext)
		return cli.RunPod(cmd.Context(), o, name, image, kubectl.RunOptions{
			TTY:     tty,
			Env:     envVars,
			Command: command,
		})
	}
	return cmd
}
