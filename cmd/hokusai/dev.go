// dev.go implements 'hokusai dev': boot the development stack and block
// until the operator interrupts it.
package main

import (
	"github.com/example/hokusai/internal/compose"
	"github.com/example/hokusai/internal/config"
	"github.com/spf13/cobra"
)

func newDevCommand(verbose *bool) *cobra.Command {
	var skipBuild bool
	cmd := &cobra.Command{
		Use:           "dev",
		Short:         "Boot the development stack with docker-compose",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFor(cmd, *verbose)
			if _, err := loadProjectConfig(); err != nil {
				return err
			}
			file := config.StackPath(projectRoot, "development")
			orchestrator := compose.New(toolRunner)
			if err := orchestrator.Validate(file); err != nil {
				return err
			}
			if !skipBuild {
				if err := orchestrator.Build(cmd.Context(), o, file); err != nil {
					return err
				}
			}
			err := orchestrator.Up(cmd.Context(), o, file, compose.UpOptions{})
			if cmd.Context().Err() != nil {
				// Operator interrupt; the stack already received the signal.
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Boot the stack without rebuilding images first")
	return cmd
}
