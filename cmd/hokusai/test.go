// test.go implements 'hokusai test': run the test stack and exit with the
// exact exit code of the project's container.
package main

import (
	"fmt"

	"github.com/example/hokusai/internal/compose"
	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/docker"
	"github.com/example/hokusai/internal/ui"
	"github.com/spf13/cobra"
)

// containerExitError carries the tested container's exit code so main can
// propagate it as this process's own.
type containerExitError struct {
	Code int
}

func (e *containerExitError) Error() string {
	return fmt.Sprintf("container exited with code %d", e.Code)
}

func newTestCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "test",
		Short:         "Run the test stack; exit with the tested container's exit code",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFor(cmd, *verbose)
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			file := config.StackPath(projectRoot, "test")
			orchestrator := compose.New(toolRunner)
			if err := orchestrator.Validate(file); err != nil {
				return err
			}
			if err := orchestrator.Build(cmd.Context(), o, file); err != nil {
				return err
			}

			upErr := orchestrator.Up(cmd.Context(), o, file, compose.UpOptions{AbortOnContainerExit: true})

			engine := docker.New(toolRunner)
			code, codeErr := projectContainerExitCode(cmd, o, engine, cfg.ProjectName)

			if stopErr := orchestrator.Stop(cmd.Context(), o, file); stopErr != nil {
				o.Tracef("stop test stack: %v", stopErr)
			}

			if codeErr != nil {
				if upErr != nil {
					return upErr
				}
				return codeErr
			}
			if code != 0 {
				o.Red("Tests failed: %s exited with code %d", cfg.ProjectName, code)
				return &containerExitError{Code: code}
			}
			o.Green("Tests passed")
			return nil
		},
	}
	return cmd
}

// projectContainerExitCode inspects the project's container under both
// compose container naming schemes (dashes since compose v2, underscores
// before).
func projectContainerExitCode(cmd *cobra.Command, o *ui.Output, engine *docker.Engine, service string) (int, error) {
	modern := fmt.Sprintf("%s-%s-1", compose.ProjectName, service)
	code, err := engine.ContainerExitCode(cmd.Context(), o, modern)
	if err == nil {
		return code, nil
	}
	legacy := fmt.Sprintf("%s_%s_1", compose.ProjectName, service)
	return engine.ContainerExitCode(cmd.Context(), o, legacy)
}
