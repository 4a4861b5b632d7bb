package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "hokusai",
		Short:         "Manage application stacks across Docker, ECR and Kubernetes",
		Long:          "hokusai scaffolds containerized applications and drives their lifecycle:\nlocal development and CI testing with docker-compose, image storage in AWS ECR,\nand staging/production deployments on Kubernetes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print the external commands being run")

	cmd.AddCommand(
		newVersionCommand(),
		newConfigureCommand(&verbose),
		newSetupCommand(&verbose),
		newCheckCommand(&verbose),
		newDevCommand(&verbose),
		newTestCommand(&verbose),
		newPushCommand(&verbose),
		newImagesCommand(&verbose),
		newEnvCommand(&verbose),
		newStackCommand(&verbose),
		newDeployCommand(&verbose),
		newRefreshCommand(&verbose),
		newPromoteCommand(&verbose),
		newRunCommand(&verbose),
		newLogsCommand(&verbose),
	)
	return cmd
}
