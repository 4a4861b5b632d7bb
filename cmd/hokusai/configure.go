// configure.go implements 'hokusai configure': install a pinned kubectl and
// fetch the organization kubeconfig from S3.
package main

import (
	"github.com/example/hokusai/internal/kubeinstall"
	"github.com/spf13/cobra"
)

func newConfigureCommand(verbose *bool) *cobra.Command {
	var opts kubeinstall.Options
	cmd := &cobra.Command{
		Use:           "configure",
		Short:         "Install kubectl and the cluster kubeconfig",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Normalize(); err != nil {
				return err
			}
			installer, err := kubeinstall.New(cmd.Context())
			if err != nil {
				return err
			}
			return installer.Run(cmd.Context(), outputFor(cmd, *verbose), opts)
		},
	}
	cmd.Flags().StringVar(&opts.KubectlVersion, "kubectl-version", "", "kubectl release to install (e.g. 1.29.4)")
	cmd.Flags().StringVar(&opts.S3Bucket, "s3-bucket", "", "S3 bucket holding the kubeconfig")
	cmd.Flags().StringVar(&opts.S3Key, "s3-key", "", "S3 key of the kubeconfig object")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Target platform: darwin or linux (default: local OS)")
	cmd.Flags().StringVar(&opts.InstallTo, "install-to", "", "Directory to install the kubectl binary into (default /usr/local/bin)")
	cmd.Flags().StringVar(&opts.InstallConfigTo, "install-config-to", "", "Directory to install the kubeconfig into (default $HOME/.kube)")
	for _, name := range []string{"kubectl-version", "s3-bucket", "s3-key"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			cobra.CheckErr(err)
		}
	}
	return cmd
}
