// logs.go implements 'hokusai logs': stream the application's pod logs from
// the selected environment.
package main

import (
	"github.com/example/hokusai/internal/kubectl"
	"github.com/spf13/cobra"
)

func newLogsCommand(verbose *bool) *cobra.Command {
	var (
		timestamps bool
		tailLines  int
		follow     bool
	)
	cmd := &cobra.Command{
		Use:           "logs",
		Short:         "Print the application's pod logs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.Flags().BoolVarP(&timestamps, "timestamps", "t", false, "Include timestamps on each line")
	cmd.Flags().IntVarP(&tailLines, "nlines", "n", 0, "Only print this many recent lines")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow the log stream until interrupted")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		kubeContext, err := selectContext(*staging, *production)
		if err != nil {
			return err
		}
		cfg, err := loadProjectConfig()
		if err != nil {
			return err
		}
		cli := kubectl.New(toolRunner, kubeContext)
		err = cli.Logs(cmd.Context(), o, "app="+cfg.ProjectName, kubectl.LogOptions{
			Follow:     follow,
			Timestamps: timestamps,
			TailLines:  tailLines,
		})
		if follow && cmd.Context().Err() != nil {
			// Operator interrupted the stream.
			return nil
		}
		return err
	}
	return cmd
}
