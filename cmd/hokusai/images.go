// images.go implements 'hokusai images': list the images in the project's
// ECR repository, newest first.
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newImagesCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "images",
		Short:         "List the project's images in ECR",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			client, err := newRegistryClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			images, err := client.ListImages(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tDIGEST\tPUSHED")
			for _, img := range images {
				tags := strings.Join(img.Tags, ",")
				if tags == "" {
					tags = "<untagged>"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", tags, img.Digest, img.PushedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	return cmd
}
