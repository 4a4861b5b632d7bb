// push.go implements 'hokusai push': build the project image and push it to
// ECR under the given tag (default: the current git revision) plus latest.
package main

import (
	"github.com/example/hokusai/internal/docker"
	"github.com/example/hokusai/internal/git"
	"github.com/spf13/cobra"
)

func newPushCommand(verbose *bool) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:           "push",
		Short:         "Build the project image and push it to ECR",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o := outputFor(cmd, *verbose)
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			engine := docker.New(toolRunner)
			client, err := newRegistryClient(ctx, cfg)
			if err != nil {
				return err
			}

			username, password, server, err := client.Credentials(ctx)
			if err != nil {
				return err
			}
			if err := engine.Login(ctx, o, username, password, server); err != nil {
				return err
			}
			if err := client.EnsureRepository(ctx); err != nil {
				return err
			}

			if tag == "" {
				tag, err = git.Head(ctx, toolRunner, o)
				if err != nil {
					return err
				}
			}

			if err := engine.Build(ctx, o, projectRoot, cfg.ProjectName); err != nil {
				return err
			}
			remote := client.RepositoryURI()
			for _, target := range []string{remote + ":" + tag, remote + ":latest"} {
				if err := engine.Tag(ctx, o, cfg.ProjectName, target); err != nil {
					return err
				}
				if err := engine.Push(ctx, o, target); err != nil {
					return err
				}
			}
			o.Green("Pushed %s:%s", remote, tag)
			return nil
		},
	}
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Image tag to push (default: current git revision)")
	return cmd
}
