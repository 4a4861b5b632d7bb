// deploy.go implements 'hokusai deploy', 'hokusai refresh' and
// 'hokusai promote' on top of the shared release sequences.
package main

import (
	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/deploy"
	"github.com/example/hokusai/internal/kubectl"
	"github.com/spf13/cobra"
)

// deployerFor wires a release sequence against the selected context.
func deployerFor(cmd *cobra.Command, cfg *config.ProjectConfig, kubeContext string) (*deploy.Deployer, error) {
	client, err := newRegistryClient(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	cli := kubectl.New(toolRunner, kubeContext)
	return &deploy.Deployer{
		Project:     cfg.ProjectName,
		RegistryURI: client.RepositoryURI(),
		Cluster:     &deploy.KubectlCluster{CLI: cli, Project: cfg.ProjectName},
		Registry:    client,
	}, nil
}

func newDeployCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deploy TAG",
		Short:         "Deploy an image tag to the selected environment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
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
		deployer, err := deployerFor(cmd, cfg, kubeContext)
		if err != nil {
			return err
		}
		return deployer.Deploy(cmd.Context(), o, kubeContext, args[0])
	}
	return cmd
}

func newRefreshCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "refresh",
		Short:         "Force a rolling restart of the environment's deployment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
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
		deployer := &deploy.Deployer{
			Project: cfg.ProjectName,
			Cluster: &deploy.KubectlCluster{CLI: cli, Project: cfg.ProjectName},
		}
		return deployer.Refresh(cmd.Context(), o, kubeContext)
	}
	return cmd
}

func newPromoteCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "promote",
		Short:         "Deploy the tag currently running in staging to production",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFor(cmd, *verbose)
			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			stagingCluster := &deploy.KubectlCluster{
				CLI:     kubectl.New(toolRunner, "staging"),
				Project: cfg.ProjectName,
			}
			production, err := deployerFor(cmd, cfg, "production")
			if err != nil {
				return err
			}
			return deploy.Promote(cmd.Context(), o, stagingCluster, production)
		},
	}
	return cmd
}
