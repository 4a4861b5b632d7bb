// stack.go implements the 'hokusai stack' action group: lifecycle of the
// per-environment Kubernetes stack defined in hokusai/<context>.yml.
package main

import (
	"context"
	"errors"

	"github.com/example/hokusai/internal/kubectl"
	"github.com/example/hokusai/internal/remoteenv"
	"github.com/example/hokusai/internal/stack"
	"github.com/example/hokusai/internal/ui"
	"github.com/spf13/cobra"
)

func newStackCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stack",
		Short:         "Manage the environment's Kubernetes stack",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("specify a stack action: create, update, delete or status")
		},
	}
	cmd.AddCommand(
		newStackActionCommand(verbose, "create", "Create the stack and its environment ConfigMap",
			func(ctx context.Context, o *ui.Output, m *stack.Manager, kubeContext string) error {
				return m.Create(ctx, o, kubeContext)
			}),
		newStackActionCommand(verbose, "update", "Re-apply the stack manifest",
			func(ctx context.Context, o *ui.Output, m *stack.Manager, kubeContext string) error {
				return m.Update(ctx, o, kubeContext)
			}),
		newStackActionCommand(verbose, "delete", "Delete the stack and its environment ConfigMap",
			func(ctx context.Context, o *ui.Output, m *stack.Manager, kubeContext string) error {
				return m.Delete(ctx, o, kubeContext)
			}),
		newStackActionCommand(verbose, "status", "Show the stack's deployments and services",
			func(ctx context.Context, o *ui.Output, m *stack.Manager, kubeContext string) error {
				return m.Status(ctx, o, kubeContext)
			}),
	)
	return cmd
}

func newStackActionCommand(verbose *bool, action, short string, run func(context.Context, *ui.Output, *stack.Manager, string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           action,
		Short:         short,
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
		manager := stack.NewManager(cli, remoteenv.New(cli, cfg.ProjectName), cfg.ProjectName, projectRoot)
		return run(cmd.Context(), o, manager, kubeContext)
	}
	return cmd
}
