// env.go implements the 'hokusai env' action group: the application's
// runtime environment variables, stored in a ConfigMap in the selected
// cluster context.
package main

import (
	"errors"

	"github.com/example/hokusai/internal/kubectl"
	"github.com/example/hokusai/internal/remoteenv"
	"github.com/spf13/cobra"
)

func newEnvCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "env",
		Short:         "Manage the application's runtime environment variables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("specify an env action: create, get, set, unset or delete")
		},
	}
	cmd.AddCommand(
		newEnvCreateCommand(verbose),
		newEnvGetCommand(verbose),
		newEnvSetCommand(verbose),
		newEnvUnsetCommand(verbose),
		newEnvDeleteCommand(verbose),
	)
	return cmd
}

// envStoreFor resolves the context and builds the store; the context check
// runs first so usage errors never contact the cluster.
func envStoreFor(staging, production bool) (*remoteenv.Store, string, error) {
	kubeContext, err := selectContext(staging, production)
	if err != nil {
		return nil, "", err
	}
	cfg, err := loadProjectConfig()
	if err != nil {
		return nil, "", err
	}
	cli := kubectl.New(toolRunner, kubeContext)
	return remoteenv.New(cli, cfg.ProjectName), kubeContext, nil
}

func newEnvCreateCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create",
		Short:         "Create the environment ConfigMap",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		store, kubeContext, err := envStoreFor(*staging, *production)
		if err != nil {
			return err
		}
		if err := store.Create(cmd.Context(), o); err != nil {
			return err
		}
		o.Green("Created configmap %s in %s", store.Name(), kubeContext)
		return nil
	}
	return cmd
}

func newEnvGetCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get [KEY...]",
		Short:         "Print environment variables (all, or the named keys)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		store, _, err := envStoreFor(*staging, *production)
		if err != nil {
			return err
		}
		values, absent, err := store.Get(cmd.Context(), o, args...)
		if err != nil {
			return err
		}
		for _, pair := range values {
			o.Plain("%s=%s", pair.Key, pair.Value)
		}
		for _, key := range absent {
			o.Red("Key %q not set", key)
		}
		return nil
	}
	return cmd
}

func newEnvSetCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "set KEY=VALUE [KEY=VALUE...]",
		Short:         "Set environment variables",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		pairs, err := remoteenv.ParsePairs(args)
		if err != nil {
			return err
		}
		store, kubeContext, err := envStoreFor(*staging, *production)
		if err != nil {
			return err
		}
		if err := store.Set(cmd.Context(), o, pairs); err != nil {
			return err
		}
		o.Green("Set %d variable(s) in %s", len(pairs), kubeContext)
		return nil
	}
	return cmd
}

func newEnvUnsetCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unset KEY [KEY...]",
		Short:         "Remove environment variables",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		store, kubeContext, err := envStoreFor(*staging, *production)
		if err != nil {
			return err
		}
		if err := store.Unset(cmd.Context(), o, args...); err != nil {
			return err
		}
		o.Green("Unset %d variable(s) in %s", len(args), kubeContext)
		return nil
	}
	return cmd
}

func newEnvDeleteCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete",
		Short:         "Delete the environment ConfigMap",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	staging, production := addContextFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		o := outputFor(cmd, *verbose)
		store, kubeContext, err := envStoreFor(*staging, *production)
		if err != nil {
			return err
		}
		if err := store.Delete(cmd.Context(), o); err != nil {
			return err
		}
		o.Green("Deleted configmap %s from %s", store.Name(), kubeContext)
		return nil
	}
	return cmd
}
