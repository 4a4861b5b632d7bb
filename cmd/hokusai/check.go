// check.go implements 'hokusai check': verify the local prerequisites every
// other action depends on.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/hokusai/internal/shell"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

func newCheckCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "check",
		Short:         "Check that required tools and configuration are in place",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFor(cmd, *verbose)
			failed := 0

			for _, tool := range []string{"docker", "docker-compose", "kubectl", "git"} {
				if path, err := shell.LookPath(tool); err != nil {
					failed++
					o.Red("✗ %s not found on PATH", tool)
				} else {
					o.Green("✓ %s (%s)", tool, path)
				}
			}

			if home, err := homedir.Dir(); err != nil {
				failed++
				o.Red("✗ cannot resolve home directory: %v", err)
			} else if kubeconfig := filepath.Join(home, ".kube", "config"); fileExists(kubeconfig) {
				o.Green("✓ kubeconfig (%s)", kubeconfig)
			} else {
				failed++
				o.Red("✗ kubeconfig missing at %s: run `hokusai configure`", kubeconfig)
			}

			cfg, err := loadProjectConfig()
			if err != nil {
				failed++
				o.Red("✗ %v", err)
			} else {
				o.Green("✓ project configuration (%s)", cfg.ProjectName)
				client, err := newRegistryClient(cmd.Context(), cfg)
				if err != nil {
					failed++
					o.Red("✗ AWS credentials: %v", err)
				} else if exists, err := client.RepositoryExists(cmd.Context()); err != nil {
					failed++
					o.Red("✗ ECR: %v", err)
				} else if !exists {
					failed++
					o.Red("✗ ECR repository %s missing: run `hokusai setup`", client.RepositoryURI())
				} else {
					o.Green("✓ ECR repository (%s)", client.RepositoryURI())
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
	return cmd
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
