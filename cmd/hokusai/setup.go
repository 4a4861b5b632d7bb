// setup.go implements 'hokusai setup': scaffold the project configuration,
// stack definitions and Dockerfile, and create the ECR repository.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/hokusai/internal/config"
	"github.com/example/hokusai/internal/template"
	"github.com/spf13/cobra"
)

func newSetupCommand(verbose *bool) *cobra.Command {
	var (
		accountID   string
		projectType string
		projectName string
		region      string
		port        int
		withService = map[string]*bool{}
	)

	cmd := &cobra.Command{
		Use:           "setup",
		Short:         "Scaffold a new project",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := outputFor(cmd, *verbose)

			if accountID == "" {
				return fmt.Errorf("missing required option --aws-account-id (or set AWS_ACCOUNT_ID)")
			}
			if projectName == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				projectName = filepath.Base(cwd)
			}

			var services []string
			for _, svc := range config.OptionalServices {
				if *withService[svc] {
					services = append(services, svc)
				}
			}

			files, err := template.Render(template.Params{
				ProjectName:  projectName,
				AwsAccountID: accountID,
				AwsEcrRegion: region,
				ProjectType:  projectType,
				Port:         port,
				Services:     services,
			})
			if err != nil {
				return err
			}
			if err := files.Write(projectRoot); err != nil {
				return err
			}
			o.Green("Project %s configured", projectName)
			for _, path := range []string{
				"Dockerfile",
				config.Path(projectRoot),
				config.StackPath(projectRoot, "development"),
				config.StackPath(projectRoot, "test"),
				config.StackPath(projectRoot, "production"),
			} {
				o.Plain("  created %s", path)
			}

			cfg, err := loadProjectConfig()
			if err != nil {
				return err
			}
			client, err := newRegistryClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := client.EnsureRepository(cmd.Context()); err != nil {
				return fmt.Errorf("create ECR repository: %w", err)
			}
			o.Green("ECR repository %s ready", client.RepositoryURI())
			return nil
		},
	}

	cmd.Flags().StringVar(&accountID, "aws-account-id", os.Getenv("AWS_ACCOUNT_ID"), "AWS account id (fallback: AWS_ACCOUNT_ID)")
	cmd.Flags().StringVar(&projectType, "project-type", "", "Project template: ruby-rack, ruby-rails, nodejs, elixir or python-wsgi")
	cmd.Flags().StringVar(&projectName, "project-name", "", "Project name (default: current directory name)")
	cmd.Flags().StringVar(&region, "aws-ecr-region", defaultRegion(), "AWS ECR region (fallback: AWS_DEFAULT_REGION)")
	cmd.Flags().IntVar(&port, "port", 8080, "Port the application container listens on")
	for _, svc := range config.OptionalServices {
		withService[svc] = cmd.Flags().Bool("with-"+svc, false, "Add a "+svc+" service to the development and test stacks")
	}
	if err := cmd.MarkFlagRequired("project-type"); err != nil {
		cobra.CheckErr(err)
	}
	return cmd
}

func defaultRegion() string {
	if region := os.Getenv("AWS_DEFAULT_REGION"); region != "" {
		return region
	}
	return "us-east-1"
}
