package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// addContextFlags registers the mutually exclusive environment flags on an
// environment-scoped command.
func addContextFlags(cmd *cobra.Command) (staging, production *bool) {
	staging = cmd.Flags().Bool("staging", false, "Target the staging environment")
	production = cmd.Flags().Bool("production", false, "Target the production environment")
	return staging, production
}

// selectContext resolves the target environment. Exactly one of the two
// flags must be set; anything else is a usage error raised before any
// external tool is contacted.
func selectContext(staging, production bool) (string, error) {
	switch {
	case staging && production:
		return "", errors.New("only one of --staging or --production may be given")
	case staging:
		return "staging", nil
	case production:
		return "production", nil
	default:
		return "", errors.New("one of --staging or --production is required")
	}
}
