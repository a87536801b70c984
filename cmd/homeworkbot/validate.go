package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/homeworkbot/config"
	"github.com/jpalmerr/homeworkbot/internal/feed"
)

// validateCmd validates a config file and the credential environment
// without contacting any service.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config and credentials",
	Long: `Validate the homeworkbot configuration without starting the bot.

This command parses the YAML (if given), expands environment variables,
validates all fields, and checks that every credential variable is set.
It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config and credentials are valid
  1 - Something is invalid or missing (error details printed to stderr)

Example:
  homeworkbot validate
  homeworkbot validate -c /etc/homeworkbot/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := config.LoadCredentials(); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = feed.DefaultEndpoint
	}
	statusAddr := cfg.StatusAddr
	if statusAddr == "" {
		statusAddr = "disabled"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Poll interval:   %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Request timeout: %s\n", cfg.RequestTimeout.Duration())
	fmt.Fprintf(out, "  Endpoint:        %s\n", endpoint)
	fmt.Fprintf(out, "  Status server:   %s\n", statusAddr)
	fmt.Fprintf(out, "  Log level:       %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  Credentials:     present\n")

	return nil
}
