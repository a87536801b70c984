// Package main is the entry point for the homeworkbot CLI.
//
// Usage:
//
//	homeworkbot run [-c config.yaml]       # Poll and notify until interrupted
//	homeworkbot check [--from 0]           # One fetch, print the verdict
//	homeworkbot validate [-c config.yaml]  # Validate config and credentials
//	homeworkbot version                    # Show version info
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "homeworkbot",
	Short: "Telegram notifications for homework review status",
	Long: `homeworkbot polls the homework status API and sends a Telegram message
whenever the review status of a submission changes.

Credentials are read from the environment (or a .env file):
  PRACTICUM_TOKEN   status API OAuth token
  TELEGRAM_TOKEN    bot token
  TELEGRAM_CHAT_ID  destination chat id

Quick start:
  1. Put the three variables in .env
  2. Run: homeworkbot run`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnvFile,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// loadEnvFile loads variables from --env-file without overriding ones that
// are already set. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("env-file")
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this homeworkbot binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "homeworkbot %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "file with credential variables; ignored if absent")
	rootCmd.AddCommand(versionCmd)
}
