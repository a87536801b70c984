package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/homeworkbot"
	"github.com/jpalmerr/homeworkbot/config"
	"github.com/jpalmerr/homeworkbot/internal/feed"
)

// checkCmd runs a single fetch without notifying anyone.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch once and print the current verdict",
	Long: `Fetch the homework status feed once, validate it, and print the message
the bot would send. Nothing is sent to Telegram, so only PRACTICUM_TOKEN
is required.

Exit codes:
  0 - Feed fetched and understood
  1 - Any fetch, validation, or status error (details printed to stderr)

Example:
  homeworkbot check
  homeworkbot check --from 1700000000`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	checkCmd.Flags().Int64("from", 0, "watermark in unix seconds; 0 returns the full history")
}

func runCheck(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token, err := config.PracticumToken()
	if err != nil {
		return err
	}

	feedOpts := []feed.ClientOption{feed.WithTimeout(cfg.RequestTimeout.Duration())}
	if cfg.Endpoint != "" {
		feedOpts = append(feedOpts, feed.WithEndpoint(cfg.Endpoint))
	}
	client := feed.NewClient(token, feedOpts...)
	defer client.Close()

	from, _ := cmd.Flags().GetInt64("from")

	raw, err := client.Fetch(cmd.Context(), from)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	resp, err := feed.Validate(raw, from)
	if err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Homeworks:    %d\n", len(resp.Homeworks))
	fmt.Fprintf(out, "Current date: %d\n", resp.CurrentDate)

	if len(resp.Homeworks) == 0 {
		fmt.Fprintf(out, "Verdict:      %s\n", homeworkbot.NoChanges)
		return nil
	}

	hw, err := homeworkbot.ParseHomework(resp.Homeworks[0])
	if err != nil {
		return fmt.Errorf("invalid homework: %w", err)
	}
	fmt.Fprintf(out, "Verdict:      %s\n", hw.Message())
	return nil
}
