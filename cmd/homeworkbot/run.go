package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/homeworkbot"
	"github.com/jpalmerr/homeworkbot/config"
	"github.com/jpalmerr/homeworkbot/internal/feed"
	"github.com/jpalmerr/homeworkbot/internal/telegram"
)

const (
	shutdownTimeout = 10 * time.Second
)

// runCmd starts the poll loop.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll for status changes and notify",
	Long: `Poll the homework status API and send a Telegram message on every
status change.

The bot will:
  - Check that all credentials are present, exiting if any is missing
  - Poll once per poll_interval, starting from the current time
  - Report failures to the chat once per distinct error

The bot runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  homeworkbot run
  homeworkbot run -c homeworkbot.yaml --from 0`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	runCmd.Flags().Int64("from", 0, "initial watermark in unix seconds (default: now)")
}

func runRun(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	creds, err := config.LoadCredentials()
	if err != nil {
		logger.Error("cannot start without credentials", "error", err.Error())
		return err
	}

	feedOpts := []feed.ClientOption{feed.WithTimeout(cfg.RequestTimeout.Duration())}
	if cfg.Endpoint != "" {
		feedOpts = append(feedOpts, feed.WithEndpoint(cfg.Endpoint))
	}
	client := feed.NewClient(creds.PracticumToken, feedOpts...)
	defer client.Close()

	notifier, err := telegram.New(creds.TelegramToken, creds.TelegramChatID, telegram.WithLogger(logger))
	if err != nil {
		logger.Error("cannot start telegram notifier", "error", err.Error())
		return err
	}

	opts := []homeworkbot.Option{
		homeworkbot.WithPollingInterval(cfg.PollInterval.Duration()),
		homeworkbot.WithLogger(logger),
		homeworkbot.WithStatusAddr(cfg.StatusAddr),
	}
	if cmd.Flags().Changed("from") {
		from, _ := cmd.Flags().GetInt64("from")
		opts = append(opts, homeworkbot.WithWatermark(from))
	}

	bot, err := homeworkbot.New(client, notifier, opts...)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- bot.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("bot error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, give the current cycle a chance to unwind
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("bot error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
