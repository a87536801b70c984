package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/homeworkbot"
	"github.com/jpalmerr/homeworkbot/internal/feed"
)

// consoleNotifier prints messages instead of sending them to Telegram.
type consoleNotifier struct{}

func (consoleNotifier) Send(_ context.Context, text string) error {
	fmt.Printf("  ✉  %s\n", text)
	return nil
}

func main() {
	// start mock status feed (see mock_feed.go)
	go StartMockFeed(":9999")
	time.Sleep(100 * time.Millisecond)

	client := feed.NewClient("demo-token",
		feed.WithEndpoint("http://localhost:9999/api/user_api/homework_statuses/"),
		feed.WithTimeout(5*time.Second),
	)
	defer client.Close()

	bot, err := homeworkbot.New(client, consoleNotifier{},
		homeworkbot.WithPollingInterval(5*time.Second),
		homeworkbot.WithWatermark(0),
		homeworkbot.WithStatusAddr(":8080"),
	)
	if err != nil {
		slog.Error("failed to create homeworkbot", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  homeworkbot demo")
	fmt.Println()
	fmt.Println("  Mock feed:     http://localhost:9999 (status changes every 15-30s)")
	fmt.Println("  Cycle reports: http://localhost:8080/api/status")
	fmt.Println("  Messages are printed below instead of sent to Telegram.")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		slog.Error("homeworkbot error", "error", err)
		os.Exit(1)
	}
}
