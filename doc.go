// Package homeworkbot watches the review status of a homework submission and
// sends a Telegram message whenever it changes.
//
// A [Bot] runs a fixed-interval loop. Each cycle fetches every status update
// newer than the watermark, validates the untrusted response, turns the most
// recent update into a message and delivers it. The watermark moves forward
// only after a cycle fully succeeds, so a failed cycle is retried from the
// same point on the next tick.
//
// # Quick Start
//
// The status API client and the Telegram notifier live in internal packages
// and are wired by the homeworkbot command (cmd/homeworkbot). Other programs
// supply their own [Fetcher] and [Notifier]:
//
//	bot, _ := homeworkbot.New(myFetcher, myNotifier)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bot.Start(ctx) // blocks until context is cancelled
//
// A [Fetcher] returns the decoded JSON feed (objects as map[string]any,
// numbers as json.Number or float64). A [Notifier] delivers one message per
// call and reports failure through its error.
//
// # Configuration
//
// homeworkbot uses the functional options pattern for configuration:
//
//	bot, err := homeworkbot.New(client, notifier,
//	    homeworkbot.WithPollingInterval(10 * time.Minute),
//	    homeworkbot.WithWatermark(0),
//	    homeworkbot.WithStatusAddr(":8080"),
//	    homeworkbot.WithLogger(logger),
//	)
//
// # Failures
//
// Transport, protocol, decode, schema and unknown-status failures never stop
// the loop. Each one is logged and reported to the chat with the prefix
// "Сбой в работе программы: ", but an identical failure text is reported only
// once until a cycle succeeds. A status change that cannot be delivered is
// not a cycle failure: the watermark holds and delivery is retried next cycle.
//
// # Architecture
//
// homeworkbot consists of several internal packages (under internal/):
//
//   - internal/feed: status API client and response validation
//   - internal/telegram: Bot API notifier
//   - internal/store: bounded in-memory history of cycle reports
//   - internal/server: optional JSON status API over the history
//
// The internal packages are not part of the public API and may change
// without notice.
package homeworkbot
