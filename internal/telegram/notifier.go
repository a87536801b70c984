package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jpalmerr/homeworkbot/internal/errs"
)

const defaultTimeout = 20 * time.Second

// ErrDelivery marks a message the Bot API did not accept.
var ErrDelivery = errors.New("delivery failure")

type notifierConfig struct {
	endpoint   string
	httpClient tgbotapi.HTTPClient
	logger     *slog.Logger
}

// Option configures a [Notifier].
type Option func(*notifierConfig)

// WithAPIEndpoint overrides the Bot API endpoint format
// (default "https://api.telegram.org/bot%s/%s"; token, then method).
func WithAPIEndpoint(endpoint string) Option {
	return func(c *notifierConfig) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient replaces the HTTP client used for Bot API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *notifierConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *notifierConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Notifier sends plain-text messages to a single chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// New authorizes the bot token with a getMe call and returns a [Notifier]
// bound to chatID. An error here is a startup failure, not a delivery one.
func New(token string, chatID int64, opts ...Option) (*Notifier, error) {
	cfg := &notifierConfig{
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, cfg.endpoint, cfg.httpClient)
	if err != nil {
		return nil, errors.Wrap(redactToken(err, token), "failed to authorize telegram bot")
	}
	cfg.logger.Debug("telegram bot authorized", "username", bot.Self.UserName)

	return &Notifier{
		bot:    bot,
		chatID: chatID,
		logger: cfg.logger,
	}, nil
}

// Send delivers text to the configured chat.
//
// The Bot API client is not context-aware, so ctx is only checked before
// the call; the HTTP client timeout bounds the call itself.
func (n *Notifier) Send(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Mark(errors.Newf("send message panicked: %v", r), ErrDelivery)
		}
	}()

	if err := ctx.Err(); err != nil {
		return errs.Mark(errors.Wrap(err, "send message"), ErrDelivery)
	}

	n.logger.Debug("sending telegram message", "chat_id", n.chatID)
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		return errs.Mark(errors.Wrap(redactToken(err, n.bot.Token), "send message"), ErrDelivery)
	}
	return nil
}

// redactToken keeps the bot token out of error text. Bot API URLs embed the
// token, and transport failures quote the URL.
func redactToken(err error, token string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if token != "" && strings.Contains(err.Error(), token) {
		return errors.New(strings.ReplaceAll(err.Error(), token, "<redacted>"))
	}
	return err
}
