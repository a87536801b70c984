package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"

	"github.com/jpalmerr/homeworkbot/internal/errs"
)

var (
	// ErrMissingCredentials marks a startup failure caused by an absent or
	// empty credential variable.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrInvalidCredentials marks a credential variable that is set but
	// cannot be parsed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Credentials are the secrets homeworkbot needs. They are read once at
// startup and never change afterwards.
type Credentials struct {
	PracticumToken string `envconfig:"PRACTICUM_TOKEN" required:"true"`
	TelegramToken  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	TelegramChatID int64  `envconfig:"TELEGRAM_CHAT_ID" required:"true"`
}

// credentialVars lists the required variables in reporting order.
var credentialVars = []string{"PRACTICUM_TOKEN", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"}

// MissingCredentials returns the names of required variables that are unset
// or empty.
func MissingCredentials() []string {
	var missing []string
	for _, name := range credentialVars {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// LoadCredentials reads [Credentials] from the environment.
//
// Every missing variable is named in a single error marked with
// [ErrMissingCredentials]; a malformed chat id is marked with
// [ErrInvalidCredentials].
func LoadCredentials() (Credentials, error) {
	if missing := MissingCredentials(); len(missing) > 0 {
		return Credentials{}, errs.Mark(
			errors.Newf("required environment variables are not set: %s", strings.Join(missing, ", ")),
			ErrMissingCredentials,
		)
	}

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return Credentials{}, errs.Mark(
			errors.Wrap(err, "failed to process credentials"),
			ErrInvalidCredentials,
		)
	}
	return creds, nil
}

// PracticumToken returns only the status API token, for commands that never
// notify.
func PracticumToken() (string, error) {
	token := strings.TrimSpace(os.Getenv("PRACTICUM_TOKEN"))
	if token == "" {
		return "", errs.Mark(
			errors.New("required environment variables are not set: PRACTICUM_TOKEN"),
			ErrMissingCredentials,
		)
	}
	return token, nil
}
