package feed

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/jpalmerr/homeworkbot/internal/errs"
)

// Failure kinds. They are attached with errs.Mark, so errors.Is matches the
// kind while Error() still returns the underlying message.
var (
	// ErrTransport marks a request that could not complete (timeout, DNS,
	// connection reset, unreadable body).
	ErrTransport = errors.New("transport failure")

	// ErrProtocol marks a completed request with a non-2xx status code.
	// The cause is a [*ProtocolError].
	ErrProtocol = errors.New("protocol failure")

	// ErrDecode marks a response body that is not valid JSON.
	ErrDecode = errors.New("decode failure")

	// ErrSchema marks a decoded payload that does not match the feed schema.
	ErrSchema = errors.New("schema error")
)

// ProtocolError describes a non-2xx response from the status API.
type ProtocolError struct {
	// StatusCode is the HTTP status code (e.g. 503).
	StatusCode int

	// Reason is the reason phrase (e.g. "Service Unavailable").
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response: code %d, reason: %s", e.StatusCode, e.Reason)
}

// SchemaErrorf builds an error marked with [ErrSchema].
func SchemaErrorf(format string, args ...any) error {
	return errs.Mark(errors.Newf(format, args...), ErrSchema)
}
