package homeworkbot

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/jpalmerr/homeworkbot/internal/errs"
	"github.com/jpalmerr/homeworkbot/internal/feed"
)

// Status is the review state of a homework submission.
//
// Only [StatusApproved], [StatusReviewing] and [StatusRejected] are
// recognised; any other code is reported as [ErrUnknownStatus].
type Status string

const (
	// StatusApproved means the reviewer accepted the work.
	StatusApproved Status = "approved"

	// StatusReviewing means a reviewer picked the work up.
	StatusReviewing Status = "reviewing"

	// StatusRejected means the reviewer returned the work with remarks.
	StatusRejected Status = "rejected"
)

// String returns the status code.
func (s Status) String() string {
	return string(s)
}

// NoChanges is the verdict of a cycle whose feed holds no homework updates.
const NoChanges = "no changes"

// ErrUnknownStatus marks a homework whose status code is not one of the
// recognised [Status] values.
var ErrUnknownStatus = errors.New("unknown homework status")

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable verdict for a status code.
// The second result is false for any code outside the catalog; callers must
// treat that as malformed data, never as "no update".
func Verdict(code string) (string, bool) {
	v, ok := verdicts[Status(code)]
	return v, ok
}

// Homework is a single validated entry of the status feed.
type Homework struct {
	Name   string
	Status Status
}

// Message renders the notification text for a status change.
func (h Homework) Message() string {
	verdict, _ := Verdict(string(h.Status))
	return fmt.Sprintf(`Изменился статус проверки работы "%s". %s`, h.Name, verdict)
}

// ParseHomework validates a raw feed item.
//
// Missing or non-string homework_name/status fields yield an error marked
// with feed.ErrSchema; an unrecognised status yields [ErrUnknownStatus].
func ParseHomework(item any) (Homework, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Homework{}, feed.SchemaErrorf("homework is %s, want object", feed.KindOf(item))
	}

	name, err := stringField(obj, "homework_name")
	if err != nil {
		return Homework{}, err
	}
	code, err := stringField(obj, "status")
	if err != nil {
		return Homework{}, err
	}

	if _, ok := Verdict(code); !ok {
		return Homework{}, errs.Mark(errors.Newf("unknown homework status %q", code), ErrUnknownStatus)
	}

	return Homework{Name: name, Status: Status(code)}, nil
}

func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", feed.SchemaErrorf("homework has no %s key", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", feed.SchemaErrorf("homework %s is %s, want string", key, feed.KindOf(v))
	}
	return s, nil
}
