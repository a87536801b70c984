package feed

import (
	"encoding/json"
	"fmt"
	"math"
)

// Response is a validated feed payload.
type Response struct {
	// Homeworks holds the raw homework items in feed order, most recently
	// updated first. Items are not inspected by [Validate].
	Homeworks []any

	// CurrentDate is the watermark for the next fetch.
	CurrentDate int64
}

// Validate checks that raw has the feed shape:
//
//	{"homeworks": [...], "current_date": <int>}
//
// When current_date is absent (or null) the returned CurrentDate is fallback,
// so a response without a date never moves the watermark past unseen data.
// raw is not modified. Errors are marked with [ErrSchema].
func Validate(raw any, fallback int64) (Response, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Response{}, SchemaErrorf("response is %s, want object", KindOf(raw))
	}

	homeworksRaw, ok := obj["homeworks"]
	if !ok {
		return Response{}, SchemaErrorf("response has no homeworks key")
	}
	list, ok := homeworksRaw.([]any)
	if !ok {
		return Response{}, SchemaErrorf("homeworks is %s, want array", KindOf(homeworksRaw))
	}

	currentDate := fallback
	if v, ok := obj["current_date"]; ok && v != nil {
		ts, err := toInt64(v)
		if err != nil {
			return Response{}, SchemaErrorf("current_date: %v", err)
		}
		currentDate = ts
	}

	homeworks := make([]any, len(list))
	copy(homeworks, list)

	return Response{
		Homeworks:   homeworks,
		CurrentDate: currentDate,
	}, nil
}

// toInt64 accepts the numeric forms produced by encoding/json.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s is not an integer", n)
		}
		return i, nil
	case float64:
		if n != math.Trunc(n) || n >= 1<<63 || n < -1<<63 {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("got %s, want integer", KindOf(v))
	}
}

// KindOf names the JSON kind of a decoded value ("object", "array", ...).
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
