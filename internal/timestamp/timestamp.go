// Package timestamp normalizes the completion timestamp representations found
// in stored workout logs.
//
// Older rows carry a backend timestamp document such as
// {"seconds":1759932000,"nanoseconds":0} (or the _seconds/_nanoseconds
// variant), newer rows an RFC 3339 string.
package timestamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned when a raw value is neither an ISO string nor a
// timestamp document with seconds.
var ErrMalformed = errors.New("malformed timestamp")

var stringLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type document struct {
	Seconds      *int64 `json:"seconds"`
	Nanoseconds  int64  `json:"nanoseconds"`
	USeconds     *int64 `json:"_seconds"`
	UNanoseconds int64  `json:"_nanoseconds"`
}

// Parse converts a raw stored value into an instant. Strings without a zone
// are interpreted in loc.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrMalformed)
	}

	if strings.HasPrefix(value, "{") {
		return parseDocument(value)
	}

	// JSON-encoded strings ("\"2025-10-08T14:00:00Z\"") show up in exports.
	if strings.HasPrefix(value, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(value), &unquoted); err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		value = strings.TrimSpace(unquoted)
	}

	for _, layout := range stringLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
}

func parseDocument(value string) (time.Time, error) {
	var doc document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case doc.Seconds != nil:
		return time.Unix(*doc.Seconds, doc.Nanoseconds).UTC(), nil
	case doc.USeconds != nil:
		return time.Unix(*doc.USeconds, doc.UNanoseconds).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: document without seconds", ErrMalformed)
	}
}

// FromJSON accepts the raw JSON of an API field, either a string or a
// timestamp document, and returns the value to store.
func FromJSON(raw json.RawMessage, loc *time.Location) (string, time.Time, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return "", time.Time{}, fmt.Errorf("%w: empty value", ErrMalformed)
	}

	t, err := Parse(value, loc)
	if err != nil {
		return "", time.Time{}, err
	}

	if strings.HasPrefix(value, "{") {
		return value, t, nil
	}
	return Format(t), t, nil
}

// Format renders t in the canonical stored form.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
