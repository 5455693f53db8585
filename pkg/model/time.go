package model

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Time is a time.Time that tolerates the timestamp shapes the pipeline
// actually emits. Timezone-aware datetimes serialize as RFC 3339, but naive
// ones come through without an offset ("2025-01-02T08:30:00"), and a few
// fields are date-only. A strict RFC 3339 parse would reject whole records
// for a cosmetic difference, so decoding tries each layout in order.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler, writing RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// String returns the RFC 3339 rendering, or "" for the zero value.
func (t Time) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time{Time: t}
}

// ParseDate parses a bare YYYY-MM-DD date string.
func ParseDate(s string) (Time, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Time{}, err
	}
	return Time{Time: parsed}, nil
}
