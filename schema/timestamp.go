package schema

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing document timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is an optional point in time read from a snapshot document.
// The raw text is always kept so that values which do not parse still have
// a stable position in the ordering.
type Timestamp struct {
	Raw   string
	Time  time.Time
	Valid bool // Time holds the parsed value of Raw
}

// ParseTimestamp builds a Timestamp from raw document text.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Raw: s, Time: t, Valid: true}
		}
	}
	return Timestamp{Raw: s}
}

// TimestampOf wraps an already parsed time.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Raw: t.Format(time.RFC3339), Time: t, Valid: true}
}

// IsZero reports whether the timestamp is missing.
func (t Timestamp) IsZero() bool {
	return t.Raw == ""
}

// Compare orders timestamps totally:
// missing < present but unparseable (by raw text) < parsed (by instant, then raw text).
func (t Timestamp) Compare(o Timestamp) int {
	if rank, other := t.rank(), o.rank(); rank != other {
		if rank < other {
			return -1
		}
		return 1
	}
	if t.Valid && o.Valid {
		if c := t.Time.Compare(o.Time); c != 0 {
			return c
		}
	}
	return strings.Compare(t.Raw, o.Raw)
}

// After reports whether t sorts strictly after o.
func (t Timestamp) After(o Timestamp) bool {
	return t.Compare(o) > 0
}

func (t Timestamp) rank() int {
	switch {
	case t.IsZero():
		return 0
	case !t.Valid:
		return 1
	default:
		return 2
	}
}

// DayKey returns the UTC calendar day of the timestamp, or the leading date
// portion of the raw text when it could not be parsed.
func (t Timestamp) DayKey() string {
	if t.Valid {
		return t.Time.UTC().Format(time.DateOnly)
	}
	if len(t.Raw) >= len(time.DateOnly) {
		return t.Raw[:len(time.DateOnly)]
	}
	return t.Raw
}

// String returns the raw text.
func (t Timestamp) String() string {
	return t.Raw
}

// UnmarshalJSON accepts strings and null. Other scalars are kept as raw text.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ParseTimestamp(s)
		return nil
	}
	*t = Timestamp{Raw: string(data)}
	return nil
}

// MarshalJSON writes the raw text, or null when missing.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
