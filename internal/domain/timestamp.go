package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Timestamp is a request-side instant. It accepts RFC 3339 (time of day and offset kept)
// or a bare YYYY-MM-DD, read as midnight UTC.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{t}, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q, want RFC 3339 or YYYY-MM-DD", s)
	}
	return Timestamp{t}, nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	p, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// Ptr returns the instant in UTC, or nil for a nil Timestamp.
func (t *Timestamp) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
