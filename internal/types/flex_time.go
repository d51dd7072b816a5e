package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted alongside RFC3339.
const DateLayout = "2006-01-02"

// FlexTime is a time.Time that unmarshals from RFC3339 timestamps or plain YYYY-MM-DD dates.
type FlexTime struct {
	time.Time
}

// ParseFlexTime parses an RFC3339 timestamp or a YYYY-MM-DD date (UTC midnight).
func ParseFlexTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("FlexTime: invalid time %q, expected RFC3339 or %s", s, DateLayout)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("FlexTime: expected string: %w", err)
	}
	if s == "" {
		return nil
	}
	t, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time.Format(time.RFC3339))
}

// Ptr returns nil for a zero FlexTime, otherwise a pointer to its time.
func (f *FlexTime) Ptr() *time.Time {
	if f == nil || f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}
