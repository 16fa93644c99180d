package resources

import (
	"fmt"
	"strings"
	"time"
)

const DefaultTimestampLayout = "2006-01-02 15:04:05"

// TimestampPolicy is the one textual timestamp format of the API. Outgoing
// values are rendered with it; incoming values must match it exactly.
type TimestampPolicy struct {
	Layout   string
	Location *time.Location
}

func DefaultTimestampPolicy() TimestampPolicy {
	return TimestampPolicy{Layout: DefaultTimestampLayout, Location: time.UTC}
}

func (p TimestampPolicy) layout() string {
	if p.Layout == "" {
		return DefaultTimestampLayout
	}
	return p.Layout
}

func (p TimestampPolicy) loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p TimestampPolicy) Format(t time.Time) string {
	return t.In(p.loc()).Format(p.layout())
}

// FormatPtr renders nil and zero times as nil.
func (p TimestampPolicy) FormatPtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := p.Format(*t)
	return &s
}

// Parse rejects anything not in the policy layout; there is no fallback.
func (p TimestampPolicy) Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	t, err := time.ParseInLocation(p.layout(), raw, p.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q does not match %q", raw, p.layout())
	}
	return t.UTC(), nil
}
