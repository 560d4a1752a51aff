package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateOnlyLayout is the calendar-date form used by the seed data
const DateOnlyLayout = "2006-01-02"

// ParseISODate parses an ISO-8601 instant (RFC 3339, fractional seconds
// allowed) or a bare calendar date.
func ParseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateOnlyLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", value)
}
