package utils

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTimeParam parses an optional RFC3339 query parameter, falling
// back to def when the parameter is absent.
func ParseTimeParam(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q, expected RFC3339 (e.g. 2006-01-02T15:04:05Z)", value)
	}
	return t, nil
}

// ParsePositiveInt parses an optional positive-integer query
// parameter, falling back to def when the parameter is absent.
func ParsePositiveInt(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid value %q, expected a positive integer", value)
	}
	return n, nil
}
