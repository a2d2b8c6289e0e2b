package model

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the accepted renderings of the timestamp column,
// most common first. Exports from spreadsheet tools are not consistent
// about seconds or the T separator.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"1/2/2006 15:04",
}

// ParseTimestamp parses a timestamp cell, trying each accepted layout.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
