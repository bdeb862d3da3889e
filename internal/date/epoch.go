package date

import (
	"fmt"
	"strings"
	"time"
)

// Boundary selects which end of a calendar day a date is converted to.
type Boundary int

const (
	StartOfDay Boundary = iota // 00:00:00 UTC
	EndOfDay                   // 23:59:59 UTC
)

const endOfDayOffset = 24*time.Hour - time.Second

// ToEpoch converts a calendar date (YYYY-MM-DD) to Unix seconds at the given boundary of that day in UTC.
// An empty string means "no bound" and yields nil without an error.
func ToEpoch(dateStr string, boundary Boundary) (*int64, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, nil
	}

	day, err := time.ParseInLocation(time.DateOnly, dateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", dateStr, err)
	}

	if boundary == EndOfDay {
		day = day.Add(endOfDayOffset)
	}

	epoch := day.Unix()

	return &epoch, nil
}
