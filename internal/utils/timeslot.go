package utils

import (
	"fmt"
	"strings"
	"time"
)

const layoutDate = "2006-01-02"

// Time-slot start segments come in two forms: 12-hour "9:00 AM" (possibly
// as a "9:00 AM - 11:00 AM" range) and 24-hour "14:00".
var slotLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
}

// ParseSlotStart combines a booking date with the start of its time slot
// in the reference location. Only the segment before " - " matters; the
// slot end is informational.
func ParseSlotStart(date, slot string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	start := strings.TrimSpace(slot)
	if i := strings.Index(start, " - "); i >= 0 {
		start = strings.TrimSpace(start[:i])
	}
	if start == "" {
		return time.Time{}, fmt.Errorf("empty time slot")
	}

	for _, layout := range slotLayouts {
		t, err := time.ParseInLocation(layout, strings.ToUpper(start), loc)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time slot %q", slot)
}
