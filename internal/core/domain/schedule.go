package domain

import (
	"errors"
	"time"
)

// slotKeyLayout buckets a timestamp to hour granularity. Two appointments
// whose timestamps format to the same key occupy the same slot.
const slotKeyLayout = "2006-01-02T15"

// scheduleLayouts are the textual date-time formats accepted from forms.
var scheduleLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var ErrInvalidSchedule = errors.New("invalid date format")

// SlotKey returns the hour-granularity bucket for t.
func SlotKey(t time.Time) string {
	return t.Format(slotKeyLayout)
}

// SameSlot reports whether a and b fall in the same year/month/day/hour.
func SameSlot(a, b time.Time) bool {
	return SlotKey(a) == SlotKey(b)
}

// IsPastDate reports whether t's calendar date is strictly before now's.
// Only the date component is compared: a time later today is not past.
func IsPastDate(t, now time.Time) bool {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	candidate := time.Date(ty, tm, td, 0, 0, 0, 0, time.Local)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.Local)
	return candidate.Before(today)
}

// ParseSchedule parses a form-submitted date-time string, trying each
// accepted layout in order.
func ParseSchedule(value string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidSchedule
}
