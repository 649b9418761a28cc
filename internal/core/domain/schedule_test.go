package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSlotKey_HourGranularity(t *testing.T) {
	a := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	b := time.Date(2026, 3, 10, 14, 59, 59, 0, time.Local)
	c := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	if SlotKey(a) != SlotKey(b) {
		t.Fatalf("same hour should share a slot key: %q vs %q", SlotKey(a), SlotKey(b))
	}
	if SlotKey(a) == SlotKey(c) {
		t.Fatalf("different hours should not share a slot key: %q", SlotKey(a))
	}
	if !SameSlot(a, b) {
		t.Fatalf("SameSlot(a, b) = false, want true")
	}
	if SameSlot(a, c) {
		t.Fatalf("SameSlot(a, c) = true, want false")
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

	cases := []struct {
		name string
		when time.Time
		want bool
	}{
		{"yesterday", time.Date(2026, 3, 9, 23, 0, 0, 0, time.Local), true},
		{"earlier today", time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local), false},
		{"later today", time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local), false},
		{"tomorrow", time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local), false},
		{"last month", time.Date(2026, 2, 28, 12, 0, 0, 0, time.Local), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPastDate(tc.when, now); got != tc.want {
				t.Fatalf("IsPastDate(%v) = %v, want %v", tc.when, got, tc.want)
			}
		})
	}
}

func TestParseSchedule_AcceptedLayouts(t *testing.T) {
	want := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)

	for _, value := range []string{
		"2026-03-10T14:30",
		"2026-03-10 14:30",
		"2026-03-10T14:30:00",
		"2026-03-10 14:30:00",
	} {
		got, err := ParseSchedule(value)
		if err != nil {
			t.Fatalf("ParseSchedule(%q): %v", value, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseSchedule(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestParseSchedule_Rejected(t *testing.T) {
	for _, value := range []string{"", "not-a-date", "10/03/2026", "2026-03-10"} {
		if _, err := ParseSchedule(value); !errors.Is(err, ErrInvalidSchedule) {
			t.Fatalf("ParseSchedule(%q) err = %v, want ErrInvalidSchedule", value, err)
		}
	}
}
