package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSheetDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2026-08-26", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), true},
		{"26/08/2026", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), true},
		{"5/1/2026", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"26.08.2026", time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), true},
		{"45000", time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"nan", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseSheetDate(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		if ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}

func TestAgeYears(t *testing.T) {
	today := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 21, AgeYears(time.Date(2005, 8, 26, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 20, AgeYears(time.Date(2005, 8, 27, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 0, AgeYears(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), today))
}

func TestShiftMonthsClampsDay(t *testing.T) {
	jan31 := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), ShiftMonths(jan31, -1))

	mar31 := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), ShiftMonths(mar31, -1))

	nov30 := time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC), ShiftMonths(nov30, 3))
}

func TestDateWithClampedDay(t *testing.T) {
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), DateWithClampedDay(2025, time.February, 29))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), DateWithClampedDay(2024, time.February, 29))
}
