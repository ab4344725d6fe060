package service

import (
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial dates count days from this epoch.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Cell date layouts, day-first variants before anything ambiguous.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseSheetDate parses a date cell defensively: day-first date strings and
// numeric spreadsheet serials are accepted, anything else reports false.
func ParseSheetDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t := serialEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// AgeYears returns full elapsed years, never negative.
func AgeYears(born, today time.Time) int {
	years := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// DateWithClampedDay builds a date, pulling the day back to the last day of
// the month when needed (so Feb 29 anniversaries land on Feb 28 in non-leap
// years, and Jan 31 minus one month lands on Dec 31).
func DateWithClampedDay(year int, month time.Month, day int) time.Time {
	last := daysInMonth(year, month)
	if day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ShiftMonths moves a date by whole calendar months, clamping the day of
// month instead of letting it spill into the next month.
func ShiftMonths(t time.Time, months int) time.Time {
	total := int(t.Month()) - 1 + months
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(mod(total, 12) + 1)
	return DateWithClampedDay(year, month, t.Day())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// monthKey renders a date as "YYYY-MM" for month grouping.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}
