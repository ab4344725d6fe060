package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
)

// Tokens of the Attended column that count as present.
var attendedTruthy = map[string]struct{}{"yes": {}, "true": {}, "1": {}, models.CheckMark: {}}

// AttendedIsTruthy reports whether an Attended cell counts as present.
func AttendedIsTruthy(cell string) bool {
	_, ok := attendedTruthy[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// participantActive reads the participant attendance flag; anything but the
// absent mark counts as active.
func participantActive(flag string) bool {
	return strings.ToUpper(strings.TrimSpace(flag)) != models.AbsentMark
}

// fullName joins the non-empty name cells of a row with single spaces.
func fullName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// BuildParticipantDailyAttendance generates one attendance row per
// participant for the target date. Expected is set when the participant's
// configured day set includes the target weekday and the participant is
// active; Attended starts blank for the user to fill in.
func (r ParticipantRules) BuildParticipantDailyAttendance(participants tabular.Table, dayName string, date time.Time) tabular.Table {
	out := tabular.New(models.ColDate, models.ColSerialNumber, models.ColParticipantName, models.ColExpected, models.ColAttended)
	if participants.IsEmpty() {
		return out
	}
	for i := 0; i < participants.Len(); i++ {
		expected := false
		if r.DayAllowed(dayName) {
			for _, d := range r.DaysForEditor(participants.Get(i, models.ColAttendanceDays)) {
				if d == dayName {
					expected = true
					break
				}
			}
		}
		expected = expected && participantActive(participants.Get(i, models.ColAttendance))

		out.AppendRowMap(map[string]string{
			models.ColDate:            date.Format("2006-01-02"),
			models.ColSerialNumber:    strings.TrimSpace(participants.Get(i, models.ColSerialNumber)),
			models.ColParticipantName: fullName(participants.Get(i, models.ColFirstName), participants.Get(i, models.ColLastName)),
			models.ColExpected:        expectedMark(expected),
			models.ColAttended:        "",
		})
	}
	return out
}

// BuildStaffDailyAttendance generates one attendance row per staff member
// for the target date. A staff member is expected only when their single
// Current Day equals the target weekday exactly.
func BuildStaffDailyAttendance(staff tabular.Table, dayName string, date time.Time) tabular.Table {
	out := tabular.New(
		models.ColDate, models.ColSerialNumber, models.ColFirstName, models.ColLastName,
		models.ColScholarship, models.ColExpected, models.ColAttended,
		models.ColTransportationDone, models.ColTransportationType, models.ColHours,
	)
	if staff.IsEmpty() {
		return out
	}
	for i := 0; i < staff.Len(); i++ {
		expected := strings.TrimSpace(staff.Get(i, models.ColCurrentDay)) == dayName
		out.AppendRowMap(map[string]string{
			models.ColDate:         date.Format("2006-01-02"),
			models.ColSerialNumber: strings.TrimSpace(staff.Get(i, models.ColSerialNumber)),
			models.ColFirstName:    strings.TrimSpace(staff.Get(i, models.ColFirstName)),
			models.ColLastName:     strings.TrimSpace(staff.Get(i, models.ColLastName)),
			models.ColScholarship:  strings.TrimSpace(staff.Get(i, models.ColScholarship)),
			models.ColExpected:     expectedMark(expected),
			models.ColAttended:     "",
		})
	}
	return out
}

func expectedMark(expected bool) string {
	if expected {
		return models.AttendedYes
	}
	return models.AttendedNo
}

// UpsertAttendanceByDate replaces all log rows of the target date with the
// new day's rows, leaving every other date untouched. The attendance log is
// a growing record; a resubmitted day overwrites itself instead of piling up
// duplicates.
func UpsertAttendanceByDate(log tabular.Table, date string, dayRows tabular.Table) tabular.Table {
	if log.IsEmpty() {
		return dayRows.Clone()
	}

	out := tabular.Table{Columns: append([]string(nil), log.Columns...)}
	for i := 0; i < log.Len(); i++ {
		if strings.TrimSpace(log.Get(i, models.ColDate)) == date {
			continue
		}
		out.AppendRowMap(log.RowMap(i))
	}
	for i := 0; i < dayRows.Len(); i++ {
		out.AppendRowMap(dayRows.RowMap(i))
	}
	return out
}

// AutoMarkAttendance fills the Attended column of a generated day sheet from
// a user-selected absentee list: expected subjects get No when selected and
// Yes otherwise; subjects who were not expected are left untouched.
func AutoMarkAttendance(day *tabular.Table, nameCols []string, absentees []string) {
	absent := make(map[string]struct{}, len(absentees))
	for _, name := range absentees {
		absent[strings.TrimSpace(name)] = struct{}{}
	}
	for i := 0; i < day.Len(); i++ {
		if day.Get(i, models.ColExpected) != models.AttendedYes {
			continue
		}
		parts := make([]string, 0, len(nameCols))
		for _, c := range nameCols {
			parts = append(parts, day.Get(i, c))
		}
		if _, ok := absent[fullName(parts...)]; ok {
			day.Set(i, models.ColAttended, models.AttendedNo)
		} else {
			day.Set(i, models.ColAttended, models.AttendedYes)
		}
	}
}

// SummarizeMonthlyAttendance counts attended rows per subject per calendar
// month. Rows with unparseable dates or non-truthy Attended cells are
// dropped silently.
func SummarizeMonthlyAttendance(log tabular.Table, serialCol, nameCol, attendedCol string) tabular.Table {
	if log.IsEmpty() || !log.HasColumn(models.ColDate) {
		return tabular.Table{}
	}

	type group struct {
		serial string
		name   string
		month  string
	}
	counts := map[group]int{}
	for i := 0; i < log.Len(); i++ {
		if !AttendedIsTruthy(log.Get(i, attendedCol)) {
			continue
		}
		date, ok := ParseSheetDate(log.Get(i, models.ColDate))
		if !ok {
			continue
		}
		g := group{
			serial: strings.TrimSpace(log.Get(i, serialCol)),
			name:   strings.TrimSpace(log.Get(i, nameCol)),
			month:  monthKey(date),
		}
		counts[g]++
	}

	groups := make([]group, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].serial != groups[j].serial {
			return groups[i].serial < groups[j].serial
		}
		return groups[i].month < groups[j].month
	})

	out := tabular.New(serialCol, nameCol, "Month", models.ColAttendances)
	for _, g := range groups {
		out.AppendRow([]string{g.serial, g.name, g.month, strconv.Itoa(counts[g])})
	}
	return out
}

// SummarizeYearlyAttendance builds one row per active participant with a
// column for each elapsed month of the target year, holding that month's
// attended count. Inactive participants are omitted entirely.
func SummarizeYearlyAttendance(log, participants tabular.Table, year int, today time.Time) tabular.Table {
	lastMonth := time.December
	if year == today.Year() {
		lastMonth = today.Month()
	}

	monthCols := make([]string, 0, int(lastMonth))
	for m := time.January; m <= lastMonth; m++ {
		monthCols = append(monthCols, monthKey(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)))
	}

	counts := map[string]map[string]int{}
	for i := 0; i < log.Len(); i++ {
		if !AttendedIsTruthy(log.Get(i, models.ColAttended)) {
			continue
		}
		date, ok := ParseSheetDate(log.Get(i, models.ColDate))
		if !ok || date.Year() != year {
			continue
		}
		serial := strings.TrimSpace(log.Get(i, models.ColSerialNumber))
		if serial == "" {
			continue
		}
		if counts[serial] == nil {
			counts[serial] = map[string]int{}
		}
		counts[serial][monthKey(date)]++
	}

	out := tabular.New(append([]string{models.ColSerialNumber, models.ColParticipantName}, monthCols...)...)
	for i := 0; i < participants.Len(); i++ {
		if !participantActive(participants.Get(i, models.ColAttendance)) {
			continue
		}
		serial := strings.TrimSpace(participants.Get(i, models.ColSerialNumber))
		cells := map[string]string{
			models.ColSerialNumber:    serial,
			models.ColParticipantName: fullName(participants.Get(i, models.ColFirstName), participants.Get(i, models.ColLastName)),
		}
		for _, m := range monthCols {
			cells[m] = strconv.Itoa(counts[serial][m])
		}
		out.AppendRowMap(cells)
	}
	return out
}

// SummarizeStaffHours sums logged hours per distinct non-blank serial.
func SummarizeStaffHours(log tabular.Table, serialCol, hoursCol string) tabular.Table {
	totals := HourlyTotals(log, serialCol, hoursCol)

	serials := make([]string, 0, len(totals))
	for s := range totals {
		serials = append(serials, s)
	}
	sort.Strings(serials)

	out := tabular.New(models.ColSerialNumber, models.ColTotalHours)
	for _, s := range serials {
		out.AppendRow([]string{s, tabular.FormatRound2(totals[s])})
	}
	return out
}
