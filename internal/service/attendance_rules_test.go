package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
)

func participantsFixture() tabular.Table {
	t := tabular.New(
		models.ColSerialNumber, models.ColFirstName, models.ColLastName,
		models.ColAttendanceDays, models.ColAttendance,
	)
	t.AppendRow([]string{"1", "Dana", "Levi", "Monday, Wednesday", models.CheckMark})
	t.AppendRow([]string{"2", "Avi", "Cohen", "Tuesday", models.CheckMark})
	t.AppendRow([]string{"3", "Ben", "Mizrahi", "Monday", "X"})
	return t
}

func TestBuildParticipantDailyAttendance(t *testing.T) {
	r := testRules()
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	day := r.BuildParticipantDailyAttendance(participantsFixture(), "Monday", monday)

	require.Equal(t, 3, day.Len())
	assert.Equal(t, "2026-08-24", day.Get(0, models.ColDate))
	assert.Equal(t, "Dana Levi", day.Get(0, models.ColParticipantName))
	assert.Equal(t, models.AttendedYes, day.Get(0, models.ColExpected))
	assert.Equal(t, models.AttendedNo, day.Get(1, models.ColExpected))
	// inactive participants are never expected, even on their day
	assert.Equal(t, models.AttendedNo, day.Get(2, models.ColExpected))
	assert.Equal(t, "", day.Get(0, models.ColAttended))
}

func TestBuildStaffDailyAttendance(t *testing.T) {
	staff := tabular.New(models.ColSerialNumber, models.ColFirstName, models.ColLastName, models.ColScholarship, models.ColCurrentDay)
	staff.AppendRow([]string{"1", "Noa", "Peretz", "Perach", "Monday"})
	staff.AppendRow([]string{"2", "Gil", "Bar", "Volunteer", "Tuesday"})

	day := BuildStaffDailyAttendance(staff, "Monday", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))

	require.Equal(t, 2, day.Len())
	assert.Equal(t, models.AttendedYes, day.Get(0, models.ColExpected))
	assert.Equal(t, models.AttendedNo, day.Get(1, models.ColExpected))
	assert.True(t, day.HasColumn(models.ColHours))
	assert.True(t, day.HasColumn(models.ColTransportationDone))
}

func TestUpsertAttendanceByDate(t *testing.T) {
	log := tabular.New(models.ColDate, models.ColSerialNumber, models.ColAttended)
	log.AppendRow([]string{"2026-08-17", "1", "Yes"})
	log.AppendRow([]string{"2026-08-24", "1", "No"})

	day := tabular.New(models.ColDate, models.ColSerialNumber, models.ColAttended)
	day.AppendRow([]string{"2026-08-24", "1", "Yes"})
	day.AppendRow([]string{"2026-08-24", "2", "Yes"})

	merged := UpsertAttendanceByDate(log, "2026-08-24", day)

	require.Equal(t, 3, merged.Len())
	assert.Equal(t, "2026-08-17", merged.Get(0, models.ColDate))
	assert.Equal(t, "Yes", merged.Get(1, models.ColAttended))
	assert.Equal(t, "2", merged.Get(2, models.ColSerialNumber))

	// empty log just takes the day wholesale
	fresh := UpsertAttendanceByDate(tabular.Table{}, "2026-08-24", day)
	assert.Equal(t, day.Grid(), fresh.Grid())
}

func TestAutoMarkAttendance(t *testing.T) {
	day := tabular.New(models.ColParticipantName, models.ColExpected, models.ColAttended)
	day.AppendRow([]string{"Dana Levi", models.AttendedYes, ""})
	day.AppendRow([]string{"Avi Cohen", models.AttendedYes, ""})
	day.AppendRow([]string{"Ben Mizrahi", models.AttendedNo, ""})

	AutoMarkAttendance(&day, []string{models.ColParticipantName}, []string{"Avi Cohen"})

	assert.Equal(t, models.AttendedYes, day.Get(0, models.ColAttended))
	assert.Equal(t, models.AttendedNo, day.Get(1, models.ColAttended))
	// not expected, left untouched
	assert.Equal(t, "", day.Get(2, models.ColAttended))
}

func TestSummarizeMonthlyAttendance(t *testing.T) {
	log := tabular.New(models.ColDate, models.ColSerialNumber, models.ColParticipantName, models.ColAttended)
	log.AppendRow([]string{"2026-01-05", "1", "Dana Levi", "Yes"})
	log.AppendRow([]string{"2026-01-12", "1", "Dana Levi", models.CheckMark})
	log.AppendRow([]string{"2026-02-02", "1", "Dana Levi", "Yes"})
	log.AppendRow([]string{"2026-01-05", "2", "Avi Cohen", "No"})
	log.AppendRow([]string{"garbage", "1", "Dana Levi", "Yes"})

	summary := SummarizeMonthlyAttendance(log, models.ColSerialNumber, models.ColParticipantName, models.ColAttended)

	require.Equal(t, 2, summary.Len())
	assert.Equal(t, []string{"1", "Dana Levi", "2026-01", "2"}, summary.Rows[0])
	assert.Equal(t, []string{"1", "Dana Levi", "2026-02", "1"}, summary.Rows[1])
}

func TestSummarizeYearlyAttendance(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	log := tabular.New(models.ColDate, models.ColSerialNumber, models.ColAttended)
	log.AppendRow([]string{"2026-01-05", "1", "Yes"})
	log.AppendRow([]string{"2026-01-12", "1", "Yes"})
	log.AppendRow([]string{"2026-03-02", "1", "Yes"})
	log.AppendRow([]string{"2025-12-01", "1", "Yes"})

	summary := SummarizeYearlyAttendance(log, participantsFixture(), 2026, today)

	// current year only runs through the current month
	assert.Equal(t, []string{
		models.ColSerialNumber, models.ColParticipantName, "2026-01", "2026-02", "2026-03",
	}, summary.Columns)
	// the inactive participant is dropped
	require.Equal(t, 2, summary.Len())
	assert.Equal(t, "Dana Levi", summary.Get(0, models.ColParticipantName))
	assert.Equal(t, "2", summary.Get(0, "2026-01"))
	assert.Equal(t, "0", summary.Get(0, "2026-02"))
	assert.Equal(t, "1", summary.Get(0, "2026-03"))
	assert.Equal(t, "0", summary.Get(1, "2026-01"))
}

func TestSummarizeStaffHours(t *testing.T) {
	log := tabular.New(models.ColSerialNumber, models.ColHours)
	log.AppendRow([]string{"2", "3"})
	log.AppendRow([]string{"1", "2.5"})
	log.AppendRow([]string{"1", "2.5"})

	summary := SummarizeStaffHours(log, models.ColSerialNumber, models.ColHours)

	require.Equal(t, 2, summary.Len())
	assert.Equal(t, []string{"1", "5.0"}, summary.Rows[0])
	assert.Equal(t, []string{"2", "3.0"}, summary.Rows[1])
}
