package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
)

func testStaffRules() StaffRules {
	return NewStaffRules(config.RulesConfig{
		TransportationOptions: []string{"Ofakim", "Beer Sheva"},
		RolloverMonth:         time.September,
		RolloverDay:           1,
	})
}

func TestDeriveWeeklyHours(t *testing.T) {
	assert.Equal(t, "4", DeriveWeeklyHours("Perach"))
	assert.Equal(t, "4", DeriveWeeklyHours(" keren moshe "))
	assert.Equal(t, "2", DeriveWeeklyHours("Volunteer"))
	assert.Equal(t, "", DeriveWeeklyHours("Unknown"))
}

func TestDeriveTransportation(t *testing.T) {
	r := testStaffRules()

	assert.Equal(t, models.AbsentMark, r.DeriveTransportation("Volunteer", "Ofakim"))
	assert.Equal(t, "Ofakim", r.DeriveTransportation("Perach", "Ofakim"))
	assert.Equal(t, "", r.DeriveTransportation("Perach", "Elsewhere"))
}

func TestClearanceForEditor(t *testing.T) {
	checked, attention := ClearanceForEditor("Male", "")
	assert.False(t, checked)
	assert.True(t, attention)

	checked, attention = ClearanceForEditor("female", "")
	assert.False(t, checked)
	assert.False(t, attention)

	checked, attention = ClearanceForEditor("M", models.CheckMark)
	assert.True(t, checked)
	assert.False(t, attention)
}

func TestHourlyTotals(t *testing.T) {
	log := tabular.New(models.ColSerialNumber, models.ColHours)
	log.AppendRow([]string{"1", "2.5"})
	log.AppendRow([]string{"1", "2.5"})
	log.AppendRow([]string{"", "99"})
	log.AppendRow([]string{"2", "not a number"})

	totals := HourlyTotals(log, models.ColSerialNumber, models.ColHours)

	assert.Equal(t, 5.0, totals["1"])
	assert.Equal(t, 0.0, totals["2"])
	assert.NotContains(t, totals, "")
}

func TestApplyHourlyTotalsAndRemaining(t *testing.T) {
	staff := tabular.New(models.ColSerialNumber, models.ColAnnualHours)
	staff.AppendRow([]string{"1", "100"})
	staff.AppendRow([]string{"", "100"})

	ApplyHourlyTotals(&staff, models.ColSerialNumber, models.ColHourlyTotal, map[string]float64{"1": 5})
	ComputeRemainingHours(&staff, models.ColAnnualHours, models.ColHourlyTotal, models.ColRemainingHours)

	assert.Equal(t, "5.0", staff.Get(0, models.ColHourlyTotal))
	assert.Equal(t, "95.0", staff.Get(0, models.ColRemainingHours))
	// blank serial stays blank, so remaining falls back to the full annual quota
	assert.Equal(t, "", staff.Get(1, models.ColHourlyTotal))
	assert.Equal(t, "100.0", staff.Get(1, models.ColRemainingHours))
}

func TestApplyStaffDetailsRules(t *testing.T) {
	r := testStaffRules()
	staff := tabular.New(models.ColScholarship, models.ColTransportation, models.ColWeeklyHours)
	staff.AppendRow([]string{"Volunteer", "Ofakim", ""})
	staff.AppendRow([]string{"Perach", "Beer Sheva", "9"})

	out := r.ApplyStaffDetailsRules(staff)

	assert.Equal(t, models.AbsentMark, out.Get(0, models.ColTransportation))
	assert.Equal(t, "2", out.Get(0, models.ColWeeklyHours))
	assert.Equal(t, "Beer Sheva", out.Get(1, models.ColTransportation))
	assert.Equal(t, "4", out.Get(1, models.ColWeeklyHours))
}

func TestBuildStaffBackup(t *testing.T) {
	staff := tabular.New(
		models.ColSerialNumber, models.ColFirstName, models.ColScholarship,
		models.ColWeeklyHours, models.ColAnnualHours, models.ColRemainingHours,
		models.ColPoliceClearance, models.ColHourlyTotal,
	)
	staff.AppendRow([]string{"1", "Noa", "Perach", "4", "100", "95.0", models.CheckMark, "5.0"})

	backup := BuildStaffBackup(staff, 2026)

	require.Equal(t, 1, backup.Len())
	assert.False(t, backup.HasColumn(models.ColWeeklyHours))
	assert.False(t, backup.HasColumn(models.ColAnnualHours))
	assert.False(t, backup.HasColumn(models.ColRemainingHours))
	assert.False(t, backup.HasColumn(models.ColPoliceClearance))
	assert.False(t, backup.HasColumn(models.ColHourlyTotal))
	assert.Equal(t, "2026", backup.Get(0, models.ColYear))
	assert.True(t, backup.HasColumn(models.ColHoursDebt))
}

func TestSummarizeStaffByScholarship(t *testing.T) {
	backup := tabular.New(models.ColScholarship, models.ColYear)
	backup.AppendRow([]string{"Perach", "2026"})
	backup.AppendRow([]string{"Perach", "2026"})
	backup.AppendRow([]string{"Volunteer", "2026"})
	backup.AppendRow([]string{"Perach", "2025"})

	summary := SummarizeStaffByScholarship(backup, models.ColScholarship, models.ColYear)

	require.Equal(t, 3, summary.Len())
	assert.Equal(t, []string{"2025", "Perach", "1", "1"}, summary.Rows[0])
	assert.Equal(t, []string{"2026", "Perach", "2", "3"}, summary.Rows[1])
	assert.Equal(t, []string{"2026", "Volunteer", "1", "3"}, summary.Rows[2])
}

func TestShouldRollover(t *testing.T) {
	r := testStaffRules()

	assert.True(t, r.ShouldRollover(2025, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.ShouldRollover(2025, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.ShouldRollover(2026, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.ShouldRollover(-1, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)))
}
