package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
)

// Scholarship groups, matched case-insensitively.
var (
	fourHourScholarships = map[string]struct{}{"keren moshe": {}, "perach": {}, "telem": {}}
	twoHourScholarships  = map[string]struct{}{"nakaz": {}, "volunteer": {}}
)

// Staff columns reset by the yearly rollover; the backup drops them so each
// year starts clean.
var rolloverResetColumns = []string{
	models.ColWeeklyHours,
	models.ColAnnualHours,
	models.ColRemainingHours,
	models.ColPoliceClearance,
	models.ColHourlyTotal,
}

// StaffRules holds the deployment constants of the staff pipeline.
type StaffRules struct {
	transportationOptions map[string]struct{}
	rolloverMonth         time.Month
	rolloverDay           int
}

// NewStaffRules derives the rule set from configuration.
func NewStaffRules(cfg config.RulesConfig) StaffRules {
	r := StaffRules{
		transportationOptions: make(map[string]struct{}, len(cfg.TransportationOptions)),
		rolloverMonth:         cfg.RolloverMonth,
		rolloverDay:           cfg.RolloverDay,
	}
	for _, o := range cfg.TransportationOptions {
		r.transportationOptions[o] = struct{}{}
	}
	return r
}

// ClearanceForEditor maps a police clearance cell to a boolean and computes
// the needs-attention flag: male staff without clearance need follow-up.
// Gender matching is case-insensitive and accepts "male"/"m".
func ClearanceForEditor(genderCell, clearanceCell string) (checked, needsAttention bool) {
	gender := strings.ToLower(strings.TrimSpace(genderCell))
	isMale := gender == "male" || gender == "m"
	checked = strings.TrimSpace(clearanceCell) == models.CheckMark
	return checked, isMale && !checked
}

// HourlyTotals sums the Hours cells of the attendance log per serial number.
// Rows with a blank serial contribute to no one; non-numeric hours count as 0.
func HourlyTotals(log tabular.Table, serialCol, hoursCol string) map[string]float64 {
	totals := map[string]float64{}
	if !log.HasColumn(serialCol) || !log.HasColumn(hoursCol) {
		return totals
	}
	for i := 0; i < log.Len(); i++ {
		key := strings.TrimSpace(log.Get(i, serialCol))
		if key == "" {
			continue
		}
		totals[key] += tabular.Float(log.Get(i, hoursCol))
	}
	return totals
}

// ApplyHourlyTotals writes the summed totals into the staff table, inserting
// the column when missing. Staff rows with a blank serial stay blank.
func ApplyHourlyTotals(t *tabular.Table, serialCol, totalCol string, totals map[string]float64) {
	if !t.HasColumn(serialCol) {
		return
	}
	values := make([]string, t.Len())
	for i, sid := range t.Column(serialCol) {
		key := strings.TrimSpace(sid)
		if key == "" {
			continue
		}
		values[i] = tabular.FormatRound2(totals[key])
	}
	t.SetColumn(totalCol, values)
}

// ComputeRemainingHours derives Annual minus Hourly Total, both parsed
// defensively, rounded to two decimals.
func ComputeRemainingHours(t *tabular.Table, annualCol, totalCol, remainingCol string) {
	if !t.HasColumn(annualCol) || !t.HasColumn(totalCol) {
		return
	}
	values := make([]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		values[i] = tabular.FormatRound2(tabular.Float(t.Get(i, annualCol)) - tabular.Float(t.Get(i, totalCol)))
	}
	t.SetColumn(remainingCol, values)
}

// DeriveWeeklyHours maps a scholarship to its weekly hour quota; unknown
// scholarships derive an empty cell.
func DeriveWeeklyHours(scholarship string) string {
	normalized := strings.ToLower(strings.TrimSpace(scholarship))
	if _, ok := fourHourScholarships[normalized]; ok {
		return "4"
	}
	if _, ok := twoHourScholarships[normalized]; ok {
		return "2"
	}
	return ""
}

// DeriveTransportation derives the transportation cell: scholarships without
// a transportation benefit are marked off, otherwise the current value is
// kept when it is one of the configured options.
func (r StaffRules) DeriveTransportation(scholarship, current string) string {
	normalized := strings.ToLower(strings.TrimSpace(scholarship))
	if _, ok := twoHourScholarships[normalized]; ok {
		return models.AbsentMark
	}
	current = strings.TrimSpace(current)
	if _, ok := r.transportationOptions[current]; ok {
		return current
	}
	return ""
}

// ApplyStaffDetailsRules recomputes the scholarship-derived columns.
func (r StaffRules) ApplyStaffDetailsRules(t tabular.Table) tabular.Table {
	out := t.Clone()
	if !out.HasColumn(models.ColScholarship) {
		return out
	}

	if out.HasColumn(models.ColTransportation) {
		values := make([]string, out.Len())
		for i := 0; i < out.Len(); i++ {
			values[i] = r.DeriveTransportation(out.Get(i, models.ColScholarship), out.Get(i, models.ColTransportation))
		}
		out.SetColumn(models.ColTransportation, values)
	}

	if out.HasColumn(models.ColWeeklyHours) {
		values := make([]string, out.Len())
		for i := 0; i < out.Len(); i++ {
			values[i] = DeriveWeeklyHours(out.Get(i, models.ColScholarship))
		}
		out.SetColumn(models.ColWeeklyHours, values)
	}

	return out
}

// BuildStaffBackup prepares the year-stamped archive copy of the staff
// table: per-year columns are dropped, the Year column is stamped and an
// Hours Debt column is ensured.
func BuildStaffBackup(staff tabular.Table, year int) tabular.Table {
	out := staff.Clone()
	if out.IsEmpty() {
		return out
	}
	for _, c := range rolloverResetColumns {
		out.DropColumn(c)
	}

	years := make([]string, out.Len())
	for i := range years {
		years[i] = strconv.Itoa(year)
	}
	out.SetColumn(models.ColYear, years)

	if !out.HasColumn(models.ColHoursDebt) {
		out.SetColumn(models.ColHoursDebt, make([]string, out.Len()))
	}
	return out
}

// SummarizeStaffByScholarship counts backup rows per (Year, Scholarship)
// and annotates each row with the per-year total head count.
func SummarizeStaffByScholarship(backup tabular.Table, scholarshipCol, yearCol string) tabular.Table {
	if backup.IsEmpty() || !backup.HasColumn(scholarshipCol) || !backup.HasColumn(yearCol) {
		return tabular.Table{}
	}

	type group struct {
		year        string
		scholarship string
	}
	counts := map[group]int{}
	yearTotals := map[string]int{}
	for i := 0; i < backup.Len(); i++ {
		g := group{year: backup.Get(i, yearCol), scholarship: backup.Get(i, scholarshipCol)}
		counts[g]++
		yearTotals[g.year]++
	}

	groups := make([]group, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].year != groups[j].year {
			return groups[i].year < groups[j].year
		}
		return groups[i].scholarship < groups[j].scholarship
	})

	out := tabular.New(yearCol, scholarshipCol, models.ColCount, models.ColTotalInstructors)
	for _, g := range groups {
		out.AppendRow([]string{
			g.year,
			g.scholarship,
			strconv.Itoa(counts[g]),
			strconv.Itoa(yearTotals[g.year]),
		})
	}
	return out
}

// ShouldRollover reports whether the yearly archive is due: from the
// configured rollover date (default September 1) onward, and only when no
// rollover has been recorded for the current year yet. lastYear < 0 means no
// rollover was ever recorded.
func (r StaffRules) ShouldRollover(lastYear int, today time.Time) bool {
	if today.Month() < r.rolloverMonth || (today.Month() == r.rolloverMonth && today.Day() < r.rolloverDay) {
		return false
	}
	if lastYear < 0 {
		return true
	}
	return today.Year() > lastYear
}
