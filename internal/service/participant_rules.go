package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
)

// Morning frameworks that trigger the pre-21 alert are configured in English;
// the sheet frequently holds the Hebrew names, so the fixed aliases are
// always part of the match set.
var morningFrameworkHebrewAliases = []string{"שחר", "דקלים", "יסודות", "אילנות"}

// ParticipantRules holds the deployment constants of the participant
// pipeline and provides the pure transforms composed on every save.
type ParticipantRules struct {
	allowedDays     []string
	allowedDaySet   map[string]struct{}
	paymentPerDay   int
	alertFrameworks map[string]struct{}
}

// NewParticipantRules derives the rule set from configuration.
func NewParticipantRules(cfg config.RulesConfig) ParticipantRules {
	r := ParticipantRules{
		allowedDays:     append([]string(nil), cfg.AllowedDays...),
		allowedDaySet:   make(map[string]struct{}, len(cfg.AllowedDays)),
		paymentPerDay:   cfg.PaymentPerDay,
		alertFrameworks: make(map[string]struct{}),
	}
	for _, d := range cfg.AllowedDays {
		r.allowedDaySet[d] = struct{}{}
	}
	for _, f := range cfg.MorningFrameworkAlert {
		r.alertFrameworks[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}
	for _, f := range morningFrameworkHebrewAliases {
		r.alertFrameworks[f] = struct{}{}
	}
	return r
}

// AllowedDays returns the configured day set in canonical order.
func (r ParticipantRules) AllowedDays() []string {
	return append([]string(nil), r.allowedDays...)
}

// PaymentPerDay returns the configured per-day rate.
func (r ParticipantRules) PaymentPerDay() int {
	return r.paymentPerDay
}

// DayAllowed reports whether the token is one of the configured days.
func (r ParticipantRules) DayAllowed(day string) bool {
	_, ok := r.allowedDaySet[day]
	return ok
}

// DaysForEditor converts a sheet day-set cell to its editor form: an ordered
// list with duplicates removed and tokens outside the allowed set dropped.
func (r ParticipantRules) DaysForEditor(cell string) []string {
	parts := splitDays(cell)
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if !r.DayAllowed(p) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// DaysForSheet serializes an editor day list back to the sheet form:
// canonical order, duplicate free, comma joined.
func (r ParticipantRules) DaysForSheet(days []string) string {
	present := make(map[string]struct{}, len(days))
	for _, d := range days {
		present[strings.TrimSpace(d)] = struct{}{}
	}
	ordered := make([]string, 0, len(r.allowedDays))
	for _, d := range r.allowedDays {
		if _, ok := present[d]; ok {
			ordered = append(ordered, d)
		}
	}
	return strings.Join(ordered, ", ")
}

// NormalizeDaysForSave canonicalizes every day-set cell in place. Already
// canonical cells pass through unchanged.
func (r ParticipantRules) NormalizeDaysForSave(t *tabular.Table, col string) {
	if !t.HasColumn(col) {
		return
	}
	values := t.Column(col)
	for i, v := range values {
		values[i] = r.DaysForSheet(r.DaysForEditor(v))
	}
	t.SetColumn(col, values)
}

// CountAllowedDays counts the distinct allowed days in a day-set cell.
func (r ParticipantRules) CountAllowedDays(cell string) int {
	return len(r.DaysForEditor(cell))
}

// ComputeRequiredPayment fills the payment column with distinct allowed day
// count times the per-day rate, inserting the column when missing.
func (r ParticipantRules) ComputeRequiredPayment(t *tabular.Table, daysCol, paymentCol string) {
	if !t.HasColumn(daysCol) {
		return
	}
	values := make([]string, t.Len())
	for i, v := range t.Column(daysCol) {
		values[i] = strconv.Itoa(r.CountAllowedDays(v) * r.paymentPerDay)
	}
	t.SetColumn(paymentCol, values)
}

// ComputeAge fills the age column from the birthdate column; unparseable
// birthdates yield a blank age.
func (r ParticipantRules) ComputeAge(t *tabular.Table, birthdateCol, ageCol string, today time.Time) {
	if !t.HasColumn(birthdateCol) {
		return
	}
	values := make([]string, t.Len())
	for i, v := range t.Column(birthdateCol) {
		if born, ok := ParseSheetDate(v); ok {
			values[i] = strconv.Itoa(AgeYears(born, today))
		}
	}
	t.SetColumn(ageCol, values)
}

// CheckboxForEditor maps a sheet checkbox token to a boolean; anything other
// than the check mark reads as false.
func CheckboxForEditor(cell string) bool {
	return strings.TrimSpace(cell) == models.CheckMark
}

// AttendanceFlagForSheet persists the active/inactive flag.
func AttendanceFlagForSheet(active bool) string {
	if active {
		return models.CheckMark
	}
	return models.AbsentMark
}

// CheckboxForSheet persists a checkbox-style boolean.
func CheckboxForSheet(checked bool) string {
	if checked {
		return models.CheckMark
	}
	return ""
}

// ConsentForEditor computes the editor value of a consent cell: the consent
// token must be set and the year column must match the current year, so
// consent silently expires at the year rollover. The companion needs
// attention flag is the negation, used for highlighting only.
func ConsentForEditor(consentCell, yearCell string, currentYear int) (consented, needsAttention bool) {
	checked := strings.TrimSpace(consentCell) == models.CheckMark
	year, err := strconv.Atoi(strings.TrimSpace(yearCell))
	current := checked && err == nil && year == currentYear
	return current, !current
}

/// StampConsentYear aligns the year column with the consent column: a checked
// consent stamps the current year, an unchecked one clears it.
func StampConsentYear(t *tabular.Table, consentCol, yearCol string, currentYear int) {
	if !t.HasColumn(consentCol) || !t.HasColumn(yearCol) {
		return
	}
	values := make([]string, t.Len())
	for i, v := range t.Column(consentCol) {
		if strings.TrimSpace(v) == models.CheckMark {
			values[i] = strconv.Itoa(currentYear)
		}
	}
	t.SetColumn(yearCol, values)
}

var legacySerialPattern = regexp.MustCompile(`^[A-Za-z]+0*([0-9]+)$`)

// NormalizeLegacySerials rewrites legacy prefixed serials like "Pa001" to
// their bare numeric value "1". Plain cells are left untouched.
func NormalizeLegacySerials(t *tabular.Table, idCol string) {
	if !t.HasColumn(idCol) {
		return
	}
	values := t.Column(idCol)
	for i, v := range values {
		if m := legacySerialPattern.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
			values[i] = m[1]
		}
	}
	t.SetColumn(idCol, values)
}

// AutofillSerials fills blank serial cells top to bottom, continuing from
// the highest existing numeric serial. Existing serials are never changed.
func AutofillSerials(t *tabular.Table, idCol string) {
	if !t.HasColumn(idCol) {
		return
	}
	values := t.Column(idCol)

	maxExisting := 0
	for _, v := range values {
		if tabular.LooksInt(v) {
			if n, _ := strconv.Atoi(strings.TrimSpace(v)); n > maxExisting {
				maxExisting = n
			}
		}
	}

	next := maxExisting + 1
	for i, v := range values {
		if strings.TrimSpace(v) == "" {
			values[i] = strconv.Itoa(next)
			next++
		}
	}
	t.SetColumn(idCol, values)
}

// MoveAbsentToBottom stably sorts rows so that rows flagged absent sink to
// the end; ties are broken by the supplied name columns for deterministic
// output.
func MoveAbsentToBottom(t *tabular.Table, attendanceCol string, nameCols []string) {
	if !t.HasColumn(attendanceCol) {
		return
	}
	sortNames := make([]string, 0, len(nameCols))
	for _, c := range nameCols {
		if t.HasColumn(c) {
			sortNames = append(sortNames, c)
		}
	}
	absent := func(i int) bool {
		return strings.ToUpper(strings.TrimSpace(t.Get(i, attendanceCol))) == models.AbsentMark
	}
	t.SortStable(func(i, j int) bool {
		ai, aj := absent(i), absent(j)
		if ai != aj {
			return !ai && aj
		}
		for _, c := range sortNames {
			vi, vj := t.Get(i, c), t.Get(j, c)
			if vi != vj {
				return vi < vj
			}
		}
		return false
	})
}

// NeedsMorningFrameworkAlert reports whether today is on or after one
// calendar month before the 21st birthday.
func NeedsMorningFrameworkAlert(born, today time.Time) bool {
	twentyFirst := DateWithClampedDay(born.Year()+21, born.Month(), born.Day())
	oneMonthBefore := ShiftMonths(twentyFirst, -1)
	return !today.Before(oneMonthBefore)
}

// MorningFrameworkAlerts computes the per-row alert mask: the framework must
// be one of the alert-triggering set (case-insensitive, trimmed, Hebrew
// aliases included) and the participant must be within a month of turning 21.
func (r ParticipantRules) MorningFrameworkAlerts(t tabular.Table, birthdateCol, frameworkCol string, today time.Time) []bool {
	mask := make([]bool, t.Len())
	if !t.HasColumn(birthdateCol) || !t.HasColumn(frameworkCol) {
		return mask
	}
	for i := 0; i < t.Len(); i++ {
		framework := strings.ToLower(strings.TrimSpace(t.Get(i, frameworkCol)))
		if _, ok := r.alertFrameworks[framework]; !ok {
			continue
		}
		born, ok := ParseSheetDate(t.Get(i, birthdateCol))
		if !ok {
			continue
		}
		mask[i] = NeedsMorningFrameworkAlert(born, today)
	}
	return mask
}

// SanitizeForSheet trims column names and cell whitespace artifacts that a
// grid editor may introduce.
func SanitizeForSheet(t *tabular.Table) {
	for i, c := range t.Columns {
		t.Columns[i] = strings.TrimSpace(c)
	}
}

// ApplyParticipantRules runs the full edited-table to sheet-ready transform:
// canonical day sets, consent year stamping, serial autofill, derived age
// and required payment, absentees sorted to the bottom.
func (r ParticipantRules) ApplyParticipantRules(t tabular.Table, currentYear int, today time.Time) tabular.Table {
	out := t.Clone()
	r.NormalizeDaysForSave(&out, models.ColAttendanceDays)
	StampConsentYear(&out, models.ColMediaConsent, models.ColMediaConsentYear, currentYear)
	SanitizeForSheet(&out)
	NormalizeLegacySerials(&out, models.ColSerialNumber)
	AutofillSerials(&out, models.ColSerialNumber)
	r.ComputeAge(&out, models.ColBirthDate, models.ColAge, today)
	r.ComputeRequiredPayment(&out, models.ColAttendanceDays, models.ColRequiredPayment)
	MoveAbsentToBottom(&out, models.ColAttendance, []string{models.ColFirstName, models.ColLastName})
	return out
}

func splitDays(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
