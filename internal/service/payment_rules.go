package service

import (
	"strconv"
	"strings"

	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
)

// PaymentRules holds the billing-cycle constants.
type PaymentRules struct {
	billingMonths []string
}

// NewPaymentRules derives the rule set from configuration.
func NewPaymentRules(cfg config.RulesConfig) PaymentRules {
	return PaymentRules{billingMonths: append([]string(nil), cfg.BillingMonths...)}
}

// BillingMonths returns the billing cycle in display order.
func (r PaymentRules) BillingMonths() []string {
	return append([]string(nil), r.billingMonths...)
}

// NextPaymentNumber continues the numeric payment sequence: one past the
// highest existing number, starting at 1 on an empty log.
func NextPaymentNumber(payments tabular.Table) int {
	max := 0
	for _, v := range payments.Column(models.ColPaymentNumber) {
		if tabular.LooksInt(v) {
			if n, _ := strconv.Atoi(strings.TrimSpace(v)); n > max {
				max = n
			}
		}
	}
	return max + 1
}

// paymentMonth resolves the billing month of a payment row: the explicit
// Month cell when present, otherwise the English month name of the payment
// date.
func paymentMonth(payments tabular.Table, row int) string {
	if m := strings.TrimSpace(payments.Get(row, models.ColMonth)); m != "" {
		return m
	}
	if date, ok := ParseSheetDate(payments.Get(row, models.ColPaymentDate)); ok {
		return date.Month().String()
	}
	return ""
}

// BillingRow is one participant's line in the billing overview. Cells holds
// one formatted amount per billing month, blank when nothing was paid;
// Partial flags months where something was paid but less than the required
// monthly amount.
type BillingRow struct {
	Serial   string
	Name     string
	Cells    []string
	Partial  []bool
	Required float64
	Paid     float64
	Balance  float64
}

// BillingOverview is the per-month payment matrix over every roster row.
type BillingOverview struct {
	Months []string
	Rows   []BillingRow
}

// BuildBillingOverview cross-tabulates the payment log against the billing
// cycle. Each participant owes their Required Payment once per billing
// month; the totals count only payments stamped with a cycle month, so a
// payment recorded outside the cycle shows up nowhere.
func (r PaymentRules) BuildBillingOverview(participants, payments tabular.Table) BillingOverview {
	type key struct {
		serial string
		month  string
	}
	paidByMonth := map[key]float64{}
	for i := 0; i < payments.Len(); i++ {
		serial := strings.TrimSpace(payments.Get(i, models.ColParticipantSerial))
		if serial == "" {
			continue
		}
		paidByMonth[key{serial, paymentMonth(payments, i)}] += tabular.Float(payments.Get(i, models.ColAmount))
	}

	overview := BillingOverview{Months: r.BillingMonths()}
	for i := 0; i < participants.Len(); i++ {
		serial := strings.TrimSpace(participants.Get(i, models.ColSerialNumber))
		required := tabular.Float(participants.Get(i, models.ColRequiredPayment))

		row := BillingRow{
			Serial:   serial,
			Name:     fullName(participants.Get(i, models.ColFirstName), participants.Get(i, models.ColLastName)),
			Cells:    make([]string, len(overview.Months)),
			Partial:  make([]bool, len(overview.Months)),
			Required: required,
		}
		for j, month := range overview.Months {
			paid := paidByMonth[key{serial, month}]
			row.Paid += paid
			if paid > 0 {
				row.Cells[j] = tabular.FormatRound2(paid)
				row.Partial[j] = paid < required
			}
		}
		row.Balance = required*float64(len(overview.Months)) - row.Paid
		overview.Rows = append(overview.Rows, row)
	}
	return overview
}

// Table renders the overview as a flat table for export: one column per
// billing month plus the running totals.
func (o BillingOverview) Table() tabular.Table {
	cols := append([]string{models.ColSerialNumber, models.ColParticipantName}, o.Months...)
	cols = append(cols, models.ColTotalPaid, models.ColBalance)
	out := tabular.New(cols...)
	for _, row := range o.Rows {
		cells := append([]string{row.Serial, row.Name}, row.Cells...)
		cells = append(cells, tabular.FormatRound2(row.Paid), tabular.FormatRound2(row.Balance))
		out.AppendRow(cells)
	}
	return out
}
