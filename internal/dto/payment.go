package dto

// AddPaymentRequest records one payment against a participant. Month is
// optional; when blank it is derived from the payment date.
type AddPaymentRequest struct {
	ParticipantSerial string  `json:"participant_serial" validate:"required"`
	Amount            float64 `json:"amount" validate:"required,gt=0"`
	Date              string  `json:"date" validate:"required"`
	Month             string  `json:"month"`
}

// PaymentReceipt echoes the stored payment with its assigned number.
type PaymentReceipt struct {
	PaymentNumber     int     `json:"payment_number"`
	ParticipantSerial string  `json:"participant_serial"`
	Amount            float64 `json:"amount"`
	Date              string  `json:"date"`
	Month             string  `json:"month"`
}

// BillingRow is one participant's line in the billing overview.
type BillingRow struct {
	Serial  string   `json:"serial"`
	Name    string   `json:"name"`
	Cells   []string `json:"cells"`
	Partial []bool   `json:"partial"`
	Paid    string   `json:"paid"`
	Balance string   `json:"balance"`
}

// BillingOverview is the per-month payment matrix over the whole roster.
type BillingOverview struct {
	Months []string     `json:"months"`
	Rows   []BillingRow `json:"rows"`
}
