package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
	"github.com/yated-center/yated-crm-api/pkg/export"
)

// Canonical payment log columns, used when the log tab is still empty.
var paymentColumns = []string{
	models.ColPaymentNumber,
	models.ColParticipantSerial,
	models.ColAmount,
	models.ColPaymentDate,
	models.ColMonth,
}

// PaymentService records payments and derives the billing overview.
type PaymentService struct {
	tables TableRepo
	rules  PaymentRules

	participantsTable string
	paymentsTable     string

	validate *validator.Validate
	logger   *zap.Logger
}

// NewPaymentService constructs the payment service.
func NewPaymentService(tables TableRepo, rules PaymentRules, cfg config.TablesConfig, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		tables:            tables,
		rules:             rules,
		participantsTable: cfg.Participants,
		paymentsTable:     cfg.Payments,
		validate:          validator.New(),
		logger:            logger,
	}
}

// Add records one payment with the next free payment number. The billing
// month defaults to the English month name of the payment date.
func (s *PaymentService) Add(ctx context.Context, req dto.AddPaymentRequest) (dto.PaymentReceipt, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.PaymentReceipt{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment")
	}
	date, err := parseRequestDate(req.Date)
	if err != nil {
		return dto.PaymentReceipt{}, err
	}
	month := strings.TrimSpace(req.Month)
	if month == "" {
		month = date.Month().String()
	}

	log, err := s.tables.Read(ctx, s.paymentsTable)
	if err != nil {
		return dto.PaymentReceipt{}, err
	}

	receipt := dto.PaymentReceipt{
		PaymentNumber:     NextPaymentNumber(log),
		ParticipantSerial: strings.TrimSpace(req.ParticipantSerial),
		Amount:            req.Amount,
		Date:              date.Format("2006-01-02"),
		Month:             month,
	}
	cells := map[string]string{
		models.ColPaymentNumber:     strconv.Itoa(receipt.PaymentNumber),
		models.ColParticipantSerial: receipt.ParticipantSerial,
		models.ColAmount:            tabular.FormatRound2(receipt.Amount),
		models.ColPaymentDate:       receipt.Date,
		models.ColMonth:             receipt.Month,
	}

	if log.IsEmpty() {
		table := tabular.New(paymentColumns...)
		table.AppendRowMap(cells)
		if err := s.tables.Write(ctx, s.paymentsTable, table); err != nil {
			return dto.PaymentReceipt{}, err
		}
		return receipt, nil
	}

	values := make([]string, len(log.Columns))
	for i, c := range log.Columns {
		values[i] = cells[c]
	}
	if err := s.tables.Append(ctx, s.paymentsTable, values); err != nil {
		return dto.PaymentReceipt{}, err
	}

	s.logger.Info("payment recorded",
		zap.Int("payment_number", receipt.PaymentNumber),
		zap.String("participant", receipt.ParticipantSerial),
	)
	return receipt, nil
}

// Billing cross-tabulates payments against the billing cycle for every
// participant on the roster.
func (s *PaymentService) Billing(ctx context.Context) (dto.BillingOverview, error) {
	overview, err := s.overview(ctx)
	if err != nil {
		return dto.BillingOverview{}, err
	}

	out := dto.BillingOverview{Months: overview.Months}
	for _, row := range overview.Rows {
		out.Rows = append(out.Rows, dto.BillingRow{
			Serial:  row.Serial,
			Name:    row.Name,
			Cells:   row.Cells,
			Partial: row.Partial,
			Paid:    tabular.FormatRound2(row.Paid),
			Balance: tabular.FormatRound2(row.Balance),
		})
	}
	return out, nil
}

// BillingExport renders the billing overview as a downloadable CSV or PDF.
func (s *PaymentService) BillingExport(ctx context.Context, format string) ([]byte, string, error) {
	overview, err := s.overview(ctx)
	if err != nil {
		return nil, "", err
	}
	return renderExport(overview.Table(), "billing", format)
}

func (s *PaymentService) overview(ctx context.Context) (BillingOverview, error) {
	participants, err := s.tables.Read(ctx, s.participantsTable)
	if err != nil {
		return BillingOverview{}, err
	}
	payments, err := s.tables.Read(ctx, s.paymentsTable)
	if err != nil {
		return BillingOverview{}, err
	}
	return s.rules.BuildBillingOverview(participants, payments), nil
}

// renderExport renders a table through the shared exporters. The returned
// string is the MIME content type.
func renderExport(t tabular.Table, title, format string) ([]byte, string, error) {
	dataset := export.Dataset{Headers: t.Columns}
	for i := 0; i < t.Len(); i++ {
		dataset.Rows = append(dataset.Rows, t.RowMap(i))
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		return payload, "text/csv", err
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, title)
		return payload, "application/pdf", err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
