package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// AttendanceService generates daily attendance sheets, persists them into
// the append-only logs and derives the periodic summaries.
type AttendanceService struct {
	tables TableRepo
	rules  ParticipantRules

	participantsTable string
	staffTable        string
	participantLog    string
	staffLog          string

	logger *zap.Logger
	now    nowFunc
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(tables TableRepo, rules ParticipantRules, cfg config.TablesConfig, logger *zap.Logger, now nowFunc) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		tables:            tables,
		rules:             rules,
		participantsTable: cfg.Participants,
		staffTable:        cfg.Staff,
		participantLog:    cfg.ParticipantAttendance,
		staffLog:          cfg.StaffAttendance,
		logger:            logger,
		now:               now,
	}
}

// GenerateParticipantDaily builds an unsaved attendance sheet for the date.
func (s *AttendanceService) GenerateParticipantDaily(ctx context.Context, rawDate string) (dto.DailySheet, error) {
	date, err := parseRequestDate(rawDate)
	if err != nil {
		return dto.DailySheet{}, err
	}
	roster, err := s.tables.Read(ctx, s.participantsTable)
	if err != nil {
		return dto.DailySheet{}, err
	}
	day := s.rules.BuildParticipantDailyAttendance(roster, date.Weekday().String(), date)
	return dailySheet(date, day), nil
}

// GenerateStaffDaily builds an unsaved staff attendance sheet for the date.
func (s *AttendanceService) GenerateStaffDaily(ctx context.Context, rawDate string) (dto.DailySheet, error) {
	date, err := parseRequestDate(rawDate)
	if err != nil {
		return dto.DailySheet{}, err
	}
	roster, err := s.tables.Read(ctx, s.staffTable)
	if err != nil {
		return dto.DailySheet{}, err
	}
	day := BuildStaffDailyAttendance(roster, date.Weekday().String(), date)
	return dailySheet(date, day), nil
}

// SubmitParticipantDaily upserts one day of participant attendance into the
// log, auto-marking expected rows from the absentee list first.
func (s *AttendanceService) SubmitParticipantDaily(ctx context.Context, req dto.SubmitDailyRequest) error {
	return s.submitDaily(ctx, s.participantLog, req, []string{models.ColParticipantName})
}

// SubmitStaffDaily upserts one day of staff attendance into the log.
func (s *AttendanceService) SubmitStaffDaily(ctx context.Context, req dto.SubmitDailyRequest) error {
	return s.submitDaily(ctx, s.staffLog, req, []string{models.ColFirstName, models.ColLastName})
}

func (s *AttendanceService) submitDaily(ctx context.Context, logTable string, req dto.SubmitDailyRequest, nameCols []string) error {
	date, err := parseRequestDate(req.Date)
	if err != nil {
		return err
	}
	dateKey := date.Format("2006-01-02")

	day := tableFromEditor(req.Table.Columns, req.Table.Rows)
	// A present-but-empty list still means "mark everyone": nobody was
	// absent. Only an omitted field skips auto-marking.
	if req.Absentees != nil {
		AutoMarkAttendance(&day, nameCols, req.Absentees)
	}

	log, err := s.tables.Read(ctx, logTable)
	if err != nil {
		return err
	}
	merged := UpsertAttendanceByDate(log, dateKey, day)

	s.logger.Info("submitting attendance",
		zap.String("table", logTable),
		zap.String("date", dateKey),
		zap.Int("rows", day.Len()),
	)
	return s.tables.Write(ctx, logTable, merged)
}

// ParticipantMonthlySummary counts attended days per participant per month
// over the whole log.
func (s *AttendanceService) ParticipantMonthlySummary(ctx context.Context) (dto.EditorTable, error) {
	log, err := s.tables.Read(ctx, s.participantLog)
	if err != nil {
		return dto.EditorTable{}, err
	}
	return editorTable(SummarizeMonthlyAttendance(log, models.ColSerialNumber, models.ColParticipantName, models.ColAttended)), nil
}

// ParticipantYearlySummary builds the per-month attendance matrix of the
// target year for active participants. Zero selects the current year.
func (s *AttendanceService) ParticipantYearlySummary(ctx context.Context, year int) (dto.EditorTable, error) {
	today := s.now()
	if year == 0 {
		year = today.Year()
	}
	log, err := s.tables.Read(ctx, s.participantLog)
	if err != nil {
		return dto.EditorTable{}, err
	}
	roster, err := s.tables.Read(ctx, s.participantsTable)
	if err != nil {
		return dto.EditorTable{}, err
	}
	return editorTable(SummarizeYearlyAttendance(log, roster, year, today)), nil
}

// StaffHoursSummary sums logged hours per staff serial.
func (s *AttendanceService) StaffHoursSummary(ctx context.Context) (dto.EditorTable, error) {
	log, err := s.tables.Read(ctx, s.staffLog)
	if err != nil {
		return dto.EditorTable{}, err
	}
	return editorTable(SummarizeStaffHours(log, models.ColSerialNumber, models.ColHours)), nil
}

func dailySheet(date time.Time, table tabular.Table) dto.DailySheet {
	return dto.DailySheet{
		Date:    date.Format("2006-01-02"),
		Weekday: date.Weekday().String(),
		Table:   editorTable(table),
	}
}

func parseRequestDate(raw string) (time.Time, error) {
	date, ok := ParseSheetDate(raw)
	if !ok {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "unparseable date")
	}
	return date, nil
}
