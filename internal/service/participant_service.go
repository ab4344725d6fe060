package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// ParticipantService serves the participant roster: typed editor views with
// highlight masks on the way out, the full business-rule pipeline on the way
// back in.
type ParticipantService struct {
	tables    TableRepo
	rules     ParticipantRules
	tableName string
	logger    *zap.Logger
	now       nowFunc
}

// NewParticipantService constructs the participant service.
func NewParticipantService(tables TableRepo, rules ParticipantRules, tableName string, logger *zap.Logger, now nowFunc) *ParticipantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{tables: tables, rules: rules, tableName: tableName, logger: logger, now: now}
}

// View loads the roster for editing. Day-set cells become string lists,
// checkbox cells become booleans, and the consent and morning framework
// masks are computed against today.
func (s *ParticipantService) View(ctx context.Context) (dto.ParticipantsView, error) {
	table, err := s.tables.Read(ctx, s.tableName)
	if err != nil {
		return dto.ParticipantsView{}, err
	}

	today := s.now()
	view := dto.ParticipantsView{
		Table:                  editorTable(table),
		ConsentAttention:       make([]bool, table.Len()),
		MorningFrameworkAlerts: s.rules.MorningFrameworkAlerts(table, models.ColBirthDate, models.ColMorningFramework, today),
		AllowedDays:            s.rules.AllowedDays(),
	}

	for i, row := range view.Table.Rows {
		if table.HasColumn(models.ColAttendanceDays) {
			row[models.ColAttendanceDays] = s.rules.DaysForEditor(table.Get(i, models.ColAttendanceDays))
		}
		if table.HasColumn(models.ColAttendance) {
			row[models.ColAttendance] = CheckboxForEditor(table.Get(i, models.ColAttendance))
		}
		if table.HasColumn(models.ColMediaConsent) {
			consented, attention := ConsentForEditor(table.Get(i, models.ColMediaConsent), table.Get(i, models.ColMediaConsentYear), today.Year())
			row[models.ColMediaConsent] = consented
			view.ConsentAttention[i] = attention
		}
	}
	return view, nil
}

// Save overwrites the roster with an edited copy after running the full rule
// pipeline. A filtered view is rejected outright: saving it would drop the
// hidden rows.
func (s *ParticipantService) Save(ctx context.Context, req dto.SaveTableRequest) error {
	if req.Filtered {
		return appErrors.ErrUnsafeSave
	}

	today := s.now()
	table := s.rules.ApplyParticipantRules(tableFromEditor(req.Columns, req.Rows), today.Year(), today)

	s.logger.Info("saving participants",
		zap.String("table", s.tableName),
		zap.Int("rows", table.Len()),
	)
	return s.tables.Write(ctx, s.tableName, table)
}
