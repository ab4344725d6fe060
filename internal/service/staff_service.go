package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/repository"
	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// StaffService serves the staff roster and the yearly rollover that archives
// it. Saves recompute every derived column, including the hour totals summed
// from the staff attendance log.
type StaffService struct {
	tables TableRepo
	meta   MetaRepo
	rules  StaffRules

	staffTable      string
	attendanceTable string
	backupTable     string
	summaryTable    string

	transportationOptions []string

	logger *zap.Logger
	now    nowFunc
}

// NewStaffService constructs the staff service.
func NewStaffService(tables TableRepo, meta MetaRepo, rules StaffRules, cfg config.TablesConfig, opts []string, logger *zap.Logger, now nowFunc) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		tables:                tables,
		meta:                  meta,
		rules:                 rules,
		staffTable:            cfg.Staff,
		attendanceTable:       cfg.StaffAttendance,
		backupTable:           cfg.StaffBackup,
		summaryTable:          cfg.StaffBackupSummary,
		transportationOptions: append([]string(nil), opts...),
		logger:                logger,
		now:                   now,
	}
}

// View loads the roster for editing, with the clearance checkbox typed and
// the follow-up mask computed.
func (s *StaffService) View(ctx context.Context) (dto.StaffView, error) {
	table, err := s.tables.Read(ctx, s.staffTable)
	if err != nil {
		return dto.StaffView{}, err
	}

	view := dto.StaffView{
		Table:                 editorTable(table),
		ClearanceAttention:    make([]bool, table.Len()),
		TransportationOptions: append([]string(nil), s.transportationOptions...),
	}
	for i, row := range view.Table.Rows {
		if table.HasColumn(models.ColPoliceClearance) {
			checked, attention := ClearanceForEditor(table.Get(i, models.ColGender), table.Get(i, models.ColPoliceClearance))
			row[models.ColPoliceClearance] = checked
			view.ClearanceAttention[i] = attention
		}
		if table.HasColumn(models.ColTransportationDone) {
			row[models.ColTransportationDone] = CheckboxForEditor(table.Get(i, models.ColTransportationDone))
		}
	}
	return view, nil
}

// Save overwrites the roster with an edited copy: scholarship-derived
// columns are recomputed, hour totals are refreshed from the attendance log
// and the remaining-hours balance follows.
func (s *StaffService) Save(ctx context.Context, req dto.SaveTableRequest) error {
	if req.Filtered {
		return appErrors.ErrUnsafeSave
	}

	table := s.rules.ApplyStaffDetailsRules(tableFromEditor(req.Columns, req.Rows))
	SanitizeForSheet(&table)
	NormalizeLegacySerials(&table, models.ColSerialNumber)
	AutofillSerials(&table, models.ColSerialNumber)

	log, err := s.tables.Read(ctx, s.attendanceTable)
	if err != nil {
		return err
	}
	totals := HourlyTotals(log, models.ColSerialNumber, models.ColHours)
	ApplyHourlyTotals(&table, models.ColSerialNumber, models.ColHourlyTotal, totals)
	ComputeRemainingHours(&table, models.ColAnnualHours, models.ColHourlyTotal, models.ColRemainingHours)

	s.logger.Info("saving staff",
		zap.String("table", s.staffTable),
		zap.Int("rows", table.Len()),
	)
	return s.tables.Write(ctx, s.staffTable, table)
}

// RolloverStatus reports whether the yearly archive is due.
func (s *StaffService) RolloverStatus(ctx context.Context) (dto.RolloverStatus, error) {
	lastYear, performed, err := s.lastRolloverYear(ctx)
	if err != nil {
		return dto.RolloverStatus{}, err
	}

	status := dto.RolloverStatus{EverPerformed: performed}
	if performed {
		status.LastYear = lastYear
	}
	status.Due = s.rules.ShouldRollover(lastYear, s.now())
	return status, nil
}

// ExecuteRollover archives the live roster into the year-stamped backup,
// refreshes the scholarship summary, clears the live roster down to its
// headers and records the rollover year. Running it twice in one year is a
// conflict.
func (s *StaffService) ExecuteRollover(ctx context.Context) (dto.RolloverResult, error) {
	lastYear, _, err := s.lastRolloverYear(ctx)
	if err != nil {
		return dto.RolloverResult{}, err
	}
	today := s.now()
	if !s.rules.ShouldRollover(lastYear, today) {
		return dto.RolloverResult{}, appErrors.Clone(appErrors.ErrConflict, "rollover not due")
	}

	staff, err := s.tables.Read(ctx, s.staffTable)
	if err != nil {
		return dto.RolloverResult{}, err
	}
	year := today.Year()
	archive := BuildStaffBackup(staff, year)

	backup, err := s.tables.Read(ctx, s.backupTable)
	if err != nil {
		return dto.RolloverResult{}, err
	}
	merged := backup
	if backup.IsEmpty() {
		merged = archive
	} else {
		merged = backup.Clone()
		for i := 0; i < archive.Len(); i++ {
			merged.AppendRowMap(archive.RowMap(i))
		}
	}
	if err := s.tables.Write(ctx, s.backupTable, merged); err != nil {
		return dto.RolloverResult{}, err
	}

	summary := SummarizeStaffByScholarship(merged, models.ColScholarship, models.ColYear)
	if err := s.tables.Write(ctx, s.summaryTable, summary); err != nil {
		return dto.RolloverResult{}, err
	}

	if err := s.tables.Write(ctx, s.staffTable, tabular.Table{Columns: append([]string(nil), staff.Columns...)}); err != nil {
		return dto.RolloverResult{}, err
	}

	if err := s.meta.Set(ctx, map[string]string{repository.KeyLastRolloverYear: strconv.Itoa(year)}); err != nil {
		return dto.RolloverResult{}, err
	}

	s.logger.Info("staff rollover complete",
		zap.Int("year", year),
		zap.Int("archived_rows", archive.Len()),
	)
	return dto.RolloverResult{Year: year, ArchivedRows: archive.Len(), SummaryGroups: summary.Len()}, nil
}

// lastRolloverYear reads the recorded rollover year; performed is false when
// none was ever recorded.
func (s *StaffService) lastRolloverYear(ctx context.Context) (year int, performed bool, err error) {
	raw, err := s.meta.Get(ctx, repository.KeyLastRolloverYear)
	if err != nil {
		return 0, false, err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return -1, false, nil
	}
	n, convErr := strconv.Atoi(raw)
	if convErr != nil {
		return -1, false, nil
	}
	return n, true, nil
}
