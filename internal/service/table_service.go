package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// Identifier column candidates for the generic editor, checked in order.
// The sheets often carry Hebrew headers for the national ID column.
var idColumnCandidates = []string{
	models.ColSerialNumber,
	"ID",
	"Id",
	"id",
	"ת\"ז",
	"תז",
	"תעודת זהות",
	"מספר סידורי",
}

// TableService is the generic any-tab editor: list tabs, load one, save an
// edited copy back. It applies only the schema-agnostic rules (identifier
// normalization and autofill); the typed tabs have their own services.
type TableService struct {
	tables TableRepo
	logger *zap.Logger
}

// NewTableService constructs the generic table service.
func NewTableService(tables TableRepo, logger *zap.Logger) *TableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableService{tables: tables, logger: logger}
}

// List returns every worksheet tab of the spreadsheet.
func (s *TableService) List(ctx context.Context) ([]string, error) {
	return s.tables.List(ctx)
}

// Get loads one tab for editing.
func (s *TableService) Get(ctx context.Context, name string) (dto.EditorTable, error) {
	table, err := s.tables.Read(ctx, name)
	if err != nil {
		return dto.EditorTable{}, err
	}
	return editorTable(table), nil
}

// Save overwrites one tab with an edited copy. The identifier column is
// guessed from the header row; when found, legacy prefixed identifiers are
// normalized and blanks are autofilled. A filtered view is rejected.
func (s *TableService) Save(ctx context.Context, name string, req dto.SaveTableRequest) error {
	if req.Filtered {
		return appErrors.ErrUnsafeSave
	}

	table := tableFromEditor(req.Columns, req.Rows)
	SanitizeForSheet(&table)
	if idCol, ok := GuessIDColumn(table.Columns); ok {
		NormalizeLegacySerials(&table, idCol)
		AutofillSerials(&table, idCol)
	}

	s.logger.Info("saving table",
		zap.String("table", name),
		zap.Int("rows", table.Len()),
	)
	return s.tables.Write(ctx, name, table)
}

// Export renders one tab as a downloadable CSV or PDF.
func (s *TableService) Export(ctx context.Context, name, format string) ([]byte, string, error) {
	table, err := s.tables.Read(ctx, name)
	if err != nil {
		return nil, "", err
	}
	return renderExport(table, name, format)
}

// GuessIDColumn picks the identifier column of an arbitrary tab, preferring
// the well-known names and falling back to any header containing "serial"
// or the Hebrew ID abbreviation.
func GuessIDColumn(columns []string) (string, bool) {
	present := make(map[string]string, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = c
	}
	for _, candidate := range idColumnCandidates {
		if original, ok := present[candidate]; ok {
			return original, true
		}
	}
	for _, c := range columns {
		lowered := strings.ToLower(c)
		if strings.Contains(lowered, "serial") || strings.Contains(c, "ת\"ז") {
			return c, true
		}
	}
	return "", false
}
