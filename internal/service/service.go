package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/yated-center/yated-crm-api/internal/dto"
	"github.com/yated-center/yated-crm-api/internal/models"
	"github.com/yated-center/yated-crm-api/internal/tabular"
)

// TableRepo is the table access surface the services need.
type TableRepo interface {
	Read(ctx context.Context, name string) (tabular.Table, error)
	Write(ctx context.Context, name string, table tabular.Table) error
	Append(ctx context.Context, name string, values []string) error
	List(ctx context.Context) ([]string, error)
	Ensure(ctx context.Context, names []string) error
}

// MetaRepo is the key/value state surface the services need.
type MetaRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, updates map[string]string) error
}

// Checkbox-typed columns and their persisted vocabulary. The participant
// attendance flag is the odd one out: unchecked persists the absent mark
// rather than an empty cell.
var checkboxColumns = map[string]struct {
	checked   string
	unchecked string
}{
	models.ColMediaConsent:       {models.CheckMark, ""},
	models.ColPoliceClearance:    {models.CheckMark, ""},
	models.ColTransportationDone: {models.CheckMark, ""},
	models.ColAttendance:         {models.CheckMark, models.AbsentMark},
}

// cellString renders one editor cell back to its sheet form. JSON delivers
// strings, booleans, numbers and string lists; everything maps to a cell.
func cellString(column string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		vocab, ok := checkboxColumns[column]
		if !ok {
			vocab.checked, vocab.unchecked = "true", "false"
		}
		if v {
			return vocab.checked
		}
		return vocab.unchecked
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}

// tableFromEditor converts an editor payload back into a table, preserving
// the client's column order.
func tableFromEditor(columns []string, rows []map[string]any) tabular.Table {
	t := tabular.New(columns...)
	for _, row := range rows {
		cells := make(map[string]string, len(row))
		for _, c := range t.Columns {
			cells[c] = cellString(c, row[c])
		}
		t.AppendRowMap(cells)
	}
	return t
}

// editorTable converts a table to the editor payload with every cell as a
// plain string. Callers retype individual columns afterwards.
func editorTable(t tabular.Table) dto.EditorTable {
	out := dto.EditorTable{Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([]map[string]any, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := make(map[string]any, len(t.Columns))
		for _, c := range t.Columns {
			row[c] = t.Get(i, c)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// nowFunc is injectable time for the services; tests pin it.
type nowFunc func() time.Time
