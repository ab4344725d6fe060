package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/yated-center/yated-crm-api/internal/tabular"
	"github.com/yated-center/yated-crm-api/pkg/config"
	appErrors "github.com/yated-center/yated-crm-api/pkg/errors"
)

// Rows cleared ahead of every full-table write. Clearing a generous block
// removes stale cells left behind by a previously wider or taller table.
const clearRows = 5000

// OperationObserver receives the duration of spreadsheet round-trips.
// Implemented by the metrics service; a nil observer is ignored.
type OperationObserver interface {
	ObserveSheetOperation(operation string, duration time.Duration)
}

// Client talks to a single Google spreadsheet through the Sheets API.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
	observer      OperationObserver
}

// NewClient builds a Sheets API client from service-account credentials.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		// Parse eagerly so a malformed key fails at startup, not on the
		// first spreadsheet call.
		creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.CredentialsJSON), sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("sheets: parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: init service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, logger: logger}, nil
}

// SetObserver attaches a round-trip duration observer.
func (c *Client) SetObserver(o OperationObserver) {
	c.observer = o
}

func (c *Client) observe(operation string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveSheetOperation(operation, time.Since(start))
	}
}

// ReadTable fetches the whole used grid of a tab. A missing or empty tab
// yields an empty table.
func (c *Client) ReadTable(ctx context.Context, name string) (tabular.Table, error) {
	defer c.observe("read", time.Now())
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, wholeTabRange(name)).Context(ctx).Do()
	if err != nil {
		return tabular.Table{}, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			fmt.Sprintf("read table %q", name))
	}
	return tabular.FromGrid(toStringGrid(resp.Values)), nil
}

// WriteTable clears a generous block and rewrites header plus data rows from
// A1 in a single update. Writes always replace the entire tab contents.
func (c *Client) WriteTable(ctx context.Context, name string, table tabular.Table) error {
	defer c.observe("write", time.Now())
	clearEndCol := columnToA1(maxInt(26, len(table.Columns)+10))
	clearRange := fmt.Sprintf("'%s'!A1:%s%d", name, clearEndCol, clearRows)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			fmt.Sprintf("clear table %q", name))
	}

	var values [][]interface{}
	if table.IsEmpty() {
		values = [][]interface{}{{}}
	} else {
		values = toInterfaceGrid(table.Grid())
	}

	vr := &sheetsapi.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, wholeTabRange(name)+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			fmt.Sprintf("write table %q", name))
	}

	c.logger.Debug("table written", zap.String("table", name), zap.Int("rows", table.Len()))
	return nil
}

// AppendRow writes one row after the last used row, always starting at
// column A so appended values never shift into new columns.
func (c *Client) AppendRow(ctx context.Context, name string, values []string) error {
	defer c.observe("append", time.Now())
	endCol := columnToA1(maxInt(1, len(values)))
	readRange := fmt.Sprintf("'%s'!A1:%s", name, endCol)
	existing, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			fmt.Sprintf("append to table %q", name))
	}

	nextRow := len(existing.Values) + 1
	writeRange := fmt.Sprintf("'%s'!A%d:%s%d", name, nextRow, endCol, nextRow)
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{row}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			fmt.Sprintf("append to table %q", name))
	}
	return nil
}

// ListTables returns the titles of all tabs in the spreadsheet.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	defer c.observe("list", time.Now())
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			"list tables")
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// EnsureTables creates any missing tabs in a single batch request.
func (c *Client) EnsureTables(ctx context.Context, names []string) error {
	titles, err := c.ListTables(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		existing[t] = struct{}{}
	}

	var requests []*sheetsapi.Request
	for _, name := range names {
		if _, ok := existing[name]; ok {
			continue
		}
		requests = append(requests, &sheetsapi.Request{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		})
	}
	if len(requests) == 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status,
			"ensure tables")
	}
	return nil
}

// wholeTabRange addresses a tab without a cell range, which reads the whole
// used grid.
func wholeTabRange(name string) string {
	return "'" + name + "'"
}

// columnToA1 converts a 1-based column number to A1 notation (1 -> A,
// 26 -> Z, 27 -> AA).
func columnToA1(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toStringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = fmt.Sprint(v)
			}
		}
		grid[i] = cells
	}
	return grid
}

func toInterfaceGrid(grid [][]string) [][]interface{} {
	out := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
