// Package google renders spreadsheet snapshots into a Google Sheets
// document, one tab per spreadsheet. It is the concrete print/render
// collaborator: whatever it writes must match the model's derived balance
// and summary exactly, so every computed value is taken from the snapshot's
// own accessors rather than recomputed here.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ reports.Exporter = (*Client)(nil)

// NewFromEnv creates a Sheets exporter from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS. GOOGLE_SHEET_NAME picks the target tab
// (default "Relatórios").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Relatórios"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		data, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Export implements reports.Exporter. The target range is cleared and
// rewritten in full; partial updates would let deleted rows linger.
func (c *Client) Export(ctx context.Context, data sheet.SpreadsheetData) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := renderValues(data)

	rng := fmt.Sprintf("%s!A:Z", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", rng, err)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update values: %w", err)
	}

	slog.InfoContext(ctx, "Spreadsheet exported",
		"spreadsheet_id", data.ID,
		"title", data.Title,
		"rows", len(data.Rows))
	return nil
}

// renderValues flattens a snapshot into sheet cells: title, header from the
// visible columns, one line per row, and the summary footer.
func renderValues(data sheet.SpreadsheetData) [][]interface{} {
	var visible []sheet.ColumnDef
	for _, col := range data.Columns {
		if col.Visible {
			visible = append(visible, col)
		}
	}

	values := [][]interface{}{{data.Title}}

	header := make([]interface{}, len(visible))
	for i, col := range visible {
		header[i] = col.Label
	}
	values = append(values, header)

	for i, row := range data.Rows {
		line := make([]interface{}, len(visible))
		for j, col := range visible {
			line[j] = cellValue(row, col, i)
		}
		values = append(values, line)
	}

	summary := sheet.Summarize(data.Rows)
	footer := make([]interface{}, len(visible))
	for j, col := range visible {
		switch col.ID {
		case sheet.ColDescription:
			footer[j] = "Total"
		case sheet.ColIncome:
			footer[j], _ = summary.Income.Float64()
		case sheet.ColExpense:
			footer[j], _ = summary.Expense.Float64()
		case sheet.ColBalance:
			footer[j], _ = summary.Balance().Float64()
		case sheet.ColQty:
			footer[j] = summary.Qty
		default:
			footer[j] = ""
		}
	}
	values = append(values, footer)

	return values
}

func cellValue(row sheet.Row, col sheet.ColumnDef, position int) interface{} {
	switch col.ID {
	case sheet.ColIndex:
		return position + 1
	case sheet.ColDescription:
		return row.Description
	case sheet.ColIncome:
		v, _ := row.Income.Float64()
		return v
	case sheet.ColExpense:
		v, _ := row.Expense.Float64()
		return v
	case sheet.ColBalance:
		v, _ := row.Balance().Float64()
		return v
	case sheet.ColQty:
		return row.Qty
	default:
		return row.CustomValue(col.ID)
	}
}
