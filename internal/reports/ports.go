// Package reports orchestrates the reconciliation pipeline: decoding
// persisted match results, the atomic hydrate-then-rank pass, and spreadsheet
// save/load with export-event publication.
package reports

import (
	"context"
	"errors"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/sheet"
)

// ErrNotFound is returned by stores for unknown report or spreadsheet
// identifiers, whatever the backend.
var ErrNotFound = errors.New("not found")

// Report is a persisted batch of match results, as delivered by the
// persistence collaborator.
type Report struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Results   []core.MatchResult `json:"results"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Ports for outbound adapters.
type (
	// RosterReader supplies the current church roster.
	RosterReader interface {
		ListChurches(ctx context.Context) ([]core.Church, error)
	}

	// ReportStore persists reconciliation reports. GetReport must deliver
	// the complete result array; partial or streaming input is not
	// supported by the pipeline.
	ReportStore interface {
		GetReport(ctx context.Context, id string) (Report, error)
		SaveReport(ctx context.Context, r Report) error
	}

	// SpreadsheetStore persists editable sheet snapshots verbatim.
	SpreadsheetStore interface {
		GetSpreadsheet(ctx context.Context, id string) (sheet.SpreadsheetData, error)
		SaveSpreadsheet(ctx context.Context, data sheet.SpreadsheetData) error
	}

	// Exporter pushes a read-only snapshot to the render collaborator.
	Exporter interface {
		Export(ctx context.Context, data sheet.SpreadsheetData) error
	}

	// ExportPublisher announces that a saved spreadsheet wants exporting.
	ExportPublisher interface {
		PublishSpreadsheetExport(ctx context.Context, spreadsheetID string) error
	}
)
