// Package worker drives spreadsheet exports off the AMQP queue, with a
// periodic catch-up pass for messages lost while the worker was down.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tesouraria/internal/amqp"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

// SpreadsheetSource is the slice of storage the worker needs.
type SpreadsheetSource interface {
	GetSpreadsheet(ctx context.Context, id string) (sheet.SpreadsheetData, error)
	ListSpreadsheetIDs(ctx context.Context, limit int) ([]string, error)
}

// ExportWorker loads the current snapshot for each export request and hands
// it to the exporter. Loading at export time, not publish time, means a
// message that waited in the queue still exports the latest cell data.
type ExportWorker struct {
	source    SpreadsheetSource
	exporter  reports.Exporter
	batchSize int
}

func NewExportWorker(source SpreadsheetSource, exporter reports.Exporter, batchSize int) *ExportWorker {
	return &ExportWorker{
		source:    source,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes one export request from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.SpreadsheetExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"spreadsheet_id", msg.SpreadsheetID)
	return w.export(ctx, msg.SpreadsheetID)
}

// ProcessPending exports a batch of saved spreadsheets, oldest first. Used
// on startup and on the periodic tick to catch anything the queue missed.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.source.ListSpreadsheetIDs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list spreadsheets: %w", err)
	}
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.export(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export spreadsheet",
				"spreadsheet_id", id, "error", err)
			// Keep going; one bad sheet must not starve the rest.
		}
	}
	return nil
}

func (w *ExportWorker) export(ctx context.Context, id string) error {
	data, err := w.source.GetSpreadsheet(ctx, id)
	if err != nil {
		return fmt.Errorf("load spreadsheet %s: %w", id, err)
	}
	if err := w.exporter.Export(ctx, data); err != nil {
		return fmt.Errorf("export spreadsheet %s: %w", id, err)
	}
	return nil
}
