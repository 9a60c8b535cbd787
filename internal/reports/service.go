package reports

import (
	"context"
	"fmt"
	"log/slog"

	"tesouraria/internal/core"
	"tesouraria/internal/sheet"
)

// Service wires the core engine to its collaborators. Each ranking request
// is one atomic hydrate-then-aggregate pass over a complete result array;
// nothing is cached between calls, so a superseded invocation can simply be
// discarded by the caller.
type Service struct {
	store     ReportStore
	sheets    SpreadsheetStore
	roster    RosterReader
	publisher ExportPublisher
	codec     *core.Codec
}

// NewService builds a report service. The publisher may be nil; saving then
// skips export events instead of failing.
func NewService(store ReportStore, sheets SpreadsheetStore, roster RosterReader, publisher ExportPublisher, codec *core.Codec) *Service {
	return &Service{
		store:     store,
		sheets:    sheets,
		roster:    roster,
		publisher: publisher,
		codec:     codec,
	}
}

// Codec exposes the service's currency codec for callers seeding models.
func (s *Service) Codec() *core.Codec { return s.codec }

// Churches returns the current roster.
func (s *Service) Churches(ctx context.Context) ([]core.Church, error) {
	return s.roster.ListChurches(ctx)
}

// SaveReport persists a decoded result batch.
func (s *Service) SaveReport(ctx context.Context, report Report) error {
	if err := s.store.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}
	return nil
}

// BuildRanking loads a persisted report, hydrates its results against the
// current roster and aggregates them into a ranking. Load failures leave no
// partial state behind: hydration only starts once the complete array and
// roster are in hand.
func (s *Service) BuildRanking(ctx context.Context, reportID string) (core.Ranking, error) {
	report, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return core.Ranking{}, fmt.Errorf("load report %s: %w", reportID, err)
	}
	roster, err := s.roster.ListChurches(ctx)
	if err != nil {
		return core.Ranking{}, fmt.Errorf("load roster: %w", err)
	}

	ranking := core.Rank(report.Results, roster, report.Name)
	slog.InfoContext(ctx, "Ranking built",
		"report_id", reportID,
		"input_records", len(report.Results),
		"ranked_churches", len(ranking.Rows))
	return ranking, nil
}

// RankingSheet builds the ranking and seeds an editable sheet from it.
func (s *Service) RankingSheet(ctx context.Context, reportID string) (*sheet.Model, error) {
	ranking, err := s.BuildRanking(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return sheet.FromRanking(s.codec, ranking), nil
}

// LoadSpreadsheet rebuilds an editable model from a saved snapshot.
func (s *Service) LoadSpreadsheet(ctx context.Context, id string) (*sheet.Model, error) {
	data, err := s.sheets.GetSpreadsheet(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load spreadsheet %s: %w", id, err)
	}
	return sheet.Load(s.codec, data), nil
}

// SaveSpreadsheet stores a snapshot and announces it for export. A publish
// failure is logged but does not fail the save; the snapshot is already
// durable and the worker's periodic pass will pick it up.
func (s *Service) SaveSpreadsheet(ctx context.Context, data sheet.SpreadsheetData) error {
	if err := s.sheets.SaveSpreadsheet(ctx, data); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, skipping export event",
			"spreadsheet_id", data.ID)
		return nil
	}
	if err := s.publisher.PublishSpreadsheetExport(ctx, data.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export event",
			"spreadsheet_id", data.ID, "error", err)
	}
	return nil
}
