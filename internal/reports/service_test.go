package reports_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tesouraria/internal/core"
	"tesouraria/internal/memory"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

type recordingPublisher struct {
	published []string
	fail      bool
}

func (p *recordingPublisher) PublishSpreadsheetExport(_ context.Context, id string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, id)
	return nil
}

func newService(t *testing.T, pub reports.ExportPublisher) (*reports.Service, *memory.Store) {
	t.Helper()
	store := memory.New([]core.Church{
		{ID: "c1", Name: "Alpha"},
		{ID: "c2", Name: "Beta"},
	})
	return reports.NewService(store, store, store, pub, core.NewCodecForLocale("pt-BR")), store
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuildRanking_EndToEnd(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()

	report := reports.Report{
		ID:   "r1",
		Name: "Março",
		Results: []core.MatchResult{
			{
				Transaction: core.Transaction{ID: "t1", Amount: dec("300")},
				Church:      core.ResolvedRef(core.Church{ID: "c1", Name: "Old Alpha"}),
				Status:      core.StatusIdentified,
			},
			{
				Transaction: core.Transaction{ID: "t2", Amount: dec("-100")},
				Church:      core.ResolvedRef(core.Church{ID: "c1"}),
				Status:      core.StatusPending,
			},
			{
				Transaction: core.Transaction{ID: "t3", Amount: dec("500")},
				Church:      core.ResolvedRef(core.Church{ID: "c2"}),
				Status:      core.StatusIdentified,
			},
			{
				Transaction: core.Transaction{ID: "t4", Amount: dec("999")},
				Status:      core.StatusUnidentified,
			},
		},
	}
	if err := svc.SaveReport(ctx, report); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	ranking, err := svc.BuildRanking(ctx, "r1")
	if err != nil {
		t.Fatalf("BuildRanking() error = %v", err)
	}
	if ranking.Title != "Ranking: Março" {
		t.Errorf("title = %q", ranking.Title)
	}
	if len(ranking.Rows) != 2 {
		t.Fatalf("rows = %+v", ranking.Rows)
	}
	// c2 (500) outranks c1 (300 - 100 = 200).
	if ranking.Rows[0].ChurchID != "c2" || !ranking.Rows[0].Balance.Equal(dec("500")) {
		t.Errorf("row 0 = %+v", ranking.Rows[0])
	}
	if ranking.Rows[1].ChurchID != "c1" || !ranking.Rows[1].Balance.Equal(dec("200")) {
		t.Errorf("row 1 = %+v", ranking.Rows[1])
	}
	// The stale saved name was repaired against the live roster.
	if ranking.Rows[1].Church != "Alpha" {
		t.Errorf("church name = %q, want Alpha", ranking.Rows[1].Church)
	}

	// Roster drift between calls is picked up on the next build.
	store.SetRoster([]core.Church{{ID: "c1", Name: "Alpha Renamed"}, {ID: "c2", Name: "Beta"}})
	ranking, err = svc.BuildRanking(ctx, "r1")
	if err != nil {
		t.Fatalf("BuildRanking() after drift error = %v", err)
	}
	if ranking.Rows[1].Church != "Alpha Renamed" {
		t.Errorf("church name after drift = %q", ranking.Rows[1].Church)
	}
}

func TestBuildRanking_UnknownReport(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.BuildRanking(context.Background(), "ghost")
	if !errors.Is(err, reports.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRankingSheet(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	err := svc.SaveReport(ctx, reports.Report{
		ID: "r1",
		Results: []core.MatchResult{
			{
				Transaction: core.Transaction{ID: "t1", Amount: dec("150")},
				Church:      core.ResolvedRef(core.Church{ID: "c1"}),
				Status:      core.StatusIdentified,
			},
		},
	})
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	model, err := svc.RankingSheet(ctx, "r1")
	if err != nil {
		t.Fatalf("RankingSheet() error = %v", err)
	}
	rows := model.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Description != "Alpha" || !rows[0].Income.Equal(dec("150")) {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestSaveSpreadsheet_PublishesExport(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(t, pub)
	ctx := context.Background()

	data := sheet.SpreadsheetData{ID: "s1", Title: "Manual"}
	if err := svc.SaveSpreadsheet(ctx, data); err != nil {
		t.Fatalf("SaveSpreadsheet() error = %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != "s1" {
		t.Errorf("published = %v", pub.published)
	}

	model, err := svc.LoadSpreadsheet(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadSpreadsheet() error = %v", err)
	}
	if model.Snapshot().Title != "Manual" {
		t.Errorf("title = %q", model.Snapshot().Title)
	}
}

func TestSaveSpreadsheet_PublishFailureIsNonFatal(t *testing.T) {
	svc, _ := newService(t, &recordingPublisher{fail: true})
	if err := svc.SaveSpreadsheet(context.Background(), sheet.SpreadsheetData{ID: "s1"}); err != nil {
		t.Errorf("SaveSpreadsheet() error = %v, want nil despite publish failure", err)
	}
}

func TestLoadSpreadsheet_Unknown(t *testing.T) {
	svc, _ := newService(t, nil)
	_, err := svc.LoadSpreadsheet(context.Background(), "ghost")
	if !errors.Is(err, reports.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
