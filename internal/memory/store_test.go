package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"tesouraria/internal/core"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

func TestStore_ReportRoundTrip(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	report := reports.Report{
		ID:   "r1",
		Name: "Abril",
		Results: []core.MatchResult{
			{Transaction: core.Transaction{ID: "t1"}, Status: core.StatusIdentified},
		},
	}
	if err := s.SaveReport(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetReport(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Abril" || len(got.Results) != 1 {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned slice must not reach the store.
	got.Results[0].Status = core.StatusUnidentified
	again, _ := s.GetReport(ctx, "r1")
	if again.Results[0].Status != core.StatusIdentified {
		t.Error("store state aliased by caller")
	}

	if _, err := s.GetReport(ctx, "missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_ReportPointerFieldsCopied(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	amount := decimal.NewFromInt(75)
	expected := decimal.NewFromInt(30)
	report := reports.Report{
		ID: "r1",
		Results: []core.MatchResult{
			{
				Transaction:       core.Transaction{ID: "t1"},
				Contributor:       &core.Contributor{ID: "p1", Name: "Maria", Amount: &expected},
				ContributorAmount: &amount,
				Status:            core.StatusPending,
			},
		},
	}
	if err := s.SaveReport(ctx, report); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetReport(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Mutating through the returned pointers must not reach the store.
	got.Results[0].Contributor.Name = "mutated"
	*got.Results[0].Contributor.Amount = decimal.NewFromInt(999)
	*got.Results[0].ContributorAmount = decimal.NewFromInt(999)

	again, _ := s.GetReport(ctx, "r1")
	r := again.Results[0]
	if r.Contributor.Name != "Maria" {
		t.Errorf("contributor name aliased: %q", r.Contributor.Name)
	}
	if !r.Contributor.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("contributor amount aliased: %s", r.Contributor.Amount)
	}
	if !r.ContributorAmount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("contributorAmount aliased: %s", r.ContributorAmount)
	}

	// The writer's pointers must not reach stored state either.
	*report.Results[0].ContributorAmount = decimal.NewFromInt(1)
	again, _ = s.GetReport(ctx, "r1")
	if !again.Results[0].ContributorAmount.Equal(decimal.NewFromInt(75)) {
		t.Errorf("stored state aliased by writer: %s", again.Results[0].ContributorAmount)
	}
}

func TestStore_SpreadsheetCopies(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	data := sheet.SpreadsheetData{
		ID:      "s1",
		Title:   "Relatório",
		Columns: sheet.BuiltinColumns(),
		Rows:    []sheet.Row{{ID: "row1", Custom: map[string]string{"col-x": "norte"}}},
	}
	if err := s.SaveSpreadsheet(ctx, data); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Writer keeps mutating its copy after save.
	data.Rows[0].Custom["col-x"] = "mutated"

	got, err := s.GetSpreadsheet(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rows[0].Custom["col-x"] != "norte" {
		t.Errorf("saved data aliased by writer: %q", got.Rows[0].Custom["col-x"])
	}
}

func TestStore_Roster(t *testing.T) {
	s := New([]core.Church{{ID: "c1", Name: "Alpha"}})
	roster, err := s.ListChurches(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roster) != 1 || roster[0].Name != "Alpha" {
		t.Errorf("roster = %+v", roster)
	}

	s.SetRoster([]core.Church{{ID: "c1", Name: "Alpha Renamed"}})
	roster, _ = s.ListChurches(context.Background())
	if roster[0].Name != "Alpha Renamed" {
		t.Errorf("roster after SetRoster = %+v", roster)
	}
}

func TestNewFromFiles_DefaultsWhenMissing(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	roster, _ := s.ListChurches(context.Background())
	if len(roster) == 0 {
		t.Error("expected default roster")
	}
}
