package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRank_AggregatesPerChurch(t *testing.T) {
	// Two identified records for the same church: one income, one expense.
	results := []MatchResult{
		{
			Transaction: Transaction{ID: "t1", Amount: dec("500")},
			Church:      ResolvedRef(Church{ID: "c1", Name: "Alpha"}),
			Status:      StatusIdentified,
		},
		{
			Transaction: Transaction{ID: "t2", Amount: dec("-200")},
			Church:      ResolvedRef(Church{ID: "c1"}),
			Status:      StatusIdentified,
		},
	}
	roster := []Church{{ID: "c1", Name: "Alpha"}}

	ranking := Rank(results, roster, "")
	if len(ranking.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ranking.Rows))
	}
	row := ranking.Rows[0]
	if row.Church != "Alpha" {
		t.Errorf("church = %q, want Alpha", row.Church)
	}
	if !row.Income.Equal(dec("500")) || !row.Expense.Equal(dec("200")) {
		t.Errorf("income/expense = %s/%s, want 500/200", row.Income, row.Expense)
	}
	if !row.Balance.Equal(dec("300")) {
		t.Errorf("balance = %s, want 300", row.Balance)
	}
	if row.Count != 2 {
		t.Errorf("count = %d, want 2", row.Count)
	}
}

func TestRank_ExcludesNonAttributableStatuses(t *testing.T) {
	church := ResolvedRef(Church{ID: "c1", Name: "Alpha"})
	results := []MatchResult{
		{Transaction: Transaction{Amount: dec("100")}, Church: church, Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("900")}, Church: church, Status: StatusUnidentified},
		{Transaction: Transaction{Amount: dec("900")}, Church: church, Status: "rejeitado"},
	}

	ranking := Rank(results, []Church{{ID: "c1", Name: "Alpha"}}, "")
	if len(ranking.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ranking.Rows))
	}
	if !ranking.Rows[0].Income.Equal(dec("100")) {
		t.Errorf("income = %s, want 100 (excluded statuses leaked in)", ranking.Rows[0].Income)
	}
	if ranking.Rows[0].Count != 1 {
		t.Errorf("count = %d, want 1", ranking.Rows[0].Count)
	}
}

func TestRank_ExcludesUnresolvedChurches(t *testing.T) {
	results := []MatchResult{
		{Transaction: Transaction{Amount: dec("100")}, Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("100")}, LegacyChurchID: "unk", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("100")}, LegacyChurchID: "placeholder", Status: StatusPending},
	}

	ranking := Rank(results, nil, "")
	if len(ranking.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(ranking.Rows))
	}
	if ranking.Notice != EmptyRankingNotice {
		t.Errorf("notice = %q, want %q", ranking.Notice, EmptyRankingNotice)
	}
}

func TestRank_AmountPriority(t *testing.T) {
	church := ResolvedRef(Church{ID: "c1", Name: "Alpha"})
	contributorAmount := dec("75")
	cases := []struct {
		name   string
		record MatchResult
		income string
	}{
		{
			// A non-zero transaction amount beats an explicit override.
			name: "transaction amount wins",
			record: MatchResult{
				Transaction:       Transaction{Amount: dec("50")},
				ContributorAmount: &contributorAmount,
				Church:            church,
				Status:            StatusIdentified,
			},
			income: "50",
		},
		{
			name: "contributorAmount when transaction is zero",
			record: MatchResult{
				Transaction:       Transaction{},
				ContributorAmount: &contributorAmount,
				Church:            church,
				Status:            StatusPending,
			},
			income: "75",
		},
		{
			// An explicit zero override is authoritative: the contributor's
			// own expected amount must not be attributed in its place.
			name: "explicit zero contributorAmount blocks fallback",
			record: MatchResult{
				Transaction:       Transaction{},
				ContributorAmount: decPtr("0"),
				Contributor:       &Contributor{ID: "p1", Amount: decPtr("30")},
				Church:            church,
				Status:            StatusPending,
			},
			income: "0",
		},
		{
			name: "contributor amount as last resort",
			record: MatchResult{
				Transaction: Transaction{},
				Contributor: &Contributor{ID: "p1", Amount: decPtr("30")},
				Church:      church,
				Status:      StatusPending,
			},
			income: "30",
		},
		{
			name: "zero when nothing available",
			record: MatchResult{
				Transaction: Transaction{},
				Church:      church,
				Status:      StatusIdentified,
			},
			income: "0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ranking := Rank([]MatchResult{tc.record}, []Church{{ID: "c1", Name: "Alpha"}}, "")
			if len(ranking.Rows) != 1 {
				t.Fatalf("got %d rows, want 1", len(ranking.Rows))
			}
			if !ranking.Rows[0].Income.Equal(dec(tc.income)) {
				t.Errorf("income = %s, want %s", ranking.Rows[0].Income, tc.income)
			}
			// Zero amounts still count the record.
			if ranking.Rows[0].Count != 1 {
				t.Errorf("count = %d, want 1", ranking.Rows[0].Count)
			}
		})
	}
}

func TestRank_SortsByBalanceDescending(t *testing.T) {
	roster := []Church{{ID: "c1", Name: "Alpha"}, {ID: "c2", Name: "Beta"}, {ID: "c3", Name: "Gamma"}}
	results := []MatchResult{
		{Transaction: Transaction{Amount: dec("100")}, LegacyChurchID: "c1", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("300")}, LegacyChurchID: "c2", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("200")}, LegacyChurchID: "c3", Status: StatusIdentified},
	}

	ranking := Rank(results, roster, "")
	got := []string{ranking.Rows[0].Church, ranking.Rows[1].Church, ranking.Rows[2].Church}
	want := []string{"Beta", "Gamma", "Alpha"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRank_SortIsStableOnTies(t *testing.T) {
	roster := []Church{{ID: "c1", Name: "Alpha"}, {ID: "c2", Name: "Beta"}, {ID: "c3", Name: "Gamma"}}
	// Alpha and Gamma tie; Alpha was seen first and must stay ahead.
	results := []MatchResult{
		{Transaction: Transaction{Amount: dec("100")}, LegacyChurchID: "c1", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("500")}, LegacyChurchID: "c2", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("100")}, LegacyChurchID: "c3", Status: StatusIdentified},
	}

	ranking := Rank(results, roster, "")
	got := []string{ranking.Rows[0].Church, ranking.Rows[1].Church, ranking.Rows[2].Church}
	want := []string{"Beta", "Alpha", "Gamma"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRank_FirstSeenNameWins(t *testing.T) {
	// Synthesized churches may carry different recovered names for the same
	// id; the first one seen is the display name.
	results := []MatchResult{
		{Transaction: Transaction{Amount: dec("10")}, LegacyChurchID: "c9", LegacyChurchName: "First Name", Status: StatusIdentified},
		{Transaction: Transaction{Amount: dec("10")}, LegacyChurchID: "c9", LegacyChurchName: "Second Name", Status: StatusIdentified},
	}

	ranking := Rank(results, nil, "")
	if len(ranking.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(ranking.Rows))
	}
	if ranking.Rows[0].Church != "First Name" {
		t.Errorf("church name = %q, want First Name", ranking.Rows[0].Church)
	}
}

func TestRank_Title(t *testing.T) {
	cases := []struct {
		reportName string
		want       string
	}{
		{"Março 2026", "Ranking: Março 2026"},
		{"", DefaultRankingTitle},
	}
	for _, tc := range cases {
		ranking := Rank(nil, nil, tc.reportName)
		if ranking.Title != tc.want {
			t.Errorf("title for %q = %q, want %q", tc.reportName, ranking.Title, tc.want)
		}
	}
}
