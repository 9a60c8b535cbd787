package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RankingRow is one church's aggregated position in the ranking report.
type RankingRow struct {
	ChurchID string          `json:"churchId"`
	Church   string          `json:"church"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
	Count    int             `json:"qty"`
}

// Ranking is the sorted per-church rollup of a report's match results.
type Ranking struct {
	Title string       `json:"title"`
	Rows  []RankingRow `json:"rows"`
	// Notice carries the "no qualifying data" message for empty results;
	// an empty ranking is a normal outcome, not an error.
	Notice string `json:"notice,omitempty"`
}

// DefaultRankingTitle is used when the report has no name.
const DefaultRankingTitle = "Ranking Financeiro"

// EmptyRankingNotice is surfaced when no record qualifies for aggregation.
const EmptyRankingNotice = "nenhum registro identificado para o ranking"

// recordAmount selects the value a record contributes, in priority order:
// the bank transaction amount when its absolute value is non-zero, then an
// explicit contributor amount override whenever one is present (an explicit
// zero counts as zero, it does not fall through), then the contributor's own
// expected amount, then zero.
func recordAmount(r MatchResult) decimal.Decimal {
	if !r.Transaction.Amount.IsZero() {
		return r.Transaction.Amount
	}
	if r.ContributorAmount != nil {
		return *r.ContributorAmount
	}
	if r.Contributor != nil && r.Contributor.Amount != nil {
		return *r.Contributor.Amount
	}
	return decimal.Zero
}

// Rank hydrates the results against the roster and aggregates them into a
// per-church ranking sorted by balance, highest first. Only records whose
// status is attributable (IDENTIFICADO or PENDENTE) and whose church
// resolved to a real identifier participate; everything else is excluded
// rather than lumped into a synthetic bucket.
//
// Churches with equal balances keep their first-seen order: downstream
// consumers treat ties as ranked by discovery, so the sort must be stable.
func Rank(results []MatchResult, roster []Church, reportName string) Ranking {
	hydrated := Hydrate(results, roster)

	byChurch := make(map[string]*RankingRow)
	var order []*RankingRow
	for _, r := range hydrated {
		if !r.Status.Attributable() {
			continue
		}
		if !r.Church.Resolved || r.Church.Church.ID == "" {
			continue
		}
		id := r.Church.Church.ID
		row, ok := byChurch[id]
		if !ok {
			// First-seen name wins for display.
			row = &RankingRow{ChurchID: id, Church: r.Church.Church.Name}
			byChurch[id] = row
			order = append(order, row)
		}
		row.Count++
		amount := recordAmount(r)
		if amount.IsPositive() {
			row.Income = row.Income.Add(amount)
		} else if amount.IsNegative() {
			row.Expense = row.Expense.Add(amount.Abs())
		}
	}

	for _, row := range order {
		row.Balance = row.Income.Sub(row.Expense)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Balance.GreaterThan(order[j].Balance)
	})

	ranking := Ranking{Title: DefaultRankingTitle}
	if reportName != "" {
		ranking.Title = "Ranking: " + reportName
	}
	if len(order) == 0 {
		ranking.Notice = EmptyRankingNotice
		ranking.Rows = []RankingRow{}
		return ranking
	}
	ranking.Rows = make([]RankingRow, len(order))
	for i, row := range order {
		ranking.Rows[i] = *row
	}
	return ranking
}
