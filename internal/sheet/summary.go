package sheet

import "github.com/shopspring/decimal"

// Summary holds the footer totals for a row set.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Qty     int64           `json:"qty"`
}

// Balance is derived at display time, never stored.
func (s Summary) Balance() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// Summarize folds the row set into totals. It is a pure function of the rows
// passed in, so the footer can never disagree with the visible grid.
func Summarize(rows []Row) Summary {
	var s Summary
	for _, r := range rows {
		s.Income = s.Income.Add(r.Income)
		s.Expense = s.Expense.Add(r.Expense)
		s.Qty += r.Qty
	}
	return s
}
