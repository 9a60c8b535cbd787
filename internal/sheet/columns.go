// Package sheet implements the editable grid behind ranking and freehand
// reports: an owned column-definition list plus an owned row list, keyed by
// stable identifiers, with every mutation going through the model so derived
// values (balance, summary totals) can never go stale.
package sheet

// Kind describes how a column's cells are typed and edited.
type Kind string

const (
	KindIndex    Kind = "index"
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindCurrency Kind = "currency"
	KindComputed Kind = "computed"
)

// ColumnDef describes one grid column. Identity is the ID; the label is
// display-only and may be renamed freely.
type ColumnDef struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Kind      Kind   `json:"kind"`
	Editable  bool   `json:"editable"`
	Removable bool   `json:"removable"`
	Visible   bool   `json:"visible"`
}

// Built-in column identifiers. These columns exist in every sheet and are
// never removable. Balance is computed from income and expense on read and
// is never stored on a row.
const (
	ColIndex       = "index"
	ColDescription = "description"
	ColIncome      = "income"
	ColExpense     = "expense"
	ColBalance     = "balance"
	ColQty         = "qty"
)

// BuiltinColumns returns the fixed six-column schema shared by ranking
// reports and new freehand sheets.
func BuiltinColumns() []ColumnDef {
	return []ColumnDef{
		{ID: ColIndex, Label: "Nº", Kind: KindIndex, Visible: true},
		{ID: ColDescription, Label: "Descrição", Kind: KindText, Editable: true, Visible: true},
		{ID: ColIncome, Label: "Entradas", Kind: KindCurrency, Editable: true, Visible: true},
		{ID: ColExpense, Label: "Saídas", Kind: KindCurrency, Editable: true, Visible: true},
		{ID: ColBalance, Label: "Saldo", Kind: KindComputed, Visible: true},
		{ID: ColQty, Label: "Qtd.", Kind: KindNumber, Editable: true, Visible: true},
	}
}
