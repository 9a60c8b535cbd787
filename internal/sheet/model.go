package sheet

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tesouraria/internal/core"
)

var (
	ErrColumnNotFound     = errors.New("column not found")
	ErrColumnNotEditable  = errors.New("column is not editable")
	ErrColumnNotRemovable = errors.New("column is not removable")
	ErrRowNotFound        = errors.New("row not found")
	ErrNotCurrencyColumn  = errors.New("column does not hold currency values")
)

// DefaultColumnLabel is the label new custom columns start with.
const DefaultColumnLabel = "Nova Coluna"

// Row is one line of the grid. Income and expense are stored non-negative;
// the column implies the sign. Balance is never stored — see Balance().
// Custom holds values for user-added columns, keyed by column ID.
type Row struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Income      decimal.Decimal   `json:"income"`
	Expense     decimal.Decimal   `json:"expense"`
	Qty         int64             `json:"qty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// Balance is always income minus expense, recomputed on every read.
func (r Row) Balance() decimal.Decimal {
	return r.Income.Sub(r.Expense)
}

// CustomValue reads a user-column cell; missing keys read as empty.
func (r Row) CustomValue(columnID string) string {
	return r.Custom[columnID]
}

// SpreadsheetData is the persistable snapshot of a sheet, handed verbatim to
// the persistence and render collaborators.
type SpreadsheetData struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Logo       string      `json:"logo,omitempty"`
	Columns    []ColumnDef `json:"columns"`
	Rows       []Row       `json:"rows"`
	Signatures []string    `json:"signatures,omitempty"`
}

// Model is the mutable grid state owned by one editing session. All
// mutations go through its methods; concurrent sharing is the caller's
// problem, not the model's.
type Model struct {
	id         string
	title      string
	logo       string
	columns    []ColumnDef
	rows       []Row
	signatures []string

	sortKey string
	sortAsc bool

	codec *core.Codec
}

// New returns an empty freehand sheet with the built-in columns.
func New(codec *core.Codec) *Model {
	return &Model{
		id:      uuid.NewString(),
		columns: BuiltinColumns(),
		codec:   codec,
	}
}

// FromRanking seeds a sheet from an aggregated ranking, one row per church.
func FromRanking(codec *core.Codec, ranking core.Ranking) *Model {
	m := New(codec)
	m.title = ranking.Title
	m.rows = make([]Row, len(ranking.Rows))
	for i, rr := range ranking.Rows {
		m.rows[i] = Row{
			ID:          uuid.NewString(),
			Description: rr.Church,
			Income:      rr.Income,
			Expense:     rr.Expense,
			Qty:         int64(rr.Count),
		}
	}
	return m
}

// Load rebuilds a model from a previously saved snapshot. Snapshots missing
// columns (very old saves) get the built-in schema back.
func Load(codec *core.Codec, data SpreadsheetData) *Model {
	m := &Model{
		id:         data.ID,
		title:      data.Title,
		logo:       data.Logo,
		columns:    append([]ColumnDef(nil), data.Columns...),
		rows:       append([]Row(nil), data.Rows...),
		signatures: append([]string(nil), data.Signatures...),
		codec:      codec,
	}
	if m.id == "" {
		m.id = uuid.NewString()
	}
	if len(m.columns) == 0 {
		m.columns = BuiltinColumns()
	}
	for i := range m.rows {
		if m.rows[i].ID == "" {
			m.rows[i].ID = uuid.NewString()
		}
	}
	return m
}

func (m *Model) ID() string          { return m.id }
func (m *Model) Title() string       { return m.title }
func (m *Model) SetTitle(t string)   { m.title = t }
func (m *Model) SetLogo(logo string) { m.logo = logo }

// Columns returns a copy of the column definitions.
func (m *Model) Columns() []ColumnDef {
	return append([]ColumnDef(nil), m.columns...)
}

// Rows returns a copy of the current row list in display order.
func (m *Model) Rows() []Row {
	out := make([]Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = copyRow(r)
	}
	return out
}

func copyRow(r Row) Row {
	if r.Custom != nil {
		custom := make(map[string]string, len(r.Custom))
		for k, v := range r.Custom {
			custom[k] = v
		}
		r.Custom = custom
	}
	return r
}

func (m *Model) column(id string) (ColumnDef, bool) {
	for _, c := range m.columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnDef{}, false
}

func (m *Model) row(id string) (*Row, bool) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i], true
		}
	}
	return nil, false
}

// AddRow appends an empty row and returns its identifier. Custom columns
// start as empty strings so a freshly added row renders blank everywhere.
func (m *Model) AddRow() string {
	row := Row{ID: uuid.NewString()}
	for _, c := range m.columns {
		if c.Removable {
			if row.Custom == nil {
				row.Custom = make(map[string]string)
			}
			row.Custom[c.ID] = ""
		}
	}
	m.rows = append(m.rows, row)
	return row.ID
}

// AddColumn appends a text-typed, editable, removable column with a fresh
// identifier. Existing rows are not touched; their missing cells read empty.
func (m *Model) AddColumn() ColumnDef {
	col := ColumnDef{
		ID:        "col-" + uuid.NewString(),
		Label:     DefaultColumnLabel,
		Kind:      KindText,
		Editable:  true,
		Removable: true,
		Visible:   true,
	}
	m.columns = append(m.columns, col)
	return col
}

// RemoveColumn drops a removable column from the definition list. Row data
// stored under the column's key is kept: removal is non-destructive, and a
// later column with the same label will not resurrect it because identifiers
// never repeat.
func (m *Model) RemoveColumn(columnID string) error {
	for i, c := range m.columns {
		if c.ID != columnID {
			continue
		}
		if !c.Removable {
			return ErrColumnNotRemovable
		}
		m.columns = append(m.columns[:i], m.columns[i+1:]...)
		return nil
	}
	return ErrColumnNotFound
}

// RenameColumn changes a column's label; the identifier is stable.
func (m *Model) RenameColumn(columnID, label string) error {
	for i := range m.columns {
		if m.columns[i].ID == columnID {
			m.columns[i].Label = label
			return nil
		}
	}
	return ErrColumnNotFound
}

// EditCell stores entered text into one cell. Currency cells round-trip
// through the codec so the model always stores an amount, never the display
// string; number cells keep digits only; text cells store the raw text.
func (m *Model) EditCell(rowID, columnID, text string) error {
	col, ok := m.column(columnID)
	if !ok {
		return ErrColumnNotFound
	}
	if !col.Editable {
		return ErrColumnNotEditable
	}
	row, ok := m.row(rowID)
	if !ok {
		return ErrRowNotFound
	}

	switch col.Kind {
	case KindCurrency:
		// Snapshots can carry custom currency-kind columns; their amounts
		// live in Custom and must never spill into the builtin cells.
		amount := m.codec.Parse(text)
		switch columnID {
		case ColIncome:
			row.Income = amount
		case ColExpense:
			row.Expense = amount
		default:
			if row.Custom == nil {
				row.Custom = make(map[string]string)
			}
			row.Custom[columnID] = amount.String()
		}
	case KindNumber:
		row.Qty = digitsToInt(text)
	default:
		if columnID == ColDescription {
			row.Description = text
		} else {
			if row.Custom == nil {
				row.Custom = make(map[string]string)
			}
			row.Custom[columnID] = text
		}
	}
	return nil
}

func digitsToInt(text string) int64 {
	var n int64
	for _, r := range text {
		if r < '0' || r > '9' {
			continue
		}
		d := int64(r - '0')
		if n > (math.MaxInt64-d)/10 {
			// Clamp instead of wrapping into a negative quantity.
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}

// DeleteRow removes a row by identifier.
func (m *Model) DeleteRow(rowID string) error {
	for i := range m.rows {
		if m.rows[i].ID == rowID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

// Adjustment is a pending additive edit against one currency cell. The base
// value is captured when the adjustment opens; a concurrent edit to the same
// cell while the adjustment dialog is up must not leak into the result, so
// Confirm adds the delta to the captured base, not to a live re-read.
type Adjustment struct {
	RowID    string
	ColumnID string
	Base     decimal.Decimal
}

// BeginAdjustment opens a sum-into-cell operation, snapshotting the cell's
// current value. Only currency columns support additive adjustment.
func (m *Model) BeginAdjustment(rowID, columnID string) (Adjustment, error) {
	col, ok := m.column(columnID)
	if !ok {
		return Adjustment{}, ErrColumnNotFound
	}
	if col.Kind != KindCurrency {
		return Adjustment{}, ErrNotCurrencyColumn
	}
	row, ok := m.row(rowID)
	if !ok {
		return Adjustment{}, ErrRowNotFound
	}
	var base decimal.Decimal
	switch columnID {
	case ColIncome:
		base = row.Income
	case ColExpense:
		base = row.Expense
	default:
		// Custom currency cells store the amount's canonical string form;
		// an empty or malformed cell adjusts from zero.
		base, _ = decimal.NewFromString(row.CustomValue(columnID))
	}
	return Adjustment{RowID: rowID, ColumnID: columnID, Base: base}, nil
}

// Confirm applies a pending adjustment: the entered delta is parsed through
// the codec, added to the snapshotted base, and the sum replaces the cell.
func (m *Model) Confirm(adj Adjustment, deltaText string) error {
	row, ok := m.row(adj.RowID)
	if !ok {
		return ErrRowNotFound
	}
	total := adj.Base.Add(m.codec.Parse(deltaText))
	switch adj.ColumnID {
	case ColIncome:
		row.Income = total
	case ColExpense:
		row.Expense = total
	default:
		if row.Custom == nil {
			row.Custom = make(map[string]string)
		}
		row.Custom[adj.ColumnID] = total.String()
	}
	return nil
}

// SortBy sorts rows by the given column. Sorting the same column again
// toggles the direction; a different column resets to ascending. The sort is
// stable, string comparison is case-insensitive, and the balance key sorts
// by the live-computed income minus expense.
func (m *Model) SortBy(columnID string) {
	if columnID == ColIndex {
		return
	}
	if m.sortKey == columnID {
		m.sortAsc = !m.sortAsc
	} else {
		m.sortKey = columnID
		m.sortAsc = true
	}

	asc := m.sortAsc
	sort.SliceStable(m.rows, func(i, j int) bool {
		less := rowLess(m.rows[i], m.rows[j], columnID)
		if asc {
			return less
		}
		return rowLess(m.rows[j], m.rows[i], columnID)
	})
}

func rowLess(a, b Row, columnID string) bool {
	switch columnID {
	case ColIncome:
		return a.Income.LessThan(b.Income)
	case ColExpense:
		return a.Expense.LessThan(b.Expense)
	case ColBalance:
		return a.Balance().LessThan(b.Balance())
	case ColQty:
		return a.Qty < b.Qty
	case ColDescription:
		return strings.ToLower(a.Description) < strings.ToLower(b.Description)
	default:
		return strings.ToLower(a.Custom[columnID]) < strings.ToLower(b.Custom[columnID])
	}
}

// Snapshot returns a deep copy of the sheet for persistence or rendering.
func (m *Model) Snapshot() SpreadsheetData {
	return SpreadsheetData{
		ID:         m.id,
		Title:      m.title,
		Logo:       m.logo,
		Columns:    m.Columns(),
		Rows:       m.Rows(),
		Signatures: append([]string(nil), m.signatures...),
	}
}
