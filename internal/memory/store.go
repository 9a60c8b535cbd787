// Package memory provides an in-memory backend for local runs and tests.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tesouraria/internal/core"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

var ErrNotFound = reports.ErrNotFound

// Store keeps the roster, reports and spreadsheets in process memory. All
// reads hand out copies so callers can never alias internal state.
type Store struct {
	mu           sync.Mutex
	roster       []core.Church
	reports      map[string]reports.Report
	spreadsheets map[string]sheet.SpreadsheetData
}

func New(roster []core.Church) *Store {
	return &Store{
		roster:       append([]core.Church(nil), roster...),
		reports:      make(map[string]reports.Report),
		spreadsheets: make(map[string]sheet.SpreadsheetData),
	}
}

// NewFromFiles seeds the roster from data/seed_churches.txt, one church per
// line as "id;name;address;pastor". A missing file yields a small default
// roster so a fresh checkout still runs.
func NewFromFiles(base string) *Store {
	roster := readChurches(filepath.Join(base, "seed_churches.txt"))
	if len(roster) == 0 {
		roster = []core.Church{
			{ID: "sede", Name: "Sede Central"},
			{ID: "norte", Name: "Congregação Norte"},
			{ID: "sul", Name: "Congregação Sul"},
		}
	}
	return New(roster)
}

// ListChurches implements reports.RosterReader.
func (s *Store) ListChurches(_ context.Context) ([]core.Church, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Church(nil), s.roster...), nil
}

// SetRoster replaces the roster; used by tests to simulate roster drift
// between report save and reload.
func (s *Store) SetRoster(roster []core.Church) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append([]core.Church(nil), roster...)
}

// GetReport implements reports.ReportStore.
func (s *Store) GetReport(_ context.Context, id string) (reports.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return reports.Report{}, ErrNotFound
	}
	r.Results = copyResults(r.Results)
	return r, nil
}

// SaveReport implements reports.ReportStore.
func (s *Store) SaveReport(_ context.Context, r reports.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Results = copyResults(r.Results)
	s.reports[r.ID] = r
	return nil
}

// copyResults deep-copies the pointer fields too, so a caller mutating a
// returned record can never reach stored state.
func copyResults(results []core.MatchResult) []core.MatchResult {
	out := make([]core.MatchResult, len(results))
	for i, r := range results {
		if r.Contributor != nil {
			contributor := *r.Contributor
			if contributor.Church != nil {
				church := *contributor.Church
				contributor.Church = &church
			}
			if contributor.Amount != nil {
				amount := *contributor.Amount
				contributor.Amount = &amount
			}
			r.Contributor = &contributor
		}
		if r.ContributorAmount != nil {
			amount := *r.ContributorAmount
			r.ContributorAmount = &amount
		}
		out[i] = r
	}
	return out
}

// GetSpreadsheet implements reports.SpreadsheetStore.
func (s *Store) GetSpreadsheet(_ context.Context, id string) (sheet.SpreadsheetData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.spreadsheets[id]
	if !ok {
		return sheet.SpreadsheetData{}, ErrNotFound
	}
	return copySpreadsheet(data), nil
}

// SaveSpreadsheet implements reports.SpreadsheetStore.
func (s *Store) SaveSpreadsheet(_ context.Context, data sheet.SpreadsheetData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spreadsheets[data.ID] = copySpreadsheet(data)
	return nil
}

func copySpreadsheet(data sheet.SpreadsheetData) sheet.SpreadsheetData {
	out := data
	out.Columns = append([]sheet.ColumnDef(nil), data.Columns...)
	out.Signatures = append([]string(nil), data.Signatures...)
	out.Rows = make([]sheet.Row, len(data.Rows))
	for i, r := range data.Rows {
		row := r
		if r.Custom != nil {
			row.Custom = make(map[string]string, len(r.Custom))
			for k, v := range r.Custom {
				row.Custom[k] = v
			}
		}
		out.Rows[i] = row
	}
	return out
}

func readChurches(path string) []core.Church {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Church
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		c := core.Church{ID: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			c.Name = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			c.Address = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			c.Pastor = strings.TrimSpace(parts[3])
		}
		if c.ID != "" {
			out = append(out, c)
		}
	}
	return out
}
