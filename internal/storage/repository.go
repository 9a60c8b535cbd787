// Package storage implements the persistence collaborator on SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tesouraria/internal/core"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned for unknown report or spreadsheet identifiers.
var ErrNotFound = reports.ErrNotFound

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListChurches implements reports.RosterReader.
func (r *SQLiteRepository) ListChurches(ctx context.Context) ([]core.Church, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, pastor, logo_url FROM churches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list churches: %w", err)
	}
	defer rows.Close()

	var roster []core.Church
	for rows.Next() {
		var c core.Church
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Pastor, &c.LogoURL); err != nil {
			return nil, fmt.Errorf("scan church: %w", err)
		}
		roster = append(roster, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate churches: %w", err)
	}
	return roster, nil
}

// UpsertChurch inserts or updates one roster entry.
func (r *SQLiteRepository) UpsertChurch(ctx context.Context, c core.Church) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO churches (id, name, address, pastor, logo_url)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   address = excluded.address,
		   pastor = excluded.pastor,
		   logo_url = excluded.logo_url`,
		c.ID, c.Name, c.Address, c.Pastor, c.LogoURL)
	if err != nil {
		return fmt.Errorf("upsert church %s: %w", c.ID, err)
	}
	return nil
}

// DeleteChurch removes a roster entry. Reports referencing it keep working:
// hydration synthesizes a stand-in from the recovered name.
func (r *SQLiteRepository) DeleteChurch(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM churches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete church %s: %w", id, err)
	}
	return nil
}

// GetReport implements reports.ReportStore. The stored blob is decoded here
// so every consumer sees typed match results regardless of which client
// version wrote the report.
func (r *SQLiteRepository) GetReport(ctx context.Context, id string) (reports.Report, error) {
	var (
		report  reports.Report
		blob    []byte
		created time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, results, created_at FROM reports WHERE id = ?`, id).
		Scan(&report.ID, &report.Name, &blob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return reports.Report{}, ErrNotFound
	}
	if err != nil {
		return reports.Report{}, fmt.Errorf("get report %s: %w", id, err)
	}
	report.CreatedAt = created

	results, err := reports.DecodeResults(blob)
	if err != nil {
		return reports.Report{}, fmt.Errorf("decode report %s: %w", id, err)
	}
	report.Results = results
	return report, nil
}

// SaveReport implements reports.ReportStore.
func (r *SQLiteRepository) SaveReport(ctx context.Context, report reports.Report) error {
	blob, err := json.Marshal(report.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reports (id, name, results)
		 VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, results = excluded.results`,
		report.ID, report.Name, string(blob))
	if err != nil {
		return fmt.Errorf("save report %s: %w", report.ID, err)
	}

	slog.InfoContext(ctx, "Report saved",
		"id", report.ID,
		"name", report.Name,
		"results", len(report.Results))
	return nil
}

// GetSpreadsheet implements reports.SpreadsheetStore.
func (r *SQLiteRepository) GetSpreadsheet(ctx context.Context, id string) (sheet.SpreadsheetData, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM spreadsheets WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return sheet.SpreadsheetData{}, ErrNotFound
	}
	if err != nil {
		return sheet.SpreadsheetData{}, fmt.Errorf("get spreadsheet %s: %w", id, err)
	}

	var data sheet.SpreadsheetData
	if err := json.Unmarshal(blob, &data); err != nil {
		return sheet.SpreadsheetData{}, fmt.Errorf("decode spreadsheet %s: %w", id, err)
	}
	if data.ID == "" {
		data.ID = id
	}
	return data, nil
}

// SaveSpreadsheet implements reports.SpreadsheetStore. The snapshot is
// stored verbatim; nothing is derived or normalized on the way in.
func (r *SQLiteRepository) SaveSpreadsheet(ctx context.Context, data sheet.SpreadsheetData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode spreadsheet: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO spreadsheets (id, title, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   data = excluded.data,
		   updated_at = CURRENT_TIMESTAMP`,
		data.ID, data.Title, string(blob))
	if err != nil {
		return fmt.Errorf("save spreadsheet %s: %w", data.ID, err)
	}

	slog.InfoContext(ctx, "Spreadsheet saved",
		"id", data.ID,
		"title", data.Title,
		"rows", len(data.Rows))
	return nil
}

// ListSpreadsheetIDs returns all saved spreadsheet identifiers, oldest
// update first. The export worker uses it for its periodic catch-up pass.
func (r *SQLiteRepository) ListSpreadsheetIDs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM spreadsheets ORDER BY updated_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list spreadsheets: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan spreadsheet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spreadsheets: %w", err)
	}
	return ids, nil
}
