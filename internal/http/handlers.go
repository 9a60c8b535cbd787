package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tesouraria/internal/core"
	"tesouraria/internal/reports"
	"tesouraria/internal/sheet"
)

const maxBodyBytes = 4 << 20 // 4MB; result batches can be large

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListChurches(w http.ResponseWriter, r *http.Request) {
	roster, err := s.service.Churches(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list churches", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list churches")
		return
	}
	if roster == nil {
		roster = []core.Church{}
	}
	writeJSON(w, http.StatusOK, roster)
}

// rankingResponse is the full report payload: the aggregated rows, the
// column schema a sheet seeded from it will carry, and the footer totals.
type rankingResponse struct {
	Title   string             `json:"title"`
	Notice  string             `json:"notice,omitempty"`
	Columns []sheet.ColumnDef  `json:"columns"`
	Rows    []core.RankingRow  `json:"rows"`
	Summary rankingSummaryJSON `json:"summary"`
}

type rankingSummaryJSON struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
	Qty     int64  `json:"qty"`
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")

	ranking, err := s.service.BuildRanking(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to build ranking",
			"report_id", reportID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to load report")
		return
	}

	model := sheet.FromRanking(s.service.Codec(), ranking)
	summary := sheet.Summarize(model.Rows())

	writeJSON(w, http.StatusOK, rankingResponse{
		Title:   ranking.Title,
		Notice:  ranking.Notice,
		Columns: model.Columns(),
		Rows:    ranking.Rows,
		Summary: rankingSummaryJSON{
			Income:  summary.Income.String(),
			Expense: summary.Expense.String(),
			Balance: summary.Balance().String(),
			Qty:     summary.Qty,
		},
	})
}

// saveReportRequest accepts the persistence collaborator's shape: results as
// a typed array or as a string-encoded blob.
type saveReportRequest struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Results json.RawMessage `json:"results"`
}

func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req saveReportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	results, err := reports.DecodeResults(req.Results)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid results blob")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	report := reports.Report{
		ID:        req.ID,
		Name:      req.Name,
		Results:   results,
		CreatedAt: time.Now(),
	}
	if err := s.service.SaveReport(r.Context(), report); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save report",
			"report_id", report.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": report.ID})
}

func (s *Server) handleGetSpreadsheet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	model, err := s.service.LoadSpreadsheet(r.Context(), id)
	if err != nil {
		if errors.Is(err, reports.ErrNotFound) {
			writeError(w, http.StatusNotFound, "spreadsheet not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to load spreadsheet",
			"spreadsheet_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load spreadsheet")
		return
	}

	snapshot := model.Snapshot()
	summary := sheet.Summarize(snapshot.Rows)
	writeJSON(w, http.StatusOK, map[string]any{
		"spreadsheet": snapshot,
		"summary": rankingSummaryJSON{
			Income:  summary.Income.String(),
			Expense: summary.Expense.String(),
			Balance: summary.Balance().String(),
			Qty:     summary.Qty,
		},
	})
}

func (s *Server) handleSaveSpreadsheet(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var data sheet.SpreadsheetData
	if err := json.Unmarshal(body, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if data.ID == "" {
		data.ID = uuid.NewString()
	}

	if err := s.service.SaveSpreadsheet(r.Context(), data); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save spreadsheet",
			"spreadsheet_id", data.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save spreadsheet")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": data.ID})
}
