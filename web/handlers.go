package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"markestedt/clipdrawer/storage"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to write response", "error", err)
	}
}

// historyAvailable reports 503 when history recording is disabled.
func (s *Server) historyAvailable(w http.ResponseWriter) bool {
	if s.db == nil {
		http.Error(w, "History is disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// handleConfig returns the effective configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.config
	writeJSON(w, struct {
		Hotkey         string `json:"hotkey"`
		Fullscreen     bool   `json:"fullscreen"`
		Borderless     bool   `json:"borderless"`
		Width          int    `json:"width"`
		Height         int    `json:"height"`
		Opacity        int    `json:"opacity"`
		PollIntervalMS int    `json:"pollIntervalMs"`
		HistoryEnabled bool   `json:"historyEnabled"`
		WebPort        int    `json:"webPort"`
		LogLevel       string `json:"logLevel"`
	}{
		Hotkey:         cfg.Overlay.Hotkey,
		Fullscreen:     cfg.Overlay.Fullscreen,
		Borderless:     cfg.Overlay.Borderless,
		Width:          cfg.Overlay.Width,
		Height:         cfg.Overlay.Height,
		Opacity:        cfg.Overlay.Opacity,
		PollIntervalMS: cfg.Menu.PollIntervalMS,
		HistoryEnabled: cfg.History.Enabled,
		WebPort:        s.port,
		LogLevel:       cfg.Log.Level,
	})
}

// handleRegisters returns the latest published register summaries
func (s *Server) handleRegisters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summaries, published := s.Registers()
	response := map[string]interface{}{
		"registers": nonNil(summaries),
	}
	if !published.IsZero() {
		response["updated"] = published
	}
	writeJSON(w, response)
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.historyAvailable(w) {
		return
	}

	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		s.handleStatsRange(w, q.Get("from"), q.Get("to"))
		return
	}

	days := 7 // default to 7 days
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	registers, err := s.db.GetRegisterStats(days)
	if err != nil {
		slog.Error("Failed to get register stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"days":      days,
		"overall":   overall,
		"daily":     daily,
		"registers": registers,
	})
}

const dateLayout = "2006-01-02"

// handleStatsRange returns overall stats between two calendar days (UTC),
// both inclusive. A missing end day means today.
func (s *Server) handleStatsRange(w http.ResponseWriter, from, to string) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		http.Error(w, "Invalid from date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if to != "" {
		if end, err = time.Parse(dateLayout, to); err != nil {
			http.Error(w, "Invalid to date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	if end.Before(start) {
		http.Error(w, "to date is before from date", http.StatusBadRequest)
		return
	}

	overall, err := s.db.GetStatsForDateRange(start, end.Add(24*time.Hour-time.Millisecond))
	if err != nil {
		slog.Error("Failed to get range stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"from":    start.Format(dateLayout),
		"to":      end.Format(dateLayout),
		"overall": overall,
	})
}

// handleHistory handles GET and DELETE requests for operation history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !s.historyAvailable(w) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetHistory(w, r)
	case http.MethodDelete:
		s.handleDeleteHistory(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetHistory returns paginated operation history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50 // default
	offset := 0

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, 500)
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	operations, err := s.db.GetOperations(limit, offset)
	if err != nil {
		slog.Error("Failed to get operations", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetOperationCount()
	if err != nil {
		slog.Error("Failed to get operation count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	if operations == nil {
		operations = []storage.Operation{}
	}
	writeJSON(w, map[string]interface{}{
		"operations": operations,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// handleDeleteHistory deletes an operation by ID (/api/history/123)
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if idStr == r.URL.Path || idStr == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteOperation(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Operation not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete operation", "error", err, "id", id)
		http.Error(w, "Failed to delete operation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "success"})
}

// handleStatus returns the current agent status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	status, overlay, count := s.status, s.overlay, len(s.registers)
	s.mu.RUnlock()

	response := map[string]interface{}{
		"status":           status,
		"registersInUse":   count,
		"historyEnabled":   s.db != nil,
		"connectedClients": s.hub.ClientCount(),
	}
	if overlay != nil {
		response["overlayVisible"] = overlay.Visible()
	}
	writeJSON(w, response)
}
