package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/store"
)

// #region payloads

type turnRequest struct {
	Text string `json:"text"`
}

// turnResponse is a coach reply plus the ids a client needs to follow up.
type turnResponse struct {
	SessionID string `json:"session_id"`
	TurnID    string `json:"turn_id,omitempty"`
	coach.Response
}

type sessionSummary struct {
	ID        string `json:"id"`
	Coach     string `json:"coach"`
	Sessions  int    `json:"sessions"`
	Iteration int    `json:"iteration"`
	UpdatedAt string `json:"updated_at"`
}

func newTurnResponse(id string, resp coach.Response) turnResponse {
	out := turnResponse{SessionID: id, Response: resp}
	if resp.Turn != nil {
		out.TurnID = resp.Turn.ID
	}
	return out
}

// #endregion

// #region helpers

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Error(w, http.StatusNotFound, "session not found")
	case errors.Is(err, coach.ErrNoResponse):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		Error(w, http.StatusInternalServerError, "internal error")
	}
}

// #endregion

// #region handlers

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"status": "ok", "live_sessions": s.mgr.Live()})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id, greeting, err := s.mgr.Create(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	JSON(w, http.StatusCreated, newTurnResponse(id, greeting))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	recs, err := s.mgr.Sessions(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]sessionSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, sessionSummary{
			ID:        rec.ID,
			Coach:     rec.Coach,
			Sessions:  rec.State.Sessions,
			Iteration: rec.State.Iteration,
			UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	JSON(w, http.StatusOK, out)
}

func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req turnRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		Error(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			Error(w, http.StatusBadRequest, "body must be {\"text\": \"...\"}")
			return
		}
	}

	resp, err := s.mgr.Turn(r.Context(), id, req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	JSON(w, http.StatusOK, newTurnResponse(id, resp))
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	report, err := s.mgr.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	JSON(w, http.StatusOK, report)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// #endregion
