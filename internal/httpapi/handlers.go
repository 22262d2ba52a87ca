package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"willena/internal/events"
	"willena/internal/logger"
	"willena/internal/model"
	"willena/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) progressSummary(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	category, ok := parseCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "category must be wordlist, grammar or phonics")
		return
	}

	resp := h.svc.Progress(r.Context(), userID, category)
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) starCounts(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, h.svc.StarCounts(r.Context(), userID))
}

func (h *Handler) challengingWords(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	writeJSON(w, http.StatusOK, h.svc.ChallengingWords(r.Context(), userID))
}

// eventRows serves raw rows in the same shape the upstream event-store API
// returns, so an instance with a local store can stand in as that upstream.
func (h *Handler) eventRows(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	section := events.Section(strings.TrimSpace(r.URL.Query().Get("section")))

	var rows any
	var err error
	switch section {
	case events.SectionSessions:
		rows, err = h.svc.SessionRows(r.Context(), userID)
	case events.SectionAttempts:
		rows, err = h.svc.AttemptRows(r.Context(), userID)
	default:
		writeError(w, http.StatusBadRequest, "section must be sessions or attempts")
		return
	}
	if err != nil {
		h.writeServiceError(w, "eventRows", err, "user_id", userID, "section", string(section))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) recordAttempt(w http.ResponseWriter, r *http.Request) {
	var req service.RecordAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("recordAttempt decode error", "error", err)
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	attempt, err := h.svc.RecordAttempt(req)
	if err != nil {
		h.writeServiceError(w, "recordAttempt", err, "user_id", req.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req service.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("startSession decode error", "error", err)
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	sess, err := h.svc.StartSession(req)
	if err != nil {
		h.writeServiceError(w, "startSession", err, "user_id", req.UserID)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	var req service.CloseSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("closeSession decode error", "error", err)
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	sess, err := h.svc.CloseSession(req)
	if err != nil {
		h.writeServiceError(w, "closeSession", err, "session_id", req.SessionID)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error, keysAndValues ...any) {
	switch {
	case errors.Is(err, service.ErrUserIDRequired),
		errors.Is(err, service.ErrModeRequired),
		errors.Is(err, service.ErrWordRequired),
		errors.Is(err, service.ErrSessionRequired):
		h.log.Warn(op+" bad request", append(keysAndValues, "error", err)...)
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		h.log.Warn(op+" not found", append(keysAndValues, "error", err)...)
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		h.log.Warn(op+" unavailable", append(keysAndValues, "error", err)...)
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error(op+" internal error", append(keysAndValues, "error", err)...)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseCategory(raw string) (model.ListType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case string(model.ListTypeWordlist):
		return model.ListTypeWordlist, true
	case string(model.ListTypeGrammar):
		return model.ListTypeGrammar, true
	case string(model.ListTypePhonics):
		return model.ListTypePhonics, true
	default:
		return "", false
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
