// Package api exposes the JSON HTTP surface over the repositories and the
// import pipeline.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/strengthlog/internal/domain"
	"example.com/strengthlog/internal/importer"
)

// defaultUserID is the single-user stand-in; authentication is out of
// scope, so every request acts as this user.
const defaultUserID = 1

// Resetter truncates all data and provisions a fresh user.
type Resetter interface {
	Reset(ctx context.Context) (domain.User, error)
}

// Handler coordinates HTTP requests with the repositories and pipeline.
type Handler struct {
	activities  domain.ActivitiesRepository
	events      domain.ActivityEventsRepository
	users       domain.UsersRepository
	importer    *importer.Importer
	fetcher     importer.Fetcher
	maintenance Resetter
}

// NewHandler builds a Handler.
func NewHandler(
	activities domain.ActivitiesRepository,
	events domain.ActivityEventsRepository,
	users domain.UsersRepository,
	imp *importer.Importer,
	fetcher importer.Fetcher,
	maintenance Resetter,
) *Handler {
	return &Handler{
		activities:  activities,
		events:      events,
		users:       users,
		importer:    imp,
		fetcher:     fetcher,
		maintenance: maintenance,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.root)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/api/activities", h.activitiesRoute)
	mux.HandleFunc("/api/activity_events", h.listActivityEvents)
	mux.HandleFunc("/db/import", h.runImport)
	mux.HandleFunc("/db/reset", h.reset)
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Server is up."))
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activitiesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listActivities(w, r)
	case http.MethodPost:
		h.createActivity(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Find(r.Context(), defaultUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	activities, err := h.activities.FetchFor(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) createActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.NewActivity
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "name is required")
		return
	}
	if req.UserID == 0 {
		req.UserID = defaultUserID
	}

	// Explicit creation path: no find-or-create here; duplicates are
	// rejected by the storage constraint.
	activity, err := h.activities.Create(r.Context(), req, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

func (h *Handler) listActivityEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	events, err := h.events.Fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) runImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, err := h.resolveImportUser(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	sheet, err := h.fetcher.Fetch(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "upstream_failure", err.Error())
		return
	}

	summary, err := h.importer.Run(r.Context(), user, sheet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// resolveImportUser finds the stand-in user, creating it on first use.
func (h *Handler) resolveImportUser(ctx context.Context) (domain.User, error) {
	user, err := h.users.Find(ctx, defaultUserID)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return h.users.Create(ctx)
	}
	return domain.User{}, err
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	user, err := h.maintenance.Reset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
