// Package httpapi exposes the REST surface: rule management, job inspection,
// partition listings and the correction/revalidation workflow.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/repository"
	"github.com/rowguard/rowguard/internal/revalidation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler serves the REST endpoints backed by the store.
type Handler struct {
	store repository.Store
	reval *revalidation.Service
}

// NewHandler creates the REST handler.
func NewHandler(store repository.Store, reval *revalidation.Service) *Handler {
	return &Handler{store: store, reval: reval}
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// idParam parses a UUID path parameter.
func idParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// writeStoreError maps storage errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
