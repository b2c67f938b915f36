package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler serves partition exports as CSV downloads.
type Handler struct {
	service *Service
}

// NewHTTPHandler wraps the service with a GET endpoint. The partition query
// parameter selects clean (default) or quarantine.
func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	partition := domain.PartitionClean
	switch r.URL.Query().Get("partition") {
	case "", string(domain.PartitionClean):
	case string(domain.PartitionQuarantine):
		partition = domain.PartitionQuarantine
	default:
		writeError(w, http.StatusBadRequest, "partition must be clean or quarantine")
		return
	}

	// Buffer the document so storage errors still produce a JSON error
	// instead of a truncated download.
	var buf bytes.Buffer
	filename, err := h.service.WriteCSV(r.Context(), &buf, jobID, partition)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
