package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// jobFilter parses the optional jobId query parameter.
func jobFilter(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("jobId")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid jobId: %w", err)
	}
	return &id, nil
}

func (h *Handler) listQuarantine(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.Records().ListQuarantined(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// correctRecord merges a JSON object of field values into the stored row.
// Non-string values are stringified, matching how cell values arrive from
// file parsing.
func (h *Handler) correctRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to correct")
		return
	}

	fields := make(map[string]string, len(payload))
	for column, value := range payload {
		fields[column] = stringifyCell(value)
	}

	updated, err := h.reval.CorrectRecord(r.Context(), id, fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) revalidateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	result, err := h.reval.RevalidateRow(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listClean(w http.ResponseWriter, r *http.Request) {
	jobID, err := jobFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, parseErr := strconv.Atoi(raw); parseErr == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.store.Records().ListClean(r.Context(), jobID, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func stringifyCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
