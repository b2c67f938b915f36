package httpapi

import (
	"net/http"
	"strconv"
)

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	jobs, err := h.store.Jobs().List(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "jobID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.store.Jobs().GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// jobColumns returns the header order captured at upload time, so clients can
// render rows in their original shape.
func (h *Handler) jobColumns(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "jobID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.store.Jobs().GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"columns": job.ColumnOrder,
	})
}

func (h *Handler) jobLogs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "jobID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	if _, err := h.store.Jobs().GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	entries, err := h.store.Logs().ListByJob(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) revalidateJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "jobID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	result, err := h.reval.RevalidateJob(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
