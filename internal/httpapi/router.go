package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts every REST endpoint on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.health)

	r.Route("/rules", func(r chi.Router) {
		r.Get("/", h.listRules)
		r.Post("/", h.createRule)
		r.Post("/seed", h.seedRules)
		r.Put("/{ruleID}", h.updateRule)
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.listJobs)
		r.Route("/{jobID}", func(r chi.Router) {
			r.Get("/", h.getJob)
			r.Get("/columns", h.jobColumns)
			r.Get("/logs", h.jobLogs)
			r.Post("/revalidate", h.revalidateJob)
		})
	})

	r.Route("/quarantine", func(r chi.Router) {
		r.Get("/", h.listQuarantine)
		r.Put("/{recordID}", h.correctRecord)
		r.Post("/{recordID}/revalidate", h.revalidateRecord)
	})

	r.Get("/clean", h.listClean)
}
