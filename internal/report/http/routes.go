// Package reporthttp exposes the report pipeline over HTTP: the JSON API,
// the server-rendered dashboard and the CSV/PDF exports.
package reporthttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers report endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/", h.handleHome)
	r.Route("/api", func(api chi.Router) {
		api.Get("/company", h.handleCompany)
		api.Get("/accounting", h.handleAccounting)
		api.Post("/generate-report", h.handleGenerate)
		api.Get("/report/{orgnr}", h.handleReportJSON)
	})
	r.Get("/report", h.handleSearch)
	r.Get("/report/{orgnr}", h.handleDashboard)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/report/{orgnr}/pdf", h.handlePDF)
		gr.Get("/report/{orgnr}/export.csv", h.handleCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
