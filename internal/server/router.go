package server

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/harn0ld/HackNation/internal/config"
)

// NewRouter wires the transport shell: API endpoints, raw CSV pass-through
// for the frontend fallback, the index file and an optional static mount.
func NewRouter(cfg *config.Config, h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/points", h.GetPoints)
	r.Get("/routes", h.GetRoutes)
	r.Post("/routes", h.AddRoute)
	r.Delete("/routes", h.DeleteRoute)
	r.Get("/route-geojson", h.GetRouteGeoJSON)
	r.Post("/reload-points", h.ReloadPoints)
	r.Get("/api/route-config", h.GetRouteConfig)

	// Raw CSV pass-through for the frontend fallback.
	r.Get("/points.csv", serveFile(cfg.PointsCSV, "text/csv"))
	r.Get("/database.csv", serveFile(cfg.DatabaseCSV, "text/csv"))

	r.Get("/", serveFile(cfg.IndexFile, ""))

	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	return r
}

// serveFile serves one file from disk, answering 404 when it is absent.
func serveFile(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(path); err != nil {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "file not found"})
			return
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		http.ServeFile(w, r, path)
	}
}
