package main

import (
	"mime"
	"net/http"

	"github.com/yumyai/fe1/pkg/handler"
)

func NewRouter(app *handler.AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// API routes
	mux.HandleFunc("GET /api/v1/health", handler.HealthCheck)
	mux.HandleFunc("POST /api/v1/enrichment", app.RunEnrichmentHandler)
	mux.HandleFunc("GET /api/v1/runs/{run_id}", app.GetRunHandler)

	// Object uploads
	mux.HandleFunc("POST /api/v1/workspaces/{workspace}/genomes/{name}", app.SaveGenomeHandler)
	mux.HandleFunc("POST /api/v1/workspaces/{workspace}/feature_sets/{name}", app.SaveFeatureSetHandler)

	// Reports
	setupResultFiles(mux, app.ResultsDir)

	return mux
}

// Written reports are served as static files under /results/<run_id>/.
func setupResultFiles(mux *http.ServeMux, dir string) {
	if dir == "" {
		return
	}
	_ = mime.AddExtensionType(".csv", "text/csv")
	fs := http.FileServer(http.Dir(dir))
	mux.Handle("GET /results/", http.StripPrefix("/results/", fs))
}
