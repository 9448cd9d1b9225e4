package handler

import (
	"net/http"
	"strings"

	"github.com/yumyai/fe1/pkg/handler/request"
	"github.com/yumyai/fe1/pkg/model"
)

// POST /api/v1/workspaces/{workspace}/genomes/{name}
func (app *AppContext) SaveGenomeHandler(w http.ResponseWriter, r *http.Request) {

	workspace, name, ok := objectPath(w, r)
	if !ok {
		return
	}

	genome, err := model.DecodeGenomeObject(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, request.ErrorResponse{Error: err.Error()})
		return
	}

	ref, err := app.Store.SaveGenome(r.Context(), workspace, name, genome)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request.ObjectResponse{Ref: ref})
}

// POST /api/v1/workspaces/{workspace}/feature_sets/{name}
func (app *AppContext) SaveFeatureSetHandler(w http.ResponseWriter, r *http.Request) {

	workspace, name, ok := objectPath(w, r)
	if !ok {
		return
	}

	fs, err := model.DecodeFeatureSetObject(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, request.ErrorResponse{Error: err.Error()})
		return
	}

	ref, err := app.Store.SaveFeatureSet(r.Context(), workspace, name, fs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request.ObjectResponse{Ref: ref})
}

func objectPath(w http.ResponseWriter, r *http.Request) (workspace, name string, ok bool) {
	workspace = strings.TrimSpace(r.PathValue("workspace"))
	name = strings.TrimSpace(r.PathValue("name"))

	if workspace == "" || name == "" || strings.Contains(workspace, "/") || strings.Contains(name, "/") {
		writeJSON(w, http.StatusBadRequest, request.ErrorResponse{Error: "Missing or invalid workspace or object name"})
		return "", "", false
	}
	return workspace, name, true
}
