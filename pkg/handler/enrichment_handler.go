package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/handler/request"
	"github.com/yumyai/fe1/pkg/middle"
	"github.com/yumyai/fe1/pkg/model"
	"go.uber.org/zap"
)

// POST /api/v1/enrichment, body is the raw run parameters.
func (app *AppContext) RunEnrichmentHandler(w http.ResponseWriter, r *http.Request) {

	var params map[string]any

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, request.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if params == nil {
		params = map[string]any{}
	}

	res, err := app.Runner.Run(r.Context(), params)
	if err != nil {
		middle.Logger(r.Context(), logger.L()).Info("Enrichment failed", zap.Error(err))
		writeError(w, err)
		return
	}

	resp := request.RunResponse{
		RunID:   res.Summary.RunID,
		Summary: res.Summary,
		Rows:    res.Rows,
	}
	if res.Report != nil {
		resp.ReportName = res.Report.Name
		resp.ResultDirectory = res.Report.ResultDirectory
	}

	writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/runs/{run_id}
func (app *AppContext) GetRunHandler(w http.ResponseWriter, r *http.Request) {

	runID := r.PathValue("run_id")

	summary, rows, err := app.Store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, request.RunResponse{
		RunID:      summary.RunID,
		ReportName: "fe1_report_" + summary.RunID,
		Summary:    *summary,
		Rows:       rows,
	})
}

// Input errors are the caller's fault and shown verbatim.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case model.IsInputError(err):
		writeJSON(w, http.StatusBadRequest, request.ErrorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, request.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, request.ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response failed", zap.Error(err))
	}
}
