package request

import "github.com/yumyai/fe1/pkg/model"

// Response of a finished enrichment run
type RunResponse struct {
	RunID           string                `json:"run_id"`
	ReportName      string                `json:"report_name"`
	ResultDirectory string                `json:"result_directory,omitempty"`
	Summary         model.RunSummary      `json:"summary"`
	Rows            []model.EnrichmentRow `json:"rows"`
}

// Response of a stored object upload
type ObjectResponse struct {
	Ref string `json:"ref"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
