package handler

// DI for all handlers.

import (
	"context"

	"github.com/yumyai/fe1/pkg/model"
	"github.com/yumyai/fe1/pkg/runner"
)

type Runner interface {
	Run(ctx context.Context, raw map[string]any) (*runner.Result, error)
}

// ObjectStore accepts uploaded objects and serves stored runs.
type ObjectStore interface {
	SaveGenome(ctx context.Context, workspace, name string, genome *model.Genome) (string, error)
	SaveFeatureSet(ctx context.Context, workspace, name string, fs *model.FeatureSet) (string, error)
	GetRun(ctx context.Context, runID string) (*model.RunSummary, []model.EnrichmentRow, error)
}

type AppContext struct {
	Runner     Runner
	Store      ObjectStore
	ResultsDir string
}
