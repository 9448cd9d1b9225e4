// Package runner executes one enrichment run end to end: validate the
// request, index the genome, pick the background, score and store.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/background"
	"github.com/yumyai/fe1/pkg/enrich"
	"github.com/yumyai/fe1/pkg/model"
	"github.com/yumyai/fe1/pkg/ontology"
	"github.com/yumyai/fe1/pkg/validate"
	"go.uber.org/zap"
)

// ResultSink receives the ordered rows of a finished run.
type ResultSink interface {
	Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error)
}

type Result struct {
	Summary model.RunSummary      `json:"summary"`
	Rows    []model.EnrichmentRow `json:"rows"`
	Report  *model.Report         `json:"report,omitempty"`
}

type Runner struct {
	validator *validate.Validator
	sink      ResultSink
	defaults  validate.Defaults

	now   func() time.Time
	newID func() string
}

// New builds a runner. sink may be nil, in which case results are only returned.
func New(src validate.DataSource, sink ResultSink, defaults validate.Defaults) *Runner {
	return &Runner{
		validator: validate.NewValidator(src),
		sink:      sink,
		defaults:  defaults,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Run processes one request given as raw key/value parameters.
func (r *Runner) Run(ctx context.Context, raw map[string]any) (*Result, error) {
	params, err := validate.ParseParams(raw, r.defaults)
	if err != nil {
		return nil, err
	}

	runID := r.newID()
	logger.Info("Run started",
		zap.String("run_id", runID),
		zap.String("feature_set_ref", params.FeatureSetRef),
		zap.String("workspace_name", params.WorkspaceName),
		zap.Bool("propagation", params.Propagation),
		zap.Bool("filter_ref_features", params.FilterRefFeatures))

	resolved, err := r.validator.Resolve(ctx, params)
	if err != nil {
		logger.Warn("Run rejected", zap.String("run_id", runID), zap.Error(err))
		return nil, err
	}

	idx := ontology.Build(resolved.Features, params.Propagation)

	fg := model.NewIDSet(resolved.Foreground...)
	genomeIDs := make([]string, 0, len(resolved.Features))
	for _, f := range resolved.Features {
		genomeIDs = append(genomeIDs, f.ID)
	}
	bg := background.Compute(genomeIDs, params.FilterRefFeatures, resolved.Referenced, fg)

	scored, err := enrich.Run(fg, bg, idx)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Summary: model.RunSummary{
			RunID:             runID,
			FeatureSetRef:     validate.QualifyRef(params.FeatureSetRef, params.WorkspaceName),
			GenomeRef:         resolved.Genome.Ref,
			Workspace:         params.WorkspaceName,
			Propagation:       params.Propagation,
			FilterRefFeatures: params.FilterRefFeatures,
			TermsConsidered:   scored.TermsConsidered,
			TermsReported:     len(scored.Rows),
			ForegroundSize:    fg.Len(),
			BackgroundSize:    bg.Len(),
			CreatedAt:         r.now(),
		},
		Rows: scored.Rows,
	}

	if r.sink != nil {
		if res.Report, err = r.sink.Save(ctx, res.Summary, res.Rows); err != nil {
			logger.Error("Saving results failed", zap.String("run_id", runID), zap.Error(err))
			return nil, err
		}
	}

	logger.Info("Run finished",
		zap.String("run_id", runID),
		zap.Int("terms_reported", res.Summary.TermsReported),
		zap.Int("foreground", res.Summary.ForegroundSize),
		zap.Int("background", res.Summary.BackgroundSize))

	return res, nil
}
