package sink

import (
	"context"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"go.uber.org/zap"
)

// Saver is anything that accepts the results of a run.
type Saver interface {
	Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error)
}

// Discarder is a Saver that can take back a run it already saved.
type Discarder interface {
	Discard(ctx context.Context, runID string) error
}

// Multi hands a run to each saver in turn and stops at the first error.
// On error the savers that already succeeded discard the run, newest first,
// so a failed run is not kept anywhere.
// Report fields are filled from the first saver that sets them.
type Multi []Saver

func (m Multi) Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error) {
	merged := &model.Report{}

	for i, s := range m {
		r, err := s.Save(ctx, summary, rows)
		if err != nil {
			m[:i].discard(ctx, summary.RunID)
			return nil, err
		}
		if r == nil {
			continue
		}
		if merged.Name == "" {
			merged.Name = r.Name
		}
		if merged.ResultDirectory == "" {
			merged.ResultDirectory = r.ResultDirectory
			merged.CSVPath = r.CSVPath
			merged.HTMLPath = r.HTMLPath
		}
	}
	return merged, nil
}

// The caller's context may already be cancelled, so cleanup runs on its own.
func (m Multi) discard(ctx context.Context, runID string) {
	ctx = context.WithoutCancel(ctx)
	for i := len(m) - 1; i >= 0; i-- {
		d, ok := m[i].(Discarder)
		if !ok {
			continue
		}
		if err := d.Discard(ctx, runID); err != nil {
			logger.Error("Discarding failed run", zap.String("run_id", runID), zap.Error(err))
		}
	}
}
