// Package sink stores run results outside the engine.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yumyai/fe1/internal/util"
	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"github.com/yumyai/fe1/pkg/render"
	"go.uber.org/zap"
)

// Dir writes every run into <root>/<run_id>/ as the CSV table plus an HTML report.
type Dir struct {
	Root string
}

func NewDir(root string) (*Dir, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("result directory: %w", err)
	}
	return &Dir{Root: root}, nil
}

// Save leaves no run directory behind when it fails.
func (d *Dir) Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error) {
	runDir, err := d.runDir(summary.RunID)
	if err != nil {
		return nil, err
	}
	if err := util.EnsureDir(runDir); err != nil {
		return nil, err
	}

	csvPath := filepath.Join(runDir, render.TableFileName)
	if err := writeFile(csvPath, func(f *os.File) error { return render.RenderTableCSV(f, rows) }); err != nil {
		d.removeRunDir(runDir)
		return nil, err
	}

	htmlPath := filepath.Join(runDir, render.ReportFileName)
	if err := writeFile(htmlPath, func(f *os.File) error { return render.RenderReportHTML(f, summary, rows) }); err != nil {
		d.removeRunDir(runDir)
		return nil, err
	}

	logger.Debug("Results written", zap.String("dir", runDir))

	return &model.Report{
		Name:            "fe1_report_" + summary.RunID,
		ResultDirectory: runDir,
		CSVPath:         csvPath,
		HTMLPath:        htmlPath,
	}, nil
}

// Discard removes the directory of a run saved earlier.
func (d *Dir) Discard(ctx context.Context, runID string) error {
	runDir, err := d.runDir(runID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("remove %s: %w", runDir, err)
	}
	return nil
}

// A run id must name a single directory below the root.
func (d *Dir) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || filepath.Base(runID) != runID {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	return filepath.Join(d.Root, runID), nil
}

func (d *Dir) removeRunDir(runDir string) {
	if err := os.RemoveAll(runDir); err != nil {
		logger.Warn("Cannot remove incomplete run directory", zap.String("dir", runDir), zap.Error(err))
	}
}

func writeFile(path string, fill func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
