package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yumyai/fe1/pkg/model"
)

// Save records a finished run. It implements the runner's result sink.
func (s *Store) Save(ctx context.Context, summary model.RunSummary, rows []model.EnrichmentRow) (*model.Report, error) {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs (run_id, feature_set_ref, genome_ref, workspace, propagation, filter_ref_features,
				terms_considered, terms_reported, foreground_size, background_size, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			summary.RunID, summary.FeatureSetRef, summary.GenomeRef, summary.Workspace,
			summary.Propagation, summary.FilterRefFeatures,
			summary.TermsConsidered, summary.TermsReported, summary.ForegroundSize, summary.BackgroundSize,
			summary.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert run %s: %w", summary.RunID, err)
		}

		stm, err := tx.PrepareContext(ctx, `
			INSERT INTO run_rows (run_id, position, term_id, term_name, ontology,
				num_in_feature_set, num_in_ref_genome, raw_p_value, adjusted_p_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stm.Close()

		for i, r := range rows {
			if _, err := stm.ExecContext(ctx, summary.RunID, i, r.TermID, r.TermName, r.Ontology,
				r.NumInFeatureSet, r.NumInRefGenome, r.RawPValue, r.AdjustedPValue); err != nil {
				return fmt.Errorf("insert row %s: %w", r.TermID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.Report{Name: "fe1_report_" + summary.RunID}, nil
}

// Discard deletes a stored run and its rows. Unknown runs are not an error.
func (s *Store) Discard(ctx context.Context, runID string) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM run_rows WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete rows of %s: %w", runID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete run %s: %w", runID, err)
		}
		return nil
	})
}

// GetRun loads a stored run with its rows in output order.
func (s *Store) GetRun(ctx context.Context, runID string) (*model.RunSummary, []model.EnrichmentRow, error) {
	var sum model.RunSummary
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, feature_set_ref, genome_ref, workspace, propagation, filter_ref_features,
			terms_considered, terms_reported, foreground_size, background_size, created_at
		FROM runs WHERE run_id = ?`, runID).Scan(
		&sum.RunID, &sum.FeatureSetRef, &sum.GenomeRef, &sum.Workspace, &sum.Propagation, &sum.FilterRefFeatures,
		&sum.TermsConsidered, &sum.TermsReported, &sum.ForegroundSize, &sum.BackgroundSize, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("run %s: %w", runID, model.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, nil, fmt.Errorf("run %s has a corrupt timestamp: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT term_id, term_name, ontology, num_in_feature_set, num_in_ref_genome, raw_p_value, adjusted_p_value
		FROM run_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("query rows of %s: %w", runID, err)
	}
	defer rows.Close()

	result := make([]model.EnrichmentRow, 0, sum.TermsReported)
	for rows.Next() {
		var r model.EnrichmentRow
		if err := rows.Scan(&r.TermID, &r.TermName, &r.Ontology, &r.NumInFeatureSet, &r.NumInRefGenome,
			&r.RawPValue, &r.AdjustedPValue); err != nil {
			return nil, nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		result = append(result, r)
	}
	return &sum, result, rows.Err()
}
