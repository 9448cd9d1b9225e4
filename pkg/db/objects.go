// Genome and feature set objects: upload and resolution

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"go.uber.org/zap"
)

// SaveGenome stores genome under workspace/name, replacing any previous
// version, and returns its ref.
func (s *Store) SaveGenome(ctx context.Context, workspace, name string, genome *model.Genome) (string, error) {
	ref := Ref(workspace, name)

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM genomes WHERE ref = ?`,
			`DELETE FROM features WHERE genome_ref = ?`,
			`DELETE FROM term_assignments WHERE genome_ref = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, ref); err != nil {
				return fmt.Errorf("clear genome %s: %w", ref, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO genomes (ref, workspace, name, scientific_name) VALUES (?, ?, ?, ?)`,
			ref, workspace, name, genome.ScientificName); err != nil {
			return fmt.Errorf("insert genome: %w", err)
		}

		featStm, err := tx.PrepareContext(ctx, `INSERT INTO features (genome_ref, feature_id, position) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer featStm.Close()

		termStm, err := tx.PrepareContext(ctx, `
			INSERT INTO term_assignments (genome_ref, feature_id, position, ontology, term_id, term_name, lineage)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer termStm.Close()

		for i, f := range genome.Features {
			if _, err := featStm.ExecContext(ctx, ref, f.ID, i); err != nil {
				return fmt.Errorf("insert feature %s: %w", f.ID, err)
			}
			for j, t := range f.Terms {
				lineage, err := json.Marshal(nonNil(t.Lineage))
				if err != nil {
					return err
				}
				if _, err := termStm.ExecContext(ctx, ref, f.ID, j, t.Ontology, t.TermID, t.TermName, string(lineage)); err != nil {
					return fmt.Errorf("insert term %s of %s: %w", t.TermID, f.ID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("Genome saved", zap.String("ref", ref), zap.Int("features", len(genome.Features)))
	return ref, nil
}

func (s *Store) SaveFeatureSet(ctx context.Context, workspace, name string, fs *model.FeatureSet) (string, error) {
	ref := Ref(workspace, name)

	ordering, err := json.Marshal(nonNil(fs.ElementOrdering))
	if err != nil {
		return "", err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM feature_sets WHERE ref = ?`, ref); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM feature_set_elements WHERE feature_set_ref = ?`, ref); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO feature_sets (ref, workspace, name, description, element_ordering) VALUES (?, ?, ?, ?, ?)`,
			ref, workspace, name, fs.Description, string(ordering)); err != nil {
			return fmt.Errorf("insert feature set: %w", err)
		}

		stm, err := tx.PrepareContext(ctx, `INSERT INTO feature_set_elements (feature_set_ref, feature_id, genome_ref) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stm.Close()

		for id, genomeRefs := range fs.Elements {
			for _, g := range genomeRefs {
				if _, err := stm.ExecContext(ctx, ref, id, g); err != nil {
					return fmt.Errorf("insert element %s: %w", id, err)
				}
			}
			if len(genomeRefs) == 0 {
				// keep the element even when it names no genome
				if _, err := stm.ExecContext(ctx, ref, id, ""); err != nil {
					return fmt.Errorf("insert element %s: %w", id, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("Feature set saved", zap.String("ref", ref), zap.Int("elements", len(fs.Elements)))
	return ref, nil
}

func (s *Store) ResolveFeatureSet(ctx context.Context, ref string) (*model.FeatureSet, error) {
	fs := &model.FeatureSet{Ref: ref, Elements: map[string][]string{}}
	var ordering string

	err := s.db.QueryRowContext(ctx,
		`SELECT name, description, element_ordering FROM feature_sets WHERE ref = ?`, ref).
		Scan(&fs.Name, &fs.Description, &ordering)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feature set %s: %w", ref, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query feature set %s: %w", ref, err)
	}

	if err := json.Unmarshal([]byte(ordering), &fs.ElementOrdering); err != nil {
		return nil, fmt.Errorf("feature set %s has a corrupt element ordering: %w", ref, err)
	}
	if err := s.loadElements(ctx, fs); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *Store) loadElements(ctx context.Context, fs *model.FeatureSet) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT feature_id, genome_ref FROM feature_set_elements WHERE feature_set_ref = ? ORDER BY rowid`, fs.Ref)
	if err != nil {
		return fmt.Errorf("query elements of %s: %w", fs.Ref, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, genomeRef string
		if err := rows.Scan(&id, &genomeRef); err != nil {
			return fmt.Errorf("failed to scan element row: %w", err)
		}
		if genomeRef == "" {
			if _, ok := fs.Elements[id]; !ok {
				fs.Elements[id] = []string{}
			}
			continue
		}
		fs.Elements[id] = append(fs.Elements[id], genomeRef)
	}
	return rows.Err()
}

func (s *Store) ResolveGenome(ctx context.Context, ref string) (*model.Genome, error) {
	g := &model.Genome{Ref: ref}

	err := s.db.QueryRowContext(ctx,
		`SELECT name, scientific_name FROM genomes WHERE ref = ?`, ref).Scan(&g.Name, &g.ScientificName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("genome %s: %w", ref, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query genome %s: %w", ref, err)
	}
	return g, nil
}

// ListGenomeFeatures returns the features of genome in upload order with
// their term assignments.
func (s *Store) ListGenomeFeatures(ctx context.Context, genome *model.Genome) ([]model.Feature, error) {
	const q = `
		SELECT f.feature_id, ta.ontology, ta.term_id, ta.term_name, ta.lineage
		FROM features f
		LEFT JOIN term_assignments ta
		  ON ta.genome_ref = f.genome_ref AND ta.feature_id = f.feature_id
		WHERE f.genome_ref = ?
		ORDER BY f.position, ta.position
	`

	rows, err := s.db.QueryContext(ctx, q, genome.Ref)
	if err != nil {
		return nil, fmt.Errorf("query features of %s: %w", genome.Ref, err)
	}
	defer rows.Close()

	features := make([]model.Feature, 0, 64)
	for rows.Next() {
		var featureID string
		var ontology, termID, termName, lineage sql.NullString
		if err := rows.Scan(&featureID, &ontology, &termID, &termName, &lineage); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}

		if len(features) == 0 || features[len(features)-1].ID != featureID {
			features = append(features, model.Feature{ID: featureID})
		}
		if !termID.Valid {
			continue
		}

		t := model.TermAssignment{TermID: termID.String, TermName: termName.String, Ontology: ontology.String}
		if err := json.Unmarshal([]byte(lineage.String), &t.Lineage); err != nil {
			return nil, fmt.Errorf("term %s of %s has a corrupt lineage: %w", termID.String, featureID, err)
		}
		cur := &features[len(features)-1]
		cur.Terms = append(cur.Terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return features, nil
}

func (s *Store) ListFeatureSets(ctx context.Context, workspace string) ([]*model.FeatureSet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ref FROM feature_sets WHERE workspace = ? ORDER BY ref`, workspace)
	if err != nil {
		return nil, fmt.Errorf("query feature sets of %s: %w", workspace, err)
	}

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			rows.Close()
			return nil, err
		}
		refs = append(refs, ref)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One connection: the ref cursor must be closed before loading each set.
	sets := make([]*model.FeatureSet, 0, len(refs))
	for _, ref := range refs {
		fs, err := s.ResolveFeatureSet(ctx, ref)
		if err != nil {
			return nil, err
		}
		sets = append(sets, fs)
	}
	return sets, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
