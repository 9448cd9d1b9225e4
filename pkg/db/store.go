package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yumyai/fe1/logger"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS genomes (
		ref             TEXT PRIMARY KEY,
		workspace       TEXT NOT NULL,
		name            TEXT NOT NULL,
		scientific_name TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS features (
		genome_ref TEXT NOT NULL,
		feature_id TEXT NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (genome_ref, feature_id)
	);
	CREATE TABLE IF NOT EXISTS term_assignments (
		genome_ref TEXT NOT NULL,
		feature_id TEXT NOT NULL,
		position   INTEGER NOT NULL,
		ontology   TEXT NOT NULL,
		term_id    TEXT NOT NULL,
		term_name  TEXT NOT NULL DEFAULT '',
		lineage    TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS term_assignments_feature ON term_assignments (genome_ref, feature_id);
	CREATE TABLE IF NOT EXISTS feature_sets (
		ref              TEXT PRIMARY KEY,
		workspace        TEXT NOT NULL,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		element_ordering TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS feature_sets_workspace ON feature_sets (workspace);
	CREATE TABLE IF NOT EXISTS feature_set_elements (
		feature_set_ref TEXT NOT NULL,
		feature_id      TEXT NOT NULL,
		genome_ref      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS feature_set_elements_set ON feature_set_elements (feature_set_ref);
	CREATE TABLE IF NOT EXISTS runs (
		run_id              TEXT PRIMARY KEY,
		feature_set_ref     TEXT NOT NULL,
		genome_ref          TEXT NOT NULL,
		workspace           TEXT NOT NULL,
		propagation         INTEGER NOT NULL,
		filter_ref_features INTEGER NOT NULL,
		terms_considered    INTEGER NOT NULL,
		terms_reported      INTEGER NOT NULL,
		foreground_size     INTEGER NOT NULL,
		background_size     INTEGER NOT NULL,
		created_at          TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS run_rows (
		run_id             TEXT NOT NULL,
		position           INTEGER NOT NULL,
		term_id            TEXT NOT NULL,
		term_name          TEXT NOT NULL,
		ontology           TEXT NOT NULL,
		num_in_feature_set INTEGER NOT NULL,
		num_in_ref_genome  INTEGER NOT NULL,
		raw_p_value        REAL NOT NULL,
		adjusted_p_value   REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);
`

// Store keeps genomes, feature sets and finished runs in SQLite. It serves
// as the data source and as a result sink of the enrichment runner.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("Open database on", zap.String("DB_LOC", path))
	return store, nil
}

// NewStore wraps an open handle and makes sure the schema exists.
func NewStore(db *sql.DB) (*Store, error) {
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ref builds the reference of an object stored in a workspace.
func Ref(workspace, name string) string {
	return workspace + "/" + name
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
