// Package enrich computes per-term over-representation statistics.
package enrich

import (
	"fmt"
	"sort"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"github.com/yumyai/fe1/pkg/ontology"
	"go.uber.org/zap"
)

// TermIndex is the part of an ontology index the engine reads.
type TermIndex interface {
	AllTerms() []ontology.Term
	FeaturesForTerm(termID string) model.IDSet
}

type Result struct {
	Rows            []model.EnrichmentRow
	TermsConsidered int
}

// Run scores every term of idx against foreground within background.
//
// Terms absent from the background or from the foreground are skipped. Rows
// come back ordered by adjusted p-value, then raw p-value, then term id.
func Run(foreground, background model.IDSet, idx TermIndex) (*Result, error) {
	if foreground.Len() == 0 {
		return nil, model.NewInputError("cannot compute enrichment with no features of interest")
	}
	if missing := foreground.Missing(background); len(missing) > 0 {
		return nil, fmt.Errorf("foreground features outside of background: %v", missing)
	}

	n, N := foreground.Len(), background.Len()
	terms := idx.AllTerms()
	rows := make([]model.EnrichmentRow, 0, len(terms))

	for _, term := range terms {
		members := idx.FeaturesForTerm(term.ID)

		K := members.CountIn(background)
		if K == 0 {
			continue
		}
		k := members.CountIn(foreground)
		if k == 0 {
			continue
		}

		rows = append(rows, model.EnrichmentRow{
			TermID:          term.ID,
			TermName:        term.Name,
			Ontology:        term.Ontology,
			NumInFeatureSet: k,
			NumInRefGenome:  K,
			RawPValue:       HypergeomUpperTail(k, n, K, N),
		})
	}

	raw := make([]float64, len(rows))
	for i := range rows {
		raw[i] = rows[i].RawPValue
	}
	for i, adj := range BenjaminiHochberg(raw) {
		rows[i].AdjustedPValue = adj
	}

	sortRows(rows)

	logger.Debug("Enrichment computed",
		zap.Int("terms", len(terms)),
		zap.Int("retained", len(rows)),
		zap.Int("foreground", n),
		zap.Int("background", N))

	return &Result{Rows: rows, TermsConsidered: len(terms)}, nil
}

func sortRows(rows []model.EnrichmentRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AdjustedPValue != b.AdjustedPValue {
			return a.AdjustedPValue < b.AdjustedPValue
		}
		if a.RawPValue != b.RawPValue {
			return a.RawPValue < b.RawPValue
		}
		return a.TermID < b.TermID
	})
}
