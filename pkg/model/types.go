package model

import "time"

// TermAssignment ties one ontology term to a feature.
type TermAssignment struct {
	TermID   string   `json:"term_id"`
	TermName string   `json:"term_name"`
	Ontology string   `json:"ontology"`
	Lineage  []string `json:"lineage"` // ancestor term ids, same ontology
}

type Feature struct {
	ID    string           `json:"id"`
	Terms []TermAssignment `json:"terms"`
}

type Genome struct {
	Ref            string    `json:"ref"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientific_name"`
	Features       []Feature `json:"features,omitempty"`
}

// FeatureSet is the foreground of a run. Elements maps a feature id to the
// genome refs it originates from.
type FeatureSet struct {
	Ref             string              `json:"ref"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	ElementOrdering []string            `json:"element_ordering"`
	Elements        map[string][]string `json:"elements"`
}

// GenomeRefs returns the distinct genome refs referenced by the elements,
// sorted.
func (fs *FeatureSet) GenomeRefs() []string {
	seen := make(map[string]struct{})
	for _, refs := range fs.Elements {
		for _, r := range refs {
			seen[r] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ElementsFrom returns the ids of the elements that point at genomeRef, sorted.
func (fs *FeatureSet) ElementsFrom(genomeRef string) []string {
	ids := make(map[string]struct{})
	for id, refs := range fs.Elements {
		for _, r := range refs {
			if r == genomeRef {
				ids[id] = struct{}{}
				break
			}
		}
	}
	return sortedKeys(ids)
}

// Return from the engine, one per retained term
type EnrichmentRow struct {
	TermID          string  `json:"term_id"`
	TermName        string  `json:"term"`
	Ontology        string  `json:"ontology"`
	NumInFeatureSet int     `json:"num_in_feature_set"`
	NumInRefGenome  int     `json:"num_in_ref_genome"`
	RawPValue       float64 `json:"raw_p_value"`
	AdjustedPValue  float64 `json:"adjusted_p_value"`
}

type RunSummary struct {
	RunID             string    `json:"run_id"`
	FeatureSetRef     string    `json:"feature_set_ref"`
	GenomeRef         string    `json:"genome_ref"`
	Workspace         string    `json:"workspace_name"`
	Propagation       bool      `json:"propagation"`
	FilterRefFeatures bool      `json:"filter_ref_features"`
	TermsConsidered   int       `json:"terms_considered"`
	TermsReported     int       `json:"terms_reported"`
	ForegroundSize    int       `json:"foreground_size"`
	BackgroundSize    int       `json:"background_size"`
	CreatedAt         time.Time `json:"created_at"`
}

// Report describes where a sink put the results of a run.
type Report struct {
	Name            string `json:"report_name"`
	ResultDirectory string `json:"result_directory,omitempty"`
	CSVPath         string `json:"csv_path,omitempty"`
	HTMLPath        string `json:"html_path,omitempty"`
}
