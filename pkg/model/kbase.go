// Decoding of workspace-style genome and feature set objects

package model

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

type kbaseTerm struct {
	ID          string   `json:"id"`
	TermName    string   `json:"term_name"`
	TermLineage []string `json:"term_lineage"`
	OntologyRef string   `json:"ontology_ref"`
}

type kbaseFeature struct {
	ID            string                          `json:"id"`
	Type          string                          `json:"type"`
	Function      string                          `json:"function"`
	OntologyTerms map[string]map[string]kbaseTerm `json:"ontology_terms"`
}

type kbaseGenome struct {
	ID             string         `json:"id"`
	ScientificName string         `json:"scientific_name"`
	Features       []kbaseFeature `json:"features"`
}

type kbaseFeatureSet struct {
	Description     string              `json:"description"`
	ElementOrdering []string            `json:"element_ordering"`
	Elements        map[string][]string `json:"elements"`
}

// DecodeGenomeObject reads a genome object with per-feature ontology_terms.
func DecodeGenomeObject(r io.Reader) (*Genome, error) {
	var obj kbaseGenome
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode genome object: %w", err)
	}

	genome := &Genome{
		Name:           obj.ID,
		ScientificName: obj.ScientificName,
		Features:       make([]Feature, 0, len(obj.Features)),
	}

	seen := make(map[string]struct{}, len(obj.Features))
	for _, kf := range obj.Features {
		if kf.ID == "" {
			return nil, NewInputError("genome object contains a feature without id")
		}
		if _, dup := seen[kf.ID]; dup {
			return nil, NewInputError("genome object contains duplicate feature id %s", kf.ID)
		}
		seen[kf.ID] = struct{}{}
		genome.Features = append(genome.Features, Feature{ID: kf.ID, Terms: flattenTerms(kf.OntologyTerms)})
	}

	return genome, nil
}

// Ontology name first, then term id, so the order never depends on map iteration.
func flattenTerms(byOntology map[string]map[string]kbaseTerm) []TermAssignment {
	ontologies := make([]string, 0, len(byOntology))
	for name := range byOntology {
		ontologies = append(ontologies, name)
	}
	sort.Strings(ontologies)

	var terms []TermAssignment
	for _, ont := range ontologies {
		ids := make([]string, 0, len(byOntology[ont]))
		for id := range byOntology[ont] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			kt := byOntology[ont][id]
			termID := kt.ID
			if termID == "" {
				termID = id
			}
			terms = append(terms, TermAssignment{
				TermID:   termID,
				TermName: kt.TermName,
				Ontology: ont,
				Lineage:  kt.TermLineage,
			})
		}
	}
	return terms
}

func DecodeFeatureSetObject(r io.Reader) (*FeatureSet, error) {
	var obj kbaseFeatureSet
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode feature set object: %w", err)
	}
	if obj.Elements == nil {
		obj.Elements = map[string][]string{}
	}
	return &FeatureSet{
		Description:     obj.Description,
		ElementOrdering: obj.ElementOrdering,
		Elements:        obj.Elements,
	}, nil
}
