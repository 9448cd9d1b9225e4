// Package ontology maps ontology terms to the genome features carrying them.
//
// Terms live in an arena indexed by term id. Lineage entries become parent
// edges, and propagation expands every direct assignment to the closure of
// its ancestors with an explicit worklist, so duplicate or cyclic lineage
// data cannot loop or double count.
package ontology

import (
	"sort"

	"github.com/yumyai/fe1/pkg/model"
)

type Term struct {
	ID       string
	Name     string
	Ontology string
}

type node struct {
	term     Term
	direct   bool  // seen as a direct assignment, not only in a lineage
	parents  []int // arena indices
	features model.IDSet
}

type Index struct {
	nodes        []*node
	byID         map[string]int
	featureTerms map[string]model.IDSet
}

// Build indexes the term assignments of features. With propagate set every
// feature also carries all ancestors of each of its terms.
func Build(features []model.Feature, propagate bool) *Index {
	idx := &Index{
		byID:         make(map[string]int),
		featureTerms: make(map[string]model.IDSet, len(features)),
	}

	// Pass 1: nodes and parent edges.
	for _, f := range features {
		for _, a := range f.Terms {
			child := idx.intern(a.TermID, a.TermName, a.Ontology, true)
			for _, anc := range a.Lineage {
				if anc == "" || anc == a.TermID {
					continue
				}
				parent := idx.intern(anc, "", a.Ontology, false)
				idx.addParent(child, parent)
			}
		}
	}

	// Pass 2: register features.
	for _, f := range features {
		for _, a := range f.Terms {
			start := idx.byID[a.TermID]
			if !propagate {
				idx.register(start, f.ID)
				continue
			}
			for _, n := range idx.closure(start) {
				idx.register(n, f.ID)
			}
		}
	}

	return idx
}

func (idx *Index) intern(id, name, ontology string, direct bool) int {
	if i, ok := idx.byID[id]; ok {
		n := idx.nodes[i]
		if direct && !n.direct {
			// A lineage-only placeholder gets its real name once assigned directly.
			n.direct = true
			n.term.Name = name
			n.term.Ontology = ontology
		} else if direct && n.term.Name == "" {
			n.term.Name = name
		}
		return i
	}

	idx.nodes = append(idx.nodes, &node{
		term:     Term{ID: id, Name: name, Ontology: ontology},
		direct:   direct,
		features: make(model.IDSet),
	})
	idx.byID[id] = len(idx.nodes) - 1
	return len(idx.nodes) - 1
}

func (idx *Index) addParent(child, parent int) {
	n := idx.nodes[child]
	for _, p := range n.parents {
		if p == parent {
			return
		}
	}
	n.parents = append(n.parents, parent)
}

// closure returns start and every node reachable through parent edges.
func (idx *Index) closure(start int) []int {
	visited := map[int]struct{}{start: {}}
	out := []int{start}
	stack := []int{start}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range idx.nodes[cur].parents {
			if _, ok := visited[p]; ok {
				continue
			}
			visited[p] = struct{}{}
			out = append(out, p)
			stack = append(stack, p)
		}
	}
	return out
}

func (idx *Index) register(i int, featureID string) {
	n := idx.nodes[i]
	n.features.Add(featureID)

	terms, ok := idx.featureTerms[featureID]
	if !ok {
		terms = make(model.IDSet)
		idx.featureTerms[featureID] = terms
	}
	terms.Add(n.term.ID)
}

// FeaturesForTerm returns the features carrying termID. The set is owned by
// the index and must not be modified.
func (idx *Index) FeaturesForTerm(termID string) model.IDSet {
	i, ok := idx.byID[termID]
	if !ok {
		return model.IDSet{}
	}
	return idx.nodes[i].features
}

// TermsForFeature returns the term ids carried by a feature, sorted.
func (idx *Index) TermsForFeature(featureID string) []string {
	return idx.featureTerms[featureID].Sorted()
}

// AllTerms returns every term that carries at least one feature, sorted by id.
func (idx *Index) AllTerms() []Term {
	terms := make([]Term, 0, len(idx.nodes))
	for _, n := range idx.nodes {
		if n.features.Len() == 0 {
			continue
		}
		terms = append(terms, n.term)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].ID < terms[j].ID })
	return terms
}
