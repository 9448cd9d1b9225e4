// Package background decides the universe of features a run is measured against.
package background

import "github.com/yumyai/fe1/pkg/model"

// Compute returns the background feature ids.
//
// Without filtering this is every genome feature. With filtering it is the
// genome features that some feature set references, plus the foreground
// itself so the foreground always stays a subset of the background.
func Compute(genomeIDs []string, filter bool, referenced, foreground model.IDSet) model.IDSet {
	bg := make(model.IDSet, len(genomeIDs))

	for _, id := range genomeIDs {
		if filter && !referenced.Has(id) {
			continue
		}
		bg.Add(id)
	}

	if filter {
		for id := range foreground {
			bg.Add(id)
		}
	}

	return bg
}
