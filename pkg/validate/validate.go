// Package validate checks a run request and resolves the objects it names.
package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yumyai/fe1/logger"
	"github.com/yumyai/fe1/pkg/model"
	"go.uber.org/zap"
)

// DataSource resolves genomes and feature sets. Unknown references must
// wrap model.ErrNotFound.
type DataSource interface {
	ResolveFeatureSet(ctx context.Context, ref string) (*model.FeatureSet, error)
	ResolveGenome(ctx context.Context, ref string) (*model.Genome, error)
	ListGenomeFeatures(ctx context.Context, genome *model.Genome) ([]model.Feature, error)
	ListFeatureSets(ctx context.Context, workspace string) ([]*model.FeatureSet, error)
}

// Resolved holds everything a run needs once the inputs checked out.
type Resolved struct {
	FeatureSet *model.FeatureSet
	Genome     *model.Genome
	Features   []model.Feature
	Foreground []string    // element order, deduplicated
	Referenced model.IDSet // only filled when ref-feature filtering is on
}

type Validator struct {
	src DataSource
}

func NewValidator(src DataSource) *Validator {
	return &Validator{src: src}
}

// QualifyRef prefixes a bare object name with the workspace.
func QualifyRef(ref, workspace string) string {
	if strings.Contains(ref, "/") {
		return ref
	}
	return workspace + "/" + ref
}

func (v *Validator) Resolve(ctx context.Context, p Params) (*Resolved, error) {
	fsRef := QualifyRef(p.FeatureSetRef, p.WorkspaceName)

	fs, err := v.src.ResolveFeatureSet(ctx, fsRef)
	if err != nil {
		return nil, fmt.Errorf("resolve feature set %s: %w", fsRef, err)
	}

	genomeRefs := fs.GenomeRefs()
	switch len(genomeRefs) {
	case 0:
		return nil, model.NewInputError("feature set %s contains no features", fsRef)
	case 1:
	default:
		return nil, model.NewInputError("feature set %s references more than one genome: %s",
			fsRef, strings.Join(genomeRefs, ", "))
	}
	genomeRef := genomeRefs[0]

	genome, err := v.src.ResolveGenome(ctx, genomeRef)
	if err != nil {
		return nil, fmt.Errorf("resolve genome %s: %w", genomeRef, err)
	}

	features, err := v.src.ListGenomeFeatures(ctx, genome)
	if err != nil {
		return nil, fmt.Errorf("list features of %s: %w", genomeRef, err)
	}
	if len(features) == 0 {
		return nil, model.NewInputError("No features in the referenced genome %s", genomeRef)
	}

	genomeIDs := make(model.IDSet, len(features))
	for _, f := range features {
		genomeIDs.Add(f.ID)
	}

	foreground := orderedElements(fs)
	if notPresent := model.NewIDSet(foreground...).Missing(genomeIDs); len(notPresent) > 0 {
		return nil, model.NewInputError(
			"feature set %s contains feature ids which are not present referenced genome %s: %s",
			fsRef, genomeRef, strings.Join(notPresent, ", "))
	}
	if len(foreground) == 0 {
		return nil, model.NewInputError("feature set %s contains no features", fsRef)
	}

	res := &Resolved{
		FeatureSet: fs,
		Genome:     genome,
		Features:   features,
		Foreground: foreground,
	}

	if p.FilterRefFeatures {
		if res.Referenced, err = v.referencedFeatures(ctx, p.WorkspaceName, genomeRef, fs); err != nil {
			return nil, err
		}
	}

	logger.Debug("Inputs resolved",
		zap.String("feature_set", fsRef),
		zap.String("genome", genomeRef),
		zap.Int("genome_features", len(features)),
		zap.Int("foreground", len(foreground)))

	return res, nil
}

// Union of the elements of every feature set in the workspace pointing at
// the genome, including the one under test.
func (v *Validator) referencedFeatures(ctx context.Context, workspace, genomeRef string, current *model.FeatureSet) (model.IDSet, error) {
	sets, err := v.src.ListFeatureSets(ctx, workspace)
	if err != nil {
		return nil, fmt.Errorf("list feature sets of %s: %w", workspace, err)
	}

	referenced := make(model.IDSet)
	for _, fs := range append(sets, current) {
		for _, id := range fs.ElementsFrom(genomeRef) {
			referenced.Add(id)
		}
	}
	return referenced, nil
}

// Ordered ids first, then elements the ordering left out, sorted.
func orderedElements(fs *model.FeatureSet) []string {
	seen := make(map[string]struct{}, len(fs.Elements))
	ids := make([]string, 0, len(fs.Elements))

	for _, id := range fs.ElementOrdering {
		if _, ok := fs.Elements[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	var rest []string
	for id := range fs.Elements {
		if _, ok := seen[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)

	return append(ids, rest...)
}
