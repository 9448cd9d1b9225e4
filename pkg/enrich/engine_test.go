package enrich

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/fe1/pkg/model"
	"github.com/yumyai/fe1/pkg/ontology"
)

func TestHypergeomUpperTail(t *testing.T) {
	tests := []struct {
		name       string
		k, n, K, N int
		expected   float64
	}{
		{name: "SingleFeature", k: 1, n: 1, K: 1, N: 1, expected: 1},
		{name: "AllDrawn", k: 2, n: 2, K: 2, N: 4, expected: 1.0 / 6},
		{name: "AtLeastOne", k: 1, n: 2, K: 2, N: 4, expected: 5.0 / 6},
		{name: "ZeroObserved", k: 0, n: 3, K: 2, N: 10, expected: 1},
		{name: "Impossible", k: 3, n: 2, K: 5, N: 10, expected: 0},
		{name: "Rare", k: 3, n: 3, K: 3, N: 10, expected: 1.0 / 120},
		{name: "ForcedMinimum", k: 1, n: 9, K: 2, N: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HypergeomUpperTail(tt.k, tt.n, tt.K, tt.N)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestBenjaminiHochberg(t *testing.T) {
	raw := []float64{0.01, 0.04, 0.03, 0.5}
	adj := BenjaminiHochberg(raw)

	require.Len(t, adj, 4)
	assert.InDelta(t, 0.04, adj[0], 1e-12)
	assert.InDelta(t, 0.04*4/3, adj[1], 1e-12)
	assert.InDelta(t, 0.04*4/3, adj[2], 1e-12)
	assert.InDelta(t, 0.5, adj[3], 1e-12)

	for i := range raw {
		assert.GreaterOrEqual(t, adj[i], raw[i])
		assert.LessOrEqual(t, adj[i], 1.0)
	}
}

func TestBenjaminiHochberg_Caps(t *testing.T) {
	adj := BenjaminiHochberg([]float64{0.9, 0.95, 1})
	for _, v := range adj {
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Empty(t, BenjaminiHochberg(nil))
}

func engineIndex() *ontology.Index {
	term := func(id string) model.TermAssignment {
		return model.TermAssignment{TermID: id, TermName: "name " + id, Ontology: "GO"}
	}
	return ontology.Build([]model.Feature{
		{ID: "f1", Terms: []model.TermAssignment{term("T1"), term("T2")}},
		{ID: "f2", Terms: []model.TermAssignment{term("T1")}},
		{ID: "f3", Terms: []model.TermAssignment{term("T2"), term("T3")}},
		{ID: "f4", Terms: []model.TermAssignment{term("T3")}},
		{ID: "f5", Terms: []model.TermAssignment{term("T4")}},
	}, false)
}

func TestRun(t *testing.T) {
	fg := model.NewIDSet("f1", "f2")
	bg := model.NewIDSet("f1", "f2", "f3", "f4")

	res, err := Run(fg, bg, engineIndex())
	require.NoError(t, err)

	assert.Equal(t, 4, res.TermsConsidered)
	require.Len(t, res.Rows, 2)

	first, second := res.Rows[0], res.Rows[1]
	assert.Equal(t, "T1", first.TermID)
	assert.Equal(t, "name T1", first.TermName)
	assert.Equal(t, "GO", first.Ontology)
	assert.Equal(t, 2, first.NumInFeatureSet)
	assert.Equal(t, 2, first.NumInRefGenome)
	assert.InDelta(t, 1.0/6, first.RawPValue, 1e-12)
	assert.InDelta(t, 1.0/3, first.AdjustedPValue, 1e-12)

	assert.Equal(t, "T2", second.TermID)
	assert.Equal(t, 1, second.NumInFeatureSet)
	assert.InDelta(t, 5.0/6, second.RawPValue, 1e-12)
	assert.InDelta(t, 5.0/6, second.AdjustedPValue, 1e-12)
}

func TestRun_RowInvariants(t *testing.T) {
	fg := model.NewIDSet("f1", "f3")
	bg := model.NewIDSet("f1", "f2", "f3", "f4", "f5")

	res, err := Run(fg, bg, engineIndex())
	require.NoError(t, err)
	require.NotEmpty(t, res.Rows)

	for i, row := range res.Rows {
		assert.True(t, row.NumInFeatureSet > 0 && row.NumInFeatureSet <= row.NumInRefGenome, row.TermID)
		assert.True(t, row.RawPValue >= 0 && row.RawPValue <= row.AdjustedPValue && row.AdjustedPValue <= 1, row.TermID)
		if i > 0 {
			assert.LessOrEqual(t, res.Rows[i-1].AdjustedPValue, row.AdjustedPValue)
		}
	}
}

func TestRun_TiesOrderedByTermID(t *testing.T) {
	term := func(id string) model.TermAssignment { return model.TermAssignment{TermID: id, Ontology: "GO"} }
	idx := ontology.Build([]model.Feature{
		{ID: "a", Terms: []model.TermAssignment{term("GO:3"), term("GO:1"), term("GO:2")}},
	}, false)

	res, err := Run(model.NewIDSet("a"), model.NewIDSet("a"), idx)
	require.NoError(t, err)

	var ids []string
	for _, r := range res.Rows {
		ids = append(ids, r.TermID)
		assert.Equal(t, 1.0, r.RawPValue)
		assert.Equal(t, 1.0, r.AdjustedPValue)
	}
	assert.Equal(t, []string{"GO:1", "GO:2", "GO:3"}, ids)
}

func TestRun_Deterministic(t *testing.T) {
	fg := model.NewIDSet("f1", "f3", "f5")
	bg := model.NewIDSet("f1", "f2", "f3", "f4", "f5")

	first, err := Run(fg, bg, engineIndex())
	require.NoError(t, err)
	second, err := Run(fg, bg, engineIndex())
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
}

func TestRun_EmptyForeground(t *testing.T) {
	_, err := Run(model.IDSet{}, model.NewIDSet("f1"), engineIndex())
	require.Error(t, err)
	assert.True(t, model.IsInputError(err))
}

func TestRun_ForegroundOutsideBackground(t *testing.T) {
	_, err := Run(model.NewIDSet("f9"), model.NewIDSet("f1"), engineIndex())
	require.Error(t, err)
	assert.False(t, model.IsInputError(err))
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(math.NaN()))
	assert.Equal(t, 0.0, clamp01(-0.1))
	assert.Equal(t, 1.0, clamp01(1.0000001))
}
