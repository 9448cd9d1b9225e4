package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/fe1/pkg/model"
)

var defaults = Defaults{Propagation: false, FilterRefFeatures: true}

func TestParseParams_Missing(t *testing.T) {
	_, err := ParseParams(map[string]any{
		"missing_feature_set_ref": "feature_set_ref",
		"workspace_name":          "workspace_name",
	}, defaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"feature_set_ref" parameter is required, but missing`)
	assert.True(t, model.IsInputError(err))

	_, err = ParseParams(map[string]any{
		"feature_set_ref":        "feature_set_ref",
		"missing_workspace_name": "workspace_name",
	}, defaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"workspace_name" parameter is required, but missing`)

	_, err = ParseParams(map[string]any{"feature_set_ref": "  ", "workspace_name": "ws"}, defaults)
	assert.Contains(t, err.Error(), `"feature_set_ref" parameter is required, but missing`)
}

func TestParseParams_Defaults(t *testing.T) {
	p, err := ParseParams(map[string]any{"feature_set_ref": "fs", "workspace_name": "ws"}, defaults)
	require.NoError(t, err)

	assert.Equal(t, Params{FeatureSetRef: "fs", WorkspaceName: "ws", Propagation: false, FilterRefFeatures: true}, p)
}

func TestParseParams_BoolForms(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
		wantErr  bool
	}{
		{name: "Bool", value: true, expected: true},
		{name: "JSONOne", value: float64(1), expected: true},
		{name: "JSONZero", value: float64(0), expected: false},
		{name: "Int", value: 1, expected: true},
		{name: "Number", value: json.Number("0"), expected: false},
		{name: "String", value: "true", expected: true},
		{name: "StringDigit", value: "0", expected: false},
		{name: "Garbage", value: "maybe", wantErr: true},
		{name: "List", value: []any{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseParams(map[string]any{
				"feature_set_ref": "fs",
				"workspace_name":  "ws",
				"propagation":     tt.value,
			}, defaults)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), `"propagation"`)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Propagation)
		})
	}
}

func TestParseParams_NonStringRef(t *testing.T) {
	_, err := ParseParams(map[string]any{"feature_set_ref": 12, "workspace_name": "ws"}, defaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
}
