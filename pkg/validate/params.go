package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yumyai/fe1/pkg/model"
)

// Request parameter keys
const (
	KeyFeatureSetRef     = "feature_set_ref"
	KeyWorkspaceName     = "workspace_name"
	KeyPropagation       = "propagation"
	KeyFilterRefFeatures = "filter_ref_features"
)

type Params struct {
	FeatureSetRef     string `json:"feature_set_ref"`
	WorkspaceName     string `json:"workspace_name"`
	Propagation       bool   `json:"propagation"`
	FilterRefFeatures bool   `json:"filter_ref_features"`
}

// Defaults for the optional keys, taken from configuration.
type Defaults struct {
	Propagation       bool
	FilterRefFeatures bool
}

// ParseParams checks the raw request parameters and applies defaults.
func ParseParams(raw map[string]any, defaults Defaults) (Params, error) {
	var p Params
	var err error

	if p.FeatureSetRef, err = requiredString(raw, KeyFeatureSetRef); err != nil {
		return Params{}, err
	}
	if p.WorkspaceName, err = requiredString(raw, KeyWorkspaceName); err != nil {
		return Params{}, err
	}
	if p.Propagation, err = optionalBool(raw, KeyPropagation, defaults.Propagation); err != nil {
		return Params{}, err
	}
	if p.FilterRefFeatures, err = optionalBool(raw, KeyFilterRefFeatures, defaults.FilterRefFeatures); err != nil {
		return Params{}, err
	}

	return p, nil
}

func missing(key string) error {
	return model.NewInputError("%q parameter is required, but missing", key)
}

func requiredString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", model.NewInputError("%q parameter must be a string, got %T", key, v)
	}
	if strings.TrimSpace(s) == "" {
		return "", missing(key)
	}
	return strings.TrimSpace(s), nil
}

// Booleans arrive as JSON booleans, 0/1 numbers or bool-like strings.
func optionalBool(raw map[string]any, key string, fallback bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return fallback, nil
	}

	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case int:
		return b != 0, nil
	case int64:
		return b != 0, nil
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, invalidBool(key, v)
		}
		return f != 0, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return fallback, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, invalidBool(key, v)
		}
		return parsed, nil
	default:
		return false, invalidBool(key, v)
	}
}

func invalidBool(key string, v any) error {
	return model.NewInputError("%q parameter need to be bool-like, got %s", key, fmt.Sprint(v))
}
