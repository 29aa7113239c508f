// Package interest loads, cleans and extracts user interest vectors: a
// weight in [0, 1] for each known event category.
package interest

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/trip-planner/internal/model"
)

const artifactName = "interest vector"

// Load reads an interest vector from a JSON or YAML file. The file must hold
// a single object; the result is cleaned with Clean.
func Load(path string) (model.InterestVector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "interest: read %s", path)
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &model.SchemaError{Artifact: artifactName, Reason: err.Error()}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &model.SchemaError{Artifact: artifactName, Reason: "top level must be an object"}
	}

	v := Clean(obj)
	zap.L().Debug("interest: loaded vector",
		zap.String("path", path),
		zap.Int("keys", len(obj)),
		zap.Int("active", countActive(v)),
	)
	return v, nil
}

// Parse decodes a JSON object into a cleaned vector.
func Parse(data []byte) (model.InterestVector, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &model.SchemaError{Artifact: artifactName, Reason: err.Error()}
	}
	if obj == nil {
		return nil, &model.SchemaError{Artifact: artifactName, Reason: "top level must be an object"}
	}
	return Clean(obj), nil
}

// Clean maps raw values onto every known category. Unknown keys are dropped,
// missing or non-numeric values become 0, and numbers are clamped to [0, 1].
func Clean(raw map[string]any) model.InterestVector {
	v := make(model.InterestVector, len(model.Categories))
	for _, cat := range model.Categories {
		v[cat] = clamp(toFloat(raw[cat]))
	}
	return v
}

// FromWeights cleans an already-numeric map.
func FromWeights(w map[string]float64) model.InterestVector {
	raw := make(map[string]any, len(w))
	for k, val := range w {
		raw[k] = val
	}
	return Clean(raw)
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func clamp(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func countActive(v model.InterestVector) int {
	n := 0
	for _, w := range v {
		if w > 0 {
			n++
		}
	}
	return n
}

// Marshal encodes v as an indented JSON object. encoding/json sorts map
// keys, so equal vectors give identical bytes.
func Marshal(v model.InterestVector) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]float64(v), "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "interest: encode vector")
	}
	return append(data, '\n'), nil
}

// Save writes v to path as sorted-key JSON.
func Save(path string, v model.InterestVector) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "interest: write %s", path)
}
