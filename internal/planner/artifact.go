package planner

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/model"
)

// WriteJSON writes the trip-plan artifact with two-space indentation.
func WriteJSON(w io.Writer, plan model.TripPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(plan), "planner: encode json")
}

// WriteYAML writes the trip plan as YAML.
func WriteYAML(w io.Writer, plan model.TripPlan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return eris.Wrap(err, "planner: encode yaml")
	}
	return eris.Wrap(enc.Close(), "planner: close yaml encoder")
}

// ReadJSON decodes a trip-plan artifact, failing with a SchemaError when a
// top-level key is absent.
func ReadJSON(r io.Reader) (model.TripPlan, error) {
	var raw struct {
		TripStart *model.Date       `json:"trip_start"`
		TripEnd   *model.Date       `json:"trip_end"`
		Cities    *[]model.CityPlan `json:"cities"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return model.TripPlan{}, &model.SchemaError{Artifact: "trip plan", Reason: err.Error()}
	}

	var missing []string
	if raw.TripStart == nil {
		missing = append(missing, "trip_start")
	}
	if raw.TripEnd == nil {
		missing = append(missing, "trip_end")
	}
	if raw.Cities == nil {
		missing = append(missing, "cities")
	}
	if len(missing) > 0 {
		return model.TripPlan{}, model.NewSchemaError("trip plan", missing...)
	}

	return model.TripPlan{TripStart: *raw.TripStart, TripEnd: *raw.TripEnd, Cities: *raw.Cities}, nil
}

// ParseScored reads the scored-events artifact in file order. Rows with
// unusable dates or scores are dropped.
func ParseScored(t *catalog.Table) ([]model.ScoredEvent, error) {
	return catalog.ParseScoredEvents(t, "scored events")
}
