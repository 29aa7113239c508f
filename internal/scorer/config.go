// Package scorer computes per-event relevance scores from a user interest
// vector, with an additive bias for tourism categories.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-planner/internal/config"
	"github.com/sells-group/trip-planner/internal/model"
)

// DefaultTourismBias is added to the score of any event carrying a tourism category.
const DefaultTourismBias = 0.4

// DefaultScorerConfig returns a config.ScorerConfig with the standard bias
// and tourism subset.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		TourismBias:       DefaultTourismBias,
		TourismCategories: append([]string(nil), model.TourismCategories...),
	}
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	if c.TourismBias < 0 || c.TourismBias > 1 {
		errs = append(errs, fmt.Sprintf("tourism_bias must be between 0 and 1, got %.2f", c.TourismBias))
	}
	for _, cat := range c.TourismCategories {
		if !model.IsCategory(cat) {
			errs = append(errs, fmt.Sprintf("tourism category %q is not a known category", cat))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
