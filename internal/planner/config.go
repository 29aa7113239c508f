// Package planner groups scored events by city and builds the trip plan:
// fixed versus flexible activities, per-city visit windows and scores, and
// a deterministic ordering.
package planner

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trip-planner/internal/config"
)

// DefaultPlannerConfig returns the standard planner settings.
func DefaultPlannerConfig() config.PlannerConfig {
	return config.PlannerConfig{
		FlexibleKeywords: []string{"explore", "attractions"},
		RelevanceWeight:  0.5,
		DensityWeight:    0.5,
	}
}

// ValidateConfig checks that a PlannerConfig is internally consistent.
func ValidateConfig(c config.PlannerConfig) error {
	var errs []string

	if len(c.FlexibleKeywords) == 0 {
		errs = append(errs, "flexible_keywords must not be empty")
	}
	for _, k := range c.FlexibleKeywords {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, "flexible_keywords must not contain blanks")
			break
		}
	}
	if c.RelevanceWeight < 0 || c.DensityWeight < 0 {
		errs = append(errs, "weights must be >= 0")
	}
	if sum := c.RelevanceWeight + c.DensityWeight; math.Abs(sum-1) > 1e-9 {
		errs = append(errs, fmt.Sprintf("relevance_weight + density_weight must equal 1, got %.2f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("planner: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
