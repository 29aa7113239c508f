package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/interest"
	"github.com/sells-group/trip-planner/internal/itinerary"
	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/planner"
	"github.com/sells-group/trip-planner/internal/resilience"
	"github.com/sells-group/trip-planner/internal/scorer"
	"github.com/sells-group/trip-planner/internal/store"
	"github.com/sells-group/trip-planner/pkg/anthropic"
)

// parseRequest builds a TripRequest from flag values.
func parseRequest(cities, start, end string) (model.TripRequest, error) {
	s, err := model.ParseDate(strings.TrimSpace(start))
	if err != nil {
		return model.TripRequest{}, &model.ParamError{Param: "start", Reason: err.Error()}
	}
	e, err := model.ParseDate(strings.TrimSpace(end))
	if err != nil {
		return model.TripRequest{}, &model.ParamError{Param: "end", Reason: err.Error()}
	}
	req := model.TripRequest{Cities: model.SplitCities(cities), Start: s, End: e}
	return req, req.Validate()
}

// artifactPath resolves name against the configured artifacts directory
// unless the caller passed an explicit path.
func artifactPath(flagValue, name string) string {
	if flagValue != "" {
		return flagValue
	}
	return filepath.Join(cfg.Artifacts.Dir, name)
}

// loadCatalog reads the configured catalog, or path when set.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return nil, &model.ParamError{Param: "catalog", Reason: "no catalog path given and catalog.path is unset"}
	}
	return catalog.Load(path, cfg.Catalog.Sheet)
}

func newScorer() (*scorer.Scorer, error) {
	if err := scorer.ValidateConfig(cfg.Scorer); err != nil {
		return nil, err
	}
	return scorer.New(cfg.Scorer), nil
}

func newPlanner() (*planner.Planner, error) {
	if err := planner.ValidateConfig(cfg.Planner); err != nil {
		return nil, err
	}
	return planner.New(cfg.Planner), nil
}

// anthropicOptions builds client options. The narrator retries through its
// own policy, so it passes maxRetries 0.
func anthropicOptions(maxRetries int) anthropic.Options {
	return anthropic.Options{
		Timeout:    time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
		MaxRetries: maxRetries,
	}
}

func newExtractor() (*interest.Extractor, error) {
	if err := cfg.Validate("llm"); err != nil {
		return nil, err
	}
	client := anthropic.NewClient(cfg.Anthropic.APIKeys()[0], anthropicOptions(2))
	return interest.NewExtractor(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens), nil
}

func newNarrator() *itinerary.Narrator {
	opts := anthropicOptions(0)
	return itinerary.NewNarrator(cfg.Anthropic.APIKeys(), func(key string) anthropic.Client {
		return anthropic.NewClient(key, opts)
	}, itinerary.NarratorConfig{
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Retry:     resilience.DefaultPolicy(),
	})
}

// loadVector reads an interest vector from a file, or extracts one from
// free text when text is non-empty.
func loadVector(ctx context.Context, path, text string) (model.InterestVector, error) {
	if strings.TrimSpace(text) != "" {
		ex, err := newExtractor()
		if err != nil {
			return nil, err
		}
		return ex.Extract(ctx, text)
	}
	return interest.Load(path)
}

func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}
