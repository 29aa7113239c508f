package main

import (
	"context"

	"github.com/sells-group/trip-planner/internal/pipeline"
	"github.com/sells-group/trip-planner/internal/store"
)

// pipelineEnv holds the store and pipeline used by the run and serve commands.
type pipelineEnv struct {
	Store    store.Store // nil when run history is disabled
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline loads the catalog, opens the store and builds the Pipeline.
// An empty artifactsDir keeps stage hand-offs in memory. Callers should
// defer env.Close().
func initPipeline(ctx context.Context, artifactsDir string, narrate bool) (*pipelineEnv, error) {
	if err := cfg.Validate("pipeline"); err != nil {
		return nil, err
	}

	sc, err := newScorer()
	if err != nil {
		return nil, err
	}
	pl, err := newPlanner()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog("")
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{Store: st, ArtifactsDir: artifactsDir}
	if narrate {
		opts.Narrator = newNarrator()
	}

	return &pipelineEnv{
		Store:    st,
		Pipeline: pipeline.New(cat.Events, sc, pl, opts),
	}, nil
}
