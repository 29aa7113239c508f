// Package pipeline runs the trip-planning stages in order: filter the
// catalog, score the selection, build the plan, and optionally narrate it.
// Each stage hands its output to the next both in memory and, when an
// artifacts directory is configured, as a file.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/catalog"
	"github.com/sells-group/trip-planner/internal/interest"
	"github.com/sells-group/trip-planner/internal/itinerary"
	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/planner"
	"github.com/sells-group/trip-planner/internal/scorer"
	"github.com/sells-group/trip-planner/internal/store"
)

// Narrator produces an itinerary for a finished plan.
type Narrator interface {
	Narrate(ctx context.Context, plan model.TripPlan) (itinerary.Itinerary, itinerary.Source)
}

// Options holds the optional collaborators of a Pipeline.
type Options struct {
	// Store records runs and phases. Nil disables run history.
	Store store.Store
	// ArtifactsDir receives the stage artifacts. Empty disables them.
	ArtifactsDir string
	// Narrator, when set, adds an itinerary stage after planning.
	Narrator Narrator
}

// Pipeline orchestrates a single trip-planning run.
type Pipeline struct {
	events  []model.Event
	scorer  *scorer.Scorer
	planner *planner.Planner
	opts    Options
}

// New creates a Pipeline over an already-parsed catalog.
func New(events []model.Event, sc *scorer.Scorer, pl *planner.Planner, opts Options) *Pipeline {
	return &Pipeline{events: events, scorer: sc, planner: pl, opts: opts}
}

// Result carries every stage's output.
type Result struct {
	RunID     string               `json:"run_id,omitempty"`
	Filtered  []model.Event        `json:"-"`
	Scored    []model.ScoredEvent  `json:"-"`
	Plan      model.TripPlan       `json:"plan"`
	Itinerary *itinerary.Itinerary `json:"itinerary,omitempty"`
	Source    itinerary.Source     `json:"itinerary_source,omitempty"`
	Phases    []model.PhaseResult  `json:"phases"`
}

// Run executes the stages strictly in sequence. A failing stage writes no
// artifact and stops the run; artifacts of earlier stages remain. An empty
// selection is not an error: it yields a plan with no cities.
func (p *Pipeline) Run(ctx context.Context, req model.TripRequest, vector model.InterestVector) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if vector == nil {
		return nil, &model.SchemaError{Artifact: "interest vector", Reason: "no interest vector supplied"}
	}

	log := zap.L().With(
		zap.Strings("cities", req.Cities),
		zap.String("start", req.Start.String()),
		zap.String("end", req.End.String()),
	)
	log.Info("pipeline: starting run")

	result := &Result{}
	rec := p.newRecorder(ctx, req, log)
	result.RunID = rec.runID()

	if err := p.writeArtifact(InterestsFile, func(w io.Writer) error {
		data, err := interest.Marshal(vector)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return eris.Wrap(err, "pipeline: write interests")
	}); err != nil {
		rec.fail(err)
		return nil, err
	}

	// Filter
	rec.status(model.RunStatusFiltering)
	err := rec.phase(model.PhaseFilter, result, func() (map[string]any, error) {
		result.Filtered = catalog.Filter(p.events, req.Cities, req.Start, req.End)
		err := p.writeArtifact(FilteredFile, func(w io.Writer) error {
			return catalog.WriteEvents(w, result.Filtered)
		})
		return map[string]any{"catalog_events": len(p.events), "selected": len(result.Filtered)}, err
	})
	if err != nil {
		rec.fail(err)
		return nil, err
	}

	// Score
	rec.status(model.RunStatusScoring)
	err = rec.phase(model.PhaseScore, result, func() (map[string]any, error) {
		scored, err := p.scorer.Score(result.Filtered, vector)
		if err != nil {
			return nil, err
		}
		result.Scored = scorer.Rank(scored)
		err = p.writeArtifact(ScoredFile, func(w io.Writer) error {
			return catalog.WriteScoredEvents(w, result.Scored)
		})
		return map[string]any{"scored": len(result.Scored)}, err
	})
	if err != nil {
		rec.fail(err)
		return nil, err
	}

	// Plan
	rec.status(model.RunStatusPlanning)
	err = rec.phase(model.PhasePlan, result, func() (map[string]any, error) {
		result.Plan = p.planner.Build(result.Scored, req.Start, req.End)
		err := p.writeArtifact(PlanFile, func(w io.Writer) error {
			return planner.WriteJSON(w, result.Plan)
		})
		return map[string]any{"cities": len(result.Plan.Cities)}, err
	})
	if err != nil {
		rec.fail(err)
		return nil, err
	}

	if p.opts.Narrator != nil {
		err = rec.phase(model.PhaseItinerary, result, func() (map[string]any, error) {
			it, src := p.opts.Narrator.Narrate(ctx, result.Plan)
			result.Itinerary, result.Source = &it, src
			err := p.writeArtifact(ItineraryFile, func(w io.Writer) error {
				return itinerary.WriteJSON(w, it)
			})
			return map[string]any{"source": string(src)}, err
		})
		if err != nil {
			rec.fail(err)
			return nil, err
		}
	}

	rec.complete(result)
	log.Info("pipeline: run complete",
		zap.String("run_id", result.RunID),
		zap.Int("selected", len(result.Filtered)),
		zap.Int("cities", len(result.Plan.Cities)),
	)
	return result, nil
}

func (p *Pipeline) writeArtifact(name string, write func(w io.Writer) error) error {
	if p.opts.ArtifactsDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.opts.ArtifactsDir, 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create artifacts dir %s", p.opts.ArtifactsDir)
	}
	return WriteAtomic(filepath.Join(p.opts.ArtifactsDir, name), write)
}

// recorder mirrors run progress into the store. Store failures are logged
// and never fail the run.
type recorder struct {
	ctx   context.Context
	store store.Store
	run   *model.Run
	dir   string
	log   *zap.Logger
}

func (p *Pipeline) newRecorder(ctx context.Context, req model.TripRequest, log *zap.Logger) *recorder {
	rec := &recorder{ctx: ctx, store: p.opts.Store, dir: p.opts.ArtifactsDir, log: log}
	if rec.store == nil {
		return rec
	}
	run, err := rec.store.CreateRun(ctx, req)
	if err != nil {
		log.Warn("pipeline: failed to create run record", zap.Error(err))
		return rec
	}
	rec.run = run
	return rec
}

func (r *recorder) runID() string {
	if r.run == nil {
		return ""
	}
	return r.run.ID
}

func (r *recorder) status(status model.RunStatus) {
	if r.run == nil {
		return
	}
	if err := r.store.UpdateRunStatus(r.ctx, r.run.ID, status); err != nil {
		r.log.Warn("pipeline: failed to update status", zap.String("status", string(status)), zap.Error(err))
	}
}

// phase times fn, logs its outcome and records it as a run phase.
func (r *recorder) phase(name string, result *Result, fn func() (map[string]any, error)) error {
	var phase *model.RunPhase
	if r.run != nil {
		var err error
		if phase, err = r.store.CreatePhase(r.ctx, r.run.ID, name); err != nil {
			r.log.Warn("pipeline: failed to create phase", zap.String("phase", name), zap.Error(err))
		}
	}

	start := time.Now()
	meta, fnErr := fn()
	pr := model.PhaseResult{
		Name:     name,
		Status:   model.PhaseStatusComplete,
		Duration: time.Since(start).Milliseconds(),
		Metadata: meta,
	}
	if fnErr != nil {
		pr.Status = model.PhaseStatusFailed
		pr.Error = fnErr.Error()
		r.log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration), zap.Error(fnErr))
	} else {
		r.log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", pr.Duration), zap.Any("metadata", meta))
	}

	if phase != nil {
		if err := r.store.CompletePhase(r.ctx, phase.ID, &pr); err != nil {
			r.log.Warn("pipeline: failed to complete phase", zap.String("phase", name), zap.Error(err))
		}
	}
	result.Phases = append(result.Phases, pr)
	return fnErr
}

func (r *recorder) fail(cause error) {
	if r.run == nil {
		return
	}
	if err := r.store.FailRun(r.ctx, r.run.ID, cause.Error()); err != nil {
		r.log.Warn("pipeline: failed to record failure", zap.Error(err))
	}
}

func (r *recorder) complete(result *Result) {
	if r.run == nil {
		return
	}
	cities := make([]string, 0, len(result.Plan.Cities))
	for _, c := range result.Plan.Cities {
		cities = append(cities, c.City)
	}
	err := r.store.CompleteRun(r.ctx, r.run.ID, &model.RunResult{
		FilteredEvents: len(result.Filtered),
		ScoredEvents:   len(result.Scored),
		Cities:         cities,
		ArtifactsDir:   r.dir,
	})
	if err != nil {
		r.log.Warn("pipeline: failed to record completion", zap.Error(err))
	}
}
