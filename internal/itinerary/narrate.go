package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/internal/planner"
	"github.com/sells-group/trip-planner/internal/resilience"
	"github.com/sells-group/trip-planner/pkg/anthropic"
)

const narratePrompt = `You are a formatting and explanation system.

You are given a structured trip plan in JSON. It is the single source of truth.

Rules:
- Do not remove, merge, reorder or invent cities or events.
- Do not change dates, types or ordering. Do not mention numeric relevance values.
- Only add natural-language explanations.

For each city add "city_overview" (1-2 neutral factual sentences) and "city_reason"
(1-2 sentences on why it fits the traveller, based only on its events).
For each event add "description" (one sentence) and "relevance_note" (one short sentence).

Output ONLY JSON with this shape:
{"trip_summary": {"start_date": "", "end_date": "", "cities_covered": []},
 "itinerary": [{"city": "", "visit_window": {"start_date": "", "end_date": ""},
   "city_overview": "", "city_reason": "",
   "activities": [{"title": "", "type": "fixed_event | flexible_activity",
     "date_info": "", "description": "", "relevance_note": ""}]}]}

Use trip_start/trip_end for trip_summary and list cities_covered in input order.
Fixed events: date_info = "YYYY-MM-DD → YYYY-MM-DD". Flexible activities:
date_info = "Any free day in <city> (1 day)". Event "name" becomes activity "title".

Input plan:
`

// Source tells where an itinerary came from.
type Source string

// Itinerary sources.
const (
	SourceNarrated Source = "narrated"
	SourceFallback Source = "fallback"
)

// ClientFactory builds an API client bound to one key.
type ClientFactory func(apiKey string) anthropic.Client

// NarratorConfig tunes a Narrator.
type NarratorConfig struct {
	Model     string
	MaxTokens int64
	// CallsPerSecond paces attempts across keys. Default: 1; negative
	// disables pacing.
	CallsPerSecond float64
	Retry          resilience.Policy
}

// Narrator asks the LLM to narrate a plan, rotating through API keys.
type Narrator struct {
	keys      *resilience.KeyRing
	newClient ClientFactory
	limiter   *resilience.Limiter
	cfg       NarratorConfig
}

// NewNarrator creates a Narrator over keys, tried in order.
func NewNarrator(keys []string, newClient ClientFactory, cfg NarratorConfig) *Narrator {
	if cfg.CallsPerSecond == 0 {
		cfg.CallsPerSecond = 1
	}
	if cfg.Retry.Retryable == nil {
		cfg.Retry.Retryable = func(err error) bool {
			return anthropic.IsRetryable(err) || resilience.IsTransient(err)
		}
	}
	if cfg.Retry.OnRetry == nil {
		cfg.Retry.OnRetry = resilience.LogRetry("itinerary narration")
	}
	return &Narrator{
		keys:      resilience.NewKeyRing(keys),
		newClient: newClient,
		limiter:   resilience.NewLimiter(cfg.CallsPerSecond),
		cfg:       cfg,
	}
}

// Narrate returns a narrated itinerary for plan, trying each live key once.
// A key rejected as unauthorized is retired for the Narrator's lifetime. If
// no key yields a reply that parses and passes Verify, or ctx ends, the
// deterministic Fallback is returned.
func (n *Narrator) Narrate(ctx context.Context, plan model.TripPlan) (Itinerary, Source) {
	prompt, err := buildPrompt(plan)
	if err != nil {
		zap.L().Warn("itinerary: cannot encode plan, using fallback", zap.Error(err))
		return Fallback(plan), SourceFallback
	}

	for tries := n.keys.Len(); tries > 0; tries-- {
		key, slot, ok := n.keys.Next()
		if !ok {
			break
		}
		if err := n.limiter.Wait(ctx); err != nil {
			zap.L().Warn("itinerary: narration interrupted", zap.Error(err))
			break
		}

		it, err := n.attempt(ctx, n.newClient(key), prompt, plan)
		if err == nil {
			zap.L().Info("itinerary: narrated", zap.Int("key_slot", slot), zap.Int("cities", len(it.Itinerary)))
			return it, SourceNarrated
		}

		if anthropic.IsAuthError(err) {
			n.keys.Retire(slot)
		}
		zap.L().Warn("itinerary: narration attempt failed",
			zap.Int("key_slot", slot),
			zap.Bool("key_retired", anthropic.IsAuthError(err)),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	zap.L().Warn("itinerary: narration unavailable, using fallback")
	return Fallback(plan), SourceFallback
}

func (n *Narrator) attempt(ctx context.Context, client anthropic.Client, prompt string, plan model.TripPlan) (Itinerary, error) {
	temp := 0.0
	req := anthropic.MessageRequest{
		Model:       n.cfg.Model,
		MaxTokens:   n.cfg.MaxTokens,
		Temperature: &temp,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
	}

	resp, err := resilience.Retry(ctx, n.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return client.CreateMessage(ctx, req)
	})
	if err != nil {
		return Itinerary{}, eris.Wrap(err, "itinerary: narrate")
	}
	resp.Usage.LogUsage(n.cfg.Model, "itinerary_narration")

	return parseReply(resp.Text(), plan)
}

func parseReply(text string, plan model.TripPlan) (Itinerary, error) {
	var it Itinerary
	dec := json.NewDecoder(bytes.NewReader([]byte(anthropic.StripCodeFence(text))))
	if err := dec.Decode(&it); err != nil {
		return Itinerary{}, eris.Wrap(err, "itinerary: decode reply")
	}
	if err := Verify(plan, it); err != nil {
		return Itinerary{}, err
	}
	return it, nil
}

func buildPrompt(plan model.TripPlan) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(narratePrompt)
	if err := planner.WriteJSON(&buf, plan); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsVerifyError reports whether err is a plan mismatch.
func IsVerifyError(err error) bool {
	var ve *VerifyError
	return errors.As(err, &ve)
}
