package interest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-planner/internal/model"
	"github.com/sells-group/trip-planner/pkg/anthropic"
)

const extractPrompt = `You are an information extraction system.

Convert the user's interest description into a JSON object.

Rules:
- Output ONLY valid JSON.
- Include ALL categories listed below as keys.
- Values must be numbers between 0.0 and 1.0 (1.0 = strong interest, 0.0 = none).
- Do not add explanations or extra keys.

Categories:
%s

User input:
%q`

// Extractor turns free-text interest descriptions into interest vectors
// with a single deterministic LLM call.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewExtractor creates an Extractor.
func NewExtractor(client anthropic.Client, model string, maxTokens int64) *Extractor {
	return &Extractor{client: client, model: model, maxTokens: maxTokens}
}

// Extract returns the cleaned vector for text. Blank text is a ParamError; a
// reply that is not a JSON object is a SchemaError.
func (e *Extractor) Extract(ctx context.Context, text string) (model.InterestVector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &model.ParamError{Param: "interest text", Reason: "must not be empty"}
	}

	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: fmt.Sprintf(extractPrompt, strings.Join(model.Categories, ", "), text),
		}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "interest: extract")
	}
	resp.Usage.LogUsage(e.model, "interest_extraction")

	var obj map[string]any
	if err := json.Unmarshal([]byte(anthropic.StripCodeFence(resp.Text())), &obj); err != nil || obj == nil {
		reason := "reply is not a JSON object"
		if err != nil {
			reason = err.Error()
		}
		return nil, &model.SchemaError{Artifact: "interest extraction reply", Reason: reason}
	}

	v := Clean(obj)
	zap.L().Info("interest: extracted vector", zap.Int("active", countActive(v)))
	return v, nil
}
