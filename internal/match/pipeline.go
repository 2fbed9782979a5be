package match

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/eatwhat/eatwhat/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const defaultMaxLogLength = 200

// Pipeline turns a match request into a validated recommendation:
// build prompt, call the model, extract and parse the JSON payload,
// normalize, validate. It holds no shared mutable state and is safe to use
// from concurrent goroutines; retries are a caller concern.
type Pipeline struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewPipeline(generator contentGenerator, log *zap.Logger, maxLogLength int) *Pipeline {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Pipeline{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Recommend runs the pipeline once. Failures are tagged by stage
// (ErrModelCall, ErrNoJSON, ErrBadJSON, *SchemaError); cancellation of ctx
// reaches the in-flight model call and nothing needs cleanup afterwards.
func (p *Pipeline) Recommend(ctx context.Context, req *Request) (*Recommendation, error) {
	prompt := BuildPrompt(req)

	p.logger.Debug("model request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelCall, err)
	}

	p.logger.Debug("model response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	jsonText, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}

	rec := Normalize(parsed)
	if err := Validate(rec); err != nil {
		return nil, err
	}

	p.logger.Info("recommendation ready",
		zap.Int("candidates", len(rec.Candidates)),
	)

	return &rec, nil
}
