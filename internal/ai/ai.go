package ai

import "context"

// Generator produces free-form text from a prompt. Implementations wrap one
// model provider; the recommendation pipeline only depends on this surface.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
