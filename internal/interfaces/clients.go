package interfaces

import "context"

// GeminiClient wraps the Gemini API for trade parsing and summaries.
type GeminiClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Close() error
}
