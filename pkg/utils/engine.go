package utils

import (
	"context"
	"fmt"
	"strings"
)

// StageRunnerInterface is the single capability the pipeline needs from a
// generation engine: run one named stage against a prompt and return raw
// text. Output validation happens at the caller's boundary, never here.
type StageRunnerInterface interface {
	RunStage(ctx context.Context, stage string, prompt string) (string, error)
	Close() error
}

// NewStageRunner builds a runner for the configured provider.
func NewStageRunner(provider, apiKey, model string) (StageRunnerInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIStageRunner(apiKey, model), nil
	case "gemini":
		return NewGeminiStageRunner(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
