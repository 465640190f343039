package utils

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiStageRunner implements StageRunnerInterface on Google's Gemini models.
type GeminiStageRunner struct {
	client *genai.Client
	model  string
}

func NewGeminiStageRunner(apiKey, model string) (*GeminiStageRunner, error) {
	if model == "" {
		model = "gemini-1.5-flash" // Free tier model
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiStageRunner{
		client: client,
		model:  model,
	}, nil
}

func (r *GeminiStageRunner) RunStage(ctx context.Context, stage string, prompt string) (string, error) {
	m := r.client.GenerativeModel(r.model)
	// Force JSON-only output so the validator rarely sees fenced prose.
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.1)
	m.SetTopP(0.5)
	m.SetTopK(20)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini %s stage: %w", stage, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini %s stage: no content generated", stage)
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (r *GeminiStageRunner) Close() error {
	return r.client.Close()
}
