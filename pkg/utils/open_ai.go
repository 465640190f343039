package utils

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openAISystemPrompt = "You are a travel planning assistant. " +
	"Always respond with a single JSON value matching the requested schema. No prose, no markdown."

type OpenAIStageRunner struct {
	client *openai.Client
	model  string
}

func NewOpenAIStageRunner(apiKey, model string) *OpenAIStageRunner {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIStageRunner{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (r *OpenAIStageRunner) RunStage(ctx context.Context, stage string, prompt string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai %s stage: %w", stage, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai %s stage: no choices returned", stage)
	}
	return resp.Choices[0].Message.Content, nil
}

func (r *OpenAIStageRunner) Close() error { return nil }
