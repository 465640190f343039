package engine_fx

import (
	"context"
	"os"

	"go.uber.org/fx"

	"tripsmith/pkg/utils"
)

var Module = fx.Provide(provideStageRunner)

func provideStageRunner(lc fx.Lifecycle) (utils.StageRunnerInterface, error) {
	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		if provider == "gemini" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		} else {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	runner, err := utils.NewStageRunner(provider, apiKey, os.Getenv("AI_MODEL"))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return runner.Close()
		},
	})
	return runner, nil
}
