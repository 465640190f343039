package planner_fx

import (
	"go.uber.org/fx"

	"tripsmith/internal/cache"
	"tripsmith/internal/repositories"
	"tripsmith/internal/services"
	mem "tripsmith/pkg/memcache"
	"tripsmith/pkg/utils"
)

var Module = fx.Provide(providePipelineService, provideConfirmationService)

func providePipelineService(
	runner utils.StageRunnerInterface,
	sessions mem.SessionStore,
	research cache.ResearchCache,
) services.PipelineServiceInterface {
	return services.NewPipelineService(runner, sessions, research)
}

func provideConfirmationService(
	sessions mem.SessionStore,
	runner utils.StageRunnerInterface,
	archive repositories.ArchiveRepository,
) services.ConfirmationServiceInterface {
	return services.NewConfirmationService(sessions, runner, archive)
}
