package cache_fx

import (
	"context"
	"log"
	"os"

	"go.uber.org/fx"

	"tripsmith/internal/cache"
)

var Module = fx.Provide(provideResearchCache)

func provideResearchCache(lc fx.Lifecycle) cache.ResearchCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return cache.NewNoOpResearchCache()
	}

	research, err := cache.NewRedisResearchCache(cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		log.Printf("Redis unavailable (%v), research caching disabled", err)
		return cache.NewNoOpResearchCache()
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return research.Close()
		},
	})
	return research
}
