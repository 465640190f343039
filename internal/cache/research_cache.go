package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tripsmith/internal/models/request_models"
	"tripsmith/internal/models/stage_models"
)

// ResearchCache memoizes validated research-stage documents so identical
// preference sets do not re-run the most expensive generation call.
type ResearchCache interface {
	Get(ctx context.Context, req request_models.PlanRequest) (*stage_models.ResearchDocument, bool)
	Set(ctx context.Context, req request_models.PlanRequest, doc *stage_models.ResearchDocument) error
	Close() error
}

type RedisResearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisResearchCache(cfg RedisConfig) (*RedisResearchCache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisResearchCache{client: client, ttl: cfg.TTL}, nil
}

func (c *RedisResearchCache) Get(ctx context.Context, req request_models.PlanRequest) (*stage_models.ResearchDocument, bool) {
	data, err := c.client.Get(ctx, researchKey(req)).Bytes()
	if err != nil {
		return nil, false
	}

	var doc stage_models.ResearchDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}

func (c *RedisResearchCache) Set(ctx context.Context, req request_models.PlanRequest, doc *stage_models.ResearchDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, researchKey(req), data, c.ttl).Err()
}

func (c *RedisResearchCache) Close() error {
	return c.client.Close()
}

// NoOpResearchCache keeps the pipeline unchanged when Redis is absent.
type NoOpResearchCache struct{}

func NewNoOpResearchCache() *NoOpResearchCache { return &NoOpResearchCache{} }

func (c *NoOpResearchCache) Get(ctx context.Context, req request_models.PlanRequest) (*stage_models.ResearchDocument, bool) {
	return nil, false
}

func (c *NoOpResearchCache) Set(ctx context.Context, req request_models.PlanRequest, doc *stage_models.ResearchDocument) error {
	return nil
}

func (c *NoOpResearchCache) Close() error { return nil }

func researchKey(req request_models.PlanRequest) string {
	keyData := struct {
		Origin      string
		Destination string
		StartDate   string
		EndDate     string
		Duration    int
		Activities  []string
		Weather     string
		TravelClass string
		HotelStars  int
	}{
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Duration:    req.DurationDays,
		Activities:  req.Activities,
		Weather:     req.WeatherPreference,
		TravelClass: req.TravelClass,
		HotelStars:  req.HotelStars,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "research:" + hex.EncodeToString(hash[:])
}
