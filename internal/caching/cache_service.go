package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rings-s/anha/internal/models"
)

const servicesKey = "catalog:services"

// CacheService fronts Redis for the two things this application leans on
// it for: the service catalog (read-heavy, rarely changes) and the
// fixed-window rate limit counters on the auth endpoints.
type CacheService interface {
	GetServices(ctx context.Context) ([]*models.Service, error)
	SetServices(ctx context.Context, services []*models.Service, ttl time.Duration) error
	InvalidateServices(ctx context.Context) error

	// IsRateLimited reports whether the counter for key has reached the
	// limit within the current window.
	IsRateLimited(ctx context.Context, key string, limit int) (bool, error)
	// IncrementRateLimit bumps the counter for key, starting a new window
	// when the key is absent.
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to Redis. A failed ping is logged, not
// fatal: the catalog cache degrades to the database and the rate limiter
// fails open.
func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept both host:port and redis:// URLs.
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "rediss://"), "redis://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("redis ping failed on initialization", "addr", parsedAddr, "error", err)
	}

	return &redisCacheService{client: client}
}

func (s *redisCacheService) GetServices(ctx context.Context) ([]*models.Service, error) {
	data, err := s.client.Get(ctx, servicesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var services []*models.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("decode cached services: %w", err)
	}
	return services, nil
}

func (s *redisCacheService) SetServices(ctx context.Context, services []*models.Service, ttl time.Duration) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}
	return s.client.Set(ctx, servicesKey, data, ttl).Err()
}

func (s *redisCacheService) InvalidateServices(ctx context.Context) error {
	return s.client.Del(ctx, servicesKey).Err()
}

func (s *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	count, err := s.client.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= limit, nil
}

func (s *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	// First hit opens the window; the TTL bounds it.
	if count == 1 {
		return s.client.Expire(ctx, key, window).Err()
	}
	return nil
}

func (s *redisCacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
