package cache

import (
	"context"
	"errors"
	"time"

	"github.com/emrgen/modelhub/internal/compress"
	"github.com/emrgen/modelhub/internal/project"
	redis "github.com/redis/go-redis/v9"
)

const projectStatsHash = "project:stats"

// StatsCache keeps computed project statistics between mutations.
type StatsCache interface {
	// GetStats returns the cached stats of a project, ok is false on a miss.
	GetStats(ctx context.Context, projectName string) (stats *project.Stats, ok bool, err error)
	SetStats(ctx context.Context, projectName string, stats *project.Stats) error
	// Invalidate drops every cached entry.
	Invalidate(ctx context.Context) error
}

var (
	_ StatsCache = (*RedisStatsCache)(nil)
	_ StatsCache = NopCache{}
)

type RedisStatsCache struct {
	client  *redis.Client
	encoder compress.Compress
	ttl     time.Duration
}

func NewRedisStatsCache(client *redis.Client, encoder compress.Compress, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, encoder: encoder, ttl: ttl}
}

func (r *RedisStatsCache) GetStats(ctx context.Context, projectName string) (*project.Stats, bool, error) {
	res := r.client.HGet(ctx, projectStatsHash, projectName)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, false, nil
		}
		return nil, false, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, false, err
	}

	stats := &project.Stats{}
	if err := unmarshal(r.encoder, buf, stats); err != nil {
		return nil, false, err
	}

	return stats, true, nil
}

func (r *RedisStatsCache) SetStats(ctx context.Context, projectName string, stats *project.Stats) error {
	value, err := marshal(r.encoder, stats)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if err := p.HSet(ctx, projectStatsHash, projectName, value).Err(); err != nil {
			return err
		}

		if r.ttl > 0 {
			return p.Expire(ctx, projectStatsHash, r.ttl).Err()
		}

		return nil
	})

	return err
}

func (r *RedisStatsCache) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, projectStatsHash).Err()
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) GetStats(context.Context, string) (*project.Stats, bool, error) {
	return nil, false, nil
}

func (NopCache) SetStats(context.Context, string, *project.Stats) error {
	return nil
}

func (NopCache) Invalidate(context.Context) error {
	return nil
}
