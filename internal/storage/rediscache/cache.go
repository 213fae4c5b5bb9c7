// Package rediscache keeps the hot counters and dashboard aggregates in
// Redis. Everything here is advisory: Postgres stays the source of
// truth for tallies and resolution, the cache only feeds live views.
package rediscache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"

	"github.com/clubsuite/elections-api/internal/config"
	"github.com/clubsuite/elections-api/internal/domain/election"
	"github.com/clubsuite/elections-api/internal/logger"
)

const (
	summaryKey     = "dashboard:summary"
	summaryTTL     = time.Minute
	requestTimeout = 3 * time.Second
)

// Cache implements election.TallyCache over a Redis client
type Cache struct {
	rdb *redis.Client
	log *log.Logger
}

// Connect opens and pings a Redis connection
func Connect(cfg *config.Config) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Cache().Info("Connected to Redis", "addr", cfg.Redis.Addr)

	return NewWithClient(rdb), nil
}

// NewWithClient wraps an existing Redis client (used by tests)
func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{
		rdb: rdb,
		log: logger.Cache(),
	}
}

// Client exposes the underlying connection so other collaborators (the
// notification outbox) can share it
func (c *Cache) Client() *redis.Client {
	return c.rdb
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	return c.rdb.Close()
}

func tallyKey(eventID string) string {
	return "tally:event:" + eventID
}

// IncrementCandidate bumps the live counter for one candidate
func (c *Cache) IncrementCandidate(eventID, positionID, candidateID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	field := positionID + ":" + candidateID
	if err := c.rdb.HIncrBy(ctx, tallyKey(eventID), field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment tally counter: %w", err)
	}
	return nil
}

// GetEventCounters returns the live counters for one event, keyed by
// "positionID:candidateID"
func (c *Cache) GetEventCounters(eventID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := c.rdb.HGetAll(ctx, tallyKey(eventID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tally counters: %w", err)
	}
	if len(data) == 0 {
		return nil, election.ErrCacheMiss
	}

	counters := make(map[string]int64, len(data))
	for field, raw := range data {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		counters[field] = n
	}
	return counters, nil
}

// GetDashboardSummary reads the cached aggregation hash
func (c *Cache) GetDashboardSummary() (*election.DashboardSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := c.rdb.HGetAll(ctx, summaryKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard summary: %w", err)
	}
	if len(data) == 0 {
		return nil, election.ErrCacheMiss
	}

	var summary election.DashboardSummary
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &summary,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build summary decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard summary: %w", err)
	}

	return &summary, nil
}

// StoreDashboardSummary writes the aggregation hash with a short TTL
func (c *Cache) StoreDashboardSummary(summary *election.DashboardSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	fields := map[string]interface{}{
		"total_voting_events":        summary.TotalVotingEvents,
		"active_voting_events":       summary.ActiveVotingEvents,
		"closed_voting_events":       summary.ClosedVotingEvents,
		"awaiting_manual_resolution": summary.AwaitingManualResolution,
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, summaryKey, fields)
	pipe.Expire(ctx, summaryKey, summaryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store dashboard summary: %w", err)
	}

	return nil
}

// InvalidateDashboardSummary drops the cached aggregation hash
func (c *Cache) InvalidateDashboardSummary() error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := c.rdb.Del(ctx, summaryKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboard summary: %w", err)
	}
	return nil
}
