package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/clubsuite/elections-api/internal/logger"
)

// QueueKey is the Redis list the delivery collaborator consumes
const QueueKey = "notifications:outbox"

const dispatchTimeout = 5 * time.Second

// RedisDispatcher pushes messages onto a Redis list consumed by the
// external delivery worker. At-least-once: the worker is responsible
// for retry and dedup.
type RedisDispatcher struct {
	rdb *redis.Client
	log *log.Logger
}

func NewRedisDispatcher(rdb *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{
		rdb: rdb,
		log: logger.Notification(),
	}
}

func (d *RedisDispatcher) Dispatch(msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := d.rdb.RPush(ctx, QueueKey, payload).Err(); err != nil {
		d.log.Error("failed to enqueue notification", "kind", msg.Kind, "recipient", msg.Recipient.Email, "error", err)
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	d.log.Debug("notification enqueued", "kind", msg.Kind, "recipient", msg.Recipient.Email)
	return nil
}
