package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"dealscout/internal/deal"
)

// RedisNotifier implements Notifier using a Redis stream
type RedisNotifier struct {
	client    *redis.Client
	stream    string
	maxLength int
}

// NewRedisNotifier creates a new Redis notifier
func NewRedisNotifier(addr string, db int, stream string, maxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Announce publishes a deal to the stream.
// The record is base64 encoded JSON keyed by the product identifier.
func (n *RedisNotifier) Announce(ctx context.Context, d deal.Deal) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	return n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			d.Identifier: encoded,
		},
	}).Err()
}

// Trim trims the stream to the configured maximum length
func (n *RedisNotifier) Trim(ctx context.Context) error {
	return n.client.XTrimMaxLen(ctx, n.stream, int64(n.maxLength)).Err()
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
