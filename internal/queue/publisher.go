package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher adds events to a stream.
type Publisher interface {
	// Publish returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event AlertEvent) (messageID string, err error)
}

type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client, logger *zap.Logger) Publisher {
	return &RedisPublisher{client: client, logger: logger}
}

// Publish adds an event to the stream using XADD with an auto-generated ID.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event AlertEvent) (string, error) {
	startTime := time.Now()

	values, err := event.ToMap()
	if err != nil {
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		p.logger.Error("publish failed", zap.String("stream", stream), zap.String("type", event.Type), zap.Error(err))
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	p.logger.Debug("published",
		zap.String("stream", stream),
		zap.String("type", event.Type),
		zap.String("msg_id", messageID),
		zap.String("disease", event.Disease),
		zap.Duration("duration", time.Since(startTime)),
	)
	return messageID, nil
}
