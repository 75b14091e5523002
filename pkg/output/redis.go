package output

import (
	"context"
	"fmt"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/reporter"
	"github.com/redis/go-redis/v9"
)

// redisPublisher is the part of *redis.Client the handler uses
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisHandler publishes JSON envelopes on a pub/sub channel.
// Nothing is stored in Redis.
type RedisHandler struct {
	client  redisPublisher
	channel string
	close   func() error
}

// NewRedisHandler wraps an existing client
func NewRedisHandler(client redisPublisher, channel string) *RedisHandler {
	return &RedisHandler{
		client:  client,
		channel: channel,
		close:   func() error { return nil },
	}
}

// DialRedis connects to addr and verifies the connection
func DialRedis(ctx context.Context, addr, channel string) (*RedisHandler, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	h := NewRedisHandler(client, channel)
	h.close = client.Close
	return h, nil
}

func (r *RedisHandler) Name() string {
	return "redis"
}

func (r *RedisHandler) HandleReport(ctx context.Context, report *models.Report) error {
	body, err := reporter.ReportJSON(report)
	if err != nil {
		return err
	}
	return r.publish(ctx, body)
}

func (r *RedisHandler) HandleNotice(ctx context.Context, notice *models.Notice) error {
	body, err := reporter.NoticeJSON(notice)
	if err != nil {
		return err
	}
	return r.publish(ctx, body)
}

func (r *RedisHandler) publish(ctx context.Context, body []byte) error {
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.channel, err)
	}
	return nil
}

// Close releases the client opened by DialRedis
func (r *RedisHandler) Close() error {
	return r.close()
}
