// Package scheduler enqueues and consumes delivery jobs over asynq.
// The admin API only ever enqueues; cmd/worker runs the consumer.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"resto_admin_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const defaultQueue = "default"

// DeliveryQueue is the narrow enqueue surface the orders module depends on.
type DeliveryQueue interface {
	EnqueueConfirmationResend(ctx context.Context, payload ConfirmationResendPayload) error
}

// Client enqueues delivery tasks on the configured queue.
type Client struct {
	client *asynq.Client
	queue  string
}

// Compile-time check that Client implements DeliveryQueue.
var _ DeliveryQueue = (*Client)(nil)

// NewClient creates the asynq client from the redis configuration.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = defaultQueue
	}

	return &Client{client: asynq.NewClient(opt), queue: queue}, nil
}

// EnqueueConfirmationResend queues one confirmation redelivery.
func (c *Client) EnqueueConfirmationResend(ctx context.Context, payload ConfirmationResendPayload) error {
	task, err := NewConfirmationResendTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(5))
	return err
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// redisConnOpt translates the redis URL from config into asynq's connection
// options, honoring rediss:// TLS and the insecure-verify escape hatch for
// managed redis with self-signed certs.
func redisConnOpt(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}

	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}

	tlsConfig := parsed.TLSConfig
	if tlsConfig != nil {
		tlsConfig = tlsConfig.Clone()
	}
	if cfg.GetRedisTLSInsecure() {
		if tlsConfig == nil {
			tlsConfig = &tls.Config{}
		}
		tlsConfig.InsecureSkipVerify = true
	}

	return asynq.RedisClientOpt{
		Addr:      parsed.Addr,
		Password:  parsed.Password,
		DB:        parsed.DB,
		TLSConfig: tlsConfig,
	}, nil
}
