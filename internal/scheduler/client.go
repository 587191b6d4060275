package scheduler

import (
	"context"
	"errors"
	"fmt"

	"hvac_quote_backend/internal/leads/transport"
	"hvac_quote_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	leadPatchMaxRetry    = 5
	notificationMaxRetry = 3
)

var errNotConfigured = errors.New("scheduler client not configured")

type Client struct {
	client *asynq.Client
}

// PatchQueue defers best-effort lead writes.
type PatchQueue interface {
	EnqueueLeadPatch(ctx context.Context, patch transport.LeadPatch) error
}

// NotificationQueue defers admin emails.
type NotificationQueue interface {
	EnqueueAdminNotification(ctx context.Context, payload AdminNotificationPayload) error
}

func NewClient(cfg config.RedisConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{client: asynq.NewClient(opt)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadPatch queues one step's answers. Delivery is at least once;
// the store drops patches older than the last applied one for the step.
func (c *Client) EnqueueLeadPatch(ctx context.Context, patch transport.LeadPatch) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	task, err := NewLeadPatchTask(patch)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueLeadPatches),
		asynq.MaxRetry(leadPatchMaxRetry),
	)
	return err
}

func (c *Client) EnqueueAdminNotification(ctx context.Context, payload AdminNotificationPayload) error {
	if c == nil || c.client == nil {
		return errNotConfigured
	}
	task, err := NewAdminNotificationTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(notificationMaxRetry),
	)
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var (
	_ PatchQueue        = (*Client)(nil)
	_ NotificationQueue = (*Client)(nil)
)
