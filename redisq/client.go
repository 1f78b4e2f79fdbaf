// Package redisq wires the background rank-job queue: an asynq client for
// producers and an asynq server for the worker run mode.
package redisq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/gosom/localrank/redisq/config"
	"github.com/gosom/localrank/redisq/tasks"
)

// Client enqueues background rank jobs.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg *config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// EnqueueRank schedules a rank-search job on the default queue. A missing
// job id gets generated so the result file always has a name.
func (c *Client) EnqueueRank(ctx context.Context, payload *tasks.RankPayload, opts ...asynq.Option) error {
	if payload.JobID == "" {
		payload.JobID = uuid.New().String()
	}

	task, err := tasks.NewRankTask(payload)
	if err != nil {
		return err
	}

	if _, err := c.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue rank task: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
