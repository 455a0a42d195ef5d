package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"peysphotos/api/internal/config"
)

// Consumer drains the reconciliation stream and runs tasks in-process. One
// consumer group keeps concurrent instances from double-running a sweep.
type Consumer struct {
	client     *redis.Client
	cfg        config.JobsConfig
	reconciler *Reconciler
	log        zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg config.JobsConfig, reconciler *Reconciler, log zerolog.Logger) *Consumer {
	return &Consumer{
		client:     client,
		cfg:        cfg,
		reconciler: reconciler,
		log:        log,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if !c.cfg.Enabled || c.client == nil {
		return nil
	}

	err := c.client.XGroupCreateMkStream(ctx, c.cfg.Stream, c.cfg.Group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := c.read(ctx); err != nil && ctx.Err() == nil {
			c.log.Error().Err(err).Msg("stream read error")
			time.Sleep(2 * time.Second)
		}
	}
}

func (c *Consumer) read(ctx context.Context) error {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.cfg.Group,
		Consumer: "api",
		Streams:  []string{c.cfg.Stream, ">"},
		Count:    1,
		Block:    5 * time.Second,
	}).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	for _, stream := range result {
		for _, msg := range stream.Messages {
			c.handle(ctx, msg)
			if err := c.client.XAck(ctx, c.cfg.Stream, c.cfg.Group, msg.ID).Err(); err != nil {
				c.log.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
			}
		}
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) {
	taskType, _ := msg.Values["type"].(string)

	switch taskType {
	case TaskSweep:
		report, err := c.reconciler.Sweep(ctx)
		if err != nil {
			c.log.Error().Err(err).Msg("sweep failed")
			return
		}
		c.log.Info().
			Int("orphans_deleted", report.OrphansDeleted).
			Int("videos_backfilled", report.VideosBackfilled).
			Int("categories", report.CategoriesScanned).
			Msg("reconciliation sweep complete")
	default:
		c.log.Warn().Str("type", taskType).Msg("unknown task type")
	}
}
