package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"peysphotos/api/internal/config"
)

// TaskSweep diffs remote folders against local rows: orphans are deleted,
// legacy folder-convention videos are backfilled into the database.
const TaskSweep = "sweep"

// Scheduler enqueues periodic reconciliation tasks onto the redis stream the
// in-process consumer reads from.
type Scheduler struct {
	cron  *cron.Cron
	queue *redis.Client
	cfg   config.JobsConfig
	log   zerolog.Logger
}

func NewScheduler(queue *redis.Client, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if !s.cfg.Enabled || s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.enqueueSweep); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron and waits up to five seconds for in-flight jobs.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("cron jobs still running at shutdown")
	}
}

func (s *Scheduler) enqueueSweep() {
	if err := s.Enqueue(context.Background(), TaskSweep); err != nil {
		s.log.Error().Err(err).Msg("enqueue sweep failed")
	}
}

// Enqueue publishes a task; also called by the manual admin trigger.
func (s *Scheduler) Enqueue(ctx context.Context, taskType string) error {
	if s.queue == nil {
		return nil
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Stream,
		Values: map[string]any{"type": taskType},
	}).Result()
	return err
}
