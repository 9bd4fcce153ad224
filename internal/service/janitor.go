package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultSessionTTL    = 2 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

// SessionJanitor periodically drops quiz sessions nobody touched for ttl.
type SessionJanitor struct {
	storage  QuizStorage
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionJanitor(storage QuizStorage, ttl, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &SessionJanitor{
		storage:  storage,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the sweep on schedule until ctx is cancelled.
func (j *SessionJanitor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		j.Sweep()
	})
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	j.logger.Info("session janitor started",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval),
	)

	<-ctx.Done()

	// Wait for a running sweep to finish.
	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")

	return nil
}

// Sweep removes idle sessions and returns how many were dropped.
func (j *SessionJanitor) Sweep() int {
	n := j.storage.DeleteIdle(j.ttl)
	if n > 0 {
		j.logger.Info("idle quiz sessions dropped", zap.Int("count", n))
	}
	return n
}
