// Package scheduler runs the periodic gauge snapshot that keeps XP and badge holder metrics current.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iseven/vnu-connect-x/internal/config"
	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// JobGaugeSnapshot labels the snapshot job in metrics and logs.
const JobGaugeSnapshot = "gauge_snapshot"

// HolderGauges republishes the per-badge holder gauges.
type HolderGauges interface {
	RefreshHolderGauges(ctx context.Context) (int, error)
}

// XPGauges republishes the per-learner XP gauges.
type XPGauges interface {
	RefreshXPGauges(ctx context.Context) (int, error)
}

// Service schedules gauge snapshots.
type Service struct {
	config  *config.SchedulerConfig
	holders HolderGauges
	xp      XPGauges
	log     *logger.Logger
	cron    *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.SchedulerConfig, holders HolderGauges, xp XPGauges, log *logger.Logger) *Service {
	return &Service{
		config:  cfg,
		holders: holders,
		xp:      xp,
		log:     log.Component("scheduler"),
	}
}

// Start registers the snapshot jobs and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	cronExpr, err := s.buildCronExpression()
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	c := cron.New(cron.WithLocation(location))
	job := func() { s.RunGaugeSnapshot(context.Background()) }

	if _, err := c.AddFunc(cronExpr, job); err != nil {
		return fmt.Errorf("failed to register gauge snapshot job: %w", err)
	}
	if s.config.RefreshSchedule != "" {
		if _, err := c.AddFunc(s.config.RefreshSchedule, job); err != nil {
			return fmt.Errorf("failed to register refresh job %q: %w", s.config.RefreshSchedule, err)
		}
	}

	s.cron = c
	s.cron.Start()

	nextRun := ""
	if entries := s.cron.Entries(); len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", cronExpr).
		Str("refresh_schedule", s.config.RefreshSchedule).
		Str("timezone", s.config.Timezone).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// buildCronExpression turns the HH:MM snapshot time into a daily cron expression.
func (s *Service) buildCronExpression() (string, error) {
	parts := strings.Split(s.config.Time, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", s.config.Time)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	// Format: "minute hour day month weekday"
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// RunGaugeSnapshot republishes both gauge families. A failure in one does not skip the other.
func (s *Service) RunGaugeSnapshot(ctx context.Context) error {
	start := time.Now()
	defer func() {
		prommetrics.ObserveSchedulerJobDuration(JobGaugeSnapshot, time.Since(start).Seconds())
		prommetrics.SetSchedulerLastRun()
	}()

	var errs []error

	badges, err := s.holders.RefreshHolderGauges(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to publish badge holder gauges")
		errs = append(errs, err)
	}

	learners, err := s.xp.RefreshXPGauges(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to publish learner XP gauges")
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		prommetrics.RecordSchedulerJobRun(JobGaugeSnapshot, "error")
		return fmt.Errorf("gauge snapshot failed: %w", errors.Join(errs...))
	}

	prommetrics.RecordSchedulerJobRun(JobGaugeSnapshot, "success")
	s.log.Info().
		Int("badges", badges).
		Int("learners", learners).
		Dur("duration", time.Since(start)).
		Msg("Gauge snapshot completed")

	return nil
}
