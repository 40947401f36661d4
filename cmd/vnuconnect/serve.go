package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/iseven/vnu-connect-x/internal/api"
	"github.com/iseven/vnu-connect-x/internal/service/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.NewService(&cfg.Scheduler, a.achievements, a.leaderboard, log)
	if err := sched.RunGaugeSnapshot(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial gauge snapshot failed")
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]api.HealthCheck{
		"database": func(context.Context) error { return a.db.Health() },
	}
	if a.redis != nil {
		checks["redis"] = a.redis.Health
	}

	handler := api.NewHandler(a.missions, a.achievements, a.leaderboard, a.catalog, a.preferences, log)
	router := api.NewRouter(handler, api.RouterConfig{
		MetricsEnabled: cfg.Metrics.Prometheus.Enabled,
		MetricsPath:    cfg.Metrics.Prometheus.Path,
		HealthChecks:   checks,
	}, log)

	srv := api.NewServer(cfg.Server.ListenAddr(), router, log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
