package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	prommetrics "github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// RouterConfig controls the optional parts of the router.
type RouterConfig struct {
	MetricsEnabled bool
	MetricsPath    string
	HealthChecks   map[string]HealthCheck
}

// NewRouter builds the gin engine with middleware and every API route.
func NewRouter(h *Handler, cfg RouterConfig, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(log))

	r.GET("/health", healthHandler(cfg.HealthChecks))
	if cfg.MetricsEnabled {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/levels", h.GetLevels)
		v1.GET("/levels/resolve", h.ResolveLevel)

		v1.GET("/pathways", h.ListTemplates)

		learners := v1.Group("/learners/:id")
		learners.GET("", h.GetLearner)
		learners.GET("/stats", h.GetLearnerStats)
		learners.GET("/achievements", h.GetLearnerAchievements)
		learners.GET("/pathways", h.GetLearnerPathways)
		learners.POST("/pathways", h.Enroll)
		learners.GET("/pathways/:pathwayId", h.GetLearnerPathway)
		learners.POST("/pathways/:pathwayId/missions/:index/start", h.StartMission)
		learners.POST("/pathways/:pathwayId/missions/:index/submit", h.SubmitMission)
		learners.POST("/pathways/:pathwayId/missions/:index/feedback", h.AddMentorFeedback)

		v1.GET("/leaderboard", h.GetLeaderboard)
		v1.GET("/leaderboard/majors", h.GetMajors)

		v1.GET("/badges", h.GetBadgeCatalog)
		v1.GET("/badges/holders", h.GetBadgeHolders)

		v1.GET("/projects", h.SearchProjects)
		v1.GET("/projects/:id", h.GetProject)
		v1.GET("/mentors", h.SearchMentors)
		v1.GET("/mentors/:id", h.GetMentor)

		v1.GET("/preferences/language", h.GetLanguage)
		v1.PUT("/preferences/language", h.SetLanguage)
	}

	return r
}

// RequestID reuses the caller's X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one log line per request and observes its latency.
// Health and metrics probes are not logged.
func AccessLog(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		duration := time.Since(start)
		prommetrics.ObserveHTTPRequest(c.Request.Method, route, status, duration.Seconds())

		if route == "/health" || strings.HasPrefix(c.Request.URL.Path, "/metrics") {
			return
		}

		event := httpLog.Info()
		if status >= http.StatusInternalServerError {
			event = httpLog.Error()
		}
		event.
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status", status).
			Int64("duration_ms", duration.Milliseconds()).
			Str("remote_addr", c.ClientIP()).
			Msg("Request completed")
	}
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{
			"status":    state,
			"checks":    results,
			"timestamp": time.Now().UTC(),
		})
	}
}
