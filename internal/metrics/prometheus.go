// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the progression service.
var (
	// Counters.
	MissionsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_missions_completed_total",
			Help: "Total number of missions completed",
		},
		[]string{"pathway", "type"},
	)

	MissionsStartedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_missions_started_total",
			Help: "Total number of missions moved to in-progress",
		},
		[]string{"pathway"},
	)

	SubmissionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_submissions_rejected_total",
			Help: "Total number of mission submissions rejected",
		},
		[]string{"reason"},
	)

	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_xp_awarded_total",
			Help: "Total XP awarded through mission completion",
		},
		[]string{"pathway"},
	)

	LevelUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_level_ups_total",
			Help: "Total number of level ups, by level reached",
		},
		[]string{"level"},
	)

	BadgesAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge_name"},
	)

	MentorFeedbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vnuconnect_mentor_feedback_total",
			Help: "Total mentor feedback entries recorded",
		},
	)

	PreferenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_preference_failures_total",
			Help: "Language preference store failures that fell back softly",
		},
		[]string{"operation"},
	)

	CatalogSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_catalog_searches_total",
			Help: "Catalog searches by kind and cache outcome",
		},
		[]string{"kind", "cache"},
	)

	SchedulerJobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vnuconnect_scheduler_job_runs_total",
			Help: "Scheduled job runs by job and outcome",
		},
		[]string{"job", "status"},
	)

	// Gauges.
	SchedulerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vnuconnect_scheduler_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed scheduler run",
		},
	)

	LearnerXP = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vnuconnect_learner_xp",
			Help: "Current XP per learner",
		},
		[]string{"learner"},
	)

	ActiveBadgeHolders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vnuconnect_active_badge_holders",
			Help: "Current number of learners holding each badge",
		},
		[]string{"badge_name"},
	)

	// Histograms.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vnuconnect_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		},
		[]string{"method", "route", "status"},
	)

	SchedulerJobDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vnuconnect_scheduler_job_duration_seconds",
			Help:    "Duration of scheduled jobs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	MissionCompletionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vnuconnect_mission_completion_duration_seconds",
			Help:    "Time to load, apply and persist one mission completion",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
	)
)

// RecordMissionCompleted records a completed mission and the XP it granted.
func RecordMissionCompleted(pathway, missionType string, xp int) {
	MissionsCompletedTotal.WithLabelValues(pathway, missionType).Inc()
	XPAwardedTotal.WithLabelValues(pathway).Add(float64(xp))
}

// RecordMissionStarted records a mission moving to in-progress.
func RecordMissionStarted(pathway string) {
	MissionsStartedTotal.WithLabelValues(pathway).Inc()
}

// RecordSubmissionRejected records a rejected submission.
func RecordSubmissionRejected(reason string) {
	SubmissionsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordLevelUp records a learner reaching level.
func RecordLevelUp(level int) {
	LevelUpsTotal.WithLabelValues(strconv.Itoa(level)).Inc()
}

// RecordBadgeAwarded records a badge award event.
func RecordBadgeAwarded(badgeName string) {
	BadgesAwardedTotal.WithLabelValues(badgeName).Inc()
}

// RecordMentorFeedback records one feedback entry.
func RecordMentorFeedback() {
	MentorFeedbackTotal.Inc()
}

// RecordPreferenceFailure records a soft failure reading or writing the language preference.
func RecordPreferenceFailure(operation string) {
	PreferenceFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordCatalogSearch records a catalog search; hit reports whether the result came from cache.
func RecordCatalogSearch(kind string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CatalogSearchesTotal.WithLabelValues(kind, outcome).Inc()
}

// SetLearnerXP sets the XP gauge for a learner.
func SetLearnerXP(learnerID uint, xp int) {
	LearnerXP.WithLabelValues(strconv.FormatUint(uint64(learnerID), 10)).Set(float64(xp))
}

// SetActiveBadgeHolders sets the number of holders for a badge.
func SetActiveBadgeHolders(badgeName string, count int) {
	ActiveBadgeHolders.WithLabelValues(badgeName).Set(float64(count))
}

// ObserveHTTPRequest observes one HTTP request.
func ObserveHTTPRequest(method, route string, status int, seconds float64) {
	HTTPRequestDurationSeconds.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}

// ObserveMissionCompletionDuration observes the duration of a mission completion.
func ObserveMissionCompletionDuration(seconds float64) {
	MissionCompletionDurationSeconds.Observe(seconds)
}

// RecordSchedulerJobRun records a scheduled job run.
func RecordSchedulerJobRun(job, status string) {
	SchedulerJobRunsTotal.WithLabelValues(job, status).Inc()
}

// ObserveSchedulerJobDuration observes the duration of a scheduled job.
func ObserveSchedulerJobDuration(job string, seconds float64) {
	SchedulerJobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// SetSchedulerLastRun sets the last run timestamp to now.
func SetSchedulerLastRun() {
	SchedulerLastRunTimestamp.SetToCurrentTime()
}
