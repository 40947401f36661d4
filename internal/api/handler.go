// Package api provides the REST handlers for learners, pathways, missions,
// the badge and leaderboard dashboard, the project and mentor catalog, and
// the language preference.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	catfilter "github.com/iseven/vnu-connect-x/internal/catalog"
	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/preferences"
	"github.com/iseven/vnu-connect-x/internal/progression"
	"github.com/iseven/vnu-connect-x/internal/service/achievements"
	"github.com/iseven/vnu-connect-x/internal/service/catalog"
	"github.com/iseven/vnu-connect-x/internal/service/leaderboard"
	"github.com/iseven/vnu-connect-x/internal/service/missions"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// MissionService interface for learner, pathway and mission operations.
type MissionService interface {
	Learner(ctx context.Context, learnerID uint) (*models.Learner, error)
	Templates(ctx context.Context) []models.Pathway
	Pathways(ctx context.Context, learnerID uint) ([]models.Pathway, error)
	PathwayProgress(ctx context.Context, learnerID uint) ([]missions.Progress, error)
	Enroll(ctx context.Context, learnerID uint, key string) (*models.Pathway, error)
	StartMission(ctx context.Context, learnerID, pathwayID uint, missionIndex int) (*models.Pathway, error)
	CompleteMission(
		ctx context.Context,
		learnerID, pathwayID uint,
		missionIndex int,
		sub progression.Submission,
		idempotencyKey string,
	) (*missions.Completion, error)
	AddMentorFeedback(
		ctx context.Context,
		learnerID, pathwayID uint,
		missionIndex int,
		feedback models.MentorFeedback,
	) (*models.Mission, error)
}

// AchievementService interface for badge operations.
type AchievementService interface {
	GetLearnerAchievements(ctx context.Context, learnerID uint) ([]models.Achievement, error)
	GetBadgeCatalog(ctx context.Context) ([]achievements.BadgeInfo, error)
	GetBadgeHolders(ctx context.Context, title string) ([]achievements.Holder, error)
}

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, major string, limit int) ([]leaderboard.Entry, error)
	GetLearnerStats(ctx context.Context, learnerID uint) (*leaderboard.LearnerStats, error)
	Majors(ctx context.Context) ([]string, error)
}

// CatalogService interface for project and mentor search.
type CatalogService interface {
	SearchProjects(ctx context.Context, f catfilter.ProjectFilter) ([]models.Project, error)
	SearchMentors(ctx context.Context, f catfilter.MentorFilter) ([]models.Mentor, error)
	GetProject(ctx context.Context, id uint) (*models.Project, error)
	GetMentor(ctx context.Context, id uint) (*models.Mentor, error)
}

// PreferenceStore interface for the language preference.
type PreferenceStore interface {
	Get(ctx context.Context) preferences.Language
	Set(ctx context.Context, lang preferences.Language) error
}

// Handler handles API requests.
type Handler struct {
	missionService     MissionService
	achievementService AchievementService
	leaderboardService LeaderboardService
	catalogService     CatalogService
	preferences        PreferenceStore
	levels             *progression.Table
	log                *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	missionService *missions.Service,
	achievementService *achievements.Service,
	leaderboardService *leaderboard.Service,
	catalogService *catalog.Service,
	prefs *preferences.Store,
	log *logger.Logger,
) *Handler {
	return NewHandlerWithInterfaces(missionService, achievementService, leaderboardService, catalogService, prefs, log)
}

// NewHandlerWithInterfaces creates a new API handler with interface dependencies (useful for testing).
func NewHandlerWithInterfaces(
	missionService MissionService,
	achievementService AchievementService,
	leaderboardService LeaderboardService,
	catalogService CatalogService,
	prefs PreferenceStore,
	log *logger.Logger,
) *Handler {
	return &Handler{
		missionService:     missionService,
		achievementService: achievementService,
		leaderboardService: leaderboardService,
		catalogService:     catalogService,
		preferences:        prefs,
		levels:             progression.DefaultTable,
		log:                log.Component("api"),
	}
}

// statusBySentinel maps domain errors to HTTP status codes. The first match wins.
var statusBySentinel = []struct {
	err    error
	status int
}{
	{models.ErrNotFound, http.StatusNotFound},
	{progression.ErrPathwayNotFound, http.StatusNotFound},
	{progression.ErrMissionOutOfRange, http.StatusNotFound},
	{missions.ErrUnknownPathway, http.StatusNotFound},
	{progression.ErrMissionNotSubmittable, http.StatusConflict},
	{progression.ErrMissionNotStartable, http.StatusConflict},
	{missions.ErrDuplicateSubmission, http.StatusConflict},
	{missions.ErrAlreadyEnrolled, http.StatusConflict},
	{missions.ErrMissionNotCompleted, http.StatusConflict},
	{missions.ErrInvalidFeedback, http.StatusBadRequest},
	{progression.ErrNegativeXP, http.StatusBadRequest},
	{achievements.ErrEmptyTitle, http.StatusBadRequest},
	{preferences.ErrUnsupportedLanguage, http.StatusBadRequest},
}

// serviceError writes the response for err. Known domain errors get their
// status and sentinel message; anything else is a 500 with fallback.
func (h *Handler) serviceError(c *gin.Context, err error, fallback string) {
	var subErr *progression.SubmissionError
	if errors.As(err, &subErr) {
		lang := h.language(c)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     progression.ErrMsgSubmissionRejected,
			"reasons":   subErr.Translate(string(lang)),
			"language":  lang,
			"timestamp": time.Now().UTC(),
		})
		return
	}

	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			h.log.Debug().Err(err).Int("status", m.status).Str("path", c.FullPath()).Msg("Request rejected")
			h.errorResponse(c, m.status, m.err.Error())
			return
		}
	}

	h.log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	h.errorResponse(c, http.StatusInternalServerError, fallback)
}

// language picks the response language: the lang query parameter, then
// Accept-Language, then the stored preference.
func (h *Handler) language(c *gin.Context) preferences.Language {
	if q := c.Query("lang"); q != "" {
		if lang, err := preferences.ParseLanguage(q); err == nil {
			return lang
		}
	}

	stored := preferences.DefaultLanguage
	if h.preferences != nil {
		stored = h.preferences.Get(c.Request.Context())
	}
	if header := c.GetHeader("Accept-Language"); header != "" {
		return preferences.Negotiate(header, stored)
	}
	return stored
}

// Helper functions

// parseID extracts and validates a numeric ID from the named URL parameter.
func (h *Handler) parseID(c *gin.Context, param, what string) (uint, error) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, idStr)
	}
	return uint(id), nil
}

// parseLearnerID extracts the learner ID from the URL parameter.
func (h *Handler) parseLearnerID(c *gin.Context) (uint, error) {
	return h.parseID(c, "id", "learner")
}

// parseMissionRef extracts the learner, pathway and mission index from the URL.
func (h *Handler) parseMissionRef(c *gin.Context) (learnerID, pathwayID uint, index int, err error) {
	if learnerID, err = h.parseLearnerID(c); err != nil {
		return 0, 0, 0, err
	}
	if pathwayID, err = h.parseID(c, "pathwayId", "pathway"); err != nil {
		return 0, 0, 0, err
	}
	idxStr := c.Param("index")
	index, err = strconv.Atoi(idxStr)
	if err != nil || index < 0 {
		return 0, 0, 0, fmt.Errorf("invalid mission index: %s", idxStr)
	}
	return learnerID, pathwayID, index, nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > leaderboard.MaxLimit {
		return 0, fmt.Errorf("limit cannot exceed %d", leaderboard.MaxLimit)
	}

	return limit, nil
}

// bindError renders a request binding failure as a short message.
func bindError(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i > 0 {
		msg = msg[:i]
	}
	return "invalid request body: " + msg
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}
