package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iseven/vnu-connect-x/internal/service/leaderboard"
)

// GetLeaderboard returns learners ranked by XP.
// GET /api/v1/leaderboard?major=Software%20Engineering&limit=10.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	major := strings.TrimSpace(c.Query("major"))
	limit, err := h.parseLimit(c, leaderboard.DefaultLimit)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), major, limit)
	if err != nil {
		h.log.Error().Err(err).Str("major", major).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	h.log.Info().
		Str("major", major).
		Int("limit", limit).
		Int("entries", len(entries)).
		Msg("Retrieved leaderboard")

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"major":         major,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// GetMajors returns the majors that can filter the leaderboard.
// GET /api/v1/leaderboard/majors.
func (h *Handler) GetMajors(c *gin.Context) {
	majors, err := h.leaderboardService.Majors(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get majors")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve majors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"majors":       majors,
		"generated_at": time.Now().UTC(),
	})
}

// GetLearnerStats returns statistics for a specific learner.
// GET /api/v1/learners/:id/stats.
func (h *Handler) GetLearnerStats(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.leaderboardService.GetLearnerStats(c.Request.Context(), learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve learner statistics")
		return
	}

	h.log.Info().
		Uint("learner_id", learnerID).
		Msg("Retrieved learner stats")

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"generated_at": time.Now().UTC(),
	})
}

// GetLearnerAchievements returns achievements earned by a specific learner.
// GET /api/v1/learners/:id/achievements.
func (h *Handler) GetLearnerAchievements(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	earned, err := h.achievementService.GetLearnerAchievements(c.Request.Context(), learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve learner achievements")
		return
	}

	h.log.Info().
		Uint("learner_id", learnerID).
		Int("achievement_count", len(earned)).
		Msg("Retrieved learner achievements")

	c.JSON(http.StatusOK, gin.H{
		"learner_id":         learnerID,
		"achievements":       earned,
		"total_achievements": len(earned),
		"generated_at":       time.Now().UTC(),
	})
}

// GetBadgeCatalog returns all mission badges with holder counts.
// GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	catalogBadges, err := h.achievementService.GetBadgeCatalog(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get badge catalog")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve badge catalog")
		return
	}

	h.log.Info().
		Int("badge_count", len(catalogBadges)).
		Msg("Retrieved badge catalog")

	c.JSON(http.StatusOK, gin.H{
		"badges":       catalogBadges,
		"total_badges": len(catalogBadges),
		"generated_at": time.Now().UTC(),
	})
}

// GetBadgeHolders returns learners who hold the titled badge.
// GET /api/v1/badges/holders?title=Connector&limit=50.
func (h *Handler) GetBadgeHolders(c *gin.Context) {
	title := c.Query("title")

	limit, err := h.parseLimit(c, 50)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	holders, err := h.achievementService.GetBadgeHolders(c.Request.Context(), title)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve badge holders")
		return
	}

	// Apply limit
	totalHolders := len(holders)
	if len(holders) > limit {
		holders = holders[:limit]
	}

	h.log.Info().
		Str("badge", title).
		Int("holder_count", len(holders)).
		Int("limit", limit).
		Msg("Retrieved badge holders")

	c.JSON(http.StatusOK, gin.H{
		"badge":         strings.TrimSpace(title),
		"holders":       holders,
		"total_holders": totalHolders,
		"limited_to":    len(holders),
		"generated_at":  time.Now().UTC(),
	})
}
