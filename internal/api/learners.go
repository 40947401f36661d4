package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iseven/vnu-connect-x/internal/models"
	"github.com/iseven/vnu-connect-x/internal/progression"
)

// enrollRequest is the body of an enrollment.
type enrollRequest struct {
	Key string `json:"key" binding:"required"`
}

// GetLevels returns the level threshold table.
// GET /api/v1/levels.
func (h *Handler) GetLevels(c *gin.Context) {
	entries := h.levels.Entries()
	c.JSON(http.StatusOK, gin.H{
		"levels":       entries,
		"max_level":    h.levels.MaxLevel(),
		"generated_at": time.Now().UTC(),
	})
}

// ResolveLevel resolves an XP total to its level and progress.
// GET /api/v1/levels/resolve?xp=180.
func (h *Handler) ResolveLevel(c *gin.Context) {
	xpStr := c.Query("xp")
	xp, err := strconv.Atoi(xpStr)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "invalid xp parameter: "+xpStr)
		return
	}

	info, err := h.levels.Resolve(xp)
	if err != nil {
		h.serviceError(c, err, "Failed to resolve level")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"xp":           xp,
		"level":        info,
		"generated_at": time.Now().UTC(),
	})
}

// GetLearner returns a learner profile with the resolved level.
// GET /api/v1/learners/:id.
func (h *Handler) GetLearner(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	learner, err := h.missionService.Learner(ctx, learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve learner")
		return
	}

	level, err := h.levels.Resolve(learner.XP)
	if err != nil {
		h.serviceError(c, err, "Failed to resolve learner level")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"learner":      learner,
		"level":        level,
		"generated_at": time.Now().UTC(),
	})
}

// ListTemplates returns the pathways a learner can enroll in.
// GET /api/v1/pathways.
func (h *Handler) ListTemplates(c *gin.Context) {
	templates := h.missionService.Templates(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"pathways":       templates,
		"total_pathways": len(templates),
		"generated_at":   time.Now().UTC(),
	})
}

// GetLearnerPathways returns the learner's pathways with progress counters.
// GET /api/v1/learners/:id/pathways.
func (h *Handler) GetLearnerPathways(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	pathways, err := h.missionService.Pathways(ctx, learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve pathways")
		return
	}
	progress, err := h.missionService.PathwayProgress(ctx, learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve pathway progress")
		return
	}

	h.log.Info().
		Uint("learner_id", learnerID).
		Int("pathways", len(pathways)).
		Msg("Retrieved learner pathways")

	c.JSON(http.StatusOK, gin.H{
		"learner_id":   learnerID,
		"pathways":     pathways,
		"progress":     progress,
		"generated_at": time.Now().UTC(),
	})
}

// GetLearnerPathway returns one of the learner's pathways.
// GET /api/v1/learners/:id/pathways/:pathwayId.
func (h *Handler) GetLearnerPathway(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	pathwayID, err := h.parseID(c, "pathwayId", "pathway")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pathways, err := h.missionService.Pathways(c.Request.Context(), learnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve pathway")
		return
	}
	for i := range pathways {
		if pathways[i].ID == pathwayID {
			c.JSON(http.StatusOK, gin.H{
				"pathway":      pathways[i],
				"generated_at": time.Now().UTC(),
			})
			return
		}
	}

	h.serviceError(c, progression.ErrPathwayNotFound, "Failed to retrieve pathway")
}

// Enroll gives the learner a fresh copy of a pathway.
// POST /api/v1/learners/:id/pathways {"key": "pm-fresher"}.
func (h *Handler) Enroll(c *gin.Context) {
	learnerID, err := h.parseLearnerID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}

	pathway, err := h.missionService.Enroll(c.Request.Context(), learnerID, strings.TrimSpace(req.Key))
	if err != nil {
		h.serviceError(c, err, "Failed to enroll learner")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"pathway":      pathway,
		"generated_at": time.Now().UTC(),
	})
}

// StartMission moves an unlocked mission to in-progress.
// POST /api/v1/learners/:id/pathways/:pathwayId/missions/:index/start.
func (h *Handler) StartMission(c *gin.Context) {
	learnerID, pathwayID, index, err := h.parseMissionRef(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	pathway, err := h.missionService.StartMission(c.Request.Context(), learnerID, pathwayID, index)
	if err != nil {
		h.serviceError(c, err, "Failed to start mission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pathway":      pathway,
		"mission":      pathway.Missions[index],
		"generated_at": time.Now().UTC(),
	})
}

// SubmitMission completes a mission with the submitted evidence.
// POST /api/v1/learners/:id/pathways/:pathwayId/missions/:index/submit.
// An Idempotency-Key header makes replays fail with 409 instead of granting XP twice.
func (h *Handler) SubmitMission(c *gin.Context) {
	learnerID, pathwayID, index, err := h.parseMissionRef(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var sub progression.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.errorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}

	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	out, err := h.missionService.CompleteMission(c.Request.Context(), learnerID, pathwayID, index, sub, key)
	if err != nil {
		h.serviceError(c, err, "Failed to submit mission")
		return
	}

	h.log.Info().
		Uint("learner_id", learnerID).
		Uint("pathway_id", pathwayID).
		Int("mission_index", index).
		Int("new_xp", out.Summary.NewXP).
		Bool("leveled_up", out.LeveledUp).
		Msg("Mission submitted")

	c.JSON(http.StatusOK, gin.H{
		"result":       out,
		"generated_at": time.Now().UTC(),
	})
}

// AddMentorFeedback records mentor feedback on a completed mission.
// POST /api/v1/learners/:id/pathways/:pathwayId/missions/:index/feedback.
func (h *Handler) AddMentorFeedback(c *gin.Context) {
	learnerID, pathwayID, index, err := h.parseMissionRef(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var feedback models.MentorFeedback
	if err := c.ShouldBindJSON(&feedback); err != nil {
		h.errorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}

	mission, err := h.missionService.AddMentorFeedback(c.Request.Context(), learnerID, pathwayID, index, feedback)
	if err != nil {
		h.serviceError(c, err, "Failed to record mentor feedback")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"mission":      mission,
		"generated_at": time.Now().UTC(),
	})
}
