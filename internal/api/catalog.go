package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	catfilter "github.com/iseven/vnu-connect-x/internal/catalog"
)

// SearchProjects returns projects matching the query and category filters.
// GET /api/v1/projects?q=react&status=Open&difficulty=All&domain=Tech&type=Micro-Gig.
func (h *Handler) SearchProjects(c *gin.Context) {
	var filter catfilter.ProjectFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	projects, err := h.catalogService.SearchProjects(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to search projects")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to search projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects":       projects,
		"filter":         filter,
		"total_projects": len(projects),
		"generated_at":   time.Now().UTC(),
	})
}

// GetProject returns one project.
// GET /api/v1/projects/:id.
func (h *Handler) GetProject(c *gin.Context) {
	id, err := h.parseID(c, "id", "project")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.catalogService.GetProject(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve project")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project":      project,
		"generated_at": time.Now().UTC(),
	})
}

// SearchMentors returns mentors matching the query and field filter.
// GET /api/v1/mentors?q=google&field=Software%20Engineering.
func (h *Handler) SearchMentors(c *gin.Context) {
	var filter catfilter.MentorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	mentors, err := h.catalogService.SearchMentors(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to search mentors")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to search mentors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mentors":       mentors,
		"filter":        filter,
		"total_mentors": len(mentors),
		"generated_at":  time.Now().UTC(),
	})
}

// GetMentor returns one mentor.
// GET /api/v1/mentors/:id.
func (h *Handler) GetMentor(c *gin.Context) {
	id, err := h.parseID(c, "id", "mentor")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	mentor, err := h.catalogService.GetMentor(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve mentor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mentor":       mentor,
		"generated_at": time.Now().UTC(),
	})
}
