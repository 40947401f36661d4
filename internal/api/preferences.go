package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iseven/vnu-connect-x/internal/preferences"
)

// languageRequest is the body of a language change.
type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// GetLanguage returns the stored language preference.
// GET /api/v1/preferences/language.
func (h *Handler) GetLanguage(c *gin.Context) {
	lang := h.preferences.Get(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"key":          preferences.LanguageKey,
		"language":     lang,
		"generated_at": time.Now().UTC(),
	})
}

// SetLanguage stores the language preference.
// PUT /api/v1/preferences/language {"language": "vi"}.
func (h *Handler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, bindError(err))
		return
	}

	lang, err := preferences.ParseLanguage(req.Language)
	if err != nil {
		h.serviceError(c, err, "Failed to parse language")
		return
	}
	if err := h.preferences.Set(c.Request.Context(), lang); err != nil {
		h.serviceError(c, err, "Failed to save language preference")
		return
	}

	h.log.Info().Str("language", string(lang)).Msg("Language preference updated")

	c.JSON(http.StatusOK, gin.H{
		"key":          preferences.LanguageKey,
		"language":     lang,
		"generated_at": time.Now().UTC(),
	})
}
