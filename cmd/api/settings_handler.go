package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"planora-backend/internal/settings"
)

// SettingsHandler serves the per-user preference endpoints
type SettingsHandler struct {
	prefs settings.PreferenceRepository
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(prefs settings.PreferenceRepository) *SettingsHandler {
	return &SettingsHandler{prefs: prefs}
}

// GetPreferences returns the user's stored preferences (or the defaults)
// GET /api/settings/preferences
func (h *SettingsHandler) GetPreferences(c *gin.Context) {
	userID := c.GetString("userID")

	prefs, err := h.prefs.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences replaces the user's preferences
// PUT /api/settings/preferences
func (h *SettingsHandler) UpdatePreferences(c *gin.Context) {
	userID := c.GetString("userID")

	var prefs settings.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := prefs.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.prefs.Put(c.Request.Context(), userID, prefs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Preferences updated successfully",
		"preferences": prefs,
	})
}
