package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/b2b-starter/workspace-api/internal/models"
	"github.com/b2b-starter/workspace-api/internal/repository"
	"github.com/b2b-starter/workspace-api/internal/service"
)

// ============================================
// Settings Handler
// ============================================

type SettingsHandler struct {
	settingsService service.SettingsService
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) UpdateGeneral(c *gin.Context) {
	var req models.UpdateGeneralSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateGeneral(c.Request.Context(), req.InstanceName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) UpdateWorkspaces(c *gin.Context) {
	var req models.UpdateWorkspaceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateWorkspaces(c.Request.Context(), *req.WorkspacesEnabled)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func (h *SettingsHandler) UpdatePasswordPolicy(c *gin.Context) {
	var req models.UpdatePasswordPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdatePasswordPolicy(c.Request.Context(), service.PasswordPolicyUpdate{
		MinLength:        req.MinLength,
		RequireSpecial:   req.RequireSpecial,
		RequireNumber:    req.RequireNumber,
		RequireUppercase: req.RequireUppercase,
		RequireLowercase: req.RequireLowercase,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(s *repository.AppSettings) models.SettingsResponse {
	return models.SettingsResponse{
		ID:                s.ID,
		WorkspacesEnabled: s.WorkspacesEnabled,
		InstanceName:      s.InstanceName,
		PasswordMinLength: s.PasswordMinLength,
		RequireSpecial:    s.RequireSpecial,
		RequireNumber:     s.RequireNumber,
		RequireUppercase:  s.RequireUppercase,
		RequireLowercase:  s.RequireLowercase,
		UpdatedAt:         s.UpdatedAt,
	}
}
