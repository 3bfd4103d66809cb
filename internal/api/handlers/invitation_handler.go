package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/b2b-starter/workspace-api/internal/models"
	"github.com/b2b-starter/workspace-api/internal/repository"
	"github.com/b2b-starter/workspace-api/internal/service"
)

// ============================================
// Invitation Handler
// ============================================

type InvitationHandler struct {
	invitationService service.InvitationService
}

func (h *InvitationHandler) Create(c *gin.Context) {
	workspaceID := c.Param("id")

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invitation, err := h.invitationService.Invite(c.Request.Context(), workspaceID, req.Email, req.InvitedByID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInvitationResponse(invitation))
}

func (h *InvitationHandler) Resolve(c *gin.Context) {
	token := c.Param("token")

	invitation, err := h.invitationService.Resolve(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResolveResponse(invitation))
}

func (h *InvitationHandler) Accept(c *gin.Context) {
	token := c.Param("token")

	var req models.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	invitation, err := h.invitationService.Accept(c.Request.Context(), token, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspaceId": invitation.WorkspaceID,
		"status":      invitation.Status,
	})
}

func (h *InvitationHandler) Cancel(c *gin.Context) {
	workspaceID := c.Param("id")
	invitationID := c.Param("invitationId")

	if err := h.invitationService.Cancel(c.Request.Context(), workspaceID, invitationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func toResolveResponse(inv *repository.Invitation) models.ResolveInvitationResponse {
	resp := models.ResolveInvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt,
	}
	if inv.Workspace != nil {
		resp.Workspace = &models.WorkspaceRef{ID: inv.Workspace.ID, Name: inv.Workspace.Name}
	}
	if inv.InvitedBy != nil {
		resp.InvitedBy = &models.UserRef{ID: inv.InvitedBy.ID, Name: inv.InvitedBy.Name}
	}
	return resp
}
