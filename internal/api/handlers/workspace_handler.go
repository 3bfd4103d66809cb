package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/b2b-starter/workspace-api/internal/models"
	"github.com/b2b-starter/workspace-api/internal/service"
)

// ============================================
// Workspace Handler
// ============================================

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	workspace, err := h.workspaceService.Create(c.Request.Context(), req.OwnerID, req.Name, req.IsDefault)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	userID := c.Query("userId")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	workspaces, total, err := h.workspaceService.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.WorkspaceResponse, len(workspaces))
	for i, ws := range workspaces {
		items[i] = toWorkspaceResponse(ws)
	}

	c.JSON(http.StatusOK, models.WorkspaceListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	id := c.Param("id")

	workspace, err := h.workspaceService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	members, err := h.workspaceService.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	invitations, err := h.workspaceService.ListPendingInvitations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	detail := models.WorkspaceDetailResponse{
		WorkspaceResponse:  toWorkspaceResponse(workspace),
		Members:            make([]models.MemberResponse, len(members)),
		PendingInvitations: make([]models.InvitationResponse, len(invitations)),
	}
	for i, m := range members {
		detail.Members[i] = toMemberResponse(m)
	}
	for i, inv := range invitations {
		detail.PendingInvitations[i] = toInvitationResponse(inv)
	}

	c.JSON(http.StatusOK, detail)
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	workspace, err := h.workspaceService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkspaceResponse(workspace))
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.workspaceService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	id := c.Param("id")

	members, err := h.workspaceService.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) ListInvitations(c *gin.Context) {
	id := c.Param("id")

	invitations, err := h.workspaceService.ListPendingInvitations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = toInvitationResponse(inv)
	}

	c.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	id := c.Param("id")
	memberID := c.Param("memberId")
	actorID := c.Query("actorId")

	if err := h.workspaceService.RemoveMember(c.Request.Context(), id, memberID, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
