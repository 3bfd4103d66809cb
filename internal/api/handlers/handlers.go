package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/b2b-starter/workspace-api/internal/models"
	"github.com/b2b-starter/workspace-api/internal/repository"
	"github.com/b2b-starter/workspace-api/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	User       *UserHandler
	Workspace  *WorkspaceHandler
	Invitation *InvitationHandler
	Settings   *SettingsHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		User:       &UserHandler{userService: services.User},
		Workspace:  &WorkspaceHandler{workspaceService: services.Workspace},
		Invitation: &InvitationHandler{invitationService: services.Invitation},
		Settings:   &SettingsHandler{settingsService: services.Settings},
	}
}

// respondError maps service errors onto the uniform {code, message} body.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.APIError{Code: "VALIDATION_ERROR", Message: verr.Message})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, models.APIError{Code: "NOT_FOUND", Message: "Resource not found"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.APIError{Code: "USER_NOT_FOUND", Message: "User not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, models.APIError{Code: "FORBIDDEN", Message: "Not allowed"})
	case errors.Is(err, service.ErrAlreadyMember):
		c.JSON(http.StatusConflict, models.APIError{Code: "ALREADY_MEMBER", Message: "User is already a member of this workspace"})
	case errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusGone, models.APIError{Code: "EXPIRED", Message: "Invitation has expired"})
	case errors.Is(err, service.ErrWorkspacesDisabled):
		c.JSON(http.StatusForbidden, models.APIError{Code: "WORKSPACES_DISABLED", Message: "Workspace creation is disabled"})
	case errors.Is(err, service.ErrCannotDeleteDefault):
		c.JSON(http.StatusForbidden, models.APIError{Code: "CANNOT_DELETE_DEFAULT", Message: "Default workspace cannot be deleted"})
	case errors.Is(err, service.ErrEmailConflict):
		c.JSON(http.StatusConflict, models.APIError{Code: "EMAIL_CONFLICT", Message: "Email is already in use"})
	default:
		c.JSON(http.StatusInternalServerError, models.APIError{Code: "INTERNAL_ERROR", Message: "Internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.APIError{Code: "VALIDATION_ERROR", Message: err.Error()})
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Status:    u.Status,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserRef(u *repository.User) *models.UserRef {
	if u == nil {
		return nil
	}
	return &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toWorkspaceResponse(ws *repository.Workspace) models.WorkspaceResponse {
	return models.WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		OwnerID:   ws.OwnerID,
		IsDefault: ws.IsDefault,
		Owner:     toUserRef(ws.Owner),
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
	}
}

func toMemberResponse(m *repository.WorkspaceMember) models.MemberResponse {
	return models.MemberResponse{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		User:        toUserRef(m.User),
		CreatedAt:   m.CreatedAt,
	}
}

func toInvitationResponse(inv *repository.Invitation) models.InvitationResponse {
	return models.InvitationResponse{
		ID:          inv.ID,
		Email:       inv.Email,
		WorkspaceID: inv.WorkspaceID,
		Token:       inv.Token,
		Status:      inv.Status,
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
	}
}
