package service

import (
	"errors"
	"fmt"

	"github.com/b2b-starter/workspace-api/internal/db"
	"github.com/b2b-starter/workspace-api/internal/email"
	"github.com/b2b-starter/workspace-api/internal/repository"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyMember       = errors.New("user is already a member of this workspace")
	ErrExpired             = errors.New("invitation has expired")
	ErrWorkspacesDisabled  = errors.New("workspace creation is disabled")
	ErrCannotDeleteDefault = errors.New("default workspace cannot be deleted")
	ErrEmailConflict       = errors.New("email is already in use")
)

// ValidationError carries a caller-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ============================================
// Services Container
// ============================================

type Services struct {
	User       UserService
	Workspace  WorkspaceService
	Invitation InvitationService
	Settings   SettingsService
}

func NewServices(repos *repository.Repositories, emailSvc *email.Service, cache *db.RedisDB) *Services {
	settings := NewSettingsService(repos.SettingsRepo)
	return &Services{
		User:       NewUserService(repos.UserRepo),
		Workspace:  NewWorkspaceService(repos.WorkspaceRepo, repos.MemberRepo, repos.InvitationRepo, repos.UserRepo, settings, cache),
		Invitation: NewInvitationService(repos.InvitationRepo, repos.WorkspaceRepo, repos.UserRepo, emailSvc, cache),
		Settings:   settings,
	}
}

// memberCacheKey builds the cache key for a workspace's member list. Shared by
// the workspace and invitation services so acceptance invalidates the same key.
func memberCacheKey(workspaceID string) string {
	return "workspace:" + workspaceID + ":members"
}
