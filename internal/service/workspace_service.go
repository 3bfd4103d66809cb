package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/b2b-starter/workspace-api/internal/db"
	"github.com/b2b-starter/workspace-api/internal/repository"
)

const (
	maxWorkspaceNameLen = 100

	defaultPageSize = 20
	maxPageSize     = 100

	memberCacheTTL = 30 * time.Second
)

type WorkspaceService interface {
	Create(ctx context.Context, ownerID, name string, isDefault bool) (*repository.Workspace, error)
	GetByID(ctx context.Context, id string) (*repository.Workspace, error)
	List(ctx context.Context, userID string, page, pageSize int) ([]*repository.Workspace, int, error)
	Rename(ctx context.Context, id, name string) (*repository.Workspace, error)
	Delete(ctx context.Context, id string) error

	ListMembers(ctx context.Context, workspaceID string) ([]*repository.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, memberID, actorID string) error
	ListPendingInvitations(ctx context.Context, workspaceID string) ([]*repository.Invitation, error)
}

type workspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	memberRepo    repository.MemberRepository
	invRepo       repository.InvitationRepository
	userRepo      repository.UserRepository
	settings      SettingsService
	cache         *db.RedisDB
}

func NewWorkspaceService(
	workspaceRepo repository.WorkspaceRepository,
	memberRepo repository.MemberRepository,
	invRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	settings SettingsService,
	cache *db.RedisDB,
) WorkspaceService {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		invRepo:       invRepo,
		userRepo:      userRepo,
		settings:      settings,
		cache:         cache,
	}
}

func validateWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationErrorf("workspace name is required")
	}
	if len(name) > maxWorkspaceNameLen {
		return "", validationErrorf("workspace name must be at most %d characters", maxWorkspaceNameLen)
	}
	return name, nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func (s *workspaceService) Create(ctx context.Context, ownerID, name string, isDefault bool) (*repository.Workspace, error) {
	name, err := validateWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrUserNotFound
	}

	// Default workspaces are created as part of user provisioning and bypass
	// the instance-level flag.
	if !isDefault {
		enabled, err := s.settings.WorkspacesEnabled(ctx)
		if err != nil {
			return nil, err
		}
		if !enabled {
			return nil, ErrWorkspacesDisabled
		}
	}

	workspace := &repository.Workspace{
		Name:      name,
		OwnerID:   ownerID,
		IsDefault: isDefault,
	}
	if err := s.workspaceRepo.CreateWithOwner(ctx, workspace); err != nil {
		return nil, err
	}
	workspace.Owner = owner

	return workspace, nil
}

func (s *workspaceService) GetByID(ctx context.Context, id string) (*repository.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}
	return workspace, nil
}

func (s *workspaceService) List(ctx context.Context, userID string, page, pageSize int) ([]*repository.Workspace, int, error) {
	if userID == "" {
		return nil, 0, validationErrorf("userId is required")
	}
	page, pageSize = clampPage(page, pageSize)
	return s.workspaceRepo.FindByUserID(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *workspaceService) Rename(ctx context.Context, id, name string) (*repository.Workspace, error) {
	name, err := validateWorkspaceName(name)
	if err != nil {
		return nil, err
	}

	workspace, err := s.workspaceRepo.UpdateName(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}
	return workspace, nil
}

func (s *workspaceService) Delete(ctx context.Context, id string) error {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}
	if workspace.IsDefault {
		return ErrCannotDeleteDefault
	}

	if err := s.workspaceRepo.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	s.invalidateMembers(ctx, id)
	return nil
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID string) ([]*repository.WorkspaceMember, error) {
	if s.cache != nil {
		var cached []*repository.WorkspaceMember
		if err := s.cache.GetCache(ctx, memberCacheKey(workspaceID), &cached); err == nil {
			return cached, nil
		}
	}

	members, err := s.memberRepo.FindByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetCache(ctx, memberCacheKey(workspaceID), members, memberCacheTTL)
	}
	return members, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, memberID, actorID string) error {
	if actorID == "" {
		return validationErrorf("actorId is required")
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member == nil || member.WorkspaceID != workspaceID {
		return ErrNotFound
	}

	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !CanRemoveMember(actor, workspace, member) {
		return ErrForbidden
	}

	if err := s.memberRepo.Remove(ctx, memberID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	s.invalidateMembers(ctx, workspaceID)
	return nil
}

func (s *workspaceService) ListPendingInvitations(ctx context.Context, workspaceID string) ([]*repository.Invitation, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}
	return s.invRepo.FindPendingByWorkspace(ctx, workspaceID)
}

func (s *workspaceService) invalidateMembers(ctx context.Context, workspaceID string) {
	if s.cache != nil {
		_ = s.cache.DeleteCache(ctx, memberCacheKey(workspaceID))
	}
}
