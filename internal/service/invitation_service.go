package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/b2b-starter/workspace-api/internal/db"
	"github.com/b2b-starter/workspace-api/internal/email"
	"github.com/b2b-starter/workspace-api/internal/repository"
)

type InvitationService interface {
	// Invite creates or refreshes the invitation for (workspace, email). A
	// repeat invite rotates the token, so only the most recent link works.
	Invite(ctx context.Context, workspaceID, emailAddr, inviterID string) (*repository.Invitation, error)
	Resolve(ctx context.Context, token string) (*repository.Invitation, error)
	Accept(ctx context.Context, token, userID string) (*repository.Invitation, error)
	Cancel(ctx context.Context, workspaceID, invitationID string) error
}

type invitationService struct {
	invRepo       repository.InvitationRepository
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	emailSvc      *email.Service
	cache         *db.RedisDB
	defaultTTL    time.Duration
}

func NewInvitationService(
	invRepo repository.InvitationRepository,
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	emailSvc *email.Service,
	cache *db.RedisDB,
) InvitationService {
	return &invitationService{
		invRepo:       invRepo,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		emailSvc:      emailSvc,
		cache:         cache,
		defaultTTL:    7 * 24 * time.Hour,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *invitationService) Invite(ctx context.Context, workspaceID, emailAddr, inviterID string) (*repository.Invitation, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return nil, validationErrorf("email is required")
	}
	if !strings.Contains(emailAddr, "@") {
		return nil, validationErrorf("email is invalid")
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	inviter, err := s.userRepo.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, ErrUserNotFound
	}

	invitation := &repository.Invitation{
		Email:       emailAddr,
		WorkspaceID: workspaceID,
		InvitedByID: inviterID,
		ExpiresAt:   time.Now().Add(s.defaultTTL),
	}
	if err := s.invRepo.Upsert(ctx, invitation); err != nil {
		return nil, err
	}

	// Delivery is best effort. The invitation row is the source of truth and a
	// failed send never rolls it back.
	if s.emailSvc != nil {
		go func(inv *repository.Invitation, workspaceName, inviterName string) {
			_ = s.emailSvc.SendInvitation(workspaceName, inv.Email, inviterName, inv.Token)
		}(invitation, workspace.Name, inviter.Name)
	}

	return invitation, nil
}

func (s *invitationService) Resolve(ctx context.Context, token string) (*repository.Invitation, error) {
	if token == "" {
		return nil, validationErrorf("token is required")
	}

	invitation, err := s.invRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.IsExpired(time.Now()) {
		return nil, ErrExpired
	}
	return invitation, nil
}

func (s *invitationService) Accept(ctx context.Context, token, userID string) (*repository.Invitation, error) {
	invitation, err := s.Resolve(ctx, token)
	if err != nil {
		// To the accepting user a token that no longer resolves, rotated away
		// or cancelled, is indistinguishable from one past its window.
		if err == ErrNotFound {
			return nil, ErrExpired
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.invRepo.Accept(ctx, invitation.ID, invitation.WorkspaceID, userID); err != nil {
		if err == repository.ErrUniqueViolation {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	invitation.Status = repository.InvitationStatusAccepted

	if s.cache != nil {
		_ = s.cache.DeleteCache(ctx, memberCacheKey(invitation.WorkspaceID))
	}
	return invitation, nil
}

func (s *invitationService) Cancel(ctx context.Context, workspaceID, invitationID string) error {
	err := s.invRepo.DeleteScoped(ctx, workspaceID, invitationID)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	return err
}
