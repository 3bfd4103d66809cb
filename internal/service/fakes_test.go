package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/b2b-starter/workspace-api/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. It
// implements every repository interface so the services can be exercised
// without a database.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*repository.User
	workspaces  map[string]*repository.Workspace
	members     map[string]*repository.WorkspaceMember
	invitations map[string]*repository.Invitation
	settings    *repository.AppSettings
	seq         int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*repository.User),
		workspaces:  make(map[string]*repository.Workspace),
		members:     make(map[string]*repository.WorkspaceMember),
		invitations: make(map[string]*repository.Invitation),
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%04d", s.seq)
}

func (s *memStore) now() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func (s *memStore) hasMember(workspaceID, userID string) bool {
	for _, m := range s.members {
		if m.WorkspaceID == workspaceID && m.UserID == userID {
			return true
		}
	}
	return false
}

func (s *memStore) addMemberLocked(workspaceID, userID string) (*repository.WorkspaceMember, error) {
	if s.hasMember(workspaceID, userID) {
		return nil, repository.ErrUniqueViolation
	}
	m := &repository.WorkspaceMember{
		ID:          s.nextID(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	s.members[m.ID] = m
	return m, nil
}

// ============================================
// UserRepository
// ============================================

func (s *memStore) CreateWithDefaultWorkspace(ctx context.Context, user *repository.User) (*repository.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, repository.ErrUniqueViolation
		}
	}

	user.ID = s.nextID()
	user.CreatedAt = s.now()
	user.UpdatedAt = s.now()
	s.users[user.ID] = user

	ws := &repository.Workspace{
		ID:        s.nextID(),
		Name:      fmt.Sprintf("%s's workspace", user.Name),
		OwnerID:   user.ID,
		IsDefault: true,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	s.workspaces[ws.ID] = ws

	if _, err := s.addMemberLocked(ws.ID, user.ID); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *memStore) FindByID(ctx context.Context, id string) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) List(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*repository.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*repository.User
	for _, u := range s.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *memStore) Update(ctx context.Context, user *repository.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrUniqueViolation
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

// ============================================
// WorkspaceRepository
// ============================================

func (s *memStore) CreateWithOwner(ctx context.Context, workspace *repository.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspace.ID = s.nextID()
	workspace.CreatedAt = s.now()
	workspace.UpdatedAt = s.now()
	s.workspaces[workspace.ID] = workspace

	if _, err := s.addMemberLocked(workspace.ID, workspace.OwnerID); err != nil {
		delete(s.workspaces, workspace.ID)
		return err
	}
	return nil
}

func (s *memStore) findWorkspaceByID(ctx context.Context, id string) (*repository.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.workspaces[id]
	if ws == nil {
		return nil, nil
	}
	ws.Owner = s.users[ws.OwnerID]
	return ws, nil
}

func (s *memStore) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*repository.Workspace, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*repository.Workspace
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if ws := s.workspaces[m.WorkspaceID]; ws != nil {
			all = append(all, ws)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *memStore) UpdateName(ctx context.Context, id, name string) (*repository.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.workspaces[id]
	if ws == nil {
		return nil, nil
	}
	ws.Name = name
	return ws, nil
}

func (s *memStore) deleteWorkspace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return pgx.ErrNoRows
	}
	for mid, m := range s.members {
		if m.WorkspaceID == id {
			delete(s.members, mid)
		}
	}
	for iid, inv := range s.invitations {
		if inv.WorkspaceID == id {
			delete(s.invitations, iid)
		}
	}
	delete(s.workspaces, id)
	return nil
}

// ============================================
// MemberRepository
// ============================================

func (s *memStore) findMemberByID(ctx context.Context, id string) (*repository.WorkspaceMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members[id], nil
}

func (s *memStore) FindByWorkspace(ctx context.Context, workspaceID string) ([]*repository.WorkspaceMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*repository.WorkspaceMember
	for _, m := range s.members {
		if m.WorkspaceID == workspaceID {
			m.User = s.users[m.UserID]
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.members, id)
	return nil
}

// ============================================
// InvitationRepository
// ============================================

func (s *memStore) Upsert(ctx context.Context, invitation *repository.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invitation.Token = uuid.New().String()
	invitation.Status = repository.InvitationStatusPending

	for _, inv := range s.invitations {
		if inv.WorkspaceID == invitation.WorkspaceID && inv.Email == invitation.Email {
			inv.InvitedByID = invitation.InvitedByID
			inv.Token = invitation.Token
			inv.Status = repository.InvitationStatusPending
			inv.ExpiresAt = invitation.ExpiresAt
			inv.UpdatedAt = s.now()
			*invitation = *inv
			return nil
		}
	}

	invitation.ID = s.nextID()
	invitation.CreatedAt = s.now()
	invitation.UpdatedAt = s.now()
	stored := *invitation
	s.invitations[invitation.ID] = &stored
	return nil
}

func (s *memStore) FindByToken(ctx context.Context, token string) (*repository.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inv := range s.invitations {
		if inv.Token == token {
			out := *inv
			if ws := s.workspaces[inv.WorkspaceID]; ws != nil {
				out.Workspace = &repository.WorkspaceRef{ID: ws.ID, Name: ws.Name}
			}
			if u := s.users[inv.InvitedByID]; u != nil {
				out.InvitedBy = &repository.UserRef{ID: u.ID, Name: u.Name}
			}
			return &out, nil
		}
	}
	return nil, nil
}

func (s *memStore) FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*repository.Invitation
	for _, inv := range s.invitations {
		if inv.WorkspaceID == workspaceID && inv.Status == repository.InvitationStatusPending {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) DeleteScoped(ctx context.Context, workspaceID, invitationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[invitationID]
	if !ok || inv.WorkspaceID != workspaceID {
		return pgx.ErrNoRows
	}
	delete(s.invitations, invitationID)
	return nil
}

func (s *memStore) Accept(ctx context.Context, invitationID, workspaceID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.addMemberLocked(workspaceID, userID); err != nil {
		return err
	}
	if inv, ok := s.invitations[invitationID]; ok {
		inv.Status = repository.InvitationStatusAccepted
		inv.UpdatedAt = s.now()
	}
	return nil
}

// ============================================
// SettingsRepository
// ============================================

func (s *memStore) Get(ctx context.Context) (*repository.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings == nil {
		s.settings = &repository.AppSettings{
			ID:                "default",
			WorkspacesEnabled: true,
			PasswordMinLength: 8,
			CreatedAt:         s.now(),
			UpdatedAt:         s.now(),
		}
	}
	return s.settings, nil
}

func (s *memStore) updateSettings(ctx context.Context, settings *repository.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

// Interface adapters. The store carries every method, these narrow it to the
// signatures that collide across interfaces (FindByID, Delete, Update).

type userStore struct{ *memStore }

func (s userStore) FindByID(ctx context.Context, id string) (*repository.User, error) {
	return s.memStore.FindByID(ctx, id)
}

type workspaceStore struct{ *memStore }

func (s workspaceStore) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	return s.findWorkspaceByID(ctx, id)
}

func (s workspaceStore) Delete(ctx context.Context, id string) error {
	return s.deleteWorkspace(ctx, id)
}

type memberStore struct{ *memStore }

func (s memberStore) FindByID(ctx context.Context, id string) (*repository.WorkspaceMember, error) {
	return s.findMemberByID(ctx, id)
}

type settingsStore struct{ *memStore }

func (s settingsStore) Update(ctx context.Context, settings *repository.AppSettings) error {
	return s.updateSettings(ctx, settings)
}

func newTestServices(store *memStore) *Services {
	settings := NewSettingsService(settingsStore{store})
	return &Services{
		User:       NewUserService(userStore{store}),
		Workspace:  NewWorkspaceService(workspaceStore{store}, memberStore{store}, store, userStore{store}, settings, nil),
		Invitation: NewInvitationService(store, workspaceStore{store}, userStore{store}, nil, nil),
		Settings:   settings,
	}
}
