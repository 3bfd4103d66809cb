package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInviteRotatesTokenAndKeepsSingleRow(t *testing.T) {
	store := newMemStore()
	svcs := newTestServices(store)
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := svcs.Invitation.Invite(ctx, ws.ID, "Bob@Example.com", owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}
	if first.Email != "bob@example.com" {
		t.Errorf("expected normalized email, got %q", first.Email)
	}

	second, err := svcs.Invitation.Invite(ctx, ws.ID, "bob@example.com", owner.ID)
	if err != nil {
		t.Fatalf("second Invite: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("re-invite should reuse the row, got %s and %s", first.ID, second.ID)
	}
	if second.Token == first.Token {
		t.Error("re-invite should rotate the token")
	}

	pending, err := svcs.Workspace.ListPendingInvitations(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ListPendingInvitations: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected a single pending invitation, got %d", len(pending))
	}

	// The superseded link is dead: it no longer resolves, and accepting it
	// reads as expired rather than leaking whether the row ever existed.
	if _, err := svcs.Invitation.Resolve(ctx, first.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old token to resolve to ErrNotFound, got %v", err)
	}
	if _, err := svcs.Invitation.Accept(ctx, first.Token, owner.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("expected accepting old token to fail with ErrExpired, got %v", err)
	}
	if _, err := svcs.Invitation.Resolve(ctx, second.Token); err != nil {
		t.Errorf("expected new token to resolve: %v", err)
	}
}

func TestResolveProjections(t *testing.T) {
	svcs := newTestServices(newMemStore())
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv, err := svcs.Invitation.Invite(ctx, ws.ID, "bob@example.com", owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	resolved, err := svcs.Invitation.Resolve(ctx, inv.Token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Workspace == nil || resolved.Workspace.Name != "Team" {
		t.Errorf("expected workspace projection, got %+v", resolved.Workspace)
	}
	if resolved.InvitedBy == nil || resolved.InvitedBy.Name != "Alice" {
		t.Errorf("expected inviter projection, got %+v", resolved.InvitedBy)
	}
}

func TestAcceptExpiredInvitation(t *testing.T) {
	store := newMemStore()
	svcs := newTestServices(store)
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	bob := seedUser(t, svcs, "Bob", "bob@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv, err := svcs.Invitation.Invite(ctx, ws.ID, bob.Email, owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	// Push the expiry into the past without touching status. Expiry is a
	// read-time judgement, the row stays PENDING.
	store.mu.Lock()
	store.invitations[inv.ID].ExpiresAt = time.Now().Add(-time.Hour)
	store.mu.Unlock()

	if _, err := svcs.Invitation.Resolve(ctx, inv.Token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired on resolve, got %v", err)
	}
	if _, err := svcs.Invitation.Accept(ctx, inv.Token, bob.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired on accept, got %v", err)
	}

	// No membership was created.
	members, err := svcs.Workspace.ListMembers(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	for _, m := range members {
		if m.UserID == bob.ID {
			t.Fatal("expired invitation must not create membership")
		}
	}
}

func TestAcceptCreatesMembershipAndMarksAccepted(t *testing.T) {
	svcs := newTestServices(newMemStore())
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	bob := seedUser(t, svcs, "Bob", "bob@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv, err := svcs.Invitation.Invite(ctx, ws.ID, bob.Email, owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	accepted, err := svcs.Invitation.Accept(ctx, inv.Token, bob.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != "ACCEPTED" {
		t.Errorf("expected status ACCEPTED, got %q", accepted.Status)
	}

	members, err := svcs.Workspace.ListMembers(ctx, ws.ID)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	// Accepted invitations no longer resolve.
	if _, err := svcs.Invitation.Resolve(ctx, inv.Token); !errors.Is(err, ErrExpired) {
		t.Errorf("expected accepted invitation to be unresolvable, got %v", err)
	}

	pending, _ := svcs.Workspace.ListPendingInvitations(ctx, ws.ID)
	if len(pending) != 0 {
		t.Errorf("expected no pending invitations, got %d", len(pending))
	}
}

func TestAcceptWhenAlreadyMember(t *testing.T) {
	svcs := newTestServices(newMemStore())
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The owner is already a member; accepting their own invitation conflicts.
	inv, err := svcs.Invitation.Invite(ctx, ws.ID, owner.Email, owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	if _, err := svcs.Invitation.Accept(ctx, inv.Token, owner.ID); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// The conflict rolled everything back, the invitation is still pending.
	pending, _ := svcs.Workspace.ListPendingInvitations(ctx, ws.ID)
	if len(pending) != 1 {
		t.Errorf("expected invitation to stay pending, got %d", len(pending))
	}
}

func TestCancelIsScopedToWorkspace(t *testing.T) {
	svcs := newTestServices(newMemStore())
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	ws1, err := svcs.Workspace.Create(ctx, owner.ID, "First", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ws2, err := svcs.Workspace.Create(ctx, owner.ID, "Second", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inv, err := svcs.Invitation.Invite(ctx, ws1.ID, "bob@example.com", owner.ID)
	if err != nil {
		t.Fatalf("Invite: %v", err)
	}

	// Wrong workspace in the path must not cancel it.
	if err := svcs.Invitation.Cancel(ctx, ws2.ID, inv.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-workspace cancel, got %v", err)
	}

	if err := svcs.Invitation.Cancel(ctx, ws1.ID, inv.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svcs.Invitation.Resolve(ctx, inv.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancelled invitation should not resolve, got %v", err)
	}
}

func TestInviteValidation(t *testing.T) {
	svcs := newTestServices(newMemStore())
	ctx := context.Background()

	owner := seedUser(t, svcs, "Alice", "alice@example.com")
	ws, err := svcs.Workspace.Create(ctx, owner.ID, "Team", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var verr *ValidationError
	if _, err := svcs.Invitation.Invite(ctx, ws.ID, "  ", owner.ID); !errors.As(err, &verr) {
		t.Errorf("expected validation error for blank email, got %v", err)
	}
	if _, err := svcs.Invitation.Invite(ctx, ws.ID, "not-an-email", owner.ID); !errors.As(err, &verr) {
		t.Errorf("expected validation error for malformed email, got %v", err)
	}
	if _, err := svcs.Invitation.Invite(ctx, "missing", "bob@example.com", owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown workspace, got %v", err)
	}
	if _, err := svcs.Invitation.Invite(ctx, ws.ID, "bob@example.com", "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for unknown inviter, got %v", err)
	}
}
