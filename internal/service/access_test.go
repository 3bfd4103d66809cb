package service

import (
	"testing"

	"github.com/b2b-starter/workspace-api/internal/repository"
)

func TestCanManageWorkspace(t *testing.T) {
	owner := &repository.User{ID: "u1"}
	admin := &repository.User{ID: "u2", Admin: true}
	other := &repository.User{ID: "u3"}
	ws := &repository.Workspace{ID: "w1", OwnerID: "u1"}

	tests := []struct {
		name  string
		actor *repository.User
		want  bool
	}{
		{"owner", owner, true},
		{"admin", admin, true},
		{"other member", other, false},
		{"nil actor", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageWorkspace(tt.actor, ws); got != tt.want {
				t.Errorf("CanManageWorkspace() = %v, want %v", got, tt.want)
			}
		})
	}

	if CanManageWorkspace(owner, nil) {
		t.Error("nil workspace must never be manageable")
	}
}

func TestCanRemoveMember(t *testing.T) {
	owner := &repository.User{ID: "u1"}
	admin := &repository.User{ID: "u2", Admin: true}
	member := &repository.User{ID: "u3"}
	stranger := &repository.User{ID: "u4"}
	ws := &repository.Workspace{ID: "w1", OwnerID: "u1"}
	membership := &repository.WorkspaceMember{ID: "m1", WorkspaceID: "w1", UserID: "u3"}

	tests := []struct {
		name  string
		actor *repository.User
		want  bool
	}{
		{"owner removes member", owner, true},
		{"admin removes member", admin, false},
		{"member removes self", member, true},
		{"stranger removes member", stranger, false},
		{"nil actor", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRemoveMember(tt.actor, ws, membership); got != tt.want {
				t.Errorf("CanRemoveMember() = %v, want %v", got, tt.want)
			}
		})
	}
}
