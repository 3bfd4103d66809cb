package service

import "github.com/b2b-starter/workspace-api/internal/repository"

// CanManageWorkspace reports whether the actor may rename or delete the
// workspace, invite members, or cancel invitations.
func CanManageWorkspace(actor *repository.User, workspace *repository.Workspace) bool {
	if actor == nil || workspace == nil {
		return false
	}
	return actor.Admin || workspace.OwnerID == actor.ID
}

// CanRemoveMember reports whether the actor may remove the given membership.
// Only the workspace owner can remove anyone; everyone can remove themselves.
// Platform admins get no special treatment here.
func CanRemoveMember(actor *repository.User, workspace *repository.Workspace, member *repository.WorkspaceMember) bool {
	if actor == nil || workspace == nil || member == nil {
		return false
	}
	return workspace.OwnerID == actor.ID || member.UserID == actor.ID
}
