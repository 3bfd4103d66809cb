package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	UserRepo       UserRepository
	WorkspaceRepo  WorkspaceRepository
	MemberRepo     MemberRepository
	InvitationRepo InvitationRepository
	SettingsRepo   SettingsRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:       NewUserRepository(pool),
		WorkspaceRepo:  NewWorkspaceRepository(pool),
		MemberRepo:     NewMemberRepository(pool),
		InvitationRepo: NewInvitationRepository(pool),
		SettingsRepo:   NewSettingsRepository(pool),
	}
}
