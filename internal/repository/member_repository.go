package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WorkspaceMember struct {
	ID          string
	WorkspaceID string
	UserID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	User        *User
}

// Membership rows are only ever inserted inside the workspace-creation and
// invitation-acceptance transactions, so there is no standalone Add here.
type MemberRepository interface {
	FindByID(ctx context.Context, id string) (*WorkspaceMember, error)
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*WorkspaceMember, error)
	Remove(ctx context.Context, id string) error
}

type pgMemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgMemberRepository{pool: pool}
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id string) (*WorkspaceMember, error) {
	query := `
		SELECT id, workspace_id, user_id, created_at, updated_at
		FROM workspace_members WHERE id = $1
	`
	m := &WorkspaceMember{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.WorkspaceID, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*WorkspaceMember, error) {
	query := `
		SELECT wm.id, wm.workspace_id, wm.user_id, wm.created_at, wm.updated_at,
		       u.id, u.name, u.email
		FROM workspace_members wm
		JOIN users u ON wm.user_id = u.id
		WHERE wm.workspace_id = $1
		ORDER BY wm.created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*WorkspaceMember
	for rows.Next() {
		m := &WorkspaceMember{User: &User{}}
		if err := rows.Scan(
			&m.ID, &m.WorkspaceID, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
			&m.User.ID, &m.User.Name, &m.User.Email,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) Remove(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workspace_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
