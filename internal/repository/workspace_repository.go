package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Workspace struct {
	ID        string
	Name      string
	OwnerID   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Owner     *User
}

type WorkspaceRepository interface {
	// CreateWithOwner inserts the workspace and its owner's membership row in
	// one transaction. Neither is visible unless both succeed.
	CreateWithOwner(ctx context.Context, workspace *Workspace) error
	FindByID(ctx context.Context, id string) (*Workspace, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Workspace, int, error)
	UpdateName(ctx context.Context, id, name string) (*Workspace, error)
	Delete(ctx context.Context, id string) error
}

type pgWorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &pgWorkspaceRepository{pool: pool}
}

func (r *pgWorkspaceRepository) CreateWithOwner(ctx context.Context, workspace *Workspace) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO workspaces (name, owner_id, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query,
		workspace.Name, workspace.OwnerID, workspace.IsDefault,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id) VALUES ($1, $2)`,
		workspace.ID, workspace.OwnerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *pgWorkspaceRepository) FindByID(ctx context.Context, id string) (*Workspace, error) {
	query := `
		SELECT w.id, w.name, w.owner_id, w.is_default, w.created_at, w.updated_at,
		       u.id, u.name, u.email
		FROM workspaces w
		JOIN users u ON w.owner_id = u.id
		WHERE w.id = $1
	`
	ws := &Workspace{Owner: &User{}}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Name, &ws.OwnerID, &ws.IsDefault, &ws.CreatedAt, &ws.UpdatedAt,
		&ws.Owner.ID, &ws.Owner.Name, &ws.Owner.Email,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *pgWorkspaceRepository) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*Workspace, int, error) {
	query := `
		SELECT w.id, w.name, w.owner_id, w.is_default, w.created_at, w.updated_at,
		       u.id, u.name, u.email
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		JOIN users u ON w.owner_id = u.id
		WHERE wm.user_id = $1
		ORDER BY w.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		ws := &Workspace{Owner: &User{}}
		if err := rows.Scan(
			&ws.ID, &ws.Name, &ws.OwnerID, &ws.IsDefault, &ws.CreatedAt, &ws.UpdatedAt,
			&ws.Owner.ID, &ws.Owner.Name, &ws.Owner.Email,
		); err != nil {
			return nil, 0, err
		}
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `
		SELECT COUNT(*)
		FROM workspaces w
		JOIN workspace_members wm ON w.id = wm.workspace_id
		WHERE wm.user_id = $1
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return workspaces, total, nil
}

func (r *pgWorkspaceRepository) UpdateName(ctx context.Context, id, name string) (*Workspace, error) {
	query := `
		UPDATE workspaces SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, owner_id, is_default, created_at, updated_at
	`
	ws := &Workspace{}
	err := r.pool.QueryRow(ctx, query, id, name).Scan(
		&ws.ID, &ws.Name, &ws.OwnerID, &ws.IsDefault, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Delete removes the workspace together with its membership and invitation
// rows. The cascade is explicit rather than left to FK defaults so the
// dependent deletes stay visible in one place.
func (r *pgWorkspaceRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workspace_invitations WHERE workspace_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workspace_members WHERE workspace_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
