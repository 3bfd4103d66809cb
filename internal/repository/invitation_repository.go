package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	InvitationStatusPending  = "PENDING"
	InvitationStatusAccepted = "ACCEPTED"
)

type Invitation struct {
	ID          string
	Email       string
	WorkspaceID string
	InvitedByID string
	Token       string
	Status      string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Denormalized projections, populated by FindByToken.
	Workspace *WorkspaceRef
	InvitedBy *UserRef
}

type WorkspaceRef struct {
	ID   string
	Name string
}

type UserRef struct {
	ID   string
	Name string
}

// IsExpired reports whether the invitation can no longer be accepted. Expiry
// is judged at read time; rows are never mutated by a sweeper.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.Status != InvitationStatusPending || now.After(i.ExpiresAt)
}

type InvitationRepository interface {
	// Upsert creates the invitation keyed on (workspace_id, email) or, when the
	// row already exists, rewrites token, status and expiry unconditionally.
	// Re-inviting rotates the token and invalidates any previously issued link.
	Upsert(ctx context.Context, invitation *Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*Invitation, error)
	DeleteScoped(ctx context.Context, workspaceID, invitationID string) error
	// Accept inserts the invitee's membership row and marks the invitation
	// ACCEPTED in one transaction. A membership uniqueness conflict rolls the
	// whole thing back and surfaces ErrUniqueViolation.
	Accept(ctx context.Context, invitationID, workspaceID, userID string) error
}

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

func (r *pgInvitationRepository) Upsert(ctx context.Context, invitation *Invitation) error {
	invitation.Token = uuid.New().String()
	invitation.Status = InvitationStatusPending
	query := `
		INSERT INTO workspace_invitations (email, workspace_id, invited_by_id, token, status, expires_at)
		VALUES ($1, $2, $3, $4, 'PENDING', $5)
		ON CONFLICT (workspace_id, email) DO UPDATE SET
			invited_by_id = EXCLUDED.invited_by_id,
			token = EXCLUDED.token,
			status = 'PENDING',
			expires_at = EXCLUDED.expires_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		invitation.Email, invitation.WorkspaceID, invitation.InvitedByID,
		invitation.Token, invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt, &invitation.UpdatedAt)
}

func (r *pgInvitationRepository) FindByToken(ctx context.Context, token string) (*Invitation, error) {
	query := `
		SELECT i.id, i.email, i.workspace_id, i.invited_by_id, i.token, i.status,
		       i.expires_at, i.created_at, i.updated_at,
		       w.id, w.name, u.id, u.name
		FROM workspace_invitations i
		JOIN workspaces w ON i.workspace_id = w.id
		JOIN users u ON i.invited_by_id = u.id
		WHERE i.token = $1
	`
	invitation := &Invitation{Workspace: &WorkspaceRef{}, InvitedBy: &UserRef{}}
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&invitation.ID, &invitation.Email, &invitation.WorkspaceID, &invitation.InvitedByID,
		&invitation.Token, &invitation.Status,
		&invitation.ExpiresAt, &invitation.CreatedAt, &invitation.UpdatedAt,
		&invitation.Workspace.ID, &invitation.Workspace.Name,
		&invitation.InvitedBy.ID, &invitation.InvitedBy.Name,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *pgInvitationRepository) FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*Invitation, error) {
	query := `
		SELECT id, email, workspace_id, invited_by_id, token, status, expires_at, created_at, updated_at
		FROM workspace_invitations
		WHERE workspace_id = $1 AND status = 'PENDING'
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		invitation := &Invitation{}
		if err := rows.Scan(
			&invitation.ID, &invitation.Email, &invitation.WorkspaceID, &invitation.InvitedByID,
			&invitation.Token, &invitation.Status, &invitation.ExpiresAt,
			&invitation.CreatedAt, &invitation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (r *pgInvitationRepository) DeleteScoped(ctx context.Context, workspaceID, invitationID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM workspace_invitations WHERE id = $1 AND workspace_id = $2`,
		invitationID, workspaceID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgInvitationRepository) Accept(ctx context.Context, invitationID, workspaceID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id) VALUES ($1, $2)`,
		workspaceID, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUniqueViolation
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE workspace_invitations SET status = 'ACCEPTED', updated_at = NOW() WHERE id = $1`,
		invitationID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
