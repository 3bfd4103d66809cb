package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Status    string
	Admin     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserFilter struct {
	Search string
	Status string
}

type UserRepository interface {
	// CreateWithDefaultWorkspace inserts the user plus their default workspace
	// and owner membership in one transaction. Every user always has exactly
	// one home workspace from the moment they exist.
	CreateWithDefaultWorkspace(ctx context.Context, user *User) (*Workspace, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) CreateWithDefaultWorkspace(ctx context.Context, user *User) (*Workspace, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (name, email, status, admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query,
		user.Name, user.Email, user.Status, user.Admin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUniqueViolation
		}
		return nil, err
	}

	ws := &Workspace{
		Name:      fmt.Sprintf("%s's workspace", user.Name),
		OwnerID:   user.ID,
		IsDefault: true,
	}
	if err := tx.QueryRow(ctx,
		`INSERT INTO workspaces (name, owner_id, is_default) VALUES ($1, $2, TRUE)
		 RETURNING id, created_at, updated_at`,
		ws.Name, ws.OwnerID,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id) VALUES ($1, $2)`,
		ws.ID, user.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, status, admin, created_at, updated_at
		FROM users WHERE id = $1
	`
	user := &User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Status, &user.Admin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context, filter UserFilter, limit, offset int) ([]*User, int, error) {
	where := `WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
	          AND ($2 = '' OR status = $2)`

	query := `
		SELECT id, name, email, status, admin, created_at, updated_at
		FROM users ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query, filter.Search, filter.Status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.Status, &user.Admin,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+where, filter.Search, filter.Status).Scan(&total); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET name = $2, email = $3, status = $4, admin = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Status, user.Admin,
	).Scan(&user.UpdatedAt)
	if err == pgx.ErrNoRows {
		return pgx.ErrNoRows
	}
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	return err
}

func (r *pgUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
