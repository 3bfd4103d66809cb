package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsRowID is the fixed primary key of the singleton settings row.
const settingsRowID = "default"

type AppSettings struct {
	ID                string
	WorkspacesEnabled bool
	InstanceName      *string
	PasswordMinLength int
	RequireSpecial    bool
	RequireNumber     bool
	RequireUppercase  bool
	RequireLowercase  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type SettingsRepository interface {
	// Get returns the singleton settings row, creating it with defaults on
	// first read.
	Get(ctx context.Context) (*AppSettings, error)
	Update(ctx context.Context, settings *AppSettings) error
}

type pgSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &pgSettingsRepository{pool: pool}
}

func (r *pgSettingsRepository) Get(ctx context.Context) (*AppSettings, error) {
	settings, err := r.find(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	// First read: create the row with defaults. A concurrent create is benign,
	// ON CONFLICT leaves the existing row alone.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO app_settings (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`,
		settingsRowID,
	)
	if err != nil {
		return nil, err
	}
	return r.find(ctx)
}

func (r *pgSettingsRepository) find(ctx context.Context) (*AppSettings, error) {
	query := `
		SELECT id, workspaces_enabled, instance_name, password_min_length,
		       require_special, require_number, require_uppercase, require_lowercase,
		       created_at, updated_at
		FROM app_settings WHERE id = $1
	`
	settings := &AppSettings{}
	err := r.pool.QueryRow(ctx, query, settingsRowID).Scan(
		&settings.ID, &settings.WorkspacesEnabled, &settings.InstanceName, &settings.PasswordMinLength,
		&settings.RequireSpecial, &settings.RequireNumber, &settings.RequireUppercase, &settings.RequireLowercase,
		&settings.CreatedAt, &settings.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *pgSettingsRepository) Update(ctx context.Context, settings *AppSettings) error {
	query := `
		INSERT INTO app_settings (id, workspaces_enabled, instance_name, password_min_length,
			require_special, require_number, require_uppercase, require_lowercase)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			workspaces_enabled = EXCLUDED.workspaces_enabled,
			instance_name = EXCLUDED.instance_name,
			password_min_length = EXCLUDED.password_min_length,
			require_special = EXCLUDED.require_special,
			require_number = EXCLUDED.require_number,
			require_uppercase = EXCLUDED.require_uppercase,
			require_lowercase = EXCLUDED.require_lowercase,
			updated_at = NOW()
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		settingsRowID, settings.WorkspacesEnabled, settings.InstanceName, settings.PasswordMinLength,
		settings.RequireSpecial, settings.RequireNumber, settings.RequireUppercase, settings.RequireLowercase,
	).Scan(&settings.UpdatedAt)
}
