package service

import (
	"context"

	"github.com/b2b-starter/workspace-api/internal/repository"
)

type PasswordPolicyUpdate struct {
	MinLength        *int
	RequireSpecial   *bool
	RequireNumber    *bool
	RequireUppercase *bool
	RequireLowercase *bool
}

type SettingsService interface {
	Get(ctx context.Context) (*repository.AppSettings, error)
	UpdateGeneral(ctx context.Context, instanceName *string) (*repository.AppSettings, error)
	UpdateWorkspaces(ctx context.Context, enabled bool) (*repository.AppSettings, error)
	UpdatePasswordPolicy(ctx context.Context, update PasswordPolicyUpdate) (*repository.AppSettings, error)
	// WorkspacesEnabled re-reads the flag on every call. Toggling it takes
	// effect immediately, nothing holds a stale copy.
	WorkspacesEnabled(ctx context.Context) (bool, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get(ctx context.Context) (*repository.AppSettings, error) {
	return s.settingsRepo.Get(ctx)
}

func (s *settingsService) UpdateGeneral(ctx context.Context, instanceName *string) (*repository.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if instanceName != nil {
		settings.InstanceName = instanceName
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) UpdateWorkspaces(ctx context.Context, enabled bool) (*repository.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.WorkspacesEnabled = enabled

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) UpdatePasswordPolicy(ctx context.Context, update PasswordPolicyUpdate) (*repository.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if update.MinLength != nil {
		if *update.MinLength < 1 {
			return nil, validationErrorf("minimum password length must be at least 1")
		}
		settings.PasswordMinLength = *update.MinLength
	}
	if update.RequireSpecial != nil {
		settings.RequireSpecial = *update.RequireSpecial
	}
	if update.RequireNumber != nil {
		settings.RequireNumber = *update.RequireNumber
	}
	if update.RequireUppercase != nil {
		settings.RequireUppercase = *update.RequireUppercase
	}
	if update.RequireLowercase != nil {
		settings.RequireLowercase = *update.RequireLowercase
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) WorkspacesEnabled(ctx context.Context) (bool, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.WorkspacesEnabled, nil
}
