package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/b2b-starter/workspace-api/internal/repository"
)

const UserStatusEnabled = "ENABLED"

type UserUpdate struct {
	Name   *string
	Email  *string
	Status *string
	Admin  *bool
}

type UserService interface {
	// Register creates the user together with their default workspace and
	// owner membership. Either everything lands or nothing does.
	Register(ctx context.Context, name, emailAddr string, admin bool) (*repository.User, *repository.Workspace, error)
	GetByID(ctx context.Context, id string) (*repository.User, error)
	List(ctx context.Context, search, status string, page, pageSize int) ([]*repository.User, int, error)
	Update(ctx context.Context, id string, update UserUpdate) (*repository.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, name, emailAddr string, admin bool) (*repository.User, *repository.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, validationErrorf("name is required")
	}
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return nil, nil, validationErrorf("email is invalid")
	}

	user := &repository.User{
		Name:   name,
		Email:  emailAddr,
		Status: UserStatusEnabled,
		Admin:  admin,
	}
	workspace, err := s.userRepo.CreateWithDefaultWorkspace(ctx, user)
	if err != nil {
		if err == repository.ErrUniqueViolation {
			return nil, nil, ErrEmailConflict
		}
		return nil, nil, err
	}

	return user, workspace, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, search, status string, page, pageSize int) ([]*repository.User, int, error) {
	page, pageSize = clampPage(page, pageSize)
	filter := repository.UserFilter{
		Search: strings.TrimSpace(search),
		Status: status,
	}
	return s.userRepo.List(ctx, filter, pageSize, (page-1)*pageSize)
}

func (s *userService) Update(ctx context.Context, id string, update UserUpdate) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, validationErrorf("name is required")
		}
		user.Name = name
	}
	if update.Email != nil {
		emailAddr := normalizeEmail(*update.Email)
		if emailAddr == "" || !strings.Contains(emailAddr, "@") {
			return nil, validationErrorf("email is invalid")
		}
		user.Email = emailAddr
	}
	if update.Status != nil {
		user.Status = *update.Status
	}
	if update.Admin != nil {
		user.Admin = *update.Admin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if err == repository.ErrUniqueViolation {
			return nil, ErrEmailConflict
		}
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	err := s.userRepo.Delete(ctx, id)
	if err == pgx.ErrNoRows {
		return ErrUserNotFound
	}
	return err
}
