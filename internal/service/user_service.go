package service

import (
	"context"
	"fmt"

	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// ============================================
// User Service
// ============================================

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	// ListVisible returns the accounts the actor may see: all for
	// superadmin, the allowlist for admin, self for user.
	ListVisible(ctx context.Context, actor *repository.User) ([]*repository.User, error)
	Create(ctx context.Context, actor *repository.User, in CreateUserInput) (*repository.User, error)
	UpdateProfile(ctx context.Context, actor *repository.User, name, password string) (*repository.User, error)
	UpdateRole(ctx context.Context, actor *repository.User, targetID, role string) error
	UpdateStatus(ctx context.Context, actor *repository.User, targetID, status string) error
	SetAssignedUsers(ctx context.Context, actor *repository.User, adminID string, userIDs []string) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*repository.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *userService) ListVisible(ctx context.Context, actor *repository.User) ([]*repository.User, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	switch actor.Role {
	case types.RoleSuperAdmin:
		return s.userRepo.FindAll(ctx)
	case types.RoleAdmin:
		return s.userRepo.FindByIDs(ctx, actor.AssignedUserIDs)
	case types.RoleUser:
		return []*repository.User{actor}, nil
	}
	return nil, ErrUnauthorized
}

func (s *userService) Create(ctx context.Context, actor *repository.User, in CreateUserInput) (*repository.User, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if !types.IsValidRole(in.Role) {
		return nil, newValidationError("role", "must be one of USER, ADMIN, SUPERADMIN")
	}

	// Accounts are created by a higher-privileged actor: superadmins
	// create any role, admins create USER accounts only.
	switch actor.Role {
	case types.RoleSuperAdmin:
	case types.RoleAdmin:
		if in.Role != types.RoleUser {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &repository.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Role:     in.Role,
		Status:   types.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *repository.User, name, password string) (*repository.User, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if name != "" {
		actor.Name = name
		if err := s.userRepo.Update(ctx, actor); err != nil {
			return nil, err
		}
	}
	if password != "" {
		if len(password) < 8 {
			return nil, newValidationError("password", "must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, actor.ID, string(hashed)); err != nil {
			return nil, err
		}
	}
	return actor, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor *repository.User, targetID, role string) error {
	if err := checkActor(actor); err != nil {
		return err
	}
	if actor.Role != types.RoleSuperAdmin {
		return ErrForbidden
	}
	if !types.IsValidRole(role) {
		return newValidationError("role", "must be one of USER, ADMIN, SUPERADMIN")
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	return s.userRepo.UpdateRole(ctx, targetID, role)
}

func (s *userService) UpdateStatus(ctx context.Context, actor *repository.User, targetID, status string) error {
	if err := checkActor(actor); err != nil {
		return err
	}
	if actor.Role != types.RoleSuperAdmin {
		return ErrForbidden
	}
	if !types.IsValidAccountStatus(status) {
		return newValidationError("status", "must be ACTIVE or INACTIVE")
	}
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if err := s.userRepo.UpdateStatus(ctx, targetID, status); err != nil {
		return err
	}
	if status == types.StatusInactive {
		// Cut off existing sessions right away.
		return s.userRepo.DeleteUserRefreshTokens(ctx, targetID)
	}
	return nil
}

func (s *userService) SetAssignedUsers(ctx context.Context, actor *repository.User, adminID string, userIDs []string) error {
	if err := checkActor(actor); err != nil {
		return err
	}
	if actor.Role != types.RoleSuperAdmin {
		return ErrForbidden
	}

	admin, err := s.userRepo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrNotFound
	}
	if admin.Role != types.RoleAdmin {
		return newValidationError("adminId", "allowlists only apply to ADMIN accounts")
	}

	if len(userIDs) > 0 {
		members, err := s.userRepo.FindByIDs(ctx, userIDs)
		if err != nil {
			return err
		}
		found := make(map[string]string, len(members))
		for _, m := range members {
			found[m.ID] = m.Role
		}
		for _, id := range userIDs {
			role, ok := found[id]
			if !ok {
				return newValidationError("userIds", "user "+id+" not found")
			}
			if role != types.RoleUser {
				return newValidationError("userIds", "user "+id+" is not a USER account")
			}
		}
	}

	return s.userRepo.UpdateAssignedUsers(ctx, adminID, userIDs)
}
