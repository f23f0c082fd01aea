package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/restolist/backend/internal/auth"
	"github.com/restolist/backend/internal/models"
	"github.com/restolist/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed cost factor for password hashing
const bcryptCost = 8

// authorityPrefix is prepended to the uppercased role name to build the
// authority strings the client tests permissions against.
const authorityPrefix = "ROLES_"

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method CreateWithRoles inserts a new user together with its role
	// assignments in a single transaction.
	//
	// "user" parameter is used to create a new user; its ID is set on success.
	// "roleIDs" parameter lists the roles to assign, at least one is required.
	//
	// If the username is already taken, the returned error wraps
	// repositories.ErrDuplicate.
	CreateWithRoles(ctx context.Context, user *models.User, roleIDs []int) error
	// Method GetByUsername retrieves a user by username.
	//
	// If no user with such username exists, the returned error wraps
	// repositories.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method ExistsByUsername checks if a user with such username exists.
	//
	// If some error occurs during the check, the error will be returned together with "false" value.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Method GetRoles retrieves all roles assigned to a user.
	GetRoles(ctx context.Context, userID int) ([]models.Role, error)
}

// RoleRepository is the interface that wraps methods for the seeded role registry
type RoleRepository interface {
	// Method GetByNames retrieves roles matching any of the given names.
	// Unknown names are skipped; an empty result is not an error.
	GetByNames(ctx context.Context, names []string) ([]models.Role, error)
}

// authService implements AuthService
type authService struct {
	userRepo       UserRepository
	roleRepo       RoleRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// Register creates a new user account with at least one role.
// No token is issued at registration; registration and login are separate steps.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: username, name, email and password are required", ErrValidation)
	}

	// Fast-path user-facing error; the unique constraint on users.username
	// is the authoritative guard under concurrent registration.
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: username %q is already taken", ErrConflict, username)
	}

	// Resolve requested role names; no matches falls back to the default
	// role so a user never ends up with zero roles.
	roleIDs := []int{models.DefaultRoleID}
	if len(req.Roles) > 0 {
		roles, err := s.roleRepo.GetByNames(ctx, req.Roles)
		if err != nil {
			return err
		}
		if len(roles) > 0 {
			roleIDs = roleIDs[:0]
			for _, role := range roles {
				roleIDs = append(roleIDs, role.ID)
			}
		}
	}

	// Hash password; the plaintext is discarded with the request
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	if err := s.userRepo.CreateWithRoles(ctx, user, roleIDs); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: username %q is already taken", ErrConflict, username)
		}
		return err
	}

	s.logger.Info("user registered", zap.String("username", username), zap.Ints("roleIds", roleIDs))
	return nil
}

// Login verifies credentials and issues a signed session token together
// with the user's authority strings and public info.
//
// Unknown username and wrong password are reported as distinct failures,
// matching the observed contract.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: username not found", ErrNotFound)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid password", ErrInvalidCredentials)
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	authorities := make([]string, 0, len(roles))
	for _, role := range roles {
		authorities = append(authorities, authorityPrefix+strings.ToUpper(role.Name))
	}

	token, err := s.tokenGenerator.Generate(user.Username)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:       token,
		Authorities: authorities,
		UserInfo: models.UserInfo{
			Name:     user.Name,
			Email:    user.Email,
			Username: user.Username,
		},
	}, nil
}

// GetUserInfo resolves the public info and authorities for an
// already-authenticated username.
func (s *authService) GetUserInfo(ctx context.Context, username string) (*models.UserInfo, []string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: username not found", ErrNotFound)
		}
		return nil, nil, err
	}

	roles, err := s.userRepo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	authorities := make([]string, 0, len(roles))
	for _, role := range roles {
		authorities = append(authorities, authorityPrefix+strings.ToUpper(role.Name))
	}

	return &models.UserInfo{
		Name:     user.Name,
		Email:    user.Email,
		Username: user.Username,
	}, authorities, nil
}
