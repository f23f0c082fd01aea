package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/restolist/backend/internal/auth"
	"github.com/restolist/backend/internal/models"
	"github.com/restolist/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user        *models.User
	roles       []models.Role
	exists      bool
	existsErr   error
	getErr      error
	createErr   error
	getRolesErr error

	createdUser    *models.User
	createdRoleIDs []int
}

func (m *mockUserRepository) CreateWithRoles(ctx context.Context, user *models.User, roleIDs []int) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.createdUser = user
	m.createdRoleIDs = roleIDs
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockUserRepository) GetRoles(ctx context.Context, userID int) ([]models.Role, error) {
	if m.getRolesErr != nil {
		return nil, m.getRolesErr
	}
	return m.roles, nil
}

// mockRoleRepository is a mock implementation of RoleRepository
type mockRoleRepository struct {
	roles []models.Role
	err   error

	requestedNames []string
}

func (m *mockRoleRepository) GetByNames(ctx context.Context, names []string) ([]models.Role, error) {
	m.requestedNames = names
	if m.err != nil {
		return nil, m.err
	}
	return m.roles, nil
}

func newTestAuthService(userRepo *mockUserRepository, roleRepo *mockRoleRepository) *authService {
	tg := auth.NewTokenGenerator("test-secret-key", 24*time.Hour)
	return NewAuthService(userRepo, roleRepo, tg, zap.NewNop())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	validRequest := func() *models.RegisterRequest {
		return &models.RegisterRequest{
			Username: "alice",
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		}
	}

	tests := []struct {
		name          string
		request       *models.RegisterRequest
		userRepo      *mockUserRepository
		roleRepo      *mockRoleRepository
		expectedError error
	}{
		{
			name:     "success with default role",
			request:  validRequest(),
			userRepo: &mockUserRepository{},
			roleRepo: &mockRoleRepository{},
		},
		{
			name: "missing username",
			request: &models.RegisterRequest{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "secret123",
			},
			userRepo:      &mockUserRepository{},
			roleRepo:      &mockRoleRepository{},
			expectedError: ErrValidation,
		},
		{
			name: "whitespace-only username",
			request: &models.RegisterRequest{
				Username: "   ",
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "secret123",
			},
			userRepo:      &mockUserRepository{},
			roleRepo:      &mockRoleRepository{},
			expectedError: ErrValidation,
		},
		{
			name: "missing password",
			request: &models.RegisterRequest{
				Username: "alice",
				Name:     "Alice",
				Email:    "alice@example.com",
			},
			userRepo:      &mockUserRepository{},
			roleRepo:      &mockRoleRepository{},
			expectedError: ErrValidation,
		},
		{
			name:          "username already taken",
			request:       validRequest(),
			userRepo:      &mockUserRepository{exists: true},
			roleRepo:      &mockRoleRepository{},
			expectedError: ErrConflict,
		},
		{
			name:          "duplicate detected at insert",
			request:       validRequest(),
			userRepo:      &mockUserRepository{createErr: repositories.ErrDuplicate},
			roleRepo:      &mockRoleRepository{},
			expectedError: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.userRepo, tt.roleRepo)

			err := svc.Register(context.Background(), tt.request)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	userRepo := &mockUserRepository{}
	roleRepo := &mockRoleRepository{}
	svc := newTestAuthService(userRepo, roleRepo)

	err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, []int{models.DefaultRoleID}, userRepo.createdRoleIDs)
	// Role lookup is skipped entirely when no roles were requested
	assert.Nil(t, roleRepo.requestedNames)
}

func TestAuthService_Register_RequestedRoles(t *testing.T) {
	userRepo := &mockUserRepository{}
	roleRepo := &mockRoleRepository{
		roles: []models.Role{
			{ID: 2, Name: models.RoleNameModerator},
			{ID: 3, Name: models.RoleNameAdmin},
		},
	}
	svc := newTestAuthService(userRepo, roleRepo)

	err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Roles:    []string{"moderator", "admin"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"moderator", "admin"}, roleRepo.requestedNames)
	assert.Equal(t, []int{2, 3}, userRepo.createdRoleIDs)
}

func TestAuthService_Register_UnknownRolesFallBack(t *testing.T) {
	userRepo := &mockUserRepository{}
	roleRepo := &mockRoleRepository{roles: []models.Role{}}
	svc := newTestAuthService(userRepo, roleRepo)

	err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
		Roles:    []string{"superuser"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{models.DefaultRoleID}, userRepo.createdRoleIDs)
}

func TestAuthService_Register_PasswordIsHashed(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc := newTestAuthService(userRepo, &mockRoleRepository{})

	err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NotNil(t, userRepo.createdUser)
	assert.NotEqual(t, "secret123", userRepo.createdUser.PasswordHash)
	assert.NotContains(t, userRepo.createdUser.PasswordHash, "secret123")

	// The stored hash must verify against the original password
	err = bcrypt.CompareHashAndPassword([]byte(userRepo.createdUser.PasswordHash), []byte("secret123"))
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.LoginRequest
		userRepo      *mockUserRepository
		expectedError error
	}{
		{
			name:    "missing username",
			request: &models.LoginRequest{Password: "secret123"},
			userRepo: &mockUserRepository{
				user: &models.User{},
			},
			expectedError: ErrValidation,
		},
		{
			name:          "missing password",
			request:       &models.LoginRequest{Username: "alice"},
			userRepo:      &mockUserRepository{},
			expectedError: ErrValidation,
		},
		{
			name:          "unknown username",
			request:       &models.LoginRequest{Username: "ghost", Password: "secret123"},
			userRepo:      &mockUserRepository{getErr: repositories.ErrNotFound},
			expectedError: ErrNotFound,
		},
		{
			name:          "repository error",
			request:       &models.LoginRequest{Username: "alice", Password: "secret123"},
			userRepo:      &mockUserRepository{getErr: errors.New("database error")},
			expectedError: nil, // plain error, checked separately below
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(tt.userRepo, &mockRoleRepository{})

			resp, err := svc.Login(context.Background(), tt.request)

			assert.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			}
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := &mockUserRepository{
		user: &models.User{
			ID:           1,
			Username:     "alice",
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: hashPassword(t, "secret123"),
		},
		roles: []models.Role{
			{ID: 1, Name: models.RoleNameUser},
			{ID: 2, Name: models.RoleNameModerator},
		},
	}
	svc := newTestAuthService(userRepo, &mockRoleRepository{})

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{"ROLES_USER", "ROLES_MODERATOR"}, resp.Authorities)
	assert.Equal(t, "alice", resp.UserInfo.Username)
	assert.Equal(t, "Alice", resp.UserInfo.Name)
	assert.Equal(t, "alice@example.com", resp.UserInfo.Email)

	// The issued token must embed the username
	tg := auth.NewTokenGenerator("test-secret-key", 24*time.Hour)
	username, err := tg.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := &mockUserRepository{
		user: &models.User{
			ID:           1,
			Username:     "alice",
			PasswordHash: hashPassword(t, "secret123"),
		},
	}
	svc := newTestAuthService(userRepo, &mockRoleRepository{})

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestAuthService_GetUserInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userRepo := &mockUserRepository{
			user: &models.User{
				ID:       1,
				Username: "alice",
				Name:     "Alice",
				Email:    "alice@example.com",
			},
			roles: []models.Role{{ID: 3, Name: models.RoleNameAdmin}},
		}
		svc := newTestAuthService(userRepo, &mockRoleRepository{})

		info, authorities, err := svc.GetUserInfo(context.Background(), "alice")
		require.NoError(t, err)

		assert.Equal(t, "alice", info.Username)
		assert.Equal(t, []string{"ROLES_ADMIN"}, authorities)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		userRepo := &mockUserRepository{getErr: repositories.ErrNotFound}
		svc := newTestAuthService(userRepo, &mockRoleRepository{})

		info, authorities, err := svc.GetUserInfo(context.Background(), "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, info)
		assert.Nil(t, authorities)
	})
}
