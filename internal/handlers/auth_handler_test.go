package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/restolist/backend/internal/auth"
	"github.com/restolist/backend/internal/models"
	"github.com/restolist/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService
type mockAuthService struct {
	registerErr   error
	loginResp     *models.LoginResponse
	loginErr      error
	userInfo      *models.UserInfo
	authorities   []string
	userInfoErr   error
	registeredReq *models.RegisterRequest
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) error {
	m.registeredReq = req
	return m.registerErr
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResp, nil
}

func (m *mockAuthService) GetUserInfo(ctx context.Context, username string) (*models.UserInfo, []string, error) {
	if m.userInfoErr != nil {
		return nil, nil, m.userInfoErr
	}
	return m.userInfo, m.authorities, nil
}

func setupAuthRouter(svc *mockAuthService) (chi.Router, *auth.TokenGenerator) {
	tg := auth.NewTokenGenerator("test-secret-key", 24*time.Hour)
	handler := NewAuthHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r, auth.Middleware(tg))
	return r, tg
}

func TestAuthHandler_SignUp(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		service         *mockAuthService
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "success",
			body:            `{"username":"alice","name":"Alice","email":"alice@example.com","password":"secret123"}`,
			service:         &mockAuthService{},
			expectedStatus:  http.StatusOK,
			expectedMessage: "user registered successfully",
		},
		{
			name:            "invalid json",
			body:            `{not json`,
			service:         &mockAuthService{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "invalid request body",
		},
		{
			name:           "validation error",
			body:           `{"username":"alice"}`,
			service:        &mockAuthService{registerErr: fmt.Errorf("%w: username, name, email and password are required", services.ErrValidation)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "username taken",
			body:           `{"username":"alice","name":"Alice","email":"a@b.c","password":"x"}`,
			service:        &mockAuthService{registerErr: fmt.Errorf("%w: username \"alice\" is already taken", services.ErrConflict)},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:            "internal error is masked",
			body:            `{"username":"alice","name":"Alice","email":"a@b.c","password":"x"}`,
			service:         &mockAuthService{registerErr: fmt.Errorf("database error")},
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupAuthRouter(tt.service)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "message")
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body["message"])
			}
		})
	}
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockAuthService{
			loginResp: &models.LoginResponse{
				Token:       "signed-token",
				Authorities: []string{"ROLES_USER"},
				UserInfo: models.UserInfo{
					Name:     "Alice",
					Email:    "alice@example.com",
					Username: "alice",
				},
			},
		}
		r, _ := setupAuthRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signin",
			strings.NewReader(`{"username":"alice","password":"secret123"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, []string{"ROLES_USER"}, resp.Authorities)
		assert.Equal(t, "alice", resp.UserInfo.Username)
	})

	t.Run("unknown username returns 404", func(t *testing.T) {
		svc := &mockAuthService{loginErr: fmt.Errorf("%w: username not found", services.ErrNotFound)}
		r, _ := setupAuthRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signin",
			strings.NewReader(`{"username":"ghost","password":"x"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong password returns 401", func(t *testing.T) {
		svc := &mockAuthService{loginErr: fmt.Errorf("%w: invalid password", services.ErrInvalidCredentials)}
		r, _ := setupAuthRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signin",
			strings.NewReader(`{"username":"alice","password":"wrong"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["message"], "invalid password")
	})

	t.Run("missing fields returns 400", func(t *testing.T) {
		svc := &mockAuthService{loginErr: fmt.Errorf("%w: username and password are required", services.ErrValidation)}
		r, _ := setupAuthRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	svc := &mockAuthService{
		userInfo: &models.UserInfo{
			Name:     "Alice",
			Email:    "alice@example.com",
			Username: "alice",
		},
		authorities: []string{"ROLES_USER", "ROLES_ADMIN"},
	}
	r, tg := setupAuthRouter(svc)

	t.Run("success with bearer token", func(t *testing.T) {
		token, err := tg.Generate("alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp MeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice", resp.UserInfo.Username)
		assert.Equal(t, []string{"ROLES_USER", "ROLES_ADMIN"}, resp.Authorities)
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted user returns 404", func(t *testing.T) {
		goneSvc := &mockAuthService{userInfoErr: fmt.Errorf("%w: username not found", services.ErrNotFound)}
		goneRouter, goneTg := setupAuthRouter(goneSvc)

		token, err := goneTg.Generate("ghost")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		goneRouter.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
