package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/restolist/backend/internal/auth"
	"github.com/restolist/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register performs user credentials validation and creates the
	// user together with its role assignments.
	//
	// "req" parameter contains username, name, email, password and optional role names.
	//
	// No token is issued at registration; on failure the returned error wraps
	// one of the services sentinel errors.
	Register(ctx context.Context, req *models.RegisterRequest) error
	// Method Login verifies credentials and issues the session token,
	// authority strings and public user info.
	//
	// "req" parameter contains username and password.
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	// Method GetUserInfo resolves public info and authorities for an
	// already-authenticated username.
	GetUserInfo(ctx context.Context, username string) (*models.UserInfo, []string, error)
}

// AuthHandler handles authentication-related HTTP requests.
//
// Note: signin deliberately distinguishes unknown username (404) from wrong
// password (401). This leaks username existence but is the observed contract
// the client depends on.
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/me", h.Me)
		})
	})
}

// SignUp handles POST /auth/signup
// @Summary Register a new user
// @Description Register a new user with username, name, email, password and optional role names. Unknown role names fall back to the default role.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 200 {object} map[string]string "User registered successfully"
// @Failure 400 {object} map[string]string "Missing fields or username already taken"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Register(r.Context(), &req); err != nil {
		h.Logger.Warn("failed to register user", zap.String("username", req.Username), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "user registered successfully")
}

// SignIn handles POST /auth/signin
// @Summary Authenticate a user
// @Description Verify username and password; on success returns the session token, authority strings and public user info.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Login successful"
// @Failure 400 {object} map[string]string "Missing username or password"
// @Failure 401 {object} map[string]string "Invalid password"
// @Failure 404 {object} map[string]string "Username not found"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to login user", zap.String("username", req.Username), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// MeResponse represents the authenticated user's info and authorities
type MeResponse struct {
	Authorities []string        `json:"authorities"`
	UserInfo    models.UserInfo `json:"userInfo"`
}

// Me handles GET /auth/me
// @Summary Get the authenticated user
// @Description Validate the presented session token and return the user's public info and authorities.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} MeResponse "Authenticated user"
// @Failure 401 {object} map[string]string "Missing, invalid or expired token"
// @Failure 404 {object} map[string]string "User no longer exists"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.GetUsername(r.Context())
	if !ok {
		h.RespondMessage(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userInfo, authorities, err := h.authService.GetUserInfo(r.Context(), username)
	if err != nil {
		h.Logger.Warn("failed to resolve user info", zap.String("username", username), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, MeResponse{
		Authorities: authorities,
		UserInfo:    *userInfo,
	})
}
