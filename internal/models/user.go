package models

// Default role names seeded by migrations. Role ids are fixed by the seed
// and referenced directly where the default assignment is needed.
const (
	RoleNameUser      = "user"
	RoleNameModerator = "moderator"
	RoleNameAdmin     = "admin"

	DefaultRoleID = 1
)

// Role represents an authorization tag from the seeded role registry
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
}

// RegisterRequest represents a signup request body
type RegisterRequest struct {
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// LoginRequest represents a signin request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo is the public view of a user returned on successful login.
// Internal id and password hash never leave the service.
type UserInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse represents a successful signin response
type LoginResponse struct {
	Token       string   `json:"token"`
	Authorities []string `json:"authorities"`
	UserInfo    UserInfo `json:"userInfo"`
}
