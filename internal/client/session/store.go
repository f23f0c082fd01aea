// Package session holds the client-side session: local persistence of the
// {token, user} pair and the per-view access gate.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Fixed storage keys, mirroring the browser client's localStorage entries
const (
	keyToken = "token"
	keyUser  = "user"
)

// User is the client-held view of the authenticated user
type User struct {
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Authorities []string `json:"authorities"`
}

// HasRole reports whether the user's authorities satisfy the given role name
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Authorities, "ROLES_"+strings.ToUpper(role))
}

// Session is the persisted {token, user} pair
type Session struct {
	Token string
	User  *User
}

// Store persists the client session in a local SQLite key-value table.
// Written only at login, cleared only at logout or on corrupt data.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the session store at the given path
func Open(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists the session; called only on successful login
func (s *Store) Save(ctx context.Context, token string, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := s.set(ctx, keyToken, token); err != nil {
		return err
	}
	return s.set(ctx, keyUser, string(data))
}

// Load reads the persisted session. A missing or corrupt session is not an
// error: corrupt user data is logged, wiped and treated as "logged out".
func (s *Store) Load(ctx context.Context) (*Session, error) {
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	userData, err := s.get(ctx, keyUser)
	if err != nil {
		return nil, err
	}

	if token == "" || userData == "" {
		return nil, nil
	}

	user := &User{}
	if err := json.Unmarshal([]byte(userData), user); err != nil {
		s.logger.Warn("corrupt persisted session, logging out", zap.Error(err))
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return &Session{Token: token, User: user}, nil
}

// Clear removes the persisted session. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}
