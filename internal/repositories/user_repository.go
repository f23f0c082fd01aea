package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/restolist/backend/internal/models"
	"go.uber.org/zap"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations
const mysqlDuplicateEntry = 1062

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWithRoles inserts a new user and its role assignments in a single
// transaction. Either both the user row and every role row commit, or
// nothing does; a user never exists without at least one role.
func (r *userRepository) CreateWithRoles(ctx context.Context, user *models.User, roleIDs []int) error {
	if len(roleIDs) == 0 {
		return fmt.Errorf("at least one role is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (username, name, email, password_hash)
		VALUES (?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, user.Username, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, id, roleID); err != nil {
			r.logger.Error("failed to assign role", zap.Int("roleId", roleID), zap.Error(err))
			return fmt.Errorf("failed to assign role %d: %w", roleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, name, email, password_hash
		FROM users
		WHERE username = ?
		LIMIT 1
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// ExistsByUsername checks if a user exists with the given username
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE username = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// GetRoles retrieves all roles assigned to a user
func (r *userRepository) GetRoles(ctx context.Context, userID int) ([]models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to query user roles", zap.Error(err), zap.Int("userId", userID))
		return nil, fmt.Errorf("failed to query user roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return roles, nil
}
