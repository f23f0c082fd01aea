package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/restolist/backend/internal/models"
)

// roleRepository implements RoleRepository. Roles are seeded once by
// migrations and read-only afterwards.
type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB) *roleRepository {
	return &roleRepository{
		db: db,
	}
}

// GetByNames retrieves roles whose names match any of the given names.
// Unknown names are silently skipped; callers decide how to handle an
// empty result.
func (r *roleRepository) GetByNames(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return []models.Role{}, nil
	}

	// Build query with placeholders
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		args[i] = name
	}

	query := fmt.Sprintf(`
		SELECT id, name
		FROM roles
		WHERE name IN (%s)
		ORDER BY id
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
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
