package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/restolist/backend/internal/models"
	"go.uber.org/zap"
)

// restaurantRepository implements RestaurantRepository
type restaurantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRestaurantRepository creates a new restaurant repository
func NewRestaurantRepository(db *sql.DB, logger *zap.Logger) *restaurantRepository {
	return &restaurantRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new restaurant
func (r *restaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
		INSERT INTO restaurants (title, type, image_url)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, restaurant.Title, restaurant.Type, restaurant.ImageURL)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("title %q: %w", restaurant.Title, ErrDuplicate)
		}
		r.logger.Error("failed to create restaurant", zap.Error(err))
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	restaurant.ID = int(id)
	return nil
}

// GetAll retrieves all restaurants
func (r *restaurantRepository) GetAll(ctx context.Context) ([]models.Restaurant, error) {
	query := `
		SELECT id, title, type, image_url
		FROM restaurants
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query restaurants", zap.Error(err))
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []models.Restaurant{}
	for rows.Next() {
		var restaurant models.Restaurant
		err := rows.Scan(
			&restaurant.ID,
			&restaurant.Title,
			&restaurant.Type,
			&restaurant.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return restaurants, nil
}

// GetByID retrieves a restaurant by id
func (r *restaurantRepository) GetByID(ctx context.Context, id int) (*models.Restaurant, error) {
	query := `
		SELECT id, title, type, image_url
		FROM restaurants
		WHERE id = ?
		LIMIT 1
	`

	restaurant := &models.Restaurant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&restaurant.ID,
		&restaurant.Title,
		&restaurant.Type,
		&restaurant.ImageURL,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("restaurant %d: %w", id, ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get restaurant by id", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get restaurant by id: %w", err)
	}

	return restaurant, nil
}

// ExistsByTitle checks if a restaurant exists with the given title
func (r *restaurantRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM restaurants WHERE title = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, title).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check title existence", zap.Error(err), zap.String("title", title))
		return false, fmt.Errorf("failed to check title existence: %w", err)
	}

	return exists, nil
}

// Update updates the provided fields of a restaurant. Empty fields keep
// their stored values.
func (r *restaurantRepository) Update(ctx context.Context, id int, req *models.RestaurantRequest) error {
	setClauses := []string{}
	args := []any{}

	if req.Title != "" {
		setClauses = append(setClauses, "title = ?")
		args = append(args, req.Title)
	}
	if req.Type != "" {
		setClauses = append(setClauses, "type = ?")
		args = append(args, req.Type)
	}
	if req.ImageURL != "" {
		setClauses = append(setClauses, "image_url = ?")
		args = append(args, req.ImageURL)
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("no fields to update")
	}

	query := fmt.Sprintf(`UPDATE restaurants SET %s WHERE id = ?`, strings.Join(setClauses, ", "))
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("title %q: %w", req.Title, ErrDuplicate)
		}
		r.logger.Error("failed to update restaurant", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	return nil
}

// Delete removes a restaurant by id
func (r *restaurantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete restaurant", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("restaurant %d: %w", id, ErrNotFound)
	}

	return nil
}
