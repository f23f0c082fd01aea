package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/restolist/backend/internal/models"
	"github.com/restolist/backend/internal/repositories"
	"go.uber.org/zap"
)

// RestaurantRepository is the interface that wraps methods for Restaurant table data access
type RestaurantRepository interface {
	// Method Create inserts a new restaurant; its ID is set on success.
	//
	// If the title is already taken, the returned error wraps
	// repositories.ErrDuplicate.
	Create(ctx context.Context, restaurant *models.Restaurant) error
	// Method GetAll retrieves all restaurants.
	GetAll(ctx context.Context) ([]models.Restaurant, error)
	// Method GetByID retrieves a restaurant by id.
	//
	// If no restaurant with such id exists, the returned error wraps
	// repositories.ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.Restaurant, error)
	// Method ExistsByTitle checks if a restaurant with such title exists.
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// Method Update updates the provided fields of a restaurant.
	Update(ctx context.Context, id int, req *models.RestaurantRequest) error
	// Method Delete removes a restaurant by id.
	//
	// If no restaurant with such id exists, the returned error wraps
	// repositories.ErrNotFound.
	Delete(ctx context.Context, id int) error
}

// restaurantService implements RestaurantService
type restaurantService struct {
	restaurantRepo RestaurantRepository
	logger         *zap.Logger
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(restaurantRepo RestaurantRepository, logger *zap.Logger) *restaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		logger:         logger,
	}
}

// Create validates and stores a new restaurant
func (s *restaurantService) Create(ctx context.Context, req *models.RestaurantRequest) (*models.Restaurant, error) {
	if req.Title == "" || req.Type == "" || req.ImageURL == "" {
		return nil, fmt.Errorf("%w: title, type and imageUrl are required", ErrValidation)
	}

	exists, err := s.restaurantRepo.ExistsByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: restaurant %q already exists", ErrConflict, req.Title)
	}

	restaurant := &models.Restaurant{
		Title:    req.Title,
		Type:     req.Type,
		ImageURL: req.ImageURL,
	}

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: restaurant %q already exists", ErrConflict, req.Title)
		}
		return nil, err
	}

	s.logger.Info("restaurant created", zap.Int("id", restaurant.ID), zap.String("title", restaurant.Title))
	return restaurant, nil
}

// GetAll retrieves all restaurants
func (s *restaurantService) GetAll(ctx context.Context) ([]models.Restaurant, error) {
	return s.restaurantRepo.GetAll(ctx)
}

// GetByID retrieves a restaurant by id
func (s *restaurantService) GetByID(ctx context.Context, id int) (*models.Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: restaurant with id %d", ErrNotFound, id)
		}
		return nil, err
	}
	return restaurant, nil
}

// Update applies a partial update to a restaurant
func (s *restaurantService) Update(ctx context.Context, id int, req *models.RestaurantRequest) error {
	if req.Title == "" && req.Type == "" && req.ImageURL == "" {
		return fmt.Errorf("%w: at least one of title, type or imageUrl is required", ErrValidation)
	}

	// Resolve a missing id to a 404 before touching the row; a zero-row
	// UPDATE cannot distinguish "missing" from "unchanged".
	if _, err := s.restaurantRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: restaurant with id %d", ErrNotFound, id)
		}
		return err
	}

	if err := s.restaurantRepo.Update(ctx, id, req); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: restaurant %q already exists", ErrConflict, req.Title)
		}
		return err
	}

	return nil
}

// Delete removes a restaurant by id
func (s *restaurantService) Delete(ctx context.Context, id int) error {
	if err := s.restaurantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: restaurant with id %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}
