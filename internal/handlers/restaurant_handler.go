package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/restolist/backend/internal/models"
	"go.uber.org/zap"
)

// RestaurantService is the interface that wraps methods for restaurant business logic.
type RestaurantService interface {
	// Method Create validates and stores a new restaurant.
	//
	// "req" parameter contains title, type and imageUrl; all are required.
	Create(ctx context.Context, req *models.RestaurantRequest) (*models.Restaurant, error)
	// Method GetAll retrieves all restaurants.
	GetAll(ctx context.Context) ([]models.Restaurant, error)
	// Method GetByID retrieves a restaurant by id.
	GetByID(ctx context.Context, id int) (*models.Restaurant, error)
	// Method Update applies a partial update; at least one field must be set.
	Update(ctx context.Context, id int, req *models.RestaurantRequest) error
	// Method Delete removes a restaurant by id.
	Delete(ctx context.Context, id int) error
}

// RestaurantHandler handles restaurant-related HTTP requests
type RestaurantHandler struct {
	BaseHandler
	service RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service RestaurantService, logger *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     service,
	}
}

// RegisterRoutes registers all restaurant handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *RestaurantHandler) RegisterRoutes(r chi.Router) {
	r.Route("/restaurant", func(r chi.Router) {
		r.Get("/", h.GetAll)
		r.Post("/", h.Create)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// parseID extracts and validates the {id} route parameter
func (h *RestaurantHandler) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.RespondMessage(w, http.StatusBadRequest, "invalid restaurant id")
		return 0, false
	}
	return id, true
}

// Create handles POST /restaurant
// @Summary Create a restaurant
// @Description Create a new restaurant listing. Title must be unique.
// @Tags restaurant
// @Accept json
// @Produce json
// @Param request body models.RestaurantRequest true "Restaurant to create"
// @Success 200 {object} models.Restaurant "Created restaurant"
// @Failure 400 {object} map[string]string "Missing fields or duplicate title"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /restaurant [post]
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	restaurant, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to create restaurant", zap.String("title", req.Title), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, restaurant)
}

// GetAll handles GET /restaurant
// @Summary List restaurants
// @Description Retrieve all restaurant listings.
// @Tags restaurant
// @Produce json
// @Success 200 {array} models.Restaurant "List of restaurants"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /restaurant [get]
func (h *RestaurantHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.service.GetAll(r.Context())
	if err != nil {
		h.Logger.Error("failed to list restaurants", zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, restaurants)
}

// GetByID handles GET /restaurant/{id}
// @Summary Get a restaurant
// @Description Retrieve a single restaurant by id.
// @Tags restaurant
// @Produce json
// @Param id path int true "Restaurant id"
// @Success 200 {object} models.Restaurant "Restaurant"
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 {object} map[string]string "Restaurant not found"
// @Router /restaurant/{id} [get]
func (h *RestaurantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	restaurant, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, restaurant)
}

// Update handles PUT /restaurant/{id}
// @Summary Update a restaurant
// @Description Apply a partial update to a restaurant; at least one field must be provided.
// @Tags restaurant
// @Accept json
// @Produce json
// @Param id path int true "Restaurant id"
// @Param request body models.RestaurantRequest true "Fields to update"
// @Success 200 {object} map[string]string "Restaurant updated successfully"
// @Failure 400 {object} map[string]string "No fields provided or duplicate title"
// @Failure 404 {object} map[string]string "Restaurant not found"
// @Router /restaurant/{id} [put]
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req models.RestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &req); err != nil {
		h.Logger.Warn("failed to update restaurant", zap.Int("id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "restaurant updated successfully")
}

// Delete handles DELETE /restaurant/{id}
// @Summary Delete a restaurant
// @Description Remove a restaurant by id.
// @Tags restaurant
// @Produce json
// @Param id path int true "Restaurant id"
// @Success 200 {object} map[string]string "Restaurant deleted successfully"
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 404 {object} map[string]string "Restaurant not found"
// @Router /restaurant/{id} [delete]
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Logger.Warn("failed to delete restaurant", zap.Int("id", id), zap.Error(err))
		h.RespondServiceError(w, err)
		return
	}

	h.RespondMessage(w, http.StatusOK, "restaurant deleted successfully")
}
