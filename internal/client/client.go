// Package client is the REST API client used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/restolist/backend/internal/models"
)

// ErrUnavailable marks a connectivity failure: no response from the server
// at all, as opposed to a server-returned error payload. Callers may offer
// a retry or continue-offline choice on it.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a server-returned failure payload
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// MeResponse is the payload of GET /auth/me
type MeResponse struct {
	Authorities []string        `json:"authorities"`
	UserInfo    models.UserInfo `json:"userInfo"`
}

// Client is a REST API client for the restaurant listing backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SignUp registers a new user
func (c *Client) SignUp(ctx context.Context, req *models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", "", req, nil)
}

// SignIn authenticates and returns the token, authorities and user info
func (c *Client) SignIn(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	resp := &models.LoginResponse{}
	req := &models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", "", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Me validates the token server-side and returns the authenticated user
func (c *Client) Me(ctx context.Context, token string) (*MeResponse, error) {
	resp := &MeResponse{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListRestaurants retrieves all restaurants
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := c.do(ctx, http.MethodGet, "/restaurant", "", nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurant retrieves a restaurant by id
func (c *Client) GetRestaurant(ctx context.Context, id int) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/restaurant/%d", id), "", nil, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// CreateRestaurant adds a new restaurant
func (c *Client) CreateRestaurant(ctx context.Context, req *models.RestaurantRequest) (*models.Restaurant, error) {
	restaurant := &models.Restaurant{}
	if err := c.do(ctx, http.MethodPost, "/restaurant", "", req, restaurant); err != nil {
		return nil, err
	}
	return restaurant, nil
}

// UpdateRestaurant applies a partial update to a restaurant
func (c *Client) UpdateRestaurant(ctx context.Context, id int, req *models.RestaurantRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/restaurant/%d", id), "", req, nil)
}

// DeleteRestaurant removes a restaurant by id
func (c *Client) DeleteRestaurant(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/restaurant/%d", id), "", nil, nil)
}

// do performs a request and decodes either the success payload into out or
// the server's {message} payload into an APIError. Transport failures are
// wrapped with ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: "unexpected error"}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
