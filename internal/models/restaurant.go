package models

// Restaurant represents a restaurant listing
type Restaurant struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	ImageURL string `json:"imageUrl"`
}

// RestaurantRequest represents a create/update request body.
// On create all three fields are required; on update at least one must be set.
type RestaurantRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	ImageURL string `json:"imageUrl"`
}
