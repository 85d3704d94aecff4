package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	AgeGroup    string    `json:"age_group,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"`
}

// SearchQuery carries the catalog filters parsed from the query string.
// Zero values mean "no constraint". Category, Gender and AgeGroup match
// against the product's category row.
type SearchQuery struct {
	Query    string
	Category string
	Gender   string
	AgeGroup string
	MinPrice float64
	MaxPrice float64
	InStock  bool
	SortBy   string
}

type RecommendationsResponse struct {
	FromPurchases []ProductResponse `json:"from_purchases"`
	FromWishlist  []ProductResponse `json:"from_wishlist"`
	TopRated      []ProductResponse `json:"top_rated"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type ReviewResponse struct {
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
