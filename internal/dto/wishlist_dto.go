package dto

import "github.com/google/uuid"

type AddWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

type WishlistResponse struct {
	Items []ProductResponse `json:"items"`
	Count int               `json:"count"`
}
