package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// Add puts a product on the wishlist. Reports false without error when the
// product was already there.
func (s *WishlistService) Add(userID, productID uuid.UUID) (bool, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		return false, ErrProductNotFound
	}

	var existing models.WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up wishlist: %w", err)
	}

	item := models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return false, fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return true, nil
}

// Remove deletes the wishlist entry for a product, keyed by product id.
func (s *WishlistService) Remove(userID, productID uuid.UUID) error {
	res := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

func (s *WishlistService) List(userID uuid.UUID) *dto.WishlistResponse {
	var items []models.WishlistItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		slog.Error("failed to load wishlist", "error", err, "user_id", userID.String())
		return &dto.WishlistResponse{Items: []dto.ProductResponse{}}
	}

	resp := &dto.WishlistResponse{Items: make([]dto.ProductResponse, 0, len(items))}
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		resp.Items = append(resp.Items, dto.ProductResponse{
			ID:          item.Product.ID,
			Name:        item.Product.Name,
			Description: item.Product.Description,
			Price:       item.Product.Price,
			Stock:       item.Product.Stock,
			ImageURL:    item.Product.ImageURL,
		})
	}
	resp.Count = len(resp.Items)
	return resp
}
