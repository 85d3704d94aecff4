package services

import (
	"errors"
	"fmt"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLineNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// AddLine puts a product in the user's cart. An existing line for the same
// product absorbs the quantity instead of a duplicate row appearing; the
// unique index on (user_id, product_id) backs this up.
func (s *CartService) AddLine(userID uuid.UUID, req *dto.AddCartItemRequest) error {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return ErrInvalidQuantity
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return ErrProductNotFound
	}

	var line models.CartItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&line).Error
	if err == nil {
		return s.db.Model(&line).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", qty)).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up cart line: %w", err)
	}

	line = models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  qty,
	}
	if err := s.db.Create(&line).Error; err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	return nil
}

// SetQuantity changes a line's quantity. The line must belong to the
// requesting user; lines of other users are invisible here.
func (s *CartService) SetQuantity(userID, lineID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	res := s.db.Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// RemoveLine deletes a line owned by the user.
func (s *CartService) RemoveLine(userID, lineID uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLineNotFound
	}
	return nil
}

// Clear empties the user's cart. Clearing an already empty cart is a no-op.
func (s *CartService) Clear(userID uuid.UUID) error {
	if err := clearCart(s.db, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// clearCart deletes every cart line for the user. Checkout calls it inside
// its transaction once the order is written.
func clearCart(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// Snapshot returns the cart with per-line totals and the aggregate total.
// Stock is not checked here; it is validated at checkout.
func (s *CartService) Snapshot(userID uuid.UUID) (*dto.CartResponse, error) {
	var lines []models.CartItem
	if err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("product_id ASC").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	resp := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(lines))}
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		lineTotal := line.Product.Price * float64(line.Quantity)
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			ImageURL:  line.Product.ImageURL,
		})
		resp.TotalPrice += lineTotal
	}
	return resp, nil
}
