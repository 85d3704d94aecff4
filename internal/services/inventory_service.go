package services

import (
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService is the read side of the stock ledger. The only writer
// is the checkout transaction, through decrementStock below.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// CurrentStock returns the live stock count for a product.
func (s *InventoryService) CurrentStock(productID uuid.UUID) (int, error) {
	var product models.Product
	if err := s.db.Select("stock").First(&product, "id = ?", productID).Error; err != nil {
		return 0, ErrProductNotFound
	}
	return product.Stock, nil
}

// decrementStock applies a conditional decrement: the row is touched only
// when enough stock remains, so stock can never go negative even under
// concurrent checkouts. Reports whether the decrement happened.
func decrementStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
