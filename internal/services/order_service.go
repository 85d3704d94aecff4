package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/atelmoda/storefront-backend/internal/dto"
	"github.com/atelmoda/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrMissingDeliveryField = errors.New("please fill in all delivery details")
	ErrInvalidPaymentDetail = errors.New("invalid payment details")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNotFound        = errors.New("order not found")
)

// OrderService turns carts into orders. Checkout is the only place in the
// codebase that writes Product.stock.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Checkout converts the user's cart into an order in one transaction. The
// cart and stock are re-read inside the transaction, every line either
// decrements stock and lands as an order item or the whole attempt rolls
// back, and the cart is cleared only on success.
func (s *OrderService) Checkout(userID uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if req.PaymentMode == "" {
		req.PaymentMode = models.PaymentModeCOD
	}
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", userID).
			Find(&lines).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// Fixed ascending product id order keeps concurrent checkouts on
		// overlapping products from deadlocking on lock order.
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].ProductID.String() < lines[j].ProductID.String()
		})

		var total float64
		for _, line := range lines {
			if line.Product == nil {
				return ErrProductNotFound
			}
			total += line.Product.Price * float64(line.Quantity)
		}

		order = models.Order{
			ID:            uuid.New(),
			UserID:        userID,
			TotalPrice:    total,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMode:   req.PaymentMode,
			FullName:      req.FullName,
			Address:       req.Address,
			PhoneNumber:   req.PhoneNumber,
			City:          req.City,
			PostalCode:    req.PostalCode,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range lines {
			ok, err := decrementStock(tx, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, line.Product.Name)
			}

			item := models.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price * float64(line.Quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		if err := clearCart(tx, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		OrderID:    order.ID,
		TotalPrice: order.TotalPrice,
		Status:     order.PaymentStatus,
	}, nil
}

func (s *OrderService) GetOrder(userID, orderID uuid.UUID) (*dto.OrderResponse, error) {
	var order models.Order
	if err := s.db.Preload("Items.Product").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error; err != nil {
		return nil, ErrOrderNotFound
	}
	return orderResponse(&order), nil
}

func (s *OrderService) ListOrders(userID uuid.UUID) ([]dto.OrderResponse, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, *orderResponse(&orders[i]))
	}
	return resp, nil
}

// Dashboard summarizes the five most recent orders and lifetime spend.
func (s *OrderService) Dashboard(userID uuid.UUID) (*dto.DashboardResponse, error) {
	var orders []models.Order
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	var totalSpent float64
	if err := s.db.Model(&models.Order{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&totalSpent).Error; err != nil {
		return nil, fmt.Errorf("failed to compute total spent: %w", err)
	}

	resp := &dto.DashboardResponse{
		RecentOrders: make([]dto.OrderResponse, 0, len(orders)),
		TotalSpent:   totalSpent,
	}
	for i := range orders {
		resp.RecentOrders = append(resp.RecentOrders, *orderResponse(&orders[i]))
	}
	return resp, nil
}

func validateCheckout(req *dto.CheckoutRequest) error {
	if req.FullName == "" || req.Address == "" || req.PhoneNumber == "" ||
		req.City == "" || req.PostalCode == "" {
		return ErrMissingDeliveryField
	}

	switch req.PaymentMode {
	case models.PaymentModeCOD:
	case models.PaymentModeCard:
		if req.CardNumber == "" {
			return fmt.Errorf("%w: card details are required for Card payment", ErrInvalidPaymentDetail)
		}
	case models.PaymentModeUPI:
		if req.UPIID == "" {
			return fmt.Errorf("%w: UPI ID is required for UPI payment", ErrInvalidPaymentDetail)
		}
	default:
		return fmt.Errorf("%w: unknown payment mode %q", ErrInvalidPaymentDetail, req.PaymentMode)
	}
	return nil
}

func orderResponse(order *models.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            order.ID,
		TotalPrice:    order.TotalPrice,
		PaymentStatus: order.PaymentStatus,
		PaymentMode:   order.PaymentMode,
		FullName:      order.FullName,
		Address:       order.Address,
		PhoneNumber:   order.PhoneNumber,
		City:          order.City,
		PostalCode:    order.PostalCode,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return resp
}
