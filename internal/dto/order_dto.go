package dto

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	FullName    string `json:"full_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	PaymentMode string `json:"payment_mode"`

	// Required when payment_mode is "Card".
	CardNumber string `json:"card_number,omitempty"`

	// Required when payment_mode is "UPI".
	UPIID string `json:"upi_id,omitempty"`
}

type CheckoutResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
}

type OrderItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	TotalPrice    float64             `json:"total_price"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMode   string              `json:"payment_mode"`
	FullName      string              `json:"full_name"`
	Address       string              `json:"address,omitempty"`
	PhoneNumber   string              `json:"phone_number,omitempty"`
	City          string              `json:"city"`
	PostalCode    string              `json:"postal_code,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type DashboardResponse struct {
	RecentOrders []OrderResponse `json:"recent_orders"`
	TotalSpent   float64         `json:"total_spent"`
}
