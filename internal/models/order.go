package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"

	PaymentModeCOD  = "COD"
	PaymentModeCard = "Card"
	PaymentModeUPI  = "UPI"
)

// Order is the immutable record of a checkout. Everything except
// PaymentStatus is fixed at commit time; later catalog edits never touch it.
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	PaymentStatus string      `gorm:"size:20;not null;default:'Pending'" json:"payment_status"`
	PaymentMode   string      `gorm:"size:10;not null" json:"payment_mode"`
	FullName      string      `gorm:"size:255;not null" json:"full_name"`
	Address       string      `gorm:"type:text;not null" json:"address"`
	PhoneNumber   string      `gorm:"size:15;not null" json:"phone_number"`
	City          string      `gorm:"size:100;not null" json:"city"`
	PostalCode    string      `gorm:"size:20;not null" json:"postal_code"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem snapshots one purchased line. Price is the line total taken
// from the cart snapshot at commit time, not a unit price and not a
// re-read.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
