package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category slots products by type, age group and gender,
// e.g. {Shirts, Adult, Male} or {Accessories, All, Unisex}.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductType string    `gorm:"size:100;not null;index" json:"product_type"`
	AgeGroup    string    `gorm:"size:50" json:"age_group"`
	Gender      string    `gorm:"size:20" json:"gender"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
