package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered storefront customer. Username and email are both
// unique; dob, phone number and gender are optional profile fields.
type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string         `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DOB         *time.Time     `gorm:"type:date" json:"dob,omitempty"`
	PhoneNumber *string        `gorm:"size:15" json:"phone_number,omitempty"`
	Gender      *string        `gorm:"size:10" json:"gender,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
