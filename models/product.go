package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the catalog entity cart items reference. Catalog browsing
// and admin CRUD live in a separate service; this module only validates
// that an item being added to a cart exists and reads its price.
type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
