package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CartID      uint    `gorm:"index" json:"cart_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	// Price is the unit price at the time the item was added; later
	// catalog changes do not touch it.
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// Subtotal is the line contribution to the cart total.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
