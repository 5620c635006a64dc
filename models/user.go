package models

import "time"

type User struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Email   string `gorm:"unique;not null" json:"email"`
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Address string `json:"address"`
	// CartID points at the user's current cart, if any. Cart teardown
	// detaches it before the cart row itself is deleted.
	CartID    *uint   `json:"cart_id"`
	Cart      *Cart   `gorm:"foreignKey:CartID;references:CartID" json:"cart,omitempty"`
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders,omitempty"`
	CreatedAt time.Time
}
