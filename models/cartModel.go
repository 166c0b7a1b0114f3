package models

import "time"

// CartItem is one (user, product) row of a user's cart.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at"`
}

func (CartItem) TableName() string {
	return "cart"
}

type CartItemView struct {
	CartItem
	Product *ProductSummary `json:"product"`
}

type AddToCartData struct {
	ProductID uint `json:"productId" binding:"required,min=1"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

type CartQuantityData struct {
	Quantity int `json:"quantity"`
}
