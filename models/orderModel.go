package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPlaced     = "Placed"
	OrderStatusProcessing = "Processing"
	OrderStatusShipping   = "Shipping"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

// OrderStatuses is advisory; status updates outside this set are accepted.
var OrderStatuses = []string{
	OrderStatusPlaced,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

type Order struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	Status      string          `json:"status" gorm:"size:64;not null"`
	Address     string          `json:"address" gorm:"not null"`
	PhoneNumber string          `json:"phone_number" gorm:"size:64;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem price is the product price at the time the order was placed.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

type OrderItemView struct {
	OrderItem
	Product *ProductSummary `json:"product"`
}

type OrderView struct {
	Order
	User  *UserSummary    `json:"user,omitempty"`
	Items []OrderItemView `json:"items"`
}

type OrderLine struct {
	ProductID uint `json:"product_id" binding:"required,min=1"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderData struct {
	Address     string      `json:"address" binding:"required"`
	PhoneNumber string      `json:"phone_number" binding:"required"`
	Products    []OrderLine `json:"products" binding:"required,min=1,dive"`
}

type OrderStatusData struct {
	Status string `json:"status" binding:"required"`
}
