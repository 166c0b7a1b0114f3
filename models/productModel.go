package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Category struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:255;not null" binding:"required"`
	Image string `json:"image"`
}

type Subcategory struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CategoryID uint   `json:"category_id" gorm:"not null;index" binding:"required,min=1"`
	Name       string `json:"name" gorm:"size:255;not null" binding:"required"`
	Image      string `json:"image"`
}

type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CategoryID    uint            `json:"category_id" gorm:"not null;index"`
	SubcategoryID uint            `json:"subcategory_id" gorm:"not null;index"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	ARModelPath   string          `json:"ar_model_path"`
	Image         string          `json:"image"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	ImageURL  string `json:"image_url" gorm:"not null"`
}

const (
	AttributeText   = "text"
	AttributeNumber = "number"
	AttributeSelect = "select"
	AttributeDate   = "date"
)

type ProductAttribute struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"size:255;not null;index" binding:"required"`
	Type          string         `json:"type" gorm:"size:16;not null" binding:"required,oneof=text number select date"`
	CategoryID    *uint          `json:"category_id" gorm:"index"`
	SubcategoryID *uint          `json:"subcategory_id" gorm:"index"`
	Options       datatypes.JSON `json:"options,omitempty"`
}

// ProductAttributeValue holds one (product, attribute) pair. Uniqueness of the
// pair is expected but not enforced by the schema.
type ProductAttributeValue struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProductID   uint   `json:"product_id" gorm:"not null;index"`
	AttributeID uint   `json:"attribute_id" gorm:"not null;index"`
	Value       string `json:"value" gorm:"not null"`
}

// ProductSummary is the subset of product fields joined into cart and order views.
type ProductSummary struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	StockQuantity int             `json:"stock_quantity"`
}

func (p Product) Summary() ProductSummary {
	return ProductSummary{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Image:         p.Image,
		StockQuantity: p.StockQuantity,
	}
}

type AttributeEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductDetails is the read model returned by catalog queries.
type ProductDetails struct {
	ID            uint             `json:"id"`
	CategoryID    uint             `json:"category_id"`
	SubcategoryID uint             `json:"subcategory_id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	StockQuantity int              `json:"stock_quantity"`
	Image         string           `json:"image"`
	ARModelPath   string           `json:"ar_model_path"`
	Attributes    []AttributeEntry `json:"attributes,omitempty"`
	Images        []string         `json:"images,omitempty"`
}
