package services

import (
	"context"
	"errors"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"gorm.io/gorm"
)

const (
	msgProductNotFound = "product not found"
	msgCartItemMissing = "cart item not found"
	msgCartEmpty       = "cart is empty"
	msgAlreadyInCart   = "product is already in the cart"
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

func (s *CartService) Add(ctx context.Context, userID uint, data models.AddToCartData) (*models.CartItem, error) {
	if data.Quantity == 0 {
		data.Quantity = 1
	}
	if data.Quantity < 0 {
		return nil, utils.Validation("quantity must be at least 1")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}
	var product models.Product
	if err := db.Select("id").First(&product, data.ProductID).Error; err != nil {
		return nil, lookupError(err, msgProductNotFound)
	}

	var count int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", userID, data.ProductID).Count(&count).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	if count > 0 {
		return nil, utils.Conflict(msgAlreadyInCart)
	}

	item := models.CartItem{UserID: userID, ProductID: data.ProductID, Quantity: data.Quantity}
	if err := db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict(msgAlreadyInCart)
		}
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &item, nil
}

func (s *CartService) Get(ctx context.Context, userID uint) ([]models.CartItemView, error) {
	db := s.db.WithContext(ctx)

	var items []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := productSummaries(db, uniqueIDs(ids))
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}

	views := make([]models.CartItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.CartItemView{CartItem: item, Product: products[item.ProductID]})
	}
	return views, nil
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return utils.Internal(msgDatabaseError, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(msgCartItemMissing)
	}
	return nil
}

// Clear empties the cart and reports NotFound when it was already empty.
func (s *CartService) Clear(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, utils.Internal(msgDatabaseError, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, utils.NotFound(msgCartEmpty)
	}
	return result.RowsAffected, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, utils.Validation("quantity must be at least 1", utils.FieldError{Field: "quantity", Message: "must be greater than 0"})
	}

	db := s.db.WithContext(ctx)
	var item models.CartItem
	if err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		return nil, lookupError(err, msgCartItemMissing)
	}

	item.Quantity = quantity
	if err := db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &item, nil
}
