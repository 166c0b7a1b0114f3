package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}
	return &user, nil
}

// Update overwrites only the non-empty fields of data.
func (s *UserService) Update(ctx context.Context, id uint, data models.UserUpdateData) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(data.Name); name != "" {
		updates["name"] = name
	}
	if email := strings.TrimSpace(data.Email); email != "" && email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
			return nil, utils.Internal(msgDatabaseError, err)
		}
		if count > 0 {
			return nil, utils.Conflict(msgUserExists)
		}
		updates["email"] = email
	}
	if data.Role != "" {
		if data.Role != models.RoleUser && data.Role != models.RoleAdmin {
			return nil, utils.Validation("invalid input", utils.FieldError{Field: "role", Message: "role must be user or admin"})
		}
		updates["role"] = data.Role
	}
	if data.Phone != "" {
		updates["phone"] = data.Phone
	}
	if data.Address != "" {
		updates["address"] = data.Address
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, utils.Conflict(msgUserExists)
			}
			return nil, utils.Internal(msgDatabaseError, err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the user and their cart. Orders are kept.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return utils.NotFound(msgUserNotFound)
		}
		return nil
	})
	return passThrough(err)
}

func (s *UserService) UpdateAddress(ctx context.Context, id uint, address string) (*models.User, error) {
	return s.updateProfileField(ctx, id, "address", address)
}

func (s *UserService) UpdatePhone(ctx context.Context, id uint, phone string) (*models.User, error) {
	return s.updateProfileField(ctx, id, "phone", phone)
}

func (s *UserService) updateProfileField(ctx context.Context, id uint, column, value string) (*models.User, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, utils.Validation("invalid input", utils.FieldError{Field: column, Message: column + " is required"})
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return nil, utils.Internal(msgDatabaseError, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, utils.NotFound(msgUserNotFound)
	}
	return s.Get(ctx, id)
}
