// Package services holds the storefront's domain logic. Every service takes
// its *gorm.DB explicitly and returns *utils.Error values that the
// controllers turn into responses.
package services

import (
	"errors"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"gorm.io/gorm"
)

const msgDatabaseError = "database error"

// lookupError turns a missing row into a NotFound and anything else into an
// Internal error.
func lookupError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NotFound(notFound)
	}
	return utils.Internal(msgDatabaseError, err)
}

// passThrough keeps service errors intact and wraps raw database errors.
func passThrough(err error) error {
	if err == nil {
		return nil
	}
	var appErr *utils.Error
	var stockErr *utils.InsufficientStockError
	if errors.As(err, &appErr) || errors.As(err, &stockErr) {
		return err
	}
	return utils.Internal(msgDatabaseError, err)
}

func productSummaries(db *gorm.DB, ids []uint) (map[uint]*models.ProductSummary, error) {
	result := make(map[uint]*models.ProductSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		summary := p.Summary()
		result[p.ID] = &summary
	}
	return result, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
