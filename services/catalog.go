package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/storage"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaxProductImages = 5

	msgInvalidProduct        = "invalid product data"
	msgCategoriesNotFound    = "no categories found"
	msgSubcategoriesNotFound = "no subcategories found"
	msgCategoryNotFound      = "category not found"
	msgSubcategoryNotFound   = "subcategory not found"
)

// ProductInput carries the product form. Nil fields were not supplied; a nil
// Attributes map leaves attribute values untouched on edit.
type ProductInput struct {
	CategoryID    *uint
	SubcategoryID *uint
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	ARModelPath   *string
	Attributes    map[string]string
}

type CatalogService struct {
	db    *gorm.DB
	store storage.Storage
}

func NewCatalogService(db *gorm.DB, store storage.Storage) *CatalogService {
	return &CatalogService{db: db, store: store}
}

// ParseAttributes decodes the attributes form field, a JSON object whose keys
// are attribute ids or names. Values are kept as their string form. A blank
// field yields a nil map, which leaves existing values untouched.
func ParseAttributes(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, utils.Validation("attributes must be a JSON object",
			utils.FieldError{Field: "attributes", Message: err.Error()})
	}

	attrs := make(map[string]string, len(values))
	for key, value := range values {
		switch v := value.(type) {
		case nil:
			attrs[key] = ""
		case string:
			attrs[key] = v
		case json.Number, bool:
			attrs[key] = fmt.Sprint(v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, utils.Validation("attributes must be a JSON object")
			}
			attrs[key] = string(encoded)
		}
	}
	return attrs, nil
}

// ParseImageList decodes the deletedImages form field, a JSON array of URLs.
func ParseImageList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, utils.Validation("deletedImages must be a JSON array of image URLs",
			utils.FieldError{Field: "deletedImages", Message: err.Error()})
	}
	return urls, nil
}

func (in ProductInput) validate(create bool) error {
	var fields []utils.FieldError
	check := func(ok bool, field, message string) {
		if !ok {
			fields = append(fields, utils.FieldError{Field: field, Message: message})
		}
	}

	if create || in.CategoryID != nil {
		check(in.CategoryID != nil && *in.CategoryID >= 1, "category_id", "category id must be an integer greater than 0")
	}
	if create || in.SubcategoryID != nil {
		check(in.SubcategoryID != nil && *in.SubcategoryID >= 1, "subcategory_id", "subcategory id must be an integer greater than 0")
	}
	if create || in.Name != nil {
		check(in.Name != nil && strings.TrimSpace(*in.Name) != "", "name", "name is required")
	}
	if create || in.Description != nil {
		check(in.Description != nil && strings.TrimSpace(*in.Description) != "", "description", "description is required")
	}
	if create || in.Price != nil {
		check(in.Price != nil && in.Price.IsPositive(), "price", "price must be greater than 0")
	}
	if create || in.StockQuantity != nil {
		check(in.StockQuantity != nil && *in.StockQuantity >= 0, "stock_quantity", "stock quantity must be 0 or more")
	}

	if len(fields) > 0 {
		return utils.Validation(msgInvalidProduct, fields...)
	}
	return nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.ProductDetails, error) {
	db := s.db.WithContext(ctx)
	var products []models.Product
	if err := db.Order("id").Find(&products).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	details, err := productDetails(db, products, false, true)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return details, nil
}

func (s *CatalogService) ListProductsBySubcategory(ctx context.Context, subcategoryID uint) ([]models.ProductDetails, error) {
	db := s.db.WithContext(ctx)
	var products []models.Product
	if err := db.Where("subcategory_id = ?", subcategoryID).Order("id").Find(&products).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	details, err := productDetails(db, products, true, false)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return details, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.ProductDetails, error) {
	db := s.db.WithContext(ctx)
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, lookupError(err, msgProductNotFound)
	}
	details, err := productDetails(db, []models.Product{product}, true, true)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &details[0], nil
}

// productDetails loads attributes and images for a page of products with one
// query per side table.
func productDetails(db *gorm.DB, products []models.Product, withAttributes, withImages bool) ([]models.ProductDetails, error) {
	details := make([]models.ProductDetails, 0, len(products))
	if len(products) == 0 {
		return details, nil
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	attrsByProduct := map[uint][]models.AttributeEntry{}
	if withAttributes {
		var values []models.ProductAttributeValue
		if err := db.Where("product_id IN ?", ids).Order("id").Find(&values).Error; err != nil {
			return nil, err
		}
		attrIDs := make([]uint, 0, len(values))
		for _, v := range values {
			attrIDs = append(attrIDs, v.AttributeID)
		}
		names := map[uint]string{}
		if len(attrIDs) > 0 {
			var attrs []models.ProductAttribute
			if err := db.Select("id", "name").Where("id IN ?", uniqueIDs(attrIDs)).Find(&attrs).Error; err != nil {
				return nil, err
			}
			for _, a := range attrs {
				names[a.ID] = a.Name
			}
		}
		for _, v := range values {
			name, ok := names[v.AttributeID]
			if !ok {
				continue
			}
			attrsByProduct[v.ProductID] = append(attrsByProduct[v.ProductID], models.AttributeEntry{Name: name, Value: v.Value})
		}
	}

	imagesByProduct := map[uint][]string{}
	if withImages {
		var images []models.ProductImage
		if err := db.Where("product_id IN ?", ids).Order("id").Find(&images).Error; err != nil {
			return nil, err
		}
		for _, img := range images {
			imagesByProduct[img.ProductID] = append(imagesByProduct[img.ProductID], img.ImageURL)
		}
	}

	for _, p := range products {
		d := models.ProductDetails{
			ID:            p.ID,
			CategoryID:    p.CategoryID,
			SubcategoryID: p.SubcategoryID,
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			Image:         p.Image,
			ARModelPath:   p.ARModelPath,
		}
		if withAttributes {
			d.Attributes = attrsByProduct[p.ID]
		}
		if withImages {
			d.Images = imagesByProduct[p.ID]
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	if len(categories) == 0 {
		return nil, utils.NotFound(msgCategoriesNotFound)
	}
	return categories, nil
}

func (s *CatalogService) ListSubcategories(ctx context.Context) ([]models.Subcategory, error) {
	return s.findSubcategories(ctx, s.db.WithContext(ctx))
}

func (s *CatalogService) ListSubcategoriesByCategory(ctx context.Context, categoryID uint) ([]models.Subcategory, error) {
	return s.findSubcategories(ctx, s.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

func (s *CatalogService) findSubcategories(_ context.Context, query *gorm.DB) ([]models.Subcategory, error) {
	var subcategories []models.Subcategory
	if err := query.Order("id").Find(&subcategories).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	if len(subcategories) == 0 {
		return nil, utils.NotFound(msgSubcategoriesNotFound)
	}
	return subcategories, nil
}

func (s *CatalogService) ListAttributes(ctx context.Context) ([]models.ProductAttribute, error) {
	attributes := []models.ProductAttribute{}
	if err := s.db.WithContext(ctx).Order("id").Find(&attributes).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return attributes, nil
}

func (s *CatalogService) ListAttributesBySubcategory(ctx context.Context, subcategoryID uint) ([]models.ProductAttribute, error) {
	attributes := []models.ProductAttribute{}
	if err := s.db.WithContext(ctx).Where("subcategory_id = ?", subcategoryID).Order("id").Find(&attributes).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return attributes, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	category.ID = 0
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, utils.Validation("category name is required", utils.FieldError{Field: "name", Message: "must not be empty"})
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &category, nil
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, subcategory models.Subcategory) (*models.Subcategory, error) {
	subcategory.ID = 0
	subcategory.Name = strings.TrimSpace(subcategory.Name)
	if subcategory.Name == "" {
		return nil, utils.Validation("subcategory name is required", utils.FieldError{Field: "name", Message: "must not be empty"})
	}

	db := s.db.WithContext(ctx)
	var category models.Category
	if err := db.Select("id").First(&category, subcategory.CategoryID).Error; err != nil {
		return nil, lookupError(err, msgCategoryNotFound)
	}
	if err := db.Create(&subcategory).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &subcategory, nil
}

func (s *CatalogService) CreateAttribute(ctx context.Context, attribute models.ProductAttribute) (*models.ProductAttribute, error) {
	attribute.ID = 0
	attribute.Name = strings.TrimSpace(attribute.Name)
	if attribute.Name == "" {
		return nil, utils.Validation("attribute name is required", utils.FieldError{Field: "name", Message: "must not be empty"})
	}

	switch attribute.Type {
	case models.AttributeText, models.AttributeNumber, models.AttributeDate:
	case models.AttributeSelect:
		var options []string
		if err := json.Unmarshal(attribute.Options, &options); err != nil || len(options) == 0 {
			return nil, utils.Validation("select attributes need a non-empty options array",
				utils.FieldError{Field: "options", Message: "must be a JSON array of strings"})
		}
	default:
		return nil, utils.Validation("invalid attribute type",
			utils.FieldError{Field: "type", Message: "must be one of text, number, select, date"})
	}

	if err := s.db.WithContext(ctx).Create(&attribute).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &attribute, nil
}

// resolveAttributes maps attribute keys (id or name) to value rows for
// productID. Keys that match no attribute are logged and skipped.
func resolveAttributes(tx *gorm.DB, productID uint, attrs map[string]string) ([]models.ProductAttributeValue, error) {
	if len(attrs) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var all []models.ProductAttribute
	if err := tx.Select("id", "name").Order("id").Find(&all).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]uint, len(all))
	byName := make(map[string]uint, len(all))
	for _, a := range all {
		byID[a.ID] = a.ID
		if _, ok := byName[a.Name]; !ok {
			byName[a.Name] = a.ID
		}
	}

	values := make([]models.ProductAttributeValue, 0, len(keys))
	for _, key := range keys {
		attrID, ok := byName[key]
		if !ok {
			if n, err := strconv.ParseUint(key, 10, 64); err == nil {
				attrID, ok = byID[uint(n)]
			}
		}
		if !ok {
			log.Printf("Product %d: attribute %q not found, skipping", productID, key)
			continue
		}
		values = append(values, models.ProductAttributeValue{ProductID: productID, AttributeID: attrID, Value: attrs[key]})
	}
	return values, nil
}

func (s *CatalogService) checkCategories(db *gorm.DB, categoryID, subcategoryID *uint) error {
	if categoryID != nil {
		var c models.Category
		if err := db.Select("id").First(&c, *categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Validation(msgCategoryNotFound, utils.FieldError{Field: "category_id", Message: "does not exist"})
			}
			return err
		}
	}
	if subcategoryID != nil {
		var sc models.Subcategory
		if err := db.Select("id").First(&sc, *subcategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.Validation(msgSubcategoryNotFound, utils.FieldError{Field: "subcategory_id", Message: "does not exist"})
			}
			return err
		}
	}
	return nil
}

// CreateProduct stores the images, then writes the product, its images and
// attribute values in one transaction. Stored files are removed again when
// the transaction fails.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, images []storage.Image) (*models.ProductDetails, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, utils.Validation("please upload at least one product image", utils.FieldError{Field: "images", Message: "at least one image is required"})
	}
	if len(images) > MaxProductImages {
		return nil, utils.Validation(fmt.Sprintf("at most %d images are allowed", MaxProductImages), utils.FieldError{Field: "images", Message: "too many images"})
	}

	db := s.db.WithContext(ctx)
	if err := s.checkCategories(db, in.CategoryID, in.SubcategoryID); err != nil {
		return nil, passThrough(err)
	}

	urls, err := storage.SaveAll(ctx, s.store, images)
	if err != nil {
		return nil, utils.Internal("failed to store images", err)
	}

	product := models.Product{
		CategoryID:    *in.CategoryID,
		SubcategoryID: *in.SubcategoryID,
		Name:          strings.TrimSpace(*in.Name),
		Description:   strings.TrimSpace(*in.Description),
		Price:         in.Price.Round(2),
		StockQuantity: *in.StockQuantity,
		Image:         urls[0],
	}
	if in.ARModelPath != nil {
		product.ARModelPath = *in.ARModelPath
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		rows := make([]models.ProductImage, 0, len(urls))
		for _, url := range urls {
			rows = append(rows, models.ProductImage{ProductID: product.ID, ImageURL: url})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		values, err := resolveAttributes(tx, product.ID, in.Attributes)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			return tx.Create(&values).Error
		}
		return nil
	})
	if err != nil {
		storage.DeleteAll(context.WithoutCancel(ctx), s.store, urls)
		return nil, passThrough(err)
	}

	return s.GetProduct(ctx, product.ID)
}

// EditProduct applies a partial update. Removed images are deleted from
// storage after commit; new images are deleted again when the update fails.
func (s *CatalogService) EditProduct(ctx context.Context, id uint, in ProductInput, deletedImages []string, newImages []storage.Image) (*models.ProductDetails, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	if len(newImages) > MaxProductImages {
		return nil, utils.Validation(fmt.Sprintf("at most %d images are allowed", MaxProductImages), utils.FieldError{Field: "newImages", Message: "too many images"})
	}

	db := s.db.WithContext(ctx)
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return nil, lookupError(err, msgProductNotFound)
	}
	if err := s.checkCategories(db, in.CategoryID, in.SubcategoryID); err != nil {
		return nil, passThrough(err)
	}

	newURLs, err := storage.SaveAll(ctx, s.store, newImages)
	if err != nil {
		return nil, utils.Internal("failed to store images", err)
	}

	var removed []string
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		if in.CategoryID != nil {
			updates["category_id"] = *in.CategoryID
		}
		if in.SubcategoryID != nil {
			updates["subcategory_id"] = *in.SubcategoryID
		}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			updates["description"] = strings.TrimSpace(*in.Description)
		}
		if in.Price != nil {
			updates["price"] = in.Price.Round(2)
		}
		if in.StockQuantity != nil {
			updates["stock_quantity"] = *in.StockQuantity
		}
		if in.ARModelPath != nil {
			updates["ar_model_path"] = *in.ARModelPath
		}

		if len(deletedImages) > 0 {
			var doomed []models.ProductImage
			if err := tx.Where("product_id = ? AND image_url IN ?", id, deletedImages).Find(&doomed).Error; err != nil {
				return err
			}
			ids := make([]uint, 0, len(doomed))
			for _, img := range doomed {
				ids = append(ids, img.ID)
				removed = append(removed, img.ImageURL)
			}
			if len(ids) > 0 {
				if err := tx.Delete(&models.ProductImage{}, ids).Error; err != nil {
					return err
				}
			}
		}

		if len(newURLs) > 0 {
			rows := make([]models.ProductImage, 0, len(newURLs))
			for _, url := range newURLs {
				rows = append(rows, models.ProductImage{ProductID: id, ImageURL: url})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if product.Image == "" || contains(removed, product.Image) {
			var first models.ProductImage
			err := tx.Where("product_id = ?", id).Order("id").First(&first).Error
			switch {
			case err == nil:
				updates["image"] = first.ImageURL
			case errors.Is(err, gorm.ErrRecordNotFound):
				updates["image"] = ""
			default:
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.Attributes != nil {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductAttributeValue{}).Error; err != nil {
				return err
			}
			values, err := resolveAttributes(tx, id, in.Attributes)
			if err != nil {
				return err
			}
			if len(values) > 0 {
				if err := tx.Create(&values).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		storage.DeleteAll(context.WithoutCancel(ctx), s.store, newURLs)
		return nil, passThrough(err)
	}

	storage.DeleteAll(ctx, s.store, removed)
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the product with its images, attribute values and
// cart rows. Order items keep referring to it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		return lookupError(err, msgProductNotFound)
	}

	var files []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var images []models.ProductImage
		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		for _, img := range images {
			files = append(files, img.ImageURL)
		}
		if product.Image != "" && !contains(files, product.Image) {
			files = append(files, product.Image)
		}

		for _, model := range []any{&models.ProductImage{}, &models.ProductAttributeValue{}, &models.CartItem{}} {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return passThrough(err)
	}

	storage.DeleteAll(ctx, s.store, files)
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// ExportProducts renders the catalog as an XLSX workbook.
func (s *CatalogService) ExportProducts(ctx context.Context) ([]byte, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}

	var buf bytes.Buffer
	if err := writeProductsXLSX(&buf, products); err != nil {
		return nil, utils.Internal("failed to build export", err)
	}
	return buf.Bytes(), nil
}
