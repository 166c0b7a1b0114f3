package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/mebel-api/services"
	"github.com/Kariqs/mebel-api/storage"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Room for five images at the size limit plus the text fields.
const maxProductFormSize = services.MaxProductImages*storage.MaxImageSize + 1<<20

func (h *Handler) GetProducts(ctx *gin.Context) {
	products, err := h.Catalog.ListProducts(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

func (h *Handler) GetProductsBySubcategory(ctx *gin.Context) {
	subcategoryID, err := idParam(ctx, "subcategoryId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	products, err := h.Catalog.ListProductsBySubcategory(ctx.Request.Context(), subcategoryID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	productID, err := idParam(ctx, "productId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	product, err := h.Catalog.GetProduct(ctx.Request.Context(), productID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (h *Handler) GetAttributes(ctx *gin.Context) {
	attributes, err := h.Catalog.ListAttributes(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attributes)
}

func (h *Handler) GetAttributesBySubcategory(ctx *gin.Context) {
	subcategoryID, err := idParam(ctx, "subcategoryId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	attributes, err := h.Catalog.ListAttributesBySubcategory(ctx.Request.Context(), subcategoryID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attributes)
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxProductFormSize)

	input, err := parseProductForm(ctx, true)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	images, err := formImages(ctx, "images")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	product, err := h.Catalog.CreateProduct(ctx.Request.Context(), input, images)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully",
		"product": product,
	})
}

func (h *Handler) EditProduct(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxProductFormSize)

	productID, err := idParam(ctx, "productId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	input, err := parseProductForm(ctx, false)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	deleted, err := services.ParseImageList(ctx.PostForm("deletedImages"))
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	images, err := formImages(ctx, "newImages")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	product, err := h.Catalog.EditProduct(ctx.Request.Context(), productID, input, deleted, images)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *Handler) DeleteProduct(ctx *gin.Context) {
	productID, err := idParam(ctx, "productId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if err := h.Catalog.DeleteProduct(ctx.Request.Context(), productID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *Handler) ExportProducts(ctx *gin.Context) {
	data, err := h.Catalog.ExportProducts(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Header("Expires", "0")
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// parseProductForm reads the product fields of a multipart or urlencoded form.
// On create every field is read; on edit only the fields present are.
func parseProductForm(ctx *gin.Context, create bool) (services.ProductInput, error) {
	var in services.ProductInput
	var fields []utils.FieldError
	invalid := func(field, message string) {
		fields = append(fields, utils.FieldError{Field: field, Message: message})
	}

	parseID := func(field string) *uint {
		raw, ok := ctx.GetPostForm(field)
		if !ok && !create {
			return nil
		}
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			invalid(field, "must be an integer greater than 0")
			return nil
		}
		id := uint(n)
		return &id
	}
	text := func(field string) *string {
		raw, ok := ctx.GetPostForm(field)
		if !ok && !create {
			return nil
		}
		return &raw
	}

	in.CategoryID = parseID("category_id")
	in.SubcategoryID = parseID("subcategory_id")
	in.Name = text("name")
	in.Description = text("description")

	if raw, ok := ctx.GetPostForm("price"); ok || create {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			invalid("price", "must be a number greater than 0")
		} else {
			in.Price = &price
		}
	}
	if raw, ok := ctx.GetPostForm("stock_quantity"); ok || create {
		stock, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			invalid("stock_quantity", "must be an integer of 0 or more")
		} else {
			in.StockQuantity = &stock
		}
	}
	if raw, ok := ctx.GetPostForm("ar_model_path"); ok {
		in.ARModelPath = &raw
	}

	if raw, ok := ctx.GetPostForm("attributes"); ok {
		attrs, err := services.ParseAttributes(raw)
		if err != nil {
			return in, err
		}
		in.Attributes = attrs
	}

	if len(fields) > 0 {
		return in, utils.Validation("invalid product data", fields...)
	}
	return in, nil
}

// formImages validates every file uploaded under field.
func formImages(ctx *gin.Context, field string) ([]storage.Image, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, utils.Validation("request body is too large")
		}
		return nil, utils.Validation("invalid multipart form", utils.FieldError{Field: field, Message: err.Error()})
	}

	var headers []*multipart.FileHeader
	if form != nil {
		headers = form.File[field]
	}

	images := make([]storage.Image, 0, len(headers))
	for _, fh := range headers {
		img, err := storage.FromFileHeader(field, fh)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrEmptyFile) {
				return nil, utils.Validation(err.Error(), utils.FieldError{Field: field, Message: fh.Filename + ": " + err.Error()})
			}
			return nil, utils.Internal("failed to read upload", err)
		}
		images = append(images, img)
	}
	return images, nil
}
