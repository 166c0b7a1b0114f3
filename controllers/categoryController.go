package controllers

import (
	"net/http"

	"github.com/Kariqs/mebel-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCategories(ctx *gin.Context) {
	categories, err := h.Catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

func (h *Handler) GetSubcategories(ctx *gin.Context) {
	subcategories, err := h.Catalog.ListSubcategories(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subcategories)
}

func (h *Handler) GetSubcategoriesByCategory(ctx *gin.Context) {
	categoryID, err := idParam(ctx, "categoryId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	subcategories, err := h.Catalog.ListSubcategoriesByCategory(ctx.Request.Context(), categoryID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subcategories)
}

func (h *Handler) CreateCategory(ctx *gin.Context) {
	var category models.Category
	if err := ctx.ShouldBindJSON(&category); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	created, err := h.Catalog.CreateCategory(ctx.Request.Context(), category)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *Handler) CreateSubcategory(ctx *gin.Context) {
	var subcategory models.Subcategory
	if err := ctx.ShouldBindJSON(&subcategory); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	created, err := h.Catalog.CreateSubcategory(ctx.Request.Context(), subcategory)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (h *Handler) CreateAttribute(ctx *gin.Context) {
	var attribute models.ProductAttribute
	if err := ctx.ShouldBindJSON(&attribute); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	created, err := h.Catalog.CreateAttribute(ctx.Request.Context(), attribute)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}
