package controllers

import (
	"net/http"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) AddToCart(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data models.AddToCartData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	item, err := h.Cart.Add(ctx.Request.Context(), claims.UserID, data)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":  "Product added to cart",
		"cartItem": item,
	})
}

// GetCart lets users read their own cart and admins read any cart.
func (h *Handler) GetCart(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	userID, err := idParam(ctx, "userId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	if userID != claims.UserID && !claims.IsAdmin() {
		respondWithError(ctx, utils.Forbidden("you can only view your own cart"))
		return
	}

	items, err := h.Cart.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

func (h *Handler) RemoveFromCart(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	itemID, err := idParam(ctx, "itemId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if err := h.Cart.Remove(ctx.Request.Context(), claims.UserID, itemID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product removed from cart"})
}

func (h *Handler) ClearCart(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	if _, err := h.Cart.Clear(ctx.Request.Context(), claims.UserID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

func (h *Handler) UpdateCartItem(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	itemID, err := idParam(ctx, "itemId")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.CartQuantityData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	item, err := h.Cart.UpdateQuantity(ctx.Request.Context(), claims.UserID, itemID, data.Quantity)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message":  "Cart item quantity updated",
		"cartItem": item,
	})
}
