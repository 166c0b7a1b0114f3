package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addressData struct {
	Address string `json:"address" binding:"required"`
}

type phoneData struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *Handler) GetProfile(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := h.Users.Get(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateAddress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data addressData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	user, err := h.Users.UpdateAddress(ctx.Request.Context(), claims.UserID, data.Address)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Address updated", "user": user})
}

func (h *Handler) UpdatePhone(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data phoneData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	user, err := h.Users.UpdatePhone(ctx.Request.Context(), claims.UserID, data.Phone)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Phone number updated", "user": user})
}
