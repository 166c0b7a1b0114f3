package controllers

import (
	"net/http"

	"github.com/Kariqs/mebel-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(ctx *gin.Context) {
	users, err := h.Users.List(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	user, err := h.Users.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.UserUpdateData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	user, err := h.Users.Update(ctx.Request.Context(), userID, data)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "User updated", "user": user})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	userID, err := idParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	if err := h.Users.Delete(ctx.Request.Context(), userID); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "User deleted"})
}
