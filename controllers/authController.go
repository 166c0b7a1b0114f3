package controllers

import (
	"net/http"

	"github.com/Kariqs/mebel-api/models"
	"github.com/gin-gonic/gin"
)

const (
	msgUserCreated     = "Registration successful. Check your email to verify your account."
	msgLoginSuccessful = "Login successful"
	msgEmailVerified   = "Email has been verified successfully."
)

func (h *Handler) Register(ctx *gin.Context) {
	var data models.RegisterData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	user, err := h.Auth.Register(ctx.Request.Context(), data)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated, "user": user})
}

func (h *Handler) Login(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	result, err := h.Auth.Login(ctx.Request.Context(), data)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": msgLoginSuccessful,
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := h.Auth.Me(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (h *Handler) VerifyEmail(ctx *gin.Context) {
	if err := h.Auth.VerifyEmail(ctx.Request.Context(), ctx.Param("code")); err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgEmailVerified})
}
