package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxUploadBodySize = 10 << 20

type uploadData struct {
	Images []string `json:"images"`
}

// UploadImages stores base64 encoded images sent as JSON.
func (h *Handler) UploadImages(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadBodySize)

	var data uploadData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	files, err := h.Uploads.UploadBase64(ctx.Request.Context(), data.Images)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Images uploaded successfully",
		"files":   files,
	})
}
