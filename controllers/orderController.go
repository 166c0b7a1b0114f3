package controllers

import (
	"net/http"

	"github.com/Kariqs/mebel-api/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateOrder(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	var data models.CreateOrderData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	order, err := h.Orders.PlaceOrder(ctx.Request.Context(), claims.UserID, data)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *Handler) GetMyOrders(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	orders, err := h.Orders.MyOrders(ctx.Request.Context(), claims.UserID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "User orders", "orders": orders})
}

func (h *Handler) GetOrderById(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}

	orderID, err := idParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	order, err := h.Orders.OrderDetails(ctx.Request.Context(), claims.UserID, orderID)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"order": order})
}

func (h *Handler) GetOrders(ctx *gin.Context) {
	orders, err := h.Orders.AllOrders(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) UpdateOrderStatus(ctx *gin.Context) {
	orderID, err := idParam(ctx, "id")
	if err != nil {
		respondWithError(ctx, err)
		return
	}

	var data models.OrderStatusData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		respondWithError(ctx, bindError(err))
		return
	}

	order, err := h.Orders.UpdateStatus(ctx.Request.Context(), orderID, data.Status)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// OrdersFeed streams newly placed orders to the admin panel over a websocket.
func (h *Handler) OrdersFeed(ctx *gin.Context) {
	h.Hub.Serve(ctx.Writer, ctx.Request)
}
