package handlers

import (
	"net/http"

	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gaf135/ivegan-versao-atual/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	RestaurantID    models.ID            `json:"restaurante_id" binding:"required"`
	DeliveryAddress string               `json:"endereco_entrega" binding:"required"`
	PaymentMethod   string               `json:"metodo_pagamento" binding:"required"`
	Items           []services.ItemInput `json:"itens"`
	Total           *decimal.Decimal     `json:"total"`
}

type ReviewRequest struct {
	RestaurantID models.ID `json:"restaurante_id" binding:"required"`
	Rating       int       `json:"nota" binding:"required,min=1,max=5"`
	Comment      *string   `json:"comentario"`
}

func orderCreated(c *gin.Context, order *models.Order) {
	total := decimal.Zero
	if order.Payment != nil {
		total = order.Payment.Amount
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Pedido criado com sucesso",
		"pedido_id": order.ID,
		"total":     total,
	})
}

// PlaceOrder creates an order for the caller with its items and payment
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	order, err := h.Orders.Place(c.Request.Context(), services.PlaceOrderInput{
		UserID:          userID,
		RestaurantID:    uint(req.RestaurantID),
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Items:           req.Items,
		Total:           req.Total,
		PlacedBy:        userID,
	})
	if err != nil {
		serviceError(c, "place order", err)
		return
	}
	orderCreated(c, order)
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.ListForUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		internalError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderDetail returns one of the caller's orders with its items
func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.GetForUser(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		serviceError(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetOrderQRCode renders a PNG QR code pointing at the order tracking page.
func (h *Handler) GetOrderQRCode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.Orders.GetForUser(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		serviceError(c, "get order", err)
		return
	}
	png, err := h.QR.PNG(id)
	if err != nil {
		internalError(c, "render qrcode", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// CreateReview lets the caller rate a restaurant
func (h *Handler) CreateReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	review := models.Review{
		UserID:       middleware.GetUserID(c),
		RestaurantID: uint(req.RestaurantID),
		Rating:       req.Rating,
		Comment:      optional(req.Comment),
	}
	if err := h.Reviews.Create(c.Request.Context(), &review); err != nil {
		serviceError(c, "create review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Avaliação criada com sucesso", "id": review.ID})
}
