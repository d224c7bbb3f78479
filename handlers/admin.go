package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gaf135/ivegan-versao-atual/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminOrderRequest struct {
	UserID          models.ID            `json:"usuario_id" binding:"required"`
	RestaurantID    models.ID            `json:"restaurante_id" binding:"required"`
	DeliveryAddress string               `json:"endereco_entrega" binding:"required"`
	PaymentMethod   string               `json:"metodo_pagamento" binding:"required"`
	PaymentStatus   string               `json:"status_pagamento"`
	CourierID       *models.ID           `json:"entregador_id"`
	Items           []services.ItemInput `json:"itens"`
	Total           *decimal.Decimal     `json:"total"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"observacao"`
}

const msgStatusRequired = "Status é obrigatório"

// AdminGetAllOrders lists every order with customer and restaurant names
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.Orders.List(c.Request.Context(), services.OrderFilter{
		Status:       c.Query("status"),
		UserID:       queryUint(c, "usuario_id"),
		RestaurantID: queryUint(c, "restaurante_id"),
	})
	if err != nil {
		internalError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// AdminGetOrder returns one order joined with everyone involved in it
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Detail(c.Request.Context(), id)
	if err != nil {
		serviceError(c, "get order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminGetOrderItems(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	items, err := h.Orders.Items(c.Request.Context(), id)
	if err != nil {
		serviceError(c, "list order items", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AdminGetOrderHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.Orders.History(c.Request.Context(), id)
	if err != nil {
		serviceError(c, "list order history", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// AdminCreateOrder places an order on behalf of a customer
func (h *Handler) AdminCreateOrder(c *gin.Context) {
	var req AdminOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.Orders.Place(c.Request.Context(), services.PlaceOrderInput{
		UserID:          uint(req.UserID),
		RestaurantID:    uint(req.RestaurantID),
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus))),
		CourierID:       req.CourierID.Ref(),
		Items:           req.Items,
		Total:           req.Total,
		PlacedBy:        middleware.GetUserID(c),
	})
	if err != nil {
		serviceError(c, "admin place order", err)
		return
	}
	orderCreated(c, order)
}

// AdminUpdateOrderStatus writes any known status, regardless of the current one
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		respondError(c, http.StatusBadRequest, msgStatusRequired)
		return
	}

	change, err := h.Orders.UpdateStatus(c.Request.Context(), id, req.Status, middleware.GetUserID(c), strings.TrimSpace(req.Note))
	if err != nil {
		serviceError(c, "update order status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Status do pedido atualizado com sucesso",
		"status":          change.Status,
		"status_anterior": change.PreviousStatus,
	})
}

// AdminAssignCourier sets the courier of an order. An explicit null unassigns.
func (h *Handler) AdminAssignCourier(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	raw, present := body["entregador_id"]
	if !present {
		respondError(c, http.StatusBadRequest, "O campo entregador_id é obrigatório")
		return
	}
	var courierID *models.ID
	if err := json.Unmarshal(raw, &courierID); err != nil || (courierID != nil && *courierID == 0) {
		respondError(c, http.StatusBadRequest, "entregador_id inválido")
		return
	}

	if _, err := h.Orders.AssignCourier(c.Request.Context(), id, courierID.Ref()); err != nil {
		serviceError(c, "assign courier", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entregador atribuído com sucesso"})
}

// AdminUpdatePaymentStatus changes the payment label of an order
func (h *Handler) AdminUpdatePaymentStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		respondError(c, http.StatusBadRequest, msgStatusRequired)
		return
	}

	payment, err := h.Orders.UpdatePaymentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		serviceError(c, "update payment status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Status do pagamento atualizado com sucesso",
		"status":  payment.Status,
	})
}

// AdminGetStats returns the dashboard counters
func (h *Handler) AdminGetStats(c *gin.Context) {
	stats, err := h.Stats.Dashboard(c.Request.Context())
	if err != nil {
		internalError(c, "dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
