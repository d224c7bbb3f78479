package handlers

import (
	"errors"
	"net/http"

	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gaf135/ivegan-versao-atual/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DishRow is a dish joined with its category and restaurant names.
type DishRow struct {
	ID             uint            `json:"id"`
	RestaurantID   uint            `json:"restaurante_id"`
	RestaurantName string          `json:"restaurante_nome"`
	CategoryID     *uint           `json:"categoria_id"`
	CategoryName   *string         `json:"categoria_nome"`
	Name           string          `json:"nome"`
	Description    *string         `json:"descricao"`
	Price          decimal.Decimal `json:"preco"`
	Type           string          `json:"tipo"`
	ImageURL       *string         `json:"url_imagem"`
}

func (h *Handler) dishQuery(c *gin.Context) *gorm.DB {
	return h.DB.WithContext(c.Request.Context()).
		Table("dishes AS d").
		Select("d.id, d.restaurant_id, r.public_name AS restaurant_name, d.category_id, " +
			"cat.name AS category_name, d.name, d.description, d.price, d.type, d.image_url").
		Joins("JOIN restaurants r ON r.id = d.restaurant_id").
		Joins("LEFT JOIN categories cat ON cat.id = d.category_id")
}

// ListRestaurants returns every restaurant without legal data (public)
func (h *Handler) ListRestaurants(c *gin.Context) {
	query := h.DB.WithContext(c.Request.Context()).Order("public_name")

	if category := c.Query("categoria"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("busca"); search != "" {
		query = query.Where("LOWER(public_name) LIKE LOWER(?)", "%"+search+"%")
	}

	var restaurants []models.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		internalError(c, "list restaurants", err)
		return
	}
	out := make([]models.PublicRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, r.Public())
	}
	c.JSON(http.StatusOK, out)
}

// GetRestaurant returns a single restaurant (public)
func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, ok := h.findRestaurant(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, restaurant.Public())
}

// ListRestaurantDishes returns the menu of a restaurant (public)
func (h *Handler) ListRestaurantDishes(c *gin.Context) {
	restaurant, ok := h.findRestaurant(c)
	if !ok {
		return
	}

	query := h.dishQuery(c).Where("d.restaurant_id = ?", restaurant.ID)
	if dishType := c.Query("tipo"); dishType != "" {
		query = query.Where("d.type = ?", dishType)
	}
	if category := queryUint(c, "categoria_id"); category != 0 {
		query = query.Where("d.category_id = ?", category)
	}

	rows := []DishRow{}
	if err := query.Order("d.name").Scan(&rows).Error; err != nil {
		internalError(c, "list dishes", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListMarketProducts returns the dishes sold by market-category restaurants (public)
func (h *Handler) ListMarketProducts(c *gin.Context) {
	query := h.dishQuery(c).Where("r.category = ?", models.CategoryMarket)
	if search := c.Query("busca"); search != "" {
		query = query.Where("LOWER(d.name) LIKE LOWER(?)", "%"+search+"%")
	}

	rows := []DishRow{}
	if err := query.Order("d.name").Scan(&rows).Error; err != nil {
		internalError(c, "list market products", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetOrderStatusInfo returns the order status catalogue for clients and docs
func (h *Handler) GetOrderStatusInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           statemachine.Describe(),
		"status_pagamento": statemachine.PaymentStatuses(),
		"descricao":        "Status de pedido aceitos pelo back office; qualquer status conhecido pode ser gravado",
	})
}

func (h *Handler) findRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	var restaurant models.Restaurant
	err := h.DB.WithContext(c.Request.Context()).First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, "Restaurante não encontrado")
		return nil, false
	}
	if err != nil {
		internalError(c, "get restaurant", err)
		return nil, false
	}
	return &restaurant, true
}
