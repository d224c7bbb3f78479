package handlers

import (
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RestaurantRequest struct {
	PublicName string  `json:"nome_publico"`
	LegalName  string  `json:"nome_legal"`
	TaxID      string  `json:"cnpj"`
	Phone      *string `json:"telefone"`
	Address    *string `json:"endereco"`
	Category   string  `json:"categoria"`
}

type DishRequest struct {
	RestaurantID models.ID        `json:"restaurante_id"`
	CategoryID   *models.ID       `json:"categoria_id"`
	Name         string           `json:"nome"`
	Description  *string          `json:"descricao"`
	Price        *decimal.Decimal `json:"preco"`
	Type         string           `json:"tipo"`
	ImageURL     *string          `json:"url_imagem"`
}

var restaurantMessages = entityMessages{
	NotFound:  "Restaurante não encontrado",
	Duplicate: "CNPJ já cadastrado",
	Created:   "Restaurante criado com sucesso",
	Updated:   "Restaurante atualizado com sucesso",
	Deleted:   "Restaurante excluído com sucesso",
	InUse:     "Restaurante possui pedidos e não pode ser excluído",
}

var dishMessages = entityMessages{
	NotFound: "Prato não encontrado",
	Created:  "Prato criado com sucesso",
	Updated:  "Prato atualizado com sucesso",
	Deleted:  "Prato excluído com sucesso",
	InUse:    "Prato faz parte de pedidos e não pode ser excluído",
}

var restaurantSchema = patchSchema{
	"nome_publico": {Column: "public_name", Kind: kindString},
	"nome_legal":   {Column: "legal_name", Kind: kindString},
	"cnpj":         {Column: "tax_id", Kind: kindString},
	"telefone":     {Column: "phone", Kind: kindString, Nullable: true},
	"endereco":     {Column: "address", Kind: kindString, Nullable: true},
	"categoria": {Column: "category", Kind: kindString,
		Check: checkOneOf(models.CategoryRestaurant, models.CategoryMarket)},
}

var dishSchema = patchSchema{
	"restaurante_id": {Column: "restaurant_id", Kind: kindUint},
	"categoria_id":   {Column: "category_id", Kind: kindUint, Nullable: true},
	"nome":           {Column: "name", Kind: kindString},
	"descricao":      {Column: "description", Kind: kindString, Nullable: true},
	"preco":          {Column: "price", Kind: kindDecimal},
	"tipo":           {Column: "type", Kind: kindString},
	"url_imagem":     {Column: "image_url", Kind: kindString, Nullable: true},
}

// model validates the request and builds the row to insert.
func (r *RestaurantRequest) model() (*models.Restaurant, string) {
	restaurant := &models.Restaurant{
		PublicName: strings.TrimSpace(r.PublicName),
		LegalName:  strings.TrimSpace(r.LegalName),
		TaxID:      strings.TrimSpace(r.TaxID),
		Phone:      optional(r.Phone),
		Address:    optional(r.Address),
		Category:   strings.ToLower(strings.TrimSpace(r.Category)),
	}
	if restaurant.PublicName == "" || restaurant.LegalName == "" || restaurant.TaxID == "" {
		return nil, "Nome público, nome legal e CNPJ são obrigatórios"
	}
	switch restaurant.Category {
	case "":
		restaurant.Category = models.CategoryRestaurant
	case models.CategoryRestaurant, models.CategoryMarket:
	default:
		return nil, "Categoria inválida. Valores aceitos: restaurante, mercado"
	}
	return restaurant, ""
}

func (r *DishRequest) model() (*models.Dish, string) {
	dish := &models.Dish{
		RestaurantID: uint(r.RestaurantID),
		CategoryID:   r.CategoryID.Ref(),
		Name:         strings.TrimSpace(r.Name),
		Description:  optional(r.Description),
		Type:         strings.TrimSpace(r.Type),
		ImageURL:     optional(r.ImageURL),
	}
	if dish.RestaurantID == 0 || dish.Name == "" || r.Price == nil || dish.Type == "" {
		return nil, "Restaurante, nome, preço e tipo são obrigatórios"
	}
	if r.Price.IsNegative() {
		return nil, "O preço não pode ser negativo"
	}
	dish.Price = *r.Price
	return dish, ""
}

func (h *Handler) createRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	restaurant, problem := req.model()
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}
	h.createEntity(c, restaurant, func() uint { return restaurant.ID }, restaurantMessages)
}

// RegisterRestaurant is the public self-service restaurant signup
func (h *Handler) RegisterRestaurant(c *gin.Context) {
	h.createRestaurant(c)
}

// AdminCreateRestaurant creates a restaurant from the back office
func (h *Handler) AdminCreateRestaurant(c *gin.Context) {
	h.createRestaurant(c)
}

// AdminGetAllRestaurants lists restaurants including legal data
func (h *Handler) AdminGetAllRestaurants(c *gin.Context) {
	restaurants := []models.Restaurant{}
	if err := h.DB.WithContext(c.Request.Context()).Order("public_name").Find(&restaurants).Error; err != nil {
		internalError(c, "list restaurants", err)
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (h *Handler) AdminGetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if h.getEntity(c, &restaurant, restaurantMessages) {
		c.JSON(http.StatusOK, restaurant)
	}
}

func (h *Handler) AdminUpdateRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, ok := bindPatch(c, restaurantSchema)
	if !ok {
		return
	}
	h.updateEntity(c, &models.Restaurant{}, id, updates, restaurantMessages)
}

// AdminDeleteRestaurant removes a restaurant with its menu and reviews.
// Restaurants with orders are kept.
func (h *Handler) AdminDeleteRestaurant(c *gin.Context) {
	h.deleteEntity(c, &models.Restaurant{}, restaurantMessages)
}

// AdminGetAllDishes lists dishes with restaurant and category names
func (h *Handler) AdminGetAllDishes(c *gin.Context) {
	query := h.dishQuery(c)
	if restaurantID := queryUint(c, "restaurante_id"); restaurantID != 0 {
		query = query.Where("d.restaurant_id = ?", restaurantID)
	}
	rows := []DishRow{}
	if err := query.Order("d.id DESC").Scan(&rows).Error; err != nil {
		internalError(c, "list dishes", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AdminGetDish(c *gin.Context) {
	var dish models.Dish
	if h.getEntity(c, &dish, dishMessages) {
		c.JSON(http.StatusOK, dish)
	}
}

func (h *Handler) AdminCreateDish(c *gin.Context) {
	var req DishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	dish, problem := req.model()
	if problem != "" {
		respondError(c, http.StatusBadRequest, problem)
		return
	}
	h.createEntity(c, dish, func() uint { return dish.ID }, dishMessages)
}

func (h *Handler) AdminUpdateDish(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, ok := bindPatch(c, dishSchema)
	if !ok {
		return
	}
	h.updateEntity(c, &models.Dish{}, id, updates, dishMessages)
}

func (h *Handler) AdminDeleteDish(c *gin.Context) {
	h.deleteEntity(c, &models.Dish{}, dishMessages)
}
