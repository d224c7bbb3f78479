package handlers

import (
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Name        string  `json:"nome" binding:"required"`
	Description *string `json:"descricao"`
	Icon        *string `json:"icone"`
}

var categoryMessages = entityMessages{
	NotFound: "Categoria não encontrada",
	Created:  "Categoria criada com sucesso",
	Updated:  "Categoria atualizada com sucesso",
	Deleted:  "Categoria excluída com sucesso",
}

var categorySchema = patchSchema{
	"nome":      {Column: "name", Kind: kindString},
	"descricao": {Column: "description", Kind: kindString, Nullable: true},
	"icone":     {Column: "icon", Kind: kindString, Nullable: true},
}

// ListCategories returns every dish category ordered by name
func (h *Handler) ListCategories(c *gin.Context) {
	categories := []models.Category{}
	if err := h.DB.WithContext(c.Request.Context()).Order("name").Find(&categories).Error; err != nil {
		internalError(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) AdminGetCategory(c *gin.Context) {
	var category models.Category
	if h.getEntity(c, &category, categoryMessages) {
		c.JSON(http.StatusOK, category)
	}
}

func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: optional(req.Description),
		Icon:        optional(req.Icon),
	}
	if category.Name == "" {
		respondError(c, http.StatusBadRequest, "Nome é obrigatório")
		return
	}
	h.createEntity(c, category, func() uint { return category.ID }, categoryMessages)
}

func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, ok := bindPatch(c, categorySchema)
	if !ok {
		return
	}
	h.updateEntity(c, &models.Category{}, id, updates, categoryMessages)
}

// AdminDeleteCategory removes a category; its dishes lose the reference.
func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	h.deleteEntity(c, &models.Category{}, categoryMessages)
}
