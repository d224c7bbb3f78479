package handlers

import (
	"errors"
	"net/http"

	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var profileSchema = patchSchema{
	"nome":     {Column: "name", Kind: kindString},
	"telefone": {Column: "phone", Kind: kindString, Nullable: true},
	"endereco": {Column: "address", Kind: kindString, Nullable: true},
}

var profileMessages = entityMessages{
	NotFound: "Usuário não encontrado",
	Updated:  "Perfil atualizado com sucesso",
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	var user models.User
	err := h.DB.WithContext(c.Request.Context()).First(&user, middleware.GetUserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusNotFound, profileMessages.NotFound)
		return
	}
	if err != nil {
		internalError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, profileView(&user))
}

// UpdateProfile patches name, phone and address of the caller.
func (h *Handler) UpdateProfile(c *gin.Context) {
	updates, ok := bindPatch(c, profileSchema)
	if !ok {
		return
	}
	h.updateEntity(c, &models.User{}, middleware.GetUserID(c), updates, profileMessages)
}
