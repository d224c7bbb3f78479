package handlers

import (
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
)

type AdminUserRequest struct {
	Name     string  `json:"nome" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"senha" binding:"required,min=6"`
	Phone    *string `json:"telefone"`
	Address  *string `json:"endereco"`
	Role     string  `json:"role"`
}

var userMessages = entityMessages{
	NotFound:  "Usuário não encontrado",
	Duplicate: "Email já cadastrado",
	Created:   "Usuário criado com sucesso",
	Updated:   "Usuário atualizado com sucesso",
	Deleted:   "Usuário excluído com sucesso",
}

// userSchema re-hashes a patched password with the configured cost.
func (h *Handler) userSchema() patchSchema {
	minLen := checkMinLen(6)
	return patchSchema{
		"nome":     {Column: "name", Kind: kindString},
		"email":    {Column: "email", Kind: kindString, Check: checkEmail},
		"telefone": {Column: "phone", Kind: kindString, Nullable: true},
		"endereco": {Column: "address", Kind: kindString, Nullable: true},
		"role": {Column: "role", Kind: kindString,
			Check: checkOneOf(string(models.RoleCustomer), string(models.RoleAdmin))},
		"senha": {Column: "password_hash", Kind: kindString, Check: func(v interface{}) (interface{}, error) {
			if _, err := minLen(v); err != nil {
				return nil, err
			}
			return h.hashPassword(v.(string))
		}},
	}
}

// AdminGetAllUsers lists every user, newest first
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.DB.WithContext(c.Request.Context()).Order("id DESC").Find(&users).Error; err != nil {
		internalError(c, "list users", err)
		return
	}
	for i := range users {
		profileView(&users[i])
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) AdminGetUser(c *gin.Context) {
	var user models.User
	if h.getEntity(c, &user, userMessages) {
		c.JSON(http.StatusOK, profileView(&user))
	}
}

// AdminCreateUser creates a customer or another admin
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req AdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	role := models.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.IsValid() {
		respondError(c, http.StatusBadRequest, "Perfil inválido. Valores aceitos: cliente, admin")
		return
	}

	hash, err := h.hashPassword(req.Password)
	if err != nil {
		internalError(c, "hash password", err)
		return
	}
	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Phone:        optional(req.Phone),
		Address:      optional(req.Address),
		Role:         role,
	}
	h.createEntity(c, user, func() uint { return user.ID }, userMessages)
}

func (h *Handler) AdminUpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	updates, ok := bindPatch(c, h.userSchema())
	if !ok {
		return
	}
	h.updateEntity(c, &models.User{}, id, updates, userMessages)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	h.deleteEntity(c, &models.User{}, userMessages)
}
