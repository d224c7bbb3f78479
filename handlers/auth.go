package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/middleware"
	"github.com/gaf135/ivegan-versao-atual/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string  `json:"nome" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"senha" binding:"required,min=6"`
	Phone    *string `json:"telefone"`
	Address  *string `json:"endereco"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"senha" binding:"required"`
}

const msgInvalidCredentials = "Credenciais inválidas"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional trims s and turns an empty value into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (h *Handler) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Config.BcryptCost)
	return string(hash), err
}

// Register creates a new customer account
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	email := normalizeEmail(req.Email)
	db := h.DB.WithContext(c.Request.Context())

	// Check email uniqueness
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		respondError(c, http.StatusConflict, "Email já cadastrado")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		internalError(c, "lookup email", err)
		return
	}

	hash, err := h.hashPassword(req.Password)
	if err != nil {
		internalError(c, "hash password", err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        optional(req.Phone),
		Address:      optional(req.Address),
		Role:         models.RoleCustomer,
	}
	if err := db.Create(&user).Error; err != nil {
		if config.IsDuplicateKey(err) {
			respondError(c, http.StatusConflict, "Email já cadastrado")
			return
		}
		internalError(c, "create user", err)
		return
	}

	token, err := middleware.GenerateToken(&user, h.Config.JWTSecret, h.Config.JWTTTL)
	if err != nil {
		internalError(c, "generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuário criado com sucesso",
		"token":   token,
		"user":    profileView(&user),
	})
}

// Login authenticates a user and returns a JWT. Unknown email and wrong
// password get the same answer.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	err := h.DB.WithContext(c.Request.Context()).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		internalError(c, "lookup user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := middleware.GenerateToken(&user, h.Config.JWTSecret, h.Config.JWTTTL)
	if err != nil {
		internalError(c, "generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login realizado com sucesso",
		"token":   token,
		"user":    profileView(&user),
	})
}

// profileView fills in the default photo before the user goes on the wire.
func profileView(user *models.User) *models.User {
	photo := user.Photo()
	user.PhotoURL = &photo
	return user
}
