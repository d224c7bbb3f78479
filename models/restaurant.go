package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryRestaurant = "restaurante"
	CategoryMarket     = "mercado"
)

type Restaurant struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PublicName string    `json:"nome_publico" gorm:"not null"`
	LegalName  string    `json:"nome_legal" gorm:"not null"`
	TaxID      string    `json:"cnpj" gorm:"uniqueIndex;not null"`
	Phone      *string   `json:"telefone"`
	Address    *string   `json:"endereco"`
	Category   string    `json:"categoria" gorm:"not null;default:'restaurante'"`
	Rating     float64   `json:"avaliacao_media" gorm:"default:0"`
	CreatedAt  time.Time `json:"data_criacao"`
	UpdatedAt  time.Time `json:"-"`
}

// PublicRestaurant is the restaurant as shown to storefront visitors; legal
// name and cnpj stay in the back office.
type PublicRestaurant struct {
	ID         uint    `json:"id"`
	PublicName string  `json:"nome_publico"`
	Category   string  `json:"categoria"`
	Rating     float64 `json:"avaliacao_media"`
	Address    *string `json:"endereco"`
	Phone      *string `json:"telefone"`
}

func (r Restaurant) Public() PublicRestaurant {
	return PublicRestaurant{
		ID:         r.ID,
		PublicName: r.PublicName,
		Category:   r.Category,
		Rating:     r.Rating,
		Address:    r.Address,
		Phone:      r.Phone,
	}
}

// Category groups dishes on the storefront menu.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"nome" gorm:"not null"`
	Description *string   `json:"descricao"`
	Icon        *string   `json:"icone"`
	CreatedAt   time.Time `json:"data_criacao"`
	UpdatedAt   time.Time `json:"-"`
}

type Dish struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	RestaurantID uint            `json:"restaurante_id" gorm:"not null;index"`
	Restaurant   *Restaurant     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID   *uint           `json:"categoria_id" gorm:"index"`
	Category     *Category       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Name         string          `json:"nome" gorm:"not null"`
	Description  *string         `json:"descricao"`
	Price        decimal.Decimal `json:"preco" gorm:"type:decimal(10,2);not null"`
	Type         string          `json:"tipo" gorm:"not null"`
	ImageURL     *string         `json:"url_imagem"`
	CreatedAt    time.Time       `json:"data_criacao"`
	UpdatedAt    time.Time       `json:"-"`
}
