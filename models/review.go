package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	UserID       uint        `json:"usuario_id" gorm:"not null;index"`
	User         *User       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	RestaurantID uint        `json:"restaurante_id" gorm:"not null;index"`
	Restaurant   *Restaurant `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Rating       int         `json:"nota" gorm:"not null"`
	Comment      *string     `json:"comentario"`
	CreatedAt    time.Time   `json:"data_criacao"`
	UpdatedAt    time.Time   `json:"-"`
}
