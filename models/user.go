package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "cliente"
	RoleAdmin    UserRole = "admin"
)

const DefaultProfilePhoto = "/img/default-profile.png"

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"nome" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Phone        *string   `json:"telefone"`
	Address      *string   `json:"endereco"`
	PhotoURL     *string   `json:"foto_perfil" gorm:"default:'/img/default-profile.png'"`
	Role         UserRole  `json:"role" gorm:"not null;default:'cliente'"`
	CreatedAt    time.Time `json:"data_criacao"`
	UpdatedAt    time.Time `json:"-"`
}

// Photo returns the profile photo URL, falling back to the default picture.
func (u *User) Photo() string {
	if u.PhotoURL == nil || *u.PhotoURL == "" {
		return DefaultProfilePhoto
	}
	return *u.PhotoURL
}
