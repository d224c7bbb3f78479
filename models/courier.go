package models

import "time"

type CourierStatus string

const (
	CourierAvailable   CourierStatus = "disponivel"
	CourierUnavailable CourierStatus = "indisponivel"
	CourierDelivering  CourierStatus = "em entrega"
)

func (s CourierStatus) IsValid() bool {
	switch s {
	case CourierAvailable, CourierUnavailable, CourierDelivering:
		return true
	}
	return false
}

type Courier struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"nome" gorm:"not null"`
	CPF         string        `json:"cpf" gorm:"uniqueIndex;not null"`
	VehicleType string        `json:"tipo_veiculo" gorm:"not null"`
	Plate       *string       `json:"placa"`
	Status      CourierStatus `json:"status" gorm:"not null;default:'disponivel'"`
	CreatedAt   time.Time     `json:"data_criacao"`
	UpdatedAt   time.Time     `json:"-"`
}
