package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a food delivery order
type OrderStatus string

const (
	StatusPreparing      OrderStatus = "em preparação"
	StatusOutForDelivery OrderStatus = "saiu para entrega"
	StatusDelivered      OrderStatus = "entregue"
	StatusCanceled       OrderStatus = "cancelado"
)

// PaymentStatus is a stored label; no payment is processed.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pendente"
	PaymentPaid     PaymentStatus = "pago"
	PaymentCanceled PaymentStatus = "cancelado"
)

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	UserID          uint                 `json:"usuario_id" gorm:"not null;index"`
	User            *User                `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	RestaurantID    uint                 `json:"restaurante_id" gorm:"not null;index"`
	Restaurant      *Restaurant          `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	CourierID       *uint                `json:"entregador_id" gorm:"index"`
	Courier         *Courier             `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	DeliveryAddress string               `json:"endereco_entrega" gorm:"not null"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'em preparação'"`
	Items           []OrderItem          `json:"itens,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment         *Payment             `json:"pagamento,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []OrderStatusHistory `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `json:"data_criacao"`
	UpdatedAt       time.Time            `json:"-"`
}

type OrderItem struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	OrderID  uint            `json:"pedido_id" gorm:"not null;index"`
	DishID   uint            `json:"prato_id" gorm:"not null;index"`
	Dish     *Dish           `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity int             `json:"quantidade" gorm:"not null"`
	Price    decimal.Decimal `json:"preco" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

// Subtotal is quantity times the unit price captured on the order.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Payment struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"pedido_id" gorm:"uniqueIndex;not null"`
	Amount    decimal.Decimal `json:"valor" gorm:"type:decimal(10,2);not null"`
	Method    string          `json:"metodo" gorm:"not null"`
	Status    PaymentStatus   `json:"status" gorm:"not null;default:'pendente'"`
	CreatedAt time.Time       `json:"data_criacao"`
	UpdatedAt time.Time       `json:"-"`
}

// OrderStatusHistory tracks every status change of an order.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"pedido_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"status_anterior"`
	ToStatus   OrderStatus `json:"status_novo" gorm:"not null"`
	ChangedBy  uint        `json:"alterado_por"` // user ID who wrote the status
	Note       string      `json:"observacao"`
	CreatedAt  time.Time   `json:"data_criacao"`
}
