package services

import "errors"

var (
	ErrValidation          = errors.New("dados inválidos")
	ErrEmptyOrder          = errors.New("o pedido precisa de pelo menos um item")
	ErrUnknownReference    = errors.New("restaurante, prato, usuário ou entregador inexistente")
	ErrDishNotInRestaurant = errors.New("prato não pertence ao restaurante do pedido")
	ErrOrderNotFound       = errors.New("pedido não encontrado")
	ErrCourierNotFound     = errors.New("entregador não encontrado")
	ErrPaymentNotFound     = errors.New("pagamento não encontrado")
	ErrReviewNotFound      = errors.New("avaliação não encontrada")
)
