package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaf135/ivegan-versao-atual/models"
)

var (
	ErrUnknownStatus        = errors.New("status de pedido desconhecido")
	ErrUnknownPaymentStatus = errors.New("status de pagamento desconhecido")
)

// Transition is a step of the usual delivery flow. The back office may write
// any known status regardless; transitions only drive the suggestions shown
// to admins and storefront clients.
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// statuses lists every order status in lifecycle order.
var statuses = []models.OrderStatus{
	models.StatusPreparing,
	models.StatusOutForDelivery,
	models.StatusDelivered,
	models.StatusCanceled,
}

var suggestedTransitions = []Transition{
	{From: models.StatusPreparing, To: models.StatusOutForDelivery},
	{From: models.StatusPreparing, To: models.StatusCanceled},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered},
	{From: models.StatusOutForDelivery, To: models.StatusCanceled},
}

var paymentStatuses = []models.PaymentStatus{
	models.PaymentPending,
	models.PaymentPaid,
	models.PaymentCanceled,
}

var known = func() map[models.OrderStatus]bool {
	m := make(map[models.OrderStatus]bool, len(statuses))
	for _, s := range statuses {
		m[s] = true
	}
	return m
}()

// Statuses returns every known order status.
func Statuses() []models.OrderStatus {
	out := make([]models.OrderStatus, len(statuses))
	copy(out, statuses)
	return out
}

func IsKnown(status models.OrderStatus) bool {
	return known[status]
}

// SuggestedFrom returns the usual next states from a given state.
func SuggestedFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range suggestedTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// IsTerminal reports whether the usual flow ends at status.
func IsTerminal(status models.OrderStatus) bool {
	return IsKnown(status) && len(SuggestedFrom(status)) == 0
}

// CanTransition checks an admin status write. Any known target is accepted
// from any state, including going back from a terminal one.
func CanTransition(from, to models.OrderStatus) error {
	if !IsKnown(to) {
		return fmt.Errorf("%w: '%s'. Valores aceitos: %s", ErrUnknownStatus, to, describe(statuses))
	}
	return nil
}

// ParseStatus normalizes the label sent by a client.
func ParseStatus(raw string) (models.OrderStatus, error) {
	s := models.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	return s, CanTransition("", s)
}

// ParsePaymentStatus normalizes a payment label.
func ParsePaymentStatus(raw string) (models.PaymentStatus, error) {
	s := models.PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, p := range paymentStatuses {
		if p == s {
			return s, nil
		}
	}
	return s, ErrUnknownPaymentStatus
}

// PaymentStatuses returns every known payment status.
func PaymentStatuses() []models.PaymentStatus {
	out := make([]models.PaymentStatus, len(paymentStatuses))
	copy(out, paymentStatuses)
	return out
}

// StatusInfo describes one status for the public catalogue.
type StatusInfo struct {
	Status    models.OrderStatus   `json:"status"`
	Suggested []models.OrderStatus `json:"proximos_sugeridos"`
	Terminal  bool                 `json:"final"`
}

// Describe returns the full status catalogue for documentation.
func Describe() []StatusInfo {
	info := make([]StatusInfo, 0, len(statuses))
	for _, s := range statuses {
		next := SuggestedFrom(s)
		if next == nil {
			next = []models.OrderStatus{}
		}
		info = append(info, StatusInfo{Status: s, Suggested: next, Terminal: IsTerminal(s)})
	}
	return info
}

func describe(list []models.OrderStatus) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
