package services

import (
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// OrderQRCode renders a PNG QR code that opens the order tracking page.
type OrderQRCode struct {
	BaseURL string
	Size    int
}

func NewOrderQRCode(baseURL string) *OrderQRCode {
	return &OrderQRCode{BaseURL: baseURL, Size: 256}
}

// TrackingURL is the storefront page for an order.
func (g *OrderQRCode) TrackingURL(orderID uint) string {
	return strings.TrimRight(g.BaseURL, "/") + "/pedidos.html?id=" + strconv.FormatUint(uint64(orderID), 10)
}

func (g *OrderQRCode) PNG(orderID uint) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(g.TrackingURL(orderID), qrcode.Medium, size)
}
