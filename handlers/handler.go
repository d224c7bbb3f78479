package handlers

import (
	"github.com/gaf135/ivegan-versao-atual/config"
	"github.com/gaf135/ivegan-versao-atual/services"

	"gorm.io/gorm"
)

// Handler carries the dependencies every route needs.
type Handler struct {
	DB      *gorm.DB
	Config  *config.Config
	Orders  *services.OrderService
	Stats   *services.StatsService
	Reviews *services.ReviewService
	QR      *services.OrderQRCode
}

func New(db *gorm.DB, cfg *config.Config, orders *services.OrderService, stats *services.StatsService, reviews *services.ReviewService, qr *services.OrderQRCode) *Handler {
	useJSONFieldNames()
	return &Handler{
		DB:      db,
		Config:  cfg,
		Orders:  orders,
		Stats:   stats,
		Reviews: reviews,
		QR:      qr,
	}
}
