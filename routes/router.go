package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gaf135/ivegan-versao-atual/handlers"
	"github.com/gaf135/ivegan-versao-atual/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine with the global middleware, static files and
// every API route.
func NewRouter(h *handlers.Handler, limiter middleware.Limiter) *gin.Engine {
	cfg := h.Config

	// Default middleware (logger + recovery)
	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "iVegan API",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	r.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	SetupRoutes(r, h)

	var site http.Handler
	if cfg.PublicDir != "" {
		site = http.FileServer(http.Dir(cfg.PublicDir))
	}
	r.NoRoute(func(c *gin.Context) {
		if site == nil || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rota não encontrada"})
			return
		}
		site.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
