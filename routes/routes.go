package routes

import (
	"github.com/gaf135/ivegan-versao-atual/handlers"
	"github.com/gaf135/ivegan-versao-atual/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	secret := h.Config.JWTSecret

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth and self-service signup
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
		public.POST("/register/restaurante", h.RegisterRestaurant)
		public.POST("/register/entregador", h.RegisterCourier)

		// Storefront (no auth needed)
		public.GET("/public/restaurantes", h.ListRestaurants)
		public.GET("/public/restaurantes/:id", h.GetRestaurant)
		public.GET("/public/restaurantes/:id/pratos", h.ListRestaurantDishes)
		public.GET("/public/mercado/produtos", h.ListMarketProducts)
		public.GET("/public/categorias", h.ListCategories)
		public.GET("/restaurantes/:id/pratos", h.ListRestaurantDishes)

		// Status catalogue (handy for docs/Postman)
		public.GET("/public/pedidos/status", h.GetOrderStatusInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(secret))
	{
		auth.GET("/perfil", h.GetProfile)
		auth.PUT("/perfil", h.UpdateProfile)
		auth.POST("/perfil/foto", h.UploadPhoto)

		auth.POST("/pedidos", h.PlaceOrder)
		auth.GET("/pedidos", h.GetMyOrders)
		auth.GET("/pedidos/:id", h.GetOrderDetail)
		auth.GET("/pedidos/:id/qrcode", h.GetOrderQRCode)

		auth.POST("/avaliacoes", h.CreateReview)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(secret), middleware.AdminRequired())
	{
		admin.GET("/stats", h.AdminGetStats)

		admin.GET("/usuarios", h.AdminGetAllUsers)
		admin.GET("/usuarios/:id", h.AdminGetUser)
		admin.POST("/usuarios", h.AdminCreateUser)
		admin.PUT("/usuarios/:id", h.AdminUpdateUser)
		admin.DELETE("/usuarios/:id", h.AdminDeleteUser)

		admin.GET("/restaurantes", h.AdminGetAllRestaurants)
		admin.GET("/restaurantes/:id", h.AdminGetRestaurant)
		admin.POST("/restaurantes", h.AdminCreateRestaurant)
		admin.PUT("/restaurantes/:id", h.AdminUpdateRestaurant)
		admin.DELETE("/restaurantes/:id", h.AdminDeleteRestaurant)

		admin.GET("/pratos", h.AdminGetAllDishes)
		admin.GET("/pratos/:id", h.AdminGetDish)
		admin.POST("/pratos", h.AdminCreateDish)
		admin.PUT("/pratos/:id", h.AdminUpdateDish)
		admin.DELETE("/pratos/:id", h.AdminDeleteDish)

		admin.GET("/entregadores", h.AdminGetAllCouriers)
		admin.GET("/entregadores/:id", h.AdminGetCourier)
		admin.POST("/entregadores", h.AdminCreateCourier)
		admin.PUT("/entregadores/:id", h.AdminUpdateCourier)
		admin.DELETE("/entregadores/:id", h.AdminDeleteCourier)

		admin.GET("/categorias", h.ListCategories)
		admin.GET("/categorias/:id", h.AdminGetCategory)
		admin.POST("/categorias", h.AdminCreateCategory)
		admin.PUT("/categorias/:id", h.AdminUpdateCategory)
		admin.DELETE("/categorias/:id", h.AdminDeleteCategory)

		admin.GET("/avaliacoes", h.AdminGetAllReviews)
		admin.GET("/avaliacoes/:id", h.AdminGetReview)
		admin.POST("/avaliacoes", h.AdminCreateReview)
		admin.PUT("/avaliacoes/:id", h.AdminUpdateReview)
		admin.DELETE("/avaliacoes/:id", h.AdminDeleteReview)

		// Orders
		admin.GET("/pedidos", h.AdminGetAllOrders)
		admin.POST("/pedidos/novo", h.AdminCreateOrder)
		admin.GET("/pedidos/:id", h.AdminGetOrder)
		admin.GET("/pedidos/:id/itens", h.AdminGetOrderItems)
		admin.GET("/pedidos/:id/historico", h.AdminGetOrderHistory)
		admin.PUT("/pedidos/:id/status", h.AdminUpdateOrderStatus)
		admin.PUT("/pedidos/:id/entregador", h.AdminAssignCourier)
		admin.PUT("/pedidos/:id/pagamento", h.AdminUpdatePaymentStatus)
	}
}
