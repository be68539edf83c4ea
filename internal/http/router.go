package api

import (
	"log"
	stdhttp "net/http"

	"eventwave/internal/checkout"
	intconfig "eventwave/internal/config"
	"eventwave/internal/gateway"
	h "eventwave/internal/http/handlers"
	"eventwave/internal/http/middleware"
	"eventwave/internal/monitoring"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSOrigins),
		monitoring.HTTPMetrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	h.SetAuthSecret([]byte(env.JWTSecret))

	store := checkout.NewStore(env.SessionTTL)
	store.OnCountChange = monitoring.SetActiveSessions
	store.StartSweeper(env.SessionTTL / 10)
	h.SetCheckout(store, gateway.Local{})

	r.GET("/metrics", monitoring.Handler())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		v1 := api.Group("/v1")

		// Auth
		user := v1.Group("/user")
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.GET("/current-user", middleware.RequireAuth([]byte(env.JWTSecret)), h.CurrentUser)

		// Catalog
		events := v1.Group("/events")
		events.GET("", h.ListEvents)
		events.GET("/upcoming", h.ListUpcomingEvents)
		events.GET("/category/:id", h.ListEventsByCategory)
		events.GET("/:id", h.GetEvent)
		events.POST("", middleware.RequireAuth([]byte(env.JWTSecret)), h.CreateEvent)

		categories := v1.Group("/categories")
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", middleware.RequireAuth([]byte(env.JWTSecret)), h.CreateCategory)

		// Checkout
		co := v1.Group("/checkout")
		co.POST("", h.StartCheckout)
		co.GET("/:id", h.GetCheckout)
		co.PUT("/:id/quantity", h.UpdateQuantity)
		co.POST("/:id/details", h.SubmitDetails)
		co.POST("/:id/payment", h.SubmitPayment)
		co.POST("/:id/back", h.StepBack)
		co.DELETE("/:id", h.CancelCheckout)

		// Orders
		orders := v1.Group("/orders")
		orders.GET("", h.ListOrdersByEmail)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/e-ticket", h.GetOrderETicket)
	}

	return r
}
