package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/config"
	"medicine-chatbot-backend/controllers"
	"medicine-chatbot-backend/database"
	"medicine-chatbot-backend/middleware"
	"medicine-chatbot-backend/services"
)

// NewRouter builds the engine with the shared middleware stack and all routes.
func NewRouter(cfg *config.Config, chatbotService *services.ChatbotService) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.SessionKey())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.Security.AllowedOrigins)))

	SetupRoutes(router, cfg, chatbotService)
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding",
			"Authorization", "X-Session-Id", "auth-token", "X-Requested-With", "Cache-Control",
		},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func SetupRoutes(router *gin.Engine, cfg *config.Config, chatbotService *services.ChatbotService) {
	// Initialize controllers
	chatbotController := controllers.NewChatbotController(chatbotService)
	cartController := controllers.NewCartController(chatbotService.Carts())
	medicineController := controllers.NewMedicineController(chatbotService.Medicines())
	orderController := controllers.NewOrderController(chatbotService.Orders())
	wsController := controllers.NewWebSocketController(chatbotService, cfg.Security.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := database.HealthCheck(c.Request.Context(), cfg); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"database":  cfg.Database.Type,
			"timestamp": time.Now(),
		})
	})

	// Legacy path used by the existing frontend
	router.POST("/chat", chatbotController.HandleChat)

	api := router.Group("/api/v1")
	{
		api.POST("/chat", chatbotController.HandleChat)
		api.GET("/chat/history", chatbotController.GetChatHistory)
		api.GET("/intents", chatbotController.GetSupportedIntents)

		// WebSocket for real-time chat
		api.GET("/ws", wsController.HandleWebSocket)

		api.GET("/medicines/:id", medicineController.GetMedicine)

		cart := api.Group("/cart")
		{
			cart.GET("", cartController.GetCart)
			cart.POST("/add", cartController.AddToCart)
			cart.PUT("/update", cartController.UpdateCart)
			cart.DELETE("/delete", cartController.DeleteFromCart)
			cart.DELETE("/clear", cartController.ClearCart)
		}

		api.POST("/orders", orderController.CreateOrder)
		api.GET("/orders", orderController.GetOrders)

		admin := api.Group("/admin")
		{
			admin.POST("/vocabulary/refresh", chatbotController.RefreshVocabulary)
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})
}
