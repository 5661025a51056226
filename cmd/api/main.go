package main

import (
	"fmt"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/config"
	"backend/internal/handler"
	"backend/internal/logger"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Invoice API
// @version         1.0
// @description     Invoice creation backend: wizard drafts, signature capture, stored invoices with a draft/sent/paid lifecycle, and a dashboard summary.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info().Msg("no configs/.env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	gin.SetMode(cfg.GinMode)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler).
	// All state is held in memory; a restart loses every invoice and user.
	userRepo := repository.NewUserRepository()
	invoiceRepo := repository.NewInvoiceRepository()

	authService := service.NewAuthService(userRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, wsHub)
	wizardService := service.NewWizardService(invoiceService)
	dashboardService := service.NewDashboardService(invoiceRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	wizardHandler := handler.NewWizardHandler(wizardService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint: live invoice lifecycle events for open dashboards
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	invoiceHandler.RegisterRoutes(router.Group(""))
	wizardHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))

	log.Info().Int("port", cfg.Port).Msg("server listening")
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
