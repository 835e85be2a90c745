package main

import (
	"net/http"

	"managerpanel/internal/api"
	"managerpanel/internal/config"
	"managerpanel/internal/handler"
	"managerpanel/internal/middleware"
	"managerpanel/internal/service"
	"managerpanel/internal/session"
	"managerpanel/internal/view"
	"managerpanel/internal/websocket"
	"managerpanel/pkg/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	middleware.InitLogger()

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Debug().Msg("no configs/.env file found, using environment only")
	}

	cfg := config.Load()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (API client -> Service -> Handler)
	backend := api.NewClient(cfg.BackendURL)
	store := session.NewStore(cfg.SessionSecret)
	dashboardService := service.NewDashboardService(backend)
	reviewService := service.NewReviewService(backend, wsHub)

	authHandler := handler.NewAuthHandler(backend, store)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, reviewService, store)

	// Set up Gin Router
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:" + cfg.Port, "http://127.0.0.1:" + cfg.Port}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Templates
	router.SetFuncMap(view.FuncMap())
	router.LoadHTMLGlob(cfg.TemplateGlob)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "OK"}))
	})

	// WebSocket endpoint for cross-tab dashboard refresh
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, store)
	})

	// Register routes
	authHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))

	log.Info().Str("port", cfg.Port).Str("backend", cfg.BackendURL).Msg("manager panel listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
