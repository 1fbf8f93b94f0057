package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"incident-intel-service/config"
	"incident-intel-service/database"
	"incident-intel-service/handlers"
	"incident-intel-service/metrics"
	"incident-intel-service/middleware"
	"incident-intel-service/rabbitmq"
	"incident-intel-service/service"
	"incident-intel-service/version"
	ws "incident-intel-service/websocket"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set log level
	if cfg.LogLevel == "debug" {
		log.SetLevel(log.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		log.SetLevel(log.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.WithError(err).Fatal("Failed to initialize schema")
	}

	// Register Prometheus metrics
	metrics.Register()

	// Start the WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// RabbitMQ is best-effort; the service runs without it
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.AnalyzedIncidentRouting)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ unavailable, analyzed-incident events will not be published")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	svc := service.New(database.NewIntelService(db), hub, publisher, cfg.DefaultHistoryDays)
	h := handlers.NewIntelHandler(svc, hub)

	router := setupRouter(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, h *handlers.IntelHandler) *gin.Engine {
	router := gin.Default()

	// Add gzip compression middleware
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// API routes
	api := router.Group("/api/v3")
	{
		api.POST("/report_incident", h.ReportIncident)
		api.POST("/analyze_incident", h.AnalyzeIncident)
		api.GET("/incidents/:id/assignment_recommendations", h.AssignmentRecommendations)
		api.GET("/tanods/:id/performance", h.TanodPerformance)
		api.GET("/team_performance", h.TeamPerformance)
	}

	// WebSocket endpoint for analyzed-incident events
	router.GET("/ws/incidents", h.ListenIncidents)

	// Internal admin routes
	internal := router.Group("/internal", middleware.InternalAdminToken(cfg.InternalAdminToken))
	{
		internal.POST("/seed_tanods", h.SeedTanods)
	}

	// Root health check
	router.GET("/health", h.HealthCheck)

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, version.Get("incident-intel-service"))
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
