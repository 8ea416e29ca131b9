package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"checkin-backend/config"
	"checkin-backend/handlers"
	"checkin-backend/qr"
	"checkin-backend/store"
)

func connectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.Datastore == "memory" {
		logger.Warn("using in-memory datastore, data will not survive restarts")
		return store.NewMemory(), nil
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, err
	}

	logger.Info("connected to the database")
	return pg, nil
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info(".env file not found, using environment variables")
	}

	cfg := config.Load()

	st, err := connectStore(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("unable to connect to datastore", zap.Error(err))
	}
	defer st.Close()

	renderer := qr.NewRenderer(cfg.AppBaseURL)

	eventHandler := handlers.NewEventHandler(st, logger)
	participantHandler := handlers.NewParticipantHandler(st, logger)
	qrHandler := handlers.NewQRHandler(st, renderer, logger)
	checkinHandler := handlers.NewCheckinHandler(st, logger)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	// Event routes
	router.GET("/events", eventHandler.ListEvents)
	router.POST("/events", eventHandler.CreateEvent)

	// Participant routes
	router.GET("/participants", participantHandler.ListParticipants)
	router.POST("/participants", participantHandler.CreateParticipant)

	// QR routes
	router.GET("/qr", qrHandler.GetQR)
	router.POST("/qr/bulk", qrHandler.BulkQR)

	// Check-in routes
	router.POST("/checkin", checkinHandler.CheckIn)
	router.GET("/checkin", checkinHandler.Stats)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := st.Ping(c); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
