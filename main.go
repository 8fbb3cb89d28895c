package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotel-frontdesk/access"
	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/events"
	"hotel-frontdesk/routes"
	"hotel-frontdesk/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// dev: pretty, prod: JSON
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := config.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set; room locks are process-local")
	}
	locker := services.NewRoomLocker(rdb, cfg.RoomLockTTL)

	var publisher events.Publisher = events.Noop{}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, events.DefaultExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connect failed")
		}
		publisher = amqpPub
		log.Info().Str("exchange", events.DefaultExchange).Msg("event publishing enabled")
	}
	defer publisher.Close()

	// Capability table
	table := access.NewTable(nil)
	capabilities := services.NewCapabilityService(db, table)
	if err := capabilities.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to load role permissions")
	}

	// Services
	settingsService := services.NewSettingsService(db)
	roomService := services.NewRoomService(db, locker, publisher)
	stayService := services.NewStayService(db, locker, publisher, cfg.CheckoutRates())
	invoiceService := services.NewInvoiceService(db, settingsService, cfg.ProformaRates(), cfg.InvoiceCurrency)
	authService := services.NewAuthService(db)

	// Router
	router := routes.SetupRouter(routes.Handlers{
		Auth:        controllers.NewAuthController(authService, table, cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour),
		Rooms:       controllers.NewRoomController(roomService),
		Guests:      controllers.NewGuestController(stayService, invoiceService),
		Shifts:      controllers.NewShiftController(stayService),
		Roles:       controllers.NewRoleController(capabilities),
		Settings:    controllers.NewSettingsController(settingsService),
		Table:       table,
		JWTSecret:   cfg.JWTSecret,
		CorsOrigins: cfg.CorsOriginList(),
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server stopped gracefully")
}
