package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Darshit9241/billing-webiste-sub000/config"
	"github.com/Darshit9241/billing-webiste-sub000/controllers"
	"github.com/Darshit9241/billing-webiste-sub000/database"
	"github.com/Darshit9241/billing-webiste-sub000/middlewares"
	"github.com/Darshit9241/billing-webiste-sub000/routes"
	"github.com/Darshit9241/billing-webiste-sub000/services"
)

func setupLogger(cfg config.LogConfig, dev bool) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "console" || (cfg.Format == "" && dev) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogger(cfg.Log, cfg.App.IsDevelopment())

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(os.Args[2:], cfg.Auth.JWTSecret, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("could not issue token")
		}
		return
	}

	// ---- Database
	db, err := database.Connect(cfg.Database, database.GormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	orderSvc := services.NewOrderService(database.NewOrderStore(db), services.OrderServiceConfig{
		Location:          cfg.App.Location(),
		DeleteConcurrency: cfg.Billing.BulkDeleteConcurrency,
	})
	settingsSvc := services.NewSettingsService(database.NewSettingsStore(db))
	if cfg.Billing.BulkDeletePasswordHash == "" {
		log.Warn().Msg("BULK_DELETE_PASSWORD_HASH not set, bulk delete is disabled")
	}
	if !cfg.Auth.Enabled() {
		log.Warn().Msg("JWT secret not set, API is unauthenticated")
	}

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.App.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middlewares.RequestLogger())
	app.Use(middlewares.RequestTimeout(cfg.App.RequestTimeout))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.AllowedOrigins,
		AllowCredentials: false, // Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Client-ID",
		ExposeHeaders:    "Content-Disposition, Idempotent-Replayed",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.App.RateLimitMax,
		Expiration: cfg.App.RateLimitWindow,
	}))

	routes.Register(app, routes.Deps{
		DB:        db,
		Orders:    controllers.NewOrderController(orderSvc, cfg.Billing.BulkDeletePasswordHash),
		Settings:  controllers.NewSettingsController(settingsSvc),
		JWTSecret: cfg.Auth.JWTSecret,
	})

	// ---- Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("port", cfg.App.Port).Msg("API server starting")
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
