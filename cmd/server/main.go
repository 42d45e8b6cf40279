package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/skyeops/atlas/internal/admin"
	"github.com/skyeops/atlas/internal/auth"
	"github.com/skyeops/atlas/internal/config"
	"github.com/skyeops/atlas/internal/display"
	"github.com/skyeops/atlas/internal/engine"
	"github.com/skyeops/atlas/internal/pageconfig"
	"github.com/skyeops/atlas/internal/schema"
	"github.com/skyeops/atlas/internal/storage"
	"github.com/skyeops/atlas/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.Int("port", cfg.Server.Port),
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.Name))

	db, err := store.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// Compiled-in catalog first, stored descriptor overrides on top.
	registry := schema.NewBuiltinRegistry()
	if err := db.Bootstrap(ctx, registry, logger); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	loader := schema.NewLoader(db.DB)
	if err := loader.Load(ctx, registry); err != nil {
		logger.Warn("stored table descriptors not loaded", zap.Error(err))
	}

	rules := display.NewRuleSet()
	if err := rules.Seed(ctx, db); err != nil {
		logger.Fatal("display rules seed failed", zap.Error(err))
	}
	resolver := display.NewResolver(db, registry, rules,
		cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second, logger)

	pages := pageconfig.NewBuiltinRegistry()
	eng := engine.New(db, registry, pages, resolver, cfg.Sections, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: engine.NewErrorHandler(logger),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authHandler := auth.NewHandler(db, cfg.JWTSecret)
	auth.RegisterRoutes(app, authHandler)

	authMW := auth.Middleware(cfg.JWTSecret)

	engine.RegisterRoutes(app, engine.NewHandler(eng), authMW)

	adminHandler := admin.NewHandler(db, registry, loader, store.NewMigrator(db), rules, resolver)
	admin.RegisterRoutes(app, adminHandler, authMW)

	fileStorage := storage.NewLocalStorage(cfg.Uploads.Path)
	fileHandler := engine.NewFileHandler(db, fileStorage, cfg.Uploads.MaxSizeMB*1024*1024)
	engine.RegisterFileRoutes(app, fileHandler, authMW)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID(c)))
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
