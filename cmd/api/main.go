package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/NKavindya/device-mgt-core-sub000/internal/broker"
	"github.com/NKavindya/device-mgt-core-sub000/internal/config"
	"github.com/NKavindya/device-mgt-core-sub000/internal/configstore"
	"github.com/NKavindya/device-mgt-core-sub000/internal/directory"
	"github.com/NKavindya/device-mgt-core-sub000/internal/handler"
	"github.com/NKavindya/device-mgt-core-sub000/internal/middleware"
	"github.com/NKavindya/device-mgt-core-sub000/internal/repository"
	"github.com/NKavindya/device-mgt-core-sub000/internal/scheduler"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/archival"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/notification"
	"github.com/NKavindya/device-mgt-core-sub000/internal/service/recipient"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	cfg := config.Load()

	liveDB, err := config.NewDB(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to live notification store")
	}
	defer liveDB.Close()

	archiveDB, err := config.NewDB(cfg.ArchiveDatabaseDriver, cfg.ArchiveDatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to archive store")
	}
	defer archiveDB.Close()

	if err := repository.InitSchema(liveDB); err != nil {
		logrus.WithError(err).Fatal("Failed to bootstrap live store schema")
	}
	if err := repository.InitSchema(archiveDB); err != nil {
		logrus.WithError(err).Fatal("Failed to bootstrap archive store schema")
	}

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to metadata store")
	}
	defer redisClient.Close()

	liveStore, err := repository.NewNotificationStore(liveDB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize notification store")
	}
	archiveStore, err := repository.NewArchiveStore(archiveDB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize archive store")
	}

	configs := configstore.NewStore(configstore.NewRedisMetadataStore(redisClient))
	resolver := recipient.NewResolver(directory.NewHTTPDirectory(cfg.DirectoryURL))
	eventBroker := broker.New()

	notifService := notification.NewService(liveStore, configs, resolver, eventBroker)
	engine := archival.NewEngine(liveStore, archiveStore, configs, cfg.ArchiveRetention)

	archivalCron, err := scheduler.StartArchivalJobs(cfg, engine)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to start archival scheduler")
	}
	defer archivalCron.Stop()

	handlers := handler.NewHandlers(notifService, configs, eventBroker)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg.JWTSecret)

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", middleware.AuthRequired(jwtSecret))

	notifications := v1.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/latest", h.Notification.Latest)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Post("/mark-read", h.Notification.MarkRead)
	notifications.Delete("/", h.Notification.Delete)
	notifications.Delete("/all", h.Notification.DeleteAll)
	notifications.Get("/stream", h.Stream.Stream)

	events := v1.Group("/events")
	events.Post("/", h.Notification.HandleEvent)

	configs := v1.Group("/notification-configurations")
	configs.Get("/", h.Config.List)
	configs.Put("/", h.Config.Upsert)
	configs.Patch("/defaults", h.Config.UpdateDefaults)
	configs.Delete("/:id", h.Config.Delete)
	configs.Delete("/", h.Config.DeleteAll)
}
