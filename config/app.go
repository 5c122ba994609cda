package config

import (
	"college-chat/config/common"
	"college-chat/config/logger"
	"college-chat/event"
	"college-chat/handler"
	"college-chat/middleware"
	"college-chat/realtime"
	"college-chat/repository"
	"college-chat/routes"
	"college-chat/security"
	"college-chat/storage"
	"college-chat/usecase"
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	*DBConfig
	*security.JWT
	*middleware.Middleware
	AppLog   *logger.AppLogger
	Settings *common.Settings
	Registry *prometheus.Registry
	Metrics  *realtime.Metrics
	Bus      realtime.Bus
	Blobs    storage.BlobStore
	Events   event.Publisher
}

func RunServer() {
	newConfig := common.NewViper()
	newValidator := NewValidator()
	settings, err := newConfig.Settings(newValidator)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := NewLogger(settings.LogLevel)
	appLogger := logger.NewLogger(logger.Options{Dir: settings.LogDir, Level: settings.LogLevel})
	app := NewFiber(settings)
	newDB := NewDB(settings, log)
	newJWT := security.NewJWT([]byte(settings.JwtSecret))
	newMiddleware := middleware.NewMiddleware([]byte(settings.JwtSecret), newJWT, log, appLogger)

	app.Use(cors.New(cors.Config{
		AllowOrigins: settings.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := realtime.NewMetrics(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := newBus(ctx, settings, metrics, log, appLogger)
	events := newPublisher(settings, log)
	defer events.Close()

	App(&AppConfig{
		App:        app,
		Validate:   newValidator,
		Logger:     log,
		DBConfig:   newDB,
		JWT:        newJWT,
		Middleware: newMiddleware,
		AppLog:     appLogger,
		Settings:   settings,
		Registry:   registry,
		Metrics:    metrics,
		Bus:        bus,
		Blobs:      newBlobStore(settings, log),
		Events:     events,
	})

	if err := app.Listen(settings.AppPort); err != nil {
		log.WithError(err).Errorf("Failed to start server: %v", err)
	}
}

func App(aC *AppConfig) {
	newChatRepository := repository.NewChatRepository()
	newMessageRepository := repository.NewMessageRepository()
	newFileRepository := repository.NewFileRepository()
	newArticleRepository := repository.NewArticleRepository()

	mediaURL := aC.Settings.MediaURL

	newMembershipUsecase := usecase.NewMembershipUsecase(aC.GetDB(), aC.Logger, newChatRepository)
	newMessageUsecase := usecase.NewMessageUsecase(aC.GetDB(), aC.Logger, newChatRepository, newMessageRepository,
		newFileRepository, newArticleRepository, aC.Blobs, aC.Events)
	newChatUsecase := usecase.NewChatUsecase(aC.GetDB(), aC.Logger, aC.Validate, newChatRepository, newMessageRepository,
		newFileRepository, aC.Blobs, mediaURL)

	newChatHandler := handler.NewChatHandler(newChatUsecase, newMembershipUsecase, aC.Logger, mediaURL)
	wsHandler := handler.NewWebSocketHandler(aC.Logger, aC.AppLog, aC.JWT, newMembershipUsecase, newMessageUsecase,
		aC.Bus, aC.Metrics, mediaURL, aC.Settings.OperationTimeout, aC.Settings.SendBuffer)

	route := routes.ConfigRoute{
		App:         aC.App,
		Middleware:  aC.Middleware,
		ChatHandler: newChatHandler,
		Gatherer:    aC.Registry,
	}
	route.GetRoute()
	route.GetWebSocketRoute(wsHandler)
}

func newBus(ctx context.Context, s *common.Settings, metrics *realtime.Metrics, log *logrus.Logger, appLogger *logger.AppLogger) realtime.Bus {
	local := realtime.NewMemoryBus(metrics)
	if s.BusDriver != common.BusDriverRedis {
		return local
	}

	client, err := realtime.NewRedisClient(ctx, s.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to redis")
	}
	bus := realtime.NewRedisBus(client, local, appLogger.WS)
	if err := bus.Start(ctx); err != nil {
		log.WithError(err).Fatal("Failed to subscribe to room channels")
	}
	log.Info("Room fan-out through redis")
	return bus
}

func newBlobStore(s *common.Settings, log *logrus.Logger) storage.BlobStore {
	if s.MinioEndpoint == "" {
		return storage.NopBlobStore{}
	}
	blobs, err := storage.NewMinioBlobStore(storage.MinioConfig{
		Endpoint:  s.MinioEndpoint,
		AccessKey: s.MinioAccessKey,
		SecretKey: s.MinioSecretKey,
		Bucket:    s.MinioBucket,
		UseSSL:    s.MinioUseSSL,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create blob store")
	}
	return blobs
}

func newPublisher(s *common.Settings, log *logrus.Logger) event.Publisher {
	if strings.TrimSpace(s.KafkaBrokers) == "" {
		return event.NopPublisher{}
	}
	log.WithField("topic", s.KafkaTopic).Info("Publishing message events to kafka")
	return event.NewKafkaPublisher(s.KafkaBrokers, s.KafkaTopic)
}
