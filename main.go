package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"justissimo-api/config"
	"justissimo-api/consumer"
	"justissimo-api/handlers"
	"justissimo-api/middleware"
	"justissimo-api/models"
	"justissimo-api/monitoring"
	"justissimo-api/notification"
	"justissimo-api/usecases"
	"justissimo-api/utils"
)

const (
	maxRetries = 5
	retryDelay = 3 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.Sentry.DSN != "" {
		if err := utils.InitSentry(cfg.Sentry.DSN, cfg.AppEnv, cfg.Version); err != nil {
			logger.WithError(err).Warn("Sentry disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	monitoring.Init()

	repo := connectPostgres(cfg, logger)
	defer func() {
		if err := repo.Close(); err != nil {
			logger.WithError(err).Warn("Error closing database connection")
		}
	}()

	health := map[string]handlers.Pinger{"postgres": repo}

	var lawyerCache usecases.LawyerCache
	if cfg.Redis.Host != "" {
		redisClient, err := utils.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, lawyer search cache disabled")
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.WithError(err).Warn("Error closing Redis connection")
				}
			}()
			lawyerCache = redisClient
			health["redis"] = redisClient
		}
	}

	mailer := utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var notifier notification.Notifier
	switch cfg.NotifyMode {
	case config.NotifyQueue:
		producer, err := utils.NewKafkaProducer(cfg.Kafka.Broker)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer producer.Close()

		var audit utils.ElasticsearchClient
		if cfg.Elasticsearch.URL != "" {
			es, err := utils.NewElasticsearchClient(cfg.Elasticsearch.URL)
			if err != nil {
				logger.WithError(err).Warn("Elasticsearch unavailable, notification audit disabled")
			} else {
				audit = es
				defer es.Close()
			}
		}

		worker := consumer.NewNotificationConsumer(cfg.Kafka.Broker, cfg.Kafka.NotificationTopic, cfg.Kafka.GroupID, mailer, audit, logger)
		worker.Start(ctx)
		defer worker.Stop()

		notifier = notification.NewQueueNotifier(producer, cfg.Kafka.NotificationTopic)
	default:
		notifier = notification.NewDirectNotifier(mailer)
	}
	logger.WithField("mode", cfg.NotifyMode).Info("Notification delivery configured")

	closeScheduling := usecases.NewCloseSchedulingUseCase(repo, notifier, cfg.SMTP.Sender(), logger)
	listMessages := usecases.NewListMessagesDivulgationLawyerUseCase(repo)
	listLawyers := usecases.NewListAllLawyersUseCase(repo, lawyerCache, cfg.LawyerCacheTTL, logger)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.SentryMiddleware(),
		middleware.PrometheusMetrics(),
		middleware.ErrorHandler(logger),
	)

	router.GET("/metrics", gin.WrapH(monitoring.Handler()))

	api := router.Group("/api/v1")
	api.GET("/health", handlers.Health(health))
	handlers.RegisterRoutes(api,
		handlers.NewSchedulingHandler(closeScheduling),
		handlers.NewDivulgationHandler(listMessages),
		handlers.NewLawyerHandler(listLawyers),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}

// connectPostgres retries while the database container is still starting.
func connectPostgres(cfg config.Config, logger *logrus.Logger) *models.PostgresRepository {
	var (
		repo *models.PostgresRepository
		err  error
	)
	for i := 0; i < maxRetries; i++ {
		repo, err = models.NewPostgresRepository(cfg.Database.DSN())
		if err == nil {
			return repo
		}
		logger.WithError(err).WithField("attempt", i+1).Warn("Failed to connect to PostgreSQL")
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	logger.WithError(err).Fatalf("Failed to initialize PostgreSQL after %d attempts", maxRetries)
	return nil
}
