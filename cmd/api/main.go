package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/config"
	"github.com/nnikochann/numero-tg/internal/db"
	apihttp "github.com/nnikochann/numero-tg/internal/http"
	"github.com/nnikochann/numero-tg/internal/interpret"
	"github.com/nnikochann/numero-tg/internal/notify"
	"github.com/nnikochann/numero-tg/internal/report"
	"github.com/nnikochann/numero-tg/internal/repository"
	"github.com/nnikochann/numero-tg/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	reportRepo := repository.NewPgReportRepository(pool)
	orderRepo := repository.NewPgOrderRepository(pool)
	subRepo := repository.NewPgSubscriptionRepository(pool)

	interpreter := interpret.NewHTTPClient(
		cfg.WebhookURL,
		time.Duration(cfg.WebhookTimeoutSeconds)*time.Second,
		logger,
	)

	renderer, err := report.NewRenderer(cfg.ReportStoragePath)
	if err != nil {
		logger.Fatal("report storage init", zap.Error(err))
	}

	// Sin Redis el estado del diálogo y el rate limit quedan en memoria;
	// suficiente para una sola instancia.
	states := service.NewMemoryStateStore()
	var limiter service.RequestLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			states = service.NewRedisStateStore(redisClient)
			limiter = service.NewRedisRequestLimiter(redisClient, 10*time.Minute, 3)
		}
		cancel()
	}

	sender := notify.NewDisabledSender("bot token not configured")
	if cfg.BotToken != "" {
		sender = notify.NewTelegramSender(cfg.BotAPIURL, cfg.BotToken)
	}

	links := service.NewReportLinkService(cfg.ReportSecret, time.Duration(cfg.ReportTTLMinutes)*time.Minute)
	reportSvc := service.NewReportService(logger, reportRepo, interpreter, renderer)
	orderSvc := service.NewOrderService(logger, orderRepo, subRepo, userRepo, reportSvc, links)
	dialogSvc := service.NewDialogService(logger, states, userRepo, subRepo, reportSvc, orderSvc, limiter, cfg.TestMode)

	numerologyHandler := apihttp.NewNumerologyHandler(logger)
	dialogHandler := apihttp.NewDialogHandler(logger, dialogSvc)
	paymentHandler := apihttp.NewPaymentHandler(logger, orderSvc, sender, cfg.YookassaSecret, cfg.TestMode)
	reportHandler := apihttp.NewReportHandler(logger, reportRepo, links)
	router := apihttp.NewRouter(logger, numerologyHandler, dialogHandler, paymentHandler, reportHandler, func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
