package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/config"
	"github.com/nnikochann/numero-tg/internal/db"
	"github.com/nnikochann/numero-tg/internal/interpret"
	"github.com/nnikochann/numero-tg/internal/notify"
	"github.com/nnikochann/numero-tg/internal/repository"
	"github.com/nnikochann/numero-tg/internal/service"
)

// Envío semanal de pronósticos. Pensado para correr bajo cron; procesa a
// todos los suscriptores activos y termina.
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

	subRepo := repository.NewPgSubscriptionRepository(pool)
	interpreter := interpret.NewHTTPClient(
		cfg.WebhookURL,
		time.Duration(cfg.WebhookTimeoutSeconds)*time.Second,
		logger,
	)

	sender := notify.NewDisabledSender("bot token not configured")
	if cfg.BotToken != "" {
		sender = notify.NewTelegramSender(cfg.BotAPIURL, cfg.BotToken)
	}

	forecastSvc := service.NewForecastService(logger, subRepo, interpreter, sender)

	sent, err := forecastSvc.Run(ctx)
	if err != nil {
		logger.Fatal("forecast run failed", zap.Error(err))
	}
	logger.Info("forecast run finished", zap.Int("sent", sent))
}
