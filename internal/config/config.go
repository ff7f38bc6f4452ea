package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// Webhook externo de interpretación (n8n o compatible).
	WebhookURL            string `env:"EXTERNAL_WEBHOOK_URL" envDefault:"https://nnikochann.ru/webhook/numero_post_bot"`
	WebhookTimeoutSeconds int    `env:"WEBHOOK_TIMEOUT_SECONDS" envDefault:"60"`

	// Verificación de firmas del proveedor de pagos.
	YookassaSecret string `env:"YUKASSA_SECRET_KEY"`
	TestMode       bool   `env:"TEST_MODE" envDefault:"false"`

	// Enlaces firmados de descarga de reportes.
	ReportSecret      string `env:"REPORT_SECRET,required"`
	ReportTTLMinutes  int    `env:"REPORT_TTL_MINUTES" envDefault:"60"`
	ReportStoragePath string `env:"REPORT_STORAGE_PATH" envDefault:"./reports"`

	// Envío de mensajes a la plataforma de chat.
	BotAPIURL string `env:"BOT_API_URL" envDefault:"https://api.telegram.org"`
	BotToken  string `env:"BOT_TOKEN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
