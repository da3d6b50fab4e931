package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Billing  BillingConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type JWTConfig struct {
	Secret string
}

type BillingConfig struct {
	// WebhookSecret signs inbound billing events (HMAC-SHA256 over the body).
	WebhookSecret      string
	MidtransServerKey  string
	MidtransProduction bool
	// EventRetention bounds the processed-events ledger; older rows are swept.
	EventRetention time.Duration
	SweepInterval  time.Duration
	// AbandonedCheckoutAfter is how long a started checkout may sit without an
	// activation event before it counts as abandoned.
	AbandonedCheckoutAfter time.Duration
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Billing: BillingConfig{
			WebhookSecret:          getEnv("BILLING_WEBHOOK_SECRET", ""),
			MidtransServerKey:      getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransProduction:     getEnv("MIDTRANS_IS_PRODUCTION", "false") == "true",
			EventRetention:         getEnvAsDuration("BILLING_EVENT_RETENTION", 90*24*time.Hour),
			SweepInterval:          getEnvAsDuration("BILLING_SWEEP_INTERVAL", 15*time.Minute),
			AbandonedCheckoutAfter: getEnvAsDuration("BILLING_ABANDONED_CHECKOUT_AFTER", time.Hour),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ResumeAnalyzer"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
