package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	devJWTSecret = "dev-insecure-secret-change"
)

type Config struct {
	Port        string
	DatabaseURL string
	Storage     string
	AutoMigrate bool

	JWTSecret string
	JWTTTL    time.Duration

	ExchangeRateAPIKey string
	ExchangeRateAPIURL string
	BaseCurrency       string

	RecurringSchedule    string
	BudgetNotifySchedule string
	GoalReminderSchedule string
}

// Load читает .env (если он есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "5001"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		Storage:              strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		AutoMigrate:          getBool("AUTO_MIGRATE", true),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		ExchangeRateAPIKey:   os.Getenv("EXCHANGE_RATE_API_KEY"),
		ExchangeRateAPIURL:   getEnv("EXCHANGE_RATE_API_URL", "https://v6.exchangerate-api.com/v6"),
		BaseCurrency:         strings.ToUpper(getEnv("BASE_CURRENCY", "LKR")),
		RecurringSchedule:    getEnv("RECURRING_SCHEDULE", "@every 1m"),
		BudgetNotifySchedule: getEnv("BUDGET_NOTIFY_SCHEDULE", "*/2 * * * *"),
		GoalReminderSchedule: getEnv("GOAL_REMINDER_SCHEDULE", "*/2 * * * *"),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "5h"))
	if err != nil {
		return nil, fmt.Errorf("некорректное значение JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
				os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), getEnv("DB_HOST", "localhost"),
				getEnv("DB_PORT", "5432"), os.Getenv("DB_NAME"))
		}
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET не задан")
		}
	case StorageMemory:
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
	default:
		return nil, fmt.Errorf("неизвестный тип хранилища %q", cfg.Storage)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
