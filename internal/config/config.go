package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ClientStateFile хранит состояние клиента в JSON файле.
	ClientStateFile = "file"
	// ClientStatePostgres хранит состояние клиента в PostgreSQL.
	ClientStatePostgres = "postgres"

	maxOrdersPageSize = 100
)

// Config хранит все параметры запуска клиента.
type Config struct {
	Env               string
	HTTPAddr          string
	APIBaseURL        string
	RequestTimeout    time.Duration
	OrdersPageSize    int
	ClientProfile     string
	ClientStateDriver string
	ClientStatePath   string
	ClientStateSecret string
	DatabaseURL       string
	AllowedOrigins    []string
	RateLimitLimit    int64
	RateLimitPeriod   time.Duration
}

// IsProduction сообщает, собран ли клиент для production окружения.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:               env,
		HTTPAddr:          getEnv("HTTP_ADDR", "127.0.0.1:8090"),
		ClientProfile:     getEnv("CLIENT_PROFILE", "default"),
		ClientStateDriver: getEnv("CLIENT_STATE_DRIVER", ClientStateFile),
		ClientStatePath:   getEnv("CLIENT_STATE_PATH", "./.client-state"),
		ClientStateSecret: getEnv("CLIENT_STATE_SECRET", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
	}

	// Базовый URL API выбирается режимом сборки
	if env == "production" {
		cfg.APIBaseURL = getEnv("API_BASE_URL", "")
		if cfg.APIBaseURL == "" {
			return nil, fmt.Errorf("config: API_BASE_URL обязателен в production")
		}
	} else {
		cfg.APIBaseURL = getEnv("API_BASE_URL_LOCAL", "http://localhost:8000/api")
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	switch cfg.ClientStateDriver {
	case ClientStateFile:
	case ClientStatePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL обязателен для CLIENT_STATE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("config: неизвестный CLIENT_STATE_DRIVER %q", cfg.ClientStateDriver)
	}

	if cfg.ClientStateSecret != "" && len(cfg.ClientStateSecret) != 32 {
		return nil, fmt.Errorf("config: CLIENT_STATE_SECRET должен быть длиной ровно 32 байта")
	}

	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		cfg.AllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	cfg.RequestTimeout = mustParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	cfg.OrdersPageSize = int(mustParseInt64(getEnv("ORDERS_PAGE_SIZE", "50")))
	if cfg.OrdersPageSize <= 0 || cfg.OrdersPageSize > maxOrdersPageSize {
		cfg.OrdersPageSize = maxOrdersPageSize
	}

	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "120"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
