package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Dosada05/tennis-ladder/brackets"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     string

	BracketSeeding          brackets.SeedingMode
	BracketIdempotencyGuard bool
	SeedUpdateConcurrency   int
	DefaultVenue            string

	CORSAllowedOrigins         []string
	GenerateRateLimitPerMinute int
	MigrateOnStart             bool

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	R2Endpoint        string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	seeding, err := brackets.ParseSeedingMode(os.Getenv("BRACKET_SEEDING"))
	if err != nil {
		return nil, fmt.Errorf("invalid BRACKET_SEEDING environment variable: %w", err)
	}

	guard, err := boolEnv("BRACKET_IDEMPOTENCY_GUARD", true)
	if err != nil {
		return nil, err
	}

	concurrency, err := intEnv("SEED_UPDATE_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("SEED_UPDATE_CONCURRENCY must be positive, got %d", concurrency)
	}

	rateLimit, err := intEnv("GENERATE_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("GENERATE_RATE_LIMIT_PER_MINUTE must not be negative, got %d", rateLimit)
	}

	migrate, err := boolEnv("MIGRATE_ON_START", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		LogLevel:     stringEnv("LOG_LEVEL", "info"),

		BracketSeeding:          seeding,
		BracketIdempotencyGuard: guard,
		SeedUpdateConcurrency:   concurrency,
		DefaultVenue:            stringEnv("DEFAULT_VENUE", brackets.DefaultVenue),

		CORSAllowedOrigins:         splitList(stringEnv("CORS_ALLOWED_ORIGINS", "*")),
		GenerateRateLimitPerMinute: rateLimit,
		MigrateOnStart:             migrate,

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		R2Endpoint:        os.Getenv("R2_ENDPOINT"),
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func boolEnv(key string, def bool) (bool, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
