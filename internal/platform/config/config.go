package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                     string
	DatabaseURL              string
	JWTSecret                string
	Environment              string
	LogLevel                 string
	RunMigrations            bool
	MigrationsDir            string
	MaxUploadBytes           int64
	RateLimitPerMinute       int
	MutationLimitPerMinute   int
	MetricsEnabled           bool
	BackupPassphrase         string
	RetentionInterval        time.Duration
	AuditRetentionDays       int
	IdempotencyRetentionDays int
}

func Load() Config {
	return Config{
		Addr:                     getEnv("APP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		Environment:              getEnv("APP_ENV", "development"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:            getEnv("MIGRATIONS_DIR", "migrations"),
		MaxUploadBytes:           int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MutationLimitPerMinute:   getEnvInt("RATE_LIMIT_MUTATION_PER_MINUTE", 30),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", true),
		BackupPassphrase:         getEnv("BACKUP_ENCRYPTION_PASSPHRASE", ""),
		RetentionInterval:        getEnvDuration("RETENTION_INTERVAL", 24*time.Hour),
		AuditRetentionDays:       getEnvInt("AUDIT_RETENTION_DAYS", 365),
		IdempotencyRetentionDays: getEnvInt("IDEMPOTENCY_RETENTION_DAYS", 7),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.MutationLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_MUTATION_PER_MINUTE must be positive")
	}
	if c.AuditRetentionDays <= 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be positive")
	}
	if c.IdempotencyRetentionDays <= 0 {
		return fmt.Errorf("IDEMPOTENCY_RETENTION_DAYS must be positive")
	}
	return nil
}
