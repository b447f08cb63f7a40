package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Business BusinessConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	ReportCacheTTL time.Duration
}

// BusinessConfig holds the rules the payroll and attendance logic depend on
type BusinessConfig struct {
	Timezone          string
	WeeklyRestPolicy  string
	HalfDayThreshold  time.Duration
	CheckInRatePerMin int
}

type CronConfig struct {
	Enabled                bool
	ReconciliationInterval time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded, using process environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "bizops"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	reportTTL, err := time.ParseDuration(getEnv("PAYROLL_REPORT_CACHE_TTL", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_REPORT_CACHE_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:           getEnv("REDIS_ADDR", "localhost:6379"),
		Password:       getEnv("REDIS_PASSWORD", ""),
		DB:             redisDB,
		ReportCacheTTL: reportTTL,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Business rules
	halfDay, err := time.ParseDuration(getEnv("HALF_DAY_THRESHOLD", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid HALF_DAY_THRESHOLD: %w", err)
	}

	checkInRate, err := strconv.Atoi(getEnv("CHECK_IN_RATE_PER_MINUTE", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECK_IN_RATE_PER_MINUTE: %w", err)
	}

	config.Business = BusinessConfig{
		Timezone:          getEnv("BUSINESS_TIMEZONE", "Asia/Kolkata"),
		WeeklyRestPolicy:  getEnv("PAYROLL_WEEKLY_REST_POLICY", "none"),
		HalfDayThreshold:  halfDay,
		CheckInRatePerMin: checkInRate,
	}

	// Cron configuration
	reconcileInterval, err := time.ParseDuration(getEnv("WALLET_RECONCILE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid WALLET_RECONCILE_INTERVAL: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:                getEnv("CRON_ENABLED", "true") == "true",
		ReconciliationInterval: reconcileInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err)
	}
	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("BUSINESS_TIMEZONE is invalid: %w", err)
	}
	switch c.Business.WeeklyRestPolicy {
	case "none", "sunday":
	default:
		return fmt.Errorf("PAYROLL_WEEKLY_REST_POLICY must be one of: none, sunday")
	}
	if c.Business.HalfDayThreshold <= 0 {
		return fmt.Errorf("HALF_DAY_THRESHOLD must be positive")
	}
	if c.Business.CheckInRatePerMin <= 0 {
		return fmt.Errorf("CHECK_IN_RATE_PER_MINUTE must be positive")
	}
	if c.Cron.ReconciliationInterval <= 0 {
		return fmt.Errorf("WALLET_RECONCILE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
