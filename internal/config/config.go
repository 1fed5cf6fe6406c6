package config

import (
	"os"
	"strconv"
	"time"
)

// DefaultDatabaseURL is used when DATABASE_URL is unset: a local sqlite file.
const DefaultDatabaseURL = "sqlite:///cmr_pai_demo.db"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DatabaseURL  string
	SecretKey    string
	AdminUser    string
	AdminPass    string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	SessionTTL   time.Duration
	CookieSecure bool
	LogLevel     string
	LogFormat    string
	ResetDB      bool
	SwaggerHost  string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", getEnv("PORT", "8080")),
		DatabaseURL:  getEnv("DATABASE_URL", DefaultDatabaseURL),
		SecretKey:    getEnv("SECRET_KEY", "changeme"),
		AdminUser:    os.Getenv("ADMIN_USER"),
		AdminPass:    os.Getenv("ADMIN_PASS"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ResetDB:      getEnvBool("RESET_DB", false),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
