package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config engage-a2p (A2P compliance HTTP API) configuration.
// Everything comes from the environment; nothing in the service reads env vars
// directly (the registrar client in particular gets its credentials injected).
type Config struct {
	HTTP struct {
		Addr string
	}

	DBEnabled bool
	Database  DatabaseConfig

	RedisEnabled bool
	Redis        struct {
		Addr     string
		Password string
		DB       int
	}

	Log struct {
		Level  string
		Format string
	}

	Auth struct {
		JWTSecret string
	}

	Registrar RegistrarConfig
}

// DatabaseConfig compliance store connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN builds the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RegistrarConfig external compliance registrar API settings.
type RegistrarConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev; without a DB the service falls back to
	// in-memory repositories so the dashboard pages still work.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "engage")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "")

	// Registrar credentials are injected; never read ad hoc elsewhere.
	cfg.Registrar.BaseURL = getEnv("REGISTRAR_BASE_URL", "https://registrar.example.com")
	cfg.Registrar.APIKey = getEnv("REGISTRAR_API_KEY", "")
	cfg.Registrar.APISecret = getEnv("REGISTRAR_API_SECRET", "")
	cfg.Registrar.Timeout = time.Duration(parseInt(getEnv("REGISTRAR_TIMEOUT_SECONDS", "15"), 15)) * time.Second

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
