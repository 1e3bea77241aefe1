package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg := Load()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected HTTP_ADDR default ':8080', got '%s'", cfg.HTTP.Addr)
	}
	if !cfg.DBEnabled {
		t.Error("Expected DB_ENABLED default true")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected DB_HOST default 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected DB_PORT default 5432, got %d", cfg.Database.Port)
	}
	if cfg.Database.Database != "engage" {
		t.Errorf("Expected DB_NAME default 'engage', got '%s'", cfg.Database.Database)
	}
	if cfg.RedisEnabled {
		t.Error("Expected REDIS_ENABLED default false")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected LOG_LEVEL default 'info', got '%s'", cfg.Log.Level)
	}
	if cfg.Registrar.Timeout != 15*time.Second {
		t.Errorf("Expected registrar timeout default 15s, got %v", cfg.Registrar.Timeout)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("HTTP_ADDR", ":9090")
	os.Setenv("DB_ENABLED", "false")
	os.Setenv("REGISTRAR_BASE_URL", "https://registrar.test")
	os.Setenv("REGISTRAR_API_KEY", "key-1")
	os.Setenv("REGISTRAR_API_SECRET", "secret-1")
	os.Setenv("REGISTRAR_TIMEOUT_SECONDS", "30")
	os.Setenv("JWT_SECRET", "jwt-1")
	defer os.Clearenv()

	cfg := Load()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected HTTP_ADDR ':9090', got '%s'", cfg.HTTP.Addr)
	}
	if cfg.DBEnabled {
		t.Error("Expected DB_ENABLED false")
	}
	if cfg.Registrar.BaseURL != "https://registrar.test" {
		t.Errorf("Expected registrar base URL 'https://registrar.test', got '%s'", cfg.Registrar.BaseURL)
	}
	if cfg.Registrar.APIKey != "key-1" || cfg.Registrar.APISecret != "secret-1" {
		t.Error("Expected registrar credentials from env")
	}
	if cfg.Registrar.Timeout != 30*time.Second {
		t.Errorf("Expected registrar timeout 30s, got %v", cfg.Registrar.Timeout)
	}
	if cfg.Auth.JWTSecret != "jwt-1" {
		t.Errorf("Expected JWT secret 'jwt-1', got '%s'", cfg.Auth.JWTSecret)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "engage",
		Password: "pw",
		Database: "engage",
		SSLMode:  "require",
	}
	want := "host=db.internal port=5433 user=engage password=pw dbname=engage sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN mismatch:\n got %s\nwant %s", got, want)
	}
}
