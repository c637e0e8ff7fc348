// Package config loads configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings for the API server and worker.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTExpiry     time.Duration
	AdminEmail    string
	RedisAddr     string
	RedisPassword string
	StoreTimeout  time.Duration
	StoreRetries  uint64
}

// Load reads .env (best-effort) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	expiryMin, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "4320"))
	timeoutMs, _ := strconv.Atoi(get("STORE_TIMEOUT_MS", "3000"))
	retries, _ := strconv.Atoi(get("STORE_WRITE_RETRIES", "3"))

	return Config{
		Port:          get("PORT", "8080"),
		DatabaseURL:   get("DATABASE_URL", ""),
		JWTSecret:     must("JWT_SECRET"),
		JWTExpiry:     time.Duration(expiryMin) * time.Minute,
		AdminEmail:    get("ADMIN_EMAIL", ""),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		StoreTimeout:  time.Duration(timeoutMs) * time.Millisecond,
		StoreRetries:  uint64(retries),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
