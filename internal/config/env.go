package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBName      string
	JWTSecret   string
	SessionTTL  time.Duration
	CORSOrigins []string
}

func LoadEnv() Env {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment variables from .env")
	}

	return Env{
		AppAddr:     getEnv("APP_ADDR", ":8080"),
		GinMode:     getEnv("GIN_MODE", ""),
		DBUser:      getEnv("DB_USER", "root"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBHost:      getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:      getEnv("DB_NAME", "eventwave"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTTL:  getDuration("CHECKOUT_SESSION_TTL", 30*time.Minute),
		CORSOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
