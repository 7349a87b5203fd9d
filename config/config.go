package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string

	SessionDir string
	SessionTTL time.Duration

	ResendAPIKey  string
	MailFrom      string
	PortalBaseURL string
}

// Load reads configuration from the environment, after loading a .env
// file when one is present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	cfg := Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		SessionDir:    getEnv("SESSION_DIR", ".sessions"),
		SessionTTL:    24 * time.Hour,
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		PortalBaseURL: os.Getenv("PORTAL_BASE_URL"),
	}
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("invalid SESSION_TTL %q, using default", raw)
		} else {
			cfg.SessionTTL = ttl
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
