package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	UpstreamBaseURL    string
	UpstreamToken      string
	HTTPTimeoutSeconds int
	DBDriver           string
	DBPath             string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	DBSSLMode          string
	AllowedEmailDomain string
	SessionTTLHours    int
	LogLevel           string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		UpstreamBaseURL:    getEnv("UPSTREAM_BASE_URL", "https://metaverse.otpless.app/internal-dashboard/"),
		UpstreamToken:      getEnv("UPSTREAM_TOKEN", ""),
		HTTPTimeoutSeconds: getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		DBDriver:           getEnv("DB_DRIVER", "sqlite"),
		DBPath:             getEnv("DB_PATH", "./internal-crm.db"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "internal_crm"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBSSLMode:          getEnv("DB_SSLMODE", "disable"),
		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "@otpless.com"),
		SessionTTLHours:    getEnvInt("SESSION_TTL_HOURS", 12),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer for %s, using %d", key, fallback)
	}
	return fallback
}
