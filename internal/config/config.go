package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Reference timezone for period boundaries and zone-less email
	// datetimes (IANA name)
	Timezone string

	// CORS
	AllowedOrigins []string

	// Report scheduler
	SchedulerEnabled bool
	ReportSchedule   string        // Cron expression (e.g., "0 * * * *" for hourly)
	ReportTimeout    time.Duration // Timeout for one report generation cycle

	// Web Push Notifications
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string // mailto:email or URL
}

func Load() *Config {
	env := getEnv("ENV", "development")

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  env,

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/cardwatch?sslmode=disable"),

		// Timezone
		Timezone: getEnv("TIMEZONE", "Asia/Tokyo"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Report scheduler
		SchedulerEnabled: getBoolEnv("SCHEDULER_ENABLED", true),
		ReportSchedule:   getEnv("REPORT_SCHEDULE", "0 * * * *"), // Default: hourly at minute 0
		ReportTimeout:    getDurationEnv("REPORT_TIMEOUT", 2*time.Minute),

		// Web Push Notifications
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:    getEnv("VAPID_SUBJECT", "mailto:alerts@cardwatch.app"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
