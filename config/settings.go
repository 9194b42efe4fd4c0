package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultLocale   = "en-BD"
	DefaultTimezone = "Asia/Dhaka"
	defaultPort     = "8080"
)

// Settings is everything the dashboard service reads from the environment.
//
// Env:
// - DASHBOARD_LOCALE (default en-BD)
// - DASHBOARD_TIMEZONE (default Asia/Dhaka)
// - API_PORT or PORT (default 8080)
// - REDIS_ADDRESS (optional; snapshot cache + refresh lock disabled when empty)
// - SNAPSHOT_CACHE_TTL_SECONDS (default 300)
// - PUBSUB_PROJECT_ID / GOOGLE_CLOUD_PROJECT, DASHBOARD_TOPIC (optional)
// - DB_HOST (optional; database data source disabled when empty)
// - DASHBOARD_BUSINESS_ID (business whose records feed the snapshot)
// - RATE_LIMIT_ENABLED, RATE_LIMIT_MAX_REQUESTS (600), RATE_LIMIT_WINDOW_SECONDS (60)
type Settings struct {
	Locale         string        `validate:"required"`
	Timezone       string        `validate:"required,timezone"`
	Port           string        `validate:"required,numeric"`
	RedisAddress   string        `validate:"omitempty,hostname_port"`
	SnapshotTTL    time.Duration `validate:"gt=0"`
	SnapshotKey    string        `validate:"required"`
	DashboardTopic string
	GoEnv          string
	AllowedOrigins []string
	BusinessId     string

	RateLimitEnabled bool
	RateLimitMax     int64         `validate:"gt=0"`
	RateLimitWindow  time.Duration `validate:"gt=0"`
}

var validate = validator.New()

func init() {
	// Load env from .env
	godotenv.Load()
}

func LoadSettings() (*Settings, error) {
	s := &Settings{
		Locale:         stringFromEnv("DASHBOARD_LOCALE", DefaultLocale),
		Timezone:       stringFromEnv("DASHBOARD_TIMEZONE", DefaultTimezone),
		Port:           stringFromEnv("API_PORT", stringFromEnv("PORT", defaultPort)),
		RedisAddress:   strings.TrimSpace(os.Getenv("REDIS_ADDRESS")),
		SnapshotTTL:    time.Duration(intFromEnv("SNAPSHOT_CACHE_TTL_SECONDS", 300)) * time.Second,
		SnapshotKey:    stringFromEnv("SNAPSHOT_CACHE_KEY", "dashboard:snapshot"),
		DashboardTopic: strings.TrimSpace(os.Getenv("DASHBOARD_TOPIC")),
		GoEnv:          strings.TrimSpace(os.Getenv("GO_ENV")),
		AllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		BusinessId:     strings.TrimSpace(os.Getenv("DASHBOARD_BUSINESS_ID")),

		RateLimitEnabled: EnvBoolDefault("RATE_LIMIT_ENABLED", false),
		RateLimitMax:     int64(intFromEnv("RATE_LIMIT_MAX_REQUESTS", 600)),
		RateLimitWindow:  time.Duration(intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
	}
	if s.RateLimitEnabled && s.RedisAddress == "" {
		LogWarning(logg, "Config", "LoadSettings", "RATE_LIMIT_ENABLED without REDIS_ADDRESS; rate limiting disabled", nil)
		s.RateLimitEnabled = false
	}
	if err := validate.Struct(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) IsProduction() bool {
	return strings.EqualFold(s.GoEnv, "production")
}

// Location falls back to UTC when the zone database is unavailable.
func (s *Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		LogError(logg, "Config", "Location", "Error loading location", s.Timezone, err)
		return time.UTC
	}
	return loc
}

func EnvBoolDefault(key string, def bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch val {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}

func stringFromEnv(key string, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
