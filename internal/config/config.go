package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Redis configuration. An empty URL selects the in-memory store.
	RedisURL       string        `json:"redis_url"`
	RedisPrefix    string        `json:"redis_prefix"`
	CacheTTL       time.Duration `json:"cache_ttl"`
	RegionLockTTL  time.Duration `json:"region_lock_ttl"`
	MaxConcurrency int           `json:"max_concurrency"`

	// AI Configuration
	AIApiKey  string `json:"-"`
	AIModel   string `json:"ai_model"`
	AIBaseURL string `json:"ai_base_url"`
	AITimeout int    `json:"ai_timeout"`
	Timezone  string `json:"timezone"`

	// Telegram
	TelegramBotToken  string        `json:"-"`
	TelegramChannelID int64         `json:"telegram_channel_id"`
	PublishedTTL      time.Duration `json:"published_ttl"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"-"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv reads the configuration from the process environment without validating it
func FromEnv() *Config {
	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 120*time.Second),

		// Redis configuration
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "regionews:"),
		CacheTTL:       getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		RegionLockTTL:  getEnvAsDuration("REGION_LOCK_TTL", 3*time.Minute),
		MaxConcurrency: getEnvAsInt("MAX_CONCURRENCY", 2),

		// AI Configuration
		AIApiKey:  firstNonEmpty(getEnv("API_KEY", ""), getEnv("GEMINI_API_KEY", "")),
		AIModel:   getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIBaseURL: getEnv("AI_BASE_URL", ""),
		AITimeout: getEnvAsInt("AI_TIMEOUT", 90),
		Timezone:  getEnv("TIMEZONE", "Europe/Moscow"),

		// Telegram
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChannelID: getEnvAsInt64("TELEGRAM_CHANNEL_ID", 0),
		PublishedTTL:      getEnvAsDuration("PUBLISHED_TTL", 72*time.Hour),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.MaxConcurrency <= 0 {
		errs = append(errs, errors.New("MAX_CONCURRENCY must be positive"))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	if c.RegionLockTTL <= 0 {
		errs = append(errs, errors.New("REGION_LOCK_TTL must be positive"))
	} else if c.AITimeout > 0 && c.RegionLockTTL <= c.AIRequestTimeout() {
		// The busy flag must outlive the slowest fetch
		errs = append(errs, fmt.Errorf("REGION_LOCK_TTL (%s) must exceed AI_TIMEOUT (%s)", c.RegionLockTTL, c.AIRequestTimeout()))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, errors.New("TIMEZONE is not a valid IANA zone: "+c.Timezone))
	}
	if c.TelegramBotToken != "" && c.TelegramChannelID == 0 {
		errs = append(errs, errors.New("TELEGRAM_CHANNEL_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// AIRequestTimeout returns AITimeout as a duration
func (c *Config) AIRequestTimeout() time.Duration {
	return time.Duration(c.AITimeout) * time.Second
}

// Location returns the configured time zone, falling back to the local zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
