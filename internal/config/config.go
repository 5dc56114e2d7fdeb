package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	BotToken string
	AdminIDs []int64

	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	DailyFocusLimit     int
	FocusMultiplier     float64
	MaxStreakMultiplier float64

	MorningReminder string // "HH:MM", UTC
	EveningReminder string
	BroadcastDelay  time.Duration

	AWSRegion     string
	SESFromEmail  string
	SESFromName   string
	OperatorEmail string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		AdminIDs: parseAdminIDs(os.Getenv("ADMIN_IDS")),

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./habitquest.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		DailyFocusLimit:     getEnvInt("DAILY_FOCUS_LIMIT", 5),
		FocusMultiplier:     getEnvFloat("FOCUS_POINTS_MULTIPLIER", 2.0),
		MaxStreakMultiplier: getEnvFloat("MAX_STREAK_MULTIPLIER", 3.0),

		MorningReminder: getEnv("MORNING_REMINDER", "09:00"),
		EveningReminder: getEnv("EVENING_REMINDER", "20:00"),
		BroadcastDelay:  time.Duration(getEnvInt("BROADCAST_DELAY_MS", 50)) * time.Millisecond,

		AWSRegion:     getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:  os.Getenv("SES_FROM_EMAIL"),
		SESFromName:   getEnv("SES_FROM_NAME", "HabitQuest"),
		OperatorEmail: os.Getenv("OPERATOR_EMAIL"),

		Debug: getEnvBool("DEBUG", false),
	}
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingBotToken
	}
	return nil
}

// IsAdmin reports whether the given Telegram id is in the configured admin list
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// parseAdminIDs parses a comma-separated list of Telegram ids
func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
