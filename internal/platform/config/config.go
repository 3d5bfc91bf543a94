package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"portal/internal/platform/sheets"
)

type Config struct {
	Addr            string
	Environment     string
	DatabaseURL     string
	JWTSecret       string
	SessionTTL      time.Duration
	NotificationCap int

	AdminSheetURL         string
	CurrentSalarySheetURL string
	ArchiveSalarySheetURL string
	BonusesSheetURL       string
	DispatchesSheetURL    string
	ExtraHoursSheetURL    string

	PollInterval time.Duration
	FetchTimeout time.Duration
	FetchDelay   time.Duration
}

func Load() Config {
	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		Environment:     getEnv("APP_ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-only-secret"),
		SessionTTL:      getEnvDuration("SESSION_TTL", 12*time.Hour),
		NotificationCap: getEnvInt("NOTIFICATION_CAP", 200),

		AdminSheetURL:         getEnv("ADMIN_SHEET_URL", ""),
		CurrentSalarySheetURL: getEnv("CURRENT_SALARY_SHEET_URL", ""),
		ArchiveSalarySheetURL: getEnv("ARCHIVE_SALARY_SHEET_URL", ""),
		BonusesSheetURL:       getEnv("BONUSES_SHEET_URL", ""),
		DispatchesSheetURL:    getEnv("DISPATCHES_SHEET_URL", ""),
		ExtraHoursSheetURL:    getEnv("EXTRA_HOURS_SHEET_URL", ""),

		PollInterval: getEnvDuration("POLL_INTERVAL", 15*time.Second),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 20*time.Second),
		FetchDelay:   getEnvDuration("FETCH_DELAY", 150*time.Millisecond),
	}
}

func (c Config) Sources() sheets.Sources {
	return sheets.Sources{
		Admin:         c.AdminSheetURL,
		CurrentSalary: c.CurrentSalarySheetURL,
		ArchiveSalary: c.ArchiveSalarySheetURL,
		Bonuses:       c.BonusesSheetURL,
		Dispatches:    c.DispatchesSheetURL,
		ExtraHours:    c.ExtraHoursSheetURL,
	}
}

func (c Config) Validate() error {
	required := map[string]string{
		"ADMIN_SHEET_URL":          c.AdminSheetURL,
		"CURRENT_SALARY_SHEET_URL": c.CurrentSalarySheetURL,
		"ARCHIVE_SALARY_SHEET_URL": c.ArchiveSalarySheetURL,
		"BONUSES_SHEET_URL":        c.BonusesSheetURL,
		"DISPATCHES_SHEET_URL":     c.DispatchesSheetURL,
		"EXTRA_HOURS_SHEET_URL":    c.ExtraHoursSheetURL,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", key)
		}
	}
	if c.Environment == "production" && (c.JWTSecret == "" || c.JWTSecret == "dev-only-secret") {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s")
	}
	if c.NotificationCap <= 0 {
		return fmt.Errorf("NOTIFICATION_CAP must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
