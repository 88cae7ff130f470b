package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"law_desk_app_go/models"

	"github.com/joho/godotenv"
)

const (
	// MaxAlertLookaheadDays bounds the alert lookahead; hearings further out
	// are never surfaced
	MaxAlertLookaheadDays = models.NotificationWindowDays
	// DefaultTimezone is the office time zone used for "today" when TIMEZONE is unset
	DefaultTimezone = "Africa/Casablanca"
)

type Config struct {
	ServerPort     string
	DBPath         string
	SettingsDBPath string
	Environment    string
	UploadDir      string
	Timezone       string
	// Template store (Turso / libSQL). Empty URL means a local SQLite file.
	TursoDatabaseURL string
	TursoAuthToken   string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	AlertEmailTo  string
	// Default lookahead (days) for native alerts until the office saves its own preference
	AlertLookaheadDays int
	// Scheduling
	AlertCron string
	// Other
	AllowedOrigins []string
	ChromePath     string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

// Load reads the environment (and .env when present) and validates the result
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "db/app.db"),
		SettingsDBPath:     getEnv("SETTINGS_DB_PATH", "db/settings.db"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		UploadDir:          getEnv("UPLOAD_DIR", "static/uploads"),
		Timezone:           getEnv("TIMEZONE", DefaultTimezone),
		TursoDatabaseURL:   getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:     getEnv("TURSO_AUTH_TOKEN", ""),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		EmailFrom:          getEnv("EMAIL_FROM", "alerts@lawdesk.local"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "LawDesk"),
		EmailTestMode:      getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AlertEmailTo:       getEnv("ALERT_EMAIL_TO", ""),
		AlertLookaheadDays: getEnvInt("ALERT_LOOKAHEAD_DAYS", 1),
		AlertCron:          getEnv("ALERT_CRON", "0 8 * * *"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		ChromePath:         getEnv("CHROME_PATH", ""),
		R2AccountID:        getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:       getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:        getEnv("R2_PUBLIC_URL", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting that would make the app misbehave
func (c *Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_PORT %q is not a port number", c.ServerPort))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	if c.AlertLookaheadDays > MaxAlertLookaheadDays {
		errs = append(errs, fmt.Errorf("ALERT_LOOKAHEAD_DAYS must be at most %d", MaxAlertLookaheadDays))
	}
	if c.Environment == "production" {
		if !c.EmailTestMode && c.ResendAPIKey == "" && c.AlertEmailTo != "" {
			errs = append(errs, errors.New("ALERT_EMAIL_TO is set but RESEND_API_KEY is missing"))
		}
		for _, o := range c.AllowedOrigins {
			if o == "*" {
				errs = append(errs, errors.New("ALLOWED_ORIGINS must list the dashboard origin in production"))
			}
		}
	}
	if r2 := []string{c.R2AccountID, c.R2AccessKeyID, c.R2SecretAccessKey, c.R2BucketName}; !c.R2Configured() && strings.Join(r2, "") != "" {
		errs = append(errs, errors.New("R2 storage needs R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME together"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Location returns the office time zone. Unknown zones fall back to the host zone.
func (c *Config) Location() *time.Location {
	name := c.Timezone
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARNING] Unknown TIMEZONE %q, using local time: %v", name, err)
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] %s is not a number (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// R2Configured reports whether every R2 credential is set
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}
