package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Storage drivers.
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port          string
	LogLevel      string
	DefaultUserID string
	// ReportsPerMinute caps report downloads per user.
	ReportsPerMinute int
	ReportBurst      int
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. An
// empty AccessToken disables outbound messages.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerPhone  string
}

// Enabled reports whether outbound WhatsApp messages can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// SheetsConfig contains the Google Sheets ledger mirror settings. The mirror
// is off when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the ledger mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	DigestSchedule       string
	NotificationSchedule string
	Timezone             string
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	reportsPerMinute, err := getenvInt("REPORT_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, err
	}
	reportBurst, err := getenvInt("REPORT_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getenvWithDefault("APP_PORT", "8080"),
			LogLevel:      getenvWithDefault("LOG_LEVEL", "info"),
			DefaultUserID: getenvWithDefault("DEFAULT_USER_ID", "farm"),

			ReportsPerMinute: reportsPerMinute,
			ReportBurst:      reportBurst,
		},
		Storage: StorageConfig{
			Driver: getenvWithDefault("STORAGE_DRIVER", StorageMongoDB),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "dairy"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerPhone:  os.Getenv("MANAGER_PHONE"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			DigestSchedule:       getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			NotificationSchedule: getenvWithDefault("NOTIFICATION_CRON_SCHEDULE", "0 9 * * *"),
			Timezone:             getenvWithDefault("TIMEZONE", "Asia/Karachi"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Server.DefaultUserID == "" {
		return errors.New("DEFAULT_USER_ID must not be empty")
	}
	if c.Server.ReportsPerMinute <= 0 || c.Server.ReportBurst <= 0 {
		return errors.New("REPORT_RATE_PER_MINUTE and REPORT_RATE_BURST must be positive")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must be provided")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		case c.WhatsApp.ManagerPhone == "":
			return errors.New("MANAGER_PHONE must be provided when WhatsApp is enabled")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	}

	if _, err := cron.ParseStandard(c.Reporting.DigestSchedule); err != nil {
		return fmt.Errorf("invalid REPORT_CRON_SCHEDULE: %w", err)
	}
	if _, err := cron.ParseStandard(c.Reporting.NotificationSchedule); err != nil {
		return fmt.Errorf("invalid NOTIFICATION_CRON_SCHEDULE: %w", err)
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
