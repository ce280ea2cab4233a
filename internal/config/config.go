package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Files
	LedgerPath   string
	SettingsPath string
	ChartPath    string

	// Storage
	DataBackend  string
	SQLiteDBPath string

	// Logging
	LogLevel string

	// AMQP report queue
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Email
	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Delivery of reports to optional sinks
	DeliveryTimeout time.Duration
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

func Load() *Config {
	cfg := &Config{
		LedgerPath:   getEnv("LEDGER_PATH", "data.json"),
		SettingsPath: getEnv("SETTINGS_PATH", "settings.json"),
		ChartPath:    getEnv("CHART_PATH", ""),

		DataBackend:  getEnv("DATA_BACKEND", BackendJSON),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/shoppingstats.db"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "shoppingstats"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "monthly_reports"),

		SMTPHost:  getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvInt("SMTP_PORT", 465),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Averages"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		DeliveryTimeout: getEnvDuration("DELIVERY_TIMEOUT", 30*time.Second),
	}

	return cfg
}

// EmailEnabled reports whether report emails can be sent.
func (c *Config) EmailEnabled() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// SheetsEnabled reports whether averages are exported to a spreadsheet.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// QueueEnabled reports whether reports go through the AMQP queue.
func (c *Config) QueueEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.DataBackend {
	case BackendJSON:
		if c.LedgerPath == "" {
			errors = append(errors, "ledger path cannot be empty when using json backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendJSON, BackendSQLite))
	}

	if c.SettingsPath == "" {
		errors = append(errors, "settings path cannot be empty")
	}

	if c.ChartPath != "" && !strings.HasSuffix(strings.ToLower(c.ChartPath), ".xlsx") {
		errors = append(errors, fmt.Sprintf("invalid chart path '%s': must end in .xlsx", c.ChartPath))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Email credentials come in pairs
	if (c.EmailUser == "") != (c.EmailPass == "") {
		errors = append(errors, "EMAIL_USER and EMAIL_PASS must be set together")
	}
	if c.EmailEnabled() {
		if c.SMTPHost == "" {
			errors = append(errors, "SMTP host cannot be empty when email is enabled")
		}
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			errors = append(errors, fmt.Sprintf("invalid SMTP port %d: must be between 1 and 65535", c.SMTPPort))
		}
	}

	if c.SheetsEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets export")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.DeliveryTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid delivery timeout %v: must be at least 1 second", c.DeliveryTimeout))
	} else if c.DeliveryTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid delivery timeout %v: must be at most 10 minutes", c.DeliveryTimeout))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
