// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// GatewayConfig provides settings for the WhatsApp gateway client.
type GatewayConfig interface {
	GetGatewayBaseURL() string
	GetGatewayAPIKey() string
	GetGatewayTimeout() time.Duration
}

// StaffConfig provides the internal recipients notified for every event.
type StaffConfig interface {
	GetAdmins() []string
	GetDevContact() string
}

// FollowUpConfig provides the abandoned-cart reminder offsets.
type FollowUpConfig interface {
	GetFollowUpOffsets() []string
	GetFollowUpLocation() *time.Location
}

// PhoneConfig provides the domestic default country code.
type PhoneConfig interface {
	GetDefaultCountryCode() string
}

// ProspectingConfig provides lead resampling settings.
type ProspectingConfig interface {
	GetProspectSampleCount() int
	GetProspectWindowRows() int
	GetProspectStalenessDays() int
	GetProspectInterval() time.Duration
}

// SheetsConfig provides settings for the remote lead sheet.
type SheetsConfig interface {
	GetGoogleCredentialsFile() string
	GetGoogleSpreadsheetID() string
	GetGoogleSheetName() string
	IsSheetsEnabled() bool
}

// WorkbookConfig provides the local workbook location.
type WorkbookConfig interface {
	GetWorkbookPath() string
}

// CatalogConfig provides settings for the store catalog API.
type CatalogConfig interface {
	GetCatalogURL() string
	GetCatalogKey() string
	GetCatalogSecret() string
	IsCatalogEnabled() bool
}

// SchedulerConfig provides settings for the asynq scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetAdminToken() string
}

// WebhookConfig provides settings for inbound webhook verification.
type WebhookConfig interface {
	GetWebhookSecret() string
}

// AlertConfig provides settings for developer alert e-mails.
type AlertConfig interface {
	GetAlertSMTPHost() string
	GetAlertSMTPPort() int
	GetAlertSMTPUsername() string
	GetAlertSMTPPassword() string
	GetAlertFromAddress() string
	GetAlertToAddress() string
	IsAlertMailEnabled() bool
}

// =============================================================================
// Config
// =============================================================================

// Config holds all application settings. It is built once by Load and never mutated.
type Config struct {
	Env                   string
	HTTPAddr              string
	CORSOrigins           []string
	AdminToken            string
	GatewayBaseURL        string
	GatewayAPIKey         string
	GatewayTimeout        time.Duration
	Admins                []string
	DevContact            string
	FollowUpOffsets       []string
	FollowUpLocation      *time.Location
	DefaultCountryCode    string
	ProspectSampleCount   int
	ProspectWindowRows    int
	ProspectStalenessDays int
	ProspectInterval      time.Duration
	GoogleCredentialsFile string
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	WorkbookPath          string
	CatalogURL            string
	CatalogKey            string
	CatalogSecret         string
	RedisURL              string
	RedisTLSInsecure      bool
	AsynqQueueName        string
	AsynqConcurrency      int
	DatabaseURL           string
	WebhookSecret         string
	AlertSMTPHost         string
	AlertSMTPPort         int
	AlertSMTPUsername     string
	AlertSMTPPassword     string
	AlertFromAddress      string
	AlertToAddress        string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// GatewayConfig implementation
func (c *Config) GetGatewayBaseURL() string        { return c.GatewayBaseURL }
func (c *Config) GetGatewayAPIKey() string         { return c.GatewayAPIKey }
func (c *Config) GetGatewayTimeout() time.Duration { return c.GatewayTimeout }

// StaffConfig implementation
func (c *Config) GetAdmins() []string   { return append([]string(nil), c.Admins...) }
func (c *Config) GetDevContact() string { return c.DevContact }

// FollowUpConfig implementation
func (c *Config) GetFollowUpOffsets() []string        { return append([]string(nil), c.FollowUpOffsets...) }
func (c *Config) GetFollowUpLocation() *time.Location { return c.FollowUpLocation }

// PhoneConfig implementation
func (c *Config) GetDefaultCountryCode() string { return c.DefaultCountryCode }

// ProspectingConfig implementation
func (c *Config) GetProspectSampleCount() int        { return c.ProspectSampleCount }
func (c *Config) GetProspectWindowRows() int         { return c.ProspectWindowRows }
func (c *Config) GetProspectStalenessDays() int      { return c.ProspectStalenessDays }
func (c *Config) GetProspectInterval() time.Duration { return c.ProspectInterval }

// SheetsConfig implementation
func (c *Config) GetGoogleCredentialsFile() string { return c.GoogleCredentialsFile }
func (c *Config) GetGoogleSpreadsheetID() string   { return c.GoogleSpreadsheetID }
func (c *Config) GetGoogleSheetName() string       { return c.GoogleSheetName }
func (c *Config) IsSheetsEnabled() bool {
	return c.GoogleCredentialsFile != "" && c.GoogleSpreadsheetID != ""
}

// WorkbookConfig implementation
func (c *Config) GetWorkbookPath() string { return c.WorkbookPath }

// CatalogConfig implementation
func (c *Config) GetCatalogURL() string    { return c.CatalogURL }
func (c *Config) GetCatalogKey() string    { return c.CatalogKey }
func (c *Config) GetCatalogSecret() string { return c.CatalogSecret }
func (c *Config) IsCatalogEnabled() bool   { return c.CatalogURL != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetAdminToken() string    { return c.AdminToken }

// WebhookConfig implementation
func (c *Config) GetWebhookSecret() string { return c.WebhookSecret }

// AlertConfig implementation
func (c *Config) GetAlertSMTPHost() string     { return c.AlertSMTPHost }
func (c *Config) GetAlertSMTPPort() int        { return c.AlertSMTPPort }
func (c *Config) GetAlertSMTPUsername() string { return c.AlertSMTPUsername }
func (c *Config) GetAlertSMTPPassword() string { return c.AlertSMTPPassword }
func (c *Config) GetAlertFromAddress() string  { return c.AlertFromAddress }
func (c *Config) GetAlertToAddress() string    { return c.AlertToAddress }
func (c *Config) IsAlertMailEnabled() bool {
	return c.AlertSMTPHost != "" && c.AlertToAddress != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	location, err := time.LoadLocation(getEnv("FOLLOWUP_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("FOLLOWUP_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "")),
		AdminToken:            getEnv("ADMIN_TOKEN", ""),
		GatewayBaseURL:        getEnv("WOOWA_BASE_URL", ""),
		GatewayAPIKey:         getEnv("WOOWA_API_KEY", ""),
		GatewayTimeout:        mustDuration(getEnv("WOOWA_TIMEOUT", "15s")),
		Admins:                splitCSV(getEnv("ADMINS", "")),
		DevContact:            strings.TrimSpace(getEnv("DEV_CONTACT", "")),
		FollowUpOffsets:       splitList(getEnv("CA_INTERVALS", "+1 day, +3 days"), ", "),
		FollowUpLocation:      location,
		DefaultCountryCode:    getEnv("DEFAULT_COUNTRY_CODE", "+237"),
		ProspectSampleCount:   mustPositiveInt(getEnv("PROSPECT_SAMPLE_COUNT", "1"), 1),
		ProspectWindowRows:    mustPositiveInt(getEnv("PROSPECT_WINDOW_ROWS", "300"), 300),
		ProspectStalenessDays: mustPositiveInt(getEnv("PROSPECT_STALENESS_DAYS", "3"), 3),
		ProspectInterval:      mustDuration(getEnv("PROSPECT_INTERVAL", "1h")),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
		WorkbookPath:          getEnv("WORKBOOK_PATH", "files/data.xlsx"),
		CatalogURL:            strings.TrimRight(getEnv("WOOCOMMERCE_URL", ""), "/"),
		CatalogKey:            getEnv("WOOCOMMERCE_KEY", ""),
		CatalogSecret:         getEnv("WOOCOMMERCE_SECRET", ""),
		RedisURL:              getEnv("REDIS_URL", ""),
		RedisTLSInsecure:      strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:      mustPositiveInt(getEnv("ASYNQ_CONCURRENCY", "1"), 1),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		WebhookSecret:         getEnv("WEBHOOK_SECRET", ""),
		AlertSMTPHost:         getEnv("ALERT_SMTP_HOST", ""),
		AlertSMTPPort:         mustPositiveInt(getEnv("ALERT_SMTP_PORT", "587"), 587),
		AlertSMTPUsername:     getEnv("ALERT_SMTP_USERNAME", ""),
		AlertSMTPPassword:     getEnv("ALERT_SMTP_PASSWORD", ""),
		AlertFromAddress:      getEnv("ALERT_FROM_ADDRESS", ""),
		AlertToAddress:        getEnv("ALERT_TO_ADDRESS", ""),
	}

	if cfg.GatewayBaseURL == "" || cfg.GatewayAPIKey == "" {
		return nil, fmt.Errorf("WOOWA_BASE_URL and WOOWA_API_KEY are required")
	}
	if len(cfg.Admins) == 0 {
		return nil, fmt.Errorf("ADMINS must list at least one staff recipient")
	}
	if cfg.ProspectInterval <= 0 {
		return nil, fmt.Errorf("PROSPECT_INTERVAL must be a positive duration")
	}
	if cfg.IsAlertMailEnabled() && cfg.AlertFromAddress == "" {
		return nil, fmt.Errorf("ALERT_FROM_ADDRESS is required when ALERT_SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustPositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	return splitList(value, ",")
}

func splitList(value, sep string) []string {
	parts := strings.Split(value, sep)
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
