package application

import (
	"os"
	"strconv"
	"strings"
)

// SMTPConfig holds the SMTP transport parameters for email alerts
type SMTPConfig struct {
	Server    string
	Port      int
	UseTLS    bool
	FromEmail string
	ToEmails  []string
	Username  string
	Password  string
}

// RuntimeConfig holds all runtime configuration from CLI flags, environment variables, and .env file
type RuntimeConfig struct {
	// API Configuration
	APIKey  string
	APIPort string

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// External collaborators
	DatabaseURL string
	StorageURL  string
	StorageKey  string

	// Alerting Configuration
	EmailAlertsEnabled   bool
	SlackWebhookURL      string
	SMTP                 SMTPConfig
	AlertIntervalSeconds int
}

// Flags carries CLI flag values into config resolution. Empty values
// fall through to environment variables and defaults.
type Flags struct {
	APIKey      string
	APIPort     string
	LogLevel    string
	LogFormat   string
	LogOutput   string
	DatabaseURL string
	StorageURL  string
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults
func LoadRuntimeConfig(flags Flags) *RuntimeConfig {
	cfg := &RuntimeConfig{
		APIKey:      getValue(flags.APIKey, "IMMIGRATION_API_KEY", ""),
		APIPort:     getValue(flags.APIPort, "IMMIGRATION_API_PORT", "8080"),
		LogLevel:    getValue(flags.LogLevel, "IMMIGRATION_LOG_LEVEL", "INFO"),
		LogFormat:   getValue(flags.LogFormat, "IMMIGRATION_LOG_FORMAT", "text"),
		LogOutput:   getValue(flags.LogOutput, "IMMIGRATION_LOG_OUTPUT", "stdout"),
		DatabaseURL: getValue(flags.DatabaseURL, "IMMIGRATION_DATABASE_URL", ""),
		StorageURL:  getValue(flags.StorageURL, "IMMIGRATION_STORAGE_URL", ""),
		StorageKey:  getValue("", "IMMIGRATION_STORAGE_KEY", ""),

		EmailAlertsEnabled: getBoolEnv("IMMIGRATION_EMAIL_ALERTS_ENABLED", false),
		SlackWebhookURL:    getValue("", "IMMIGRATION_SLACK_WEBHOOK_URL", ""),
		SMTP: SMTPConfig{
			Server:    getValue("", "IMMIGRATION_SMTP_SERVER", ""),
			Port:      getIntEnv("IMMIGRATION_SMTP_PORT", 587),
			UseTLS:    getBoolEnv("IMMIGRATION_SMTP_USE_TLS", true),
			FromEmail: getValue("", "IMMIGRATION_SMTP_FROM_EMAIL", "alerts@immigrationai.com"),
			ToEmails:  getListEnv("IMMIGRATION_SMTP_TO_EMAILS"),
			Username:  getValue("", "IMMIGRATION_SMTP_USERNAME", ""),
			Password:  getValue("", "IMMIGRATION_SMTP_PASSWORD", ""),
		},
		AlertIntervalSeconds: getIntEnv("IMMIGRATION_ALERT_INTERVAL", 300),
	}

	return cfg
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getListEnv gets a comma-separated environment variable as a slice
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Validate checks that required configuration is present
func (c *RuntimeConfig) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "api-key", Message: "API key is required (set IMMIGRATION_API_KEY or use --api-key flag)"}
	}
	if c.EmailAlertsEnabled {
		if c.SMTP.Server == "" {
			return &ConfigError{Field: "smtp-server", Message: "SMTP server is required when email alerts are enabled"}
		}
		if len(c.SMTP.ToEmails) == 0 {
			return &ConfigError{Field: "smtp-to-emails", Message: "at least one recipient is required when email alerts are enabled"}
		}
	}
	if c.AlertIntervalSeconds <= 0 {
		return &ConfigError{Field: "alert-interval", Message: "alert interval must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
