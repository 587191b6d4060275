// Package config loads process configuration from the environment.
// Modules depend on the narrow interfaces below rather than on *Config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig interface {
	GetDatabaseURL() string
	GetMigrationsDir() string
}

type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// StorageConfig configures the S3-compatible photo store.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetPhotoBucket() string
	GetMaxPhotoSize() int64
}

type RedisConfig interface {
	GetRedisURL() string
}

// SchedulerConfig configures the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetWorkerConcurrency() int
}

// PropertyConfig configures the RentCast lookup.
type PropertyConfig interface {
	GetRentCastAPIKey() string
	GetRentCastBaseURL() string
	GetPropertyCacheTTL() time.Duration
	IsPropertyLookupEnabled() bool
}

// PredictionConfig selects and configures the model behind predictions.
type PredictionConfig interface {
	GetPredictionProvider() string
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetOpenAIModel() string
	GetAnthropicAPIKey() string
	GetAnthropicModel() string
	GetPredictionTimeout() time.Duration
}

// AuthConfig configures the admin login and session store.
type AuthConfig interface {
	RedisConfig
	GetAdminPassword() string
	GetAdminPasswordHash() string
	GetAdminSessionTTL() time.Duration
}

// PhotoLinkConfig configures the signed links that open the photo flow.
type PhotoLinkConfig interface {
	GetAppBaseURL() string
	GetPhotoLinkSecret() string
	GetPhotoLinkTTL() time.Duration
}

// EmailConfig configures SMTP delivery of admin notifications.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetNotifyAddress() string
	GetAppBaseURL() string
}

// Config holds all configuration values.
type Config struct {
	Env           string
	HTTPAddr      string
	DatabaseURL   string
	MigrationsDir string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool
	AppBaseURL     string

	RedisURL          string
	WorkerConcurrency int

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	PhotoBucket    string
	MaxPhotoSize   int64

	RentCastAPIKey   string
	RentCastBaseURL  string
	PropertyCacheTTL time.Duration

	PredictionProvider string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	AnthropicAPIKey    string
	AnthropicModel     string
	PredictionTimeout  time.Duration

	AdminPassword     string
	AdminPasswordHash string
	AdminSessionTTL   time.Duration
	PhotoLinkSecret   string
	PhotoLinkTTL      time.Duration

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	NotifyAddress    string
}

func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetMigrationsDir() string { return c.MigrationsDir }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }

func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetWorkerConcurrency() int { return c.WorkerConcurrency }

func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetPhotoBucket() string    { return c.PhotoBucket }
func (c *Config) GetMaxPhotoSize() int64    { return c.MaxPhotoSize }

func (c *Config) GetRentCastAPIKey() string          { return c.RentCastAPIKey }
func (c *Config) GetRentCastBaseURL() string         { return c.RentCastBaseURL }
func (c *Config) GetPropertyCacheTTL() time.Duration { return c.PropertyCacheTTL }
func (c *Config) IsPropertyLookupEnabled() bool      { return c.RentCastAPIKey != "" }

func (c *Config) GetPredictionProvider() string       { return c.PredictionProvider }
func (c *Config) GetOpenAIAPIKey() string             { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIBaseURL() string            { return c.OpenAIBaseURL }
func (c *Config) GetOpenAIModel() string              { return c.OpenAIModel }
func (c *Config) GetAnthropicAPIKey() string          { return c.AnthropicAPIKey }
func (c *Config) GetAnthropicModel() string           { return c.AnthropicModel }
func (c *Config) GetPredictionTimeout() time.Duration { return c.PredictionTimeout }

func (c *Config) GetAdminPassword() string          { return c.AdminPassword }
func (c *Config) GetAdminPasswordHash() string      { return c.AdminPasswordHash }
func (c *Config) GetAdminSessionTTL() time.Duration { return c.AdminSessionTTL }
func (c *Config) GetPhotoLinkSecret() string        { return c.PhotoLinkSecret }
func (c *Config) GetPhotoLinkTTL() time.Duration    { return c.PhotoLinkTTL }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetNotifyAddress() string    { return c.NotifyAddress }

// Load reads .env (if present) and the process environment and checks the
// settings the API server and worker cannot run without.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads configuration without validation. Tools that need only a
// subset of the settings check what they use themselves.
func Read() *Config {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	return &Config{
		Env:           getEnv("APP_ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":3001"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		AppBaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:5173"), "/"),

		RedisURL:          getEnv("REDIS_URL", ""),
		WorkerConcurrency: mustInt(getEnv("WORKER_CONCURRENCY", "5"), 5),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		PhotoBucket:    getEnv("MINIO_BUCKET_LEAD_PHOTOS", "lead-photos"),
		MaxPhotoSize:   mustInt64(getEnv("MAX_PHOTO_SIZE", "15728640")),

		RentCastAPIKey:   getEnv("RENTCAST_API_KEY", ""),
		RentCastBaseURL:  getEnv("RENTCAST_BASE_URL", "https://api.rentcast.io/v1"),
		PropertyCacheTTL: mustDuration(getEnv("PROPERTY_CACHE_TTL", "24h")),

		PredictionProvider: strings.ToLower(getEnv("PREDICTION_PROVIDER", "openai")),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-5.2"),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		PredictionTimeout:  mustDuration(getEnv("PREDICTION_TIMEOUT", "90s")),

		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminSessionTTL:   mustDuration(getEnv("ADMIN_SESSION_TTL", "12h")),
		PhotoLinkSecret:   getEnv("PHOTO_LINK_SECRET", ""),
		PhotoLinkTTL:      mustDuration(getEnv("PHOTO_LINK_TTL", "168h")),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Heat Pump Quotes"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		NotifyAddress:    getEnv("NOTIFY_ADDRESS", ""),
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if c.PhotoLinkSecret == "" {
		return fmt.Errorf("PHOTO_LINK_SECRET is required")
	}
	switch c.PredictionProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when PREDICTION_PROVIDER is openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when PREDICTION_PROVIDER is anthropic")
		}
	default:
		return fmt.Errorf("unknown PREDICTION_PROVIDER %q", c.PredictionProvider)
	}
	if c.EmailEnabled && (c.EmailFromAddress == "" || c.NotifyAddress == "") {
		return fmt.Errorf("EMAIL_FROM_ADDRESS and NOTIFY_ADDRESS are required when email is enabled")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
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

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustInt(value string, fallback int) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || result <= 0 {
		return fallback
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
