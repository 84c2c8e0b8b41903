package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

// Config holds all configuration for the application
type Config struct {
	// Env is "development" or "production"
	Env string

	Server     ServerConfig
	Database   DatabaseConfig
	Email      EmailConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Migrations MigrationsConfig

	LogLevel   string
	BcryptCost int
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DatabaseConfig holds database-related configuration. URL wins over the
// individual parts when both are set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	ApplicationName  string
	MaxConns         int32
	MinConns         int32
	MaxLifetime      time.Duration
	MaxIdleTime      time.Duration
	ConnTimeout      time.Duration
	AcquireTimeout   time.Duration
	StatementTimeout time.Duration

	// TLSInsecure encrypts the connection without verifying the server
	// certificate.
	TLSInsecure bool
}

// EmailConfig holds mail transport configuration. When ResendAPIKey is set
// the Resend API is used, otherwise SMTP.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	UseSSL       bool

	FromEmail  string
	FromName   string
	AdminEmail string

	ResendAPIKey   string
	ResendProbeURL string
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// MigrationsConfig controls schema migrations on boot
type MigrationsConfig struct {
	AutoMigrate bool
	// Dir overrides the embedded migrations when set
	Dir string
}

// Load loads configuration from environment variables, reading ../.env or
// .env first when present. Variables already in the environment win.
func Load() (*Config, error) {
	LoadEnvFile()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile reads ../.env (cmd/ run from its own directory) or .env into
// the environment. A missing file is not an error.
func LoadEnvFile() {
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}
}

// FromEnv builds a Config from the current environment without validating it.
func FromEnv() *Config {
	env := strings.ToLower(getEnv("APP_ENV", getEnv("NODE_ENV", "development")))
	production := env == "production"

	smtpUser := getEnv("SMTP_USERNAME", getEnv("GMAIL_USER", ""))
	smtpPort := getEnv("SMTP_PORT", "465")
	from := getEnv("EMAIL_FROM", smtpUser)

	return &Config{
		Env: env,
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", getEnv("PORT", "8080")),
			ReadHeaderTimeout: getDurationEnv("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:              getEnv("DATABASE_URL", ""),
			Host:             getEnv("DB_HOST", "localhost"),
			Port:             getEnv("DB_PORT", "5432"),
			User:             getEnv("DB_USER", "postgres"),
			Password:         getEnv("DB_PASSWORD", ""),
			Name:             getEnv("DB_NAME", "finmatch"),
			SSLMode:          getEnv("DB_SSLMODE", "disable"),
			ApplicationName:  getEnv("DB_APPLICATION_NAME", "finmatch-backend"),
			MaxConns:         getInt32Env("DB_MAX_CONNS", 10),
			MinConns:         getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:      getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			MaxIdleTime:      getDurationEnv("DB_MAX_IDLE_TIME", 30*time.Second),
			ConnTimeout:      getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			AcquireTimeout:   getDurationEnv("DB_ACQUIRE_TIMEOUT", 5*time.Second),
			StatementTimeout: getDurationEnv("DB_STATEMENT_TIMEOUT", 30*time.Second),
			TLSInsecure:      getBoolEnv("DB_TLS_INSECURE", production),
		},
		Email: EmailConfig{
			SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:       smtpPort,
			SMTPUsername:   smtpUser,
			SMTPPassword:   getEnv("SMTP_PASSWORD", getEnv("GMAIL_APP_PASSWORD", "")),
			UseSSL:         getBoolEnv("SMTP_USE_SSL", smtpPort == "465"),
			FromEmail:      from,
			FromName:       getEnv("EMAIL_FROM_NAME", "FinMatch Service"),
			AdminEmail:     getEnv("ADMIN_EMAIL", from),
			ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
			ResendProbeURL: getEnv("RESEND_PROBE_URL", "https://api.resend.com/"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", false),
		},
		Migrations: MigrationsConfig{
			AutoMigrate: getBoolEnv("AUTO_MIGRATE", false),
			Dir:         getEnv("MIGRATIONS_DIR", ""),
		},
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		BcryptCost: int(getInt32Env("BCRYPT_COST", 10)),
	}
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" && c.Database.Password == "" && c.IsProduction() {
		errs = append(errs, errors.New("DATABASE_URL or DB_PASSWORD is required"))
	}
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errs = append(errs, fmt.Errorf("DATABASE_URL is not a valid URL: %w", err))
		}
	}
	if c.Database.MaxConns < 1 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be at least 1"))
	}
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.IsEmailConfigured() && c.Email.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is required when email is configured"))
	}

	return errors.Join(errs...)
}

// Warnings lists settings that are missing but not fatal. Secret values are
// never included.
func (c *Config) Warnings() []string {
	var w []string
	if !c.IsEmailConfigured() {
		w = append(w, "mail transport credentials not configured; signup confirmations will fail")
	}
	if c.JWT.Secret == defaultJWTSecret {
		w = append(w, "JWT_SECRET not set; using development secret")
	}
	return w
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsEmailConfigured checks if a mail transport is properly configured
func (c *Config) IsEmailConfigured() bool {
	if c.Email.ResendAPIKey != "" {
		return c.Email.FromEmail != ""
	}
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != "" && c.Email.FromEmail != ""
}

// DSN returns the database connection string
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	q.Set("connect_timeout", strconv.Itoa(int(d.ConnTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return defaultValue
	}
	return parts
}
