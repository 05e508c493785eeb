package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	CORS         CORSConfig
	Attendance   AttendanceConfig
	Dynamo       DynamoConfig
	DefaultAdmin DefaultAdminConfig
	Auth         AuthConfig
}

type DatabaseConfig struct {
	// URL overrides the discrete fields below when set.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	// PurgeInterval is how often expired revocations are dropped.
	PurgeInterval time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AttendanceConfig struct {
	// Store selects the attendance backend: postgres or dynamodb.
	Store string
}

type DynamoConfig struct {
	Mode            string
	Endpoint        string
	Region          string
	AttendanceTable string
}

type DefaultAdminConfig struct {
	Name     string
	Email    string
	Password string
}

type AuthConfig struct {
	AllowedEmailDomain string
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "seunits_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", getEnv("PORT", "5000")))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Name:            getEnv("APP_NAME", "seunits-attendance"),
		Version:         getEnv("APP_VERSION", "v1.0.0"),
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: shutdownTimeout,
	}

	// JWT configuration
	purgeInterval, err := getEnvDuration("JWT_REVOCATION_PURGE_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", getEnv("JWT_SECRET", "")),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "168h"),
		PurgeInterval:    purgeInterval,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174,http://localhost:3000"),
	}

	config.Attendance = AttendanceConfig{
		Store: strings.ToLower(getEnv("ATTENDANCE_STORE", StorePostgres)),
	}

	config.Dynamo = DynamoConfig{
		Mode:            strings.ToLower(getEnv("DYNAMODB_MODE", "local")),
		Endpoint:        getEnv("DYNAMODB_ENDPOINT", "http://localhost:8000"),
		Region:          getEnv("AWS_REGION", "ap-south-1"),
		AttendanceTable: getEnv("DYNAMODB_ATTENDANCE_TABLE", "Attendance"),
	}

	config.DefaultAdmin = DefaultAdminConfig{
		Name:     getEnv("DEFAULT_ADMIN_NAME", "SEUnits Admin"),
		Email:    strings.ToLower(getEnv("DEFAULT_ADMIN_EMAIL", "admin@seunits.com")),
		Password: getEnv("DEFAULT_ADMIN_PASSWORD", ""),
	}

	config.Auth = AuthConfig{
		AllowedEmailDomain: strings.ToLower(getEnv("ALLOWED_EMAIL_DOMAIN", "seunits.com")),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not allow every origin")
		}
	}

	switch c.Attendance.Store {
	case StorePostgres:
	case StoreDynamoDB:
		if c.Dynamo.Mode != "local" && c.Dynamo.Mode != "aws" {
			return fmt.Errorf("DYNAMODB_MODE must be local or aws, got %q", c.Dynamo.Mode)
		}
		if c.Dynamo.Mode == "local" && c.Dynamo.Endpoint == "" {
			return fmt.Errorf("DYNAMODB_ENDPOINT is required in local mode")
		}
		if c.Dynamo.AttendanceTable == "" {
			return fmt.Errorf("DYNAMODB_ATTENDANCE_TABLE is required")
		}
	default:
		return fmt.Errorf("ATTENDANCE_STORE must be %s or %s, got %q", StorePostgres, StoreDynamoDB, c.Attendance.Store)
	}

	if c.DefaultAdmin.Email != "" && c.DefaultAdmin.Password == "" {
		slog.Warn("DEFAULT_ADMIN_PASSWORD is empty, default admin will not be created")
		c.DefaultAdmin.Email = ""
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	result := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
