package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"medicine-chatbot-backend/logger"
)

// Vocabulary refresh policies.
const (
	RefreshManual   = "manual"
	RefreshPeriodic = "periodic"
)

type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	Database DatabaseConfig

	// Matching engine
	Matching MatchingConfig

	// Security
	Security SecurityConfig
}

type DatabaseConfig struct {
	Type     string // "mongodb" or "memory"
	URI      string
	Name     string
	Host     string
	Port     string
	Username string
	Password string

	// Connection pool settings
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	Timeout        time.Duration
}

type MatchingConfig struct {
	// OptionsFile is an optional YAML file overriding scorer weights and thresholds.
	OptionsFile     string
	VocabRefresh    string
	RefreshInterval time.Duration
}

type SecurityConfig struct {
	AllowedOrigins []string
}

var cfg *Config

// Load initializes the configuration
func Load() error {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug().Msg("No .env file found, using environment variables")
	}

	c := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Database: DatabaseConfig{
			Type:     getEnv("DB_TYPE", "mongodb"),
			URI:      getEnv("DATABASE_URL", ""),
			Name:     getEnv("DB_NAME", "medicineDB"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),

			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MinConnections: getEnvAsInt("DB_MIN_CONNECTIONS", 10),
			MaxIdleTime:    getEnvAsDuration("DB_MAX_IDLE_TIME", "30m"),
			Timeout:        getEnvAsDuration("DB_TIMEOUT", "10s"),
		},

		Matching: MatchingConfig{
			OptionsFile:     getEnv("MATCHING_CONFIG", ""),
			VocabRefresh:    strings.ToLower(getEnv("VOCAB_REFRESH", RefreshManual)),
			RefreshInterval: getEnvAsDuration("VOCAB_REFRESH_INTERVAL", "15m"),
		},

		Security: SecurityConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	if err := c.validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg = c
	return nil
}

// Get returns the loaded configuration
func Get() *Config {
	if cfg == nil {
		logger.Log.Fatal().Msg("Configuration not loaded. Call Load() first")
	}
	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	var errs []string

	switch c.Database.Type {
	case "mongodb":
		if c.Database.URI == "" && (c.Database.Host == "" || c.Database.Port == "") {
			errs = append(errs, "database URI or host/port must be provided")
		}
	case "memory":
	default:
		errs = append(errs, fmt.Sprintf("unsupported DB_TYPE %q", c.Database.Type))
	}

	switch c.Matching.VocabRefresh {
	case RefreshManual:
	case RefreshPeriodic:
		if c.Matching.RefreshInterval <= 0 {
			errs = append(errs, "VOCAB_REFRESH_INTERVAL must be positive for periodic refresh")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported VOCAB_REFRESH %q", c.Matching.VocabRefresh))
	}

	if len(errs) > 0 {
		return fmt.Errorf("\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// BuildDatabaseURI constructs the database URI if not provided
func (c *Config) BuildDatabaseURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	if c.Database.Username != "" && c.Database.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
			c.Database.Username,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}
