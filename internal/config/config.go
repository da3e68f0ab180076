// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion    string
	S3Bucket     string
	ReportBucket string

	// Database
	DatabaseURLOverride string
	DBHost              string
	DBPort              int
	DBName              string
	DBUser              string
	DBPassword          string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ProfileTTL    time.Duration

	// SES
	SESSenderEmail string

	// Matching
	MatcherTopN int

	// Application
	Stage    string
	LogLevel string
	Port     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:     getEnv("S3_BUCKET", "fundability-catalog-dev"),
		ReportBucket: getEnv("REPORT_BUCKET", ""),

		// Database
		DatabaseURLOverride: getEnv("DATABASE_URL", ""),
		DBHost:              getEnv("DB_HOST", getEnv("FUNDABILITY_DB_HOST", "localhost")),
		DBPort:              getEnvInt("DB_PORT", getEnvInt("FUNDABILITY_DB_PORT", 5432)),
		DBName:              getEnv("DB_NAME", getEnv("FUNDABILITY_DB_NAME", "fundability")),
		DBUser:              getEnv("DB_USER", getEnv("FUNDABILITY_DB_USER", "postgres")),
		DBPassword:          getEnv("DB_PASSWORD", getEnv("FUNDABILITY_DB_PASSWORD", "")),

		// Redis
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		ProfileTTL:    time.Duration(getEnvInt("PROFILE_CACHE_TTL_SECONDS", 900)) * time.Second,

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		// Matching
		MatcherTopN: getEnvInt("MATCHER_TOP_N", 5),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	if c.DatabaseURLOverride != "" {
		return c.DatabaseURLOverride
	}
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// DatabaseConfigured reports whether enough settings exist to try a connection.
func (c *Config) DatabaseConfigured() bool {
	return c.DBPassword != "" || c.DatabaseURLOverride != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
