// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPPort    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	// Document AI processor endpoint settings.
	DocAIEndpoint    string
	DocAIProjectID   string
	DocAILocation    string
	DocAIProcessorID string
	DocAIAccessToken string

	// Blob storage.
	BlobBucket string
	BlobRoot   string

	// Batch uploads never run totals validation; the single-document
	// review flow always does. The flag exists so the divergence is
	// explicit rather than buried in two call sites.
	BatchRunTotalsValidation bool

	MetricsEnabled bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "clark"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPPort:    getenv("PORT", "3001"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "clark"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		DocAIEndpoint:    getenv("DOCAI_ENDPOINT", "https://us-documentai.googleapis.com"),
		DocAIProjectID:   getenv("DOCAI_PROJECT_ID", ""),
		DocAILocation:    getenv("DOCAI_LOCATION", "us"),
		DocAIProcessorID: getenv("DOCAI_PROCESSOR_ID", ""),
		DocAIAccessToken: strings.TrimSpace(getenv("DOCAI_ACCESS_TOKEN", "")),

		BlobBucket: getenv("BLOB_BUCKET", "clark-documents"),
		BlobRoot:   getenv("BLOB_ROOT", "./data"),

		BatchRunTotalsValidation: getenvBool("BATCH_RUN_TOTALS_VALIDATION", false),

		MetricsEnabled: getenvBool("METRICS_ENABLED", true),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Module provides the application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)
