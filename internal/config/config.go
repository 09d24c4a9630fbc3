package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

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
	DBConnMaxIdleTime int

	Gateway GatewayConfig
}

// GatewayConfig configures the tax-authority submission endpoint.
type GatewayConfig struct {
	BaseURL   string
	Token     string
	TestSetID string
	Timeout   time.Duration

	// Production selects type_document_id 1; otherwise documents are
	// submitted to the habilitation (test) environment as type 2.
	Production bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "facturel"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "facturel"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		Gateway: GatewayConfig{
			BaseURL:    strings.TrimRight(getenv("GATEWAY_BASE_URL", "http://localhost:8085"), "/"),
			Token:      strings.TrimSpace(getenv("GATEWAY_TOKEN", "")),
			TestSetID:  strings.TrimSpace(getenv("GATEWAY_TEST_SET_ID", "")),
			Timeout:    time.Duration(getenvInt("GATEWAY_TIMEOUT_SECONDS", 60)) * time.Second,
			Production: getenvBool("GATEWAY_PRODUCTION", environment == "production"),
		},
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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
