package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"materihub/internal/domain"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth
	JWTSecret   string
	JWTTTL      time.Duration
	AuthJWKSURL string // Optional: also accept tokens from an external identity provider
	// Google Drive
	Drive DriveConfig
	// Logging
	LogDir      string // Empty = stdout only
	LogMaxFiles int
	// Tracing
	Tracing TracingConfig
}

// TracingConfig selects the span exporter. Tracing is off unless an OTLP
// endpoint is configured or OTEL_TRACES_EXPORTER names an exporter.
type TracingConfig struct {
	Exporter     string // otlp, stdout, none
	OTLPEndpoint string
	OTLPInsecure bool
}

// DriveConfig holds the service account credentials and traversal tuning for Google Drive
type DriveConfig struct {
	ProjectID         string
	ClientEmail       string
	PrivateKey        string // PEM; literal "\n" sequences are unescaped on load
	MaxDepth          int
	Concurrency       int
	RequestsPerSecond float64 // 0 = unlimited
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		JWTSecret:   getEnv("JWT_SECRET", getDefaultJWTSecret(env)),
		JWTTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		AuthJWKSURL: getEnv("AUTH_JWKS_URL", ""),
		Drive: DriveConfig{
			ProjectID:         getEnv("GOOGLE_PROJECT_ID", ""),
			ClientEmail:       getEnv("GOOGLE_CLIENT_EMAIL", ""),
			PrivateKey:        strings.ReplaceAll(getEnv("GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
			MaxDepth:          getEnvInt("DRIVE_MAX_DEPTH", DefaultMaxFolderDepth),
			Concurrency:       getEnvInt("DRIVE_CONCURRENCY", 1),
			RequestsPerSecond: getEnvFloat("DRIVE_REQUESTS_PER_SECOND", 0),
		},
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
		Tracing:     loadTracing(),
	}
}

func loadTracing() TracingConfig {
	endpoint := getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	exporter := "none"
	if endpoint != "" {
		exporter = "otlp"
	}
	return TracingConfig{
		Exporter:     getEnv("OTEL_TRACES_EXPORTER", exporter),
		OTLPEndpoint: endpoint,
		OTLPInsecure: getEnv("OTEL_EXPORTER_OTLP_INSECURE", "") == "true",
	}
}

// Validate reports every missing or malformed setting the server cannot run without.
// The returned error wraps domain.ErrConfiguration.
func (c *Config) Validate() error {
	var problems []string

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is not set")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, "JWT_TTL must be positive")
	}
	if err := c.Drive.Validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks that the Google service account credentials are present.
// Key parsing happens when the Drive client is built.
func (d DriveConfig) Validate() error {
	var missing []string
	if d.ProjectID == "" {
		missing = append(missing, "GOOGLE_PROJECT_ID")
	}
	if d.ClientEmail == "" {
		missing = append(missing, "GOOGLE_CLIENT_EMAIL")
	}
	if d.PrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, ", ") + " not set")
	}
	if d.MaxDepth <= 0 {
		return errors.New("DRIVE_MAX_DEPTH must be positive")
	}
	if d.Concurrency <= 0 {
		return errors.New("DRIVE_CONCURRENCY must be positive")
	}
	if d.RequestsPerSecond < 0 {
		return errors.New("DRIVE_REQUESTS_PER_SECOND cannot be negative")
	}
	return nil
}

// getDefaultJWTSecret returns a fixed secret outside production so local runs work without setup
func getDefaultJWTSecret(env string) string {
	if env == "prod" {
		return ""
	}
	return "dev-insecure-secret"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
