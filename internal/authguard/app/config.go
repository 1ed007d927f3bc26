package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	JWTSecret        string        // Required: HS256 signing secret for access and temporary tokens
	JWTExpiresIn     time.Duration // Optional: access token lifetime (default: 15m)
	JWTRefreshSecret string        // Optional: enables refresh tokens when set
	JWTRefreshTTL    time.Duration // Optional: refresh token lifetime (default: 7d)
	JWTIssuer        string        // Optional: iss claim (default: authguard)
	MFAIssuer        string        // Optional: issuer shown in authenticator apps (default: authguard)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Required for postgres: connection string
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ConfigKey documents one environment variable.
type ConfigKey struct {
	Name        string
	Default     string
	Description string
}

// ConfigKeys lists every variable LoadConfig reads.
func ConfigKeys() []ConfigKey {
	return []ConfigKey{
		{"JWT_SECRET", "", "signing secret for access and temporary tokens (required)"},
		{"JWT_EXPIRES_IN", "15m", "access token lifetime"},
		{"JWT_REFRESH_SECRET", "", "signing secret for refresh tokens, refresh is disabled when empty"},
		{"JWT_REFRESH_EXPIRES_IN", "7d", "refresh token lifetime"},
		{"JWT_ISSUER", "authguard", "iss claim of issued tokens"},
		{"MFA_ISSUER", "authguard", "issuer label shown in authenticator apps"},
		{"AUTH_DATABASE_DRIVER", DriverSQLite, "sqlite or postgres"},
		{"AUTH_DATABASE_FILE", "auth.db", "SQLite database file"},
		{"AUTH_DATABASE_URL", "", "Postgres connection string"},
		{"AUTH_PEPPER_FILE", "pepper", "password pepper file, created on first start"},
		{"ENV", "dev", "environment name"},
		{"LOG_LEVEL", "info", "debug, info, warn or error"},
		{"LOG_FORMAT", "json", "json or text"},
		{"PORT", "8080", "HTTP listen port"},
		{"SHUTDOWN_GRACE_PERIOD", "10s", "graceful shutdown timeout"},
	}
}

// LoadConfig reads the environment. A .env file in the working directory is
// loaded first if present; variables already set win.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiresIn:     getEnvDurationOrDefault("JWT_EXPIRES_IN", 15*time.Minute),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTRefreshTTL:    getEnvDurationOrDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		JWTIssuer:        getEnvOrDefault("JWT_ISSUER", "authguard"),
		MFAIssuer:        getEnvOrDefault("MFA_ISSUER", "authguard"),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate reports configuration the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTRefreshSecret != "" && c.JWTRefreshSecret == c.JWTSecret {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET must differ from JWT_SECRET"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

// ParseDuration accepts Go duration syntax ("90s", "1h30m") plus a whole
// number of days ("7d").
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}
