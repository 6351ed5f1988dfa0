package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application settings.
// Read once from the environment at start-up and treated as immutable.
type Config struct {
	// Database
	DatabaseURL      string
	DBConnectRetries int
	DBRetryInterval  time.Duration

	// Auth
	JWTSecret          string
	JWTExpirationHours int64

	// Server
	ServerPort      string
	GinMode         string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// CORS
	CORSAllowedOrigins []string
}

// Load reads Config from environment variables.
// All missing required variables are reported in a single error.
func Load() (*Config, error) {
	cfg := &Config{}
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		dbURL, dbMissing := databaseURLFromParts()
		cfg.DatabaseURL = dbURL
		missing = append(missing, dbMissing...)
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.DBConnectRetries = getEnvInt("DB_CONNECT_RETRIES", 5)
	cfg.DBRetryInterval = getEnvDuration("DB_RETRY_INTERVAL", 5*time.Second)
	cfg.JWTExpirationHours = getEnvInt64("JWT_EXPIRATION_HOURS", 24)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.GinMode = getEnvString("GIN_MODE", "release")
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.CORSAllowedOrigins = splitList(getEnvString("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.JWTExpirationHours <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be positive, got %d", cfg.JWTExpirationHours)
	}

	return cfg, nil
}

// databaseURLFromParts builds a postgres URL from DB_HOST, DB_PORT, DB_USER,
// DB_PASSWORD, DB_NAME and DB_SSLMODE.
func databaseURLFromParts() (string, []string) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	name := os.Getenv("DB_NAME")

	var missing []string
	for _, kv := range [][2]string{{"DB_HOST", host}, {"DB_PORT", port}, {"DB_USER", user}, {"DB_NAME", name}} {
		if kv[1] == "" {
			missing = append(missing, kv[0])
		}
	}
	if len(missing) > 0 {
		return "", []string{"DATABASE_URL (or " + strings.Join(missing, ", ") + ")"}
	}

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, os.Getenv("DB_PASSWORD")),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": {getEnvString("DB_SSLMODE", "disable")}}.Encode(),
	}
	return u.String(), nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
