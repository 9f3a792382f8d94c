package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTExpiresIn  = 7 * 24 * time.Hour
	defaultSessionTTL    = 24 * time.Hour
	defaultPort          = "4000"
	defaultClientURL     = "http://localhost:3000"
	defaultAuthRateLimit = "10-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnvironment(os.Getenv)
}

// builds the config from a lookup function (os.Getenv in production)
func FromEnvironment(getenv func(string) string) (*Config, error) {
	databaseURL := getenv("DATABASE_URL")
	jwtSecret := getenv("JWT_SECRET")
	sessionSecret := getenv("SESSION_SECRET")

	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	jwtExpiresIn, err := durationOrDefault(getenv("JWT_EXPIRES_IN"), defaultJWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}

	sessionTTL, err := durationOrDefault(getenv("SESSION_TTL"), defaultSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	environment := orDefault(getenv("ENVIRONMENT"), "development")
	port := orDefault(getenv("PORT"), defaultPort)

	return &Config{
		Environment:        environment,
		Port:               port,
		BaseURL:            orDefault(getenv("BASE_URL"), "http://localhost:"+port),
		ClientURL:          orDefault(getenv("CLIENT_URL"), defaultClientURL),
		DatabaseURL:        databaseURL,
		RedisURL:           getenv("REDIS_URL"),
		JWTSecret:          jwtSecret,
		JWTExpiresIn:       jwtExpiresIn,
		SessionSecret:      sessionSecret,
		SessionTTL:         sessionTTL,
		AuthRateLimit:      orDefault(getenv("AUTH_RATE_LIMIT"), defaultAuthRateLimit),
		GoogleClientID:     getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET"),
		GitHubClientID:     getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET"),
	}, nil
}

// parses a Go duration or the "7d" day shorthand used by token expiry settings
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", value)
		}

		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", value)
	}

	return d, nil
}

func durationOrDefault(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	return ParseDuration(value)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
