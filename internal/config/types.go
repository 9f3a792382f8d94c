package config

import "time"

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	ClientURL   string

	DatabaseURL string
	RedisURL    string

	JWTSecret     string
	JWTExpiresIn  time.Duration
	SessionSecret string
	SessionTTL    time.Duration

	AuthRateLimit string

	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
}

// reports whether cookies should carry the Secure attribute
func (c *Config) SecureCookies() bool {
	return len(c.BaseURL) >= 8 && c.BaseURL[:8] == "https://"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

type Flags struct {
	MigrateOnly    bool
	SkipMigrations bool
}
