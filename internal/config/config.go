package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	AI       AIConfig
	Search   SearchConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig holds Postgres connection settings. When URL is empty the
// application runs on in-memory repositories.
type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" default:""`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET" default:""`
	TokenTTL  time.Duration `envconfig:"JWT_TOKEN_TTL" default:"72h"`
}

// CacheConfig holds classification-cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"12h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// AIConfig holds the completion-service endpoint used for product
// classification and attribute extraction.
type AIConfig struct {
	BaseURL string        `envconfig:"AI_BASE_URL" default:""`
	APIKey  string        `envconfig:"AI_API_KEY" default:""`
	Model   string        `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"AI_TIMEOUT" default:"15s"`
}

// SearchConfig holds the product-search collaborator endpoint. When BaseURL
// is empty the built-in simulated search is used instead.
type SearchConfig struct {
	BaseURL string        `envconfig:"SEARCH_BASE_URL" default:""`
	Timeout time.Duration `envconfig:"SEARCH_TIMEOUT" default:"10s"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
