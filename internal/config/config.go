package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Instagram InstagramConfig
	YouTube   YouTubeConfig
	LinkedIn  LinkedInConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Search    SearchConfig
	Logging   LoggingConfig
}

type SearchConfig struct {
	DefaultPlatforms []string
	Concurrency      int
}

type ServerConfig struct {
	Host string
	Port int
}

type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type InstagramConfig struct {
	BaseURL      string
	AccessTokens []string
}

type YouTubeConfig struct {
	APIKey      string
	AccessToken string
}

type LinkedInConfig struct {
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	APIKey         string
	EnableFallback bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnvInt("POSTGRES_PORT", 5432),
			User:            getEnv("POSTGRES_USER", "panel"),
			Password:        getEnv("POSTGRES_PASSWORD", ""),
			Database:        getEnv("POSTGRES_DB", "influencer_panel"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Instagram: InstagramConfig{
			BaseURL:      getEnv("INSTAGRAM_BASE_URL", "https://graph.instagram.com"),
			AccessTokens: collectAPIKeys("INSTAGRAM_ACCESS_TOKEN_"),
		},
		YouTube: YouTubeConfig{
			APIKey:      getEnv("YOUTUBE_API_KEY", ""),
			AccessToken: getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		},
		LinkedIn: LinkedInConfig{
			BaseURL: getEnv("LINKEDIN_BASE_URL", "https://www.linkedin.com/in"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Search: SearchConfig{
			DefaultPlatforms: parseCommaSeparated(getEnv("SEARCH_PLATFORMS", "instagram,youtube,linkedin")),
			Concurrency:      getEnvInt("SEARCH_CONCURRENCY", 3),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be a valid port, got %d", c.Server.Port)
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if len(c.Instagram.AccessTokens) == 0 && c.YouTube.APIKey == "" {
		return fmt.Errorf("at least one platform credential is required (INSTAGRAM_ACCESS_TOKEN_1 or YOUTUBE_API_KEY)")
	}
	return nil
}

// HasInsights reports whether AI report summaries can be enabled.
func (c *Config) HasInsights() bool {
	return c.Gemini.APIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func collectAPIKeys(prefix string) []string {
	keys := make([]string, 0)
	for i := 1; i <= 5; i++ {
		envKey := fmt.Sprintf("%s%d", prefix, i)
		if value := os.Getenv(envKey); value != "" {
			keys = append(keys, value)
		}
	}
	return keys
}
