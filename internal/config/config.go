package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cache scope modes
const (
	ScopeRequest = "request"
	ScopeProcess = "process"
)

// envFiles are loaded in order; values already present in the process
// environment always win.
var envFiles = []string{".env.local", ".env"}

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Notion API configuration
	Notion NotionConfig

	// Content pipeline configuration
	Content ContentConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// NotionConfig holds the integration credentials and API settings
type NotionConfig struct {
	Token      string
	DatabaseID string
	BaseURL    string
	Version    string
	Timeout    time.Duration
}

// ContentConfig holds content pipeline settings
type ContentConfig struct {
	MapConcurrency int
	CacheScope     string // "request" or "process"
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// LoadEnvFiles loads the local dotenv files that exist and returns their names.
func LoadEnvFiles() ([]string, error) {
	loaded := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return loaded, fmt.Errorf("failed to load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Notion: NotionConfig{
			Token:      os.Getenv("NOTION_TOKEN"),
			DatabaseID: os.Getenv("NOTION_DATABASE_ID"),
			BaseURL:    getEnv("NOTION_API_URL", "https://api.notion.com/v1"),
			Version:    getEnv("NOTION_VERSION", "2022-06-28"),
			Timeout:    getDurationEnv("NOTION_TIMEOUT", 30*time.Second),
		},
		Content: ContentConfig{
			MapConcurrency: getIntEnv("CONTENT_MAP_CONCURRENCY", 8),
			CacheScope:     getEnv("CONTENT_CACHE_SCOPE", ScopeRequest),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", defaultLogFormat()),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Notion.Token == "" {
		return fmt.Errorf("NOTION_TOKEN is required")
	}
	if c.Notion.DatabaseID == "" {
		return fmt.Errorf("NOTION_DATABASE_ID is required")
	}
	if c.Content.CacheScope != ScopeRequest && c.Content.CacheScope != ScopeProcess {
		return fmt.Errorf("CONTENT_CACHE_SCOPE must be one of: %s, %s", ScopeRequest, ScopeProcess)
	}
	if c.Content.MapConcurrency < 1 {
		return fmt.Errorf("CONTENT_MAP_CONCURRENCY must be at least 1")
	}
	return nil
}

// TokenPreview returns a redacted form of the integration token for diagnostics
func (c *NotionConfig) TokenPreview() string {
	if c.Token == "" {
		return "NOT SET"
	}
	if len(c.Token) <= 12 {
		return "***"
	}
	return c.Token[:12] + "..."
}

// Helper functions for environment variable parsing

func defaultLogFormat() string {
	if os.Getenv("ENV") == "development" {
		return "pretty"
	}
	return "json"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
