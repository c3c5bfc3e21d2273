package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Gemma     GemmaConfig
	Assistant AssistantConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// GemmaConfig holds the local language model endpoint configuration
type GemmaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AssistantConfig holds the conversational engine tuning knobs
type AssistantConfig struct {
	// HistoryWindow is how many prior turns the classifier may see
	HistoryWindow int
	// ListLimit bounds mentee listings
	ListLimit int
	// AggregatePage bounds how many responses an aggregate run reads
	AggregatePage int
	// SampleSize bounds how many responses get full model analysis
	SampleSize int
	// CountsCacheTTL bounds staleness of the coarse totals cache
	CountsCacheTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "crm_assistant"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Gemma: GemmaConfig{
			BaseURL: getEnv("GEMMA_BASE_URL", "http://localhost:11434"),
			Model:   getEnv("GEMMA_MODEL", "gemma3:1b"),
			Timeout: getEnvAsDuration("GEMMA_TIMEOUT", "30s"),
		},
		Assistant: AssistantConfig{
			HistoryWindow:  getEnvAsInt("ASSISTANT_HISTORY_WINDOW", 5),
			ListLimit:      getEnvAsInt("ASSISTANT_LIST_LIMIT", 20),
			AggregatePage:  getEnvAsInt("ASSISTANT_AGGREGATE_PAGE", 50),
			SampleSize:     getEnvAsInt("ASSISTANT_SAMPLE_SIZE", 10),
			CountsCacheTTL: getEnvAsDuration("ASSISTANT_COUNTS_TTL", "60s"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gemma.BaseURL == "" {
		return fmt.Errorf("GEMMA_BASE_URL is required")
	}
	if c.Gemma.Model == "" {
		return fmt.Errorf("GEMMA_MODEL is required")
	}
	if c.Assistant.HistoryWindow < 0 {
		return fmt.Errorf("ASSISTANT_HISTORY_WINDOW must not be negative")
	}
	if c.Assistant.SampleSize > c.Assistant.AggregatePage {
		return fmt.Errorf("ASSISTANT_SAMPLE_SIZE must not exceed ASSISTANT_AGGREGATE_PAGE")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
