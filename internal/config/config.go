package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/database"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFile        string
	DBDSN          string
	SessionSecret  string
	RedisHost      string
	RedisPort      string
	SeedFile       string
	SeedDisabled   bool
	TaskIDStrategy string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", gin.DebugMode),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		DBDSN:          getEnv("DB_DSN", ":memory:"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		RedisHost:      getEnv("REDIS_HOST", ""),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SeedFile:       getEnv("SEED_FILE", ""),
		SeedDisabled:   getEnvBool("SEED_DISABLED", false),
		TaskIDStrategy: getEnv("TASK_ID_STRATEGY", constants.TaskIDStrategySequence),
	}
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("invalid GIN_MODE %q", c.GinMode)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	switch c.TaskIDStrategy {
	case constants.TaskIDStrategySequence, constants.TaskIDStrategyUUID:
	default:
		return fmt.Errorf("invalid TASK_ID_STRATEGY %q", c.TaskIDStrategy)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN cannot be empty")
	}
	if !database.IsMemoryDSN(c.DBDSN) {
		return fmt.Errorf("DB_DSN %q must be an in-memory SQLite DSN", c.DBDSN)
	}
	if c.GinMode == gin.ReleaseMode && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes in release mode")
	}
	return nil
}

// UseRedis reports whether sessions should be kept in Redis
func (c *Config) UseRedis() bool {
	return c.RedisHost != ""
}

// RedisAddr returns host:port of the session store
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// IsProduction reports whether cookies should be marked secure
func (c *Config) IsProduction() bool {
	return c.GinMode == gin.ReleaseMode
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
