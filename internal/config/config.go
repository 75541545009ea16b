package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMySQL    = "mysql"
	StorageRedis    = "redis"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration

	StorageType  string
	DatabasePath string
	DatabaseURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// WriteTimeout bounds each progress write to the storage backend
	WriteTimeout time.Duration

	// SyllabusPath optionally points at a YAML file with an extra learning path
	SyllabusPath string
	LogMode      string

	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		StorageType:     getEnv("STORAGE_TYPE", StorageSQLite),
		DatabasePath:    getEnv("DB_PATH", "./abacusisland.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", 0),
		RedisPrefix:     getEnv("REDIS_PREFIX", "abacus:"),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 2*time.Second),
		SyllabusPath:    getEnv("SYLLABUS_PATH", ""),
		LogMode:         getEnv("LOG_MODE", "prod"),
		RateLimit:       getInt("RATE_LIMIT", 60),
		RateWindow:      getDuration("RATE_WINDOW", time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt falls back to the default when the variable is unset or malformed
func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
