package cli

import (
	"os"
	"strconv"
)

// Config holds server configuration, sourced from the environment with flag
// overrides.
type Config struct {
	Host        string
	Port        int
	StorageType string
	RedisURL    string
	LogLevel    string
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() *Config {
	return &Config{
		Host:        os.Getenv("SOUNDROUND_HOST"),
		Port:        getEnvInt("SOUNDROUND_PORT", 8080),
		StorageType: os.Getenv("STORAGE_TYPE"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
