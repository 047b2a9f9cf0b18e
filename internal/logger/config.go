package logger

import (
	"io"
	"os"
	"strconv"
)

// EnvConfig holds logger configuration loaded from environment variables.
type EnvConfig struct {
	Level       string    // debug, info, warn, error
	Format      string    // json, text
	Output      io.Writer // explicit destination, wins over everything else
	ServiceName string

	// Environment: local, dev, prod. Files are only written outside local.
	Environment string

	LogFile     string
	LogFileOnly bool

	// Rotation (lumberjack)
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *EnvConfig {
	return &EnvConfig{
		Level:       getEnv("LOG_LEVEL", "info"),
		Format:      getEnv("LOG_FORMAT", "json"),
		ServiceName: getEnv("SERVICE_NAME", "siscrap"),
		Environment: getEnv("APP_ENV", "local"),

		LogFile:     getEnv("LOG_FILE", "/var/log/siscrap/dashboard.log"),
		LogFileOnly: getEnvBool("LOG_FILE_ONLY", false),

		MaxSize:    getEnvInt("LOG_MAX_SIZE", 50),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 14),
		Compress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// ToConfig converts EnvConfig to the basic Config struct.
func (e *EnvConfig) ToConfig() *Config {
	return &Config{
		Level:       e.Level,
		Format:      e.Format,
		Output:      e.Output,
		ServiceName: e.ServiceName,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return i
}
