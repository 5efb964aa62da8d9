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
	EnvDatabaseURL  = "DATABASE_URL"
	EnvDatabaseName = "DATABASE_NAME"
)

type Config struct {
	DatabaseURL  string
	DatabaseName string
	DBTimeout    time.Duration

	ServerHost  string
	ServerPort  string
	Environment string

	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies may set X-Forwarded-For; empty means the socket address is the client.
	TrustedProxies []string

	// Logging
	LogFilePath   string
	LogHMACKey    string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL:  os.Getenv(EnvDatabaseURL),
		DatabaseName: os.Getenv(EnvDatabaseName),
		DBTimeout:    time.Duration(getEnvAsInt("DB_TIMEOUT_SECONDS", 10)) * time.Second,

		ServerHost:  getEnv("HOST", "0.0.0.0"),
		ServerPort:  getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		LogFilePath:   getEnv("LOG_FILE_PATH", "/var/log/comics-service/app.log"),
		LogHMACKey:    getEnv("LOG_HMAC_KEY", "default-hmac-key-change-in-production"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
	}
}

// Addr is the listen address, all interfaces unless HOST says otherwise.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != "" && c.DatabaseName != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
