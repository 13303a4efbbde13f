package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// minLookback is the floor for the historical price window. Configured
// values below one minute are clamped up, matching the feed's m1 interval.
const minLookback = 60 * time.Second

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// External price feed
	FeedBaseURL string
	FeedTimeout time.Duration

	// Historical price lookback for first-time currency registration.
	HistoryLookback time.Duration

	// Price refresh scheduler
	RefreshInterval  time.Duration
	RefreshBatchSize int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cryptowallet"),
		DBPassword: getEnv("DB_PASSWORD", "cryptowallet"),
		DBName:     getEnv("DB_NAME", "cryptowallet"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Feed
		FeedBaseURL: getEnv("COINCAP_API_URL", "https://api.coincap.io/v2"),
	}

	config.FeedTimeout = getEnvDuration("FEED_TIMEOUT", 10*time.Second)
	config.RefreshInterval = getEnvDuration("PRICE_REFRESH_INTERVAL", 60*time.Second)
	config.RefreshBatchSize = getEnvInt("REFRESH_BATCH_SIZE", 3)
	if config.RefreshBatchSize < 1 {
		log.Printf("Warning: REFRESH_BATCH_SIZE must be positive, falling back to 3\n")
		config.RefreshBatchSize = 3
	}

	lookbackMs := getEnvInt("HISTORY_LOOKBACK_MS", 60000)
	config.HistoryLookback = time.Duration(lookbackMs) * time.Millisecond
	if config.HistoryLookback < minLookback {
		config.HistoryLookback = minLookback
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration parses a duration environment variable, falling back to the
// default on missing or malformed values.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvInt parses an integer environment variable, falling back to the
// default on missing or malformed values.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
