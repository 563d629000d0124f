package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   Server
	Database Database
	CORS     CORS
	Market   Market
	Yahoo    Yahoo
	Cache    Cache
}

// Server holds server-specific configuration
type Server struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// Database holds database-specific configuration
type Database struct {
	Path string
}

// CORS holds CORS-specific configuration
type CORS struct {
	AllowedOrigins []string
}

// Market holds the batch symbol list and the nightly update policy knobs.
type Market struct {
	// Symbols is the fixed list refreshed by the nightly batch.
	Symbols []string
	// Timezone is the exchange's local time zone, used to decide when the
	// nightly update wakes and what "today" means for the freshness check.
	Timezone string
	// RetryInterval is the pause after each update cycle before the next wake
	// time is computed, guarding against tight error loops.
	RetryInterval time.Duration
	// FetchPacing is the delay between per-symbol provider requests.
	FetchPacing time.Duration
}

// Yahoo holds quote provider configuration.
type Yahoo struct {
	BaseURL string
}

// Cache holds response cache configuration.
type Cache struct {
	TTL time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: Server{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: Database{
			Path: getEnv("DB_PATH", "./data/stockmarket.db"),
		},
		CORS: CORS{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
		Market: Market{
			Symbols:       splitSymbols(getEnv("SYMBOLS", "AAPL,MSFT,GOOGL,AMZN,META")),
			Timezone:      getEnv("MARKET_TIMEZONE", "America/New_York"),
			RetryInterval: time.Duration(getEnvInt("UPDATE_RETRY_INTERVAL", 60)) * time.Second,
			FetchPacing:   time.Duration(getEnvInt("FETCH_PACING", 1)) * time.Second,
		},
		Yahoo: Yahoo{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},
		Cache: Cache{
			TTL: time.Duration(getEnvInt("CACHE_EXPIRY", 300)) * time.Second,
		},
	}

	if len(config.Market.Symbols) == 0 {
		return nil, fmt.Errorf("SYMBOLS must contain at least one symbol")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// splitSymbols parses a comma-separated symbol list, trimming whitespace and
// uppercasing each entry. Empty entries are dropped.
func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
