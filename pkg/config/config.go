package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Every environment
// variable is read here and nowhere else; components receive explicit
// structs so several backtests with different parameters can coexist in
// one process.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// MOEX ISS market data API
	MOEX MOEXConfig

	// Backtest defaults (overridable per call)
	Backtest BacktestConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MOEXConfig holds MOEX ISS API configuration.
type MOEXConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RateLimit      int           // max requests per window
	RateWindow     time.Duration // sliding window size
}

// BacktestConfig holds the default backtest parameters. Session cutoffs
// classify events as live-market noise; entry/exit times set the execution
// window and are tuned independently of the cutoffs.
type BacktestConfig struct {
	IndexTicker    string // benchmark index, never scored as a tradable event
	SessionOpen    string // "HH:MM"
	SessionClose   string // "HH:MM"
	EntryTime      string // "HH:MM"
	ExitTime       string // "HH:MM"
	IncludeIndex   bool   // net out the benchmark's own return
	ExcludeNeutral bool   // drop signal=0 events before pricing
	BenchmarkRuns  int    // Monte Carlo runs for the random benchmark
	SeedOffset     int64  // base seed for run i = SeedOffset + i
}

// Load reads configuration from environment variables, trying .env files
// first. Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8085"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		MOEX: MOEXConfig{
			BaseURL:        getEnv("MOEX_BASE_URL", "https://iss.moex.com/iss"),
			RequestTimeout: getEnvAsDuration("MOEX_REQUEST_TIMEOUT", "30s"),
			RateLimit:      getEnvAsInt("MOEX_RATE_LIMIT", 50),
			RateWindow:     getEnvAsDuration("MOEX_RATE_WINDOW", "1m"),
		},

		Backtest: BacktestConfig{
			IndexTicker:    getEnv("INDEX_TICKER", "IMOEX"),
			SessionOpen:    getEnv("SESSION_OPEN", "09:51"),
			SessionClose:   getEnv("SESSION_CLOSE", "18:49"),
			EntryTime:      getEnv("ENTRY_TIME", "10:01"),
			ExitTime:       getEnv("EXIT_TIME", "18:39"),
			IncludeIndex:   getEnvAsBool("INCLUDE_INDEX", true),
			ExcludeNeutral: getEnvAsBool("EXCLUDE_NEUTRAL", true),
			BenchmarkRuns:  getEnvAsInt("BENCHMARK_RUNS", 100),
			SeedOffset:     int64(getEnvAsInt("SEED_OFFSET", 0)),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Backtest.IndexTicker == "" {
		return fmt.Errorf("INDEX_TICKER must not be empty")
	}

	for _, tod := range []string{
		c.Backtest.SessionOpen, c.Backtest.SessionClose,
		c.Backtest.EntryTime, c.Backtest.ExitTime,
	} {
		if err := validateTimeOfDay(tod); err != nil {
			return err
		}
	}

	if c.Backtest.BenchmarkRuns < 1 {
		return fmt.Errorf("BENCHMARK_RUNS must be positive")
	}

	return nil
}

func validateTimeOfDay(s string) error {
	var hh, mm int
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return fmt.Errorf("time of day %q out of range", s)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
