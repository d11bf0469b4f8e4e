// Package configs loads the service configuration from the environment,
// optionally seeded from a .env file.
package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	URL      string
	MaxConns int
}

type RabbitMQConfig struct {
	URL string
}

type RESTConfig struct {
	Port string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// ScraperConfig carries the crawl pipeline knobs shared by all sites. Per
// site politeness (delays, parallelism, page budget) lives on the adapters.
type ScraperConfig struct {
	Interval        time.Duration
	RunDeadline     time.Duration
	ProcessWorkers  int
	RequestTimeout  time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
}

type AppConfig struct {
	AppName      string
	Database     DBConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTConfig
	Scraper      ScraperConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads the environment, optionally seeded from the given .env
// path. A missing .env file is not an error; missing required variables are.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: could not load .env file (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "scraper-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.Port = getEnvAsString("PORT", "8080")

	cfg.Scraper.Interval = getEnvAsDuration("SCRAPE_INTERVAL", 2*time.Hour)
	cfg.Scraper.RunDeadline = getEnvAsDuration("SCRAPE_RUN_DEADLINE", 10*time.Minute)
	cfg.Scraper.ProcessWorkers = getEnvAsInt("SCRAPE_PROCESS_WORKERS", 4)
	cfg.Scraper.RequestTimeout = getEnvAsDuration("SCRAPE_REQUEST_TIMEOUT", 30*time.Second)
	cfg.Scraper.MaxRetries = getEnvAsInt("SCRAPE_MAX_RETRIES", 2)
	cfg.Scraper.RetryBackoff = getEnvAsDuration("SCRAPE_RETRY_BACKOFF", 2*time.Second)
	cfg.Scraper.RetryBackoffMax = getEnvAsDuration("SCRAPE_RETRY_BACKOFF_MAX", 30*time.Second)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = getEnvAsString("FLUENTBIT_HOST", "localhost")
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
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
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: invalid int in %s=%q, using default %d\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: invalid bool in %s=%q, using default %v\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return valueBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: invalid duration in %s=%q, using default %s\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
