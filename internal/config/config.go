// Package config provides configuration structures and validation for the
// economist service. It handles environment-based configuration for all major
// components: the Discord gateway, database connection, market worker,
// chart export and the ops HTTP server.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Discord     DiscordConfig
	Postgres    PostgresConfig
	Kafka       KafkaConfig
	Market      MarketConfig
	Chart       ChartConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains the ops HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// DiscordConfig contains Discord gateway configuration
type DiscordConfig struct {
	Token   string // Bot token
	GuildID string // Optional; empty registers commands globally
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// KafkaConfig contains Kafka configuration for record announcements
type KafkaConfig struct {
	Brokers           string
	RecordsTopic      string // Topic materialized daily records are announced on
	NumPartitions     int
	ReplicationFactor int
	WriteTimeout      time.Duration
}

// MarketConfig contains the valuation worker's trading-day parameters.
// Opening and closing boundaries are clock times of day evaluated in UTC.
type MarketConfig struct {
	OpeningTime   string
	ClosingTime   string
	PollInterval  time.Duration
	SnapshotLimit int // Page size for the boundary currency-list fetch
}

// ChartConfig contains chart rendering and publishing configuration
type ChartConfig struct {
	BaseURL        string        // External chart store endpoint
	HistoryLimit   int           // Number of recent records plotted per chart
	PublishTimeout time.Duration // Timeout for one chart upload
}

// WorkerPoolConfig contains worker pool configuration for chart export fan-out
type WorkerPoolConfig struct {
	Size int
}

// clockLayout is the accepted format for market boundary times of day.
const clockLayout = "15:04"

// OpeningClock parses the configured opening boundary. Validation guarantees
// this cannot fail after startup.
func (m *MarketConfig) OpeningClock() (time.Time, error) {
	return time.Parse(clockLayout, m.OpeningTime)
}

// ClosingClock parses the configured closing boundary.
func (m *MarketConfig) ClosingClock() (time.Time, error) {
	return time.Parse(clockLayout, m.ClosingTime)
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Discord config
	if c.Discord.Token == "" {
		validationErrors = append(validationErrors, "DISCORD_TOKEN is required")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.RecordsTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_RECORDS_TOPIC is required")
	}
	if c.Kafka.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
	}

	// Validate Market config
	opening, errOpen := c.Market.OpeningClock()
	if errOpen != nil {
		validationErrors = append(validationErrors, "MARKET_OPENING_TIME must be a clock time in 15:04 format")
	}
	closing, errClose := c.Market.ClosingClock()
	if errClose != nil {
		validationErrors = append(validationErrors, "MARKET_CLOSING_TIME must be a clock time in 15:04 format")
	}
	if errOpen == nil && errClose == nil && !opening.Before(closing) {
		validationErrors = append(validationErrors, "MARKET_OPENING_TIME must be earlier than MARKET_CLOSING_TIME")
	}
	if c.Market.PollInterval <= 0 {
		validationErrors = append(validationErrors, "MARKET_POLL_INTERVAL must be greater than 0")
	}
	if c.Market.SnapshotLimit <= 0 {
		validationErrors = append(validationErrors, "MARKET_SNAPSHOT_LIMIT must be greater than 0")
	}

	// Validate Chart config
	if c.Chart.BaseURL == "" {
		validationErrors = append(validationErrors, "CHART_BASE_URL is required")
	}
	if c.Chart.HistoryLimit <= 0 {
		validationErrors = append(validationErrors, "CHART_HISTORY_LIMIT must be greater than 0")
	}
	if c.Chart.PublishTimeout <= 0 {
		validationErrors = append(validationErrors, "CHART_PUBLISH_TIMEOUT must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
