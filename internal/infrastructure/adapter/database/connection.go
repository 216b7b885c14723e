package database

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connection holds database connection and configuration
type Connection struct {
	DB     *gorm.DB
	Config *Config
}

// NewConnection establishes a new database connection with the given configuration
func NewConnection(config *Config) (*Connection, error) {
	// Validate configuration before connecting
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	// Configure GORM logger based on config
	logLevel := logger.Info
	switch config.LogLevel {
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(config.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{
		DB:     db,
		Config: config,
	}, nil
}

// ConnectWithRetry establishes a connection, retrying transient failures with
// backoff. Used at startup when the database may still be coming up.
func ConnectWithRetry(ctx context.Context, config *Config, log coreport.Logger) (*Connection, error) {
	var conn *Connection

	retryConfig := RetryConfig{
		MaxRetries:    config.RetryAttempts,
		RetryInterval: config.RetryDelay,
		MaxInterval:   30 * time.Second,
		JitterFactor:  0.2,
	}

	err := RetryOnTransientError(ctx, retryConfig, func() error {
		var connectErr error
		conn, connectErr = NewConnection(config)
		return connectErr
	}, log)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
