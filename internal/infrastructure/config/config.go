package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Donation    DonationConfig `mapstructure:"donation"`
	Gateway     GatewayConfig  `mapstructure:"gateway"`
	Lottery     LotteryConfig  `mapstructure:"lottery"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"timeFormat"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// DonationConfig contains donation processing settings
type DonationConfig struct {
	ChargeTimeout           time.Duration `mapstructure:"chargeTimeout"` // seconds
	StatusQueryMaxAttempts  int           `mapstructure:"statusQueryMaxAttempts"`
	StatusQueryBackoffMs    int64         `mapstructure:"statusQueryBackoffMs"`
	StatusQueryMaxBackoffMs int64         `mapstructure:"statusQueryMaxBackoffMs"`
}

// GatewayConfig contains payment gateway endpoints and credentials
type GatewayConfig struct {
	Primary  GatewayEndpoint `mapstructure:"primary"`
	Regional GatewayEndpoint `mapstructure:"regional"`
}

// GatewayEndpoint describes one gateway's HTTP endpoint
type GatewayEndpoint struct {
	BaseURL string        `mapstructure:"baseUrl"`
	APIKey  string        `mapstructure:"apiKey"`
	Timeout time.Duration `mapstructure:"timeout"` // seconds
}

// LotteryConfig contains lottery fulfillment settings
type LotteryConfig struct {
	DrawSweepSchedule     string `mapstructure:"drawSweepSchedule"`
	PurchaseLimitTickets  int    `mapstructure:"purchaseLimitTickets"`
	PurchaseLimitWindowMs int64  `mapstructure:"purchaseLimitWindowMs"`
}
