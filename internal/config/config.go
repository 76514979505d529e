package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Anomaly  AnomalyConfig
	Currency CurrencyConfig
	Log      LogConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	DBName     string
	SSLMode    string
	TestDBName string // Separate database for testing
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret string
}

// AnomalyConfig holds the detection thresholds. These are deliberately
// configuration, not constants baked into the detector.
type AnomalyConfig struct {
	ScopeOverrunMultiple  float64
	UnderperformanceWeeks int
	TrailingWindowWeeks   int
}

// CurrencyConfig bounds exchange-rate lookups.
type CurrencyConfig struct {
	LookupTimeout time.Duration
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig reads configuration from the environment with sane defaults.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "ratewise")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("test.db.name", "ratewise_test")
	v.SetDefault("jwt.secret", "your-secret-key-here")
	v.SetDefault("anomaly.scope.multiple", 1.5)
	v.SetDefault("anomaly.underperf.weeks", 2)
	v.SetDefault("anomaly.window.weeks", 4)
	v.SetDefault("currency.lookup.timeout", "2s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	return &Config{
		Server: ServerConfig{
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Host:       v.GetString("db.host"),
			Port:       v.GetInt("db.port"),
			Username:   v.GetString("db.username"),
			Password:   v.GetString("db.password"),
			DBName:     v.GetString("db.name"),
			SSLMode:    v.GetString("db.sslmode"),
			TestDBName: v.GetString("test.db.name"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt.secret"),
		},
		Anomaly: AnomalyConfig{
			ScopeOverrunMultiple:  v.GetFloat64("anomaly.scope.multiple"),
			UnderperformanceWeeks: v.GetInt("anomaly.underperf.weeks"),
			TrailingWindowWeeks:   v.GetInt("anomaly.window.weeks"),
		},
		Currency: CurrencyConfig{
			LookupTimeout: v.GetDuration("currency.lookup.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}
}
