// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Calculator CalculatorConfig        `mapstructure:"calculator"`
	Highlight  HighlightConfig         `mapstructure:"highlight"`
	Server     ServerConfig            `mapstructure:"server"`
	Registry   RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress          string `mapstructure:"broker_address"`
	UsePlaintextConnection bool   `mapstructure:"use_plaintext_connection"`
	MaxJobsActive          int    `mapstructure:"max_jobs_active"`
	Timeout                int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout         int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	MaxJobsActive  int  `mapstructure:"max_jobs_active"`
	Timeout        int  `mapstructure:"timeout"` // milliseconds
	MaxRetries     int  `mapstructure:"max_retries"`
	ValidateOutput bool `mapstructure:"validate_output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// --- Domain Configuration ---

// Profile sources understood by CalculatorConfig.ProfileSource.
const (
	ProfileSourceConfig   = "config"
	ProfileSourceRedis    = "redis"
	ProfileSourcePostgres = "postgres"
)

// CalculatorConfig selects where the business profile table comes from.
type CalculatorConfig struct {
	ProfileSource string          `mapstructure:"profile_source"`
	Profiles      []ProfileConfig `mapstructure:"profiles"`
	RedisKey      string          `mapstructure:"redis_key"`
	PostgresTable string          `mapstructure:"postgres_table"`
}

// ProfileConfig is one inline table row.
type ProfileConfig struct {
	ID            string `mapstructure:"id"`
	BaselineHours int    `mapstructure:"baseline_hours"`
	SavedHours    int    `mapstructure:"saved_hours"`
}

// HighlightConfig holds the two highlight card variants.
type HighlightConfig struct {
	Variants []HighlightVariantConfig `mapstructure:"variants"`
}

type HighlightVariantConfig struct {
	Key         string `mapstructure:"key"`
	Title       string `mapstructure:"title"`
	Body        string `mapstructure:"body"`
	MetricLabel string `mapstructure:"metric_label"`
	MetricValue string `mapstructure:"metric_value"`
}

// ServerConfig holds the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// RegistryConfig points at the activity registry JSON.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
