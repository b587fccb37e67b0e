package config

// Environment names the deployment stage the process runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Environments lists the accepted environment names in promotion order.
var Environments = []Environment{EnvDevelopment, EnvStaging, EnvProduction}

// LogLevel names the minimum level emitted by the application logger.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogLevels lists the accepted log levels from most to least verbose.
var LogLevels = []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}

// Config is one validated configuration snapshot. Snapshots are replaced
// wholesale on reload and never mutated in place; use Clone before handing one
// to code that may modify it.
type Config struct {
	Environment Environment `json:"environment" yaml:"environment" validate:"oneof=development staging production"`
	LogLevel    LogLevel    `json:"logLevel" yaml:"logLevel" validate:"oneof=debug info warn error"`
	Port        int         `json:"port" yaml:"port" validate:"min=1,max=65535"`
	Database    *Database   `json:"database,omitempty" yaml:"database,omitempty"`
	Features    Features    `json:"features" yaml:"features"`
}

// Database holds connection details for the optional relational store.
type Database struct {
	Host     string `json:"host" yaml:"host" validate:"required"`
	Port     int    `json:"port" yaml:"port"`
	Name     string `json:"database" yaml:"database" validate:"required"`
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"password" yaml:"password" validate:"required"`
	SSL      bool   `json:"ssl" yaml:"ssl"`
}

// Features toggles optional behaviour.
type Features struct {
	EnableMetrics   bool `json:"enableMetrics" yaml:"enableMetrics"`
	EnableCaching   bool `json:"enableCaching" yaml:"enableCaching"`
	EnableDebugMode bool `json:"enableDebugMode" yaml:"enableDebugMode"`
}

// Clone returns a deep copy of the snapshot.
func (c Config) Clone() Config {
	out := c
	if c.Database != nil {
		db := *c.Database
		out.Database = &db
	}
	return out
}

// Select returns the value matching env. Unknown environments fall back to
// the development value.
func Select[T any](env Environment, dev, staging, prod T) T {
	switch env {
	case EnvStaging:
		return staging
	case EnvProduction:
		return prod
	default:
		return dev
	}
}
