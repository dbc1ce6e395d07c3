package config

import "time"

// DatabaseConfig selects and configures the storage backend. SQLite is
// the default for single-host installs; postgres is for shared ones.
type DatabaseConfig struct {
	// "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// SQLite database file; ":memory:" for an ephemeral database
	Path string `mapstructure:"path"`

	// Full postgres URL; takes precedence over the individual fields
	URL string `mapstructure:"url"`

	// Individual postgres connection fields, used when URL is empty
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Connection pool settings, postgres only
	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig bounds the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}
