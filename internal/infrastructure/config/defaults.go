package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "cartel"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "cartel"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "cartel.db"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/cartel-daemon.pid"
	}
	if cfg.Daemon.MissionSweepInterval == 0 {
		cfg.Daemon.MissionSweepInterval = 5 * time.Minute
	}
	if cfg.Daemon.HourlySweepInterval == 0 {
		cfg.Daemon.HourlySweepInterval = 1 * time.Hour
	}
	if cfg.Daemon.SweepRate == 0 {
		cfg.Daemon.SweepRate = 20
	}
	if cfg.Daemon.SweepBurst == 0 {
		cfg.Daemon.SweepBurst = 5
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Daemon.HealthInterval == 0 {
		cfg.Daemon.HealthInterval = 15 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
