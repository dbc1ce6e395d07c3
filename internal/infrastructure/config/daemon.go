package config

import "time"

// DaemonConfig holds scheduler daemon configuration
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// How often the mission sweep runs
	MissionSweepInterval time.Duration `mapstructure:"mission_sweep_interval" validate:"required"`

	// How often the hourly sweeps (heat, payroll, roster, market) run
	HourlySweepInterval time.Duration `mapstructure:"hourly_sweep_interval" validate:"required"`

	// Mission resolution pacing after a backlog (resolutions per second)
	SweepRate  float64 `mapstructure:"sweep_rate" validate:"min=0"`
	SweepBurst int     `mapstructure:"sweep_burst" validate:"min=1"`

	// How often the daemon logs a health line with sweep timings
	HealthInterval time.Duration `mapstructure:"health_interval" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
